package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tutorhub/internal/db"
	"tutorhub/internal/models"
	"tutorhub/internal/money"
	"tutorhub/internal/store"
	"tutorhub/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrDuplicateBooking    = errors.New("duplicate booking for tutor on this day")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrNotCancelable       = errors.New("only pending bookings can be canceled")
	ErrNotApproved         = errors.New("only approved bookings can be paid")
	ErrAlreadyPaid         = errors.New("booking already paid")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidTimeWindow   = errors.New("invalid time window")
	ErrTutorNotFound       = errors.New("tutor not found")
)

const bizTypeBookingPayment = "BOOKING_PAYMENT"

type BookingService struct {
	txRunner   db.TxRunner
	users      UserStore
	tutors     TutorStore
	bookings   BookingStore
	accountLog AccountLogStore
	hub        WalletHub
	logger     *zap.Logger
}

type UserStore interface {
	GetBalanceForUpdate(ctx context.Context, tx store.Getter, userID string) (int64, error)
	UpdateBalance(ctx context.Context, tx store.Execer, userID string, balance int64) error
}

type TutorStore interface {
	GetByID(ctx context.Context, tutorID string) (store.TutorWithUser, error)
}

type BookingStore interface {
	Create(ctx context.Context, tx store.Execer, input store.BookingInput) error
	ExistsActiveOnDay(ctx context.Context, studentID, tutorID string, day time.Time) (bool, error)
	GetForUpdate(ctx context.Context, tx store.Getter, bookingID, studentID string) (models.Booking, error)
	UpdateStatus(ctx context.Context, tx store.Execer, bookingID, status string) error
	MarkPaid(ctx context.Context, tx store.Execer, bookingID string) error
}

type AccountLogStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.AccountLogInput) error
}

type WalletHub interface {
	BroadcastWallet(userID string, update websocket.WalletUpdate)
}

func NewBookingService(txRunner db.TxRunner, users UserStore, tutors TutorStore, bookings BookingStore, accountLog AccountLogStore, hub WalletHub, logger *zap.Logger) *BookingService {
	return &BookingService{
		txRunner:   txRunner,
		users:      users,
		tutors:     tutors,
		bookings:   bookings,
		accountLog: accountLog,
		hub:        hub,
		logger:     logger,
	}
}

type CreateBookingRequest struct {
	StudentID string
	TutorID   string
	Subject   string
	Amount    int64
	StartTime time.Time
	EndTime   time.Time
	Type      string
	Address   *string
	Notes     *string
}

// Create inserts a pending, unpaid booking. A student may hold at most one
// non-canceled booking per tutor per calendar day; the pre-insert check
// gives the friendly rejection and the partial unique index closes the
// race two simultaneous requests would otherwise win together.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (string, error) {
	if req.Amount < 0 {
		return "", ErrInvalidAmount
	}
	if !req.EndTime.After(req.StartTime) {
		return "", ErrInvalidTimeWindow
	}
	exists, err := s.bookings.ExistsActiveOnDay(ctx, req.StudentID, req.TutorID, req.StartTime)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDuplicateBooking
	}
	amount := req.Amount
	if amount == 0 {
		tutor, err := s.tutors.GetByID(ctx, req.TutorID)
		if err != nil {
			if err == sql.ErrNoRows {
				return "", ErrTutorNotFound
			}
			return "", err
		}
		amount = SessionAmount(tutor.PricePerHour, req.StartTime, req.EndTime)
	}
	bookingID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.bookings.Create(ctx, tx, store.BookingInput{
			ID:        bookingID,
			StudentID: req.StudentID,
			TutorID:   req.TutorID,
			Subject:   req.Subject,
			Amount:    amount,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Type:      req.Type,
			Address:   req.Address,
			Notes:     req.Notes,
		})
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return "", ErrDuplicateBooking
		}
		return "", err
	}
	return bookingID, nil
}

// Cancel flips a pending booking to canceled. Unpaid bookings never touched
// the balance, so there is no ledger effect.
func (s *BookingService) Cancel(ctx context.Context, studentID, bookingID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.bookings.GetForUpdate(ctx, tx, bookingID, studentID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != "pending" {
			return ErrNotCancelable
		}
		return s.bookings.UpdateStatus(ctx, tx, bookingID, "canceled")
	})
}

// Pay debits the student's balance, marks the booking paid, and appends the
// account-log row, all inside one transaction. Any failure rolls the whole
// thing back: a debited balance without its ledger row must never be
// observable.
func (s *BookingService) Pay(ctx context.Context, studentID, bookingID string) (int64, error) {
	var newBalance int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.bookings.GetForUpdate(ctx, tx, bookingID, studentID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != "approved" {
			return ErrNotApproved
		}
		if booking.PaymentStatus == "paid" {
			return ErrAlreadyPaid
		}
		balance, err := s.users.GetBalanceForUpdate(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if balance < booking.Amount {
			return ErrInsufficientBalance
		}
		newBalance = balance - booking.Amount
		if err := s.users.UpdateBalance(ctx, tx, studentID, newBalance); err != nil {
			return err
		}
		if err := s.bookings.MarkPaid(ctx, tx, bookingID); err != nil {
			return err
		}
		return s.accountLog.Insert(ctx, tx, store.AccountLogInput{
			ID:            uuid.NewString(),
			UserID:        studentID,
			ChangeAmount:  -booking.Amount,
			BeforeBalance: balance,
			AfterBalance:  newBalance,
			BizType:       bizTypeBookingPayment,
			BizID:         bookingID,
			Remark:        fmt.Sprintf("支付预约课程费用 - 预约ID: %s", bookingID),
		})
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("booking paid",
		zap.String("booking_id", bookingID),
		zap.String("student_id", studentID),
		zap.Int64("new_balance", newBalance))
	s.hub.BroadcastWallet(studentID, websocket.WalletUpdate{
		Balance: money.FormatMinor(newBalance),
	})
	return newBalance, nil
}

// SessionAmount prices a session from the tutor's hourly rate and the
// booked window, rounded to whole minor units.
func SessionAmount(pricePerHourMinor int64, start, end time.Time) int64 {
	hours := decimal.NewFromFloat(end.Sub(start).Hours())
	return decimal.NewFromInt(pricePerHourMinor).Mul(hours).RoundBank(0).IntPart()
}
