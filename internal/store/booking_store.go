package store

import (
	"context"
	"time"

	"tutorhub/internal/models"
)

type BookingStore struct {
	db DB
}

func NewBookingStore(db DB) *BookingStore {
	return &BookingStore{db: db}
}

type BookingInput struct {
	ID        string
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

type BookingWithTutor struct {
	models.Booking
	TutorName    string  `db:"tutor_name"`
	TutorAvatar  *string `db:"tutor_avatar"`
	TutorGender  *string `db:"tutor_gender"`
	TutorTitle   string  `db:"tutor_title"`
	PricePerHour int64   `db:"price_per_hour"`
}

func (s *BookingStore) Create(ctx context.Context, tx Execer, input BookingInput) error {
	query := `
		INSERT INTO bookings
			(id, student_id, tutor_id, subject, status, payment_status, amount,
			 start_time, end_time, booking_date, type, address, notes)
		VALUES ($1, $2, $3, $4, 'pending', 'unpaid', $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.StudentID, input.TutorID, input.Subject, input.Amount,
		input.StartTime, input.EndTime, input.StartTime.Format("2006-01-02"),
		input.Type, input.Address, input.Notes)
	return err
}

// ExistsActiveOnDay reports whether the student already holds a
// non-canceled booking with the tutor on the given calendar day.
func (s *BookingStore) ExistsActiveOnDay(ctx context.Context, studentID, tutorID string, day time.Time) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1
			FROM bookings
			WHERE student_id = $1 AND tutor_id = $2
			  AND booking_date = $3
			  AND status <> 'canceled'
		)
	`, studentID, tutorID, day.Format("2006-01-02"))
	return exists, err
}

func (s *BookingStore) ListByStudent(ctx context.Context, studentID string) ([]BookingWithTutor, error) {
	var rows []BookingWithTutor
	err := s.db.SelectContext(ctx, &rows, `
		SELECT b.id, b.student_id, b.tutor_id, b.subject, b.status, b.payment_status,
		       b.amount, b.start_time, b.end_time, b.type, b.address, b.notes, b.created_at,
		       u.name AS tutor_name, u.avatar AS tutor_avatar, u.gender AS tutor_gender,
		       t.title AS tutor_title, t.price_per_hour
		FROM bookings b
		JOIN tutors t ON b.tutor_id = t.id
		JOIN users u ON t.user_id = u.id
		WHERE b.student_id = $1
		ORDER BY b.created_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BookingStore) GetForUpdate(ctx context.Context, tx Getter, bookingID, studentID string) (models.Booking, error) {
	var row models.Booking
	err := tx.GetContext(ctx, &row, `
		SELECT id, student_id, tutor_id, subject, status, payment_status, amount,
		       start_time, end_time, type, address, notes, created_at
		FROM bookings
		WHERE id = $1 AND student_id = $2
		FOR UPDATE
	`, bookingID, studentID)
	if err != nil {
		return models.Booking{}, err
	}
	return row, nil
}

func (s *BookingStore) UpdateStatus(ctx context.Context, tx Execer, bookingID, status string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, bookingID)
	return err
}

func (s *BookingStore) MarkPaid(ctx context.Context, tx Execer, bookingID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET payment_status = 'paid', updated_at = NOW()
		WHERE id = $1
	`, bookingID)
	return err
}
