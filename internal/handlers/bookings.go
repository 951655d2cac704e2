package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"tutorhub/internal/middleware"
	"tutorhub/internal/money"
	"tutorhub/internal/services"
	"tutorhub/internal/validator"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type createBookingRequest struct {
	TutorID   string  `json:"tutor_id"`
	Subject   string  `json:"subject"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Type      string  `json:"type"`
	Amount    string  `json:"amount"`
	Address   *string `json:"address"`
	Notes     *string `json:"notes"`
}

const duplicateBookingMessage = "您在这一天已经预约过该老师了，请选择其他日期或老师"

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	studentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.TutorID == "" || req.Subject == "" {
		respondError(w, http.StatusBadRequest, "tutor_id and subject are required")
		return
	}
	startTime, endTime, err := parseTimeWindow(req.StartTime, req.EndTime)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid time window")
		return
	}
	sessionType := req.Type
	if sessionType == "" {
		sessionType = "online"
	}
	if err := validator.ValidateSessionType(sessionType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var amountMinor int64
	if req.Amount != "" {
		amountMinor, err = money.ParseMinor(req.Amount)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid amount")
			return
		}
	}
	bookingID, err := h.service.Create(r.Context(), services.CreateBookingRequest{
		StudentID: studentID,
		TutorID:   req.TutorID,
		Subject:   req.Subject,
		Amount:    amountMinor,
		StartTime: startTime,
		EndTime:   endTime,
		Type:      sessionType,
		Address:   req.Address,
		Notes:     req.Notes,
	})
	if err != nil {
		switch err {
		case services.ErrDuplicateBooking:
			respondError(w, http.StatusConflict, duplicateBookingMessage)
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "Invalid amount")
		case services.ErrInvalidTimeWindow:
			respondError(w, http.StatusBadRequest, "Invalid time window")
		case services.ErrTutorNotFound:
			respondError(w, http.StatusNotFound, "Tutor not found")
		default:
			h.logger.Error("booking creation failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message":   "Booking created successfully",
		"bookingId": bookingID,
	})
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	studentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	bookings, err := h.bookings.ListByStudent(r.Context(), studentID)
	if err != nil {
		h.logger.Error("booking listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	normalized := make([]map[string]any, 0, len(bookings))
	for _, booking := range bookings {
		normalized = append(normalized, map[string]any{
			"id":            booking.ID,
			"tutorId":       booking.TutorID,
			"tutorName":     booking.TutorName,
			"tutorImage":    derefString(booking.TutorAvatar),
			"tutorGender":   derefString(booking.TutorGender),
			"tutorTitle":    booking.TutorTitle,
			"subject":       booking.Subject,
			"status":        booking.Status,
			"paymentStatus": booking.PaymentStatus,
			"amount":        valueToMoney(booking.Amount),
			"startTime":     booking.StartTime,
			"endTime":       booking.EndTime,
			"type":          booking.Type,
			"address":       derefString(booking.Address),
			"notes":         derefString(booking.Notes),
			"createdAt":     booking.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	studentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	bookingID := chi.URLParam(r, "id")
	if err := h.service.Cancel(r.Context(), studentID, bookingID); err != nil {
		switch err {
		case services.ErrBookingNotFound:
			respondError(w, http.StatusNotFound, "Booking not found")
		case services.ErrNotCancelable:
			respondError(w, http.StatusBadRequest, "Only pending bookings can be canceled")
		default:
			h.logger.Error("booking cancellation failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Booking canceled successfully"})
}

func (h *Handler) PayBooking(w http.ResponseWriter, r *http.Request) {
	studentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	bookingID := chi.URLParam(r, "id")
	newBalance, err := h.service.Pay(r.Context(), studentID, bookingID)
	if err != nil {
		switch err {
		case services.ErrBookingNotFound:
			respondError(w, http.StatusNotFound, "Booking not found")
		case services.ErrNotApproved:
			respondError(w, http.StatusBadRequest, "Only approved bookings can be paid")
		case services.ErrAlreadyPaid:
			respondError(w, http.StatusBadRequest, "Booking already paid")
		case services.ErrInsufficientBalance:
			respondError(w, http.StatusBadRequest, "Insufficient balance")
		default:
			h.logger.Error("booking payment failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":    "Payment successful",
		"newBalance": money.FormatMinor(newBalance),
	})
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	balance, err := h.users.GetBalance(r.Context(), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("balance lookup failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"balance": money.FormatMinor(balance)})
}

func (h *Handler) ListAccountLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	logs, err := h.accountLog.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("account log listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	normalized := make([]map[string]any, 0, len(logs))
	for _, entry := range logs {
		normalized = append(normalized, map[string]any{
			"id":            entry.ID,
			"changeAmount":  money.FormatMinor(entry.ChangeAmount),
			"beforeBalance": money.FormatMinor(entry.BeforeBalance),
			"afterBalance":  money.FormatMinor(entry.AfterBalance),
			"bizType":       entry.BizType,
			"bizId":         entry.BizID,
			"remark":        entry.Remark,
			"createdAt":     entry.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func parseTimeWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	startTime, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endTime, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return startTime, endTime, nil
}
