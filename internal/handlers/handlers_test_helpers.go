package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tutorhub/internal/auth"
	"tutorhub/internal/config"
	"tutorhub/internal/middleware"
	"tutorhub/internal/models"
	"tutorhub/internal/services"
	"tutorhub/internal/store"
	"tutorhub/internal/websocket"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, name, email, passwordHash, role string, balance int64) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
	getBalanceFn func(ctx context.Context, userID string) (int64, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, name, email, passwordHash, role string, balance int64) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, name, email, passwordHash, role, balance)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetBalance(ctx context.Context, userID string) (int64, error) {
	if s.getBalanceFn == nil {
		return 0, nil
	}
	return s.getBalanceFn(ctx, userID)
}

type stubTutorStore struct {
	listFn           func(ctx context.Context, filter store.TutorFilter) ([]store.TutorWithUser, error)
	getByIDFn        func(ctx context.Context, tutorID string) (store.TutorWithUser, error)
	tagsFn           func(ctx context.Context, tutorID string) ([]string, error)
	certificationsFn func(ctx context.Context, tutorID string) ([]models.Certification, error)
	reviewsFn        func(ctx context.Context, tutorID string) ([]store.ReviewWithAuthor, error)
}

func (s stubTutorStore) List(ctx context.Context, filter store.TutorFilter) ([]store.TutorWithUser, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, filter)
}

func (s stubTutorStore) GetByID(ctx context.Context, tutorID string) (store.TutorWithUser, error) {
	if s.getByIDFn == nil {
		return store.TutorWithUser{}, nil
	}
	return s.getByIDFn(ctx, tutorID)
}

func (s stubTutorStore) Tags(ctx context.Context, tutorID string) ([]string, error) {
	if s.tagsFn == nil {
		return nil, nil
	}
	return s.tagsFn(ctx, tutorID)
}

func (s stubTutorStore) Certifications(ctx context.Context, tutorID string) ([]models.Certification, error) {
	if s.certificationsFn == nil {
		return nil, nil
	}
	return s.certificationsFn(ctx, tutorID)
}

func (s stubTutorStore) Reviews(ctx context.Context, tutorID string) ([]store.ReviewWithAuthor, error) {
	if s.reviewsFn == nil {
		return nil, nil
	}
	return s.reviewsFn(ctx, tutorID)
}

type stubBookingStore struct {
	listByStudentFn func(ctx context.Context, studentID string) ([]store.BookingWithTutor, error)
}

func (s stubBookingStore) ListByStudent(ctx context.Context, studentID string) ([]store.BookingWithTutor, error) {
	if s.listByStudentFn == nil {
		return nil, nil
	}
	return s.listByStudentFn(ctx, studentID)
}

type stubAccountLogStore struct {
	insertFn     func(ctx context.Context, tx store.Execer, input store.AccountLogInput) error
	listByUserFn func(ctx context.Context, userID string) ([]models.AccountLogEntry, error)
}

func (s stubAccountLogStore) Insert(ctx context.Context, tx store.Execer, input store.AccountLogInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

func (s stubAccountLogStore) ListByUser(ctx context.Context, userID string) ([]models.AccountLogEntry, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubConversationStore struct {
	listByStudentFn func(ctx context.Context, studentID string) ([]store.ConversationSummary, error)
	ensureFn        func(ctx context.Context, id, studentID, tutorID string) (string, error)
	getForStudentFn func(ctx context.Context, conversationID, studentID string) (models.Conversation, error)
	messagesFn      func(ctx context.Context, conversationID string) ([]models.Message, error)
	insertMessageFn func(ctx context.Context, tx store.Execer, id, conversationID, senderID, text, messageType string) error
	touchFn         func(ctx context.Context, tx store.Execer, conversationID string) error
}

func (s stubConversationStore) ListByStudent(ctx context.Context, studentID string) ([]store.ConversationSummary, error) {
	if s.listByStudentFn == nil {
		return nil, nil
	}
	return s.listByStudentFn(ctx, studentID)
}

func (s stubConversationStore) Ensure(ctx context.Context, id, studentID, tutorID string) (string, error) {
	if s.ensureFn == nil {
		return id, nil
	}
	return s.ensureFn(ctx, id, studentID, tutorID)
}

func (s stubConversationStore) GetForStudent(ctx context.Context, conversationID, studentID string) (models.Conversation, error) {
	if s.getForStudentFn == nil {
		return models.Conversation{}, nil
	}
	return s.getForStudentFn(ctx, conversationID, studentID)
}

func (s stubConversationStore) Messages(ctx context.Context, conversationID string) ([]models.Message, error) {
	if s.messagesFn == nil {
		return nil, nil
	}
	return s.messagesFn(ctx, conversationID)
}

func (s stubConversationStore) InsertMessage(ctx context.Context, tx store.Execer, id, conversationID, senderID, text, messageType string) error {
	if s.insertMessageFn == nil {
		return nil
	}
	return s.insertMessageFn(ctx, tx, id, conversationID, senderID, text, messageType)
}

func (s stubConversationStore) Touch(ctx context.Context, tx store.Execer, conversationID string) error {
	if s.touchFn == nil {
		return nil
	}
	return s.touchFn(ctx, tx, conversationID)
}

type stubFavoriteStore struct {
	listByUserFn func(ctx context.Context, userID string) ([]store.TutorWithUser, error)
	addFn        func(ctx context.Context, id, userID, tutorID string) error
	removeFn     func(ctx context.Context, userID, tutorID string) (int64, error)
}

func (s stubFavoriteStore) ListByUser(ctx context.Context, userID string) ([]store.TutorWithUser, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubFavoriteStore) Add(ctx context.Context, id, userID, tutorID string) error {
	if s.addFn == nil {
		return nil
	}
	return s.addFn(ctx, id, userID, tutorID)
}

func (s stubFavoriteStore) Remove(ctx context.Context, userID, tutorID string) (int64, error) {
	if s.removeFn == nil {
		return 1, nil
	}
	return s.removeFn(ctx, userID, tutorID)
}

type stubBookingService struct {
	createFn func(ctx context.Context, req services.CreateBookingRequest) (string, error)
	cancelFn func(ctx context.Context, studentID, bookingID string) error
	payFn    func(ctx context.Context, studentID, bookingID string) (int64, error)
}

func (s stubBookingService) Create(ctx context.Context, req services.CreateBookingRequest) (string, error) {
	if s.createFn == nil {
		return "b1", nil
	}
	return s.createFn(ctx, req)
}

func (s stubBookingService) Cancel(ctx context.Context, studentID, bookingID string) error {
	if s.cancelFn == nil {
		return nil
	}
	return s.cancelFn(ctx, studentID, bookingID)
}

func (s stubBookingService) Pay(ctx context.Context, studentID, bookingID string) (int64, error) {
	if s.payFn == nil {
		return 0, nil
	}
	return s.payFn(ctx, studentID, bookingID)
}

func newTestHandler(txRunner fakeTxRunner, users UserStore, tutors TutorStore, bookings BookingStore, accountLog AccountLogStore, conversations ConversationStore, favorites FavoriteStore, service BookingService) *Handler {
	cfg := config.Config{
		AppEnv:          "test",
		Port:            "0",
		JWTSecret:       "secret",
		TokenTTLMinutes: 1,
		AllowedOrigins:  "*",
		SignupBonus:     10000,
	}
	return New(txRunner, cfg, zap.NewNop(), users, tutors, bookings, accountLog, conversations, favorites, service, websocket.NewHub())
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("secret", "user-1", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serveAuthed(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}

func stringPtr(value string) *string {
	return &value
}
