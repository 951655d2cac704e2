package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tutorhub/internal/auth"
	"tutorhub/internal/models"
	"tutorhub/internal/store"

	"github.com/lib/pq"
)

func TestRegisterCreatesStudentWithBonus(t *testing.T) {
	var createdBalance int64
	var createdRole string
	var bonusLog store.AccountLogInput
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		createFn: func(_ context.Context, _ store.Execer, _, _, _, _, role string, balance int64) error {
			createdRole = role
			createdBalance = balance
			return nil
		},
		getByIDFn: func(_ context.Context, userID string) (models.User, error) {
			return models.User{ID: userID, Name: "Ada", Email: "ada@example.com", Role: "student", Balance: 10000}, nil
		},
	}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{
		insertFn: func(_ context.Context, _ store.Execer, input store.AccountLogInput) error {
			bonusLog = input
			return nil
		},
	}, stubConversationStore{}, stubFavoriteStore{}, stubBookingService{})

	body := []byte(`{"name":"Ada","email":"ada@example.com","password":"longenough"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if createdRole != "student" || createdBalance != 10000 {
		t.Fatalf("unexpected user row: role=%q balance=%d", createdRole, createdBalance)
	}
	if bonusLog.BizType != "SIGNUP_BONUS" || bonusLog.ChangeAmount != 10000 || bonusLog.AfterBalance != 10000 {
		t.Fatalf("unexpected bonus entry: %#v", bonusLog)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["token"] == "" {
		t.Fatalf("expected token in response: %#v", payload)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		createFn: func(context.Context, store.Execer, string, string, string, string, string, int64) error {
			return &pq.Error{Code: "23505"}
		},
	}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{}, stubFavoriteStore{}, stubBookingService{})

	body := []byte(`{"name":"Ada","email":"ada@example.com","password":"longenough"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{}, stubFavoriteStore{}, stubBookingService{})
	cases := []string{
		`{"name":"A","email":"ada@example.com","password":"longenough"}`,
		`{"name":"Ada","email":"not-an-email","password":"longenough"}`,
		`{"name":"Ada","email":"ada@example.com","password":"short"}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte(body)))
		rr := httptest.NewRecorder()
		handler.Register(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("longenough")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByEmailFn: func(context.Context, string) (models.User, error) {
			return models.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash, Role: "student", Balance: 10000}, nil
		},
	}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{}, stubFavoriteStore{}, stubBookingService{})

	body := []byte(`{"email":"ada@example.com","password":"longenough"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	user, ok := payload["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response: %#v", payload)
	}
	if user["balance"] != "100.00" {
		t.Fatalf("unexpected balance: %#v", user)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("longenough")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByEmailFn: func(context.Context, string) (models.User, error) {
			return models.User{ID: "u1", PasswordHash: hash}, nil
		},
	}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{}, stubFavoriteStore{}, stubBookingService{})

	body := []byte(`{"email":"ada@example.com","password":"wrongwrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByEmailFn: func(context.Context, string) (models.User, error) {
			return models.User{}, sql.ErrNoRows
		},
	}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{}, stubFavoriteStore{}, stubBookingService{})

	body := []byte(`{"email":"nobody@example.com","password":"longenough"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestMeReturnsProfile(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByIDFn: func(_ context.Context, userID string) (models.User, error) {
			return models.User{ID: userID, Name: "Ada", Role: "student", Balance: 5800}, nil
		},
	}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{}, stubFavoriteStore{}, stubBookingService{})
	req := authedRequest(t, http.MethodGet, "/api/auth/me", nil)
	rr := serveAuthed(handler.Me, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["id"] != "user-1" || payload["balance"] != "58.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestMeRejectsMissingToken(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{}, stubFavoriteStore{}, stubBookingService{})
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rr := serveAuthed(handler.Me, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
