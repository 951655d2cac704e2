package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tutorhub/internal/models"
	"tutorhub/internal/store"
)

func TestEnsureConversationReturnsID(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{
		ensureFn: func(_ context.Context, _, studentID, tutorID string) (string, error) {
			if studentID != "user-1" || tutorID != "tutor-1" {
				t.Fatalf("unexpected args: %s %s", studentID, tutorID)
			}
			return "conv-1", nil
		},
	}, stubFavoriteStore{}, stubBookingService{})
	body := []byte(`{"tutor_id":"tutor-1"}`)
	req := authedRequest(t, http.MethodPost, "/api/messages/conversations", body)
	rr := serveAuthed(handler.EnsureConversation, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["conversationId"] != "conv-1" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestEnsureConversationRequiresTutorID(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{}, stubFavoriteStore{}, stubBookingService{})
	req := authedRequest(t, http.MethodPost, "/api/messages/conversations", []byte(`{}`))
	rr := serveAuthed(handler.EnsureConversation, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListMessagesAliasesOwnSender(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{
		getForStudentFn: func(context.Context, string, string) (models.Conversation, error) {
			return models.Conversation{ID: "conv-1", StudentID: "user-1", TutorID: "tutor-1"}, nil
		},
		messagesFn: func(context.Context, string) ([]models.Message, error) {
			return []models.Message{
				{ID: "m1", SenderID: "user-1", MessageText: "hi", MessageType: "text"},
				{ID: "m2", SenderID: "tutor-user", MessageText: "hello", MessageType: "text"},
			}, nil
		},
	}, stubFavoriteStore{}, stubBookingService{})
	req := authedRequest(t, http.MethodGet, "/api/messages/conv-1/messages", nil)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if payload[0]["senderId"] != "me" {
		t.Fatalf("own messages must read as me: %#v", payload[0])
	}
	if payload[1]["senderId"] != "tutor-user" {
		t.Fatalf("unexpected sender: %#v", payload[1])
	}
}

func TestListMessagesForeignConversation(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{
		getForStudentFn: func(context.Context, string, string) (models.Conversation, error) {
			return models.Conversation{}, sql.ErrNoRows
		},
	}, stubFavoriteStore{}, stubBookingService{})
	req := authedRequest(t, http.MethodGet, "/api/messages/conv-1/messages", nil)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSendMessageInsertsAndTouches(t *testing.T) {
	inserted := false
	touched := false
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{
		getForStudentFn: func(context.Context, string, string) (models.Conversation, error) {
			return models.Conversation{ID: "conv-1", StudentID: "user-1", TutorID: "tutor-1"}, nil
		},
		insertMessageFn: func(_ context.Context, _ store.Execer, _, conversationID, senderID, text, messageType string) error {
			if conversationID != "conv-1" || senderID != "user-1" || text != "hi" || messageType != "text" {
				t.Fatalf("unexpected message: %s %s %s %s", conversationID, senderID, text, messageType)
			}
			inserted = true
			return nil
		},
		touchFn: func(context.Context, store.Execer, string) error {
			touched = true
			return nil
		},
	}, stubFavoriteStore{}, stubBookingService{})
	body := []byte(`{"text":"hi"}`)
	req := authedRequest(t, http.MethodPost, "/api/messages/conv-1/messages", body)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if !inserted || !touched {
		t.Fatalf("expected insert and touch, got %v %v", inserted, touched)
	}
}

func TestSendMessageRejectsBadType(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubTutorStore{}, stubBookingStore{}, stubAccountLogStore{}, stubConversationStore{
		getForStudentFn: func(context.Context, string, string) (models.Conversation, error) {
			return models.Conversation{ID: "conv-1"}, nil
		},
	}, stubFavoriteStore{}, stubBookingService{})
	body := []byte(`{"text":"hi","type":"video"}`)
	req := authedRequest(t, http.MethodPost, "/api/messages/conv-1/messages", body)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
