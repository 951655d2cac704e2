package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"tutorhub/internal/middleware"
	"tutorhub/internal/validator"
	"tutorhub/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	conversations, err := h.conversations.ListByStudent(r.Context(), userID)
	if err != nil {
		h.logger.Error("conversation listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	normalized := make([]map[string]any, 0, len(conversations))
	for _, conversation := range conversations {
		normalized = append(normalized, map[string]any{
			"id":              conversation.ID,
			"tutorId":         conversation.TutorID,
			"tutorName":       conversation.TutorName,
			"tutorImage":      derefString(conversation.TutorAvatar),
			"lastMessage":     derefString(conversation.LastMessage),
			"lastMessageTime": conversation.LastMessageTime,
			"unreadCount":     conversation.UnreadCount,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

type ensureConversationRequest struct {
	TutorID string `json:"tutor_id"`
}

func (h *Handler) EnsureConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req ensureConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TutorID == "" {
		respondError(w, http.StatusBadRequest, "tutor_id is required")
		return
	}
	conversationID, err := h.conversations.Ensure(r.Context(), uuid.NewString(), userID, req.TutorID)
	if err != nil {
		h.logger.Error("conversation ensure failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"conversationId": conversationID})
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	conversationID := chi.URLParam(r, "conversationId")
	if _, err := h.conversations.GetForStudent(r.Context(), conversationID, userID); err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	messages, err := h.conversations.Messages(r.Context(), conversationID)
	if err != nil {
		h.logger.Error("message listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	normalized := make([]map[string]any, 0, len(messages))
	for _, message := range messages {
		senderID := message.SenderID
		if senderID == userID {
			senderID = "me"
		}
		normalized = append(normalized, map[string]any{
			"id":        message.ID,
			"senderId":  senderID,
			"text":      message.MessageText,
			"type":      message.MessageType,
			"createdAt": message.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

type sendMessageRequest struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	conversationID := chi.URLParam(r, "conversationId")
	conversation, err := h.conversations.GetForStudent(r.Context(), conversationID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Type == "" {
		req.Type = "text"
	}
	if err := validator.ValidateMessageType(req.Type); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.conversations.InsertMessage(r.Context(), tx, uuid.NewString(), conversationID, userID, req.Text, req.Type); err != nil {
			return err
		}
		return h.conversations.Touch(r.Context(), tx, conversationID)
	})
	if err != nil {
		h.logger.Error("message send failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if tutor, err := h.tutors.GetByID(r.Context(), conversation.TutorID); err == nil {
		h.hub.BroadcastMessage(tutor.UserID, websocket.MessageEvent{
			ConversationID: conversationID,
			SenderID:       userID,
			Text:           req.Text,
			Type:           req.Type,
		})
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Message sent"})
}
