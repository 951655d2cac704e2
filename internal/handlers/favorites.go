package handlers

import (
	"encoding/json"
	"net/http"

	"tutorhub/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	favorites, err := h.favorites.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("favorite listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	normalized := make([]map[string]any, 0, len(favorites))
	for _, tutor := range favorites {
		normalized = append(normalized, tutorPayload(tutor, []string{}))
	}
	respondJSON(w, http.StatusOK, normalized)
}

type addFavoriteRequest struct {
	TutorID string `json:"tutor_id"`
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TutorID == "" {
		respondError(w, http.StatusBadRequest, "tutor_id is required")
		return
	}
	if err := h.favorites.Add(r.Context(), uuid.NewString(), userID, req.TutorID); err != nil {
		h.logger.Error("favorite add failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Favorite added"})
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	tutorID := chi.URLParam(r, "tutorId")
	removed, err := h.favorites.Remove(r.Context(), userID, tutorID)
	if err != nil {
		h.logger.Error("favorite remove failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if removed == 0 {
		respondError(w, http.StatusNotFound, "Favorite not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Favorite removed"})
}
