package handlers

import (
	"database/sql"
	"net/http"

	"tutorhub/internal/money"
	"tutorhub/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (h *Handler) ListTutors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.TutorFilter{Subject: query.Get("subject")}
	if raw := query.Get("minPrice"); raw != "" {
		minor, err := money.ParseMinor(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid minPrice")
			return
		}
		filter.MinPrice = &minor
	}
	if raw := query.Get("maxPrice"); raw != "" {
		minor, err := money.ParseMinor(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid maxPrice")
			return
		}
		filter.MaxPrice = &minor
	}
	tutors, err := h.tutors.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("tutor listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	normalized := make([]map[string]any, 0, len(tutors))
	for _, tutor := range tutors {
		tags, err := h.tutors.Tags(r.Context(), tutor.ID)
		if err != nil {
			h.logger.Error("tutor tags lookup failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Server error")
			return
		}
		normalized = append(normalized, tutorPayload(tutor, tags))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) GetTutor(w http.ResponseWriter, r *http.Request) {
	tutorID := chi.URLParam(r, "id")
	tutor, err := h.tutors.GetByID(r.Context(), tutorID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "Tutor not found")
			return
		}
		h.logger.Error("tutor lookup failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	tags, err := h.tutors.Tags(r.Context(), tutorID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	certifications, err := h.tutors.Certifications(r.Context(), tutorID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	reviews, err := h.tutors.Reviews(r.Context(), tutorID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	payload := tutorPayload(tutor, tags)
	normalizedReviews := make([]map[string]any, 0, len(reviews))
	for _, review := range reviews {
		normalizedReviews = append(normalizedReviews, map[string]any{
			"id":         review.ID,
			"author":     review.Author,
			"avatar":     derefString(review.AuthorAvatar),
			"rating":     review.Rating,
			"content":    derefString(review.Content),
			"created_at": review.CreatedAt,
		})
	}
	normalizedCerts := make([]map[string]any, 0, len(certifications))
	for _, cert := range certifications {
		normalizedCerts = append(normalizedCerts, map[string]any{
			"id":     cert.ID,
			"title":  cert.Title,
			"issuer": cert.Issuer,
			"icon":   derefString(cert.Icon),
		})
	}
	payload["certifications"] = normalizedCerts
	payload["reviews"] = normalizedReviews
	respondJSON(w, http.StatusOK, payload)
}

func tutorPayload(tutor store.TutorWithUser, tags []string) map[string]any {
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":           tutor.ID,
		"userId":       tutor.UserID,
		"name":         tutor.Name,
		"avatar":       derefString(tutor.Avatar),
		"gender":       derefString(tutor.Gender),
		"title":        tutor.Title,
		"pricePerHour": valueToMoney(tutor.PricePerHour),
		"rating":       tutor.Rating,
		"reviewCount":  tutor.ReviewCount,
		"verified":     tutor.Verified,
		"subject":      derefString(tutor.Subject),
		"bio":          derefString(tutor.Bio),
		"tags":         tags,
	}
}
