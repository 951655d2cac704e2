package store

import (
	"context"
	"fmt"
	"strings"

	"tutorhub/internal/models"
)

type TutorStore struct {
	db DB
}

func NewTutorStore(db DB) *TutorStore {
	return &TutorStore{db: db}
}

type TutorWithUser struct {
	models.Tutor
	Name   string  `db:"name"`
	Email  string  `db:"email"`
	Avatar *string `db:"avatar"`
	Gender *string `db:"gender"`
}

type ReviewWithAuthor struct {
	models.Review
	Author       string  `db:"author"`
	AuthorAvatar *string `db:"author_avatar"`
}

type TutorFilter struct {
	Subject  string
	MinPrice *int64
	MaxPrice *int64
}

func (s *TutorStore) List(ctx context.Context, filter TutorFilter) ([]TutorWithUser, error) {
	query := `
		SELECT t.id, t.user_id, t.title, t.price_per_hour, t.rating, t.review_count,
		       t.verified, t.subject, t.bio, t.created_at,
		       u.name, u.email, u.avatar, u.gender
		FROM tutors t
		JOIN users u ON t.user_id = u.id
	`
	var conditions []string
	var args []any
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		conditions = append(conditions, fmt.Sprintf("t.subject = $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("t.price_per_hour >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("t.price_per_hour <= $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.rating DESC, t.review_count DESC"

	var rows []TutorWithUser
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TutorStore) GetByID(ctx context.Context, tutorID string) (TutorWithUser, error) {
	var row TutorWithUser
	err := s.db.GetContext(ctx, &row, `
		SELECT t.id, t.user_id, t.title, t.price_per_hour, t.rating, t.review_count,
		       t.verified, t.subject, t.bio, t.created_at,
		       u.name, u.email, u.avatar, u.gender
		FROM tutors t
		JOIN users u ON t.user_id = u.id
		WHERE t.id = $1
	`, tutorID)
	if err != nil {
		return TutorWithUser{}, err
	}
	return row, nil
}

func (s *TutorStore) Tags(ctx context.Context, tutorID string) ([]string, error) {
	var tags []string
	err := s.db.SelectContext(ctx, &tags, `
		SELECT tag
		FROM tutor_tags
		WHERE tutor_id = $1
		ORDER BY tag
	`, tutorID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TutorStore) Certifications(ctx context.Context, tutorID string) ([]models.Certification, error) {
	var rows []models.Certification
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, tutor_id, title, issuer, icon
		FROM certifications
		WHERE tutor_id = $1
	`, tutorID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TutorStore) Reviews(ctx context.Context, tutorID string) ([]ReviewWithAuthor, error) {
	var rows []ReviewWithAuthor
	err := s.db.SelectContext(ctx, &rows, `
		SELECT r.id, r.tutor_id, r.user_id, r.rating, r.content, r.created_at,
		       u.name AS author, u.avatar AS author_avatar
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.tutor_id = $1
		ORDER BY r.created_at DESC
	`, tutorID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
