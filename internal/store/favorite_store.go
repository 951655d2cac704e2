package store

import "context"

type FavoriteStore struct {
	db DB
}

func NewFavoriteStore(db DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

func (s *FavoriteStore) ListByUser(ctx context.Context, userID string) ([]TutorWithUser, error) {
	var rows []TutorWithUser
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.user_id, t.title, t.price_per_hour, t.rating, t.review_count,
		       t.verified, t.subject, t.bio, t.created_at,
		       u.name, u.email, u.avatar, u.gender
		FROM favorites f
		JOIN tutors t ON f.tutor_id = t.id
		JOIN users u ON t.user_id = u.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *FavoriteStore) Add(ctx context.Context, id, userID, tutorID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (id, user_id, tutor_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, tutor_id) DO NOTHING
	`, id, userID, tutorID)
	return err
}

func (s *FavoriteStore) Remove(ctx context.Context, userID, tutorID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = $1 AND tutor_id = $2
	`, userID, tutorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
