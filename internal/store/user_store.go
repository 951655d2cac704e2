package store

import (
	"context"

	"tutorhub/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, name, email, passwordHash, role string, balance int64) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, balance)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query, id, name, email, passwordHash, role, balance)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, email, password_hash, avatar, phone, bio, gender, role, balance, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, email, password_hash, avatar, phone, bio, gender, role, balance, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.db.GetContext(ctx, &balance, `
		SELECT balance
		FROM users
		WHERE id = $1
	`, userID)
	return balance, err
}

// GetBalanceForUpdate locks the user row for the remainder of the
// transaction so concurrent debits serialize on it.
func (s *UserStore) GetBalanceForUpdate(ctx context.Context, tx Getter, userID string) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		SELECT balance
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID)
	return balance, err
}

func (s *UserStore) UpdateBalance(ctx context.Context, tx Execer, userID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, userID)
	return err
}
