package store

import (
	"context"

	"tutorhub/internal/models"
)

// AccountLogStore appends balance-change rows. Entries are the audit trail
// of record: there is deliberately no update or delete method.
type AccountLogStore struct {
	db DB
}

func NewAccountLogStore(db DB) *AccountLogStore {
	return &AccountLogStore{db: db}
}

type AccountLogInput struct {
	ID            string
	UserID        string
	ChangeAmount  int64
	BeforeBalance int64
	AfterBalance  int64
	BizType       string
	BizID         string
	Remark        string
}

func (s *AccountLogStore) Insert(ctx context.Context, tx Execer, input AccountLogInput) error {
	query := `
		INSERT INTO account_log
			(id, user_id, change_amount, before_balance, after_balance, biz_type, biz_id, remark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.ChangeAmount, input.BeforeBalance,
		input.AfterBalance, input.BizType, input.BizID, input.Remark)
	return err
}

func (s *AccountLogStore) ListByUser(ctx context.Context, userID string) ([]models.AccountLogEntry, error) {
	var rows []models.AccountLogEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, change_amount, before_balance, after_balance,
		       biz_type, biz_id, remark, created_at
		FROM account_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
