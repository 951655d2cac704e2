package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestFavoriteStoreAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewFavoriteStore(stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "ON CONFLICT (user_id, tutor_id) DO NOTHING") {
				t.Fatalf("repeat favorites must be a no-op: %s", query)
			}
			if len(args) != 3 || args[1] != "u1" || args[2] != "tutor-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	})
	if err := store.Add(ctx, "f1", "u1", "tutor-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFavoriteStoreRemoveReportsRows(t *testing.T) {
	ctx := context.Background()
	store := NewFavoriteStore(stubDB{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "DELETE FROM favorites") {
				t.Fatalf("unexpected query: %s", query)
			}
			return stubResult{rows: 0}, nil
		},
	})
	rows, err := store.Remove(ctx, "u1", "tutor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected zero rows, got %d", rows)
	}
}
