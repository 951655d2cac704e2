package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestAccountLogStoreInsert(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO account_log") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 8 {
				t.Fatalf("unexpected arg count: %d", len(args))
			}
			if args[2] != int64(-4200) || args[3] != int64(10000) || args[4] != int64(5800) {
				t.Fatalf("unexpected amounts: %#v", args)
			}
			if args[5] != "BOOKING_PAYMENT" || args[6] != "b1" {
				t.Fatalf("unexpected biz tags: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAccountLogStore(stubDB{})
	err := store.Insert(ctx, execer, AccountLogInput{
		ID: "log-1", UserID: "student-1", ChangeAmount: -4200,
		BeforeBalance: 10000, AfterBalance: 5800,
		BizType: "BOOKING_PAYMENT", BizID: "b1", Remark: "remark",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccountLogStoreListByUserCapsAtHundred(t *testing.T) {
	ctx := context.Background()
	store := NewAccountLogStore(stubDB{
		selectFn: func(_ context.Context, _ any, query string, args ...any) error {
			if !strings.Contains(query, "ORDER BY created_at DESC") {
				t.Fatalf("expected newest first: %s", query)
			}
			if !strings.Contains(query, "LIMIT 100") {
				t.Fatalf("expected cap: %s", query)
			}
			if len(args) != 1 || args[0] != "student-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.ListByUser(ctx, "student-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
