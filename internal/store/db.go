package store

import (
	"context"
	"database/sql"
)

// The stores take the narrowest query surface they need so that both
// *sqlx.DB and *sqlx.Tx satisfy them and tests can stub each capability
// separately.

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}

type Tx interface {
	Execer
	Getter
}
