package credentials

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/spentra/internal/dbx"
)

// Store owns the database handle and hands out repositories, either bound
// to the database directly (Load) or to a transaction (Update).
type Store struct {
	db *sql.DB
}

// NewStore wraps an opened, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load reads a single key outside of any transaction.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	return NewSQLiteRepository(s.db).Load(ctx, key)
}

// Update runs fn in one transaction: either every write fn performs is
// committed or none is.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewSQLiteRepository(tx))
	})
}
