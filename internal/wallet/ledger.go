// Package wallet records eco points movements and exposes a user's balance and history.
package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sudo-init-do/ecosync/internal/db"
)

// Record appends e to the ledger inside tx. The caller owns commit/rollback so the
// entry lands atomically with the balance change it describes.
func Record(ctx context.Context, tx pgx.Tx, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO points_ledger (id, user_id, delta, balance_after, reason, reference, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.UserID, e.Delta, e.BalanceAfter, e.Reason, e.Reference, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record ledger entry: %w", err)
	}
	return nil
}

// Ledger reads ledger entries.
type Ledger struct{ pool db.PgxPool }

// NewLedger constructs a Ledger.
func NewLedger(pool db.PgxPool) *Ledger { return &Ledger{pool: pool} }

// List returns the user's entries, newest first.
func (l *Ledger) List(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, user_id, delta, balance_after, reason, reference, created_at
		 FROM points_ledger WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Delta, &e.BalanceAfter, &e.Reason, &e.Reference, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
