// Package user stores user accounts and their eco points balance.
package user

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sudo-init-do/ecosync/internal/db"
	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/wallet"
)

const columns = `id, name, email, password, lng, lat, address, trust_score, eco_points, level, profile_photo, created_at`

// Repo is the Postgres-backed user store.
type Repo struct {
	pool db.PgxPool
}

// NewRepo constructs a Repo.
func NewRepo(pool db.PgxPool) *Repo {
	return &Repo{pool: pool}
}

func scan(row pgx.Row) (*User, error) {
	var u User
	var level string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password,
		&u.Location.Lng, &u.Location.Lat, &u.Location.Address,
		&u.TrustScore, &u.EcoPoints, &level, &u.ProfilePhoto, &u.CreatedAt)
	if db.NoRows(err) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Level = Level(level)
	return &u, nil
}

// Create inserts u, filling ID, Level and CreatedAt. The e-mail is stored lower-cased.
func (r *Repo) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Name = strings.TrimSpace(u.Name)
	u.Level = LevelFor(u.EcoPoints)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+columns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		u.ID, u.Name, u.Email, u.Password, u.Location.Lng, u.Location.Lat, u.Location.Address,
		u.TrustScore, u.EcoPoints, string(u.Level), u.ProfilePhoto, u.CreatedAt,
	)
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", u.Email, errs.ErrAlreadyExists)
	}
	return err
}

// GetByID returns errs.ErrNotFound when the id is unknown.
func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM users WHERE id = $1`, id))
}

// GetByEmail looks the user up case-insensitively.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scan(r.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email))))
}

// ProfileUpdate holds the editable profile fields; nil members are left unchanged.
type ProfileUpdate struct {
	Name         *string
	Address      *string
	ProfilePhoto *string
	Lng, Lat     *float64
}

// UpdateProfile applies p and returns the stored user.
func (r *Repo) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*User, error) {
	return scan(r.pool.QueryRow(ctx,
		`UPDATE users SET
			name = COALESCE($2, name),
			address = COALESCE($3, address),
			profile_photo = COALESCE($4, profile_photo),
			lng = COALESCE($5, lng),
			lat = COALESCE($6, lat)
		 WHERE id = $1
		 RETURNING `+columns,
		id, p.Name, p.Address, p.ProfilePhoto, p.Lng, p.Lat))
}

// AddPoints applies delta to the user's balance in its own transaction.
func (r *Repo) AddPoints(ctx context.Context, id string, delta int, reason, reference string) (*User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer db.Rollback(ctx, tx)

	u, err := ApplyPoints(ctx, tx, id, delta, reason, reference)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return u, nil
}

// ApplyPoints locks the user row, applies delta, recomputes the level and records a
// ledger entry, all inside tx. A resulting negative balance fails with
// errs.ErrInsufficientPoints. Balances are stored as INTEGER, so a delta or
// balance outside int32 fails validation.
func ApplyPoints(ctx context.Context, tx pgx.Tx, id string, delta int, reason, reference string) (*User, error) {
	if delta > math.MaxInt32 || delta < math.MinInt32 {
		return nil, errs.Invalid("points %d out of range", delta)
	}

	var balance int
	err := tx.QueryRow(ctx, `SELECT eco_points FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&balance)
	if db.NoRows(err) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock user: %w", err)
	}

	next := balance + delta
	if next < 0 {
		return nil, fmt.Errorf("balance %d, need %d: %w", balance, -delta, errs.ErrInsufficientPoints)
	}
	if next > math.MaxInt32 {
		return nil, errs.Invalid("balance would exceed %d", math.MaxInt32)
	}

	u, err := scan(tx.QueryRow(ctx,
		`UPDATE users SET eco_points = $2, level = $3 WHERE id = $1 RETURNING `+columns,
		id, next, string(LevelFor(next))))
	if err != nil {
		return nil, fmt.Errorf("update points: %w", err)
	}

	err = wallet.Record(ctx, tx, wallet.Entry{
		UserID:       id,
		Delta:        delta,
		BalanceAfter: next,
		Reason:       reason,
		Reference:    reference,
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// RecomputeLevels rewrites every level that disagrees with the user's balance and
// returns how many rows changed.
func (r *Repo) RecomputeLevels(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET level = CASE
			WHEN eco_points >= 301 THEN 'champion'
			WHEN eco_points >= 151 THEN 'oak'
			WHEN eco_points >= 51 THEN 'sapling'
			ELSE 'seedling' END
		 WHERE level IS DISTINCT FROM CASE
			WHEN eco_points >= 301 THEN 'champion'
			WHEN eco_points >= 151 THEN 'oak'
			WHEN eco_points >= 51 THEN 'sapling'
			ELSE 'seedling' END`)
	if err != nil {
		return 0, fmt.Errorf("recompute levels: %w", err)
	}
	return tag.RowsAffected(), nil
}
