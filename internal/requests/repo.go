package requests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sudo-init-do/ecosync/internal/db"
	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/geo"
	"github.com/sudo-init-do/ecosync/internal/user"
)

const selectRequest = `SELECT r.id, r.user_id, r.item_name, r.description, r.urgency, r.lng, r.lat,
	r.status, r.expires_at, r.created_at, u.name, u.profile_photo
	FROM requests r JOIN users u ON u.id = r.user_id`

// Repo is the Postgres-backed request store.
type Repo struct {
	pool db.PgxPool
	now  func() time.Time
}

// NewRepo constructs a Repo.
func NewRepo(pool db.PgxPool) *Repo {
	return &Repo{pool: pool, now: time.Now}
}

func scan(row pgx.Row) (*Request, error) {
	var (
		r                 Request
		urgency, status   string
		userName, userPic string
	)
	err := row.Scan(&r.ID, &r.UserID, &r.ItemName, &r.Description, &urgency, &r.Location.Lng, &r.Location.Lat,
		&status, &r.ExpiresAt, &r.CreatedAt, &userName, &userPic)
	if err != nil {
		return nil, err
	}
	r.Urgency, r.Status = Urgency(urgency), Status(status)
	r.User = &user.Summary{ID: r.UserID, Name: userName, ProfilePhoto: userPic}
	return &r, nil
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Request, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	out := []Request{}
	for rows.Next() {
		req, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

// ListActive returns active requests, newest first.
func (r *Repo) ListActive(ctx context.Context) ([]Request, error) {
	return r.list(ctx, selectRequest+` WHERE r.status = 'active' ORDER BY r.created_at DESC`)
}

// Nearby returns active requests within maxDistance meters of p, nearest first.
func (r *Repo) Nearby(ctx context.Context, p geo.Point, maxDistance float64) ([]Request, error) {
	dist := geo.DistanceSQL("r")
	return r.list(ctx,
		selectRequest+` WHERE r.status = 'active' AND `+dist+` <= $3 ORDER BY `+dist,
		p.Lng, p.Lat, maxDistance)
}

// Get returns errs.ErrNotFound when the id is unknown.
func (r *Repo) Get(ctx context.Context, id string) (*Request, error) {
	req, err := scan(r.pool.QueryRow(ctx, selectRequest+` WHERE r.id = $1`, id))
	if db.NoRows(err) {
		return nil, fmt.Errorf("request %s: %w", id, errs.ErrNotFound)
	}
	return req, err
}

// Create inserts req as active, expiring TTL after creation.
func (r *Repo) Create(ctx context.Context, req *Request) error {
	req.ItemName = strings.TrimSpace(req.ItemName)
	if req.ItemName == "" {
		return errs.Invalid("itemName is required")
	}
	if req.Urgency == "" {
		req.Urgency = UrgencyNormal
	}
	if !req.Urgency.Valid() {
		return errs.Invalid("unknown urgency %q", req.Urgency)
	}
	if !req.Location.Valid() {
		return errs.Invalid("location out of range")
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.Status = StatusActive
	req.CreatedAt = r.now().UTC()
	req.ExpiresAt = req.CreatedAt.Add(TTL)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO requests (id, user_id, item_name, description, urgency, lng, lat, status, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.UserID, req.ItemName, req.Description, string(req.Urgency),
		req.Location.Lng, req.Location.Lat, string(req.Status), req.ExpiresAt, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// SetStatus writes status and returns the stored request.
func (r *Repo) SetStatus(ctx context.Context, id string, status Status) (*Request, error) {
	if !status.Valid() {
		return nil, errs.Invalid("unknown status %q", status)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE requests SET status = $2 WHERE id = $1`, id, string(status))
	if db.NoRows(err) {
		return nil, fmt.Errorf("request %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("request %s: %w", id, errs.ErrNotFound)
	}
	return r.Get(ctx, id)
}

// Delete removes the request when callerID raised it.
func (r *Repo) Delete(ctx context.Context, id, callerID string) error {
	var owner string
	err := r.pool.QueryRow(ctx, `SELECT user_id FROM requests WHERE id = $1`, id).Scan(&owner)
	if db.NoRows(err) {
		return fmt.Errorf("request %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load request owner: %w", err)
	}
	if owner != callerID {
		return fmt.Errorf("request %s: %w", id, errs.ErrForbidden)
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	return nil
}
