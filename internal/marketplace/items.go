package marketplace

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

const itemSelect = `SELECT i.id, i.owner_id, i.title, i.description, i.category, i.type, i.price, i.status,
	i.lng, i.lat, i.image_url, i.condition_photo_url, i.created_at,
	u.name, u.trust_score, u.profile_photo
	FROM items i JOIN users u ON u.id = i.owner_id`

// ItemRepo is the Postgres-backed item store.
type ItemRepo struct {
	pool db.PgxPool
}

// NewItemRepo constructs an ItemRepo.
func NewItemRepo(pool db.PgxPool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

func scanItem(row pgx.Row) (*Item, error) {
	var (
		it                    Item
		category, typ, status string
		ownerName, ownerPhoto string
		ownerTrust            int
	)
	err := row.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &category, &typ, &it.Price, &status,
		&it.Location.Lng, &it.Location.Lat, &it.ImageURL, &it.ConditionPhotoURL, &it.CreatedAt,
		&ownerName, &ownerTrust, &ownerPhoto)
	if err != nil {
		return nil, err
	}
	it.Category, it.Type, it.Status = Category(category), ItemType(typ), ItemStatus(status)
	it.Owner = &user.Summary{ID: it.OwnerID, Name: ownerName, TrustScore: ownerTrust, ProfilePhoto: ownerPhoto}
	return &it, nil
}

func collectItems(rows pgx.Rows) ([]Item, error) {
	defer rows.Close()
	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// ListAvailable returns available items, newest first.
func (r *ItemRepo) ListAvailable(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, itemSelect+` WHERE i.status = 'available' ORDER BY i.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return collectItems(rows)
}

// ListByOwner returns every item ownerID listed, whatever its status.
func (r *ItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]Item, error) {
	rows, err := r.pool.Query(ctx, itemSelect+` WHERE i.owner_id = $1 ORDER BY i.created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items of %s: %w", ownerID, err)
	}
	return collectItems(rows)
}

// Nearby returns available items within maxDistance meters of p, nearest first.
// An empty category matches every category.
func (r *ItemRepo) Nearby(ctx context.Context, p geo.Point, maxDistance float64, category Category) ([]Item, error) {
	dist := geo.DistanceSQL("i")
	query := itemSelect + ` WHERE i.status = 'available' AND ` + dist + ` <= $3`
	args := []any{p.Lng, p.Lat, maxDistance}
	if category != "" {
		query += ` AND i.category = $4`
		args = append(args, string(category))
	}
	query += ` ORDER BY ` + dist

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("nearby items: %w", err)
	}
	return collectItems(rows)
}

// Get returns errs.ErrNotFound when the id is unknown.
func (r *ItemRepo) Get(ctx context.Context, id string) (*Item, error) {
	it, err := scanItem(r.pool.QueryRow(ctx, itemSelect+` WHERE i.id = $1`, id))
	if db.NoRows(err) {
		return nil, fmt.Errorf("item %s: %w", id, errs.ErrNotFound)
	}
	return it, err
}

// Validate checks required fields and enum membership.
func (it *Item) Validate() error {
	switch {
	case strings.TrimSpace(it.Title) == "":
		return errs.Invalid("title is required")
	case strings.TrimSpace(it.Description) == "":
		return errs.Invalid("description is required")
	case !it.Category.Valid():
		return errs.Invalid("unknown category %q", it.Category)
	case !it.Type.Valid():
		return errs.Invalid("unknown type %q", it.Type)
	case !it.Status.Valid():
		return errs.Invalid("unknown status %q", it.Status)
	case it.Price < 0:
		return errs.Invalid("price must not be negative")
	case !it.Location.Valid():
		return errs.Invalid("location out of range")
	}
	return nil
}

// Create inserts it, filling ID, Status and CreatedAt.
func (r *ItemRepo) Create(ctx context.Context, it *Item) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.Status == "" {
		it.Status = ItemAvailable
	}
	it.Title = strings.TrimSpace(it.Title)
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	if err := it.Validate(); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO items (id, owner_id, title, description, category, type, price, status,
			lng, lat, image_url, condition_photo_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		it.ID, it.OwnerID, it.Title, it.Description, string(it.Category), string(it.Type), it.Price,
		string(it.Status), it.Location.Lng, it.Location.Lat, it.ImageURL, it.ConditionPhotoURL, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// ItemUpdate holds the editable item fields; nil members are left unchanged.
type ItemUpdate struct {
	Title             *string
	Description       *string
	Category          *Category
	Type              *ItemType
	Price             *float64
	Status            *ItemStatus
	ImageURL          *string
	ConditionPhotoURL *string
}

// Validate checks enum membership only. Any status may follow any other.
func (u ItemUpdate) Validate() error {
	switch {
	case u.Title != nil && strings.TrimSpace(*u.Title) == "":
		return errs.Invalid("title must not be empty")
	case u.Category != nil && !u.Category.Valid():
		return errs.Invalid("unknown category %q", *u.Category)
	case u.Type != nil && !u.Type.Valid():
		return errs.Invalid("unknown type %q", *u.Type)
	case u.Status != nil && !u.Status.Valid():
		return errs.Invalid("unknown status %q", *u.Status)
	case u.Price != nil && *u.Price < 0:
		return errs.Invalid("price must not be negative")
	}
	return nil
}

func strPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

// Update applies u to the item when callerID owns it.
func (r *ItemRepo) Update(ctx context.Context, id, callerID string, u ItemUpdate) (*Item, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := r.checkOwner(ctx, id, callerID); err != nil {
		return nil, err
	}

	_, err := r.pool.Exec(ctx,
		`UPDATE items SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			category = COALESCE($4, category),
			type = COALESCE($5, type),
			price = COALESCE($6, price),
			status = COALESCE($7, status),
			image_url = COALESCE($8, image_url),
			condition_photo_url = COALESCE($9, condition_photo_url)
		 WHERE id = $1`,
		id, u.Title, u.Description, strPtr(u.Category), strPtr(u.Type), u.Price, strPtr(u.Status),
		u.ImageURL, u.ConditionPhotoURL)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return r.Get(ctx, id)
}

// Delete removes the item when callerID owns it. Transactions referencing it are kept.
func (r *ItemRepo) Delete(ctx context.Context, id, callerID string) error {
	if err := r.checkOwner(ctx, id, callerID); err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (r *ItemRepo) checkOwner(ctx context.Context, id, callerID string) error {
	var ownerID string
	err := r.pool.QueryRow(ctx, `SELECT owner_id FROM items WHERE id = $1`, id).Scan(&ownerID)
	if db.NoRows(err) {
		return fmt.Errorf("item %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load item owner: %w", err)
	}
	if ownerID != callerID {
		return fmt.Errorf("item %s: %w", id, errs.ErrForbidden)
	}
	return nil
}
