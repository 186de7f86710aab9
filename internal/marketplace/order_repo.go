package marketplace

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sudo-init-do/ecosync/internal/db"
	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/user"
)

const orderSelect = `SELECT t.id, t.item_id, t.borrower_id, t.lender_id, t.pickup_time, t.return_time, t.status,
	t.qr_code_hash, t.rating_lender, t.rating_borrower, t.review_lender, t.review_borrower,
	t.eco_impact_co2, t.eco_impact_money, t.payment_method, t.eco_points_used, t.created_at, t.updated_at,
	i.id IS NOT NULL, COALESCE(i.title, ''), COALESCE(i.image_url, ''),
	b.name, b.profile_photo, l.name, l.profile_photo
	FROM transactions t
	LEFT JOIN items i ON i.id = t.item_id
	JOIN users b ON b.id = t.borrower_id
	JOIN users l ON l.id = t.lender_id`

// execer is satisfied by both the pool and an open transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OrderRepo is the Postgres-backed order store.
type OrderRepo struct {
	pool db.PgxPool
}

// NewOrderRepo constructs an OrderRepo.
func NewOrderRepo(pool db.PgxPool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o                        Order
		status, payment          string
		hasItem                  bool
		itemTitle, itemImage     string
		borrowerName, borrowerPh string
		lenderName, lenderPh     string
	)
	err := row.Scan(&o.ID, &o.ItemID, &o.BorrowerID, &o.LenderID, &o.PickupTime, &o.ReturnTime, &status,
		&o.QRCodeHash, &o.RatingLender, &o.RatingBorrower, &o.ReviewLender, &o.ReviewBorrower,
		&o.EcoImpactCO2, &o.EcoImpactMoney, &payment, &o.EcoPointsUsed, &o.CreatedAt, &o.UpdatedAt,
		&hasItem, &itemTitle, &itemImage,
		&borrowerName, &borrowerPh, &lenderName, &lenderPh)
	if err != nil {
		return nil, err
	}
	o.Status, o.PaymentMethod = OrderStatus(status), PaymentMethod(payment)
	if hasItem {
		o.Item = &ItemSummary{ID: o.ItemID, Title: itemTitle, ImageURL: itemImage}
	}
	o.Borrower = &user.Summary{ID: o.BorrowerID, Name: borrowerName, ProfilePhoto: borrowerPh}
	o.Lender = &user.Summary{ID: o.LenderID, Name: lenderName, ProfilePhoto: lenderPh}
	return &o, nil
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// ListAll returns every order, newest first.
func (r *OrderRepo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, orderSelect+` ORDER BY t.created_at DESC`)
}

// ListForUser returns the orders where userID is borrower or lender, newest first.
func (r *OrderRepo) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, orderSelect+` WHERE t.borrower_id = $1 OR t.lender_id = $1 ORDER BY t.created_at DESC`, userID)
}

// Get returns errs.ErrNotFound when the id is unknown.
func (r *OrderRepo) Get(ctx context.Context, id string) (*Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, orderSelect+` WHERE t.id = $1`, id))
	if db.NoRows(err) {
		return nil, fmt.Errorf("transaction %s: %w", id, errs.ErrNotFound)
	}
	return o, err
}

func insertOrder(ctx context.Context, q execer, o *Order) error {
	_, err := q.Exec(ctx,
		`INSERT INTO transactions (id, item_id, borrower_id, lender_id, pickup_time, return_time, status,
			eco_impact_co2, eco_impact_money, payment_method, eco_points_used, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.ItemID, o.BorrowerID, o.LenderID, o.PickupTime, o.ReturnTime, string(o.Status),
		o.EcoImpactCO2, o.EcoImpactMoney, string(o.PaymentMethod), o.EcoPointsUsed, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// compareAndSet moves the order from expected to next only if it is still in expected.
func compareAndSet(ctx context.Context, q execer, id string, expected, next OrderStatus) error {
	tag, err := q.Exec(ctx,
		`UPDATE transactions SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, string(expected), string(next))
	if db.NoRows(err) {
		return fmt.Errorf("transaction %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	err = q.QueryRow(ctx, `SELECT status FROM transactions WHERE id = $1`, id).Scan(&current)
	if db.NoRows(err) {
		return fmt.Errorf("transaction %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load transaction status: %w", err)
	}
	return fmt.Errorf("transaction is %s, expected %s: %w", current, expected, errs.ErrStateConflict)
}

// Transition atomically applies expected -> next. Accepting an order marks its item in-use.
func (r *OrderRepo) Transition(ctx context.Context, id string, expected, next OrderStatus) error {
	if err := CheckTransition(expected, next); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer db.Rollback(ctx, tx)

	if err := compareAndSet(ctx, tx, id, expected, next); err != nil {
		return err
	}
	if next == StatusActive {
		_, err := tx.Exec(ctx,
			`UPDATE items SET status = 'in-use' WHERE id = (SELECT item_id FROM transactions WHERE id = $1)`, id)
		if err != nil {
			return fmt.Errorf("mark item in-use: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Side names the party a review is about.
type Side string

const (
	SideLender   Side = "lender"
	SideBorrower Side = "borrower"
)

// SetReview stores the rating and review of one side, once.
func (r *OrderRepo) SetReview(ctx context.Context, id string, about Side, rating int, text string) error {
	query := `UPDATE transactions SET rating_lender = $2, review_lender = $3, updated_at = NOW()
		WHERE id = $1 AND rating_lender IS NULL`
	if about == SideBorrower {
		query = `UPDATE transactions SET rating_borrower = $2, review_borrower = $3, updated_at = NOW()
		WHERE id = $1 AND rating_borrower IS NULL`
	}
	tag, err := r.pool.Exec(ctx, query, id, rating, text)
	if db.NoRows(err) {
		return fmt.Errorf("transaction %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("save review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s already reviewed: %w", about, errs.ErrStateConflict)
	}
	return nil
}
