package marketplace

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var (
	itemCols = []string{"id", "owner_id", "title", "description", "category", "type", "price", "status",
		"lng", "lat", "image_url", "condition_photo_url", "created_at", "name", "trust_score", "profile_photo"}
	orderCols = []string{"id", "item_id", "borrower_id", "lender_id", "pickup_time", "return_time", "status",
		"qr_code_hash", "rating_lender", "rating_borrower", "review_lender", "review_borrower",
		"eco_impact_co2", "eco_impact_money", "payment_method", "eco_points_used", "created_at", "updated_at",
		"has_item", "item_title", "item_image", "borrower_name", "borrower_photo", "lender_name", "lender_photo"}
	userCols = []string{"id", "name", "email", "password", "lng", "lat", "address",
		"trust_score", "eco_points", "level", "profile_photo", "created_at"}
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func itemRow(id, ownerID, typ string, price float64) *pgxmock.Rows {
	return pgxmock.NewRows(itemCols).
		AddRow(id, ownerID, "Cordless Power Drill", "18V", "tools", typ, price, "available",
			13.4, 52.5, "", "", time.Now(), "Lena", 80, "")
}

func orderRow(id, status string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(orderCols).
		AddRow(id, "item-1", "borrower-1", "lender-1", now, now.Add(48*time.Hour), status,
			"", nil, nil, "", "",
			2.5, 20.0, "cash", 0, now, now,
			true, "Cordless Power Drill", "", "Ben", "", "Lena", "")
}
