package marketplace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewQuote(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		typ       ItemType
		price     float64
		end       time.Time
		wantDays  int
		wantCash  float64
		wantPoint int
	}{
		{"exact days", TypeRent, 10, start.Add(3 * day), 3, 30, 15},
		{"partial day rounds up", TypeRent, 10, start.Add(2*day + time.Hour), 3, 30, 15},
		{"same instant clamps to one", TypeRent, 7, start, 1, 7, 4},
		{"end before start clamps to one", TypeRent, 7, start.Add(-48 * time.Hour), 1, 7, 4},
		{"odd cash rounds points up", TypeRent, 5, start.Add(day), 1, 5, 3},
		{"lend is free", TypeLend, 99, start.Add(5 * day), 5, 0, 0},
		{"sell is free", TypeSell, 99, start.Add(day), 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuote(tt.typ, tt.price, start, tt.end)
			require.Equal(t, tt.wantDays, q.Days)
			require.InDelta(t, tt.wantCash, q.CashPrice, 1e-9)
			require.Equal(t, tt.wantPoint, q.EcoPointsPrice)
		})
	}
}
