package marketplace

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// Quote is the price of an order over a date range.
type Quote struct {
	Days           int     `json:"days"`
	CashPrice      float64 `json:"cashPrice"`
	EcoPointsPrice int     `json:"ecoPointsPrice"`
}

// NewQuote prices a booking from start to end. Only rentals cost money; eco points
// pay half the cash price, rounded up.
func NewQuote(t ItemType, dailyPrice float64, start, end time.Time) Quote {
	days := int(math.Ceil(float64(end.Sub(start)) / float64(day)))
	if days < 1 {
		days = 1
	}
	var cash float64
	if t == TypeRent {
		cash = float64(days) * dailyPrice
	}
	return Quote{
		Days:           days,
		CashPrice:      cash,
		EcoPointsPrice: int(math.Ceil(cash * 0.5)),
	}
}
