package wallet

import "time"

// Reasons recorded on ledger entries.
const (
	ReasonAward        = "award"
	ReasonOrderPayment = "order_payment"
	ReasonAdjustment   = "admin_adjustment"
)

// Entry is one eco points movement on a user's balance.
type Entry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Delta        int       `json:"delta"`
	BalanceAfter int       `json:"balanceAfter"`
	Reason       string    `json:"reason"`
	Reference    string    `json:"reference,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
