// Package alerts derives a user's notifications from orders, requests and items and
// keeps them fresh for a client session.
package alerts

import "time"

// MaxNotifications caps every notification list.
const MaxNotifications = 5

type Kind string

const (
	KindPendingOrder Kind = "pending_order"
	KindRequestMatch Kind = "request_match"
)

// Notification is an ephemeral message shown to a user. IDs are stable across refreshes.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"createdAt"`
}
