// Package requests stores location-tagged calls for an item a user needs.
package requests

import (
	"time"

	"github.com/sudo-init-do/ecosync/internal/geo"
	"github.com/sudo-init-do/ecosync/internal/user"
)

// TTL is how long a request stays current after it is raised. Nothing enforces it.
const TTL = 24 * time.Hour

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	return u == UrgencyLow || u == UrgencyNormal || u == UrgencyHigh
}

type Status string

const (
	StatusActive    Status = "active"
	StatusFulfilled Status = "fulfilled"
	StatusExpired   Status = "expired"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusFulfilled || s == StatusExpired
}

type Request struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	User        *user.Summary `json:"user,omitempty"`
	ItemName    string        `json:"itemName"`
	Description string        `json:"description,omitempty"`
	Urgency     Urgency       `json:"urgency"`
	Location    geo.Point     `json:"location"`
	Status      Status        `json:"status"`
	ExpiresAt   time.Time     `json:"expiresAt"`
	CreatedAt   time.Time     `json:"createdAt"`
}
