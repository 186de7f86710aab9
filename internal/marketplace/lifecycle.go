package marketplace

import (
	"github.com/sudo-init-do/ecosync/internal/errs"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusRequested OrderStatus = "requested"
	StatusActive    OrderStatus = "active"
	StatusCompleted OrderStatus = "completed"
	StatusDisputed  OrderStatus = "disputed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusRequested, StatusActive, StatusCompleted, StatusDisputed:
		return true
	}
	return false
}

// transitions lists the allowed edges. Nothing moves an order into completed yet.
var transitions = map[OrderStatus][]OrderStatus{
	StatusRequested: {StatusActive, StatusDisputed},
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition validates a requested move before it is applied to storage.
func CheckTransition(from, to OrderStatus) error {
	if !from.Valid() {
		return errs.Invalid("unknown status %q", from)
	}
	if !to.Valid() {
		return errs.Invalid("unknown status %q", to)
	}
	if !CanTransition(from, to) {
		return errs.Invalid("cannot move transaction from %s to %s", from, to)
	}
	return nil
}
