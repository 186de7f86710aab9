package alerts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sudo-init-do/ecosync/internal/marketplace"
	"github.com/sudo-init-do/ecosync/internal/requests"
)

// PendingOrders returns the orders waiting for userID to accept or decline.
func PendingOrders(userID string, orders []marketplace.Order) []marketplace.Order {
	var out []marketplace.Order
	for _, o := range orders {
		if o.LenderID == userID && o.Status == marketplace.StatusRequested {
			out = append(out, o)
		}
	}
	return out
}

// Match pairs an active request with the available items whose title contains its item name.
type Match struct {
	Request requests.Request
	Items   []marketplace.Item
}

// MatchRequests scans every active request against every available item. A title
// matches when it contains the request's item name, ignoring case.
func MatchRequests(reqs []requests.Request, items []marketplace.Item) []Match {
	var out []Match
	for _, r := range reqs {
		if r.Status != requests.StatusActive {
			continue
		}
		needle := strings.ToLower(strings.TrimSpace(r.ItemName))
		if needle == "" {
			continue
		}
		var hits []marketplace.Item
		for _, it := range items {
			if it.Status == marketplace.ItemAvailable && strings.Contains(strings.ToLower(it.Title), needle) {
				hits = append(hits, it)
			}
		}
		if len(hits) > 0 {
			out = append(out, Match{Request: r, Items: hits})
		}
	}
	return out
}

// Build renders both views for userID, newest first, capped at MaxNotifications.
func Build(userID string, orders []marketplace.Order, reqs []requests.Request, items []marketplace.Item) []Notification {
	var out []Notification
	for _, o := range PendingOrders(userID, orders) {
		out = append(out, Notification{
			ID:        "order:" + o.ID,
			Kind:      KindPendingOrder,
			Message:   pendingMessage(o),
			Reference: o.ID,
			CreatedAt: o.CreatedAt,
		})
	}
	for _, m := range MatchRequests(reqs, items) {
		titles := make([]string, len(m.Items))
		for i, it := range m.Items {
			titles[i] = it.Title
		}
		out = append(out, Notification{
			ID:   "match:" + m.Request.ID,
			Kind: KindRequestMatch,
			Message: fmt.Sprintf("%d item(s) matching %q are available: %s",
				len(m.Items), m.Request.ItemName, strings.Join(titles, ", ")),
			Reference: m.Request.ID,
			CreatedAt: m.Request.CreatedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > MaxNotifications {
		out = out[:MaxNotifications]
	}
	return out
}

func pendingMessage(o marketplace.Order) string {
	borrower, item := "Someone", "your item"
	if o.Borrower != nil && o.Borrower.Name != "" {
		borrower = o.Borrower.Name
	}
	if o.Item != nil && o.Item.Title != "" {
		item = o.Item.Title
	}
	return fmt.Sprintf("%s wants to borrow %s", borrower, item)
}
