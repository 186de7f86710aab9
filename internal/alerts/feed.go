package alerts

import "sync"

// Feed is a session's in-memory notification list. Dismissals are local: the next
// Replace brings a dismissed notification back if it is still derived.
type Feed struct {
	mu    sync.Mutex
	items []Notification
}

// Replace swaps in a freshly built list.
func (f *Feed) Replace(list []Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]Notification(nil), list...)
}

// List returns a copy of the current notifications.
func (f *Feed) List() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification(nil), f.items...)
}

// Dismiss removes the notification with id and reports whether it was present.
func (f *Feed) Dismiss(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true
		}
	}
	return false
}
