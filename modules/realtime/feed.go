package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// FeedCapacity is the number of notifications the dashboard keeps. Older
// entries fall off the end as new ones arrive.
const FeedCapacity = 10

// NotificationKind distinguishes the two feed entry types.
type NotificationKind string

const (
	KindEntry NotificationKind = "entry"
	KindExit  NotificationKind = "exit"
)

// Notification is one feed line on the dashboard. ID mirrors the id of
// the transaction that produced it, so a replayed event maps to the same
// notification identity.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	Kind        NotificationKind `json:"kind"`
	PlateNumber string           `json:"plate_number"`
	VehicleType string           `json:"vehicle_type"`
	AreaName    string           `json:"area_name,omitempty"`
	Amount      int64            `json:"amount,omitempty"`
	At          time.Time        `json:"at"`
}

// feed is a bounded newest-first notification list.
type feed struct {
	mu    sync.RWMutex
	items []Notification
}

func newFeed() *feed {
	return &feed{items: make([]Notification, 0, FeedCapacity)}
}

// push prepends n and trims the list to FeedCapacity.
func (f *feed) push(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]Notification{n}, f.items...)
	if len(f.items) > FeedCapacity {
		f.items = f.items[:FeedCapacity]
	}
}

// snapshot returns a copy, newest first.
func (f *feed) snapshot() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

// clear empties the feed.
func (f *feed) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = f.items[:0]
}
