package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/eparking/parkd/modules/parking"
	"github.com/eparking/parkd/pkg/broadcast"
	"github.com/eparking/parkd/pkg/logger"
)

// ErrStreamClosed is returned by Run when the change stream ends before the
// context is cancelled.
var ErrStreamClosed = errors.New("realtime.stream_closed")

// Snapshot is the full dashboard state pushed to stream subscribers after
// every processed event.
type Snapshot struct {
	Notifications []Notification `json:"notifications"`
	Stats         DailyStats     `json:"stats"`
}

// Aggregator folds the parking change stream into dashboard state.
type Aggregator struct {
	events  broadcast.Subscriber[parking.ChangeEvent]
	storage parking.Storage
	feed    *feed
	updates *broadcast.MemoryBroadcaster[Snapshot]
	log     *slog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	stats DailyStats
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger for stream processing.
func WithLogger(log *slog.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAggregator wires the aggregator to a change stream and the storage it
// recomputes statistics from. The stream subscription is opened here, not
// in Run, so events published before Run starts draining are buffered
// instead of lost.
func NewAggregator(events broadcast.Broadcaster[parking.ChangeEvent], storage parking.Storage, opts ...Option) *Aggregator {
	if events == nil || storage == nil {
		panic("realtime: events broadcaster and storage are required")
	}
	a := &Aggregator{
		events:  events.Subscribe(context.Background()),
		storage: storage,
		feed:    newFeed(),
		updates: broadcast.NewMemoryBroadcaster[Snapshot](8),
		log:     slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run consumes the change stream until ctx is cancelled. Events are applied
// one at a time in arrival order. It seeds the statistics from storage
// before processing so restarts do not show zeroes.
func (a *Aggregator) Run(ctx context.Context) error {
	if err := a.refreshStats(ctx); err != nil {
		a.log.ErrorContext(ctx, "seeding stats failed", logger.Error(err))
	}

	ch := a.events.Receive(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return ErrStreamClosed
			}
			a.process(ctx, msg.Data)
		}
	}
}

// process classifies one change event. Inserts become entry notifications,
// updates that complete a parked transaction become exit notifications,
// everything else is ignored.
func (a *Aggregator) process(ctx context.Context, ev parking.ChangeEvent) {
	n, ok := classify(ev, a.now())
	if !ok {
		return
	}
	a.feed.push(n)
	if err := a.refreshStats(ctx); err != nil {
		a.log.ErrorContext(ctx, "stats recompute failed", logger.Error(err))
	}
	a.publish(ctx)
}

func classify(ev parking.ChangeEvent, at time.Time) (Notification, bool) {
	switch {
	case ev.Op == parking.OpInsert && ev.New != nil:
		n := Notification{
			ID:          ev.New.ID,
			Kind:        KindEntry,
			PlateNumber: ev.New.PlateNumber,
			VehicleType: ev.New.VehicleType.Label(),
			At:          at,
		}
		if ev.New.Area != nil {
			n.AreaName = ev.New.Area.Name
		}
		return n, true

	case ev.Op == parking.OpUpdate && ev.Old != nil && ev.New != nil &&
		ev.Old.Status == parking.StatusParked && ev.New.Status == parking.StatusCompleted:
		n := Notification{
			ID:          ev.New.ID,
			Kind:        KindExit,
			PlateNumber: ev.New.PlateNumber,
			VehicleType: ev.New.VehicleType.Label(),
			Amount:      ev.New.Amount,
			At:          at,
		}
		if ev.New.Area != nil {
			n.AreaName = ev.New.Area.Name
		}
		return n, true

	default:
		return Notification{}, false
	}
}

func (a *Aggregator) refreshStats(ctx context.Context) error {
	stats, err := computeStats(ctx, a.storage, a.now())
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.stats = stats
	a.mu.Unlock()
	return nil
}

func (a *Aggregator) publish(ctx context.Context) {
	_ = a.updates.Broadcast(ctx, broadcast.Message[Snapshot]{Data: a.snapshot()})
}

func (a *Aggregator) snapshot() Snapshot {
	a.mu.RLock()
	stats := a.stats
	a.mu.RUnlock()
	return Snapshot{Notifications: a.feed.snapshot(), Stats: stats}
}

// Notifications returns the feed, newest first.
func (a *Aggregator) Notifications() []Notification {
	return a.feed.snapshot()
}

// Stats returns the last computed daily statistics.
func (a *Aggregator) Stats() DailyStats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

// Clear empties the notification feed. Statistics are unaffected.
func (a *Aggregator) Clear(ctx context.Context) {
	a.feed.clear()
	a.publish(ctx)
}

// Subscribe streams a Snapshot after every processed event. The
// subscription ends when ctx is cancelled.
func (a *Aggregator) Subscribe(ctx context.Context) broadcast.Subscriber[Snapshot] {
	return a.updates.Subscribe(ctx)
}

// Close releases the change-stream subscription and the update stream.
// Run must have returned already.
func (a *Aggregator) Close() error {
	return errors.Join(a.events.Close(), a.updates.Close())
}
