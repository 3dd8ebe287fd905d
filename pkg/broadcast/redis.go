package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster fans out messages across processes via Redis pub/sub.
// Payloads are JSON-encoded, so T must round-trip through encoding/json.
// Subscribers on every connected process receive each published message.
type RedisBroadcaster[T any] struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger

	mu     sync.Mutex
	subs   []*redisSubscriber[T]
	closed bool
}

// NewRedisBroadcaster creates a broadcaster publishing on the given
// pub/sub channel. The client is owned by the caller and is not closed
// by Close.
func NewRedisBroadcaster[T any](client *redis.Client, channel string, log *slog.Logger) *RedisBroadcaster[T] {
	if log == nil {
		log = slog.Default()
	}
	return &RedisBroadcaster[T]{
		client:  client,
		channel: channel,
		logger:  log,
	}
}

// Subscribe opens a Redis subscription scoped to ctx. The returned
// subscriber's channel is closed when ctx is cancelled, the subscriber
// is closed, or the broadcaster shuts down.
func (b *RedisBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &redisSubscriber[T]{
		ch: make(chan Message[T], 16),
	}
	if b.closed {
		sub.close()
		return sub
	}

	pubsub := b.client.Subscribe(ctx, b.channel)
	sub.pubsub = pubsub
	b.subs = append(b.subs, sub)

	go func() {
		defer sub.close()
		// Context cancellation ends the loop without Close being called;
		// release the Redis subscription in that path too.
		defer pubsub.Close() //nolint:errcheck
		src := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-src:
				if !ok {
					return
				}
				var data T
				if err := json.Unmarshal([]byte(raw.Payload), &data); err != nil {
					b.logger.Warn("dropping undecodable broadcast payload",
						slog.String("channel", b.channel),
						slog.Any("error", err))
					continue
				}
				// Non-blocking like the memory implementation: slow
				// consumers miss messages instead of stalling the reader.
				select {
				case sub.ch <- Message[T]{Data: data}:
				default:
				}
			}
		}
	}()

	return sub
}

// Broadcast publishes msg to the Redis channel.
func (b *RedisBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	payload, err := json.Marshal(msg.Data)
	if err != nil {
		return errors.Join(ErrEncodePayload, err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Close closes all subscriptions created by this broadcaster. The Redis
// client itself stays open.
func (b *RedisBroadcaster[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var errs error
	for _, sub := range b.subs {
		errs = errors.Join(errs, sub.Close())
	}
	b.subs = nil
	return errs
}

type redisSubscriber[T any] struct {
	pubsub    *redis.PubSub
	ch        chan Message[T]
	closeOnce sync.Once
}

func (s *redisSubscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

func (s *redisSubscriber[T]) Close() error {
	// Closing the PubSub ends the reader goroutine, and only the reader
	// closes the message channel, so Close never races a pending send.
	if s.pubsub != nil {
		return s.pubsub.Close()
	}
	s.close()
	return nil
}

// close is invoked by the reader goroutine once the source channel ends.
func (s *redisSubscriber[T]) close() {
	s.closeOnce.Do(func() { close(s.ch) })
}
