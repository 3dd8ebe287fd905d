package broadcast_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparking/parkd/pkg/broadcast"
)

func TestMemoryBroadcaster(t *testing.T) {
	t.Parallel()

	t.Run("delivers to all subscribers", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](4)
		defer b.Close()

		ctx := context.Background()
		sub1 := b.Subscribe(ctx)
		sub2 := b.Subscribe(ctx)
		defer sub1.Close()
		defer sub2.Close()

		require.NoError(t, b.Broadcast(ctx, broadcast.Message[string]{Data: "entry"}))

		for _, sub := range []broadcast.Subscriber[string]{sub1, sub2} {
			select {
			case msg := <-sub.Receive(ctx):
				assert.Equal(t, "entry", msg.Data)
			case <-time.After(time.Second):
				t.Fatal("message not delivered")
			}
		}
	})

	t.Run("context cancellation releases subscription", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		// Once the cleanup goroutine runs, the receive channel closes.
		require.Eventually(t, func() bool {
			select {
			case _, ok := <-sub.Receive(context.Background()):
				return !ok
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("slow subscriber does not block publisher", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx := context.Background()
		sub := b.Subscribe(ctx)
		defer sub.Close()

		// Fill the buffer and keep publishing; Broadcast must return
		// promptly every time.
		for i := range 10 {
			done := make(chan struct{})
			go func() {
				require.NoError(t, b.Broadcast(ctx, broadcast.Message[int]{Data: i}))
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("broadcast blocked on a slow subscriber")
			}
		}
	})

	t.Run("subscribe after close returns closed subscriber", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](1)
		require.NoError(t, b.Close())

		sub := b.Subscribe(context.Background())
		_, ok := <-sub.Receive(context.Background())
		assert.False(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](1)
		require.NoError(t, b.Close())
		require.NoError(t, b.Close())
	})
}
