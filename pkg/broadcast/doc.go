// Package broadcast provides type-safe fan-out of messages to multiple
// subscribers. parkd uses it to model the persistence gateway's
// change-event stream: storages publish row change events, the realtime
// aggregator subscribes.
//
// Subscriptions are explicit resources: Subscribe returns the handle and
// Close releases it. Cancelling the subscription context releases it on
// all exit paths as well.
//
//	b := broadcast.NewMemoryBroadcaster[parking.ChangeEvent](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//
//	for msg := range sub.Receive(ctx) {
//		handle(msg.Data)
//	}
//
// Two implementations exist: MemoryBroadcaster for single-process
// deployments and RedisBroadcaster for fan-out across processes.
// Both drop messages for slow consumers rather than blocking the
// publisher.
package broadcast
