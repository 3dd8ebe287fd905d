// Package realtime maintains the live dashboard state: a bounded feed of
// entry and exit notifications plus the daily statistics shown on every
// role's landing view.
//
// A single Aggregator goroutine consumes the parking change stream and
// applies events sequentially, so the feed and the stats always agree with
// the order in which mutations were committed. Statistics are recomputed
// from storage on every processed event rather than incremented, which
// keeps them idempotent under event replay.
package realtime
