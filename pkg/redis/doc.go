// Package redis provides the Redis client used by the cross-node change
// stream adapter, with startup retries and a pool healthcheck.
package redis
