// Package pg manages the PostgreSQL connection pool used as parkd's
// persistence gateway.
//
// It wraps pgxpool with retrying startup connects, a health check
// closure for readiness endpoints, goose-based schema migrations and
// helpers for classifying common PostgreSQL errors.
package pg
