package redis

import "errors"

var (
	ErrInvalidConnString = errors.New("redis.invalid_conn_string")
	ErrNotReady          = errors.New("redis.not_ready")
	ErrHealthcheckFailed = errors.New("redis.healthcheck_failed")
)
