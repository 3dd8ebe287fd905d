package broadcast

import "errors"

var (
	// ErrEncodePayload is returned when a message cannot be JSON-encoded
	// for transport.
	ErrEncodePayload = errors.New("broadcast.encode_payload_failed")

	// ErrPublishFailed is returned when the transport rejects a publish.
	ErrPublishFailed = errors.New("broadcast.publish_failed")
)
