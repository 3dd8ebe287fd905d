package reports

import "errors"

var (
	ErrInvalidPeriod      = errors.New("reports.invalid_period")
	ErrInvalidFormat      = errors.New("reports.invalid_format")
	ErrReceiptUnavailable = errors.New("reports.receipt_unavailable")
	ErrRenderFailed       = errors.New("reports.render_failed")
)
