// Package reports turns the transaction log into owner-facing artifacts:
// periodic revenue reports with Excel and PDF export, and per-transaction
// receipts with a QR code.
//
// All figures are derived from completed transactions only; a parked
// vehicle has no revenue yet and never appears in a report.
package reports
