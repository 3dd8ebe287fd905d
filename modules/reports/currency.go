package reports

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders an amount the way Indonesian receipts print rupiah,
// with dot thousand separators: 12500 becomes "Rp 12.500".
func FormatIDR(amount int64) string {
	return idPrinter.Sprintf("Rp %v", number.Decimal(amount))
}
