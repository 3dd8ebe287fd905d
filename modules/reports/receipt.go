package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/eparking/parkd/modules/parking"
)

// Receipt is the printable proof of payment for a completed transaction.
type Receipt struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Code          string    `json:"code"`
	PlateNumber   string    `json:"plate_number"`
	VehicleType   string    `json:"vehicle_type"`
	AreaName      string    `json:"area_name,omitempty"`
	EntryTime     time.Time `json:"entry_time"`
	ExitTime      time.Time `json:"exit_time"`
	DurationHours int       `json:"duration_hours"`
	Amount        int64     `json:"amount"`
}

// Receipt builds the receipt for a completed transaction. Parked vehicles
// have nothing to print yet.
func (s *Service) Receipt(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	tx, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status != parking.StatusCompleted || tx.ExitTime == nil {
		return nil, ErrReceiptUnavailable
	}

	r := &Receipt{
		TransactionID: tx.ID,
		Code:          receiptCode(tx.ID),
		PlateNumber:   tx.PlateNumber,
		VehicleType:   tx.VehicleType.Label(),
		EntryTime:     tx.EntryTime,
		ExitTime:      *tx.ExitTime,
		DurationHours: durationHours(*tx),
		Amount:        tx.Amount,
	}
	if tx.Area != nil {
		r.AreaName = tx.Area.Name
	}
	return r, nil
}

// receiptCode is the short human-readable id printed on the slip: the
// first eight characters of the transaction id, uppercased.
func receiptCode(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}

const receiptWidth = 32

// Text renders the fixed-width slip for thermal printers.
func (r *Receipt) Text() string {
	line := strings.Repeat("=", receiptWidth)
	row := func(label, value string) string {
		pad := receiptWidth - len(label) - len(value)
		if pad < 1 {
			pad = 1
		}
		return label + strings.Repeat(" ", pad) + value
	}

	var b strings.Builder
	b.WriteString(center("STRUK PARKIR", receiptWidth) + "\n")
	b.WriteString(line + "\n")
	b.WriteString(row("No.", r.Code) + "\n")
	b.WriteString(row("Plat", r.PlateNumber) + "\n")
	b.WriteString(row("Kendaraan", r.VehicleType) + "\n")
	if r.AreaName != "" {
		b.WriteString(row("Area", r.AreaName) + "\n")
	}
	b.WriteString(row("Masuk", r.EntryTime.Format("02/01/06 15:04")) + "\n")
	b.WriteString(row("Keluar", r.ExitTime.Format("02/01/06 15:04")) + "\n")
	b.WriteString(row("Durasi", fmt.Sprintf("%d jam", r.DurationHours)) + "\n")
	b.WriteString(line + "\n")
	b.WriteString(row("TOTAL", FormatIDR(r.Amount)) + "\n")
	b.WriteString(line + "\n")
	b.WriteString(center("Terima kasih", receiptWidth) + "\n")
	return b.String()
}

// QRCode renders the transaction id as a PNG for exit-gate scanners.
func (r *Receipt) QRCode(size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(r.TransactionID.String(), qrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}
	return png, nil
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
