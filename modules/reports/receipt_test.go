package reports_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparking/parkd/modules/parking"
	"github.com/eparking/parkd/modules/reports"
)

func TestReceipt(t *testing.T) {
	t.Parallel()

	t.Run("built from a completed transaction", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		tx := f.seed(t, "mobil", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

		receipt, err := f.svc.Receipt(context.Background(), tx.ID)
		require.NoError(t, err)

		assert.Equal(t, tx.ID, receipt.TransactionID)
		assert.Equal(t, strings.ToUpper(tx.ID.String()[:8]), receipt.Code)
		assert.Len(t, receipt.Code, 8)
		assert.Equal(t, "Mobil", receipt.VehicleType)
		assert.Equal(t, "Main Lot", receipt.AreaName)
		assert.Equal(t, 1, receipt.DurationHours)
		assert.Equal(t, int64(2000), receipt.Amount)
	})

	t.Run("parked vehicle has no receipt", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		tx, err := f.parking.RecordEntry(context.Background(), parking.EntryInput{
			PlateNumber: "B 1 A", VehicleType: "motor", AreaID: f.area.ID,
		})
		require.NoError(t, err)

		_, err = f.svc.Receipt(context.Background(), tx.ID)
		require.ErrorIs(t, err, reports.ErrReceiptUnavailable)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Receipt(context.Background(), uuid.New())
		require.ErrorIs(t, err, parking.ErrTransactionNotFound)
	})

	t.Run("text slip", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		tx := f.seed(t, "motor", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

		receipt, err := f.svc.Receipt(context.Background(), tx.ID)
		require.NoError(t, err)

		text := receipt.Text()
		assert.Contains(t, text, "STRUK PARKIR")
		assert.Contains(t, text, receipt.Code)
		assert.Contains(t, text, "B 1 A")
		assert.Contains(t, text, "1 jam")
		assert.Contains(t, text, "Rp 2.000")
	})

	t.Run("qr encodes the transaction id", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		tx := f.seed(t, "motor", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

		receipt, err := f.svc.Receipt(context.Background(), tx.ID)
		require.NoError(t, err)

		png, err := receipt.QRCode(128)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "PNG magic header")
	})
}
