package parking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparking/parkd/modules/parking"
	"github.com/eparking/parkd/pkg/broadcast"
)

func recvEvent(t *testing.T, ch <-chan broadcast.Message[parking.ChangeEvent]) parking.ChangeEvent {
	t.Helper()
	select {
	case msg := <-ch:
		return msg.Data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
		return parking.ChangeEvent{}
	}
}

func TestStoragePublishesChangeEvents(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := broadcast.NewMemoryBroadcaster[parking.ChangeEvent](16)
	t.Cleanup(func() { _ = events.Close() })

	storage := parking.NewMemoryStorage(events)
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := parking.NewService(storage, parking.WithClock(func() time.Time { return now }))

	area, err := svc.CreateArea(ctx, parking.AreaInput{Name: "Lot", TotalSlots: 5})
	require.NoError(t, err)

	sub := events.Subscribe(ctx)
	ch := sub.Receive(ctx)

	tx, err := svc.RecordEntry(ctx, parking.EntryInput{
		PlateNumber: "B 1 A",
		VehicleType: "motor",
		AreaID:      area.ID,
	})
	require.NoError(t, err)

	ev := recvEvent(t, ch)
	assert.Equal(t, parking.OpInsert, ev.Op)
	require.NotNil(t, ev.New)
	assert.Nil(t, ev.Old)
	assert.Equal(t, tx.ID, ev.New.ID)
	assert.Equal(t, parking.StatusParked, ev.New.Status)

	now = now.Add(time.Hour)
	_, err = svc.RecordExit(ctx, tx.ID)
	require.NoError(t, err)

	ev = recvEvent(t, ch)
	assert.Equal(t, parking.OpUpdate, ev.Op)
	require.NotNil(t, ev.Old)
	require.NotNil(t, ev.New)
	assert.Equal(t, parking.StatusParked, ev.Old.Status)
	assert.Equal(t, parking.StatusCompleted, ev.New.Status)

	// A plate correction is an update that does not touch the lifecycle.
	_, err = svc.UpdatePlateNumber(ctx, tx.ID, "B 2 B")
	require.NoError(t, err)

	ev = recvEvent(t, ch)
	assert.Equal(t, parking.OpUpdate, ev.Op)
	assert.Equal(t, ev.Old.Status, ev.New.Status)
	assert.Equal(t, "B 2 B", ev.New.PlateNumber)
}
