package parking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eparking/parkd/modules/parking"
)

func TestAreaOccupancy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		used    int
		total   int
		percent int
		level   parking.OccupancyLevel
	}{
		{"empty area", 0, 10, 0, parking.LevelNominal},
		{"rounds to nearest", 1, 3, 33, parking.LevelNominal},
		{"rounds half up", 5, 8, 63, parking.LevelNominal},
		{"warning at seventy", 7, 10, 70, parking.LevelWarning},
		{"high but not critical", 6, 7, 86, parking.LevelWarning},
		{"still warning below ninety", 89, 100, 89, parking.LevelWarning},
		{"critical at ninety", 9, 10, 90, parking.LevelCritical},
		{"full", 10, 10, 100, parking.LevelCritical},
		{"zero capacity", 5, 0, 0, parking.LevelNominal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			area := parking.ParkingArea{OccupiedSlots: tt.used, TotalSlots: tt.total}
			occ := area.Occupancy()
			assert.Equal(t, tt.percent, occ.Percent)
			assert.Equal(t, tt.level, occ.Level)
			assert.Equal(t, tt.used, occ.Used)
			assert.Equal(t, tt.total, occ.Total)
		})
	}
}

func TestParseVehicleType(t *testing.T) {
	t.Parallel()

	vt, err := parking.ParseVehicleType("motor")
	assert.NoError(t, err)
	assert.Equal(t, parking.VehicleMotor, vt)

	for _, alias := range []string{"mobil", "car"} {
		vt, err := parking.ParseVehicleType(alias)
		assert.NoError(t, err)
		assert.Equal(t, parking.VehicleCar, vt)
	}

	_, err = parking.ParseVehicleType("bus")
	assert.ErrorIs(t, err, parking.ErrInvalidVehicleType)

	assert.Equal(t, "Motor", parking.VehicleMotor.Label())
	assert.Equal(t, "Mobil", parking.VehicleCar.Label())
}
