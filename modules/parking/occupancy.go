package parking

import "math"

// OccupancyLevel is the pressure classification of an area.
type OccupancyLevel string

const (
	LevelNominal  OccupancyLevel = "nominal"
	LevelWarning  OccupancyLevel = "warning"
	LevelCritical OccupancyLevel = "critical"
)

// Occupancy is the derived utilisation snapshot of one area.
type Occupancy struct {
	Used    int            `json:"used"`
	Total   int            `json:"total"`
	Percent int            `json:"percent"`
	Level   OccupancyLevel `json:"level"`
}

// Occupancy derives the utilisation snapshot. An area with no slots reports
// zero percent, nominal.
func (a ParkingArea) Occupancy() Occupancy {
	pct := occupancyPercent(a.OccupiedSlots, a.TotalSlots)
	return Occupancy{
		Used:    a.OccupiedSlots,
		Total:   a.TotalSlots,
		Percent: pct,
		Level:   classifyOccupancy(pct),
	}
}

func occupancyPercent(used, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(used) / float64(total) * 100))
}

// classifyOccupancy maps a percentage to a level: 90 and above is critical,
// 70 and above is warning, everything else nominal.
func classifyOccupancy(pct int) OccupancyLevel {
	switch {
	case pct >= 90:
		return LevelCritical
	case pct >= 70:
		return LevelWarning
	default:
		return LevelNominal
	}
}
