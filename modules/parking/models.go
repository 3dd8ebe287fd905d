package parking

import (
	"time"

	"github.com/google/uuid"
)

// VehicleType is the closed set of vehicle categories a transaction can
// carry. The wire value for cars is "mobil" for compatibility with the
// operator terminals already deployed.
type VehicleType string

const (
	VehicleMotor VehicleType = "motor"
	VehicleCar   VehicleType = "mobil"
)

// ParseVehicleType maps a wire value to a VehicleType. The English alias
// "car" is accepted on input but never produced on output.
func ParseVehicleType(s string) (VehicleType, error) {
	switch s {
	case "motor":
		return VehicleMotor, nil
	case "mobil", "car":
		return VehicleCar, nil
	default:
		return "", ErrInvalidVehicleType
	}
}

func (v VehicleType) Valid() bool {
	return v == VehicleMotor || v == VehicleCar
}

// Label returns the human display form used on receipts and reports.
func (v VehicleType) Label() string {
	switch v {
	case VehicleMotor:
		return "Motor"
	case VehicleCar:
		return "Mobil"
	default:
		return string(v)
	}
}

// TxStatus is the transaction lifecycle state. A transaction is created
// parked and transitions to completed exactly once.
type TxStatus string

const (
	StatusParked    TxStatus = "parked"
	StatusCompleted TxStatus = "completed"
)

// DefaultHourlyRate is the fallback fee per hour, in rupiah, applied when a
// transaction has no resolvable area rate.
const DefaultHourlyRate int64 = 2000

// DefaultListLimit caps ListTransactions results when the caller does not
// ask for a specific limit.
const DefaultListLimit = 50

// ParkingArea is a named zone with a fixed capacity and a denormalized
// occupied counter maintained alongside transaction mutations.
type ParkingArea struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	TotalSlots    int       `json:"total_slots"`
	OccupiedSlots int       `json:"occupied_slots"`
	HourlyRate    int64     `json:"hourly_rate"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Transaction is one vehicle visit. ExitTime and DurationHours stay nil
// and Amount zero until the exit is recorded.
type Transaction struct {
	ID            uuid.UUID   `json:"id"`
	PlateNumber   string      `json:"plate_number"`
	VehicleType   VehicleType `json:"vehicle_type"`
	ParkingAreaID *uuid.UUID  `json:"parking_area_id,omitempty"`
	OperatorID    *uuid.UUID  `json:"operator_id,omitempty"`
	EntryTime     time.Time   `json:"entry_time"`
	ExitTime      *time.Time  `json:"exit_time,omitempty"`
	DurationHours *int        `json:"duration_hours,omitempty"`
	Amount        int64       `json:"amount"`
	Status        TxStatus    `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`

	// Area is the joined parking area, populated on reads when the
	// transaction still references an existing area.
	Area *ParkingArea `json:"parking_area,omitempty"`
}

// Parked reports whether the vehicle is still inside.
func (t *Transaction) Parked() bool { return t.Status == StatusParked }
