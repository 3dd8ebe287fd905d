package parking

import "errors"

var (
	ErrEmptyPlateNumber    = errors.New("parking.empty_plate_number")
	ErrInvalidVehicleType  = errors.New("parking.invalid_vehicle_type")
	ErrInvalidCapacity     = errors.New("parking.invalid_capacity")
	ErrInvalidHourlyRate   = errors.New("parking.invalid_hourly_rate")
	ErrEmptyAreaName       = errors.New("parking.empty_area_name")
	ErrAreaNotFound        = errors.New("parking.area_not_found")
	ErrAreaNotEmpty        = errors.New("parking.area_not_empty")
	ErrAreaFull            = errors.New("parking.area_full")
	ErrTransactionNotFound = errors.New("parking.transaction_not_found")
	ErrNotParked           = errors.New("parking.transaction_not_parked")
	ErrGateway             = errors.New("parking.gateway_failure")
)
