package model

import (
	"parkpulse/shared/model"
	"slices"
)

const (
	TableName  = "parking_slots"
	EntityName = "slot"

	FieldID           = "id"
	FieldLotID        = "lot_id"
	FieldSlotNumber   = "slot_number"
	FieldVehicleClass = "vehicle_class"
	FieldStatus       = "status"
	FieldIsActive     = "is_active"
)

const (
	StatusAvailable   = "available"
	StatusReserved    = "reserved"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
)

// Vehicle classes form a closed set; anything else is coerced to a
// four-wheeler at the edge.
const (
	VehicleClassTwoWheeler  = "2wheeler"
	VehicleClassFourWheeler = "4wheeler"
	VehicleClassOther       = "others"
)

var VehicleClasses = []string{
	VehicleClassTwoWheeler,
	VehicleClassFourWheeler,
	VehicleClassOther,
}

func NormalizeVehicleClass(class string) string {
	if slices.Contains(VehicleClasses, class) {
		return class
	}

	return VehicleClassFourWheeler
}

type Slot struct {
	ID           string `db:"id"`
	LotID        string `db:"lot_id"`
	SlotNumber   string `db:"slot_number"`
	VehicleClass string `db:"vehicle_class"`
	Status       string `db:"status"`
	Floor        string `db:"floor"`
	IsActive     bool   `db:"is_active"`
	model.Metadata
}

// ClassCount reports how many active slots of one vehicle class a lot
// has and how many of them are currently claimed.
type ClassCount struct {
	Total int `db:"total"`
	Busy  int `db:"busy"`
}

// OccupancyRate is the fraction of active slots that are not available.
func (c ClassCount) OccupancyRate() float64 {
	if c.Total == 0 {
		return 0
	}

	return float64(c.Busy) / float64(c.Total)
}
