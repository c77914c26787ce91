package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"parkpulse/shared/model"
)

const (
	TableName  = "parking_lots"
	EntityName = "lot"

	FieldID         = "id"
	FieldOwnerID    = "owner_id"
	FieldName       = "name"
	FieldCity       = "city"
	FieldLotType    = "lot_type"
	FieldHourlyRate = "hourly_rate"
	FieldIsActive   = "is_active"
)

const (
	LotTypePublic      = "public"
	LotTypePrivate     = "private"
	LotTypeCommercial  = "commercial"
	LotTypeResidential = "residential"
)

// PricingMap maps a vehicle class to an explicit hourly rate,
// stored as a JSONB column.
type PricingMap map[string]float64

func (p PricingMap) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(p)
}

func (p *PricingMap) Scan(src any) error {
	if src == nil {
		*p = PricingMap{}

		return nil
	}

	data, ok := src.([]byte)
	if !ok {
		return errors.New("unsupported source type for PricingMap")
	}

	return json.Unmarshal(data, p)
}

// StringList is a JSONB-backed list of strings (photo URLs, amenities).
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(s)
}

func (s *StringList) Scan(src any) error {
	if src == nil {
		*s = StringList{}

		return nil
	}

	data, ok := src.([]byte)
	if !ok {
		return errors.New("unsupported source type for StringList")
	}

	return json.Unmarshal(data, s)
}

type Lot struct {
	ID             string     `db:"id"`
	OwnerID        string     `db:"owner_id"`
	Name           string     `db:"name"`
	Description    string     `db:"description"`
	Address        string     `db:"address"`
	City           string     `db:"city"`
	Latitude       float64    `db:"latitude"`
	Longitude      float64    `db:"longitude"`
	TotalSlots     int        `db:"total_slots"`
	HourlyRate     float64    `db:"hourly_rate"`
	VehiclePricing PricingMap `db:"vehicle_pricing"`
	LotType        string     `db:"lot_type"`
	Amenities      StringList `db:"amenities"`
	Photos         StringList `db:"photos"`
	Rating         float64    `db:"rating"`
	IsActive       bool       `db:"is_active"`
	model.Metadata
}

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between the lot and the
// given coordinate using the haversine formula.
func (l *Lot) DistanceKm(latitude, longitude float64) float64 {
	lat1 := latitude * math.Pi / 180
	lat2 := l.Latitude * math.Pi / 180
	deltaLat := (l.Latitude - latitude) * math.Pi / 180
	deltaLon := (l.Longitude - longitude) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
