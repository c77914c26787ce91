// Package engine computes parking prices. It is deterministic and does
// no I/O; occupancy and rates are supplied by the caller.
package engine

import (
	"math"
	slotModel "parkpulse/internal/domains/slot/model"
)

// Fallback scaling applied to a lot's default hourly rate when it has
// no explicit rate configured for a vehicle class.
var classRateFactors = map[string]float64{
	slotModel.VehicleClassTwoWheeler:  0.7,
	slotModel.VehicleClassOther:       0.85,
	slotModel.VehicleClassFourWheeler: 1.0,
}

// Surge bands by occupancy rate.
const (
	surgeHighThreshold = 0.8
	surgeMidThreshold  = 0.6

	surgeHighMultiplier = 1.5
	surgeMidMultiplier  = 1.2
)

type Input struct {
	VehicleClass  string
	HourlyRate    float64
	ClassRates    map[string]float64
	DurationHours float64
	OccupancyRate float64
}

type Quote struct {
	RatePerHour     float64 `json:"rate_per_hour"`
	DurationHours   float64 `json:"duration_hours"`
	BasePrice       float64 `json:"base_price"`
	OccupancyRate   float64 `json:"occupancy_rate"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
	FinalPrice      float64 `json:"final_price"`
}

type Engine interface {
	ClassRate(hourlyRate float64, classRates map[string]float64, vehicleClass string) float64
	Surge(occupancyRate float64) float64
	Price(in Input) Quote
}

type engineImpl struct{}

func New() Engine {
	return &engineImpl{}
}

// ClassRate resolves the hourly rate for a vehicle class, preferring an
// explicitly configured rate over the scaled lot default.
func (e *engineImpl) ClassRate(hourlyRate float64, classRates map[string]float64, vehicleClass string) float64 {
	class := slotModel.NormalizeVehicleClass(vehicleClass)

	if rate, ok := classRates[class]; ok && rate > 0 {
		return rate
	}

	factor, ok := classRateFactors[class]
	if !ok {
		factor = 1.0
	}

	return hourlyRate * factor
}

func (e *engineImpl) Surge(occupancyRate float64) float64 {
	switch {
	case occupancyRate > surgeHighThreshold:
		return surgeHighMultiplier
	case occupancyRate > surgeMidThreshold:
		return surgeMidMultiplier
	default:
		return 1.0
	}
}

func (e *engineImpl) Price(in Input) Quote {
	rate := e.ClassRate(in.HourlyRate, in.ClassRates, in.VehicleClass)
	base := rate * in.DurationHours
	multiplier := e.Surge(in.OccupancyRate)

	return Quote{
		RatePerHour:     rate,
		DurationHours:   in.DurationHours,
		BasePrice:       round2(base),
		OccupancyRate:   in.OccupancyRate,
		SurgeMultiplier: multiplier,
		FinalPrice:      round2(base * multiplier),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
