package dto

import "parkpulse/internal/domains/pricing/engine"

type QuoteRequest struct {
	LotID         string  `json:"lot_id"         validate:"required"`
	VehicleClass  string  `json:"vehicle_class"  validate:"omitempty"`
	DurationHours float64 `json:"duration_hours" validate:"required,gt=0"`
}

type QuoteResponse struct {
	LotID         string  `json:"lot_id"`
	VehicleClass  string  `json:"vehicle_class"`
	RatePerHour   float64 `json:"rate_per_hour"`
	DurationHours float64 `json:"duration_hours"`
	BasePrice     float64 `json:"base_price"`
	OccupancyRate float64 `json:"occupancy_rate"`
	Surge         float64 `json:"surge_multiplier"`
	FinalPrice    float64 `json:"final_price"`
}

func (r *QuoteResponse) FromQuote(lotID, vehicleClass string, quote engine.Quote) {
	r.LotID = lotID
	r.VehicleClass = vehicleClass
	r.RatePerHour = quote.RatePerHour
	r.DurationHours = quote.DurationHours
	r.BasePrice = quote.BasePrice
	r.OccupancyRate = quote.OccupancyRate
	r.Surge = quote.SurgeMultiplier
	r.FinalPrice = quote.FinalPrice
}
