package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"parkpulse/internal/domains/pricing/engine"
	slotModel "parkpulse/internal/domains/slot/model"
)

func TestEngine_ClassRate(t *testing.T) {
	eng := engine.New()

	tests := []struct {
		name         string
		hourlyRate   float64
		classRates   map[string]float64
		vehicleClass string
		want         float64
	}{
		{
			name:         "explicit class rate wins over scaled default",
			hourlyRate:   100,
			classRates:   map[string]float64{slotModel.VehicleClassTwoWheeler: 25},
			vehicleClass: slotModel.VehicleClassTwoWheeler,
			want:         25,
		},
		{
			name:         "two wheeler falls back to scaled default",
			hourlyRate:   100,
			classRates:   map[string]float64{},
			vehicleClass: slotModel.VehicleClassTwoWheeler,
			want:         70,
		},
		{
			name:         "other class falls back to scaled default",
			hourlyRate:   100,
			classRates:   nil,
			vehicleClass: slotModel.VehicleClassOther,
			want:         85,
		},
		{
			name:         "four wheeler uses full hourly rate",
			hourlyRate:   100,
			classRates:   nil,
			vehicleClass: slotModel.VehicleClassFourWheeler,
			want:         100,
		},
		{
			name:         "unknown class is treated as four wheeler",
			hourlyRate:   100,
			classRates:   nil,
			vehicleClass: "hovercraft",
			want:         100,
		},
		{
			name:         "zero configured rate is ignored",
			hourlyRate:   100,
			classRates:   map[string]float64{slotModel.VehicleClassFourWheeler: 0},
			vehicleClass: slotModel.VehicleClassFourWheeler,
			want:         100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eng.ClassRate(tt.hourlyRate, tt.classRates, tt.vehicleClass)

			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestEngine_Surge(t *testing.T) {
	eng := engine.New()

	tests := []struct {
		name          string
		occupancyRate float64
		want          float64
	}{
		{name: "empty lot", occupancyRate: 0, want: 1.0},
		{name: "below mid threshold", occupancyRate: 0.6, want: 1.0},
		{name: "just above mid threshold", occupancyRate: 0.61, want: 1.2},
		{name: "at high threshold", occupancyRate: 0.8, want: 1.2},
		{name: "just above high threshold", occupancyRate: 0.81, want: 1.5},
		{name: "full lot", occupancyRate: 1.0, want: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, eng.Surge(tt.occupancyRate), 0.001)
		})
	}
}

func TestEngine_Price(t *testing.T) {
	eng := engine.New()

	tests := []struct {
		name      string
		in        engine.Input
		wantBase  float64
		wantSurge float64
		wantFinal float64
	}{
		{
			name: "busy lot applies high surge",
			in: engine.Input{
				VehicleClass:  slotModel.VehicleClassFourWheeler,
				HourlyRate:    60,
				DurationHours: 2,
				OccupancyRate: 0.85,
			},
			wantBase:  120,
			wantSurge: 1.5,
			wantFinal: 180,
		},
		{
			name: "quiet lot is unscaled",
			in: engine.Input{
				VehicleClass:  slotModel.VehicleClassFourWheeler,
				HourlyRate:    60,
				DurationHours: 2,
				OccupancyRate: 0.3,
			},
			wantBase:  120,
			wantSurge: 1.0,
			wantFinal: 120,
		},
		{
			name: "two wheeler with mid surge",
			in: engine.Input{
				VehicleClass:  slotModel.VehicleClassTwoWheeler,
				HourlyRate:    50,
				DurationHours: 3,
				OccupancyRate: 0.7,
			},
			wantBase:  105,
			wantSurge: 1.2,
			wantFinal: 126,
		},
		{
			name: "fractional totals round to cents",
			in: engine.Input{
				VehicleClass:  slotModel.VehicleClassOther,
				HourlyRate:    33.33,
				DurationHours: 1.5,
				OccupancyRate: 0.9,
			},
			wantBase:  42.5,
			wantSurge: 1.5,
			wantFinal: 63.74,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eng.Price(tt.in)

			assert.InDelta(t, tt.wantBase, got.BasePrice, 0.001)
			assert.InDelta(t, tt.wantSurge, got.SurgeMultiplier, 0.001)
			assert.InDelta(t, tt.wantFinal, got.FinalPrice, 0.001)
			assert.Equal(t, tt.in.DurationHours, got.DurationHours)
			assert.Equal(t, tt.in.OccupancyRate, got.OccupancyRate)
		})
	}
}

func TestEngine_PriceDeterminism(t *testing.T) {
	eng := engine.New()

	in := engine.Input{
		VehicleClass:  slotModel.VehicleClassFourWheeler,
		HourlyRate:    45.5,
		DurationHours: 4,
		OccupancyRate: 0.75,
	}

	first := eng.Price(in)

	for range 10 {
		assert.Equal(t, first, eng.Price(in))
	}
}
