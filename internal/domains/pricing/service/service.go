package service

import (
	"context"
	"fmt"
	"parkpulse/infras/otel"
	"parkpulse/internal/domains/lot/model"
	lotRepository "parkpulse/internal/domains/lot/repository"
	"parkpulse/internal/domains/pricing/engine"
	"parkpulse/internal/domains/pricing/model/dto"
	slotModel "parkpulse/internal/domains/slot/model"
	slotRepository "parkpulse/internal/domains/slot/repository"
	"parkpulse/shared"
	"parkpulse/shared/constant"
	"parkpulse/shared/failure"

	"github.com/rs/zerolog/log"
)

type Pricing interface {
	Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
}

type serviceImpl struct {
	lotRepo  lotRepository.Lot
	slotRepo slotRepository.Slot
	pricer   engine.Engine
	otel     otel.Otel
}

func New(lotRepo lotRepository.Lot, slotRepo slotRepository.Slot, pricer engine.Engine, otel otel.Otel) Pricing {
	return &serviceImpl{
		lotRepo:  lotRepo,
		slotRepo: slotRepo,
		pricer:   pricer,
		otel:     otel,
	}
}

// Quote prices a hypothetical stay without reserving anything. The
// occupancy snapshot it reads is advisory, so quotes are not a price
// guarantee for a later booking.
func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	vehicleClass := slotModel.NormalizeVehicleClass(req.VehicleClass)

	lot, err := s.lotRepo.Get(ctx, shared.FilterByID(req.LotID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get lot")

		return res, fmt.Errorf("failed to get lot: %w", err)
	}

	if lot.ID == constant.Empty {
		return res, failure.NotFound("parking lot not found") // nolint:wrapcheck
	}

	counts, err := s.slotRepo.CountByClass(ctx, lot.ID, vehicleClass)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots by class")

		return res, fmt.Errorf("failed to count slots by class: %w", err)
	}

	quote := s.pricer.Price(engine.Input{
		VehicleClass:  vehicleClass,
		HourlyRate:    lot.HourlyRate,
		ClassRates:    lot.VehiclePricing,
		DurationHours: req.DurationHours,
		OccupancyRate: counts.OccupancyRate(),
	})

	res.FromQuote(lot.ID, vehicleClass, quote)

	return res, nil
}
