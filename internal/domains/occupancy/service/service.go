package service

import (
	"context"
	"fmt"
	"parkpulse/config"
	"parkpulse/infras/otel"
	lotModel "parkpulse/internal/domains/lot/model"
	lotRepo "parkpulse/internal/domains/lot/repository"
	"parkpulse/internal/domains/occupancy/model"
	"parkpulse/internal/domains/occupancy/model/dto"
	"parkpulse/internal/domains/occupancy/repository"
	slotModel "parkpulse/internal/domains/slot/model"
	slotRepo "parkpulse/internal/domains/slot/repository"
	"parkpulse/shared"
	"parkpulse/shared/cache"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
	"parkpulse/shared/failure"
	"parkpulse/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheLatestOccupancy = "occupancy:latest"

	// Latest occupancy is cached briefly; telemetry goes stale on its
	// own schedule anyway.
	latestCacheTTLSeconds = 30
)

type Occupancy interface {
	Record(ctx context.Context, req dto.LogOccupancyRequest, source string) error
	Latest(ctx context.Context, lotID string) (dto.OccupancyResponse, error)
}

type serviceImpl struct {
	repo     repository.Occupancy
	lotRepo  lotRepo.Lot
	slotRepo slotRepo.Slot
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Occupancy, lotRepository lotRepo.Lot, slotRepository slotRepo.Slot, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Occupancy {
	return &serviceImpl{
		repo:     repo,
		lotRepo:  lotRepository,
		slotRepo: slotRepository,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Record(ctx context.Context, req dto.LogOccupancyRequest, source string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Record")
	defer scope.End()
	defer scope.TraceIfError(err)

	lotExists, err := s.lotRepo.Exist(ctx, shared.FilterByID(req.LotID, lotModel.FieldID, lotModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if lot exists")

		return fmt.Errorf("failed to check if lot exists: %w", err)
	}

	if !lotExists {
		return failure.NotFound("parking lot not found") // nolint:wrapcheck
	}

	occupancyLog, err := req.ToModel(source)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse occupancy timestamp")

		return failure.BadRequestFromString(fmt.Sprintf("invalid timestamp format: %v", err)) // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, occupancyLog); err != nil {
		log.Error().Err(err).Msg("failed to insert occupancy log")

		return fmt.Errorf("failed to insert occupancy log: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheLatestOccupancy, req.LotID)); err != nil {
			log.Error().Err(err).Msg("failed to delete occupancy from cache")
		}
	}()

	return nil
}

// Latest prefers recorded telemetry and falls back to the live slot
// status counts when a lot has no logs yet.
func (s *serviceImpl) Latest(ctx context.Context, lotID string) (res dto.OccupancyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Latest")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheLatestOccupancy, lotID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for occupancy")

		return res, nil
	}

	lotExists, err := s.lotRepo.Exist(ctx, shared.FilterByID(lotID, lotModel.FieldID, lotModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if lot exists")

		return res, fmt.Errorf("failed to check if lot exists: %w", err)
	}

	if !lotExists {
		return res, failure.NotFound("parking lot not found") // nolint:wrapcheck
	}

	occupancyLog, err := s.repo.Latest(ctx, lotID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get latest occupancy log")

		return res, fmt.Errorf("failed to get latest occupancy log: %w", err)
	}

	if occupancyLog.ID == constant.Empty {
		occupancyLog, err = s.fromSlotStatus(ctx, lotID)
		if err != nil {
			return res, err
		}
	}

	res.FromModel(occupancyLog)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, latestCacheTTLSeconds); err != nil {
			log.Error().Err(err).Msg("failed to save occupancy to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) fromSlotStatus(ctx context.Context, lotID string) (model.OccupancyLog, error) {
	activeFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    slotModel.FieldLotID,
				Operator: gDto.FilterOperatorEq,
				Value:    lotID,
				Table:    slotModel.TableName,
			},
			gDto.Filter{
				Field:    slotModel.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    slotModel.TableName,
			},
		},
	}

	total, err := s.slotRepo.Count(ctx, activeFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots")

		return model.OccupancyLog{}, fmt.Errorf("failed to count slots: %w", err)
	}

	busyFilter := activeFilter
	busyFilter.Filters = append([]any{}, activeFilter.Filters...)
	busyFilter.Filters = append(busyFilter.Filters, gDto.Filter{
		Field:    slotModel.FieldStatus,
		ArgName:  "status_not",
		Operator: gDto.FilterOperatorNotEq,
		Value:    slotModel.StatusAvailable,
		Table:    slotModel.TableName,
	})

	busy, err := s.slotRepo.Count(ctx, busyFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count busy slots")

		return model.OccupancyLog{}, fmt.Errorf("failed to count busy slots: %w", err)
	}

	return model.OccupancyLog{
		LotID:         lotID,
		OccupiedCount: busy,
		TotalCapacity: total,
		Source:        model.SourceGateway,
		RecordedAt:    timezone.Now(),
	}, nil
}
