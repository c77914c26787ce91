package service

import (
	"context"
	"fmt"
	"parkpulse/config"
	"parkpulse/infras/otel"
	lotModel "parkpulse/internal/domains/lot/model"
	lotRepository "parkpulse/internal/domains/lot/repository"
	"parkpulse/internal/domains/slot/model"
	"parkpulse/internal/domains/slot/model/dto"
	"parkpulse/internal/domains/slot/repository"
	"parkpulse/shared"
	"parkpulse/shared/cache"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
	"parkpulse/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetSlot    = "slot:get"
	cacheGetAllSlot = "slot:gets"
	cacheCountSlot  = "slot:count"
)

type Slot interface {
	Create(ctx context.Context, req dto.CreateSlotRequest) (dto.SlotResponse, error)
	CreateBulk(ctx context.Context, req dto.BulkCreateSlotsRequest) (dto.GetSlotsResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSlotsResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.SlotResponse, error)
	Update(ctx context.Context, req dto.UpdateSlotRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Slot
	lotRepo lotRepository.Lot
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.Slot, lotRepo lotRepository.Lot, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Slot {
	return &serviceImpl{
		repo:    repo,
		lotRepo: lotRepo,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateSlotRequest) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	lot, err := s.checkLotOwnership(ctx, req.LotID, user)
	if err != nil {
		return res, err
	}

	if err = s.checkLotCapacity(ctx, lot, 1); err != nil {
		return res, err
	}

	slot := req.ToModel(user)

	if err = s.repo.Insert(ctx, slot); err != nil {
		log.Error().Err(err).Msg("failed to create slot")

		return res, fmt.Errorf("failed to create slot: %w", err)
	}

	s.invalidateListings(ctx)

	res.FromModel(slot)

	return res, nil
}

func (s *serviceImpl) CreateBulk(ctx context.Context, req dto.BulkCreateSlotsRequest) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBulk")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	lot, err := s.checkLotOwnership(ctx, req.LotID, user)
	if err != nil {
		return res, err
	}

	if err = s.checkLotCapacity(ctx, lot, len(req.Slots)); err != nil {
		return res, err
	}

	models := req.ToModels(user)

	if err = s.repo.InsertBulk(ctx, models); err != nil {
		log.Error().Err(err).Msg("failed to create slots")

		return res, fmt.Errorf("failed to create slots: %w", err)
	}

	s.invalidateListings(ctx)

	res.FromModels(models, len(models), 0)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllSlot, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slots")

		return res, nil
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots")

		return res, fmt.Errorf("failed to count slots: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get slots")

		return res, fmt.Errorf("failed to get slots: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slots to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountSlot, gDto.QueryParams{}, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots")

		return res, fmt.Errorf("failed to count slots: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slot count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetSlot, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slot")

		return res, nil
	}

	slot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot")

		return res, fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return res, failure.NotFound("parking slot not found") // nolint:wrapcheck
	}

	res.FromModel(slot)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slot to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSlotRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	slot, err := s.getSlot(ctx, id)
	if err != nil {
		return err
	}

	if _, err = s.checkLotOwnership(ctx, slot.LotID, user); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, user)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(slot.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update slot")

		return fmt.Errorf("failed to update slot: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete deactivates a slot instead of removing the row, keeping
// historical bookings resolvable.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	slot, err := s.getSlot(ctx, id)
	if err != nil {
		return err
	}

	if _, err = s.checkLotOwnership(ctx, slot.LotID, user); err != nil {
		return err
	}

	updatedFields := map[string]any{model.FieldIsActive: false}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(slot.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to deactivate slot")

		return fmt.Errorf("failed to deactivate slot: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) getSlot(ctx context.Context, id string) (model.Slot, error) {
	slot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot")

		return slot, fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return slot, failure.NotFound("parking slot not found") // nolint:wrapcheck
	}

	return slot, nil
}

func (s *serviceImpl) checkLotOwnership(ctx context.Context, lotID, user string) (lotModel.Lot, error) {
	lot, err := s.lotRepo.Get(ctx, shared.FilterByID(lotID, lotModel.FieldID, lotModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get lot")

		return lot, fmt.Errorf("failed to get lot: %w", err)
	}

	if lot.ID == constant.Empty {
		return lot, failure.NotFound("parking lot not found") // nolint:wrapcheck
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if lot.OwnerID != user && role != constant.RoleAdmin {
		return lot, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	return lot, nil
}

// checkLotCapacity counts every slot row on the lot, active or not,
// so deactivated slots still occupy their share of the declared total.
func (s *serviceImpl) checkLotCapacity(ctx context.Context, lot lotModel.Lot, adding int) error {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldLotID,
				Operator: gDto.FilterOperatorEq,
				Value:    lot.ID,
				Table:    model.TableName,
			},
		},
	}

	existing, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots")

		return fmt.Errorf("failed to count slots: %w", err)
	}

	if existing+adding > lot.TotalSlots {
		return failure.BadRequestFromString("slot count would exceed the lot capacity") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSlot, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete slot from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllSlot)
		shared.InvalidateCaches(c, s.cache, cacheCountSlot)
	}()
}

func (s *serviceImpl) invalidateListings(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSlot)
		shared.InvalidateCaches(c, s.cache, cacheCountSlot)
	}()
}
