package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"parkpulse/config"
	"parkpulse/infras/otel"
	"parkpulse/infras/s3"
	"parkpulse/internal/domains/lot/model"
	"parkpulse/internal/domains/lot/model/dto"
	"parkpulse/internal/domains/lot/repository"
	"parkpulse/shared"
	"parkpulse/shared/cache"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
	"parkpulse/shared/failure"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetLot    = "lot:get"
	cacheGetAllLot = "lot:gets"
	cacheCountLot  = "lot:count"

	photoDirectory = "lots"
)

type Lot interface {
	Create(ctx context.Context, req dto.CreateLotRequest) (dto.LotResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetLotsResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.LotResponse, error)
	Search(ctx context.Context, latitude, longitude, radiusKm float64) (dto.SearchLotsResponse, error)
	Update(ctx context.Context, req dto.UpdateLotRequest, id string) error
	UploadPhoto(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	DeletePhoto(ctx context.Context, id, photoURL string) error
}

type serviceImpl struct {
	repo    repository.Lot
	storage s3.S3
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(repo repository.Lot, storage s3.S3, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Lot {
	return &serviceImpl{
		repo:    repo,
		storage: storage,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateLotRequest) (res dto.LotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("unauthorized") // nolint:wrapcheck
	}

	lot := req.ToModel(user)

	if err = s.repo.Insert(ctx, lot); err != nil {
		log.Error().Err(err).Msg("failed to create lot")

		return res, fmt.Errorf("failed to create lot: %w", err)
	}

	s.invalidateListings(ctx)

	res.FromModel(lot)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetLotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllLot, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for lots")

		return res, nil
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count lots")

		return res, fmt.Errorf("failed to count lots: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get lots")

		return res, fmt.Errorf("failed to get lots: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save lots to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountLot, gDto.QueryParams{}, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count lots")

		return res, fmt.Errorf("failed to count lots: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save lot count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.LotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetLot, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for lot")

		return res, nil
	}

	lot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get lot")

		return res, fmt.Errorf("failed to get lot: %w", err)
	}

	if lot.ID == constant.Empty {
		return res, failure.NotFound("parking lot not found") // nolint:wrapcheck
	}

	res.FromModel(lot)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save lot to cache")
		}
	}()

	return res, nil
}

// Search filters active lots by great-circle distance and returns them
// nearest first. The scan is in-process; lot counts stay small enough
// that a geospatial index is not worth carrying.
func (s *serviceImpl) Search(ctx context.Context, latitude, longitude, radiusKm float64) (res dto.SearchLotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Search")
	defer scope.End()
	defer scope.TraceIfError(err)

	activeFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}

	lots, err := s.repo.GetAll(ctx, gDto.QueryParams{}, activeFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get active lots")

		return res, fmt.Errorf("failed to get active lots: %w", err)
	}

	nearby := make([]model.Lot, 0, len(lots))

	for _, lot := range lots {
		if lot.DistanceKm(latitude, longitude) <= radiusKm {
			nearby = append(nearby, lot)
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm(latitude, longitude) < nearby[j].DistanceKm(latitude, longitude)
	})

	res.FromModels(nearby, latitude, longitude)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateLotRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	lot, err := s.getOwned(ctx, id, user)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, user)

	if len(req.Amenities) > 0 {
		updatedFields["amenities"] = model.StringList(req.Amenities)
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(lot.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update lot")

		return fmt.Errorf("failed to update lot: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// UploadPhoto stores the image in object storage and appends its public
// URL to the lot.
func (s *serviceImpl) UploadPhoto(ctx context.Context, id string, file multipart.File, fileHeader *multipart.FileHeader) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadPhoto")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	lot, err := s.getOwned(ctx, id, user)
	if err != nil {
		return constant.Empty, err
	}

	fileName := uuid.NewString()

	url, err = s.storage.UploadFile(ctx, constant.Empty, photoDirectory, file, fileHeader, fileName)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload lot photo")

		return constant.Empty, fmt.Errorf("failed to upload lot photo: %w", err)
	}

	photos := append(model.StringList{}, lot.Photos...)
	photos = append(photos, url)

	updatedFields := map[string]any{"photos": photos}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(lot.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to save lot photo URL")

		return constant.Empty, fmt.Errorf("failed to save lot photo URL: %w", err)
	}

	s.invalidate(ctx, id)

	return url, nil
}

func (s *serviceImpl) DeletePhoto(ctx context.Context, id, photoURL string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeletePhoto")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	lot, err := s.getOwned(ctx, id, user)
	if err != nil {
		return err
	}

	idx := slices.Index(lot.Photos, photoURL)
	if idx == -1 {
		return failure.NotFound("lot photo not found") // nolint:wrapcheck
	}

	bucket := s.cfg.External.S3.BucketName

	objectName := s.storage.GetObjectNameFromURL(bucket, photoURL)
	if objectName != constant.Empty {
		if err = s.storage.DeleteFile(ctx, bucket, constant.Empty, objectName); err != nil {
			log.Error().Err(err).Msg("failed to delete lot photo from storage")

			return fmt.Errorf("failed to delete lot photo from storage: %w", err)
		}
	}

	photos := append(model.StringList{}, lot.Photos[:idx]...)
	photos = append(photos, lot.Photos[idx+1:]...)

	updatedFields := map[string]any{"photos": photos}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(lot.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to remove lot photo URL")

		return fmt.Errorf("failed to remove lot photo URL: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// getOwned loads a lot and enforces that the caller owns it or is an
// administrator.
func (s *serviceImpl) getOwned(ctx context.Context, id, user string) (model.Lot, error) {
	lot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
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

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetLot, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete lot from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllLot)
		shared.InvalidateCaches(c, s.cache, cacheCountLot)
	}()
}

func (s *serviceImpl) invalidateListings(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllLot)
		shared.InvalidateCaches(c, s.cache, cacheCountLot)
	}()
}
