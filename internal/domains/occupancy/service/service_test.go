package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"parkpulse/config"
	"parkpulse/infras/otel/mocks"
	lotMocks "parkpulse/internal/domains/lot/mocks"
	occupancyMocks "parkpulse/internal/domains/occupancy/mocks"
	"parkpulse/internal/domains/occupancy/model"
	"parkpulse/internal/domains/occupancy/model/dto"
	"parkpulse/internal/domains/occupancy/service"
	slotMocks "parkpulse/internal/domains/slot/mocks"
	cacheMocks "parkpulse/shared/cache/mocks"
	"parkpulse/shared/timezone"
)

type occupancyMockSet struct {
	repo     *occupancyMocks.MockOccupancy
	lotRepo  *lotMocks.MockLot
	slotRepo *slotMocks.MockSlot
	cache    *cacheMocks.MockRedisCache
}

func newOccupancyService(t *testing.T) (service.Occupancy, occupancyMockSet) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := occupancyMockSet{
		repo:     occupancyMocks.NewMockOccupancy(ctrl),
		lotRepo:  lotMocks.NewMockLot(ctrl),
		slotRepo: slotMocks.NewMockSlot(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.lotRepo, m.slotRepo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func TestOccupancyService_Record(t *testing.T) {
	req := dto.LogOccupancyRequest{
		LotID:         "lot-1",
		OccupiedCount: 12,
		TotalCapacity: 20,
	}

	t.Run("successful recording", func(t *testing.T) {
		svc, m := newOccupancyService(t)

		m.lotRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, log model.OccupancyLog) error {
				assert.Equal(t, "lot-1", log.LotID)
				assert.Equal(t, 12, log.OccupiedCount)
				assert.Equal(t, model.SourceSensor, log.Source)

				return nil
			})

		err := svc.Record(context.Background(), req, model.SourceSensor)

		assert.NoError(t, err)
	})

	t.Run("unknown lot", func(t *testing.T) {
		svc, m := newOccupancyService(t)

		m.lotRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Record(context.Background(), req, model.SourceGateway)

		assert.Error(t, err)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		svc, m := newOccupancyService(t)

		m.lotRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		bad := req
		bad.RecordedAt = "yesterday"

		err := svc.Record(context.Background(), bad, model.SourceGateway)

		assert.Error(t, err)
	})

	t.Run("explicit timestamp is honored", func(t *testing.T) {
		svc, m := newOccupancyService(t)

		recordedAt := timezone.Now().Add(-10 * time.Minute).Truncate(time.Second)

		m.lotRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, log model.OccupancyLog) error {
				assert.True(t, log.RecordedAt.Equal(recordedAt))

				return nil
			})

		withTime := req
		withTime.RecordedAt = recordedAt.Format(time.RFC3339)

		err := svc.Record(context.Background(), withTime, model.SourceGateway)

		assert.NoError(t, err)
	})
}

func TestOccupancyService_Latest(t *testing.T) {
	t.Run("returns the recorded log", func(t *testing.T) {
		svc, m := newOccupancyService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.lotRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.repo.EXPECT().Latest(gomock.Any(), "lot-1").Return(model.OccupancyLog{
			ID:            "log-1",
			LotID:         "lot-1",
			OccupiedCount: 15,
			TotalCapacity: 20,
			Source:        model.SourceSensor,
			RecordedAt:    timezone.Now(),
		}, nil)

		res, err := svc.Latest(context.Background(), "lot-1")

		assert.NoError(t, err)
		assert.Equal(t, 15, res.OccupiedCount)
		assert.InDelta(t, 0.75, res.OccupancyRate, 0.001)
	})

	t.Run("falls back to slot status counts", func(t *testing.T) {
		svc, m := newOccupancyService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.lotRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.repo.EXPECT().Latest(gomock.Any(), "lot-1").Return(model.OccupancyLog{}, nil)
		m.slotRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(10, nil)
		m.slotRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(4, nil)

		res, err := svc.Latest(context.Background(), "lot-1")

		assert.NoError(t, err)
		assert.Equal(t, 4, res.OccupiedCount)
		assert.Equal(t, 10, res.TotalCapacity)
		assert.InDelta(t, 0.4, res.OccupancyRate, 0.001)
	})

	t.Run("unknown lot", func(t *testing.T) {
		svc, m := newOccupancyService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.lotRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Latest(context.Background(), "lot-1")

		assert.Error(t, err)
	})
}
