package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"parkpulse/config"
	"parkpulse/infras/otel/mocks"
	lotMocks "parkpulse/internal/domains/lot/mocks"
	"parkpulse/internal/domains/lot/model"
	"parkpulse/internal/domains/lot/model/dto"
	"parkpulse/internal/domains/lot/service"
	cacheMocks "parkpulse/shared/cache/mocks"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
)

type lotMockSet struct {
	repo  *lotMocks.MockLot
	cache *cacheMocks.MockRedisCache
}

func newLotService(t *testing.T) (service.Lot, lotMockSet) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := lotMockSet{
		repo:  lotMocks.NewMockLot(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, nil, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func ownerContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleOwner)
}

func TestLotService_Create(t *testing.T) {
	req := dto.CreateLotRequest{
		Name:       "Central Lot",
		Address:    "1 Main St",
		City:       "Jakarta",
		Latitude:   -6.2,
		Longitude:  106.8,
		TotalSlots: 50,
		HourlyRate: 60,
	}

	t.Run("successful creation", func(t *testing.T) {
		svc, m := newLotService(t)

		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, lot model.Lot) error {
				assert.Equal(t, "owner-1", lot.OwnerID)
				assert.True(t, lot.IsActive)

				return nil
			})

		res, err := svc.Create(ownerContext("owner-1"), req)

		assert.NoError(t, err)
		assert.Equal(t, "Central Lot", res.Name)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("missing user is rejected", func(t *testing.T) {
		svc, _ := newLotService(t)

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, m := newLotService(t)

		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		_, err := svc.Create(ownerContext("owner-1"), req)

		assert.Error(t, err)
	})
}

func TestLotService_Get(t *testing.T) {
	t.Run("successful get", func(t *testing.T) {
		svc, m := newLotService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Lot{ID: "lot-1", Name: "Central Lot"}, nil)

		res, err := svc.Get(context.Background(), "lot-1")

		assert.NoError(t, err)
		assert.Equal(t, "lot-1", res.ID)
	})

	t.Run("unknown lot", func(t *testing.T) {
		svc, m := newLotService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Lot{}, nil)

		_, err := svc.Get(context.Background(), "lot-1")

		assert.Error(t, err)
	})
}

func TestLotService_Search(t *testing.T) {
	// Monas and two lots: one ~1km away, one on the other side of the
	// city, one inactive filter handled by the repository.
	lots := []model.Lot{
		{ID: "far", Name: "Far Lot", Latitude: -6.3, Longitude: 106.9, IsActive: true},
		{ID: "near", Name: "Near Lot", Latitude: -6.176, Longitude: 106.827, IsActive: true},
	}

	t.Run("returns nearby lots sorted by distance", func(t *testing.T) {
		svc, m := newLotService(t)

		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(lots, nil)

		res, err := svc.Search(context.Background(), -6.175, 106.827, 5)

		assert.NoError(t, err)
		assert.Len(t, res.Lots, 1)
		assert.Equal(t, "near", res.Lots[0].ID)
		assert.Less(t, res.Lots[0].DistanceKm, 5.0)
	})

	t.Run("wide radius includes both, nearest first", func(t *testing.T) {
		svc, m := newLotService(t)

		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(lots, nil)

		res, err := svc.Search(context.Background(), -6.175, 106.827, 50)

		assert.NoError(t, err)
		assert.Len(t, res.Lots, 2)
		assert.Equal(t, "near", res.Lots[0].ID)
		assert.Equal(t, "far", res.Lots[1].ID)
	})
}

func TestLotService_Update(t *testing.T) {
	t.Run("owner updates own lot", func(t *testing.T) {
		svc, m := newLotService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Lot{ID: "lot-1", OwnerID: "owner-1"}, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Update(ownerContext("owner-1"), dto.UpdateLotRequest{Name: "Renamed"}, "lot-1")

		assert.NoError(t, err)
	})

	t.Run("another owner is rejected", func(t *testing.T) {
		svc, m := newLotService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Lot{ID: "lot-1", OwnerID: "owner-1"}, nil)

		err := svc.Update(ownerContext("owner-2"), dto.UpdateLotRequest{Name: "Renamed"}, "lot-1")

		assert.Error(t, err)
	})

	t.Run("admin may update any lot", func(t *testing.T) {
		svc, m := newLotService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Lot{ID: "lot-1", OwnerID: "owner-1"}, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

		err := svc.Update(ctx, dto.UpdateLotRequest{Name: "Renamed"}, "lot-1")

		assert.NoError(t, err)
	})
}

func TestLotService_GetAll(t *testing.T) {
	svc, m := newLotService(t)

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Lot{
		{ID: "lot-1"},
		{ID: "lot-2"},
	}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, res.Lots, 2)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
}
