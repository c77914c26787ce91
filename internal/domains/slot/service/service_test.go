package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"parkpulse/config"
	"parkpulse/infras/otel/mocks"
	lotMocks "parkpulse/internal/domains/lot/mocks"
	lotModel "parkpulse/internal/domains/lot/model"
	slotMocks "parkpulse/internal/domains/slot/mocks"
	"parkpulse/internal/domains/slot/model"
	"parkpulse/internal/domains/slot/model/dto"
	"parkpulse/internal/domains/slot/service"
	cacheMocks "parkpulse/shared/cache/mocks"
	"parkpulse/shared/constant"
)

type slotMockSet struct {
	repo    *slotMocks.MockSlot
	lotRepo *lotMocks.MockLot
	cache   *cacheMocks.MockRedisCache
}

func newSlotService(t *testing.T) (service.Slot, slotMockSet) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := slotMockSet{
		repo:    slotMocks.NewMockSlot(ctrl),
		lotRepo: lotMocks.NewMockLot(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
	}

	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.lotRepo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func slotOwnerContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleOwner)
}

func TestSlotService_Create(t *testing.T) {
	req := dto.CreateSlotRequest{
		LotID:        "lot-1",
		SlotNumber:   "A-01",
		VehicleClass: model.VehicleClassFourWheeler,
	}

	lot := lotModel.Lot{ID: "lot-1", OwnerID: "owner-1", TotalSlots: 10}

	t.Run("successful creation", func(t *testing.T) {
		svc, m := newSlotService(t)

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(lot, nil)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, slot model.Slot) error {
				assert.Equal(t, "lot-1", slot.LotID)
				assert.Equal(t, model.StatusAvailable, slot.Status)

				return nil
			})

		res, err := svc.Create(slotOwnerContext("owner-1"), req)

		assert.NoError(t, err)
		assert.Equal(t, "A-01", res.SlotNumber)
	})

	t.Run("lot at capacity is rejected", func(t *testing.T) {
		svc, m := newSlotService(t)

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(lot, nil)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(10, nil)

		_, err := svc.Create(slotOwnerContext("owner-1"), req)

		assert.Error(t, err)
	})

	t.Run("another owner is rejected", func(t *testing.T) {
		svc, m := newSlotService(t)

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(lot, nil)

		_, err := svc.Create(slotOwnerContext("owner-2"), req)

		assert.Error(t, err)
	})

	t.Run("unknown lot", func(t *testing.T) {
		svc, m := newSlotService(t)

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(lotModel.Lot{}, nil)

		_, err := svc.Create(slotOwnerContext("owner-1"), req)

		assert.Error(t, err)
	})
}

func TestSlotService_CreateBulk(t *testing.T) {
	lot := lotModel.Lot{ID: "lot-1", OwnerID: "owner-1", TotalSlots: 10}

	req := dto.BulkCreateSlotsRequest{
		LotID: "lot-1",
		Slots: []dto.BulkSlotItem{
			{SlotNumber: "A-01", VehicleClass: model.VehicleClassTwoWheeler},
			{SlotNumber: "A-02", VehicleClass: model.VehicleClassFourWheeler},
		},
	}

	t.Run("successful bulk creation", func(t *testing.T) {
		svc, m := newSlotService(t)

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(lot, nil)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		m.repo.EXPECT().InsertBulk(gomock.Any(), gomock.Len(2)).Return(nil)

		res, err := svc.CreateBulk(slotOwnerContext("owner-1"), req)

		assert.NoError(t, err)
		assert.Len(t, res.Slots, 2)
	})

	t.Run("batch overflowing capacity is rejected", func(t *testing.T) {
		svc, m := newSlotService(t)

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(lot, nil)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(9, nil)

		_, err := svc.CreateBulk(slotOwnerContext("owner-1"), req)

		assert.Error(t, err)
	})
}

func TestSlotService_Delete(t *testing.T) {
	t.Run("deactivates instead of removing", func(t *testing.T) {
		svc, m := newSlotService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Slot{ID: "slot-1", LotID: "lot-1"}, nil)
		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(lotModel.Lot{ID: "lot-1", OwnerID: "owner-1"}, nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, false, fields[model.FieldIsActive])

				return nil
			})

		err := svc.Delete(slotOwnerContext("owner-1"), "slot-1")

		assert.NoError(t, err)
	})

	t.Run("unknown slot", func(t *testing.T) {
		svc, m := newSlotService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Slot{}, nil)

		err := svc.Delete(slotOwnerContext("owner-1"), "slot-1")

		assert.Error(t, err)
	})
}
