package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"parkpulse/config"
	"parkpulse/infras/otel/mocks"
	postgresMocks "parkpulse/infras/postgres/mocks"
	bookingMocks "parkpulse/internal/domains/booking/mocks"
	"parkpulse/internal/domains/booking/model"
	"parkpulse/internal/domains/booking/model/dto"
	"parkpulse/internal/domains/booking/service"
	lotMocks "parkpulse/internal/domains/lot/mocks"
	lotModel "parkpulse/internal/domains/lot/model"
	"parkpulse/internal/domains/pricing/engine"
	slotMocks "parkpulse/internal/domains/slot/mocks"
	slotModel "parkpulse/internal/domains/slot/model"
	cacheMocks "parkpulse/shared/cache/mocks"
	"parkpulse/shared/constant"
	gModel "parkpulse/shared/model"
	"parkpulse/shared/timezone"

	"database/sql"
)

type bookingMockSet struct {
	repo     *bookingMocks.MockBooking
	lotRepo  *lotMocks.MockLot
	slotRepo *slotMocks.MockSlot
	txer     *postgresMocks.MockTxer
	cache    *cacheMocks.MockRedisCache
}

func newBookingService(t *testing.T) (service.Booking, bookingMockSet) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := bookingMockSet{
		repo:     bookingMocks.NewMockBooking(ctrl),
		lotRepo:  lotMocks.NewMockLot(ctrl),
		slotRepo: slotMocks.NewMockSlot(ctrl),
		txer:     postgresMocks.NewMockTxer(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	// Cache invalidation runs on a background goroutine.
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.lotRepo, m.slotRepo, engine.New(), m.txer, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func passthroughTx(txer *postgresMocks.MockTxer) {
	txer.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		}).
		AnyTimes()
}

func driverContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleDriver)
}

func activeLot(id string) lotModel.Lot {
	return lotModel.Lot{
		ID:         id,
		OwnerID:    "owner-1",
		Name:       "Central Lot",
		HourlyRate: 60,
		IsActive:   true,
	}
}

func TestBookingService_Create(t *testing.T) {
	now := timezone.Now()
	start := now.Add(2 * time.Hour)
	end := now.Add(4 * time.Hour)

	req := dto.CreateBookingRequest{
		LotID:        "lot-1",
		VehicleClass: slotModel.VehicleClassFourWheeler,
		VehiclePlate: "B 1234 XYZ",
		StartTime:    start.Format(time.RFC3339),
		EndTime:      end.Format(time.RFC3339),
	}

	t.Run("successful creation with automatic slot assignment", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeLot("lot-1"), nil)
		m.slotRepo.EXPECT().CountByClass(gomock.Any(), "lot-1", slotModel.VehicleClassFourWheeler).
			Return(slotModel.ClassCount{Total: 10, Busy: 2}, nil)
		m.slotRepo.EXPECT().ListActiveForUpdateTx(gomock.Any(), gomock.Any(), "lot-1", slotModel.VehicleClassFourWheeler).
			Return([]slotModel.Slot{
				{ID: "slot-1", LotID: "lot-1", VehicleClass: slotModel.VehicleClassFourWheeler, Status: slotModel.StatusAvailable, IsActive: true},
			}, nil)
		m.repo.EXPECT().ExistOverlapTx(gomock.Any(), gomock.Any(), "slot-1", gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.slotRepo.EXPECT().UpdateStatusTx(gomock.Any(), gomock.Any(), "slot-1", slotModel.StatusReserved, "user-1").Return(nil)

		res, err := svc.Create(driverContext("user-1"), req)

		assert.NoError(t, err)
		assert.Equal(t, "slot-1", res.SlotID)
		assert.Equal(t, model.StatusConfirmed, res.Status)
		assert.NotEmpty(t, res.VerificationToken)
		assert.InDelta(t, 120, res.Price, 0.001)
	})

	t.Run("requested slot is honored", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		reqWithSlot := req
		reqWithSlot.SlotID = "slot-7"

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeLot("lot-1"), nil)
		m.slotRepo.EXPECT().CountByClass(gomock.Any(), "lot-1", slotModel.VehicleClassFourWheeler).
			Return(slotModel.ClassCount{Total: 10, Busy: 9}, nil)
		m.slotRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "slot-7").
			Return(slotModel.Slot{ID: "slot-7", LotID: "lot-1", VehicleClass: slotModel.VehicleClassFourWheeler, Status: slotModel.StatusAvailable, IsActive: true}, nil)
		m.repo.EXPECT().ExistOverlapTx(gomock.Any(), gomock.Any(), "slot-7", gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.slotRepo.EXPECT().UpdateStatusTx(gomock.Any(), gomock.Any(), "slot-7", slotModel.StatusReserved, "user-1").Return(nil)

		res, err := svc.Create(driverContext("user-1"), reqWithSlot)

		assert.NoError(t, err)
		assert.Equal(t, "slot-7", res.SlotID)
		// 90% busy puts the lot in the high surge band.
		assert.InDelta(t, 180, res.Price, 0.001)
	})

	t.Run("missing user is rejected", func(t *testing.T) {
		svc, _ := newBookingService(t)

		_, err := svc.Create(context.Background(), req)

		assert.Error(t, err)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		svc, _ := newBookingService(t)

		bad := req
		bad.StartTime = end.Format(time.RFC3339)
		bad.EndTime = start.Format(time.RFC3339)

		_, err := svc.Create(driverContext("user-1"), bad)

		assert.ErrorIs(t, err, service.ErrInvalidTimeWindow)
	})

	t.Run("past start is rejected", func(t *testing.T) {
		svc, _ := newBookingService(t)

		bad := req
		bad.StartTime = now.Add(-2 * time.Hour).Format(time.RFC3339)
		bad.EndTime = now.Add(-1 * time.Hour).Format(time.RFC3339)

		_, err := svc.Create(driverContext("user-1"), bad)

		assert.ErrorIs(t, err, service.ErrPastBooking)
	})

	t.Run("unknown lot is rejected", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(lotModel.Lot{}, nil)

		_, err := svc.Create(driverContext("user-1"), req)

		assert.ErrorIs(t, err, service.ErrLotNotFound)
	})

	t.Run("inactive lot is rejected", func(t *testing.T) {
		svc, m := newBookingService(t)

		lot := activeLot("lot-1")
		lot.IsActive = false

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(lot, nil)

		_, err := svc.Create(driverContext("user-1"), req)

		assert.ErrorIs(t, err, service.ErrLotInactive)
	})

	t.Run("requested slot of wrong class is rejected", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		reqWithSlot := req
		reqWithSlot.SlotID = "slot-7"

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeLot("lot-1"), nil)
		m.slotRepo.EXPECT().CountByClass(gomock.Any(), "lot-1", slotModel.VehicleClassFourWheeler).
			Return(slotModel.ClassCount{Total: 10, Busy: 0}, nil)
		m.slotRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "slot-7").
			Return(slotModel.Slot{ID: "slot-7", LotID: "lot-1", VehicleClass: slotModel.VehicleClassTwoWheeler, Status: slotModel.StatusAvailable, IsActive: true}, nil)

		_, err := svc.Create(driverContext("user-1"), reqWithSlot)

		assert.ErrorIs(t, err, service.ErrSlotIncompatible)
	})

	t.Run("requested slot with overlapping booking is rejected", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		reqWithSlot := req
		reqWithSlot.SlotID = "slot-7"

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeLot("lot-1"), nil)
		m.slotRepo.EXPECT().CountByClass(gomock.Any(), "lot-1", slotModel.VehicleClassFourWheeler).
			Return(slotModel.ClassCount{Total: 10, Busy: 0}, nil)
		m.slotRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "slot-7").
			Return(slotModel.Slot{ID: "slot-7", LotID: "lot-1", VehicleClass: slotModel.VehicleClassFourWheeler, Status: slotModel.StatusAvailable, IsActive: true}, nil)
		m.repo.EXPECT().ExistOverlapTx(gomock.Any(), gomock.Any(), "slot-7", gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Create(driverContext("user-1"), reqWithSlot)

		assert.ErrorIs(t, err, service.ErrSlotUnavailable)
	})

	t.Run("single slot already booked leaves nothing available", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeLot("lot-1"), nil)
		m.slotRepo.EXPECT().CountByClass(gomock.Any(), "lot-1", slotModel.VehicleClassFourWheeler).
			Return(slotModel.ClassCount{Total: 1, Busy: 1}, nil)
		m.slotRepo.EXPECT().ListActiveForUpdateTx(gomock.Any(), gomock.Any(), "lot-1", slotModel.VehicleClassFourWheeler).
			Return([]slotModel.Slot{
				{ID: "slot-1", LotID: "lot-1", VehicleClass: slotModel.VehicleClassFourWheeler, Status: slotModel.StatusReserved, IsActive: true},
			}, nil)
		m.repo.EXPECT().ExistOverlapTx(gomock.Any(), gomock.Any(), "slot-1", gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Create(driverContext("user-1"), req)

		assert.ErrorIs(t, err, service.ErrNoSlotsAvailable)
	})

	t.Run("insert failure rolls up", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		m.lotRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeLot("lot-1"), nil)
		m.slotRepo.EXPECT().CountByClass(gomock.Any(), "lot-1", slotModel.VehicleClassFourWheeler).
			Return(slotModel.ClassCount{Total: 10, Busy: 2}, nil)
		m.slotRepo.EXPECT().ListActiveForUpdateTx(gomock.Any(), gomock.Any(), "lot-1", slotModel.VehicleClassFourWheeler).
			Return([]slotModel.Slot{
				{ID: "slot-1", LotID: "lot-1", VehicleClass: slotModel.VehicleClassFourWheeler, Status: slotModel.StatusAvailable, IsActive: true},
			}, nil)
		m.repo.EXPECT().ExistOverlapTx(gomock.Any(), gomock.Any(), "slot-1", gomock.Any(), gomock.Any()).Return(false, nil)
		m.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		_, err := svc.Create(driverContext("user-1"), req)

		assert.Error(t, err)
	})
}

func confirmedBooking(start, end time.Time) model.Booking {
	return model.Booking{
		ID:                "booking-1",
		UserID:            "user-1",
		LotID:             "lot-1",
		SlotID:            "slot-1",
		StartTime:         start,
		EndTime:           end,
		VehicleClass:      slotModel.VehicleClassFourWheeler,
		Price:             120,
		Status:            model.StatusConfirmed,
		VerificationToken: "valid-token",
		Metadata:          gModel.Metadata{},
	}
}

func TestBookingService_Verify(t *testing.T) {
	now := timezone.Now()

	req := dto.VerifyGateRequest{
		BookingID: "booking-1",
		Token:     "valid-token",
	}

	t.Run("check in within grace period", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(10*time.Minute), now.Add(2*time.Hour))

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)
		m.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.slotRepo.EXPECT().UpdateStatusTx(gomock.Any(), gomock.Any(), "slot-1", slotModel.StatusOccupied, "gate").Return(nil)

		res, err := svc.Verify(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, dto.VerifyActionCheckIn, res.Action)
		assert.Equal(t, model.StatusCheckedIn, res.Status)
		assert.NotEmpty(t, res.CheckInTime)
	})

	t.Run("second verification checks out", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(-time.Hour), now.Add(time.Hour))
		booking.Status = model.StatusCheckedIn

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)
		m.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.slotRepo.EXPECT().UpdateStatusTx(gomock.Any(), gomock.Any(), "slot-1", slotModel.StatusAvailable, "gate").Return(nil)

		res, err := svc.Verify(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, dto.VerifyActionCheckOut, res.Action)
		assert.Equal(t, model.StatusCompleted, res.Status)
		assert.NotEmpty(t, res.CheckOutTime)
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(model.Booking{}, sql.ErrNoRows)

		_, err := svc.Verify(context.Background(), req)

		assert.ErrorIs(t, err, service.ErrBookingNotFound)
	})

	t.Run("token mismatch", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(10*time.Minute), now.Add(2*time.Hour))

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)

		wrong := req
		wrong.Token = "forged-token"

		_, err := svc.Verify(context.Background(), wrong)

		assert.ErrorIs(t, err, service.ErrTokenMismatch)
	})

	t.Run("cancelled booking", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(10*time.Minute), now.Add(2*time.Hour))
		booking.Status = model.StatusCancelled

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)

		_, err := svc.Verify(context.Background(), req)

		assert.ErrorIs(t, err, service.ErrBookingCancelled)
	})

	t.Run("completed booking", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(-3*time.Hour), now.Add(-time.Hour))
		booking.Status = model.StatusCompleted

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)

		_, err := svc.Verify(context.Background(), req)

		assert.ErrorIs(t, err, service.ErrBookingCompleted)
	})

	t.Run("too early to check in", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(20*time.Minute), now.Add(2*time.Hour))

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)

		_, err := svc.Verify(context.Background(), req)

		assert.ErrorIs(t, err, service.ErrTooEarly)
	})

	t.Run("expired window", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(-3*time.Hour), now.Add(-16*time.Minute))

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)

		_, err := svc.Verify(context.Background(), req)

		assert.ErrorIs(t, err, service.ErrExpired)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	now := timezone.Now()

	t.Run("successful cancellation", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(3*time.Hour), now.Add(5*time.Hour))

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)
		m.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.slotRepo.EXPECT().UpdateStatusTx(gomock.Any(), gomock.Any(), "slot-1", slotModel.StatusAvailable, "user-1").Return(nil)

		err := svc.Cancel(driverContext("user-1"), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("admin may cancel another user's booking", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(3*time.Hour), now.Add(5*time.Hour))

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)
		m.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.slotRepo.EXPECT().UpdateStatusTx(gomock.Any(), gomock.Any(), "slot-1", slotModel.StatusAvailable, "admin-1").Return(nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

		err := svc.Cancel(ctx, "booking-1")

		assert.NoError(t, err)
	})

	t.Run("other users are rejected", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(3*time.Hour), now.Add(5*time.Hour))

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)

		err := svc.Cancel(driverContext("user-2"), "booking-1")

		assert.ErrorIs(t, err, service.ErrNotBookingOwner)
	})

	t.Run("terminal booking is rejected", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(3*time.Hour), now.Add(5*time.Hour))
		booking.Status = model.StatusCancelled

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)

		err := svc.Cancel(driverContext("user-1"), "booking-1")

		assert.ErrorIs(t, err, service.ErrAlreadyTerminal)
	})

	t.Run("cancellation just outside the cutoff succeeds", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(time.Hour+2*time.Second), now.Add(3*time.Hour))

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)
		m.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.slotRepo.EXPECT().UpdateStatusTx(gomock.Any(), gomock.Any(), "slot-1", slotModel.StatusAvailable, "user-1").Return(nil)

		err := svc.Cancel(driverContext("user-1"), "booking-1")

		assert.NoError(t, err)
	})

	t.Run("cancellation at the cutoff is rejected", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(time.Hour), now.Add(3*time.Hour))

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)

		err := svc.Cancel(driverContext("user-1"), "booking-1")

		assert.ErrorIs(t, err, service.ErrTooLateToCancel)
	})

	t.Run("cancellation inside the cutoff is rejected", func(t *testing.T) {
		svc, m := newBookingService(t)
		passthroughTx(m.txer)

		booking := confirmedBooking(now.Add(30*time.Minute), now.Add(3*time.Hour))

		m.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(booking, nil)

		err := svc.Cancel(driverContext("user-1"), "booking-1")

		assert.ErrorIs(t, err, service.ErrTooLateToCancel)
	})
}

func TestBookingService_Get(t *testing.T) {
	now := timezone.Now()

	t.Run("owner reads own booking", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := confirmedBooking(now.Add(time.Hour), now.Add(2*time.Hour))

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Get(driverContext("user-1"), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.Get(driverContext("user-1"), "booking-1")

		assert.ErrorIs(t, err, service.ErrBookingNotFound)
	})

	t.Run("other users may not read it", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := confirmedBooking(now.Add(time.Hour), now.Add(2*time.Hour))

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		_, err := svc.Get(driverContext("user-2"), "booking-1")

		assert.ErrorIs(t, err, service.ErrNotBookingOwner)
	})
}
