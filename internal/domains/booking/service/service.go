package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"parkpulse/config"
	"parkpulse/infras/otel"
	"parkpulse/infras/postgres"
	"parkpulse/internal/domains/booking/model"
	"parkpulse/internal/domains/booking/model/dto"
	"parkpulse/internal/domains/booking/repository"
	lotModel "parkpulse/internal/domains/lot/model"
	lotRepo "parkpulse/internal/domains/lot/repository"
	"parkpulse/internal/domains/pricing/engine"
	slotModel "parkpulse/internal/domains/slot/model"
	slotRepo "parkpulse/internal/domains/slot/repository"
	"parkpulse/shared"
	"parkpulse/shared/cache"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
	"parkpulse/shared/failure"
	gModel "parkpulse/shared/model"
	"parkpulse/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"gopkg.in/guregu/null.v4"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	// Actor recorded on mutations triggered by gate hardware rather
	// than an authenticated user.
	gateActor = "gate"
)

// Typed outcomes of the booking lifecycle. Conflict-class results are
// expected user-facing outcomes, not system faults; callers branch on
// them with errors.Is.
var (
	ErrLotNotFound       = &failure.Failure{Code: http.StatusNotFound, Message: "parking lot not found"}
	ErrLotInactive       = &failure.Failure{Code: http.StatusBadRequest, Message: "parking lot is not active"}
	ErrInvalidTimeWindow = &failure.Failure{Code: http.StatusBadRequest, Message: "end time must be after start time"}
	ErrPastBooking       = &failure.Failure{Code: http.StatusBadRequest, Message: "start time must not be in the past"}
	ErrSlotIncompatible  = &failure.Failure{Code: http.StatusBadRequest, Message: "requested slot does not fit the booking"}
	ErrSlotUnavailable   = &failure.Failure{Code: http.StatusConflict, Message: "requested slot is not available for this time window"}
	ErrNoSlotsAvailable  = &failure.Failure{Code: http.StatusConflict, Message: "no slots available for this time window"}
	ErrBookingNotFound   = &failure.Failure{Code: http.StatusNotFound, Message: "booking not found"}
	ErrNotBookingOwner   = &failure.Failure{Code: http.StatusForbidden, Message: "booking belongs to another user"}
	ErrTokenMismatch     = &failure.Failure{Code: http.StatusForbidden, Message: "verification token mismatch"}
	ErrBookingCancelled  = &failure.Failure{Code: http.StatusConflict, Message: "booking has been cancelled"}
	ErrBookingCompleted  = &failure.Failure{Code: http.StatusConflict, Message: "booking has already been completed"}
	ErrTooEarly          = &failure.Failure{Code: http.StatusConflict, Message: "too early to check in"}
	ErrExpired           = &failure.Failure{Code: http.StatusConflict, Message: "booking window has expired"}
	ErrAlreadyTerminal   = &failure.Failure{Code: http.StatusConflict, Message: "booking is already completed or cancelled"}
	ErrTooLateToCancel   = &failure.Failure{Code: http.StatusConflict, Message: "too late to cancel this booking"}
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Verify(ctx context.Context, req dto.VerifyGateRequest) (dto.VerifyGateResponse, error)
	Cancel(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo     repository.Booking
	lotRepo  lotRepo.Lot
	slotRepo slotRepo.Slot
	pricer   engine.Engine
	txer     postgres.Txer
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	lotRepository lotRepo.Lot,
	slotRepository slotRepo.Slot,
	pricer engine.Engine,
	txer postgres.Txer,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		lotRepo:  lotRepository,
		slotRepo: slotRepository,
		pricer:   pricer,
		txer:     txer,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Create validates the request, selects a slot, prices it, and reserves
// it. Slot selection, the overlap check, the booking insert, and the
// slot status update run in one transaction; the row locks taken on the
// candidate slots serialize competing creates so at most one of two
// overlapping requests for the same slot can commit.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("unauthorized") // nolint:wrapcheck
	}

	start, end, err := req.Window()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking window")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid time format: %v", err)) // nolint:wrapcheck
	}

	now := timezone.Now()

	if !end.After(start) {
		return res, ErrInvalidTimeWindow
	}

	if start.Before(now) {
		return res, ErrPastBooking
	}

	vehicleClass := slotModel.NormalizeVehicleClass(req.VehicleClass)

	lot, err := s.lotRepo.Get(ctx, shared.FilterByID(req.LotID, lotModel.FieldID, lotModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get lot")

		return res, fmt.Errorf("failed to get lot: %w", err)
	}

	if lot.ID == constant.Empty {
		return res, ErrLotNotFound
	}

	if !lot.IsActive {
		return res, ErrLotInactive
	}

	// Occupancy is read before the slot is reserved; it feeds pricing
	// only and may be slightly stale.
	classCount, err := s.slotRepo.CountByClass(ctx, lot.ID, vehicleClass)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots by class")

		return res, fmt.Errorf("failed to count slots by class: %w", err)
	}

	quote := s.pricer.Price(engine.Input{
		VehicleClass:  vehicleClass,
		HourlyRate:    lot.HourlyRate,
		ClassRates:    lot.VehiclePricing,
		DurationHours: end.Sub(start).Hours(),
		OccupancyRate: classCount.OccupancyRate(),
	})

	token, err := model.NewVerificationToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate verification token")

		return res, fmt.Errorf("failed to generate verification token: %w", err)
	}

	booking := model.Booking{
		ID:                uuid.NewString(),
		UserID:            user,
		LotID:             lot.ID,
		StartTime:         start,
		EndTime:           end,
		VehicleClass:      vehicleClass,
		VehiclePlate:      req.VehiclePlate,
		Price:             quote.FinalPrice,
		Status:            model.StatusConfirmed,
		VerificationToken: token,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	err = s.txer.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		slot, txErr := s.selectSlotTx(ctx, tx, lot.ID, vehicleClass, req.SlotID, start, end)
		if txErr != nil {
			return txErr
		}

		booking.SlotID = slot.ID

		if txErr = s.repo.InsertTx(ctx, tx, booking); txErr != nil {
			return fmt.Errorf("failed to insert booking: %w", txErr)
		}

		if txErr = s.slotRepo.UpdateStatusTx(ctx, tx, slot.ID, model.SlotStatusFor(booking.Status), user); txErr != nil {
			return fmt.Errorf("failed to reserve slot: %w", txErr)
		}

		return nil
	})
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	scope.AddEvent("Booking created on slot " + booking.SlotID)

	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

// selectSlotTx validates the requested slot or scans for the first free
// one. Candidate rows are locked so the overlap check stays valid until
// the surrounding transaction commits.
func (s *serviceImpl) selectSlotTx(ctx context.Context, tx *sqlx.Tx, lotID, vehicleClass, requestedSlotID string, start, end time.Time) (slotModel.Slot, error) {
	if requestedSlotID != constant.Empty {
		slot, err := s.slotRepo.GetForUpdateTx(ctx, tx, requestedSlotID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return slot, ErrSlotIncompatible
			}

			return slot, fmt.Errorf("failed to lock requested slot: %w", err)
		}

		if slot.LotID != lotID || slot.VehicleClass != vehicleClass || !slot.IsActive {
			return slot, ErrSlotIncompatible
		}

		if slot.Status == slotModel.StatusMaintenance {
			return slot, ErrSlotUnavailable
		}

		overlap, err := s.repo.ExistOverlapTx(ctx, tx, slot.ID, start, end)
		if err != nil {
			return slot, fmt.Errorf("failed to check overlap: %w", err)
		}

		if overlap {
			return slot, ErrSlotUnavailable
		}

		return slot, nil
	}

	slots, err := s.slotRepo.ListActiveForUpdateTx(ctx, tx, lotID, vehicleClass)
	if err != nil {
		return slotModel.Slot{}, fmt.Errorf("failed to lock candidate slots: %w", err)
	}

	for _, slot := range slots {
		if slot.Status == slotModel.StatusMaintenance {
			continue
		}

		overlap, err := s.repo.ExistOverlapTx(ctx, tx, slot.ID, start, end)
		if err != nil {
			return slot, fmt.Errorf("failed to check overlap: %w", err)
		}

		if !overlap {
			return slot, nil
		}
	}

	return slotModel.Slot{}, ErrNoSlotsAvailable
}

// Verify advances a booking on a gate event. The first accepted call
// checks the vehicle in; the next one checks it out and completes the
// booking. Booking state, timestamps, and slot status move together in
// one transaction under the booking row lock.
func (s *serviceImpl) Verify(ctx context.Context, req dto.VerifyGateRequest) (res dto.VerifyGateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()

	err = s.txer.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, txErr := s.repo.GetForUpdateTx(ctx, tx, req.BookingID)
		if txErr != nil {
			if errors.Is(txErr, sql.ErrNoRows) {
				return ErrBookingNotFound
			}

			return fmt.Errorf("failed to lock booking: %w", txErr)
		}

		if subtle.ConstantTimeCompare([]byte(booking.VerificationToken), []byte(req.Token)) != 1 {
			return ErrTokenMismatch
		}

		switch booking.Status {
		case model.StatusCancelled:
			return ErrBookingCancelled
		case model.StatusCompleted:
			return ErrBookingCompleted
		}

		if now.Before(booking.StartTime.Add(-model.GracePeriod)) {
			return ErrTooEarly
		}

		if now.After(booking.EndTime.Add(model.GracePeriod)) {
			return ErrExpired
		}

		filter := shared.FilterByID(booking.ID, model.FieldID, model.TableName)

		var action string

		switch booking.Status {
		case model.StatusPending, model.StatusConfirmed:
			action = dto.VerifyActionCheckIn
			booking.Status = model.StatusCheckedIn
			booking.CheckInTime = null.TimeFrom(now)

			txErr = s.repo.UpdateTx(ctx, tx, map[string]any{
				model.FieldStatus:         booking.Status,
				"check_in_time":           booking.CheckInTime,
				constant.FieldModifiedAt:  now,
				constant.FieldModifiedBy:  gateActor,
			}, filter)
		case model.StatusCheckedIn:
			action = dto.VerifyActionCheckOut
			booking.Status = model.StatusCompleted
			booking.CheckOutTime = null.TimeFrom(now)

			txErr = s.repo.UpdateTx(ctx, tx, map[string]any{
				model.FieldStatus:         booking.Status,
				"check_out_time":          booking.CheckOutTime,
				constant.FieldModifiedAt:  now,
				constant.FieldModifiedBy:  gateActor,
			}, filter)
		}

		if txErr != nil {
			return fmt.Errorf("failed to update booking: %w", txErr)
		}

		if txErr = s.slotRepo.UpdateStatusTx(ctx, tx, booking.SlotID, model.SlotStatusFor(booking.Status), gateActor); txErr != nil {
			return fmt.Errorf("failed to update slot status: %w", txErr)
		}

		res.FromModel(booking, action)

		return nil
	})
	if err != nil {
		return dto.VerifyGateResponse{}, err // nolint:wrapcheck
	}

	scope.AddEvent("Gate " + res.Action + " for booking " + res.BookingID)

	s.invalidate(ctx, req.BookingID)

	return res, nil
}

// Cancel rejects terminal bookings and enforces the no-refund cutoff:
// cancelling at or after start minus one hour fails.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	now := timezone.Now()

	err = s.txer.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, txErr := s.repo.GetForUpdateTx(ctx, tx, id)
		if txErr != nil {
			if errors.Is(txErr, sql.ErrNoRows) {
				return ErrBookingNotFound
			}

			return fmt.Errorf("failed to lock booking: %w", txErr)
		}

		if booking.UserID != user && role != constant.RoleAdmin {
			return ErrNotBookingOwner
		}

		if booking.IsTerminal() {
			return ErrAlreadyTerminal
		}

		if !now.Before(booking.StartTime.Add(-model.CancelCutoff)) {
			return ErrTooLateToCancel
		}

		txErr = s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:        model.StatusCancelled,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
		if txErr != nil {
			return fmt.Errorf("failed to cancel booking: %w", txErr)
		}

		if txErr = s.slotRepo.UpdateStatusTx(ctx, tx, booking.SlotID, model.SlotStatusFor(model.StatusCancelled), user); txErr != nil {
			return fmt.Errorf("failed to release slot: %w", txErr)
		}

		return nil
	})
	if err != nil {
		return err // nolint:wrapcheck
	}

	scope.AddEvent("Booking cancelled by user " + user)

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	var cached dto.BookingResponse
	if cacheErr := s.cache.Get(ctx, cacheKey, &cached); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		if cached.UserID != user && role != constant.RoleAdmin {
			return res, ErrNotBookingOwner
		}

		return cached, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, ErrBookingNotFound
	}

	if booking.UserID != user && role != constant.RoleAdmin {
		return res, ErrNotBookingOwner
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, gDto.QueryParams{}, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil && !errors.Is(err, cache.Nil) {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
