package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"parkpulse/infras/otel"
	"parkpulse/infras/postgres"
	"parkpulse/internal/domains/booking/model"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
	"parkpulse/shared/logger"
	gRepo "parkpulse/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Booking rows are never deleted; terminal bookings stay for history.
type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error)
	ExistOverlapTx(ctx context.Context, tx *sqlx.Tx, slotID string, start, end time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const bookingColumns = `id, user_id, lot_id, slot_id, start_time, end_time, vehicle_class, vehicle_plate,
	price, status, verification_token, check_in_time, check_out_time,
	created_at, modified_at, created_by, modified_by`

// GetForUpdateTx loads one booking and holds a row lock on it so that
// concurrent verify and cancel calls are serialized.
func (repo *repositoryImpl) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetForUpdateTx")
	defer scope.End()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", bookingColumns, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var booking model.Booking

	err := tx.GetContext(ctx, &booking, query, id)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return booking, fmt.Errorf("failed to get booking for update: %w", err)
	}

	return booking, nil
}

// ExistOverlapTx is the overlap check behind the no-double-booking
// guarantee. It must run in the same transaction as the insert that
// depends on it; the slot row lock taken beforehand makes the
// check-then-insert sequence atomic.
func (repo *repositoryImpl) ExistOverlapTx(ctx context.Context, tx *sqlx.Tx, slotID string, start, end time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ExistOverlapTx")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE slot_id = $1 AND status = ANY($2) AND start_time < $3 AND end_time > $4)",
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var exists bool

	err := tx.GetContext(ctx, &exists, query, slotID, pq.Array(model.HoldingStatuses), end, start)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	return exists, nil
}
