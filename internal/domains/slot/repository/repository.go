package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"parkpulse/infras/otel"
	"parkpulse/infras/postgres"
	"parkpulse/internal/domains/slot/model"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
	"parkpulse/shared/logger"
	gRepo "parkpulse/shared/repository"
	"parkpulse/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Slot interface {
	Insert(ctx context.Context, model model.Slot) error
	InsertBulk(ctx context.Context, models []model.Slot) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Slot, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Slot, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Slot, error)
	ListActiveForUpdateTx(ctx context.Context, tx *sqlx.Tx, lotID, vehicleClass string) ([]model.Slot, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id, status, modifiedBy string) error
	CountByClass(ctx context.Context, lotID, vehicleClass string) (model.ClassCount, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Slot]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Slot {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Slot](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const slotColumns = `id, lot_id, slot_number, vehicle_class, status, floor, is_active,
	created_at, modified_at, created_by, modified_by`

// GetForUpdateTx loads one slot and holds a row lock on it for the rest
// of the transaction.
func (repo *repositoryImpl) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Slot, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.GetForUpdateTx")
	defer scope.End()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", slotColumns, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var slot model.Slot

	err := tx.GetContext(ctx, &slot, query, id)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return slot, fmt.Errorf("failed to get slot for update: %w", err)
	}

	return slot, nil
}

// ListActiveForUpdateTx returns the lot's active slots of one vehicle
// class in stable slot-number order, locking every returned row. The
// lock serializes competing booking attempts on the same slots.
func (repo *repositoryImpl) ListActiveForUpdateTx(ctx context.Context, tx *sqlx.Tx, lotID, vehicleClass string) ([]model.Slot, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.ListActiveForUpdateTx")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE lot_id = $1 AND vehicle_class = $2 AND is_active = true ORDER BY slot_number ASC, id ASC FOR UPDATE",
		slotColumns, model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var slots []model.Slot

	err := tx.SelectContext(ctx, &slots, query, lotID, vehicleClass)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list active slots for update: %w", err)
	}

	return slots, nil
}

func (repo *repositoryImpl) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id, status, modifiedBy string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.UpdateStatusTx")
	defer scope.End()

	query := fmt.Sprintf("UPDATE %s SET status = $1, modified_at = $2, modified_by = $3 WHERE id = $4", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := tx.ExecContext(ctx, query, status, timezone.Now(), modifiedBy, id)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to update slot status: %w", err)
	}

	return nil
}

// CountByClass is a plain read outside any transaction; occupancy
// figures derived from it may be slightly stale.
func (repo *repositoryImpl) CountByClass(ctx context.Context, lotID, vehicleClass string) (model.ClassCount, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".slot.CountByClass")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE status <> $1) AS busy FROM %s WHERE lot_id = $2 AND vehicle_class = $3 AND is_active = true",
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count model.ClassCount

	err := repo.db.Read.GetContext(ctx, &count, query, model.StatusAvailable, lotID, vehicleClass)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return count, fmt.Errorf("failed to count slots by class: %w", err)
	}

	return count, nil
}
