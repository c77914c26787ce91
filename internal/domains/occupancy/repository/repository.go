package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parkpulse/infras/otel"
	"parkpulse/infras/postgres"
	"parkpulse/internal/domains/occupancy/model"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
	"parkpulse/shared/logger"
	gRepo "parkpulse/shared/repository"
)

type Occupancy interface {
	Insert(ctx context.Context, model model.OccupancyLog) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.OccupancyLog, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Latest(ctx context.Context, lotID string) (model.OccupancyLog, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.OccupancyLog]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Occupancy {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.OccupancyLog](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Latest returns the most recent log for a lot; a zero model with no
// error means the lot has no telemetry yet.
func (repo *repositoryImpl) Latest(ctx context.Context, lotID string) (model.OccupancyLog, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".occupancy_log.Latest")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT id, lot_id, occupied_count, total_capacity, source, recorded_at, created_at, modified_at, created_by, modified_by FROM %s WHERE lot_id = $1 ORDER BY recorded_at DESC LIMIT 1",
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var occupancyLog model.OccupancyLog

	err := repo.db.Read.GetContext(ctx, &occupancyLog, query, lotID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.OccupancyLog{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return occupancyLog, fmt.Errorf("failed to get latest occupancy log: %w", err)
	}

	return occupancyLog, nil
}
