package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"parkpulse/infras/otel"
	"parkpulse/infras/postgres"
	"parkpulse/internal/domains/lot/model"
	gDto "parkpulse/shared/dto"
	gRepo "parkpulse/shared/repository"
)

type Lot interface {
	Insert(ctx context.Context, model model.Lot) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Lot, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Lot, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Lot]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Lot {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Lot](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
