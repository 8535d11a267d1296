package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"marquee/infras/otel"
	"marquee/infras/postgres"
	"marquee/internal/domains/show/model"
	gDto "marquee/shared/dto"
	gRepo "marquee/shared/repository"
)

type Show interface {
	Insert(ctx context.Context, model model.Show) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Show, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Show, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Show]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Show {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Show](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
