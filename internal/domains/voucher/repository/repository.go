package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"marquee/infras/otel"
	"marquee/infras/postgres"
	"marquee/internal/domains/voucher/model"
	gDto "marquee/shared/dto"
	gRepo "marquee/shared/repository"
)

type Voucher interface {
	Insert(ctx context.Context, model model.Voucher) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Voucher, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Voucher, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Voucher]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Voucher {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Voucher](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
