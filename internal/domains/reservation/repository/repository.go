package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"marquee/infras/otel"
	"marquee/infras/postgres"
	"marquee/internal/domains/reservation/model"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/logger"
	gRepo "marquee/shared/repository"
)

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	SumConfirmedGuests(ctx context.Context, showDate string) (int, error)
	SumConfirmedGuestsGrouped(ctx context.Context) (map[string]int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// SumConfirmedGuests is the booked-guest total for one show date. Only
// confirmed reservations count toward capacity.
func (repo *repositoryImpl) SumConfirmedGuests(ctx context.Context, showDate string) (res int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".SumConfirmedGuests")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s = $1 AND %s = $2",
		model.FieldGuests, model.TableName, model.FieldShowDate, model.FieldStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Read.GetContext(ctx, &res, query, showDate, model.StatusConfirmed); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to sum confirmed guests (%s): %w", model.EntityName, err)
	}

	return res, nil
}

// SumConfirmedGuestsGrouped returns the booked-guest total per show date.
func (repo *repositoryImpl) SumConfirmedGuestsGrouped(ctx context.Context) (res map[string]int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".SumConfirmedGuestsGrouped")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT %s, COALESCE(SUM(%s), 0) AS total FROM %s WHERE %s = $1 GROUP BY %s",
		model.FieldShowDate, model.FieldGuests, model.TableName, model.FieldStatus, model.FieldShowDate,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows := []struct {
		ShowDate string `db:"show_date"`
		Total    int    `db:"total"`
	}{}

	if err = repo.db.Read.SelectContext(ctx, &rows, query, model.StatusConfirmed); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to sum confirmed guests per date (%s): %w", model.EntityName, err)
	}

	res = make(map[string]int, len(rows))
	for _, row := range rows {
		res[row.ShowDate] = row.Total
	}

	return res, nil
}
