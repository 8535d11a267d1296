package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"marquee/infras/otel"
	"marquee/infras/postgres"
	"marquee/internal/domains/waitlist/model"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/logger"
	gRepo "marquee/shared/repository"
)

type Waitlist interface {
	Insert(ctx context.Context, model model.WaitlistEntry) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.WaitlistEntry, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.WaitlistEntry, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ActiveByDate(ctx context.Context, showDate string) ([]model.WaitlistEntry, error)
	OverdueNotified(ctx context.Context, deadline time.Time) ([]model.WaitlistEntry, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.WaitlistEntry]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Waitlist {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.WaitlistEntry](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ActiveByDate lists active entries for one show date in notification order:
// explicit priority first (lower wins), then arrival order.
func (repo *repositoryImpl) ActiveByDate(ctx context.Context, showDate string) (res []model.WaitlistEntry, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".ActiveByDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s ASC NULLS LAST, %s ASC",
		model.TableName, model.FieldShowDate, model.FieldStatus, model.FieldPriority, constant.FieldCreatedAt,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Read.SelectContext(ctx, &res, query, showDate, model.StatusActive); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get active entries (%s): %w", model.EntityName, err)
	}

	return res, nil
}

// OverdueNotified lists notified entries whose response deadline has passed.
func (repo *repositoryImpl) OverdueNotified(ctx context.Context, deadline time.Time) (res []model.WaitlistEntry, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".OverdueNotified")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s = $1 AND %s < $2",
		model.TableName, model.FieldStatus, model.FieldResponseDeadline,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Read.SelectContext(ctx, &res, query, model.StatusNotified, deadline); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get overdue entries (%s): %w", model.EntityName, err)
	}

	return res, nil
}
