package service

import (
	"context"
	"fmt"

	"marquee/config"
	"marquee/infras/otel"
	"marquee/internal/domains/voucher/model"
	"marquee/internal/domains/voucher/model/dto"
	"marquee/internal/domains/voucher/repository"
	"marquee/shared"
	"marquee/shared/cache"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/failure"
	"marquee/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetVoucher    = "voucher:get"
	cacheGetAllVoucher = "voucher:gets"
	cacheCountVoucher  = "voucher:count"
)

type Voucher interface {
	Issue(ctx context.Context, req dto.IssueVoucherRequest) (dto.VoucherResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVouchersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.VoucherResponse, error)
	GetByCode(ctx context.Context, code string) (model.Voucher, error)
	Update(ctx context.Context, req dto.UpdateVoucherRequest, id string) error
	Redeem(ctx context.Context, code, reservationID string) error
	Release(ctx context.Context, reservationID string) error
	Extend(ctx context.Context, req dto.ExtendVoucherRequest, id string) error
	Archive(ctx context.Context, req dto.ArchiveVoucherRequest, id string) error
}

type serviceImpl struct {
	repo  repository.Voucher
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Voucher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Voucher {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Issue(ctx context.Context, req dto.IssueVoucherRequest) (res dto.VoucherResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Issue")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	voucher := req.ToModel(user)

	if err = s.repo.Insert(ctx, voucher); err != nil {
		log.Error().Err(err).Msg("failed to issue voucher")

		return res, fmt.Errorf("failed to issue voucher: %w", err)
	}

	log.Info().Str("code", voucher.Code).Msg("voucher issued")

	res.FromModel(voucher)

	s.invalidateVoucherCaches(ctx, voucher.ID)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetVouchersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllVoucher, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for vouchers")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vouchers")

		return res, fmt.Errorf("failed to count vouchers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get vouchers")

		return res, fmt.Errorf("failed to get vouchers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vouchers to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountVoucher, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for voucher count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count vouchers")

		return res, fmt.Errorf("failed to count vouchers: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save voucher count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.VoucherResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetVoucher, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for voucher")

		return res, nil
	}

	voucher, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get voucher")

		return res, fmt.Errorf("failed to get voucher: %w", err)
	}

	if voucher.ID == constant.Empty {
		return res, failure.NotFound("voucher not found") // nolint:wrapcheck
	}

	res.FromModel(voucher)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save voucher to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetByCode(ctx context.Context, code string) (res model.Voucher, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByCode")
	defer scope.End()
	defer scope.TraceIfError(err)

	voucher, err := s.repo.Get(ctx, shared.FilterByField(code, model.FieldCode, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get voucher by code")

		return res, fmt.Errorf("failed to get voucher by code: %w", err)
	}

	if voucher.ID == constant.Empty {
		return res, failure.NotFound("voucher not found") // nolint:wrapcheck
	}

	return voucher, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateVoucherRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateVoucherRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if voucher exists")

		return fmt.Errorf("failed to check if voucher exists: %w", err)
	}

	if !exist {
		return failure.NotFound("voucher not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update voucher")

		return fmt.Errorf("failed to update voucher: %w", err)
	}

	s.invalidateVoucherCaches(ctx, id)

	return nil
}

// Redeem consumes the voucher's full value against a reservation. A used
// voucher is immutable afterwards.
func (s *serviceImpl) Redeem(ctx context.Context, code, reservationID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Redeem")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	voucher, err := s.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	today := timezone.Now().Format(constant.ShowDateFormat)
	if !voucher.Redeemable(today) {
		return failure.Conflict("voucher cannot be redeemed: " + voucher.DerivedStatus(today)) // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus:            model.StatusUsed,
		model.FieldUsedDate:          today,
		model.FieldUsedReservationID: reservationID,
		constant.FieldModifiedAt:     timezone.Now(),
		constant.FieldModifiedBy:     user,
	}

	filter := shared.FilterByID(voucher.ID, model.FieldID, model.TableName)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to redeem voucher")

		return fmt.Errorf("failed to redeem voucher: %w", err)
	}

	log.Info().Str("code", voucher.Code).Str("reservation_id", reservationID).Msg("voucher redeemed")

	s.invalidateVoucherCaches(ctx, voucher.ID)

	return nil
}

// Release returns the voucher consumed by a reservation back to circulation.
// Used when a booking is cancelled before it was ever confirmed; a reservation
// without a redeemed voucher is a no-op.
func (s *serviceImpl) Release(ctx context.Context, reservationID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Release")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	voucher, err := s.repo.Get(ctx, shared.FilterByField(reservationID, model.FieldUsedReservationID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get voucher by reservation")

		return fmt.Errorf("failed to get voucher by reservation: %w", err)
	}

	if voucher.ID == constant.Empty || voucher.Status != model.StatusUsed {
		return nil
	}

	restored := model.StatusActive
	if voucher.ExtendedCount > 0 {
		restored = model.StatusExtended
	}

	updatedFields := map[string]any{
		model.FieldStatus:            restored,
		model.FieldUsedDate:          nil,
		model.FieldUsedReservationID: nil,
		constant.FieldModifiedAt:     timezone.Now(),
		constant.FieldModifiedBy:     user,
	}

	filter := shared.FilterByID(voucher.ID, model.FieldID, model.TableName)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to release voucher")

		return fmt.Errorf("failed to release voucher: %w", err)
	}

	log.Info().Str("code", voucher.Code).Str("reservation_id", reservationID).Msg("voucher released")

	s.invalidateVoucherCaches(ctx, voucher.ID)

	return nil
}

func (s *serviceImpl) Extend(ctx context.Context, req dto.ExtendVoucherRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Extend")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	voucher, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get voucher")

		return fmt.Errorf("failed to get voucher: %w", err)
	}

	if voucher.ID == constant.Empty {
		return failure.NotFound("voucher not found") // nolint:wrapcheck
	}

	if voucher.Status == model.StatusUsed || voucher.Status == model.StatusArchived {
		return failure.Conflict("voucher can no longer be extended") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldExpiryDate:    req.ExpiryDate,
		model.FieldStatus:        model.StatusExtended,
		model.FieldExtendedCount: voucher.ExtendedCount + 1,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to extend voucher")

		return fmt.Errorf("failed to extend voucher: %w", err)
	}

	s.invalidateVoucherCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Archive(ctx context.Context, req dto.ArchiveVoucherRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Archive")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	voucher, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get voucher")

		return fmt.Errorf("failed to get voucher: %w", err)
	}

	if voucher.ID == constant.Empty {
		return failure.NotFound("voucher not found") // nolint:wrapcheck
	}

	if voucher.Status == model.StatusUsed {
		return failure.Conflict("a used voucher cannot be archived") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus:         model.StatusArchived,
		model.FieldArchivedDate:   timezone.Now().Format(constant.ShowDateFormat),
		model.FieldArchivedReason: req.Reason,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to archive voucher")

		return fmt.Errorf("failed to archive voucher: %w", err)
	}

	s.invalidateVoucherCaches(ctx, id)

	return nil
}

func (s *serviceImpl) invalidateVoucherCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetVoucher, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete voucher from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllVoucher)
		shared.InvalidateCaches(c, s.cache, cacheCountVoucher)
	}()
}
