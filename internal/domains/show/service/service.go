package service

import (
	"context"
	"fmt"

	"marquee/config"
	"marquee/infras/otel"
	"marquee/internal/capacity"
	reservationRepo "marquee/internal/domains/reservation/repository"
	settingsService "marquee/internal/domains/settings/service"
	showModel "marquee/internal/domains/show/model"
	"marquee/internal/domains/show/model/dto"
	"marquee/internal/domains/show/repository"
	"marquee/shared"
	"marquee/shared/cache"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/failure"
	"marquee/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetShow         = "show:get"
	cacheGetAllShow      = "show:gets"
	cacheCountShow       = "show:count"
	cacheShowGuestCounts = "show:guest-counts"
)

type Show interface {
	Create(ctx context.Context, req dto.CreateShowRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetShowsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ShowResponse, error)
	GetByDate(ctx context.Context, date string) (showModel.Show, error)
	Update(ctx context.Context, req dto.UpdateShowRequest, id string) error
	Delete(ctx context.Context, id string) error
	ToggleClosed(ctx context.Context, req dto.ToggleClosedRequest, id string) error
	AddExternalBookings(ctx context.Context, req dto.AddExternalBookingsRequest, id string) error
	GuestCounts(ctx context.Context) (dto.GuestCountsResponse, error)
	GuestCount(ctx context.Context, show showModel.Show) (int, error)
	EvaluateCapacity(ctx context.Context, date string) error
	CloseExpired(ctx context.Context) error
}

type serviceImpl struct {
	repo            repository.Show
	reservationRepo reservationRepo.Reservation
	settings        settingsService.Settings
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	repo repository.Show,
	reservationRepo reservationRepo.Reservation,
	settings settingsService.Settings,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Show {
	return &serviceImpl{
		repo:            repo,
		reservationRepo: reservationRepo,
		settings:        settings,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateShowRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exists, err := s.repo.Exist(ctx, shared.FilterByField(req.Date, showModel.FieldDate, showModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if show exists")

		return fmt.Errorf("failed to check if show exists: %w", err)
	}

	// One show per date.
	if exists {
		return failure.Conflict("a show already exists on this date") // nolint:wrapcheck
	}

	doc, err := s.settings.Snapshot(ctx)
	if err != nil {
		return err
	}

	showType, ok := doc.ShowType(req.ShowType)
	if !ok {
		return failure.BadRequestFromString("unknown show type") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, showType.DefaultCapacity)); err != nil {
		log.Error().Err(err).Msg("failed to create show")

		return fmt.Errorf("failed to create show: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllShow)
		shared.InvalidateCaches(c, s.cache, cacheCountShow)
		shared.InvalidateCaches(c, s.cache, cacheShowGuestCounts)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetShowsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllShow, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for shows")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count shows")

		return res, fmt.Errorf("failed to count shows: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get shows")

		return res, fmt.Errorf("failed to get shows: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save shows to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountShow, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for show count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count shows")

		return res, fmt.Errorf("failed to count shows: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save show count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ShowResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetShow, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for show")

		return res, nil
	}

	show, err := s.repo.Get(ctx, shared.FilterByID(id, showModel.FieldID, showModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get show")

		return res, fmt.Errorf("failed to get show: %w", err)
	}

	if show.ID == constant.Empty {
		return res, failure.NotFound("show not found") // nolint:wrapcheck
	}

	res.FromModel(show)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save show to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetByDate(ctx context.Context, date string) (res showModel.Show, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByDate")
	defer scope.End()
	defer scope.TraceIfError(err)

	show, err := s.repo.Get(ctx, shared.FilterByField(date, showModel.FieldDate, showModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get show by date")

		return res, fmt.Errorf("failed to get show by date: %w", err)
	}

	if show.ID == constant.Empty {
		return res, failure.NotFound("show not found") // nolint:wrapcheck
	}

	return show, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateShowRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(nil)

	if req == (dto.UpdateShowRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, showModel.FieldID, showModel.TableName)

	show, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get show")

		return fmt.Errorf("failed to get show: %w", err)
	}

	if show.ID == constant.Empty {
		return failure.NotFound("show not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update show")

		return fmt.Errorf("failed to update show: %w", err)
	}

	// Capacity edits can push the show over or under the threshold.
	if err := s.EvaluateCapacity(ctx, show.Date); err != nil {
		log.Error().Err(err).Str("date", show.Date).Msg("failed to re-evaluate capacity after update")
	}

	s.invalidateShowCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(nil)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, showModel.FieldID, showModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if show exists")

		return fmt.Errorf("failed to check if show exists: %w", err)
	}

	if !exist {
		return failure.NotFound("show not found") // nolint:wrapcheck
	}

	// Reservations are kept; deleting a show never cascades.
	if err := s.repo.Delete(ctx, shared.FilterByID(id, showModel.FieldID, showModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete show")

		return fmt.Errorf("failed to delete show: %w", err)
	}

	s.invalidateShowCaches(ctx, id)

	return nil
}

func (s *serviceImpl) ToggleClosed(ctx context.Context, req dto.ToggleClosedRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ToggleClosed")
	defer scope.End()
	defer scope.TraceIfError(nil)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, showModel.FieldID, showModel.TableName)

	show, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get show")

		return fmt.Errorf("failed to get show: %w", err)
	}

	if show.ID == constant.Empty {
		return failure.NotFound("show not found") // nolint:wrapcheck
	}

	// A toggle to open re-validates the threshold at the point of the toggle.
	if !*req.IsClosed {
		guestCount, err := s.GuestCount(ctx, show)
		if err != nil {
			return err
		}

		doc, err := s.settings.Snapshot(ctx)
		if err != nil {
			return err
		}

		if !capacity.CanManualReopen(guestCount, doc.Booking.CapacityThreshold) {
			return failure.Conflict("cannot reopen: guest count has reached the capacity threshold") // nolint:wrapcheck
		}
	}

	updatedFields := map[string]any{
		showModel.FieldIsClosed:  *req.IsClosed,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to toggle show status")

		return fmt.Errorf("failed to toggle show status: %w", err)
	}

	s.invalidateShowCaches(ctx, id)

	return nil
}

func (s *serviceImpl) AddExternalBookings(ctx context.Context, req dto.AddExternalBookingsRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddExternalBookings")
	defer scope.End()
	defer scope.TraceIfError(nil)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, showModel.FieldID, showModel.TableName)

	show, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get show")

		return fmt.Errorf("failed to get show: %w", err)
	}

	if show.ID == constant.Empty {
		return failure.NotFound("show not found") // nolint:wrapcheck
	}

	if show.IsClosed {
		return failure.Conflict("show is closed for bookings") // nolint:wrapcheck
	}

	guestCount, err := s.GuestCount(ctx, show)
	if err != nil {
		return err
	}

	if req.Guests > capacity.AvailableSpots(show.EffectiveCapacity(), guestCount) {
		return failure.Conflict("not enough capacity for external bookings") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		showModel.FieldExternalBookings: show.ExternalBookings + req.Guests,
		constant.FieldModifiedAt:        timezone.Now(),
		constant.FieldModifiedBy:        user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to add external bookings")

		return fmt.Errorf("failed to add external bookings: %w", err)
	}

	if err := s.EvaluateCapacity(ctx, show.Date); err != nil {
		log.Error().Err(err).Str("date", show.Date).Msg("failed to re-evaluate capacity after external bookings")
	}

	s.invalidateShowCaches(ctx, id)

	return nil
}

func (s *serviceImpl) GuestCounts(ctx context.Context) (res dto.GuestCountsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GuestCounts")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheShowGuestCounts, "all")

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for guest counts")

		return res, nil
	}

	counts, err := s.reservationRepo.SumConfirmedGuestsGrouped(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum confirmed guests")

		return res, fmt.Errorf("failed to sum confirmed guests: %w", err)
	}

	shows, err := s.repo.GetAll(ctx, gDto.QueryParams{Limit: -1}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get shows")

		return res, fmt.Errorf("failed to get shows: %w", err)
	}

	res.Counts = make(map[string]int, len(shows))
	for _, show := range shows {
		res.Counts[show.Date] = counts[show.Date] + show.ExternalBookings
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save guest counts to cache")
		}
	}()

	return res, nil
}

// GuestCount is the capacity-relevant total for a show: confirmed
// reservation guests plus external bookings. Provisional and cancelled
// reservations never count.
func (s *serviceImpl) GuestCount(ctx context.Context, show showModel.Show) (int, error) {
	confirmed, err := s.reservationRepo.SumConfirmedGuests(ctx, show.Date)
	if err != nil {
		log.Error().Err(err).Str("date", show.Date).Msg("failed to sum confirmed guests")

		return 0, fmt.Errorf("failed to sum confirmed guests: %w", err)
	}

	return confirmed + show.ExternalBookings, nil
}

// EvaluateCapacity applies the open/closed decision for the show on the
// given date. Runs before and after every capacity-affecting mutation as
// well as on the background sweep, so both paths share one decision.
func (s *serviceImpl) EvaluateCapacity(ctx context.Context, date string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EvaluateCapacity")
	defer scope.End()
	defer scope.TraceIfError(err)

	show, err := s.repo.Get(ctx, shared.FilterByField(date, showModel.FieldDate, showModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get show by date")

		return fmt.Errorf("failed to get show by date: %w", err)
	}

	if show.ID == constant.Empty {
		return nil
	}

	guestCount, err := s.GuestCount(ctx, show)
	if err != nil {
		return err
	}

	doc, err := s.settings.Snapshot(ctx)
	if err != nil {
		return err
	}

	return s.applyDecision(ctx, show, guestCount, doc.Booking.CapacityThreshold, doc.Booking.CutoffHours)
}

// CloseExpired is the sweep body: closes every open show past its cutoff or
// over the threshold. It never reopens anything.
func (s *serviceImpl) CloseExpired(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CloseExpired")
	defer scope.End()
	defer scope.TraceIfError(err)

	openShows, err := s.repo.GetAll(
		ctx,
		gDto.QueryParams{Limit: -1},
		shared.FilterByField(false, showModel.FieldIsClosed, showModel.TableName),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to get open shows")

		return fmt.Errorf("failed to get open shows: %w", err)
	}

	if len(openShows) == 0 {
		return nil
	}

	counts, err := s.reservationRepo.SumConfirmedGuestsGrouped(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum confirmed guests")

		return fmt.Errorf("failed to sum confirmed guests: %w", err)
	}

	doc, err := s.settings.Snapshot(ctx)
	if err != nil {
		return err
	}

	now := timezone.Now()

	for _, show := range openShows {
		startAt, err := show.StartAt()
		if err != nil {
			log.Error().Err(err).Str("show_id", show.ID).Msg("show has an unparseable start time")

			continue
		}

		guestCount := counts[show.Date] + show.ExternalBookings

		decision := capacity.Decide(now, show.IsClosed, startAt, guestCount, doc.Booking.CapacityThreshold, doc.Booking.CutoffHours)
		if decision != capacity.Close {
			continue
		}

		if err := s.setClosed(ctx, show, true); err != nil {
			log.Error().Err(err).Str("show_id", show.ID).Msg("failed to close show on sweep")
		}
	}

	return nil
}

func (s *serviceImpl) applyDecision(ctx context.Context, show showModel.Show, guestCount, threshold, cutoffHours int) error {
	startAt, err := show.StartAt()
	if err != nil {
		log.Error().Err(err).Str("show_id", show.ID).Msg("show has an unparseable start time")

		return fmt.Errorf("show has an unparseable start time: %w", err)
	}

	switch capacity.Decide(timezone.Now(), show.IsClosed, startAt, guestCount, threshold, cutoffHours) {
	case capacity.Close:
		return s.setClosed(ctx, show, true)
	case capacity.Reopen:
		return s.setClosed(ctx, show, false)
	default:
		return nil
	}
}

func (s *serviceImpl) setClosed(ctx context.Context, show showModel.Show, closed bool) error {
	updatedFields := map[string]any{
		showModel.FieldIsClosed:  closed,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: constant.DefaultSystemUser,
	}

	filter := shared.FilterByID(show.ID, showModel.FieldID, showModel.TableName)

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("show_id", show.ID).Msg("failed to update show status")

		return fmt.Errorf("failed to update show status: %w", err)
	}

	log.Info().Str("show_id", show.ID).Str("date", show.Date).Bool("closed", closed).Msg("show status transition applied")

	s.invalidateShowCaches(ctx, show.ID)

	return nil
}

func (s *serviceImpl) invalidateShowCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetShow, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete show from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllShow)
		shared.InvalidateCaches(c, s.cache, cacheCountShow)
		shared.InvalidateCaches(c, s.cache, cacheShowGuestCounts)
	}()
}
