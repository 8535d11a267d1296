package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"marquee/config"
	"marquee/infras/kafka"
	"marquee/infras/otel"
	reservationModel "marquee/internal/domains/reservation/model"
	reservationRepo "marquee/internal/domains/reservation/repository"
	settingsModel "marquee/internal/domains/settings/model"
	settingsService "marquee/internal/domains/settings/service"
	showService "marquee/internal/domains/show/service"
	"marquee/internal/domains/waitlist/model"
	"marquee/internal/domains/waitlist/model/dto"
	"marquee/internal/domains/waitlist/repository"
	"marquee/internal/pricing"
	"marquee/shared"
	"marquee/shared/cache"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/failure"
	gModel "marquee/shared/model"
	"marquee/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetWaitlist    = "waitlist:get"
	cacheGetAllWaitlist = "waitlist:gets"
	cacheCountWaitlist  = "waitlist:count"
)

type Waitlist interface {
	Create(ctx context.Context, req dto.CreateWaitlistRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetWaitlistResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.WaitlistEntryResponse, error)
	Update(ctx context.Context, req dto.UpdateWaitlistRequest, id string) error
	Delete(ctx context.Context, id string) error
	Convert(ctx context.Context, id string) (dto.ConvertWaitlistResponse, error)
	NotifyNext(ctx context.Context, showDate string) error
	ExpireOverdue(ctx context.Context) error
}

type serviceImpl struct {
	repo            repository.Waitlist
	reservationRepo reservationRepo.Reservation
	shows           showService.Show
	settings        settingsService.Settings
	kafka           kafka.Client
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	repo repository.Waitlist,
	reservationRepo reservationRepo.Reservation,
	shows showService.Show,
	settings settingsService.Settings,
	kafkaClient kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Waitlist {
	return &serviceImpl{
		repo:            repo,
		reservationRepo: reservationRepo,
		shows:           shows,
		settings:        settings,
		kafka:           kafkaClient,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateWaitlistRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if _, err = s.shows.GetByDate(ctx, req.ShowDate); err != nil {
		return err
	}

	entry := req.ToModel(user)

	if err = s.repo.Insert(ctx, entry); err != nil {
		log.Error().Err(err).Msg("failed to create waitlist entry")

		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	log.Info().Str("show_date", entry.ShowDate).Int("guests", entry.Guests).Msg("waitlist entry created")

	s.invalidateWaitlistCaches(ctx, entry.ID)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetWaitlistResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllWaitlist, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for waitlist entries")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count waitlist entries")

		return res, fmt.Errorf("failed to count waitlist entries: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get waitlist entries")

		return res, fmt.Errorf("failed to get waitlist entries: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save waitlist entries to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountWaitlist, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for waitlist count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count waitlist entries")

		return res, fmt.Errorf("failed to count waitlist entries: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save waitlist count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.WaitlistEntryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetWaitlist, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for waitlist entry")

		return res, nil
	}

	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(entry)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save waitlist entry to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateWaitlistRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check waitlist entry existence")

		return fmt.Errorf("failed to check waitlist entry existence: %w", err)
	}

	if !exist {
		return failure.NotFound("waitlist entry not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update waitlist entry")

		return fmt.Errorf("failed to update waitlist entry: %w", err)
	}

	s.invalidateWaitlistCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check waitlist entry existence")

		return fmt.Errorf("failed to check waitlist entry existence: %w", err)
	}

	if !exist {
		return failure.NotFound("waitlist entry not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete waitlist entry")

		return fmt.Errorf("failed to delete waitlist entry: %w", err)
	}

	s.invalidateWaitlistCaches(ctx, id)

	return nil
}

// Convert turns a waiting entry into a confirmed reservation, priced at the
// show's standard rate. The entry stays untouched when the party no longer
// fits the remaining spots.
func (s *serviceImpl) Convert(ctx context.Context, id string) (res dto.ConvertWaitlistResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Convert")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return res, err
	}

	if !entry.Convertible() {
		return res, failure.Conflict("waitlist entry cannot be converted: " + entry.Status) // nolint:wrapcheck
	}

	show, err := s.shows.GetByDate(ctx, entry.ShowDate)
	if err != nil {
		return res, err
	}

	guestCount, err := s.shows.GuestCount(ctx, show)
	if err != nil {
		return res, err
	}

	available := show.EffectiveCapacity() - guestCount
	if entry.Guests > available {
		return res, failure.Conflict(fmt.Sprintf("not enough spots to convert: %d requested, %d available", entry.Guests, available)) // nolint:wrapcheck
	}

	doc, err := s.settings.Snapshot(ctx)
	if err != nil {
		return res, err
	}

	quote := pricing.Calculate(pricing.Draft{
		ShowType:     show.ShowType,
		DrinkPackage: settingsModel.DrinkPackageStandard,
		Guests:       entry.Guests,
	}, doc)

	reservation := reservationModel.Reservation{
		ID:            uuid.NewString(),
		ShowDate:      entry.ShowDate,
		GuestName:     entry.GuestName,
		GuestEmail:    entry.GuestEmail,
		GuestPhone:    entry.GuestPhone,
		Guests:        entry.Guests,
		DrinkPackage:  settingsModel.DrinkPackageStandard,
		Addons:        reservationModel.AddonMap{},
		SubtotalCents: quote.SubtotalCents,
		TotalCents:    quote.TotalCents,
		Status:        reservationModel.StatusConfirmed,
		BookingSource: reservationModel.SourceInternal,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if err = s.reservationRepo.Insert(ctx, reservation); err != nil {
		log.Error().Err(err).Msg("failed to insert converted reservation")

		return res, fmt.Errorf("failed to insert converted reservation: %w", err)
	}

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusConverted,
		model.FieldReservationID: reservation.ID,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	filter := shared.FilterByID(entry.ID, model.FieldID, model.TableName)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark waitlist entry converted")

		return res, fmt.Errorf("failed to mark waitlist entry converted: %w", err)
	}

	log.Info().
		Str("entry_id", entry.ID).
		Str("reservation_id", reservation.ID).
		Int("guests", entry.Guests).
		Msg("waitlist entry converted")

	if err := s.shows.EvaluateCapacity(ctx, entry.ShowDate); err != nil {
		log.Error().Err(err).Str("show_date", entry.ShowDate).Msg("failed to evaluate capacity after conversion")
	}

	if err := s.NotifyNext(ctx, entry.ShowDate); err != nil {
		log.Error().Err(err).Str("show_date", entry.ShowDate).Msg("failed to notify next waitlist entry after conversion")
	}

	s.invalidateWaitlistCaches(ctx, entry.ID)

	return dto.ConvertWaitlistResponse{ReservationID: reservation.ID}, nil
}

// NotifyNext offers the freed spots to the first active entry, in priority
// order, whose party fits. At most one entry is notified per call.
func (s *serviceImpl) NotifyNext(ctx context.Context, showDate string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".NotifyNext")
	defer scope.End()
	defer scope.TraceIfError(err)

	show, err := s.shows.GetByDate(ctx, showDate)
	if err != nil {
		return err
	}

	guestCount, err := s.shows.GuestCount(ctx, show)
	if err != nil {
		return err
	}

	available := show.EffectiveCapacity() - guestCount
	if available <= 0 {
		return nil
	}

	entries, err := s.repo.ActiveByDate(ctx, showDate)
	if err != nil {
		return err
	}

	var next *model.WaitlistEntry

	for i := range entries {
		if entries[i].Guests <= available {
			next = &entries[i]

			break
		}
	}

	if next == nil {
		return nil
	}

	doc, err := s.settings.Snapshot(ctx)
	if err != nil {
		return err
	}

	now := timezone.Now()
	deadline := now.Add(time.Duration(doc.Booking.ResponseHours) * time.Hour)

	updatedFields := map[string]any{
		model.FieldStatus:             model.StatusNotified,
		model.FieldLastNotificationAt: now,
		model.FieldNotificationsSent:  next.NotificationsSent + 1,
		model.FieldResponseDeadline:   deadline,
		constant.FieldModifiedAt:      now,
		constant.FieldModifiedBy:      constant.DefaultSystemUser,
	}

	filter := shared.FilterByID(next.ID, model.FieldID, model.TableName)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark waitlist entry notified")

		return fmt.Errorf("failed to mark waitlist entry notified: %w", err)
	}

	event := model.NotifiedEvent{
		EntryID:          next.ID,
		ShowDate:         next.ShowDate,
		GuestName:        next.GuestName,
		GuestEmail:       next.GuestEmail,
		GuestPhone:       next.GuestPhone,
		Guests:           next.Guests,
		ResponseDeadline: deadline,
	}

	// Delivery is best effort: the state change stands even when the broker
	// is unreachable.
	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.WaitlistNotified, kafka.Message{Key: next.ID, Value: event}); err != nil {
		log.Error().Err(err).Str("entry_id", next.ID).Msg("failed to publish waitlist notification")
	}

	log.Info().
		Str("entry_id", next.ID).
		Str("show_date", showDate).
		Int("guests", next.Guests).
		Int("available", available).
		Msg("waitlist entry notified")

	s.invalidateWaitlistCaches(ctx, next.ID)

	return nil
}

// ExpireOverdue moves notified entries past their response deadline to
// expired. Runs from the background sweeper.
func (s *serviceImpl) ExpireOverdue(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExpireOverdue")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()

	entries, err := s.repo.OverdueNotified(ctx, now)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		updatedFields := map[string]any{
			model.FieldStatus:        model.StatusExpired,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: constant.DefaultSystemUser,
		}

		filter := shared.FilterByID(entry.ID, model.FieldID, model.TableName)
		if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
			log.Error().Err(err).Str("entry_id", entry.ID).Msg("failed to expire waitlist entry")

			continue
		}

		log.Info().Str("entry_id", entry.ID).Str("show_date", entry.ShowDate).Msg("waitlist entry expired")

		s.invalidateWaitlistCaches(ctx, entry.ID)
	}

	return nil
}

func (s *serviceImpl) getEntry(ctx context.Context, id string) (model.WaitlistEntry, error) {
	entry, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get waitlist entry")

		return entry, fmt.Errorf("failed to get waitlist entry: %w", err)
	}

	if entry.ID == constant.Empty {
		return entry, failure.NotFound("waitlist entry not found") // nolint:wrapcheck
	}

	return entry, nil
}

func (s *serviceImpl) invalidateWaitlistCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetWaitlist, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete waitlist entry cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetWaitlist)
		shared.InvalidateCaches(c, s.cache, cacheGetAllWaitlist)
		shared.InvalidateCaches(c, s.cache, cacheCountWaitlist)
	}()
}
