package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"marquee/config"
	"marquee/infras/otel"
	"marquee/internal/domains/reservation/model"
	"marquee/internal/domains/reservation/model/dto"
	"marquee/internal/domains/reservation/repository"
	settingsModel "marquee/internal/domains/settings/model"
	settingsService "marquee/internal/domains/settings/service"
	showService "marquee/internal/domains/show/service"
	voucherService "marquee/internal/domains/voucher/service"
	waitlistService "marquee/internal/domains/waitlist/service"
	"marquee/internal/pricing"
	"marquee/shared"
	"marquee/shared/cache"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/failure"
	"marquee/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"

	// Reservation writes change the per-show guest totals cached by the show
	// domain, so those entries are flushed alongside our own.
	cacheShowPrefix = "show:"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Quote(ctx context.Context, req dto.QuoteReservationRequest) (dto.QuoteReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	SetStatus(ctx context.Context, req dto.SetReservationStatusRequest, id string) error
	CheckIn(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Reservation
	shows    showService.Show
	settings settingsService.Settings
	vouchers voucherService.Voucher
	waitlist waitlistService.Waitlist
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Reservation,
	shows showService.Show,
	settings settingsService.Settings,
	vouchers voucherService.Voucher,
	waitlist waitlistService.Waitlist,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:     repo,
		shows:    shows,
		settings: settings,
		vouchers: vouchers,
		waitlist: waitlist,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	show, err := s.shows.GetByDate(ctx, req.ShowDate)
	if err != nil {
		return res, err
	}

	if show.IsClosed {
		return res, failure.Conflict("show is closed for booking") // nolint:wrapcheck
	}

	doc, err := s.settings.Snapshot(ctx)
	if err != nil {
		return res, err
	}

	if req.Guests < doc.Booking.MinGuests || req.Guests > doc.Booking.MaxGuests {
		return res, failure.BadRequestFromString(fmt.Sprintf("guests must be between %d and %d", doc.Booking.MinGuests, doc.Booking.MaxGuests)) // nolint:wrapcheck
	}

	guestCount, err := s.shows.GuestCount(ctx, show)
	if err != nil {
		return res, err
	}

	available := show.EffectiveCapacity() - guestCount
	if req.Guests > available {
		return res, failure.Conflict(fmt.Sprintf("not enough spots left: %d requested, %d available", req.Guests, available)) // nolint:wrapcheck
	}

	quote := pricing.Calculate(pricing.Draft{
		ShowType:      show.ShowType,
		DrinkPackage:  req.DrinkPackage,
		Guests:        req.Guests,
		PreShowDrinks: req.PreShowDrinks,
		AfterParty:    req.AfterParty,
		Addons:        req.Addons,
	}, doc)

	quote, applied, err := s.applyCode(ctx, req.Code, doc, quote)
	if err != nil {
		return res, err
	}

	var promoCode *string

	if applied != nil && applied.Kind == pricing.CodeKindPromo {
		promoCode = &applied.Code
	}

	reservation := req.ToModel(user, quote, promoCode)

	if err = s.repo.Insert(ctx, reservation); err != nil {
		log.Error().Err(err).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	if applied != nil && applied.Kind == pricing.CodeKindVoucher {
		if err = s.vouchers.Redeem(ctx, applied.Code, reservation.ID); err != nil {
			log.Error().Err(err).Str("code", applied.Code).Msg("failed to redeem voucher for reservation")

			return res, err
		}
	}

	log.Info().
		Str("reservation_id", reservation.ID).
		Str("show_date", reservation.ShowDate).
		Int("guests", reservation.Guests).
		Int64("total_cents", reservation.TotalCents).
		Msg("reservation created")

	res.FromModel(reservation)
	res.Warning = quote.Warning

	s.invalidateReservationCaches(ctx, reservation.ID)

	return res, nil
}

// Quote prices a draft without persisting anything. Voucher codes are only
// previewed, never redeemed.
func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteReservationRequest) (res dto.QuoteReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	show, err := s.shows.GetByDate(ctx, req.ShowDate)
	if err != nil {
		return res, err
	}

	doc, err := s.settings.Snapshot(ctx)
	if err != nil {
		return res, err
	}

	quote := pricing.Calculate(pricing.Draft{
		ShowType:      show.ShowType,
		DrinkPackage:  req.DrinkPackage,
		Guests:        req.Guests,
		PreShowDrinks: req.PreShowDrinks,
		AfterParty:    req.AfterParty,
		Addons:        req.Addons,
	}, doc)

	quote, applied, err := s.applyCode(ctx, req.Code, doc, quote)
	if err != nil {
		return res, err
	}

	res.SubtotalCents = quote.SubtotalCents
	res.DiscountCents = quote.DiscountCents
	res.TotalCents = quote.TotalCents
	res.Warning = quote.Warning

	if applied != nil {
		res.AppliedCode = applied.Code
		res.CodeKind = string(applied.Kind)
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

// Update edits guest details and the priced parts of a reservation. Price
// fields are recomputed from the merged draft; an applied discount keeps its
// original cent value.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return err
	}

	if reservation.Status == model.StatusCancelled {
		return failure.Conflict("cancelled reservation cannot be edited") // nolint:wrapcheck
	}

	merged := mergeUpdate(reservation, req)

	show, err := s.shows.GetByDate(ctx, reservation.ShowDate)
	if err != nil {
		return err
	}

	doc, err := s.settings.Snapshot(ctx)
	if err != nil {
		return err
	}

	if merged.Guests < doc.Booking.MinGuests || merged.Guests > doc.Booking.MaxGuests {
		return failure.BadRequestFromString(fmt.Sprintf("guests must be between %d and %d", doc.Booking.MinGuests, doc.Booking.MaxGuests)) // nolint:wrapcheck
	}

	// A confirmed party growing must still fit the remaining spots; its own
	// previous size is already part of the booked total.
	if reservation.Status == model.StatusConfirmed && merged.Guests > reservation.Guests {
		guestCount, err := s.shows.GuestCount(ctx, show)
		if err != nil {
			return err
		}

		available := show.EffectiveCapacity() - guestCount
		if merged.Guests-reservation.Guests > available {
			return failure.Conflict(fmt.Sprintf("not enough spots left: %d more requested, %d available", merged.Guests-reservation.Guests, available)) // nolint:wrapcheck
		}
	}

	quote := pricing.Calculate(pricing.Draft{
		ShowType:      show.ShowType,
		DrinkPackage:  merged.DrinkPackage,
		Guests:        merged.Guests,
		PreShowDrinks: merged.PreShowDrinks,
		AfterParty:    merged.AfterParty,
		Addons:        merged.Addons,
	}, doc)

	updatedFields := shared.TransformFields(req, user)
	updatedFields[model.FieldSubtotalCents] = quote.SubtotalCents
	updatedFields[model.FieldTotalCents] = quote.SubtotalCents - reservation.DiscountCents

	if req.Addons != nil {
		updatedFields[model.FieldAddons] = model.AddonMap(req.Addons)
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	if reservation.Status == model.StatusConfirmed && merged.Guests != reservation.Guests {
		if err := s.shows.EvaluateCapacity(ctx, reservation.ShowDate); err != nil {
			log.Error().Err(err).Str("show_date", reservation.ShowDate).Msg("failed to evaluate capacity after update")
		}
	}

	s.invalidateReservationCaches(ctx, id)

	return nil
}

// SetStatus drives the reservation lifecycle. Confirming counts the party
// toward capacity; cancelling a confirmed reservation frees spots, so the
// show is re-evaluated and the waitlist gets a shot at them.
func (s *serviceImpl) SetStatus(ctx context.Context, req dto.SetReservationStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return err
	}

	if !model.ValidTransition(reservation.Status, req.Status) {
		return failure.Conflict(fmt.Sprintf("invalid status transition: %s to %s", reservation.Status, req.Status)) // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to set reservation status")

		return fmt.Errorf("failed to set reservation status: %w", err)
	}

	log.Info().
		Str("reservation_id", id).
		Str("from", reservation.Status).
		Str("to", req.Status).
		Msg("reservation status changed")

	freedSpots := reservation.Status == model.StatusConfirmed && req.Status == model.StatusCancelled

	// A provisional booking never counted toward capacity or revenue, so a
	// voucher it redeemed goes back into circulation. Cancelling a confirmed
	// booking forfeits the voucher.
	if reservation.Status == model.StatusProvisional && req.Status == model.StatusCancelled {
		if err := s.vouchers.Release(ctx, id); err != nil {
			log.Error().Err(err).Str("reservation_id", id).Msg("failed to release voucher after cancellation")
		}
	}

	if req.Status == model.StatusConfirmed || freedSpots {
		if err := s.shows.EvaluateCapacity(ctx, reservation.ShowDate); err != nil {
			log.Error().Err(err).Str("show_date", reservation.ShowDate).Msg("failed to evaluate capacity after status change")
		}
	}

	if freedSpots {
		if err := s.waitlist.NotifyNext(ctx, reservation.ShowDate); err != nil {
			log.Error().Err(err).Str("show_date", reservation.ShowDate).Msg("failed to notify waitlist after cancellation")
		}
	}

	s.invalidateReservationCaches(ctx, id)

	return nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return err
	}

	if reservation.Status != model.StatusConfirmed {
		return failure.Conflict("only confirmed reservations can check in") // nolint:wrapcheck
	}

	if reservation.CheckedIn {
		return failure.Conflict("reservation already checked in") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldCheckedIn:     true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to check in reservation")

		return fmt.Errorf("failed to check in reservation: %w", err)
	}

	log.Info().Str("reservation_id", id).Msg("reservation checked in")

	s.invalidateReservationCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	if reservation.Status == model.StatusConfirmed {
		if err := s.shows.EvaluateCapacity(ctx, reservation.ShowDate); err != nil {
			log.Error().Err(err).Str("show_date", reservation.ShowDate).Msg("failed to evaluate capacity after delete")
		}

		if err := s.waitlist.NotifyNext(ctx, reservation.ShowDate); err != nil {
			log.Error().Err(err).Str("show_date", reservation.ShowDate).Msg("failed to notify waitlist after delete")
		}
	}

	if reservation.Status == model.StatusProvisional {
		if err := s.vouchers.Release(ctx, id); err != nil {
			log.Error().Err(err).Str("reservation_id", id).Msg("failed to release voucher after delete")
		}
	}

	s.invalidateReservationCaches(ctx, id)

	return nil
}

// applyCode resolves a discount code against the quote. Promo codes come
// from the settings document; anything else must be a redeemable voucher.
func (s *serviceImpl) applyCode(ctx context.Context, raw string, doc settingsModel.Document, quote pricing.Quote) (pricing.Quote, *pricing.AppliedCode, error) {
	if raw == constant.Empty {
		return quote, nil, nil
	}

	code := pricing.NormalizeCode(raw)

	if applied, ok := pricing.ResolvePromo(code, doc, quote.SubtotalCents); ok {
		return quote.WithDiscount(applied), &applied, nil
	}

	voucher, err := s.vouchers.GetByCode(ctx, code)
	if err != nil {
		return quote, nil, err
	}

	today := timezone.Now().Format(constant.ShowDateFormat)
	if !voucher.Redeemable(today) {
		return quote, nil, failure.Conflict("voucher cannot be redeemed: " + voucher.DerivedStatus(today)) // nolint:wrapcheck
	}

	applied := pricing.VoucherDiscount(code, voucher.ValueCents, quote.SubtotalCents)

	return quote.WithDiscount(applied), &applied, nil
}

func (s *serviceImpl) getReservation(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	return reservation, nil
}

func mergeUpdate(reservation model.Reservation, req dto.UpdateReservationRequest) model.Reservation {
	if req.GuestName != constant.Empty {
		reservation.GuestName = req.GuestName
	}

	if req.GuestEmail != constant.Empty {
		reservation.GuestEmail = req.GuestEmail
	}

	if req.GuestPhone != constant.Empty {
		reservation.GuestPhone = req.GuestPhone
	}

	if req.Guests > 0 {
		reservation.Guests = req.Guests
	}

	if req.DrinkPackage != constant.Empty {
		reservation.DrinkPackage = req.DrinkPackage
	}

	if req.PreShowDrinks != nil {
		reservation.PreShowDrinks = *req.PreShowDrinks
	}

	if req.AfterParty != nil {
		reservation.AfterParty = *req.AfterParty
	}

	if req.Addons != nil {
		reservation.Addons = model.AddonMap(req.Addons)
	}

	return reservation
}

func (s *serviceImpl) invalidateReservationCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetReservation)
		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
		shared.InvalidateCaches(c, s.cache, cacheShowPrefix)
	}()
}
