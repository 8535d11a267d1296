package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"marquee/config"
	"marquee/infras/otel/mocks"
	reservationMocks "marquee/internal/domains/reservation/mocks"
	"marquee/internal/domains/reservation/model"
	"marquee/internal/domains/reservation/model/dto"
	"marquee/internal/domains/reservation/service"
	settingsModel "marquee/internal/domains/settings/model"
	settingsServiceMocks "marquee/internal/domains/settings/service/mocks"
	showModel "marquee/internal/domains/show/model"
	showServiceMocks "marquee/internal/domains/show/service/mocks"
	voucherModel "marquee/internal/domains/voucher/model"
	voucherServiceMocks "marquee/internal/domains/voucher/service/mocks"
	waitlistServiceMocks "marquee/internal/domains/waitlist/service/mocks"
	cacheMocks "marquee/shared/cache/mocks"
	"marquee/shared/constant"
)

type reservationServiceMocks struct {
	repo     *reservationMocks.MockReservation
	shows    *showServiceMocks.MockShow
	settings *settingsServiceMocks.MockSettings
	vouchers *voucherServiceMocks.MockVoucher
	waitlist *waitlistServiceMocks.MockWaitlist
	cache    *cacheMocks.MockRedisCache
}

func newReservationService(ctrl *gomock.Controller) (service.Reservation, reservationServiceMocks) {
	m := reservationServiceMocks{
		repo:     reservationMocks.NewMockReservation(ctrl),
		shows:    showServiceMocks.NewMockShow(ctrl),
		settings: settingsServiceMocks.NewMockSettings(ctrl),
		vouchers: voucherServiceMocks.NewMockVoucher(ctrl),
		waitlist: waitlistServiceMocks.NewMockWaitlist(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.shows, m.settings, m.vouchers, m.waitlist, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func allowReservationCacheWrites(mockCache *cacheMocks.MockRedisCache) {
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
}

func testDocument() settingsModel.Document {
	doc := settingsModel.Defaults()
	doc.PromoCodes = []settingsModel.PromoCode{
		{Code: "SAVE10", Type: settingsModel.PromoTypePercentage, Value: 10, IsActive: true},
	}

	return doc
}

func openShow() showModel.Show {
	return showModel.Show{
		ID:       "show-1",
		Date:     "2026-10-01",
		ShowType: "classic",
		Capacity: 240,
	}
}

func createRequest() dto.CreateReservationRequest {
	return dto.CreateReservationRequest{
		ShowDate:     "2026-10-01",
		GuestName:    "Sanne de Vries",
		GuestEmail:   "sanne@example.com",
		Guests:       12,
		DrinkPackage: settingsModel.DrinkPackageStandard,
	}
}

func TestReservationService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReservationService(ctrl)
	allowReservationCacheWrites(m.cache)

	t.Run("promo code discounts the subtotal", func(t *testing.T) {
		m.shows.EXPECT().GetByDate(gomock.Any(), "2026-10-01").Return(openShow(), nil)
		m.settings.EXPECT().Snapshot(gomock.Any()).Return(testDocument(), nil)
		m.shows.EXPECT().GuestCount(gomock.Any(), gomock.Any()).Return(200, nil)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, reservation model.Reservation) error {
				assert.Equal(t, model.StatusProvisional, reservation.Status)
				assert.Equal(t, int64(12*8950), reservation.SubtotalCents)
				assert.Equal(t, int64(12*895), reservation.DiscountCents)
				assert.Equal(t, int64(12*8950-12*895), reservation.TotalCents)

				if assert.NotNil(t, reservation.PromoCode) {
					assert.Equal(t, "SAVE10", *reservation.PromoCode)
				}

				return nil
			})

		req := createRequest()
		req.Code = " save10 "

		res, err := svc.Create(testContext(), req)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusProvisional, res.Status)
		assert.Empty(t, res.Warning)
	})

	t.Run("voucher above the order total warns and redeems", func(t *testing.T) {
		m.shows.EXPECT().GetByDate(gomock.Any(), "2026-10-01").Return(openShow(), nil)
		m.settings.EXPECT().Snapshot(gomock.Any()).Return(testDocument(), nil)
		m.shows.EXPECT().GuestCount(gomock.Any(), gomock.Any()).Return(200, nil)

		m.vouchers.EXPECT().
			GetByCode(gomock.Any(), "THTR-AAAA-BBBB").
			Return(voucherModel.Voucher{
				ID:         "v-1",
				Code:       "THTR-AAAA-BBBB",
				ValueCents: 200000,
				ExpiryDate: "2031-01-01",
				Status:     voucherModel.StatusActive,
			}, nil)

		var reservationID string

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, reservation model.Reservation) error {
				reservationID = reservation.ID

				assert.Equal(t, int64(12*8950), reservation.SubtotalCents)
				assert.Equal(t, int64(200000), reservation.DiscountCents)
				assert.Equal(t, int64(12*8950-200000), reservation.TotalCents)
				assert.Nil(t, reservation.PromoCode)

				return nil
			})

		m.vouchers.EXPECT().
			Redeem(gomock.Any(), "THTR-AAAA-BBBB", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, id string) error {
				assert.Equal(t, reservationID, id)

				return nil
			})

		req := createRequest()
		req.Code = "THTR-AAAA-BBBB"

		res, err := svc.Create(testContext(), req)

		assert.NoError(t, err)
		assert.NotEmpty(t, res.Warning)
	})

	t.Run("closed show is rejected", func(t *testing.T) {
		closed := openShow()
		closed.IsClosed = true

		m.shows.EXPECT().GetByDate(gomock.Any(), "2026-10-01").Return(closed, nil)

		_, err := svc.Create(testContext(), createRequest())

		assert.Error(t, err)
	})

	t.Run("party larger than the remaining spots is rejected", func(t *testing.T) {
		m.shows.EXPECT().GetByDate(gomock.Any(), "2026-10-01").Return(openShow(), nil)
		m.settings.EXPECT().Snapshot(gomock.Any()).Return(testDocument(), nil)
		m.shows.EXPECT().GuestCount(gomock.Any(), gomock.Any()).Return(232, nil)

		_, err := svc.Create(testContext(), createRequest())

		assert.Error(t, err)
	})

	t.Run("party below the minimum is rejected", func(t *testing.T) {
		m.shows.EXPECT().GetByDate(gomock.Any(), "2026-10-01").Return(openShow(), nil)
		m.settings.EXPECT().Snapshot(gomock.Any()).Return(testDocument(), nil)

		req := createRequest()
		req.Guests = 4

		_, err := svc.Create(testContext(), req)

		assert.Error(t, err)
	})
}

func TestReservationService_Quote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReservationService(ctrl)
	allowReservationCacheWrites(m.cache)

	t.Run("voucher preview does not redeem", func(t *testing.T) {
		m.shows.EXPECT().GetByDate(gomock.Any(), "2026-10-01").Return(openShow(), nil)
		m.settings.EXPECT().Snapshot(gomock.Any()).Return(testDocument(), nil)

		m.vouchers.EXPECT().
			GetByCode(gomock.Any(), "THTR-AAAA-BBBB").
			Return(voucherModel.Voucher{
				ID:         "v-1",
				Code:       "THTR-AAAA-BBBB",
				ValueCents: 6000,
				ExpiryDate: "2031-01-01",
				Status:     voucherModel.StatusActive,
			}, nil)

		res, err := svc.Quote(testContext(), dto.QuoteReservationRequest{
			ShowDate:     "2026-10-01",
			Guests:       12,
			DrinkPackage: settingsModel.DrinkPackageStandard,
			Code:         "THTR-AAAA-BBBB",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(12*8950), res.SubtotalCents)
		assert.Equal(t, int64(6000), res.DiscountCents)
		assert.Equal(t, int64(12*8950-6000), res.TotalCents)
		assert.Equal(t, "voucher", res.CodeKind)
		assert.Empty(t, res.Warning)
	})

	t.Run("unknown code fails the quote", func(t *testing.T) {
		m.shows.EXPECT().GetByDate(gomock.Any(), "2026-10-01").Return(openShow(), nil)
		m.settings.EXPECT().Snapshot(gomock.Any()).Return(testDocument(), nil)

		m.vouchers.EXPECT().
			GetByCode(gomock.Any(), "NOPE").
			Return(voucherModel.Voucher{}, assert.AnError)

		_, err := svc.Quote(testContext(), dto.QuoteReservationRequest{
			ShowDate:     "2026-10-01",
			Guests:       12,
			DrinkPackage: settingsModel.DrinkPackageStandard,
			Code:         "nope",
		})

		assert.Error(t, err)
	})
}

func TestReservationService_SetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReservationService(ctrl)
	allowReservationCacheWrites(m.cache)

	reservation := model.Reservation{
		ID:       "res-1",
		ShowDate: "2026-10-01",
		Guests:   12,
		Status:   model.StatusProvisional,
	}

	t.Run("confirming re-evaluates capacity", func(t *testing.T) {
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusConfirmed, fields[model.FieldStatus])

				return nil
			})

		m.shows.EXPECT().EvaluateCapacity(gomock.Any(), "2026-10-01").Return(nil)

		err := svc.SetStatus(testContext(), dto.SetReservationStatusRequest{Status: model.StatusConfirmed}, "res-1")

		assert.NoError(t, err)
	})

	t.Run("cancelling a confirmed reservation frees spots and notifies the waitlist", func(t *testing.T) {
		confirmed := reservation
		confirmed.Status = model.StatusConfirmed

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])

				return nil
			})

		m.shows.EXPECT().EvaluateCapacity(gomock.Any(), "2026-10-01").Return(nil)
		m.waitlist.EXPECT().NotifyNext(gomock.Any(), "2026-10-01").Return(nil)

		err := svc.SetStatus(testContext(), dto.SetReservationStatusRequest{Status: model.StatusCancelled}, "res-1")

		assert.NoError(t, err)
	})

	t.Run("cancelling a provisional reservation frees nothing and releases its voucher", func(t *testing.T) {
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.vouchers.EXPECT().Release(gomock.Any(), "res-1").Return(nil)

		err := svc.SetStatus(testContext(), dto.SetReservationStatusRequest{Status: model.StatusCancelled}, "res-1")

		assert.NoError(t, err)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		cancelled := reservation
		cancelled.Status = model.StatusCancelled

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)

		err := svc.SetStatus(testContext(), dto.SetReservationStatusRequest{Status: model.StatusConfirmed}, "res-1")

		assert.Error(t, err)
	})
}

func TestReservationService_CheckIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReservationService(ctrl)
	allowReservationCacheWrites(m.cache)

	t.Run("confirmed reservation checks in", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{ID: "res-1", Status: model.StatusConfirmed}, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, true, fields[model.FieldCheckedIn])

				return nil
			})

		assert.NoError(t, svc.CheckIn(testContext(), "res-1"))
	})

	t.Run("provisional reservation cannot check in", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{ID: "res-1", Status: model.StatusProvisional}, nil)

		assert.Error(t, svc.CheckIn(testContext(), "res-1"))
	})

	t.Run("double check-in is rejected", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{ID: "res-1", Status: model.StatusConfirmed, CheckedIn: true}, nil)

		assert.Error(t, svc.CheckIn(testContext(), "res-1"))
	})
}

func TestReservationService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReservationService(ctrl)
	allowReservationCacheWrites(m.cache)

	reservation := model.Reservation{
		ID:            "res-1",
		ShowDate:      "2026-10-01",
		Guests:        12,
		DrinkPackage:  settingsModel.DrinkPackageStandard,
		SubtotalCents: 12 * 8950,
		DiscountCents: 5000,
		TotalCents:    12*8950 - 5000,
		Status:        model.StatusProvisional,
	}

	t.Run("growing the party reprices and keeps the discount", func(t *testing.T) {
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(reservation, nil)
		m.shows.EXPECT().GetByDate(gomock.Any(), "2026-10-01").Return(openShow(), nil)
		m.settings.EXPECT().Snapshot(gomock.Any()).Return(testDocument(), nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, int64(20*8950), fields[model.FieldSubtotalCents])
				assert.Equal(t, int64(20*8950-5000), fields[model.FieldTotalCents])

				return nil
			})

		err := svc.Update(testContext(), dto.UpdateReservationRequest{Guests: 20}, "res-1")

		assert.NoError(t, err)
	})

	t.Run("a confirmed party cannot outgrow the show", func(t *testing.T) {
		confirmed := reservation
		confirmed.Status = model.StatusConfirmed

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
		m.shows.EXPECT().GetByDate(gomock.Any(), "2026-10-01").Return(openShow(), nil)
		m.settings.EXPECT().Snapshot(gomock.Any()).Return(testDocument(), nil)
		m.shows.EXPECT().GuestCount(gomock.Any(), gomock.Any()).Return(236, nil)

		err := svc.Update(testContext(), dto.UpdateReservationRequest{Guests: 30}, "res-1")

		assert.Error(t, err)
	})

	t.Run("cancelled reservation cannot be edited", func(t *testing.T) {
		cancelled := reservation
		cancelled.Status = model.StatusCancelled

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)

		err := svc.Update(testContext(), dto.UpdateReservationRequest{GuestName: "New Name"}, "res-1")

		assert.Error(t, err)
	})
}

func TestReservationService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newReservationService(ctrl)
	allowReservationCacheWrites(m.cache)

	t.Run("deleting a confirmed reservation frees spots", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{ID: "res-1", ShowDate: "2026-10-01", Status: model.StatusConfirmed}, nil)

		m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		m.shows.EXPECT().EvaluateCapacity(gomock.Any(), "2026-10-01").Return(nil)
		m.waitlist.EXPECT().NotifyNext(gomock.Any(), "2026-10-01").Return(nil)

		assert.NoError(t, svc.Delete(testContext(), "res-1"))
	})

	t.Run("deleting a provisional reservation frees nothing and releases its voucher", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{ID: "res-1", ShowDate: "2026-10-01", Status: model.StatusProvisional}, nil)

		m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		m.vouchers.EXPECT().Release(gomock.Any(), "res-1").Return(nil)

		assert.NoError(t, svc.Delete(testContext(), "res-1"))
	})

	t.Run("missing reservation", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Reservation{}, nil)

		assert.Error(t, svc.Delete(testContext(), "missing"))
	})
}
