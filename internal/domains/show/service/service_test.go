package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"marquee/config"
	"marquee/infras/otel/mocks"
	reservationMocks "marquee/internal/domains/reservation/mocks"
	settingsModel "marquee/internal/domains/settings/model"
	settingsServiceMocks "marquee/internal/domains/settings/service/mocks"
	showMocks "marquee/internal/domains/show/mocks"
	"marquee/internal/domains/show/model"
	"marquee/internal/domains/show/model/dto"
	"marquee/internal/domains/show/service"
	cacheMocks "marquee/shared/cache/mocks"
	"marquee/shared/constant"
)

type showServiceMocks struct {
	repo            *showMocks.MockShow
	reservationRepo *reservationMocks.MockReservation
	settings        *settingsServiceMocks.MockSettings
	cache           *cacheMocks.MockRedisCache
}

func newShowService(ctrl *gomock.Controller) (service.Show, showServiceMocks) {
	m := showServiceMocks{
		repo:            showMocks.NewMockShow(ctrl),
		reservationRepo: reservationMocks.NewMockReservation(ctrl),
		settings:        settingsServiceMocks.NewMockSettings(ctrl),
		cache:           cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.reservationRepo, m.settings, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func allowCacheWrites(m showServiceMocks) {
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestShowService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newShowService(ctrl)
	allowCacheWrites(m)

	doc := settingsModel.Defaults()

	tests := []struct {
		name      string
		req       dto.CreateShowRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation with default capacity",
			req: dto.CreateShowRequest{
				Date:     "2030-05-01",
				Name:     "Spring Gala",
				ShowType: "classic",
			},
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.settings.EXPECT().
					Snapshot(gomock.Any()).
					Return(doc, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, show model.Show) error {
						assert.Equal(t, 240, show.Capacity)
						assert.Equal(t, model.DefaultStartTime, show.StartTime)
						assert.False(t, show.IsClosed)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "second show on the same date is rejected",
			req: dto.CreateShowRequest{
				Date:     "2030-05-01",
				Name:     "Second Show",
				ShowType: "classic",
			},
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "unknown show type",
			req: dto.CreateShowRequest{
				Date:     "2030-05-02",
				Name:     "Mystery Night",
				ShowType: "unknown",
			},
			setupMock: func() {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.settings.EXPECT().
					Snapshot(gomock.Any()).
					Return(doc, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShowService_ToggleClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newShowService(ctrl)
	allowCacheWrites(m)

	show := model.Show{
		ID:        "show-1",
		Date:      "2030-05-01",
		StartTime: "19:30",
		Capacity:  240,
		IsClosed:  true,
	}

	open := false
	closed := true

	tests := []struct {
		name      string
		req       dto.ToggleClosedRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "reopen below threshold succeeds",
			req:  dto.ToggleClosedRequest{IsClosed: &open},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(show, nil)

				m.reservationRepo.EXPECT().
					SumConfirmedGuests(gomock.Any(), show.Date).
					Return(100, nil)

				m.settings.EXPECT().
					Snapshot(gomock.Any()).
					Return(settingsModel.Defaults(), nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "reopen at threshold is rejected",
			req:  dto.ToggleClosedRequest{IsClosed: &open},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(show, nil)

				m.reservationRepo.EXPECT().
					SumConfirmedGuests(gomock.Any(), show.Date).
					Return(240, nil)

				m.settings.EXPECT().
					Snapshot(gomock.Any()).
					Return(settingsModel.Defaults(), nil)
			},
			wantErr: true,
		},
		{
			name: "manual close never re-validates",
			req:  dto.ToggleClosedRequest{IsClosed: &closed},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(show, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "show not found",
			req:  dto.ToggleClosedRequest{IsClosed: &open},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Show{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.ToggleClosed(ctx, tt.req, show.ID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShowService_AddExternalBookings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newShowService(ctrl)
	allowCacheWrites(m)

	show := model.Show{
		ID:        "show-1",
		Date:      "2030-05-01",
		StartTime: "19:30",
		Capacity:  240,
	}

	tests := []struct {
		name      string
		req       dto.AddExternalBookingsRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "booking beyond remaining capacity is rejected",
			req:  dto.AddExternalBookingsRequest{Guests: 50},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(show, nil)

				m.reservationRepo.EXPECT().
					SumConfirmedGuests(gomock.Any(), show.Date).
					Return(200, nil)
			},
			wantErr: true,
		},
		{
			name: "closed show rejects external bookings",
			req:  dto.AddExternalBookingsRequest{Guests: 5},
			setupMock: func() {
				closedShow := show
				closedShow.IsClosed = true

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(closedShow, nil)
			},
			wantErr: true,
		},
		{
			name: "booking within capacity increments the counter",
			req:  dto.AddExternalBookingsRequest{Guests: 40},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(show, nil)

				m.reservationRepo.EXPECT().
					SumConfirmedGuests(gomock.Any(), show.Date).
					Return(200, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, 40, fields[model.FieldExternalBookings])

						return nil
					})

				// capacity re-evaluation after the increment
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(show, nil)

				m.reservationRepo.EXPECT().
					SumConfirmedGuests(gomock.Any(), show.Date).
					Return(200, nil)

				m.settings.EXPECT().
					Snapshot(gomock.Any()).
					Return(settingsModel.Defaults(), nil)
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.AddExternalBookings(ctx, tt.req, show.ID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShowService_EvaluateCapacity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newShowService(ctrl)
	allowCacheWrites(m)

	t.Run("show closes the instant the threshold is reached", func(t *testing.T) {
		show := model.Show{
			ID:        "show-1",
			Date:      "2030-05-01",
			StartTime: "19:30",
			Capacity:  240,
		}

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(show, nil)

		m.reservationRepo.EXPECT().
			SumConfirmedGuests(gomock.Any(), show.Date).
			Return(240, nil)

		m.settings.EXPECT().
			Snapshot(gomock.Any()).
			Return(settingsModel.Defaults(), nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, true, fields[model.FieldIsClosed])

				return nil
			})

		assert.NoError(t, svc.EvaluateCapacity(context.Background(), show.Date))
	})

	t.Run("closed show past cutoff stays closed after cancellations", func(t *testing.T) {
		show := model.Show{
			ID:        "show-2",
			Date:      "2020-01-01",
			StartTime: "19:30",
			Capacity:  240,
			IsClosed:  true,
		}

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(show, nil)

		m.reservationRepo.EXPECT().
			SumConfirmedGuests(gomock.Any(), show.Date).
			Return(0, nil)

		m.settings.EXPECT().
			Snapshot(gomock.Any()).
			Return(settingsModel.Defaults(), nil)

		// no Update expected: the decision is NoChange
		assert.NoError(t, svc.EvaluateCapacity(context.Background(), show.Date))
	})

	t.Run("no show on the date is a no-op", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Show{}, nil)

		assert.NoError(t, svc.EvaluateCapacity(context.Background(), "2030-12-31"))
	})
}

func TestShowService_CloseExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newShowService(ctrl)
	allowCacheWrites(m)

	pastShow := model.Show{ID: "past", Date: "2020-01-01", StartTime: "19:30", Capacity: 240}
	futureShow := model.Show{ID: "future", Date: "2030-05-01", StartTime: "19:30", Capacity: 240}

	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Show{pastShow, futureShow}, nil)

	m.reservationRepo.EXPECT().
		SumConfirmedGuestsGrouped(gomock.Any()).
		Return(map[string]int{}, nil)

	m.settings.EXPECT().
		Snapshot(gomock.Any()).
		Return(settingsModel.Defaults(), nil)

	m.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, true, fields[model.FieldIsClosed])

			return nil
		})

	assert.NoError(t, svc.CloseExpired(context.Background()))
}

func TestShowService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newShowService(ctrl)
	allowCacheWrites(m)

	override := 180
	show := model.Show{
		ID:                     "show-1",
		Date:                   "2030-05-01",
		StartTime:              "19:30",
		Name:                   "Spring Gala",
		ShowType:               "classic",
		Capacity:               240,
		ManualCapacityOverride: &override,
		ExternalBookings:       12,
	}

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(show, nil)

	res, err := svc.Get(context.Background(), "show-1")

	assert.NoError(t, err)
	assert.Equal(t, 180, res.EffectiveCapacity)
	assert.Equal(t, 12, res.ExternalBookings)
}

func TestShowService_GuestCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newShowService(ctrl)
	allowCacheWrites(m)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	m.reservationRepo.EXPECT().
		SumConfirmedGuestsGrouped(gomock.Any()).
		Return(map[string]int{"2030-05-01": 120}, nil)

	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Show{
			{ID: "a", Date: "2030-05-01", ExternalBookings: 30},
			{ID: "b", Date: "2030-05-02", ExternalBookings: 0},
		}, nil)

	res, err := svc.GuestCounts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 150, res.Counts["2030-05-01"])
	assert.Equal(t, 0, res.Counts["2030-05-02"])
}
