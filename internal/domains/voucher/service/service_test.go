package service_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"marquee/config"
	"marquee/infras/otel/mocks"
	voucherMocks "marquee/internal/domains/voucher/mocks"
	"marquee/internal/domains/voucher/model"
	"marquee/internal/domains/voucher/model/dto"
	"marquee/internal/domains/voucher/service"
	cacheMocks "marquee/shared/cache/mocks"
	"marquee/shared/constant"
)

func newVoucherService(ctrl *gomock.Controller) (service.Voucher, *voucherMocks.MockVoucher, *cacheMocks.MockRedisCache) {
	mockRepo := voucherMocks.NewMockVoucher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	return svc, mockRepo, mockCache
}

func allowVoucherCacheWrites(mockCache *cacheMocks.MockRedisCache) {
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestGenerateCode(t *testing.T) {
	pattern := regexp.MustCompile(`^THTR-[A-Z2-9]{4}-[A-Z2-9]{4}$`)

	seen := map[string]bool{}

	for i := 0; i < 100; i++ {
		code := model.GenerateCode()

		assert.Regexp(t, pattern, code)

		seen[code] = true
	}

	assert.Greater(t, len(seen), 1)
}

func TestVoucherService_Issue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCache := newVoucherService(ctrl)
	allowVoucherCacheWrites(mockCache)

	mockRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, voucher model.Voucher) error {
			assert.Equal(t, model.StatusActive, voucher.Status)
			assert.Equal(t, int64(10000), voucher.ValueCents)
			assert.Regexp(t, `^THTR-`, voucher.Code)

			return nil
		})

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
	res, err := svc.Issue(ctx, dto.IssueVoucherRequest{ValueCents: 10000, ExpiryDate: "2031-01-01"})

	assert.NoError(t, err)
	assert.Equal(t, model.StatusActive, res.Status)
	assert.NotEmpty(t, res.Code)
}

func TestVoucherService_Redeem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCache := newVoucherService(ctrl)
	allowVoucherCacheWrites(mockCache)

	active := model.Voucher{
		ID:         "v-1",
		Code:       "THTR-AAAA-BBBB",
		ValueCents: 10000,
		ExpiryDate: "2031-01-01",
		Status:     model.StatusActive,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "active voucher redeems",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(active, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, model.StatusUsed, fields[model.FieldStatus])
						assert.Equal(t, "res-1", fields[model.FieldUsedReservationID])

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "used voucher is immutable",
			setupMock: func() {
				used := active
				used.Status = model.StatusUsed

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(used, nil)
			},
			wantErr: true,
		},
		{
			name: "expired voucher is rejected",
			setupMock: func() {
				expired := active
				expired.ExpiryDate = "2020-01-01"

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(expired, nil)
			},
			wantErr: true,
		},
		{
			name: "archived voucher is rejected",
			setupMock: func() {
				archived := active
				archived.Status = model.StatusArchived

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(archived, nil)
			},
			wantErr: true,
		},
		{
			name: "unknown code",
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Voucher{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Redeem(ctx, active.Code, "res-1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVoucherService_Release(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCache := newVoucherService(ctrl)
	allowVoucherCacheWrites(mockCache)

	usedDate := "2026-08-01"
	reservationID := "res-1"

	used := model.Voucher{
		ID:                "v-1",
		Code:              "THTR-AAAA-BBBB",
		ValueCents:        10000,
		ExpiryDate:        "2031-01-01",
		Status:            model.StatusUsed,
		UsedDate:          &usedDate,
		UsedReservationID: &reservationID,
	}

	t.Run("used voucher returns to circulation", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(used, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusActive, fields[model.FieldStatus])
				assert.Nil(t, fields[model.FieldUsedDate])
				assert.Nil(t, fields[model.FieldUsedReservationID])

				return nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

		assert.NoError(t, svc.Release(ctx, reservationID))
	})

	t.Run("extended voucher keeps its extended status", func(t *testing.T) {
		extended := used
		extended.ExtendedCount = 1

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(extended, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusExtended, fields[model.FieldStatus])

				return nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

		assert.NoError(t, svc.Release(ctx, reservationID))
	})

	t.Run("reservation without a voucher is a no-op", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Voucher{}, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

		assert.NoError(t, svc.Release(ctx, reservationID))
	})
}

func TestVoucherService_Extend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCache := newVoucherService(ctrl)
	allowVoucherCacheWrites(mockCache)

	tests := []struct {
		name      string
		voucher   model.Voucher
		setupMock func(voucher model.Voucher)
		wantErr   bool
	}{
		{
			name: "extension bumps the count and status",
			voucher: model.Voucher{
				ID:            "v-1",
				ExpiryDate:    "2030-01-01",
				Status:        model.StatusActive,
				ExtendedCount: 1,
			},
			setupMock: func(voucher model.Voucher) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(voucher, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, "2032-01-01", fields[model.FieldExpiryDate])
						assert.Equal(t, model.StatusExtended, fields[model.FieldStatus])
						assert.Equal(t, 2, fields[model.FieldExtendedCount])

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "used voucher cannot be extended",
			voucher: model.Voucher{
				ID:     "v-2",
				Status: model.StatusUsed,
			},
			setupMock: func(voucher model.Voucher) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(voucher, nil)
			},
			wantErr: true,
		},
		{
			name: "an expired voucher may still be extended",
			voucher: model.Voucher{
				ID:         "v-3",
				ExpiryDate: "2020-01-01",
				Status:     model.StatusActive,
			},
			setupMock: func(voucher model.Voucher) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(voucher, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock(tt.voucher)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.Extend(ctx, dto.ExtendVoucherRequest{ExpiryDate: "2032-01-01"}, tt.voucher.ID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVoucherService_Archive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockCache := newVoucherService(ctrl)
	allowVoucherCacheWrites(mockCache)

	t.Run("archive records date and reason", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Voucher{ID: "v-1", Status: model.StatusActive}, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusArchived, fields[model.FieldStatus])
				assert.Equal(t, "duplicate issue", fields[model.FieldArchivedReason])
				assert.NotEmpty(t, fields[model.FieldArchivedDate])

				return nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
		err := svc.Archive(ctx, dto.ArchiveVoucherRequest{Reason: "duplicate issue"}, "v-1")

		assert.NoError(t, err)
	})

	t.Run("used voucher cannot be archived", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Voucher{ID: "v-2", Status: model.StatusUsed}, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
		err := svc.Archive(ctx, dto.ArchiveVoucherRequest{Reason: "cleanup"}, "v-2")

		assert.Error(t, err)
	})
}

func TestVoucherDerivedStatus(t *testing.T) {
	tests := []struct {
		name    string
		voucher model.Voucher
		want    string
	}{
		{
			name:    "active before expiry",
			voucher: model.Voucher{Status: model.StatusActive, ExpiryDate: "2031-01-01"},
			want:    model.StatusActive,
		},
		{
			name:    "active past expiry derives expired",
			voucher: model.Voucher{Status: model.StatusActive, ExpiryDate: "2020-01-01"},
			want:    model.StatusExpired,
		},
		{
			name:    "used wins over expiry",
			voucher: model.Voucher{Status: model.StatusUsed, ExpiryDate: "2020-01-01"},
			want:    model.StatusUsed,
		},
		{
			name:    "archived wins over expiry",
			voucher: model.Voucher{Status: model.StatusArchived, ExpiryDate: "2020-01-01"},
			want:    model.StatusArchived,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.voucher.DerivedStatus("2026-09-01"))
		})
	}
}
