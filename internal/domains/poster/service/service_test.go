package service_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"marquee/config"
	"marquee/infras/otel/mocks"
	s3Mocks "marquee/infras/s3/mocks"
	posterMocks "marquee/internal/domains/poster/mocks"
	"marquee/internal/domains/poster/model"
	"marquee/internal/domains/poster/model/dto"
	"marquee/internal/domains/poster/service"
	cacheMocks "marquee/shared/cache/mocks"
	"marquee/shared/constant"
)

func newPosterService(ctrl *gomock.Controller) (service.Poster, *posterMocks.MockPoster, *s3Mocks.MockS3, *cacheMocks.MockRedisCache) {
	mockRepo := posterMocks.NewMockPoster(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "marquee-media"

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel(), mockS3)

	return svc, mockRepo, mockS3, mockCache
}

func allowPosterCacheWrites(mockCache *cacheMocks.MockRedisCache) {
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
}

func pngBase64() string {
	return base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
}

func TestPosterService_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockS3, mockCache := newPosterService(ctrl)
	allowPosterCacheWrites(mockCache)

	t.Run("png upload stores the image and the row", func(t *testing.T) {
		mockS3.EXPECT().
			UploadFileBytes(gomock.Any(), "marquee-media", model.EntityName, "gala.png", "image/png", gomock.Any()).
			Return("https://cdn.example.com/poster/gala.png", nil)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, poster model.Poster) error {
				assert.Equal(t, "Gala Night", poster.Title)
				assert.Equal(t, "https://cdn.example.com/poster/gala.png", poster.ImageURL)

				return nil
			})

		res, err := svc.Upload(testContext(), dto.UploadPosterRequest{
			Title:       "Gala Night",
			FileName:    "gala.png",
			ImageBase64: pngBase64(),
		})

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/poster/gala.png", res.ImageURL)
	})

	t.Run("data uri prefix is tolerated", func(t *testing.T) {
		mockS3.EXPECT().
			UploadFileBytes(gomock.Any(), "marquee-media", model.EntityName, "gala.png", "image/png", gomock.Any()).
			Return("https://cdn.example.com/poster/gala.png", nil)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.Upload(testContext(), dto.UploadPosterRequest{
			Title:       "Gala Night",
			FileName:    "gala.png",
			ImageBase64: "data:image/png;base64," + pngBase64(),
		})

		assert.NoError(t, err)
	})

	t.Run("invalid base64 is rejected", func(t *testing.T) {
		_, err := svc.Upload(testContext(), dto.UploadPosterRequest{
			Title:       "Gala Night",
			FileName:    "gala.png",
			ImageBase64: "not-base64!!",
		})

		assert.Error(t, err)
	})

	t.Run("non-image payload is rejected", func(t *testing.T) {
		_, err := svc.Upload(testContext(), dto.UploadPosterRequest{
			Title:       "Gala Night",
			FileName:    "gala.txt",
			ImageBase64: base64.StdEncoding.EncodeToString([]byte("just some text")),
		})

		assert.Error(t, err)
	})
}

func TestPosterService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockS3, mockCache := newPosterService(ctrl)
	allowPosterCacheWrites(mockCache)

	t.Run("row and stored image are removed", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Poster{ID: "p-1", ImageURL: "https://cdn.example.com/poster/gala.png"}, nil)

		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		mockS3.EXPECT().
			GetObjectNameFromURL("marquee-media", "https://cdn.example.com/poster/gala.png").
			Return("gala.png").
			AnyTimes()

		mockS3.EXPECT().
			DeleteFile(gomock.Any(), "marquee-media", model.EntityName, "gala.png").
			Return(nil).
			AnyTimes()

		assert.NoError(t, svc.Delete(testContext(), "p-1"))
	})

	t.Run("missing poster", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Poster{}, nil)

		assert.Error(t, svc.Delete(testContext(), "missing"))
	})
}
