package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"marquee/config"
	"marquee/infras/otel"
	"marquee/infras/s3"
	"marquee/internal/domains/poster/model"
	"marquee/internal/domains/poster/model/dto"
	"marquee/internal/domains/poster/repository"
	"marquee/shared"
	"marquee/shared/cache"
	"marquee/shared/constant"
	gDto "marquee/shared/dto"
	"marquee/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetPoster    = "poster:get"
	cacheGetAllPoster = "poster:gets"
	cacheCountPoster  = "poster:count"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

type Poster interface {
	Upload(ctx context.Context, req dto.UploadPosterRequest) (dto.PosterResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPostersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PosterResponse, error)
	Update(ctx context.Context, req dto.UpdatePosterRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Poster
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Poster, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Poster {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

// Upload decodes a base64 poster image, stores it in object storage and
// records the row. A data-URI prefix on the payload is tolerated.
func (s *serviceImpl) Upload(ctx context.Context, req dto.UploadPosterRequest) (res dto.PosterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Upload")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	payload := req.ImageBase64
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return res, failure.BadRequestFromString("image payload is not valid base64") // nolint:wrapcheck
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return res, failure.BadRequestFromString("unsupported image type: " + contentType) // nolint:wrapcheck
	}

	bucketName := s.cfg.External.S3.BucketName

	url, err := s.s3.UploadFileBytes(ctx, bucketName, model.EntityName, req.FileName, contentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload poster to S3")

		return res, fmt.Errorf("failed to upload poster to S3: %w", err)
	}

	poster := req.ToModel(user, url)

	if err = s.repo.Insert(ctx, poster); err != nil {
		log.Error().Err(err).Msg("failed to insert poster")

		return res, fmt.Errorf("failed to insert poster: %w", err)
	}

	log.Info().Str("poster_id", poster.ID).Str("file_name", poster.FileName).Msg("poster uploaded")

	res.FromModel(poster)

	s.invalidatePosterCaches(ctx, poster.ID)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPostersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPoster, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for posters")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count posters")

		return res, fmt.Errorf("failed to count posters: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get posters")

		return res, fmt.Errorf("failed to get posters: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save posters to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPoster, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for poster count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count posters")

		return res, fmt.Errorf("failed to count posters: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save poster count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PosterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetPoster, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for poster")

		return res, nil
	}

	poster, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get poster")

		return res, fmt.Errorf("failed to get poster: %w", err)
	}

	if poster.ID == constant.Empty {
		return res, failure.NotFound("poster not found") // nolint:wrapcheck
	}

	res.FromModel(poster)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save poster to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePosterRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check poster existence")

		return fmt.Errorf("failed to check poster existence: %w", err)
	}

	if !exist {
		return failure.NotFound("poster not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update poster")

		return fmt.Errorf("failed to update poster: %w", err)
	}

	s.invalidatePosterCaches(ctx, id)

	return nil
}

// Delete removes the row and then the stored image, best effort.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	poster, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get poster for deletion")

		return fmt.Errorf("failed to get poster: %w", err)
	}

	if poster.ID == constant.Empty {
		return failure.NotFound("poster not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete poster")

		return fmt.Errorf("failed to delete poster: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		bucketName := s.cfg.External.S3.BucketName

		objectName := s.s3.GetObjectNameFromURL(bucketName, poster.ImageURL)
		if objectName == constant.Empty {
			log.Warn().Str("url", poster.ImageURL).Msg("failed to extract object name from URL")

			return
		}

		if err := s.s3.DeleteFile(c, bucketName, model.EntityName, objectName); err != nil {
			log.Error().Err(err).Str("objectName", objectName).Msg("failed to delete poster image from S3")
		}
	}()

	s.invalidatePosterCaches(ctx, id)

	return nil
}

func (s *serviceImpl) invalidatePosterCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPoster, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete poster cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetPoster)
		shared.InvalidateCaches(c, s.cache, cacheGetAllPoster)
		shared.InvalidateCaches(c, s.cache, cacheCountPoster)
	}()
}
