package service

import (
	"context"
	"fmt"

	"marquee/config"
	"marquee/infras/otel"
	"marquee/internal/domains/settings/model"
	"marquee/internal/domains/settings/model/dto"
	"marquee/internal/domains/settings/repository"
	"marquee/shared"
	"marquee/shared/cache"
	"marquee/shared/constant"
	gModel "marquee/shared/model"
	"marquee/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheGetSettings = "settings:get"

type Settings interface {
	Get(ctx context.Context) (dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) error
	Initialize(ctx context.Context) error
	Snapshot(ctx context.Context) (model.Document, error)
}

type serviceImpl struct {
	repo  repository.Settings
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Settings, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Settings {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.SettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetSettings, model.SingletonID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for settings")

		return res, nil
	}

	settings, err := s.repo.Get(ctx, shared.FilterByID(model.SingletonID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")

		return res, fmt.Errorf("failed to get settings: %w", err)
	}

	if settings.ID == constant.Empty {
		settings = defaultSettings(constant.Empty)
	}

	res.FromModel(settings)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save settings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSettingsRequest) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(nil)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(model.SingletonID, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if settings exist")

		return fmt.Errorf("failed to check if settings exist: %w", err)
	}

	if !exist {
		if err := s.Initialize(ctx); err != nil {
			return err
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update settings")

		return fmt.Errorf("failed to update settings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetSettings)
	}()

	return nil
}

// Initialize seeds the singleton settings row with defaults. Safe to call on
// every boot; an existing row is left untouched.
func (s *serviceImpl) Initialize(ctx context.Context) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Initialize")
	defer scope.End()
	defer scope.TraceIfError(nil)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(model.SingletonID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if settings exist")

		return fmt.Errorf("failed to check if settings exist: %w", err)
	}

	if exist {
		return nil
	}

	if err := s.repo.Insert(ctx, defaultSettings(constant.DefaultSystemUser)); err != nil {
		log.Error().Err(err).Msg("failed to seed default settings")

		return fmt.Errorf("failed to seed default settings: %w", err)
	}

	log.Info().Msg("seeded default settings document")

	return nil
}

// Snapshot returns a copy of the settings document. Pricing and capacity
// decisions each take one snapshot and never re-read mid-computation.
func (s *serviceImpl) Snapshot(ctx context.Context) (model.Document, error) {
	res, err := s.Get(ctx)
	if err != nil {
		return model.Document{}, err
	}

	return res.Document, nil
}

func defaultSettings(user string) model.Settings {
	return model.Settings{
		ID:       model.SingletonID,
		Document: model.Defaults(),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}
