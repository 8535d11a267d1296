//go:build wireinject
// +build wireinject

package di

import (
	"marquee/config"
	"marquee/infras/jwt"
	"marquee/infras/kafka"
	"marquee/infras/otel"
	"marquee/infras/postgres"
	"marquee/infras/redis"
	"marquee/infras/s3"
	"marquee/internal/events"
	"marquee/internal/sweeper"
	"marquee/permissions"
	"marquee/shared/cache"
	"marquee/transport/http"
	"marquee/transport/http/middleware"
	"marquee/transport/http/router"

	authService "marquee/internal/domains/auth/service"
	posterRepository "marquee/internal/domains/poster/repository"
	posterService "marquee/internal/domains/poster/service"
	reservationRepository "marquee/internal/domains/reservation/repository"
	reservationService "marquee/internal/domains/reservation/service"
	settingsRepository "marquee/internal/domains/settings/repository"
	settingsService "marquee/internal/domains/settings/service"
	showRepository "marquee/internal/domains/show/repository"
	showService "marquee/internal/domains/show/service"
	userRepository "marquee/internal/domains/user/repository"
	userService "marquee/internal/domains/user/service"
	voucherRepository "marquee/internal/domains/voucher/repository"
	voucherService "marquee/internal/domains/voucher/service"
	waitlistRepository "marquee/internal/domains/waitlist/repository"
	waitlistService "marquee/internal/domains/waitlist/service"

	authHandler "marquee/internal/handlers/auth"
	posterHandler "marquee/internal/handlers/poster"
	reservationHandler "marquee/internal/handlers/reservation"
	settingsHandler "marquee/internal/handlers/settings"
	showHandler "marquee/internal/handlers/show"
	userHandler "marquee/internal/handlers/user"
	voucherHandler "marquee/internal/handlers/voucher"
	waitlistHandler "marquee/internal/handlers/waitlist"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
	userService.New,
)

var settingsDomain = wire.NewSet(
	settingsRepository.New,
	settingsService.New,
)

var showDomain = wire.NewSet(
	showRepository.New,
	showService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var waitlistDomain = wire.NewSet(
	waitlistRepository.New,
	waitlistService.New,
)

var voucherDomain = wire.NewSet(
	voucherRepository.New,
	voucherService.New,
)

var posterDomain = wire.NewSet(
	posterRepository.New,
	posterService.New,
)

var domains = wire.NewSet(
	authDomain,
	settingsDomain,
	showDomain,
	reservationDomain,
	waitlistDomain,
	voucherDomain,
	posterDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	showHandler.New,
	reservationHandler.New,
	waitlistHandler.New,
	voucherHandler.New,
	settingsHandler.New,
	posterHandler.New,
	router.New,
)

var workers = wire.NewSet(
	sweeper.New,
	events.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		workers,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
