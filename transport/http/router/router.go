package router

import (
	"github.com/go-chi/chi/v5"

	authHandler "marquee/internal/handlers/auth"
	posterHandler "marquee/internal/handlers/poster"
	reservationHandler "marquee/internal/handlers/reservation"
	settingsHandler "marquee/internal/handlers/settings"
	showHandler "marquee/internal/handlers/show"
	userHandler "marquee/internal/handlers/user"
	voucherHandler "marquee/internal/handlers/voucher"
	waitlistHandler "marquee/internal/handlers/waitlist"
	"marquee/transport/http/middleware"
)

type DomainHandlers struct {
	Auth        authHandler.Handler
	User        userHandler.Handler
	Show        showHandler.Handler
	Reservation reservationHandler.Handler
	Waitlist    waitlistHandler.Handler
	Voucher     voucherHandler.Handler
	Settings    settingsHandler.Handler
	Poster      posterHandler.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AppMiddleware  middleware.AppMiddleware
	AuthRole       middleware.AuthRole
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AppMiddleware:  appMiddleware,
		AuthRole:       authRole,
	}
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AppMiddleware.Tracing)
		routerGroup.Use(r.AppMiddleware.RateLimit())
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Show.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Waitlist.Router(routerGroup)
		r.DomainHandlers.Voucher.Router(routerGroup)
		r.DomainHandlers.Settings.Router(routerGroup)
		r.DomainHandlers.Poster.Router(routerGroup)
	})
}
