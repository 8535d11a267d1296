package di

import (
	settingsService "marquee/internal/domains/settings/service"
	"marquee/internal/events"
	"marquee/internal/sweeper"
	"marquee/transport/http"
)

// App bundles the HTTP server with the background workers that share its
// dependency graph.
type App struct {
	HTTP     *http.HTTP
	Sweeper  *sweeper.Sweeper
	Notifier *events.Notifier
	Settings settingsService.Settings
}
