package sweeper

import (
	"context"
	"time"

	"marquee/config"
	"marquee/infras/otel"
	showService "marquee/internal/domains/show/service"
	waitlistService "marquee/internal/domains/waitlist/service"
	"marquee/shared/constant"

	"github.com/rs/zerolog/log"
)

// Sweeper periodically closes shows whose booking cutoff has passed and
// expires waiting list offers whose response deadline is over.
type Sweeper struct {
	shows    showService.Show
	waitlist waitlistService.Waitlist
	cfg      *config.Config
	otel     otel.Otel
}

func New(shows showService.Show, waitlist waitlistService.Waitlist, cfg *config.Config, otel otel.Otel) *Sweeper {
	return &Sweeper{
		shows:    shows,
		waitlist: waitlist,
		cfg:      cfg,
		otel:     otel,
	}
}

// Run blocks until the context is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.Sweep.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	log.Info().Dur("interval", interval).Msg("Starting capacity sweeper.")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Capacity sweeper stopped.")

			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Sweep")
	defer scope.End()

	if err := s.shows.CloseExpired(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to close expired shows")
	}

	if err := s.waitlist.ExpireOverdue(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to expire overdue waiting list offers")
	}
}
