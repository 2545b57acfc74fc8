package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// AutoCloseWorker periodically reconciles sessions abandoned by clients that
// crashed before ending them.
type AutoCloseWorker struct {
	sessions *SessionService
	interval time.Duration
	log      zerolog.Logger
}

func NewAutoCloseWorker(sessions *SessionService, interval time.Duration, log zerolog.Logger) *AutoCloseWorker {
	return &AutoCloseWorker{
		sessions: sessions,
		interval: interval,
		log:      log.With().Str("component", "autoclose_worker").Logger(),
	}
}

func (w *AutoCloseWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *AutoCloseWorker) sweep(ctx context.Context) {
	closed, err := w.sessions.AutoClose(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("sweep failed")
		return
	}
	if closed > 0 {
		w.log.Info().Int("closed", closed).Msg("auto-closed stale sessions")
	}
}
