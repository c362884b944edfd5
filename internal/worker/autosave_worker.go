package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/examplay/internal/service"
)

// AutosaveWorker periodically flushes dirty sessions to disk so an abrupt
// exit loses at most one interval of answers.
type AutosaveWorker struct {
	player   *service.PlayerService
	interval time.Duration
	log      zerolog.Logger
}

// NewAutosaveWorker creates a new AutosaveWorker.
func NewAutosaveWorker(player *service.PlayerService, interval time.Duration, log zerolog.Logger) *AutosaveWorker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &AutosaveWorker{
		player:   player,
		interval: interval,
		log:      log.With().Str("component", "autosave_worker").Logger(),
	}
}

// Start begins the flush loop. Call in a goroutine.
func (w *AutosaveWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining dirty sessions before exit.
			w.flush(true)
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.flush(false)
		}
	}
}

// flush saves every dirty session. On failure the session is re-queued for
// the next tick, unless this is the final drain where a retry will never come.
func (w *AutosaveWorker) flush(final bool) {
	ids := w.player.DirtySessions()

	saved := 0
	for _, id := range ids {
		if err := w.player.SaveSession(id); err != nil {
			w.log.Error().Err(err).Str("session_id", id).Msg("Autosave failed")
			if !final {
				w.player.MarkDirty(id)
			}
			continue
		}
		saved++
	}

	if saved > 0 {
		w.log.Debug().Int("count", saved).Msg("Sessions autosaved")
	}
}
