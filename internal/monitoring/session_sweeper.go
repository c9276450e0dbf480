// Package monitoring runs background maintenance tasks.
package monitoring

import (
	"fmt"
	"time"

	"github.com/keyforge/keyforge-be/internal/session"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionSweeper periodically purges expired sessions so stale verified
// flags cannot linger in the store.
type SessionSweeper struct {
	sessions *session.Store
	schedule cron.Schedule
	done     chan bool
}

// NewSessionSweeper creates a sweeper from a standard cron expression.
func NewSessionSweeper(sessions *session.Store, spec string) (*SessionSweeper, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return &SessionSweeper{
		sessions: sessions,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the sweeper's loop. It sweeps once immediately, then follows
// the cron schedule.
func (s *SessionSweeper) Run() {
	log.Info().Msg("Starting session sweeper...")
	s.sweep()

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping session sweeper.")
			return
		case <-timer.C:
			s.sweep()
		}
	}
}

// Stop halts the sweeper.
func (s *SessionSweeper) Stop() {
	s.done <- true
}

func (s *SessionSweeper) sweep() {
	n, err := s.sessions.DeleteExpired()
	if err != nil {
		log.Error().Err(err).Msg("Session sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int64("purged", n).Msg("Purged expired sessions")
	}
}
