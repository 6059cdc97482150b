package tasks

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Reminder announces the daily task summary on a cron schedule.
type Reminder struct {
	cron     *cron.Cron
	manager  *Manager
	announce func(string)
	logger   zerolog.Logger
}

// NewReminder schedules the summary announcement. The announce callback
// receives the spoken summary text; it runs on the cron goroutine.
func NewReminder(manager *Manager, schedule string, announce func(string), logger zerolog.Logger) (*Reminder, error) {
	r := &Reminder{
		cron:     cron.New(),
		manager:  manager,
		announce: announce,
		logger:   logger.With().Str("component", "reminder").Logger(),
	}
	if _, err := r.cron.AddFunc(schedule, r.fire); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	r.logger.Info().Str("schedule", schedule).Msg("Daily reminder scheduled")
	return r, nil
}

func (r *Reminder) fire() {
	summary := r.manager.Summary()
	r.logger.Info().Msg("Announcing task reminder")
	r.announce(summary)
}

// Start begins the schedule.
func (r *Reminder) Start() { r.cron.Start() }

// Stop halts the schedule and waits for a running announcement to finish.
func (r *Reminder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
