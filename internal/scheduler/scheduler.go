// Package scheduler runs the bot's periodic tasks on a cron backend:
// the punishment expiry sweep and log rotation.
package scheduler

import (
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Scheduler registers named tasks against cron specs. Seconds-granularity
// specs are supported since the expiry sweep runs every 10 seconds.
type Scheduler struct {
	logger *log.Logger
	cron   *cron.Cron
	ids    map[string]cron.EntryID
}

// New creates a stopped scheduler; call Start after registering tasks.
func New(logger *log.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		cron:   cron.New(cron.WithSeconds()),
		ids:    make(map[string]cron.EntryID),
	}
}

// RegisterFunc adds fn under a unique task id. A duplicate id is a
// programming error; the caller treats it as fatal at startup.
func (s *Scheduler) RegisterFunc(spec, id string, fn func()) error {
	if _, exists := s.ids[id]; exists {
		return fmt.Errorf("duplicate task id: %s", id)
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorf("task %s panicked: %v\n%s", id, r, debug.Stack())
			}
		}()
		fn()
	})
	if err != nil {
		return fmt.Errorf("failed to register task %s: %w", id, err)
	}
	s.ids[id] = entryID
	return nil
}

// TaskCount returns the number of registered tasks.
func (s *Scheduler) TaskCount() int {
	return len(s.ids)
}

// Start begins running registered tasks on their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Infof("Scheduler started with %d task(s)", len(s.ids))
}

// Stop halts scheduling and waits for running tasks to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
