package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Txpho0n/weather-monitoring-web-bot/internal/dialog"
)

// Sweeper periodically evicts abandoned dialogue sessions from the store.
type Sweeper struct {
	scheduler *gocron.Scheduler
	store     *dialog.Store
	interval  time.Duration
}

// New creates a new Sweeper.
func New(store *dialog.Store, interval time.Duration) *Sweeper {
	s := gocron.NewScheduler(time.UTC)
	return &Sweeper{
		scheduler: s,
		store:     store,
		interval:  interval,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (s *Sweeper) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 5
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		if removed := s.store.Sweep(); removed > 0 {
			log.Printf("sweeper: evicted %d expired dialog sessions", removed)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
