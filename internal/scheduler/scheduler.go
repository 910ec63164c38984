package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/atmoview/atmoview/internal/lookup"
)

// Scheduler periodically runs the lookup pipeline for configured queries so
// their cache entries stay warm and interactive requests hit the cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *lookup.Service
	queries   []string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(queries []string, interval time.Duration, service *lookup.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		queries:   queries,
		interval:  interval,
	}
}

// Start schedules the periodic warm-up job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.queries) == 0 {
		log.Println("scheduler: no warm locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: warming location caches")

		var wg sync.WaitGroup
		for _, q := range s.queries {
			wg.Add(1)
			go func(q string) {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				report, err := s.service.Lookup(ctx, q)
				if err != nil {
					log.Printf("scheduler: warm-up failed for %q: %v", q, err)
					return
				}
				if report == nil {
					log.Printf("scheduler: warm location %q did not resolve", q)
				}
			}(q)
		}
		wg.Wait()
		log.Println("scheduler: completed warm-up job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
