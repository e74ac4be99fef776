// Package scheduler runs periodic background maintenance. Currently that is
// the available-share cache refresh; the cache only feeds listing pages, so a
// missed run degrades freshness, never correctness.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
)

// Scheduler wraps the cron runner for background jobs.
type Scheduler struct {
	cron            *cron.Cron
	propertyService *service.PropertyService
}

// New creates a scheduler with the available-share refresh job registered on
// the given cron schedule (e.g. "@hourly").
func New(propertyService *service.PropertyService, refreshSchedule string) (*Scheduler, error) {
	s := &Scheduler{
		cron:            cron.New(),
		propertyService: propertyService,
	}

	if _, err := s.cron.AddFunc(refreshSchedule, s.refreshAvailableShares); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled jobs in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refreshAvailableShares() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	refreshed, err := s.propertyService.RefreshAvailableShares(ctx)
	if err != nil {
		log.Printf("available-share refresh failed: %v", err)
		return
	}
	log.Printf("available-share cache refreshed for %d properties", refreshed)
}
