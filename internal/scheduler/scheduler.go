// Package scheduler wires up the cron jobs that periodically trigger sync
// and discovery ticks when the engine runs as a long-lived server. Each
// firing is one bounded invocation, the same as an external scheduler
// calling the control surface.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/remoteindex/remoteindex/internal/logger"
	"github.com/remoteindex/remoteindex/internal/services"
)

// Scheduler wraps robfig/cron and manages the periodic tick loop.
type Scheduler struct {
	cron      *cron.Cron
	sync      *services.SyncService
	discovery *services.DiscoveryService
	spec      string
}

// New creates a Scheduler firing on the given cron spec (e.g. "@every 5m").
func New(syncSvc *services.SyncService, discoverySvc *services.DiscoveryService, spec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		sync:      syncSvc,
		discovery: discoverySvc,
		spec:      spec,
	}
}

// Start registers the tick jobs and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runTicks(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	logger.Infof("scheduler started, spec: %s", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info("scheduler stopped")
}

func (s *Scheduler) runTicks(ctx context.Context) {
	if _, err := s.sync.RunTick(ctx, services.DefaultSyncOptions()); err != nil {
		logger.Errorf("scheduled sync tick failed: %v", err)
	}
	if _, err := s.discovery.RunTick(ctx); err != nil {
		logger.Errorf("scheduled discovery tick failed: %v", err)
	}
}
