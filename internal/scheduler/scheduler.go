// Package scheduler drives the rate engine on a fixed cadence.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/irarb/internal/calendar"
	"github.com/guttosm/irarb/internal/domain/models"
	"github.com/guttosm/irarb/internal/engine"
	"github.com/guttosm/irarb/internal/logger"
	"github.com/guttosm/irarb/internal/metrics"
)

// Refresher is the part of the engine the scheduler drives.
type Refresher interface {
	UpdateRates(ctx context.Context) error
	Snapshot() *engine.Snapshot
}

// OpportunitySink stores the arbitrages detected in a cycle.
type OpportunitySink interface {
	InsertOpportunities(ctx context.Context, opps []models.Opportunity) error
}

// Config controls the refresh loop.
type Config struct {
	Frequency       time.Duration    // Tick interval; defaults to 1s
	TradingDaysOnly bool             // Skip ticks outside trading days
	Clock           func() time.Time // Defaults to time.Now
}

// Scheduler calls UpdateRates every tick. A failed cycle is logged and
// retried on the next tick; the engine keeps serving the last good data.
type Scheduler struct {
	eng     Refresher
	sink    OpportunitySink
	metrics *metrics.Registry
	cfg     Config
}

// New builds a scheduler. sink and m may be nil.
func New(eng Refresher, sink OpportunitySink, m *metrics.Registry, cfg Config) *Scheduler {
	if cfg.Frequency <= 0 {
		cfg.Frequency = time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Scheduler{eng: eng, sink: sink, metrics: m, cfg: cfg}
}

// Run refreshes once immediately and then on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	log := logger.Component("scheduler")
	log.Info().Dur("frequency", s.cfg.Frequency).Bool("trading_days_only", s.cfg.TradingDaysOnly).Msg("scheduler started")

	ticker := time.NewTicker(s.cfg.Frequency)
	defer ticker.Stop()

	for {
		if err := s.Tick(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("refresh cycle failed")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Tick runs a single cycle: refresh, then persist the detected opportunities.
func (s *Scheduler) Tick(ctx context.Context) error {
	if now := s.cfg.Clock(); s.cfg.TradingDaysOnly && !calendar.IsTradingDay(now) {
		log := logger.Component("scheduler")
		log.Debug().
			Str("next_trading_day", calendar.NextTradingDay(now).Format("2006-01-02")).
			Msg("non-trading day, refresh skipped")
		s.observe(metrics.ResultSkipped, 0)
		return nil
	}

	start := time.Now()
	if err := s.eng.UpdateRates(ctx); err != nil {
		s.observe(metrics.ResultError, time.Since(start))
		var ce *engine.CollaboratorError
		if s.metrics != nil && errors.As(err, &ce) {
			s.metrics.CollabErrors.WithLabelValues(ce.Source).Inc()
		}
		return err
	}
	s.observe(metrics.ResultOK, time.Since(start))

	snap := s.eng.Snapshot()
	opps := snap.Opportunities()
	if s.metrics != nil && snap != nil {
		s.metrics.ObserveSnapshot(len(snap.Maturities()), len(opps), snap.RefreshedAt)
	}
	if len(opps) == 0 || s.sink == nil {
		return nil
	}

	log := logger.Component("scheduler")
	log.Info().Str("cycle_id", snap.CycleID).Int("opportunities", len(opps)).Msg("arbitrage detected")
	if err := s.sink.InsertOpportunities(ctx, opps); err != nil {
		if s.metrics != nil {
			s.metrics.PersistErrors.Inc()
		}
		// Audit failures do not fail the cycle.
		log.Warn().Err(err).Msg("persist opportunities failed")
	}
	return nil
}

func (s *Scheduler) observe(result string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveCycle(result, d)
	}
}
