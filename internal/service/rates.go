package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/guttosm/irarb/internal/domain/models"
	"github.com/guttosm/irarb/internal/engine"
)

var (
	// ErrNotReady is returned until the engine publishes its first cycle.
	ErrNotReady = errors.New("rates not available yet")
	// ErrNoData is returned when a maturity produced no rate this cycle.
	ErrNoData = errors.New("no data for maturity")
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

// SnapshotReader exposes the last published engine cycle.
type SnapshotReader interface {
	Snapshot() *engine.Snapshot
}

// OpportunityHistory reads persisted opportunities, newest first.
type OpportunityHistory interface {
	RecentOpportunities(ctx context.Context, limit int) ([]models.Opportunity, error)
}

// Cycle identifies the refresh cycle a read was served from.
type Cycle struct {
	ID            string
	ValuationDate time.Time
	RefreshedAt   time.Time
}

// RateService defines the read side used by the HTTP layer.
// Every call reads from a single cycle.
type RateService interface {
	AllRates(ctx context.Context) (Cycle, []models.MaturityRates, error)
	Rates(ctx context.Context, maturity string) (Cycle, models.MaturityRates, error)
	Opportunities(ctx context.Context) (Cycle, []models.Opportunity, error)
	History(ctx context.Context, limit int) ([]models.Opportunity, error)
}

type rateService struct {
	engine  SnapshotReader
	history OpportunityHistory
}

func NewRateService(eng SnapshotReader, history OpportunityHistory) RateService {
	return &rateService{engine: eng, history: history}
}

func (s *rateService) snapshot() (*engine.Snapshot, Cycle, error) {
	snap := s.engine.Snapshot()
	if snap == nil {
		return nil, Cycle{}, ErrNotReady
	}
	return snap, Cycle{ID: snap.CycleID, ValuationDate: snap.ValuationDate, RefreshedAt: snap.RefreshedAt}, nil
}

func (s *rateService) AllRates(_ context.Context) (Cycle, []models.MaturityRates, error) {
	snap, cycle, err := s.snapshot()
	if err != nil {
		return Cycle{}, nil, err
	}
	return cycle, snap.All(), nil
}

func (s *rateService) Rates(_ context.Context, maturity string) (Cycle, models.MaturityRates, error) {
	snap, cycle, err := s.snapshot()
	if err != nil {
		return Cycle{}, models.MaturityRates{}, err
	}
	mr, ok := snap.Rates(NormalizeMaturity(maturity))
	if !ok {
		return cycle, models.MaturityRates{}, ErrNoData
	}
	return cycle, mr, nil
}

func (s *rateService) Opportunities(_ context.Context) (Cycle, []models.Opportunity, error) {
	snap, cycle, err := s.snapshot()
	if err != nil {
		return Cycle{}, nil, err
	}
	return cycle, snap.Opportunities(), nil
}

func (s *rateService) History(ctx context.Context, limit int) ([]models.Opportunity, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.history.RecentOpportunities(ctx, limit)
}

// NormalizeMaturity maps user input such as " may23 " to the label form.
func NormalizeMaturity(m string) string {
	return strings.ToUpper(strings.TrimSpace(m))
}
