// Package engine detects interest-rate arbitrage between futures quoted on
// different underliers that share a maturity.
//
// Every refresh cycle pulls spot prices and top-of-book quotes, computes the
// rate implied by each bid (taker side) and each ask (offered side), keeps
// the extrema per maturity and publishes the result as an immutable Snapshot.
// Readers never observe a partially built cycle.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/irarb/internal/domain/models"
	"github.com/guttosm/irarb/internal/logger"
	"github.com/guttosm/irarb/internal/rates"
)

// State of the engine.
type State int

const (
	// Empty means no refresh cycle has completed yet.
	Empty State = iota
	// Populated means at least one refresh cycle has been published.
	Populated
)

func (s State) String() string {
	if s == Populated {
		return "populated"
	}
	return "empty"
}

// Config holds engine settings.
type Config struct {
	// Underliers whose derivatives are scanned every cycle.
	Underliers []string
	// DaysPerYear is the day-count convention shared by bid and ask rates.
	// Zero means rates.DefaultDaysPerYear.
	DaysPerYear float64
	// RequireTwoSided restricts candidates to instruments with both a usable
	// bid and a usable ask.
	RequireTwoSided bool
	// Clock returns the valuation time. Nil means time.Now.
	Clock func() time.Time
}

// Engine is the rate arbitrage engine. It is safe for concurrent use:
// UpdateRates calls are serialized and queries read the last published
// snapshot without locking.
type Engine struct {
	catalog InstrumentCatalog
	quotes  QuoteSource
	spots   SpotSource
	cfg     Config

	mu      sync.Mutex // serializes UpdateRates
	current atomic.Pointer[Snapshot]
}

// New constructs an Engine in the Empty state.
func New(catalog InstrumentCatalog, quotes QuoteSource, spots SpotSource, cfg Config) *Engine {
	if cfg.DaysPerYear <= 0 {
		cfg.DaysPerYear = rates.DefaultDaysPerYear
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	cfg.Underliers = dedupe(cfg.Underliers)
	return &Engine{catalog: catalog, quotes: quotes, spots: spots, cfg: cfg}
}

// UpdateRates runs one full refresh cycle and publishes its snapshot.
//
// A collaborator failure aborts the cycle with a *CollaboratorError and the
// previous snapshot stays published. Unusable inputs (missing or
// non-positive spot, empty book side, matured contract) only drop the
// affected candidates.
func (e *Engine) UpdateRates(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.cfg.Clock()

	type listing struct {
		underlier   string
		instruments []models.DerivativeInstrument
	}
	var listings []listing
	for _, u := range e.cfg.Underliers {
		insts, err := e.catalog.TradeableInstruments(ctx, u)
		if err != nil {
			return collaboratorErr(SourceCatalog, err)
		}
		if len(insts) > 0 {
			listings = append(listings, listing{underlier: u, instruments: insts})
		}
	}

	spots, err := e.spots.LastPrices(ctx)
	if err != nil {
		return collaboratorErr(SourceSpot, err)
	}
	bids, err := e.quotes.Bids(ctx)
	if err != nil {
		return collaboratorErr(SourceBids, err)
	}
	asks, err := e.quotes.Asks(ctx)
	if err != nil {
		return collaboratorErr(SourceAsks, err)
	}

	b := newBuilder()
	stats := CycleStats{Underliers: len(listings)}
	for _, l := range listings {
		for _, inst := range l.instruments {
			stats.Instruments++
			underlier := inst.Underlier
			if underlier == "" {
				underlier = l.underlier
			}
			spot, ok := spots[underlier]
			if !ok || !(spot > 0) {
				stats.MissingSpot++
				continue
			}

			bid, bidOK := usable(bids, inst.Ticker)
			ask, askOK := usable(asks, inst.Ticker)
			if e.cfg.RequireTwoSided && !(bidOK && askOK) {
				continue
			}
			if !bidOK && !askOK {
				continue
			}

			maturity, ok, err := e.catalog.MaturityOf(ctx, inst.Ticker)
			if err != nil {
				return collaboratorErr(SourceCatalog, err)
			}
			if !ok || maturity == "" {
				stats.UnknownMaturity++
				continue
			}

			days := rates.DaysToMaturity(now, inst.MaturityDate)
			if bidOK {
				if r, ok := rates.ImpliedRateForDays(bid.Price, spot, days, e.cfg.DaysPerYear); ok {
					b.offerTaker(maturity, inst.MaturityDate, models.RateQuote{
						Underlier: underlier, Ticker: inst.Ticker, Price: bid.Price, Rate: r,
					})
					stats.TakerCandidates++
				}
			}
			if askOK {
				if r, ok := rates.ImpliedRateForDays(ask.Price, spot, days, e.cfg.DaysPerYear); ok {
					b.offerOffered(maturity, inst.MaturityDate, models.RateQuote{
						Underlier: underlier, Ticker: inst.Ticker, Price: ask.Price, Rate: r,
					})
					stats.OfferedCandidates++
				}
			}
		}
	}

	aggs, order := b.build()
	snap := &Snapshot{
		CycleID:       uuid.NewString(),
		ValuationDate: now,
		RefreshedAt:   time.Now().UTC(),
		DaysPerYear:   e.cfg.DaysPerYear,
		Stats:         stats,
		rates:         aggs,
		order:         order,
	}
	e.current.Store(snap)

	logger.L().Debug().
		Str("cycle_id", snap.CycleID).
		Int("underliers", stats.Underliers).
		Int("instruments", stats.Instruments).
		Int("maturities", len(order)).
		Int("taker_candidates", stats.TakerCandidates).
		Int("offered_candidates", stats.OfferedCandidates).
		Int("missing_spot", stats.MissingSpot).
		Msg("rates updated")
	return nil
}

// Snapshot returns the last published cycle, or nil while Empty.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

// State reports whether a cycle has been published.
func (e *Engine) State() State {
	if e.current.Load() == nil {
		return Empty
	}
	return Populated
}

// LastRefresh returns the time the last cycle was published.
func (e *Engine) LastRefresh() (time.Time, bool) {
	s := e.current.Load()
	if s == nil {
		return time.Time{}, false
	}
	return s.RefreshedAt, true
}

// MaxTakerRate returns the highest bid-implied rate for maturity from the
// last cycle. ok is false when no instrument produced one.
//
// Each Engine query loads the current snapshot on its own, so two calls can
// observe different cycles. Use Snapshot when several values must come from
// the same cycle.
func (e *Engine) MaxTakerRate(maturity string) (models.RateQuote, bool) {
	return e.current.Load().MaxTakerRate(maturity)
}

// MinOfferedRate returns the lowest ask-implied rate for maturity from the
// last cycle. ok is false when no instrument produced one. Pair it with
// MaxTakerRate through Snapshot to read both sides of one cycle.
func (e *Engine) MinOfferedRate(maturity string) (models.RateQuote, bool) {
	return e.current.Load().MinOfferedRate(maturity)
}

// Arbitrage reports the opportunity for maturity in the last cycle.
func (e *Engine) Arbitrage(maturity string) (models.Opportunity, bool) {
	return e.current.Load().Arbitrage(maturity)
}

// Opportunities lists every opportunity of the last cycle.
func (e *Engine) Opportunities() []models.Opportunity {
	return e.current.Load().Opportunities()
}

// Maturities lists the maturities with data in the last cycle.
func (e *Engine) Maturities() []string {
	return e.current.Load().Maturities()
}

func usable(book map[string]models.OrderbookLevel, ticker string) (models.OrderbookLevel, bool) {
	lvl, ok := book[ticker]
	if !ok || !lvl.Usable() {
		return models.OrderbookLevel{}, false
	}
	return lvl, true
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
