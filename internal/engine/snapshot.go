package engine

import (
	"sort"
	"time"

	"github.com/guttosm/irarb/internal/domain/models"
)

// CycleStats summarizes the inputs considered by a refresh cycle.
type CycleStats struct {
	Underliers        int `json:"underliers"`
	Instruments       int `json:"instruments"`
	MissingSpot       int `json:"missing_spot"`
	UnknownMaturity   int `json:"unknown_maturity"`
	TakerCandidates   int `json:"taker_candidates"`
	OfferedCandidates int `json:"offered_candidates"`
}

// Snapshot is the immutable result of one refresh cycle.
// It is never modified after being published.
type Snapshot struct {
	CycleID       string
	ValuationDate time.Time
	RefreshedAt   time.Time
	DaysPerYear   float64
	Stats         CycleStats

	rates map[string]aggregate
	order []string
}

type aggregate struct {
	taker    *models.RateQuote
	offered  *models.RateQuote
	earliest time.Time
}

// Rates returns the aggregate of a maturity.
func (s *Snapshot) Rates(maturity string) (models.MaturityRates, bool) {
	if s == nil {
		return models.MaturityRates{}, false
	}
	agg, ok := s.rates[maturity]
	if !ok {
		return models.MaturityRates{}, false
	}
	return agg.view(maturity), true
}

// MaxTakerRate returns the highest bid-implied rate of a maturity.
func (s *Snapshot) MaxTakerRate(maturity string) (models.RateQuote, bool) {
	if s == nil {
		return models.RateQuote{}, false
	}
	agg, ok := s.rates[maturity]
	if !ok || agg.taker == nil {
		return models.RateQuote{}, false
	}
	return *agg.taker, true
}

// MinOfferedRate returns the lowest ask-implied rate of a maturity.
func (s *Snapshot) MinOfferedRate(maturity string) (models.RateQuote, bool) {
	if s == nil {
		return models.RateQuote{}, false
	}
	agg, ok := s.rates[maturity]
	if !ok || agg.offered == nil {
		return models.RateQuote{}, false
	}
	return *agg.offered, true
}

// Arbitrage returns the opportunity of a maturity, if the max taker rate
// strictly exceeds the min offered rate.
func (s *Snapshot) Arbitrage(maturity string) (models.Opportunity, bool) {
	taker, ok := s.MaxTakerRate(maturity)
	if !ok {
		return models.Opportunity{}, false
	}
	offered, ok := s.MinOfferedRate(maturity)
	if !ok || !(taker.Rate > offered.Rate) {
		return models.Opportunity{}, false
	}
	return models.Opportunity{
		CycleID:    s.CycleID,
		Maturity:   maturity,
		Taker:      taker,
		Offered:    offered,
		Spread:     taker.Rate - offered.Rate,
		DetectedAt: s.RefreshedAt,
	}, true
}

// Maturities lists the maturity labels of the cycle, nearest expiry first.
func (s *Snapshot) Maturities() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All returns every maturity aggregate, nearest expiry first.
func (s *Snapshot) All() []models.MaturityRates {
	if s == nil {
		return nil
	}
	out := make([]models.MaturityRates, 0, len(s.order))
	for _, m := range s.order {
		out = append(out, s.rates[m].view(m))
	}
	return out
}

// Opportunities returns the arbitrage opportunities of the cycle,
// nearest expiry first.
func (s *Snapshot) Opportunities() []models.Opportunity {
	if s == nil {
		return nil
	}
	var out []models.Opportunity
	for _, m := range s.order {
		if opp, ok := s.Arbitrage(m); ok {
			out = append(out, opp)
		}
	}
	return out
}

func (a aggregate) view(maturity string) models.MaturityRates {
	mr := models.MaturityRates{Maturity: maturity}
	if a.taker != nil {
		t := *a.taker
		mr.Taker = &t
	}
	if a.offered != nil {
		o := *a.offered
		mr.Offered = &o
	}
	return mr
}

// builder accumulates one cycle. It is owned by a single UpdateRates call.
type builder struct {
	rates map[string]aggregate
}

func newBuilder() *builder {
	return &builder{rates: make(map[string]aggregate)}
}

func (b *builder) touch(maturity string, date time.Time) aggregate {
	agg, ok := b.rates[maturity]
	if !ok || (!date.IsZero() && (agg.earliest.IsZero() || date.Before(agg.earliest))) {
		agg.earliest = date
	}
	b.rates[maturity] = agg
	return agg
}

func (b *builder) offerTaker(maturity string, date time.Time, q models.RateQuote) {
	agg := b.touch(maturity, date)
	if agg.taker == nil || q.Rate > agg.taker.Rate {
		agg.taker = &q
	}
	b.rates[maturity] = agg
}

func (b *builder) offerOffered(maturity string, date time.Time, q models.RateQuote) {
	agg := b.touch(maturity, date)
	if agg.offered == nil || q.Rate < agg.offered.Rate {
		agg.offered = &q
	}
	b.rates[maturity] = agg
}

func (b *builder) build() (map[string]aggregate, []string) {
	order := make([]string, 0, len(b.rates))
	for m := range b.rates {
		order = append(order, m)
	}
	sort.Slice(order, func(i, j int) bool {
		ei, ej := b.rates[order[i]].earliest, b.rates[order[j]].earliest
		if !ei.Equal(ej) {
			return ei.Before(ej)
		}
		return order[i] < order[j]
	})
	return b.rates, order
}
