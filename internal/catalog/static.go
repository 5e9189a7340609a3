// Package catalog provides an in-memory InstrumentCatalog.
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/guttosm/irarb/internal/domain/models"
	"github.com/guttosm/irarb/internal/rates"
)

// Static is a fixed set of derivative instruments, kept in insertion order
// per underlier. An instrument is tradeable until its maturity date.
type Static struct {
	clock func() time.Time

	mu          sync.RWMutex
	byUnderlier map[string][]models.DerivativeInstrument
	byTicker    map[string]models.DerivativeInstrument
}

// NewStatic builds a catalog from instruments. A nil clock means time.Now.
// Instruments without a maturity label get one from their ticker.
func NewStatic(instruments []models.DerivativeInstrument, clock func() time.Time) *Static {
	if clock == nil {
		clock = time.Now
	}
	s := &Static{clock: clock}
	s.Replace(instruments)
	return s
}

// Replace swaps the whole instrument set.
func (s *Static) Replace(instruments []models.DerivativeInstrument) {
	byUnderlier := make(map[string][]models.DerivativeInstrument)
	byTicker := make(map[string]models.DerivativeInstrument, len(instruments))
	for _, inst := range instruments {
		if inst.Ticker == "" {
			continue
		}
		if inst.Underlier == "" || inst.MaturityLabel == "" {
			if u, m, ok := ParseTicker(inst.Ticker); ok {
				if inst.Underlier == "" {
					inst.Underlier = u
				}
				if inst.MaturityLabel == "" {
					inst.MaturityLabel = m
				}
			}
		}
		if _, dup := byTicker[inst.Ticker]; dup {
			continue
		}
		byTicker[inst.Ticker] = inst
		byUnderlier[inst.Underlier] = append(byUnderlier[inst.Underlier], inst)
	}

	s.mu.Lock()
	s.byUnderlier = byUnderlier
	s.byTicker = byTicker
	s.mu.Unlock()
}

// TradeableInstruments returns the non-matured instruments of underlier.
func (s *Static) TradeableInstruments(_ context.Context, underlier string) ([]models.DerivativeInstrument, error) {
	now := s.clock()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.DerivativeInstrument
	for _, inst := range s.byUnderlier[underlier] {
		if rates.DaysToMaturity(now, inst.MaturityDate) > 0 {
			out = append(out, inst)
		}
	}
	return out, nil
}

// MaturityOf returns the maturity label of ticker.
func (s *Static) MaturityOf(_ context.Context, ticker string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, ok := s.byTicker[ticker]
	if !ok || inst.MaturityLabel == "" {
		return "", false, nil
	}
	return inst.MaturityLabel, true, nil
}

// ParseTicker splits an exchange ticker of the form "UNDERLIER/MATURITY"
// (e.g., "GGAL/MAY23"). Tickers carrying a market prefix such as
// "MERV - XMEV - GGAL/MAY23" or a settlement suffix like "DLR/MAY23 24hs"
// are accepted.
func ParseTicker(ticker string) (underlier, maturity string, ok bool) {
	t := strings.TrimSpace(ticker)
	if i := strings.LastIndex(t, " - "); i >= 0 {
		t = t[i+3:]
	}
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = t[:i]
	}
	parts := strings.Split(t, "/")
	if len(parts) != 2 {
		return "", "", false
	}
	underlier = strings.ToUpper(strings.TrimSpace(parts[0]))
	maturity = strings.ToUpper(strings.TrimSpace(parts[1]))
	if underlier == "" || maturity == "" {
		return "", "", false
	}
	return underlier, maturity, true
}
