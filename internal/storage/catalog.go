package storage

import (
	"context"
	"time"

	"github.com/guttosm/irarb/internal/domain/models"
)

// Catalog serves the engine's instrument catalog from the instruments table.
type Catalog struct {
	repo  Repository
	clock func() time.Time
}

// NewCatalog wraps repo. A nil clock means time.Now.
func NewCatalog(repo Repository, clock func() time.Time) *Catalog {
	if clock == nil {
		clock = time.Now
	}
	return &Catalog{repo: repo, clock: clock}
}

// TradeableInstruments returns the non-matured instruments of underlier.
func (c *Catalog) TradeableInstruments(ctx context.Context, underlier string) ([]models.DerivativeInstrument, error) {
	y, m, d := c.clock().Date()
	return c.repo.ListByUnderlier(ctx, underlier, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// MaturityOf returns the maturity label of ticker.
func (c *Catalog) MaturityOf(ctx context.Context, ticker string) (string, bool, error) {
	return c.repo.MaturityOf(ctx, ticker)
}
