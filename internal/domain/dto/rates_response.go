package dto

import (
	"time"

	"github.com/guttosm/irarb/internal/domain/models"
)

const dateLayout = "2006-01-02"

// MaturityRatesResponse is the taker/offered pair of one maturity.
// Arbitrage is true when the taker rate strictly exceeds the offered rate.
type MaturityRatesResponse struct {
	Maturity  string            `json:"maturity" example:"MAY23"`
	Taker     *models.RateQuote `json:"taker,omitempty"`
	Offered   *models.RateQuote `json:"offered,omitempty"`
	Arbitrage bool              `json:"arbitrage" example:"true"`
	Spread    *float64          `json:"spread,omitempty" example:"0.2534"`
}

// RatesResponse is returned by GET /api/v1/rates and /api/v1/rates/{maturity}.
type RatesResponse struct {
	CycleID       string                  `json:"cycle_id" example:"5b0c6f4e-3c1d-4c53-9df1-0f3c2b3a1e77"`
	ValuationDate string                  `json:"valuation_date" example:"2023-04-03"`
	RefreshedAt   time.Time               `json:"refreshed_at"`
	Maturities    []MaturityRatesResponse `json:"maturities"`
}

// OpportunitiesResponse is returned by the opportunity endpoints.
// CycleID and RefreshedAt are empty for history reads.
type OpportunitiesResponse struct {
	CycleID       string               `json:"cycle_id,omitempty"`
	RefreshedAt   *time.Time           `json:"refreshed_at,omitempty"`
	Opportunities []models.Opportunity `json:"opportunities"`
}

// NewMaturityRatesResponse maps a domain aggregate to its API shape.
func NewMaturityRatesResponse(mr models.MaturityRates) MaturityRatesResponse {
	resp := MaturityRatesResponse{Maturity: mr.Maturity, Taker: mr.Taker, Offered: mr.Offered}
	if mr.Taker != nil && mr.Offered != nil {
		spread := mr.Taker.Rate - mr.Offered.Rate
		resp.Spread = &spread
		resp.Arbitrage = spread > 0
	}
	return resp
}

// NewRatesResponse builds the response for a set of maturities of one cycle.
func NewRatesResponse(cycleID string, valuation, refreshedAt time.Time, rates []models.MaturityRates) RatesResponse {
	resp := RatesResponse{
		CycleID:       cycleID,
		ValuationDate: valuation.Format(dateLayout),
		RefreshedAt:   refreshedAt,
		Maturities:    make([]MaturityRatesResponse, 0, len(rates)),
	}
	for _, mr := range rates {
		resp.Maturities = append(resp.Maturities, NewMaturityRatesResponse(mr))
	}
	return resp
}

// NewOpportunitiesResponse never returns a nil list so clients always get [].
func NewOpportunitiesResponse(cycleID string, refreshedAt *time.Time, opps []models.Opportunity) OpportunitiesResponse {
	if opps == nil {
		opps = []models.Opportunity{}
	}
	return OpportunitiesResponse{CycleID: cycleID, RefreshedAt: refreshedAt, Opportunities: opps}
}
