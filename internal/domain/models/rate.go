package models

import "time"

// RateQuote is the implied annualized rate achieved by one underlier
// for a given maturity.
type RateQuote struct {
	Underlier string  `json:"underlier" example:"DLR"`
	Ticker    string  `json:"ticker" example:"DLR/MAY23"`
	Price     float64 `json:"price" example:"125"`
	Rate      float64 `json:"rate" example:"1.3831"`
}

// MaturityRates is the per-maturity aggregate of a refresh cycle.
//
// Taker holds the maximum bid-implied rate and Offered the minimum
// ask-implied rate. Either side may be nil when no instrument for the
// maturity produced a usable rate on that side.
type MaturityRates struct {
	Maturity string     `json:"maturity" example:"MAY23"`
	Taker    *RateQuote `json:"taker,omitempty"`
	Offered  *RateQuote `json:"offered,omitempty"`
}

// Opportunity describes a maturity where the max taker rate strictly
// exceeds the min offered rate.
type Opportunity struct {
	CycleID    string    `json:"cycle_id"`
	Maturity   string    `json:"maturity" example:"MAY23"`
	Taker      RateQuote `json:"taker"`
	Offered    RateQuote `json:"offered"`
	Spread     float64   `json:"spread" example:"0.2534"`
	DetectedAt time.Time `json:"detected_at"`
}
