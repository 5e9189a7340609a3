// Package rates converts futures quotes into annualized implied interest rates.
//
// A future on an underlier relates to spot by daily compound growth:
//
//	quote = spot * (1 + rate/daysPerYear) ^ days
//
// so the implied rate is daysPerYear * ((quote/spot)^(1/days) - 1).
package rates

import (
	"math"
	"time"
)

// DefaultDaysPerYear is the day-count convention used by the local market.
const DefaultDaysPerYear = 365.0

// DaysToMaturity returns the number of whole calendar days between the
// valuation date and the maturity date. Each date is read in its own
// location: a maturity parsed as UTC midnight keeps its calendar day even
// when the valuation clock runs west of UTC.
func DaysToMaturity(valuation, maturity time.Time) int {
	return int(civilDate(maturity).Sub(civilDate(valuation)).Hours() / 24)
}

// ImpliedRate returns the annualized rate implied by quotePrice against
// spotPrice for a contract maturing at maturity, valued at valuation.
//
// ok is false when the rate is not computable: non-positive prices,
// non-positive days to maturity or a non-positive day count. Callers must
// exclude such pairs instead of treating them as errors.
func ImpliedRate(quotePrice, spotPrice float64, valuation, maturity time.Time, daysPerYear float64) (float64, bool) {
	return ImpliedRateForDays(quotePrice, spotPrice, DaysToMaturity(valuation, maturity), daysPerYear)
}

// ImpliedRateForDays is ImpliedRate with the days to maturity already known.
func ImpliedRateForDays(quotePrice, spotPrice float64, days int, daysPerYear float64) (float64, bool) {
	if !(spotPrice > 0) || !(quotePrice > 0) || days <= 0 || !(daysPerYear > 0) {
		return 0, false
	}
	if math.IsInf(quotePrice, 0) || math.IsInf(spotPrice, 0) {
		return 0, false
	}
	// expm1/log keep precision for quotes close to spot.
	growth := math.Expm1(math.Log(quotePrice/spotPrice) / float64(days))
	rate := daysPerYear * growth
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, false
	}
	return rate, true
}

// ForwardPrice is the inverse of ImpliedRateForDays.
func ForwardPrice(spotPrice, rate float64, days int, daysPerYear float64) float64 {
	return spotPrice * math.Pow(1+rate/daysPerYear, float64(days))
}

// civilDate maps t's calendar date onto UTC midnight so differences are
// exact multiples of 24h.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
