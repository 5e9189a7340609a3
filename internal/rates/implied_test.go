package rates

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var art = time.FixedZone("ART", -3*3600)

func TestDaysToMaturity(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		newYork = time.FixedZone("EST", -5*3600)
	}

	cases := []struct {
		name      string
		valuation time.Time
		maturity  time.Time
		want      int
	}{
		{
			name:      "calibration scenario",
			valuation: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			maturity:  time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC),
			want:      59,
		},
		{
			name:      "time of day ignored",
			valuation: time.Date(2023, 4, 1, 17, 45, 0, 0, time.UTC),
			maturity:  time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC),
			want:      59,
		},
		{
			name:      "same day",
			valuation: time.Date(2023, 5, 30, 10, 0, 0, 0, time.UTC),
			maturity:  time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC),
			want:      0,
		},
		{
			name:      "valuation west of utc, maturity at utc midnight",
			valuation: time.Date(2023, 4, 1, 10, 0, 0, 0, art),
			maturity:  time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC),
			want:      59,
		},
		{
			name:      "late evening west of utc",
			valuation: time.Date(2023, 4, 1, 23, 30, 0, 0, art),
			maturity:  time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC),
			want:      59,
		},
		{
			name:      "valuation east of utc",
			valuation: time.Date(2023, 4, 1, 1, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
			maturity:  time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC),
			want:      59,
		},
		{
			name:      "last day west of utc is not matured",
			valuation: time.Date(2023, 5, 29, 22, 0, 0, 0, art),
			maturity:  time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC),
			want:      1,
		},
		{
			name:      "across a dst change",
			valuation: time.Date(2023, 3, 1, 12, 0, 0, 0, newYork),
			maturity:  time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			want:      31,
		},
		{
			name:      "expired",
			valuation: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			maturity:  time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC),
			want:      -2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DaysToMaturity(tc.valuation, tc.maturity))
		})
	}
}

func TestImpliedRate_RoundTrip(t *testing.T) {
	spots := []float64{0.5, 100, 873.25, 15000}
	days := []int{1, 7, 59, 180, 365, 720}
	rts := []float64{-0.35, -0.01, 0, 0.05, 0.45, 1.2}

	for _, s := range spots {
		for _, d := range days {
			for _, r := range rts {
				q := ForwardPrice(s, r, d, DefaultDaysPerYear)
				got, ok := ImpliedRateForDays(q, s, d, DefaultDaysPerYear)
				require.True(t, ok, "spot=%v days=%d rate=%v", s, d, r)
				assert.InDelta(t, r, got, 1e-10, "spot=%v days=%d rate=%v", s, d, r)
			}
		}
	}
}

func TestImpliedRate_Calibration(t *testing.T) {
	valuation := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	maturity := time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC)

	ggalAsk, ok := ImpliedRate(120, 100, valuation, maturity, DefaultDaysPerYear)
	require.True(t, ok)
	dlrBid, ok := ImpliedRate(125, 100, valuation, maturity, DefaultDaysPerYear)
	require.True(t, ok)

	want := DefaultDaysPerYear * (math.Pow(1.2, 1.0/59) - 1)
	assert.InDelta(t, want, ggalAsk, 1e-12)
	assert.Greater(t, dlrBid, ggalAsk)
}

func TestImpliedRate_NotComputable(t *testing.T) {
	valuation := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	maturity := time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		quote, spot float64
		valuation   time.Time
		daysPerYear float64
	}{
		{"zero spot", 120, 0, valuation, 365},
		{"negative spot", 120, -1, valuation, 365},
		{"zero quote", 0, 100, valuation, 365},
		{"nan quote", math.NaN(), 100, valuation, 365},
		{"infinite quote", math.Inf(1), 100, valuation, 365},
		{"matured", 120, 100, maturity, 365},
		{"past maturity", 120, 100, maturity.AddDate(0, 0, 3), 365},
		{"zero day count", 120, 100, valuation, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ImpliedRate(tc.quote, tc.spot, tc.valuation, maturity, tc.daysPerYear)
			assert.False(t, ok)
		})
	}
}

func TestImpliedRate_NegativeRateBelowSpot(t *testing.T) {
	r, ok := ImpliedRateForDays(95, 100, 30, DefaultDaysPerYear)
	require.True(t, ok)
	assert.Less(t, r, 0.0)
}

func TestImpliedRate_ValuationWestOfUTC(t *testing.T) {
	valuation := time.Date(2023, 4, 1, 10, 0, 0, 0, art)
	maturity, err := time.Parse("2006-01-02", "2023-05-30")
	require.NoError(t, err)

	bid := ForwardPrice(100, 0.45, 59, DefaultDaysPerYear)
	got, ok := ImpliedRate(bid, 100, valuation, maturity, DefaultDaysPerYear)
	require.True(t, ok)
	assert.InDelta(t, 0.45, got, 1e-10)
}
