package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/irarb/internal/domain/models"
)

func TestParseTicker(t *testing.T) {
	cases := []struct {
		in        string
		underlier string
		maturity  string
		ok        bool
	}{
		{"GGAL/MAY23", "GGAL", "MAY23", true},
		{"dlr/jun23", "DLR", "JUN23", true},
		{"MERV - XMEV - GGAL/MAY23", "GGAL", "MAY23", true},
		{"DLR/MAY23 24hs", "DLR", "MAY23", true},
		{"GGAL", "", "", false},
		{"/MAY23", "", "", false},
		{"A/B/C", "", "", false},
	}
	for _, c := range cases {
		u, m, ok := ParseTicker(c.in)
		if u != c.underlier || m != c.maturity || ok != c.ok {
			t.Fatalf("ParseTicker(%q)=(%q,%q,%v), want (%q,%q,%v)", c.in, u, m, ok, c.underlier, c.maturity, c.ok)
		}
	}
}

func TestStatic_TradeableAndMaturity(t *testing.T) {
	now := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	cat := NewStatic([]models.DerivativeInstrument{
		{Ticker: "GGAL/MAY23", MaturityDate: time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC)},
		{Ticker: "GGAL/MAR23", MaturityDate: time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)},
		{Ticker: "GGAL/JUN23", Underlier: "GGAL", MaturityLabel: "JUNE", MaturityDate: time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)},
		{Ticker: "GGAL/MAY23", MaturityDate: time.Date(2023, 5, 31, 0, 0, 0, 0, time.UTC)},
		{Ticker: ""},
	}, func() time.Time { return now })

	ctx := context.Background()
	insts, err := cat.TradeableInstruments(ctx, "GGAL")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(insts) != 2 || insts[0].Ticker != "GGAL/MAY23" || insts[1].Ticker != "GGAL/JUN23" {
		t.Fatalf("unexpected instruments: %+v", insts)
	}
	if insts[0].Underlier != "GGAL" || !insts[0].MaturityDate.Equal(time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first definition should win: %+v", insts[0])
	}

	if m, ok, _ := cat.MaturityOf(ctx, "GGAL/MAY23"); !ok || m != "MAY23" {
		t.Fatalf("MaturityOf parsed label = %q,%v", m, ok)
	}
	if m, ok, _ := cat.MaturityOf(ctx, "GGAL/JUN23"); !ok || m != "JUNE" {
		t.Fatalf("MaturityOf explicit label = %q,%v", m, ok)
	}
	if _, ok, _ := cat.MaturityOf(ctx, "YPFD/MAY23"); ok {
		t.Fatalf("unknown ticker should not resolve")
	}

	if insts, _ := cat.TradeableInstruments(ctx, "YPFD"); len(insts) != 0 {
		t.Fatalf("expected no instruments, got %+v", insts)
	}
}

func TestStatic_Replace(t *testing.T) {
	cat := NewStatic(nil, nil)
	cat.Replace([]models.DerivativeInstrument{{Ticker: "DLR/DEC99", MaturityDate: time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)}})
	insts, _ := cat.TradeableInstruments(context.Background(), "DLR")
	if len(insts) != 1 {
		t.Fatalf("expected replaced catalog, got %+v", insts)
	}
}

func TestStatic_TradeableOnLastDayWestOfUTC(t *testing.T) {
	art := time.FixedZone("ART", -3*3600)
	now := time.Date(2023, 5, 29, 22, 0, 0, 0, art)
	cat := NewStatic([]models.DerivativeInstrument{
		{Ticker: "GGAL/MAY23", MaturityDate: time.Date(2023, 5, 30, 0, 0, 0, 0, time.UTC)},
	}, func() time.Time { return now })

	insts, err := cat.TradeableInstruments(context.Background(), "GGAL")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(insts) != 1 {
		t.Fatalf("contract maturing tomorrow should be tradeable, got %+v", insts)
	}
}
