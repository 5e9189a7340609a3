package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/irarb/internal/catalog"
	"github.com/guttosm/irarb/internal/domain/models"
)

// expectedHeaders enforces strict column ordering for instrument files.
// If the header doesn't match EXACTLY (order + count), loading must fail.
var expectedHeaders = []string{
	"ticker",
	"underlier",
	"maturity_date",
	"contract_size",
}

const maturityDateLayout = "2006-01-02"

// parseFile opens, validates and parses one instrument file.
// It fails on:
//   - header not matching expected order/length
//   - rows with a wrong column count or malformed values
//   - unrecoverable I/O errors
//
// Row order is preserved; it becomes the catalog order per underlier.
func parseFile(ctx context.Context, path string) ([]models.DerivativeInstrument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parse(ctx, f)
}

func parse(ctx context.Context, in io.Reader) ([]models.DerivativeInstrument, error) {
	r := csv.NewReader(in)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // checked explicitly below

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		if strings.TrimSpace(h) != expectedHeaders[i] {
			return nil, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	var out []models.DerivativeInstrument
	lineNumber := 1 // header already read

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedHeaders) {
			return nil, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}

		inst, err := recordToInstrument(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		out = append(out, inst)
	}

	return out, nil
}

// recordToInstrument converts one record (already validated length==4).
//
//	0 ticker         required, e.g. "GGAL/MAY23"
//	1 underlier      optional, derived from the ticker when empty
//	2 maturity_date  required, "2006-01-02"
//	3 contract_size  optional, comma or dot decimal separator, empty→0
func recordToInstrument(rec []string) (models.DerivativeInstrument, error) {
	var inst models.DerivativeInstrument

	inst.Ticker = strings.TrimSpace(rec[0])
	if inst.Ticker == "" {
		return inst, fmt.Errorf("empty ticker")
	}

	underlier, label, ok := catalog.ParseTicker(inst.Ticker)

	inst.Underlier = strings.TrimSpace(rec[1])
	if inst.Underlier == "" {
		if !ok {
			return inst, fmt.Errorf("no underlier for ticker %q", inst.Ticker)
		}
		inst.Underlier = underlier
	}

	s := strings.TrimSpace(rec[2])
	d, err := time.Parse(maturityDateLayout, s)
	if err != nil {
		return inst, fmt.Errorf("invalid maturity_date: %v", err)
	}
	inst.MaturityDate = d

	if ok {
		inst.MaturityLabel = label
	} else {
		inst.MaturityLabel = strings.ToUpper(d.Format("Jan06"))
	}

	if s := strings.TrimSpace(rec[3]); s != "" {
		s = strings.ReplaceAll(s, ",", ".")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return inst, fmt.Errorf("invalid contract_size: %v", err)
		}
		if v < 0 {
			return inst, fmt.Errorf("negative contract_size %v", v)
		}
		inst.ContractSize = v
	}

	return inst, nil
}
