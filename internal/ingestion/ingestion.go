package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/irarb/internal/domain/models"
	"github.com/guttosm/irarb/internal/logger"
	"github.com/guttosm/irarb/internal/storage"
)

const maxParallelFiles = 8

var fileExtensions = []string{".csv", ".txt"}

// InstrumentWriter is the storage side of a catalog load.
type InstrumentWriter interface {
	ReplaceInstruments(ctx context.Context, instruments []models.DerivativeInstrument) error
}

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) InstrumentWriter {
	return storage.NewRepository(db)
}

// LoadDirectory replaces the instrument catalog with the contents of the
// instrument files in dir.
//
//   - dir: directory containing ";"-delimited .csv/.txt files.
//   - db:  open *sql.DB (PostgreSQL).
//   - parallel: files parsed concurrently; 0 means min(8, NumCPU).
//
// Files are parsed concurrently and merged in file name order. A ticker
// appearing more than once keeps its first occurrence. Any parse error
// aborts the load before the catalog is touched.
func LoadDirectory(ctx context.Context, dir string, db *sql.DB, parallel int) (int, error) {
	repo := repoCtor(db)

	files, err := listInstrumentFiles(dir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no instrument files in %s", dir)
	}

	maxParallel := maxParallelFiles
	if parallel > 0 {
		if parallel < maxParallel {
			maxParallel = parallel
		}
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	logger.L().Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", maxParallel).Msg("catalog load start")

	results := make([][]models.DerivativeInstrument, len(files))

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, file := range files {
		idx := i
		f := file
		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(f)

			insts, err := parseFile(gctx, f)
			if err != nil {
				logger.L().Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", f, err)
			}
			results[idx] = insts
			logger.L().Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Int("rows", len(insts)).Dur("elapsed", time.Since(start)).Msg("file parsed")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	merged := merge(results)
	if len(merged) == 0 {
		return 0, fmt.Errorf("no instruments found in %s", dir)
	}

	if err := repo.ReplaceInstruments(ctx, merged); err != nil {
		return 0, fmt.Errorf("replace instruments: %w", err)
	}

	logger.L().Info().Int("instruments", len(merged)).Msg("catalog load done")
	return len(merged), nil
}

func listInstrumentFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range fileExtensions {
			if ext == want {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func merge(results [][]models.DerivativeInstrument) []models.DerivativeInstrument {
	seen := make(map[string]struct{})
	var out []models.DerivativeInstrument
	for _, insts := range results {
		for _, inst := range insts {
			if _, dup := seen[inst.Ticker]; dup {
				logger.L().Warn().Str("ticker", inst.Ticker).Msg("duplicate ticker ignored")
				continue
			}
			seen[inst.Ticker] = struct{}{}
			out = append(out, inst)
		}
	}
	return out
}
