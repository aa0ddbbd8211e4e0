package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/compliancespectre/internal/finding"
	"github.com/ppiankov/compliancespectre/internal/metrics"
)

// DefaultConcurrency bounds parallel file parsing when none is configured.
const DefaultConcurrency = 4

// ErrNoFiles is returned when a source holds no compliance exports.
var ErrNoFiles = errors.New("no compliance CSV files found")

// Source yields parsed compliance tables from one storage location.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Batch, error)
}

// SkippedSource is an export that was not ingested.
type SkippedSource struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Batch is the outcome of loading one or more sources.
type Batch struct {
	Tables  []finding.RawTable
	Skipped []SkippedSource
}

func (b *Batch) merge(other *Batch) {
	b.Tables = append(b.Tables, other.Tables...)
	b.Skipped = append(b.Skipped, other.Skipped...)
}

func (b *Batch) sort() {
	sort.SliceStable(b.Tables, func(i, j int) bool { return b.Tables[i].Name < b.Tables[j].Name })
	sort.SliceStable(b.Skipped, func(i, j int) bool { return b.Skipped[i].Name < b.Skipped[j].Name })
}

// Reason classifies a parse error for metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrEncoding):
		return "encoding"
	case errors.Is(err, ErrNoRows):
		return "no_rows"
	case errors.Is(err, ErrNoCheckColumn):
		return "no_check_column"
	default:
		return "unreadable"
	}
}

// Skip records an export that could not be ingested.
func Skip(name string, err error) SkippedSource {
	reason := Reason(err)
	metrics.SourcesSkipped.WithLabelValues(reason).Inc()
	slog.Warn("Skipping source", "file", name, "reason", reason, "error", err)
	return SkippedSource{Name: name, Reason: err.Error()}
}

// IsCSV reports whether a file or object key names a compliance export.
func IsCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// FolderSource reads every *.csv file of a local directory.
type FolderSource struct {
	Dir         string
	Concurrency int
}

// Name implements Source.
func (s FolderSource) Name() string {
	return s.Dir
}

// Load implements Source. Files that fail to parse are skipped.
func (s FolderSource) Load(ctx context.Context) (*Batch, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", s.Dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsCSV(e.Name()) {
			files = append(files, filepath.Join(s.Dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("folder %s: %w", s.Dir, ErrNoFiles)
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		mu    sync.Mutex
		batch Batch
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slog.Debug("Parsing file", "file", path)
			table, err := parseFile(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				batch.Skipped = append(batch.Skipped, Skip(filepath.Base(path), err))
				return nil
			}
			batch.Tables = append(batch.Tables, *table)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	batch.sort()
	return &batch, nil
}

func parseFile(path string) (*finding.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(filepath.Base(path), f)
}

// LoadAll loads every source concurrently and merges the results. A source
// that fails as a whole aborts loading.
func LoadAll(ctx context.Context, concurrency int, sources ...Source) (*Batch, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		mu       sync.Mutex
		combined Batch
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, src := range sources {
		src := src
		g.Go(func() error {
			slog.Info("Loading source", "source", src.Name())
			b, err := src.Load(ctx)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Name(), err)
			}
			mu.Lock()
			combined.merge(b)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	combined.sort()
	slog.Info("Sources loaded", "tables", len(combined.Tables), "skipped", len(combined.Skipped))
	return &combined, nil
}
