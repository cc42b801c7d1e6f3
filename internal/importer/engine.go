// Package importer reconciles spreadsheet rows against the location catalog.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/locmatch"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/service"
)

// Importer errors.
var (
	ErrEmptyCatalog = errors.New("location catalog is empty")
	ErrNoRows       = errors.New("no rows to import")
	ErrRowClosed    = errors.New("row already reconciled")
)

// RuleAlias is recorded on rows matched through a remembered alias.
const RuleAlias = "alias"

// Source describes where rows came from.
type Source struct {
	File   string
	Sheet  string
	DryRun bool
}

// ProgressFunc is called after each row is matched.
type ProgressFunc func(done, total int)

// Engine runs imports against a Storage.
type Engine struct {
	store    service.Storage
	logger   *slog.Logger
	progress ProgressFunc
	regexes  *common.RegexCache
	workers  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of rows matched concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress registers a progress callback. Calls are serialized.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// New creates an import engine.
func New(store service.Storage, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		logger:  slog.Default(),
		regexes: &common.RegexCache{},
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run matches every row and, unless src.DryRun is set, records the run.
// Results keep the order of rows.
func (e *Engine) Run(ctx context.Context, rows []model.ImportRow, src Source) (*model.ImportReport, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	started := time.Now()

	catalog, err := e.store.GetLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	index := model.IndexLocations(catalog)

	aliasRules, err := e.store.GetAliases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}
	aliases := NewAliasMatcher(aliasRules, index, e.regexes)

	e.logger.Info("Starting import",
		"source", src.File,
		"rows", len(rows),
		"locations", len(catalog),
		"aliases", aliases.Len(),
		"workers", e.workers,
		"dry_run", src.DryRun)

	results := make([]model.RowResult, len(rows))
	aliasHits := make([]int64, len(rows))

	var (
		progressMu sync.Mutex
		done       int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], aliasHits[i] = e.matchRow(rows[i], catalog, index, aliases)

			if e.progress != nil {
				progressMu.Lock()
				done++
				e.progress(done, len(rows))
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("import canceled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("import canceled: %w", err)
	}

	report := &model.ImportReport{
		StartedAt:  started,
		SourceFile: src.File,
		Sheet:      src.Sheet,
		Results:    results,
		Summary:    model.Summarize(results),
	}

	if !src.DryRun {
		if _, err := e.store.SaveImportRun(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to save import run: %w", err)
		}
		e.recordAliasUse(ctx, aliasHits)
	}

	report.Duration = time.Since(started)

	e.logger.Info("Import complete",
		"run_id", report.RunID,
		"total", report.Summary.Total,
		"matched", report.Summary.Matched,
		"via_alias", report.Summary.ViaAlias,
		"unmatched", report.Summary.Unmatched,
		"skipped", report.Summary.Skipped,
		"duration", report.Duration)

	return report, nil
}

// matchRow reconciles one row. The second return value is the id of the alias
// that matched, or zero.
func (e *Engine) matchRow(row model.ImportRow, catalog []model.Location, index model.LocationIndex, aliases *AliasMatcher) (model.RowResult, int64) {
	result := model.RowResult{Row: row, Method: model.MethodNone}

	if strings.TrimSpace(row.LocationName) == "" || locmatch.Normalize(row.LocationName) == "" {
		result.Status = model.RowSkipped
		return result, 0
	}

	if alias, ok := aliases.Match(row.LocationName); ok {
		result.LocationID = alias.LocationID
		result.LocationName = index.Name(alias.LocationID)
		result.Method = model.MethodAlias
		result.Rule = RuleAlias
		result.Score = 1.0
		result.Status = model.RowMatched
		return result, alias.ID
	}

	exp := locmatch.Explain(row.LocationName, catalog)
	if !exp.Matched {
		result.Status = model.RowUnmatched
		if best := exp.Candidates.Best(); best != nil {
			result.Score = best.Score
		}
		e.logger.Debug("No confident match", "row", row.Number, "name", row.LocationName, "best_score", result.Score)
		return result, 0
	}

	result.LocationID = exp.LocationID
	result.LocationName = exp.LocationName
	result.Rule = string(exp.Rule)
	result.Score = exp.Score
	result.Status = model.RowMatched
	result.Method = model.MethodAuto
	if exp.Rule == locmatch.RuleExactName {
		result.Method = model.MethodExact
	}
	return result, 0
}

func (e *Engine) recordAliasUse(ctx context.Context, hits []int64) {
	counts := make(map[int64]int)
	for _, id := range hits {
		if id != 0 {
			counts[id]++
		}
	}
	for id, n := range counts {
		if err := e.store.IncrementAliasUseCount(ctx, id, n); err != nil {
			e.logger.Warn("Failed to record alias use", "alias_id", id, "uses", n, "error", err)
		}
	}
}
