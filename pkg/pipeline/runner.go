package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mkazantsev/rosterflow/pkg/cache"
	"github.com/mkazantsev/rosterflow/pkg/observability"
	"github.com/mkazantsev/rosterflow/pkg/roster"
	"github.com/mkazantsev/rosterflow/pkg/sankey"
	"github.com/mkazantsev/rosterflow/pkg/sink"
	"github.com/mkazantsev/rosterflow/pkg/source/tournament"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → build → write pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger.With("run_id", opts.RunID)

	result := &Result{RunID: opts.RunID}

	// Stage 1: Load
	loadStart := time.Now()
	seasons, err := r.Load(ctx, opts)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.InputDir, 0, 0, time.Since(loadStart), err)
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Seasons = seasons
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Years = seasons.Len()
	result.Stats.Teams = countTeams(seasons)
	result.DatasetHash = cache.Hash(seasons.Fingerprint())
	observability.Pipeline().OnLoadComplete(ctx, opts.InputDir,
		result.Stats.Years, result.Stats.Teams, result.Stats.LoadTime, nil)

	logger.Info("loaded tournaments",
		"years", result.Stats.Years,
		"teams", result.Stats.Teams,
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	buildStart := time.Now()
	diagram, buildHit, err := r.BuildWithCacheInfo(ctx, seasons, opts)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, 0, 0, time.Since(buildStart), err)
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Diagram = diagram
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = diagram.NodeCount()
	result.Stats.LinkCount = diagram.LinkCount()
	result.CacheInfo.BuildHit = buildHit
	observability.Pipeline().OnBuildComplete(ctx,
		result.Stats.NodeCount, result.Stats.LinkCount, result.Stats.BuildTime, nil)

	logger.Info("built diagram",
		"nodes", result.Stats.NodeCount,
		"links", result.Stats.LinkCount,
		"max_teams", diagram.MaxTeams,
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 3: Write (skipped when no output path is set)
	if opts.Output != "" {
		writeStart := time.Now()
		observability.Pipeline().OnWriteStart(ctx, opts.Output)
		size, err := sink.ExportJSON(diagram, opts.Output)
		result.Stats.WriteTime = time.Since(writeStart)
		observability.Pipeline().OnWriteComplete(ctx, opts.Output, size, result.Stats.WriteTime, err)
		if err != nil {
			return nil, fmt.Errorf("write: %w", err)
		}

		logger.Info("wrote diagram",
			"output", opts.Output,
			"bytes", size,
			"duration", result.Stats.WriteTime)
	}

	return result, nil
}

// Load reads the tournament dataset named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*roster.Seasons, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	observability.Pipeline().OnLoadStart(ctx, opts.InputDir)
	loader := tournament.New(tournament.WithLogger(opts.Logger))
	return loader.Load(opts.InputDir, opts.MappingFile)
}

// BuildWithCacheInfo builds the diagram with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, seasons *roster.Seasons, opts Options) (*sankey.Diagram, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	datasetHash := cache.Hash(seasons.Fingerprint())
	cacheKey := r.Keyer.DiagramKey(datasetHash, cache.DiagramKeyOpts{})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if d, err := sink.ReadJSON(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "diagram")
				return d, true, nil
			}
			// Corrupt cached document - fall through to rebuild
		}
		observability.Cache().OnCacheMiss(ctx, "diagram")
	}

	observability.Pipeline().OnBuildStart(ctx, seasons.Len())
	diagram, err := sankey.Build(seasons, sankey.WithLogger(opts.Logger))
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := sink.MarshalJSON(diagram); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLDiagram); err == nil {
			observability.Cache().OnCacheSet(ctx, "diagram", len(data))
		}
	}

	return diagram, false, nil
}

// Build is a convenience wrapper that discards the cache hit info.
func (r *Runner) Build(ctx context.Context, seasons *roster.Seasons, opts Options) (*sankey.Diagram, error) {
	d, _, err := r.BuildWithCacheInfo(ctx, seasons, opts)
	return d, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// countTeams sums real team counts across all years.
func countTeams(seasons *roster.Seasons) int {
	total := 0
	for _, year := range seasons.Years() {
		total += seasons.Group(year).Len()
	}
	return total
}
