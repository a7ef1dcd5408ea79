package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"timelane/pkg/cache"
	"timelane/pkg/observability"
	"timelane/pkg/source"
	"timelane/pkg/timeline"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	observability.Pipeline().OnLoadStart(ctx, opts.Source)
	loadStart := time.Now()
	doc, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, docEvents(doc), time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Document = doc
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.EventCount = len(doc.Events)
	result.CacheInfo.LoadHit = loadHit

	// Compute document hash for cache keys and API responses
	if docData, err := timeline.MarshalDocument(doc); err == nil {
		result.DocumentHash = cache.Hash(docData)
	}

	r.Logger.Info("loaded events",
		"source", opts.Source,
		"events", len(doc.Events),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	observability.Pipeline().OnLayoutStart(ctx, len(doc.Events))
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	observability.Pipeline().OnLayoutComplete(ctx, layoutLanes(l), time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.LaneCount = l.MaxLane + 1
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"blocks", len(l.Blocks),
		"lanes", l.MaxLane+1,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the source document with caching and returns cache hit info.
// The document cache is keyed by the hash of the raw source bytes, so editing
// a local file invalidates its entry immediately.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*timeline.Document, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	raw, err := FetchSource(ctx, r.Cache, opts)
	if err != nil {
		return nil, false, err
	}

	// Compute cache key from the raw source content
	format := opts.SourceFormat
	if format == "" {
		format = source.Detect(opts.Source)
	}
	cacheKey := r.Keyer.DocumentKey(cache.Hash(raw), opts.DocumentKeyOpts(format))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			doc, err := timeline.UnmarshalDocument(data)
			if err == nil {
				return doc, true, nil // Cache hit
			}
		}
	}

	// Parse
	doc, err := ParseSource(raw, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result. Refresh runs store too, so a scheduled refresh
	// re-primes the entry instead of leaving it stale.
	if data, err := timeline.MarshalDocument(doc); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument)
	}

	return doc, false, nil // Cache miss
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*timeline.Document, error) {
	doc, _, err := r.LoadWithCacheInfo(ctx, opts)
	return doc, err
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
// Layouts are pure functions of the document hash and the layout options, so
// cached entries stay valid regardless of the refresh flag.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, doc *timeline.Document, opts Options) (*timeline.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	docData, _ := timeline.MarshalDocument(doc)
	docHash := cache.Hash(docData)
	cacheKey := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := timeline.UnmarshalLayout(data)
		if err == nil {
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}

	// Generate layout
	l, err := GenerateLayout(doc, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := timeline.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return l, false, nil // Cache miss
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, doc *timeline.Document, opts Options) (*timeline.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *timeline.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := timeline.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := RenderFromLayout(l, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l *timeline.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
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

func docEvents(doc *timeline.Document) int {
	if doc == nil {
		return 0
	}
	return len(doc.Events)
}

func layoutLanes(l *timeline.Layout) int {
	if l == nil {
		return 0
	}
	return l.MaxLane + 1
}
