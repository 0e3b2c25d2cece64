package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	fio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/observability"
)

// Runner runs pipeline stages with caching.
//
// A Runner holds no results, only its cache, keyer and logger. It is safe
// for concurrent use when its cache is.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses cache.DefaultKeyer, a nil
// cache disables caching and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs layout then render.
func (r *Runner) Execute(ctx context.Context, t *family.Tree, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil tree")
	}

	result := &Result{Artifacts: make(map[string][]byte)}
	result.Stats.Persons = len(t.Persons)
	result.Stats.Relations = len(t.Relations)

	layoutStart := time.Now()
	l, treeHash, layoutHit, err := r.layout(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.TreeHash = treeHash
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Generations = l.Generations
	result.Stats.Crossings = l.Crossings
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"persons", len(t.Persons),
		"generations", l.Generations,
		"crossings", l.Crossings,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)
	for _, w := range l.Warnings {
		r.Logger.Warn(w)
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the layout of t through the cache and
// reports whether it was a hit.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, t *family.Tree, opts Options) (*layout.Layout, bool, error) {
	if t == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "nil tree")
	}
	l, _, hit, err := r.layout(ctx, t, opts)
	return l, hit, err
}

// Layout is LayoutWithCacheInfo without the hit flag.
func (r *Runner) Layout(ctx context.Context, t *family.Tree, opts Options) (*layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, t, opts)
	return l, err
}

func (r *Runner) layout(ctx context.Context, t *family.Tree, opts Options) (*layout.Layout, string, bool, error) {
	treeHash, err := cache.HashJSON(t)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "hash tree")
	}
	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := fio.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, treeHash, true, nil
			}
			// A corrupt entry is recomputed and overwritten.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, t.Name, len(t.Persons))
	start := time.Now()
	l, err := GenerateLayout(t, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, t.Name, 0, time.Since(start), err)
		return nil, "", false, err
	}
	hooks.OnLayoutComplete(ctx, t.Name, l.Generations, time.Since(start), nil)

	if data, err := fio.MarshalLayout(l); err == nil {
		r.set(ctx, cacheKey, "layout", data, cache.TTLLayout)
	}
	return l, treeHash, false, nil
}

// RenderWithCacheInfo renders the requested formats through the cache and
// reports whether every artifact was a hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *family.Tree, l *layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.validateRender(); err != nil {
		return nil, false, err
	}
	if t == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "nil tree")
	}
	inputHash, err := cache.HashJSON(struct {
		Tree   *family.Tree
		Layout *layout.Layout
	}{t, l})
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash render input")
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderArtifacts(ctx, t, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, key, "artifact", data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the hit flag.
func (r *Runner) Render(ctx context.Context, t *family.Tree, l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, l, opts)
	return artifacts, err
}

// set writes to the cache. Failures are logged and dropped.
func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
