package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/framegraph/pkg/cache"
	"github.com/matzehuels/framegraph/pkg/core/render/nodelink"
	"github.com/matzehuels/framegraph/pkg/engine"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/scenario"
)

// Runner executes the pipeline with a shared layout cache. It is safe to use
// from multiple goroutines; each Execute call plays on its own engine.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	mu       sync.Mutex
	renderer *nodelink.Renderer
}

// NewRunner creates a pipeline runner.
// If c is nil, a NullCache is used. If keyer is nil, DefaultKeyer is used.
// If logger is nil, the default logger is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
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

// Execute plays s with opts and renders the requested artifacts.
func (r *Runner) Execute(ctx context.Context, s *scenario.Scenario, opts Options) (*Result, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidScenario, "no scenario")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if n := s.Frames(); n > opts.MaxFrames {
		return nil, errors.New(errors.ErrCodeInvalidScenario, "scenario renders %d frames, limit is %d", n, opts.MaxFrames)
	}

	eo := opts.EngineOptions(s, r.Layouter(opts))
	eng, err := engine.New(ctx, eo)
	if err != nil {
		return nil, err
	}

	result := &Result{Name: s.Name, Delay: eo.Delay, Artifacts: make(map[string][]byte)}

	start := time.Now()
	err = s.Play(ctx, eng, func(f scenario.Frame) error {
		result.Frames = append(result.Frames, f)
		result.Stats.Appear += f.Diff.NodeAppear + f.Diff.EdgeAppear
		result.Stats.Disappear += f.Diff.NodeDisappear + f.Diff.EdgeDisappear
		result.Stats.Moves += f.Diff.Moves
		result.Stats.Bytes += len(f.SVG)
		if opts.OnFrame != nil {
			opts.OnFrame(f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Stats.PlayTime = time.Since(start)
	result.Stats.Frames = len(result.Frames)
	snap := eng.Model().Snapshot()
	result.Stats.Nodes = len(snap.Nodes)
	result.Stats.Edges = len(snap.Edges)
	r.Logger.Info("Played scenario", "name", s.Name, "frames", result.Stats.Frames, "duration", result.Stats.PlayTime)

	if result.Final, err = eng.Current(); err != nil {
		return nil, err
	}

	start = time.Now()
	if err := r.render(ctx, result, opts); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(start)
	if len(result.Artifacts) > 0 {
		r.Logger.Info("Rendered artifacts", "count", len(result.Artifacts), "duration", result.Stats.RenderTime)
	}
	return result, nil
}

// applyLogger uses the runner's logger when opts carries none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases the cache and the shared Graphviz renderer.
func (r *Runner) Close() error {
	r.mu.Lock()
	if r.renderer != nil {
		r.renderer.Close()
		r.renderer = nil
	}
	r.mu.Unlock()
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
