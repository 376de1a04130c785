package pipeline

import (
	"github.com/matzehuels/framegraph/pkg/cache"
	"github.com/matzehuels/framegraph/pkg/core/render/nodelink"
)

// Layouter returns the layout engine for opts. An explicit opts.Layouter wins
// over the named engine. Unless opts.NoCache is set the engine is wrapped in
// a cache lookup.
func (r *Runner) Layouter(opts Options) nodelink.Layouter {
	l := opts.Layouter
	if l == nil {
		l = r.named(opts.Layout)
	}
	if opts.NoCache {
		return l
	}
	return nodelink.NewCached(l, r.Cache, r.Keyer, cache.TTLLayout, opts.Logger)
}

func (r *Runner) named(name string) nodelink.Layouter {
	if name == LayoutLayered {
		return nodelink.Layered{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderer == nil {
		r.renderer = nodelink.NewRenderer()
	}
	return r.renderer
}
