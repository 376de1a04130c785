package nodelink

import (
	"bytes"
	"context"
	"sync"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/framegraph/pkg/errors"
)

// Renderer lays out requests with Graphviz dot. The WebAssembly instance is
// created on first use and guarded by a mutex, so one Renderer can serve
// several engines.
type Renderer struct {
	mu sync.Mutex
	gv *graphviz.Graphviz
}

// NewRenderer returns a renderer. Call Close to release the runtime.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Name identifies the layout engine in cache keys and metrics.
func (r *Renderer) Name() string { return "graphviz" }

// Layout renders req to SVG.
func (r *Renderer) Layout(ctx context.Context, req Request) ([]byte, error) {
	return r.RenderDOT(ctx, ToDOT(req))
}

// RenderDOT renders DOT source to SVG.
func (r *Renderer) RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gv == nil {
		gv, err := graphviz.New(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeLayout, err, "init graphviz")
		}
		r.gv = gv
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := r.gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayout, err, "render")
	}
	return buf.Bytes(), nil
}

// Close releases the Graphviz runtime.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gv == nil {
		return nil
	}
	err := r.gv.Close()
	r.gv = nil
	return err
}
