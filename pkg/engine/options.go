package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/framegraph/pkg/core/diff"
	"github.com/matzehuels/framegraph/pkg/core/render/animate"
	"github.com/matzehuels/framegraph/pkg/core/render/nodelink"
	"github.com/matzehuels/framegraph/pkg/core/trace"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/observability"
)

// Default values shared by the CLI, the server and scenario files.
const (
	DefaultDelay     = animate.DefaultDelay
	DefaultSteps     = animate.DefaultSteps
	DefaultEasing    = animate.DefaultEasing
	DefaultNodeColor = "#ffffff"
	DefaultEdgeColor = "#7b7b7b"
)

// Options configures an [Engine].
type Options struct {
	Directed   bool
	Horizontal bool // lay ranks out left to right

	Delay       time.Duration // length of every transition
	Easing      string        // see [animate.EasingNames]
	Steps       int           // keyframe samples per transition
	MoveEpsilon float64       // displacement below which a node stays put

	// Colors of unmarked nodes (fill) and edges (stroke).
	NodeColor string
	EdgeColor string

	Layouter nodelink.Layouter
	Logger   *log.Logger
	Hooks    observability.FrameHooks

	easing    animate.Easing
	nodeBG    colorful.Color
	edgeBG    colorful.Color
	validated bool
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Delay <= 0 {
		o.Delay = DefaultDelay
	}
	if o.Easing == "" {
		o.Easing = DefaultEasing
	}
	if o.Steps == 0 {
		o.Steps = DefaultSteps
	}
	if o.MoveEpsilon == 0 {
		o.MoveEpsilon = diff.DefaultEpsilon
	}
	if o.NodeColor == "" {
		o.NodeColor = DefaultNodeColor
	}
	if o.EdgeColor == "" {
		o.EdgeColor = DefaultEdgeColor
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Hooks == nil {
		o.Hooks = observability.Frame()
	}
}

// Validate checks the options. Call SetDefaults first.
func (o *Options) Validate() error {
	if o.Layouter == nil {
		return errors.New(errors.ErrCodeInvalidInput, "a layouter is required")
	}
	if o.Steps < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "steps must be positive, got %d", o.Steps)
	}
	if o.MoveEpsilon < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "move epsilon must not be negative")
	}
	e, err := animate.EasingByName(o.Easing)
	if err != nil {
		return err
	}
	o.easing = e
	if o.nodeBG, err = trace.ParseColor(o.NodeColor); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidColor, err, "node color %q", o.NodeColor)
	}
	if o.edgeBG, err = trace.ParseColor(o.EdgeColor); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidColor, err, "edge color %q", o.EdgeColor)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

func (o *Options) animation() animate.Options {
	return animate.Options{Delay: o.Delay, Easing: o.easing, Steps: o.Steps}
}
