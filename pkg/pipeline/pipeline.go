// Package pipeline plays scenarios end to end for the CLI and the preview
// server.
//
// This package wires the pieces together so every entry point behaves the
// same way: scenario loading, layout engine selection with caching, frame
// production and artifact rendering.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Load and validate a scenario from a file or a request body
//  2. Play: Run an engine over the scenario, one frame per "frame" step
//  3. Render: Build artifacts from the frames (HTML player, PNG/PDF poster)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//
//	s, err := pipeline.LoadScenario(pipeline.Input{Path: "list.toml"})
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, s, pipeline.Options{Formats: []string{"html"}})
//	if err != nil {
//	    return err
//	}
//	page := result.Artifacts["html"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/framegraph/pkg/core/render/nodelink"
	"github.com/matzehuels/framegraph/pkg/engine"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/scenario"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Layout engines.
const (
	LayoutGraphviz = "graphviz"
	LayoutLayered  = "layered"
)

const (
	// DefaultLayout is the layout engine used when none is requested.
	DefaultLayout = LayoutGraphviz

	// DefaultScale is the PNG poster scale factor.
	DefaultScale = 2.0

	// DefaultMaxFrames bounds the frames of one run.
	DefaultMaxFrames = 500
)

// Format constants for output artifacts.
const (
	FormatSVG  = "svg"  // one file per frame
	FormatHTML = "html" // player page
	FormatPNG  = "png"  // settled state of the last frame
	FormatPDF  = "pdf"  // settled state of the last frame
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidLayouts is the set of supported layout engines.
var ValidLayouts = map[string]bool{
	LayoutGraphviz: true,
	LayoutLayered:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one run. Zero animation fields keep the scenario's
// settings.
type Options struct {
	Layout string `json:"layout,omitempty"`

	// Animation overrides
	Delay     time.Duration `json:"delay,omitempty"`
	Easing    string        `json:"easing,omitempty"`
	Steps     int           `json:"steps,omitempty"`
	NodeColor string        `json:"node_color,omitempty"`
	EdgeColor string        `json:"edge_color,omitempty"`

	// Output options
	Formats   []string `json:"formats,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	MaxFrames int      `json:"max_frames,omitempty"`
	NoCache   bool     `json:"no_cache,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger       `json:"-"`
	Layouter nodelink.Layouter    `json:"-"` // replaces the named engine
	OnFrame  func(scenario.Frame) `json:"-"` // called as each frame is produced

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Name is the scenario name.
	Name string

	// Frames are the rendered frames in order.
	Frames []scenario.Frame

	// Final is the settled state after the last frame, without animations.
	Final []byte

	// Delay is the transition length the frames were rendered with.
	Delay time.Duration

	// Artifacts contains rendered outputs keyed by format. SVG frames are
	// not duplicated here.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Frames     int
	Nodes      int // nodes in the final topology
	Edges      int // edges in the final topology
	Appear     int
	Disappear  int
	Moves      int
	Bytes      int
	PlayTime   time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, html, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLayout checks that a layout engine name is valid.
func ValidateLayout(layout string) error {
	if !ValidLayouts[layout] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid layout: %q (must be one of: graphviz, layered)", layout)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.MaxFrames == 0 {
		o.MaxFrames = DefaultMaxFrames
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and validates the options.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateLayout(o.Layout); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Steps < 0 || o.Delay < 0 || o.Scale < 0 || o.MaxFrames < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "steps, delay, scale and max frames must not be negative")
	}
	o.validated = true
	return nil
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// EngineOptions merges the scenario's settings with the overrides in o.
func (o *Options) EngineOptions(s *scenario.Scenario, layouter nodelink.Layouter) engine.Options {
	eo := s.EngineOptions(engine.Options{
		Layouter:  layouter,
		Logger:    o.Logger,
		NodeColor: o.NodeColor,
		EdgeColor: o.EdgeColor,
		Steps:     o.Steps,
	})
	if o.Delay > 0 {
		eo.Delay = o.Delay
	}
	if o.Easing != "" {
		eo.Easing = o.Easing
	}
	return eo
}
