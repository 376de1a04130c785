package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/pipeline"
	"github.com/matzehuels/framegraph/pkg/scenario"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output directory
	formats   string // comma-separated output formats
	html      bool   // shorthand for adding html
	png       bool   // shorthand for adding png
	layout    string
	delay     time.Duration
	easing    string
	steps     int
	nodeColor string
	edgeColor string
	maxFrames int
	cache     cacheFlags
}

// renderCommand creates the render command for writing the frames of a scenario.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{output: ".", layout: pipeline.DefaultLayout}

	cmd := &cobra.Command{
		Use:   "render [scenario]",
		Short: "Render the frames of a scenario to SVG files",
		Long: `Render plays a scenario file (TOML, YAML or JSON) and writes one animated
SVG per frame to the output directory. --html adds a self-contained player page
and --png a poster of the final state (requires rsvg-convert; use
--format pdf for a PDF poster).`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScenario,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), html, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.html, "html", false, "also write an HTML player")
	cmd.Flags().BoolVar(&opts.png, "png", false, "also write a PNG of the final state")
	cmd.Flags().StringVar(&opts.layout, "layout", opts.layout, "layout engine: graphviz (default), layered")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "transition length (overrides the scenario)")
	cmd.Flags().StringVar(&opts.easing, "easing", "", "easing curve (overrides the scenario)")
	cmd.Flags().IntVar(&opts.steps, "steps", 0, "keyframes per transition")
	cmd.Flags().StringVar(&opts.nodeColor, "node-color", "", "unmarked node fill")
	cmd.Flags().StringVar(&opts.edgeColor, "edge-color", "", "unmarked edge stroke")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", pipeline.DefaultMaxFrames, "refuse scenarios with more frames")
	opts.cache.register(cmd)

	return cmd
}

// pipelineOptions converts the flags into pipeline options.
func (o *renderOpts) pipelineOptions() pipeline.Options {
	formats := parseFormats(o.formats)
	if o.html {
		formats = appendFormat(formats, pipeline.FormatHTML)
	}
	if o.png {
		formats = appendFormat(formats, pipeline.FormatPNG)
	}
	return pipeline.Options{
		Layout:    o.layout,
		Delay:     o.delay,
		Easing:    o.easing,
		Steps:     o.steps,
		NodeColor: o.nodeColor,
		EdgeColor: o.edgeColor,
		Formats:   formats,
		MaxFrames: o.maxFrames,
		NoCache:   o.cache.noCache,
	}
}

func appendFormat(formats []string, f string) []string {
	for _, have := range formats {
		if have == f {
			return formats
		}
	}
	return append(formats, f)
}

// runRender plays the scenario at input and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	if err := errors.ValidateOutputDir(opts.output); err != nil {
		return err
	}
	popts := opts.pipelineOptions()
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	s, err := pipeline.LoadScenario(pipeline.Input{Path: input})
	if err != nil {
		return err
	}
	logger.Infof("Rendering %s (%d nodes, %d steps)", input, len(s.Nodes), len(s.Steps))

	runner, err := c.newRunner(opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts.OnFrame = func(f scenario.Frame) {
		logger.Debug("Frame", "index", f.Index, "changes", f.Diff, "bytes", len(f.SVG), "duration", f.Duration)
	}
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, s, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d frames", len(result.Frames)))

	paths, err := writeResult(opts.output, result, popts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", StyleHighlight.Render(result.Name))
	printStats(result.Stats)
	for _, p := range paths {
		printFile(p)
	}
	if !popts.Wants(pipeline.FormatHTML) {
		printNextStep("Watch it", fmt.Sprintf("%s render %s --html", appName, input))
	}
	return nil
}

// writeResult writes the frames and artifacts of result into dir and returns
// the written paths.
func writeResult(dir string, result *pipeline.Result, opts pipeline.Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory")
	}
	var paths []string
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
		return nil
	}

	if opts.Wants(pipeline.FormatSVG) {
		for _, f := range result.Frames {
			if err := write(frameName(result.Name, f.Index), f.SVG); err != nil {
				return nil, err
			}
		}
	}
	for _, format := range []string{pipeline.FormatHTML, pipeline.FormatPNG, pipeline.FormatPDF} {
		if data, ok := result.Artifacts[format]; ok {
			if err := write(result.Name+"."+format, data); err != nil {
				return nil, err
			}
		}
	}
	return paths, nil
}

// frameName returns the file name of frame n, zero-padded so names sort in
// playback order.
func frameName(name string, n int) string {
	return fmt.Sprintf("%s-%03d.svg", name, n)
}
