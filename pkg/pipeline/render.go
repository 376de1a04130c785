package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/framegraph/pkg/core/render"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/player"
)

// render fills result.Artifacts with the requested non-SVG formats.
func (r *Runner) render(ctx context.Context, result *Result, opts Options) error {
	if opts.Wants(FormatHTML) {
		page, err := Page(result)
		if err != nil {
			return err
		}
		result.Artifacts[FormatHTML] = page
	}
	if opts.Wants(FormatPNG) {
		png, err := render.ToPNG(ctx, result.Final, opts.Scale)
		if err != nil {
			return err
		}
		result.Artifacts[FormatPNG] = png
	}
	if opts.Wants(FormatPDF) {
		pdf, err := render.ToPDF(ctx, result.Final)
		if err != nil {
			return err
		}
		result.Artifacts[FormatPDF] = pdf
	}
	return nil
}

// Page renders the player page for result.
func Page(result *Result) ([]byte, error) {
	frames := make([][]byte, len(result.Frames))
	for i, f := range result.Frames {
		frames[i] = f.SVG
	}
	var buf bytes.Buffer
	err := player.Render(&buf, player.Page{
		Title:  result.Name,
		Delay:  result.Delay,
		Frames: frames,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render player")
	}
	return buf.Bytes(), nil
}
