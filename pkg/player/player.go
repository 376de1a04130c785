// Package player renders a self-contained HTML page that plays frames in
// sequence.
package player

import (
	"bytes"
	_ "embed"
	"html/template"
	"io"
	"time"
)

//go:embed player.html.tmpl
var pageTemplate string

var tmpl = template.Must(template.New("player").Parse(pageTemplate))

// Page is the content of one player page.
type Page struct {
	Title  string
	Delay  time.Duration // time each frame is shown
	Frames [][]byte      // SVG documents
	Loop   bool
}

type view struct {
	Title   string
	DelayMS int64
	Loop    bool
	Frames  []template.HTML
}

// Render writes the page to w.
func Render(w io.Writer, p Page) error {
	v := view{
		Title:   p.Title,
		DelayMS: p.Delay.Milliseconds(),
		Loop:    p.Loop,
		Frames:  make([]template.HTML, len(p.Frames)),
	}
	if v.Title == "" {
		v.Title = "framegraph"
	}
	if v.DelayMS <= 0 {
		v.DelayMS = 1000
	}
	for i, f := range p.Frames {
		// Frames come from the engine, not from users, and are inlined as is.
		v.Frames[i] = template.HTML(Inline(f))
	}
	return tmpl.Execute(w, v)
}

// Inline strips the XML declaration and doctype so an SVG document can be
// embedded in HTML.
func Inline(svg []byte) []byte {
	i := bytes.Index(svg, []byte("<svg"))
	if i < 0 {
		return svg
	}
	return svg[i:]
}
