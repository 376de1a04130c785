package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/framegraph/pkg/cache"
	"github.com/matzehuels/framegraph/pkg/core/render/nodelink"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/scenario"
)

const listTOML = `
name = "append"
kind = "list"
delay = "250ms"

[[nodes]]
id = "a"

[[nodes]]
id = "b"

[[steps]]
op = "add"
node = "a"

[[steps]]
op = "frame"

[[steps]]
op = "link"
from = "a"
to = "b"
`

// counting wraps the layered engine and counts layout calls.
func counting(n *atomic.Int32) nodelink.Layouter {
	return nodelink.LayouterFunc(func(ctx context.Context, req nodelink.Request) ([]byte, error) {
		n.Add(1)
		return nodelink.Layered{}.Layout(ctx, req)
	})
}

func load(t *testing.T) *scenario.Scenario {
	t.Helper()
	s, err := LoadScenario(Input{Data: []byte(listTOML)})
	if err != nil {
		t.Fatalf("LoadScenario() error: %v", err)
	}
	return s
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"html", false},
		{"png", false},
		{"pdf", false},
		{"gif", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "html"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateLayout(t *testing.T) {
	tests := []struct {
		layout  string
		wantErr bool
	}{
		{"graphviz", false},
		{"layered", false},
		{"neato", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateLayout(tt.layout)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLayout(%q) error = %v, wantErr %v", tt.layout, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Layout != DefaultLayout {
		t.Errorf("Layout = %q, want %q", opts.Layout, DefaultLayout)
	}
	if opts.MaxFrames != DefaultMaxFrames {
		t.Errorf("MaxFrames = %d, want %d", opts.MaxFrames, DefaultMaxFrames)
	}
	if !opts.Wants(FormatSVG) || opts.Wants(FormatHTML) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"html"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first call error: %v", err)
	}
	opts.Layout = "bogus"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call error: %v", err)
	}

	bad := Options{Steps: -1}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative steps = %v, want INVALID_INPUT", err)
	}
}

func TestEngineOptionsOverrides(t *testing.T) {
	s := load(t)
	opts := Options{Easing: "in-out-quad", Delay: 2 * time.Second}
	eo := opts.EngineOptions(s, nodelink.Layered{})
	if eo.Delay != 2*time.Second || eo.Easing != "in-out-quad" {
		t.Errorf("EngineOptions() delay %v easing %q", eo.Delay, eo.Easing)
	}
	if !eo.Directed {
		t.Error("list scenarios should be directed")
	}

	eo = (&Options{}).EngineOptions(s, nodelink.Layered{})
	if eo.Delay != 250*time.Millisecond {
		t.Errorf("scenario delay = %v, want 250ms", eo.Delay)
	}
}

func TestExecute(t *testing.T) {
	var calls atomic.Int32
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), load(t), Options{
		Layouter: counting(&calls),
		Formats:  []string{FormatSVG, FormatHTML},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Name != "append" || len(res.Frames) != 2 {
		t.Fatalf("Execute() = %q with %d frames, want append with 2", res.Name, len(res.Frames))
	}
	if res.Stats.Nodes != 2 || res.Stats.Edges != 1 {
		t.Errorf("Stats nodes/edges = %d/%d, want 2/1", res.Stats.Nodes, res.Stats.Edges)
	}
	// a; then b and the a->b edge
	if res.Stats.Appear != 3 || res.Stats.Disappear != 0 {
		t.Errorf("Stats appear/disappear = %d/%d, want 3/0", res.Stats.Appear, res.Stats.Disappear)
	}
	// baseline plus one layout per frame
	if got := calls.Load(); got != 3 {
		t.Errorf("layout calls = %d, want 3", got)
	}
	page := res.Artifacts[FormatHTML]
	if !bytes.Contains(page, []byte("<title>append</title>")) {
		t.Error("player page should carry the scenario name")
	}
	if _, ok := res.Artifacts[FormatSVG]; ok {
		t.Error("svg frames should not be duplicated in artifacts")
	}
	if !bytes.Contains(res.Final, []byte("<svg")) || bytes.Contains(res.Final, []byte("<animate")) {
		t.Error("Final should be a settled SVG")
	}
}

func TestExecuteOnFrame(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	var seen []int
	_, err := r.Execute(context.Background(), load(t), Options{
		Layouter: nodelink.Layered{},
		OnFrame:  func(f scenario.Frame) { seen = append(seen, f.Index) },
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("OnFrame indices = %v, want [1 2]", seen)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	var first, second atomic.Int32
	if _, err := r.Execute(context.Background(), load(t), Options{Layouter: counting(&first)}); err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	if _, err := r.Execute(context.Background(), load(t), Options{Layouter: counting(&second)}); err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if first.Load() == 0 || second.Load() != 0 {
		t.Errorf("layout calls = %d then %d, want >0 then 0", first.Load(), second.Load())
	}

	var uncached atomic.Int32
	if _, err := r.Execute(context.Background(), load(t), Options{Layouter: counting(&uncached), NoCache: true}); err != nil {
		t.Fatalf("uncached Execute() error: %v", err)
	}
	if uncached.Load() == 0 {
		t.Error("NoCache should bypass the cache")
	}
}

func TestExecuteMaxFrames(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()
	_, err := r.Execute(context.Background(), load(t), Options{Layouter: nodelink.Layered{}, MaxFrames: 1})
	if !errors.Is(err, errors.ErrCodeInvalidScenario) {
		t.Errorf("Execute() = %v, want INVALID_SCENARIO", err)
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.yaml")
	if err := os.WriteFile(path, []byte("kind: list\nnodes: [{id: a}]\nsteps: [{op: add, node: a}]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScenario(Input{Path: path})
	if err != nil {
		t.Fatalf("LoadScenario(path) error: %v", err)
	}
	if s.Name != "walk" {
		t.Errorf("Name = %q, want walk", s.Name)
	}

	s, err = LoadScenario(Input{Data: []byte(`{"kind": "graph"}`), Format: "json", Name: "posted"})
	if err != nil || s.Name != "posted" {
		t.Errorf("LoadScenario(data) = %v, %v", s, err)
	}

	if _, err := LoadScenario(Input{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("LoadScenario(empty) = %v, want INVALID_INPUT", err)
	}
}
