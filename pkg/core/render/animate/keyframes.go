package animate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fogleman/ease"

	"github.com/matzehuels/framegraph/pkg/core/diff"
	"github.com/matzehuels/framegraph/pkg/errors"
)

// Easing maps progress in [0, 1] to eased progress.
type Easing func(t float64) float64

var easings = map[string]Easing{
	"linear":         ease.Linear,
	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"out-bounce":     ease.OutBounce,
	"out-back":       ease.OutBack,
	"in-out-elastic": ease.InOutElastic,
}

// DefaultEasing is the name of the default curve.
const DefaultEasing = "in-out-quad"

// EasingByName returns a named easing curve.
func EasingByName(name string) (Easing, error) {
	if name == "" {
		name = DefaultEasing
	}
	e, ok := easings[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown easing %q", name)
	}
	return e, nil
}

// EasingNames lists the accepted easing names.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	return names
}

// timeline holds the sampled keyframes shared by every animation of a frame.
type timeline struct {
	dur      string
	keyTimes string
	progress []float64
}

func newTimeline(delay time.Duration, easing Easing, steps int) timeline {
	if steps < 1 {
		steps = 1
	}
	times := make([]string, steps+1)
	progress := make([]float64, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		times[i] = num(t)
		progress[i] = easing(t)
	}
	// Pin the ends so every animation lands exactly on its target.
	progress[0], progress[steps] = 0, 1
	return timeline{
		dur:      strconv.FormatFloat(delay.Seconds(), 'f', -1, 64) + "s",
		keyTimes: strings.Join(times, ";"),
		progress: progress,
	}
}

// fade appends an opacity animation to g.
func (tl timeline) fade(g *etree.Element, in bool) {
	values := make([]string, len(tl.progress))
	for i, p := range tl.progress {
		if !in {
			p = 1 - p
		}
		values[i] = num(p)
	}
	a := g.CreateElement("animate")
	a.CreateAttr("attributeName", "opacity")
	tl.finish(a, values)
}

// move appends a motion animation by delta to g.
func (tl timeline) move(g *etree.Element, delta diff.Point) {
	values := make([]string, len(tl.progress))
	for i, p := range tl.progress {
		values[i] = fmt.Sprintf("%s,%s", num(delta.X*p), num(delta.Y*p))
	}
	a := g.CreateElement("animateMotion")
	// animateMotion is paced by default, which ignores keyTimes.
	a.CreateAttr("calcMode", "linear")
	tl.finish(a, values)
}

func (tl timeline) finish(a *etree.Element, values []string) {
	a.CreateAttr("values", strings.Join(values, ";"))
	a.CreateAttr("keyTimes", tl.keyTimes)
	a.CreateAttr("begin", "0s")
	a.CreateAttr("dur", tl.dur)
	a.CreateAttr("fill", "freeze")
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
