// Package trace keeps the highlight colors of nodes and edges across frames.
//
// Every element owns a [Stack]: marks push a color, unmarks remove one, and the
// element is painted with the top of the stack or its background when empty.
// A [Trace] layers frame bookkeeping on top: marks made since the last frame
// are pending, and non-held marks fade away one frame after they were shown.
package trace

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Default backgrounds for elements without highlights.
var (
	NodeBackground = colorful.Color{R: 1, G: 1, B: 1}
	EdgeBackground = colorful.Color{R: 123.0 / 255, G: 123.0 / 255, B: 123.0 / 255}
)

// Stack is a LIFO of highlight colors over a fixed background.
type Stack struct {
	bg     colorful.Color
	colors []colorful.Color
}

// NewStack returns an empty stack over bg.
func NewStack(bg colorful.Color) *Stack {
	return &Stack{bg: bg}
}

// Add pushes c.
func (s *Stack) Add(c colorful.Color) {
	s.colors = append(s.colors, c)
}

// Remove deletes the topmost occurrence of c and reports whether one existed.
func (s *Stack) Remove(c colorful.Color) bool {
	for i := len(s.colors) - 1; i >= 0; i-- {
		if Same(s.colors[i], c) {
			s.colors = append(s.colors[:i], s.colors[i+1:]...)
			return true
		}
	}
	return false
}

// Color returns the displayed color.
func (s *Stack) Color() colorful.Color {
	if len(s.colors) == 0 {
		return s.bg
	}
	return s.colors[len(s.colors)-1]
}

// Len returns the number of highlights on the stack.
func (s *Stack) Len() int { return len(s.colors) }

// Background returns the color shown when the stack is empty.
func (s *Stack) Background() colorful.Color { return s.bg }

// Same reports whether a and b render as the same hex color.
func Same(a, b colorful.Color) bool {
	return a.Clamped().Hex() == b.Clamped().Hex()
}

// ParseColor parses "#rrggbb" or "#rgb".
func ParseColor(s string) (colorful.Color, error) {
	if (len(s) != 4 && len(s) != 7) || s[0] != '#' || !isHex(s[1:]) {
		return colorful.Color{}, fmt.Errorf("color %q is not of the form #rrggbb or #rgb", s)
	}
	if len(s) == 4 {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return colorful.Hex(s)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}
