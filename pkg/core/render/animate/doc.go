// Package animate merges two static layouts into one animated frame.
//
// The frame starts as a copy of the previous document, so everything the
// viewer already sees stays where it is. On top of it:
//
//   - the canvas grows to the larger of both sizes, never shrinking mid
//     transition
//   - disappearing nodes fade out
//   - moved nodes slide to their new center
//   - edges that disappear or touch a moved node fade out
//   - appearing nodes, and edges that appear or touch a moved node, are
//     copied from the next document into an overlay group and fade in
//
// Edges are never morphed: their shape depends on both endpoints and the
// router, so a fade is the only transition that is always correct.
//
// All animations are SMIL elements starting at 0 and lasting one frame
// delay. Their keyframes are sampled from an easing curve.
package animate
