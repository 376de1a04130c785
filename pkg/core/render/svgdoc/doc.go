// Package svgdoc gives structured access to the static SVG documents the
// layout engine produces.
//
// A [Document] wraps an etree DOM and knows the Graphviz conventions the
// animation layer relies on:
//
//   - the root is <svg> with width and height in points
//   - all drawing lives in the group "graph0", shifted by a translate
//   - node groups are <g id="nodeN" class="node"> holding an <ellipse> and
//     a <text>; invisible nodes have no ellipse
//   - edge groups are <g id="edgeN" class="edge"> holding a <path>, an
//     optional arrowhead <polygon> and an optional label <text>
//
// N counts elements in declaration order starting at 1, which is what makes
// the id maps of the engine line up with the rendered document.
//
// [Parse] rejects anything that does not follow these conventions with
// UNSUPPORTED_FORMAT.
package svgdoc
