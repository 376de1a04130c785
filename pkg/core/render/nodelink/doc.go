// Package nodelink is the layout collaborator of the frame engine: it turns
// a topology into a static node-link SVG.
//
// # Architecture
//
// The engine never lays out nodes itself. Each frame it builds a [Request]
// (nodes and edges in traversal order) and hands it to a [Layouter]:
//
//	Request → ToDOT() → DOT → Graphviz → SVG
//
// Element ids in the returned SVG follow declaration order, so node i of the
// request is rendered as group "node{i+1}" and edge j as "edge{j+1}".
//
// # Layouters
//
//   - [Renderer]: Graphviz dot via github.com/goccy/go-graphviz (WebAssembly,
//     in-process). One instance can be shared by many engines.
//   - [Layered]: a small pure-Go layered layout emitting the same SVG shape.
//     It is deterministic and cheap, which makes it the layouter of choice in
//     tests and on hosts where the wasm runtime is unwanted.
//   - [Cached]: wraps any layouter with a [cache.Cache]. Layout is a pure
//     function of the request, so the request hash is a complete key.
//
// # DOT
//
// [ToDOT] produces circle nodes with a fixed size, grey outlines and vee
// arrowheads. Labels are shrunk to fit the circle. Placeholder nodes and
// edges are declared invisible so they reserve space without being drawn.
package nodelink
