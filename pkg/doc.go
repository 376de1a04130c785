// Package pkg provides the core libraries for framegraph, an animated SVG
// renderer for linked structures that change over time.
//
// # Overview
//
// A program registers root nodes of its own graph, tree or list types, mutates
// them, and asks for a frame after each change. Every frame is a complete SVG
// whose embedded animations fade out what disappeared, slide moved nodes to
// their new place, and fade in what appeared. The pkg directory is organized
// into these areas:
//
//  1. [core] - Domain logic (topology tracking, diffing, marks, SVG patching)
//  2. [engine] - The frame state machine tying core together
//  3. [structs] and [scenario] - Ready-made structures and scripted playback
//  4. [pipeline] - Orchestration (scenario → frames → artifacts)
//  5. [cache] - Layout caching (file, Redis)
//
// # Architecture
//
// The data flow for one frame:
//
//	Mutated structure
//	         ↓
//	    [core/topology] package (traverse from roots, assign stable handles)
//	         ↓
//	    [core/diff] package (appear, disappear, move)
//	         ↓
//	    [core/render/nodelink] package (Graphviz or layered layout)
//	         ↓
//	    [core/render/animate] package (patch old layout into the new one)
//	         ↓
//	    Animated SVG frame
//
// # Quick Start
//
// Animate a growing list:
//
//	import (
//	    "github.com/matzehuels/framegraph/pkg/core/render/nodelink"
//	    "github.com/matzehuels/framegraph/pkg/engine"
//	    "github.com/matzehuels/framegraph/pkg/structs"
//	)
//
//	list := structs.NewList("a", "b")
//	eng, _ := engine.New(ctx, engine.Options{Layouter: nodelink.Layered{}, Directed: true}, list[0])
//	first, _ := eng.Frame(ctx)
//
//	list[1].Next = structs.NewListNode("c")
//	second, _ := eng.Frame(ctx) // c fades in
//
// # Main Packages
//
// [core/topology] - Tracks which nodes are reachable from the registered
// roots and assigns each one a handle that stays stable across frames.
//
// [core/idmap] - Dense, reusable SVG element ids keyed by handle or edge.
//
// [core/diff] - Compares two snapshots and their node positions.
//
// [core/trace] - Per-element color stacks for transient and held marks.
//
// [core/render/svgdoc] - Element lookup and painting on layout output.
//
// [core/render/animate] - Keyframes and the frame patcher.
//
// [core/render/nodelink] - Layout engines and the layout cache wrapper.
//
// [player] - Self-contained HTML page playing frames in sequence.
//
// [observability] - Hooks for frame, layout and cache metrics.
//
// [core]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/core
// [core/topology]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/core/topology
// [core/idmap]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/core/idmap
// [core/diff]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/core/diff
// [core/trace]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/core/trace
// [core/render/svgdoc]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/core/render/svgdoc
// [core/render/animate]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/core/render/animate
// [core/render/nodelink]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/core/render/nodelink
// [engine]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/engine
// [structs]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/structs
// [scenario]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/scenario
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/cache
// [player]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/player
// [observability]: https://pkg.go.dev/github.com/matzehuels/framegraph/pkg/observability
package pkg
