// Package topology tracks the membership and shape of a user-defined linked
// structure across animation frames.
//
// # Overview
//
// Any value can take part in a structure as long as it is comparable and
// implements [Node]: an ordered list of neighbors, each optionally labelled.
// Graph, tree and list adapters live in the structs package; this package
// only depends on the capability.
//
// A [Model] owns three things:
//
//   - an identity arena assigning every node a stable [Handle] on first sight,
//     so identity never depends on how a node type hashes or compares
//   - the live set: nodes added explicitly (transitively through their
//     neighbors) or discovered by a traversal, minus nodes removed explicitly
//   - the committed [Snapshot]: node order and edge-label mapping of the last
//     emitted frame
//
// # Traversal
//
// [Model.Traverse] rediscovers the structure from scratch every frame, since
// callers mutate their nodes between frames (rotations, pointer rewiring).
// The walk uses an explicit stack so depth is bounded by memory, not by the
// goroutine stack, and pushes neighbors in reverse so the first declared
// neighbor is visited first.
//
// A nil neighbor is a dangling slot. It is kept in the snapshot as a
// placeholder node so that, for example, a binary tree's right child stays on
// the right when the left child is missing. A neighbor that was removed from
// the model is simply absent.
//
// # Edge keys
//
// For directed structures an [EdgeKey] is (from, to). For undirected ones the
// lower handle comes first, so both traversal directions name the same edge.
package topology
