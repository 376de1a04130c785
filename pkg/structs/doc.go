// Package structs provides ready-made node types for the structures the
// engine animates: general graphs, binary trees and singly linked lists.
//
// Every type implements [topology.Node], [topology.Labeler] and
// [topology.Tracker], so it can be handed to an engine directly. Nodes are
// plain pointers and must not be mutated while a frame is being rendered.
package structs
