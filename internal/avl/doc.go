// Package avl implements an ordered, height-balanced binary search tree.
//
// The tree is generic over its key and payload and is ordered by a
// caller-supplied comparison function, so the same structure serves as an
// interval index (keys are line spans) and as a priority frontier (keys
// order candidate blocks deepest-first).
//
// # Deletion
//
// Remove does not restructure the tree. It marks the node with a tombstone
// and the node keeps its place; a later Insert of an equal key revives the
// node in place. Rebalancing therefore happens only on insertion, bottom-up
// from the insertion point, using the four classic rotations.
//
// Equal keys are never duplicated: inserting a key that is already present
// overwrites the payload of the existing node.
//
// A Tree is not safe for concurrent use.
package avl
