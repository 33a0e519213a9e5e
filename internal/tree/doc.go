// Package tree holds the immutable syntax tree rewritten by recipes.
//
// Nodes are never mutated after construction. Edits go through the With*
// and member helpers, which copy exactly the node being changed and share
// every untouched child by pointer, so callers can tell changed subtrees
// apart from unchanged ones with ==.
package tree
