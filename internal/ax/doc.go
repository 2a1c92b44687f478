// Package ax wraps elements of an externally owned accessibility tree.
//
// The tree is reached only through the Client interface. Handles are
// opaque, non-owning references that stay valid for a single discovery
// pass; a Node never outlives the pass that loaded it.
//
// Every failed query is treated as "attribute absent". A node whose role
// or bounds are absent is never hintable, and its visibility is unknown
// rather than false, so traversal still descends into it.
package ax
