// Package traverse discovers hintable elements by walking accessibility
// trees concurrently.
//
// Each child of a visited element is walked as its own task. Tasks run on
// a bounded pool; when the pool is full the child is walked inline on the
// spawning goroutine, so a deep tree can never starve the pool of the
// workers its own descendants need.
//
// A Walk call is a barrier: it returns only after every branch it started
// has finished, and it returns nodes in sort-key order.
package traverse
