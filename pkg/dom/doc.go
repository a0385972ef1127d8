// Package dom wraps a parsed HTML page so form-row operations can treat it like
// a live document: lookup by id, liveness checks for detached nodes, deep
// clones of template fragments, and small attribute/class/style helpers.
//
// A Document is not safe for concurrent mutation. Callers that share one
// across goroutines (timer driven effects, HTTP handlers) must serialise
// access; the repeatable manager does so with its own mutex.
package dom
