// Package orchestrator wires the page loader, group and reference data
// sources, and the repeatable manager into one pipeline: load a page, apply
// row operations, and render the resulting HTML.
package orchestrator
