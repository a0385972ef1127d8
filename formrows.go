// Package formrows manages repeatable field groups of server-rendered forms:
// contact details, social profiles, companies, events and notes rows that
// are appended from templates, removed, and fed select options from an
// embedded reference payload.
package formrows

import (
	"context"
	"io/fs"

	internalLoader "github.com/goliatone/go-formrows/internal/source/loader"
	"github.com/goliatone/go-formrows/pkg/orchestrator"
	"github.com/goliatone/go-formrows/pkg/scaffold"
	"github.com/goliatone/go-formrows/pkg/source"
)

// Request aliases orchestrator.Request for callers of the top-level package.
type Request = orchestrator.Request

// Operation is one add, remove or populate action.
type Operation = orchestrator.Operation

// Session is a loaded page with its manager.
type Session = orchestrator.Session

// Add, Remove and Populate build operations.
var (
	Add      = orchestrator.Add
	Remove   = orchestrator.Remove
	Populate = orchestrator.Populate
)

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...source.LoaderOption) source.Loader {
	return internalLoader.New(source.NewLoaderOptions(options...))
}

// GenerateHTML loads page, applies ops with the contact groups and the
// embedded reference payload, and returns the resulting HTML.
func GenerateHTML(ctx context.Context, page source.Source, ops []Operation, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, Request{Page: page, Operations: ops})
}

// GenerateHTMLFromMarkup is GenerateHTML for a page already in memory.
func GenerateHTMLFromMarkup(ctx context.Context, markup []byte, ops []Operation, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, Request{PageHTML: markup, Operations: ops})
}

// EmbeddedTemplates exposes the scaffold page templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return scaffold.TemplatesFS()
}
