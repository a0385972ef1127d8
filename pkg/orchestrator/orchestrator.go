package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	internalLoader "github.com/goliatone/go-formrows/internal/source/loader"
	"github.com/goliatone/go-formrows/pkg/dom"
	"github.com/goliatone/go-formrows/pkg/groups"
	"github.com/goliatone/go-formrows/pkg/refdata"
	"github.com/goliatone/go-formrows/pkg/repeatable"
	"github.com/goliatone/go-formrows/pkg/source"
	"github.com/goliatone/go-formrows/pkg/toggles"
)

// ErrInstanceNotFound is reported when a remove or populate targets an index
// with no live instance.
var ErrInstanceNotFound = errors.New("orchestrator: instance not found")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom source loader.
func WithLoader(loader source.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithLogger routes pipeline and manager diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithToggles replaces the checkbox toggle configs synced after every run.
// Pass none to disable syncing.
func WithToggles(cfgs ...toggles.Config) Option {
	return func(o *Orchestrator) {
		o.toggles = append([]toggles.Config(nil), cfgs...)
	}
}

// Orchestrator coordinates loading a page, resolving its field groups and
// reference data, and replaying row operations against it.
type Orchestrator struct {
	loader  source.Loader
	logger  *slog.Logger
	toggles []toggles.Config
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies fall back to the built-in file/fs loader.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:  slog.New(slog.DiscardHandler),
		toggles: toggles.Defaults(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.loader == nil {
		o.loader = internalLoader.New(source.NewLoaderOptions())
	}
	return o
}

// Request describes the inputs of one pipeline run.
type Request struct {
	// Page identifies the HTML page. Optional when PageHTML is supplied.
	Page     source.Source
	PageHTML []byte

	// Groups points at a JSON or YAML group file. When nil, Definitions is
	// used, falling back to the contact groups.
	Groups      source.Source
	Definitions []groups.Group

	// Data points at a reference payload merged over the one embedded in the
	// page.
	Data source.Source

	// OpenAPI and Bindings derive reference keys from enum declarations. They
	// win over both the embedded and the file payload.
	OpenAPI  source.Source
	Bindings []refdata.OpenAPIBinding

	Operations []Operation
}

// Session is a loaded page with its manager. Cosmetic effects are queued on a
// manual scheduler and flushed by HTML.
type Session struct {
	Document  *dom.Document
	Manager   *repeatable.Manager
	Scheduler *repeatable.ManualScheduler
	Data      refdata.Set
	Outcomes  []Outcome

	toggles []toggles.Config
	logger  *slog.Logger
}

// Load resolves every source of req and initialises a manager, without
// applying operations.
func (o *Orchestrator) Load(ctx context.Context, req Request) (*Session, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := o.resolvePage(ctx, req)
	if err != nil {
		return nil, err
	}
	defs, err := o.resolveGroups(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := o.resolveData(ctx, req, doc)
	if err != nil {
		return nil, err
	}

	scheduler := repeatable.NewManualScheduler()
	manager := repeatable.New(doc,
		repeatable.WithLogger(o.logger),
		repeatable.WithReferenceData(data),
		repeatable.WithScheduler(scheduler),
	)
	manager.Initialize(defs...)

	return &Session{
		Document:  doc,
		Manager:   manager,
		Scheduler: scheduler,
		Data:      data,
		toggles:   o.toggles,
		logger:    o.logger,
	}, nil
}

// Run loads req and applies its operations in order. Operations that cannot
// be applied are recorded in Session.Outcomes; they do not abort the run.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Session, error) {
	session, err := o.Load(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, op := range req.Operations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		session.Apply(op)
	}
	return session, nil
}

// Generate runs req and returns the rendered page.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	session, err := o.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return session.HTML()
}

func (o *Orchestrator) resolvePage(ctx context.Context, req Request) (*dom.Document, error) {
	raw := req.PageHTML
	if raw == nil {
		if req.Page == nil {
			return nil, errors.New("orchestrator: page source or markup is required")
		}
		loaded, err := o.loader.Load(ctx, req.Page)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: load page: %w", err)
		}
		raw = loaded
	}
	doc, err := dom.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse page: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) resolveGroups(ctx context.Context, req Request) ([]groups.Group, error) {
	if req.Groups == nil {
		if len(req.Definitions) > 0 {
			return req.Definitions, nil
		}
		return groups.ContactGroups(), nil
	}
	raw, err := o.loader.Load(ctx, req.Groups)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load groups: %w", err)
	}
	defs, err := groups.Load(raw, req.Groups.Location())
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return defs, nil
}

func (o *Orchestrator) resolveData(ctx context.Context, req Request, doc *dom.Document) (refdata.Set, error) {
	sets := []refdata.Set{refdata.FromDocument(doc, refdata.DefaultPayloadSelector, o.logger)}

	if req.Data != nil {
		raw, err := o.loader.Load(ctx, req.Data)
		if err != nil {
			return refdata.Set{}, fmt.Errorf("orchestrator: load reference data: %w", err)
		}
		set, err := refdata.ParseYAML(raw)
		if err != nil {
			return refdata.Set{}, fmt.Errorf("orchestrator: %s: %w", req.Data.Location(), err)
		}
		sets = append(sets, set)
	}

	if req.OpenAPI != nil {
		raw, err := o.loader.Load(ctx, req.OpenAPI)
		if err != nil {
			return refdata.Set{}, fmt.Errorf("orchestrator: load openapi document: %w", err)
		}
		set, err := refdata.FromOpenAPI(ctx, raw, req.Bindings)
		if err != nil {
			return refdata.Set{}, fmt.Errorf("orchestrator: %w", err)
		}
		sets = append(sets, set)
	}

	return refdata.Merge(sets...), nil
}

// Apply runs one operation and records its outcome.
func (s *Session) Apply(op Operation) Outcome {
	out := Outcome{Operation: op, Index: op.Index}

	switch op.Kind {
	case OperationAdd:
		inst, ok := s.Manager.Add(op.Group)
		out.Applied = ok
		if ok {
			out.Index = inst.Index
			out.Changed = 1
		} else {
			out.Err = s.Manager.LastError()
		}
	case OperationRemove:
		inst, ok := s.target(op)
		if !ok {
			out.Err = fmt.Errorf("%w: %s:%d", ErrInstanceNotFound, op.Group, op.Index)
			break
		}
		out.Applied = s.Manager.Remove(inst.Node)
		if out.Applied {
			out.Changed = 1
		} else {
			out.Err = fmt.Errorf("%w: %s:%d", ErrInstanceNotFound, op.Group, op.Index)
		}
	case OperationPopulate:
		inst, ok := s.target(op)
		if !ok {
			out.Err = fmt.Errorf("%w: %s:%d", ErrInstanceNotFound, op.Group, op.Index)
			break
		}
		out.Changed = s.Manager.PopulateSelections(inst.Node, op.Group, s.Data)
		out.Applied = true
	default:
		out.Err = fmt.Errorf("orchestrator: unsupported operation %q", op.Kind)
	}

	if out.Err != nil {
		s.logger.Warn("operation not applied", "operation", op.String(), "error", out.Err)
	} else {
		s.logger.Debug("operation applied", "operation", op.String(), "index", out.Index)
	}
	s.Outcomes = append(s.Outcomes, out)
	return out
}

// target resolves the instance an operation addresses. A node-bound
// operation must point at a live instance of its group.
func (s *Session) target(op Operation) (repeatable.Instance, bool) {
	if op.Node == nil {
		return s.find(op.Group, op.Index)
	}
	for _, inst := range s.Manager.Instances(op.Group) {
		if inst.Node == op.Node {
			return inst, true
		}
	}
	return repeatable.Instance{}, false
}

func (s *Session) find(group string, index int) (repeatable.Instance, bool) {
	for _, inst := range s.Manager.Instances(group) {
		if inst.Index == index {
			return inst, true
		}
	}
	return repeatable.Instance{}, false
}

// Failed returns the outcomes that were not applied.
func (s *Session) Failed() []Outcome {
	var out []Outcome
	for _, outcome := range s.Outcomes {
		if !outcome.Applied {
			out = append(out, outcome)
		}
	}
	return out
}

// Settle runs pending cosmetic tasks and syncs toggle labels, leaving the
// document in its final visual state.
func (s *Session) Settle() {
	s.Scheduler.Drain()
	if len(s.toggles) > 0 {
		toggles.Sync(s.Document, s.toggles...)
	}
}

// HTML settles the session and renders the document.
func (s *Session) HTML() ([]byte, error) {
	s.Settle()
	var buf bytes.Buffer
	if err := s.Document.Render(&buf); err != nil {
		return nil, fmt.Errorf("orchestrator: render page: %w", err)
	}
	return buf.Bytes(), nil
}
