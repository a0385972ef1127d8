package repeatable

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
	"github.com/goliatone/go-formrows/pkg/groups"
	"github.com/goliatone/go-formrows/pkg/refdata"
)

// Attributes stamped on every instance created by Add.
const (
	GroupAttribute = "data-field-group"
	IndexAttribute = "data-field-index"
)

// Instance identifies one field-group row inside its container.
type Instance struct {
	Group string
	Index int
	Node  *html.Node
}

type groupState struct {
	group groups.Group
	next  int
}

// Manager owns the per-group insertion counters for one document.
type Manager struct {
	mu sync.Mutex

	doc       *dom.Document
	logger    *slog.Logger
	data      refdata.Set
	scheduler Scheduler
	scroller  Scroller

	groups  map[string]*groupState
	order   []string
	lastErr error
}

// New constructs a Manager bound to doc.
func New(doc *dom.Document, options ...Option) *Manager {
	cfg := config{
		logger:    slog.New(slog.DiscardHandler),
		scheduler: InlineScheduler{},
		scroller:  noopScroller{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	return &Manager{
		doc:       doc,
		logger:    cfg.logger,
		data:      cfg.data,
		scheduler: cfg.scheduler,
		scroller:  cfg.scroller,
		groups:    make(map[string]*groupState),
	}
}

// Initialize registers groups and seeds each counter with the number of
// instances already rendered in its container. A missing container is logged
// and leaves the counter untouched. Calling Initialize again refreshes group
// definitions but never lowers a counter.
func (m *Manager) Initialize(defs ...groups.Group) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, def := range defs {
		group := def.Normalize()
		if group.Name == "" {
			m.logger.Warn("field group without a name skipped", "template", group.TemplateID)
			continue
		}

		state, exists := m.groups[group.Name]
		if !exists {
			state = &groupState{}
			m.groups[group.Name] = state
			m.order = append(m.order, group.Name)
		}
		state.group = group

		container := m.doc.ByID(group.ContainerID)
		if container == nil {
			m.report(fmt.Errorf("%w: group %q container %q", ErrContainerNotFound, group.Name, group.ContainerID),
				"group", group.Name, "container", group.ContainerID)
			continue
		}

		count := len(instancesIn(container, group.InstanceClass))
		if count > state.next {
			state.next = count
		}
		m.logger.Debug("field group initialised", "group", group.Name, "next", state.next)
	}
}

// Add appends a new instance of the named group and returns it. When the
// group is unknown or its template or container is missing, Add reports a
// diagnostic and returns false.
func (m *Manager) Add(groupName string) (Instance, bool) {
	var (
		inst Instance
		ok   bool
	)
	m.mu.Lock()
	m.doc.Update(func() { inst, ok = m.add(groupName) })
	m.mu.Unlock()

	if ok {
		node := inst.Node
		m.scheduler.AfterFunc(AppearDelay, func() { m.reveal(node) })
	}
	return inst, ok
}

func (m *Manager) add(groupName string) (Instance, bool) {
	state, ok := m.groups[groupName]
	if !ok {
		m.report(fmt.Errorf("%w: %q", ErrUnknownGroup, groupName), "group", groupName)
		return Instance{}, false
	}
	group := state.group

	template := m.doc.ByID(group.TemplateID)
	if template == nil {
		m.report(fmt.Errorf("%w: group %q template %q", ErrTemplateNotFound, group.Name, group.TemplateID),
			"group", group.Name, "template", group.TemplateID)
		return Instance{}, false
	}
	container := m.doc.ByID(group.ContainerID)
	if container == nil {
		m.report(fmt.Errorf("%w: group %q container %q", ErrContainerNotFound, group.Name, group.ContainerID),
			"group", group.Name, "container", group.ContainerID)
		return Instance{}, false
	}

	index := state.next
	root := buildInstance(template, group)
	dom.SetAttr(root, GroupAttribute, group.Name)
	dom.SetAttr(root, IndexAttribute, strconv.Itoa(index))
	substitute(root, group.Placeholder, strconv.Itoa(index), group.IndexedAttributes)

	dom.SetStyle(root, "opacity", "0")
	dom.SetStyle(root, "transform", "translateY(10px)")

	container.AppendChild(root)
	state.next++

	if sources := group.Sources(); len(sources) > 0 && m.data.HasAny(sources...) {
		m.populate(root, group, m.data)
	}

	m.logger.Debug("field instance added", "group", group.Name, "index", index)
	return Instance{Group: group.Name, Index: index, Node: root}, true
}

// reveal finishes the appearance transition of node, unless it was removed
// in the meantime.
func (m *Manager) reveal(node *html.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.doc.Contains(node) {
		return
	}
	m.doc.Update(func() {
		dom.SetStyle(node, "transition", AppearTransition)
		dom.SetStyle(node, "opacity", "1")
		dom.SetStyle(node, "transform", "translateY(0)")
	})
	m.scroller.ScrollIntoView(node)
}

// Remove detaches the instance that contains node (node itself may be the
// instance root or any control inside it). Counters and the indices of other
// instances are left alone. It returns false when node does not resolve to a
// live instance.
func (m *Manager) Remove(node *html.Node) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.doc.Contains(node) {
		m.logger.Debug("remove ignored", "error", ErrStaleReference)
		return false
	}
	inst := m.closestInstance(node)
	if inst == nil {
		m.logger.Debug("remove ignored", "error", ErrNotAnInstance)
		return false
	}

	group := dom.Attr(inst, GroupAttribute)
	index := instanceIndex(inst)
	m.doc.Update(func() { dom.Detach(inst) })
	m.logger.Debug("field instance removed", "group", group, "index", index)
	return true
}

// PopulateSelections rebuilds the options of every select inside the
// instance whose role the group binds to a reference key present in data. It
// returns the number of selects rebuilt. Stale references are ignored.
func (m *Manager) PopulateSelections(node *html.Node, groupName string, data refdata.Set) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.groups[groupName]
	if !ok {
		m.report(fmt.Errorf("%w: %q", ErrUnknownGroup, groupName), "group", groupName)
		return 0
	}
	if !m.doc.Contains(node) {
		m.logger.Debug("populate ignored", "group", groupName, "error", ErrStaleReference)
		return 0
	}
	root := m.closestInstance(node)
	if root == nil {
		root = node
	}
	rebuilt := 0
	m.doc.Update(func() { rebuilt = m.populate(root, state.group, data) })
	return rebuilt
}

// Next returns the index the next Add on groupName will assign.
func (m *Manager) Next(groupName string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.groups[groupName]
	if !ok {
		return 0, false
	}
	return state.next, true
}

// Groups returns the registered group definitions in registration order.
func (m *Manager) Groups() []groups.Group {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]groups.Group, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.groups[name].group)
	}
	return out
}

// Instances lists the live instances of groupName in container order. Rows
// rendered by the server, which lack the index attribute, report the first
// numeric subscript found in their name attributes, or -1.
func (m *Manager) Instances(groupName string) []Instance {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.groups[groupName]
	if !ok {
		return nil
	}
	container := m.doc.ByID(state.group.ContainerID)
	if container == nil {
		return nil
	}

	nodes := instancesIn(container, state.group.InstanceClass)
	out := make([]Instance, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Instance{Group: groupName, Index: instanceIndex(n), Node: n})
	}
	return out
}

// LastError returns the most recent diagnostic recorded by an operation.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Document returns the document the manager operates on.
func (m *Manager) Document() *dom.Document {
	return m.doc
}

func (m *Manager) report(err error, attrs ...any) {
	m.lastErr = err
	m.logger.Warn(err.Error(), attrs...)
}

// closestInstance returns the nearest ancestor-or-self of n that carries a
// registered instance class, skipping group templates.
func (m *Manager) closestInstance(n *html.Node) *html.Node {
	return dom.Closest(n, func(cur *html.Node) bool {
		if dom.IsTag(cur, "template") {
			return false
		}
		for _, name := range m.order {
			group := m.groups[name].group
			if !dom.HasClass(cur, group.InstanceClass) {
				continue
			}
			if id := dom.Attr(cur, "id"); id != "" && id == group.TemplateID {
				return false
			}
			return true
		}
		return false
	})
}

// buildInstance produces the detached root of a new instance. A <template>
// element contributes its content wrapped in a div; any other element is
// cloned itself, losing its id and hidden display.
func buildInstance(template *html.Node, group groups.Group) *html.Node {
	if dom.IsTag(template, "template") {
		wrapper := dom.NewElement("div")
		dom.AddClass(wrapper, group.InstanceClass)
		for child := template.FirstChild; child != nil; child = child.NextSibling {
			wrapper.AppendChild(dom.Clone(child))
		}
		return wrapper
	}

	root := dom.Clone(template)
	dom.RemoveAttr(root, "id")
	dom.SetStyle(root, "display", "")
	dom.AddClass(root, group.InstanceClass)
	return root
}

// substitute replaces every placeholder occurrence inside the listed
// attributes of root and its descendants.
func substitute(root *html.Node, placeholder, index string, attributes []string) {
	if placeholder == "" {
		return
	}
	for _, el := range dom.Elements(root, nil) {
		for idx := range el.Attr {
			attr := &el.Attr[idx]
			if attr.Namespace != "" || !slices.Contains(attributes, attr.Key) {
				continue
			}
			if strings.Contains(attr.Val, placeholder) {
				attr.Val = strings.ReplaceAll(attr.Val, placeholder, index)
			}
		}
	}
}

func instancesIn(container *html.Node, class string) []*html.Node {
	var out []*html.Node
	for _, child := range dom.ChildElements(container) {
		if dom.HasClass(child, class) {
			out = append(out, child)
		}
	}
	return out
}

var subscriptPattern = regexp.MustCompile(`\[(\d+)\]`)

func instanceIndex(n *html.Node) int {
	if raw := dom.Attr(n, IndexAttribute); raw != "" {
		if index, err := strconv.Atoi(raw); err == nil {
			return index
		}
	}
	for _, el := range dom.Elements(n, nil) {
		match := subscriptPattern.FindStringSubmatch(dom.Attr(el, "name"))
		if match == nil {
			continue
		}
		if index, err := strconv.Atoi(match[1]); err == nil {
			return index
		}
	}
	return -1
}
