package repeatable

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
	"github.com/goliatone/go-formrows/pkg/groups"
	"github.com/goliatone/go-formrows/pkg/refdata"
)

const eventsPage = `<!DOCTYPE html><html><body>
<form>
  <div id="eventsContainer" class="dynamic-fields-container"></div>
  <button type="button" onclick="addEvent()">Add</button>
</form>
<template id="eventTemplate">
  <div class="row">
    <select name="events[INDEX].eventType" class="form-select">
      <option value="">Choose one</option>
    </select>
    <input type="date" name="events[INDEX].eventDate">
    <input type="checkbox" id="yearly-INDEX" name="events[INDEX].yearlyRecurrence">
    <button type="button" class="remove" onclick="removeFormField(this)">Remove</button>
  </div>
</template>
</body></html>`

const notesPage = `<!DOCTYPE html><html><body>
<div id="notesContainer">
  <div class="dynamic-field"><textarea name="notes[0].content">first</textarea></div>
  <div class="dynamic-field"><textarea name="notes[1].content">second</textarea></div>
  <p class="hint">not an instance</p>
</div>
<div id="noteTemplate" class="dynamic-field" style="display: none">
  <textarea name="notes[INDEX].content"></textarea>
  <input type="hidden" name="notes[INDEX].kind" value="INDEX">
</div>
</body></html>`

func eventsGroup() groups.Group {
	return groups.Group{
		Name:        "events",
		TemplateID:  "eventTemplate",
		ContainerID: "eventsContainer",
		Selections:  []groups.Selection{{Role: "eventType", Source: "eventTypes"}},
	}
}

func notesGroup() groups.Group {
	return groups.Group{Name: "notes", TemplateID: "noteTemplate", ContainerID: "notesContainer"}
}

func newTestManager(t *testing.T, page string, options ...Option) (*Manager, *ManualScheduler) {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	scheduler := NewManualScheduler()
	options = append([]Option{WithScheduler(scheduler)}, options...)
	return New(doc, options...), scheduler
}

func namesIn(n *html.Node) []string {
	var out []string
	for _, el := range dom.Elements(n, nil) {
		if name, ok := dom.LookupAttr(el, "name"); ok {
			out = append(out, name)
		}
	}
	return out
}

func firstSelect(n *html.Node) *html.Node {
	selects := dom.Elements(n, func(cur *html.Node) bool { return dom.IsTag(cur, "select") })
	if len(selects) == 0 {
		return nil
	}
	return selects[0]
}

func TestEventsScenario(t *testing.T) {
	data := refdata.New(map[string][]refdata.Entry{
		"eventTypes": {refdata.Plain("CALL"), refdata.Plain("MEETING")},
	})
	m, _ := newTestManager(t, eventsPage, WithReferenceData(data))
	m.Initialize(eventsGroup())

	if next, _ := m.Next("events"); next != 0 {
		t.Fatalf("expected counter 0 after initialise, got %d", next)
	}

	first, ok := m.Add("events")
	if !ok {
		t.Fatalf("first add failed: %v", m.LastError())
	}
	want := []string{"events[0].eventType", "events[0].eventDate", "events[0].yearlyRecurrence"}
	if diff := cmp.Diff(want, namesIn(first.Node)); diff != "" {
		t.Fatalf("first instance names mismatch (-want +got):\n%s", diff)
	}

	sel := firstSelect(first.Node)
	wantOptions := []refdata.Entry{refdata.Plain("CALL"), refdata.Plain("MEETING")}
	if diff := cmp.Diff(wantOptions, Options(sel)); diff != "" {
		t.Fatalf("event type options mismatch (-want +got):\n%s", diff)
	}
	if placeholder := placeholderOption(sel); placeholder == nil || strings.TrimSpace(dom.Text(placeholder)) != "Choose one" {
		t.Fatalf("expected placeholder option to survive population")
	}

	second, ok := m.Add("events")
	if !ok || second.Index != 1 {
		t.Fatalf("expected second instance at index 1, got %d (%v)", second.Index, ok)
	}
	if diff := cmp.Diff(want, namesIn(first.Node)); diff != "" {
		t.Fatalf("first instance altered by second add (-want +got):\n%s", diff)
	}

	if !m.Remove(first.Node) {
		t.Fatalf("expected removal of first instance")
	}
	remaining := m.Instances("events")
	if len(remaining) != 1 || remaining[0].Index != 1 {
		t.Fatalf("expected only index 1 to remain, got %#v", remaining)
	}

	third, ok := m.Add("events")
	if !ok || third.Index != 2 {
		t.Fatalf("expected third instance at index 2, got %d (%v)", third.Index, ok)
	}
}

func TestInitializeCountsPreRenderedInstances(t *testing.T) {
	m, _ := newTestManager(t, notesPage)
	m.Initialize(notesGroup())

	if next, ok := m.Next("notes"); !ok || next != 2 {
		t.Fatalf("expected counter 2, got %d (%v)", next, ok)
	}

	inst, ok := m.Add("notes")
	if !ok {
		t.Fatalf("add failed: %v", m.LastError())
	}
	if inst.Index != 2 {
		t.Fatalf("expected index 2, got %d", inst.Index)
	}
	if diff := cmp.Diff([]string{"notes[2].content", "notes[2].kind"}, namesIn(inst.Node)); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if next, _ := m.Next("notes"); next != 3 {
		t.Fatalf("expected counter 3, got %d", next)
	}
}

func TestAddClonedTemplateDropsIdAndHiddenDisplay(t *testing.T) {
	m, _ := newTestManager(t, notesPage)
	m.Initialize(notesGroup())

	inst, _ := m.Add("notes")
	if _, ok := dom.LookupAttr(inst.Node, "id"); ok {
		t.Fatalf("clone must not keep the template id")
	}
	if got := dom.Style(inst.Node, "display"); got != "" {
		t.Fatalf("expected display to be cleared, got %q", got)
	}
	if m.Document().ByID("noteTemplate") == nil {
		t.Fatalf("template must stay in the document")
	}

	hidden := dom.Elements(inst.Node, func(n *html.Node) bool { return dom.Attr(n, "type") == "hidden" })[0]
	if got := dom.Attr(hidden, "value"); got != "INDEX" {
		t.Fatalf("only name attributes are indexed, value became %q", got)
	}
}

func TestAddContiguousIndices(t *testing.T) {
	m, _ := newTestManager(t, notesPage)
	m.Initialize(notesGroup())

	var got []int
	for i := 0; i < 5; i++ {
		inst, ok := m.Add("notes")
		if !ok {
			t.Fatalf("add %d failed", i)
		}
		got = append(got, inst.Index)
	}
	if diff := cmp.Diff([]int{2, 3, 4, 5, 6}, got); diff != "" {
		t.Fatalf("indices mismatch (-want +got):\n%s", diff)
	}
	if n := len(m.Instances("notes")); n != 7 {
		t.Fatalf("expected 7 instances, got %d", n)
	}
}

func TestPlaceholderSubstitutionIsTotal(t *testing.T) {
	m, _ := newTestManager(t, eventsPage)
	m.Initialize(eventsGroup())

	inst, _ := m.Add("events")
	for _, name := range namesIn(inst.Node) {
		if strings.Contains(name, "INDEX") {
			t.Fatalf("placeholder left in %q", name)
		}
	}
	checkbox := dom.Elements(inst.Node, func(n *html.Node) bool { return dom.Attr(n, "type") == "checkbox" })[0]
	if got := dom.Attr(checkbox, "id"); got != "yearly-INDEX" {
		t.Fatalf("id is not indexed by default, got %q", got)
	}
}

func TestIndexedAttributesExtendSubstitution(t *testing.T) {
	m, _ := newTestManager(t, eventsPage)
	group := eventsGroup()
	group.IndexedAttributes = []string{"id"}
	m.Initialize(group)

	inst, _ := m.Add("events")
	checkbox := dom.Elements(inst.Node, func(n *html.Node) bool { return dom.Attr(n, "type") == "checkbox" })[0]
	if got := dom.Attr(checkbox, "id"); got != "yearly-0" {
		t.Fatalf("expected id to be indexed, got %q", got)
	}
}

func TestRemoveFromInteriorControl(t *testing.T) {
	m, _ := newTestManager(t, eventsPage)
	m.Initialize(eventsGroup())

	a, _ := m.Add("events")
	b, _ := m.Add("events")

	button := dom.Elements(a.Node, func(n *html.Node) bool { return dom.HasClass(n, "remove") })[0]
	if !m.Remove(button) {
		t.Fatalf("expected removal via interior button")
	}
	if m.Document().Contains(a.Node) {
		t.Fatalf("instance still attached")
	}
	if diff := cmp.Diff([]string{"events[1].eventType", "events[1].eventDate", "events[1].yearlyRecurrence"}, namesIn(b.Node)); diff != "" {
		t.Fatalf("remaining instance renumbered (-want +got):\n%s", diff)
	}
	if next, _ := m.Next("events"); next != 2 {
		t.Fatalf("remove must not change the counter, got %d", next)
	}

	if m.Remove(a.Node) {
		t.Fatalf("second removal of a detached instance must be a no-op")
	}
	if m.Remove(button) {
		t.Fatalf("stale interior reference must be a no-op")
	}
}

func TestRemoveIgnoresNonInstancesAndTemplates(t *testing.T) {
	m, _ := newTestManager(t, notesPage)
	m.Initialize(notesGroup())

	hint := m.Document().Find("p.hint").Nodes[0]
	if m.Remove(hint) {
		t.Fatalf("node outside any instance must not be removed")
	}
	tmplArea := m.Document().Find("#noteTemplate textarea").Nodes[0]
	if m.Remove(tmplArea) {
		t.Fatalf("template must never be removed")
	}
	if m.Remove(nil) {
		t.Fatalf("nil reference must be a no-op")
	}
	if n := len(m.Instances("notes")); n != 2 {
		t.Fatalf("expected pre-rendered instances untouched, got %d", n)
	}
}

func TestRemovePreRenderedInstance(t *testing.T) {
	m, _ := newTestManager(t, notesPage)
	m.Initialize(notesGroup())

	first := m.Instances("notes")[0]
	if first.Index != 0 {
		t.Fatalf("expected server row index 0, got %d", first.Index)
	}
	if !m.Remove(first.Node) {
		t.Fatalf("expected pre-rendered row to be removable")
	}
	inst, _ := m.Add("notes")
	if inst.Index != 2 {
		t.Fatalf("expected index 2 after removing a server row, got %d", inst.Index)
	}
}

func TestMissingMarkupDegradesToDiagnostics(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m, _ := newTestManager(t, eventsPage, WithLogger(logger))

	m.Initialize(
		groups.Group{Name: "ghost", TemplateID: "ghostTemplate", ContainerID: "ghostContainer"},
		groups.Group{Name: "orphan", TemplateID: "missingTemplate", ContainerID: "eventsContainer"},
	)
	if !errors.Is(m.LastError(), ErrContainerNotFound) {
		t.Fatalf("expected container diagnostic, got %v", m.LastError())
	}

	if _, ok := m.Add("ghost"); ok {
		t.Fatalf("add without template/container must fail")
	}
	if _, ok := m.Add("orphan"); ok {
		t.Fatalf("add without template must fail")
	}
	if !errors.Is(m.LastError(), ErrTemplateNotFound) {
		t.Fatalf("expected template diagnostic, got %v", m.LastError())
	}
	if _, ok := m.Add("unknown"); ok {
		t.Fatalf("add on unregistered group must fail")
	}
	if !errors.Is(m.LastError(), ErrUnknownGroup) {
		t.Fatalf("expected unknown group diagnostic, got %v", m.LastError())
	}
	if next, _ := m.Next("orphan"); next != 0 {
		t.Fatalf("failed add must not bump the counter, got %d", next)
	}
	if !strings.Contains(logs.String(), "template not found") {
		t.Fatalf("expected diagnostics in log output:\n%s", logs.String())
	}
}

func TestReinitializeNeverLowersCounter(t *testing.T) {
	m, _ := newTestManager(t, notesPage)
	m.Initialize(notesGroup())
	m.Add("notes")
	m.Add("notes")

	for _, inst := range m.Instances("notes") {
		m.Remove(inst.Node)
	}
	m.Initialize(notesGroup())
	if next, _ := m.Next("notes"); next != 4 {
		t.Fatalf("expected counter to stay at 4, got %d", next)
	}
}

func TestAppearanceTransitionAndScroll(t *testing.T) {
	var scrolled []*html.Node
	scroller := ScrollerFunc(func(n *html.Node) { scrolled = append(scrolled, n) })
	m, scheduler := newTestManager(t, eventsPage, WithScroller(scroller))
	m.Initialize(eventsGroup())

	a, _ := m.Add("events")
	b, _ := m.Add("events")

	if got := dom.Style(a.Node, "opacity"); got != "0" {
		t.Fatalf("expected new instance to start hidden, got opacity %q", got)
	}
	if scheduler.Pending() != 2 {
		t.Fatalf("expected one cosmetic task per instance, got %d", scheduler.Pending())
	}

	m.Remove(a.Node)
	if ran := scheduler.Advance(AppearDelay); ran != 2 {
		t.Fatalf("expected both tasks to run, got %d", ran)
	}

	if got := dom.Style(a.Node, "opacity"); got != "0" {
		t.Fatalf("removed instance must not be touched by its timer, got opacity %q", got)
	}
	if got := dom.Style(b.Node, "opacity"); got != "1" {
		t.Fatalf("expected live instance to be revealed, got opacity %q", got)
	}
	if got := dom.Style(b.Node, "transition"); got != AppearTransition {
		t.Fatalf("unexpected transition %q", got)
	}
	if len(scrolled) != 1 || scrolled[0] != b.Node {
		t.Fatalf("expected a single scroll to the live instance, got %d", len(scrolled))
	}
}

func TestStructuralEffectsDoNotWaitForScheduler(t *testing.T) {
	data := refdata.New(map[string][]refdata.Entry{"eventTypes": {refdata.Plain("CALL")}})
	m, scheduler := newTestManager(t, eventsPage, WithReferenceData(data))
	m.Initialize(eventsGroup())

	inst, _ := m.Add("events")
	if scheduler.Pending() != 1 {
		t.Fatalf("expected pending cosmetic task")
	}
	if len(Options(firstSelect(inst.Node))) != 1 {
		t.Fatalf("selects must be populated synchronously")
	}
	if !m.Document().Contains(inst.Node) {
		t.Fatalf("instance must be attached synchronously")
	}
}
