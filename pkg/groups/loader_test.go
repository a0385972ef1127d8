package groups

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestLoadYAMLAppliesDefaults(t *testing.T) {
	data := []byte(`
groups:
  - name: events
    templateId: eventTemplate
    containerId: eventsContainer
    indexedAttributes: [id, for, name]
    selections:
      - role: eventType
        source: eventTypes
      - role: " "
        source: ignored
`)

	got, err := Load(data, "groups.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []Group{{
		Name:              "events",
		TemplateID:        "eventTemplate",
		ContainerID:       "eventsContainer",
		Placeholder:       DefaultPlaceholder,
		InstanceClass:     DefaultInstanceClass,
		IndexedAttributes: []string{"name", "id", "for"},
		Selections:        []Selection{{Role: "eventType", Source: "eventTypes"}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadJSON(t *testing.T) {
	data := []byte(`{"groups":[{"name":"notes","templateId":"noteTemplate","containerId":"notesContainer","placeholder":"__I__"}]}`)
	got, err := Load(data, "groups.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Placeholder != "__I__" {
		t.Fatalf("unexpected groups: %#v", got)
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	cases := map[string]struct {
		data string
		want string
	}{
		"empty":     {data: "  ", want: "is empty"},
		"garbage":   {data: "groups: [", want: "invalid JSON or YAML"},
		"no groups": {data: "eventTypes: [CALL]", want: "defines no groups"},
		"no name":   {data: `{"groups":[{"templateId":"a","containerId":"b"}]}`, want: "empty name"},
		"duplicate": {data: `{"groups":[{"name":"a","templateId":"t","containerId":"c"},{"name":"a","templateId":"t","containerId":"c"}]}`, want: "duplicate group"},
		"template":  {data: `{"groups":[{"name":"a","containerId":"c"}]}`, want: "missing templateId"},
		"container": {data: `{"groups":[{"name":"a","templateId":"t"}]}`, want: "missing containerId"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(tc.data), "fixture")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadFSRejectsDuplicatesAcrossFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml":    {Data: []byte("groups:\n  - {name: notes, templateId: t, containerId: c}\n")},
		"b.json":    {Data: []byte(`{"groups":[{"name":"notes","templateId":"t","containerId":"c"}]}`)},
		"readme.md": {Data: []byte("ignored")},
	}
	if _, err := LoadFS(fsys); err == nil || !strings.Contains(err.Error(), "b.json") {
		t.Fatalf("expected duplicate error naming b.json, got %v", err)
	}
}

func TestLoadFSPreservesOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"01-notes.yaml":  {Data: []byte("groups:\n  - {name: notes, templateId: t1, containerId: c1}\n")},
		"02-events.yaml": {Data: []byte("groups:\n  - {name: events, templateId: t2, containerId: c2}\n")},
	}
	set, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	var names []string
	for _, g := range set.All() {
		names = append(names, g.Name)
	}
	if diff := cmp.Diff([]string{"notes", "events"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestContactGroups(t *testing.T) {
	set := NewSet(ContactGroups()...)
	if set.Len() != 5 {
		t.Fatalf("expected five contact groups, got %d", set.Len())
	}
	events, ok := set.Get("events")
	if !ok {
		t.Fatalf("expected events group")
	}
	if source, ok := events.SourceFor("eventType"); !ok || source != "eventTypes" {
		t.Fatalf("unexpected eventType binding %q %v", source, ok)
	}
	if _, ok := events.SourceFor("platform"); ok {
		t.Fatalf("events must not bind platform")
	}
}
