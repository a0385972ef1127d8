package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrows/pkg/dom"
)

func TestParseAcceptsStringsAndObjects(t *testing.T) {
	set, err := Parse([]byte(`{
		"eventTypes": ["CALL", "MEETING"],
		"companies": [{"id": 7, "displayName": "Acme <b>Corp</b>"}, {"id": "x-1", "displayName": ""}],
		"jobTitles": []
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	events, ok := set.Entries("eventTypes")
	if !ok {
		t.Fatalf("expected eventTypes key")
	}
	if diff := cmp.Diff([]Entry{Plain("CALL"), Plain("MEETING")}, events); diff != "" {
		t.Fatalf("eventTypes mismatch (-want +got):\n%s", diff)
	}

	companies, _ := set.Entries("companies")
	want := []Entry{{Value: "7", Label: "Acme <b>Corp</b>"}, {Value: "x-1", Label: "x-1"}}
	if diff := cmp.Diff(want, companies); diff != "" {
		t.Fatalf("companies mismatch (-want +got):\n%s", diff)
	}

	if !set.Has("jobTitles") {
		t.Fatalf("empty sequences must still be present")
	}
	if diff := cmp.Diff([]string{"companies", "eventTypes", "jobTitles"}, set.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsMalformedPayloads(t *testing.T) {
	payloads := map[string]string{
		"empty":        "",
		"not object":   `["CALL"]`,
		"not array":    `{"eventTypes": "CALL"}`,
		"bad entry":    `{"eventTypes": [42]}`,
		"missing id":   `{"companies": [{"displayName": "Acme"}]}`,
		"invalid json": `{"eventTypes": [`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(payload))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	set, err := ParseYAML([]byte("platforms:\n  - TELEGRAM\n  - {id: 3, displayName: Custom}\n"))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	got, _ := set.Entries("platforms")
	want := []Entry{Plain("TELEGRAM"), {Value: "3", Label: "Custom"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("platforms mismatch (-want +got):\n%s", diff)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	set := New(map[string][]Entry{"eventTypes": {Plain("CALL")}})
	got, _ := set.Entries("eventTypes")
	got[0].Value = "MUTATED"
	again, _ := set.Entries("eventTypes")
	if again[0].Value != "CALL" {
		t.Fatalf("set mutated through returned slice")
	}
}

func TestMergeLaterWins(t *testing.T) {
	a := New(map[string][]Entry{"eventTypes": {Plain("CALL")}, "platforms": {Plain("TELEGRAM")}})
	b := New(map[string][]Entry{"eventTypes": {Plain("MEETING")}})
	merged := Merge(a, b)
	got, _ := merged.Entries("eventTypes")
	if diff := cmp.Diff([]Entry{Plain("MEETING")}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if !merged.Has("platforms") {
		t.Fatalf("expected platforms to survive merge")
	}
}

func TestFromDocument(t *testing.T) {
	doc := dom.MustParseString(`<html><body>
<script id="formReferenceData" type="application/json">{"eventTypes":["CALL","MEETING"]}</script>
</body></html>`)
	set := FromDocument(doc, "", nil)
	if !set.Has("eventTypes") {
		t.Fatalf("expected payload to be read")
	}

	broken := dom.MustParseString(`<html><body><script id="formReferenceData" type="application/json">{nope</script></body></html>`)
	if got := FromDocument(broken, "", nil); !got.Empty() {
		t.Fatalf("malformed payload must yield an empty set, got %v", got.Keys())
	}

	missing := dom.MustParseString(`<html><body></body></html>`)
	if got := FromDocument(missing, "", nil); !got.Empty() {
		t.Fatalf("missing payload must yield an empty set")
	}
}

const enumDocument = `{
  "openapi": "3.0.3",
  "info": {"title": "contacts", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "EventType": {"type": "string", "enum": ["BIRTHDAY", "CALL", "MEETING"], "x-enum-labels": ["Birthday", "Call", ""]},
      "EventCreateDto": {
        "type": "object",
        "properties": {
          "eventType": {"$ref": "#/components/schemas/EventType"},
          "tags": {"type": "array", "items": {"type": "string", "enum": ["work", "family"]}}
        }
      }
    }
  }
}`

func TestFromOpenAPI(t *testing.T) {
	set, err := FromOpenAPI(context.Background(), []byte(enumDocument), []OpenAPIBinding{
		{Key: "eventTypes", Schema: "EventCreateDto", Property: "eventType"},
		{Key: "tags", Schema: "EventCreateDto", Property: "tags"},
	})
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}

	events, _ := set.Entries("eventTypes")
	want := []Entry{{Value: "BIRTHDAY", Label: "Birthday"}, {Value: "CALL", Label: "Call"}, Plain("MEETING")}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("eventTypes mismatch (-want +got):\n%s", diff)
	}
	tags, _ := set.Entries("tags")
	if diff := cmp.Diff([]Entry{Plain("work"), Plain("family")}, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPIUnknownSchema(t *testing.T) {
	_, err := FromOpenAPI(context.Background(), []byte(enumDocument), []OpenAPIBinding{{Key: "x", Schema: "Missing"}})
	if err == nil {
		t.Fatalf("expected error for unknown schema")
	}
}

func TestMarshalJSONRoundTrips(t *testing.T) {
	in := New(map[string][]Entry{
		"platforms": {Plain("TELEGRAM")},
		"companies": {{Value: "7", Label: "Acme"}},
	})
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, key := range []string{"platforms", "companies"} {
		want, _ := in.Entries(key)
		got, _ := out.Entries(key)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", key, diff)
		}
	}
}

func TestLabelsAreKeptVerbatim(t *testing.T) {
	set, err := Parse([]byte(`{"companies": [
		{"id": 1, "displayName": "R&D <Core> Ltd"},
		{"id": 2, "displayName": "a<b"}
	]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	companies, _ := set.Entries("companies")
	want := []Entry{{Value: "1", Label: "R&D <Core> Ltd"}, {Value: "2", Label: "a<b"}}
	if diff := cmp.Diff(want, companies); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	doc := dom.MustParseString(`<html><body><select id="s"><option value="">Company</option></select></body></html>`)
	sel := doc.ByID("s")
	for _, entry := range companies {
		opt := dom.NewElement("option")
		dom.SetText(opt, entry.Label)
		sel.AppendChild(opt)
	}
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "R&amp;D &lt;Core&gt; Ltd") || !strings.Contains(out, "a&lt;b") {
		t.Fatalf("expected labels escaped as text, got %s", out)
	}
}

func TestObjectLabelFallbackKeys(t *testing.T) {
	set, err := Parse([]byte(`{"jobTitles": [
		{"id": 1, "name": "Engineer"},
		{"id": 2, "title": "Manager"},
		{"id": 3, "label": "Director"},
		{"id": 4, "displayName": "Chief", "name": "ignored"},
		{"id": 5}
	]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	titles, _ := set.Entries("jobTitles")
	want := []Entry{
		{Value: "1", Label: "Engineer"},
		{Value: "2", Label: "Manager"},
		{Value: "3", Label: "Director"},
		{Value: "4", Label: "Chief"},
		{Value: "5", Label: "5"},
	}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	yamlSet, err := ParseYAML([]byte("jobTitles:\n  - id: 1\n    title: Manager\n"))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if diff := cmp.Diff([]Entry{{Value: "1", Label: "Manager"}}, mustEntries(t, yamlSet, "jobTitles")); diff != "" {
		t.Fatalf("yaml labels mismatch (-want +got):\n%s", diff)
	}
}

func mustEntries(t *testing.T, set Set, key string) []Entry {
	t.Helper()
	entries, ok := set.Entries(key)
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	return entries
}
