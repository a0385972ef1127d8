package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
	"github.com/goliatone/go-formrows/pkg/groups"
)

// LoadPage reads an HTML fixture into a document. Testing helpers fail the
// test on error to keep scenario tests concise.
func LoadPage(t *testing.T, path string) *dom.Document {
	t.Helper()

	doc, err := LoadPageFromPath(path)
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	return doc
}

// LoadPageFromPath returns a document without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadPageFromPath(path string) (*dom.Document, error) {
	if path == "" {
		return nil, errors.New("testsupport: page path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read page: %w", err)
	}
	doc, err := dom.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("testsupport: parse page: %w", err)
	}
	return doc, nil
}

// ParsePage parses inline markup.
func ParsePage(t *testing.T, markup string) *dom.Document {
	t.Helper()

	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return doc
}

// RowNames lists, for every group, the name attributes of each instance in
// its container, in document order. It is the snapshot shape used by golden
// files: row structure without markup noise.
func RowNames(doc *dom.Document, defs []groups.Group) map[string][][]string {
	out := make(map[string][][]string, len(defs))
	for _, def := range defs {
		group := def.Normalize()
		rows := make([][]string, 0)
		if container := doc.ByID(group.ContainerID); container != nil {
			for _, child := range dom.ChildElements(container) {
				if !dom.HasClass(child, group.InstanceClass) {
					continue
				}
				rows = append(rows, NamesIn(child))
			}
		}
		out[group.Name] = rows
	}
	return out
}

// NamesIn returns the name attributes found under n.
func NamesIn(n *html.Node) []string {
	out := make([]string, 0)
	for _, el := range dom.Elements(n, nil) {
		if name, ok := dom.LookupAttr(el, "name"); ok {
			out = append(out, name)
		}
	}
	return out
}

// MustLoadJSON decodes a JSON fixture into dst.
func MustLoadJSON(t *testing.T, path string, dst any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load golden: %v", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// AssertGoldenJSON compares got against the JSON golden at path, refreshing
// the golden first when UPDATE_GOLDENS is set.
func AssertGoldenJSON[T any](t *testing.T, path string, got T) {
	t.Helper()

	WriteGolden(t, path, got)
	var want T
	MustLoadJSON(t, path, &want)
	if diff := CompareGolden(want, got); diff != "" {
		t.Fatalf("golden mismatch %s (-want +got):\n%s", path, diff)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput executes a render function that writes to an io.Writer and
// returns what it wrote.
func CaptureOutput(t *testing.T, render func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}
