package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page. Writers that may run concurrently with
// Render go through Update; Render holds the read side of the same lock.
type Document struct {
	mu  sync.RWMutex
	doc *goquery.Document
}

// Update runs fn while holding the document write lock. fn must not call
// Render, HTML or Update on the same document.
func (d *Document) Update(fn func()) {
	if d == nil || fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	if r == nil {
		return nil, errors.New("dom: reader is nil")
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString parses markup held in memory.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// MustParseString panics when the markup cannot be parsed. Useful for tests.
func MustParseString(markup string) *Document {
	doc, err := ParseString(markup)
	if err != nil {
		panic(err)
	}
	return doc
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	if d == nil || d.doc == nil || len(d.doc.Nodes) == 0 {
		return nil
	}
	return d.doc.Nodes[0]
}

// Find runs a CSS selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	if d == nil || d.doc == nil {
		return &goquery.Selection{}
	}
	return d.doc.Find(selector)
}

// Select wraps a node in a selection bound to this document.
func (d *Document) Select(n *html.Node) *goquery.Selection {
	if d == nil || d.doc == nil || n == nil {
		return &goquery.Selection{}
	}
	if n == d.Root() {
		return d.doc.Selection
	}
	return d.doc.FindNodes(n)
}

// ByID returns the first element with the given id, or nil.
func (d *Document) ByID(id string) *html.Node {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	var found *html.Node
	Walk(d.Root(), func(n *html.Node) bool {
		if n.Type == html.ElementNode && Attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Contains reports whether n is still attached to the document tree.
func (d *Document) Contains(n *html.Node) bool {
	root := d.Root()
	if root == nil || n == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}

// Render writes the document markup to w.
func (d *Document) Render(w io.Writer) error {
	if d != nil {
		d.mu.RLock()
		defer d.mu.RUnlock()
	}
	root := d.Root()
	if root == nil {
		return errors.New("dom: document is empty")
	}
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("dom: render document: %w", err)
	}
	return nil
}

// HTML renders the document to a string.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OuterHTML renders a single node.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
