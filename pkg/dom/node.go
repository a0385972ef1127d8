package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Walk visits n and its descendants depth-first. Returning false from fn stops
// the walk.
func Walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}

// Elements returns every element node under n (n included) in document order.
func Elements(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	Walk(n, func(cur *html.Node) bool {
		if cur.Type == html.ElementNode && (match == nil || match(cur)) {
			out = append(out, cur)
		}
		return true
	})
	return out
}

// ChildElements returns the direct element children of n.
func ChildElements(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			out = append(out, child)
		}
	}
	return out
}

// IsTag reports whether n is an element with the given tag name.
func IsTag(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && strings.EqualFold(n.Data, tag)
}

// Attr returns the attribute value, or "" when missing.
func Attr(n *html.Node, key string) string {
	value, _ := LookupAttr(n, key)
	return value
}

// LookupAttr returns the attribute value and whether it was present.
func LookupAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, value string) {
	if n == nil {
		return
	}
	for idx, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			n.Attr[idx].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr drops an attribute when present.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			continue
		}
		kept = append(kept, attr)
	}
	n.Attr = kept
}

// HasClass reports whether the class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	class = strings.TrimSpace(class)
	if class == "" {
		return false
	}
	for _, token := range strings.Fields(Attr(n, "class")) {
		if token == class {
			return true
		}
	}
	return false
}

// AddClass appends class to the class attribute unless already present.
func AddClass(n *html.Node, class string) {
	class = strings.TrimSpace(class)
	if n == nil || class == "" || HasClass(n, class) {
		return
	}
	existing := strings.TrimSpace(Attr(n, "class"))
	if existing == "" {
		SetAttr(n, "class", class)
		return
	}
	SetAttr(n, "class", existing+" "+class)
}

// SetClass replaces the class attribute.
func SetClass(n *html.Node, classes string) {
	SetAttr(n, "class", strings.Join(strings.Fields(classes), " "))
}

// Closest walks from n up through its ancestors and returns the first element
// accepted by match.
func Closest(n *html.Node, match func(*html.Node) bool) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && match(cur) {
			return cur
		}
	}
	return nil
}

// Clone returns a detached deep copy of n.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	cloned := goquery.NewDocumentFromNode(n).Clone()
	if len(cloned.Nodes) == 0 {
		return nil
	}
	return cloned.Nodes[0]
}

// Detach removes n from its parent. Detaching a node without a parent is a
// no-op.
func Detach(n *html.Node) bool {
	if n == nil || n.Parent == nil {
		return false
	}
	n.Parent.RemoveChild(n)
	return true
}

// Text returns the concatenated text content under n.
func Text(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(cur *html.Node) bool {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		return true
	})
	return b.String()
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, text string) {
	if n == nil {
		return
	}
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// NewElement builds a detached element node.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     append([]html.Attribute(nil), attrs...),
	}
}
