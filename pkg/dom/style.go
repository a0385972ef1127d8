package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Declaration is a single property/value pair of an inline style attribute.
type Declaration struct {
	Property string
	Value    string
}

// ParseStyle splits an inline style attribute into ordered declarations.
// Property names are lower-cased; empty or malformed entries are dropped.
func ParseStyle(raw string) []Declaration {
	var out []Declaration
	for _, part := range strings.Split(raw, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: value})
	}
	return out
}

// FormatStyle joins declarations back into attribute form.
func FormatStyle(decls []Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		parts = append(parts, decl.Property+": "+decl.Value)
	}
	return strings.Join(parts, "; ")
}

// Style returns the value of one inline style property.
func Style(n *html.Node, property string) string {
	property = strings.ToLower(strings.TrimSpace(property))
	for _, decl := range ParseStyle(Attr(n, "style")) {
		if decl.Property == property {
			return decl.Value
		}
	}
	return ""
}

// SetStyle sets one inline style property. An empty value removes the
// property, mirroring assignment of "" to element.style in a browser. The
// style attribute itself is dropped once no declarations remain.
func SetStyle(n *html.Node, property, value string) {
	if n == nil {
		return
	}
	property = strings.ToLower(strings.TrimSpace(property))
	if property == "" {
		return
	}
	value = strings.TrimSpace(value)

	decls := ParseStyle(Attr(n, "style"))
	out := decls[:0]
	replaced := false
	for _, decl := range decls {
		if decl.Property != property {
			out = append(out, decl)
			continue
		}
		if value != "" && !replaced {
			out = append(out, Declaration{Property: property, Value: value})
			replaced = true
		}
	}
	if value != "" && !replaced {
		out = append(out, Declaration{Property: property, Value: value})
	}

	if len(out) == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", FormatStyle(out))
}
