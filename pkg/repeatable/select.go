package repeatable

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
	"github.com/goliatone/go-formrows/pkg/groups"
	"github.com/goliatone/go-formrows/pkg/refdata"
)

// RoleAttribute overrides the role derived from a select's name.
const RoleAttribute = "data-role"

func (m *Manager) populate(root *html.Node, group groups.Group, data refdata.Set) int {
	rebuilt := 0
	for _, sel := range dom.Elements(root, func(n *html.Node) bool { return dom.IsTag(n, "select") }) {
		role := ControlRole(sel)
		source, ok := group.SourceFor(role)
		if !ok {
			continue
		}
		entries, ok := data.Entries(source)
		if !ok {
			m.logger.Debug("no reference data for select", "group", group.Name, "role", role, "source", source)
			continue
		}
		ReplaceOptions(sel, entries)
		rebuilt++
	}
	return rebuilt
}

// ControlRole returns the select's data-role attribute, or the last segment
// of its name: "socialProfiles[3].platform" and "events[2][eventType]" map to
// "platform" and "eventType".
func ControlRole(sel *html.Node) string {
	if role := strings.TrimSpace(dom.Attr(sel, RoleAttribute)); role != "" {
		return role
	}
	name := strings.TrimSpace(dom.Attr(sel, "name"))
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	for strings.HasSuffix(name, "]") {
		open := strings.LastIndex(name, "[")
		if open < 0 {
			break
		}
		inner := name[open+1 : len(name)-1]
		if inner != "" && !isDigits(inner) {
			return inner
		}
		name = name[:open]
	}
	return name
}

// ReplaceOptions swaps every option of sel except the placeholder (the first
// option element, whatever its value) for one option per entry. The previously
// selected value stays selected when it is still offered; otherwise nothing
// is marked selected and the control shows its placeholder.
func ReplaceOptions(sel *html.Node, entries []refdata.Entry) {
	if sel == nil {
		return
	}
	placeholder := placeholderOption(sel)
	selected := SelectedValue(sel)

	for child := sel.FirstChild; child != nil; {
		next := child.NextSibling
		if child != placeholder {
			sel.RemoveChild(child)
		}
		child = next
	}

	for _, entry := range entries {
		opt := dom.NewElement("option", html.Attribute{Key: "value", Val: entry.Value})
		if selected != "" && entry.Value == selected {
			dom.SetAttr(opt, "selected", "")
		}
		dom.SetText(opt, entry.Label)
		sel.AppendChild(opt)
	}
}

// SelectedValue returns the value of the selected non-placeholder option, or
// "" when the control sits on its placeholder.
func SelectedValue(sel *html.Node) string {
	placeholder := placeholderOption(sel)
	for _, opt := range options(sel) {
		if opt == placeholder {
			continue
		}
		if _, ok := dom.LookupAttr(opt, "selected"); ok {
			return optionValue(opt)
		}
	}
	return ""
}

// Options returns the value/label pairs currently offered by sel, placeholder
// excluded.
func Options(sel *html.Node) []refdata.Entry {
	placeholder := placeholderOption(sel)
	var out []refdata.Entry
	for _, opt := range options(sel) {
		if opt == placeholder {
			continue
		}
		out = append(out, refdata.Entry{Value: optionValue(opt), Label: strings.TrimSpace(dom.Text(opt))})
	}
	return out
}

func options(sel *html.Node) []*html.Node {
	return dom.Elements(sel, func(n *html.Node) bool { return dom.IsTag(n, "option") })
}

func placeholderOption(sel *html.Node) *html.Node {
	for child := sel.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if dom.IsTag(child, "option") {
			return child
		}
		return nil
	}
	return nil
}

func optionValue(opt *html.Node) string {
	if value, ok := dom.LookupAttr(opt, "value"); ok {
		return value
	}
	return strings.TrimSpace(dom.Text(opt))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
