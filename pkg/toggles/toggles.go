// Package toggles keeps checkbox-driven label text and icon classes in sync
// with the checkbox state ("favorite", "primary contact", "current job").
package toggles

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
)

// Config describes one kind of labelled checkbox. Selector fields are CSS
// selectors.
type Config struct {
	Checkbox  string
	Container string
	Icon      string
	Text      string

	CheckedIcon   string
	UncheckedIcon string
	CheckedText   string
	UncheckedText string

	// ExclusiveWithin makes at most one checkbox checked inside the closest
	// ancestor matching this selector.
	ExclusiveWithin string
}

// Favorite marks a contact as favourite.
var Favorite = Config{
	Checkbox:      ".favorite-checkbox",
	Container:     ".favorite-toggle",
	Icon:          ".favorite-icon",
	Text:          ".favorite-text",
	CheckedIcon:   "favorite-icon fas fa-star text-warning",
	UncheckedIcon: "favorite-icon far fa-star",
	CheckedText:   "In favorites",
	UncheckedText: "Add to favorites",
}

// Primary marks one contact detail as the primary one.
var Primary = Config{
	Checkbox:        ".primary-checkbox",
	Container:       ".primary-toggle",
	Icon:            ".primary-icon",
	Text:            ".primary-text",
	CheckedIcon:     "primary-icon fas fa-check-circle text-success",
	UncheckedIcon:   "primary-icon far fa-circle",
	CheckedText:     "Primary",
	UncheckedText:   "Make primary",
	ExclusiveWithin: ".dynamic-fields-container",
}

// Current marks a company position as the current job.
var Current = Config{
	Checkbox:      ".current-checkbox",
	Container:     ".current-job-toggle",
	Icon:          ".current-icon",
	Text:          ".current-text",
	CheckedIcon:   "current-icon fas fa-check-circle text-success",
	UncheckedIcon: "current-icon far fa-circle",
	CheckedText:   "Current job",
	UncheckedText: "Current job",
}

// Defaults lists the built-in configs.
func Defaults() []Config {
	return []Config{Favorite, Primary, Current}
}

// Checked reports whether the checkbox carries the checked attribute.
func Checked(checkbox *html.Node) bool {
	_, ok := dom.LookupAttr(checkbox, "checked")
	return ok
}

// SetChecked adds or removes the checked attribute.
func SetChecked(checkbox *html.Node, checked bool) {
	if checked {
		dom.SetAttr(checkbox, "checked", "")
		return
	}
	dom.RemoveAttr(checkbox, "checked")
}

// Update refreshes the icon and text of the label that wraps checkbox. It
// does nothing when the checkbox sits outside a matching container.
func Update(doc *dom.Document, checkbox *html.Node, cfg Config) {
	if doc == nil || checkbox == nil || !doc.Contains(checkbox) {
		return
	}
	doc.Update(func() { update(doc, checkbox, cfg) })
}

func update(doc *dom.Document, checkbox *html.Node, cfg Config) {
	label := doc.Select(checkbox).Closest(cfg.Container)
	if label.Length() == 0 {
		return
	}

	icon, text := cfg.UncheckedIcon, cfg.UncheckedText
	if Checked(checkbox) {
		icon, text = cfg.CheckedIcon, cfg.CheckedText
	}
	if cfg.Icon != "" {
		if node := firstNode(label.Find(cfg.Icon)); node != nil {
			dom.SetClass(node, icon)
		}
	}
	if cfg.Text != "" {
		if node := firstNode(label.Find(cfg.Text)); node != nil {
			dom.SetText(node, text)
		}
	}
}

// Toggle flips the checkbox inside the container that holds label, clears
// its peers for exclusive configs, and refreshes every affected label. It
// returns the new checked state and false when no checkbox was found.
func Toggle(doc *dom.Document, label *html.Node, cfg Config) (checked bool, ok bool) {
	if doc == nil || label == nil || !doc.Contains(label) {
		return false, false
	}
	container := doc.Select(label).Closest(cfg.Container)
	checkbox := firstNode(container.Find(`input[type="checkbox"]`))
	if checkbox == nil {
		return false, false
	}

	doc.Update(func() {
		checked = !Checked(checkbox)
		SetChecked(checkbox, checked)

		if checked && cfg.ExclusiveWithin != "" {
			scope := doc.Select(checkbox).Closest(cfg.ExclusiveWithin)
			scope.Find(cfg.Checkbox).Each(func(_ int, peer *goquery.Selection) {
				other := firstNode(peer)
				if other == nil || other == checkbox {
					return
				}
				SetChecked(other, false)
				update(doc, other, cfg)
			})
		}

		update(doc, checkbox, cfg)
	})
	return checked, true
}

// Sync refreshes every checkbox of the given configs, typically once after
// the page loads or after new rows were added.
func Sync(doc *dom.Document, cfgs ...Config) int {
	if len(cfgs) == 0 {
		cfgs = Defaults()
	}
	updated := 0
	doc.Update(func() {
		for _, cfg := range cfgs {
			if cfg.Checkbox == "" {
				continue
			}
			for _, checkbox := range doc.Find(cfg.Checkbox).Nodes {
				update(doc, checkbox, cfg)
				updated++
			}
		}
	})
	return updated
}

func firstNode(sel *goquery.Selection) *html.Node {
	if sel == nil || len(sel.Nodes) == 0 {
		return nil
	}
	return sel.Nodes[0]
}
