// Package scaffold renders contact form pages whose repeatable sections
// follow the container/template layout the repeatable manager expects.
package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formrows/pkg/groups"
	"github.com/goliatone/go-formrows/pkg/refdata"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

const pageTemplate = "contact.tpl"

// Field kinds understood by the page template. Any other kind is rendered as
// an input of that type.
const (
	KindSelect   = "select"
	KindText     = "text"
	KindTextarea = "textarea"
	KindCheckbox = "checkbox"
)

// Field is one control inside a section row. Key is the last segment of the
// control name; select fields read their options from the group's binding
// for Key.
type Field struct {
	Key         string
	Kind        string
	Label       string
	Placeholder string
	Role        string
	Toggle      string
}

// Row holds pre-rendered values keyed by Field.Key. Checkbox fields are
// checked when their value is non-empty.
type Row map[string]string

// Section is one repeatable group on the page.
type Section struct {
	Group groups.Group
	Title string
	// Icon is markup shown before the title, such as
	// `<i class="fas fa-phone"></i>`. It is sanitised before rendering.
	Icon            string
	Fields          []Field
	Rows            []Row
	ElementTemplate bool
}

// Page is everything the contact template renders.
type Page struct {
	Title     string
	Action    string
	Favorite  bool
	Sections  []Section
	Data      refdata.Set
	PayloadID string
}

// Groups returns the group definitions of every section.
func (p Page) Groups() []groups.Group {
	out := make([]groups.Group, 0, len(p.Sections))
	for _, section := range p.Sections {
		out = append(out, section.Group)
	}
	return out
}

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

var (
	templateOnce sync.Once
	compiled     *pongo2.Template
	compileErr   error
)

func contactTemplate() (*pongo2.Template, error) {
	templateOnce.Do(func() {
		set := pongo2.NewSet("formrows", pongo2.NewFSLoader(TemplatesFS()))
		compiled, compileErr = set.FromFile(pageTemplate)
		if compileErr != nil {
			compileErr = fmt.Errorf("scaffold: load template %q: %w", pageTemplate, compileErr)
		}
	})
	return compiled, compileErr
}

// Render writes page as HTML to w.
func Render(page Page, w io.Writer) error {
	if w == nil {
		return errors.New("scaffold: writer is nil")
	}
	tmpl, err := contactTemplate()
	if err != nil {
		return err
	}
	ctx, err := page.context()
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteWriter(ctx, w); err != nil {
		return fmt.Errorf("scaffold: execute template: %w", err)
	}
	return nil
}

// RenderString renders page into a string.
func RenderString(page Page) (string, error) {
	var buf bytes.Buffer
	if err := Render(page, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type fieldView struct {
	Name        string
	Role        string
	Kind        string
	Label       string
	Placeholder string
	Value       string
	Checked     bool
	Toggle      string
	Options     []optionView
}

type sectionView struct {
	Name            string
	Title           string
	Icon            string
	ContainerID     string
	TemplateID      string
	InstanceClass   string
	ElementTemplate bool
	Rows            [][]fieldView
	Template        []fieldView
}

func (p Page) context() (pongo2.Context, error) {
	payload, err := json.Marshal(p.Data)
	if err != nil {
		return nil, fmt.Errorf("scaffold: encode reference data: %w", err)
	}
	payloadID := p.PayloadID
	if payloadID == "" {
		payloadID = "formReferenceData"
	}

	sections := make([]sectionView, 0, len(p.Sections))
	for _, section := range p.Sections {
		group := section.Group.Normalize()
		view := sectionView{
			Name:            group.Name,
			Title:           section.Title,
			Icon:            sanitizeIcon(section.Icon),
			ContainerID:     group.ContainerID,
			TemplateID:      group.TemplateID,
			InstanceClass:   group.InstanceClass,
			ElementTemplate: section.ElementTemplate,
			Template:        fieldViews(group, section.Fields, group.Placeholder, nil, refdata.Set{}),
		}
		for idx, row := range section.Rows {
			view.Rows = append(view.Rows, fieldViews(group, section.Fields, fmt.Sprint(idx), row, p.Data))
		}
		sections = append(sections, view)
	}

	return pongo2.Context{
		"title":     p.Title,
		"action":    p.Action,
		"favorite":  p.Favorite,
		"sections":  sections,
		"payload":   string(payload),
		"payloadId": payloadID,
	}, nil
}

func fieldViews(group groups.Group, fields []Field, index string, row Row, data refdata.Set) []fieldView {
	out := make([]fieldView, 0, len(fields))
	for _, field := range fields {
		kind := field.Kind
		if kind == "" {
			kind = KindText
		}
		view := fieldView{
			Name:        fmt.Sprintf("%s[%s].%s", group.Name, index, field.Key),
			Role:        field.Role,
			Kind:        kind,
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Value:       row[field.Key],
			Toggle:      field.Toggle,
		}
		switch kind {
		case KindCheckbox:
			view.Checked = view.Value != ""
			view.Value = ""
		case KindSelect:
			if row != nil {
				view.Options = selectOptions(group, field, view.Value, data)
			}
		}
		out = append(out, view)
	}
	return out
}

// selectOptions renders the current reference entries for a pre-rendered
// row. A stored value missing from the data is kept so the row shows what
// was saved.
func selectOptions(group groups.Group, field Field, value string, data refdata.Set) []optionView {
	role := field.Role
	if role == "" {
		role = field.Key
	}
	var entries []refdata.Entry
	if source, ok := group.SourceFor(role); ok {
		entries, _ = data.Entries(source)
	}

	out := make([]optionView, 0, len(entries)+1)
	found := value == ""
	for _, entry := range entries {
		selected := value != "" && entry.Value == value
		found = found || selected
		out = append(out, optionView{Value: entry.Value, Label: entry.Label, Selected: selected})
	}
	if !found {
		out = append(out, optionView{Value: value, Label: value, Selected: true})
	}
	return out
}
