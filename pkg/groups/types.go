package groups

import "strings"

// Defaults applied to groups that leave the corresponding fields empty.
const (
	DefaultPlaceholder   = "INDEX"
	DefaultInstanceClass = "dynamic-field"
)

// Group describes one repeatable form section: where its template lives, which
// container receives new instances, and which embedded selects are fed from
// reference data.
type Group struct {
	Name              string      `json:"name" yaml:"name"`
	TemplateID        string      `json:"templateId" yaml:"templateId"`
	ContainerID       string      `json:"containerId" yaml:"containerId"`
	Placeholder       string      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	InstanceClass     string      `json:"instanceClass,omitempty" yaml:"instanceClass,omitempty"`
	IndexedAttributes []string    `json:"indexedAttributes,omitempty" yaml:"indexedAttributes,omitempty"`
	Selections        []Selection `json:"selections,omitempty" yaml:"selections,omitempty"`
}

// Selection binds a select control role (the last segment of its field name,
// or its data-role attribute) to a reference data key.
type Selection struct {
	Role   string `json:"role" yaml:"role"`
	Source string `json:"source" yaml:"source"`
}

// Normalize trims identifiers and fills defaults.
func (g Group) Normalize() Group {
	out := g
	out.Name = strings.TrimSpace(g.Name)
	out.TemplateID = strings.TrimSpace(g.TemplateID)
	out.ContainerID = strings.TrimSpace(g.ContainerID)
	out.Placeholder = strings.TrimSpace(g.Placeholder)
	if out.Placeholder == "" {
		out.Placeholder = DefaultPlaceholder
	}
	out.InstanceClass = strings.TrimSpace(g.InstanceClass)
	if out.InstanceClass == "" {
		out.InstanceClass = DefaultInstanceClass
	}

	out.IndexedAttributes = nil
	seen := map[string]struct{}{}
	for _, attr := range append([]string{"name"}, g.IndexedAttributes...) {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if attr == "" {
			continue
		}
		if _, ok := seen[attr]; ok {
			continue
		}
		seen[attr] = struct{}{}
		out.IndexedAttributes = append(out.IndexedAttributes, attr)
	}

	out.Selections = nil
	for _, sel := range g.Selections {
		role := strings.TrimSpace(sel.Role)
		source := strings.TrimSpace(sel.Source)
		if role == "" || source == "" {
			continue
		}
		out.Selections = append(out.Selections, Selection{Role: role, Source: source})
	}
	return out
}

// SourceFor returns the reference data key bound to role.
func (g Group) SourceFor(role string) (string, bool) {
	for _, sel := range g.Selections {
		if sel.Role == role {
			return sel.Source, true
		}
	}
	return "", false
}

// Sources lists the reference data keys the group consumes.
func (g Group) Sources() []string {
	if len(g.Selections) == 0 {
		return nil
	}
	out := make([]string, 0, len(g.Selections))
	for _, sel := range g.Selections {
		out = append(out, sel.Source)
	}
	return out
}

// ContactGroups returns the repeatable sections of the contact create/edit
// pages.
func ContactGroups() []Group {
	raw := []Group{
		{
			Name:        "contactDetails",
			TemplateID:  "contactDetailTemplate",
			ContainerID: "contactDetailsContainer",
			Selections:  []Selection{{Role: "detailType", Source: "detailTypes"}, {Role: "label", Source: "detailLabels"}},
		},
		{
			Name:        "socialProfiles",
			TemplateID:  "socialProfileTemplate",
			ContainerID: "socialProfilesContainer",
			Selections:  []Selection{{Role: "platform", Source: "platforms"}},
		},
		{
			Name:        "companies",
			TemplateID:  "companyJobTitleTemplate",
			ContainerID: "companyJobTitleContainer",
			Selections:  []Selection{{Role: "companyId", Source: "companies"}, {Role: "jobTitleId", Source: "jobTitles"}},
		},
		{
			Name:        "events",
			TemplateID:  "eventTemplate",
			ContainerID: "eventsContainer",
			Selections:  []Selection{{Role: "eventType", Source: "eventTypes"}},
		},
		{
			Name:        "notes",
			TemplateID:  "noteTemplate",
			ContainerID: "notesContainer",
		},
	}
	out := make([]Group, 0, len(raw))
	for _, g := range raw {
		out = append(out, g.Normalize())
	}
	return out
}
