package scaffold

import (
	"github.com/goliatone/go-formrows/pkg/groups"
	"github.com/goliatone/go-formrows/pkg/refdata"
)

var contactFields = map[string]struct {
	title   string
	icon    string
	element bool
	fields  []Field
}{
	"contactDetails": {icon: `<i class="fas fa-address-book"></i>`, title: "Contact details", fields: []Field{
		{Key: "detailType", Kind: KindSelect, Placeholder: "Type"},
		{Key: "label", Kind: KindSelect, Placeholder: "Label"},
		{Key: "value", Kind: KindText, Placeholder: "Value"},
		{Key: "primary", Kind: KindCheckbox, Label: "Make primary", Toggle: "primary"},
	}},
	"socialProfiles": {icon: `<i class="fas fa-share-nodes"></i>`, title: "Social profiles", fields: []Field{
		{Key: "platform", Kind: KindSelect, Placeholder: "Choose a platform"},
		{Key: "username", Kind: KindText, Placeholder: "Username"},
	}},
	"companies": {icon: `<i class="fas fa-building"></i>`, title: "Companies", element: true, fields: []Field{
		{Key: "companyId", Kind: KindSelect, Placeholder: "Company"},
		{Key: "jobTitleId", Kind: KindSelect, Placeholder: "Job title"},
		{Key: "current", Kind: KindCheckbox, Label: "Current job", Toggle: "current"},
	}},
	"events": {icon: `<i class="fas fa-calendar"></i>`, title: "Events", fields: []Field{
		{Key: "eventType", Kind: KindSelect, Placeholder: "Event type"},
		{Key: "eventDate", Kind: "date"},
	}},
	"notes": {icon: `<i class="fas fa-note-sticky"></i>`, title: "Notes", fields: []Field{
		{Key: "content", Kind: KindTextarea, Placeholder: "Note"},
	}},
}

// ContactPage builds the contact create page: every contact group with its
// controls, no pre-rendered rows, and data as the embedded payload.
func ContactPage(data refdata.Set) Page {
	page := Page{Title: "New contact", Action: "/contacts", Data: data}
	for _, group := range groups.ContactGroups() {
		layout := contactFields[group.Name]
		page.Sections = append(page.Sections, Section{
			Group:           group,
			Title:           layout.title,
			Icon:            layout.icon,
			Fields:          layout.fields,
			ElementTemplate: layout.element,
		})
	}
	return page
}

// DemoData returns sample reference data covering every contact group.
func DemoData() refdata.Set {
	return refdata.New(map[string][]refdata.Entry{
		"detailTypes":  {refdata.Plain("EMAIL"), refdata.Plain("PHONE")},
		"detailLabels": {refdata.Plain("WORK"), refdata.Plain("HOME")},
		"platforms":    {refdata.Plain("TELEGRAM"), refdata.Plain("GITHUB"), refdata.Plain("LINKEDIN")},
		"companies":    {{Value: "7", Label: "Acme"}, {Value: "9", Label: "Globex"}},
		"jobTitles":    {{Value: "1", Label: "Engineer"}, {Value: "2", Label: "Manager"}},
		"eventTypes":   {{Value: "BIRTHDAY", Label: "Birthday"}, {Value: "MEETING", Label: "Meeting"}},
	})
}

// DemoPage is the contact edit page of a sample contact: DemoData plus one
// pre-rendered row in most groups.
func DemoPage() Page {
	page := ContactPage(DemoData())
	page.Title = "Edit contact"
	page.Action = "/contacts/1"
	page.Favorite = true

	rows := map[string][]Row{
		"contactDetails": {{"detailType": "EMAIL", "label": "WORK", "value": "ada@example.com", "primary": "on"}},
		"socialProfiles": {{"platform": "GITHUB", "username": "ada"}},
		"companies":      {{"companyId": "7", "jobTitleId": "1", "current": "on"}},
		"events":         {{"eventType": "BIRTHDAY", "eventDate": "1815-12-10"}},
	}
	for idx := range page.Sections {
		page.Sections[idx].Rows = rows[page.Sections[idx].Group.Name]
	}
	return page
}
