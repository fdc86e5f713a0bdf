package contacts

import (
	"testing"

	"google.golang.org/api/people/v1"
)

func TestPersonToSummary(t *testing.T) {
	p := &people.Person{
		ResourceName:   "people/c123",
		Names:          []*people.Name{{DisplayName: "Ada Lovelace"}},
		EmailAddresses: []*people.EmailAddress{{Value: "ada@example.com"}, {Value: "ada@work.example.com"}},
		PhoneNumbers:   []*people.PhoneNumber{{Value: "+1 555 0100"}},
		Organizations:  []*people.Organization{{Name: "Analytical Engines", Title: "Engineer"}},
	}

	cs := personToSummary(p)
	if cs.ResourceName != "people/c123" {
		t.Errorf("ResourceName = %q", cs.ResourceName)
	}
	if cs.DisplayName != "Ada Lovelace" {
		t.Errorf("DisplayName = %q", cs.DisplayName)
	}
	if len(cs.Emails) != 2 || cs.Emails[0] != "ada@example.com" {
		t.Errorf("Emails = %v", cs.Emails)
	}
	if len(cs.Phones) != 1 {
		t.Errorf("Phones = %v", cs.Phones)
	}
	if cs.Organization != "Analytical Engines, Engineer" {
		t.Errorf("Organization = %q", cs.Organization)
	}
}

func TestPersonToSummaryEmpty(t *testing.T) {
	cs := personToSummary(&people.Person{ResourceName: "people/c9"})
	if cs.DisplayName != "" || len(cs.Emails) != 0 || cs.Organization != "" {
		t.Errorf("expected empty summary, got %+v", cs)
	}
}

func TestFormatContactLine(t *testing.T) {
	tests := []struct {
		name string
		cs   ContactSummary
		want string
	}{
		{"name and email", ContactSummary{DisplayName: "Ada", Emails: []string{"ada@example.com"}}, "Ada <ada@example.com>"},
		{"name only", ContactSummary{DisplayName: "Ada"}, "Ada"},
		{"no name", ContactSummary{Emails: []string{"x@example.com"}}, "(no name) <x@example.com>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatContactLine(tt.cs); got != tt.want {
				t.Errorf("formatContactLine = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildPerson(t *testing.T) {
	p := buildPerson("Ada", "Lovelace", "ada@example.com", "", "Analytical Engines", "")
	if len(p.Names) != 1 || p.Names[0].GivenName != "Ada" || p.Names[0].FamilyName != "Lovelace" {
		t.Errorf("Names = %+v", p.Names)
	}
	if len(p.EmailAddresses) != 1 || p.EmailAddresses[0].Value != "ada@example.com" {
		t.Errorf("EmailAddresses = %+v", p.EmailAddresses)
	}
	if p.PhoneNumbers != nil {
		t.Errorf("expected no phone numbers, got %+v", p.PhoneNumbers)
	}
	if len(p.Organizations) != 1 || p.Organizations[0].Name != "Analytical Engines" {
		t.Errorf("Organizations = %+v", p.Organizations)
	}
}

func TestBuildPersonEmpty(t *testing.T) {
	p := buildPerson("", "", "", "", "", "")
	if p.Names != nil || p.EmailAddresses != nil || p.PhoneNumbers != nil || p.Organizations != nil {
		t.Errorf("expected empty person, got %+v", p)
	}
}
