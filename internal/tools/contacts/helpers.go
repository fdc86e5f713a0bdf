package contacts

import (
	"fmt"
	"strings"

	"google.golang.org/api/people/v1"
)

// Field masks for People API reads. The list mask omits metadata to keep
// list responses small.
const (
	listPersonFields = "names,emailAddresses,phoneNumbers,organizations"
	readPersonFields = "names,emailAddresses,phoneNumbers,organizations,metadata"
)

// ContactSummary is a compact representation of a Google Contact.
type ContactSummary struct {
	ResourceName string   `json:"resource_name"`
	DisplayName  string   `json:"display_name,omitempty"`
	Emails       []string `json:"emails,omitempty"`
	Phones       []string `json:"phones,omitempty"`
	Organization string   `json:"organization,omitempty"`
}

func personToSummary(p *people.Person) ContactSummary {
	cs := ContactSummary{ResourceName: p.ResourceName}

	if len(p.Names) > 0 {
		cs.DisplayName = p.Names[0].DisplayName
	}
	for _, e := range p.EmailAddresses {
		cs.Emails = append(cs.Emails, e.Value)
	}
	for _, ph := range p.PhoneNumbers {
		cs.Phones = append(cs.Phones, ph.Value)
	}
	if len(p.Organizations) > 0 {
		org := p.Organizations[0]
		parts := make([]string, 0, 2)
		if org.Name != "" {
			parts = append(parts, org.Name)
		}
		if org.Title != "" {
			parts = append(parts, org.Title)
		}
		cs.Organization = strings.Join(parts, ", ")
	}

	return cs
}

// formatContactLine renders a one-line "Name <email>" form for list output.
func formatContactLine(cs ContactSummary) string {
	name := cs.DisplayName
	if name == "" {
		name = "(no name)"
	}
	if len(cs.Emails) > 0 {
		return fmt.Sprintf("%s <%s>", name, cs.Emails[0])
	}
	return name
}

// buildPerson assembles a Person from create-contact inputs. Empty fields
// are left out entirely so the API does not store blank entries.
func buildPerson(givenName, familyName, email, phone, orgName, orgTitle string) *people.Person {
	person := &people.Person{}

	if givenName != "" || familyName != "" {
		person.Names = []*people.Name{
			{GivenName: givenName, FamilyName: familyName},
		}
	}
	if email != "" {
		person.EmailAddresses = []*people.EmailAddress{{Value: email}}
	}
	if phone != "" {
		person.PhoneNumbers = []*people.PhoneNumber{{Value: phone}}
	}
	if orgName != "" || orgTitle != "" {
		person.Organizations = []*people.Organization{
			{Name: orgName, Title: orgTitle},
		}
	}

	return person
}
