package contacts

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/middleware"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/response"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/validate"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

// --- list_contacts ---

type ListContactsInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	PageSize  int    `json:"page_size,omitempty" jsonschema_description:"Maximum contacts to return (default 25)"`
	PageToken string `json:"page_token,omitempty" jsonschema_description:"Token for pagination"`
}

type ListContactsOutput struct {
	Contacts      []ContactSummary `json:"contacts"`
	NextPageToken string           `json:"next_page_token,omitempty"`
}

func createListContactsHandler(factory *services.Factory) mcp.ToolHandlerFor[ListContactsInput, ListContactsOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListContactsInput) (*mcp.CallToolResult, ListContactsOutput, error) {
		if input.PageSize <= 0 {
			input.PageSize = 25
		}

		srv, err := factory.People(ctx, input.UserEmail)
		if err != nil {
			return nil, ListContactsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		call := srv.People.Connections.List("people/me").
			PersonFields(listPersonFields).
			PageSize(int64(input.PageSize)).
			SortOrder("FIRST_NAME_ASCENDING").
			Context(ctx)
		if input.PageToken != "" {
			call = call.PageToken(input.PageToken)
		}

		result, err := call.Do()
		if err != nil {
			return nil, ListContactsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		contacts := make([]ContactSummary, 0, len(result.Connections))
		rb := response.New()
		rb.Header("Contacts")
		rb.KeyValue("Count", len(result.Connections))
		rb.KeyValue("Total", result.TotalPeople)
		if result.NextPageToken != "" {
			rb.KeyValue("Next page token", result.NextPageToken)
		}
		rb.Blank()

		for _, p := range result.Connections {
			cs := personToSummary(p)
			contacts = append(contacts, cs)
			rb.Item("%s", formatContactLine(cs))
			if cs.Organization != "" {
				rb.Line("    Org: %s", cs.Organization)
			}
		}

		return rb.TextResult(), ListContactsOutput{Contacts: contacts, NextPageToken: result.NextPageToken}, nil
	}
}

// --- search_contacts ---

type SearchContactsInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	Query     string `json:"query" jsonschema:"required" jsonschema_description:"Search query (name, email, or phone number)"`
	PageSize  int    `json:"page_size,omitempty" jsonschema_description:"Maximum results (default 10)"`
}

type SearchContactsOutput struct {
	Contacts []ContactSummary `json:"contacts"`
}

func createSearchContactsHandler(factory *services.Factory) mcp.ToolHandlerFor[SearchContactsInput, SearchContactsOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchContactsInput) (*mcp.CallToolResult, SearchContactsOutput, error) {
		if input.PageSize <= 0 {
			input.PageSize = 10
		}

		srv, err := factory.People(ctx, input.UserEmail)
		if err != nil {
			return nil, SearchContactsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		result, err := srv.People.SearchContacts().
			Query(input.Query).
			ReadMask(listPersonFields).
			PageSize(int64(input.PageSize)).
			Context(ctx).Do()
		if err != nil {
			return nil, SearchContactsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		contacts := make([]ContactSummary, 0, len(result.Results))
		rb := response.New()
		rb.Header("Contact Search Results")
		rb.KeyValue("Query", input.Query)
		rb.KeyValue("Results", len(result.Results))
		rb.Blank()

		for _, r := range result.Results {
			cs := personToSummary(r.Person)
			contacts = append(contacts, cs)
			rb.Item("%s", formatContactLine(cs))
			rb.Line("    Resource: %s", cs.ResourceName)
			if cs.Organization != "" {
				rb.Line("    Org: %s", cs.Organization)
			}
		}

		return rb.TextResult(), SearchContactsOutput{Contacts: contacts}, nil
	}
}

// --- get_contact ---

type GetContactInput struct {
	UserEmail    string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	ResourceName string `json:"resource_name" jsonschema:"required" jsonschema_description:"The contact resource name (e.g. people/c1234567890)"`
}

type GetContactOutput struct {
	Contact ContactSummary `json:"contact"`
}

func createGetContactHandler(factory *services.Factory) mcp.ToolHandlerFor[GetContactInput, GetContactOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetContactInput) (*mcp.CallToolResult, GetContactOutput, error) {
		srv, err := factory.People(ctx, input.UserEmail)
		if err != nil {
			return nil, GetContactOutput{}, middleware.HandleGoogleAPIError(err)
		}

		person, err := srv.People.Get(input.ResourceName).
			PersonFields(readPersonFields).
			Context(ctx).Do()
		if err != nil {
			return nil, GetContactOutput{}, middleware.HandleGoogleAPIError(err)
		}

		cs := personToSummary(person)

		rb := response.New()
		rb.Header("Contact Details")
		rb.KeyValue("Name", cs.DisplayName)
		rb.KeyValue("Resource", cs.ResourceName)
		for _, e := range cs.Emails {
			rb.KeyValue("Email", e)
		}
		for _, p := range cs.Phones {
			rb.KeyValue("Phone", p)
		}
		if cs.Organization != "" {
			rb.KeyValue("Organization", cs.Organization)
		}

		return rb.TextResult(), GetContactOutput{Contact: cs}, nil
	}
}

// --- create_contact ---

type CreateContactInput struct {
	UserEmail  string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	GivenName  string `json:"given_name" jsonschema:"required" jsonschema_description:"First name"`
	FamilyName string `json:"family_name,omitempty" jsonschema_description:"Last name"`
	Email      string `json:"email,omitempty" jsonschema_description:"Email address"`
	Phone      string `json:"phone,omitempty" jsonschema_description:"Phone number"`
	OrgName    string `json:"organization,omitempty" jsonschema_description:"Organization name"`
	OrgTitle   string `json:"job_title,omitempty" jsonschema_description:"Job title"`
}

type CreateContactOutput struct {
	Contact ContactSummary `json:"contact"`
}

func createCreateContactHandler(factory *services.Factory) mcp.ToolHandlerFor[CreateContactInput, CreateContactOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateContactInput) (*mcp.CallToolResult, CreateContactOutput, error) {
		if input.Email != "" {
			if err := validate.Email(input.Email); err != nil {
				return nil, CreateContactOutput{}, err
			}
		}

		srv, err := factory.People(ctx, input.UserEmail)
		if err != nil {
			return nil, CreateContactOutput{}, middleware.HandleGoogleAPIError(err)
		}

		person := buildPerson(input.GivenName, input.FamilyName, input.Email, input.Phone, input.OrgName, input.OrgTitle)

		created, err := srv.People.CreateContact(person).Context(ctx).Do()
		if err != nil {
			return nil, CreateContactOutput{}, middleware.HandleGoogleAPIError(err)
		}

		cs := personToSummary(created)
		rb := response.New()
		rb.Header("Contact Created")
		rb.KeyValue("Name", cs.DisplayName)
		rb.KeyValue("Resource", cs.ResourceName)
		if len(cs.Emails) > 0 {
			rb.KeyValue("Email", cs.Emails[0])
		}

		return rb.TextResult(), CreateContactOutput{Contact: cs}, nil
	}
}
