package contacts

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/auth"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/ptr"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

var serviceIcons = []mcp.Icon{{
	Source:   "https://www.gstatic.com/images/branding/product/1x/contacts_2022_48dp.png",
	MIMEType: "image/png",
	Sizes:    []string{"48x48"},
}}

// IncludeFunc decides whether a tool is registered under the active
// configuration, given its name, annotations, and required OAuth scopes.
type IncludeFunc = func(name string, ann *mcp.ToolAnnotations, required []string) bool

// Register registers the Contacts tools that pass the include filter.
func Register(server *mcp.Server, factory *services.Factory, include IncludeFunc) {
	listTool := &mcp.Tool{
		Name:        "list_contacts",
		Icons:       serviceIcons,
		Description: "List the user's Google Contacts with pagination, sorted by first name.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Contacts",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(listTool.Name, listTool.Annotations, []string{auth.ContactsReadonlyScope}) {
		mcp.AddTool(server, listTool, createListContactsHandler(factory))
	}

	searchTool := &mcp.Tool{
		Name:        "search_contacts",
		Icons:       serviceIcons,
		Description: "Search the user's Google Contacts by name, email, or phone number.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Search Contacts",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(searchTool.Name, searchTool.Annotations, []string{auth.ContactsReadonlyScope}) {
		mcp.AddTool(server, searchTool, createSearchContactsHandler(factory))
	}

	getTool := &mcp.Tool{
		Name:        "get_contact",
		Icons:       serviceIcons,
		Description: "Get a contact's full details by resource name.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Contact",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(getTool.Name, getTool.Annotations, []string{auth.ContactsReadonlyScope}) {
		mcp.AddTool(server, getTool, createGetContactHandler(factory))
	}

	createTool := &mcp.Tool{
		Name:        "create_contact",
		Icons:       serviceIcons,
		Description: "Create a new Google Contact with name, email, phone, and organization.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Create Contact",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(createTool.Name, createTool.Annotations, []string{auth.ContactsScope}) {
		mcp.AddTool(server, createTool, createCreateContactHandler(factory))
	}
}
