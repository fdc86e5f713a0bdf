package calendar

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/auth"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/ptr"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

var serviceIcons = []mcp.Icon{{
	Source:   "https://www.gstatic.com/images/branding/product/1x/calendar_2020q4_48dp.png",
	MIMEType: "image/png",
	Sizes:    []string{"48x48"},
}}

// IncludeFunc decides whether a tool is registered under the active
// configuration, given its name, annotations, and required OAuth scopes.
type IncludeFunc = func(name string, ann *mcp.ToolAnnotations, required []string) bool

// Register registers the Calendar tools that pass the include filter.
func Register(server *mcp.Server, factory *services.Factory, include IncludeFunc) {
	listTool := &mcp.Tool{
		Name:        "list_calendars",
		Icons:       serviceIcons,
		Description: "List all calendars accessible to the authenticated user, including primary calendar, shared calendars, and subscribed calendars.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Calendars",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(listTool.Name, listTool.Annotations, []string{auth.CalendarReadonlyScope}) {
		mcp.AddTool(server, listTool, createListCalendarsHandler(factory))
	}

	eventsTool := &mcp.Tool{
		Name:        "get_events",
		Icons:       serviceIcons,
		Description: "Get calendar events. Can retrieve a single event by ID or list events within a time range with optional search.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Calendar Events",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(eventsTool.Name, eventsTool.Annotations, []string{auth.CalendarReadonlyScope}) {
		mcp.AddTool(server, eventsTool, createGetEventsHandler(factory))
	}

	createTool := &mcp.Tool{
		Name:        "create_event",
		Icons:       serviceIcons,
		Description: "Create a new calendar event with optional attendees, location, reminders, and Google Meet link.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Create Calendar Event",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(createTool.Name, createTool.Annotations, []string{auth.CalendarEventsScope}) {
		mcp.AddTool(server, createTool, createCreateEventHandler(factory))
	}

	modifyTool := &mcp.Tool{
		Name:        "modify_event",
		Icons:       serviceIcons,
		Description: "Modify an existing calendar event. Only specified fields are updated; omitted fields remain unchanged.",
		Annotations: &mcp.ToolAnnotations{
			Title:          "Modify Calendar Event",
			IdempotentHint: true,
			OpenWorldHint:  ptr.Bool(true),
		},
	}
	if include(modifyTool.Name, modifyTool.Annotations, []string{auth.CalendarEventsScope}) {
		mcp.AddTool(server, modifyTool, createModifyEventHandler(factory))
	}

	deleteTool := &mcp.Tool{
		Name:        "delete_event",
		Icons:       serviceIcons,
		Description: "Permanently delete a calendar event. This action cannot be undone.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Delete Calendar Event",
			DestructiveHint: ptr.Bool(true),
			OpenWorldHint:   ptr.Bool(true),
		},
	}
	if include(deleteTool.Name, deleteTool.Annotations, []string{auth.CalendarEventsScope}) {
		mcp.AddTool(server, deleteTool, createDeleteEventHandler(factory))
	}

	freebusyTool := &mcp.Tool{
		Name:        "query_freebusy",
		Icons:       serviceIcons,
		Description: "Query free/busy times for one or more calendars within a time range.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Query Free/Busy",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(freebusyTool.Name, freebusyTool.Annotations, []string{auth.CalendarReadonlyScope}) {
		mcp.AddTool(server, freebusyTool, createQueryFreeBusyHandler(factory))
	}
}
