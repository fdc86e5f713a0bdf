package sheets

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/auth"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/ptr"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

var serviceIcons = []mcp.Icon{{
	Source:   "https://www.gstatic.com/images/branding/product/1x/sheets_2020q4_48dp.png",
	MIMEType: "image/png",
	Sizes:    []string{"48x48"},
}}

// IncludeFunc decides whether a tool is registered under the active
// configuration, given its name, annotations, and required OAuth scopes.
type IncludeFunc = func(name string, ann *mcp.ToolAnnotations, required []string) bool

// Register registers the Sheets tools that pass the include filter.
func Register(server *mcp.Server, factory *services.Factory, include IncludeFunc) {
	listTool := &mcp.Tool{
		Name:        "list_spreadsheets",
		Icons:       serviceIcons,
		Description: "List Google Spreadsheets accessible to the user, most recently modified first.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Spreadsheets",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(listTool.Name, listTool.Annotations, []string{auth.DriveReadonlyScope}) {
		mcp.AddTool(server, listTool, createListSpreadsheetsHandler(factory))
	}

	infoTool := &mcp.Tool{
		Name:        "get_spreadsheet_info",
		Icons:       serviceIcons,
		Description: "Get a spreadsheet's title, URL, and the dimensions of each of its sheet tabs.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Spreadsheet Info",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(infoTool.Name, infoTool.Annotations, []string{auth.SheetsReadonlyScope}) {
		mcp.AddTool(server, infoTool, createGetSpreadsheetInfoHandler(factory))
	}

	readTool := &mcp.Tool{
		Name:        "read_sheet_values",
		Icons:       serviceIcons,
		Description: "Read cell values from a spreadsheet range in A1 notation.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Read Sheet Values",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(readTool.Name, readTool.Annotations, []string{auth.SheetsReadonlyScope}) {
		mcp.AddTool(server, readTool, createReadSheetValuesHandler(factory))
	}

	modifyTool := &mcp.Tool{
		Name:        "modify_sheet_values",
		Icons:       serviceIcons,
		Description: "Write or clear cell values in a spreadsheet range in A1 notation.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Modify Sheet Values",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(modifyTool.Name, modifyTool.Annotations, []string{auth.SheetsScope}) {
		mcp.AddTool(server, modifyTool, createModifySheetValuesHandler(factory))
	}

	createTool := &mcp.Tool{
		Name:        "create_spreadsheet",
		Icons:       serviceIcons,
		Description: "Create a new Google Spreadsheet, optionally with named sheet tabs.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Create Spreadsheet",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(createTool.Name, createTool.Annotations, []string{auth.SheetsScope}) {
		mcp.AddTool(server, createTool, createCreateSpreadsheetHandler(factory))
	}
}
