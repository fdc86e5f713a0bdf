package docs

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/auth"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/ptr"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

var serviceIcons = []mcp.Icon{{
	Source:   "https://www.gstatic.com/images/branding/product/1x/docs_2020q4_48dp.png",
	MIMEType: "image/png",
	Sizes:    []string{"48x48"},
}}

// IncludeFunc decides whether a tool is registered under the active
// configuration, given its name, annotations, and required OAuth scopes.
type IncludeFunc = func(name string, ann *mcp.ToolAnnotations, required []string) bool

// Register registers the Docs tools that pass the include filter.
func Register(server *mcp.Server, factory *services.Factory, include IncludeFunc) {
	searchTool := &mcp.Tool{
		Name:        "search_docs",
		Icons:       serviceIcons,
		Description: "Search for Google Docs by name.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Search Google Docs",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(searchTool.Name, searchTool.Annotations, []string{auth.DriveReadonlyScope}) {
		mcp.AddTool(server, searchTool, createSearchDocsHandler(factory))
	}

	contentTool := &mcp.Tool{
		Name:        "get_doc_content",
		Icons:       serviceIcons,
		Description: "Get the full text content of a Google Doc, including table contents.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Document Content",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(contentTool.Name, contentTool.Annotations, []string{auth.DocsReadonlyScope}) {
		mcp.AddTool(server, contentTool, createGetDocContentHandler(factory))
	}

	folderTool := &mcp.Tool{
		Name:        "list_docs_in_folder",
		Icons:       serviceIcons,
		Description: "List all Google Docs within a specific Drive folder.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Docs in Folder",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(folderTool.Name, folderTool.Annotations, []string{auth.DriveReadonlyScope}) {
		mcp.AddTool(server, folderTool, createListDocsInFolderHandler(factory))
	}

	createTool := &mcp.Tool{
		Name:        "create_doc",
		Icons:       serviceIcons,
		Description: "Create a new Google Doc with an optional initial body.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Create Google Doc",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(createTool.Name, createTool.Annotations, []string{auth.DocsScope}) {
		mcp.AddTool(server, createTool, createCreateDocHandler(factory))
	}

	modifyTool := &mcp.Tool{
		Name:        "modify_doc_text",
		Icons:       serviceIcons,
		Description: "Insert or replace text in a Google Doc, with optional character formatting (bold, italic, font, colors).",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Modify Document Text",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(modifyTool.Name, modifyTool.Annotations, []string{auth.DocsScope}) {
		mcp.AddTool(server, modifyTool, createModifyDocTextHandler(factory))
	}

	replaceTool := &mcp.Tool{
		Name:        "find_and_replace_doc",
		Icons:       serviceIcons,
		Description: "Find and replace all occurrences of a string in a Google Doc.",
		Annotations: &mcp.ToolAnnotations{
			Title:          "Find and Replace in Doc",
			IdempotentHint: true,
			OpenWorldHint:  ptr.Bool(true),
		},
	}
	if include(replaceTool.Name, replaceTool.Annotations, []string{auth.DocsScope}) {
		mcp.AddTool(server, replaceTool, createFindAndReplaceDocHandler(factory))
	}

	exportTool := &mcp.Tool{
		Name:        "export_doc_to_pdf",
		Icons:       serviceIcons,
		Description: "Export a Google Doc as PDF and return the download link.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Export Doc to PDF",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(exportTool.Name, exportTool.Annotations, []string{auth.DriveReadonlyScope}) {
		mcp.AddTool(server, exportTool, createExportDocToPDFHandler(factory))
	}
}
