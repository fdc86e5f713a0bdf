package drive

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/auth"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/ptr"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

var serviceIcons = []mcp.Icon{{
	Source:   "https://www.gstatic.com/images/branding/product/1x/drive_2020q4_48dp.png",
	MIMEType: "image/png",
	Sizes:    []string{"48x48"},
}}

// IncludeFunc decides whether a tool is registered under the active
// configuration, given its name, annotations, and required OAuth scopes.
type IncludeFunc = func(name string, ann *mcp.ToolAnnotations, required []string) bool

// Register registers the Drive tools that pass the include filter.
func Register(server *mcp.Server, factory *services.Factory, include IncludeFunc) {
	searchTool := &mcp.Tool{
		Name:        "search_drive_files",
		Icons:       serviceIcons,
		Description: "Search for files and folders in Google Drive. Accepts free text or Drive query syntax, with an optional file_type filter (doc, sheet, folder, ... or a raw MIME type).",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Search Drive Files",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(searchTool.Name, searchTool.Annotations, []string{auth.DriveReadonlyScope}) {
		mcp.AddTool(server, searchTool, createSearchFilesHandler(factory))
	}

	listTool := &mcp.Tool{
		Name:        "list_drive_items",
		Icons:       serviceIcons,
		Description: "List files and folders in a specific Drive folder with pagination and an optional file_type filter.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Drive Items",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(listTool.Name, listTool.Annotations, []string{auth.DriveReadonlyScope}) {
		mcp.AddTool(server, listTool, createListItemsHandler(factory))
	}

	contentTool := &mcp.Tool{
		Name:        "get_drive_file_content",
		Icons:       serviceIcons,
		Description: "Get the text content of a Google Drive file. Exports Google Docs/Sheets/Slides as text. Extracts text from Office files (.docx, .xlsx, .pptx).",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Drive File Content",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(contentTool.Name, contentTool.Annotations, []string{auth.DriveReadonlyScope}) {
		mcp.AddTool(server, contentTool, createGetFileContentHandler(factory))
	}

	downloadTool := &mcp.Tool{
		Name:        "get_drive_file_download_url",
		Icons:       serviceIcons,
		Description: "Get a download URL for a Google Drive file. For Google native files, exports to a useful format (PDF, XLSX, etc.).",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Drive File Download URL",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(downloadTool.Name, downloadTool.Annotations, []string{auth.DriveReadonlyScope}) {
		mcp.AddTool(server, downloadTool, createGetDownloadURLHandler(factory))
	}

	createTool := &mcp.Tool{
		Name:        "create_drive_file",
		Icons:       serviceIcons,
		Description: "Create a new file in Google Drive with optional content. Supports text files and Google Workspace native types.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Create Drive File",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(createTool.Name, createTool.Annotations, []string{auth.DriveFileScope}) {
		mcp.AddTool(server, createTool, createCreateFileHandler(factory))
	}

	folderTool := &mcp.Tool{
		Name:        "create_drive_folder",
		Icons:       serviceIcons,
		Description: "Create a new folder in Google Drive, optionally inside a parent folder.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Create Drive Folder",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(folderTool.Name, folderTool.Annotations, []string{auth.DriveFileScope}) {
		mcp.AddTool(server, folderTool, createCreateFolderHandler(factory))
	}

	shareTool := &mcp.Tool{
		Name:        "share_drive_file",
		Icons:       serviceIcons,
		Description: "Share a Google Drive file or folder with a user, group, domain, or anyone with the link.",
		Annotations: &mcp.ToolAnnotations{
			Title:          "Share Drive File",
			IdempotentHint: true,
			OpenWorldHint:  ptr.Bool(true),
		},
	}
	if include(shareTool.Name, shareTool.Annotations, []string{auth.DriveScope}) {
		mcp.AddTool(server, shareTool, createShareFileHandler(factory))
	}
}
