package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/drive/v3"

	"github.com/workspacemcp/workspace-mcp/internal/middleware"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/office"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/response"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/validate"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

const fileListFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime, webViewLink)"

// --- search_drive_files ---

type SearchFilesInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	Query     string `json:"query" jsonschema:"required" jsonschema_description:"Free text, or a structured query using Drive query syntax"`
	FileType  string `json:"file_type,omitempty" jsonschema_description:"Restrict results to a file type: doc, sheet, slides, folder, form, pdf, ... or a raw MIME type"`
	PageSize  int    `json:"page_size,omitempty" jsonschema_description:"Maximum number of results to return (default 10)"`
	PageToken string `json:"page_token,omitempty" jsonschema_description:"Token from a previous search to fetch the next page"`
	DriveID   string `json:"drive_id,omitempty" jsonschema_description:"ID of a shared drive to search within"`
}

type SearchFilesOutput struct {
	Files         []FileSummary `json:"files"`
	Query         string        `json:"query"`
	NextPageToken string        `json:"next_page_token,omitempty"`
	ResultCount   int           `json:"result_count"`
}

func createSearchFilesHandler(factory *services.Factory) mcp.ToolHandlerFor[SearchFilesInput, SearchFilesOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchFilesInput) (*mcp.CallToolResult, SearchFilesOutput, error) {
		if input.PageSize == 0 {
			input.PageSize = 10
		}

		mime, err := resolveFileTypeMime(input.FileType)
		if err != nil {
			return nil, SearchFilesOutput{}, err
		}
		q := buildSearchQuery(input.Query, mime)

		srv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, SearchFilesOutput{}, middleware.HandleGoogleAPIError(err)
		}

		call := srv.Files.List().
			Q(q).
			PageSize(int64(input.PageSize)).
			Fields(fileListFields).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)

		if input.DriveID != "" {
			call = call.DriveId(input.DriveID).Corpora("drive")
		}
		if input.PageToken != "" {
			call = call.PageToken(input.PageToken)
		}

		result, err := call.Do()
		if err != nil {
			return nil, SearchFilesOutput{}, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		if len(result.Files) == 0 {
			rb.Line("No files found for query %q.", input.Query)
			return rb.TextResult(), SearchFilesOutput{Query: q}, nil
		}

		files := make([]FileSummary, 0, len(result.Files))
		rb.Header("Found %d files", len(result.Files))
		for _, f := range result.Files {
			fs := fileToSummary(f)
			files = append(files, fs)
			rb.Item("%s (%s)", fs.Name, formatFileType(fs.MimeType))
			rb.Line("    ID: %s", fs.ID)
		}
		if result.NextPageToken != "" {
			rb.Blank()
			rb.KeyValue("Next page token", result.NextPageToken)
		}

		return rb.TextResult(), SearchFilesOutput{
			Files:         files,
			Query:         q,
			NextPageToken: result.NextPageToken,
			ResultCount:   len(files),
		}, nil
	}
}

// --- list_drive_items ---

type ListItemsInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	FolderID  string `json:"folder_id,omitempty" jsonschema_description:"Folder ID to list (default: root)"`
	FileType  string `json:"file_type,omitempty" jsonschema_description:"Restrict results to a file type: doc, sheet, folder, ... or a raw MIME type"`
	PageSize  int    `json:"page_size,omitempty" jsonschema_description:"Maximum results (default 25)"`
	PageToken string `json:"page_token,omitempty" jsonschema_description:"Token for pagination"`
}

type ListItemsOutput struct {
	Files         []FileSummary `json:"files"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

func createListItemsHandler(factory *services.Factory) mcp.ToolHandlerFor[ListItemsInput, ListItemsOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListItemsInput) (*mcp.CallToolResult, ListItemsOutput, error) {
		if input.PageSize == 0 {
			input.PageSize = 25
		}

		folderID := input.FolderID
		if folderID == "" {
			folderID = "root"
		}
		if err := validate.DriveID(folderID); err != nil {
			return nil, ListItemsOutput{}, err
		}

		mime, err := resolveFileTypeMime(input.FileType)
		if err != nil {
			return nil, ListItemsOutput{}, err
		}

		srv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, ListItemsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		call := srv.Files.List().
			Q(buildListQuery(folderID, mime)).
			PageSize(int64(input.PageSize)).
			Fields(fileListFields).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			OrderBy("folder,name").
			Context(ctx)

		if input.PageToken != "" {
			call = call.PageToken(input.PageToken)
		}

		result, err := call.Do()
		if err != nil {
			return nil, ListItemsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		if len(result.Files) == 0 {
			rb.Line("No items found in folder %s.", folderID)
			return rb.TextResult(), ListItemsOutput{}, nil
		}

		files := make([]FileSummary, 0, len(result.Files))
		rb.Header("Found %d items", len(result.Files))
		rb.KeyValue("Folder", folderID)
		if result.NextPageToken != "" {
			rb.KeyValue("Next page token", result.NextPageToken)
		}
		rb.Blank()
		for _, f := range result.Files {
			fs := fileToSummary(f)
			files = append(files, fs)
			rb.Item("%s (%s)", fs.Name, formatFileType(fs.MimeType))
			rb.Line("    ID: %s", fs.ID)
		}

		return rb.TextResult(), ListItemsOutput{Files: files, NextPageToken: result.NextPageToken}, nil
	}
}

// --- get_drive_file_content ---

type GetFileContentInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	FileID    string `json:"file_id" jsonschema:"required" jsonschema_description:"The Google Drive file ID"`
}

func createGetFileContentHandler(factory *services.Factory) mcp.ToolHandlerFor[GetFileContentInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetFileContentInput) (*mcp.CallToolResult, any, error) {
		srv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		file, err := srv.Files.Get(input.FileID).
			Fields("id, name, mimeType, size, webViewLink").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		var body io.ReadCloser
		if isGoogleNativeType(file.MimeType) {
			exportMime := mimeTypeForExport(file.MimeType)
			if exportMime == "" {
				return nil, nil, fmt.Errorf("file type %s cannot be exported as text", file.MimeType)
			}
			resp, err := srv.Files.Export(input.FileID, exportMime).Context(ctx).Download()
			if err != nil {
				return nil, nil, middleware.HandleGoogleAPIError(err)
			}
			body = resp.Body
		} else {
			resp, err := srv.Files.Get(input.FileID).SupportsAllDrives(true).Context(ctx).Download()
			if err != nil {
				return nil, nil, middleware.HandleGoogleAPIError(err)
			}
			body = resp.Body
		}
		defer body.Close()

		data, err := io.ReadAll(body)
		if err != nil {
			return nil, nil, fmt.Errorf("reading file content: %w", err)
		}

		text := string(data)
		if office.IsOfficeType(file.MimeType) {
			extracted, err := office.ExtractText(data, file.MimeType)
			if err != nil {
				return nil, nil, fmt.Errorf("extracting text from %s: %w", file.Name, err)
			}
			text = extracted
		}

		rb := response.New()
		rb.Header("%s", file.Name)
		rb.KeyValue("ID", file.Id)
		rb.KeyValue("Type", formatFileType(file.MimeType))
		if size := formatSize(file.Size); size != "" {
			rb.KeyValue("Size", size)
		}
		rb.Separator()
		rb.Raw(text)

		return rb.TextResult(), nil, nil
	}
}

// --- get_drive_file_download_url ---

type GetDownloadURLInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	FileID    string `json:"file_id" jsonschema:"required" jsonschema_description:"The Google Drive file ID"`
}

func createGetDownloadURLHandler(factory *services.Factory) mcp.ToolHandlerFor[GetDownloadURLInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetDownloadURLInput) (*mcp.CallToolResult, any, error) {
		srv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		file, err := srv.Files.Get(input.FileID).
			Fields("id, name, mimeType, webContentLink, exportLinks").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		rb.Header("Download URL")
		rb.KeyValue("Name", file.Name)
		rb.KeyValue("Type", formatFileType(file.MimeType))

		if isGoogleNativeType(file.MimeType) {
			exportMime := mimeTypeForDownloadURL(file.MimeType)
			url, ok := file.ExportLinks[exportMime]
			if !ok {
				return nil, nil, fmt.Errorf("no export available for file type %s", file.MimeType)
			}
			rb.KeyValue("URL", url)
			rb.KeyValue("Format", exportMime)
		} else {
			if file.WebContentLink == "" {
				return nil, nil, fmt.Errorf("file has no direct download link")
			}
			rb.KeyValue("URL", file.WebContentLink)
		}

		return rb.TextResult(), nil, nil
	}
}

// --- create_drive_file ---

type CreateFileInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	FileName  string `json:"file_name" jsonschema:"required" jsonschema_description:"Name for the new file"`
	Content   string `json:"content,omitempty" jsonschema_description:"Text content to write to the file"`
	FolderID  string `json:"folder_id,omitempty" jsonschema_description:"ID of the parent folder (default: root)"`
	MimeType  string `json:"mime_type,omitempty" jsonschema_description:"MIME type of the file (default: text/plain)"`
}

func createCreateFileHandler(factory *services.Factory) mcp.ToolHandlerFor[CreateFileInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateFileInput) (*mcp.CallToolResult, any, error) {
		srv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		if input.MimeType == "" {
			input.MimeType = "text/plain"
		}

		fileMetadata := &drive.File{
			Name:     input.FileName,
			MimeType: input.MimeType,
		}
		if input.FolderID != "" {
			fileMetadata.Parents = []string{input.FolderID}
		}

		call := srv.Files.Create(fileMetadata).
			Fields("id, name, mimeType, webViewLink").
			SupportsAllDrives(true).
			Context(ctx)
		if input.Content != "" {
			call = call.Media(strings.NewReader(input.Content))
		}

		created, err := call.Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		rb.Header("File Created")
		rb.KeyValue("Name", created.Name)
		rb.KeyValue("ID", created.Id)
		rb.KeyValue("Type", formatFileType(created.MimeType))
		if created.WebViewLink != "" {
			rb.KeyValue("Link", created.WebViewLink)
		}

		return rb.TextResult(), nil, nil
	}
}

// --- create_drive_folder ---

type CreateFolderInput struct {
	UserEmail      string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	FolderName     string `json:"folder_name" jsonschema:"required" jsonschema_description:"Name for the new folder"`
	ParentFolderID string `json:"parent_folder_id,omitempty" jsonschema_description:"ID of the parent folder (default: root)"`
}

type CreateFolderOutput struct {
	FolderID    string `json:"folder_id"`
	Name        string `json:"name"`
	WebViewLink string `json:"web_view_link,omitempty"`
}

func createCreateFolderHandler(factory *services.Factory) mcp.ToolHandlerFor[CreateFolderInput, CreateFolderOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateFolderInput) (*mcp.CallToolResult, CreateFolderOutput, error) {
		srv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, CreateFolderOutput{}, middleware.HandleGoogleAPIError(err)
		}

		parentID := input.ParentFolderID
		if parentID == "" {
			parentID = "root"
		}
		if err := validate.DriveID(parentID); err != nil {
			return nil, CreateFolderOutput{}, err
		}

		resolvedParent, err := resolveFolderID(ctx, srv, parentID)
		if err != nil {
			return nil, CreateFolderOutput{}, middleware.HandleGoogleAPIError(err)
		}

		created, err := srv.Files.Create(&drive.File{
			Name:     input.FolderName,
			MimeType: mimeFolder,
			Parents:  []string{resolvedParent},
		}).
			Fields("id, name, webViewLink").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return nil, CreateFolderOutput{}, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		rb.Line("Successfully created folder '%s' for %s.", created.Name, input.UserEmail)
		rb.KeyValue("ID", created.Id)
		rb.KeyValue("Parent", parentID)
		if created.WebViewLink != "" {
			rb.KeyValue("Link", created.WebViewLink)
		}

		return rb.TextResult(), CreateFolderOutput{
			FolderID:    created.Id,
			Name:        created.Name,
			WebViewLink: created.WebViewLink,
		}, nil
	}
}

// --- share_drive_file ---

type ShareFileInput struct {
	UserEmail        string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	FileID           string `json:"file_id" jsonschema:"required" jsonschema_description:"The Google Drive file ID to share"`
	ShareWith        string `json:"share_with,omitempty" jsonschema_description:"Email address (for user/group) or domain name. Omit for 'anyone' sharing."`
	Role             string `json:"role,omitempty" jsonschema_description:"Permission role: reader/commenter/writer (default: reader)"`
	ShareType        string `json:"share_type,omitempty" jsonschema_description:"Type of sharing: user/group/domain/anyone (default: user)"`
	SendNotification bool   `json:"send_notification,omitempty" jsonschema_description:"Whether to send a notification email"`
}

func createShareFileHandler(factory *services.Factory) mcp.ToolHandlerFor[ShareFileInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ShareFileInput) (*mcp.CallToolResult, any, error) {
		srv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		if input.Role == "" {
			input.Role = "reader"
		}
		if input.ShareType == "" {
			input.ShareType = "user"
		}

		perm := &drive.Permission{
			Type: input.ShareType,
			Role: input.Role,
		}
		if input.ShareWith != "" {
			if input.ShareType == "domain" {
				perm.Domain = input.ShareWith
			} else {
				if err := validate.Email(input.ShareWith); err != nil {
					return nil, nil, err
				}
				perm.EmailAddress = input.ShareWith
			}
		}

		created, err := srv.Permissions.Create(input.FileID, perm).
			SupportsAllDrives(true).
			SendNotificationEmail(input.SendNotification).
			Fields("id, type, role, emailAddress, displayName, domain").
			Context(ctx).
			Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		rb.Header("File Shared")
		rb.KeyValue("File", input.FileID)
		rb.KeyValue("Permission", formatPermission(created))

		return rb.TextResult(), nil, nil
	}
}

// resolveFolderID follows a shortcut to its target folder. Plain folder IDs
// (including "root") come back unchanged.
func resolveFolderID(ctx context.Context, srv *drive.Service, folderID string) (string, error) {
	if folderID == "root" {
		return folderID, nil
	}

	f, err := srv.Files.Get(folderID).
		Fields("id, mimeType, shortcutDetails").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}

	if f.MimeType == "application/vnd.google-apps.shortcut" && f.ShortcutDetails != nil {
		return f.ShortcutDetails.TargetId, nil
	}
	return folderID, nil
}
