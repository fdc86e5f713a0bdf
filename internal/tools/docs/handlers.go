package docs

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	docspb "google.golang.org/api/docs/v1"

	"github.com/workspacemcp/workspace-mcp/internal/middleware"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/response"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/validate"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

const docMimeType = "application/vnd.google-apps.document"

// --- search_docs ---

type SearchDocsInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	Query     string `json:"query" jsonschema:"required" jsonschema_description:"Text to match against document names"`
	PageSize  int    `json:"page_size,omitempty" jsonschema_description:"Maximum results to return (default 10)"`
}

type DocSearchResult struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modified_time,omitempty"`
	WebViewLink  string `json:"web_view_link,omitempty"`
}

type SearchDocsOutput struct {
	Files []DocSearchResult `json:"files"`
}

func createSearchDocsHandler(factory *services.Factory) mcp.ToolHandlerFor[SearchDocsInput, SearchDocsOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocsInput) (*mcp.CallToolResult, SearchDocsOutput, error) {
		if input.PageSize == 0 {
			input.PageSize = 10
		}

		srv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, SearchDocsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		q := fmt.Sprintf("name contains '%s' and mimeType = '%s' and trashed = false",
			escapeQueryLiteral(input.Query), docMimeType)

		result, err := srv.Files.List().
			Q(q).
			PageSize(int64(input.PageSize)).
			Fields("files(id, name, modifiedTime, webViewLink)").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return nil, SearchDocsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		files := make([]DocSearchResult, 0, len(result.Files))
		rb := response.New()
		rb.Header("Google Docs Search Results")
		rb.KeyValue("Query", input.Query)
		rb.KeyValue("Results", len(result.Files))
		rb.Blank()

		for _, f := range result.Files {
			files = append(files, DocSearchResult{
				ID:           f.Id,
				Name:         f.Name,
				ModifiedTime: f.ModifiedTime,
				WebViewLink:  f.WebViewLink,
			})
			rb.Item("%s", f.Name)
			rb.Line("    ID: %s | Modified: %s", f.Id, f.ModifiedTime)
			if f.WebViewLink != "" {
				rb.Line("    Link: %s", f.WebViewLink)
			}
		}

		return rb.TextResult(), SearchDocsOutput{Files: files}, nil
	}
}

// --- get_doc_content ---

type GetDocContentInput struct {
	UserEmail  string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	DocumentID string `json:"document_id" jsonschema:"required" jsonschema_description:"The Google Docs document ID"`
}

func createGetDocContentHandler(factory *services.Factory) mcp.ToolHandlerFor[GetDocContentInput, DocContentOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetDocContentInput) (*mcp.CallToolResult, DocContentOutput, error) {
		srv, err := factory.Docs(ctx, input.UserEmail)
		if err != nil {
			return nil, DocContentOutput{}, middleware.HandleGoogleAPIError(err)
		}

		doc, err := srv.Documents.Get(input.DocumentID).Context(ctx).Do()
		if err != nil {
			return nil, DocContentOutput{}, middleware.HandleGoogleAPIError(err)
		}

		content := extractDocText(doc)

		rb := response.New()
		rb.Header("Document Content")
		rb.KeyValue("Title", doc.Title)
		rb.KeyValue("Document ID", doc.DocumentId)
		rb.Blank()
		rb.Raw(content)

		return rb.TextResult(), DocContentOutput{
			DocumentID: doc.DocumentId,
			Title:      doc.Title,
			Content:    content,
		}, nil
	}
}

// --- list_docs_in_folder ---

type ListDocsInFolderInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	FolderID  string `json:"folder_id" jsonschema:"required" jsonschema_description:"The Drive folder ID to list documents from"`
	PageSize  int    `json:"page_size,omitempty" jsonschema_description:"Maximum results (default 25)"`
}

type ListDocsInFolderOutput struct {
	Documents []DocSearchResult `json:"documents"`
}

func createListDocsInFolderHandler(factory *services.Factory) mcp.ToolHandlerFor[ListDocsInFolderInput, ListDocsInFolderOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListDocsInFolderInput) (*mcp.CallToolResult, ListDocsInFolderOutput, error) {
		if input.PageSize == 0 {
			input.PageSize = 25
		}
		if err := validate.DriveID(input.FolderID); err != nil {
			return nil, ListDocsInFolderOutput{}, err
		}

		srv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, ListDocsInFolderOutput{}, middleware.HandleGoogleAPIError(err)
		}

		q := fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false", input.FolderID, docMimeType)

		result, err := srv.Files.List().
			Q(q).
			PageSize(int64(input.PageSize)).
			Fields("files(id, name, modifiedTime, webViewLink)").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return nil, ListDocsInFolderOutput{}, middleware.HandleGoogleAPIError(err)
		}

		docs := make([]DocSearchResult, 0, len(result.Files))
		rb := response.New()
		rb.Header("Documents in Folder")
		rb.KeyValue("Folder ID", input.FolderID)
		rb.KeyValue("Count", len(result.Files))
		rb.Blank()

		for _, f := range result.Files {
			docs = append(docs, DocSearchResult{
				ID:           f.Id,
				Name:         f.Name,
				ModifiedTime: f.ModifiedTime,
				WebViewLink:  f.WebViewLink,
			})
			rb.Item("%s", f.Name)
			rb.Line("    ID: %s | Modified: %s", f.Id, f.ModifiedTime)
		}

		return rb.TextResult(), ListDocsInFolderOutput{Documents: docs}, nil
	}
}

// --- create_doc ---

type CreateDocInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	Title     string `json:"title" jsonschema:"required" jsonschema_description:"Title for the new document"`
	Content   string `json:"content,omitempty" jsonschema_description:"Initial text content to insert"`
}

func createCreateDocHandler(factory *services.Factory) mcp.ToolHandlerFor[CreateDocInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateDocInput) (*mcp.CallToolResult, any, error) {
		srv, err := factory.Docs(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		created, err := srv.Documents.Create(&docspb.Document{
			Title: input.Title,
		}).Context(ctx).Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		if input.Content != "" {
			_, err = srv.Documents.BatchUpdate(created.DocumentId, &docspb.BatchUpdateDocumentRequest{
				Requests: []*docspb.Request{{
					InsertText: &docspb.InsertTextRequest{
						Text:     input.Content,
						Location: &docspb.Location{Index: 1},
					},
				}},
			}).Context(ctx).Do()
			if err != nil {
				return nil, nil, middleware.HandleGoogleAPIError(err)
			}
		}

		rb := response.New()
		rb.Header("Document Created")
		rb.KeyValue("Title", created.Title)
		rb.KeyValue("Document ID", created.DocumentId)
		rb.KeyValue("Link", fmt.Sprintf("https://docs.google.com/document/d/%s/edit", created.DocumentId))

		return rb.TextResult(), nil, nil
	}
}

// --- modify_doc_text ---

type ModifyDocTextInput struct {
	UserEmail       string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	DocumentID      string `json:"document_id" jsonschema:"required" jsonschema_description:"The document ID to update"`
	StartIndex      int64  `json:"start_index" jsonschema:"required" jsonschema_description:"Start position for operation (1-based)"`
	EndIndex        *int64 `json:"end_index,omitempty" jsonschema_description:"End position for text replacement/formatting. Without it, text is inserted."`
	Text            string `json:"text,omitempty" jsonschema_description:"New text to insert or replace with"`
	Bold            *bool  `json:"bold,omitempty" jsonschema_description:"Make text bold (true/false)"`
	Italic          *bool  `json:"italic,omitempty" jsonschema_description:"Make text italic (true/false)"`
	Underline       *bool  `json:"underline,omitempty" jsonschema_description:"Underline text (true/false)"`
	FontSize        *int   `json:"font_size,omitempty" jsonschema_description:"Font size in points"`
	FontFamily      string `json:"font_family,omitempty" jsonschema_description:"Font family name (e.g. Arial)"`
	TextColor       string `json:"text_color,omitempty" jsonschema_description:"Text color as hex (#RRGGBB)"`
	BackgroundColor string `json:"background_color,omitempty" jsonschema_description:"Background/highlight color as hex (#RRGGBB)"`
}

func createModifyDocTextHandler(factory *services.Factory) mcp.ToolHandlerFor[ModifyDocTextInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ModifyDocTextInput) (*mcp.CallToolResult, any, error) {
		srv, err := factory.Docs(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		requests := make([]*docspb.Request, 0, 2)
		operations := make([]string, 0, 2)

		if input.Text != "" {
			if input.EndIndex != nil {
				// Replace is delete-then-insert at the same position.
				requests = append(requests,
					&docspb.Request{
						DeleteContentRange: &docspb.DeleteContentRangeRequest{
							Range: &docspb.Range{
								StartIndex: input.StartIndex,
								EndIndex:   *input.EndIndex,
							},
						},
					},
					&docspb.Request{
						InsertText: &docspb.InsertTextRequest{
							Text:     input.Text,
							Location: &docspb.Location{Index: input.StartIndex},
						},
					},
				)
				operations = append(operations, fmt.Sprintf("Replaced text at %d-%d", input.StartIndex, *input.EndIndex))
			} else {
				requests = append(requests, &docspb.Request{
					InsertText: &docspb.InsertTextRequest{
						Text:     input.Text,
						Location: &docspb.Location{Index: input.StartIndex},
					},
				})
				operations = append(operations, fmt.Sprintf("Inserted text at %d", input.StartIndex))
			}
		}

		style := buildTextStyle(input.Bold, input.Italic, input.Underline, input.FontSize, input.FontFamily, input.TextColor, input.BackgroundColor)
		if style != nil {
			endIndex := input.StartIndex + int64(len(input.Text))
			if input.EndIndex != nil && input.Text == "" {
				endIndex = *input.EndIndex
			}
			fields := buildTextStyleFields(input.Bold, input.Italic, input.Underline, input.FontSize, input.FontFamily, input.TextColor, input.BackgroundColor)

			requests = append(requests, &docspb.Request{
				UpdateTextStyle: &docspb.UpdateTextStyleRequest{
					TextStyle: style,
					Range: &docspb.Range{
						StartIndex: input.StartIndex,
						EndIndex:   endIndex,
					},
					Fields: fields,
				},
			})
			operations = append(operations, fmt.Sprintf("Applied formatting (%s)", fields))
		}

		if len(requests) == 0 {
			return nil, nil, fmt.Errorf("no operation specified: provide text to insert/replace or formatting parameters")
		}

		_, err = srv.Documents.BatchUpdate(input.DocumentID, &docspb.BatchUpdateDocumentRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		rb.Header("Document Modified")
		rb.KeyValue("Document ID", input.DocumentID)
		for _, op := range operations {
			rb.Item("%s", op)
		}

		return rb.TextResult(), nil, nil
	}
}

// --- find_and_replace_doc ---

type FindAndReplaceDocInput struct {
	UserEmail   string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	DocumentID  string `json:"document_id" jsonschema:"required" jsonschema_description:"The document ID"`
	FindText    string `json:"find_text" jsonschema:"required" jsonschema_description:"Text to find"`
	ReplaceText string `json:"replace_text" jsonschema:"required" jsonschema_description:"Text to replace with"`
	MatchCase   bool   `json:"match_case,omitempty" jsonschema_description:"Case-sensitive matching (default false)"`
}

func createFindAndReplaceDocHandler(factory *services.Factory) mcp.ToolHandlerFor[FindAndReplaceDocInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input FindAndReplaceDocInput) (*mcp.CallToolResult, any, error) {
		srv, err := factory.Docs(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		result, err := srv.Documents.BatchUpdate(input.DocumentID, &docspb.BatchUpdateDocumentRequest{
			Requests: []*docspb.Request{{
				ReplaceAllText: &docspb.ReplaceAllTextRequest{
					ContainsText: &docspb.SubstringMatchCriteria{
						Text:      input.FindText,
						MatchCase: input.MatchCase,
					},
					ReplaceText: input.ReplaceText,
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		replacements := 0
		if len(result.Replies) > 0 && result.Replies[0].ReplaceAllText != nil {
			replacements = int(result.Replies[0].ReplaceAllText.OccurrencesChanged)
		}

		rb := response.New()
		rb.Header("Find and Replace Complete")
		rb.KeyValue("Document ID", input.DocumentID)
		rb.KeyValue("Find", input.FindText)
		rb.KeyValue("Replace", input.ReplaceText)
		rb.KeyValue("Replacements", replacements)

		return rb.TextResult(), nil, nil
	}
}

// --- export_doc_to_pdf ---

type ExportDocToPDFInput struct {
	UserEmail  string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	DocumentID string `json:"document_id" jsonschema:"required" jsonschema_description:"The document ID to export"`
}

type ExportDocToPDFOutput struct {
	DocumentID  string `json:"document_id"`
	Title       string `json:"title"`
	DownloadURL string `json:"download_url"`
}

func createExportDocToPDFHandler(factory *services.Factory) mcp.ToolHandlerFor[ExportDocToPDFInput, ExportDocToPDFOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ExportDocToPDFInput) (*mcp.CallToolResult, ExportDocToPDFOutput, error) {
		srv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, ExportDocToPDFOutput{}, middleware.HandleGoogleAPIError(err)
		}

		file, err := srv.Files.Get(input.DocumentID).
			Fields("id, name, mimeType, exportLinks").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return nil, ExportDocToPDFOutput{}, middleware.HandleGoogleAPIError(err)
		}
		if file.MimeType != docMimeType {
			return nil, ExportDocToPDFOutput{}, fmt.Errorf("file %s is not a Google Doc (%s)", input.DocumentID, file.MimeType)
		}

		url, ok := file.ExportLinks["application/pdf"]
		if !ok {
			url = fmt.Sprintf("https://www.googleapis.com/drive/v3/files/%s/export?mimeType=application/pdf", input.DocumentID)
		}

		rb := response.New()
		rb.Header("Document Export URL")
		rb.KeyValue("Title", file.Name)
		rb.KeyValue("Document ID", input.DocumentID)
		rb.KeyValue("Format", "PDF")
		rb.KeyValue("Download URL", url)

		return rb.TextResult(), ExportDocToPDFOutput{
			DocumentID:  input.DocumentID,
			Title:       file.Name,
			DownloadURL: url,
		}, nil
	}
}
