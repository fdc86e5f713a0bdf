package gmail

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"

	"github.com/workspacemcp/workspace-mcp/internal/attachments"
	"github.com/workspacemcp/workspace-mcp/internal/middleware"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/response"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/validate"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

// --- search_gmail_messages ---

type SearchMessagesInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	Query     string `json:"query" jsonschema:"required" jsonschema_description:"Gmail search query using standard Gmail search operators"`
	PageSize  int    `json:"page_size,omitempty" jsonschema_description:"Maximum number of results to return (default 10)"`
	PageToken string `json:"page_token,omitempty" jsonschema_description:"Token for retrieving the next page of results"`
}

type SearchMessagesOutput struct {
	Messages      []MessageSummary `json:"messages"`
	Query         string           `json:"query"`
	NextPageToken string           `json:"next_page_token,omitempty"`
	ResultCount   int              `json:"result_count"`
}

func createSearchMessagesHandler(factory *services.Factory) mcp.ToolHandlerFor[SearchMessagesInput, SearchMessagesOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchMessagesInput) (*mcp.CallToolResult, SearchMessagesOutput, error) {
		if input.PageSize == 0 {
			input.PageSize = 10
		}

		srv, err := factory.Gmail(ctx, input.UserEmail)
		if err != nil {
			return nil, SearchMessagesOutput{}, middleware.HandleGoogleAPIError(err)
		}

		result, err := srv.Users.Messages.List(input.UserEmail).
			Q(input.Query).
			MaxResults(int64(input.PageSize)).
			PageToken(input.PageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, SearchMessagesOutput{}, middleware.HandleGoogleAPIError(err)
		}

		// The list call only returns IDs; fetch headers per message.
		summaries := make([]MessageSummary, 0, len(result.Messages))
		for _, m := range result.Messages {
			msg, err := srv.Users.Messages.Get(input.UserEmail, m.Id).
				Format("metadata").
				MetadataHeaders("Subject", "From", "To", "Date").
				Context(ctx).
				Do()
			if err != nil {
				continue
			}
			summaries = append(summaries, messageToSummary(msg))
		}

		rb := response.New()
		rb.Header("Gmail Search Results")
		rb.KeyValue("Query", input.Query)
		rb.KeyValue("Results", len(summaries))
		if result.NextPageToken != "" {
			rb.KeyValue("Next page token", result.NextPageToken)
		}
		rb.Blank()
		for _, s := range summaries {
			rb.Item("Subject: %s", s.Subject)
			rb.Line("    From: %s | Date: %s", s.From, s.Date)
			rb.Line("    ID: %s (Thread: %s)", s.ID, s.ThreadID)
		}

		return rb.TextResult(), SearchMessagesOutput{
			Messages:      summaries,
			Query:         input.Query,
			NextPageToken: result.NextPageToken,
			ResultCount:   len(summaries),
		}, nil
	}
}

// --- get_gmail_message_content ---

type GetMessageContentInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	MessageID string `json:"message_id" jsonschema:"required" jsonschema_description:"The unique ID of the Gmail message to retrieve"`
}

type GetMessageContentOutput struct {
	Message MessageDetail `json:"message"`
}

func createGetMessageContentHandler(factory *services.Factory) mcp.ToolHandlerFor[GetMessageContentInput, GetMessageContentOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetMessageContentInput) (*mcp.CallToolResult, GetMessageContentOutput, error) {
		srv, err := factory.Gmail(ctx, input.UserEmail)
		if err != nil {
			return nil, GetMessageContentOutput{}, middleware.HandleGoogleAPIError(err)
		}

		msg, err := srv.Users.Messages.Get(input.UserEmail, input.MessageID).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			return nil, GetMessageContentOutput{}, middleware.HandleGoogleAPIError(err)
		}

		detail := messageToDetail(msg)

		rb := response.New()
		rb.Header("Gmail Message")
		rb.KeyValue("Subject", detail.Subject)
		rb.KeyValue("From", detail.From)
		rb.KeyValue("To", detail.To)
		if detail.CC != "" {
			rb.KeyValue("CC", detail.CC)
		}
		rb.KeyValue("Date", detail.Date)
		rb.KeyValue("Message ID", detail.ID)
		if len(detail.Attachments) > 0 {
			rb.Blank()
			rb.Section("Attachments")
			for _, a := range detail.Attachments {
				rb.Item("%s (%s, %s)", a.Filename, a.MimeType, formatAttachmentSize(a.Size))
				rb.Line("    Attachment ID: %s", a.AttachmentID)
			}
		}
		rb.Blank()
		rb.Section("Body")
		rb.Raw(detail.Body)

		return rb.TextResult(), GetMessageContentOutput{Message: detail}, nil
	}
}

// --- get_gmail_thread_content ---

type GetThreadInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	ThreadID  string `json:"thread_id" jsonschema:"required" jsonschema_description:"The Gmail thread ID"`
}

type GetThreadOutput struct {
	ThreadID string          `json:"thread_id"`
	Messages []MessageDetail `json:"messages"`
}

func createGetThreadHandler(factory *services.Factory) mcp.ToolHandlerFor[GetThreadInput, GetThreadOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetThreadInput) (*mcp.CallToolResult, GetThreadOutput, error) {
		srv, err := factory.Gmail(ctx, input.UserEmail)
		if err != nil {
			return nil, GetThreadOutput{}, middleware.HandleGoogleAPIError(err)
		}

		thread, err := srv.Users.Threads.Get(input.UserEmail, input.ThreadID).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			return nil, GetThreadOutput{}, middleware.HandleGoogleAPIError(err)
		}

		messages := make([]MessageDetail, 0, len(thread.Messages))
		rb := response.New()
		rb.Header("Gmail Thread")
		rb.KeyValue("Thread ID", thread.Id)
		rb.KeyValue("Messages", len(thread.Messages))
		rb.Blank()

		for _, msg := range thread.Messages {
			detail := messageToDetail(msg)
			messages = append(messages, detail)

			rb.Separator()
			rb.KeyValue("Subject", detail.Subject)
			rb.KeyValue("From", detail.From)
			rb.KeyValue("Date", detail.Date)
			rb.Blank()
			rb.Raw(detail.Body)
			if len(detail.Attachments) > 0 {
				rb.Blank()
				rb.Section("Attachments (%d)", len(detail.Attachments))
				for _, a := range detail.Attachments {
					rb.Item("%s (%s, %s)", a.Filename, a.MimeType, formatAttachmentSize(a.Size))
					rb.Line("    Attachment ID: %s", a.AttachmentID)
				}
			}
			rb.Blank()
		}

		return rb.TextResult(), GetThreadOutput{ThreadID: thread.Id, Messages: messages}, nil
	}
}

// --- send_gmail_message ---

type SendMessageInput struct {
	UserEmail  string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	To         string `json:"to" jsonschema:"required" jsonschema_description:"Recipient email address"`
	Subject    string `json:"subject" jsonschema:"required" jsonschema_description:"Email subject"`
	Body       string `json:"body" jsonschema:"required" jsonschema_description:"Email body content (plain text)"`
	CC         string `json:"cc,omitempty" jsonschema_description:"CC email address"`
	BCC        string `json:"bcc,omitempty" jsonschema_description:"BCC email address"`
	ThreadID   string `json:"thread_id,omitempty" jsonschema_description:"Gmail thread ID to reply within"`
	InReplyTo  string `json:"in_reply_to,omitempty" jsonschema_description:"Message-ID of the message being replied to"`
	References string `json:"references,omitempty" jsonschema_description:"Chain of Message-IDs for proper threading"`
}

func createSendMessageHandler(factory *services.Factory) mcp.ToolHandlerFor[SendMessageInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SendMessageInput) (*mcp.CallToolResult, any, error) {
		if err := validate.Email(input.To); err != nil {
			return nil, nil, err
		}

		srv, err := factory.Gmail(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		gmailMsg := &gmail.Message{
			Raw: buildRawMessage(input.To, input.Subject, input.Body, input.CC, input.BCC, input.InReplyTo, input.References),
		}
		if input.ThreadID != "" {
			gmailMsg.ThreadId = input.ThreadID
		}

		sent, err := srv.Users.Messages.Send(input.UserEmail, gmailMsg).
			Context(ctx).
			Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		rb.Header("Message Sent")
		rb.KeyValue("To", input.To)
		rb.KeyValue("Subject", input.Subject)
		rb.KeyValue("Message ID", sent.Id)
		rb.KeyValue("Thread ID", sent.ThreadId)
		if input.CC != "" {
			rb.KeyValue("CC", input.CC)
		}

		return rb.TextResult(), nil, nil
	}
}

// --- draft_gmail_message ---

type DraftMessageInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	Subject   string `json:"subject" jsonschema:"required" jsonschema_description:"Email subject"`
	Body      string `json:"body" jsonschema:"required" jsonschema_description:"Email body content"`
	To        string `json:"to,omitempty" jsonschema_description:"Recipient email address (optional for drafts)"`
	CC        string `json:"cc,omitempty" jsonschema_description:"CC email address"`
	BCC       string `json:"bcc,omitempty" jsonschema_description:"BCC email address"`
	ThreadID  string `json:"thread_id,omitempty" jsonschema_description:"Thread ID to reply in"`
}

func createDraftMessageHandler(factory *services.Factory) mcp.ToolHandlerFor[DraftMessageInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DraftMessageInput) (*mcp.CallToolResult, any, error) {
		srv, err := factory.Gmail(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		msg := &gmail.Message{
			Raw: buildRawMessage(input.To, input.Subject, input.Body, input.CC, input.BCC, "", ""),
		}
		if input.ThreadID != "" {
			msg.ThreadId = input.ThreadID
		}

		draft, err := srv.Users.Drafts.Create(input.UserEmail, &gmail.Draft{
			Message: msg,
		}).Context(ctx).Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		rb.Header("Draft Created")
		rb.KeyValue("Draft ID", draft.Id)
		rb.KeyValue("Subject", input.Subject)
		if input.To != "" {
			rb.KeyValue("To", input.To)
		}
		if draft.Message != nil {
			rb.KeyValue("Message ID", draft.Message.Id)
		}

		return rb.TextResult(), nil, nil
	}
}

// --- list_gmail_labels ---

type ListLabelsInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
}

type LabelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type ListLabelsOutput struct {
	Labels []LabelInfo `json:"labels"`
}

func createListLabelsHandler(factory *services.Factory) mcp.ToolHandlerFor[ListLabelsInput, ListLabelsOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListLabelsInput) (*mcp.CallToolResult, ListLabelsOutput, error) {
		srv, err := factory.Gmail(ctx, input.UserEmail)
		if err != nil {
			return nil, ListLabelsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		result, err := srv.Users.Labels.List(input.UserEmail).Context(ctx).Do()
		if err != nil {
			return nil, ListLabelsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		labels := make([]LabelInfo, 0, len(result.Labels))
		rb := response.New()
		rb.Header("Gmail Labels")
		rb.KeyValue("Count", len(result.Labels))
		rb.Blank()

		for _, l := range result.Labels {
			labels = append(labels, LabelInfo{
				ID:   l.Id,
				Name: l.Name,
				Type: l.Type,
			})
			rb.Item("%s (%s)", l.Name, l.Type)
			rb.Line("    ID: %s", l.Id)
		}

		return rb.TextResult(), ListLabelsOutput{Labels: labels}, nil
	}
}

// --- modify_gmail_message_labels ---

type ModifyLabelsInput struct {
	UserEmail    string   `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	MessageID    string   `json:"message_id" jsonschema:"required" jsonschema_description:"The message ID to modify"`
	AddLabels    []string `json:"add_label_ids,omitempty" jsonschema_description:"Label IDs to add"`
	RemoveLabels []string `json:"remove_label_ids,omitempty" jsonschema_description:"Label IDs to remove"`
}

func createModifyLabelsHandler(factory *services.Factory) mcp.ToolHandlerFor[ModifyLabelsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ModifyLabelsInput) (*mcp.CallToolResult, any, error) {
		if len(input.AddLabels) == 0 && len(input.RemoveLabels) == 0 {
			return nil, nil, fmt.Errorf("specify at least one label to add or remove")
		}

		srv, err := factory.Gmail(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		_, err = srv.Users.Messages.Modify(input.UserEmail, input.MessageID, &gmail.ModifyMessageRequest{
			AddLabelIds:    input.AddLabels,
			RemoveLabelIds: input.RemoveLabels,
		}).Context(ctx).Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		rb.Header("Message Labels Modified")
		rb.KeyValue("Message ID", input.MessageID)
		if len(input.AddLabels) > 0 {
			rb.KeyValue("Added", input.AddLabels)
		}
		if len(input.RemoveLabels) > 0 {
			rb.KeyValue("Removed", input.RemoveLabels)
		}

		return rb.TextResult(), nil, nil
	}
}

// --- download_gmail_attachment ---

type DownloadAttachmentInput struct {
	UserEmail    string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	MessageID    string `json:"message_id" jsonschema:"required" jsonschema_description:"The message ID containing the attachment"`
	AttachmentID string `json:"attachment_id" jsonschema:"required" jsonschema_description:"The attachment ID to download"`
	Filename     string `json:"filename,omitempty" jsonschema_description:"Attachment filename, used to resolve metadata when the ID alone is ambiguous"`
}

type DownloadAttachmentOutput struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	MimeType    string `json:"mime_type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url,omitempty"`
	LocalPath   string `json:"local_path,omitempty"`
}

func createDownloadAttachmentHandler(factory *services.Factory, store *attachments.Storage, baseURL string) mcp.ToolHandlerFor[DownloadAttachmentInput, DownloadAttachmentOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DownloadAttachmentInput) (*mcp.CallToolResult, DownloadAttachmentOutput, error) {
		srv, err := factory.Gmail(ctx, input.UserEmail)
		if err != nil {
			return nil, DownloadAttachmentOutput{}, middleware.HandleGoogleAPIError(err)
		}

		var attachment *gmail.MessagePartBody
		err = middleware.WithRetry(ctx, middleware.DefaultMaxRetries, func() error {
			attachment, err = srv.Users.Messages.Attachments.Get(input.UserEmail, input.MessageID, input.AttachmentID).
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			return nil, DownloadAttachmentOutput{}, middleware.HandleGoogleAPIError(err)
		}
		if attachment.Size > maxAttachmentSize {
			return nil, DownloadAttachmentOutput{}, fmt.Errorf("attachment too large: %s (max %s)",
				formatAttachmentSize(attachment.Size), formatAttachmentSize(maxAttachmentSize))
		}

		data, err := decodeBase64(attachment.Data)
		if err != nil {
			return nil, DownloadAttachmentOutput{}, fmt.Errorf("decoding attachment data: %w", err)
		}

		mimeType, filename := "application/octet-stream", input.Filename
		if filename == "" {
			filename = "attachment"
		}
		if msg, err := srv.Users.Messages.Get(input.UserEmail, input.MessageID).
			Format("full").
			Fields("payload").
			Context(ctx).
			Do(); err == nil && msg.Payload != nil {
			if info := findAttachmentPart(msg.Payload, input.AttachmentID, input.Filename); info != nil {
				mimeType = info.MimeType
				if info.Filename != "" {
					filename = info.Filename
				}
			}
		}

		fileID, err := store.Store(filename, mimeType, data)
		if err != nil {
			return nil, DownloadAttachmentOutput{}, fmt.Errorf("storing attachment: %w", err)
		}

		output := DownloadAttachmentOutput{
			FileID:   fileID,
			Filename: filename,
			MimeType: mimeType,
			Size:     int64(len(data)),
		}

		rb := response.New()
		rb.Header("Attachment Downloaded")
		rb.KeyValue("Filename", filename)
		rb.KeyValue("Type", mimeType)
		rb.KeyValue("Size", formatAttachmentSize(output.Size))
		if baseURL != "" {
			output.DownloadURL = fmt.Sprintf("%s/attachments/%s", baseURL, fileID)
			rb.KeyValue("Download URL", output.DownloadURL)
		} else {
			output.LocalPath = store.Path(fileID)
			rb.KeyValue("Saved to", output.LocalPath)
		}

		return rb.TextResult(), output, nil
	}
}
