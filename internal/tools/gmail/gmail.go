package gmail

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/workspacemcp/workspace-mcp/internal/attachments"
	"github.com/workspacemcp/workspace-mcp/internal/auth"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/ptr"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

var serviceIcons = []mcp.Icon{{
	Source:   "https://www.gstatic.com/images/branding/product/1x/gmail_2020q4_48dp.png",
	MIMEType: "image/png",
	Sizes:    []string{"48x48"},
}}

// IncludeFunc decides whether a tool is registered under the active
// configuration, given its name, annotations, and required OAuth scopes.
type IncludeFunc = func(name string, ann *mcp.ToolAnnotations, required []string) bool

// Register registers the Gmail tools that pass the include filter. The
// attachment store and base URL back download_gmail_attachment; an empty
// base URL makes the tool report local file paths instead of URLs.
func Register(server *mcp.Server, factory *services.Factory, store *attachments.Storage, attachmentBaseURL string, include IncludeFunc) {
	searchTool := &mcp.Tool{
		Name:        "search_gmail_messages",
		Icons:       serviceIcons,
		Description: "Search Gmail messages using standard Gmail search query syntax. Returns message summaries with IDs for further retrieval.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Search Gmail Messages",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(searchTool.Name, searchTool.Annotations, []string{auth.GmailReadonlyScope}) {
		mcp.AddTool(server, searchTool, createSearchMessagesHandler(factory))
	}

	contentTool := &mcp.Tool{
		Name:        "get_gmail_message_content",
		Icons:       serviceIcons,
		Description: "Get the full content of a specific Gmail message including subject, sender, recipients, body text, and attachment metadata.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Gmail Message Content",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(contentTool.Name, contentTool.Annotations, []string{auth.GmailReadonlyScope}) {
		mcp.AddTool(server, contentTool, createGetMessageContentHandler(factory))
	}

	threadTool := &mcp.Tool{
		Name:        "get_gmail_thread_content",
		Icons:       serviceIcons,
		Description: "Get all messages in a Gmail thread, including full body content for each message.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Gmail Thread",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(threadTool.Name, threadTool.Annotations, []string{auth.GmailReadonlyScope}) {
		mcp.AddTool(server, threadTool, createGetThreadHandler(factory))
	}

	sendTool := &mcp.Tool{
		Name:        "send_gmail_message",
		Icons:       serviceIcons,
		Description: "Send an email using the user's Gmail account. Supports new emails and replies with threading.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Send Gmail Message",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(sendTool.Name, sendTool.Annotations, []string{auth.GmailSendScope}) {
		mcp.AddTool(server, sendTool, createSendMessageHandler(factory))
	}

	draftTool := &mcp.Tool{
		Name:        "draft_gmail_message",
		Icons:       serviceIcons,
		Description: "Create a draft email message that can be edited and sent later.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Draft Gmail Message",
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(draftTool.Name, draftTool.Annotations, []string{auth.GmailComposeScope}) {
		mcp.AddTool(server, draftTool, createDraftMessageHandler(factory))
	}

	labelsTool := &mcp.Tool{
		Name:        "list_gmail_labels",
		Icons:       serviceIcons,
		Description: "List all Gmail labels including system and user-created labels.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Gmail Labels",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(labelsTool.Name, labelsTool.Annotations, []string{auth.GmailLabelsScope}) {
		mcp.AddTool(server, labelsTool, createListLabelsHandler(factory))
	}

	modifyTool := &mcp.Tool{
		Name:        "modify_gmail_message_labels",
		Icons:       serviceIcons,
		Description: "Add or remove labels from a Gmail message.",
		Annotations: &mcp.ToolAnnotations{
			Title:          "Modify Message Labels",
			IdempotentHint: true,
			OpenWorldHint:  ptr.Bool(true),
		},
	}
	if include(modifyTool.Name, modifyTool.Annotations, []string{auth.GmailModifyScope}) {
		mcp.AddTool(server, modifyTool, createModifyLabelsHandler(factory))
	}

	downloadTool := &mcp.Tool{
		Name:        "download_gmail_attachment",
		Icons:       serviceIcons,
		Description: "Download a Gmail attachment to the server's attachment store and return a link for retrieving it.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Download Gmail Attachment",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr.Bool(true),
		},
	}
	if include(downloadTool.Name, downloadTool.Annotations, []string{auth.GmailReadonlyScope}) {
		mcp.AddTool(server, downloadTool, createDownloadAttachmentHandler(factory, store, attachmentBaseURL))
	}
}
