package drive

import (
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/workspacemcp/workspace-mcp/internal/pkg/format"
)

// FileSummary is a compact representation of a Drive file.
type FileSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size,omitempty"`
	ModifiedTime string `json:"modified_time,omitempty"`
	WebViewLink  string `json:"web_view_link,omitempty"`
}

func fileToSummary(f *drive.File) FileSummary {
	return FileSummary{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		Size:         f.Size,
		ModifiedTime: f.ModifiedTime,
		WebViewLink:  f.WebViewLink,
	}
}

// formatFileType returns a human-readable file type from a MIME type.
func formatFileType(mimeType string) string {
	switch mimeType {
	case mimeDocument:
		return "Google Doc"
	case mimeSpreadsheet:
		return "Google Sheet"
	case mimePresentation:
		return "Google Slides"
	case mimeFolder:
		return "Folder"
	case mimeForm:
		return "Google Form"
	case mimeDrawing:
		return "Google Drawing"
	case "application/pdf":
		return "PDF"
	default:
		if strings.HasPrefix(mimeType, "image/") {
			return "Image"
		}
		if strings.HasPrefix(mimeType, "video/") {
			return "Video"
		}
		if strings.HasPrefix(mimeType, "audio/") {
			return "Audio"
		}
		return mimeType
	}
}

func formatSize(bytes int64) string {
	return format.ByteSize(bytes)
}

// formatPermission returns a human-readable description of a sharing permission.
func formatPermission(p *drive.Permission) string {
	switch p.Type {
	case "user":
		return fmt.Sprintf("%s (%s) - %s", p.DisplayName, p.EmailAddress, p.Role)
	case "group":
		return fmt.Sprintf("Group: %s - %s", p.EmailAddress, p.Role)
	case "domain":
		return fmt.Sprintf("Domain: %s - %s", p.Domain, p.Role)
	case "anyone":
		return fmt.Sprintf("Anyone with the link - %s", p.Role)
	default:
		return fmt.Sprintf("%s: %s - %s", p.Type, p.EmailAddress, p.Role)
	}
}

// mimeTypeForExport returns the text export MIME type for a Google
// Workspace native file, or "" when the type has no text export.
func mimeTypeForExport(googleMimeType string) string {
	switch googleMimeType {
	case mimeDocument:
		return "text/plain"
	case mimeSpreadsheet:
		return "text/csv"
	case mimePresentation:
		return "text/plain"
	case mimeDrawing:
		return "image/png"
	default:
		return ""
	}
}

// mimeTypeForDownloadURL returns the preferred binary export MIME type
// used to pick an entry from a file's exportLinks.
func mimeTypeForDownloadURL(googleMimeType string) string {
	switch googleMimeType {
	case mimeDocument:
		return "application/pdf"
	case mimeSpreadsheet:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case mimePresentation:
		return "application/pdf"
	default:
		return ""
	}
}

func isGoogleNativeType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "application/vnd.google-apps.")
}
