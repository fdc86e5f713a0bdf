package drive

import (
	"strings"
	"testing"
)

func TestResolveFileTypeMime(t *testing.T) {
	tests := []struct {
		name     string
		fileType string
		want     string
		wantErr  string
	}{
		{"empty means no filter", "", "", ""},
		{"doc alias", "doc", mimeDocument, ""},
		{"document alias", "document", mimeDocument, ""},
		{"sheet alias", "sheet", mimeSpreadsheet, ""},
		{"spreadsheet alias", "spreadsheet", mimeSpreadsheet, ""},
		{"folder alias", "folder", mimeFolder, ""},
		{"presentation alias", "presentation", mimePresentation, ""},
		{"pdf alias", "pdf", "application/pdf", ""},
		{"image category alias", "image", "image/", ""},
		{"video category alias", "video", "video/", ""},
		{"audio category alias", "audio", "audio/", ""},
		{"text category alias", "text", "text/", ""},
		{"alias is case-insensitive", "Folder", mimeFolder, ""},
		{"raw MIME passthrough", "application/pdf", "application/pdf", ""},
		{"raw vendor MIME passthrough", "application/vnd.google-apps.spreadsheet", "application/vnd.google-apps.spreadsheet", ""},
		{"unknown friendly name", "notatype", "", "unknown file_type"},
		{"raw MIME with embedded quote", "application/pdf' or '1'='1", "", "quote characters"},
		{"whitespace-only file_type", "   ", "", "blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFileTypeMime(tt.fileType)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("resolveFileTypeMime(%q) error = %v, want containing %q", tt.fileType, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveFileTypeMime(%q) unexpected error: %v", tt.fileType, err)
			}
			if got != tt.want {
				t.Errorf("resolveFileTypeMime(%q) = %q, want %q", tt.fileType, got, tt.want)
			}
		})
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		mime  string
		want  string
	}{
		{
			name:  "free text is wrapped in fullText",
			query: "my doc",
			want:  "fullText contains 'my doc'",
		},
		{
			name:  "structured query passes through",
			query: "name contains 'budget'",
			want:  "name contains 'budget'",
		},
		{
			name:  "free text with mime filter",
			query: "my",
			mime:  mimeFolder,
			want:  "fullText contains 'my' and mimeType = 'application/vnd.google-apps.folder'",
		},
		{
			name:  "structured query with mime filter",
			query: "name contains 'budget'",
			mime:  mimeSpreadsheet,
			want:  "name contains 'budget' and mimeType = 'application/vnd.google-apps.spreadsheet'",
		},
		{
			name:  "no mime filter when unset",
			query: "anything",
			want:  "fullText contains 'anything'",
		},
		{
			name:  "single quotes escaped in free text",
			query: "bob's report",
			want:  `fullText contains 'bob\'s report'`,
		},
		{
			name: "mime only",
			mime: "application/pdf",
			want: "mimeType = 'application/pdf'",
		},
		{
			name:  "category prefix uses contains",
			query: "holiday",
			mime:  "image/",
			want:  "fullText contains 'holiday' and mimeType contains 'image/'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSearchQuery(tt.query, tt.mime)
			if got != tt.want {
				t.Errorf("buildSearchQuery(%q, %q) = %q, want %q", tt.query, tt.mime, got, tt.want)
			}
		})
	}
}

func TestBuildSearchQueryNeverAddsMimeUnprompted(t *testing.T) {
	if q := buildSearchQuery("anything", ""); strings.Contains(q, "mimeType") {
		t.Errorf("query %q should not contain a mimeType clause", q)
	}
}

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name     string
		folderID string
		mime     string
		want     string
	}{
		{
			name:     "basic listing",
			folderID: "root",
			want:     "'root' in parents and trashed=false",
		},
		{
			name:     "with mime filter",
			folderID: "folder_xyz",
			mime:     mimeSpreadsheet,
			want:     "'folder_xyz' in parents and trashed=false and mimeType = 'application/vnd.google-apps.spreadsheet'",
		},
		{
			name:     "raw mime filter",
			folderID: "folder_abc",
			mime:     "application/pdf",
			want:     "'folder_abc' in parents and trashed=false and mimeType = 'application/pdf'",
		},
		{
			name:     "category prefix uses contains",
			folderID: "folder_pics",
			mime:     "image/",
			want:     "'folder_pics' in parents and trashed=false and mimeType contains 'image/'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildListQuery(tt.folderID, tt.mime)
			if got != tt.want {
				t.Errorf("buildListQuery(%q, %q) = %q, want %q", tt.folderID, tt.mime, got, tt.want)
			}
		})
	}
}
