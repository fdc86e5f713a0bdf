package drive

import (
	"fmt"
	"strings"

	"github.com/workspacemcp/workspace-mcp/internal/pkg/validate"
)

// MIME types for Google Workspace native files.
const (
	mimeDocument     = "application/vnd.google-apps.document"
	mimeSpreadsheet  = "application/vnd.google-apps.spreadsheet"
	mimePresentation = "application/vnd.google-apps.presentation"
	mimeFolder       = "application/vnd.google-apps.folder"
	mimeForm         = "application/vnd.google-apps.form"
	mimeDrawing      = "application/vnd.google-apps.drawing"
)

// mimeAliases maps friendly file_type names to concrete MIME types. Raw MIME
// strings (anything containing a slash) bypass this table.
var mimeAliases = map[string]string{
	"doc":          mimeDocument,
	"docs":         mimeDocument,
	"document":     mimeDocument,
	"sheet":        mimeSpreadsheet,
	"sheets":       mimeSpreadsheet,
	"spreadsheet":  mimeSpreadsheet,
	"slide":        mimePresentation,
	"slides":       mimePresentation,
	"presentation": mimePresentation,
	"folder":       mimeFolder,
	"form":         mimeForm,
	"drawing":      mimeDrawing,
	"pdf":          "application/pdf",
	// Category aliases resolve to a MIME prefix; the query builders turn a
	// trailing slash into a "mimeType contains" clause.
	"image": "image/",
	"video": "video/",
	"audio": "audio/",
	"text":  "text/",
}

// resolveFileTypeMime translates a file_type argument into the MIME type to
// filter on. Friendly aliases come from mimeAliases; a raw MIME string is
// validated and passed through unchanged. An empty file_type means no filter.
func resolveFileTypeMime(fileType string) (string, error) {
	if fileType == "" {
		return "", nil
	}
	if strings.TrimSpace(fileType) == "" {
		return "", fmt.Errorf("file_type is blank")
	}

	if mime, ok := mimeAliases[strings.ToLower(fileType)]; ok {
		return mime, nil
	}

	// Raw MIME types always contain a slash (type/subtype).
	if strings.Contains(fileType, "/") {
		if err := validate.RawMIME(fileType); err != nil {
			return "", err
		}
		return fileType, nil
	}

	return "", fmt.Errorf("unknown file_type %q: use a friendly name (doc, sheet, folder, ...) or a raw MIME type", fileType)
}

// driveQueryMarkers are substrings that indicate the query already uses
// Drive query syntax and should be passed through as-is.
var driveQueryMarkers = []string{
	" contains ",
	"=",
	"<",
	">",
	" in parents",
	"trashed",
	"starred",
	"sharedwithme",
}

// isStructuredQuery reports whether the query uses Drive query operators
// rather than free text.
func isStructuredQuery(query string) bool {
	lower := strings.ToLower(query)
	for _, marker := range driveQueryMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// escapeQueryLiteral escapes a string for inclusion in a single-quoted Drive
// query literal.
func escapeQueryLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// buildSearchQuery composes the files.list query for a search: free text is
// wrapped in a fullText clause, structured queries pass through, and the
// resolved MIME filter is appended when present.
func buildSearchQuery(query, mime string) string {
	var clauses []string

	query = strings.TrimSpace(query)
	if query != "" {
		if isStructuredQuery(query) {
			clauses = append(clauses, query)
		} else {
			clauses = append(clauses, fmt.Sprintf("fullText contains '%s'", escapeQueryLiteral(query)))
		}
	}

	if mime != "" {
		clauses = append(clauses, mimeClause(mime))
	}

	return strings.Join(clauses, " and ")
}

// mimeClause renders the mimeType filter. A value ending in a slash is a
// category prefix and matches with contains; anything else matches exactly.
func mimeClause(mime string) string {
	if strings.HasSuffix(mime, "/") {
		return fmt.Sprintf("mimeType contains '%s'", mime)
	}
	return fmt.Sprintf("mimeType = '%s'", mime)
}

// buildListQuery composes the files.list query for listing a folder's
// children, with an optional MIME filter.
func buildListQuery(folderID, mime string) string {
	q := fmt.Sprintf("'%s' in parents and trashed=false", folderID)
	if mime != "" {
		q += " and " + mimeClause(mime)
	}
	return q
}
