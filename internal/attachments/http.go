package attachments

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
)

// Handler returns an http.HandlerFunc serving stored attachments at
// /attachments/{file_id}. Missing, expired, or vanished entries get a JSON
// 404; everything else streams the file with its stored content type.
func Handler(storage *Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileID := r.PathValue("file_id")
		if fileID == "" {
			writeNotFound(w)
			return
		}

		meta, ok := storage.Metadata(fileID)
		if !ok {
			slog.Debug("attachment lookup miss", "file_id", fileID)
			writeNotFound(w)
			return
		}

		path := storage.Path(fileID)
		if _, err := os.Stat(path); err != nil {
			slog.Warn("attachment metadata present but file missing", "file_id", fileID, "error", err)
			writeNotFound(w)
			return
		}

		w.Header().Set("Content-Type", meta.MimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", meta.Filename))
		http.ServeFile(w, r, path)
	}
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"error": "Attachment not found or expired"})
}
