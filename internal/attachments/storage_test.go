package attachments

import (
	"os"
	"testing"
	"time"
)

func TestStoreAndLookup(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	data := []byte("%PDF-1.3\n")
	fileID, err := storage.Store("sample.pdf", "application/pdf", data)
	if err != nil {
		t.Fatal(err)
	}
	if fileID == "" {
		t.Fatal("expected non-empty file ID")
	}

	meta, ok := storage.Metadata(fileID)
	if !ok {
		t.Fatal("expected metadata for stored attachment")
	}
	if meta.Filename != "sample.pdf" {
		t.Errorf("Filename = %q, want %q", meta.Filename, "sample.pdf")
	}
	if meta.MimeType != "application/pdf" {
		t.Errorf("MimeType = %q, want %q", meta.MimeType, "application/pdf")
	}
	if meta.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", meta.Size, len(data))
	}

	got, err := os.ReadFile(storage.Path(fileID))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Errorf("file content = %q, want %q", got, data)
	}
}

func TestMetadataUnknownID(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := storage.Metadata("nope"); ok {
		t.Error("expected miss for unknown file ID")
	}
}

func TestMetadataExpiry(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	fileID, err := storage.Store("old.txt", "text/plain", []byte("stale"))
	if err != nil {
		t.Fatal(err)
	}

	// Jump the clock past the TTL.
	storage.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, ok := storage.Metadata(fileID); ok {
		t.Error("expected expired attachment to be reported missing")
	}
	if _, err := os.Stat(storage.Path(fileID)); !os.IsNotExist(err) {
		t.Error("expected expired attachment file to be removed")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}

	fileID, err := storage.Store("keep.txt", "text/plain", []byte("keep"))
	if err != nil {
		t.Fatal(err)
	}

	storage.now = func() time.Time { return time.Now().Add(1000 * time.Hour) }

	if _, ok := storage.Metadata(fileID); !ok {
		t.Error("expected attachment to survive with expiry disabled")
	}
}

func TestDistinctFileIDs(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	a, err := storage.Store("a.txt", "text/plain", []byte("a"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := storage.Store("b.txt", "text/plain", []byte("b"))
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("expected distinct file IDs for separate stores")
	}
}
