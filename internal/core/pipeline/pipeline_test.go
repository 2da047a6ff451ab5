package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/studylens/studylens/internal/models"
	"github.com/studylens/studylens/internal/pkg/logger"
)

type fakeDB struct {
	created   []*models.Generation
	createErr error
}

func (f *fakeDB) CreateUser(ctx context.Context, u *models.User) error { return nil }
func (f *fakeDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, nil
}
func (f *fakeDB) CreateGeneration(ctx context.Context, gen *models.Generation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, gen)
	return nil
}
func (f *fakeDB) GetGenerationByID(ctx context.Context, id string) (*models.Generation, error) {
	for _, g := range f.created {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}
func (f *fakeDB) ListGenerationsByUser(ctx context.Context, userID string) ([]models.Generation, error) {
	return nil, nil
}
func (f *fakeDB) UpdateGenerationName(ctx context.Context, id, userID, name string) (bool, error) {
	return false, nil
}
func (f *fakeDB) DeleteGeneration(ctx context.Context, id, userID string) (bool, error) {
	return false, nil
}
func (f *fakeDB) Close() error { return nil }

type fakeStore struct {
	uploads   int
	deletes   int
	uploadErr error
	lastKey   string
}

func (f *fakeStore) UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads++
	f.lastKey = key
	return "https://blobs.example.com/" + key, nil
}
func (f *fakeStore) DeleteFile(ctx context.Context, bucket, key string) error {
	f.deletes++
	return nil
}
func (f *fakeStore) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	return nil, nil
}

type harness struct {
	db    *fakeDB
	store *fakeStore
	llm   *fakeLLM
	ocr   *fakeOCREngine
	ing   *Ingestor
}

func newHarness() *harness {
	h := &harness{
		db:    &fakeDB{},
		store: &fakeStore{},
		llm:   &fakeLLM{out: "the generated artifact"},
		ocr:   &fakeOCREngine{text: "text recognized from image"},
	}
	extractor := NewExtractor(factoryFor(h.ocr), 50)
	h.ing = NewIngestor(Config{Bucket: "test-bucket"},
		h.db, h.store, extractor, NewDispatcher(h.llm), logger.NewNop())
	return h
}

func TestIngestPlainTextSummary(t *testing.T) {
	h := newHarness()
	content := strings.Repeat("lecture notes about photosynthesis. ", 56) // ~2 KB

	gen, err := h.ing.Ingest(context.Background(), IngestInput{
		File:      []byte(content),
		FileName:  "notes.txt",
		MediaType: "text/plain",
		Type:      models.TypeSummary,
		OwnerID:   "user-1",
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if gen.OriginalContent != content {
		t.Error("original content does not equal the decoded file text")
	}
	if gen.GeneratedContent == "" {
		t.Error("generated content is empty")
	}
	if gen.UserID != "user-1" {
		t.Errorf("owner = %q", gen.UserID)
	}
	if gen.GenerationType != models.TypeSummary {
		t.Errorf("type = %q", gen.GenerationType)
	}
	if gen.OriginalFileURL == "" {
		t.Error("missing original file url")
	}
	if len(h.db.created) != 1 {
		t.Fatalf("records created = %d, want 1", len(h.db.created))
	}
	if !strings.Contains(h.store.lastKey, "notes_") {
		t.Errorf("blob key %q not derived from the file name", h.store.lastKey)
	}
}

func TestIngestOversizedFileRejectedBeforeClassification(t *testing.T) {
	h := newHarness()

	_, err := h.ing.Ingest(context.Background(), IngestInput{
		File:      bytes.Repeat([]byte("x"), 12<<20),
		FileName:  "big.txt",
		MediaType: "text/plain",
		Type:      models.TypeSummary,
		OwnerID:   "user-1",
	})
	if KindOf(err) != KindInvalidInput {
		t.Fatalf("kind = %q, want %q", KindOf(err), KindInvalidInput)
	}
	if !errors.Is(err, ErrFileTooLarge) {
		t.Error("oversize rejection should carry ErrFileTooLarge")
	}
	if h.store.uploads != 0 || h.llm.calls != 0 || len(h.db.created) != 0 {
		t.Error("pipeline ran past the input gate")
	}
}

func TestIngestEmptyFile(t *testing.T) {
	h := newHarness()
	_, err := h.ing.Ingest(context.Background(), IngestInput{
		FileName: "empty.txt", MediaType: "text/plain",
		Type: models.TypeSummary, OwnerID: "user-1",
	})
	if KindOf(err) != KindInvalidInput {
		t.Errorf("kind = %q, want %q", KindOf(err), KindInvalidInput)
	}
}

func TestIngestUnknownGenerationType(t *testing.T) {
	h := newHarness()
	_, err := h.ing.Ingest(context.Background(), IngestInput{
		File: []byte("content"), FileName: "a.txt", MediaType: "text/plain",
		Type: models.GenerationType("haiku"), OwnerID: "user-1",
	})
	if KindOf(err) != KindInvalidInput {
		t.Errorf("kind = %q, want %q", KindOf(err), KindInvalidInput)
	}
}

func TestIngestUnsupportedFormatBeforeExtraction(t *testing.T) {
	h := newHarness()
	_, err := h.ing.Ingest(context.Background(), IngestInput{
		File: []byte("PK\x03\x04"), FileName: "archive.zip",
		MediaType: "application/zip", Type: models.TypeKeyPoints, OwnerID: "user-1",
	})
	if KindOf(err) != KindUnsupportedFormat {
		t.Fatalf("kind = %q, want %q", KindOf(err), KindUnsupportedFormat)
	}
	if h.store.uploads != 0 || len(h.db.created) != 0 {
		t.Error("unsupported input reached later stages")
	}
}

func TestIngestScannedPDFIsLowSignal(t *testing.T) {
	h := newHarness()

	// 150 KB of raster-like bytes with just enough printable text for the
	// fallback to succeed but far too little for a document this large.
	payload := append([]byte(strings.Repeat("scanned page text here ", 3)), bytes.Repeat([]byte{0x00, 0x81}, 75<<10)...)

	_, err := h.ing.Ingest(context.Background(), IngestInput{
		File: payload, FileName: "scan.pdf", MediaType: "application/pdf",
		Type: models.TypeKeyPoints, OwnerID: "user-1",
	})
	if KindOf(err) != KindLowSignal {
		t.Fatalf("kind = %q, want %q", KindOf(err), KindLowSignal)
	}
	if h.store.uploads != 0 || h.llm.calls != 0 || len(h.db.created) != 0 {
		t.Error("low-signal input produced side effects")
	}
}

func TestIngestImageOCRFlow(t *testing.T) {
	h := newHarness()

	gen, err := h.ing.Ingest(context.Background(), IngestInput{
		File: bytes.Repeat([]byte{0xff, 0xd8}, 2<<10), // ~4 KB "jpeg"
		FileName:  "recipe.jpg",
		MediaType: "image/jpeg",
		Type:      models.TypeFlashcards,
		OwnerID:   "user-2",
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if gen.OriginalContent != "text recognized from image" {
		t.Errorf("original content = %q", gen.OriginalContent)
	}
	if !h.ocr.closed {
		t.Error("ocr engine not released after the call")
	}
}

func TestIngestImageOCRFailureReleasesEngine(t *testing.T) {
	h := newHarness()
	h.ocr.err = errors.New("tesseract crashed")

	_, err := h.ing.Ingest(context.Background(), IngestInput{
		File: []byte{0xff, 0xd8}, FileName: "recipe.jpg",
		MediaType: "image/jpeg", Type: models.TypeFlashcards, OwnerID: "user-2",
	})
	if KindOf(err) != KindExtraction {
		t.Errorf("kind = %q, want %q", KindOf(err), KindExtraction)
	}
	if !h.ocr.closed {
		t.Error("ocr engine not released after the failed call")
	}
}

func TestIngestStorageFailure(t *testing.T) {
	h := newHarness()
	h.store.uploadErr = errors.New("s3 unavailable")

	_, err := h.ing.Ingest(context.Background(), IngestInput{
		File: []byte("some perfectly fine content"), FileName: "a.txt",
		MediaType: "text/plain", Type: models.TypeSummary, OwnerID: "user-1",
	})
	if KindOf(err) != KindStorage {
		t.Errorf("kind = %q, want %q", KindOf(err), KindStorage)
	}
	if h.llm.calls != 0 || len(h.db.created) != 0 {
		t.Error("pipeline continued past the failed storage stage")
	}
}

func TestIngestGenerationFailureLeavesBlob(t *testing.T) {
	h := newHarness()
	h.llm.err = errors.New("model overloaded")

	_, err := h.ing.Ingest(context.Background(), IngestInput{
		File: []byte("some perfectly fine content"), FileName: "a.txt",
		MediaType: "text/plain", Type: models.TypeSummary, OwnerID: "user-1",
	})
	if KindOf(err) != KindGeneration {
		t.Fatalf("kind = %q, want %q", KindOf(err), KindGeneration)
	}
	if len(h.db.created) != 0 {
		t.Error("failed run persisted a record")
	}
	// The stored blob is intentionally left behind; no cleanup runs.
	if h.store.uploads != 1 {
		t.Errorf("uploads = %d, want 1", h.store.uploads)
	}
	if h.store.deletes != 0 {
		t.Errorf("deletes = %d, want 0", h.store.deletes)
	}
}

func TestIngestPersistenceFailure(t *testing.T) {
	h := newHarness()
	h.db.createErr = errors.New("connection reset")

	_, err := h.ing.Ingest(context.Background(), IngestInput{
		File: []byte("some perfectly fine content"), FileName: "a.txt",
		MediaType: "text/plain", Type: models.TypeSummary, OwnerID: "user-1",
	})
	if KindOf(err) != KindPersistence {
		t.Errorf("kind = %q, want %q", KindOf(err), KindPersistence)
	}
}

func TestIngestMissingOwnerIsInternal(t *testing.T) {
	h := newHarness()
	_, err := h.ing.Ingest(context.Background(), IngestInput{
		File: []byte("content"), FileName: "a.txt",
		MediaType: "text/plain", Type: models.TypeSummary,
	})
	if KindOf(err) != KindInternal {
		t.Errorf("kind = %q, want %q", KindOf(err), KindInternal)
	}
}

func TestBlobKey(t *testing.T) {
	tests := []struct {
		fileName string
		id       string
		want     string
	}{
		{"notes.txt", "abc", "notes_abc.txt"},
		{"my report.pdf", "abc", "my_report_abc.pdf"},
		{"../../etc/passwd", "abc", "passwd_abc"},
		{"", "abc", "unnamed_file_abc"},
	}
	for _, tt := range tests {
		if got := blobKey(tt.fileName, tt.id); got != tt.want {
			t.Errorf("blobKey(%q) = %q, want %q", tt.fileName, got, tt.want)
		}
	}
}
