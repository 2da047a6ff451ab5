package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studylens/studylens/internal/core"
	"github.com/studylens/studylens/internal/models"
	"github.com/studylens/studylens/internal/pkg/logger"
)

// Config carries the orchestrator's tunables. The zero value is usable:
// missing fields fall back to the original heuristics.
type Config struct {
	MaxFileSizeBytes int64
	Bucket           string
	Thresholds       Thresholds
}

func (c *Config) defaults() {
	if c.MaxFileSizeBytes <= 0 {
		c.MaxFileSizeBytes = 10 << 20
	}
	zero := Thresholds{}
	if c.Thresholds == zero {
		c.Thresholds = DefaultThresholds()
	}
}

// IngestInput is one ingestion request. OwnerID comes from the
// authenticated session and is trusted as given.
type IngestInput struct {
	File      []byte
	FileName  string
	MediaType string
	Type      models.GenerationType
	OwnerID   string
}

// Ingestor runs the full pipeline for one request:
// classify, extract, validate, store the original blob, generate, persist.
// Stages run strictly in order; the first failure terminates the run with a
// classified error and no record is written. An already-stored blob is not
// rolled back when a later stage fails.
type Ingestor struct {
	cfg        Config
	db         core.DbClient
	store      core.ObjectClient
	extractor  *Extractor
	dispatcher *Dispatcher
	log        *logger.Logger
}

func NewIngestor(cfg Config, db core.DbClient, store core.ObjectClient, ex *Extractor, disp *Dispatcher, log *logger.Logger) *Ingestor {
	cfg.defaults()
	return &Ingestor{cfg: cfg, db: db, store: store, extractor: ex, dispatcher: disp, log: log}
}

func (ing *Ingestor) Ingest(ctx context.Context, in IngestInput) (*models.Generation, error) {
	if err := ing.checkInput(in); err != nil {
		return nil, err
	}

	format := Detect(in.MediaType, in.FileName)
	if format == FormatUnsupported {
		return nil, Errf(KindUnsupportedFormat, nil,
			"unsupported file type %q; upload PDF, DOCX, JPG, PNG, or text files", mediaTypeOrExt(in))
	}

	text, err := ing.extractor.Extract(ctx, format, in.File)
	if err != nil {
		return nil, err
	}
	ing.log.Debug("extracted text", "file", in.FileName, "format", format, "chars", len(text))

	if err := validateContent(ing.cfg.Thresholds, format, text, len(in.File)); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	url, err := ing.store.UploadFile(ctx, ing.cfg.Bucket, blobKey(in.FileName, id), in.File, uploadContentType(in.MediaType))
	if err != nil {
		return nil, Errf(KindStorage, err, "failed to store the original file")
	}

	generated, err := ing.dispatcher.Generate(ctx, text, in.Type)
	if err != nil {
		// The stored blob stays behind; there is no cleanup here.
		return nil, err
	}

	gen := &models.Generation{
		ID:               id,
		UserID:           in.OwnerID,
		OriginalContent:  text,
		GeneratedContent: generated,
		FileName:         in.FileName,
		GenerationType:   in.Type,
		UploadDate:       time.Now().UTC(),
		OriginalFileURL:  url,
	}
	if err := ing.db.CreateGeneration(ctx, gen); err != nil {
		return nil, Errf(KindPersistence, err, "failed to save the generation")
	}

	ing.log.Info("generation persisted",
		"id", gen.ID, "user", gen.UserID, "type", gen.GenerationType, "file", gen.FileName)
	return gen, nil
}

func (ing *Ingestor) checkInput(in IngestInput) error {
	if len(in.File) == 0 {
		return Errf(KindInvalidInput, nil, "no file uploaded")
	}
	if int64(len(in.File)) > ing.cfg.MaxFileSizeBytes {
		return Errf(KindInvalidInput, ErrFileTooLarge,
			"file size exceeds the limit of %d MB; upload a smaller file", ing.cfg.MaxFileSizeBytes>>20)
	}
	if !in.Type.Valid() {
		return Errf(KindInvalidInput, nil, "invalid generation type selected")
	}
	if in.OwnerID == "" {
		// The auth middleware guarantees an owner before the pipeline runs.
		return Errf(KindInternal, nil, "missing owner id")
	}
	return nil
}

// blobKey names the stored blob "<base>_<id>.<ext>" after the upload's
// original name, stripped of any path components.
func blobKey(fileName, id string) string {
	name := filepath.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." {
		name = "unnamed_file"
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	base = strings.ReplaceAll(base, " ", "_")
	return base + "_" + id + ext
}

func uploadContentType(mediaType string) string {
	if mediaType == "" {
		return "application/octet-stream"
	}
	return mediaType
}

func mediaTypeOrExt(in IngestInput) string {
	if in.MediaType != "" {
		return in.MediaType
	}
	return strings.TrimPrefix(filepath.Ext(in.FileName), ".")
}
