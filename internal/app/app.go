package app

import (
	"context"
	"fmt"
	"time"

	"github.com/studylens/studylens/internal/config"
	"github.com/studylens/studylens/internal/core"
	db "github.com/studylens/studylens/internal/core/database"
	"github.com/studylens/studylens/internal/core/llm"
	"github.com/studylens/studylens/internal/core/objectstore"
	"github.com/studylens/studylens/internal/core/ocr"
	"github.com/studylens/studylens/internal/core/pipeline"
	"github.com/studylens/studylens/internal/pkg/logger"
	"github.com/studylens/studylens/internal/services"
)

type App struct {
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	LLM          *llm.GeminiLLM
	Ingestor     *pipeline.Ingestor
	Server       *Server
	Log          *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	log.Info("database initialized and ready")

	objClient, err := objectstore.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	log.Info("object client initialized and ready")

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	extractor := pipeline.NewExtractor(ocr.NewEngineFactory("eng"), cfg.FallbackMinChars)
	dispatcher := pipeline.NewDispatcher(llmProvider)

	ingestor := pipeline.NewIngestor(pipeline.Config{
		MaxFileSizeBytes: cfg.MaxFileSizeBytes,
		Bucket:           cfg.BucketName,
		Thresholds: pipeline.Thresholds{
			PDFMinChars:   cfg.PDFMinChars,
			PDFMinBytes:   cfg.PDFMinBytes,
			ImageMinChars: cfg.ImageMinChars,
			ImageMinBytes: cfg.ImageMinBytes,
		},
	}, dbClient, objClient, extractor, dispatcher, log)

	userSvc := services.NewUserService(dbClient)
	genSvc := services.NewGenerationService(dbClient)

	server := NewServer(cfg, userSvc, genSvc, ingestor, log)

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		LLM:          llmProvider,
		Ingestor:     ingestor,
		Server:       server,
		Log:          log,
	}, nil
}

func (a *App) Close() {
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
