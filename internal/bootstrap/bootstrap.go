package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kochimetro/docflow/internal/config"
	"github.com/kochimetro/docflow/internal/core/ports"
	"github.com/kochimetro/docflow/internal/core/usecase"
	"github.com/kochimetro/docflow/internal/infrastructure/chunking"
	"github.com/kochimetro/docflow/internal/infrastructure/extractor/docfile"
	"github.com/kochimetro/docflow/internal/infrastructure/language/whatlang"
	"github.com/kochimetro/docflow/internal/infrastructure/llm/gemini"
	"github.com/kochimetro/docflow/internal/infrastructure/queue/nats"
	"github.com/kochimetro/docflow/internal/infrastructure/repository/postgres"
	"github.com/kochimetro/docflow/internal/infrastructure/resilience"
	"github.com/kochimetro/docflow/internal/infrastructure/storage/localfs"
)

// App wires the full ingestion stack. The NATS publisher is optional: the
// service starts and processes documents without a broker.
type App struct {
	Config config.Config

	Records  ports.RecordStore
	IngestUC ports.DocumentIngestor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewRecordRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	blobs, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init blob storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	var events ports.EventPublisher
	var publisher *nats.Publisher
	if cfg.NATSURL != "" {
		publisher, err = nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: executor,
		})
		if err != nil {
			log.Warn("nats unavailable, processed events disabled", "error", err)
		} else {
			events = publisher
		}
	}

	llm, err := gemini.New(ctx, gemini.Config{
		APIKey:      cfg.GeminiAPIKey,
		GenModel:    cfg.GeminiGenModel,
		EmbedModel:  cfg.GeminiEmbedModel,
		CallTimeout: time.Duration(cfg.ModelTimeoutSeconds) * time.Second,
		Executor:    executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	extractor := docfile.New(log)
	detector := whatlang.New()
	normalizer := usecase.NewNormalizer(detector, llm, log, cfg.DetectPrefixChars, cfg.TranslatePrefixChars)
	analyzer := usecase.NewAnalyzer(llm, log, cfg.AnalyzePrefixChars)

	var splitter ports.ContentSplitter
	if cfg.ChunkSize > 0 {
		splitter = chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	}

	var embedder ports.Embedder
	if cfg.EmbeddingsEnabled {
		embedder = llm
	}

	pipeline := usecase.NewPipeline(
		extractor,
		normalizer,
		analyzer,
		splitter,
		embedder,
		log,
		time.Duration(cfg.ExtractionTimeoutSeconds)*time.Second,
	)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, blobs, pipeline, events, log)

	return &App{
		Config:   cfg,
		Records:  repo,
		IngestUC: ingestUC,

		closeFn: func() {
			if publisher != nil {
				publisher.Close()
			}
			llm.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
