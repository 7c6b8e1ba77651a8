package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/documind-ai/documind/internal/config"
	"github.com/documind-ai/documind/internal/core/ports"
	"github.com/documind-ai/documind/internal/core/usecase"
	"github.com/documind-ai/documind/internal/infrastructure/chunking"
	"github.com/documind-ai/documind/internal/infrastructure/embedding/openai"
	"github.com/documind-ai/documind/internal/infrastructure/extractor"
	"github.com/documind-ai/documind/internal/infrastructure/llm/openrouter"
	"github.com/documind-ai/documind/internal/infrastructure/queue/nats"
	"github.com/documind-ai/documind/internal/infrastructure/repository/postgres"
	"github.com/documind-ai/documind/internal/infrastructure/resilience"
	"github.com/documind-ai/documind/internal/infrastructure/storage/localfs"
	"github.com/documind-ai/documind/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue     ports.MessageQueue
	Documents ports.DocumentRepository
	QueryLog  ports.QueryLogStore

	IngestUC    ports.DocumentIngestor
	ProcessUC   ports.DocumentProcessor
	BackfillUC  ports.EmbeddingBackfiller
	SearchUC    ports.DocumentSearcher
	AskUC       ports.QuestionAnswerer
	AnalyticsUC ports.AnalyticsReader

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	documents := postgres.NewDocumentRepository(db)
	if err := documents.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	chunks := postgres.NewChunkRepository(db)
	queryLog := postgres.NewQueryLogRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	llm := openrouter.New(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, executor)
	embedder := openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbedModel, cfg.EmbedRPS)

	vectorStore := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	extract := extractor.New()

	ingestUC := usecase.NewIngestDocumentUseCase(documents, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(documents, chunks, storage, extract, chunker, embedder, vectorStore, logger)
	backfillUC := usecase.NewBackfillService(chunks, documents, embedder, vectorStore, logger)

	searchUC, err := usecase.NewSearchService(embedder, vectorStore, cfg.SemanticWeight, logger)
	if err != nil {
		return nil, fmt.Errorf("init search service: %w", err)
	}
	askUC := usecase.NewAskService(searchUC, llm, queryLog, cfg.Models, cfg.DefaultModel, logger)
	analyticsUC := usecase.NewAnalyticsService(queryLog)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:     queue,
		Documents: documents,
		QueryLog:  queryLog,

		IngestUC:    ingestUC,
		ProcessUC:   processUC,
		BackfillUC:  backfillUC,
		SearchUC:    searchUC,
		AskUC:       askUC,
		AnalyticsUC: analyticsUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
