package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkrasnov/asop-compliance-service/internal/config"
	"github.com/mkrasnov/asop-compliance-service/internal/core/ports"
	"github.com/mkrasnov/asop-compliance-service/internal/core/usecase"
	"github.com/mkrasnov/asop-compliance-service/internal/infrastructure/extractor/pdftext"
	"github.com/mkrasnov/asop-compliance-service/internal/infrastructure/llm/openai"
	"github.com/mkrasnov/asop-compliance-service/internal/infrastructure/repository/postgres"
	"github.com/mkrasnov/asop-compliance-service/internal/infrastructure/resilience"
	"github.com/mkrasnov/asop-compliance-service/internal/infrastructure/storage/localfs"
	"github.com/mkrasnov/asop-compliance-service/internal/observability/logging"
	"github.com/mkrasnov/asop-compliance-service/internal/observability/metrics"
)

const serviceName = "asop-api"

// App wires the service dependency graph in one place so cmd/api stays a
// thin shell around config, signal handling and the HTTP server.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.HTTPServerMetrics

	IngestUC  ports.MemoIngestor
	AnalyzeUC ports.MemoAnalysisService
	Reader    ports.UploadReader

	db *sql.DB
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := postgres.NewUploadRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.UploadDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	m := metrics.NewHTTPServerMetrics(serviceName)

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.AnalysisRetryMaxAttempts,
	})

	analyzer := openai.New(
		cfg.OpenAIAPIKey,
		cfg.OpenAIModel,
		cfg.AnalysisMaxInputChars,
		time.Duration(cfg.AnalysisTimeoutSeconds)*time.Second,
		openai.WithExecutor(executor),
		openai.WithUsageRecorder(func(model string, promptTokens, completionTokens int) {
			m.RecordTokenUsage(serviceName, model, promptTokens, completionTokens)
		}),
	)

	extractor := pdftext.NewExtractor(storage)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		IngestUC:  usecase.NewIngestMemoUseCase(repo, storage, extractor, analyzer),
		AnalyzeUC: usecase.NewAnalyzeMemoUseCase(analyzer),
		Reader:    repo,
		db:        db,
	}

	logger.Info("application initialized",
		"upload_dir", cfg.UploadDir,
		"model", cfg.OpenAIModel,
		"analysis_timeout_seconds", cfg.AnalysisTimeoutSeconds,
	)
	return app, nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
