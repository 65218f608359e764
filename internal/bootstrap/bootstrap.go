package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AnshAggr1303/loan-agent-system/internal/config"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/credit"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/kyc"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/ports"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/underwriting"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/usecase"
	"github.com/AnshAggr1303/loan-agent-system/internal/infrastructure/knowledge"
	"github.com/AnshAggr1303/loan-agent-system/internal/infrastructure/letters"
	"github.com/AnshAggr1303/loan-agent-system/internal/infrastructure/llm/ollama"
	"github.com/AnshAggr1303/loan-agent-system/internal/infrastructure/lookup/inmem"
	natsqueue "github.com/AnshAggr1303/loan-agent-system/internal/infrastructure/queue/nats"
	"github.com/AnshAggr1303/loan-agent-system/internal/infrastructure/repository/postgres"
	"github.com/AnshAggr1303/loan-agent-system/internal/infrastructure/resilience"
	"github.com/AnshAggr1303/loan-agent-system/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue          *natsqueue.Queue
	Sessions       ports.SessionStore
	Applications   ports.ApplicationStore
	ConversationUC ports.ConversationService
	Catalog        ports.ProductCatalog
	Renderer       ports.LetterRenderer

	closeFn func()
}

// New wires the full dependency graph. dialogueMetrics may be nil (the
// worker has no dialogue surface); every other side-effecting dependency is
// constructed here.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, dialogueMetrics ports.ConversationMetrics) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	sessions := postgres.NewSessionRepository(db)
	applications := postgres.NewApplicationRepository(db)

	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSDecisionsSubject, natsqueue.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	letterStorage, err := localfs.New(cfg.LettersPath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init letter storage: %w", err)
	}

	catalog, err := knowledge.Load(cfg.CatalogPath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("load product catalog: %w", err)
	}

	var extractor ports.IntentExtractor
	if cfg.ExtractorEnabled {
		extractor = ollama.NewExtractor(
			ollama.New(cfg.OllamaURL, cfg.OllamaModel),
			ollama.ExtractorOptions{
				ResilienceExecutor: executor,
				RequestsPerSecond:  cfg.ExtractorRPS,
				Burst:              cfg.ExtractorBurst,
			},
		)
	}

	verifier := kyc.NewVerifier(inmem.NewSeededDirectory())
	scorer := credit.NewScorer(inmem.NewSeededBureau())
	engine := underwriting.NewEngine()

	conversationUC := usecase.NewConversationUseCase(
		verifier, scorer, engine,
		sessions, applications, queue, extractor,
		dialogueMetrics, logger,
	)

	return &App{
		Config:         cfg,
		Logger:         logger,
		Queue:          queue,
		Sessions:       sessions,
		Applications:   applications,
		ConversationUC: conversationUC,
		Catalog:        catalog,
		Renderer:       letters.NewRenderer(letterStorage),

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
