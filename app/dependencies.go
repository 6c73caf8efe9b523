package app

import (
	"context"
	"fmt"

	"github.com/upb/ragvault/concurrency"
	"github.com/upb/ragvault/config"
	"github.com/upb/ragvault/ingestion"
	"github.com/upb/ragvault/providers"
	"github.com/upb/ragvault/repositories"
	"github.com/upb/ragvault/repositories/postgres"
	"github.com/upb/ragvault/retrieval"
	"github.com/upb/ragvault/services"
	"go.uber.org/zap"
)

// Dependencies is the central wiring point for the service: every
// handler is constructed from fields on this struct.
type Dependencies struct {
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	RepoFactory *postgres.RepositoryFactory
	Repos       *repositories.Repositories
	TxManager   repositories.TransactionManager

	Provider *providers.OpenAIAdapter

	Vaults    *services.VaultService
	Documents *services.DocumentService
	Sessions  *services.SessionService
	Agents    *services.AgentService

	Pipeline *ingestion.Pipeline
	Core     *retrieval.Core
}

// NewDependencies wires up every dependency the service needs, in order:
// database, repositories, provider adapter, entity services, then the
// ingestion and retrieval cores that sit on top of them.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.initRepositories()
	deps.initProvider(cfg)
	deps.initServices()
	deps.initPipelines(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}
	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	if err := d.DB.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Logger.Info("database connection established", zap.String("database", cfg.Database.Database))
	return nil
}

func (d *Dependencies) initRepositories() {
	d.Repos = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()
	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initProvider(cfg *config.Config) {
	d.Provider = providers.NewOpenAIAdapter(providers.Config{
		APIKey:         cfg.Provider.APIKey,
		BaseURL:        cfg.Provider.BaseURL,
		EmbeddingModel: cfg.Provider.EmbeddingModel,
		ChatModel:      cfg.Provider.ChatModel,
		Dimension:      cfg.Provider.Dimension,
		MaxConcurrency: cfg.Provider.MaxConcurrency,
	}, d.Logger)
	d.Logger.Info("provider adapter initialized", zap.String("embedding_model", cfg.Provider.EmbeddingModel), zap.String("chat_model", cfg.Provider.ChatModel))
}

func (d *Dependencies) initServices() {
	d.Vaults = services.NewVaultService(d.Repos, d.TxManager, d.Logger)
	d.Documents = services.NewDocumentService(d.Repos, d.TxManager, d.Logger)
	d.Sessions = services.NewSessionService(d.Repos, d.Logger)
	d.Agents = services.NewAgentService(d.Repos, d.Logger)
}

func (d *Dependencies) initPipelines(cfg *config.Config) {
	d.Pipeline = ingestion.NewPipeline(d.Repos, d.TxManager, d.Provider, cfg.Ingest, d.Logger)
	locks := concurrency.NewSessionLocks()
	d.Core = retrieval.NewCore(d.Repos, d.Provider, d.Provider, locks, cfg.Chat, d.Logger)
}

// Close releases every resource Dependencies opened.
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	_ = d.Logger.Sync()
	return nil
}
