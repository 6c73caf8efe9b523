package postgres

import (
	"github.com/upb/ragvault/config"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages all repositories against a single
// database connection pool.
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(cfg *config.Config, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return &RepositoryFactory{db: db, logger: logger}, nil
}

// NewRepositories creates all repository instances.
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Vaults:    NewVaultRepository(f.db, f.logger),
		Documents: NewDocumentRepository(f.db, f.logger),
		Sessions:  NewSessionRepository(f.db, f.logger),
		Messages:  NewMessageRepository(f.db, f.logger),
		Agents:    NewAgentRepository(f.db, f.logger),
		Vectors:   NewVectorStore(f.db, f.logger),
	}
}

// GetTransactionManager returns a transaction manager.
func (f *RepositoryFactory) GetTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db, f.logger)
}

// GetDB returns the database connection.
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection.
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
