package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// txCtxKey is the context key under which an in-flight transaction is
// stashed so nested repository calls reuse it instead of opening their own.
type txCtxKey struct{}

// TransactionManager runs ingestion and cascade-delete operations atomically
// against the configured database.
type TransactionManager struct {
	db     *DB
	logger *zap.Logger
}

func NewTransactionManager(db *DB, logger *zap.Logger) repositories.TransactionManager {
	return &TransactionManager{db: db, logger: logger}
}

func (tm *TransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	sqlTx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	tm.logger.Debug("transaction started")
	return &sqlTransaction{tx: sqlTx, ctx: ctx, logger: tm.logger}, nil
}

// InTransaction runs fn with a transaction bound to its context, committing
// on success and rolling back on error or panic re-propagation.
func (tm *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	tx, err := tm.Begin(ctx)
	if err != nil {
		return err
	}

	txCtx := context.WithValue(ctx, txCtxKey{}, tx)

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				tm.logger.Error("rollback after panic failed", zap.Error(rbErr))
			}
			panic(p)
		}
	}()

	if err := fn(txCtx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			tm.logger.Error("rollback failed",
				zap.Error(rbErr),
				zap.NamedError("cause", err),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// sqlTransaction wraps a *sql.Tx to satisfy repositories.Transaction.
type sqlTransaction struct {
	tx     *sql.Tx
	ctx    context.Context
	logger *zap.Logger
}

func (t *sqlTransaction) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	t.logger.Debug("transaction committed")
	return nil
}

func (t *sqlTransaction) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("rollback transaction: %w", err)
	}
	t.logger.Debug("transaction rolled back")
	return nil
}

func (t *sqlTransaction) Context() context.Context {
	return t.ctx
}

// txFromContext retrieves the transaction stashed by InTransaction, if any.
func txFromContext(ctx context.Context) (*sqlTransaction, bool) {
	tx, ok := ctx.Value(txCtxKey{}).(*sqlTransaction)
	return tx, ok
}

// Executor is satisfied by both *sql.DB and *sql.Tx, letting repositories
// run the same query whether or not they're inside a transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetExecutor returns the transaction bound to ctx, or db itself when no
// transaction is in flight.
func GetExecutor(ctx context.Context, db *DB) Executor {
	if tx, ok := txFromContext(ctx); ok {
		return tx.tx
	}
	return db.DB
}
