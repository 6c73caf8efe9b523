package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// DocumentRepository implements repositories.DocumentRepository.
type DocumentRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewDocumentRepository(db *DB, logger *zap.Logger) repositories.DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return domain.Internal("marshal document metadata", err)
	}

	query := `
		INSERT INTO documents (id, vault_id, title, source, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	executor := GetExecutor(ctx, r.db)
	_, err = executor.ExecContext(ctx, query, doc.ID, doc.VaultID, doc.Title, doc.Source, metadata, doc.CreatedAt)
	if err != nil {
		return domain.Internal("create document", err)
	}
	r.logger.Debug("document created", zap.String("id", doc.ID.String()))
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := `
		SELECT d.id, d.vault_id, d.title, d.source, d.metadata, d.created_at,
		       COUNT(c.id) AS chunk_count
		FROM documents d
		LEFT JOIN chunks c ON c.document_id = d.id
		WHERE d.id = $1
		GROUP BY d.id
	`
	executor := GetExecutor(ctx, r.db)
	doc := &models.Document{}
	var metadata []byte
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.VaultID, &doc.Title, &doc.Source, &metadata, &doc.CreatedAt, &doc.ChunkCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFound(fmt.Sprintf("document %s not found", id))
		}
		return nil, domain.Internal("get document", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
			return nil, domain.Internal("unmarshal document metadata", err)
		}
	}
	return doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, vaultID *uuid.UUID, limit, offset int) ([]*models.Document, error) {
	executor := GetExecutor(ctx, r.db)

	var (
		rows *sql.Rows
		err  error
	)
	if vaultID != nil {
		rows, err = executor.QueryContext(ctx, `
			SELECT d.id, d.vault_id, d.title, d.source, d.metadata, d.created_at,
			       COUNT(c.id) AS chunk_count
			FROM documents d
			LEFT JOIN chunks c ON c.document_id = d.id
			WHERE d.vault_id = $1
			GROUP BY d.id
			ORDER BY d.created_at DESC
			LIMIT $2 OFFSET $3
		`, *vaultID, limit, offset)
	} else {
		rows, err = executor.QueryContext(ctx, `
			SELECT d.id, d.vault_id, d.title, d.source, d.metadata, d.created_at,
			       COUNT(c.id) AS chunk_count
			FROM documents d
			LEFT JOIN chunks c ON c.document_id = d.id
			GROUP BY d.id
			ORDER BY d.created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, domain.Internal("list documents", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		var metadata []byte
		if err := rows.Scan(&doc.ID, &doc.VaultID, &doc.Title, &doc.Source, &metadata, &doc.CreatedAt, &doc.ChunkCount); err != nil {
			return nil, domain.Internal("scan document", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
				return nil, domain.Internal("unmarshal document metadata", err)
			}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal("iterate documents", err)
	}
	return docs, nil
}

func (r *DocumentRepository) Count(ctx context.Context, vaultID *uuid.UUID) (int, error) {
	executor := GetExecutor(ctx, r.db)

	var (
		count int
		err   error
	)
	if vaultID != nil {
		err = executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE vault_id = $1`, *vaultID).Scan(&count)
	} else {
		err = executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	}
	if err != nil {
		return 0, domain.Internal("count documents", err)
	}
	return count, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return domain.Internal("delete document", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Internal("rows affected", err)
	}
	if rowsAffected == 0 {
		return domain.NotFound(fmt.Sprintf("document %s not found", id))
	}
	r.logger.Debug("document deleted", zap.String("id", id.String()))
	return nil
}

func (r *DocumentRepository) CreateChunks(ctx context.Context, chunks []*models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	query := `INSERT INTO chunks (id, document_id, ordinal, text, token_count) VALUES ($1, $2, $3, $4, $5)`
	executor := GetExecutor(ctx, r.db)
	for _, c := range chunks {
		if _, err := executor.ExecContext(ctx, query, c.ID, c.DocumentID, c.Ordinal, c.Text, c.TokenCount); err != nil {
			return domain.Internal("create chunk", err)
		}
	}
	r.logger.Debug("chunks created", zap.Int("count", len(chunks)))
	return nil
}
