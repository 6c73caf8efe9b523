package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// VectorStore implements repositories.VectorStore against the embeddings
// table, using pgvector's cosine-distance operator for nearest-neighbor
// search.
type VectorStore struct {
	db     *DB
	logger *zap.Logger
}

func NewVectorStore(db *DB, logger *zap.Logger) repositories.VectorStore {
	return &VectorStore{db: db, logger: logger}
}

func (s *VectorStore) Upsert(ctx context.Context, embeddings []*models.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	query := `
		INSERT INTO embeddings (chunk_id, document_id, vault_id, ordinal, title, source, text, vector)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (chunk_id) DO UPDATE SET
			vault_id = EXCLUDED.vault_id,
			ordinal  = EXCLUDED.ordinal,
			title    = EXCLUDED.title,
			source   = EXCLUDED.source,
			text     = EXCLUDED.text,
			vector   = EXCLUDED.vector
	`
	executor := GetExecutor(ctx, s.db)
	for _, e := range embeddings {
		_, err := executor.ExecContext(ctx, query,
			e.ChunkID, e.DocumentID, e.VaultID, e.Ordinal, e.Title, e.Source, e.Text, e.Vector,
		)
		if err != nil {
			return domain.Internal("upsert embedding", err)
		}
	}
	s.logger.Debug("embeddings upserted", zap.Int("count", len(embeddings)))
	return nil
}

// Search returns the topK nearest neighbors to query by cosine distance.
// A non-nil vaultID restricts the search to that vault's embeddings; a nil
// vaultID restricts it to embeddings with no vault at all, never every
// vault's embeddings at once.
func (s *VectorStore) Search(ctx context.Context, query []float32, vaultID *uuid.UUID, topK int) ([]repositories.VectorMatch, error) {
	vec := pgvector.NewVector(query)
	executor := GetExecutor(ctx, s.db)

	var (
		rows *sql.Rows
		err  error
	)

	if vaultID != nil {
		rows, err = executor.QueryContext(ctx, `
			SELECT chunk_id, document_id, ordinal, title, source, text, 1 - (vector <=> $1) AS score
			FROM embeddings
			WHERE vault_id = $2
			ORDER BY vector <=> $1, ordinal, document_id
			LIMIT $3
		`, vec, *vaultID, topK)
	} else {
		rows, err = executor.QueryContext(ctx, `
			SELECT chunk_id, document_id, ordinal, title, source, text, 1 - (vector <=> $1) AS score
			FROM embeddings
			WHERE vault_id IS NULL
			ORDER BY vector <=> $1, ordinal, document_id
			LIMIT $2
		`, vec, topK)
	}
	if err != nil {
		return nil, domain.Internal("vector search", err)
	}
	defer rows.Close()

	var matches []repositories.VectorMatch
	for rows.Next() {
		var m repositories.VectorMatch
		if err := rows.Scan(&m.ChunkID, &m.DocumentID, &m.Ordinal, &m.Title, &m.Source, &m.Text, &m.Score); err != nil {
			return nil, domain.Internal("scan vector match", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal("iterate vector matches", err)
	}
	return matches, nil
}

func (s *VectorStore) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	executor := GetExecutor(ctx, s.db)
	_, err := executor.ExecContext(ctx, `DELETE FROM embeddings WHERE document_id = $1`, documentID)
	if err != nil {
		return domain.Internal("delete embeddings by document", err)
	}
	return nil
}

func (s *VectorStore) DeleteByVault(ctx context.Context, vaultID uuid.UUID) error {
	executor := GetExecutor(ctx, s.db)
	_, err := executor.ExecContext(ctx, `DELETE FROM embeddings WHERE vault_id = $1`, vaultID)
	if err != nil {
		return domain.Internal("delete embeddings by vault", err)
	}
	return nil
}
