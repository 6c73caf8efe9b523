package ingestion

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/ragvault/chunker"
	"github.com/upb/ragvault/config"
	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/providers"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// Input is one ingest request.
type Input struct {
	Text     string
	Title    string
	Source   string
	VaultID  *uuid.UUID
	Metadata map[string]interface{}
}

// Pipeline runs the full ingest flow: validate, chunk, embed, persist.
type Pipeline struct {
	repos    *repositories.Repositories
	txs      repositories.TransactionManager
	chunker  *chunker.WindowChunker
	embedder providers.Embedder
	batch    int
	logger   *zap.Logger
}

func NewPipeline(repos *repositories.Repositories, txs repositories.TransactionManager, embedder providers.Embedder, cfg config.IngestConfig, logger *zap.Logger) *Pipeline {
	batch := cfg.EmbedBatchSize
	if batch <= 0 {
		batch = 64
	}
	return &Pipeline{
		repos:    repos,
		txs:      txs,
		chunker:  chunker.NewWindowChunker(cfg.ChunkWindow, cfg.ChunkOverlap),
		embedder: embedder,
		batch:    batch,
		logger:   logger,
	}
}

// Ingest validates the input, chunks and embeds the text, and persists the
// resulting Document, Chunks and Embeddings. Either everything becomes
// visible, or nothing does: a failed vector-store write after the Document
// row commits is compensated by deleting that row.
func (p *Pipeline) Ingest(ctx context.Context, in Input) (uuid.UUID, error) {
	if len(in.Text) == 0 {
		return uuid.Nil, domain.Validation("text must not be empty")
	}

	if in.VaultID != nil {
		if _, err := p.repos.Vaults.GetByID(ctx, *in.VaultID); err != nil {
			return uuid.Nil, err
		}
	}

	raw := p.chunker.Chunk(in.Text)
	if len(raw) == 0 {
		return uuid.Nil, domain.Validation("text must not be empty")
	}

	doc := models.NewDocument(in.VaultID, in.Title, in.Source, in.Metadata)

	chunks := make([]*models.Chunk, len(raw))
	texts := make([]string, len(raw))
	for i, c := range raw {
		chunks[i] = models.NewChunk(doc.ID, c.Ordinal, c.Text, c.TokenCount)
		texts[i] = c.Text
	}

	vectors, err := p.embedInBatches(ctx, texts)
	if err != nil {
		return uuid.Nil, err
	}

	embeddings := make([]*models.Embedding, len(chunks))
	for i, c := range chunks {
		embeddings[i] = &models.Embedding{
			ChunkID:    c.ID,
			DocumentID: doc.ID,
			VaultID:    in.VaultID,
			Ordinal:    c.Ordinal,
			Title:      in.Title,
			Source:     in.Source,
			Text:       c.Text,
			Vector:     toPgvector(vectors[i]),
		}
	}

	err = p.txs.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		if err := p.repos.Documents.Create(ctx, doc); err != nil {
			return err
		}
		if err := p.repos.Documents.CreateChunks(ctx, chunks); err != nil {
			return err
		}
		return p.repos.Vectors.Upsert(ctx, embeddings)
	})
	if err != nil {
		if delErr := p.repos.Documents.Delete(ctx, doc.ID); delErr != nil {
			p.logger.Error("failed to compensate document after failed ingest",
				zap.String("document_id", doc.ID.String()), zap.Error(delErr))
		}
		return uuid.Nil, err
	}

	p.logger.Info("document ingested", zap.String("document_id", doc.ID.String()), zap.Int("chunks", len(chunks)))
	return doc.ID, nil
}

func (p *Pipeline) embedInBatches(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += p.batch {
		end := i + p.batch
		if end > len(texts) {
			end = len(texts)
		}
		batchVectors, err := p.embedder.Embed(ctx, texts[i:end])
		if err != nil {
			return nil, translateProviderErr(err)
		}
		vectors = append(vectors, batchVectors...)
	}
	return vectors, nil
}
