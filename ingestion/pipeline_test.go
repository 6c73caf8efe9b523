package ingestion

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/ragvault/config"
	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/providers"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

// fakeVaultRepo implements repositories.VaultRepository for pipeline tests.
type fakeVaultRepo struct {
	vaults map[uuid.UUID]*models.Vault
}

func (f *fakeVaultRepo) Create(ctx context.Context, v *models.Vault) error { return nil }
func (f *fakeVaultRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Vault, error) {
	if v, ok := f.vaults[id]; ok {
		return v, nil
	}
	return nil, domain.NotFound("vault not found")
}
func (f *fakeVaultRepo) GetByName(ctx context.Context, name string) (*models.Vault, error) {
	return nil, domain.NotFound("vault not found")
}
func (f *fakeVaultRepo) List(ctx context.Context, limit, offset int) ([]*models.Vault, error) {
	return nil, nil
}
func (f *fakeVaultRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

// fakeDocumentRepo implements repositories.DocumentRepository, recording
// every call so tests can assert on the compensating-delete path.
type fakeDocumentRepo struct {
	mu           sync.Mutex
	created      []*models.Document
	chunksByDoc  map[uuid.UUID][]*models.Chunk
	deletedIDs   []uuid.UUID
	createErr    error
	createChkErr error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{chunksByDoc: make(map[uuid.UUID][]*models.Chunk)}
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, doc)
	return nil
}
func (f *fakeDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return nil, domain.NotFound("not found")
}
func (f *fakeDocumentRepo) List(ctx context.Context, vaultID *uuid.UUID, limit, offset int) ([]*models.Document, error) {
	return nil, nil
}
func (f *fakeDocumentRepo) Count(ctx context.Context, vaultID *uuid.UUID) (int, error) {
	return 0, nil
}
func (f *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}
func (f *fakeDocumentRepo) CreateChunks(ctx context.Context, chunks []*models.Chunk) error {
	if f.createChkErr != nil {
		return f.createChkErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range chunks {
		f.chunksByDoc[c.DocumentID] = append(f.chunksByDoc[c.DocumentID], c)
	}
	return nil
}

// fakeVectorStore implements repositories.VectorStore.
type fakeVectorStore struct {
	mu        sync.Mutex
	upserted  []*models.Embedding
	upsertErr error
}

func (f *fakeVectorStore) Upsert(ctx context.Context, embeddings []*models.Embedding) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, embeddings...)
	return nil
}
func (f *fakeVectorStore) Search(ctx context.Context, query []float32, vaultID *uuid.UUID, topK int) ([]repositories.VectorMatch, error) {
	return nil, nil
}
func (f *fakeVectorStore) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	return nil
}
func (f *fakeVectorStore) DeleteByVault(ctx context.Context, vaultID uuid.UUID) error { return nil }

// fakeTxManager runs the function inline, no real transaction semantics.
type fakeTxManager struct{}

func (fakeTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return nil, nil
}
func (fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, nil)
}

// fakeEmbedder implements providers.Embedder.
type fakeEmbedder struct {
	dim       int
	embedErr  error
	callCount int
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.callCount++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}
func (f *fakeEmbedder) Dimension() int { return f.dim }

func newTestRepos(vaults *fakeVaultRepo, docs *fakeDocumentRepo, vectors *fakeVectorStore) *repositories.Repositories {
	return &repositories.Repositories{
		Vaults:    vaults,
		Documents: docs,
		Vectors:   vectors,
	}
}

func TestPipeline_Ingest_EmptyText(t *testing.T) {
	p := NewPipeline(newTestRepos(&fakeVaultRepo{}, newFakeDocumentRepo(), &fakeVectorStore{}), fakeTxManager{}, &fakeEmbedder{dim: 3}, config.IngestConfig{}, zap.NewNop())

	_, err := p.Ingest(context.Background(), Input{Text: ""})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.Of(err))
}

func TestPipeline_Ingest_UnknownVault(t *testing.T) {
	vaultID := uuid.New()
	p := NewPipeline(newTestRepos(&fakeVaultRepo{vaults: map[uuid.UUID]*models.Vault{}}, newFakeDocumentRepo(), &fakeVectorStore{}), fakeTxManager{}, &fakeEmbedder{dim: 3}, config.IngestConfig{}, zap.NewNop())

	_, err := p.Ingest(context.Background(), Input{Text: "hello world", VaultID: &vaultID})
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.Of(err))
}

func TestPipeline_Ingest_HappyPath(t *testing.T) {
	vaultID := uuid.New()
	vaults := &fakeVaultRepo{vaults: map[uuid.UUID]*models.Vault{vaultID: {ID: vaultID, Name: "docs"}}}
	docs := newFakeDocumentRepo()
	vectors := &fakeVectorStore{}
	repos := newTestRepos(vaults, docs, vectors)

	p := NewPipeline(repos, fakeTxManager{}, &fakeEmbedder{dim: 4}, config.IngestConfig{ChunkWindow: 5, ChunkOverlap: 1, EmbedBatchSize: 2}, zap.NewNop())

	words := ""
	for i := 0; i < 12; i++ {
		words += "word "
	}

	id, err := p.Ingest(context.Background(), Input{Text: words, Title: "t", Source: "s", VaultID: &vaultID})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	require.Len(t, docs.created, 1)
	assert.Equal(t, id, docs.created[0].ID)
	assert.NotEmpty(t, docs.chunksByDoc[id])
	assert.Len(t, vectors.upserted, len(docs.chunksByDoc[id]))
	assert.Empty(t, docs.deletedIDs)
}

func TestPipeline_Ingest_CompensatesOnVectorStoreFailure(t *testing.T) {
	docs := newFakeDocumentRepo()
	vectors := &fakeVectorStore{upsertErr: assertErr}
	repos := newTestRepos(&fakeVaultRepo{}, docs, vectors)

	p := NewPipeline(repos, fakeTxManager{}, &fakeEmbedder{dim: 2}, config.IngestConfig{ChunkWindow: 50, ChunkOverlap: 0, EmbedBatchSize: 10}, zap.NewNop())

	_, err := p.Ingest(context.Background(), Input{Text: "some short text", Title: "t"})
	require.Error(t, err)
	require.Len(t, docs.created, 1)
	assert.Equal(t, docs.created[0].ID, docs.deletedIDs[0])
}

func TestPipeline_Ingest_EmbedderFailureTranslatesToProviderError(t *testing.T) {
	docs := newFakeDocumentRepo()
	repos := newTestRepos(&fakeVaultRepo{}, docs, &fakeVectorStore{})
	embedder := &fakeEmbedder{dim: 2, embedErr: providers.NewError("openai", providers.Transient, "rate limited", nil)}

	p := NewPipeline(repos, fakeTxManager{}, embedder, config.IngestConfig{ChunkWindow: 50, ChunkOverlap: 0, EmbedBatchSize: 10}, zap.NewNop())

	_, err := p.Ingest(context.Background(), Input{Text: "some text to embed"})
	require.Error(t, err)
	assert.Equal(t, domain.KindProviderTransient, domain.Of(err))
	assert.Empty(t, docs.created)
}

var assertErr = domain.Internal("upsert failed", nil)
