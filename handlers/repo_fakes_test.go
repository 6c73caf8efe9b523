package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/providers"
	"github.com/upb/ragvault/repositories"
)

type fakeVaultRepo struct {
	byID map[uuid.UUID]*models.Vault
}

func newFakeVaultRepo() *fakeVaultRepo { return &fakeVaultRepo{byID: make(map[uuid.UUID]*models.Vault)} }

func (f *fakeVaultRepo) Create(ctx context.Context, v *models.Vault) error {
	f.byID[v.ID] = v
	return nil
}
func (f *fakeVaultRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Vault, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, domain.NotFound("vault not found")
}
func (f *fakeVaultRepo) GetByName(ctx context.Context, name string) (*models.Vault, error) {
	return nil, domain.NotFound("vault not found")
}
func (f *fakeVaultRepo) List(ctx context.Context, limit, offset int) ([]*models.Vault, error) {
	var out []*models.Vault
	for _, v := range f.byID {
		out = append(out, v)
	}
	return out, nil
}
func (f *fakeVaultRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return domain.NotFound("vault not found")
	}
	delete(f.byID, id)
	return nil
}

type fakeDocumentRepo struct {
	byID map[uuid.UUID]*models.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{byID: make(map[uuid.UUID]*models.Document)}
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	f.byID[doc.ID] = doc
	return nil
}
func (f *fakeDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, domain.NotFound("document not found")
}
func (f *fakeDocumentRepo) List(ctx context.Context, vaultID *uuid.UUID, limit, offset int) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range f.byID {
		if vaultID == nil || (d.VaultID != nil && *d.VaultID == *vaultID) {
			out = append(out, d)
		}
	}
	return out, nil
}
func (f *fakeDocumentRepo) Count(ctx context.Context, vaultID *uuid.UUID) (int, error) {
	docs, _ := f.List(ctx, vaultID, 0, 0)
	return len(docs), nil
}
func (f *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return domain.NotFound("document not found")
	}
	delete(f.byID, id)
	return nil
}
func (f *fakeDocumentRepo) CreateChunks(ctx context.Context, chunks []*models.Chunk) error { return nil }

type fakeAgentRepo struct {
	byID map[uuid.UUID]*models.Agent
}

func newFakeAgentRepo() *fakeAgentRepo { return &fakeAgentRepo{byID: make(map[uuid.UUID]*models.Agent)} }

func (f *fakeAgentRepo) Create(ctx context.Context, a *models.Agent) error {
	f.byID[a.ID] = a
	return nil
}
func (f *fakeAgentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, domain.NotFound("agent not found")
}
func (f *fakeAgentRepo) List(ctx context.Context, vaultID *uuid.UUID, limit, offset int) ([]*models.Agent, error) {
	var out []*models.Agent
	for _, a := range f.byID {
		if vaultID == nil || a.VaultID == *vaultID {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeAgentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return domain.NotFound("agent not found")
	}
	delete(f.byID, id)
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionRepo) GetOrCreate(ctx context.Context, id string, userID *string) (*models.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	s := models.NewSession(id, userID)
	f.sessions[id] = s
	return s, nil
}
func (f *fakeSessionRepo) TouchLastActive(ctx context.Context, id string) error { return nil }

type fakeMessageRepo struct {
	bySession map[string][]*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{bySession: make(map[string][]*models.Message)}
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	f.bySession[msg.SessionID] = append(f.bySession[msg.SessionID], msg)
	return nil
}
func (f *fakeMessageRepo) RecentBySession(ctx context.Context, sessionID string, limit int) ([]*models.Message, error) {
	return f.bySession[sessionID], nil
}

type fakeVectorStore struct {
	matches []repositories.VectorMatch
}

func (f *fakeVectorStore) Upsert(ctx context.Context, embeddings []*models.Embedding) error { return nil }
func (f *fakeVectorStore) Search(ctx context.Context, query []float32, vaultID *uuid.UUID, topK int) ([]repositories.VectorMatch, error) {
	return f.matches, nil
}
func (f *fakeVectorStore) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error { return nil }
func (f *fakeVectorStore) DeleteByVault(ctx context.Context, vaultID uuid.UUID) error        { return nil }

type fakeTxManager struct{}

func (fakeTxManager) Begin(ctx context.Context) (repositories.Transaction, error) { return nil, nil }
func (fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, nil)
}

type fakeEmbedder struct{ dim int }

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}
func (f *fakeEmbedder) Dimension() int { return f.dim }

type fakeChatCompleter struct{ reply string }

func (f *fakeChatCompleter) Complete(ctx context.Context, messages []providers.ChatMessage, temperature float64) (string, error) {
	return f.reply, nil
}
