package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/models"
	"go.uber.org/zap"
)

func TestDocumentRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	vaultID := uuid.New()
	doc := models.NewDocument(&vaultID, "readme", "upload", map[string]interface{}{"lang": "en"})

	metadata, err := json.Marshal(doc.Metadata)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(doc.ID, doc.VaultID, doc.Title, doc.Source, metadata, doc.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	id := uuid.New()

	mock.ExpectQuery("SELECT d.id, d.vault_id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vault_id", "title", "source", "metadata", "created_at", "chunk_count"}))

	_, err := repo.GetByID(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.Of(err))
}

func TestDocumentRepository_List_FilteredByVault(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	vaultID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT d.id, d.vault_id").
		WithArgs(vaultID, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vault_id", "title", "source", "metadata", "created_at", "chunk_count"}).
			AddRow(uuid.New(), vaultID, "a", "upload", []byte(`{}`), now, 1))

	docs, err := repo.List(context.Background(), &vaultID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentRepository_List_Unfiltered(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT d.id, d.vault_id").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vault_id", "title", "source", "metadata", "created_at", "chunk_count"}).
			AddRow(uuid.New(), nil, "a", "upload", []byte(`{}`), now, 0).
			AddRow(uuid.New(), nil, "b", "upload", []byte(`{}`), now, 0))

	docs, err := repo.List(context.Background(), nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentRepository_Count_FilteredByVault(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	vaultID := uuid.New()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE vault_id").
		WithArgs(vaultID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.Count(context.Background(), &vaultID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestDocumentRepository_Count_Unfiltered(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents$").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 12, count)
}

func TestDocumentRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	id := uuid.New()

	mock.ExpectExec("DELETE FROM documents").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.Of(err))
}

func TestDocumentRepository_CreateChunks_Empty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())

	require.NoError(t, repo.CreateChunks(context.Background(), nil))
}

func TestDocumentRepository_CreateChunks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db, zap.NewNop())
	docID := uuid.New()
	chunks := []*models.Chunk{
		{ID: uuid.New(), DocumentID: docID, Ordinal: 0, Text: "first", TokenCount: 1},
		{ID: uuid.New(), DocumentID: docID, Ordinal: 1, Text: "second", TokenCount: 1},
	}

	mock.ExpectExec("INSERT INTO chunks").
		WithArgs(chunks[0].ID, chunks[0].DocumentID, chunks[0].Ordinal, chunks[0].Text, chunks[0].TokenCount).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO chunks").
		WithArgs(chunks[1].ID, chunks[1].DocumentID, chunks[1].Ordinal, chunks[1].Text, chunks[1].TokenCount).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.CreateChunks(context.Background(), chunks))
	assert.NoError(t, mock.ExpectationsWereMet())
}
