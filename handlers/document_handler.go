package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/ragvault/middleware"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/services"
	"github.com/upb/ragvault/utils"
	"go.uber.org/zap"
)

// DocumentResponse is a document in API responses.
type DocumentResponse struct {
	ID         uuid.UUID              `json:"id"`
	VaultID    *uuid.UUID              `json:"vault_id,omitempty"`
	Title      string                 `json:"title,omitempty"`
	Source     string                 `json:"source,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  string                 `json:"created_at"`
	ChunkCount int                    `json:"chunk_count"`
}

// DocumentListResponse is the body of GET /documents.
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// DocumentHandler handles /documents HTTP requests.
type DocumentHandler struct {
	documents *services.DocumentService
	logger    *zap.Logger
}

func NewDocumentHandler(documents *services.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{documents: documents, logger: logger}
}

func (h *DocumentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var vaultID *uuid.UUID
	if v := r.URL.Query().Get("vault_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			HandleValidationError(w, "invalid vault_id")
			return
		}
		vaultID = &parsed
	}

	limit, offset := paginationParams(r)

	docs, err := h.documents.List(ctx, vaultID, limit, offset)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}
	total, err := h.documents.Count(ctx, vaultID)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	responses := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = documentToResponse(d)
	}

	utils.WriteJSON(w, http.StatusOK, DocumentListResponse{
		Documents: responses,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	})
}

func (h *DocumentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleValidationError(w, "invalid document id")
		return
	}

	doc, err := h.documents.Get(ctx, id)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}
	utils.WriteJSON(w, http.StatusOK, documentToResponse(doc))
}

func (h *DocumentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleValidationError(w, "invalid document id")
		return
	}

	if err := h.documents.Delete(ctx, id); err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Info("document deleted", zap.String("request_id", requestID), zap.String("document_id", id.String()))
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "document deleted",
		"document_id": id,
	})
}

func documentToResponse(d *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID,
		VaultID:    d.VaultID,
		Title:      d.Title,
		Source:     d.Source,
		Metadata:   d.Metadata,
		CreatedAt:  d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		ChunkCount: d.ChunkCount,
	}
}
