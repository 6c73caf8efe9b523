package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/ragvault/ingestion"
	"github.com/upb/ragvault/middleware"
	"github.com/upb/ragvault/utils"
	"go.uber.org/zap"
)

// IngestRequest is the body of POST /ingest.
type IngestRequest struct {
	Text     string                 `json:"text" validate:"required"`
	Title    string                 `json:"title,omitempty"`
	Source   string                 `json:"source,omitempty"`
	VaultID  *uuid.UUID             `json:"vault_id,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// IngestHandler handles POST /ingest.
type IngestHandler struct {
	pipeline *ingestion.Pipeline
	logger   *zap.Logger
}

func NewIngestHandler(pipeline *ingestion.Pipeline, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{pipeline: pipeline, logger: logger}
}

func (h *IngestHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleValidationError(w, "invalid request body")
		return
	}

	documentID, err := h.pipeline.Ingest(ctx, ingestion.Input{
		Text:     req.Text,
		Title:    req.Title,
		Source:   req.Source,
		VaultID:  req.VaultID,
		Metadata: req.Metadata,
	})
	if err != nil {
		h.logger.Warn("ingest failed", zap.String("request_id", requestID), zap.Error(err))
		HandleServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Info("document ingested", zap.String("request_id", requestID), zap.String("document_id", documentID.String()))
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": documentID,
		"status":      "indexed",
	})
}
