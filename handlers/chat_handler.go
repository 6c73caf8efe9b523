package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/ragvault/middleware"
	"github.com/upb/ragvault/retrieval"
	"github.com/upb/ragvault/utils"
	"go.uber.org/zap"
)

// ChatConfigRequest overrides chat defaults for a single turn.
type ChatConfigRequest struct {
	TopK        int     `json:"top_k,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string             `json:"session_id" validate:"required"`
	Message   string             `json:"message" validate:"required"`
	VaultID   *uuid.UUID         `json:"vault_id,omitempty"`
	Config    *ChatConfigRequest `json:"config,omitempty"`
}

// SourceResponse is a retrieved chunk surfaced alongside a chat answer.
type SourceResponse struct {
	DocumentID uuid.UUID `json:"document_id"`
	Title      string    `json:"title,omitempty"`
	Snippet    string    `json:"snippet"`
	Score      float64   `json:"score"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	SessionID string           `json:"session_id"`
	Answer    string           `json:"answer"`
	Sources   []SourceResponse `json:"sources"`
}

// ChatHandler handles POST /chat.
type ChatHandler struct {
	core   *retrieval.Core
	logger *zap.Logger
}

func NewChatHandler(core *retrieval.Core, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{core: core, logger: logger}
}

func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleValidationError(w, "invalid request body")
		return
	}

	in := retrieval.Input{
		SessionID: req.SessionID,
		Message:   req.Message,
		VaultID:   req.VaultID,
	}
	if req.Config != nil {
		in.Options.TopK = req.Config.TopK
		in.Options.Temperature = req.Config.Temperature
	}

	result, err := h.core.Chat(ctx, in)
	if err != nil {
		h.logger.Warn("chat turn failed", zap.String("request_id", requestID), zap.Error(err))
		HandleServiceError(w, r, err, h.logger)
		return
	}

	sources := make([]SourceResponse, len(result.Sources))
	for i, s := range result.Sources {
		sources[i] = SourceResponse{
			DocumentID: s.DocumentID,
			Title:      s.Title,
			Snippet:    s.Snippet,
			Score:      s.Score,
		}
	}

	utils.WriteJSON(w, http.StatusOK, ChatResponse{
		SessionID: req.SessionID,
		Answer:    result.Answer,
		Sources:   sources,
	})
}
