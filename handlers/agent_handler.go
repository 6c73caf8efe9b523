package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/ragvault/middleware"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/services"
	"github.com/upb/ragvault/utils"
	"go.uber.org/zap"
)

// CreateAgentRequest is the body of POST /agents.
type CreateAgentRequest struct {
	Name         string    `json:"name" validate:"required"`
	VaultID      uuid.UUID `json:"vault_id" validate:"required"`
	SystemPrompt string    `json:"system_prompt" validate:"required"`
}

// AgentResponse is an agent in API responses.
type AgentResponse struct {
	AgentID      uuid.UUID `json:"agent_id"`
	Name         string    `json:"name"`
	VaultID      uuid.UUID `json:"vault_id"`
	SystemPrompt string    `json:"system_prompt"`
	CreatedAt    string    `json:"created_at"`
}

// AgentHandler handles /agents HTTP requests.
type AgentHandler struct {
	agents *services.AgentService
	logger *zap.Logger
}

func NewAgentHandler(agents *services.AgentService, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{agents: agents, logger: logger}
}

func (h *AgentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleValidationError(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err.Error())
		return
	}

	agent, err := h.agents.Create(ctx, req.Name, req.VaultID, req.SystemPrompt)
	if err != nil {
		h.logger.Warn("failed to create agent", zap.String("request_id", requestID), zap.Error(err))
		HandleServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Info("agent created", zap.String("request_id", requestID), zap.String("agent_id", agent.ID.String()))
	utils.WriteJSON(w, http.StatusOK, agentToResponse(agent))
}

func (h *AgentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
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

	agents, err := h.agents.List(ctx, vaultID, limit, offset)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	responses := make([]AgentResponse, len(agents))
	for i, a := range agents {
		responses[i] = agentToResponse(a)
	}
	utils.WriteJSON(w, http.StatusOK, responses)
}

func (h *AgentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleValidationError(w, "invalid agent id")
		return
	}

	agent, err := h.agents.Get(ctx, id)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}
	utils.WriteJSON(w, http.StatusOK, agentToResponse(agent))
}

func (h *AgentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleValidationError(w, "invalid agent id")
		return
	}

	if err := h.agents.Delete(ctx, id); err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Info("agent deleted", zap.String("request_id", requestID), zap.String("agent_id", id.String()))
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "agent deleted",
	})
}

func agentToResponse(a *models.Agent) AgentResponse {
	return AgentResponse{
		AgentID:      a.ID,
		Name:         a.Name,
		VaultID:      a.VaultID,
		SystemPrompt: a.SystemPrompt,
		CreatedAt:    a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
