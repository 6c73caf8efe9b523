package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/ragvault/middleware"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/services"
	"github.com/upb/ragvault/utils"
	"go.uber.org/zap"
)

// CreateVaultRequest is the body of POST /vaults.
type CreateVaultRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// VaultResponse is a vault in API responses.
type VaultResponse struct {
	VaultID       uuid.UUID `json:"vault_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     string    `json:"created_at"`
	DocumentCount int       `json:"document_count"`
}

// VaultHandler handles /vaults HTTP requests.
type VaultHandler struct {
	vaults *services.VaultService
	logger *zap.Logger
}

func NewVaultHandler(vaults *services.VaultService, logger *zap.Logger) *VaultHandler {
	return &VaultHandler{vaults: vaults, logger: logger}
}

func (h *VaultHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req CreateVaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleValidationError(w, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err.Error())
		return
	}

	vault, err := h.vaults.Create(ctx, req.Name, req.Description)
	if err != nil {
		h.logger.Warn("failed to create vault", zap.String("request_id", requestID), zap.Error(err))
		HandleServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Info("vault created", zap.String("request_id", requestID), zap.String("vault_id", vault.ID.String()))
	utils.WriteJSON(w, http.StatusCreated, vaultToResponse(vault))
}

func (h *VaultHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset := paginationParams(r)
	vaults, err := h.vaults.List(ctx, limit, offset)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	responses := make([]VaultResponse, len(vaults))
	for i, v := range vaults {
		responses[i] = vaultToResponse(v)
	}
	utils.WriteJSON(w, http.StatusOK, responses)
}

func (h *VaultHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleValidationError(w, "invalid vault id")
		return
	}

	vault, err := h.vaults.Get(ctx, id)
	if err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}
	utils.WriteJSON(w, http.StatusOK, vaultToResponse(vault))
}

func (h *VaultHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleValidationError(w, "invalid vault id")
		return
	}

	if err := h.vaults.Delete(ctx, id); err != nil {
		HandleServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Info("vault deleted", zap.String("request_id", requestID), zap.String("vault_id", id.String()))
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"vault_id": id,
		"status":   "deleted",
	})
}

func vaultToResponse(v *models.Vault) VaultResponse {
	return VaultResponse{
		VaultID:       v.ID,
		Name:          v.Name,
		Description:   v.Description,
		CreatedAt:     v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		DocumentCount: v.DocumentCount,
	}
}

// paginationParams reads limit/offset query params, defaulting to 50/0 and
// clamping limit to 200.
func paginationParams(r *http.Request) (int, int) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 200 {
		limit = 200
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
