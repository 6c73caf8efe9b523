package handlers

import (
	"net/http"

	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/middleware"
	"github.com/upb/ragvault/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps a domain error to the uniform HTTP error body,
// logging internal failures with their correlation id.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	kind := domain.Of(err)

	switch kind {
	case domain.KindValidation:
		utils.WriteAPIError(w, http.StatusUnprocessableEntity, string(kind), err.Error())
	case domain.KindNotFound:
		utils.WriteAPIError(w, http.StatusNotFound, string(kind), err.Error())
	case domain.KindConflict:
		utils.WriteAPIError(w, http.StatusConflict, string(kind), err.Error())
	case domain.KindProviderTransient, domain.KindProviderPermanent, domain.KindProviderUnavailable:
		utils.WriteAPIError(w, http.StatusBadGateway, string(kind), "upstream model provider failed")
	case domain.KindStoreUnavailable:
		utils.WriteAPIError(w, http.StatusServiceUnavailable, string(kind), "storage is temporarily unavailable")
	case domain.KindTimeout:
		utils.WriteAPIError(w, http.StatusGatewayTimeout, string(kind), "request timed out")
	default:
		requestID := middleware.GetRequestIDFromContext(r.Context())
		logger.Error("internal error",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		utils.WriteAPIError(w, http.StatusInternalServerError, string(domain.KindInternal), "internal server error")
	}
}

// HandleValidationError writes a 422 response for a request that failed
// validation before it reached a service.
func HandleValidationError(w http.ResponseWriter, message string) {
	utils.WriteAPIError(w, http.StatusUnprocessableEntity, string(domain.KindValidation), message)
}
