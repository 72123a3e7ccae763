package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"gradelookup/backend/internal/gateway/util"
)

// HealthHandler reports whether the gateway can reach the record service.
type HealthHandler struct {
	Resolver Resolver
	Logger   *zap.Logger
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Resolver == nil {
		util.WriteJSONError(w, http.StatusServiceUnavailable, util.MsgDatabaseUnavailable)
		return
	}

	count, err := h.Resolver.Count(r.Context())
	if err != nil {
		h.Logger.Warn("record service health check failed", zap.Error(err))
		status, message := util.LookupErrorMessage(err)
		if status == http.StatusInternalServerError {
			status = http.StatusServiceUnavailable
		}
		util.WriteJSONError(w, status, message)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "ok",
		"records": count,
	})
}
