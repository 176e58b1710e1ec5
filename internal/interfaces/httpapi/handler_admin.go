package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

type updateFlagRequest struct {
	FlagName string `json:"flagName" validate:"required,max=64"`
	Enabled  *bool  `json:"enabled" validate:"required"`
}

func (h *Handler) GetFeatureFlags(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFeatureFlags")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, adminOverviewToDTO(h.adminService.Overview()))
}

func (h *Handler) UpdateFeatureFlag(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateFeatureFlag")
	defer span.End()

	var req updateFlagRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.adminService.SetFlag(req.FlagName, *req.Enabled)
	if err != nil {
		h.logger.WarnContext(ctx, "update feature flag failed", "flag", req.FlagName, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "feature flag updated", "flag", string(state.Name), "enabled", state.Enabled)
	writeJSON(ctx, w, http.StatusOK, flagToDTO(state))
}

func (h *Handler) GetRateLimit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRateLimit")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, rateLimitReportToDTO(h.adminService.RateLimit()))
}
