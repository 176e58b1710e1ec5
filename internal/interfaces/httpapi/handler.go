package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

type Handler struct {
	matchService  *usecase.MatchService
	seriesService *usecase.SeriesService
	adminService  *usecase.AdminService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	seriesService *usecase.SeriesService,
	adminService *usecase.AdminService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:  matchService,
		seriesService: seriesService,
		adminService:  adminService,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type limitQuery struct {
	Limit int `validate:"min=1,max=100"`
}

// parseLimit reads ?limit, defaulting when absent.
func (h *Handler) parseLimit(ctx context.Context, r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return usecase.DefaultListLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput)
	}
	if err := h.validateRequest(ctx, limitQuery{Limit: limit}); err != nil {
		return 0, err
	}
	return limit, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
