package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeries")
	defer span.End()

	items, err := h.seriesService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list series failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, seriesListToDTO(items))
}

// ListActiveSeries serves ongoing series. With ?type it narrows to one series
// type and honours ?limit.
func (h *Handler) ListActiveSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListActiveSeries")
	defer span.End()

	seriesType := strings.TrimSpace(r.URL.Query().Get("type"))
	if seriesType == "" {
		items, err := h.seriesService.Active(ctx)
		if err != nil {
			h.logger.WarnContext(ctx, "list active series failed", "error", err)
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, seriesListToDTO(items))
		return
	}

	limit, err := h.parseLimit(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.seriesService.ByType(ctx, seriesType, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list series by type failed", "series_type", seriesType, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, seriesListToDTO(items))
}

func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeries")
	defer span.End()

	seriesID := strings.TrimSpace(r.PathValue("seriesID"))
	item, err := h.seriesService.Get(ctx, seriesID)
	if err != nil {
		h.logger.WarnContext(ctx, "get series failed", "series_id", seriesID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, seriesToDTO(item))
}

func (h *Handler) GetSeriesStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeriesStandings")
	defer span.End()

	seriesID := strings.TrimSpace(r.PathValue("seriesID"))
	out, err := h.seriesService.Standings(ctx, seriesID)
	if err != nil {
		h.logger.WarnContext(ctx, "get series standings failed", "series_id", seriesID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, seriesStandingsDTO{
		SeriesID:   out.SeriesID,
		SeriesName: out.SeriesName,
		Standings:  standingsToDTO(out.Standings),
	})
}
