package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/cricket-hub/internal/domain/match"
)

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	h.listMatches(w, r, match.ViewLive, "httpapi.Handler.ListLiveMatches")
}

func (h *Handler) ListRecentMatches(w http.ResponseWriter, r *http.Request) {
	h.listMatches(w, r, match.ViewRecent, "httpapi.Handler.ListRecentMatches")
}

func (h *Handler) ListUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	h.listMatches(w, r, match.ViewUpcoming, "httpapi.Handler.ListUpcomingMatches")
}

func (h *Handler) listMatches(w http.ResponseWriter, r *http.Request, view match.View, spanName string) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	limit, err := h.parseLimit(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.matchService.List(ctx, view, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "view", string(view), "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, matchesToDTO(items))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) GetMatchScorecard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchScorecard")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	card, err := h.matchService.Scorecard(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get scorecard failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, scorecardToDTO(card))
}

func (h *Handler) SyncMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.SyncDetails(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, matchToDTO(item))
}
