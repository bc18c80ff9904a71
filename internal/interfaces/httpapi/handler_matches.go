package httpapi

import (
	"net/http"
	"strings"
)

type statsQuery struct {
	Strategy string `validate:"omitempty,oneof=mean_of_means global_mean"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	views, err := h.queries.ListMatches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToResponse(views))
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStats")
	defer span.End()

	query := statsQuery{Strategy: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("strategy")))}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.queries.Stats(ctx, query.Strategy)
	if err != nil {
		h.logger.WarnContext(ctx, "get stats failed", "strategy", query.Strategy, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}
