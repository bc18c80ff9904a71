package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/match-predictor/internal/usecase"
)

type jobRequest struct {
	Job string `validate:"required,oneof=train predict evaluate run"`
}

// RunJob executes one pipeline step synchronously and returns its result.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunJob")
	defer span.End()

	if h.jobs == nil {
		writeError(ctx, w, fmt.Errorf("%w: job runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req := jobRequest{Job: strings.ToLower(strings.TrimSpace(r.PathValue("job")))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobs.RunStep(ctx, req.Job)
	if err != nil {
		h.logger.WarnContext(ctx, "run job failed", "job", req.Job, "run_id", result.RunID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
