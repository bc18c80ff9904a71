package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-predictor/internal/domain/accuracy"
	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

type MatchQueries interface {
	ListMatches(ctx context.Context) ([]usecase.MatchView, error)
	Stats(ctx context.Context, strategy string) (accuracy.Summary, error)
}

type JobRunner interface {
	RunStep(ctx context.Context, step string) (usecase.PipelineResult, error)
}

type FeedbackSubmitter interface {
	Submit(ctx context.Context, record feedback.Record) (usecase.SubmitFeedbackResult, error)
}

type Handler struct {
	queries   MatchQueries
	jobs      JobRunner
	feedback  FeedbackSubmitter
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(queries MatchQueries, jobs JobRunner, feedbackSubmitter FeedbackSubmitter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		queries:   queries,
		jobs:      jobs,
		feedback:  feedbackSubmitter,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
