package httpapi

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/match-predictor/internal/domain/feedback"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

type submitFeedbackRequest struct {
	MatchID           int64    `json:"match_id" validate:"required,gt=0"`
	PredictedScore    string   `json:"predicted_score" validate:"required"`
	ActualScore       string   `json:"actual_score" validate:"required"`
	PredictedScorers  []string `json:"predicted_scorers" validate:"max=20,dive,required"`
	ActualScorers     []string `json:"actual_scorers" validate:"max=20,dive,required"`
	PredictedTimes    []string `json:"predicted_times" validate:"max=20"`
	ActualTimes       []string `json:"actual_times" validate:"max=20"`
	ScoreAccuracy     int      `json:"score_accuracy" validate:"gte=0,lte=100"`
	ScorerAccuracy    int      `json:"scorer_accuracy" validate:"gte=0,lte=100"`
	TimeAccuracy      int      `json:"time_accuracy" validate:"gte=0,lte=100"`
	UnexpectedFactors []string `json:"unexpected_factors"`
}

func (req submitFeedbackRequest) toRecord() feedback.Record {
	return feedback.Record{
		MatchID:           req.MatchID,
		PredictedScore:    req.PredictedScore,
		ActualScore:       req.ActualScore,
		PredictedScorers:  req.PredictedScorers,
		ActualScorers:     req.ActualScorers,
		PredictedTimes:    req.PredictedTimes,
		ActualTimes:       req.ActualTimes,
		ScoreAccuracy:     req.ScoreAccuracy,
		ScorerAccuracy:    req.ScorerAccuracy,
		TimeAccuracy:      req.TimeAccuracy,
		UnexpectedFactors: req.UnexpectedFactors,
	}
}

// SubmitFeedback upserts a feedback record and retrains the model on it.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitFeedback")
	defer span.End()

	if h.feedback == nil {
		writeError(ctx, w, fmt.Errorf("%w: feedback service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req submitFeedbackRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.feedback.Submit(ctx, req.toRecord())
	if err != nil {
		h.logger.WarnContext(ctx, "submit feedback failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
