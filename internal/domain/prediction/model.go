package prediction

import (
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
)

var ErrInconsistentPrediction = crerr.New("inconsistent prediction")

// Prediction is the stored forecast for one upcoming match.
type Prediction struct {
	MatchID   int64
	Score     string
	Scorers   []string
	GoalTimes []string
	CreatedAt time.Time
}

func (p Prediction) ParsedScore() (match.Score, error) {
	return match.ParseScore(p.Score)
}

// Validate checks scorers and goal times line up with the predicted goal count.
func (p Prediction) Validate() error {
	score, err := p.ParsedScore()
	if err != nil {
		return crerr.Wrapf(err, "prediction for match %d", p.MatchID)
	}
	if len(p.Scorers) != len(p.GoalTimes) {
		return crerr.Wrapf(ErrInconsistentPrediction, "match %d has %d scorers and %d goal times", p.MatchID, len(p.Scorers), len(p.GoalTimes))
	}
	if len(p.Scorers) != score.Total() {
		return crerr.Wrapf(ErrInconsistentPrediction, "match %d predicts %d goals but lists %d scorers", p.MatchID, score.Total(), len(p.Scorers))
	}
	return nil
}

// FormatMinute renders a goal time as stored, e.g. 37'.
func FormatMinute(minute int) string {
	return strconv.Itoa(minute) + "'"
}

// Minutes parses the stored goal times.
func (p Prediction) Minutes() ([]int, error) {
	out := make([]int, 0, len(p.GoalTimes))
	for _, raw := range p.GoalTimes {
		minute, err := match.ParseMinute(strings.TrimSpace(raw))
		if err != nil {
			return nil, crerr.Wrapf(err, "prediction for match %d", p.MatchID)
		}
		out = append(out, minute)
	}
	return out, nil
}
