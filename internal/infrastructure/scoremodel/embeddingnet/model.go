package embeddingnet

import (
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
	"github.com/valyala/bytebufferpool"
)

// Model is a trained network. It is read-only after training and safe for concurrent Predict calls.
type Model struct {
	vocab     scoremodel.Vocabulary
	w         *weights
	trainedAt time.Time
}

var _ scoremodel.Model = (*Model)(nil)

func (m *Model) Vocabulary() scoremodel.Vocabulary {
	return m.vocab
}

func (m *Model) Predict(features scoremodel.Features) (scoremodel.RawOutput, error) {
	if err := features.Validate(); err != nil {
		return scoremodel.RawOutput{}, err
	}
	if err := m.checkIndices(features); err != nil {
		return scoremodel.RawOutput{}, err
	}

	p := m.w.forward(features)
	return scoremodel.RawOutput{
		Score:  p.score,
		Scorer: p.scorerOut,
		Time:   p.timeProb,
	}, nil
}

func (m *Model) EmbeddingFor(playerIndex int) ([]float64, error) {
	if playerIndex <= 0 || playerIndex >= len(m.w.Players) {
		return nil, crerr.Wrapf(scoremodel.ErrInvalidFeatures, "player index %d out of range", playerIndex)
	}
	return append([]float64(nil), m.w.Players[playerIndex]...), nil
}

// Snapshot encodes the weights as JSON.
func (m *Model) Snapshot() (scoremodel.Snapshot, error) {
	if !m.w.finite() {
		return scoremodel.Snapshot{}, crerr.Wrap(scoremodel.ErrInvalidSnapshot, "weights are not finite")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(m.w); err != nil {
		return scoremodel.Snapshot{}, crerr.Wrap(err, "encode weights")
	}

	return scoremodel.Snapshot{
		Version:    m.vocab.Version,
		Vocabulary: m.vocab,
		PlayerDim:  m.w.PlayerDim,
		TeamDim:    m.w.TeamDim,
		Weights:    append([]byte(nil), buf.B...),
		TrainedAt:  m.trainedAt,
	}, nil
}

func (m *Model) checkIndices(f scoremodel.Features) error {
	if f.HomeTeam < 0 || f.HomeTeam >= len(m.w.Teams) || f.AwayTeam < 0 || f.AwayTeam >= len(m.w.Teams) {
		return crerr.Wrapf(scoremodel.ErrInvalidFeatures, "team index out of range (%d, %d)", f.HomeTeam, f.AwayTeam)
	}
	for _, id := range slotIDs(f) {
		if id < 0 || id >= len(m.w.Players) {
			return crerr.Wrapf(scoremodel.ErrInvalidFeatures, "player index %d out of range", id)
		}
	}
	return nil
}

func restore(snapshot scoremodel.Snapshot) (*Model, error) {
	var w weights
	if err := sonic.Unmarshal(snapshot.Weights, &w); err != nil {
		return nil, crerr.Wrapf(scoremodel.ErrInvalidSnapshot, "decode weights: %v", err)
	}
	vocab := snapshot.Vocabulary
	if len(w.Players) != vocab.PlayerCount() || len(w.Teams) != vocab.TeamCount() {
		return nil, crerr.Wrapf(scoremodel.ErrInvalidSnapshot, "weights hold %d players and %d teams, vocabulary %d and %d",
			len(w.Players), len(w.Teams), vocab.PlayerCount(), vocab.TeamCount())
	}
	if w.PlayerDim != snapshot.PlayerDim || w.TeamDim != snapshot.TeamDim {
		return nil, crerr.Wrap(scoremodel.ErrInvalidSnapshot, "dimension mismatch")
	}
	in := inputDim(w.PlayerDim, w.TeamDim)
	if len(w.W1) != w.Hidden || len(w.B1) != w.Hidden || len(w.WScore) != scoreOutputs ||
		len(w.WTime) != scoremodel.TimeBins || len(w.ScorerU) != w.PlayerDim {
		return nil, crerr.Wrap(scoremodel.ErrInvalidSnapshot, "layer shapes do not match")
	}
	for _, row := range w.W1 {
		if len(row) != in {
			return nil, crerr.Wrap(scoremodel.ErrInvalidSnapshot, "hidden layer width does not match input")
		}
	}
	for _, row := range w.Players {
		if len(row) != w.PlayerDim {
			return nil, crerr.Wrap(scoremodel.ErrInvalidSnapshot, "player embedding width does not match")
		}
	}
	return &Model{vocab: vocab, w: &w, trainedAt: snapshot.TrainedAt}, nil
}
