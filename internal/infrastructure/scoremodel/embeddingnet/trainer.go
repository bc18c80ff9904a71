package embeddingnet

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
)

// Config sizes the network and the training schedule.
type Config struct {
	PlayerDim        int
	TeamDim          int
	Hidden           int
	LearningRate     float64
	EpochsNew        int
	EpochsExisting   int
	PatienceNew      int
	PatienceExisting int
	Seed             uint64
}

func DefaultConfig() Config {
	return Config{
		PlayerDim:        64,
		TeamDim:          32,
		Hidden:           32,
		LearningRate:     0.01,
		EpochsNew:        100,
		EpochsExisting:   20,
		PatienceNew:      10,
		PatienceExisting: 5,
		Seed:             42,
	}
}

const minImprovement = 1e-6

type Trainer struct {
	cfg Config
	now func() time.Time
}

var _ scoremodel.Trainer = (*Trainer)(nil)

func NewTrainer(cfg Config) *Trainer {
	def := DefaultConfig()
	if cfg.PlayerDim <= 0 {
		cfg.PlayerDim = def.PlayerDim
	}
	if cfg.TeamDim <= 0 {
		cfg.TeamDim = def.TeamDim
	}
	if cfg.Hidden <= 0 {
		cfg.Hidden = def.Hidden
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = def.LearningRate
	}
	if cfg.EpochsNew <= 0 {
		cfg.EpochsNew = def.EpochsNew
	}
	if cfg.EpochsExisting <= 0 {
		cfg.EpochsExisting = def.EpochsExisting
	}
	if cfg.PatienceNew <= 0 {
		cfg.PatienceNew = def.PatienceNew
	}
	if cfg.PatienceExisting <= 0 {
		cfg.PatienceExisting = def.PatienceExisting
	}
	return &Trainer{cfg: cfg, now: time.Now}
}

func (t *Trainer) Restore(snapshot scoremodel.Snapshot) (scoremodel.Model, error) {
	return restore(snapshot)
}

// Train warm-starts from a compatible existing model, otherwise builds a new network
// seeded with the stored embeddings whose width matches.
func (t *Trainer) Train(ctx context.Context, dataset scoremodel.Dataset, existing scoremodel.Model) (scoremodel.Model, scoremodel.TrainReport, error) {
	if len(dataset.Examples) == 0 {
		return nil, scoremodel.TrainReport{}, scoremodel.ErrNoTrainingData
	}
	for _, ex := range dataset.Examples {
		if err := ex.Features.Validate(); err != nil {
			return nil, scoremodel.TrainReport{}, crerr.Wrapf(err, "match %d", ex.MatchID)
		}
	}

	rng := newRNG(t.cfg.Seed)
	report := scoremodel.TrainReport{Examples: len(dataset.Examples)}

	w, reason := t.warmStart(dataset.Vocabulary, existing)
	epochs, patience := t.cfg.EpochsExisting, t.cfg.PatienceExisting
	if w == nil {
		var seeded int
		w, seeded = newWeights(dataset.Vocabulary, t.cfg, dataset.Embeddings, rng)
		epochs, patience = t.cfg.EpochsNew, t.cfg.PatienceNew
		report.Rebuilt = true
		report.Reason = reason
		if seeded > 0 {
			report.Reason += ", reused stored embeddings"
		}
	}

	model := &Model{vocab: dataset.Vocabulary, w: w}
	for _, ex := range dataset.Examples {
		if err := model.checkIndices(ex.Features); err != nil {
			return nil, scoremodel.TrainReport{}, crerr.Wrapf(err, "match %d", ex.MatchID)
		}
	}

	order := make([]int, len(dataset.Examples))
	for i := range order {
		order[i] = i
	}

	best := math.Inf(1)
	stale := 0
	for epoch := 0; epoch < epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, scoremodel.TrainReport{}, err
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var total float64
		for _, idx := range order {
			ex := dataset.Examples[idx]
			total += w.backward(w.forward(ex.Features), ex.Target, t.cfg.LearningRate)
		}
		loss := total / float64(len(order))
		report.Epochs = epoch + 1
		report.Loss = loss

		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, report, crerr.Newf("training diverged at epoch %d", epoch+1)
		}
		if loss < best-minImprovement {
			best = loss
			stale = 0
			continue
		}
		stale++
		if stale >= patience {
			break
		}
	}

	model.trainedAt = t.now().UTC()
	return model, report, nil
}

// warmStart returns a copy of the existing weights, or nil with the rebuild reason.
func (t *Trainer) warmStart(vocab scoremodel.Vocabulary, existing scoremodel.Model) (*weights, string) {
	if existing == nil {
		return nil, "no existing model"
	}
	prev, ok := existing.(*Model)
	if !ok {
		return nil, "existing model has an unknown layout"
	}
	if err := prev.vocab.Compatible(vocab); err != nil {
		return nil, err.Error()
	}
	if prev.w.PlayerDim != t.cfg.PlayerDim || prev.w.TeamDim != t.cfg.TeamDim || prev.w.Hidden != t.cfg.Hidden {
		return nil, "embedding dimensions changed"
	}
	return prev.w.clone(), ""
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
