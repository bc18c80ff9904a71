package embeddingnet

import (
	"math"
	"math/rand/v2"

	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
	"gonum.org/v1/gonum/floats"
)

const (
	scoreOutputs = 2
	// formFeatures are the mean lineup form of each side.
	formFeatures = 2
	gradientClip = 5.0
)

// weights is the full parameter set. Row 0 of Players and Teams stays zero for padding.
type weights struct {
	PlayerDim int `json:"player_dim"`
	TeamDim   int `json:"team_dim"`
	Hidden    int `json:"hidden"`

	Players [][]float64 `json:"players"`
	Teams   [][]float64 `json:"teams"`

	W1 [][]float64 `json:"w1"`
	B1 []float64   `json:"b1"`

	WScore [][]float64 `json:"w_score"`
	BScore []float64   `json:"b_score"`
	WTime  [][]float64 `json:"w_time"`
	BTime  []float64   `json:"b_time"`

	ScorerU    []float64 `json:"scorer_u"`
	ScorerForm float64   `json:"scorer_form"`
	ScorerBias float64   `json:"scorer_bias"`
}

func inputDim(playerDim, teamDim int) int {
	return 2*playerDim + 2*teamDim + formFeatures + scoremodel.H2HFeatures
}

func glorot(rng *rand.Rand, fanIn, fanOut int) float64 {
	return rng.NormFloat64() * math.Sqrt(2/float64(fanIn+fanOut))
}

func randomMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = glorot(rng, cols, rows)
		}
	}
	return out
}

// randomEmbedding draws a vector with stddev sqrt(2/(n+dim)), n being the vocabulary size.
func randomEmbedding(rng *rand.Rand, n, dim int) []float64 {
	out := make([]float64, dim)
	for i := range out {
		out[i] = glorot(rng, n, dim)
	}
	return out
}

func newWeights(vocab scoremodel.Vocabulary, cfg Config, seeds map[string][]float64, rng *rand.Rand) (*weights, int) {
	w := &weights{
		PlayerDim: cfg.PlayerDim,
		TeamDim:   cfg.TeamDim,
		Hidden:    cfg.Hidden,
		Players:   make([][]float64, vocab.PlayerCount()),
		Teams:     make([][]float64, vocab.TeamCount()),
	}

	seeded := 0
	w.Players[0] = make([]float64, cfg.PlayerDim)
	for i := 1; i < vocab.PlayerCount(); i++ {
		if stored, ok := seeds[vocab.Players[i]]; ok && len(stored) == cfg.PlayerDim {
			w.Players[i] = append([]float64(nil), stored...)
			seeded++
			continue
		}
		w.Players[i] = randomEmbedding(rng, vocab.PlayerCount(), cfg.PlayerDim)
	}
	w.Teams[0] = make([]float64, cfg.TeamDim)
	for i := 1; i < vocab.TeamCount(); i++ {
		w.Teams[i] = randomEmbedding(rng, vocab.TeamCount(), cfg.TeamDim)
	}

	in := inputDim(cfg.PlayerDim, cfg.TeamDim)
	w.W1 = randomMatrix(rng, cfg.Hidden, in)
	w.B1 = make([]float64, cfg.Hidden)
	w.WScore = randomMatrix(rng, scoreOutputs, cfg.Hidden)
	w.BScore = []float64{1, 1}
	w.WTime = randomMatrix(rng, scoremodel.TimeBins, cfg.Hidden)
	w.BTime = make([]float64, scoremodel.TimeBins)
	w.ScorerU = randomEmbedding(rng, 1, cfg.PlayerDim)
	w.ScorerBias = -2
	return w, seeded
}

func (w *weights) clone() *weights {
	out := *w
	out.Players = cloneMatrix(w.Players)
	out.Teams = cloneMatrix(w.Teams)
	out.W1 = cloneMatrix(w.W1)
	out.B1 = append([]float64(nil), w.B1...)
	out.WScore = cloneMatrix(w.WScore)
	out.BScore = append([]float64(nil), w.BScore...)
	out.WTime = cloneMatrix(w.WTime)
	out.BTime = append([]float64(nil), w.BTime...)
	out.ScorerU = append([]float64(nil), w.ScorerU...)
	return &out
}

func cloneMatrix(in [][]float64) [][]float64 {
	out := make([][]float64, len(in))
	for i := range in {
		out[i] = append([]float64(nil), in[i]...)
	}
	return out
}

// pass keeps the intermediate values of one forward evaluation for backprop.
type pass struct {
	features  scoremodel.Features
	nHome     int
	nAway     int
	x         []float64
	pre       []float64
	h         []float64
	score     [scoreOutputs]float64
	timeProb  [scoremodel.TimeBins]float64
	scorerOut []float64
}

func (w *weights) forward(f scoremodel.Features) pass {
	p := pass{features: f}
	p.x = make([]float64, 0, inputDim(w.PlayerDim, w.TeamDim))

	homeMean, nHome := w.meanEmbedding(f.HomePlayers)
	awayMean, nAway := w.meanEmbedding(f.AwayPlayers)
	p.nHome, p.nAway = nHome, nAway
	p.x = append(p.x, homeMean...)
	p.x = append(p.x, awayMean...)
	p.x = append(p.x, w.Teams[f.HomeTeam]...)
	p.x = append(p.x, w.Teams[f.AwayTeam]...)
	p.x = append(p.x, meanForm(f.HomePlayers, f.HomeForms), meanForm(f.AwayPlayers, f.AwayForms))
	p.x = append(p.x, f.H2H[:]...)

	p.pre = make([]float64, w.Hidden)
	p.h = make([]float64, w.Hidden)
	for i := range p.pre {
		p.pre[i] = floats.Dot(w.W1[i], p.x) + w.B1[i]
		p.h[i] = math.Max(0, p.pre[i])
	}

	for k := 0; k < scoreOutputs; k++ {
		p.score[k] = floats.Dot(w.WScore[k], p.h) + w.BScore[k]
	}

	var logits [scoremodel.TimeBins]float64
	for k := range logits {
		logits[k] = floats.Dot(w.WTime[k], p.h) + w.BTime[k]
	}
	p.timeProb = softmax(logits)

	p.scorerOut = make([]float64, scoremodel.ScorerSlots)
	for slot, id := range slotIDs(f) {
		if id == 0 {
			continue
		}
		p.scorerOut[slot] = sigmoid(floats.Dot(w.Players[id], w.ScorerU) + w.ScorerForm*slotForm(f, slot) + w.ScorerBias)
	}
	return p
}

// backward applies one SGD step and returns the example loss.
func (w *weights) backward(p pass, target scoremodel.Target, lr float64) float64 {
	var loss float64

	var dScore [scoreOutputs]float64
	for k := range dScore {
		diff := p.score[k] - target.Score[k]
		loss += 0.5 * diff * diff
		dScore[k] = clip(diff)
	}

	var dTime [scoremodel.TimeBins]float64
	if floats.Sum(target.Time[:]) > 0 {
		for k := range dTime {
			if target.Time[k] > 0 {
				loss -= target.Time[k] * math.Log(math.Max(p.timeProb[k], 1e-12))
			}
			dTime[k] = clip(p.timeProb[k] - target.Time[k])
		}
	}

	dh := make([]float64, w.Hidden)
	for k := range dScore {
		floats.AddScaled(dh, dScore[k], w.WScore[k])
	}
	for k := range dTime {
		floats.AddScaled(dh, dTime[k], w.WTime[k])
	}

	ids := slotIDs(p.features)
	dPlayers := make(map[int][]float64)
	dU := make([]float64, w.PlayerDim)
	var dForm, dBias float64
	active := 0
	for _, id := range ids {
		if id != 0 {
			active++
		}
	}
	if active > 0 {
		for slot, id := range ids {
			if id == 0 {
				continue
			}
			y := 0.0
			if slot < len(target.Scorers) {
				y = target.Scorers[slot]
			}
			q := p.scorerOut[slot]
			loss -= (y*math.Log(math.Max(q, 1e-12)) + (1-y)*math.Log(math.Max(1-q, 1e-12))) / float64(active)
			dl := clip(q-y) / float64(active)

			floats.AddScaled(dU, dl, w.Players[id])
			grad, ok := dPlayers[id]
			if !ok {
				grad = make([]float64, w.PlayerDim)
				dPlayers[id] = grad
			}
			floats.AddScaled(grad, dl, w.ScorerU)
			dForm += dl * slotForm(p.features, slot)
			dBias += dl
		}
	}

	dPre := make([]float64, w.Hidden)
	for i := range dPre {
		if p.pre[i] > 0 {
			dPre[i] = dh[i]
		}
	}
	dx := make([]float64, len(p.x))
	for i := range dPre {
		floats.AddScaled(dx, dPre[i], w.W1[i])
	}

	for k := range dScore {
		floats.AddScaled(w.WScore[k], -lr*dScore[k], p.h)
		w.BScore[k] -= lr * dScore[k]
	}
	for k := range dTime {
		floats.AddScaled(w.WTime[k], -lr*dTime[k], p.h)
		w.BTime[k] -= lr * dTime[k]
	}
	for i := range dPre {
		floats.AddScaled(w.W1[i], -lr*dPre[i], p.x)
		w.B1[i] -= lr * dPre[i]
	}
	floats.AddScaled(w.ScorerU, -lr, dU)
	w.ScorerForm -= lr * dForm
	w.ScorerBias -= lr * dBias

	pd, td := w.PlayerDim, w.TeamDim
	w.spreadToPlayers(p.features.HomePlayers, p.nHome, dx[0:pd], dPlayers)
	w.spreadToPlayers(p.features.AwayPlayers, p.nAway, dx[pd:2*pd], dPlayers)
	for id, grad := range dPlayers {
		floats.AddScaled(w.Players[id], -lr, grad)
	}
	if id := p.features.HomeTeam; id > 0 {
		floats.AddScaled(w.Teams[id], -lr, dx[2*pd:2*pd+td])
	}
	if id := p.features.AwayTeam; id > 0 {
		floats.AddScaled(w.Teams[id], -lr, dx[2*pd+td:2*pd+2*td])
	}

	return loss
}

func (w *weights) spreadToPlayers(ids []int, n int, dMean []float64, acc map[int][]float64) {
	if n == 0 {
		return
	}
	for _, id := range ids {
		if id == 0 {
			continue
		}
		grad, ok := acc[id]
		if !ok {
			grad = make([]float64, w.PlayerDim)
			acc[id] = grad
		}
		floats.AddScaled(grad, 1/float64(n), dMean)
	}
}

func (w *weights) meanEmbedding(ids []int) ([]float64, int) {
	out := make([]float64, w.PlayerDim)
	n := 0
	for _, id := range ids {
		if id == 0 {
			continue
		}
		floats.Add(out, w.Players[id])
		n++
	}
	if n > 0 {
		floats.Scale(1/float64(n), out)
	}
	return out, n
}

func (w *weights) finite() bool {
	check := func(values []float64) bool {
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
		return true
	}
	for _, m := range [][][]float64{w.Players, w.Teams, w.W1, w.WScore, w.WTime} {
		for _, row := range m {
			if !check(row) {
				return false
			}
		}
	}
	return check(w.B1) && check(w.BScore) && check(w.BTime) && check(w.ScorerU) &&
		check([]float64{w.ScorerForm, w.ScorerBias})
}

func meanForm(ids []int, forms []float64) float64 {
	var sum float64
	n := 0
	for i, id := range ids {
		if id == 0 || i >= len(forms) {
			continue
		}
		sum += forms[i]
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// slotIDs lists player ids home first, matching the scorer output layout.
func slotIDs(f scoremodel.Features) []int {
	out := make([]int, 0, scoremodel.ScorerSlots)
	out = append(out, f.HomePlayers...)
	return append(out, f.AwayPlayers...)
}

func slotForm(f scoremodel.Features, slot int) float64 {
	if slot < match.MaxLineupPlayers {
		return f.HomeForms[slot]
	}
	return f.AwayForms[slot-match.MaxLineupPlayers]
}

func softmax(logits [scoremodel.TimeBins]float64) [scoremodel.TimeBins]float64 {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		maxLogit = math.Max(maxLogit, v)
	}
	var out [scoremodel.TimeBins]float64
	var sum float64
	for i, v := range logits {
		out[i] = math.Exp(v - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func clip(v float64) float64 {
	return math.Max(-gradientClip, math.Min(gradientClip, v))
}
