package scoremodel

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
)

const (
	// TimeBins splits 90 minutes into 15 minute goal-time bins.
	TimeBins = 6
	// ScorerSlots covers both padded lineups, home first.
	ScorerSlots = 2 * match.MaxLineupPlayers
	// H2HFeatures is the width of the head-to-head input.
	H2HFeatures = 6

	// PaddingName fills empty lineup slots.
	PaddingName = "padding"
)

var (
	// ErrVocabularyChanged reports that a model was built for a different player roster.
	ErrVocabularyChanged = crerr.New("player vocabulary changed")
	ErrInvalidFeatures   = crerr.New("invalid model features")
	ErrInvalidOutput     = crerr.New("invalid model output")
	ErrNoTrainingData    = crerr.New("no training examples")
	ErrInvalidSnapshot   = crerr.New("invalid model snapshot")
)

// Features is the model input for one match. Player and team ids index the vocabulary;
// id 0 means padding or unknown.
type Features struct {
	HomeTeam    int
	AwayTeam    int
	HomePlayers []int
	AwayPlayers []int
	HomeForms   []float64
	AwayForms   []float64
	H2H         [H2HFeatures]float64
}

func (f Features) Validate() error {
	if len(f.HomePlayers) != match.MaxLineupPlayers || len(f.AwayPlayers) != match.MaxLineupPlayers {
		return crerr.Wrapf(ErrInvalidFeatures, "expected %d player slots per side", match.MaxLineupPlayers)
	}
	if len(f.HomeForms) != match.MaxLineupPlayers || len(f.AwayForms) != match.MaxLineupPlayers {
		return crerr.Wrapf(ErrInvalidFeatures, "expected %d form slots per side", match.MaxLineupPlayers)
	}
	return nil
}

// RawOutput is what the network returns before any adjustment.
// Scorer is aligned with the feature player slots, home slots first.
type RawOutput struct {
	Score  [2]float64
	Scorer []float64
	Time   [TimeBins]float64
}

// Target is the supervised label of one completed match.
type Target struct {
	Score   [2]float64
	Scorers []float64
	Time    [TimeBins]float64
}

type Example struct {
	MatchID  int64
	Features Features
	Target   Target
}

// Dataset is everything a trainer needs for one run.
type Dataset struct {
	Vocabulary Vocabulary
	Examples   []Example
	// Embeddings holds previously stored player vectors keyed by player name.
	Embeddings map[string][]float64
}

// TrainReport describes one training run.
type TrainReport struct {
	Examples int
	Epochs   int
	Loss     float64
	Rebuilt  bool
	Reason   string
}

// Snapshot is the persisted form of a trained model.
type Snapshot struct {
	Version    string
	Vocabulary Vocabulary
	PlayerDim  int
	TeamDim    int
	Weights    []byte
	TrainedAt  time.Time
}

// Model produces raw outputs for prepared features.
type Model interface {
	Predict(features Features) (RawOutput, error)
	EmbeddingFor(playerIndex int) ([]float64, error)
	Vocabulary() Vocabulary
	Snapshot() (Snapshot, error)
}

// Trainer builds or refines models.
type Trainer interface {
	// Train fits a model to the dataset. A nil or vocabulary-mismatched existing model is
	// replaced by a freshly built one and reported with Rebuilt.
	Train(ctx context.Context, dataset Dataset, existing Model) (Model, TrainReport, error)
	Restore(snapshot Snapshot) (Model, error)
}

// Vocabulary maps player and team names to model indices.
// Index 0 of both lists is reserved for padding or unknown entries.
type Vocabulary struct {
	Version string
	Players []string
	Teams   []string

	playerIndex map[string]int
	teamIndex   map[string]int
}

// NewVocabulary builds a sorted, de-duplicated vocabulary.
func NewVocabulary(players, teams []string) Vocabulary {
	v := Vocabulary{
		Players: append([]string{PaddingName}, uniqueSorted(players)...),
		Teams:   append([]string{""}, uniqueSorted(teams)...),
	}
	v.Version = versionOf(v.Players, v.Teams)
	v.index()
	return v
}

// RestoreVocabulary rebuilds lookups for a persisted vocabulary.
func RestoreVocabulary(version string, players, teams []string) Vocabulary {
	v := Vocabulary{
		Version: version,
		Players: append([]string(nil), players...),
		Teams:   append([]string(nil), teams...),
	}
	if v.Version == "" {
		v.Version = versionOf(v.Players, v.Teams)
	}
	v.index()
	return v
}

func (v *Vocabulary) index() {
	v.playerIndex = make(map[string]int, len(v.Players))
	for i, name := range v.Players {
		if i == 0 {
			continue
		}
		v.playerIndex[name] = i
	}
	v.teamIndex = make(map[string]int, len(v.Teams))
	for i, name := range v.Teams {
		if i == 0 {
			continue
		}
		v.teamIndex[name] = i
	}
}

func (v Vocabulary) PlayerIndex(name string) int {
	return v.playerIndex[name]
}

func (v Vocabulary) TeamIndex(name string) int {
	return v.teamIndex[name]
}

func (v Vocabulary) PlayerCount() int {
	return len(v.Players)
}

func (v Vocabulary) TeamCount() int {
	return len(v.Teams)
}

// Compatible reports whether a model built for v can serve other without a rebuild.
func (v Vocabulary) Compatible(other Vocabulary) error {
	if v.Version == other.Version {
		return nil
	}
	return crerr.Wrapf(ErrVocabularyChanged, "model %s (%d players, %d teams) vs data %s (%d players, %d teams)",
		v.Version, len(v.Players), len(v.Teams), other.Version, len(other.Players), len(other.Teams))
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		name := strings.TrimSpace(value)
		if name == "" || name == PaddingName {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func versionOf(players, teams []string) string {
	h := fnv.New64a()
	for _, name := range players {
		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{1})
	for _, name := range teams {
		_, _ = h.Write([]byte(name))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("p%d-t%d-%016x", len(players), len(teams), h.Sum64())
}
