package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/match-predictor/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[int64]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	r := &MatchRepository{matches: make(map[int64]match.Match, len(matches))}
	for _, m := range matches {
		r.matches[m.ID] = cloneMatch(m)
	}
	return r
}

func (r *MatchRepository) ListCompleted(_ context.Context) ([]match.Match, error) {
	return r.filter(match.Match.Completed), nil
}

func (r *MatchRepository) ListUpcoming(_ context.Context) ([]match.Match, error) {
	return r.filter(func(m match.Match) bool { return !m.Completed() }), nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	return r.filter(func(match.Match) bool { return true }), nil
}

func (r *MatchRepository) Upsert(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range matches {
		r.matches[m.ID] = cloneMatch(m)
	}
	return nil
}

// filter returns copies ordered by date, then id.
func (r *MatchRepository) filter(keep func(match.Match) bool) []match.Match {
	r.mu.RLock()
	out := make([]match.Match, 0, len(r.matches))
	for _, m := range r.matches {
		if keep(m) {
			out = append(out, cloneMatch(m))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneMatch(m match.Match) match.Match {
	out := m
	if m.Score != nil {
		score := *m.Score
		out.Score = &score
	}
	out.HomeLineup = clonePlayers(m.HomeLineup)
	out.AwayLineup = clonePlayers(m.AwayLineup)
	out.Goals = append([]match.Goal(nil), m.Goals...)
	return out
}

func clonePlayers(in []match.Player) []match.Player {
	if in == nil {
		return nil
	}
	out := make([]match.Player, len(in))
	for i, p := range in {
		out[i] = match.Player{Name: p.Name, Events: append([]match.Event(nil), p.Events...)}
	}
	return out
}
