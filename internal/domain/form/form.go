package form

import (
	"math"
	"sort"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
)

const (
	// Window is how many recent matches feed team and player form.
	Window = 5

	teamDecay   = 0.9
	playerDecay = 0.85
)

// H2H is the head-to-head record seen from the first team's side.
type H2H struct {
	HomeWins     int
	AwayWins     int
	Draws        int
	HomeGoals    int
	AwayGoals    int
	TotalMatches int
}

func (h H2H) HomeWinRate() float64 {
	if h.TotalMatches == 0 {
		return 0
	}
	return float64(h.HomeWins) / float64(h.TotalMatches)
}

func (h H2H) AwayWinRate() float64 {
	if h.TotalMatches == 0 {
		return 0
	}
	return float64(h.AwayWins) / float64(h.TotalMatches)
}

// Vector returns the record in model input order.
func (h H2H) Vector() [6]float64 {
	return [6]float64{
		float64(h.HomeWins),
		float64(h.AwayWins),
		float64(h.Draws),
		float64(h.HomeGoals),
		float64(h.AwayGoals),
		float64(h.TotalMatches),
	}
}

// SortByRecency returns a copy ordered most recent first. Equal dates keep input order.
func SortByRecency(matches []match.Match) []match.Match {
	out := append([]match.Match(nil), matches...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// TeamForm scores the team's last Window matches with 0.9^i recency decay.
// Matches must already be ordered most recent first.
func TeamForm(team string, matches []match.Match) (float64, error) {
	var total float64
	idx := 0
	for _, m := range matches {
		if idx >= Window {
			break
		}
		if !m.Involves(team) {
			continue
		}

		score, err := m.ActualScore()
		if err != nil {
			return 0, crerr.Wrapf(err, "team form for %s", team)
		}

		scored, conceded := score.Home, score.Away
		if m.AwayTeam == team {
			scored, conceded = score.Away, score.Home
		}

		weight := math.Pow(teamDecay, float64(idx))
		switch {
		case scored > conceded:
			total += 3 * weight
		case scored == conceded:
			total += weight
		}
		if scored >= 3 {
			total += 0.5 * weight
		}
		if conceded == 0 {
			total += 0.5 * weight
		}
		idx++
	}
	return total, nil
}

// HeadToHead accumulates every meeting of the two teams from teamA's side.
func HeadToHead(teamA, teamB string, matches []match.Match) (H2H, error) {
	var out H2H
	for _, m := range matches {
		aHome := m.HomeTeam == teamA && m.AwayTeam == teamB
		aAway := m.HomeTeam == teamB && m.AwayTeam == teamA
		if !aHome && !aAway {
			continue
		}

		score, err := m.ActualScore()
		if err != nil {
			return H2H{}, crerr.Wrapf(err, "head to head %s vs %s", teamA, teamB)
		}

		goalsA, goalsB := score.Home, score.Away
		if aAway {
			goalsA, goalsB = score.Away, score.Home
		}

		switch {
		case goalsA > goalsB:
			out.HomeWins++
		case goalsA < goalsB:
			out.AwayWins++
		default:
			out.Draws++
		}
		out.HomeGoals += goalsA
		out.AwayGoals += goalsB
		out.TotalMatches++
	}
	return out, nil
}

// PlayerRecentMatches returns the first Window matches in which the player has a lineup entry.
func PlayerRecentMatches(playerName string, matches []match.Match) []match.Match {
	out := make([]match.Match, 0, Window)
	for _, m := range matches {
		if len(out) == Window {
			break
		}
		if m.HasPlayer(playerName) {
			out = append(out, m)
		}
	}
	return out
}

// EventPoints scores a set of events: goal 3, assist 2, clean sheet 2, yellow -1, red -3.
func EventPoints(events []match.Event) float64 {
	var total float64
	for _, e := range events {
		switch e.Type {
		case match.EventGoal:
			total += 3
		case match.EventAssist:
			total += 2
		case match.EventYellowCard:
			total--
		case match.EventRedCard:
			total -= 3
		case match.EventCleanSheet:
			total += 2
		}
	}
	return total
}

// PlayerForm scores current events at full weight, then the player's events in each
// recent match with 0.85^i decay.
func PlayerForm(playerName string, currentEvents []match.Event, recentMatches []match.Match) float64 {
	total := EventPoints(currentEvents)
	for i, m := range recentMatches {
		entry, ok := m.LineupPlayer(playerName)
		if !ok {
			continue
		}
		total += EventPoints(entry.Events) * math.Pow(playerDecay, float64(i))
	}
	return total
}

func CountRecentGoals(playerName string, matches []match.Match) int {
	count := 0
	for _, m := range matches {
		for _, g := range m.Goals {
			if g.Scorer == playerName {
				count++
			}
		}
	}
	return count
}

func CountRecentAssists(playerName string, matches []match.Match) int {
	count := 0
	for _, m := range matches {
		entry, ok := m.LineupPlayer(playerName)
		if !ok {
			continue
		}
		for _, e := range entry.Events {
			if e.Type == match.EventAssist {
				count++
			}
		}
	}
	return count
}
