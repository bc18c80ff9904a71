package usecase

import (
	"fmt"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/scoremodel/embeddingnet"
)

var seasonStart = time.Date(2025, 2, 1, 20, 0, 0, 0, time.UTC)

func lineupOf(team string, events map[string][]match.Event) []match.Player {
	out := make([]match.Player, 0, 3)
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("%s Player %d", team, i)
		out = append(out, match.Player{Name: name, Events: events[name]})
	}
	return out
}

func playedMatch(id int64, day int, home, away, score string, goals ...match.Goal) match.Match {
	events := make(map[string][]match.Event)
	for _, g := range goals {
		events[g.Scorer] = append(events[g.Scorer], match.Event{Type: match.EventGoal, Minute: g.Minute})
	}
	m := match.Match{
		ID:         id,
		Matchday:   fmt.Sprintf("Fecha %d", day),
		Date:       seasonStart.AddDate(0, 0, 7*(day-1)).Add(time.Duration(id) * time.Hour),
		HomeTeam:   home,
		AwayTeam:   away,
		HomeLineup: lineupOf(home, events),
		AwayLineup: lineupOf(away, events),
		Goals:      goals,
	}
	if score != "" {
		m.Score = &score
	}
	return m
}

func goal(scorer string, minute int) match.Goal {
	return match.Goal{Scorer: scorer, Minute: minute}
}

// testSeason has five played matches and two upcoming ones between three teams.
func testSeason() []match.Match {
	return []match.Match{
		playedMatch(1, 1, "Boca", "River", "2-1", goal("Boca Player 1", 12), goal("River Player 2", 40), goal("Boca Player 1", 77)),
		playedMatch(2, 1, "Racing", "Boca", "0-0"),
		playedMatch(3, 2, "River", "Racing", "1-1", goal("River Player 1", 20), goal("Racing Player 3", 88)),
		playedMatch(4, 2, "Boca", "Racing", "1-0", goal("Boca Player 2", 64)),
		playedMatch(5, 3, "River", "Boca", "0-2", goal("Boca Player 1", 5), goal("Boca Player 3", 81)),
		playedMatch(6, 4, "Boca", "River", ""),
		playedMatch(7, 4, "Racing", "River", ""),
	}
}

func testTrainer() *embeddingnet.Trainer {
	return embeddingnet.NewTrainer(embeddingnet.Config{
		PlayerDim:      8,
		TeamDim:        4,
		Hidden:         8,
		LearningRate:   0.01,
		EpochsNew:      5,
		EpochsExisting: 3,
		Seed:           7,
	})
}
