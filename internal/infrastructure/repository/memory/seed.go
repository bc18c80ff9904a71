package memory

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Matches []seedMatch `yaml:"matches" validate:"required,min=1,dive"`
}

type seedMatch struct {
	ID         int64        `yaml:"id" validate:"required,gt=0"`
	Matchday   string       `yaml:"matchday" validate:"required"`
	Date       time.Time    `yaml:"date" validate:"required"`
	HomeTeam   string       `yaml:"home_team" validate:"required"`
	AwayTeam   string       `yaml:"away_team" validate:"required,nefield=HomeTeam"`
	Score      string       `yaml:"score"`
	HomeLineup []seedPlayer `yaml:"home_lineup" validate:"max=22,dive"`
	AwayLineup []seedPlayer `yaml:"away_lineup" validate:"max=22,dive"`
	Goals      []seedGoal   `yaml:"goals" validate:"dive"`
}

type seedPlayer struct {
	Name   string      `yaml:"name" validate:"required"`
	Events []seedEvent `yaml:"events" validate:"dive"`
}

type seedEvent struct {
	Type   string `yaml:"type" validate:"required,oneof=Goal Assist 'Yellow Card' 'Red Card' 'Clean Sheet' Substituted Other"`
	Minute int    `yaml:"minute" validate:"gte=0"`
}

type seedGoal struct {
	Scorer     string `yaml:"scorer" validate:"required"`
	Minute     int    `yaml:"minute" validate:"gte=0"`
	ScoreAfter string `yaml:"score_after"`
}

// LoadSeedFile reads a season YAML file into matches.
func LoadSeedFile(path string) ([]match.Match, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) ([]match.Match, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := validator.New().StructCtx(context.Background(), file); err != nil {
		return nil, fmt.Errorf("validate seed file: %w", err)
	}

	seen := make(map[int64]struct{}, len(file.Matches))
	out := make([]match.Match, 0, len(file.Matches))
	for _, item := range file.Matches {
		if _, ok := seen[item.ID]; ok {
			return nil, fmt.Errorf("validate seed file: duplicate match id %d", item.ID)
		}
		seen[item.ID] = struct{}{}

		m := match.Match{
			ID:         item.ID,
			Matchday:   item.Matchday,
			Date:       item.Date.UTC(),
			HomeTeam:   item.HomeTeam,
			AwayTeam:   item.AwayTeam,
			HomeLineup: seedPlayers(item.HomeLineup),
			AwayLineup: seedPlayers(item.AwayLineup),
		}
		if score := strings.TrimSpace(item.Score); score != "" {
			if _, err := match.ParseScore(score); err != nil {
				return nil, fmt.Errorf("validate seed file: match %d: %w", item.ID, err)
			}
			m.Score = &score
		}
		for _, g := range item.Goals {
			m.Goals = append(m.Goals, match.Goal{Scorer: g.Scorer, Minute: g.Minute, ScoreAfter: g.ScoreAfter})
		}
		out = append(out, m)
	}
	return out, nil
}

func seedPlayers(in []seedPlayer) []match.Player {
	out := make([]match.Player, 0, len(in))
	for _, p := range in {
		player := match.Player{Name: strings.TrimSpace(p.Name)}
		for _, e := range p.Events {
			player.Events = append(player.Events, match.Event{Type: match.EventType(e.Type), Minute: e.Minute})
		}
		out = append(out, player)
	}
	return out
}
