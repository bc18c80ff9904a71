package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/match"
)

type matchTableModel struct {
	ID         int64          `db:"id"`
	Matchday   string         `db:"matchday"`
	MatchDate  time.Time      `db:"match_date"`
	HomeTeam   string         `db:"home_team"`
	AwayTeam   string         `db:"away_team"`
	Score      sql.NullString `db:"score"`
	HomeLineup string         `db:"home_lineup"`
	AwayLineup string         `db:"away_lineup"`
	Goals      string         `db:"goals"`
}

type matchInsertModel struct {
	ID         int64          `db:"id"`
	Matchday   string         `db:"matchday"`
	MatchDate  time.Time      `db:"match_date"`
	HomeTeam   string         `db:"home_team"`
	AwayTeam   string         `db:"away_team"`
	Score      sql.NullString `db:"score"`
	HomeLineup string         `db:"home_lineup"`
	AwayLineup string         `db:"away_lineup"`
	Goals      string         `db:"goals"`
}

type lineupEntryJSON struct {
	Name   string      `json:"name"`
	Events []eventJSON `json:"events,omitempty"`
}

type eventJSON struct {
	Type   string `json:"type"`
	Minute int    `json:"minute"`
}

type goalJSON struct {
	Scorer     string `json:"scorer"`
	Minute     int    `json:"minute"`
	ScoreAfter string `json:"score_after,omitempty"`
}

var matchColumns = []string{
	"id", "matchday", "match_date", "home_team", "away_team", "score",
	"home_lineup::text AS home_lineup", "away_lineup::text AS away_lineup", "goals::text AS goals",
}

func matchFromRow(row matchTableModel) (match.Match, error) {
	out := match.Match{
		ID:       row.ID,
		Matchday: row.Matchday,
		Date:     row.MatchDate.UTC(),
		HomeTeam: row.HomeTeam,
		AwayTeam: row.AwayTeam,
	}
	if row.Score.Valid {
		score := row.Score.String
		out.Score = &score
	}

	var home, away []lineupEntryJSON
	if err := decodeJSON(row.HomeLineup, &home); err != nil {
		return match.Match{}, fmt.Errorf("decode home lineup of match %d: %w", row.ID, err)
	}
	if err := decodeJSON(row.AwayLineup, &away); err != nil {
		return match.Match{}, fmt.Errorf("decode away lineup of match %d: %w", row.ID, err)
	}
	var goals []goalJSON
	if err := decodeJSON(row.Goals, &goals); err != nil {
		return match.Match{}, fmt.Errorf("decode goals of match %d: %w", row.ID, err)
	}

	out.HomeLineup = playersFromJSON(home)
	out.AwayLineup = playersFromJSON(away)
	out.Goals = make([]match.Goal, 0, len(goals))
	for _, g := range goals {
		out.Goals = append(out.Goals, match.Goal{Scorer: g.Scorer, Minute: g.Minute, ScoreAfter: g.ScoreAfter})
	}
	return out, nil
}

func matchToInsert(m match.Match) (matchInsertModel, error) {
	home, err := encodeJSON(playersToJSON(m.HomeLineup), "[]")
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode home lineup of match %d: %w", m.ID, err)
	}
	away, err := encodeJSON(playersToJSON(m.AwayLineup), "[]")
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode away lineup of match %d: %w", m.ID, err)
	}
	goals := make([]goalJSON, 0, len(m.Goals))
	for _, g := range m.Goals {
		goals = append(goals, goalJSON{Scorer: g.Scorer, Minute: g.Minute, ScoreAfter: g.ScoreAfter})
	}
	encodedGoals, err := encodeJSON(goals, "[]")
	if err != nil {
		return matchInsertModel{}, fmt.Errorf("encode goals of match %d: %w", m.ID, err)
	}

	out := matchInsertModel{
		ID:         m.ID,
		Matchday:   m.Matchday,
		MatchDate:  m.Date.UTC(),
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		HomeLineup: home,
		AwayLineup: away,
		Goals:      encodedGoals,
	}
	if m.Score != nil {
		out.Score = sql.NullString{String: *m.Score, Valid: true}
	}
	return out, nil
}

func playersFromJSON(items []lineupEntryJSON) []match.Player {
	out := make([]match.Player, 0, len(items))
	for _, item := range items {
		p := match.Player{Name: item.Name}
		for _, e := range item.Events {
			p.Events = append(p.Events, match.Event{Type: match.EventType(e.Type), Minute: e.Minute})
		}
		out = append(out, p)
	}
	return out
}

func playersToJSON(players []match.Player) []lineupEntryJSON {
	out := make([]lineupEntryJSON, 0, len(players))
	for _, p := range players {
		item := lineupEntryJSON{Name: p.Name}
		for _, e := range p.Events {
			item.Events = append(item.Events, eventJSON{Type: string(e.Type), Minute: e.Minute})
		}
		out = append(out, item)
	}
	return out
}
