package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/embedding"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get prediction: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fmt.Errorf("pq: relation predictions does not exist")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestMatchRowConversion(t *testing.T) {
	score := "2-1"
	in := match.Match{
		ID:       11,
		Matchday: "Fecha 5",
		Date:     time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
		HomeTeam: "Boca",
		AwayTeam: "River",
		Score:    &score,
		HomeLineup: []match.Player{
			{Name: "Cavani", Events: []match.Event{{Type: match.EventGoal, Minute: 12}}},
			{Name: "Romero"},
		},
		AwayLineup: []match.Player{{Name: "Borja", Events: []match.Event{{Type: match.EventRedCard, Minute: 80}}}},
		Goals: []match.Goal{
			{Scorer: "Cavani", Minute: 12, ScoreAfter: "1-0"},
		},
	}

	insertModel, err := matchToInsert(in)
	if err != nil {
		t.Fatalf("to insert: %v", err)
	}
	if !insertModel.Score.Valid || insertModel.Score.String != "2-1" {
		t.Fatalf("unexpected score column: %+v", insertModel.Score)
	}
	if !strings.Contains(insertModel.AwayLineup, `"Red Card"`) {
		t.Fatalf("expected event type in lineup json: %s", insertModel.AwayLineup)
	}

	row := matchTableModel{
		ID:         insertModel.ID,
		Matchday:   insertModel.Matchday,
		MatchDate:  insertModel.MatchDate,
		HomeTeam:   insertModel.HomeTeam,
		AwayTeam:   insertModel.AwayTeam,
		Score:      insertModel.Score,
		HomeLineup: insertModel.HomeLineup,
		AwayLineup: insertModel.AwayLineup,
		Goals:      insertModel.Goals,
	}
	out, err := matchFromRow(row)
	if err != nil {
		t.Fatalf("from row: %v", err)
	}
	if out.Score == nil || *out.Score != "2-1" {
		t.Fatalf("unexpected score: %v", out.Score)
	}
	if len(out.HomeLineup) != 2 || out.HomeLineup[0].Events[0].Type != match.EventGoal {
		t.Fatalf("unexpected home lineup: %+v", out.HomeLineup)
	}
	if len(out.Goals) != 1 || out.Goals[0].ScoreAfter != "1-0" {
		t.Fatalf("unexpected goals: %+v", out.Goals)
	}
}

func TestMatchRowConversion_UpcomingAndEmptyJSON(t *testing.T) {
	insertModel, err := matchToInsert(match.Match{ID: 3, HomeTeam: "Boca", AwayTeam: "Racing"})
	if err != nil {
		t.Fatalf("to insert: %v", err)
	}
	if insertModel.Score.Valid {
		t.Fatalf("expected NULL score for upcoming match")
	}
	if insertModel.Goals != "[]" || insertModel.HomeLineup != "[]" {
		t.Fatalf("expected empty json arrays, got %q %q", insertModel.Goals, insertModel.HomeLineup)
	}

	out, err := matchFromRow(matchTableModel{ID: 3, HomeLineup: "null", Goals: ""})
	if err != nil {
		t.Fatalf("from row: %v", err)
	}
	if out.Completed() || len(out.Goals) != 0 {
		t.Fatalf("unexpected match: %+v", out)
	}

	if _, err := matchFromRow(matchTableModel{ID: 4, Goals: "{broken"}); err == nil {
		t.Fatalf("expected decode error for broken goals json")
	}
}

func TestUpsertEmbeddingsQuery(t *testing.T) {
	query, args, err := upsertEmbeddingsQuery([]embedding.PlayerEmbedding{
		{PlayerName: "Cavani", Vector: []float64{0.1, 0.2}},
		{PlayerName: "Borja", Vector: []float64{0.3, 0.4}},
	})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	want := "INSERT INTO player_embeddings (player_name, vector, updated_at) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (player_name) DO UPDATE SET vector = EXCLUDED.vector, updated_at = EXCLUDED.updated_at"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 6 {
		t.Fatalf("unexpected args: %d", len(args))
	}
}
