package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "matchday").
		From("matches").
		Where(NotNull("score"), Eq("season", "2025"), In("id", []int64{3, 4})).
		OrderBy("match_date ASC", "id ASC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, matchday FROM matches WHERE score IS NOT NULL AND season = $1 AND id IN ($2, $3) ORDER BY match_date ASC, id ASC LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "2025" || args[1] != int64(3) || args[2] != int64(4) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_JoinAndExpr(t *testing.T) {
	query, args, err := Select("f.match_id").
		From("feedback f").
		LeftJoin("matches m", "m.id = f.match_id").
		Where(Expr("f.evaluated_at >= ? OR m.matchday = ?", "2026-01-01", "Fecha 1"), In("f.match_id", []int64{})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT f.match_id FROM feedback f LEFT JOIN matches m ON m.id = f.match_id WHERE f.evaluated_at >= $1 OR m.matchday = $2 AND 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_Upsert(t *testing.T) {
	query, args, err := InsertInto("predictions").
		Columns("match_id", "score", "created_at").
		Values(int64(9), "2-1", "now").
		OnConflict("match_id").
		DoUpdate().
		Returning("created_at").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO predictions (match_id, score, created_at) VALUES ($1, $2, $3) ON CONFLICT (match_id) DO UPDATE SET score = EXCLUDED.score, created_at = EXCLUDED.created_at RETURNING created_at"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[1] != "2-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("matches").Columns("id", "score").Values(1).ToSQL()
	if err == nil {
		t.Fatalf("expected error for row width mismatch")
	}
}

type embeddingRow struct {
	PlayerName string    `db:"player_name"`
	Vector     []float64 `db:"vector"`
	UpdatedAt  time.Time `db:"updated_at,readonly"`
	internal   string
}

func TestInsertModels(t *testing.T) {
	rows := []embeddingRow{
		{PlayerName: "Cavani", Vector: []float64{0.1}},
		{PlayerName: "Borja", Vector: []float64{0.2}, internal: "x"},
	}

	b, err := InsertModels("player_embeddings", rows)
	if err != nil {
		t.Fatalf("insert models: %v", err)
	}
	query, args, err := b.OnConflict("player_name").DoUpdate("vector").ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO player_embeddings (player_name, vector) VALUES ($1, $2), ($3, $4) ON CONFLICT (player_name) DO UPDATE SET vector = EXCLUDED.vector"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "Borja" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if cols := Columns(embeddingRow{}); len(cols) != 2 {
		t.Fatalf("unexpected columns: %v", cols)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("player_embeddings").Where(Lt("updated_at", "2026-01-01")).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM player_embeddings WHERE updated_at < $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
