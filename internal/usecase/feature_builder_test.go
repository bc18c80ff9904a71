package usecase

import (
	"testing"

	"github.com/riskibarqy/match-predictor/internal/domain/form"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
)

func TestBuildMatchInputs_PadsSlotsAndIndexesVocabulary(t *testing.T) {
	t.Parallel()

	season := testSeason()
	vocab := vocabularyOf(season)
	history := form.SortByRecency(season[:5])

	inputs, err := buildMatchInputs(season[5], history, vocab, true)
	if err != nil {
		t.Fatalf("build inputs: %v", err)
	}
	if err := inputs.features.Validate(); err != nil {
		t.Fatalf("features invalid: %v", err)
	}
	if len(inputs.slots) != scoremodel.ScorerSlots {
		t.Fatalf("unexpected slot count: got=%d want=%d", len(inputs.slots), scoremodel.ScorerSlots)
	}
	if inputs.slots[0] != "Boca Player 1" || inputs.slots[3] != scoremodel.PaddingName {
		t.Fatalf("unexpected home slots: %v", inputs.slots[:4])
	}
	if inputs.slots[match.MaxLineupPlayers] != "River Player 1" {
		t.Fatalf("away slots must start at %d, got %q", match.MaxLineupPlayers, inputs.slots[match.MaxLineupPlayers])
	}
	if inputs.features.HomePlayers[0] != vocab.PlayerIndex("Boca Player 1") || inputs.features.HomePlayers[3] != 0 {
		t.Fatalf("unexpected home player ids: %v", inputs.features.HomePlayers[:4])
	}
	if inputs.context.H2H.TotalMatches != 2 {
		t.Fatalf("expected two head to head matches, got %d", inputs.context.H2H.TotalMatches)
	}
	if inputs.context.HomePlayers[0].RecentGoals != 3 {
		t.Fatalf("expected three recent goals for Boca Player 1, got %d", inputs.context.HomePlayers[0].RecentGoals)
	}
}

func TestBuildMatchInputs_RejectsMissingLineup(t *testing.T) {
	t.Parallel()

	m := testSeason()[0]
	m.AwayLineup = nil
	if _, err := buildMatchInputs(m, nil, vocabularyOf([]match.Match{m}), false); err == nil {
		t.Fatalf("expected malformed lineup error")
	}
}

func TestTrainingTarget_LabelsScorersAndTimeBins(t *testing.T) {
	t.Parallel()

	season := testSeason()
	vocab := vocabularyOf(season)
	inputs, err := buildMatchInputs(season[0], nil, vocab, false)
	if err != nil {
		t.Fatalf("build inputs: %v", err)
	}

	target, err := trainingTarget(season[0], inputs.slots)
	if err != nil {
		t.Fatalf("training target: %v", err)
	}
	if target.Score != [2]float64{2, 1} {
		t.Fatalf("unexpected score target: %v", target.Score)
	}
	if target.Scorers[0] != 1 || target.Scorers[1] != 0 || target.Scorers[match.MaxLineupPlayers+1] != 1 {
		t.Fatalf("unexpected scorer target: %v", target.Scorers[:match.MaxLineupPlayers+3])
	}
	want := [scoremodel.TimeBins]float64{1.0 / 3, 0, 1.0 / 3, 0, 0, 1.0 / 3}
	if target.Time != want {
		t.Fatalf("unexpected time target: got=%v want=%v", target.Time, want)
	}
}

func TestHistoryBefore_ExcludesSameAndLaterMatches(t *testing.T) {
	t.Parallel()

	season := testSeason()
	history := form.SortByRecency(season[:5])
	got := historyBefore(history, season[2])
	if len(got) != 2 {
		t.Fatalf("unexpected history length: %d", len(got))
	}
	for _, m := range got {
		if !m.Date.Before(season[2].Date) {
			t.Fatalf("match %d is not before the target", m.ID)
		}
	}
}

func TestTimeBin_ClampsStoppageTime(t *testing.T) {
	t.Parallel()

	if got := timeBin(94); got != scoremodel.TimeBins-1 {
		t.Fatalf("unexpected bin for 94': %d", got)
	}
	if got := timeBin(0); got != 0 {
		t.Fatalf("unexpected bin for 0': %d", got)
	}
}
