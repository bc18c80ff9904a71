package form

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(id int64, home, away, score string) match.Match {
	s := score
	return match.Match{ID: id, HomeTeam: home, AwayTeam: away, Score: &s}
}

func TestTeamForm_EmptyHistory(t *testing.T) {
	got, err := TeamForm("Boca", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestTeamForm_DecayAndBonuses(t *testing.T) {
	matches := []match.Match{
		scored(1, "Boca", "River", "3-0"),
		scored(2, "Racing", "Boca", "1-1"),
		scored(3, "River", "Racing", "2-0"),
		scored(4, "Boca", "Velez", "0-2"),
	}

	got, err := TeamForm("Boca", matches)
	require.NoError(t, err)
	// 3 + 0.5 + 0.5, then a 0.9 draw, then a 0.81 loss worth nothing.
	assert.InDelta(t, 4.9, got, 1e-9)
}

func TestTeamForm_OnlyWindowMatchesCount(t *testing.T) {
	matches := make([]match.Match, 0, 6)
	for i := 0; i < 6; i++ {
		matches = append(matches, scored(int64(i+1), "Boca", "River", "1-0"))
	}

	got, err := TeamForm("Boca", matches)
	require.NoError(t, err)
	assert.InDelta(t, 3.5*(1+0.9+0.81+0.729+0.6561), got, 1e-9)
}

func TestTeamForm_MalformedScore(t *testing.T) {
	_, err := TeamForm("Boca", []match.Match{scored(9, "Boca", "River", "x-1")})
	if !errors.Is(err, match.ErrMalformedMatchData) {
		t.Fatalf("expected ErrMalformedMatchData, got %v", err)
	}
}

func TestHeadToHead_NoSharedMatches(t *testing.T) {
	got, err := HeadToHead("Boca", "River", []match.Match{scored(1, "Racing", "Velez", "2-2")})
	require.NoError(t, err)
	assert.Equal(t, H2H{}, got)
	assert.Equal(t, 0.0, got.HomeWinRate())
	assert.Equal(t, 0.0, got.AwayWinRate())
}

func TestHeadToHead_BothVenues(t *testing.T) {
	matches := []match.Match{
		scored(1, "Boca", "River", "2-1"),
		scored(2, "River", "Boca", "0-0"),
		scored(3, "River", "Boca", "3-1"),
		scored(4, "Boca", "Racing", "5-0"),
	}

	got, err := HeadToHead("Boca", "River", matches)
	require.NoError(t, err)
	assert.Equal(t, H2H{HomeWins: 1, AwayWins: 1, Draws: 1, HomeGoals: 3, AwayGoals: 4, TotalMatches: 3}, got)
	assert.InDelta(t, 1.0/3.0, got.HomeWinRate(), 1e-9)
}

func TestPlayerRecentMatchesAndForm(t *testing.T) {
	m1 := scored(1, "Boca", "River", "1-0")
	m1.HomeLineup = []match.Player{{Name: "Cavani", Events: []match.Event{{Type: match.EventAssist}, {Type: match.EventYellowCard}}}}
	m1.Goals = []match.Goal{{Scorer: "Cavani", Minute: 12}}
	m2 := scored(2, "Racing", "Boca", "0-0")
	m2.AwayLineup = []match.Player{{Name: "Cavani", Events: []match.Event{{Type: match.EventRedCard}}}}
	m3 := scored(3, "Racing", "Velez", "1-1")
	m3.HomeLineup = []match.Player{{Name: "Someone"}}

	recent := PlayerRecentMatches("Cavani", []match.Match{m1, m3, m2})
	require.Len(t, recent, 2)
	assert.Equal(t, int64(1), recent[0].ID)
	assert.Equal(t, int64(2), recent[1].ID)

	got := PlayerForm("Cavani", []match.Event{{Type: match.EventGoal}}, recent)
	// 3 now, +1 at weight 1, -3 at weight 0.85.
	assert.InDelta(t, 1.45, got, 1e-9)

	assert.Equal(t, 1, CountRecentGoals("Cavani", recent))
	assert.Equal(t, 1, CountRecentAssists("Cavani", recent))
}

func TestPlayerForm_CanBeNegative(t *testing.T) {
	got := PlayerForm("X", []match.Event{{Type: match.EventRedCard}, {Type: match.EventSubstituted}}, nil)
	assert.Equal(t, -3.0, got)
}

func TestSortByRecency(t *testing.T) {
	older := match.Match{ID: 1, Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	newer := match.Match{ID: 2, Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	input := []match.Match{older, newer}

	got := SortByRecency(input)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), input[0].ID, "input must not be reordered")
}
