package usecase

import (
	"fmt"

	"github.com/riskibarqy/match-predictor/internal/domain/forecast"
	"github.com/riskibarqy/match-predictor/internal/domain/form"
	"github.com/riskibarqy/match-predictor/internal/domain/match"
	"github.com/riskibarqy/match-predictor/internal/domain/scoremodel"
)

// matchInputs is everything the model and the adjustment engine need for one match.
type matchInputs struct {
	features scoremodel.Features
	// slots holds the 44 lineup names aligned with the feature player slots.
	slots   []string
	context forecast.MatchContext
}

// buildMatchInputs derives features from history ordered most recent first.
// withCurrentEvents feeds the lineup's own events into player form; training leaves it off
// because those events are the label.
func buildMatchInputs(m match.Match, history []match.Match, vocab scoremodel.Vocabulary, withCurrentEvents bool) (matchInputs, error) {
	if err := m.ValidateLineups(); err != nil {
		return matchInputs{}, err
	}

	homeForm, err := form.TeamForm(m.HomeTeam, history)
	if err != nil {
		return matchInputs{}, fmt.Errorf("home form for match %d: %w", m.ID, err)
	}
	awayForm, err := form.TeamForm(m.AwayTeam, history)
	if err != nil {
		return matchInputs{}, fmt.Errorf("away form for match %d: %w", m.ID, err)
	}
	h2h, err := form.HeadToHead(m.HomeTeam, m.AwayTeam, history)
	if err != nil {
		return matchInputs{}, fmt.Errorf("head to head for match %d: %w", m.ID, err)
	}

	homeIDs, homeForms, homeCtx, homeSlots := sideInputs(m.HomeLineup, history, vocab, withCurrentEvents)
	awayIDs, awayForms, awayCtx, awaySlots := sideInputs(m.AwayLineup, history, vocab, withCurrentEvents)

	return matchInputs{
		features: scoremodel.Features{
			HomeTeam:    vocab.TeamIndex(m.HomeTeam),
			AwayTeam:    vocab.TeamIndex(m.AwayTeam),
			HomePlayers: homeIDs,
			AwayPlayers: awayIDs,
			HomeForms:   homeForms,
			AwayForms:   awayForms,
			H2H:         h2h.Vector(),
		},
		slots: append(homeSlots, awaySlots...),
		context: forecast.MatchContext{
			HomeForm:    homeForm,
			AwayForm:    awayForm,
			H2H:         h2h,
			HomePlayers: homeCtx,
			AwayPlayers: awayCtx,
		},
	}, nil
}

func sideInputs(
	lineup []match.Player,
	history []match.Match,
	vocab scoremodel.Vocabulary,
	withCurrentEvents bool,
) ([]int, []float64, []forecast.PlayerContext, []string) {
	ids := make([]int, match.MaxLineupPlayers)
	forms := make([]float64, match.MaxLineupPlayers)
	slots := make([]string, match.MaxLineupPlayers)
	players := make([]forecast.PlayerContext, 0, len(lineup))

	for i := range slots {
		slots[i] = scoremodel.PaddingName
	}
	for i, p := range lineup {
		recent := form.PlayerRecentMatches(p.Name, history)
		var current []match.Event
		if withCurrentEvents {
			current = p.Events
		}
		playerForm := form.PlayerForm(p.Name, current, recent)

		ids[i] = vocab.PlayerIndex(p.Name)
		forms[i] = playerForm
		slots[i] = p.Name
		players = append(players, forecast.PlayerContext{
			Name:          p.Name,
			Form:          playerForm,
			RecentGoals:   form.CountRecentGoals(p.Name, recent),
			RecentAssists: form.CountRecentAssists(p.Name, recent),
		})
	}
	return ids, forms, players, slots
}

// trainingTarget labels a completed match.
func trainingTarget(m match.Match, slots []string) (scoremodel.Target, error) {
	score, err := m.ActualScore()
	if err != nil {
		return scoremodel.Target{}, err
	}

	target := scoremodel.Target{
		Score:   [2]float64{float64(score.Home), float64(score.Away)},
		Scorers: make([]float64, scoremodel.ScorerSlots),
	}
	scorers := make(map[string]struct{}, len(m.Goals))
	for _, g := range m.Goals {
		scorers[g.Scorer] = struct{}{}
		target.Time[timeBin(g.Minute)]++
	}
	for i, name := range slots {
		if _, ok := scorers[name]; ok && name != scoremodel.PaddingName {
			target.Scorers[i] = 1
		}
	}
	if len(m.Goals) > 0 {
		for k := range target.Time {
			target.Time[k] /= float64(len(m.Goals))
		}
	}
	return target, nil
}

func timeBin(minute int) int {
	bin := minute / 15
	if bin < 0 {
		return 0
	}
	if bin >= scoremodel.TimeBins {
		return scoremodel.TimeBins - 1
	}
	return bin
}

// historyBefore keeps matches played strictly before the match, preserving order.
func historyBefore(history []match.Match, m match.Match) []match.Match {
	out := make([]match.Match, 0, len(history))
	for _, h := range history {
		if h.ID != m.ID && h.Date.Before(m.Date) {
			out = append(out, h)
		}
	}
	return out
}

// vocabularyOf collects every player and team seen in the matches.
func vocabularyOf(matches []match.Match) scoremodel.Vocabulary {
	var players, teams []string
	for _, m := range matches {
		teams = append(teams, m.HomeTeam, m.AwayTeam)
		for _, p := range m.HomeLineup {
			players = append(players, p.Name)
		}
		for _, p := range m.AwayLineup {
			players = append(players, p.Name)
		}
		players = append(players, m.Scorers()...)
	}
	return scoremodel.NewVocabulary(players, teams)
}
