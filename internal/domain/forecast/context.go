package forecast

import "github.com/riskibarqy/match-predictor/internal/domain/form"

// PlayerContext is the recent record of one lineup player.
type PlayerContext struct {
	Name          string
	Form          float64
	RecentGoals   int
	RecentAssists int
}

// MatchContext carries the history-derived signals used to adjust raw model output.
// It is computed per prediction and never stored.
type MatchContext struct {
	HomeForm    float64
	AwayForm    float64
	H2H         form.H2H
	HomePlayers []PlayerContext
	AwayPlayers []PlayerContext
}

func (c MatchContext) homePlayer(name string) (PlayerContext, bool) {
	return findPlayer(c.HomePlayers, name)
}

func (c MatchContext) awayPlayer(name string) (PlayerContext, bool) {
	return findPlayer(c.AwayPlayers, name)
}

func findPlayer(players []PlayerContext, name string) (PlayerContext, bool) {
	for _, p := range players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerContext{}, false
}
