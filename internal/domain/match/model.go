package match

import (
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// MaxLineupPlayers is the fixed slot count of one side's lineup.
const MaxLineupPlayers = 22

// ErrMalformedMatchData marks a match whose score, lineup or goal data cannot be used.
var ErrMalformedMatchData = crerr.New("malformed match data")

type EventType string

const (
	EventGoal        EventType = "Goal"
	EventAssist      EventType = "Assist"
	EventYellowCard  EventType = "Yellow Card"
	EventRedCard     EventType = "Red Card"
	EventCleanSheet  EventType = "Clean Sheet"
	EventSubstituted EventType = "Substituted"
	EventOther       EventType = "Other"
)

type Outcome string

const (
	OutcomeHome Outcome = "H"
	OutcomeAway Outcome = "A"
	OutcomeDraw Outcome = "D"
)

// Match is one league fixture with its lineups and, once played, its result.
type Match struct {
	ID         int64
	Matchday   string
	Date       time.Time
	HomeTeam   string
	AwayTeam   string
	Score      *string
	HomeLineup []Player
	AwayLineup []Player
	Goals      []Goal
}

// Player is a lineup entry. It only exists inside one match.
type Player struct {
	Name   string
	Events []Event
}

type Event struct {
	Type   EventType
	Minute int
}

type Goal struct {
	Scorer     string
	Minute     int
	ScoreAfter string
}

func (m Match) Completed() bool {
	return m.Score != nil && strings.TrimSpace(*m.Score) != ""
}

// Involves reports whether the team played in the match.
func (m Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// ActualScore parses the recorded score of a completed match.
func (m Match) ActualScore() (Score, error) {
	if !m.Completed() {
		return Score{}, crerr.Wrapf(ErrMalformedMatchData, "match %d has no score", m.ID)
	}
	score, err := ParseScore(*m.Score)
	if err != nil {
		return Score{}, crerr.Wrapf(err, "match %d", m.ID)
	}
	return score, nil
}

// LineupPlayer finds the named player in either lineup.
func (m Match) LineupPlayer(name string) (Player, bool) {
	for _, p := range m.HomeLineup {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range m.AwayLineup {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

func (m Match) HasPlayer(name string) bool {
	_, ok := m.LineupPlayer(name)
	return ok
}

// Scorers returns goal scorer names in goal order.
func (m Match) Scorers() []string {
	out := make([]string, 0, len(m.Goals))
	for _, g := range m.Goals {
		out = append(out, g.Scorer)
	}
	return out
}

// GoalMinutes returns goal minutes in goal order.
func (m Match) GoalMinutes() []int {
	out := make([]int, 0, len(m.Goals))
	for _, g := range m.Goals {
		out = append(out, g.Minute)
	}
	return out
}

// ValidateLineups checks the lineups can be turned into model input.
func (m Match) ValidateLineups() error {
	if len(m.HomeLineup) == 0 || len(m.AwayLineup) == 0 {
		return crerr.Wrapf(ErrMalformedMatchData, "match %d is missing a lineup", m.ID)
	}
	if len(m.HomeLineup) > MaxLineupPlayers || len(m.AwayLineup) > MaxLineupPlayers {
		return crerr.Wrapf(ErrMalformedMatchData, "match %d lineup exceeds %d players", m.ID, MaxLineupPlayers)
	}
	for _, p := range append(append([]Player(nil), m.HomeLineup...), m.AwayLineup...) {
		if strings.TrimSpace(p.Name) == "" {
			return crerr.Wrapf(ErrMalformedMatchData, "match %d has a lineup entry without name", m.ID)
		}
	}
	return nil
}

// ParseMinute reads the leading minute of values such as "45+2'" or "67".
func ParseMinute(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	end := 0
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, crerr.Wrapf(ErrMalformedMatchData, "minute %q", raw)
	}
	minute, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0, crerr.Wrapf(ErrMalformedMatchData, "minute %q", raw)
	}
	return minute, nil
}
