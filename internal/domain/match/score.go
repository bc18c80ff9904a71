package match

import (
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// Score is a final or predicted result.
type Score struct {
	Home int
	Away int
}

// ParseScore accepts "H-A" with optional spaces around the dash.
func ParseScore(raw string) (Score, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return Score{}, crerr.Wrapf(ErrMalformedMatchData, "score %q", raw)
	}

	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || home < 0 {
		return Score{}, crerr.Wrapf(ErrMalformedMatchData, "score %q", raw)
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || away < 0 {
		return Score{}, crerr.Wrapf(ErrMalformedMatchData, "score %q", raw)
	}

	return Score{Home: home, Away: away}, nil
}

func (s Score) String() string {
	return strconv.Itoa(s.Home) + "-" + strconv.Itoa(s.Away)
}

func (s Score) Total() int {
	return s.Home + s.Away
}

func (s Score) Diff() int {
	return s.Home - s.Away
}

func (s Score) Outcome() Outcome {
	switch {
	case s.Home > s.Away:
		return OutcomeHome
	case s.Home < s.Away:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}
