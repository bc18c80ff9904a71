package scoremodel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVocabulary_ReservesPaddingAndSorts(t *testing.T) {
	v := NewVocabulary([]string{"Zeta", "Alpha", "Alpha", " ", PaddingName}, []string{"River", "Boca"})

	assert.Equal(t, []string{PaddingName, "Alpha", "Zeta"}, v.Players)
	assert.Equal(t, []string{"", "Boca", "River"}, v.Teams)
	assert.Equal(t, 1, v.PlayerIndex("Alpha"))
	assert.Equal(t, 0, v.PlayerIndex("Unknown"))
	assert.Equal(t, 2, v.TeamIndex("River"))
}

func TestVocabularyCompatible(t *testing.T) {
	a := NewVocabulary([]string{"A", "B"}, []string{"X"})
	b := NewVocabulary([]string{"B", "A"}, []string{"X"})
	c := NewVocabulary([]string{"A", "B", "C"}, []string{"X"})

	require.NoError(t, a.Compatible(b))
	err := a.Compatible(c)
	if !errors.Is(err, ErrVocabularyChanged) {
		t.Fatalf("expected ErrVocabularyChanged, got %v", err)
	}
}

func TestRestoreVocabulary_KeepsOrder(t *testing.T) {
	original := NewVocabulary([]string{"B", "A"}, []string{"Y", "X"})
	restored := RestoreVocabulary(original.Version, original.Players, original.Teams)

	require.NoError(t, original.Compatible(restored))
	assert.Equal(t, original.PlayerIndex("B"), restored.PlayerIndex("B"))
}
