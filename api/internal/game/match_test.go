package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClosestMatchExact(t *testing.T) {
	got, score, err := closestMatch("Paris", []string{"London", "Paris", "Berlin"})
	require.NoError(t, err)
	require.Equal(t, "Paris", got)
	require.Equal(t, 1.0, score)
}

func TestClosestMatchFoldsCase(t *testing.T) {
	got, score, err := closestMatch("christmas", []string{"Christmas", "Chocolate"})
	require.NoError(t, err)
	require.Equal(t, "Christmas", got)
	require.Equal(t, 1.0, score)
}

func TestClosestMatchQualifiedTitle(t *testing.T) {
	// no exact "Paris" among candidates: the qualified title is still
	// the closest string and must win
	got, score, err := closestMatch("Paris", []string{"Paris (disambiguation)", "London"})
	require.NoError(t, err)
	require.Equal(t, "Paris (disambiguation)", got)
	require.Greater(t, score, 0.0)
	require.Less(t, score, 1.0)
}

func TestClosestMatchDeterministicOnTies(t *testing.T) {
	for i := 0; i < 10; i++ {
		got, _, err := closestMatch("AD", []string{"AB", "AC"})
		require.NoError(t, err)
		require.Equal(t, "AB", got)
	}
}

func TestClosestMatchRejectsFarProposals(t *testing.T) {
	_, _, err := closestMatch("Quantum chromodynamics", []string{"Dog"})
	require.ErrorIs(t, err, ErrNoMatch)
}
