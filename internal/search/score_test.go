package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMateInPositiveAndNegative(t *testing.T) {
	require.Equal(t, 1, MateIn(MateScore-1))
	require.Equal(t, -1, MateIn(-MateScore+1))
	require.Equal(t, 0, MateIn(500), "an ordinary score is never reported as a mate")
}

func TestIsMateScoreBoundary(t *testing.T) {
	require.True(t, isMateScore(MateScore-MaxPly+1))
	require.False(t, isMateScore(MateScore-MaxPly))
	require.True(t, isMateScore(-(MateScore - MaxPly + 1)))
}

func TestScoreToFromTTIdentityOnNonMateScore(t *testing.T) {
	require.Equal(t, 250, scoreToTT(250, 7))
	require.Equal(t, 250, scoreFromTT(250, 7))
}

func TestScoreToFromTTRoundTripsAtSamePly(t *testing.T) {
	mate := MateScore - 2
	stored := scoreToTT(mate, 5)
	require.Equal(t, mate, scoreFromTT(stored, 5))
}
