package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyonchess/halcyon/internal/board"
)

func TestTableStoreProbeRoundTrip(t *testing.T) {
	tt := NewTable(1)
	m := board.NewMove(board.NewSquare(board.FileE, 1), board.NewSquare(board.FileE, 3))
	tt.Store(0x1234_5678_9abc_def0, 5, 123, BoundExact, m, 0, true)

	probe, ok := tt.Probe(0x1234_5678_9abc_def0, 0)
	require.True(t, ok)
	require.Equal(t, m, probe.Move)
	require.Equal(t, 123, probe.Score)
	require.Equal(t, 5, probe.Depth)
	require.Equal(t, BoundExact, probe.Bound)
	require.True(t, probe.IsPV)
}

func TestTableProbeMissOnEmptyOrKeyCollision(t *testing.T) {
	tt := NewTable(1)
	_, ok := tt.Probe(0xdead_beef, 0)
	require.False(t, ok)

	tt.Store(0x0000_0000_0000_0001, 3, 10, BoundExact, board.NullMove, 0, false)
	// A different zobrist hashing to the same slot but a different key16
	// (top 16 bits) must not be reported as a hit.
	collide := uint64(1) | (uint64(0xBEEF) << 48)
	_, ok = tt.Probe(collide, 0)
	require.False(t, ok)
}

func TestTableStoreKeepsDeeperSameAgeEntry(t *testing.T) {
	tt := NewTable(1)
	key := uint64(42)
	m1 := board.NewMove(board.NewSquare(board.FileA, 1), board.NewSquare(board.FileA, 3))
	m2 := board.NewMove(board.NewSquare(board.FileB, 1), board.NewSquare(board.FileB, 3))

	tt.Store(key, 10, 50, BoundExact, m1, 0, false)
	tt.Store(key, 3, 99, BoundExact, m2, 0, false)

	probe, ok := tt.Probe(key, 0)
	require.True(t, ok)
	require.Equal(t, m1, probe.Move, "shallower same-age store must not overwrite a deeper entry")
	require.Equal(t, 50, probe.Score)
}

func TestTableNewSearchAllowsOverwritingStaleEntry(t *testing.T) {
	tt := NewTable(1)
	key := uint64(42)
	m1 := board.NewMove(board.NewSquare(board.FileA, 1), board.NewSquare(board.FileA, 3))
	m2 := board.NewMove(board.NewSquare(board.FileB, 1), board.NewSquare(board.FileB, 3))

	tt.Store(key, 10, 50, BoundExact, m1, 0, false)
	tt.NewSearch()
	tt.Store(key, 3, 99, BoundExact, m2, 0, false)

	probe, ok := tt.Probe(key, 0)
	require.True(t, ok)
	require.Equal(t, m2, probe.Move, "a new generation may overwrite a shallower result from a prior search")
	require.Equal(t, 99, probe.Score)
}

func TestTableStorePreservesMoveWhenRefreshingBoundsOnly(t *testing.T) {
	tt := NewTable(1)
	key := uint64(7)
	m := board.NewMove(board.NewSquare(board.FileC, 1), board.NewSquare(board.FileC, 3))

	tt.Store(key, 4, 10, BoundExact, m, 0, false)
	tt.Store(key, 5, 20, BoundLower, board.NullMove, 0, false)

	probe, ok := tt.Probe(key, 0)
	require.True(t, ok)
	require.Equal(t, m, probe.Move, "a bound-only refresh (NullMove) should keep the previous best move")
}

func TestScoreToFromTTRoundTripOnPlainScore(t *testing.T) {
	tt := NewTable(1)
	key := uint64(99)
	tt.Store(key, 1, 321, BoundExact, board.NullMove, 5, false)

	probe, ok := tt.Probe(key, 5)
	require.True(t, ok)
	require.Equal(t, 321, probe.Score, "a non-mate score is unaffected by ply rebasing")

	probe2, ok := tt.Probe(key, 0)
	require.True(t, ok)
	require.Equal(t, 321, probe2.Score)
}

func TestScoreToFromTTRebasesMateScoreByPly(t *testing.T) {
	tt := NewTable(1)
	key := uint64(100)
	mateScore := MateScore - 3 // mate in 2, found 3 ply from root

	tt.Store(key, 1, mateScore, BoundExact, board.NullMove, 10, false)
	probe, ok := tt.Probe(key, 10)
	require.True(t, ok)
	require.Equal(t, mateScore, probe.Score, "probing at the same ply it was stored at must round-trip exactly")

	probe2, ok := tt.Probe(key, 4)
	require.True(t, ok)
	require.Equal(t, scoreFromTT(scoreToTT(mateScore, 10), 4), probe2.Score,
		"probing at a different ply must rebase through the same storage-relative score the Table itself uses")
	require.NotEqual(t, mateScore, probe2.Score, "a mate score read back at a different ply must actually be rebased")
}

func TestHashFullReportsOccupancy(t *testing.T) {
	tt := NewTable(1)
	require.Equal(t, 0, tt.HashFull())

	n := len(tt.entries)
	if n > 1000 {
		n = 1000
	}
	for i := 0; i < n; i++ {
		tt.Store(uint64(i), 1, 0, BoundExact, board.NullMove, 0, false)
	}
	require.Equal(t, 1000, tt.HashFull())
}
