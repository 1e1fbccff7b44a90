package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// perft counts leaf nodes at depth via the copy-make MakeMove path,
// exercising move generation, move-make, and legality checking together.
func perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var list MoveList
	pos.GenerateLegal(&list)
	if depth == 1 {
		return uint64(list.Len())
	}
	var nodes uint64
	for i := 0; i < list.Len(); i++ {
		child := pos.MakeMove(list.At(i))
		nodes += perft(&child, depth-1)
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	pos, err := FromFEN(StartFEN)
	require.NoError(t, err)

	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, perft(pos, tc.depth), "depth %d", tc.depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 48},
		{2, 2039},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, perft(pos, tc.depth), "depth %d", tc.depth)
	}
}

func TestPerftPromotionPosition(t *testing.T) {
	// Standard perft suite position 5: no en-passant right, but its depth-1
	// count includes the four capturing promotions d7xc8 and White's
	// kingside castle.
	pos, err := FromFEN("rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8")
	require.NoError(t, err)
	require.Equal(t, uint64(44), perft(pos, 1))
}

func TestGenerateLegalExcludesSelfCheck(t *testing.T) {
	// White's rook on e2 is pinned to the king on e1 by the black rook on
	// e4: sliding it off the e-file must not appear among the legal moves,
	// even though GeneratePseudoLegal would offer it.
	pos, err := FromFEN("4k3/8/8/8/4r3/8/4R3/4K3 w - - 0 1")
	require.NoError(t, err)

	var pseudo MoveList
	pos.GeneratePseudoLegal(&pseudo)
	// White to move: own-view rank 0 is White's back rank (e1), rank 1 is
	// e2 — the rook's square.
	offFile := NewMove(NewSquare(FileE, 1), NewSquare(FileD, 1))
	found := false
	for i := 0; i < pseudo.Len(); i++ {
		if pseudo.At(i) == offFile {
			found = true
		}
	}
	require.True(t, found, "pseudo-legal generation should offer the pinned rook move")
	require.False(t, pos.IsLegal(offFile), "moving the pinned rook off the e-file must be illegal")

	var legal MoveList
	pos.GenerateLegal(&legal)
	for i := 0; i < legal.Len(); i++ {
		require.NotEqual(t, offFile, legal.At(i))
	}
}

func TestHasLegalMoveDetectsCheckmate(t *testing.T) {
	// Fool's mate.
	pos, err := FromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)
	require.True(t, pos.InCheck())
	require.False(t, pos.HasLegalMove())
}

func TestHasLegalMoveDetectsStalemate(t *testing.T) {
	pos, err := FromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	require.False(t, pos.InCheck())
	require.False(t, pos.HasLegalMove())
}
