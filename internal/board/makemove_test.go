package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// walkAndCheckZobrist plays every legal move from pos to depth and checks
// that the incrementally updated hash always matches a from-scratch
// recomputation, catching any Zobrist bookkeeping bug in MakeMove.
func walkAndCheckZobrist(t *testing.T, pos *Position, depth int) {
	t.Helper()
	require.Equal(t, computeZobrist(pos), pos.Zobrist())
	if depth == 0 {
		return
	}
	var list MoveList
	pos.GenerateLegal(&list)
	for i := 0; i < list.Len(); i++ {
		child := pos.MakeMove(list.At(i))
		walkAndCheckZobrist(t, &child, depth-1)
	}
}

func TestMakeMoveZobristConsistency(t *testing.T) {
	pos, err := FromFEN(StartFEN)
	require.NoError(t, err)
	walkAndCheckZobrist(t, pos, 3)
}

func TestMakeMoveZobristConsistencyKiwipete(t *testing.T) {
	pos, err := FromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	walkAndCheckZobrist(t, pos, 2)
}

func TestMakeMoveCastlingRookAndKingSquares(t *testing.T) {
	pos, err := FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	// White kingside castle: rook h1 "captures" king e1. White to move, so
	// home rank (rank 1) is own-view rank 0.
	m := NewMove(NewSquare(FileH, 0), NewSquare(FileE, 0))
	child := pos.MakeMove(m)

	// After the swap, the side that just moved is now Op.
	king := child.Op().FindPieceAt(NewSquare(FileG, 0))
	rook := child.Op().FindPieceAt(NewSquare(FileF, 0))
	require.NotEqual(t, MaxPieces, king)
	require.NotEqual(t, MaxPieces, rook)
	require.Equal(t, King, child.Op().KindAt(king))
	require.Equal(t, Rook, child.Op().KindAt(rook))
}

func TestMakeMoveEnPassantRemovesCapturedPawn(t *testing.T) {
	pos, err := FromFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	require.NoError(t, err)

	// e5 pawn captures en passant onto d6. The en-passant shape encodes both
	// squares on rank 4 (the captured pawn's rank); the real landing square
	// is one rank further forward, rank 5. After the swap the captured
	// Black pawn's side is My, and its d5 square is rank 3 in Black's view.
	m := NewMove(NewSquare(FileE, 4), NewSquare(FileD, 4))
	child := pos.MakeMove(m)

	require.Equal(t, MaxPieces, child.My().FindPieceAt(NewSquare(FileD, 3)))
	require.NotEqual(t, MaxPieces, child.Op().FindPieceAt(NewSquare(FileD, 5)))
}

func TestMakeMovePromotionRemapsRank(t *testing.T) {
	pos, err := FromFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	// The a7 pawn has own-view rank 6 (White to move: rank = chessRank-1).
	// Encoded destination rank 0 means "promote to queen", remapped to the
	// real rank-7 destination (a8) inside MakeMove.
	m := NewMove(NewSquare(FileA, 6), NewSquare(FileA, 0))
	child := pos.MakeMove(m)

	idx := child.Op().FindPieceAt(NewSquare(FileA, 7))
	require.NotEqual(t, MaxPieces, idx)
	require.Equal(t, Queen, child.Op().KindAt(idx))
}

func TestMakeMovePromotionCaptureRemovesCapturedPiece(t *testing.T) {
	pos, err := FromFEN("r3k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	startingPieces := pos.Occupied(My).PopCount() + pos.Occupied(Op).PopCount()

	// b7 pawn captures the a8 rook while promoting to queen. Capture
	// detection must run against the real rank-7 destination rather than
	// the promotion-encoded rank-0 square, or the rook survives underneath
	// the promoted queen.
	m := NewMove(NewSquare(FileB, 6), NewSquare(FileA, 0))
	child := pos.MakeMove(m)

	idx := child.Op().FindPieceAt(NewSquare(FileA, 7))
	require.NotEqual(t, MaxPieces, idx)
	require.Equal(t, Queen, child.Op().KindAt(idx))

	endingPieces := child.Occupied(My).PopCount() + child.Occupied(Op).PopCount()
	require.Equal(t, startingPieces-1, endingPieces, "the captured rook must be removed, not left under the promoted queen")
}

func TestMakeMoveUnderpromotionDoesNotSpuriouslyCapture(t *testing.T) {
	// A Black rook sits on b4 (real rank), the square a non-capturing knight
	// underpromotion's encoded (rank-3) destination flips onto under the old
	// capture-detection order. It must survive untouched since b7-b8=N isn't
	// a capture at all.
	pos, err := FromFEN("4k3/1P6/8/8/1r6/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := NewMove(NewSquare(FileB, 6), NewSquare(FileB, 3))
	child := pos.MakeMove(m)

	idx := child.Op().FindPieceAt(NewSquare(FileB, 7))
	require.NotEqual(t, MaxPieces, idx)
	require.Equal(t, Knight, child.Op().KindAt(idx))

	// Black is My after the swap; b4 is rank 4 in Black's own view.
	rookIdx := child.My().FindPieceAt(NewSquare(FileB, 4))
	require.NotEqual(t, MaxPieces, rookIdx, "the unrelated rook on b4 must not be treated as captured")
	require.Equal(t, Rook, child.My().KindAt(rookIdx))
}

func TestMakeMoveQuietPawnPushToLowRankIsNotMisreadAsPromotion(t *testing.T) {
	pos, err := FromFEN("4k3/8/8/8/8/8/P7/4K3 w - - 0 1")
	require.NoError(t, err)

	// a2-a4: a double push landing on own-view rank 3, which
	// encodesPromotionRank's destination-only check used to collide with
	// the Knight promotion encoding (rank 3).
	m := NewMove(NewSquare(FileA, 1), NewSquare(FileA, 3))
	child := pos.MakeMove(m)

	idx := child.Op().FindPieceAt(NewSquare(FileA, 3))
	require.NotEqual(t, MaxPieces, idx)
	require.Equal(t, Pawn, child.Op().KindAt(idx), "a double push must remain a pawn, not become a knight")
}

func TestMakeMoveDoublePushEstablishesEnPassantRight(t *testing.T) {
	pos, err := FromFEN("4k3/8/8/8/4p3/8/3P4/4K3 w - - 0 1")
	require.NoError(t, err)

	// d2-d4: a double push next to the e4 Black pawn, which can legally
	// capture en passant.
	m := NewMove(NewSquare(FileD, 1), NewSquare(FileD, 3))
	child := pos.MakeMove(m)

	// After the swap, the pushed pawn belongs to Op and the e4 pawn is My.
	pushedIdx := child.Op().FindPieceAt(NewSquare(FileD, 3))
	require.NotEqual(t, MaxPieces, pushedIdx)
	require.True(t, child.Op().traits[pushedIdx].has(TraitEnPassant))

	require.Equal(t, computeZobrist(&child), child.Zobrist())

	var list MoveList
	child.GeneratePseudoLegal(&list)
	found := false
	for i := 0; i < list.Len(); i++ {
		mv := list.At(i)
		if mv.isEnPassantShape() && mv.From().File() == FileE && mv.To().File() == FileD {
			found = true
		}
	}
	require.True(t, found, "the e4 pawn must be offered the en-passant capture")
}

func TestMakeMoveDoublePushWithoutAdjacentPawnSkipsEnPassantRight(t *testing.T) {
	pos, err := FromFEN("4k3/8/8/8/8/8/3P4/4K3 w - - 0 1")
	require.NoError(t, err)

	m := NewMove(NewSquare(FileD, 1), NewSquare(FileD, 3))
	child := pos.MakeMove(m)

	pushedIdx := child.Op().FindPieceAt(NewSquare(FileD, 3))
	require.NotEqual(t, MaxPieces, pushedIdx)
	require.False(t, child.Op().traits[pushedIdx].has(TraitEnPassant), "no adjacent enemy pawn means no en-passant right to record")
	require.Equal(t, computeZobrist(&child), child.Zobrist())
}

func TestMakeMoveStaleEnPassantRightIsClearedNextPly(t *testing.T) {
	pos, err := FromFEN("4k3/8/8/8/4p3/8/3P4/4K3 w - - 0 1")
	require.NoError(t, err)

	afterPush := pos.MakeMove(NewMove(NewSquare(FileD, 1), NewSquare(FileD, 3)))

	// Black plays an unrelated move instead of capturing en passant; the
	// right must be forfeited for the following position, where the
	// pushed White pawn's side is My again.
	kingMove := NewMove(NewSquare(FileE, 0), NewSquare(FileD, 0))
	afterUnrelated := afterPush.MakeMove(kingMove)

	for i := PieceIndex(0); i < MaxPieces; i++ {
		require.False(t, afterUnrelated.My().traits[i].has(TraitEnPassant))
	}
	require.Equal(t, computeZobrist(&afterUnrelated), afterUnrelated.Zobrist())
}
