package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyonchess/halcyon/internal/board"
)

func sq(f board.File, r board.Rank) board.Square { return board.NewSquare(f, r) }

func TestOrdererScoreMovePrioritizesTTMoveAboveEverything(t *testing.T) {
	o := newOrderer()
	m := board.NewMove(sq(board.FileE, 1), sq(board.FileE, 3))
	score := o.scoreMove(m, m, 0, board.Pawn, false, board.NoPieceKind, board.Pawn, sq(board.FileH, 7))
	require.Equal(t, ttMoveScore, score)
}

func TestOrdererScoreMoveRanksGoodCaptureAboveKillerAboveHistory(t *testing.T) {
	o := newOrderer()
	capture := board.NewMove(sq(board.FileE, 4), sq(board.FileD, 5))
	killer := board.NewMove(sq(board.FileG, 0), sq(board.FileF, 2))
	quiet := board.NewMove(sq(board.FileD, 1), sq(board.FileD, 3))

	o.recordKiller(3, killer)
	o.recordHistory(board.Pawn, quiet.To(), 4)

	// Queen takes queen sits at the top of mvvLva's Queen-victim row, well
	// above the good/bad cutoff.
	captureScore := o.scoreMove(capture, board.NullMove, 3, board.Queen, true, board.Queen, board.Pawn, sq(board.FileH, 7))
	killerScore := o.scoreMove(killer, board.NullMove, 3, board.Knight, false, board.NoPieceKind, board.Pawn, sq(board.FileH, 7))
	quietScore := o.scoreMove(quiet, board.NullMove, 3, board.Pawn, false, board.NoPieceKind, board.Pawn, sq(board.FileH, 7))

	require.Greater(t, captureScore, killerScore, "a good capture must outrank a killer move")
	require.Greater(t, killerScore, quietScore, "a killer move must outrank a plain history-scored quiet move")
}

func TestOrdererScoreMoveDistinguishesGoodFromBadCaptures(t *testing.T) {
	o := newOrderer()
	goodCapture := board.NewMove(sq(board.FileD, 1), sq(board.FileD, 6))
	badCapture := board.NewMove(sq(board.FileE, 4), sq(board.FileD, 5))

	// mvvLva[Queen][Queen] sits at the top of the Queen-victim row; well
	// above the cutoff taken from mvvLva[Queen][Knight].
	goodScore := o.scoreMove(goodCapture, board.NullMove, 0, board.Queen, true, board.Queen, board.Pawn, sq(board.FileH, 7))
	// mvvLva[Queen][King] sits at the bottom of the same row, below the cutoff.
	badScore := o.scoreMove(badCapture, board.NullMove, 0, board.King, true, board.Queen, board.Pawn, sq(board.FileH, 7))

	require.GreaterOrEqual(t, goodScore, goodCaptureBase)
	require.Less(t, badScore, goodCaptureBase)
}

func TestOrdererRecordKillerKeepsTwoDistinctSlots(t *testing.T) {
	o := newOrderer()
	m1 := board.NewMove(sq(board.FileA, 1), sq(board.FileA, 3))
	m2 := board.NewMove(sq(board.FileB, 1), sq(board.FileB, 3))

	o.recordKiller(5, m1)
	o.recordKiller(5, m2)
	require.Equal(t, m2, o.killers[5][0])
	require.Equal(t, m1, o.killers[5][1])

	// Recording the current first-slot killer again must not push a
	// duplicate into the second slot.
	o.recordKiller(5, m2)
	require.Equal(t, m2, o.killers[5][0])
	require.Equal(t, m1, o.killers[5][1])
}

func TestOrdererRecordCounterTracksPreviousMove(t *testing.T) {
	o := newOrderer()
	reply := board.NewMove(sq(board.FileD, 1), sq(board.FileD, 3))
	o.recordCounter(board.Knight, sq(board.FileF, 2), reply)

	score := o.scoreMove(reply, board.NullMove, 0, board.Pawn, false, board.NoPieceKind, board.Knight, sq(board.FileF, 2))
	require.Equal(t, counterScore, score)
}

func TestOrdererClearHalvesHistoryAndResetsKillersAndCounters(t *testing.T) {
	o := newOrderer()
	m := board.NewMove(sq(board.FileA, 1), sq(board.FileA, 3))
	o.recordKiller(1, m)
	o.recordCounter(board.Pawn, sq(board.FileA, 3), m)
	o.recordHistory(board.Pawn, m.To(), 10)
	before := o.history[board.Pawn][m.To()]
	require.Positive(t, before)

	o.clear()

	require.Equal(t, board.NullMove, o.killers[1][0])
	require.Equal(t, board.NullMove, o.killers[1][1])
	require.Equal(t, board.NullMove, o.counterMoves[board.Pawn][sq(board.FileA, 3)])
	require.Equal(t, before/2, o.history[board.Pawn][m.To()])
}
