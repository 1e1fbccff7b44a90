package search

import "github.com/halcyonchess/halcyon/internal/board"

// Move ordering priorities: a classic MVV-LVA/killer-move/history scheme,
// indexed by PieceKind rather than colour-specific piece type, since every
// Position is always viewed from the side to move.
const (
	ttMoveScore    = 10_000_000
	goodCaptureBase = 1_000_000
	killerScore1   = 900_000
	killerScore2   = 800_000
	counterScore   = 700_000
	badCaptureBase = -100_000
)

// mvvLva[victim][attacker]: higher score searched first.
var mvvLva = [6][6]int{
	board.Queen:  {55, 54, 54, 53, 52, 51},
	board.Rook:   {45, 44, 44, 43, 42, 41},
	board.Bishop: {35, 34, 34, 33, 32, 31},
	board.Knight: {25, 24, 24, 23, 22, 21},
	board.Pawn:   {15, 14, 14, 13, 12, 11},
	board.King:   {0, 0, 0, 0, 0, 0},
}

// orderer holds move-ordering heuristics that persist across a whole
// search: killer moves per ply, piece-kind/destination history, and a one-slot counter
// move table keyed by the kind+destination of the previous move.
type orderer struct {
	killers      [MaxPly][2]board.Move
	history      [6][64]int
	counterMoves [6][64]board.Move
}

func newOrderer() *orderer { return &orderer{} }

func (o *orderer) clear() {
	for p := range o.killers {
		o.killers[p][0] = board.NullMove
		o.killers[p][1] = board.NullMove
	}
	for k := range o.history {
		for sq := range o.history[k] {
			o.history[k][sq] /= 2
		}
	}
	for k := range o.counterMoves {
		for sq := range o.counterMoves[k] {
			o.counterMoves[k][sq] = board.NullMove
		}
	}
}

func (o *orderer) recordKiller(ply int, m board.Move) {
	if o.killers[ply][0] == m {
		return
	}
	o.killers[ply][1] = o.killers[ply][0]
	o.killers[ply][0] = m
}

func (o *orderer) recordHistory(k board.PieceKind, to board.Square, depth int) {
	o.history[k][to] += depth * depth
	if o.history[k][to] > 1<<20 {
		for kk := range o.history {
			for sq := range o.history[kk] {
				o.history[kk][sq] /= 2
			}
		}
	}
}

func (o *orderer) recordCounter(prevKind board.PieceKind, prevTo board.Square, m board.Move) {
	o.counterMoves[prevKind][prevTo] = m
}

// scoreMove assigns an ordering score for move m at ply, given the moving
// piece kind, whether it is a capture (and the captured kind), the TT
// move, and the previous ply's (kind, to) for counter-move lookup.
func (o *orderer) scoreMove(m, ttMove board.Move, ply int, moverKind board.PieceKind, isCapture bool, capturedKind board.PieceKind, prevKind board.PieceKind, prevTo board.Square) int {
	if m == ttMove {
		return ttMoveScore
	}
	if isCapture {
		base := mvvLva[capturedKind][moverKind]
		if base >= mvvLva[capturedKind][board.Knight] {
			return goodCaptureBase + base
		}
		return badCaptureBase + base
	}
	if m == o.killers[ply][0] {
		return killerScore1
	}
	if m == o.killers[ply][1] {
		return killerScore2
	}
	if o.counterMoves[prevKind][prevTo] == m {
		return counterScore
	}
	return o.history[moverKind][m.To()]
}
