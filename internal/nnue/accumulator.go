package nnue

import "github.com/halcyonchess/halcyon/internal/board"

// Accumulator holds the two perspective-relative hidden layers: one input
// half for this side's own pieces, one for the opponent's. Rather than the
// dirty-piece incremental update Stockfish-derived engines use, Evaluate
// recomputes both halves directly from the position's piece tables each
// call: Position is already copied whole on every MakeMove (the engine's
// copy-make discipline), so there is no cheap diff to feed an incremental
// accumulator here, and a 32-piece recompute is inexpensive next to the
// rest of a search node.
type Accumulator struct {
	net *Network

	myHidden [Hidden]int32
	opHidden [Hidden]int32

	features []int // reusable scratch buffer
}

func NewAccumulator(net *Network, pos *board.Position) *Accumulator {
	a := &Accumulator{net: net, features: make([]int, 0, 32)}
	return a
}

func (a *Accumulator) refresh(pos *board.Position) {
	my := pos.My()
	op := pos.Op()

	a.features = a.features[:0]
	a.features = activeFeatures(my, op, a.features)
	computeHidden(a.net, a.features, &a.myHidden)

	a.features = a.features[:0]
	a.features = activeFeatures(op, my, a.features)
	computeHidden(a.net, a.features, &a.opHidden)
}

func computeHidden(net *Network, features []int, out *[Hidden]int32) {
	for h := 0; h < Hidden; h++ {
		out[h] = int32(net.HiddenBiases[h])
	}
	for _, f := range features {
		row := &net.InputWeights[f]
		for h := 0; h < Hidden; h++ {
			out[h] += int32(row[h])
		}
	}
}

// Evaluate returns the position's static evaluation in centipawn-like
// units, from the perspective of the side to move.
func (a *Accumulator) Evaluate(pos *board.Position) int {
	a.refresh(pos)

	var sum int64
	for h := 0; h < Hidden; h++ {
		sum += int64(clampedSquare(a.myHidden[h])) * int64(a.net.OutputWeights[h])
	}
	for h := 0; h < Hidden; h++ {
		sum += int64(clampedSquare(a.opHidden[h])) * int64(a.net.OutputWeights[Hidden+h])
	}

	v := sum/int64(QA) + int64(a.net.OutputBias)
	v = v * Scale / int64(QA*QB)
	return int(v)
}
