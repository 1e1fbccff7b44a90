package nnue

import "github.com/halcyonchess/halcyon/internal/board"

// planeOf returns the input-plane index (0-5: own pieces, 6-11: the
// opponent's, as seen from the perspective whose accumulator is being
// built) for a piece kind.
func planeOf(k board.PieceKind, own bool) int {
	p := int(k)
	if !own {
		p += 6
	}
	return p
}

func featureIndex(plane int, sq board.Square) int { return plane*64 + int(sq) }

// activeFeatures appends every set input feature for the half-board built
// from side's own view (its own pieces on planes 0-5 at their own
// squares, the opponent's pieces on planes 6-11 at their squares as seen
// from this same view) into dst, returning the extended slice.
func activeFeatures(side *board.SideState, opSide *board.SideState, dst []int) []int {
	for i := board.PieceIndex(0); i < board.MaxPieces; i++ {
		k := side.KindAt(i)
		if k == board.NoPieceKind {
			continue
		}
		dst = append(dst, featureIndex(planeOf(k, true), side.SquareAt(i)))
	}
	for i := board.PieceIndex(0); i < board.MaxPieces; i++ {
		k := opSide.KindAt(i)
		if k == board.NoPieceKind {
			continue
		}
		dst = append(dst, featureIndex(planeOf(k, false), opSide.SquareAt(i).Flip()))
	}
	return dst
}
