package board

import "math/bits"

// Zobrist hashing. Eight base 64-bit keys are generated once at init from
// a fixed-seed PRNG, so keys are reproducible across runs; a square's
// contribution is the base key rotated left by the square index.
// The opponent's contribution to a hash is the byte-swap of the "my view"
// contribution, and flipping whose move it is byte-swaps the whole hash.
var zobristBase [8]uint64

const (
	zobristQueen = iota
	zobristRook
	zobristBishop
	zobristKnight
	zobristPawn
	zobristKing
	zobristCastling
	zobristEnPassant
)

func init() {
	rng := newSplitMix64(0xD6E8FEB86659FD93)
	for i := range zobristBase {
		zobristBase[i] = rng.next()
	}
}

type splitMix64 struct{ state uint64 }

func newSplitMix64(seed uint64) *splitMix64 { return &splitMix64{state: seed} }

func (g *splitMix64) next() uint64 {
	g.state += 0x9E3779B97F4A7C15
	z := g.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func zobristKindKey(k PieceKind) uint64 {
	switch k {
	case Queen:
		return zobristBase[zobristQueen]
	case Rook:
		return zobristBase[zobristRook]
	case Bishop:
		return zobristBase[zobristBishop]
	case Knight:
		return zobristBase[zobristKnight]
	case Pawn:
		return zobristBase[zobristPawn]
	default:
		return zobristBase[zobristKing]
	}
}

// zobristPieceKey is the hash contribution of a piece of kind k standing on
// sq, in "my view" terms.
func zobristPieceKey(k PieceKind, sq Square) uint64 {
	return bits.RotateLeft64(zobristKindKey(k), int(sq))
}

// zobristCastlingKey is the contribution of a castling-rook right on sq
// (always rank 7 in the rook's own view).
func zobristCastlingKey(sq Square) uint64 {
	return bits.RotateLeft64(zobristBase[zobristCastling], int(sq))
}

// zobristEnPassantKey is the contribution of an en-passant right on file f
// (the capture square sits on rank 4 in the mover's view).
func zobristEnPassantKey(f File) uint64 {
	sq := NewSquare(f, 4)
	return bits.RotateLeft64(zobristBase[zobristEnPassant], int(sq))
}

// flipZobrist byte-swaps a hash, converting it between "my move" and
// "opponent's move" — the Zobrist analogue of Bitboard.Flip.
func flipZobrist(h uint64) uint64 { return bits.ReverseBytes64(h) }
