package board

// Precomputed tables, built once at package init: leaper attacks, the four
// ray masks per square (used by Hyperbola Quintessence), and the
// between/line-through tables used by pin and check-evasion logic.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	// pawnAttacks[My][sq]: diagonal capture squares for a pawn standing on
	// sq in its own view (rank increases away from its own back rank).
	// pawnAttacks[Op][sq] is that bitboard flipped (byte-swapped).
	pawnAttacks [2][64]Bitboard

	rayMask    [4][64]Bitboard // line through sq along Direction, excluding sq
	betweenSq  [64][64]Bitboard
	lineThru   [64][64]Bitboard
)

func init() {
	initLeaperTables()
	initRayMasks()
	initBetweenAndLine()
}

func initLeaperTables() {
	for s := 0; s < 64; s++ {
		sq := Square(s)
		f, r := int(sq.File()), int(sq.Rank())

		var knight, king Bitboard
		knightOffsets := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
		for _, d := range knightOffsets {
			nf, nr := f+d[0], r+d[1]
			if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
				knight |= SingleBB(NewSquare(File(nf), Rank(nr)))
			}
		}
		for df := -1; df <= 1; df++ {
			for dr := -1; dr <= 1; dr++ {
				if df == 0 && dr == 0 {
					continue
				}
				nf, nr := f+df, r+dr
				if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
					king |= SingleBB(NewSquare(File(nf), Rank(nr)))
				}
			}
		}
		knightAttacks[s] = knight
		kingAttacks[s] = king

		// A pawn attacks diagonally toward the opponent's back rank, i.e.
		// toward increasing rank index in its own view.
		var atk Bitboard
		for _, df := range [2]int{-1, 1} {
			nf, nr := f+df, r+1
			if nf >= 0 && nf < 8 && nr < 8 {
				atk |= SingleBB(NewSquare(File(nf), Rank(nr)))
			}
		}
		pawnAttacks[My][s] = atk
		pawnAttacks[Op][s] = atk.Flip()
	}
}

var rayStep = [4][2][2]int{
	DirFile:         {{0, 1}, {0, -1}},
	DirRank:         {{1, 0}, {-1, 0}},
	DirDiagonal:     {{1, 1}, {-1, -1}},
	DirAntiDiagonal: {{-1, 1}, {1, -1}},
}

func initRayMasks() {
	for d := Direction(0); d < 4; d++ {
		for s := 0; s < 64; s++ {
			sq := Square(s)
			f, r := int(sq.File()), int(sq.Rank())
			var mask Bitboard
			for _, step := range rayStep[d] {
				nf, nr := f+step[0], r+step[1]
				for nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
					mask |= SingleBB(NewSquare(File(nf), Rank(nr)))
					nf += step[0]
					nr += step[1]
				}
			}
			rayMask[d][s] = mask
		}
	}
}

func initBetweenAndLine() {
	for a := 0; a < 64; a++ {
		for b := 0; b < 64; b++ {
			if a == b {
				continue
			}
			sa, sb := Square(a), Square(b)
			fa, ra := int(sa.File()), int(sa.Rank())
			fb, rb := int(sb.File()), int(sb.Rank())
			df, dr := sign(fb-fa), sign(rb-ra)
			if df != 0 && dr != 0 && abs(fb-fa) != abs(rb-ra) {
				continue // not aligned
			}
			if df == 0 && dr == 0 {
				continue
			}

			var between Bitboard
			f, r := fa+df, ra+dr
			for f != fb || r != rb {
				between |= SingleBB(NewSquare(File(f), Rank(r)))
				f += df
				r += dr
			}
			betweenSq[a][b] = between

			var line Bitboard
			f, r = fa, ra
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				line |= SingleBB(NewSquare(File(f), Rank(r)))
				f -= df
				r -= dr
			}
			f, r = fa+df, ra+dr
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				line |= SingleBB(NewSquare(File(f), Rank(r)))
				f += df
				r += dr
			}
			lineThru[a][b] = line
		}
	}
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// KnightAttacks returns the knight leaper mask for a square.
func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }

// KingAttacks returns the king leaper mask for a square.
func KingAttacks(sq Square) Bitboard { return kingAttacks[sq] }

// PawnAttacks returns pawnAttacks[s][sq]: for My, the diagonal capture
// squares of a pawn on sq in its own view; for Op, that bitboard flipped.
func PawnAttacks(s Side, sq Square) Bitboard { return pawnAttacks[s][sq] }

// Between returns the squares strictly between a and b if aligned, else Empty.
func Between(a, b Square) Bitboard { return betweenSq[a][b] }

// LineThrough returns the full line through a and b if aligned, else Empty.
func LineThrough(a, b Square) Bitboard { return lineThru[a][b] }

// Aligned reports whether three squares share a rank, file, or diagonal.
func Aligned(a, b, c Square) bool { return lineThru[a][b].Has(c) }

// RayMask returns the line through sq along direction d, excluding sq
// itself — the "L" of the Hyperbola Quintessence formula.
func RayMask(d Direction, sq Square) Bitboard { return rayMask[d][sq] }
