package board

import "strings"

// FormatSAN renders m in standard algebraic notation, disambiguating
// against the other legal moves of pos the way a human scoresheet would.
// This is a supplemented feature (not required by the wire protocol,
// which only ever needs FormatUCI) kept for "d"-style debug output.
func FormatSAN(pos *Position, m Move) string {
	if m.IsNull() {
		return "--"
	}
	my := pos.My()
	idx := my.FindPieceAt(m.From())
	kind := my.KindAt(idx)

	if kind == Rook && m.To() == my.SquareAt(KingIndex) {
		if m.From().File() == 7 {
			return annotateCheck(pos, m, "O-O")
		}
		return annotateCheck(pos, m, "O-O-O")
	}

	isCapture, _ := captureAt(pos, m)
	to := m.To()
	isPromo := kind == Pawn && m.From().Rank() == 6 && to.Rank() <= 3

	var b strings.Builder
	if kind == Pawn {
		if isCapture {
			b.WriteByte("abcdefgh"[m.From().File()])
			b.WriteByte('x')
		}
		b.WriteString(promoDestSquare(m).String())
		if isPromo {
			b.WriteByte('=')
			b.WriteString(strings.ToUpper(m.PromotionKind().String()))
		}
	} else {
		b.WriteString(strings.ToUpper(kind.String()))
		b.WriteString(disambiguation(pos, m, kind, idx))
		if isCapture {
			b.WriteByte('x')
		}
		b.WriteString(to.String())
	}
	return annotateCheck(pos, m, b.String())
}

func promoDestSquare(m Move) Square {
	if m.From().Rank() == 6 && m.To().Rank() <= 3 {
		return NewSquare(m.To().File(), 7)
	}
	return m.To()
}

func captureAt(pos *Position, m Move) (bool, PieceKind) {
	op := pos.Op()
	my := pos.My()
	movingKind := my.KindAt(my.FindPieceAt(m.From()))

	if movingKind == Pawn && m.isEnPassantShape() && m.From().File() != m.To().File() {
		return true, Pawn
	}

	// A promotion-capture still encodes its destination on the low
	// promotion ranks (0..3); resolve the real destination before looking
	// for a captured piece, the same as MakeMove.
	to := m.To()
	if movingKind == Pawn && m.encodesPromotionRank() {
		to = NewSquare(to.File(), 7)
	}

	idx := op.FindPieceAt(to.Flip())
	if idx == MaxPieces {
		return false, NoPieceKind
	}
	return true, op.KindAt(idx)
}

// disambiguation returns the minimal file/rank/square qualifier needed to
// distinguish m from sibling legal moves of the same piece kind to the
// same destination.
func disambiguation(pos *Position, m Move, kind PieceKind, movingIdx PieceIndex) string {
	var list MoveList
	pos.GeneratePseudoLegal(&list)
	my := pos.My()

	sameFile, sameRank, ambiguous := false, false, false
	for i := 0; i < list.Len(); i++ {
		other := list.At(i)
		if other == m || other.To() != m.To() {
			continue
		}
		oIdx := my.FindPieceAt(other.From())
		if my.KindAt(oIdx) != kind || oIdx == movingIdx {
			continue
		}
		if !pos.IsLegal(other) {
			continue
		}
		ambiguous = true
		if other.From().File() == m.From().File() {
			sameFile = true
		}
		if other.From().Rank() == m.From().Rank() {
			sameRank = true
		}
	}
	if !ambiguous {
		return ""
	}
	if !sameFile {
		return string([]byte{"abcdefgh"[m.From().File()]})
	}
	if !sameRank {
		return m.From().String()[1:]
	}
	return m.From().String()
}

func annotateCheck(pos *Position, m Move, s string) string {
	child := pos.MakeMove(m)
	if !child.InCheck() {
		return s
	}
	if !child.HasLegalMove() {
		return s + "#"
	}
	return s + "+"
}
