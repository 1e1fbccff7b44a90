package board

// MakeMove applies m to p and returns the resulting position, with My/Op
// swapped so the returned Position's My is always the side now to move
//. p is left untouched; the engine's copy-make discipline
// matches a small, fixed-size Position value.
func (p *Position) MakeMove(m Move) Position {
	child := *p // fixed-size arrays only: a full value copy is cheap and safe

	my := &child.sides[My]
	op := &child.sides[Op]

	h := child.zobrist
	resetRule50 := false

	// Clear a stale en-passant right from the previous move; it only ever
	// lives for one ply.
	for i := PieceIndex(0); i < MaxPieces; i++ {
		if op.traits[i].has(TraitEnPassant) {
			h ^= flipZobrist(zobristEnPassantKey(op.square[i].File()))
			op.traits[i] &^= TraitEnPassant
		}
	}

	if m.IsNull() {
		child.zobrist = flipZobrist(h)
		child.sideToMove = child.sideToMove.Other()
		child.sides[My], child.sides[Op] = child.sides[Op], child.sides[My]
		child.rule50++
		return child
	}

	from, to := m.From(), m.To()
	movingIdx := my.find(from)
	kind := my.kind[movingIdx]

	if kind == Rook && to == my.square[KingIndex] {
		castle(my, from, to, &h)
		resetRule50 = true
		finishMove(&child, my, op, &h, resetRule50)
		return child
	}

	if kind == Pawn {
		resetRule50 = true
	}

	// Resolve the move's true destination before looking for a captured
	// piece: both the en-passant and promotion shapes repurpose a
	// low-rank destination to pack extra information, and capture
	// detection must run against the real square, not the encoded one.
	// The two shapes never collide on the same move — en-passant needs
	// from rank 4, promotion needs from rank 6.
	isEnPassant := kind == Pawn && m.isEnPassantShape() && from.File() != to.File()
	var epCapturedSq Square
	if isEnPassant {
		// The encoded destination sits on the captured pawn's own square
		// (both at rank 4); the capturing pawn's real landing square is one
		// rank further forward.
		epCapturedSq = NewSquare(to.File(), from.Rank())
		to = NewSquare(to.File(), from.Rank()+1)
	}

	newKind := kind
	if kind == Pawn && m.encodesPromotionRank() {
		newKind = m.PromotionKind()
		to = NewSquare(to.File(), 7)
	}

	var capturedOpIdx PieceIndex = MaxPieces
	if isEnPassant {
		if idx := op.find(epCapturedSq.Flip()); idx != MaxPieces {
			capturedOpIdx = idx
		}
	} else if idx := op.find(to.Flip()); idx != MaxPieces {
		capturedOpIdx = idx
	}

	if capturedOpIdx != MaxPieces {
		resetRule50 = true
		capKind := op.kind[capturedOpIdx]
		capSq := op.square[capturedOpIdx]
		if op.traits[capturedOpIdx].has(TraitCastling) {
			h ^= flipZobrist(zobristCastlingKey(capSq))
		}
		h ^= flipZobrist(zobristPieceKey(capKind, capSq))
		op.remove(capturedOpIdx)
	}

	h ^= zobristPieceKey(kind, from)

	my.square[movingIdx] = to
	my.kind[movingIdx] = newKind
	my.bbSide.Remove(SingleBB(from))
	my.bbSide.Add(SingleBB(to))
	if kind == Pawn {
		my.bbPawns.Remove(SingleBB(from))
	}
	if newKind == Pawn {
		my.bbPawns.Add(SingleBB(to))
	}
	if newKind != kind {
		my.material.RemovePiece(kind)
		my.material.AddPiece(newKind)
	}
	if movingIdx != KingIndex && my.traits[movingIdx].has(TraitCastling) {
		h ^= zobristCastlingKey(from)
		my.traits[movingIdx] &^= TraitCastling
	}
	h ^= zobristPieceKey(newKind, to)

	if kind == Pawn && from.Rank() == 1 && to.Rank() == 3 && hasEnPassantCapturer(op, to.File()) {
		my.traits[movingIdx] |= TraitEnPassant
		h ^= zobristEnPassantKey(from.File())
	}

	my.recomputeAttacksFor(movingIdx)

	finishMove(&child, my, op, &h, resetRule50)
	return child
}

// hasEnPassantCapturer reports whether op has a pawn standing beside
// pushedFile at the rank an en-passant capture is encoded on (rank 4, the
// capturing pawn's own view), the rank of the square genPawnMoves computes
// as epTarget. The en-passant right is only worth recording in Zobrist when a
// capture is actually available, so equivalent positions reached with and
// without a spare double-pushed pawn don't hash differently for no reason.
func hasEnPassantCapturer(op *SideState, pushedFile File) bool {
	for _, f := range [2]int{int(pushedFile) - 1, int(pushedFile) + 1} {
		if f < 0 || f > 7 {
			continue
		}
		if idx := op.find(NewSquare(File(f), 4)); idx != MaxPieces && op.kind[idx] == Pawn {
			return true
		}
	}
	return false
}

// castle moves both king and rook. from/to follow the "rook captures own
// king" encoding: From is the rook's square, To is the king's square.
func castle(my *SideState, rookFrom, kingTo Square, h *uint64) {
	rookIdx := my.find(rookFrom)
	kingFrom := my.square[KingIndex]

	kingside := rookFrom.File() == 7
	var kingDest, rookDest Square
	if kingside {
		kingDest = NewSquare(6, 0)
		rookDest = NewSquare(5, 0)
	} else {
		kingDest = NewSquare(2, 0)
		rookDest = NewSquare(3, 0)
	}
	_ = kingTo

	*h ^= zobristPieceKey(King, kingFrom)
	*h ^= zobristPieceKey(King, kingDest)
	*h ^= zobristPieceKey(Rook, rookFrom)
	*h ^= zobristPieceKey(Rook, rookDest)
	if my.traits[rookIdx].has(TraitCastling) {
		*h ^= zobristCastlingKey(rookFrom)
	}
	// Forfeit the other rook's castling right too (king has moved).
	for i := PieceIndex(0); i < MaxPieces; i++ {
		if i != rookIdx && my.kind[i] == Rook && my.traits[i].has(TraitCastling) {
			*h ^= zobristCastlingKey(my.square[i])
			my.traits[i] &^= TraitCastling
		}
	}

	my.bbSide.Remove(SingleBB(kingFrom))
	my.bbSide.Remove(SingleBB(rookFrom))
	my.bbSide.Add(SingleBB(kingDest))
	my.bbSide.Add(SingleBB(rookDest))
	my.square[KingIndex] = kingDest
	my.square[rookIdx] = rookDest
	my.traits[rookIdx] &^= TraitCastling

	my.recomputeAttacksFor(KingIndex)
}

func finishMove(child *Position, my, op *SideState, h *uint64, resetRule50 bool) {
	occMy := child.Occupied(My)
	occOp := child.Occupied(Op)
	for i := PieceIndex(0); i < MaxPieces; i++ {
		if my.kind[i].IsSlider() {
			my.recomputeSliderAttacks(i, occMy)
		}
		if op.kind[i].IsSlider() {
			op.recomputeSliderAttacks(i, occOp)
		}
	}

	my.opKing = op.square[KingIndex].Flip()
	op.opKing = my.square[KingIndex].Flip()

	child.zobrist = flipZobrist(*h)
	if child.sideToMove == Black {
		child.fullMove++
	}
	child.sideToMove = child.sideToMove.Other()
	if resetRule50 {
		child.rule50 = 0
	} else {
		child.rule50++
	}
	child.sides[My], child.sides[Op] = child.sides[Op], child.sides[My]
}
