package board

// SideState is the per-side position state, expressed
// entirely in that side's own view: rank 0 is always this side's own back
// rank, rank 7 the opponent's. Two SideStates (My and Op) plus a combined
// Zobrist hash and 50-move counter make up a Position.
type SideState struct {
	attacks AttackMatrix
	kind    [MaxPieces]PieceKind
	square  [MaxPieces]Square
	traits  [MaxPieces]Trait

	bbSide  Bitboard
	bbPawns Bitboard

	material Eval

	// opKing is the opposing king's square, expressed in this side's view.
	opKing Square
}

func emptySideState() SideState {
	s := SideState{}
	for i := range s.kind {
		s.kind[i] = NoPieceKind
		s.square[i] = NoSquare
	}
	return s
}

// find returns the piece index standing on sq, or MaxPieces if empty.
// Linear scan over at most 16 pieces, a small fixed
// per-side piece tables.
func (s *SideState) find(sq Square) PieceIndex {
	for i := PieceIndex(0); i < MaxPieces; i++ {
		if s.kind[i] != NoPieceKind && s.square[i] == sq {
			return i
		}
	}
	return MaxPieces
}

// firstEmpty returns the first unused piece-index slot, or MaxPieces if the
// side already carries 16 pieces (the maximum a side can hold).
func (s *SideState) firstEmpty() PieceIndex {
	for i := PieceIndex(1); i < MaxPieces; i++ { // index 0 is reserved for the king
		if s.kind[i] == NoPieceKind {
			return i
		}
	}
	return MaxPieces
}

func (s *SideState) place(i PieceIndex, k PieceKind, sq Square) {
	s.kind[i] = k
	s.square[i] = sq
	s.bbSide.Add(SingleBB(sq))
	if k == Pawn {
		s.bbPawns.Add(SingleBB(sq))
	}
	s.material.AddPiece(k)
	s.recomputeAttacksFor(i)
	s.refreshTraitsFor(i)
}

func (s *SideState) remove(i PieceIndex) {
	sq := s.square[i]
	k := s.kind[i]
	s.bbSide.Remove(SingleBB(sq))
	if k == Pawn {
		s.bbPawns.Remove(SingleBB(sq))
	}
	s.material.RemovePiece(k)
	s.kind[i] = NoPieceKind
	s.square[i] = NoSquare
	s.traits[i] = 0
	s.attacks.ClearPiece(i)
}

// recomputeAttacksFor recomputes and installs the attack bitboard of piece
// index i from its current kind/square. It only handles leapers, which are
// occupancy-independent; sliders need the combined occupancy and go
// through recomputeSliderAttacks, since a side's own view alone is not the
// full board.
func (s *SideState) recomputeAttacksFor(i PieceIndex) {
	k, sq := s.kind[i], s.square[i]
	switch k {
	case Pawn:
		s.attacks.SetPiece(i, PawnAttacks(My, sq))
	case Knight, King:
		s.attacks.SetPiece(i, LeaperAttacks(k, sq))
	default:
		// Sliders need full occupancy; left for recomputeSliderAttacks.
	}
}

func (s *SideState) recomputeSliderAttacks(i PieceIndex, occupied Bitboard) {
	k, sq := s.kind[i], s.square[i]
	if !k.IsSlider() {
		return
	}
	s.attacks.SetPiece(i, SliderAttacks(k, sq, occupied))
}

func (s *SideState) refreshTraitsFor(i PieceIndex) {
	k, sq := s.kind[i], s.square[i]
	var t Trait
	if k == Pawn && sq.Rank() == 6 {
		t |= TraitPromotable
	}
	s.traits[i] = (s.traits[i] &^ TraitPromotable) | t
}

// BbAttacked is the union of this side's per-piece attack bitboards,
// expressed in this side's own view.
func (s *SideState) BbAttacked() Bitboard { return s.attacks.Union() }

// FindPieceAt returns the piece index standing on sq (this side's own
// view), or MaxPieces if empty. Exported wrapper around find, for callers
// outside the package (principally the search package's move ordering).
func (s *SideState) FindPieceAt(sq Square) PieceIndex { return s.find(sq) }

// KindAt returns the piece kind at index i.
func (s *SideState) KindAt(i PieceIndex) PieceKind {
	if i == MaxPieces {
		return NoPieceKind
	}
	return s.kind[i]
}

// SquareAt returns the square of piece index i, in this side's own view.
func (s *SideState) SquareAt(i PieceIndex) Square { return s.square[i] }

// Material returns this side's running material/phase aggregate.
func (s *SideState) Material() *Eval { return &s.material }

// Position is the full board: a pair of perspective-relative SideStates
// plus the fields that don't mirror (Zobrist hash, 50-move counter).
type Position struct {
	sides    [2]SideState // indexed by Side: My, Op
	zobrist  uint64
	rule50   int
	sideToMove Color
	fullMove int
}

func (p *Position) My() *SideState { return &p.sides[My] }
func (p *Position) Op() *SideState { return &p.sides[Op] }
func (p *Position) Side(s Side) *SideState { return &p.sides[s] }

func (p *Position) Zobrist() uint64  { return p.zobrist }
func (p *Position) Rule50() int      { return p.rule50 }
func (p *Position) SideToMove() Color { return p.sideToMove }

// Occupied returns the combined occupancy as seen from side s's view.
func (p *Position) Occupied(s Side) Bitboard {
	if s == My {
		return p.sides[My].bbSide | p.sides[Op].bbSide.Flip()
	}
	return p.sides[Op].bbSide | p.sides[My].bbSide.Flip()
}

// InCheck reports whether My's king is attacked.
func (p *Position) InCheck() bool {
	mySq := p.sides[My].square[KingIndex]
	return p.sides[Op].BbAttacked().Has(mySq.Flip())
}

// Checkers returns the bitboard (in My's view) of Op pieces giving check.
func (p *Position) Checkers() Bitboard {
	mySq := p.sides[My].square[KingIndex]
	var checkers Bitboard
	opAttacks := &p.sides[Op].attacks
	mask := opAttacks.PiecesAttacking(mySq.Flip())
	for i := PieceIndex(0); i < MaxPieces; i++ {
		if mask&(1<<i) != 0 {
			checkers.Add(SingleBB(p.sides[Op].square[i].Flip()))
		}
	}
	return checkers
}

// recomputeAllSliderAttacks recalculates every slider's attack bitboard on
// both sides against the current combined occupancy. Used after bulk
// position setup (FEN parsing); incremental move-make recomputes the full
// set too, trading incremental-update complexity for a simpler, easier to
// verify move-make path (see finishMove in makemove.go).
func (p *Position) recomputeAllSliderAttacks() {
	occMy := p.Occupied(My)
	occOp := p.Occupied(Op)
	for i := PieceIndex(0); i < MaxPieces; i++ {
		p.sides[My].recomputeSliderAttacks(i, occMy)
		p.sides[Op].recomputeSliderAttacks(i, occOp)
	}
}

// IsInsufficientMaterial reports whether neither side has enough material
// left to force checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	my, op := &p.sides[My].material, &p.sides[Op].material
	if my.HasMatingMaterial() || op.HasMatingMaterial() {
		return false
	}
	return minorDraw(my.Minors(), op.Minors(), my.Count(Knight), op.Count(Knight), my.Count(Bishop), op.Count(Bishop))
}

func minorDraw(myMinors, opMinors, myKnights, opKnights, myBishops, opBishops int) bool {
	if myMinors <= 1 && opMinors <= 1 {
		return true
	}
	if myKnights == 2 && opMinors == 0 {
		return true
	}
	if opKnights == 2 && myMinors == 0 {
		return true
	}
	if myBishops == 2 && opMinors == 1 {
		return true
	}
	if opBishops == 2 && myMinors == 1 {
		return true
	}
	if myBishops == 1 && opMinors == 1 {
		return true
	}
	if opBishops == 1 && myMinors == 1 {
		return true
	}
	return false
}
