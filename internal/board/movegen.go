package board

// MoveList is a fixed-capacity move buffer, avoiding per-node heap
// allocation in the search's hot path.
type MoveList struct {
	moves [218]Move
	n     int
}

func (l *MoveList) add(m Move)      { l.moves[l.n] = m; l.n++ }
func (l *MoveList) Len() int        { return l.n }
func (l *MoveList) At(i int) Move   { return l.moves[i] }
func (l *MoveList) Slice() []Move   { return l.moves[:l.n] }
func (l *MoveList) Mut(i int) *Move { return &l.moves[i] }

// GeneratePseudoLegal fills list with every pseudo-legal move for My to
// move: own-piece attacks that don't land on a friendly piece, plus pawn
// pushes/promotions/en-passant and castling. King safety is not checked
// here; callers use IsLegal or GenerateLegal.
func (p *Position) GeneratePseudoLegal(list *MoveList) {
	my := &p.sides[My]
	occMy := p.Occupied(My)
	empty := Universe.Without(occMy)
	enemyOrEmpty := Universe.Without(my.bbSide)

	for i := PieceIndex(0); i < MaxPieces; i++ {
		k := my.kind[i]
		if k == NoPieceKind || k == Pawn {
			continue
		}
		from := my.square[i]
		targets := my.attacks.AttacksOf(i) & enemyOrEmpty
		targets.ForEach(func(to Square) {
			list.add(NewMove(from, to))
		})
	}

	genPawnMoves(p, list, empty)
	genCastles(p, list)
}

func genPawnMoves(p *Position, list *MoveList, empty Bitboard) {
	my := &p.sides[My]
	opOcc := p.Occupied(My).Without(my.bbSide)

	var epTarget Square = NoSquare
	for i := PieceIndex(0); i < MaxPieces; i++ {
		if p.sides[Op].kind[i] == Pawn && p.sides[Op].traits[i].has(TraitEnPassant) {
			epTarget = NewSquare(p.sides[Op].square[i].Flip().File(), 4)
		}
	}

	for i := PieceIndex(0); i < MaxPieces; i++ {
		if my.kind[i] != Pawn {
			continue
		}
		from := my.square[i]
		single := Square(int(from) + 8)
		if from.Rank() <= 6 && empty.Has(single) {
			addPawnAdvance(list, from, single)
			if from.Rank() == 1 {
				double := Square(int(from) + 16)
				if empty.Has(double) {
					list.add(NewMove(from, double))
				}
			}
		}
		caps := my.attacks.AttacksOf(i) & opOcc
		caps.ForEach(func(to Square) {
			addPawnAdvance(list, from, to)
		})
		if epTarget != NoSquare && from.Rank() == 4 {
			atk := my.attacks.AttacksOf(i)
			// epTarget is the captured pawn's square; the capture lands one
			// rank beyond it, on a square the pawn attacks.
			if atk.Has(NewSquare(epTarget.File(), 5)) {
				list.add(NewMove(from, epTarget))
			}
		}
	}
}

func addPawnAdvance(list *MoveList, from, to Square) {
	if to.Rank() == 7 {
		for r := Rank(0); r <= 3; r++ {
			list.add(NewMove(from, NewSquare(to.File(), r)))
		}
		return
	}
	list.add(NewMove(from, to))
}

func genCastles(p *Position, list *MoveList) {
	my := &p.sides[My]
	if p.InCheck() {
		return
	}
	occ := p.Occupied(My)
	attacked := p.sides[Op].BbAttacked().Flip()

	for i := PieceIndex(0); i < MaxPieces; i++ {
		if my.kind[i] != Rook || !my.traits[i].has(TraitCastling) {
			continue
		}
		rookSq := my.square[i]
		kingSq := my.square[KingIndex]
		kingside := rookSq.File() == 7
		var path, kingPath Bitboard
		if kingside {
			path = Between(kingSq, NewSquare(7, 0)).Union(SingleBB(NewSquare(7, 0)))
			kingPath = Between(kingSq, NewSquare(6, 0)).Union(SingleBB(NewSquare(6, 0)))
		} else {
			path = Between(kingSq, NewSquare(0, 0)).Union(SingleBB(NewSquare(0, 0)))
			kingPath = Between(kingSq, NewSquare(2, 0)).Union(SingleBB(NewSquare(2, 0)))
		}
		path = path.Without(SingleBB(rookSq)).Without(SingleBB(kingSq))
		if path&occ != Empty {
			continue
		}
		if kingPath&attacked != Empty {
			continue
		}
		list.add(NewMove(rookSq, kingSq))
	}
}

// IsLegal reports whether a pseudo-legal move leaves My's own king safe.
func (p *Position) IsLegal(m Move) bool {
	child := p.MakeMove(m)
	kingSq := child.sides[Op].square[KingIndex].Flip()
	return !child.sides[My].BbAttacked().Has(kingSq)
}

// GenerateLegal fills list with every fully legal move for My to move.
func (p *Position) GenerateLegal(list *MoveList) {
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.At(i)
		if p.IsLegal(m) {
			list.add(m)
		}
	}
}

// HasLegalMove reports whether My has at least one legal move, used to
// distinguish checkmate/stalemate from an ongoing game.
func (p *Position) HasLegalMove() bool {
	var pseudo MoveList
	p.GeneratePseudoLegal(&pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		if p.IsLegal(pseudo.At(i)) {
			return true
		}
	}
	return false
}
