package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceLetter = map[PieceKind]byte{
	Queen: 'q', Rook: 'r', Bishop: 'b', Knight: 'n', Pawn: 'p', King: 'k',
}

var letterToPiece = map[byte]PieceKind{
	'q': Queen, 'r': Rook, 'b': Bishop, 'n': Knight, 'p': Pawn, 'k': King,
}

// FromFEN parses Forsyth-Edwards notation into a Position, expressed
// internally in My/Op perspective with My always the side to move, matching
// consistent error-wrapping.
func FromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("board: invalid FEN %q: need at least 4 fields", fen)
	}

	boardField, sideField, castleField, epField := fields[0], fields[1], fields[2], fields[3]

	var stm Color
	switch sideField {
	case "w":
		stm = White
	case "b":
		stm = Black
	default:
		return nil, fmt.Errorf("board: invalid FEN %q: bad side to move %q", fen, sideField)
	}

	// absKind/absColor index absolute squares A8=0..H1=63 before perspective
	// conversion, matching the canonical layout of 
	var absKind [64]PieceKind
	var absColor [64]Color
	for i := range absKind {
		absKind[i] = NoPieceKind
	}

	ranks := strings.Split(boardField, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("board: invalid FEN %q: expected 8 ranks, got %d", fen, len(ranks))
	}
	for r, rowStr := range ranks {
		f := 0
		for _, c := range rowStr {
			if c >= '1' && c <= '8' {
				f += int(c - '0')
				continue
			}
			if f >= 8 {
				return nil, fmt.Errorf("board: invalid FEN %q: rank %d overflows", fen, r)
			}
			lower := byte(c)
			if lower >= 'A' && lower <= 'Z' {
				lower += 'a' - 'A'
			}
			kind, ok := letterToPiece[lower]
			if !ok {
				return nil, fmt.Errorf("board: invalid FEN %q: bad piece letter %q", fen, string(c))
			}
			idx := r*8 + f
			absKind[idx] = kind
			if c >= 'A' && c <= 'Z' {
				absColor[idx] = White
			} else {
				absColor[idx] = Black
			}
			f++
		}
	}

	p := &Position{sideToMove: stm, fullMove: 1}
	p.sides[My] = emptySideState()
	p.sides[Op] = emptySideState()

	// toMy converts an absolute square (canonical A8=0 layout, where Rank()
	// increases from rank8 down to rank1) into My's own view, where Rank()
	// increases from My's own back rank toward the opponent's. White's own
	// back rank sits at the high end of the absolute layout, so White needs
	// a flip; Black's own back rank already sits at Rank() 0, so Black is
	// the identity case.
	toMy := func(sq Square) Square {
		if stm == White {
			return sq.Flip()
		}
		return sq
	}

	for idx := 0; idx < 64; idx++ {
		k := absKind[idx]
		if k == NoPieceKind {
			continue
		}
		absSq := Square(idx)
		mySq := toMy(absSq)
		var side Side
		if absColor[idx] == stm {
			side = My
		} else {
			side = Op
		}
		ss := &p.sides[side]
		var pi PieceIndex
		if k == King {
			pi = KingIndex
		} else {
			pi = ss.firstEmpty()
			if pi == MaxPieces {
				return nil, fmt.Errorf("board: invalid FEN %q: side has more than %d pieces", fen, MaxPieces)
			}
		}
		sqInSideView := mySq
		if side == Op {
			sqInSideView = mySq.Flip()
		}
		ss.place(pi, k, sqInSideView)
	}

	p.recomputeAllSliderAttacks()
	p.sides[My].opKing = p.sides[Op].square[KingIndex].Flip()
	p.sides[Op].opKing = p.sides[My].square[KingIndex].Flip()

	if castleField != "-" {
		for _, c := range castleField {
			if err := applyCastleFlag(p, stm, byte(c)); err != nil {
				return nil, fmt.Errorf("board: invalid FEN %q: %w", fen, err)
			}
		}
	}

	if epField != "-" {
		if len(epField) != 2 {
			return nil, fmt.Errorf("board: invalid FEN %q: bad en-passant field %q", fen, epField)
		}
		file := File(epField[0] - 'a')
		rank := Rank('8' - epField[1])
		absEp := NewSquare(file, rank)
		myEp := toMy(absEp)
		// The pawn that can be captured stands one rank beyond the target
		// square from the perspective of the side NOT to move (Op); record
		// it as an en-passant trait on that Op pawn, rank 3 in Op's own view.
		opPawnSq := NewSquare(myEp.File(), myEp.Flip().Rank()+1)
		if pi := p.sides[Op].find(opPawnSq); pi != MaxPieces {
			p.sides[Op].traits[pi] |= TraitEnPassant
		}
	}

	if len(fields) >= 5 {
		if n, err := strconv.Atoi(fields[4]); err == nil {
			p.rule50 = n
		}
	}
	if len(fields) >= 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil {
			p.fullMove = n
		}
	}

	p.zobrist = computeZobrist(p)
	return p, nil
}

func applyCastleFlag(p *Position, stm Color, c byte) error {
	var side Side
	var kingside bool
	switch c {
	case 'K':
		side, kingside = sideOfCastleLetter(stm, White), true
	case 'Q':
		side, kingside = sideOfCastleLetter(stm, White), false
	case 'k':
		side, kingside = sideOfCastleLetter(stm, Black), true
	case 'q':
		side, kingside = sideOfCastleLetter(stm, Black), false
	default:
		return fmt.Errorf("bad castling letter %q", string(c))
	}
	ss := &p.sides[side]
	rookFile := File(7)
	if !kingside {
		rookFile = 0
	}
	rookSq := NewSquare(rookFile, 0)
	if pi := ss.find(rookSq); pi != MaxPieces && ss.kind[pi] == Rook {
		ss.traits[pi] |= TraitCastling
	}
	return nil
}

func sideOfCastleLetter(stm, who Color) Side {
	if stm == who {
		return My
	}
	return Op
}

// computeZobrist rebuilds a position's hash from scratch; used by FromFEN
// and as a correctness cross-check against incremental updates.
func computeZobrist(p *Position) uint64 {
	var h uint64
	for i := PieceIndex(0); i < MaxPieces; i++ {
		if k := p.sides[My].kind[i]; k != NoPieceKind {
			h ^= zobristPieceKey(k, p.sides[My].square[i])
		}
	}
	for i := PieceIndex(0); i < MaxPieces; i++ {
		if k := p.sides[Op].kind[i]; k != NoPieceKind {
			h ^= flipZobrist(zobristPieceKey(k, p.sides[Op].square[i]))
		}
	}
	for i := PieceIndex(0); i < MaxPieces; i++ {
		if p.sides[My].traits[i].has(TraitCastling) {
			h ^= zobristCastlingKey(p.sides[My].square[i])
		}
		if p.sides[Op].traits[i].has(TraitCastling) {
			h ^= flipZobrist(zobristCastlingKey(p.sides[Op].square[i]))
		}
		if p.sides[Op].traits[i].has(TraitEnPassant) {
			h ^= flipZobrist(zobristEnPassantKey(p.sides[Op].square[i].File()))
		}
	}
	return h
}

// ToFEN renders the position back to Forsyth-Edwards notation, always from
// White's canonical viewpoint regardless of whose view is internally "My".
func (p *Position) ToFEN() string {
	var absKind [64]PieceKind
	var absColor [64]Color
	for i := range absKind {
		absKind[i] = NoPieceKind
	}

	whiteSide, blackSide := My, Op
	if p.sideToMove == Black {
		whiteSide, blackSide = Op, My
	}
	// fromMy is toMy's inverse; toMy is its own inverse (Flip and identity
	// both are involutions), so it takes the identical shape.
	fromMy := func(sq Square) Square {
		if p.sideToMove == White {
			return sq.Flip()
		}
		return sq
	}

	placeAbs := func(side Side, color Color) {
		ss := &p.sides[side]
		for i := PieceIndex(0); i < MaxPieces; i++ {
			if ss.kind[i] == NoPieceKind {
				continue
			}
			sq := ss.square[i]
			if side == Op {
				sq = sq.Flip()
			}
			absSq := fromMy(sq)
			absKind[absSq] = ss.kind[i]
			absColor[absSq] = color
		}
	}
	placeAbs(whiteSide, White)
	placeAbs(blackSide, Black)

	var b strings.Builder
	for r := 0; r < 8; r++ {
		empty := 0
		for f := 0; f < 8; f++ {
			idx := r*8 + f
			k := absKind[idx]
			if k == NoPieceKind {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			ch := pieceLetter[k]
			if absColor[idx] == White {
				ch -= 'a' - 'A'
			}
			b.WriteByte(ch)
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
		if r != 7 {
			b.WriteByte('/')
		}
	}

	b.WriteByte(' ')
	if p.sideToMove == White {
		b.WriteByte('w')
	} else {
		b.WriteByte('b')
	}

	b.WriteByte(' ')
	castle := p.castleFieldString()
	if castle == "" {
		castle = "-"
	}
	b.WriteString(castle)

	b.WriteByte(' ')
	b.WriteString(p.epFieldString())

	fmt.Fprintf(&b, " %d %d", p.rule50, p.fullMove)
	return b.String()
}

func (p *Position) castleFieldString() string {
	var out [4]byte
	n := 0
	whiteSide := My
	if p.sideToMove == Black {
		whiteSide = Op
	}
	blackSide := whiteSide.Other()

	check := func(side Side, kingsideLetter, queensideLetter byte) {
		ss := &p.sides[side]
		ks, qs := false, false
		for i := PieceIndex(0); i < MaxPieces; i++ {
			if ss.kind[i] == Rook && ss.traits[i].has(TraitCastling) {
				if ss.square[i].File() == 7 {
					ks = true
				} else if ss.square[i].File() == 0 {
					qs = true
				}
			}
		}
		if ks {
			out[n] = kingsideLetter
			n++
		}
		if qs {
			out[n] = queensideLetter
			n++
		}
	}
	check(whiteSide, 'K', 'Q')
	check(blackSide, 'k', 'q')
	return string(out[:n])
}

func (p *Position) epFieldString() string {
	// An en-passant right is stored on the Op pawn that can be captured;
	// the field names the square that pawn passed over, one rank behind it
	// in Op's own view, printed in White's canonical view.
	for i := PieceIndex(0); i < MaxPieces; i++ {
		if p.sides[Op].kind[i] == Pawn && p.sides[Op].traits[i].has(TraitEnPassant) {
			opSq := p.sides[Op].square[i]
			target := NewSquare(opSq.File(), opSq.Rank()-1)
			mySq := target.Flip()
			abs := mySq
			if p.sideToMove == White {
				abs = mySq.Flip()
			}
			return abs.String()
		}
	}
	return "-"
}
