package board

// Move packs a from/to square pair into 12 bits, both expressed in the
// moving side's own view. The null move is A8->A8 (both
// squares zero). Special moves reuse ordinary square encodings:
//
//   - promotion: the destination rank encodes the promoted kind (0=queen,
//     1=rook, 2=bishop, 3=knight), remapped to rank 7 by MakeMove.
//   - en-passant: both squares sit on rank 4, the captured pawn stands on
//     the destination square.
//   - castling: "rook captures own king" — From is the rook's square, To
//     is the king's square.
type Move uint16

const NullMove Move = 0

func NewMove(from, to Square) Move { return Move(from) | Move(to)<<6 }

func (m Move) From() Square { return Square(m & 0x3F) }
func (m Move) To() Square   { return Square((m >> 6) & 0x3F) }

func (m Move) IsNull() bool { return m == NullMove }

// promoKindByRank / rankForPromoKind translate between a promotion move's
// encoded destination rank and the promoted PieceKind.
var promoKindByRank = [4]PieceKind{Queen, Rook, Bishop, Knight}

func rankForPromoKind(k PieceKind) Rank {
	for i, pk := range promoKindByRank {
		if pk == k {
			return Rank(i)
		}
	}
	return 0
}

// IsPromotionShape reports whether the move's encoded destination lies on
// one of the four promotion-encoding ranks (0..3) while the mover left rank
// 6, the only rank a pawn can promote from. Callers outside the package that
// already know the moving piece is a pawn still need this shape check, since
// a non-pawn move sharing those ranks isn't a promotion.
func (m Move) IsPromotionShape() bool { return m.From().Rank() == 6 && m.To().Rank() <= 3 }

func (m Move) encodesPromotionRank() bool { return m.IsPromotionShape() }

func (m Move) PromotionKind() PieceKind { return promoKindByRank[m.To().Rank()] }

// IsEnPassantShape reports the "pawn from rank 4 to rank 4" shape used to
// encode en-passant captures.
func (m Move) IsEnPassantShape() bool {
	return m.From().Rank() == 4 && m.To().Rank() == 4
}

func (m Move) isEnPassantShape() bool { return m.IsEnPassantShape() }

// String renders the bare from/to squares without a promotion suffix; telling
// a promotion from an ordinary non-pawn move that happens to share its
// from/to ranks needs the moving piece's kind, which Move doesn't carry on
// its own. Use FormatUCI to print a move in full UCI notation.
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	return m.From().String() + m.To().String()
}

var promoSuffix = [4]byte{'q', 'r', 'b', 'n'}

// FormatUCI renders m in UCI long algebraic notation, consulting pos (the
// position m is played from, in My's view) to resolve the promotion and
// castling ambiguities baked into the bare Move encoding.
func FormatUCI(pos *Position, m Move) string {
	if m.IsNull() {
		return "0000"
	}
	my := &pos.sides[My]
	idx := my.find(m.From())
	if idx == MaxPieces {
		return m.String()
	}
	// Squares are stored in the mover's own view; UCI prints White's
	// canonical view, which for White to move is the flipped square.
	sqStr := func(sq Square) string {
		if pos.sideToMove == White {
			sq = sq.Flip()
		}
		return sq.String()
	}
	from, to := m.From(), m.To()
	if my.kind[idx] == Rook && to == my.square[KingIndex] {
		kingside := from.File() == 7
		if kingside {
			return sqStr(my.square[KingIndex]) + sqStr(NewSquare(6, 0))
		}
		return sqStr(my.square[KingIndex]) + sqStr(NewSquare(2, 0))
	}
	if my.kind[idx] == Pawn && from.Rank() == 6 && to.Rank() <= 3 {
		suffix := string(promoSuffix[to.Rank()])
		return sqStr(from) + sqStr(NewSquare(to.File(), 7)) + suffix
	}
	if my.kind[idx] == Pawn && m.IsEnPassantShape() && from.File() != to.File() {
		return sqStr(from) + sqStr(NewSquare(to.File(), 5))
	}
	return sqStr(from) + sqStr(to)
}
