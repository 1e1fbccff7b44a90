package board

// PackedScore holds a middlegame and an endgame term in a single 64-bit
// word so both can be updated with one addition/subtraction — the "packed
// 64-bit word that supports += and -= lane-wise" of  The
// midgame term lives in the high 32 bits, the endgame term in the low 32
// bits; two's-complement wraparound keeps each lane independent as long as
// neither half ever approaches the int32 range (material totals never do).
type PackedScore int64

func MakeScore(mg, eg int32) PackedScore {
	return PackedScore(int64(mg)<<32 + int64(eg))
}

func (s PackedScore) MG() int32 { return int32(int64(s+0x80000000) >> 32) }
func (s PackedScore) EG() int32 { return int32(int64(s)) }

func (s PackedScore) Add(o PackedScore) PackedScore { return s + o }
func (s PackedScore) Sub(o PackedScore) PackedScore { return s - o }
func (s PackedScore) Neg() PackedScore              { return -s }

// Piece values, used only by the lightweight per-side material aggregate
// (draw-material and game-phase decisions, ) — the search score
// itself comes from the NNUE evaluator, not from these.
var pieceValue = [6]int32{
	Queen:  900,
	Rook:   500,
	Bishop: 330,
	Knight: 320,
	Pawn:   100,
	King:   0,
}

// phaseWeight approximates Stockfish's game-phase weighting so Eval.Phase
// can blend a midgame/endgame PackedScore; not otherwise load-bearing here
// since the engine's static evaluation is the NNUE network (§4.5).
var phaseWeight = [6]int32{Queen: 4, Rook: 2, Bishop: 1, Knight: 1, Pawn: 0, King: 0}

const totalPhase = 4*2 + 2*4 + 1*4 + 1*4 // 2 queens + 4 rooks + 4 bishops + 4 knights, symmetric material

// Eval is the per-side material/phase aggregate described in SideState: a
// packed midgame/endgame material score plus a running phase counter used
// for draw-material checks (§4.14) and as an NNUE-adjacent sanity cross
// check, not as the search's static evaluator.
type Eval struct {
	Score PackedScore
	Phase int32
	// counts[kind] is the number of live pieces of that kind on this side.
	counts [6]int8
}

func (e *Eval) AddPiece(k PieceKind) {
	e.counts[k]++
	e.Score = e.Score.Add(MakeScore(pieceValue[k], pieceValue[k]))
	e.Phase += phaseWeight[k]
}

func (e *Eval) RemovePiece(k PieceKind) {
	e.counts[k]--
	e.Score = e.Score.Sub(MakeScore(pieceValue[k], pieceValue[k]))
	e.Phase -= phaseWeight[k]
}

func (e *Eval) Count(k PieceKind) int { return int(e.counts[k]) }

// Minors returns the knight+bishop count, used by the insufficient-material
// rule (§4.14).
func (e *Eval) Minors() int { return int(e.counts[Knight] + e.counts[Bishop]) }

// HasMatingMaterial reports whether this side has a queen, rook, or pawn —
// pieces that can force mate alone.
func (e *Eval) HasMatingMaterial() bool {
	return e.counts[Queen] > 0 || e.counts[Rook] > 0 || e.counts[Pawn] > 0
}
