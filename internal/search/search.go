package search

import (
	"math"
	"sync/atomic"

	"github.com/halcyonchess/halcyon/internal/board"
	"github.com/halcyonchess/halcyon/internal/nnue"
)

// lmrTable[depth][moveCount] is a precomputed logarithmic late-move
// reduction, the same Stockfish-derived shape engines commonly use for
// their lmrReductions table.
var lmrTable [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			lmrTable[d][m] = int(21.46 * math.Log(float64(d)) * math.Log(float64(m)) / 1024.0)
		}
	}
}

const (
	enableNullMove        = true
	enableRazoring        = true
	enableReverseFutility = true
	enableFutility        = true
	enableLMR             = true
	enableSingular        = true

	nullMoveMinDepth = 3
	singularMinDepth = 6
)

var futilityMargin = [7]int{0, 200, 300, 500, 700, 900, 1100}

// Limits bounds a single search: any zero field is treated as "no limit";
// a zero Depth searches up to MaxPly-1 and a zero Nodes sets no node cap.
type Limits struct {
	Depth     int
	Nodes     uint64
	MoveTime  int64 // milliseconds, 0 = unset
	WhiteTime int64
	BlackTime int64
	WhiteInc  int64
	BlackInc  int64
	MovesToGo int
	Infinite  bool

	// MoveOverhead reserves this many milliseconds against clock loss from
	// GUI/network lag between the engine claiming a deadline and the move
	// actually reaching the opponent's clock; 0 falls back to a small
	// built-in default.
	MoveOverhead int64
}

// Engine owns everything that persists across moves within one game: the
// transposition table and the NNUE network. Move-ordering history (killers,
// history, counter moves) does not persist: each Search starts a fresh
// orderer.
type Engine struct {
	TT  *Table
	Net *nnue.Network

	stop atomic.Bool
}

func NewEngine(tt *Table, net *nnue.Network) *Engine {
	return &Engine{TT: tt, Net: net}
}

func (e *Engine) Stop()         { e.stop.Store(true) }
func (e *Engine) stopped() bool { return e.stop.Load() }

// Info is the progress callback the root driver calls once per completed
// iteration, letting the UCI layer print "info depth ... pv ...".
type Info struct {
	Depth    int
	SelDepth int
	Score    int
	Nodes    uint64
	PV       []board.Move
	HashFull int
}

// worker carries all per-search mutable state: node counters, the PV
// table, move ordering, repetition history, and the time manager. A fresh
// worker is created per root search.
type worker struct {
	engine *Engine
	tm     *timeManager

	nodes    uint64
	seldepth int

	pv       pvTable
	order    *orderer
	rep      *RepetitionTracker
	nnueAcc  *nnue.Accumulator

	rootColor board.Color
}

// Search runs iterative deepening from pos until the time/node budget
// under lim is exhausted or Stop is called, invoking report after every
// completed depth. It returns the best move found.
func (e *Engine) Search(pos *board.Position, rep *RepetitionTracker, lim Limits, report func(Info)) board.Move {
	e.stop.Store(false)
	e.TT.NewSearch()

	w := &worker{
		engine: e,
		tm:     newTimeManager(lim),
		order:  newOrderer(),
		rep:    rep,
		nnueAcc: nnue.NewAccumulator(e.Net, pos),
	}

	maxDepth := lim.Depth
	if maxDepth == 0 || maxDepth > MaxPly-1 {
		maxDepth = MaxPly - 1
	}

	var bestMove board.Move
	alpha, beta := -Infinity, Infinity
	score := 0

	for depth := 1; depth <= maxDepth; depth++ {
		if depth >= 4 {
			window := 25
			alpha, beta = score-window, score+window
		} else {
			alpha, beta = -Infinity, Infinity
		}

		for {
			w.pv.clear(0)
			score = w.negamax(pos, depth, 0, alpha, beta, board.NullMove, false)
			if e.stopped() {
				break
			}
			if score <= alpha {
				alpha = max(alpha-widen(depth), -Infinity)
				continue
			}
			if score >= beta {
				beta = min(beta+widen(depth), Infinity)
				continue
			}
			break
		}

		if e.stopped() && depth > 1 {
			break
		}
		if w.pv.length[0] > 0 {
			bestMove = w.pv.moves[0][0]
		}
		if report != nil {
			report(Info{
				Depth:    depth,
				SelDepth: w.seldepth,
				Score:    score,
				Nodes:    w.nodes,
				PV:       append([]board.Move(nil), w.pv.line()...),
				HashFull: e.TT.HashFull(),
			})
		}
		if w.tm.shouldStopAfterIteration(w.nodes) {
			break
		}
		if isMateScore(score) && MateIn(score) != 0 && depth > MateIn(score)*2+2 {
			break
		}
	}
	return bestMove
}

func widen(depth int) int { return 50 + depth*10 }

// negamax is the principal variation search: full window
// at PV nodes, zero-window re-search otherwise, with null-move pruning,
// razoring, reverse/ordinary futility pruning, late move reduction, and a
// lightweight singular extension.
func (w *worker) negamax(pos *board.Position, depth, ply int, alpha, beta int, prevMove board.Move, cutNode bool) int {
	w.nodes++
	if ply > w.seldepth {
		w.seldepth = ply
	}
	pvNode := beta-alpha > 1

	w.pv.clear(ply)

	if ply > 0 {
		// The caller already pushed pos; IsRepetition takes a position not
		// yet in the tracker, so look past that entry.
		w.rep.Pop()
		repeated := w.rep.IsRepetition(pos.Zobrist(), pos.Rule50())
		w.rep.Push(pos.Zobrist())
		if repeated || pos.Rule50() >= 100 || pos.IsInsufficientMaterial() {
			return DrawScore
		}
		alpha = max(alpha, -MateScore+ply)
		beta = min(beta, MateScore-ply-1)
		if alpha >= beta {
			return alpha
		}
	}

	if depth <= 0 {
		return w.quiescence(pos, ply, alpha, beta)
	}

	if w.nodes&1023 == 0 && (w.engine.stopped() || w.tm.expired(w.nodes)) {
		w.engine.Stop()
		return 0
	}

	inCheck := pos.InCheck()
	if inCheck {
		depth++
	}

	var ttMove board.Move
	if probe, ok := w.engine.TT.Probe(pos.Zobrist(), ply); ok {
		ttMove = probe.Move
		if !pvNode && probe.Depth >= depth {
			switch probe.Bound {
			case BoundExact:
				return probe.Score
			case BoundLower:
				if probe.Score >= beta {
					return probe.Score
				}
			case BoundUpper:
				if probe.Score <= alpha {
					return probe.Score
				}
			}
		}
	}

	staticEval := w.evaluate(pos)

	if !pvNode && !inCheck {
		if enableReverseFutility && depth <= 8 && staticEval-85*depth >= beta {
			return staticEval
		}
		if enableRazoring && depth <= 4 {
			margin := 256 + 200*depth
			if staticEval+margin <= alpha {
				q := w.quiescence(pos, ply, alpha, alpha+1)
				if q <= alpha {
					return q
				}
			}
		}
		if enableNullMove && depth >= nullMoveMinDepth && staticEval >= beta && hasNonPawnMaterial(pos) {
			child := pos.MakeMove(board.NullMove)
			reduction := 3 + depth/4
			w.rep.Push(child.Zobrist())
			score := -w.negamax(&child, depth-1-reduction, ply+1, -beta, -beta+1, board.NullMove, !cutNode)
			w.rep.Pop()
			if w.engine.stopped() {
				return 0
			}
			if score >= beta {
				if score > MateScore-MaxPly {
					score = beta
				}
				return score
			}
		}
	}

	var list board.MoveList
	pos.GenerateLegal(&list)
	if list.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return DrawScore
	}

	scored := make([]int, list.Len())
	my := pos.My()
	var prevKind board.PieceKind
	var prevTo board.Square
	if !prevMove.IsNull() {
		prevTo = prevMove.To()
		if k := pos.Op().KindAt(pos.Op().FindPieceAt(prevTo)); k != board.NoPieceKind {
			prevKind = k
		}
	}
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		idx := my.FindPieceAt(m.From())
		moverKind := my.KindAt(idx)
		isCapture, capturedKind := captureInfo(pos, m)
		scored[i] = w.order.scoreMove(m, ttMove, ply, moverKind, isCapture, capturedKind, prevKind, prevTo)
	}

	bestScore := -Infinity
	var bestMove board.Move
	bound := BoundUpper
	movesSearched := 0

	for i := 0; i < list.Len(); i++ {
		// selection sort: pick the best-scored remaining move (move lists
		// are short enough that this beats a full sort's constant factor)
		best := i
		for j := i + 1; j < list.Len(); j++ {
			if scored[j] > scored[best] {
				best = j
			}
		}
		scored[i], scored[best] = scored[best], scored[i]
		tmp := list.At(i)
		*list.Mut(i) = list.At(best)
		*list.Mut(best) = tmp

		m := list.At(i)
		idx := my.FindPieceAt(m.From())
		moverKind := my.KindAt(idx)
		isCapture, capturedKind := captureInfo(pos, m)
		isPromotion := moverKind == board.Pawn && m.IsPromotionShape()

		if ply > 0 && !pvNode && !inCheck && enableFutility && depth <= 6 && !isCapture && !isPromotion && bestMove != board.NullMove {
			if staticEval+futilityMargin[depth] <= alpha {
				movesSearched++
				continue
			}
		}

		extension := 0
		if enableSingular && m == ttMove && depth >= singularMinDepth && !inCheck {
			singularBeta := bestScoreForSingular(staticEval, beta)
			sScore := w.negamax(pos, (depth-1)/2, ply, singularBeta-1, singularBeta, prevMove, cutNode)
			if sScore < singularBeta {
				extension = 1
			}
		}

		child := pos.MakeMove(m)
		w.rep.Push(child.Zobrist())

		newDepth := depth - 1 + extension
		var score int
		if movesSearched == 0 {
			score = -w.negamax(&child, newDepth, ply+1, -beta, -alpha, m, false)
		} else {
			reduction := 0
			if enableLMR && depth >= 3 && movesSearched >= 3 && !isCapture && !inCheck {
				reduction = lmrTable[min(depth, 63)][min(movesSearched, 63)]
				if pvNode {
					reduction--
				}
				if reduction < 0 {
					reduction = 0
				}
			}
			score = -w.negamax(&child, newDepth-reduction, ply+1, -alpha-1, -alpha, m, true)
			if score > alpha && reduction > 0 {
				score = -w.negamax(&child, newDepth, ply+1, -alpha-1, -alpha, m, !cutNode)
			}
			if score > alpha && pvNode {
				score = -w.negamax(&child, newDepth, ply+1, -beta, -alpha, m, false)
			}
		}

		w.rep.Pop()
		movesSearched++

		if w.engine.stopped() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				bound = BoundExact
				w.pv.update(ply, m)
				if score >= beta {
					bound = BoundLower
					if !isCapture {
						w.order.recordKiller(ply, m)
						w.order.recordHistory(moverKind, m.To(), depth)
						w.order.recordCounter(prevKind, prevTo, m)
					}
					break
				}
			}
		}
		_ = capturedKind
	}

	w.engine.TT.Store(pos.Zobrist(), depth, bestScore, bound, bestMove, ply, pvNode)
	return bestScore
}

func bestScoreForSingular(staticEval, beta int) int {
	return staticEval - 2*(beta-staticEval)/3
}

func hasNonPawnMaterial(pos *board.Position) bool {
	my := pos.My()
	return my.Material().Count(board.Queen) > 0 || my.Material().Count(board.Rook) > 0 ||
		my.Material().Count(board.Bishop) > 0 || my.Material().Count(board.Knight) > 0
}

func captureInfo(pos *board.Position, m board.Move) (bool, board.PieceKind) {
	op := pos.Op()
	my := pos.My()
	movingKind := my.KindAt(my.FindPieceAt(m.From()))

	if movingKind == board.Pawn && m.IsEnPassantShape() && m.From().File() != m.To().File() {
		return true, board.Pawn
	}

	// A promotion-capture still encodes its destination on the low
	// promotion ranks (0..3); resolve the real destination before looking
	// for a captured piece.
	to := m.To()
	if movingKind == board.Pawn && m.IsPromotionShape() {
		to = board.NewSquare(to.File(), 7)
	}

	idx := op.FindPieceAt(to.Flip())
	if idx == board.MaxPieces {
		return false, board.NoPieceKind
	}
	return true, op.KindAt(idx)
}

// quiescence extends search through captures only to the point
// where the position is "quiet", avoiding the horizon effect at the
// frontier of the main search.
func (w *worker) quiescence(pos *board.Position, ply, alpha, beta int) int {
	w.nodes++
	if ply > w.seldepth {
		w.seldepth = ply
	}
	standPat := w.evaluate(pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}
	if ply >= MaxPly-1 {
		return standPat
	}

	var list board.MoveList
	pos.GenerateLegal(&list)
	my := pos.My()
	best := standPat

	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		isCapture, capturedKind := captureInfo(pos, m)
		if !isCapture {
			continue
		}
		idx := my.FindPieceAt(m.From())
		if mvvLva[capturedKind][my.KindAt(idx)] == 0 && capturedKind != board.King {
			continue
		}
		child := pos.MakeMove(m)
		score := -w.quiescence(&child, ply+1, -beta, -alpha)
		if score > best {
			best = score
			if score > alpha {
				alpha = score
				if score >= beta {
					return score
				}
			}
		}
	}
	return best
}

func (w *worker) evaluate(pos *board.Position) int {
	return w.nnueAcc.Evaluate(pos)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
