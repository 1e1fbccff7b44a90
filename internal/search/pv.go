package search

import "github.com/halcyonchess/halcyon/internal/board"

// pvTable is the classic triangular principal-variation table: row ply
// holds the continuation found from that ply onward, rebuilt bottom-up as
// the search unwinds.
type pvTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

func (t *pvTable) clear(ply int) { t.length[ply] = 0 }

// update records m as the best move at ply and appends the child's stored
// continuation behind it.
func (t *pvTable) update(ply int, m board.Move) {
	t.moves[ply][0] = m
	childLen := t.length[ply+1]
	copy(t.moves[ply][1:1+childLen], t.moves[ply+1][:childLen])
	t.length[ply] = childLen + 1
}

func (t *pvTable) line() []board.Move { return t.moves[0][:t.length[0]] }
