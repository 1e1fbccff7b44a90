package search

import "github.com/halcyonchess/halcyon/internal/board"

// Bound records which side of the true score a stored value bounds.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower       // fail-high: score is at least this
	BoundUpper       // fail-low: score is at most this
)

// ttEntry packs every field of a transposition table slot into a single
// 8-byte word: a 16-bit verification key, the 16-bit move,
// a 16-bit score, an 8-bit draft, a 2-bit bound, a 1-bit "from a PV node"
// flag, and a 5-bit generation counter used for replacement.
type ttEntry uint64

const (
	ttKeyShift   = 0
	ttMoveShift  = 16
	ttScoreShift = 32
	ttDepthShift = 48
	ttBoundShift = 56
	ttPVShift    = 58
	ttAgeShift   = 59

	ttKeyMask   = 0xFFFF
	ttMoveMask  = 0xFFFF
	ttScoreMask = 0xFFFF
	ttDepthMask = 0xFF
	ttBoundMask = 0x3
	ttAgeMask   = 0x1F
)

func packEntry(key16 uint16, m board.Move, score int16, depth int8, b Bound, pv bool, age uint8) ttEntry {
	e := ttEntry(key16) << ttKeyShift
	e |= ttEntry(m) << ttMoveShift
	e |= ttEntry(uint16(score)) << ttScoreShift
	e |= ttEntry(uint8(depth)) << ttDepthShift
	e |= ttEntry(b&ttBoundMask) << ttBoundShift
	if pv {
		e |= 1 << ttPVShift
	}
	e |= ttEntry(age&ttAgeMask) << ttAgeShift
	return e
}

func (e ttEntry) key() uint16     { return uint16(e >> ttKeyShift & ttKeyMask) }
func (e ttEntry) move() board.Move { return board.Move(e >> ttMoveShift & ttMoveMask) }
func (e ttEntry) score() int16    { return int16(e >> ttScoreShift & ttScoreMask) }
func (e ttEntry) depth() int8     { return int8(e >> ttDepthShift & ttDepthMask) }
func (e ttEntry) bound() Bound    { return Bound(e >> ttBoundShift & ttBoundMask) }
func (e ttEntry) isPV() bool      { return e>>ttPVShift&1 != 0 }
func (e ttEntry) age() uint8      { return uint8(e >> ttAgeShift & ttAgeMask) }
func (e ttEntry) empty() bool     { return e == 0 }

// Probe is the result of a successful transposition table lookup, already
// translated into caller-friendly units.
type Probe struct {
	Move  board.Move
	Score int
	Depth int
	Bound Bound
	IsPV  bool
}

// Table is a direct-mapped, always-replace-by-policy transposition table
// sized to a power of two entries, with an 8-byte packed entry.
type Table struct {
	entries []ttEntry
	mask    uint64
	age     uint8
}

// NewTable allocates a table of the given size in megabytes.
func NewTable(sizeMB int) *Table {
	const entryBytes = 8
	n := uint64(sizeMB) * 1024 * 1024 / entryBytes
	n = roundDownPow2(n)
	if n == 0 {
		n = 1
	}
	return &Table{entries: make([]ttEntry, n), mask: n - 1}
}

func roundDownPow2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// NewSearch bumps the generation counter so Store can tell stale entries
// from the previous search apart from fresh ones within this search.
func (t *Table) NewSearch() { t.age = (t.age + 1) & ttAgeMask }

func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = 0
	}
	t.age = 0
}

func key16(zobrist uint64) uint16 { return uint16(zobrist >> 48) }

// Probe looks up zobrist and, if present, returns the stored bound with
// any mate score rebased from storage-relative to ply-relative.
func (t *Table) Probe(zobrist uint64, ply int) (Probe, bool) {
	e := t.entries[zobrist&t.mask]
	if e.empty() || e.key() != key16(zobrist) {
		return Probe{}, false
	}
	return Probe{
		Move:  e.move(),
		Score: scoreFromTT(int(e.score()), ply),
		Depth: int(e.depth()),
		Bound: e.bound(),
		IsPV:  e.isPV(),
	}, true
}

// Store writes a search result, replacing the existing slot unless it is
// from the current generation and searched deeper than the new result —
// an "always replace except a deeper same-age entry" policy.
func (t *Table) Store(zobrist uint64, depth int, score int, b Bound, m board.Move, ply int, pv bool) {
	idx := zobrist & t.mask
	existing := t.entries[idx]
	if !existing.empty() && existing.age() == t.age && int(existing.depth()) > depth {
		return
	}
	if m == board.NullMove && !existing.empty() && existing.key() == key16(zobrist) {
		m = existing.move() // keep the previous best move when only bounds are refreshed
	}
	t.entries[idx] = packEntry(key16(zobrist), m, int16(scoreToTT(score, ply)), int8(depth), b, pv, t.age)
}

// HashFull samples the first 1000 slots and reports per-mille occupancy at
// the current generation, matching the UCI "hashfull" info field.
func (t *Table) HashFull() int {
	n := 1000
	if uint64(n) > uint64(len(t.entries)) {
		n = len(t.entries)
	}
	used := 0
	for i := 0; i < n; i++ {
		if !t.entries[i].empty() && t.entries[i].age() == t.age {
			used++
		}
	}
	if n == 0 {
		return 0
	}
	return used * 1000 / n
}
