package search

import "time"

// timeManager turns UCI "go" parameters into a soft and hard deadline for
// the current search, following a classic soft/hard deadline split: the
// soft limit governs "don't start another iteration", the hard limit is
// checked mid-search and forces an immediate stop.
type timeManager struct {
	start    time.Time
	soft     time.Duration
	hard     time.Duration
	nodeCap  uint64
	infinite bool
}

func newTimeManager(lim Limits) *timeManager {
	tm := &timeManager{start: time.Now(), nodeCap: lim.Nodes, infinite: lim.Infinite}

	if lim.MoveTime > 0 {
		d := time.Duration(lim.MoveTime) * time.Millisecond
		tm.soft, tm.hard = d, d
		return tm
	}

	myTime, myInc := lim.WhiteTime, lim.WhiteInc
	// Limits.WhiteTime/BlackTime name the clocks by colour; the caller is
	// responsible for mapping "my" clock into WhiteTime before calling
	// Search when the engine is playing Black.
	_ = myInc

	if myTime <= 0 {
		// No clock: only a depth or node limit (or none at all) applies.
		if lim.Depth == 0 && lim.Nodes == 0 {
			tm.infinite = true
		}
		return tm
	}

	movesToGo := lim.MovesToGo
	if movesToGo <= 0 {
		movesToGo = 30
	}
	alloc := myTime/int64(movesToGo) + myInc*3/4
	if alloc <= 0 {
		alloc = 50
	}
	overhead := time.Duration(lim.MoveOverhead) * time.Millisecond
	if overhead <= 0 {
		overhead = 20 * time.Millisecond
	}

	tm.soft = time.Duration(alloc) * time.Millisecond
	tm.hard = time.Duration(alloc*3) * time.Millisecond
	maxHard := time.Duration(myTime) * time.Millisecond
	if maxHard > 0 && tm.hard > maxHard-overhead {
		tm.hard = maxHard - overhead
	}
	return tm
}

// expired is checked periodically from inside the search; it never
// returns true for infinite/depth/node-only searches driven purely by
// their own limits.
func (tm *timeManager) expired(nodes uint64) bool {
	if tm.nodeCap > 0 && nodes >= tm.nodeCap {
		return true
	}
	if tm.infinite || tm.hard == 0 {
		return false
	}
	return time.Since(tm.start) >= tm.hard
}

// shouldStopAfterIteration is checked between iterative-deepening
// depths: once the soft budget has elapsed there is no point starting
// another depth that likely won't finish.
func (tm *timeManager) shouldStopAfterIteration(nodes uint64) bool {
	if tm.nodeCap > 0 && nodes >= tm.nodeCap {
		return true
	}
	if tm.infinite || tm.soft == 0 {
		return false
	}
	return time.Since(tm.start) >= tm.soft
}
