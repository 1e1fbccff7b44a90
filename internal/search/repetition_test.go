package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRepetitionTrackerDetectsRepeatWithinWindow(t *testing.T) {
	r := NewRepetitionTracker()
	const h = uint64(0xabc123)

	r.Push(1)
	r.Push(h)
	r.Push(2)
	r.Push(3)

	require.False(t, r.IsRepetition(h, 10), "zero prior occurrences is not yet a repetition")

	r.Push(h)
	require.True(t, r.IsRepetition(h, 10))
	require.Equal(t, 1, r.Count(h, 10))
}

func TestRepetitionTrackerIgnoresOddPlyDistance(t *testing.T) {
	r := NewRepetitionTracker()
	const h = uint64(777)

	r.Push(h)
	// Checking for h one ply after it was pushed is an odd distance: the
	// opponent, not the side that played h, would be to move, so it can
	// never be a genuine repetition.
	require.False(t, r.IsRepetition(h, 10))
}

func TestRepetitionTrackerRespectsRule50Window(t *testing.T) {
	r := NewRepetitionTracker()
	const h = uint64(99)

	r.Push(h)
	r.Push(1)

	require.True(t, r.IsRepetition(h, 10), "within the rule50 window, the earlier occurrence is visible")
	require.False(t, r.IsRepetition(h, 1), "a short rule50 window hides an occurrence further back than it allows")
}

func TestRepetitionTrackerPopUndoesPush(t *testing.T) {
	r := NewRepetitionTracker()
	const h = uint64(55)

	r.Push(1)
	r.Push(h)
	r.Push(2)
	r.Push(3)
	require.False(t, r.IsRepetition(h, 10))

	r.Push(h)
	require.True(t, r.IsRepetition(h, 10))

	r.Pop() // undo the second push of h
	require.False(t, r.IsRepetition(h, 10), "popping the repeated occurrence must remove it from the count")

	r.Pop() // undo push(3)
	r.Pop() // undo push(2)
	r.Pop() // undo the first push of h
	r.Pop() // undo push(1)
	require.Equal(t, 0, r.n)
}
