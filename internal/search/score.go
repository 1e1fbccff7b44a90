package search

import "github.com/halcyonchess/halcyon/internal/board"

// Score bounds. MateScore is the score of delivering mate on
// the current ply; scores between MateScore-MaxPly and MateScore encode
// "mate in N" so the search can distinguish a faster mate from a slower
// one, and a mate score is adjusted by ply distance when moving in or out
// of the transposition table.
const (
	Infinity  = 32000
	MateScore = 31000
	DrawScore = 0
	MaxPly    = board.MaxPly
)

// MateIn converts a raw score into "moves to mate" for UCI reporting, or 0
// if the score isn't a mate score.
func MateIn(score int) int {
	if score > MateScore-MaxPly {
		return (MateScore - score + 1) / 2
	}
	if score < -MateScore+MaxPly {
		return -((MateScore + score + 1) / 2)
	}
	return 0
}

func isMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// scoreToTT rebases a mate score from "distance from root" to "distance
// from this node" before storing it in the transposition table.
func scoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

// scoreFromTT is the inverse of scoreToTT, applied when a stored score is
// read back at a different ply than it was stored at.
func scoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}
