// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package textmend

import (
	"math"
)

// Match locates a fuzzy instance of pattern in text near loc, returning
// the byte position of the best match or -1 when nothing scores under
// MatchThreshold. An exact match anywhere always beats a close fuzzy one,
// subject to the proximity penalty of MatchDistance.
func (e *Engine) Match(text, pattern string, loc int) int {
	loc = max(0, min(loc, len(text)))
	if text == pattern {
		// Shortcut (potentially not guaranteed by the algorithm).
		return 0
	} else if len(text) == 0 {
		// Nothing to match.
		return -1
	} else if loc+len(pattern) <= len(text) && text[loc:loc+len(pattern)] == pattern {
		// Perfect match at the perfect spot! (Includes case of empty pattern.)
		return loc
	}
	// Do a fuzzy compare.
	return e.matchBitap(text, pattern, loc)
}

// matchBitap locates the best instance of pattern in text near loc using
// the Bitap algorithm, running one pass per allowed error count. Patterns
// longer than MatchMaxBits do not fit in the bit vectors.
func (e *Engine) matchBitap(text, pattern string, loc int) int {
	if len(pattern) > e.MatchMaxBits {
		panic("pattern too long for this application")
	}

	s := e.matchAlphabet(pattern)

	// Highest score beyond which we give up.
	scoreThreshold := e.MatchThreshold
	// Is there a nearby exact match? (speedup)
	bestLoc := indexOf(text, pattern, loc)
	if bestLoc != -1 {
		scoreThreshold = min(e.matchBitapScore(0, bestLoc, loc, pattern), scoreThreshold)
		// What about in the other direction? (speedup)
		bestLoc = lastIndexOf(text, pattern, loc+len(pattern))
		if bestLoc != -1 {
			scoreThreshold = min(e.matchBitapScore(0, bestLoc, loc, pattern), scoreThreshold)
		}
	}

	matchMask := 1 << uint(len(pattern)-1)
	bestLoc = -1

	var binMin, binMid int
	binMax := len(pattern) + len(text)
	lastRd := []int{}
	for d := 0; d < len(pattern); d++ {
		// Each iteration allows one more error. Binary search for how far
		// from loc a match with this many errors can stray and still beat
		// the threshold.
		binMin = 0
		binMid = binMax
		for binMin < binMid {
			if e.matchBitapScore(d, loc+binMid, loc, pattern) <= scoreThreshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		// Use the result from this iteration as the maximum for the next.
		binMax = binMid
		start := max(1, loc-binMid+1)
		finish := min(loc+binMid, len(text)) + len(pattern)

		rd := make([]int, finish+2)
		rd[finish+1] = (1 << uint(d)) - 1

		for j := finish; j >= start; j-- {
			var charMatch int
			if j-1 < len(text) {
				charMatch = s[text[j-1]]
			}

			if d == 0 {
				// First pass: exact match.
				rd[j] = ((rd[j+1] << 1) | 1) & charMatch
			} else {
				// Subsequent passes: fuzzy match.
				rd[j] = ((rd[j+1]<<1)|1)&charMatch | (((lastRd[j+1] | lastRd[j]) << 1) | 1) | lastRd[j+1]
			}
			if rd[j]&matchMask != 0 {
				score := e.matchBitapScore(d, j-1, loc, pattern)
				// This match will almost certainly be better than any
				// existing match. But check anyway.
				if score <= scoreThreshold {
					scoreThreshold = score
					bestLoc = j - 1
					if bestLoc > loc {
						// When passing loc, don't exceed our current
						// distance from loc.
						start = max(1, 2*loc-bestLoc)
					} else {
						// Already passed loc, downhill from here on in.
						break
					}
				}
			}
		}
		if e.matchBitapScore(d+1, loc, loc, pattern) > scoreThreshold {
			// No hope for a better match at greater error levels.
			break
		}
		lastRd = rd
	}
	return bestLoc
}

// matchBitapScore rates a match with errs errors found at position x,
// folding in its distance from the expected location.
func (e *Engine) matchBitapScore(errs, x, loc int, pattern string) float64 {
	accuracy := float64(errs) / float64(len(pattern))
	proximity := math.Abs(float64(loc - x))
	if e.MatchDistance == 0 {
		// Dodge a divide by zero.
		if proximity == 0 {
			return accuracy
		}
		return 1.0
	}
	return accuracy + proximity/float64(e.MatchDistance)
}

// matchAlphabet builds the per-byte bitmasks for the Bitap algorithm.
func (e *Engine) matchAlphabet(pattern string) map[byte]int {
	s := map[byte]int{}
	for i := 0; i < len(pattern); i++ {
		s[pattern[i]] |= 1 << uint(len(pattern)-i-1)
	}
	return s
}
