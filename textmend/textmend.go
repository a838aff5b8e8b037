// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

// Package textmend compares, locates and repairs plain text. It computes
// edit scripts between two texts, finds a pattern in a text near an
// expected position even when the text has drifted, and builds context
// patches that still apply after the underlying text has changed.
package textmend

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Op classifies a span of an edit script.
type Op int8

const (
	// OpDelete marks text present only in the source.
	OpDelete Op = -1
	// OpEqual marks text shared by source and target.
	OpEqual Op = 0
	// OpInsert marks text present only in the target.
	OpInsert Op = 1
)

// String returns the name of the operation.
func (op Op) String() string {
	switch op {
	case OpDelete:
		return "Delete"
	case OpInsert:
		return "Insert"
	case OpEqual:
		return "Equal"
	}
	return "Invalid"
}

// Edit is one span of an edit script: a run of text that is deleted from
// the source, inserted into the target, or common to both. A well-formed
// script has no empty spans and no two adjacent spans with the same Op;
// DiffCleanupMerge restores that form.
type Edit struct {
	Op   Op
	Text string
}

// Engine carries the tunable parameters shared by the diff, match and
// patch algorithms. An Engine holds no per-call state; one engine may be
// used from multiple goroutines as long as the fields are not mutated
// concurrently with calls.
type Engine struct {
	// DiffTimeout bounds the wall-clock time spent computing one diff.
	// When the deadline is hit the result is still valid, just not
	// minimal. Zero or negative means no limit.
	DiffTimeout time.Duration
	// DiffEditCost is the cost of an empty edit operation in terms of
	// edit characters, used by DiffCleanupEfficiency.
	DiffEditCost int
	// MatchThreshold is the score above which no match is declared
	// (0.0 = perfection, 1.0 = very loose).
	MatchThreshold float64
	// MatchDistance weighs how far from the expected location a match may
	// stray: a match this many characters away adds 1.0 to its score.
	// Zero demands matches at the exact expected location.
	MatchDistance int
	// PatchDeleteThreshold controls how closely the content of a large
	// deletion has to match the text it is removing before the patch is
	// rejected (0.0 = perfection, 1.0 = very loose).
	PatchDeleteThreshold float64
	// PatchMargin is the number of context characters kept around each
	// patch hunk.
	PatchMargin int
	// MatchMaxBits caps the pattern length the match bit-vectors can
	// represent. It must stay at or below the machine word size; patches
	// wider than this are split before application.
	MatchMaxBits int
}

// New returns an Engine with the default tuning.
func New() *Engine {
	return &Engine{
		DiffTimeout:          time.Second,
		DiffEditCost:         4,
		MatchThreshold:       0.5,
		MatchDistance:        1000,
		PatchDeleteThreshold: 0.5,
		PatchMargin:          4,
		MatchMaxBits:         32,
	}
}

// indexOf is strings.Index with a starting offset.
func indexOf(s, pattern string, start int) int {
	if start > len(s)-1 {
		return -1
	}
	if start <= 0 {
		return strings.Index(s, pattern)
	}
	i := strings.Index(s[start:], pattern)
	if i == -1 {
		return -1
	}
	return i + start
}

// lastIndexOf is strings.LastIndex limited to matches beginning at or
// before start.
func lastIndexOf(s, pattern string, start int) int {
	if start < 0 {
		return -1
	}
	if start >= len(s) {
		return strings.LastIndex(s, pattern)
	}
	_, size := utf8.DecodeRuneInString(s[start:])
	return strings.LastIndex(s[:start+size], pattern)
}

func runesEqual(r1, r2 []rune) bool {
	if len(r1) != len(r2) {
		return false
	}
	for i, r := range r1 {
		if r != r2[i] {
			return false
		}
	}
	return true
}

// runesIndex is strings.Index for rune slices.
func runesIndex(haystack, needle []rune) int {
	last := len(haystack) - len(needle)
	for i := 0; i <= last; i++ {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// runesIndexOf is runesIndex with a starting offset.
func runesIndexOf(haystack, needle []rune, start int) int {
	if start > len(haystack)-1 {
		return -1
	}
	if start <= 0 {
		return runesIndex(haystack, needle)
	}
	i := runesIndex(haystack[start:], needle)
	if i == -1 {
		return -1
	}
	return i + start
}
