// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package textmend

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Diff computes the edit script that turns text1 into text2. When
// checkLines is true and both inputs are large, a line-level pre-pass
// trades optimality for speed. Invalid UTF-8 is replaced rune-wise before
// comparing.
func (e *Engine) Diff(text1, text2 string, checkLines bool) []Edit {
	return e.DiffRunes([]rune(text1), []rune(text2), checkLines)
}

// DiffRunes is Diff for rune slices.
func (e *Engine) DiffRunes(text1, text2 []rune, checkLines bool) []Edit {
	var deadline time.Time
	if e.DiffTimeout > 0 {
		deadline = time.Now().Add(e.DiffTimeout)
	}
	return e.diffRunes(text1, text2, checkLines, deadline)
}

func (e *Engine) diffRunes(text1, text2 []rune, checkLines bool, deadline time.Time) []Edit {
	if runesEqual(text1, text2) {
		if len(text1) > 0 {
			return []Edit{{OpEqual, string(text1)}}
		}
		return nil
	}

	// Pull any common prefix and suffix off before the expensive part.
	n := commonPrefixLength(text1, text2)
	prefix := text1[:n]
	text1 = text1[n:]
	text2 = text2[n:]

	n = commonSuffixLength(text1, text2)
	suffix := text1[len(text1)-n:]
	text1 = text1[:len(text1)-n]
	text2 = text2[:len(text2)-n]

	edits := e.diffCompute(text1, text2, checkLines, deadline)

	if len(prefix) != 0 {
		edits = append([]Edit{{OpEqual, string(prefix)}}, edits...)
	}
	if len(suffix) != 0 {
		edits = append(edits, Edit{OpEqual, string(suffix)})
	}
	return e.DiffCleanupMerge(edits)
}

// diffCompute finds the differences of two texts that share no common
// prefix or suffix.
func (e *Engine) diffCompute(text1, text2 []rune, checkLines bool, deadline time.Time) []Edit {
	if len(text1) == 0 {
		return []Edit{{OpInsert, string(text2)}}
	}
	if len(text2) == 0 {
		return []Edit{{OpDelete, string(text1)}}
	}

	long, short := text1, text2
	if len(long) < len(short) {
		long, short = short, long
	}
	if i := runesIndex(long, short); i != -1 {
		// The shorter text is a substring of the longer.
		op := OpInsert
		if len(text1) > len(text2) {
			op = OpDelete
		}
		return []Edit{
			{op, string(long[:i])},
			{OpEqual, string(short)},
			{op, string(long[i+len(short):])},
		}
	}
	if len(short) == 1 {
		// After the substring check a single rune cannot be an equality.
		return []Edit{{OpDelete, string(text1)}, {OpInsert, string(text2)}}
	}

	if half := e.diffHalfMatch(text1, text2); half != nil {
		// A common substring covers at least half the longer text; diff
		// the two halves around it separately.
		edits := e.diffRunes(half[0], half[2], checkLines, deadline)
		mid := Edit{OpEqual, string(half[4])}
		rest := e.diffRunes(half[1], half[3], checkLines, deadline)
		return append(edits, append([]Edit{mid}, rest...)...)
	}

	if checkLines && len(text1) > 100 && len(text2) > 100 {
		return e.diffLineMode(text1, text2, deadline)
	}
	return e.diffBisect(text1, text2, deadline)
}

// diffLineMode does a quick line-level diff, then re-diffs the
// replacement blocks rune by rune.
func (e *Engine) diffLineMode(text1, text2 []rune, deadline time.Time) []Edit {
	chars1, chars2, lines := e.DiffLinesToRunes(string(text1), string(text2))

	edits := e.diffRunes(chars1, chars2, false, deadline)
	edits = e.DiffCharsToLines(edits, lines)
	edits = e.DiffCleanupSemantic(edits)

	// Rediff each replacement block at full granularity.
	edits = append(edits, Edit{OpEqual, ""})
	pointer := 0
	countDelete := 0
	countInsert := 0
	var textDelete, textInsert strings.Builder
	for pointer < len(edits) {
		switch edits[pointer].Op {
		case OpInsert:
			countInsert++
			textInsert.WriteString(edits[pointer].Text)
		case OpDelete:
			countDelete++
			textDelete.WriteString(edits[pointer].Text)
		case OpEqual:
			if countDelete >= 1 && countInsert >= 1 {
				edits = splice(edits, pointer-countDelete-countInsert, countDelete+countInsert)
				pointer = pointer - countDelete - countInsert
				sub := e.diffRunes([]rune(textDelete.String()), []rune(textInsert.String()), false, deadline)
				edits = splice(edits, pointer, 0, sub...)
				pointer += len(sub)
			}
			countDelete = 0
			countInsert = 0
			textDelete.Reset()
			textInsert.Reset()
		}
		pointer++
	}
	return edits[:len(edits)-1] // Drop the sentinel.
}

// DiffBisect finds the middle snake of an optimal path through the edit
// graph, splits the problem there and diffs both halves. Hitting the
// deadline degrades the remainder to a delete plus an insert. A zero
// deadline means no limit.
func (e *Engine) DiffBisect(text1, text2 string, deadline time.Time) []Edit {
	return e.diffBisect([]rune(text1), []rune(text2), deadline)
}

func (e *Engine) diffBisect(runes1, runes2 []rune, deadline time.Time) []Edit {
	len1, len2 := len(runes1), len(runes2)

	maxD := (len1 + len2 + 1) / 2
	vOffset := maxD
	vLength := 2*maxD + 2
	v1 := make([]int, vLength)
	v2 := make([]int, vLength)
	for i := range v1 {
		v1[i] = -1
		v2[i] = -1
	}
	v1[vOffset+1] = 0
	v2[vOffset+1] = 0

	delta := len1 - len2
	// With an odd delta the forward path detects the overlap, with an
	// even one the reverse path does.
	front := delta%2 != 0
	// Trim the k loops once a path runs off an edge of the grid.
	k1start, k1end := 0, 0
	k2start, k2end := 0, 0

	for d := 0; d < maxD; d++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		// Forward path.
		for k1 := -d + k1start; k1 <= d-k1end; k1 += 2 {
			k1Offset := vOffset + k1
			var x1 int
			if k1 == -d || (k1 != d && v1[k1Offset-1] < v1[k1Offset+1]) {
				x1 = v1[k1Offset+1]
			} else {
				x1 = v1[k1Offset-1] + 1
			}
			y1 := x1 - k1
			for x1 < len1 && y1 < len2 && runes1[x1] == runes2[y1] {
				x1++
				y1++
			}
			v1[k1Offset] = x1
			if x1 > len1 {
				k1end += 2
			} else if y1 > len2 {
				k1start += 2
			} else if front {
				k2Offset := vOffset + delta - k1
				if k2Offset >= 0 && k2Offset < vLength && v2[k2Offset] != -1 {
					// Mirror x2 into the forward coordinate system.
					x2 := len1 - v2[k2Offset]
					if x1 >= x2 {
						return e.diffBisectSplit(runes1, runes2, x1, y1, deadline)
					}
				}
			}
		}

		// Reverse path.
		for k2 := -d + k2start; k2 <= d-k2end; k2 += 2 {
			k2Offset := vOffset + k2
			var x2 int
			if k2 == -d || (k2 != d && v2[k2Offset-1] < v2[k2Offset+1]) {
				x2 = v2[k2Offset+1]
			} else {
				x2 = v2[k2Offset-1] + 1
			}
			y2 := x2 - k2
			for x2 < len1 && y2 < len2 && runes1[len1-x2-1] == runes2[len2-y2-1] {
				x2++
				y2++
			}
			v2[k2Offset] = x2
			if x2 > len1 {
				k2end += 2
			} else if y2 > len2 {
				k2start += 2
			} else if !front {
				k1Offset := vOffset + delta - k2
				if k1Offset >= 0 && k1Offset < vLength && v1[k1Offset] != -1 {
					x1 := v1[k1Offset]
					y1 := vOffset + x1 - k1Offset
					x2 = len1 - x2
					if x1 >= x2 {
						return e.diffBisectSplit(runes1, runes2, x1, y1, deadline)
					}
				}
			}
		}
	}
	// Ran out of time, or the number of edits equals the number of
	// characters: no commonality at all.
	return []Edit{{OpDelete, string(runes1)}, {OpInsert, string(runes2)}}
}

func (e *Engine) diffBisectSplit(runes1, runes2 []rune, x, y int, deadline time.Time) []Edit {
	edits := e.diffRunes(runes1[:x], runes2[:y], false, deadline)
	return append(edits, e.diffRunes(runes1[x:], runes2[y:], false, deadline)...)
}

// DiffCommonPrefix returns the length in runes of the common prefix of
// two texts.
func (e *Engine) DiffCommonPrefix(text1, text2 string) int {
	return commonPrefixLength([]rune(text1), []rune(text2))
}

// DiffCommonSuffix returns the length in runes of the common suffix of
// two texts.
func (e *Engine) DiffCommonSuffix(text1, text2 string) int {
	return commonSuffixLength([]rune(text1), []rune(text2))
}

func commonPrefixLength(text1, text2 []rune) int {
	n := 0
	for ; n < len(text1) && n < len(text2); n++ {
		if text1[n] != text2[n] {
			return n
		}
	}
	return n
}

func commonSuffixLength(text1, text2 []rune) int {
	n := 0
	for ; n < len(text1) && n < len(text2); n++ {
		if text1[len(text1)-n-1] != text2[len(text2)-n-1] {
			return n
		}
	}
	return n
}

// commonOverlapLength returns the number of bytes by which the suffix of
// text1 overlaps the prefix of text2.
func commonOverlapLength(text1, text2 string) int {
	if len(text1) == 0 || len(text2) == 0 {
		return 0
	}
	// Truncate the longer side; the overlap cannot exceed the shorter.
	if len(text1) > len(text2) {
		text1 = text1[len(text1)-len(text2):]
	} else if len(text1) < len(text2) {
		text2 = text2[:len(text1)]
	}
	if text1 == text2 {
		return len(text1)
	}

	// Grow a candidate suffix of text1 one hit at a time. Each miss ends
	// the search, each hit at offset zero records a new best.
	best := 0
	length := 1
	for {
		pattern := text1[len(text1)-length:]
		found := strings.Index(text2, pattern)
		if found == -1 {
			return best
		}
		length += found
		if found == 0 || text1[len(text1)-length:] == text2[:length] {
			best = length
			length++
		}
	}
}

// DiffHalfMatch reports whether the two texts share a substring at least
// half the length of the longer text. It returns the five pieces: prefix
// and suffix of text1, prefix and suffix of text2, and the common middle,
// or nil when no such split exists. With no DiffTimeout the check is
// skipped so an optimal diff is not put at risk.
func (e *Engine) DiffHalfMatch(text1, text2 string) []string {
	half := e.diffHalfMatch([]rune(text1), []rune(text2))
	if half == nil {
		return nil
	}
	out := make([]string, 5)
	for i, r := range half {
		out[i] = string(r)
	}
	return out
}

func (e *Engine) diffHalfMatch(text1, text2 []rune) [][]rune {
	if e.DiffTimeout <= 0 {
		return nil
	}

	long, short := text1, text2
	if len(long) < len(short) {
		long, short = short, long
	}
	if len(long) < 4 || len(short)*2 < len(long) {
		return nil
	}

	// Seed from the second quarter, then from the third.
	half1 := e.diffHalfMatchI(long, short, (len(long)+3)/4)
	half2 := e.diffHalfMatchI(long, short, (len(long)+1)/2)

	var half [][]rune
	switch {
	case half1 == nil && half2 == nil:
		return nil
	case half2 == nil:
		half = half1
	case half1 == nil:
		half = half2
	default:
		if len(half1[4]) > len(half2[4]) {
			half = half1
		} else {
			half = half2
		}
	}

	if len(text1) > len(text2) {
		return half
	}
	return [][]rune{half[2], half[3], half[0], half[1], half[4]}
}

// diffHalfMatchI checks whether a quarter-length substring of long
// starting at i anchors a half-length match inside short.
func (e *Engine) diffHalfMatchI(long, short []rune, i int) [][]rune {
	seed := long[i : i+len(long)/4]

	bestCommonLen := 0
	var bestCommonA, bestCommonB []rune
	var bestLongA, bestLongB []rune
	var bestShortA, bestShortB []rune

	for j := runesIndexOf(short, seed, 0); j != -1; j = runesIndexOf(short, seed, j+1) {
		prefixLen := commonPrefixLength(long[i:], short[j:])
		suffixLen := commonSuffixLength(long[:i], short[:j])
		if bestCommonLen < suffixLen+prefixLen {
			bestCommonA = short[j-suffixLen : j]
			bestCommonB = short[j : j+prefixLen]
			bestCommonLen = len(bestCommonA) + len(bestCommonB)
			bestLongA = long[:i-suffixLen]
			bestLongB = long[i+prefixLen:]
			bestShortA = short[:j-suffixLen]
			bestShortB = short[j+prefixLen:]
		}
	}
	if bestCommonLen*2 < len(long) {
		return nil
	}
	common := make([]rune, 0, bestCommonLen)
	common = append(append(common, bestCommonA...), bestCommonB...)
	return [][]rune{bestLongA, bestLongB, bestShortA, bestShortB, common}
}

// SourceText reconstructs the source side of an edit script.
func (e *Engine) SourceText(edits []Edit) string {
	var b strings.Builder
	for _, ed := range edits {
		if ed.Op != OpInsert {
			b.WriteString(ed.Text)
		}
	}
	return b.String()
}

// TargetText reconstructs the target side of an edit script.
func (e *Engine) TargetText(edits []Edit) string {
	var b strings.Builder
	for _, ed := range edits {
		if ed.Op != OpDelete {
			b.WriteString(ed.Text)
		}
	}
	return b.String()
}

// Levenshtein computes the edit distance of a script in runes, counting a
// paired deletion and insertion as one substitution.
func (e *Engine) Levenshtein(edits []Edit) int {
	distance := 0
	insertions := 0
	deletions := 0
	for _, ed := range edits {
		switch ed.Op {
		case OpInsert:
			insertions += utf8.RuneCountInString(ed.Text)
		case OpDelete:
			deletions += utf8.RuneCountInString(ed.Text)
		case OpEqual:
			distance += max(insertions, deletions)
			insertions = 0
			deletions = 0
		}
	}
	return distance + max(insertions, deletions)
}

// TranslatePosition maps a byte offset in the source text through an edit
// script to the corresponding offset in the target text. Offsets inside a
// deletion map to the position where the deletion happened.
func (e *Engine) TranslatePosition(edits []Edit, pos int) int {
	chars1 := 0
	chars2 := 0
	lastChars1 := 0
	lastChars2 := 0
	var last Edit
	for _, ed := range edits {
		if ed.Op != OpInsert {
			chars1 += len(ed.Text)
		}
		if ed.Op != OpDelete {
			chars2 += len(ed.Text)
		}
		if chars1 > pos {
			last = ed
			break
		}
		lastChars1 = chars1
		lastChars2 = chars2
	}
	if last.Op == OpDelete {
		return lastChars2
	}
	return lastChars2 + (pos - lastChars1)
}
