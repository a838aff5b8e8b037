// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package textmend

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// splice removes amount spans at position i and inserts replacements in
// their place, returning the adjusted script.
func splice(edits []Edit, i, amount int, replacements ...Edit) []Edit {
	if len(replacements) == amount {
		copy(edits[i:], replacements)
		return edits
	}
	out := make([]Edit, 0, len(edits)-amount+len(replacements))
	out = append(out, edits[:i]...)
	out = append(out, replacements...)
	return append(out, edits[i+amount:]...)
}

// DiffCleanupMerge reorders and merges like edit sections, merging
// equalities and factoring common prefixes and suffixes out of
// delete/insert pairs. Any script coming out of the diff or cleanup
// passes is already in this form.
func (e *Engine) DiffCleanupMerge(edits []Edit) []Edit {
	edits = append(edits, Edit{OpEqual, ""}) // Sentinel.
	pointer := 0
	countDelete := 0
	countInsert := 0
	var textDelete []rune
	var textInsert []rune

	for pointer < len(edits) {
		switch edits[pointer].Op {
		case OpInsert:
			countInsert++
			textInsert = append(textInsert, []rune(edits[pointer].Text)...)
			pointer++
		case OpDelete:
			countDelete++
			textDelete = append(textDelete, []rune(edits[pointer].Text)...)
			pointer++
		case OpEqual:
			if countDelete+countInsert > 1 {
				if countDelete != 0 && countInsert != 0 {
					// Factor out any common prefix.
					if n := commonPrefixLength(textInsert, textDelete); n != 0 {
						x := pointer - countDelete - countInsert
						if x > 0 && edits[x-1].Op == OpEqual {
							edits[x-1].Text += string(textInsert[:n])
						} else {
							edits = splice(edits, 0, 0, Edit{OpEqual, string(textInsert[:n])})
							pointer++
						}
						textInsert = textInsert[n:]
						textDelete = textDelete[n:]
					}
					// Factor out any common suffix.
					if n := commonSuffixLength(textInsert, textDelete); n != 0 {
						edits[pointer].Text = string(textInsert[len(textInsert)-n:]) + edits[pointer].Text
						textInsert = textInsert[:len(textInsert)-n]
						textDelete = textDelete[:len(textDelete)-n]
					}
				}
				// Replace the run with at most one delete and one insert.
				switch {
				case countDelete == 0:
					edits = splice(edits, pointer-countInsert, countInsert, Edit{OpInsert, string(textInsert)})
				case countInsert == 0:
					edits = splice(edits, pointer-countDelete, countDelete, Edit{OpDelete, string(textDelete)})
				default:
					edits = splice(edits, pointer-countDelete-countInsert, countDelete+countInsert,
						Edit{OpDelete, string(textDelete)}, Edit{OpInsert, string(textInsert)})
				}
				pointer = pointer - countDelete - countInsert + 1
				if countDelete != 0 {
					pointer++
				}
				if countInsert != 0 {
					pointer++
				}
			} else if pointer != 0 && edits[pointer-1].Op == OpEqual {
				// Merge this equality into the previous one.
				edits[pointer-1].Text += edits[pointer].Text
				edits = splice(edits, pointer, 1)
			} else {
				pointer++
			}
			countDelete = 0
			countInsert = 0
			textDelete = nil
			textInsert = nil
		}
	}
	if edits[len(edits)-1].Text == "" {
		edits = edits[:len(edits)-1] // Drop the sentinel.
	}

	// Second pass: single edits surrounded by equalities sometimes can be
	// shifted sideways to eliminate one of the equalities, e.g.
	// A<ins>BA</ins>C becomes <ins>AB</ins>AC.
	changes := false
	pointer = 1
	for pointer < len(edits)-1 {
		if edits[pointer-1].Op == OpEqual && edits[pointer+1].Op == OpEqual {
			if strings.HasSuffix(edits[pointer].Text, edits[pointer-1].Text) {
				// Shift the edit over the previous equality.
				edits[pointer].Text = edits[pointer-1].Text + edits[pointer].Text[:len(edits[pointer].Text)-len(edits[pointer-1].Text)]
				edits[pointer+1].Text = edits[pointer-1].Text + edits[pointer+1].Text
				edits = splice(edits, pointer-1, 1)
				changes = true
			} else if strings.HasPrefix(edits[pointer].Text, edits[pointer+1].Text) {
				// Shift the edit over the next equality.
				edits[pointer-1].Text += edits[pointer+1].Text
				edits[pointer].Text = edits[pointer].Text[len(edits[pointer+1].Text):] + edits[pointer+1].Text
				edits = splice(edits, pointer+1, 1)
				changes = true
			}
		}
		pointer++
	}
	// A shift can expose further merge opportunities.
	if changes {
		edits = e.DiffCleanupMerge(edits)
	}
	return edits
}

// DiffCleanupSemantic reduces the number of edits by eliminating
// semantically trivial equalities: short common sections that split what
// a human would read as one replacement.
func (e *Engine) DiffCleanupSemantic(edits []Edit) []Edit {
	changes := false
	// Indices of candidate equalities.
	var equalities []int

	var lastEquality string
	pointer := 0
	// Rune counts of changes before and after the candidate equality.
	var insertions1, deletions1 int
	var insertions2, deletions2 int

	for pointer < len(edits) {
		if edits[pointer].Op == OpEqual {
			equalities = append(equalities, pointer)
			insertions1 = insertions2
			deletions1 = deletions2
			insertions2 = 0
			deletions2 = 0
			lastEquality = edits[pointer].Text
		} else {
			if edits[pointer].Op == OpInsert {
				insertions2 += utf8.RuneCountInString(edits[pointer].Text)
			} else {
				deletions2 += utf8.RuneCountInString(edits[pointer].Text)
			}
			// An equality no longer than the changes on both of its sides
			// is not worth keeping.
			n := utf8.RuneCountInString(lastEquality)
			if n > 0 && n <= max(insertions1, deletions1) && n <= max(insertions2, deletions2) {
				insPoint := equalities[len(equalities)-1]
				// Replace the equality with its deletion and insertion.
				edits = splice(edits, insPoint, 0, Edit{OpDelete, lastEquality})
				edits[insPoint+1].Op = OpInsert
				// Throw away the equality just deleted, and the one before
				// it: the change may now reach further back.
				equalities = equalities[:len(equalities)-1]
				if len(equalities) > 0 {
					equalities = equalities[:len(equalities)-1]
				}
				pointer = -1
				if len(equalities) > 0 {
					pointer = equalities[len(equalities)-1]
				}
				insertions1 = 0
				deletions1 = 0
				insertions2 = 0
				deletions2 = 0
				lastEquality = ""
				changes = true
			}
		}
		pointer++
	}

	if changes {
		edits = e.DiffCleanupMerge(edits)
	}
	edits = e.DiffCleanupSemanticLossless(edits)

	// Extract overlaps between adjacent deletions and insertions:
	// <del>abcxxx</del><ins>xxxdef</ins> becomes <del>abc</del>xxx<ins>def</ins>,
	// <del>xxxabc</del><ins>defxxx</ins> becomes <ins>def</ins>xxx<del>abc</del>.
	// An overlap is only extracted when it covers at least half of one of
	// the edits around it.
	pointer = 1
	for pointer < len(edits) {
		if edits[pointer-1].Op == OpDelete && edits[pointer].Op == OpInsert {
			deletion := edits[pointer-1].Text
			insertion := edits[pointer].Text
			overlap1 := commonOverlapLength(deletion, insertion)
			overlap2 := commonOverlapLength(insertion, deletion)
			if overlap1 >= overlap2 {
				if float64(overlap1) >= float64(utf8.RuneCountInString(deletion))/2 ||
					float64(overlap1) >= float64(utf8.RuneCountInString(insertion))/2 {
					edits = splice(edits, pointer, 0, Edit{OpEqual, insertion[:overlap1]})
					edits[pointer-1].Text = deletion[:len(deletion)-overlap1]
					edits[pointer+1].Text = insertion[overlap1:]
					pointer++
				}
			} else {
				if float64(overlap2) >= float64(utf8.RuneCountInString(deletion))/2 ||
					float64(overlap2) >= float64(utf8.RuneCountInString(insertion))/2 {
					edits = splice(edits, pointer, 0, Edit{OpEqual, deletion[:overlap2]})
					edits[pointer-1] = Edit{OpInsert, insertion[:len(insertion)-overlap2]}
					edits[pointer+1] = Edit{OpDelete, deletion[overlap2:]}
					pointer++
				}
			}
			pointer++
		}
		pointer++
	}
	return edits
}

var (
	nonAlphaNumericRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
	whitespaceRe      = regexp.MustCompile(`\s`)
	lineBreakRe       = regexp.MustCompile(`[\r\n]`)
	blankLineEndRe    = regexp.MustCompile(`\n\r?\n$`)
	blankLineStartRe  = regexp.MustCompile(`^\r?\n\r?\n`)
)

// semanticScore rates the quality of splitting two texts at their shared
// boundary. 6 is best (one side empty), 0 is worst (splitting inside a
// word).
func semanticScore(one, two string) int {
	if len(one) == 0 || len(two) == 0 {
		return 6
	}

	// Only the characters adjacent to the boundary matter. Definitions of
	// whitespace and word characters follow Go's regexp classes.
	r1, _ := utf8.DecodeLastRuneInString(one)
	r2, _ := utf8.DecodeRuneInString(two)
	char1 := string(r1)
	char2 := string(r2)

	nonAlphaNumeric1 := nonAlphaNumericRe.MatchString(char1)
	nonAlphaNumeric2 := nonAlphaNumericRe.MatchString(char2)
	whitespace1 := nonAlphaNumeric1 && whitespaceRe.MatchString(char1)
	whitespace2 := nonAlphaNumeric2 && whitespaceRe.MatchString(char2)
	lineBreak1 := whitespace1 && lineBreakRe.MatchString(char1)
	lineBreak2 := whitespace2 && lineBreakRe.MatchString(char2)
	blankLine1 := lineBreak1 && blankLineEndRe.MatchString(one)
	blankLine2 := lineBreak2 && blankLineStartRe.MatchString(two)

	switch {
	case blankLine1 || blankLine2:
		return 5
	case lineBreak1 || lineBreak2:
		return 4
	case nonAlphaNumeric1 && !whitespace1 && whitespace2:
		// End of sentence.
		return 3
	case whitespace1 || whitespace2:
		return 2
	case nonAlphaNumeric1 || nonAlphaNumeric2:
		return 1
	}
	return 0
}

// DiffCleanupSemanticLossless shifts edit boundaries to line up with
// word, line and paragraph boundaries where that is possible without
// changing what the script produces.
func (e *Engine) DiffCleanupSemanticLossless(edits []Edit) []Edit {
	pointer := 1
	// The first and last span have an edge on one side already.
	for pointer < len(edits)-1 {
		if edits[pointer-1].Op == OpEqual && edits[pointer+1].Op == OpEqual {
			// A single edit surrounded by equalities.
			equality1 := []rune(edits[pointer-1].Text)
			edit := []rune(edits[pointer].Text)
			equality2 := []rune(edits[pointer+1].Text)

			// Shift the edit as far left as possible.
			if n := commonSuffixLength(equality1, edit); n > 0 {
				shifted := make([]rune, 0, len(edit))
				shifted = append(shifted, edit[len(edit)-n:]...)
				shifted = append(shifted, edit[:len(edit)-n]...)
				equality2 = append(append([]rune{}, edit[len(edit)-n:]...), equality2...)
				equality1 = equality1[:len(equality1)-n]
				edit = shifted
			}

			// Step rune by rune to the right, keeping the best scoring
			// position seen.
			bestEquality1 := equality1
			bestEdit := edit
			bestEquality2 := equality2
			bestScore := semanticScore(string(equality1), string(edit)) +
				semanticScore(string(edit), string(equality2))
			for len(edit) != 0 && len(equality2) != 0 && edit[0] == equality2[0] {
				equality1 = append(equality1, edit[0])
				edit = append(append([]rune{}, edit[1:]...), equality2[0])
				equality2 = equality2[1:]
				score := semanticScore(string(equality1), string(edit)) +
					semanticScore(string(edit), string(equality2))
				// >= favors trailing over leading whitespace on edits.
				if score >= bestScore {
					bestScore = score
					bestEquality1 = append([]rune{}, equality1...)
					bestEdit = edit
					bestEquality2 = equality2
				}
			}

			if edits[pointer-1].Text != string(bestEquality1) {
				// An improvement was found.
				if len(bestEquality1) != 0 {
					edits[pointer-1].Text = string(bestEquality1)
				} else {
					edits = splice(edits, pointer-1, 1)
					pointer--
				}
				edits[pointer].Text = string(bestEdit)
				if len(bestEquality2) != 0 {
					edits[pointer+1].Text = string(bestEquality2)
				} else {
					edits = splice(edits, pointer+1, 1)
					pointer--
				}
			}
		}
		pointer++
	}
	return edits
}

// DiffCleanupEfficiency reduces the number of edits by eliminating
// operationally trivial equalities: common sections short enough that
// keeping them costs more than folding them into the surrounding edit,
// as judged by DiffEditCost.
func (e *Engine) DiffCleanupEfficiency(edits []Edit) []Edit {
	changes := false
	// Indices of candidate equalities.
	var equalities []int

	lastEquality := ""
	pointer := 0
	// Whether changes touch the candidate equality on each side.
	preInsert := false
	preDelete := false
	postInsert := false
	postDelete := false

	for pointer < len(edits) {
		if edits[pointer].Op == OpEqual {
			if len(edits[pointer].Text) < e.DiffEditCost && (postInsert || postDelete) {
				equalities = append(equalities, pointer)
				preInsert = postInsert
				preDelete = postDelete
				lastEquality = edits[pointer].Text
			} else {
				// Not a candidate, and neither is anything before it.
				equalities = equalities[:0]
				lastEquality = ""
			}
			postInsert = false
			postDelete = false
		} else {
			if edits[pointer].Op == OpDelete {
				postDelete = true
			} else {
				postInsert = true
			}

			// An equality is expendable when changes surround it on both
			// sides, or when it is very short and three of the four change
			// slots around it are occupied:
			// <ins>A</ins><del>B</del>XY<ins>C</ins><del>D</del>
			// <ins>A</ins>X<ins>C</ins><del>D</del>
			// <ins>A</ins><del>B</del>X<ins>C</ins>
			// <ins>A</del>X<ins>C</ins><del>D</del>
			// <ins>A</ins><del>B</del>X<del>C</del>
			surround := 0
			if preInsert {
				surround++
			}
			if preDelete {
				surround++
			}
			if postInsert {
				surround++
			}
			if postDelete {
				surround++
			}
			if len(lastEquality) > 0 &&
				((preInsert && preDelete && postInsert && postDelete) ||
					(len(lastEquality) < e.DiffEditCost/2 && surround == 3)) {
				insPoint := equalities[len(equalities)-1]
				// Replace the equality with its deletion and insertion.
				edits = splice(edits, insPoint, 0, Edit{OpDelete, lastEquality})
				edits[insPoint+1].Op = OpInsert
				equalities = equalities[:len(equalities)-1]
				lastEquality = ""

				if preInsert && preDelete {
					// No earlier candidate can be affected.
					postInsert = true
					postDelete = true
					equalities = equalities[:0]
				} else {
					if len(equalities) > 0 {
						equalities = equalities[:len(equalities)-1]
					}
					pointer = -1
					if len(equalities) > 0 {
						pointer = equalities[len(equalities)-1]
					}
					postInsert = false
					postDelete = false
				}
				changes = true
			}
		}
		pointer++
	}

	if changes {
		edits = e.DiffCleanupMerge(edits)
	}
	return edits
}
