// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package textmend

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Patch is one hunk of an edit script, anchored by context equalities so
// it can be applied to text that has drifted from the source it was made
// against. Offsets and lengths count bytes.
type Patch struct {
	Edits    []Edit
	SrcStart int
	DstStart int
	SrcLen   int
	DstLen   int
}

// String formats the patch in an extended unidiff form, e.g.
//
//	@@ -382,8 +481,9 @@
//
// Header indices are 1-based. Body lines carry their text with unsafe
// characters %xx encoded, so a patch survives any transport that handles
// plain text.
func (p *Patch) String() string {
	var coords1, coords2 string
	if p.SrcLen == 0 {
		coords1 = strconv.Itoa(p.SrcStart) + ",0"
	} else if p.SrcLen == 1 {
		coords1 = strconv.Itoa(p.SrcStart + 1)
	} else {
		coords1 = strconv.Itoa(p.SrcStart+1) + "," + strconv.Itoa(p.SrcLen)
	}
	if p.DstLen == 0 {
		coords2 = strconv.Itoa(p.DstStart) + ",0"
	} else if p.DstLen == 1 {
		coords2 = strconv.Itoa(p.DstStart + 1)
	} else {
		coords2 = strconv.Itoa(p.DstStart+1) + "," + strconv.Itoa(p.DstLen)
	}

	var b strings.Builder
	b.WriteString("@@ -" + coords1 + " +" + coords2 + " @@\n")
	for _, ed := range p.Edits {
		switch ed.Op {
		case OpInsert:
			b.WriteString("+")
		case OpDelete:
			b.WriteString("-")
		case OpEqual:
			b.WriteString(" ")
		}
		b.WriteString(strings.Replace(url.QueryEscape(ed.Text), "+", " ", -1))
		b.WriteString("\n")
	}
	return unescaper.Replace(b.String())
}

// patchAddContext grows the patch's context until its pattern is unique
// in text, without letting the pattern expand beyond MatchMaxBits.
func (e *Engine) patchAddContext(patch Patch, text string) Patch {
	if len(text) == 0 {
		return patch
	}

	pattern := text[patch.DstStart : patch.DstStart+patch.SrcLen]
	padding := 0

	for strings.Index(text, pattern) != strings.LastIndex(text, pattern) &&
		len(pattern) < e.MatchMaxBits-2*e.PatchMargin {
		padding += e.PatchMargin
		maxStart := max(0, patch.DstStart-padding)
		minEnd := min(len(text), patch.DstStart+patch.SrcLen+padding)
		pattern = text[maxStart:minEnd]
	}
	// One extra chunk of context for luck.
	padding += e.PatchMargin

	prefix := text[max(0, patch.DstStart-padding):patch.DstStart]
	if len(prefix) != 0 {
		patch.Edits = append([]Edit{{OpEqual, prefix}}, patch.Edits...)
	}
	suffix := text[patch.DstStart+patch.SrcLen : min(len(text), patch.DstStart+patch.SrcLen+padding)]
	if len(suffix) != 0 {
		patch.Edits = append(patch.Edits, Edit{OpEqual, suffix})
	}

	// Roll back the start points and extend the lengths.
	patch.SrcStart -= len(prefix)
	patch.DstStart -= len(prefix)
	patch.SrcLen += len(prefix) + len(suffix)
	patch.DstLen += len(prefix) + len(suffix)
	return patch
}

// MakePatches computes the patches that turn text1 into text2, diffing
// the texts and folding trivial equalities out of the result first.
func (e *Engine) MakePatches(text1, text2 string) []Patch {
	edits := e.Diff(text1, text2, true)
	if len(edits) > 2 {
		edits = e.DiffCleanupSemantic(edits)
		edits = e.DiffCleanupEfficiency(edits)
	}
	return e.patchMake(text1, edits)
}

// MakePatchesFromEdits computes patches from an edit script alone, taking
// the source text from the script's equalities and deletions.
func (e *Engine) MakePatchesFromEdits(edits []Edit) []Patch {
	return e.patchMake(e.SourceText(edits), edits)
}

// MakePatchesFromScript computes patches from a source text and an edit
// script already produced against it. Use this over MakePatchesFromEdits
// when the script is kept separately from the text it describes.
func (e *Engine) MakePatchesFromScript(text1 string, edits []Edit) []Patch {
	return e.patchMake(text1, edits)
}

func (e *Engine) patchMake(text1 string, edits []Edit) []Patch {
	patches := []Patch{}
	if len(edits) == 0 {
		return patches
	}

	patch := Patch{}
	charCount1 := 0 // Bytes into text1.
	charCount2 := 0 // Bytes into text2.
	// Start with text1 (prepatchText) and apply the edits until we arrive
	// at text2 (postpatchText). Patches are recreated one by one against
	// the rolling text so their context reflects earlier patches already
	// applied.
	prepatchText := text1
	postpatchText := text1

	for i, ed := range edits {
		if len(patch.Edits) == 0 && ed.Op != OpEqual {
			// A new patch starts here.
			patch.SrcStart = charCount1
			patch.DstStart = charCount2
		}

		switch ed.Op {
		case OpInsert:
			patch.Edits = append(patch.Edits, ed)
			patch.DstLen += len(ed.Text)
			postpatchText = postpatchText[:charCount2] + ed.Text + postpatchText[charCount2:]
		case OpDelete:
			patch.SrcLen += len(ed.Text)
			patch.Edits = append(patch.Edits, ed)
			postpatchText = postpatchText[:charCount2] + postpatchText[charCount2+len(ed.Text):]
		case OpEqual:
			if len(ed.Text) <= 2*e.PatchMargin && len(patch.Edits) != 0 && i != len(edits)-1 {
				// Small equality inside a patch.
				patch.Edits = append(patch.Edits, ed)
				patch.SrcLen += len(ed.Text)
				patch.DstLen += len(ed.Text)
			}
			if len(ed.Text) >= 2*e.PatchMargin && len(patch.Edits) != 0 {
				// Time for a new patch. Unlike unidiff, these patches have
				// a rolling context: update the prepatch text to reflect
				// the patch just completed.
				patch = e.patchAddContext(patch, prepatchText)
				patches = append(patches, patch)
				patch = Patch{}
				prepatchText = postpatchText
				charCount1 = charCount2
			}
		}

		if ed.Op != OpInsert {
			charCount1 += len(ed.Text)
		}
		if ed.Op != OpDelete {
			charCount2 += len(ed.Text)
		}
	}

	// Pick up the leftover patch if not empty.
	if len(patch.Edits) != 0 {
		patch = e.patchAddContext(patch, prepatchText)
		patches = append(patches, patch)
	}
	return patches
}

func patchDeepCopy(patches []Patch) []Patch {
	patchesCopy := []Patch{}
	for _, p := range patches {
		patchCopy := Patch{
			SrcStart: p.SrcStart,
			DstStart: p.DstStart,
			SrcLen:   p.SrcLen,
			DstLen:   p.DstLen,
		}
		patchCopy.Edits = append(patchCopy.Edits, p.Edits...)
		patchesCopy = append(patchesCopy, patchCopy)
	}
	return patchesCopy
}

// Apply merges the patches onto text, tolerating drift between text and
// the source the patches were made from. It returns the patched text and
// one bool per patch telling whether that patch could be placed.
func (e *Engine) Apply(patches []Patch, text string) (string, []bool) {
	if len(patches) == 0 {
		return text, []bool{}
	}

	// Work on a deep copy so the caller's patches stay pristine.
	patches = patchDeepCopy(patches)
	nullPadding := e.patchAddPadding(patches)
	text = nullPadding + text + nullPadding
	patches = e.patchSplitMax(patches)

	// delta tracks the offset between the expected and actual location of
	// the previous patch. If patches are expected at positions 10 and 20,
	// and the first was found at 12, the second is looked for at 22.
	delta := 0
	results := make([]bool, len(patches))
	for x, p := range patches {
		expectedLoc := p.DstStart + delta
		text1 := e.SourceText(p.Edits)
		var startLoc int
		endLoc := -1
		if len(text1) > e.MatchMaxBits {
			// patchSplitMax only lets an oversized pattern through for a
			// monster delete. Anchor on its head and tail instead.
			startLoc = e.Match(text, text1[:e.MatchMaxBits], expectedLoc)
			if startLoc != -1 {
				endLoc = e.Match(text, text1[len(text1)-e.MatchMaxBits:], expectedLoc+len(text1)-e.MatchMaxBits)
				if endLoc == -1 || startLoc >= endLoc {
					// Can't find valid trailing context. Drop this patch.
					startLoc = -1
				}
			}
		} else {
			startLoc = e.Match(text, text1, expectedLoc)
		}
		if startLoc == -1 {
			// No match found. Subtract the delta for this failed patch
			// from subsequent patches.
			results[x] = false
			delta -= p.DstLen - p.SrcLen
			continue
		}

		results[x] = true
		delta = startLoc - expectedLoc
		var text2 string
		if endLoc == -1 {
			text2 = text[startLoc:min(startLoc+len(text1), len(text))]
		} else {
			text2 = text[startLoc:min(endLoc+e.MatchMaxBits, len(text))]
		}
		if text1 == text2 {
			// Perfect match, just shove the replacement text in.
			text = text[:startLoc] + e.TargetText(p.Edits) + text[startLoc+len(text1):]
			continue
		}

		// Imperfect match. Run a diff to get a framework of equivalent
		// indices.
		edits := e.Diff(text1, text2, false)
		if len(text1) > e.MatchMaxBits &&
			float64(e.Levenshtein(edits))/float64(len(text1)) > e.PatchDeleteThreshold {
			// The end points match, but the content is unacceptably bad.
			results[x] = false
			continue
		}
		edits = e.DiffCleanupSemanticLossless(edits)
		index1 := 0
		for _, ed := range p.Edits {
			if ed.Op != OpEqual {
				index2 := e.TranslatePosition(edits, index1)
				if ed.Op == OpInsert {
					text = text[:startLoc+index2] + ed.Text + text[startLoc+index2:]
				} else {
					startIndex := startLoc + index2
					text = text[:startIndex] +
						text[startIndex+e.TranslatePosition(edits, index1+len(ed.Text))-index2:]
				}
			}
			if ed.Op != OpDelete {
				index1 += len(ed.Text)
			}
		}
	}

	// Strip the padding off.
	return text[len(nullPadding) : len(text)-len(nullPadding)], results
}

// patchAddPadding pads the patch set on both ends with characters no real
// text contains, so edits at the very edges still have context to match
// against. It returns the padding string and bumps every patch forward by
// its length.
func (e *Engine) patchAddPadding(patches []Patch) string {
	paddingLength := e.PatchMargin
	nullPadding := ""
	for x := 1; x <= paddingLength; x++ {
		nullPadding += string(rune(x))
	}

	// Bump all the patches forward.
	for i := range patches {
		patches[i].SrcStart += paddingLength
		patches[i].DstStart += paddingLength
	}

	// Pad the start of the first patch.
	first := &patches[0]
	if len(first.Edits) == 0 || first.Edits[0].Op != OpEqual {
		first.Edits = append([]Edit{{OpEqual, nullPadding}}, first.Edits...)
		first.SrcStart -= paddingLength // Should be 0.
		first.DstStart -= paddingLength // Should be 0.
		first.SrcLen += paddingLength
		first.DstLen += paddingLength
	} else if paddingLength > len(first.Edits[0].Text) {
		// Grow the first equality.
		extraLength := paddingLength - len(first.Edits[0].Text)
		first.Edits[0].Text = nullPadding[len(first.Edits[0].Text):] + first.Edits[0].Text
		first.SrcStart -= extraLength
		first.DstStart -= extraLength
		first.SrcLen += extraLength
		first.DstLen += extraLength
	}

	// Pad the end of the last patch.
	last := &patches[len(patches)-1]
	if len(last.Edits) == 0 || last.Edits[len(last.Edits)-1].Op != OpEqual {
		last.Edits = append(last.Edits, Edit{OpEqual, nullPadding})
		last.SrcLen += paddingLength
		last.DstLen += paddingLength
	} else if paddingLength > len(last.Edits[len(last.Edits)-1].Text) {
		// Grow the last equality.
		extraLength := paddingLength - len(last.Edits[len(last.Edits)-1].Text)
		last.Edits[len(last.Edits)-1].Text += nullPadding[:extraLength]
		last.SrcLen += extraLength
		last.DstLen += extraLength
	}

	return nullPadding
}

// patchSplitMax breaks up any patch whose pattern would not fit in the
// match engine's bit vectors into a run of smaller patches.
func (e *Engine) patchSplitMax(patches []Patch) []Patch {
	patchSize := e.MatchMaxBits
	for x := 0; x < len(patches); x++ {
		if patches[x].SrcLen <= patchSize {
			continue
		}
		bigpatch := patches[x]
		// Remove the big old patch.
		patches = append(patches[:x], patches[x+1:]...)
		x--
		srcStart := bigpatch.SrcStart
		dstStart := bigpatch.DstStart
		precontext := ""
		for len(bigpatch.Edits) != 0 {
			// Create one of several smaller patches.
			patch := Patch{}
			empty := true
			patch.SrcStart = srcStart - len(precontext)
			patch.DstStart = dstStart - len(precontext)
			if len(precontext) != 0 {
				patch.SrcLen = len(precontext)
				patch.DstLen = len(precontext)
				patch.Edits = append(patch.Edits, Edit{OpEqual, precontext})
			}
			for len(bigpatch.Edits) != 0 && patch.SrcLen < patchSize-e.PatchMargin {
				op := bigpatch.Edits[0].Op
				text := bigpatch.Edits[0].Text
				if op == OpInsert {
					// Insertions are harmless.
					patch.DstLen += len(text)
					dstStart += len(text)
					patch.Edits = append(patch.Edits, bigpatch.Edits[0])
					bigpatch.Edits = bigpatch.Edits[1:]
					empty = false
				} else if op == OpDelete && len(patch.Edits) == 1 &&
					patch.Edits[0].Op == OpEqual && len(text) > 2*patchSize {
					// This is a large deletion. Let it pass in one chunk.
					patch.SrcLen += len(text)
					srcStart += len(text)
					empty = false
					patch.Edits = append(patch.Edits, Edit{op, text})
					bigpatch.Edits = bigpatch.Edits[1:]
				} else {
					// Deletion or equality. Only take as much as fits.
					text = text[:min(len(text), patchSize-patch.SrcLen-e.PatchMargin)]
					patch.SrcLen += len(text)
					srcStart += len(text)
					if op == OpEqual {
						patch.DstLen += len(text)
						dstStart += len(text)
					} else {
						empty = false
					}
					patch.Edits = append(patch.Edits, Edit{op, text})
					if text == bigpatch.Edits[0].Text {
						bigpatch.Edits = bigpatch.Edits[1:]
					} else {
						bigpatch.Edits[0].Text = bigpatch.Edits[0].Text[len(text):]
					}
				}
			}
			// Compute the head context for the next patch.
			precontext = e.TargetText(patch.Edits)
			precontext = precontext[max(0, len(precontext)-e.PatchMargin):]
			// Append the tail context for this patch.
			postcontext := e.SourceText(bigpatch.Edits)
			if len(postcontext) > e.PatchMargin {
				postcontext = postcontext[:e.PatchMargin]
			}
			if len(postcontext) != 0 {
				patch.SrcLen += len(postcontext)
				patch.DstLen += len(postcontext)
				if len(patch.Edits) != 0 && patch.Edits[len(patch.Edits)-1].Op == OpEqual {
					patch.Edits[len(patch.Edits)-1].Text += postcontext
				} else {
					patch.Edits = append(patch.Edits, Edit{OpEqual, postcontext})
				}
			}
			if !empty {
				x++
				patches = append(patches[:x], append([]Patch{patch}, patches[x:]...)...)
			}
		}
	}
	return patches
}

// PatchesToText serializes a patch list to a single block of text.
func (e *Engine) PatchesToText(patches []Patch) string {
	var b strings.Builder
	for _, p := range patches {
		b.WriteString(p.String())
	}
	return b.String()
}

var patchHeaderRe = regexp.MustCompile(`^@@ -(\d+),?(\d*) \+(\d+),?(\d*) @@$`)

// PatchesFromText parses a block of text produced by PatchesToText back
// into a patch list.
func (e *Engine) PatchesFromText(textline string) ([]Patch, error) {
	patches := []Patch{}
	if len(textline) == 0 {
		return patches, nil
	}

	text := strings.Split(textline, "\n")
	textPointer := 0
	var patch Patch
	var sign uint8
	var line string
	for textPointer < len(text) {
		if !patchHeaderRe.MatchString(text[textPointer]) {
			return patches, errors.New("invalid patch string: " + text[textPointer])
		}

		patch = Patch{}
		m := patchHeaderRe.FindStringSubmatch(text[textPointer])

		patch.SrcStart, _ = strconv.Atoi(m[1])
		if len(m[2]) == 0 {
			patch.SrcStart--
			patch.SrcLen = 1
		} else if m[2] == "0" {
			patch.SrcLen = 0
		} else {
			patch.SrcStart--
			patch.SrcLen, _ = strconv.Atoi(m[2])
		}

		patch.DstStart, _ = strconv.Atoi(m[3])
		if len(m[4]) == 0 {
			patch.DstStart--
			patch.DstLen = 1
		} else if m[4] == "0" {
			patch.DstLen = 0
		} else {
			patch.DstStart--
			patch.DstLen, _ = strconv.Atoi(m[4])
		}
		textPointer++

		for textPointer < len(text) {
			if len(text[textPointer]) > 0 {
				sign = text[textPointer][0]
			} else {
				textPointer++
				continue
			}

			line = text[textPointer][1:]
			line = strings.Replace(line, "+", "%2b", -1)
			line, _ = url.QueryUnescape(line)
			if sign == '-' {
				patch.Edits = append(patch.Edits, Edit{OpDelete, line})
			} else if sign == '+' {
				patch.Edits = append(patch.Edits, Edit{OpInsert, line})
			} else if sign == ' ' {
				patch.Edits = append(patch.Edits, Edit{OpEqual, line})
			} else if sign == '@' {
				// Start of the next patch.
				break
			} else {
				return patches, errors.New("invalid patch mode '" + string(sign) + "' in: " + line)
			}
			textPointer++
		}

		patches = append(patches, patch)
	}
	return patches, nil
}
