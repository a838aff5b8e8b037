// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package textmend

import (
	"strings"
)

// index identifies one line (or token) of a diff input.
//
// Indexes travel through the diff encoded as single runes, skipping the
// Unicode surrogate range: utf8 cannot encode surrogates, they would come
// back as utf8.RuneError and break the round trip.
type index uint32

const (
	runeSkipStart = 0xD800
	runeSkipEnd   = 0xE000

	runeMax = 0x110000
)

func indexesToString(indexes []index) string {
	var b strings.Builder
	for _, idx := range indexes {
		r := rune(idx)
		if r >= runeSkipStart {
			r += runeSkipEnd - runeSkipStart
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stringToIndex(text string) []index {
	runes := []rune(text)
	indexes := make([]index, len(runes))
	for i, r := range runes {
		if r >= runeSkipEnd {
			r -= runeSkipEnd - runeSkipStart
		}
		indexes[i] = index(r)
	}
	return indexes
}

// DiffLinesToChars splits two texts into lines and reduces each text to a
// string where every rune stands for one line. Diffing the reduced texts
// and rehydrating with DiffCharsToLines yields a line-level diff.
func (e *Engine) DiffLinesToChars(text1, text2 string) (string, string, []string) {
	chars1, chars2, lineArray := e.diffLinesToIndexes(text1, text2)
	return indexesToString(chars1), indexesToString(chars2), lineArray
}

// DiffLinesToRunes is DiffLinesToChars returning rune slices, saving a
// conversion when the result feeds straight into DiffRunes.
func (e *Engine) DiffLinesToRunes(text1, text2 string) ([]rune, []rune, []string) {
	chars1, chars2, lineArray := e.diffLinesToIndexes(text1, text2)
	return []rune(indexesToString(chars1)), []rune(indexesToString(chars2)), lineArray
}

func (e *Engine) diffLinesToIndexes(text1, text2 string) ([]index, []index, []string) {
	lineArray := []string{""} // Index 0 is reserved, e.g. lineArray[4] == "Hello\n".
	lineHash := map[string]index{}

	chars1 := munge(text1, &lineArray, lineHash)
	chars2 := munge(text2, &lineArray, lineHash)

	return chars1, chars2, lineArray
}

// munge splits text into lines, assigning each distinct line the next free
// index. Walking with indexOf avoids the throwaway slices a split would
// allocate.
func munge(text string, lineArray *[]string, lineHash map[string]index) []index {
	lineStart := 0
	lineEnd := -1
	strs := []index{}

	for lineEnd < len(text)-1 {
		lineEnd = indexOf(text, "\n", lineStart)

		if lineEnd == -1 {
			lineEnd = len(text) - 1
		}

		line := text[lineStart : lineEnd+1]
		lineStart = lineEnd + 1

		if lineValue, ok := lineHash[line]; ok {
			strs = append(strs, lineValue)
		} else {
			*lineArray = append(*lineArray, line)
			lineHash[line] = index(len(*lineArray) - 1)
			strs = append(strs, index(len(*lineArray)-1))
		}
	}

	return strs
}

// DiffCharsToLines rehydrates an edit script produced from reduced texts,
// replacing each index rune with the line of text it stands for.
func (e *Engine) DiffCharsToLines(edits []Edit, lineArray []string) []Edit {
	hydrated := make([]Edit, 0, len(edits))
	for _, ed := range edits {
		indexes := stringToIndex(ed.Text)
		text := make([]string, len(indexes))

		for i, idx := range indexes {
			if int(idx) < len(lineArray) {
				text[i] = lineArray[idx]
			}
		}

		ed.Text = strings.Join(text, "")
		hydrated = append(hydrated, ed)
	}
	return hydrated
}
