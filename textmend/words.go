// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package textmend

import (
	"github.com/clipperhouse/uax29/v2/words"
)

// DiffWords compares two texts word by word, finding word boundaries
// with Unicode text segmentation (UAX #29). Runs of whitespace and
// punctuation count as tokens of their own, so the script covers both
// texts in full and every edit starts and ends on a token boundary.
func (e *Engine) DiffWords(text1, text2 string) []Edit {
	tokenArray := []string{""} // Index 0 is reserved, same as line mode.
	tokenHash := map[string]index{}

	chars1 := wordIndexes(text1, &tokenArray, tokenHash)
	chars2 := wordIndexes(text2, &tokenArray, tokenHash)

	edits := e.Diff(indexesToString(chars1), indexesToString(chars2), false)
	return e.DiffCharsToLines(edits, tokenArray)
}

// wordIndexes segments text into words, assigning each distinct token
// the next free index.
func wordIndexes(text string, tokenArray *[]string, tokenHash map[string]index) []index {
	var strs []index

	iter := words.FromString(text)
	for iter.Next() {
		token := iter.Value()
		if tokenValue, ok := tokenHash[token]; ok {
			strs = append(strs, tokenValue)
		} else {
			*tokenArray = append(*tokenArray, token)
			tokenHash[token] = index(len(*tokenArray) - 1)
			strs = append(strs, index(len(*tokenArray)-1))
		}
	}

	return strs
}
