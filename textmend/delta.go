// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package textmend

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// unescaper unescapes selected chars for compatibility with JavaScript's
// encodeURI. In speed critical applications this could be dropped since
// the receiving application will certainly decode these fine. Note that
// this function is case-sensitive. Thus "%3F" would not be unescaped.
// But this is ok because it is only called with the output of
// url.QueryEscape which returns uppercase hex.
//
// Example: "%3F" -> "?", "%24" -> "$", etc.
var unescaper = strings.NewReplacer(
	"%21", "!", "%7E", "~", "%27", "'",
	"%28", "(", "%29", ")", "%3B", ";",
	"%2F", "/", "%3F", "?", "%3A", ":",
	"%40", "@", "%26", "&", "%3D", "=",
	"%2B", "+", "%24", "$", "%2C", ",", "%23", "#", "%2A", "*")

// ToDelta crushes an edit script into an efficient string encoding, e.g.
// "=3\t-2\t+ing". Runs of equalities and deletions are stored as rune
// counts against the source text, insertions carry their text with
// unsafe characters %xx encoded. Operations are tab separated.
func (e *Engine) ToDelta(edits []Edit) string {
	var b strings.Builder
	for _, ed := range edits {
		switch ed.Op {
		case OpInsert:
			b.WriteString("+")
			b.WriteString(strings.Replace(url.QueryEscape(ed.Text), "+", " ", -1))
			b.WriteString("\t")
		case OpDelete:
			b.WriteString("-")
			b.WriteString(strconv.Itoa(utf8.RuneCountInString(ed.Text)))
			b.WriteString("\t")
		case OpEqual:
			b.WriteString("=")
			b.WriteString(strconv.Itoa(utf8.RuneCountInString(ed.Text)))
			b.WriteString("\t")
		}
	}
	delta := b.String()
	if len(delta) != 0 {
		// Strip the trailing tab.
		delta = delta[:len(delta)-1]
	}
	return unescaper.Replace(delta)
}

// FromDelta rebuilds the full edit script from a source text and a delta
// produced by ToDelta against it.
func (e *Engine) FromDelta(text, delta string) (edits []Edit, err error) {
	i := 0
	runes := []rune(text)

	for _, token := range strings.Split(delta, "\t") {
		if len(token) == 0 {
			// Blank tokens are ok (from a trailing \t).
			continue
		}

		// Each token begins with a one character parameter which
		// specifies the operation of this token.
		param := token[1:]

		switch op := token[0]; op {
		case '+':
			// Decode would turn all "+" back into " ".
			param = strings.Replace(param, "+", "%2b", -1)
			param, err = url.QueryUnescape(param)
			if err != nil {
				return nil, err
			}
			if !utf8.ValidString(param) {
				return nil, fmt.Errorf("invalid UTF-8 token: %q", param)
			}

			edits = append(edits, Edit{OpInsert, param})
		case '=', '-':
			n, err := strconv.ParseInt(param, 10, 0)
			if err != nil {
				return nil, err
			} else if n < 0 {
				return nil, errors.New("negative number in FromDelta: " + param)
			}

			i += int(n)
			// Keep scanning once out of bounds, the final length check
			// reports the mismatch.
			if i > len(runes) {
				break
			}

			text := string(runes[i-int(n) : i])

			if op == '=' {
				edits = append(edits, Edit{OpEqual, text})
			} else {
				edits = append(edits, Edit{OpDelete, text})
			}
		default:
			return nil, errors.New("invalid diff operation in FromDelta: " + string(token[0]))
		}
	}

	if i != len(runes) {
		return nil, fmt.Errorf("delta length (%v) is different from source text length (%v)", i, len(runes))
	}

	return edits, nil
}
