// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package textmend

import (
	"html"
	"strings"
)

// PrettyHTML renders an edit script as an HTML fragment, insertions in
// green, deletions in red. It is intended as an example from which to
// write one's own display functions.
func (e *Engine) PrettyHTML(edits []Edit) string {
	var b strings.Builder
	for _, ed := range edits {
		text := strings.Replace(html.EscapeString(ed.Text), "\n", "&para;<br>", -1)
		switch ed.Op {
		case OpInsert:
			b.WriteString("<ins style=\"background:#e6ffe6;\">")
			b.WriteString(text)
			b.WriteString("</ins>")
		case OpDelete:
			b.WriteString("<del style=\"background:#ffe6e6;\">")
			b.WriteString(text)
			b.WriteString("</del>")
		case OpEqual:
			b.WriteString("<span>")
			b.WriteString(text)
			b.WriteString("</span>")
		}
	}
	return b.String()
}

// PrettyText renders an edit script for a terminal, insertions in green,
// deletions in red.
func (e *Engine) PrettyText(edits []Edit) string {
	var b strings.Builder
	for _, ed := range edits {
		switch ed.Op {
		case OpInsert:
			b.WriteString("\x1b[32m")
			b.WriteString(ed.Text)
			b.WriteString("\x1b[0m")
		case OpDelete:
			b.WriteString("\x1b[31m")
			b.WriteString(ed.Text)
			b.WriteString("\x1b[0m")
		case OpEqual:
			b.WriteString(ed.Text)
		}
	}
	return b.String()
}
