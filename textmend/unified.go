// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package textmend

import (
	"fmt"
	"strings"
)

// DefaultContextLines is the number of unchanged lines of surrounding
// context displayed by Unified.
const DefaultContextLines = 3

// UnifiedOption adjusts how Unified and UnifiedFromEdits format their
// output.
type UnifiedOption func(*unifiedOptions)

type unifiedOptions struct {
	contextLines int
	srcLabel     string
	dstLabel     string
}

func newUnifiedOptions(opts []UnifiedOption) unifiedOptions {
	ret := unifiedOptions{
		contextLines: DefaultContextLines,
		srcLabel:     "text1",
		dstLabel:     "text2",
	}
	for _, o := range opts {
		o(&ret)
	}
	return ret
}

// UnifiedContextLines sets the number of unchanged lines of surrounding
// context printed. Defaults to DefaultContextLines.
func UnifiedContextLines(lines int) UnifiedOption {
	if lines <= 0 {
		lines = DefaultContextLines
	}
	return func(o *unifiedOptions) {
		o.contextLines = lines
	}
}

// UnifiedLabels sets the labels for the old and new files. Defaults to
// "text1" and "text2".
func UnifiedLabels(oldLabel, newLabel string) UnifiedOption {
	return func(o *unifiedOptions) {
		o.srcLabel = oldLabel
		o.dstLabel = newLabel
	}
}

// Unified compares text1 and text2 line by line and formats the result
// in the unified diff format accepted by tools like patch.
func (e *Engine) Unified(text1, text2 string, opts ...UnifiedOption) string {
	options := newUnifiedOptions(opts)

	enc1, enc2, lines := e.DiffLinesToChars(text1, text2)
	edits := e.Diff(enc1, enc2, false)
	edits = e.DiffCharsToLines(edits, lines)

	return toUnified(edits, options).String()
}

// UnifiedFromEdits formats an existing edit script in the unified diff
// format. The script may mix partial-line and whole-line edits; it is
// rearranged linewise first.
func (e *Engine) UnifiedFromEdits(edits []Edit, opts ...UnifiedOption) string {
	options := newUnifiedOptions(opts)

	return toUnified(edits, options).String()
}

// toUnified groups a linewise edit script into hunks, keeping at most
// contextLines of context on each side of a change. A gap of more than
// twice that closes the hunk.
func toUnified(edits []Edit, opts unifiedOptions) unifiedDiff {
	maxCtx := opts.contextLines * 2
	u := unifiedDiff{
		srcLabel: opts.srcLabel,
		dstLabel: opts.dstLabel,
	}

	if allEqual(edits) {
		return u
	}

	edits = editsLinewise(edits)

	var (
		h *hunk

		lineNo1 int
		lineNo2 int
		context []Edit
	)
	for _, ed := range edits {
		switch ed.Op {
		case OpDelete:
			lineNo1++
		case OpInsert:
			lineNo2++
		case OpEqual:
			lineNo1++
			lineNo2++
		}

		if ed.Op == OpEqual {
			context = append(context, ed)
			continue
		}

		// Close the previous hunk when the gap got too wide.
		if h != nil && len(context) > maxCtx {
			cl := min(len(context), opts.contextLines)
			h.edits = append(h.edits, context[:cl]...)
			u.hunks = append(u.hunks, *h)
			h = nil
		}

		if h == nil {
			cl := min(len(context), opts.contextLines)
			l1 := lineNo1 - cl
			l2 := lineNo2 - cl

			// The line number on the changed side was already advanced
			// for this edit, the other side's was not.
			switch ed.Op {
			case OpDelete:
				l2++
			case OpInsert:
				l1++
			}

			h = &hunk{
				fromLine: l1,
				toLine:   l2,
				edits:    context[len(context)-cl:],
			}
			context = nil
		}

		h.edits = append(h.edits, context...)
		context = nil

		h.edits = append(h.edits, ed)
	}

	if h != nil {
		cl := min(len(context), opts.contextLines)
		h.edits = append(h.edits, context[:cl]...)
		u.hunks = append(u.hunks, *h)
	}

	return u
}

func allEqual(edits []Edit) bool {
	for _, ed := range edits {
		if ed.Op != OpEqual {
			return false
		}
	}
	return true
}

// editsLinewise splits and merges edits so that each one covers exactly
// one line, including its trailing newline.
func editsLinewise(edits []Edit) []Edit {
	var (
		ret          []Edit
		line1, line2 string
	)

	edits = cleanupNewlineAligned(edits)

	add := func(ed Edit) {
		switch ed.Op {
		case OpDelete:
			line1 += ed.Text
		case OpInsert:
			line2 += ed.Text
		default:
			line1 += ed.Text
			line2 += ed.Text
		}

		if strings.HasSuffix(line1, "\n") && line1 == line2 {
			ret = append(ret, Edit{OpEqual, line1})
			line1, line2 = "", ""
		}
		if strings.HasSuffix(line1, "\n") {
			ret = append(ret, Edit{OpDelete, line1})
			line1 = ""
		}
		if strings.HasSuffix(line2, "\n") {
			ret = append(ret, Edit{OpInsert, line2})
			line2 = ""
		}
	}

	for _, ed := range edits {
		for _, segment := range strings.SplitAfter(ed.Text, "\n") {
			add(Edit{ed.Op, segment})
		}
	}

	// line1 and/or line2 are non-empty when a file lacks a final newline.
	if line1 != "" && line1 == line2 {
		ret = append(ret, Edit{OpEqual, line1})
		line1, line2 = "", ""
	}
	if line1 != "" {
		ret = append(ret, Edit{OpDelete, line1})
	}
	if line2 != "" {
		ret = append(ret, Edit{OpInsert, line2})
	}

	return deletionsFirst(ret)
}

// cleanupNewlineAligned looks for single edits surrounded on both sides
// by equalities which can be shifted sideways to align on newlines.
func cleanupNewlineAligned(edits []Edit) []Edit {
	var ret []Edit

	for i := 0; i < len(edits); i++ {
		if i < len(edits)-2 && edits[i].Op == OpEqual && edits[i+1].Op != OpEqual && edits[i+2].Op == OpEqual {
			common := prefixWithNewline(edits[i+1].Text, edits[i+2].Text)

			// Convert ["=<equal>", "±<common\n><change>", "=<common\n><equal>"]
			// to ["=<equal><common\n>", "±<change><common\n>", "=<equal>"].
			if common != "" {
				ret = append(ret,
					Edit{OpEqual, edits[i].Text + common},
					Edit{edits[i+1].Op, strings.TrimPrefix(edits[i+1].Text, common) + common},
					Edit{OpEqual, strings.TrimPrefix(edits[i+2].Text, common)},
				)
				i += 2
				continue
			}
		}

		ret = append(ret, edits[i])
	}

	return ret
}

// prefixWithNewline returns the longest common prefix of text1 and text2
// that ends in a newline, or "" when the common prefix contains none.
func prefixWithNewline(text1, text2 string) string {
	n := min(len(text1), len(text2))
	prefix := 0
	for prefix < n && text1[prefix] == text2[prefix] {
		prefix++
	}

	if index := strings.LastIndex(text1[:prefix], "\n"); index != -1 {
		return text1[:index+1]
	}
	return ""
}

// deletionsFirst reorders changes so that deletions come before
// insertions, without crossing an equality boundary.
func deletionsFirst(edits []Edit) []Edit {
	var (
		ret        []Edit
		deletions  []Edit
		insertions []Edit
	)

	for _, ed := range edits {
		switch ed.Op {
		case OpDelete:
			deletions = append(deletions, ed)
		case OpInsert:
			insertions = append(insertions, ed)
		case OpEqual:
			ret = append(ret, deletions...)
			deletions = nil
			ret = append(ret, insertions...)
			insertions = nil
			ret = append(ret, ed)
		}
	}

	ret = append(ret, deletions...)
	ret = append(ret, insertions...)

	return ret
}

// unifiedDiff holds modifications in a form conducive to printing a
// unified diff.
type unifiedDiff struct {
	srcLabel, dstLabel string
	hunks              []hunk
}

// hunk is a run of nearby changed lines, separated from the next hunk by
// more than 2*contextLines unchanged ones.
type hunk struct {
	// Line in the source text where the hunk starts.
	fromLine int
	// Line in the target text where the hunk starts.
	toLine int
	// One edit per deleted, inserted or unchanged line.
	edits []Edit
}

// numLines counts the hunk's lines on the source and target side.
func (h hunk) numLines() (n1, n2 int) {
	for _, ed := range h.edits {
		switch ed.Op {
		case OpDelete:
			n1++
		case OpInsert:
			n2++
		case OpEqual:
			n1++
			n2++
		}
	}
	return n1, n2
}

func (h hunk) String() string {
	var b strings.Builder

	fmt.Fprint(&b, "@@")

	numLines1, numLines2 := h.numLines()

	switch {
	case numLines1 > 1:
		fmt.Fprintf(&b, " -%d,%d", h.fromLine, numLines1)
	case h.fromLine == 1 && numLines1 == 0:
		// Mimic GNU diff -u behavior when adding to an empty file.
		fmt.Fprintf(&b, " -0,0")
	default:
		fmt.Fprintf(&b, " -%d", h.fromLine)
	}

	switch {
	case numLines2 > 1:
		fmt.Fprintf(&b, " +%d,%d", h.toLine, numLines2)
	case h.toLine == 1 && numLines2 == 0:
		// Mimic GNU diff -u behavior when deleting down to an empty file.
		fmt.Fprintf(&b, " +0,0")
	default:
		fmt.Fprintf(&b, " +%d", h.toLine)
	}

	fmt.Fprint(&b, " @@\n")

	for _, ed := range h.edits {
		switch ed.Op {
		case OpDelete:
			fmt.Fprintf(&b, "-%s", ed.Text)
		case OpInsert:
			fmt.Fprintf(&b, "+%s", ed.Text)
		default:
			fmt.Fprintf(&b, " %s", ed.Text)
		}
		if !strings.HasSuffix(ed.Text, "\n") {
			fmt.Fprintf(&b, "\n\\ No newline at end of file\n")
		}
	}

	return b.String()
}

// String renders the diff in the standard unified textual form. The
// output can be fed to tools like patch.
func (u unifiedDiff) String() string {
	if len(u.hunks) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n", u.srcLabel)
	fmt.Fprintf(&b, "+++ %s\n", u.dstLabel)
	for _, hunk := range u.hunks {
		fmt.Fprint(&b, hunk)
	}
	return b.String()
}
