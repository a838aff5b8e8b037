// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newStatsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <source> <target>",
		Short: "Summarize the differences between two texts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text1, err := readText(args[0])
			if err != nil {
				return err
			}
			text2, err := readText(args[1])
			if err != nil {
				return err
			}

			edits := st.engine.Diff(text1, text2, true)
			edits = st.engine.DiffCleanupSemantic(edits)

			var spans, bytes [3]int
			for _, ed := range edits {
				i := int(ed.Op) + 1
				spans[i]++
				bytes[i] += len(ed.Text)
			}

			w := max(runewidth.StringWidth(args[0]), len("source")) + 3
			fmt.Fprintf(color.Output, "  %s%s\n", pad("source", w), "target")
			fmt.Fprintf(color.Output, "  %s%s\n\n", pad(args[0], w), args[1])

			fmt.Fprintf(color.Output, "  %-8s %6s %8s\n", "op", "spans", "bytes")
			for i, name := range []string{"delete", "equal", "insert"} {
				fmt.Fprintf(color.Output, "  %-8s %6d %8d\n", name, spans[i], bytes[i])
			}
			fmt.Fprintf(color.Output, "\n  distance %d\n", st.engine.Levenshtein(edits))

			return nil
		},
	}
	return cmd
}

// pad right-pads s with spaces to the given display width, counting
// wide characters properly.
func pad(s string, width int) string {
	if n := width - runewidth.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
