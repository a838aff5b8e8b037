// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/textmend/go-textmend/textmend"
)

var diffExample = `
 * Compare two files, colored output on a terminal
 textmend diff old.txt new.txt

 * Unified diff with one line of context and custom labels
 textmend diff --format unified --context 1 --label a/cfg --label b/cfg old.txt new.txt

 * Compare stdin against a file, as a compact delta
 textmend diff --format delta - new.txt
 `

func newDiffCmd(st *state) *cobra.Command {
	var (
		format       string
		lineMode     bool
		noSemantic   bool
		efficiency   bool
		contextLines int
		labels       []string
	)

	cmd := &cobra.Command{
		Use:     "diff <source> <target>",
		Short:   "Compare two texts",
		Example: diffExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text1, err := readText(args[0])
			if err != nil {
				return err
			}
			text2, err := readText(args[1])
			if err != nil {
				return err
			}

			if format == "" {
				format = "unified"
				if isatty.IsTerminal(os.Stdout.Fd()) {
					format = "pretty"
				}
			}

			if format == "unified" {
				opts := []textmend.UnifiedOption{
					textmend.UnifiedLabels(args[0], args[1]),
					textmend.UnifiedContextLines(contextLines),
				}
				switch len(labels) {
				case 1:
					opts[0] = textmend.UnifiedLabels(labels[0], args[1])
				case 2:
					opts[0] = textmend.UnifiedLabels(labels[0], labels[1])
				}
				fmt.Print(st.engine.Unified(text1, text2, opts...))
				return nil
			}

			edits := st.engine.Diff(text1, text2, lineMode)
			if !noSemantic {
				edits = st.engine.DiffCleanupSemantic(edits)
			}
			if efficiency {
				edits = st.engine.DiffCleanupEfficiency(edits)
			}

			switch format {
			case "pretty":
				fmt.Fprint(color.Output, renderPretty(edits))
			case "html":
				fmt.Print(st.engine.PrettyHTML(edits))
			case "text":
				fmt.Print(st.engine.PrettyText(edits))
			case "delta":
				fmt.Println(st.engine.ToDelta(edits))
			default:
				return errors.Errorf("unknown format %q", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: unified, pretty, html, delta or text (default: pretty on a terminal, unified otherwise)")
	cmd.Flags().BoolVar(&lineMode, "line-mode", false, "diff line by line first, then refine within changed lines")
	cmd.Flags().BoolVar(&noSemantic, "no-semantic", false, "skip the semantic cleanup pass")
	cmd.Flags().BoolVar(&efficiency, "efficiency", false, "run the efficiency cleanup pass as well")
	cmd.Flags().IntVar(&contextLines, "context", textmend.DefaultContextLines, "unchanged lines of context around unified hunks")
	cmd.Flags().StringArrayVar(&labels, "label", nil, "label to use instead of a file name in unified headers (repeat for the target)")

	return cmd
}
