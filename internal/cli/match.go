// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var matchExample = `
 * Find "lazy dog" in a file, expected near byte 120
 textmend match document.txt "lazy dog" 120

 * Match against literal text
 textmend match "the quick brown fox" quikc 4
 `

func newMatchCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "match <text|file> <pattern> <location>",
		Short:   "Fuzzily locate a pattern in a text",
		Example: matchExample,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readTextOrLiteral(args[0])
			if err != nil {
				return err
			}
			pattern := args[1]
			loc := cast.ToInt(args[2])

			if len(pattern) > st.engine.MatchMaxBits {
				return errors.Errorf("pattern longer than %d bytes", st.engine.MatchMaxBits)
			}

			pos := st.engine.Match(text, pattern, loc)
			if pos == -1 {
				return errors.New("no match found")
			}
			fmt.Println(pos)
			return nil
		},
	}
	return cmd
}
