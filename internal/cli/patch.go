// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newPatchCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Create and apply fuzzy patches",
	}
	cmd.AddCommand(newPatchMakeCmd(st))
	cmd.AddCommand(newPatchApplyCmd(st))
	return cmd
}

var patchMakeExample = `
 * Write the patches that turn old.txt into new.txt
 textmend patch make old.txt new.txt -o changes.patch
 `

func newPatchMakeCmd(st *state) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:     "make <source> <target>",
		Short:   "Compute patches that turn one text into another",
		Example: patchMakeExample,
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

			out := st.engine.PatchesToText(st.engine.MakePatches(text1, text2))
			if outPath == "" {
				fmt.Print(out)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
				return errors.Wrapf(err, "writing %s", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the patches to this file instead of stdout")

	return cmd
}

var patchApplyExample = `
 * Apply previously computed patches to a drifted copy
 textmend patch apply changes.patch document.txt > repaired.txt
 `

func newPatchApplyCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apply <patchfile> <target>",
		Short:   "Apply patches to a text, tolerating drift",
		Example: patchApplyExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patchText, err := readText(args[0])
			if err != nil {
				return err
			}
			target, err := readText(args[1])
			if err != nil {
				return err
			}

			patches, err := st.engine.PatchesFromText(patchText)
			if err != nil {
				return errors.Wrap(err, "parsing patches")
			}

			result, applied := st.engine.Apply(patches, target)
			fmt.Print(result)

			failed := 0
			for i, ok := range applied {
				if !ok {
					failed++
					Warnf("hunk #%d failed to apply\n", i+1)
				}
			}
			if failed > 0 {
				return errors.Errorf("%d of %d hunks failed", failed, len(applied))
			}
			return nil
		},
	}
	return cmd
}
