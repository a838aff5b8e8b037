// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

// Package cli implements the textmend command line tool.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/textmend/go-textmend/textmend"
)

// Version is populated during link time.
var Version = "dev"

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// state carries what every subcommand needs: the engine, tuned from the
// config file and root flags, and the root flag values themselves.
type state struct {
	engine *textmend.Engine

	configPath     string
	timeout        time.Duration
	matchThreshold float64
	matchDistance  int
}

// setup tunes the engine from the config file first, then from any
// explicitly set flags, so flags win over file settings.
func (st *state) setup(cmd *cobra.Command) error {
	if st.configPath != "" {
		if err := loadConfig(st.configPath, st.engine); err != nil {
			return err
		}
	}

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("timeout") {
		st.engine.DiffTimeout = st.timeout
	}
	if flags.Changed("match-threshold") {
		st.engine.MatchThreshold = st.matchThreshold
	}
	if flags.Changed("match-distance") {
		st.engine.MatchDistance = st.matchDistance
	}
	return nil
}

func newRootCmd() *cobra.Command {
	st := &state{engine: textmend.New()}

	root := &cobra.Command{
		Use:           "textmend",
		Short:         "textmend - compare, locate and repair plain text",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&st.configPath, "config", "", "path to a YAML file with engine settings")
	root.PersistentFlags().DurationVar(&st.timeout, "timeout", time.Second, "maximum time to spend diffing, 0 means unlimited")
	root.PersistentFlags().Float64Var(&st.matchThreshold, "match-threshold", 0.5, "how sloppy a fuzzy match may be, 0.0 (exact) to 1.0 (anything)")
	root.PersistentFlags().IntVar(&st.matchDistance, "match-distance", 1000, "how far from the expected location a fuzzy match may stray")

	root.AddCommand(newDiffCmd(st))
	root.AddCommand(newMatchCmd(st))
	root.AddCommand(newPatchCmd(st))
	root.AddCommand(newStatsCmd(st))

	return root
}
