// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package main

import (
	"os"

	"github.com/textmend/go-textmend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
