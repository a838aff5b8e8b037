// Copyright (c) 2024-2026 The go-textmend authors. All rights reserved.
// https://github.com/textmend/go-textmend
// See the included LICENSE file for license details.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/textmend/go-textmend/textmend"
)

var (
	colorRed    = color.New(color.FgRed)
	colorGreen  = color.New(color.FgGreen)
	colorYellow = color.New(color.FgYellow)
)

// Errorf reports an error to stderr.
func Errorf(msg string, v ...interface{}) {
	fmt.Fprintf(color.Error, "%s %s", colorRed.Sprint("⨯"), fmt.Sprintf(msg, v...))
}

// Warnf reports a warning to stderr.
func Warnf(msg string, v ...interface{}) {
	fmt.Fprintf(color.Error, "%s %s", colorYellow.Sprint("•"), fmt.Sprintf(msg, v...))
}

// renderPretty formats an edit script for a terminal, insertions in
// green and deletions in red. Unlike the library's PrettyText this path
// honors NO_COLOR and drops the escapes when piped.
func renderPretty(edits []textmend.Edit) string {
	var b strings.Builder
	for _, ed := range edits {
		switch ed.Op {
		case textmend.OpInsert:
			b.WriteString(colorGreen.Sprint(ed.Text))
		case textmend.OpDelete:
			b.WriteString(colorRed.Sprint(ed.Text))
		default:
			b.WriteString(ed.Text)
		}
	}
	return b.String()
}

// readText loads one input argument: the contents of the named file, or
// stdin when the argument is "-".
func readText(arg string) (string, error) {
	if arg == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "reading stdin")
		}
		return string(b), nil
	}

	b, err := os.ReadFile(arg)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", arg)
	}
	return string(b), nil
}

// readTextOrLiteral treats arg as a file when one exists at that path,
// and as literal text otherwise.
func readTextOrLiteral(arg string) (string, error) {
	if arg == "-" {
		return readText(arg)
	}
	if _, err := os.Stat(arg); err == nil {
		return readText(arg)
	}
	return arg, nil
}
