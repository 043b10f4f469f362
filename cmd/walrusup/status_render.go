package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"walrusup/internal/preflight"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

const checkLabelWidth = 24

func renderCheckLine(result preflight.Result, colorize bool) string {
	label, color := "OK", ansiGreen
	if !result.Passed {
		label, color = "FAIL", ansiRed
	}
	status := fmt.Sprintf("[%s]", label)
	if result.Detail != "" {
		status += " " + result.Detail
	}
	line := fmt.Sprintf("  %-*s %s", checkLabelWidth, result.Name+":", status)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
