package tui

import (
	"io"
	"os"
	"runtime"
	"strings"
)

// OutputMode selects how a command reports progress.
type OutputMode int

const (
	// ModeTUI renders an interactive bubbletea table.
	ModeTUI OutputMode = iota
	// ModePlain prints one line per event. Scheduled runs land here.
	ModePlain
	// ModeJSON suppresses progress and emits a structured result.
	ModeJSON
)

// DetectMode picks the output mode for a run. JSON wins over everything,
// --no-progress forces plain lines, and otherwise the terminal decides:
// CI runners and redirected output get plain lines, a real terminal gets
// the TUI.
func DetectMode(out io.Writer, noProgress, jsonOutput bool) OutputMode {
	switch {
	case jsonOutput:
		return ModeJSON
	case noProgress:
		return ModePlain
	case os.Getenv("CI") != "":
		return ModePlain
	case !isInteractive(out):
		return ModePlain
	default:
		return ModeTUI
	}
}

// isInteractive reports whether out is a terminal that can handle cursor
// control sequences.
func isInteractive(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && !strings.EqualFold(term, "dumb")
}
