// Package term renders dashboard views for the terminal.
package term

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

const (
	ColorHiGreen   = color.FgHiGreen
	ColorHiCyan    = color.FgHiCyan
	ColorHiRed     = color.FgHiRed
	ColorHiYellow  = color.FgHiYellow
	ColorHiMagenta = color.FgHiMagenta
)

// OutputErrorAndExit prints a formatted error and exits with status 1.
func OutputErrorAndExit(msg string, args ...any) {
	fmt.Fprintln(os.Stderr, color.New(ColorHiRed, color.Bold).Sprint("🚨 "+fmt.Sprintf(msg, args...)))
	os.Exit(1)
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, color.New(color.Bold, ColorHiMagenta).Sprint(title))
}

func errorBanner(w io.Writer, msg string) {
	fmt.Fprintln(w, color.New(color.Bold, ColorHiRed).Sprint("Error! ")+msg)
}

func muted(w io.Writer, msg string) {
	fmt.Fprintln(w, color.New(color.FgWhite).Sprint(msg))
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
