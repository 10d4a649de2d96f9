package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// FormatError renders err for the terminal.
// Without debug only the first line of the message is shown.
// With debug the full message is followed by every wrapped cause.
func FormatError(err error, debug bool) string {
	if err == nil {
		return ""
	}
	if !debug {
		return "Error: " + oneLine(err.Error())
	}

	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(strings.TrimSpace(err.Error()))
	for _, cause := range causes(err) {
		fmt.Fprintf(&b, "\n  caused by (%T): %s", cause, strings.TrimSpace(cause.Error()))
	}
	return b.String()
}

// PrintError writes the formatted error to w.
func PrintError(w io.Writer, err error, debug bool) {
	_, _ = fmt.Fprintln(w, errorStyle.Render(FormatError(err, debug)))
}

// causes walks the wrap chain depth first, skipping err itself.
func causes(err error) []error {
	var out []error
	var walk func(e error)
	walk = func(e error) {
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				out = append(out, inner)
				walk(inner)
			}
		default:
			if inner := errors.Unwrap(e); inner != nil {
				out = append(out, inner)
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}

func oneLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
