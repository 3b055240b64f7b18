package gate

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Rendering styles for the human-readable report.
var (
	readyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))  //nolint:gochecknoglobals // render styles
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))  //nolint:gochecknoglobals // render styles
	nameStyle   = lipgloss.NewStyle().Bold(true)                       //nolint:gochecknoglobals // render styles
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) //nolint:gochecknoglobals // render styles
)

// reasonText maps stop reasons to operator-facing phrasing.
func reasonText(r Reason) string {
	switch r {
	case ReasonAttemptsExhausted:
		return "attempts exhausted"
	case ReasonDeadlineExceeded:
		return "deadline exceeded"
	case ReasonCanceled:
		return "canceled"
	default:
		return string(r)
	}
}

// Render formats the report for a terminal: one line per dependency plus a
// summary. Failed dependencies show their last error so the operator can see
// at a glance which service never came up and why.
func Render(r Report) string {
	var b strings.Builder

	for _, s := range r.Statuses {
		name := nameStyle.Render(s.Dependency)
		if s.OK {
			fmt.Fprintf(&b, "%s %s %s\n",
				readyStyle.Render("✓"),
				name,
				dimStyle.Render(fmt.Sprintf("ready after %d attempt(s), %s", s.Attempt, s.Latency.Round(time.Millisecond))))
			continue
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			failedStyle.Render("✗"),
			name,
			failedStyle.Render(fmt.Sprintf("%s after %d attempt(s): %s", reasonText(s.Reason), s.Attempt, s.Err)))
	}

	elapsed := r.Elapsed.Round(time.Millisecond)
	if r.AllReady {
		fmt.Fprintf(&b, "\n%s\n", readyStyle.Render(fmt.Sprintf("all dependencies ready in %s", elapsed)))
	} else {
		fmt.Fprintf(&b, "\n%s\n", failedStyle.Render(fmt.Sprintf("%d dependency(ies) not ready after %s", len(r.Failed()), elapsed)))
	}

	return b.String()
}
