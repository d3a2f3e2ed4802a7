package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	wikiStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	roleStyle   = lipgloss.NewStyle().Bold(true)
	statusStyle = map[string]lipgloss.Style{
		"passed":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"failed":  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"skipped": faintStyle,
	}
)

func styledStatus(status string) string {
	if style, ok := statusStyle[status]; ok {
		return style.Render(status)
	}
	return status
}

// RenderedLine reports a rendered file and where it went.
func RenderedLine(w io.Writer, path, dest string, sections, steps int) {
	fmt.Fprintf(w, "%s  %s -> %s %s\n", wikiStyle.Render("wiki"), path, dest,
		faintStyle.Render(fmt.Sprintf("(%d sections, %d steps)", sections, steps)))
}

// FailedLine reports a file that could not be rendered.
func FailedLine(w io.Writer, path string, err error) {
	fmt.Fprintln(w, errStyle.Render("fail")+"  "+path+": "+err.Error())
}

func SummaryLine(w io.Writer, count int) {
	fmt.Fprintf(w, "rendered %d files\n", count)
}

// RecordedLine confirms a stored result.
func RecordedLine(w io.Writer, path string, line int, status string) {
	fmt.Fprintf(w, "%s:%d %s\n", path, line, styledStatus(status))
}

// ResultRow prints one aligned row of the results listing.
func ResultRow(w io.Writer, location, status, message string, locWidth, statusWidth int) {
	loc := location + strings.Repeat(" ", locWidth-len(location))
	pad := strings.Repeat(" ", statusWidth-len(status))
	line := loc + "  " + styledStatus(status) + pad
	if message != "" {
		line += "  " + faintStyle.Render(message)
	}
	fmt.Fprintln(w, strings.TrimRight(line, " "))
}

// FormatRow prints a formatting role next to a sample rendering.
func FormatRow(w io.Writer, role, sample string, roleWidth int) {
	fmt.Fprintf(w, "%s%s  %s\n", roleStyle.Render(role), strings.Repeat(" ", roleWidth-len(role)), sample)
}
