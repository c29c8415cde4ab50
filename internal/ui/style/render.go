package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(Slate)
	successStyle = lipgloss.NewStyle().Foreground(Green)
	errorStyle   = lipgloss.NewStyle().Foreground(Red)
	warnStyle    = lipgloss.NewStyle().Foreground(Amber)
)

// Success renders a line prefixed with the check icon.
func Success(format string, a ...any) string {
	return successStyle.Render(Check) + " " + fmt.Sprintf(format, a...)
}

// Failure renders a line prefixed with the cross icon.
func Failure(format string, a ...any) string {
	return errorStyle.Render(Cross) + " " + fmt.Sprintf(format, a...)
}

// Warn renders a line prefixed with the warning icon.
func Warn(format string, a ...any) string {
	return warnStyle.Render(Warning) + " " + fmt.Sprintf(format, a...)
}

// Pair is one line of KeyValues output.
type Pair struct {
	key   string
	value string
}

// KV creates a key-value pair.
func KV(key, value string) Pair {
	return Pair{key: key, value: value}
}

// KeyValues renders aligned "key: value" lines, each ending with a newline.
func KeyValues(indent string, pairs ...Pair) string {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p.key))
	}

	var sb strings.Builder
	for _, p := range pairs {
		label := fmt.Sprintf("%-*s", width+1, p.key+":")
		sb.WriteString(indent + labelStyle.Render(label) + " " + p.value + "\n")
	}
	return sb.String()
}

// Table renders rows under a header row with rounded borders.
func Table(headers []string, rows [][]string) string {
	headerStyle := Header.Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Slate)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}
