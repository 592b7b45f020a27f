// Package output provides styled terminal output helpers (success, error,
// warning, plan and result formatting) using lipgloss.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/indiesemi/gate2jira/internal/jira"
	"github.com/indiesemi/gate2jira/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	riskStyles   = map[models.RiskLevel]lipgloss.Style{
		models.RiskLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.RiskMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.RiskHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Truncate shortens s to width display cells, ANSI aware.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// FormatRisk renders a risk level, or a dash when unset.
func FormatRisk(r models.RiskLevel) string {
	if !r.IsSet() {
		return subtleStyle.Render("[-]")
	}
	style, ok := riskStyles[r]
	if !ok {
		return fmt.Sprintf("[%s]", r)
	}
	return style.Render(fmt.Sprintf("[%s]", r))
}

// FormatProject formats a project as "KEY  Name".
func FormatProject(p jira.Project) string {
	return fmt.Sprintf("%s  %s", keyStyle.Render(p.Key), p.Name)
}

// FormatUser formats the verified account.
func FormatUser(u *jira.User) string {
	if u == nil {
		return ""
	}
	if u.DisplayName == "" {
		return titleStyle.Render(u.Name)
	}
	return fmt.Sprintf("%s (%s)", titleStyle.Render(u.DisplayName), u.Name)
}

// TaskLine formats a planned task on one line, cut to width cells.
// e.g., "row 5  1.1 Docs  [Medium]"
func TaskLine(t models.Task, width int) string {
	line := fmt.Sprintf("%s  %s  %s",
		subtleStyle.Render(fmt.Sprintf("row %d", t.Row)),
		t.Summary,
		FormatRisk(t.Risk))
	return Truncate(line, width)
}

// CreatedLine formats a created issue: "✓ KEY summary".
func CreatedLine(key, summary string) string {
	return successStyle.Render("✓ ") + keyStyle.Render(key) + " " + summary
}

// FailureDetail describes a failed create call for an operator: the HTTP
// status and response body when Jira answered, the error text otherwise.
func FailureDetail(err error) string {
	var se *jira.StatusError
	if errors.As(err, &se) {
		body := strings.TrimSpace(se.Body)
		if body == "" {
			return fmt.Sprintf("status %d", se.StatusCode)
		}
		return fmt.Sprintf("status %d: %s", se.StatusCode, body)
	}
	return err.Error()
}

// FailedLine formats a failed task: "✗ 1.2 Review: status 400: ...".
func FailedLine(t models.Task, err error) string {
	return errorStyle.Render("✗ ") + t.Summary + ": " + FailureDetail(err)
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nTASKS:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// BulletList formats items as a bulleted list with optional indentation
func BulletList(items []string, indent int) []string {
	prefix := strings.Repeat(" ", indent)
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = prefix + "- " + item
	}
	return result
}
