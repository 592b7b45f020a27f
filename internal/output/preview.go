package output

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/indiesemi/gate2jira/internal/models"
	"golang.org/x/term"
)

const (
	defaultPreviewWidth = 80
	minPreviewWidth     = 40
	maxPreviewWidth     = 120
)

// PreviewWidth is the wrap width for plan previews: the terminal width,
// then $COLUMNS, clamped to a readable range.
func PreviewWidth() int {
	width := defaultPreviewWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	} else if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		width = cols
	}
	return min(max(width, minPreviewWidth), maxPreviewWidth)
}

// RenderPlan renders the plan preview with glamour. Output that is not a
// terminal gets the unstyled "notty" theme.
func RenderPlan(plan *models.Plan, width int) (string, error) {
	style := glamour.WithAutoStyle()
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		style = glamour.WithStandardStyle("notty")
	}
	return renderMarkdown(PlanMarkdown(plan), width, style)
}

func renderMarkdown(text string, width int, style glamour.TermRendererOption) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	renderer, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(max(width, minPreviewWidth)),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n"), nil
}

// PlanMarkdown renders a mapped plan as markdown for preview.
func PlanMarkdown(plan *models.Plan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", plan.Epic.Summary)
	fmt.Fprintf(&sb, "Project **%s**", plan.Epic.ProjectKey)
	if plan.Epic.DueDate != "" {
		fmt.Fprintf(&sb, ", due %s", plan.Epic.DueDate)
	}
	fmt.Fprintf(&sb, ", %d task(s)\n", len(plan.Tasks))

	for _, t := range plan.Tasks {
		fmt.Fprintf(&sb, "\n## %s\n\n", t.Summary)
		risk := "none"
		if t.Risk.IsSet() {
			risk = string(t.Risk)
		}
		fmt.Fprintf(&sb, "_Row %d, risk %s_\n\n", t.Row, risk)
		sb.WriteString(jiraToMarkdown(t.Description))
		sb.WriteString("\n")
	}
	return sb.String()
}

// jiraToMarkdown converts the wiki markup the mapper emits (*bold* labels
// and [text|url] links) to markdown.
func jiraToMarkdown(s string) string {
	var sb strings.Builder
	for len(s) > 0 {
		switch {
		case s[0] == '*':
			// Bold spans close on the same line; a lone '*' stays literal.
			end := strings.IndexByte(s[1:], '*')
			if nl := strings.IndexByte(s[1:], '\n'); end < 0 || (nl >= 0 && nl < end) {
				sb.WriteString(`\*`)
				s = s[1:]
				continue
			}
			sb.WriteString("**" + s[1:end+1] + "**")
			s = s[end+2:]
		case s[0] == '[':
			end := strings.IndexByte(s, ']')
			text, url, ok := strings.Cut(s[1:max(end, 1)], "|")
			if end < 0 || !ok {
				sb.WriteByte(s[0])
				s = s[1:]
				continue
			}
			fmt.Fprintf(&sb, "[%s](%s)", text, url)
			s = s[end+1:]
		default:
			next := strings.IndexAny(s, "*[")
			if next < 0 {
				next = len(s)
			}
			sb.WriteString(s[:next])
			s = s[next:]
		}
	}
	return sb.String()
}
