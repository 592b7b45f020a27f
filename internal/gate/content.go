package gate

import (
	"strings"

	"github.com/indiesemi/gate2jira/internal/models"
)

// NotAvailable replaces cell text that carries no content.
const NotAvailable = "n/a"

// missingText is what an empty gate number or category degrades to.
const missingText = "nan"

// ContentExists returns the trimmed cell text, or NotAvailable when the cell
// is empty, whitespace only, or holds a literal "nan" in any case.
func ContentExists(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "nan") {
		return NotAvailable
	}
	return trimmed
}

// orMissing trims s, substituting missingText for an empty cell.
func orMissing(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return missingText
	}
	return trimmed
}

// relativePrefix marks hyperlink targets relative to the Jira host.
const relativePrefix = "../"

// ResolveURL rewrites a relative hyperlink target onto baseURL.
// Targets without the "../" prefix are returned unchanged.
func ResolveURL(baseURL, target string) string {
	rest, ok := strings.CutPrefix(target, relativePrefix)
	if !ok {
		return target
	}
	return strings.TrimRight(baseURL, "/") + "/" + rest
}

// LinkField renders a cell as Jira wiki markup. A hyperlinked cell becomes
// "[text|url]"; any other cell goes through ContentExists.
func LinkField(c Cell, baseURL string) string {
	if c.Link == "" {
		return ContentExists(c.Text)
	}
	url := ResolveURL(baseURL, c.Link)
	text := strings.TrimSpace(c.Text)
	if text == "" {
		text = url
	}
	return "[" + text + "|" + url + "]"
}

var riskLevels = map[string]models.RiskLevel{
	"Low/No Risk": models.RiskLow,
	"Low":         models.RiskLow,
	"Medium":      models.RiskMedium,
	"High":        models.RiskHigh,
}

// NormalizeRisk maps spreadsheet risk text onto a risk level.
// Unrecognized or empty text yields models.RiskNone.
func NormalizeRisk(s string) models.RiskLevel {
	return riskLevels[strings.TrimSpace(s)]
}

// Section labels of a task description, in order.
const (
	LabelTask      = "*Task:* "
	LabelTemplate  = "*Template+Guidelines:* "
	LabelResults   = "*Results:* "
	LabelEvidence  = "*Links to Evidence:* "
	sectionDivider = "\n\n"
)

// Describe composes the four-section task description.
func Describe(task, template, results, evidence string) string {
	return strings.Join([]string{
		LabelTask + task,
		LabelTemplate + template,
		LabelResults + results,
		LabelEvidence + evidence,
	}, sectionDivider)
}
