package gate

import (
	"strings"
	"testing"

	"github.com/indiesemi/gate2jira/internal/models"
)

const testBaseURL = "https://jira.indiesemi.com:8443"

func TestContentExists(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "n/a"},
		{"   ", "n/a"},
		{"\t\n", "n/a"},
		{"nan", "n/a"},
		{"NaN", "n/a"},
		{"NAN", "n/a"},
		{" nan ", "n/a"},
		{"Submit doc", "Submit doc"},
		{"  Submit doc  ", "Submit doc"},
		{"banana", "banana"},
		{"n/a", "n/a"},
		{"0", "0"},
	}
	for _, tt := range tests {
		if got := ContentExists(tt.input); got != tt.want {
			t.Errorf("ContentExists(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base   string
		target string
		want   string
	}{
		{testBaseURL, "../docs/template.docx", testBaseURL + "/docs/template.docx"},
		{testBaseURL + "/", "../docs/template.docx", testBaseURL + "/docs/template.docx"},
		{testBaseURL, "../../up/two.docx", testBaseURL + "/../up/two.docx"},
		{testBaseURL, "https://example.com/x", "https://example.com/x"},
		{testBaseURL, "./docs/x.docx", "./docs/x.docx"},
		{testBaseURL, "..docs", "..docs"},
	}
	for _, tt := range tests {
		if got := ResolveURL(tt.base, tt.target); got != tt.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.target, got, tt.want)
		}
	}
}

func TestLinkField(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"relative link", Cell{Text: "Template A", Link: "../docs/template.docx"}, "[Template A|https://jira.indiesemi.com:8443/docs/template.docx]"},
		{"absolute link", Cell{Text: " Checklist ", Link: "https://wiki/checklist"}, "[Checklist|https://wiki/checklist]"},
		{"link without text", Cell{Link: "https://wiki/checklist"}, "[https://wiki/checklist|https://wiki/checklist]"},
		{"plain text", Cell{Text: "See link"}, "See link"},
		{"empty", Cell{}, "n/a"},
		{"nan text", Cell{Text: "nan"}, "n/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinkField(tt.cell, testBaseURL); got != tt.want {
				t.Errorf("LinkField(%+v) = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestNormalizeRisk(t *testing.T) {
	tests := []struct {
		input string
		want  models.RiskLevel
	}{
		{"Low/No Risk", models.RiskLow},
		{"Low", models.RiskLow},
		{"Medium", models.RiskMedium},
		{"High", models.RiskHigh},
		{" High ", models.RiskHigh},
		{"", models.RiskNone},
		{"nan", models.RiskNone},
		{"high", models.RiskNone},
		{"Critical", models.RiskNone},
	}
	for _, tt := range tests {
		if got := NormalizeRisk(tt.input); got != tt.want {
			t.Errorf("NormalizeRisk(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDescribeAlwaysFourSections(t *testing.T) {
	inputs := [][4]string{
		{"Submit doc", "Template", "Done", "See link"},
		{"n/a", "n/a", "n/a", "n/a"},
		{"multi\nline", "[A|b]", "", "x"},
	}
	labels := []string{LabelTask, LabelTemplate, LabelResults, LabelEvidence}

	for _, in := range inputs {
		got := Describe(in[0], in[1], in[2], in[3])
		if !strings.HasPrefix(got, LabelTask) {
			t.Errorf("Describe%v does not start with task label: %q", in, got)
		}
		last := -1
		for i, label := range labels {
			idx := strings.Index(got, label)
			if idx <= last {
				t.Errorf("Describe%v: label %q out of order in %q", in, label, got)
			}
			last = idx
			if i > 0 && !strings.Contains(got, sectionDivider+label) {
				t.Errorf("Describe%v: label %q not preceded by a blank line", in, label)
			}
		}
	}
}

func TestDescribeExact(t *testing.T) {
	got := Describe("Submit doc", "n/a", "Done", "See link")
	want := "*Task:* Submit doc\n\n*Template+Guidelines:* n/a\n\n*Results:* Done\n\n*Links to Evidence:* See link"
	if got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
}
