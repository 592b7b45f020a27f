package gate

import (
	"fmt"

	"github.com/indiesemi/gate2jira/internal/models"
)

// Layout names the table positions a gate sheet keeps its data in.
// Positions are 0-based table coordinates (header row already dropped).
type Layout struct {
	TitleRow     int `yaml:"title_row" json:"title_row"`
	TitleCol     int `yaml:"title_col" json:"title_col"`
	FirstDataRow int `yaml:"first_data_row" json:"first_data_row"`

	GateNum  int `yaml:"gate_num" json:"gate_num"`
	Category int `yaml:"category" json:"category"`
	Task     int `yaml:"task" json:"task"`
	Template int `yaml:"template" json:"template"`
	Results  int `yaml:"results" json:"results"`
	Evidence int `yaml:"evidence" json:"evidence"`
	Risk     int `yaml:"risk" json:"risk"`
}

// DefaultLayout is the column layout of the gate checklist template.
// Template and evidence hyperlinks sit on the same cells as their text.
func DefaultLayout() Layout {
	return Layout{
		TitleRow:     2,
		TitleCol:     3,
		FirstDataRow: 3,
		GateNum:      1,
		Category:     2,
		Task:         3,
		Template:     4,
		Results:      35,
		Evidence:     36,
		Risk:         37,
	}
}

// Validate rejects negative positions.
func (l Layout) Validate() error {
	positions := map[string]int{
		"title_row":      l.TitleRow,
		"title_col":      l.TitleCol,
		"first_data_row": l.FirstDataRow,
		"gate_num":       l.GateNum,
		"category":       l.Category,
		"task":           l.Task,
		"template":       l.Template,
		"results":        l.Results,
		"evidence":       l.Evidence,
		"risk":           l.Risk,
	}
	for name, v := range positions {
		if v < 0 {
			return fmt.Errorf("layout %s: negative position %d", name, v)
		}
	}
	return nil
}

func (l Layout) columns() []int {
	return []int{l.GateNum, l.Category, l.Task, l.Template, l.Results, l.Evidence, l.Risk}
}

// Mapper turns gate tables into epic and task payloads.
type Mapper struct {
	Layout  Layout
	BaseURL string // host relative "../" hyperlinks resolve against
	DueDate string // YYYY-MM-DD, empty to leave unset
}

// Map builds the plan for one gate table. Rows never fail individually:
// missing content degrades to placeholder text. Rows whose layout columns
// are all blank are spacers and produce no task, so the task count can be
// lower than the number of data rows.
func (m Mapper) Map(t *Table, projectKey string) (*models.Plan, error) {
	if t == nil {
		return nil, fmt.Errorf("map gate: %w", ErrSheetNotFound)
	}

	title := ContentExists(t.Cell(m.Layout.TitleRow, m.Layout.TitleCol).Text)
	plan := &models.Plan{
		Gate: t.Name,
		Epic: models.Epic{
			ProjectKey: projectKey,
			Summary:    EpicSummary(t.Name, title),
			DueDate:    m.DueDate,
		},
	}

	for row := m.Layout.FirstDataRow; row < t.Len(); row++ {
		if m.blankRow(t, row) {
			continue
		}
		plan.Tasks = append(plan.Tasks, m.mapRow(t, row, projectKey))
	}

	return plan, nil
}

// EpicSummary composes "<gate> - <title>".
func EpicSummary(gateName, title string) string {
	return gateName + " - " + title
}

func (m Mapper) blankRow(t *Table, row int) bool {
	for _, col := range m.Layout.columns() {
		if !t.Cell(row, col).Blank() {
			return false
		}
	}
	return true
}

func (m Mapper) mapRow(t *Table, row int, projectKey string) models.Task {
	l := m.Layout
	gateNum := orMissing(t.Cell(row, l.GateNum).Text)
	category := orMissing(t.Cell(row, l.Category).Text)

	description := Describe(
		ContentExists(t.Cell(row, l.Task).Text),
		LinkField(t.Cell(row, l.Template), m.BaseURL),
		ContentExists(t.Cell(row, l.Results).Text),
		LinkField(t.Cell(row, l.Evidence), m.BaseURL),
	)

	return models.Task{
		GateNum:     gateNum,
		Category:    category,
		ProjectKey:  projectKey,
		Summary:     gateNum + " " + category,
		Description: description,
		DueDate:     m.DueDate,
		Risk:        NormalizeRisk(t.Cell(row, l.Risk).Text),
		Row:         SheetRow(row),
	}
}
