package models

// IssueType represents a Jira issue type name
type IssueType string

const (
	IssueTypeEpic IssueType = "Epic"
	IssueTypeTask IssueType = "Task"
)

// RiskLevel represents a value of the "Risk level" select field.
// The zero value means no risk is set and the field is omitted.
type RiskLevel string

const (
	RiskNone   RiskLevel = ""
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// IsSet reports whether the risk level carries a value
func (r RiskLevel) IsSet() bool {
	return r != RiskNone
}

// FieldIDs holds the service-assigned ids of the custom fields a run needs
type FieldIDs struct {
	EpicLink string `json:"epic_link"`
	EpicName string `json:"epic_name"`
	Risk     string `json:"risk"`
}

// Complete reports whether all three ids are known
func (f FieldIDs) Complete() bool {
	return f.EpicLink != "" && f.EpicName != "" && f.Risk != ""
}

// Epic is the parent record created once per gate sheet
type Epic struct {
	ProjectKey string `json:"project_key"`
	Summary    string `json:"summary"`
	DueDate    string `json:"due_date,omitempty"`
}

// Task is the child record created for every checklist row
type Task struct {
	GateNum     string    `json:"gate_num"`
	Category    string    `json:"category"`
	ProjectKey  string    `json:"project_key"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date,omitempty"`
	Risk        RiskLevel `json:"risk,omitempty"`
	Row         int       `json:"row"` // 1-based worksheet row the task came from
}

// Plan is the mapped content of one gate sheet
type Plan struct {
	Gate  string `json:"gate"`
	Epic  Epic   `json:"epic"`
	Tasks []Task `json:"tasks"`
}

// Fields builds the "fields" object of the epic create request
func (e Epic) Fields(ids FieldIDs) map[string]any {
	fields := map[string]any{
		"project":   map[string]string{"key": e.ProjectKey},
		"summary":   e.Summary,
		"issuetype": map[string]string{"name": string(IssueTypeEpic)},
	}
	if ids.EpicName != "" {
		fields[ids.EpicName] = e.Summary
	}
	if e.DueDate != "" {
		fields["duedate"] = e.DueDate
	}
	return fields
}

// Fields builds the "fields" object of a task create request linked to epicKey.
// The risk field is left out entirely when no risk level is set.
func (t Task) Fields(ids FieldIDs, epicKey string) map[string]any {
	fields := map[string]any{
		"project":     map[string]string{"key": t.ProjectKey},
		"summary":     t.Summary,
		"description": t.Description,
		"issuetype":   map[string]string{"name": string(IssueTypeTask)},
	}
	if ids.EpicLink != "" && epicKey != "" {
		fields[ids.EpicLink] = epicKey
	}
	if t.DueDate != "" {
		fields["duedate"] = t.DueDate
	}
	if t.Risk.IsSet() && ids.Risk != "" {
		fields[ids.Risk] = map[string]string{"value": string(t.Risk)}
	}
	return fields
}
