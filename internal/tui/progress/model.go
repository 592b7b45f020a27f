// Package progress shows a running submission: a spinner and bar while
// issues are created, then one line per task.
package progress

import (
	"context"
	"fmt"
	"strings"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/indiesemi/gate2jira/internal/importer"
	"github.com/indiesemi/gate2jira/internal/models"
	"github.com/indiesemi/gate2jira/internal/output"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// SubmitFunc runs one submission, reporting each create call to observe.
type SubmitFunc func(ctx context.Context, observe importer.Observer) (*importer.Result, error)

// EventMsg carries one submission event.
type EventMsg importer.Event

// DoneMsg ends the submission.
type DoneMsg struct {
	Result *importer.Result
	Err    error
}

// Model is the Bubble Tea model of the progress view.
type Model struct {
	plan   *models.Plan
	submit SubmitFunc
	ctx    context.Context
	cancel context.CancelFunc
	msgs   chan tea.Msg

	spinner spinner.Model
	bar     progressbar.Model
	width   int

	done  int
	lines []string

	Result   *importer.Result
	Err      error
	Finished bool
}

// NewModel creates a progress view for plan. Cancelling ctx, or pressing
// ctrl+c, stops the submission before its next create call.
func NewModel(ctx context.Context, plan *models.Plan, submit SubmitFunc) Model {
	ctx, cancel := context.WithCancel(ctx)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		plan:    plan,
		submit:  submit,
		ctx:     ctx,
		cancel:  cancel,
		msgs:    make(chan tea.Msg, len(plan.Tasks)+2),
		spinner: sp,
		bar:     progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithWidth(40)),
		width:   80,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start(), m.wait())
}

// start runs the submission; events and the final DoneMsg arrive through
// m.msgs.
func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		res, err := m.submit(m.ctx, func(ev importer.Event) {
			m.msgs <- EventMsg(ev)
		})
		m.msgs <- DoneMsg{Result: res, Err: err}
		return nil
	}
}

func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		return <-m.msgs
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.Finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		m.apply(importer.Event(msg))
		return m, m.wait()

	case DoneMsg:
		m.Result, m.Err, m.Finished = msg.Result, msg.Err, true
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) apply(ev importer.Event) {
	switch ev.Kind {
	case importer.EventEpicCreated:
		m.lines = append(m.lines, output.CreatedLine(ev.Key, ev.Epic.Summary))
	case importer.EventTaskCreated:
		m.done = ev.Index
		m.lines = append(m.lines, output.CreatedLine(ev.Key, ev.Task.Summary))
	case importer.EventTaskFailed:
		m.done = ev.Index
		m.lines = append(m.lines, output.FailedLine(*ev.Task, ev.Err))
	}
}

// Lines returns the result lines rendered so far.
func (m Model) Lines() []string {
	return m.lines
}

// View implements tea.Model
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s → %s", m.plan.Epic.Summary, m.plan.Epic.ProjectKey)))
	sb.WriteString("\n\n")

	for _, line := range m.lines {
		sb.WriteString(output.Truncate(line, m.width))
		sb.WriteString("\n")
	}

	total := len(m.plan.Tasks)
	if !m.Finished {
		ratio := 0.0
		if total > 0 {
			ratio = float64(m.done) / float64(total)
		}
		fmt.Fprintf(&sb, "\n%s %d/%d tasks  %s\n", m.spinner.View(), m.done, total, m.bar.ViewAs(ratio))
		sb.WriteString(subtleStyle.Render("ctrl+c stops after the current request"))
		sb.WriteString("\n")
		return sb.String()
	}

	if m.Err != nil {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(m.Err.Error()))
		sb.WriteString("\n")
	}
	if m.Result != nil {
		fmt.Fprintf(&sb, "\n%d created, %d failed\n", len(m.Result.Created()), len(m.Result.Failed()))
	}
	return sb.String()
}

// Run shows the progress view until the submission ends.
func Run(ctx context.Context, plan *models.Plan, submit SubmitFunc) (*importer.Result, error) {
	final, err := tea.NewProgram(NewModel(ctx, plan, submit)).Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	m := final.(Model)
	return m.Result, m.Err
}
