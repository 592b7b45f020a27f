package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/indiesemi/gate2jira/internal/jira"
	"github.com/indiesemi/gate2jira/internal/models"
)

// EventKind identifies a submission event.
type EventKind int

const (
	EventEpicCreated EventKind = iota
	EventTaskCreated
	EventTaskFailed
)

// Event reports the outcome of one create call.
type Event struct {
	Kind  EventKind
	Key   string       // created issue key, empty on failure
	Epic  models.Epic  // set for EventEpicCreated
	Task  *models.Task // set for task events
	Err   error        // set for EventTaskFailed
	Index int          // 1-based task position
	Total int          // number of tasks in the plan
}

// Observer receives submission events in order. It may be nil.
type Observer func(Event)

// Outcome is the result of one task submission.
type Outcome struct {
	Task models.Task
	Key  string
	Err  error
}

// OK reports whether the task was created.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Result summarizes a submission.
type Result struct {
	Gate        string
	EpicKey     string
	EpicSummary string
	Outcomes    []Outcome
}

// Created returns the tasks that were created.
func (r *Result) Created() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the tasks whose creation failed.
func (r *Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Creator creates one issue.
type Creator interface {
	CreateIssue(ctx context.Context, fields map[string]any) (*jira.CreatedIssue, error)
}

// Submitter posts a plan: the epic first, then every task in row order,
// one call at a time.
type Submitter struct {
	Creator Creator
	IDs     models.FieldIDs
}

// Submit creates the epic and its tasks. A failed epic returns an
// *EpicError and nothing else is posted. Failed tasks are recorded in the
// result and do not stop later tasks. When ctx is canceled between calls
// the partial result is returned with the context error.
func (s *Submitter) Submit(ctx context.Context, plan *models.Plan, observe Observer) (*Result, error) {
	if observe == nil {
		observe = func(Event) {}
	}

	// A call already sent runs to completion; cancellation only stops the
	// next one, so an issue Jira created is never reported as failed.
	callCtx := context.WithoutCancel(ctx)

	epic, err := s.Creator.CreateIssue(callCtx, plan.Epic.Fields(s.IDs))
	if err != nil {
		return nil, &EpicError{Summary: plan.Epic.Summary, Err: err}
	}
	slog.Info("epic created", "key", epic.Key, "summary", plan.Epic.Summary)

	res := &Result{Gate: plan.Gate, EpicKey: epic.Key, EpicSummary: plan.Epic.Summary}
	total := len(plan.Tasks)
	observe(Event{Kind: EventEpicCreated, Key: epic.Key, Epic: plan.Epic, Total: total})

	for i := range plan.Tasks {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("submission stopped after %d of %d tasks: %w", i, total, err)
		}

		task := plan.Tasks[i]
		out := Outcome{Task: task}
		created, err := s.Creator.CreateIssue(callCtx, task.Fields(s.IDs, epic.Key))
		ev := Event{Task: &plan.Tasks[i], Index: i + 1, Total: total}
		if err != nil {
			out.Err = err
			ev.Kind, ev.Err = EventTaskFailed, err
			slog.Warn("task create failed", "gate_num", task.GateNum, "row", task.Row, "err", err)
		} else {
			out.Key = created.Key
			ev.Kind, ev.Key = EventTaskCreated, created.Key
			slog.Debug("task created", "key", created.Key, "summary", task.Summary)
		}
		res.Outcomes = append(res.Outcomes, out)
		observe(ev)
	}

	return res, nil
}
