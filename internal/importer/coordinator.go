// Package importer drives a gate import against Jira: credential check,
// project and custom field lookup, mapping and submission. Both the
// command line and the web front end run imports through a Coordinator.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/indiesemi/gate2jira/internal/config"
	"github.com/indiesemi/gate2jira/internal/gate"
	"github.com/indiesemi/gate2jira/internal/jira"
	"github.com/indiesemi/gate2jira/internal/models"
)

// Tracker is the part of the Jira API an import uses.
type Tracker interface {
	Creator
	Myself(ctx context.Context) (*jira.User, error)
	Fields(ctx context.Context) ([]jira.Field, error)
	Projects(ctx context.Context) ([]jira.Project, error)
}

// Coordinator runs the steps of one import session. Steps that talk to
// Jira refuse to run until Authenticate has succeeded.
type Coordinator struct {
	tracker     Tracker
	names       config.FieldNames
	mapper      gate.Mapper
	sheetPrefix string

	user   *jira.User
	fields *models.FieldIDs
}

// New creates a coordinator. dueDate is the resolved YYYY-MM-DD due date
// stamped on every record.
func New(tracker Tracker, cfg config.Config, dueDate string) *Coordinator {
	return &Coordinator{
		tracker:     tracker,
		names:       cfg.Fields,
		mapper:      cfg.Mapper(dueDate),
		sheetPrefix: cfg.SheetPrefix,
	}
}

// Authenticate verifies the credentials. Missing credentials and every
// non-200 answer are reported as ErrInvalidCredentials.
func (c *Coordinator) Authenticate(ctx context.Context) (*jira.User, error) {
	user, err := c.tracker.Myself(ctx)
	if err != nil {
		var se *jira.StatusError
		if errors.As(err, &se) || errors.Is(err, jira.ErrMissingCredentials) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	c.user = user
	slog.Debug("credentials verified", "user", user.Name)
	return user, nil
}

// User returns the verified user, or nil before Authenticate.
func (c *Coordinator) User() *jira.User {
	return c.user
}

func (c *Coordinator) requireAuth() error {
	if c.user == nil {
		return ErrNotAuthenticated
	}
	return nil
}

// Projects lists the projects visible to the verified user.
func (c *Coordinator) Projects(ctx context.Context) ([]jira.Project, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	projects, err := c.tracker.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Project resolves an operator-typed project key.
func (c *Coordinator) Project(ctx context.Context, key string) (jira.Project, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return jira.Project{}, err
	}
	p, ok := FindProject(projects, key)
	if !ok {
		return jira.Project{}, fmt.Errorf("%w: %q", ErrUnknownProject, key)
	}
	return p, nil
}

// FieldIDs resolves the required custom fields, once per coordinator.
func (c *Coordinator) FieldIDs(ctx context.Context) (models.FieldIDs, error) {
	if c.fields != nil {
		return *c.fields, nil
	}
	if err := c.requireAuth(); err != nil {
		return models.FieldIDs{}, err
	}
	defs, err := c.tracker.Fields(ctx)
	if err != nil {
		return models.FieldIDs{}, fmt.Errorf("list fields: %w", err)
	}
	ids, err := ResolveFieldIDs(defs, c.names)
	if err != nil {
		return models.FieldIDs{}, err
	}
	c.fields = &ids
	return ids, nil
}

// GateSheets lists the gate sheets of a workbook.
func (c *Coordinator) GateSheets(wb *gate.Workbook) ([]string, error) {
	gates := wb.GateSheets(c.sheetPrefix)
	if len(gates) == 0 {
		return nil, fmt.Errorf("%w: no sheet name starts with %q", gate.ErrNoGateSheets, c.sheetPrefix)
	}
	return gates, nil
}

// Plan maps one gate sheet for projectKey. It needs no Jira access.
func (c *Coordinator) Plan(wb *gate.Workbook, gateName, projectKey string) (*models.Plan, error) {
	table, err := wb.Table(gateName)
	if err != nil {
		return nil, err
	}
	return c.mapper.Map(table, projectKey)
}

// Submit posts a mapped plan.
func (c *Coordinator) Submit(ctx context.Context, plan *models.Plan, observe Observer) (*Result, error) {
	ids, err := c.FieldIDs(ctx)
	if err != nil {
		return nil, err
	}
	s := &Submitter{Creator: c.tracker, IDs: ids}
	return s.Submit(ctx, plan, observe)
}

// Request names what one import run creates.
type Request struct {
	ProjectKey string
	Gate       string
	Workbook   *gate.Workbook
}

// Run performs a whole import: credentials, project, custom fields, gate
// sheet, then submission. Every step before submission is fatal.
func (c *Coordinator) Run(ctx context.Context, req Request, observe Observer) (*Result, error) {
	if c.user == nil {
		if _, err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}
	project, err := c.Project(ctx, req.ProjectKey)
	if err != nil {
		return nil, err
	}
	if _, err := c.FieldIDs(ctx); err != nil {
		return nil, err
	}
	plan, err := c.Plan(req.Workbook, req.Gate, project.Key)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, plan, observe)
}
