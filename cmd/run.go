package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/indiesemi/gate2jira/internal/gate"
	"github.com/indiesemi/gate2jira/internal/importer"
	"github.com/indiesemi/gate2jira/internal/jira"
	"github.com/indiesemi/gate2jira/internal/models"
	"github.com/indiesemi/gate2jira/internal/output"
	"github.com/indiesemi/gate2jira/internal/prompt"
	"github.com/indiesemi/gate2jira/internal/tui/progress"
	"github.com/spf13/cobra"
)

// errTasksFailed marks a run whose epic exists but some tasks do not.
var errTasksFailed = errors.New("some tasks were not created")

// runOptions are the answers given up front as flags. Empty values are
// asked for.
type runOptions struct {
	Project  string
	File     string
	Gate     string
	Yes      bool
	Progress bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Create the Epic and Tasks for one gate",
	Long: `Signs in, then asks for the project, the workbook and the gate sheet, and
creates one Epic for the gate and one Task per checklist row.

Every question can be answered ahead of time with a flag:

  gate2jira run -u alice --token-auth --project GATE --file gates.xlsx --gate G1 --yes`,
	GroupID: "import",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p := prompterFor(cmd)
		coord, err := connect(ctx, cmd, p)
		if err != nil {
			return err
		}

		opts := runOptions{}
		opts.Project, _ = cmd.Flags().GetString("project")
		opts.File, _ = cmd.Flags().GetString("file")
		opts.Gate, _ = cmd.Flags().GetString("gate")
		opts.Yes, _ = cmd.Flags().GetBool("yes")
		_, opts.Progress = p.(*prompt.Forms)

		_, err = runImport(ctx, coord, p, opts)
		return err
	},
}

func init() {
	addCredentialFlags(runCmd)
	runCmd.Flags().StringP("project", "p", "", "Jira project key")
	runCmd.Flags().StringP("file", "f", "", "gate checklist workbook (.xlsx)")
	runCmd.Flags().StringP("gate", "g", "", "gate sheet name, e.g. G1")
	runCmd.Flags().BoolP("yes", "y", false, "create without asking for confirmation")
	rootCmd.AddCommand(runCmd)
}

// runImport performs the steps after sign-in: project, custom fields,
// workbook, gate, confirmation and submission.
func runImport(ctx context.Context, coord *importer.Coordinator, p prompt.Prompter, opts runOptions) (*importer.Result, error) {
	project, err := chooseProject(ctx, coord, p, opts.Project)
	if err != nil {
		return nil, err
	}

	if _, err := coord.FieldIDs(ctx); err != nil {
		var missing *importer.MissingFieldsError
		if errors.As(err, &missing) {
			output.Error("Jira has no custom field named %s", strings.Join(missing.Names, ", "))
		} else {
			output.Error("look up custom fields: %v", err)
		}
		return nil, err
	}

	path, err := chooseFile(p, opts.File)
	if err != nil {
		return nil, err
	}
	wb, err := gate.Open(path)
	if err != nil {
		output.Error("%v", err)
		return nil, err
	}
	defer wb.Close()

	gateName, err := chooseGate(coord, wb, p, opts.Gate)
	if err != nil {
		return nil, err
	}

	plan, err := coord.Plan(wb, gateName, project.Key)
	if err != nil {
		output.Error("%v", err)
		return nil, err
	}

	printPlan(plan)
	if !opts.Yes {
		ok, err := p.Confirm(fmt.Sprintf("Create Epic and %d Tasks in %s?", len(plan.Tasks), project.Key), true)
		if err != nil {
			return nil, err
		}
		if !ok {
			output.Warning("nothing created")
			return nil, nil
		}
	}

	var res *importer.Result
	if opts.Progress {
		res, err = progress.Run(ctx, plan, func(ctx context.Context, observe importer.Observer) (*importer.Result, error) {
			return coord.Submit(ctx, plan, observe)
		})
	} else {
		res, err = coord.Submit(ctx, plan, printEvent)
	}
	return res, report(plan, res, err)
}

func chooseProject(ctx context.Context, coord *importer.Coordinator, p prompt.Prompter, key string) (jira.Project, error) {
	if key == "" {
		show, err := p.Confirm("Show projects?", false)
		if err != nil {
			return jira.Project{}, err
		}
		if show {
			key, err = selectProject(ctx, coord, p)
		} else {
			key, err = p.Input("Project key", "e.g. GATE", prompt.Required)
		}
		if err != nil {
			return jira.Project{}, err
		}
	}

	project, err := coord.Project(ctx, key)
	if err != nil {
		if errors.Is(err, importer.ErrUnknownProject) {
			output.Error("Project %s not found", strings.ToUpper(strings.TrimSpace(key)))
		} else {
			output.Error("%v", err)
		}
		return jira.Project{}, err
	}
	return project, nil
}

func selectProject(ctx context.Context, coord *importer.Coordinator, p prompt.Prompter) (string, error) {
	projects, err := coord.Projects(ctx)
	if err != nil {
		output.Error("%v", err)
		return "", err
	}
	if len(projects) == 0 {
		output.Error("no projects visible to this account")
		return "", importer.ErrUnknownProject
	}
	opts := make([]prompt.Option, len(projects))
	for i, pr := range projects {
		opts[i] = prompt.Option{Label: fmt.Sprintf("%s (%s)", pr.Key, pr.Name), Value: pr.Key}
	}
	return p.Select("Project", opts)
}

func chooseFile(p prompt.Prompter, path string) (string, error) {
	if path != "" {
		if err := prompt.ExistingWorkbook(path); err != nil {
			output.Error("%v", err)
			return "", err
		}
		return strings.TrimSpace(path), nil
	}
	path, err := p.Input("Gate checklist workbook", "path to .xlsx", prompt.ExistingWorkbook)
	return strings.TrimSpace(path), err
}

func chooseGate(coord *importer.Coordinator, wb *gate.Workbook, p prompt.Prompter, name string) (string, error) {
	if name != "" {
		if !wb.HasSheet(name) {
			err := fmt.Errorf("%w: %s", gate.ErrSheetNotFound, name)
			output.Error("%v", err)
			return "", err
		}
		return name, nil
	}

	gates, err := coord.GateSheets(wb)
	if err != nil {
		output.Error("%v", err)
		return "", err
	}
	show, err := p.Confirm("Show all available gates?", false)
	if err != nil {
		return "", err
	}
	if show {
		return p.Select("Gate", prompt.Options(gates...))
	}
	name, err = p.Input("Gate", "e.g. "+gates[0], func(s string) error {
		if !wb.HasSheet(strings.TrimSpace(s)) {
			return fmt.Errorf("no sheet named %q", s)
		}
		return nil
	})
	return strings.TrimSpace(name), err
}

func printPlan(plan *models.Plan) {
	output.Info("Epic: %s (%s, due %s)", plan.Epic.Summary, plan.Epic.ProjectKey, plan.Epic.DueDate)
	fmt.Print(output.SectionHeader(fmt.Sprintf("%d tasks", len(plan.Tasks))))
	width := output.PreviewWidth()
	for _, t := range plan.Tasks {
		fmt.Println(output.IndentString(output.TaskLine(t, width-2), 2))
	}
}

// printEvent reports each create call as it finishes.
func printEvent(ev importer.Event) {
	switch ev.Kind {
	case importer.EventEpicCreated:
		fmt.Println(output.CreatedLine(ev.Key, ev.Epic.Summary))
	case importer.EventTaskCreated:
		fmt.Println(output.CreatedLine(ev.Key, ev.Task.Summary))
	case importer.EventTaskFailed:
		output.Warning("task %s (row %d) failed: %s", ev.Task.GateNum, ev.Task.Row, output.FailureDetail(ev.Err))
	}
}

// report prints the outcome of a submission and returns the command error.
func report(plan *models.Plan, res *importer.Result, err error) error {
	var epicErr *importer.EpicError
	if errors.As(err, &epicErr) {
		output.Error("Epic %q was not created: %s", epicErr.Summary, output.FailureDetail(epicErr.Err))
		return err
	}
	if res == nil {
		if err != nil {
			output.Error("%v", err)
		}
		return err
	}

	created, failed := len(res.Created()), len(res.Failed())
	if err != nil {
		output.Warning("%v", err)
	}
	if failed > 0 {
		output.Warning("Epic %s created; %d of %d tasks failed", res.EpicKey, failed, len(plan.Tasks))
		for _, o := range res.Failed() {
			fmt.Println(output.IndentString(output.FailedLine(o.Task, o.Err), 2))
		}
		if err == nil {
			err = fmt.Errorf("%d of %d tasks: %w", failed, len(plan.Tasks), errTasksFailed)
		}
		return err
	}
	if err != nil {
		return err
	}
	output.Success("Epic %s created with %d tasks", res.EpicKey, created)
	return nil
}
