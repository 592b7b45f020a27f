package cmd

import (
	"fmt"
	"strings"

	"github.com/indiesemi/gate2jira/internal/gate"
	"github.com/indiesemi/gate2jira/internal/output"
	"github.com/indiesemi/gate2jira/internal/prompt"
	"github.com/spf13/cobra"
)

var gatesCmd = &cobra.Command{
	Use:     "gates <file>",
	Short:   "List the gate sheets of a workbook",
	GroupID: "inspect",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := openWorkbook(args[0])
		if err != nil {
			return err
		}
		defer wb.Close()

		sheets := wb.GateSheets(cfg.SheetPrefix)
		if all, _ := cmd.Flags().GetBool("all"); all {
			sheets = wb.Sheets()
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(sheets)
		}
		if len(sheets) == 0 {
			err := fmt.Errorf("%w: no sheet name starts with %q", gate.ErrNoGateSheets, cfg.SheetPrefix)
			output.Error("%v", err)
			return err
		}
		fmt.Println(strings.Join(output.BulletList(sheets, 0), "\n"))
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Show the Epic and Tasks a gate would create, without creating them",
	Long: `Maps one gate sheet exactly as run would and prints the result. Nothing is
sent to Jira, so the project key is only used for display.`,
	GroupID: "inspect",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gateName, _ := cmd.Flags().GetString("gate")
		project, _ := cmd.Flags().GetString("project")
		project = strings.ToUpper(strings.TrimSpace(project))

		wb, err := openWorkbook(args[0])
		if err != nil {
			return err
		}
		defer wb.Close()

		table, err := wb.Table(gateName)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		due, err := dueDate()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		plan, err := cfg.Mapper(due).Map(table, project)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(plan)
		}
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Print(output.PlanMarkdown(plan))
			return nil
		}
		rendered, err := output.RenderPlan(plan, output.PreviewWidth())
		if err != nil {
			output.Error("render preview: %v", err)
			return err
		}
		fmt.Println(rendered)
		return nil
	},
}

func openWorkbook(path string) (*gate.Workbook, error) {
	if err := prompt.ExistingWorkbook(path); err != nil {
		output.Error("%v", err)
		return nil, err
	}
	wb, err := gate.Open(strings.TrimSpace(path))
	if err != nil {
		output.Error("%v", err)
		return nil, err
	}
	return wb, nil
}

func init() {
	gatesCmd.Flags().Bool("all", false, "list every sheet, not only gate sheets")
	gatesCmd.Flags().Bool("json", false, "JSON output")
	rootCmd.AddCommand(gatesCmd)

	previewCmd.Flags().StringP("gate", "g", "", "gate sheet name, e.g. G1")
	previewCmd.Flags().StringP("project", "p", "PROJECT", "project key shown in the preview")
	previewCmd.Flags().Bool("json", false, "print the mapped records as JSON")
	previewCmd.Flags().Bool("raw", false, "print markdown without rendering")
	_ = previewCmd.MarkFlagRequired("gate")
	rootCmd.AddCommand(previewCmd)
}
