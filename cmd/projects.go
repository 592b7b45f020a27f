package cmd

import (
	"fmt"

	"github.com/indiesemi/gate2jira/internal/output"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Short:   "List the Jira projects visible to your account",
	GroupID: "inspect",
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := connect(cmd.Context(), cmd, prompterFor(cmd))
		if err != nil {
			return err
		}

		projects, err := coord.Projects(cmd.Context())
		if err != nil {
			output.Error("list projects: %v", err)
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(projects)
		}
		if len(projects) == 0 {
			output.Warning("no projects visible to this account")
			return nil
		}
		for _, p := range projects {
			fmt.Println(output.FormatProject(p))
		}
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Verify your Jira credentials",
	GroupID: "inspect",
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := connect(cmd.Context(), cmd, prompterFor(cmd))
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(coord.User())
		}
		return nil
	},
}

func init() {
	addCredentialFlags(projectsCmd)
	projectsCmd.Flags().Bool("json", false, "JSON output")
	rootCmd.AddCommand(projectsCmd)

	addCredentialFlags(whoamiCmd)
	whoamiCmd.Flags().Bool("json", false, "JSON output")
	rootCmd.AddCommand(whoamiCmd)
}
