package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/indiesemi/gate2jira/internal/config"
	"github.com/indiesemi/gate2jira/internal/output"
	"github.com/spf13/cobra"
)

var (
	version string
	cfg     config.Config
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "gate2jira",
	Short: "Create Jira epics and tasks from gate checklist workbooks",
	Long: `gate2jira reads one gate sheet of an Excel gate checklist and creates a
Jira Epic for the gate plus one Task per checklist row, linked to the Epic.

Settings come from ~/.config/gate2jira/config.yaml (or --config) and
GATE2JIRA_* environment variables.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/gate2jira/config.yaml)")
	rootCmd.PersistentFlags().String("url", "", "Jira base URL")
	rootCmd.PersistentFlags().String("due-date", "", "due date for created issues (YYYY-MM-DD, +2w, end-of-quarter, ...)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")

	rootCmd.AddGroup(
		&cobra.Group{ID: "import", Title: "Import Commands:"},
		&cobra.Group{ID: "inspect", Title: "Inspection Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)
	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
}

// loadConfig builds cfg from the config file, environment and global
// flags, then installs the slog handler.
func loadConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		output.Error("%v", err)
		return err
	}

	if v, _ := cmd.Flags().GetString("url"); v != "" {
		loaded.BaseURL = v
	}
	if cmd.Flags().Changed("due-date") {
		loaded.DueDate, _ = cmd.Flags().GetString("due-date")
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		loaded.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		loaded.LogFormat = v
	}
	if err := loaded.Validate(); err != nil {
		output.Error("%v", err)
		return err
	}

	cfg = loaded
	slog.SetDefault(slog.New(newLogHandler(cfg.LogLevel, cfg.LogFormat)))
	return nil
}

// newLogHandler builds the stderr handler for the configured level and
// format.
func newLogHandler(levelName, format string) slog.Handler {
	var level slog.Level
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}

// dueDate resolves the configured due date expression for this run.
func dueDate() (string, error) {
	d, err := cfg.ResolvedDueDate()
	if err != nil {
		return "", fmt.Errorf("due date: %w", err)
	}
	return d, nil
}
