package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indiesemi/gate2jira/internal/output"
	"github.com/indiesemi/gate2jira/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser form for importing gates",
	Long: `Starts a web server with a form to sign in, upload a gate checklist
workbook, choose a project and gate, and create the Epic and Tasks.`,
	GroupID: "import",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ListenAddr = addr
		}

		srv := web.NewServer(cfg)
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr, err := srv.Start()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		slog.Info("server started", "addr", addr, "jira", cfg.BaseURL)
		output.Success("Serving on http://%s (Jira %s)", addr, cfg.BaseURL)

		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "err", err)
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8501)")
	rootCmd.AddCommand(serveCmd)
}
