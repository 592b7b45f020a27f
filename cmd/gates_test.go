package cmd

import (
	"errors"
	"testing"

	"github.com/indiesemi/gate2jira/internal/gate"
)

// execute runs the root command with args against an empty config dir.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	saved := cfg
	t.Cleanup(func() {
		cfg = saved
		rootCmd.SetArgs(nil)
	})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestGatesCommand(t *testing.T) {
	path := writeGateFile(t)
	if err := execute(t, "gates", path, "--json"); err != nil {
		t.Fatalf("gates: %v", err)
	}
}

func TestGatesCommandRejectsNonWorkbook(t *testing.T) {
	if err := execute(t, "gates", "notes.txt"); err == nil {
		t.Fatal("expected an error for a non-xlsx path")
	}
}

func TestPreviewCommand(t *testing.T) {
	path := writeGateFile(t)
	if err := execute(t, "preview", path, "--gate", "G1", "--project", "gate", "--raw"); err != nil {
		t.Fatalf("preview: %v", err)
	}
	if cfg.DueDate != "2025-12-31" {
		t.Errorf("config not loaded, due date %q", cfg.DueDate)
	}
}

func TestPreviewCommandUnknownGate(t *testing.T) {
	path := writeGateFile(t)
	err := execute(t, "preview", path, "--gate", "G7")
	if !errors.Is(err, gate.ErrSheetNotFound) {
		t.Fatalf("err = %v, want ErrSheetNotFound", err)
	}
}

func TestVersionCommandSkipsConfig(t *testing.T) {
	t.Setenv("GATE2JIRA_URL", "not a url")
	if err := execute(t, "version", "--short"); err != nil {
		t.Fatalf("version: %v", err)
	}
}
