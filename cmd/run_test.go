package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/indiesemi/gate2jira/internal/config"
	"github.com/indiesemi/gate2jira/internal/gate"
	"github.com/indiesemi/gate2jira/internal/gate/gatetest"
	"github.com/indiesemi/gate2jira/internal/importer"
	"github.com/indiesemi/gate2jira/internal/jira"
	"github.com/indiesemi/gate2jira/internal/jira/jiratest"
	"github.com/indiesemi/gate2jira/internal/prompt"
)

// useConfig installs the default config for one test.
func useConfig(t *testing.T) {
	t.Helper()
	saved := cfg
	cfg = config.Default()
	t.Cleanup(func() { cfg = saved })
}

func signedIn(t *testing.T, srv *jiratest.Server) *importer.Coordinator {
	t.Helper()
	useConfig(t)
	client := jira.New(srv.URL, jira.Credentials{Username: "alice", Password: "secret"}, 5*time.Second)
	coord := importer.New(client, cfg, "2025-12-31")
	if _, err := coord.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	return coord
}

// writeGateFile writes a workbook with gate sheets G1 and G2 and returns
// its path.
func writeGateFile(t *testing.T) string {
	t.Helper()
	g1 := []gatetest.Cell{gatetest.Header(), gatetest.Title("Design Review")}
	g1 = append(g1, gatetest.Row(5, map[int]string{1: "1.1", 2: "Docs", 3: "Submit doc", 37: "Low"})...)
	g1 = append(g1, gatetest.Row(6, map[int]string{1: "1.2", 2: "Review", 3: "Hold review", 37: "High"})...)
	data := gatetest.Build(t,
		gatetest.Sheet{Name: "Overview"},
		gatetest.Sheet{Name: "G1", Cells: g1},
		gatetest.Sheet{Name: "G2", Cells: []gatetest.Cell{gatetest.Title("Tape-out")}},
	)
	path := filepath.Join(t.TempDir(), "gates.xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return path
}

func plainPrompter(input string) prompt.Prompter {
	return prompt.NewLines(strings.NewReader(input), io.Discard)
}

func TestRunImportWithFlags(t *testing.T) {
	srv := jiratest.NewServer(t)
	coord := signedIn(t, srv)
	path := writeGateFile(t)

	res, err := runImport(context.Background(), coord, plainPrompter(""), runOptions{
		Project: "gate", File: path, Gate: "G1", Yes: true,
	})
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if res.EpicKey != "GATE-1" {
		t.Errorf("EpicKey = %q, want GATE-1", res.EpicKey)
	}
	if got := len(res.Created()); got != 2 {
		t.Errorf("created %d tasks, want 2", got)
	}
	if got := len(srv.Issues()); got != 3 {
		t.Errorf("server got %d issues, want 3", got)
	}
}

func TestRunImportInteractive(t *testing.T) {
	srv := jiratest.NewServer(t)
	coord := signedIn(t, srv)
	path := writeGateFile(t)

	// Show projects? no / key / file / show gates? no / gate / create? yes
	input := strings.Join([]string{"n", "gate", path, "n", " G1 ", "y"}, "\n") + "\n"
	res, err := runImport(context.Background(), coord, plainPrompter(input), runOptions{})
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if res.EpicSummary != "G1 - Design Review" {
		t.Errorf("EpicSummary = %q", res.EpicSummary)
	}
}

func TestRunImportSelectLists(t *testing.T) {
	srv := jiratest.NewServer(t)
	coord := signedIn(t, srv)
	path := writeGateFile(t)

	// Show projects? yes / pick OPS / file / show gates? yes / pick G1 / create? yes
	input := strings.Join([]string{"y", "OPS", path, "y", "G1", "y"}, "\n") + "\n"
	res, err := runImport(context.Background(), coord, plainPrompter(input), runOptions{})
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if !strings.HasPrefix(res.EpicKey, "OPS-") {
		t.Errorf("EpicKey = %q, want an OPS key", res.EpicKey)
	}
}

func TestRunImportDeclined(t *testing.T) {
	srv := jiratest.NewServer(t)
	coord := signedIn(t, srv)
	path := writeGateFile(t)

	res, err := runImport(context.Background(), coord, plainPrompter("n\n"), runOptions{
		Project: "GATE", File: path, Gate: "G1",
	})
	if err != nil || res != nil {
		t.Fatalf("runImport = %v, %v; want nil, nil", res, err)
	}
	for _, call := range srv.Calls() {
		if strings.HasPrefix(call, "POST") {
			t.Errorf("unexpected create call %q", call)
		}
	}
}

func TestRunImportUnknownProject(t *testing.T) {
	srv := jiratest.NewServer(t)
	coord := signedIn(t, srv)

	_, err := runImport(context.Background(), coord, plainPrompter(""), runOptions{Project: "NOPE", Yes: true})
	if !errors.Is(err, importer.ErrUnknownProject) {
		t.Fatalf("err = %v, want ErrUnknownProject", err)
	}
}

func TestRunImportUnknownGate(t *testing.T) {
	srv := jiratest.NewServer(t)
	coord := signedIn(t, srv)
	path := writeGateFile(t)

	_, err := runImport(context.Background(), coord, plainPrompter(""), runOptions{
		Project: "GATE", File: path, Gate: "G9", Yes: true,
	})
	if !errors.Is(err, gate.ErrSheetNotFound) {
		t.Fatalf("err = %v, want ErrSheetNotFound", err)
	}
}

func TestRunImportMissingFields(t *testing.T) {
	srv := jiratest.NewServer(t)
	srv.Fields = srv.Fields[:2]
	coord := signedIn(t, srv)

	_, err := runImport(context.Background(), coord, plainPrompter(""), runOptions{Project: "GATE", Yes: true})
	var missing *importer.MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingFieldsError", err)
	}
}

func TestRunImportPartialFailure(t *testing.T) {
	srv := jiratest.NewServer(t)
	srv.FailTasks["1.2 Review"] = http.StatusBadRequest
	coord := signedIn(t, srv)
	path := writeGateFile(t)

	res, err := runImport(context.Background(), coord, plainPrompter(""), runOptions{
		Project: "GATE", File: path, Gate: "G1", Yes: true,
	})
	if !errors.Is(err, errTasksFailed) {
		t.Fatalf("err = %v, want errTasksFailed", err)
	}
	if res == nil || len(res.Created()) != 1 || len(res.Failed()) != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunImportEpicFailure(t *testing.T) {
	srv := jiratest.NewServer(t)
	srv.EpicStatus = http.StatusBadRequest
	coord := signedIn(t, srv)
	path := writeGateFile(t)

	_, err := runImport(context.Background(), coord, plainPrompter(""), runOptions{
		Project: "GATE", File: path, Gate: "G1", Yes: true,
	})
	var epicErr *importer.EpicError
	if !errors.As(err, &epicErr) {
		t.Fatalf("err = %v, want EpicError", err)
	}
	if got := len(srv.Issues()); got != 0 {
		t.Errorf("server got %d issues, want 0", got)
	}
}
