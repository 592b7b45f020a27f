package prompt

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func lines(input string) (*Lines, *bytes.Buffer) {
	var out bytes.Buffer
	return NewLines(strings.NewReader(input), &out), &out
}

func TestLinesConfirm(t *testing.T) {
	tests := []struct {
		input    string
		def      bool
		expected bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\ny\n", false, true},
	}

	for _, tc := range tests {
		l, _ := lines(tc.input)
		got, err := l.Confirm("Show projects?", tc.def)
		if err != nil {
			t.Fatalf("Confirm(%q): %v", tc.input, err)
		}
		if got != tc.expected {
			t.Errorf("Confirm(%q, %v) = %v, want %v", tc.input, tc.def, got, tc.expected)
		}
	}
}

func TestLinesInputRetriesInvalid(t *testing.T) {
	l, out := lines("\n  GATE \n")
	got, err := l.Input("Project key", "", Required)
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if got != "GATE" {
		t.Errorf("Input = %q, want GATE", got)
	}
	if !strings.Contains(out.String(), "a value is required") {
		t.Errorf("no validation message in %q", out.String())
	}
}

func TestLinesInputLastLineWithoutNewline(t *testing.T) {
	l, _ := lines("alice")
	got, err := l.Input("Username", "", nil)
	if err != nil || got != "alice" {
		t.Errorf("Input = %q, %v", got, err)
	}
}

func TestLinesEOFAborts(t *testing.T) {
	l, _ := lines("")
	if _, err := l.Secret("Password"); !errors.Is(err, ErrAborted) {
		t.Errorf("err = %v, want ErrAborted", err)
	}
}

func TestLinesSelect(t *testing.T) {
	opts := Options("G1", "G2", "G3")

	l, out := lines("2\n")
	got, err := l.Select("Gate", opts)
	if err != nil || got != "G2" {
		t.Errorf("Select by number = %q, %v", got, err)
	}
	if !strings.Contains(out.String(), "  3) G3") {
		t.Errorf("options not listed: %q", out.String())
	}

	l, _ = lines("9\ng3\n")
	got, err = l.Select("Gate", opts)
	if err != nil || got != "G3" {
		t.Errorf("Select by value = %q, %v", got, err)
	}

	l, _ = lines("1\n")
	if _, err := l.Select("Gate", nil); err == nil {
		t.Error("Select with no options succeeded")
	}
}

func TestAuthMode(t *testing.T) {
	l, _ := lines("1\n")
	useToken, err := AuthMode(l)
	if err != nil || !useToken {
		t.Errorf("AuthMode(1) = %v, %v", useToken, err)
	}
	l, _ = lines("password\n")
	useToken, err = AuthMode(l)
	if err != nil || useToken {
		t.Errorf("AuthMode(password) = %v, %v", useToken, err)
	}
}

func TestExistingWorkbook(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "gates.xlsx")
	if err := os.WriteFile(book, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	csv := filepath.Join(dir, "gates.csv")
	if err := os.WriteFile(csv, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		wantErr string
	}{
		{book, ""},
		{"  " + book + " ", ""},
		{"", "required"},
		{filepath.Join(dir, "missing.xlsx"), "does not exist"},
		{dir, "is a directory"},
		{csv, "not an .xlsx"},
	}

	for _, tc := range tests {
		err := ExistingWorkbook(tc.path)
		if tc.wantErr == "" {
			if err != nil {
				t.Errorf("ExistingWorkbook(%q) = %v", tc.path, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("ExistingWorkbook(%q) = %v, want %q", tc.path, err, tc.wantErr)
		}
	}
}

func TestTrimmedAnswers(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"tok ", "tok"},
		{"\tsecret\n", "secret"},
		{" gates.xlsx ", "gates.xlsx"},
		{"plain", "plain"},
	}
	for _, tc := range tests {
		got, err := trimmed(tc.in, nil)
		if err != nil || got != tc.expected {
			t.Errorf("trimmed(%q) = %q, %v; want %q", tc.in, got, err, tc.expected)
		}
	}

	if _, err := trimmed("x", ErrAborted); !errors.Is(err, ErrAborted) {
		t.Errorf("trimmed dropped the error: %v", err)
	}
}

func TestLinesSecretTrimmed(t *testing.T) {
	l, _ := lines("  pat-123 \n")
	got, err := l.Secret("Personal Access Token")
	if err != nil || got != "pat-123" {
		t.Errorf("Secret = %q, %v; want pat-123", got, err)
	}
}
