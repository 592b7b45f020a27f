// Package prompt asks the operator for the values an import needs. Forms
// uses huh on a terminal; Lines reads plain lines for pipes and scripts.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks single questions.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(question string, def bool) (bool, error)
	// Input asks for a line of text. validate may be nil.
	Input(title, placeholder string, validate func(string) error) (string, error)
	// Secret asks for text without echoing it.
	Secret(title string) (string, error)
	// Select asks for one of options. options must not be empty.
	Select(title string, options []Option) (string, error)
}

// Option is a selectable value with its label.
type Option struct {
	Label string
	Value string
}

// Options builds options whose label is the value.
func Options(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Label: v, Value: v}
	}
	return opts
}

// New returns Forms when stdin and stdout are terminals, Lines otherwise.
func New() Prompter {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return &Forms{}
	}
	return NewLines(os.Stdin, os.Stderr)
}

// Required rejects blank input.
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

// ExistingWorkbook accepts the path of an existing .xlsx file.
func ExistingWorkbook(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("a file path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file %s does not exist", path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("%s is not an .xlsx workbook", path)
	}
	return nil
}

// AuthMode asks whether to sign in with a personal access token.
func AuthMode(p Prompter) (useToken bool, err error) {
	choice, err := p.Select("Authentication method", []Option{
		{Label: "Personal Access Token", Value: "token"},
		{Label: "Username and password", Value: "password"},
	})
	if err != nil {
		return false, err
	}
	return choice == "token", nil
}
