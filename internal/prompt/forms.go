package prompt

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// Forms prompts with one-field huh forms.
type Forms struct{}

func run(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).WithTheme(huh.ThemeDracula()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func (f *Forms) Confirm(question string, def bool) (bool, error) {
	v := def
	err := run(huh.NewConfirm().Title(question).Affirmative("Yes").Negative("No").Value(&v))
	return v, err
}

func (f *Forms) Input(title, placeholder string, validate func(string) error) (string, error) {
	var v string
	in := huh.NewInput().Title(title).Placeholder(placeholder).Value(&v)
	if validate != nil {
		in = in.Validate(validate)
	}
	err := run(in)
	return trimmed(v, err)
}

func (f *Forms) Secret(title string) (string, error) {
	var v string
	err := run(huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Validate(Required).
		Value(&v))
	return trimmed(v, err)
}

// trimmed drops the surrounding whitespace a pasted token or path brings
// along, as the line prompts do.
func trimmed(v string, err error) (string, error) {
	return strings.TrimSpace(v), err
}

func (f *Forms) Select(title string, options []Option) (string, error) {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}
	var v string
	err := run(huh.NewSelect[string]().Title(title).Options(opts...).Value(&v))
	return v, err
}
