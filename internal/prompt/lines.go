package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Lines prompts on w and reads one answer per line from r. Invalid
// answers are reported and asked again until input runs out.
type Lines struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLines creates a line prompter.
func NewLines(r io.Reader, w io.Writer) *Lines {
	return &Lines{in: bufio.NewReader(r), out: w}
}

func (l *Lines) readLine() (string, error) {
	line, err := l.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (l *Lines) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(l.out, "%s [%s]: ", question, hint)
		ans, err := l.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(ans) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(l.out, "Please answer yes or no.")
	}
}

func (l *Lines) Input(title, placeholder string, validate func(string) error) (string, error) {
	for {
		if placeholder != "" {
			fmt.Fprintf(l.out, "%s (%s): ", title, placeholder)
		} else {
			fmt.Fprintf(l.out, "%s: ", title)
		}
		ans, err := l.readLine()
		if err != nil {
			return "", err
		}
		if validate == nil {
			return ans, nil
		}
		if err := validate(ans); err != nil {
			fmt.Fprintf(l.out, "%v\n", err)
			continue
		}
		return ans, nil
	}
}

// Secret reads a line as is; a pipe has no echo to turn off.
func (l *Lines) Secret(title string) (string, error) {
	return l.Input(title, "", Required)
}

// Select lists the options numbered from 1 and accepts a number or a
// value.
func (l *Lines) Select(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("%s: no options", title)
	}
	fmt.Fprintf(l.out, "%s\n", title)
	for i, o := range options {
		fmt.Fprintf(l.out, "  %d) %s\n", i+1, o.Label)
	}
	pick := func(ans string) (string, bool) {
		if n, err := strconv.Atoi(ans); err == nil && n >= 1 && n <= len(options) {
			return options[n-1].Value, true
		}
		for _, o := range options {
			if strings.EqualFold(ans, o.Value) {
				return o.Value, true
			}
		}
		return "", false
	}
	var chosen string
	_, err := l.Input("Choice", "", func(ans string) error {
		v, ok := pick(ans)
		if !ok {
			return fmt.Errorf("choose 1-%d", len(options))
		}
		chosen = v
		return nil
	})
	return chosen, err
}
