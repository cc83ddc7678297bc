package ui

import (
	"errors"
	"os"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrNotInteractive is returned when a prompt is requested without a terminal.
var ErrNotInteractive = errors.New("interactive mode needs a terminal on stdin and stdout")

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

// ColumnChoice is the outcome of the column prompt.
type ColumnChoice struct {
	DateColumn   string
	TargetColumn string
	MetricLabel  string
}

// SelectColumns asks for the date and target columns and the metric label,
// preselecting the suggested values.
func SelectColumns(headers []string, suggested ColumnChoice) (ColumnChoice, error) {
	if !Interactive() {
		return suggested, ErrNotInteractive
	}

	choice := suggested
	if !slices.Contains(headers, choice.DateColumn) && len(headers) > 0 {
		choice.DateColumn = headers[0]
	}
	if !slices.Contains(headers, choice.TargetColumn) && len(headers) > 0 {
		choice.TargetColumn = headers[len(headers)-1]
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Date column").
				Options(huh.NewOptions(headers...)...).
				Value(&choice.DateColumn),
			huh.NewSelect[string]().
				Title("Target column").
				Options(huh.NewOptions(headers...)...).
				Value(&choice.TargetColumn),
			huh.NewInput().
				Title("Metric label").
				Placeholder("units").
				Value(&choice.MetricLabel),
		),
	)
	if err := form.Run(); err != nil {
		return suggested, err
	}
	if choice.MetricLabel == "" {
		choice.MetricLabel = suggested.MetricLabel
	}
	return choice, nil
}
