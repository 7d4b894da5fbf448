package cmd

import (
	"context"
	stderrors "errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = stderrors.New("aborted by user")

// Prompter asks the user questions. Commands use the package-level prompt so
// tests can answer without a terminal.
type Prompter interface {
	Confirm(ctx context.Context, message string, def bool) (bool, error)
	Input(ctx context.Context, message, help string) (string, error)
}

var prompt Prompter = surveyPrompter{}

type surveyPrompter struct{}

func (surveyPrompter) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	q := &survey.Confirm{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(q, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Input(ctx context.Context, message, help string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	q := &survey.Input{
		Message: message,
		Help:    help,
	}
	if err := survey.AskOne(q, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if stderrors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
