package tui

import (
	"errors"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// EnvNoInteractive disables every prompt when set
const EnvNoInteractive = "GITSCOPE_NO_INTERACTIVE"

// ErrInteractiveDisabled is returned when prompts are disabled via GITSCOPE_NO_INTERACTIVE
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled (" + EnvNoInteractive + " is set)")

// ErrCanceled is returned when the user interrupts a prompt
var ErrCanceled = errors.New("canceled")

// checkInteractiveAllowed returns an error if prompts are disabled or there is no terminal
func checkInteractiveAllowed() error {
	if os.Getenv(EnvNoInteractive) != "" {
		return ErrInteractiveDisabled
	}
	if !IsTTY() {
		return ErrInteractiveDisabled
	}
	return nil
}

// PromptConfirm asks a yes/no question
func PromptConfirm(message string, defaultValue bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}
	var ok bool
	prompt := &survey.Confirm{Message: message, Default: defaultValue}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, askError(err)
	}
	return ok, nil
}

// PromptSecret reads a value without echoing it. Surrounding whitespace is trimmed.
func PromptSecret(message string) (string, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return "", err
	}
	var value string
	prompt := &survey.Password{Message: message}
	if err := survey.AskOne(prompt, &value, survey.WithValidator(survey.Required)); err != nil {
		return "", askError(err)
	}
	return strings.TrimSpace(value), nil
}

func askError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrCanceled
	}
	return err
}
