package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// ErrNonInteractive is returned when input is required but prompting is disabled
var ErrNonInteractive = errors.New("input required but running in non-interactive mode")

// promptUIRunner is a variable for testing purposes to allow mocking prompt.Run()
var promptUIRunner = func(prompt promptui.Prompt) (string, error) {
	return prompt.Run()
}

// Prompter asks questions on the terminal
type Prompter struct {
	config   *config.RuntimeConfig
	progress usecase.ProgressSink
}

// NewPrompter creates a new terminal prompter. Progress output is suspended while a prompt is open.
func NewPrompter(cfg *config.RuntimeConfig, progress usecase.ProgressSink) *Prompter {
	return &Prompter{
		config:   cfg,
		progress: progress,
	}
}

// run shows the prompt with progress output suspended
func (p *Prompter) run(prompt promptui.Prompt) (string, error) {
	resume := p.progress.Suspend()
	defer resume()
	return promptUIRunner(prompt)
}

// Confirm asks a yes/no question. Answering no is not an error.
func (p *Prompter) Confirm(_ context.Context, label string) (bool, error) {
	if p.config.NonInteractive {
		return false, ErrNonInteractive
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := p.run(prompt); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return true, nil
}

// Password reads a secret without echoing it
func (p *Prompter) Password(_ context.Context, label string) (string, error) {
	if p.config.NonInteractive {
		return "", ErrNonInteractive
	}

	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}

	password, err := p.run(prompt)
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return password, nil
}

// Ensure Prompter implements Prompter
var _ usecase.Prompter = (*Prompter)(nil)
