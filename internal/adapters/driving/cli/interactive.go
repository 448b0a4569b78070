package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-research/internal/adapters/driving/tui"
)

// ErrNotTerminal is returned when interactive mode runs without a terminal.
var ErrNotTerminal = errors.New("interactive mode requires a terminal")

// isTerminal reports whether stdin is attached to a terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// runProgram runs a bubbletea model to completion.
var runProgram = func(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"chat"},
	Short:   "Start an interactive research session",
	Long: `Opens a research session in the terminal. The first question starts the
session; later questions are follow-ups enriched with the strongest findings
of the previous answers.

Controls:
  Enter         - Research / follow up
  Ctrl+N        - New session
  PgUp, PgDown  - Scroll the transcript
  Esc, Ctrl+C   - Quit`,
	Annotations: map[string]string{annotationNeeds: needsCorpus},
	RunE:        runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	if !isTerminal() {
		return ErrNotTerminal
	}
	if services.NewSession == nil {
		return fmt.Errorf("%w: session", ErrServicesNotConfigured)
	}

	ports := &tui.Ports{
		Session: services.NewSession(),
		Quality: services.Quality,
		History: services.History,
	}

	view, err := tui.NewSessionView(ports)
	if err != nil {
		return fmt.Errorf("failed to create session view: %w", err)
	}
	view.WithContext(cmd.Context())

	if err := runProgram(view); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
