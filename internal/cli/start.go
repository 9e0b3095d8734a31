package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nathfavour/pippin/internal/tui"
)

func init() {
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the interactive TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := tui.InitialModel(selector, selector.Persona(), settings.Delay)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("alas, there's been an error: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", selector.Persona().Name, selector.Persona().Farewell)
		return nil
	},
}
