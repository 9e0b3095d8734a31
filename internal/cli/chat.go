package cli

import (
	"github.com/spf13/cobra"

	"github.com/nathfavour/pippin/pkg/console"
	"github.com/nathfavour/pippin/pkg/metrics"
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Pippin in the console",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func runChat(cmd *cobra.Command) error {
	repl := console.New(
		cmd.InOrStdin(),
		cmd.OutOrStdout(),
		metrics.NewResponder(selector, nil, "console"),
		selector.Persona(),
		console.WithDelay(settings.Delay),
	)
	return repl.Run(cmd.Context())
}
