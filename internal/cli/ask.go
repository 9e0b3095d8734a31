package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	askCmd.Flags().Bool("explain", false, "also print which category answered")
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask [text...]",
	Short: "Print Pippin's reply to a single message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reply := selector.Match(strings.Join(args, " "))
		explain, _ := cmd.Flags().GetBool("explain")
		if explain {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] ", reply.Category)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
		return nil
	},
}
