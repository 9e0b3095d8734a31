package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(personaCmd)
}

var personaCmd = &cobra.Command{
	Use:   "persona",
	Short: "Show the categories in the order they are checked",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		p := selector.Persona()

		fmt.Fprintf(out, "--- %s ---\n", strings.ToUpper(p.Name))
		fmt.Fprintf(out, "Greeting: %s\n", p.Greeting)
		fmt.Fprintf(out, "Farewell: %s\n", p.Farewell)

		fmt.Fprintf(out, "\n--- CATEGORIES (priority order) ---\n")
		for i, c := range p.Categories {
			fmt.Fprintf(out, "%d. %-10s %s\n", i+1, c.Name, strings.Join(c.Keywords, ", "))
		}

		fmt.Fprintf(out, "\n--- FALLBACKS ---\n")
		for _, f := range p.Fallbacks {
			fmt.Fprintf(out, "- %s\n", f)
		}
	},
}
