package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftwiki/internal/markup"
	"github.com/chriserin/ftwiki/internal/ui"
)

var formatsCmd = &cobra.Command{
	Use:   "formats [role...]",
	Short: "Show how each formatting role renders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunFormats(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

// RunFormats prints a sample rendering for each named role, or for every
// role when names is empty.
func RunFormats(w io.Writer, names []string) error {
	registry := markup.Default()
	if len(names) == 0 {
		for _, role := range markup.Roles() {
			names = append(names, role.String())
		}
	}

	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range names {
		rule, err := registry.LookupName(name)
		if err != nil {
			return err
		}
		ui.FormatRow(w, name, rule("text"), width)
	}
	return nil
}
