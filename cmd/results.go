package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftwiki/internal/db"
	"github.com/chriserin/ftwiki/internal/ui"
)

var resultsStatusFlag string

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List the latest recorded result of every step",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunResults(cmd.OutOrStdout(), resultsStatusFlag)
	},
}

func init() {
	resultsCmd.Flags().StringVar(&resultsStatusFlag, "status", "", "Filter by status")
	rootCmd.AddCommand(resultsCmd)
}

func RunResults(w io.Writer, statusFilter string) error {
	if err := requireInit(); err != nil {
		return err
	}

	sqlDB, err := db.Open(db.DefaultPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	all, err := db.ListResults(sqlDB)
	if err != nil {
		return err
	}

	var results []db.StepResult
	for _, r := range all {
		if statusFilter != "" && r.Status != statusFilter {
			continue
		}
		results = append(results, r)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "no recorded results")
		return nil
	}

	// Compute column widths
	locWidth, statusWidth := 0, 0
	for _, r := range results {
		if n := len(location(r)); n > locWidth {
			locWidth = n
		}
		if len(r.Status) > statusWidth {
			statusWidth = len(r.Status)
		}
	}

	for _, r := range results {
		ui.ResultRow(w, location(r), r.Status, r.Message, locWidth, statusWidth)
	}

	return nil
}

func location(r db.StepResult) string {
	return fmt.Sprintf("%s:%d", r.FilePath, r.Line)
}
