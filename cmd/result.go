package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftwiki/internal/db"
	"github.com/chriserin/ftwiki/internal/formatter"
	"github.com/chriserin/ftwiki/internal/logging"
	"github.com/chriserin/ftwiki/internal/parser"
	"github.com/chriserin/ftwiki/internal/ui"
)

var resultCmd = &cobra.Command{
	Use:   "result <file> <line> <status> [message...]",
	Short: "Record the execution result of a step",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunResult(cmd.OutOrStdout(), args[0], args[1], args[2], strings.Join(args[3:], " "))
	},
}

func init() {
	rootCmd.AddCommand(resultCmd)
}

func RunResult(w io.Writer, path, rawLine, rawStatus, message string) error {
	line, err := strconv.Atoi(rawLine)
	if err != nil || line < 1 {
		return fmt.Errorf("invalid line number: %s", rawLine)
	}
	status, err := formatter.ParseStatus(rawStatus)
	if err != nil {
		return err
	}

	if err := requireInit(); err != nil {
		return err
	}

	path = filepath.Clean(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	doc, parseErrors := parser.Parse(path, content)
	summary := parser.Transform(doc, path, parseErrors)
	if !slices.Contains(summary.StepLines, line) {
		return fmt.Errorf("line %d of %s is not a step", line, path)
	}

	sqlDB, err := db.Open(db.DefaultPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	if err := db.RecordResult(sqlDB, path, line, status.String(), message); err != nil {
		return err
	}

	logging.Default().Debug("recorded result",
		logging.FieldPath, path,
		logging.FieldLine, line,
		logging.FieldStatus, status.String())
	ui.RecordedLine(w, path, line, status.String())
	return nil
}
