package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chriserin/ftwiki/internal/config"
	"github.com/chriserin/ftwiki/internal/db"
	"github.com/chriserin/ftwiki/internal/formatter"
	"github.com/chriserin/ftwiki/internal/logging"
	"github.com/chriserin/ftwiki/internal/parser"
	"github.com/chriserin/ftwiki/internal/ui"
)

var (
	outDirFlag   string
	noTagsFlag   bool
	infoSignFlag string
)

var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Render .ft files as wiki markup",
	Long: `Render .ft files as wiki markup. Without arguments every fts/*.ft file
is rendered. Recorded step failures from fts/ft.db are shown under their
steps. Output goes to stdout unless an output directory is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("out-dir") {
			cfg.OutputDir = outDirFlag
		}
		if noTagsFlag {
			cfg.SetTags(false)
		}
		if infoSignFlag != "" {
			cfg.InformationSign = infoSignFlag
		}
		return RunRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&outDirFlag, "out-dir", "o", "", "Write <name>.wiki files into this directory")
	renderCmd.Flags().BoolVar(&noTagsFlag, "no-tags", false, "Omit tag annotation lines")
	renderCmd.Flags().StringVar(&infoSignFlag, "info-sign", "", "Text that prefixes tag annotation lines")
	rootCmd.AddCommand(renderCmd)
}

// stdoutSink keeps the formatter from closing a shared writer.
type stdoutSink struct {
	io.Writer
}

// RunRender renders paths, or every fts/*.ft file when paths is empty.
// Wiki text goes to out when no output directory is set; status lines go
// to status.
func RunRender(ctx context.Context, out, status io.Writer, cfg *config.Config, paths []string) error {
	logger := logging.FromContext(ctx)

	if len(paths) == 0 {
		if err := requireInit(); err != nil {
			return err
		}
		matches, err := filepath.Glob("fts/*.ft")
		if err != nil {
			return fmt.Errorf("scanning fts/: %w", err)
		}
		sort.Strings(matches)
		paths = matches
	}

	var sqlDB *sql.DB
	if _, err := os.Stat(db.DefaultPath); err == nil {
		sqlDB, err = db.Open(db.DefaultPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer sqlDB.Close()
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", cfg.OutputDir, err)
		}
	}

	failed := 0
	for _, path := range paths {
		if err := renderFile(out, status, sqlDB, cfg, path, logger); err != nil {
			ui.FailedLine(status, path, err)
			logger.Debug("render failed", logging.FieldPath, path, logging.FieldError, err)
			failed++
		}
	}

	if cfg.OutputDir != "" {
		ui.SummaryLine(status, len(paths)-failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to render", failed, len(paths))
	}
	return nil
}

func renderFile(out, status io.Writer, sqlDB *sql.DB, cfg *config.Config, path string, logger *log.Logger) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	doc, parseErrors := parser.Parse(path, content)
	summary := parser.Transform(doc, path, parseErrors)

	results, err := loadResults(sqlDB, path, logger)
	if err != nil {
		return err
	}

	opts := cfg.FormatterOptions()
	opts.URI = path
	opts.Logger = logger

	dest := "stdout"
	var sink io.Writer = stdoutSink{out}
	if cfg.OutputDir != "" {
		dest = filepath.Join(cfg.OutputDir, wikiName(path))
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("creating %s: %w", dest, err)
		}
		sink = f
	}

	if err := formatter.Render(sink, doc, parseErrors, opts, results); err != nil {
		return err
	}

	if cfg.OutputDir != "" {
		ui.RenderedLine(status, path, dest, summary.Sections, summary.Steps)
	}
	logger.Debug("rendered", logging.FieldPath, path, logging.FieldOutput, dest, logging.FieldSteps, summary.Steps)
	return nil
}

// loadResults maps recorded results for path onto its step lines.
func loadResults(sqlDB *sql.DB, path string, logger *log.Logger) (formatter.ResultsByLine, error) {
	if sqlDB == nil {
		return nil, nil
	}
	recorded, err := db.LatestResults(sqlDB, filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("loading results for %s: %w", path, err)
	}

	results := make(formatter.ResultsByLine, len(recorded))
	for line, r := range recorded {
		st, err := formatter.ParseStatus(r.Status)
		if err != nil {
			logger.Warn("ignoring result", logging.FieldPath, path, logging.FieldLine, line, logging.FieldError, err)
			continue
		}
		results[line] = formatter.Result{Status: st, ErrorMessage: r.Message}
	}
	return results, nil
}

func wikiName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".wiki"
}
