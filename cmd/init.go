package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftwiki/internal/config"
	"github.com/chriserin/ftwiki/internal/db"
)

var errNotInitialized = errors.New("run `ftwiki init` first")

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ftwiki in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	// fts/ directory
	_, err := os.Stat("fts")
	ftsExists := err == nil
	if err := os.MkdirAll("fts", 0o755); err != nil {
		return fmt.Errorf("creating fts directory: %w", err)
	}
	if ftsExists {
		fmt.Fprintln(w, "fts/ already exists")
	} else {
		fmt.Fprintln(w, "fts/ created")
	}

	// database
	_, err = os.Stat(db.DefaultPath)
	dbExists := err == nil
	sqlDB, err := db.Open(db.DefaultPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", db.DefaultPath)
	} else {
		fmt.Fprintf(w, "%s created\n", db.DefaultPath)
	}

	// config
	msg, err := ensureConfig()
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintln(w, msg)

	// gitignore
	msgs, err := ensureGitignore()
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureConfig() (string, error) {
	if _, err := os.Stat(config.DefaultPath); err == nil {
		return config.DefaultPath + " already exists", nil
	}
	data, err := config.Default().ToYAML()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(config.DefaultPath, data, 0o644); err != nil {
		return "", err
	}
	return config.DefaultPath + " created", nil
}

func ensureGitignore() ([]string, error) {
	entries := []string{db.DefaultPath, "fts/ft.db-*"}

	data, err := os.ReadFile(".gitignore")
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	content := string(data)
	var msgs []string
	for _, entry := range entries {
		if present[entry] {
			msgs = append(msgs, entry+" already in .gitignore")
			continue
		}
		if len(content) > 0 && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += entry + "\n"
		msgs = append(msgs, entry+" added to .gitignore")
	}

	if content == string(data) {
		return msgs, nil
	}
	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return msgs, nil
}
