package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/balancete/internal/config"
	"github.com/cleared-dev/balancete/internal/depara"
	"github.com/cleared-dev/balancete/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var name string
	var cnpj string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new balancete project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name, cnpj)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "company name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&cnpj, "cnpj", "", "company CNPJ")

	return cmd
}

func runInit(w io.Writer, dir, name, cnpj string) error {
	// Create directory structure.
	dirs := []string{
		"data",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write balancete.yaml.
	cfg := config.Default(name, cnpj)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the depara table, header only.
	f, err := os.Create(filepath.Join(dir, cfg.Paths.Depara))
	if err != nil {
		return fmt.Errorf("creating depara table: %w", err)
	}
	if err := depara.WriteEntries(f, nil); err != nil {
		f.Close()
		return fmt.Errorf("writing depara table: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing depara table: %w", err)
	}

	// Write .gitignore. The workbook is derived data and import/ is an
	// inbox, so neither belongs in history.
	gitignore := cfg.Paths.Workbook + "\nimport/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Initialize git and create the initial commit.
	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := gitops.CommitPaths(dir, "init: "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail, ".")
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	printSuccess(w, fmt.Sprintf("projeto %s inicializado em %s (%s)", name, dir, hash))
	return nil
}
