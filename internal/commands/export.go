package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/balancete/internal/report"
)

func newExportCommand() *cobra.Command {
	var dir string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the financial report as an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(dir)
			if err != nil {
				return err
			}

			stmts, err := p.svc.Statements()
			if err != nil {
				return err
			}
			periods := stmts.DRE.Periods
			if len(periods) == 0 {
				return errors.New("nenhum período na base, faça um ingest primeiro")
			}

			if out == "" {
				year := strconv.Itoa(periods[len(periods)-1].Year())
				out = report.ExcelFilename(year)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := report.WriteExcel(f, stmts); err != nil {
				f.Close()
				return fmt.Errorf("writing report: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}

			printSuccess(cmd.OutOrStdout(), "relatório exportado em "+out)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (.xlsx)")
	return cmd
}
