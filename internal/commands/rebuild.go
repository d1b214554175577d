package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/balancete/internal/workbook"
)

func newRebuildCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate the statements workbook from the stored base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(dir)
			if err != nil {
				return err
			}

			if err := p.svc.Workbook().Rebuild(); err != nil {
				if errors.Is(err, workbook.ErrNoPeriods) {
					return errors.New("nenhum período na base, faça um ingest primeiro")
				}
				return err
			}

			printSuccess(cmd.OutOrStdout(), "demonstrações regeneradas em "+p.svc.Workbook().Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}
