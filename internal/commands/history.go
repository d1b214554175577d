package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/balancete/internal/auditlog"
)

func newHistoryCommand() *cobra.Command {
	var dir string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent balancete processings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(dir)
			if err != nil {
				return err
			}

			entries, err := auditlog.Tail(p.svc.LogsDir(), limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				printInfof(w, "histórico vazio")
				return nil
			}
			for _, e := range entries {
				badge := okStyle.Render(successSymbol)
				if e.Status != auditlog.StatusSuccess {
					badge = errStyle.Render(errorSymbol)
				}
				fmt.Fprintf(w, "%s %s  %-7s  %-32s %5d linhas  %s\n",
					badge, e.Timestamp.Format("2006-01-02 15:04"), e.Period, e.Filename,
					e.Rows, dimStyle.Render(shortID(e.ID)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
