package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/balancete/internal/balancete"
	"github.com/cleared-dev/balancete/internal/report"
	"github.com/cleared-dev/balancete/internal/validate"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <balancete.xls[x]>",
		Short: "Parse and validate a balancete without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hdr, rows, err := balancete.Parse(args[0])
			if err != nil {
				return err
			}

			rep, err := validate.RunAll(cmd.Context(), rows)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printInfof(w, "%s, período %s, %d linhas", hdr.Company, hdr.ReferenceMonth, len(rows))
			errs := renderReport(w, rep)
			if errs > 0 {
				return fmt.Errorf("validação encontrou %d erro(s)", errs)
			}
			return nil
		},
	}
	return cmd
}

// renderReport prints every finding and returns the number of errors.
func renderReport(w io.Writer, rep *validate.Report) int {
	okCount := 0
	for _, f := range rep.Hierarchy {
		if f.Status == validate.StatusOK {
			okCount++
			continue
		}
		fmt.Fprintf(w, "%s %s %s: pai %s, filhos %s, diferença %s\n",
			statusBadge(f.Status), f.AccountCode, f.Title,
			report.FormatBR(f.ParentBalance), report.FormatBR(f.ChildrenSum), report.FormatBR(f.Diff))
		if f.Message != "" {
			fmt.Fprintf(w, "  %s\n", dimStyle.Render(f.Message))
		}
	}

	for _, lf := range rep.Levels {
		fmt.Fprintf(w, "%s %s %s: %s\n", statusBadge(validate.StatusError), lf.AccountCode, lf.Title, lf.Message)
	}

	bs := rep.BalanceSheet
	renderCheck(w, "decomposição do ativo", bs.AssetDecompositionOK, "total "+report.FormatBR(bs.AssetTotal))
	renderCheck(w, "decomposição do passivo", bs.LiabilityDecompositionOK, "total "+report.FormatBR(bs.LiabilityEquityTotal))
	renderCheck(w, "equilíbrio patrimonial", bs.BalanceSheetOK, "diferença "+report.FormatBR(bs.Diff))

	errs := len(rep.Errors()) + len(rep.Levels)
	oks := okCount
	for _, ok := range []bool{bs.AssetDecompositionOK, bs.LiabilityDecompositionOK, bs.BalanceSheetOK} {
		if ok {
			oks++
		} else {
			errs++
		}
	}
	fmt.Fprintf(w, "\n%s %d  %s %d  %s %d\n",
		okStyle.Render("OK"), oks,
		warnStyle.Render("AVISO"), len(rep.Warnings()),
		errStyle.Render("ERRO"), errs)
	return errs
}

func renderCheck(w io.Writer, label string, ok bool, detail string) {
	badge := statusBadge(validate.StatusError)
	if ok {
		badge = statusBadge(validate.StatusOK)
	}
	fmt.Fprintf(w, "%s %s (%s)\n", badge, label, detail)
}
