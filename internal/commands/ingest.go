package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/balancete/internal/pipeline"
)

func newIngestCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "ingest <balancete.xls[x]>",
		Short: "Parse, validate and store one balancete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(dir)
			if err != nil {
				return err
			}

			res, err := p.svc.Ingest(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}

func printResult(w io.Writer, res *pipeline.Result) {
	printSuccess(w, fmt.Sprintf("período %s processado: %d linhas", res.Period, res.RowsWritten))
	if res.Replaced {
		printInfof(w, "período %s substituído", res.Period)
	}
	if res.NewAccounts > 0 {
		printInfof(w, "%d conta(s) nova(s) no de-para", res.NewAccounts)
	}
	if res.Pending > 0 {
		printInfof(w, "%d conta(s) aguardando classificação", res.Pending)
	}
	if res.Warnings > 0 {
		fmt.Fprintf(w, "%s %d aviso(s) de validação\n", warnStyle.Render("!"), res.Warnings)
	}
	if res.Errors > 0 {
		fmt.Fprintf(w, "%s %d erro(s) de validação\n", errStyle.Render(errorSymbol), res.Errors)
	}
}
