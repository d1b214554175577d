package commands

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newDeparaCommand() *cobra.Command {
	deparaCmd := &cobra.Command{
		Use:   "depara",
		Short: "Inspect and edit the account classification table",
	}

	deparaCmd.AddCommand(
		newDeparaListCommand(),
		newDeparaPendingCommand(),
		newDeparaSetCommand(),
		newDeparaReviewCommand(),
	)

	return deparaCmd
}

func newDeparaListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the whole depara table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(dir)
			if err != nil {
				return err
			}

			entries, err := p.svc.Depara().Load()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(w, "%-22s %-44s %-4s %s\n",
					e.AccountCode, e.Classification, e.Statement, dimStyle.Render(e.Status))
			}
			printInfof(w, "%d conta(s)", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}

func newDeparaPendingCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List accounts still waiting for a classification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(dir)
			if err != nil {
				return err
			}

			pending, err := p.svc.Depara().Pending()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(pending) == 0 {
				printSuccess(w, "nenhuma conta pendente")
				return nil
			}
			for _, e := range pending {
				fmt.Fprintf(w, "%-22s %s\n", e.AccountCode, e.Title)
			}
			printInfof(w, "%d conta(s) pendente(s)", len(pending))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}

func newDeparaSetCommand() *cobra.Command {
	var dir string
	var df string

	cmd := &cobra.Command{
		Use:   "set <conta> <classificação>",
		Short: "Classify one account and propagate to stored periods",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if df != "" && df != "DRE" && df != "BP" {
				return fmt.Errorf("--df deve ser DRE ou BP, não %q", df)
			}

			p, err := loadProject(dir)
			if err != nil {
				return err
			}

			res, err := p.svc.Reclassify(args[0], args[1], df)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printSuccess(w, fmt.Sprintf("%s → %s (%s)", res.AccountCode, res.Classification, res.Statement))
			if res.Propagated {
				printInfof(w, "%d linha(s) atualizada(s) na base", res.RowsUpdated)
			}
			if res.NewStatementNeeded {
				fmt.Fprintf(w, "%s classificação fora do catálogo, os demonstrativos ainda não têm linha para ela\n",
					warnStyle.Render("!"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&df, "df", "", "statement group override (DRE or BP)")
	return cmd
}

func newDeparaReviewCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Interactively classify pending accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(dir)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			pending, err := p.svc.Depara().Pending()
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				printSuccess(w, "nenhuma conta pendente")
				return nil
			}
			if !isTerminal() {
				return errors.New("depara review precisa de um terminal interativo")
			}

			catalogue, err := p.svc.Depara().Classifications()
			if err != nil {
				return err
			}
			options := append([]huh.Option[string]{huh.NewOption("(pular)", "")},
				huh.NewOptions(catalogue...)...)

			for _, e := range pending {
				var choice string
				form := huh.NewSelect[string]().
					Title(fmt.Sprintf("%s %s", e.AccountCode, e.Title)).
					Options(options...).
					Value(&choice)
				if err := form.Run(); err != nil {
					return fmt.Errorf("reading selection: %w", err)
				}
				if choice == "" {
					continue
				}
				if _, err := p.svc.Reclassify(e.AccountCode, choice, ""); err != nil {
					return err
				}
				printSuccess(w, fmt.Sprintf("%s → %s", e.AccountCode, choice))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	return cmd
}
