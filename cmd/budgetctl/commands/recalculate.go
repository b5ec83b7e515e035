package commands

import (
	"github.com/spf13/cobra"
)

func newRecalculateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate <account-id>",
		Short: "Overwrite an account's stored balance with the recomputed one",
		Long: `Recompute the balance of one account from its initial balance and
transactions and store it. Running it twice changes nothing the second time.

Examples:
  budgetctl recalculate 0b7f...
  budgetctl recalculate 0b7f... --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}

			svc, closeFn, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := svc.RecalculateAccount(cmd.Context(), id)
			if err != nil {
				return err
			}

			view := newRecalculationView(result)
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			writeRecalculation(cmd.OutOrStdout(), view)
			return nil
		},
	}
}
