package commands

import (
	"github.com/spf13/cobra"
)

func newAuditCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit <account-id>",
		Short: "Compare one account's stored balance with its transactions",
		Long: `Recompute the balance of one account from its initial balance and
transactions and compare it with the stored balance. Nothing is written.

Exits non-zero when the account is inconsistent.

Examples:
  budgetctl audit 0b7f...            # Human-readable report
  budgetctl audit 0b7f... --json     # Report as JSON`,
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

			report, err := svc.AuditAccount(cmd.Context(), id)
			if err != nil {
				return err
			}

			view := newReportView(report)
			if opts.jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), view); err != nil {
					return err
				}
			} else {
				writeReport(cmd.OutOrStdout(), view)
			}
			if !report.IsConsistent {
				return ErrDriftFound
			}
			return nil
		},
	}
}
