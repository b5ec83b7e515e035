package commands

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"
)

type auditAllView struct {
	OwnerID           string       `json:"ownerID"`
	Reports           []reportView `json:"reports"`
	InconsistentCount int          `json:"inconsistentCount"`
}

func newAuditAllCmd(opts *rootOptions) *cobra.Command {
	var (
		owner            string
		onlyInconsistent bool
	)

	cmd := &cobra.Command{
		Use:   "audit-all",
		Short: "Audit every account of an owner",
		Long: `Audit every account, active or inactive, that belongs to one owner.

Exits non-zero when any account is inconsistent.

Examples:
  budgetctl audit-all --owner 5c1e...                      # All accounts
  budgetctl audit-all --owner 5c1e... --only-inconsistent  # Drifted accounts only
  budgetctl audit-all --owner 5c1e... --json               # Output in JSON format`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := uuid.FromString(owner)
			if err != nil {
				return fmt.Errorf("invalid --owner %q: %w", owner, err)
			}

			svc, closeFn, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			reports, err := svc.AuditAllAccounts(cmd.Context(), ownerID)
			if err != nil {
				return err
			}

			view := auditAllView{OwnerID: ownerID.String(), Reports: []reportView{}}
			for i := range reports {
				if !reports[i].IsConsistent {
					view.InconsistentCount++
				} else if onlyInconsistent {
					continue
				}
				view.Reports = append(view.Reports, newReportView(&reports[i]))
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				if err := writeJSON(out, view); err != nil {
					return err
				}
			} else {
				for _, r := range view.Reports {
					writeReport(out, r)
				}
				fmt.Fprintf(out, "%d account(s) audited, %d inconsistent\n", len(reports), view.InconsistentCount)
			}

			if view.InconsistentCount > 0 {
				return ErrDriftFound
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner UUID (required)")
	cmd.Flags().BoolVar(&onlyInconsistent, "only-inconsistent", false, "Only list inconsistent accounts")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
