package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-server/internal/service"
)

// ErrDriftFound is returned when at least one audited account is inconsistent.
var ErrDriftFound = errors.New("balance drift found")

// balanceService is the slice of the account service the CLI drives.
type balanceService interface {
	AuditAccount(ctx context.Context, id uuid.UUID) (*service.AuditReport, error)
	AuditAllAccounts(ctx context.Context, ownerID uuid.UUID) ([]service.AuditReport, error)
	RecalculateAccount(ctx context.Context, id uuid.UUID) (*service.Recalculation, error)
}

// Opener builds the service the commands run against. The returned func
// releases it.
type Opener func(ctx context.Context) (balanceService, func(), error)

type rootOptions struct {
	open       Opener
	jsonOutput bool
}

// NewRootCmd builds the budgetctl command tree.
func NewRootCmd(open Opener) *cobra.Command {
	opts := &rootOptions{open: open}

	rootCmd := &cobra.Command{
		Use:   "budgetctl",
		Short: "Balance maintenance for finance-server",
		Long: `budgetctl audits and repairs stored account balances.

It reads the same environment as the server (STORAGE_BACKEND, POSTGRES_*,
AMQP_URL, ...) and runs every change through the same unit-of-work pipeline,
so it is safe to use while the server is running.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		newAuditCmd(opts),
		newAuditAllCmd(opts),
		newRecalculateCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command against the configured backend.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(openService).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrDriftFound) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func parseAccountID(raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid account id %q: %w", raw, err)
	}
	return id, nil
}
