package actions

import (
	"context"

	"github.com/carson-networks/finance-server/internal/storage"
)

// IAction is a unit of work run by the operator. Perform must do all of its
// reads and writes through writer; the operator commits on a nil return and
// rolls back otherwise.
type IAction interface {
	Name() string
	Perform(ctx context.Context, writer *storage.Writer) error
}
