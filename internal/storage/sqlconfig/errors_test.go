package sqlconfig

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/finance-server/internal/apperr"
)

func TestClassifyError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: fmt.Errorf("scan: %w", sql.ErrNoRows), target: apperr.ErrNotFound},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, target: apperr.ErrConcurrentModification},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, target: apperr.ErrConcurrentModification},
		{name: "lock not available", err: &pq.Error{Code: "55P03"}, target: apperr.ErrConcurrentModification},
		{
			name: "account still referenced",
			err: &pq.Error{
				Code:       "23503",
				Table:      "transactions",
				Constraint: "transactions_account_id_fkey",
				Detail:     `Key (id)=(8d1c...) is still referenced from table "transactions".`,
			},
			target: apperr.ErrAccountInUse,
		},
		{
			name: "missing account",
			err: &pq.Error{
				Code:       "23503",
				Table:      "transactions",
				Constraint: "transactions_account_id_fkey",
				Detail:     `Key (account_id)=(8d1c...) is not present in table "accounts".`,
			},
			target: apperr.ErrNotFound,
		},
		{name: "unrelated", err: other, target: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ClassifyError(tt.err), tt.target)
		})
	}
}

func TestClassifyError_UnknownForeignKeyPassesThrough(t *testing.T) {
	err := &pq.Error{Code: "23503", Table: "budgets", Constraint: "budgets_category_id_fkey"}

	got := ClassifyError(err)
	assert.Same(t, err, got)
	assert.NotErrorIs(t, got, apperr.ErrAccountInUse)
}

func TestClassifyError_Nil(t *testing.T) {
	assert.NoError(t, ClassifyError(nil))
}
