package events

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type Type string

const (
	// TypeDriftDetected is emitted when an audit finds a stored balance that
	// differs from the one recomputed from transactions.
	TypeDriftDetected Type = "account.drift_detected"
	// TypeRecalculated is emitted when a recalculation changed a stored balance.
	TypeRecalculated Type = "account.recalculated"
)

// Event describes a balance finding. BalanceBefore is the stored balance,
// BalanceAfter the one recomputed from transactions, and Difference is
// BalanceBefore minus BalanceAfter for both types.
type Event struct {
	Type          Type            `json:"type"`
	AccountID     uuid.UUID       `json:"accountID"`
	OwnerID       uuid.UUID       `json:"ownerID"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	Difference    decimal.Decimal `json:"difference"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

func NewDriftDetected(accountID, ownerID uuid.UUID, stored, calculated decimal.Decimal) *Event {
	return &Event{
		Type:          TypeDriftDetected,
		AccountID:     accountID,
		OwnerID:       ownerID,
		BalanceBefore: stored,
		BalanceAfter:  calculated,
		Difference:    stored.Sub(calculated),
		OccurredAt:    time.Now().UTC(),
	}
}

func NewRecalculated(accountID, ownerID uuid.UUID, before, after decimal.Decimal) *Event {
	return &Event{
		Type:          TypeRecalculated,
		AccountID:     accountID,
		OwnerID:       ownerID,
		BalanceBefore: before,
		BalanceAfter:  after,
		Difference:    before.Sub(after),
		OccurredAt:    time.Now().UTC(),
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
