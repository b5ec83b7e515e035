package account

import (
	"testing"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func makeAccounts(n int) []*Account {
	rows := make([]*Account, n)
	for i := range rows {
		rows[i] = &Account{
			ID:             uuid.Must(uuid.NewV4()),
			Name:           "Checking",
			InitialBalance: decimal.RequireFromString("100.00"),
			Balance:        decimal.RequireFromString("100.00"),
			IsActive:       true,
		}
	}
	return rows
}

func TestAccountUpdate_ApplyOnlySetFields(t *testing.T) {
	acc := &Account{
		Name:           "Checking",
		Type:           AccountTypeCash,
		SubType:        "Primary",
		Currency:       "BRL",
		InitialBalance: decimal.RequireFromString("1000"),
		Balance:        decimal.RequireFromString("1250.50"),
		IsActive:       true,
	}

	update := &AccountUpdate{
		Name:     omit.From("Savings"),
		IsActive: omit.From(false),
	}
	update.Apply(acc)

	assert.Equal(t, "Savings", acc.Name)
	assert.False(t, acc.IsActive)
	assert.Equal(t, AccountTypeCash, acc.Type)
	assert.Equal(t, "Primary", acc.SubType)
	assert.Equal(t, "BRL", acc.Currency)
	assert.True(t, acc.InitialBalance.Equal(decimal.RequireFromString("1000")))
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("1250.50")))
}

func TestAccountType_Valid(t *testing.T) {
	assert.True(t, AccountTypeCash.Valid())
	assert.True(t, AccountTypeAssets.Valid())
	assert.False(t, AccountType(5).Valid())
	assert.False(t, AccountType(-1).Valid())
}

func TestPaginate_Empty(t *testing.T) {
	result := Paginate(nil, DefaultListLimit, 0)

	assert.Nil(t, result.Accounts)
	assert.Nil(t, result.NextCursor)
}

func TestPaginate_SinglePage(t *testing.T) {
	result := Paginate(makeAccounts(2), DefaultListLimit, 0)

	assert.Len(t, result.Accounts, 2)
	assert.Nil(t, result.NextCursor)
}

func TestPaginate_HasNextPage(t *testing.T) {
	result := Paginate(makeAccounts(3), 2, 20)

	assert.Len(t, result.Accounts, 2)
	assert.NotNil(t, result.NextCursor)
	assert.Equal(t, 22, result.NextCursor.Position)
	assert.Equal(t, 2, result.NextCursor.Limit)
}
