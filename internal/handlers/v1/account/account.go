package account

import (
	"time"

	"github.com/carson-networks/finance-server/internal/service"
)

// Account is the API response model for an account.
type Account struct {
	ID             string `json:"id" doc:"Account UUID"`
	OwnerID        string `json:"ownerID" doc:"Owner UUID"`
	Name           string `json:"name" doc:"Account name"`
	Type           int    `json:"type" doc:"Account type: 0=Cash, 1=Credit Cards, 2=Investments, 3=Loans, 4=Assets"`
	SubType        string `json:"subType" doc:"Account sub-type"`
	Currency       string `json:"currency" doc:"Currency label"`
	InitialBalance string `json:"initialBalance" doc:"Decimal balance the account was opened with"`
	Balance        string `json:"balance" doc:"Decimal current balance"`
	IsActive       bool   `json:"isActive" doc:"False once the account has been deleted"`
	CreatedAt      string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt      string `json:"updatedAt" doc:"RFC3339 last update time"`
}

// AuditReport is the API response model for a balance audit.
type AuditReport struct {
	AccountID         string `json:"accountID" doc:"Account UUID"`
	AccountName       string `json:"accountName" doc:"Account name"`
	IsActive          bool   `json:"isActive" doc:"Whether the account is active"`
	InitialBalance    string `json:"initialBalance" doc:"Decimal initial balance"`
	CurrentBalance    string `json:"currentBalance" doc:"Decimal stored balance"`
	CalculatedBalance string `json:"calculatedBalance" doc:"Decimal balance recomputed from transactions"`
	TotalTransactions int64  `json:"totalTransactions" doc:"Number of transactions bound to the account"`
	IsConsistent      bool   `json:"isConsistent" doc:"Whether the stored and recomputed balances match"`
	Difference        string `json:"difference" doc:"Stored minus recomputed balance"`
}

func accountFromService(a *service.Account) Account {
	return Account{
		ID:             a.ID.String(),
		OwnerID:        a.OwnerID.String(),
		Name:           a.Name,
		Type:           int(a.Type),
		SubType:        a.SubType,
		Currency:       a.Currency,
		InitialBalance: a.InitialBalance.String(),
		Balance:        a.Balance.String(),
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.Format(time.RFC3339),
	}
}

func auditReportFromService(r *service.AuditReport) AuditReport {
	return AuditReport{
		AccountID:         r.AccountID.String(),
		AccountName:       r.AccountName,
		IsActive:          r.IsActive,
		InitialBalance:    r.InitialBalance.String(),
		CurrentBalance:    r.CurrentBalance.String(),
		CalculatedBalance: r.CalculatedBalance.String(),
		TotalTransactions: r.TotalTransactions,
		IsConsistent:      r.IsConsistent,
		Difference:        r.Difference.String(),
	}
}

// AccountPathInput addresses a single account.
type AccountPathInput struct {
	ID string `path:"id" format:"uuid" doc:"Account UUID"`
}
