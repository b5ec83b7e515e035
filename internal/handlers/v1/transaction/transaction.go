package transaction

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              string `json:"id" doc:"Transaction UUID"`
	OwnerID         string `json:"ownerID" doc:"Owner UUID"`
	AccountID       string `json:"accountID,omitempty" doc:"Account UUID, absent when unbound"`
	CategoryID      string `json:"categoryID" doc:"Category UUID"`
	Amount          string `json:"amount" doc:"Signed decimal amount"`
	TransactionType string `json:"transactionType" doc:"income or expense"`
	TransactionName string `json:"transactionName" doc:"Name of the transaction"`
	TransactionDate string `json:"transactionDate" doc:"RFC3339 transaction date"`
	CreatedAt       string `json:"createdAt" doc:"RFC3339 creation time"`
}

// TransactionBody is the request body shared by create and update. On update
// it replaces every field of the stored transaction.
type TransactionBody struct {
	AccountID       string `json:"accountID,omitempty" format:"uuid" doc:"Account UUID; omit to record the transaction without an account"`
	CategoryID      string `json:"categoryID" format:"uuid" doc:"Category UUID"`
	Amount          string `json:"amount" doc:"Signed decimal amount; positive raises the account balance"`
	TransactionType string `json:"transactionType" enum:"income,expense" doc:"Reporting classification"`
	TransactionName string `json:"transactionName" minLength:"1" doc:"Name of the transaction"`
	TransactionDate string `json:"transactionDate,omitempty" format:"date-time" doc:"RFC3339 transaction date, defaults to now on create"`
}

// TransactionPathInput addresses a single transaction.
type TransactionPathInput struct {
	ID string `path:"id" format:"uuid" doc:"Transaction UUID"`
}

func transactionFromService(t *service.Transaction) Transaction {
	out := Transaction{
		ID:              t.ID.String(),
		OwnerID:         t.OwnerID.String(),
		CategoryID:      t.CategoryID.String(),
		Amount:          t.Amount.String(),
		TransactionType: string(t.TransactionType),
		TransactionName: t.TransactionName,
		TransactionDate: t.TransactionDate.Format(time.RFC3339),
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
	if t.AccountID != nil {
		out.AccountID = t.AccountID.String()
	}
	return out
}

// parseTransactionBody parses the fields huma's schema validation cannot.
func parseTransactionBody(body TransactionBody) (service.TransactionInput, error) {
	accountID, err := apierror.ParseOptionalID(body.AccountID, "accountID")
	if err != nil {
		return service.TransactionInput{}, err
	}
	categoryID, err := apierror.ParseID(body.CategoryID, "categoryID")
	if err != nil {
		return service.TransactionInput{}, err
	}
	amount, err := apierror.ParseDecimal(body.Amount, "", "amount")
	if err != nil {
		return service.TransactionInput{}, err
	}

	var transactionDate time.Time
	if body.TransactionDate != "" {
		transactionDate, err = time.Parse(time.RFC3339, body.TransactionDate)
		if err != nil {
			return service.TransactionInput{}, huma.NewError(http.StatusBadRequest, "invalid transactionDate", err)
		}
	}

	return service.TransactionInput{
		AccountID:       accountID,
		CategoryID:      categoryID,
		Amount:          amount,
		TransactionType: service.TransactionType(body.TransactionType),
		TransactionName: body.TransactionName,
		TransactionDate: transactionDate,
	}, nil
}
