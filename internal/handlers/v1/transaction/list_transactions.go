package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

// ListTransactionsInput is the Huma input for listing transactions. The
// cursor fields come back in nextCursor and are passed as-is for the next page.
type ListTransactionsInput struct {
	OwnerID         string `header:"X-Owner-ID" required:"true" format:"uuid" doc:"Owner UUID"`
	AccountID       string `query:"accountID" format:"uuid" doc:"Only transactions bound to this account"`
	Position        int    `query:"position" minimum:"0" doc:"Offset for pagination"`
	Limit           int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size, default 20"`
	MaxCreationTime string `query:"maxCreationTime" format:"date-time" doc:"Upper bound on created_at locked in from the first page"`
}

// ListTransactionsCursor points at the next page.
type ListTransactionsCursor struct {
	Position        int    `json:"position" doc:"Offset for the next page"`
	Limit           int    `json:"limit" doc:"Page size used for this cursor"`
	MaxCreationTime string `json:"maxCreationTime" doc:"Upper bound on created_at locked in from the first page"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction           `json:"transactions" doc:"Page of transactions, newest first"`
	NextCursor   *ListTransactionsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, query service.TransactionQuery, cursor *service.TransactionCursor) ([]service.Transaction, *service.TransactionCursor, error)
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns a paginated list of the owner's transactions, optionally for one account.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput parses and validates the API input.
func parseListTransactionsInput(input *ListTransactionsInput) (service.TransactionQuery, *service.TransactionCursor, error) {
	ownerID, err := apierror.ParseID(input.OwnerID, "X-Owner-ID")
	if err != nil {
		return service.TransactionQuery{}, nil, err
	}
	accountID, err := apierror.ParseOptionalID(input.AccountID, "accountID")
	if err != nil {
		return service.TransactionQuery{}, nil, err
	}

	cursor := &service.TransactionCursor{
		Position: input.Position,
		Limit:    input.Limit,
	}
	if cursor.Limit == 0 {
		cursor.Limit = 20
	}
	if input.MaxCreationTime != "" {
		cursor.MaxCreationTime, err = time.Parse(time.RFC3339Nano, input.MaxCreationTime)
		if err != nil {
			return service.TransactionQuery{}, nil, huma.NewError(http.StatusBadRequest, "invalid maxCreationTime", err)
		}
	}

	return service.TransactionQuery{OwnerID: &ownerID, AccountID: accountID}, cursor, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	query, cursor, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("listTransactionsMs")
	txs, next, err := h.TransactionService.ListTransactions(ctx, query, cursor)
	stopTimer()
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to list transactions")
	}

	logData.AddData("transactionCount", len(txs))

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(txs)),
	}
	for i := range txs {
		resp.Transactions[i] = transactionFromService(&txs[i])
	}
	if next != nil {
		resp.NextCursor = &ListTransactionsCursor{
			Position:        next.Position,
			Limit:           next.Limit,
			MaxCreationTime: next.MaxCreationTime.Format(time.RFC3339Nano),
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
