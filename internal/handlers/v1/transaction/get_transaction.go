package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

type GetTransactionOutput struct {
	Body Transaction
}

type transactionGetter interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error)
}

// GetTransactionHandler handles GET /v1/transaction/{id}.
type GetTransactionHandler struct {
	TransactionService transactionGetter
}

func NewGetTransactionHandler(svc transactionGetter) *GetTransactionHandler {
	return &GetTransactionHandler{TransactionService: svc}
}

func (h *GetTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/{id}",
		Summary:     "Get transaction",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *GetTransactionHandler) handle(ctx context.Context, input *TransactionPathInput) (*GetTransactionOutput, error) {
	id, err := apierror.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	logging.GetLogData(ctx).AddData("transactionID", id.String())

	tx, err := h.TransactionService.GetTransaction(ctx, id)
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to get transaction")
	}
	return &GetTransactionOutput{Body: transactionFromService(tx)}, nil
}
