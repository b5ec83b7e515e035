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

type DeleteTransactionOutput struct {
	Body Transaction
}

type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error)
}

// DeleteTransactionHandler handles DELETE /v1/transaction/{id}.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
}

func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        "/v1/transaction/{id}",
		Summary:     "Delete transaction",
		Description: "Removes the transaction and takes its amount back out of its account. Returns the removed record.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *TransactionPathInput) (*DeleteTransactionOutput, error) {
	id, err := apierror.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	logging.GetLogData(ctx).AddData("transactionID", id.String())

	deleted, err := h.TransactionService.DeleteTransaction(ctx, id)
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to delete transaction")
	}
	return &DeleteTransactionOutput{Body: transactionFromService(deleted)}, nil
}
