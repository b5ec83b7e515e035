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

type UpdateTransactionInput struct {
	ID   string `path:"id" format:"uuid" doc:"Transaction UUID"`
	Body TransactionBody
}

type UpdateTransactionOutput struct {
	Body Transaction
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, id uuid.UUID, in service.TransactionInput) (*service.Transaction, error)
}

// UpdateTransactionHandler handles PUT /v1/transaction/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update transaction",
		Description: "Replaces the transaction. The old amount leaves the old account and the new amount lands on the new one in the same database transaction.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	id, err := apierror.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	in, err := parseTransactionBody(input.Body)
	if err != nil {
		return nil, err
	}
	logData := logging.GetLogData(ctx)
	logData.AddData("transactionID", id.String())

	stopTimer := logData.AddTiming("updateTransactionMs")
	updated, err := h.TransactionService.UpdateTransaction(ctx, id, in)
	stopTimer()
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to update transaction")
	}
	return &UpdateTransactionOutput{Body: transactionFromService(updated)}, nil
}
