package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	OwnerID string `header:"X-Owner-ID" required:"true" format:"uuid" doc:"Owner UUID"`
	Body    TransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   Transaction
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, in service.TransactionInput) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Records a transaction and applies its amount to the account it is bound to.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateTransactionInput(input *CreateTransactionInput) (service.TransactionInput, error) {
	ownerID, err := apierror.ParseID(input.OwnerID, "X-Owner-ID")
	if err != nil {
		return service.TransactionInput{}, err
	}
	in, err := parseTransactionBody(input.Body)
	if err != nil {
		return service.TransactionInput{}, err
	}
	in.OwnerID = ownerID
	return in, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	in, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createTransactionMs")
	created, err := h.TransactionService.CreateTransaction(ctx, in)
	stopTimer()
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to create transaction")
	}

	logData.AddData("transactionID", created.ID.String())
	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   transactionFromService(created),
	}, nil
}
