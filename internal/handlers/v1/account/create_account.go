package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	OwnerID string `header:"X-Owner-ID" required:"true" format:"uuid" doc:"Owner UUID"`
	Body    CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name           string `json:"name" minLength:"1" doc:"Account name"`
	Type           int    `json:"type" minimum:"0" maximum:"4" doc:"Account type: 0=Cash, 1=Credit Cards, 2=Investments, 3=Loans, 4=Assets"`
	SubType        string `json:"subType,omitempty" doc:"Account sub-type"`
	Currency       string `json:"currency,omitempty" doc:"Currency label, defaults to BRL"`
	InitialBalance string `json:"initialBalance,omitempty" doc:"Opening balance (e.g. '0' or '1234.56'), defaults to 0"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, create service.AccountCreate) (*service.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-account",
		Method:        http.MethodPost,
		Path:          "/v1/account",
		Summary:       "Create an account",
		Description:   "Creates a new account. Its balance starts at the initial balance and afterwards only moves with its transactions.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateAccountInput(input *CreateAccountInput) (service.AccountCreate, error) {
	ownerID, err := uuid.FromString(input.OwnerID)
	if err != nil {
		return service.AccountCreate{}, huma.NewError(http.StatusBadRequest, "invalid X-Owner-ID", err)
	}

	initialBalance, err := apierror.ParseDecimal(input.Body.InitialBalance, "0", "initialBalance")
	if err != nil {
		return service.AccountCreate{}, err
	}

	return service.AccountCreate{
		OwnerID:        ownerID,
		Name:           input.Body.Name,
		Type:           service.AccountType(input.Body.Type),
		SubType:        input.Body.SubType,
		Currency:       input.Body.Currency,
		InitialBalance: initialBalance,
	}, nil
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	create, err := parseCreateAccountInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("createAccountMs")
	created, err := h.AccountService.CreateAccount(ctx, create)
	stopTimer()
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to create account")
	}

	logData.AddData("accountID", created.ID.String())

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   accountFromService(created),
	}, nil
}
