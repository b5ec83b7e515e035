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

type GetAccountOutput struct {
	Body Account
}

type accountGetter interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*service.Account, error)
}

// GetAccountHandler handles GET /v1/account/{id}.
type GetAccountHandler struct {
	AccountService accountGetter
}

func NewGetAccountHandler(svc accountGetter) *GetAccountHandler {
	return &GetAccountHandler{AccountService: svc}
}

func (h *GetAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/v1/account/{id}",
		Summary:     "Get an account",
		Description: "Returns one account, active or not.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *GetAccountHandler) handle(ctx context.Context, input *AccountPathInput) (*GetAccountOutput, error) {
	id, err := apierror.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	logging.GetLogData(ctx).AddData("accountID", id.String())

	acc, err := h.AccountService.GetAccount(ctx, id)
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to get account")
	}
	return &GetAccountOutput{Body: accountFromService(acc)}, nil
}
