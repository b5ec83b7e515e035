package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
)

type DeleteAccountInput struct {
	ID   string `path:"id" format:"uuid" doc:"Account UUID"`
	Hard bool   `query:"hard" doc:"Remove the account instead of deactivating it; refused while transactions reference it"`
}

type DeleteAccountOutput struct{}

type accountDeleter interface {
	DeleteAccount(ctx context.Context, id uuid.UUID, hard bool) error
}

// DeleteAccountHandler handles DELETE /v1/account/{id}.
type DeleteAccountHandler struct {
	AccountService accountDeleter
}

func NewDeleteAccountHandler(svc accountDeleter) *DeleteAccountHandler {
	return &DeleteAccountHandler{AccountService: svc}
}

func (h *DeleteAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-account",
		Method:        http.MethodDelete,
		Path:          "/v1/account/{id}",
		Summary:       "Delete an account",
		Description:   "Deactivates the account. With hard=true the account is removed.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteAccountHandler) handle(ctx context.Context, input *DeleteAccountInput) (*DeleteAccountOutput, error) {
	id, err := apierror.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	logData := logging.GetLogData(ctx)
	logData.AddData("accountID", id.String())
	logData.AddData("hard", input.Hard)

	if err := h.AccountService.DeleteAccount(ctx, id, input.Hard); err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to delete account")
	}
	return &DeleteAccountOutput{}, nil
}
