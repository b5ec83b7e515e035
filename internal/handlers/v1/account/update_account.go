package account

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

type UpdateAccountInput struct {
	ID   string `path:"id" format:"uuid" doc:"Account UUID"`
	Body UpdateAccountBody
}

// UpdateAccountBody lists the fields an owner may change. Absent fields are
// left untouched; balances cannot be set here.
type UpdateAccountBody struct {
	Name     *string `json:"name,omitempty" minLength:"1" doc:"Account name"`
	Type     *int    `json:"type,omitempty" minimum:"0" maximum:"4" doc:"Account type"`
	SubType  *string `json:"subType,omitempty" doc:"Account sub-type"`
	Currency *string `json:"currency,omitempty" doc:"Currency label"`
	IsActive *bool   `json:"isActive,omitempty" doc:"Set true to reactivate a deleted account"`
}

type UpdateAccountOutput struct {
	Body Account
}

type accountUpdater interface {
	UpdateAccount(ctx context.Context, id uuid.UUID, update service.AccountUpdate) (*service.Account, error)
}

// UpdateAccountHandler handles PUT /v1/account/{id}.
type UpdateAccountHandler struct {
	AccountService accountUpdater
}

func NewUpdateAccountHandler(svc accountUpdater) *UpdateAccountHandler {
	return &UpdateAccountHandler{AccountService: svc}
}

func (h *UpdateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPut,
		Path:        "/v1/account/{id}",
		Summary:     "Update an account",
		Description: "Changes the name, type, sub-type, currency or active flag of an account.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func parseUpdateAccountBody(body UpdateAccountBody) service.AccountUpdate {
	var update service.AccountUpdate
	if body.Name != nil {
		update.Name = omit.From(*body.Name)
	}
	if body.Type != nil {
		update.Type = omit.From(service.AccountType(*body.Type))
	}
	if body.SubType != nil {
		update.SubType = omit.From(*body.SubType)
	}
	if body.Currency != nil {
		update.Currency = omit.From(*body.Currency)
	}
	if body.IsActive != nil {
		update.IsActive = omit.From(*body.IsActive)
	}
	return update
}

func (h *UpdateAccountHandler) handle(ctx context.Context, input *UpdateAccountInput) (*UpdateAccountOutput, error) {
	id, err := apierror.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	logging.GetLogData(ctx).AddData("accountID", id.String())

	acc, err := h.AccountService.UpdateAccount(ctx, id, parseUpdateAccountBody(input.Body))
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to update account")
	}
	return &UpdateAccountOutput{Body: accountFromService(acc)}, nil
}
