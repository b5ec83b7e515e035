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

// ListAccountsInput is the Huma input for listing accounts.
type ListAccountsInput struct {
	OwnerID         string `header:"X-Owner-ID" required:"true" format:"uuid" doc:"Owner UUID"`
	Position        int    `query:"position" minimum:"0" doc:"Offset for pagination"`
	Limit           int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size, default 20"`
	IncludeInactive bool   `query:"includeInactive" doc:"Also list deleted (inactive) accounts"`
}

// ListAccountsCursor points at the next page.
type ListAccountsCursor struct {
	Position int `json:"position" doc:"Offset for next page"`
	Limit    int `json:"limit" doc:"Page size"`
}

// ListAccountsResponseBody is the response body for listing accounts.
type ListAccountsResponseBody struct {
	Accounts   []Account           `json:"accounts" doc:"Page of accounts"`
	NextCursor *ListAccountsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListAccountsOutput is the Huma output for listing accounts.
type ListAccountsOutput struct {
	Body ListAccountsResponseBody
}

// accountLister is the interface for listing accounts.
type accountLister interface {
	ListAccounts(ctx context.Context, ownerID uuid.UUID, includeInactive bool, cursor *service.AccountCursor) ([]service.Account, *service.AccountCursor, error)
}

// ListAccountsHandler handles GET /v1/accounts.
type ListAccountsHandler struct {
	AccountService accountLister
}

// NewListAccountsHandler creates a new ListAccountsHandler.
func NewListAccountsHandler(svc accountLister) *ListAccountsHandler {
	return &ListAccountsHandler{AccountService: svc}
}

// Register registers the list accounts endpoint with the Huma API.
func (h *ListAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/accounts",
		Summary:     "List accounts",
		Description: "Returns a paginated list of the owner's accounts ordered by name.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ListAccountsHandler) handle(ctx context.Context, input *ListAccountsInput) (*ListAccountsOutput, error) {
	logData := logging.GetLogData(ctx)

	ownerID, err := apierror.ParseID(input.OwnerID, "X-Owner-ID")
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = 20
	}

	stopTimer := logData.AddTiming("listAccountsMs")
	accounts, next, err := h.AccountService.ListAccounts(ctx, ownerID, input.IncludeInactive, &service.AccountCursor{
		Position: input.Position,
		Limit:    limit,
	})
	stopTimer()
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to list accounts")
	}

	logData.AddData("accountCount", len(accounts))

	resp := ListAccountsResponseBody{
		Accounts: make([]Account, len(accounts)),
	}
	for i := range accounts {
		resp.Accounts[i] = accountFromService(&accounts[i])
	}
	if next != nil {
		resp.NextCursor = &ListAccountsCursor{
			Position: next.Position,
			Limit:    next.Limit,
		}
	}

	return &ListAccountsOutput{Body: resp}, nil
}
