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

type Recalculation struct {
	AccountID     string `json:"accountID" doc:"Account UUID"`
	BalanceBefore string `json:"balanceBefore" doc:"Decimal stored balance before recalculation"`
	BalanceAfter  string `json:"balanceAfter" doc:"Decimal stored balance after recalculation"`
	Correction    string `json:"correction" doc:"Amount added to the stored balance: after minus before"`
	Corrected     bool   `json:"corrected" doc:"Whether the stored balance changed"`
}

type RecalculateAccountOutput struct {
	Body Recalculation
}

type accountRecalculator interface {
	RecalculateAccount(ctx context.Context, id uuid.UUID) (*service.Recalculation, error)
}

// RecalculateAccountHandler handles POST /v1/account/{id}/recalculate.
type RecalculateAccountHandler struct {
	AccountService accountRecalculator
}

func NewRecalculateAccountHandler(svc accountRecalculator) *RecalculateAccountHandler {
	return &RecalculateAccountHandler{AccountService: svc}
}

func (h *RecalculateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "recalculate-account",
		Method:      http.MethodPost,
		Path:        "/v1/account/{id}/recalculate",
		Summary:     "Recalculate an account balance",
		Description: "Overwrites the stored balance with the initial balance plus the sum of the account's transactions.",
		Tags:        []string{"Accounts", "Balance"},
	}, h.handle)
}

func (h *RecalculateAccountHandler) handle(ctx context.Context, input *AccountPathInput) (*RecalculateAccountOutput, error) {
	id, err := apierror.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	logData := logging.GetLogData(ctx)
	logData.AddData("accountID", id.String())

	result, err := h.AccountService.RecalculateAccount(ctx, id)
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to recalculate account")
	}

	logData.AddData("corrected", result.Corrected)
	return &RecalculateAccountOutput{Body: Recalculation{
		AccountID:     result.AccountID.String(),
		BalanceBefore: result.BalanceBefore.String(),
		BalanceAfter:  result.BalanceAfter.String(),
		Correction:    result.Correction.String(),
		Corrected:     result.Corrected,
	}}, nil
}
