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

type AuditAccountOutput struct {
	Body AuditReport
}

type accountAuditor interface {
	AuditAccount(ctx context.Context, id uuid.UUID) (*service.AuditReport, error)
}

// AuditAccountHandler handles GET /v1/account/{id}/audit.
type AuditAccountHandler struct {
	AccountService accountAuditor
}

func NewAuditAccountHandler(svc accountAuditor) *AuditAccountHandler {
	return &AuditAccountHandler{AccountService: svc}
}

func (h *AuditAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "audit-account",
		Method:      http.MethodGet,
		Path:        "/v1/account/{id}/audit",
		Summary:     "Audit an account balance",
		Description: "Recomputes the balance from the account's transactions and compares it with the stored one. Nothing is written.",
		Tags:        []string{"Accounts", "Balance"},
	}, h.handle)
}

func (h *AuditAccountHandler) handle(ctx context.Context, input *AccountPathInput) (*AuditAccountOutput, error) {
	id, err := apierror.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	logData := logging.GetLogData(ctx)
	logData.AddData("accountID", id.String())

	stopTimer := logData.AddTiming("auditMs")
	report, err := h.AccountService.AuditAccount(ctx, id)
	stopTimer()
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to audit account")
	}

	logData.AddData("isConsistent", report.IsConsistent)
	return &AuditAccountOutput{Body: auditReportFromService(report)}, nil
}
