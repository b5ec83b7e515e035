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

type AuditAllAccountsInput struct {
	OwnerID string `header:"X-Owner-ID" required:"true" format:"uuid" doc:"Owner UUID"`
}

type AuditAllAccountsBody struct {
	Reports           []AuditReport `json:"reports" doc:"One report per account, active and inactive"`
	InconsistentCount int           `json:"inconsistentCount" doc:"Number of reports with isConsistent=false"`
}

type AuditAllAccountsOutput struct {
	Body AuditAllAccountsBody
}

type allAccountsAuditor interface {
	AuditAllAccounts(ctx context.Context, ownerID uuid.UUID) ([]service.AuditReport, error)
}

// AuditAllAccountsHandler handles GET /v1/accounts/audit.
type AuditAllAccountsHandler struct {
	AccountService allAccountsAuditor
}

func NewAuditAllAccountsHandler(svc allAccountsAuditor) *AuditAllAccountsHandler {
	return &AuditAllAccountsHandler{AccountService: svc}
}

func (h *AuditAllAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "audit-all-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/accounts/audit",
		Summary:     "Audit every account of the owner",
		Tags:        []string{"Accounts", "Balance"},
	}, h.handle)
}

func (h *AuditAllAccountsHandler) handle(ctx context.Context, input *AuditAllAccountsInput) (*AuditAllAccountsOutput, error) {
	ownerID, err := apierror.ParseID(input.OwnerID, "X-Owner-ID")
	if err != nil {
		return nil, err
	}
	logData := logging.GetLogData(ctx)

	stopTimer := logData.AddTiming("auditAllMs")
	reports, err := h.AccountService.AuditAllAccounts(ctx, ownerID)
	stopTimer()
	if err != nil {
		return nil, apierror.Wrap(ctx, err, "failed to audit accounts")
	}

	body := AuditAllAccountsBody{Reports: make([]AuditReport, len(reports))}
	for i := range reports {
		body.Reports[i] = auditReportFromService(&reports[i])
		if !reports[i].IsConsistent {
			body.InconsistentCount++
		}
	}

	logData.AddData("accountCount", len(reports))
	logData.AddData("inconsistentCount", body.InconsistentCount)
	return &AuditAllAccountsOutput{Body: body}, nil
}
