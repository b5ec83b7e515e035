package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/apperr"
	"github.com/carson-networks/finance-server/internal/service"
)

// mockAccountService is a mock for every account handler dependency.
type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) CreateAccount(ctx context.Context, create service.AccountCreate) (*service.Account, error) {
	args := m.Called(ctx, create)
	acc, _ := args.Get(0).(*service.Account)
	return acc, args.Error(1)
}

func (m *mockAccountService) GetAccount(ctx context.Context, id uuid.UUID) (*service.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*service.Account)
	return acc, args.Error(1)
}

func (m *mockAccountService) ListAccounts(ctx context.Context, ownerID uuid.UUID, includeInactive bool, cursor *service.AccountCursor) ([]service.Account, *service.AccountCursor, error) {
	args := m.Called(ctx, ownerID, includeInactive, cursor)
	accounts, _ := args.Get(0).([]service.Account)
	next, _ := args.Get(1).(*service.AccountCursor)
	return accounts, next, args.Error(2)
}

func (m *mockAccountService) UpdateAccount(ctx context.Context, id uuid.UUID, update service.AccountUpdate) (*service.Account, error) {
	args := m.Called(ctx, id, update)
	acc, _ := args.Get(0).(*service.Account)
	return acc, args.Error(1)
}

func (m *mockAccountService) DeleteAccount(ctx context.Context, id uuid.UUID, hard bool) error {
	return m.Called(ctx, id, hard).Error(0)
}

func (m *mockAccountService) AuditAccount(ctx context.Context, id uuid.UUID) (*service.AuditReport, error) {
	args := m.Called(ctx, id)
	report, _ := args.Get(0).(*service.AuditReport)
	return report, args.Error(1)
}

func (m *mockAccountService) AuditAllAccounts(ctx context.Context, ownerID uuid.UUID) ([]service.AuditReport, error) {
	args := m.Called(ctx, ownerID)
	reports, _ := args.Get(0).([]service.AuditReport)
	return reports, args.Error(1)
}

func (m *mockAccountService) RecalculateAccount(ctx context.Context, id uuid.UUID) (*service.Recalculation, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).(*service.Recalculation)
	return result, args.Error(1)
}

// newTestAPI registers every account handler against a humatest API.
func newTestAPI(t *testing.T, svc *mockAccountService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateAccountHandler(svc).Register(api)
	NewGetAccountHandler(svc).Register(api)
	NewListAccountsHandler(svc).Register(api)
	NewUpdateAccountHandler(svc).Register(api)
	NewDeleteAccountHandler(svc).Register(api)
	NewAuditAccountHandler(svc).Register(api)
	NewRecalculateAccountHandler(svc).Register(api)
	NewAuditAllAccountsHandler(svc).Register(api)
	return api
}

func ownerHeader(id uuid.UUID) string {
	return "X-Owner-ID: " + id.String()
}

func sampleAccount(ownerID uuid.UUID) *service.Account {
	created := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	return &service.Account{
		ID:             uuid.Must(uuid.NewV4()),
		OwnerID:        ownerID,
		Name:           "Checking",
		Type:           service.AccountTypeCash,
		Currency:       "BRL",
		InitialBalance: decimal.RequireFromString("1000"),
		Balance:        decimal.RequireFromString("9600"),
		IsActive:       true,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

// -- create --

func TestHTTP_CreateAccount_Success(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	created := sampleAccount(ownerID)

	svc := new(mockAccountService)
	svc.On("CreateAccount", mock.Anything, mock.MatchedBy(func(c service.AccountCreate) bool {
		return c.OwnerID == ownerID &&
			c.Name == "Checking" &&
			c.Type == service.AccountTypeCash &&
			c.InitialBalance.Equal(decimal.RequireFromString("1000"))
	})).Return(created, nil)

	resp := newTestAPI(t, svc).Post("/v1/account", ownerHeader(ownerID), CreateAccountBody{
		Name:           "Checking",
		InitialBalance: "1000",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, created.ID.String(), body.ID)
	assert.Equal(t, "9600", body.Balance)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateAccount_DefaultsInitialBalance(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	svc := new(mockAccountService)
	svc.On("CreateAccount", mock.Anything, mock.MatchedBy(func(c service.AccountCreate) bool {
		return c.InitialBalance.IsZero()
	})).Return(sampleAccount(ownerID), nil)

	resp := newTestAPI(t, svc).Post("/v1/account", ownerHeader(ownerID), CreateAccountBody{Name: "Wallet"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateAccount_MissingOwner(t *testing.T) {
	svc := new(mockAccountService)

	resp := newTestAPI(t, svc).Post("/v1/account", CreateAccountBody{Name: "Wallet"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "CreateAccount")
}

func TestHTTP_CreateAccount_InvalidInitialBalance(t *testing.T) {
	svc := new(mockAccountService)

	resp := newTestAPI(t, svc).Post("/v1/account", ownerHeader(uuid.Must(uuid.NewV4())), CreateAccountBody{
		Name:           "Wallet",
		InitialBalance: "lots",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertNotCalled(t, "CreateAccount")
}

func TestHTTP_CreateAccount_TypeOutOfRange(t *testing.T) {
	svc := new(mockAccountService)

	resp := newTestAPI(t, svc).Post("/v1/account", ownerHeader(uuid.Must(uuid.NewV4())), CreateAccountBody{
		Name: "Wallet",
		Type: 7,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "CreateAccount")
}

// -- get / list --

func TestHTTP_GetAccount_NotFound(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := new(mockAccountService)
	svc.On("GetAccount", mock.Anything, id).Return(nil, apperr.NotFound("account", id))

	resp := newTestAPI(t, svc).Get("/v1/account/" + id.String())

	assert.Equal(t, http.StatusNotFound, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_ListAccounts_WithNextCursor(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	svc := new(mockAccountService)
	svc.On("ListAccounts", mock.Anything, ownerID, true, &service.AccountCursor{Position: 0, Limit: 1}).
		Return([]service.Account{*sampleAccount(ownerID)}, &service.AccountCursor{Position: 1, Limit: 1}, nil)

	resp := newTestAPI(t, svc).Get("/v1/accounts?limit=1&includeInactive=true", ownerHeader(ownerID))

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Accounts, 1)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, 1, body.NextCursor.Position)
	svc.AssertExpectations(t)
}

func TestHTTP_ListAccounts_Empty(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	svc := new(mockAccountService)
	svc.On("ListAccounts", mock.Anything, ownerID, false, &service.AccountCursor{Position: 0, Limit: 20}).
		Return(nil, nil, nil)

	resp := newTestAPI(t, svc).Get("/v1/accounts", ownerHeader(ownerID))

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListAccountsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.Accounts)
	assert.Empty(t, body.Accounts)
	assert.Nil(t, body.NextCursor)
}

// -- update / delete --

func TestHTTP_UpdateAccount_OnlySetFields(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	acc := sampleAccount(ownerID)
	svc := new(mockAccountService)
	svc.On("UpdateAccount", mock.Anything, acc.ID, mock.MatchedBy(func(u service.AccountUpdate) bool {
		active, ok := u.IsActive.Get()
		return ok && !active && u.Name.IsUnset() && u.Type.IsUnset()
	})).Return(acc, nil)

	resp := newTestAPI(t, svc).Put("/v1/account/"+acc.ID.String(), map[string]any{"isActive": false})

	assert.Equal(t, http.StatusOK, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_DeleteAccount(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := new(mockAccountService)
	svc.On("DeleteAccount", mock.Anything, id, false).Return(nil)
	svc.On("DeleteAccount", mock.Anything, id, true).Return(apperr.ErrAccountInUse)

	api := newTestAPI(t, svc)

	assert.Equal(t, http.StatusNoContent, api.Delete("/v1/account/"+id.String()).Code)
	assert.Equal(t, http.StatusConflict, api.Delete("/v1/account/"+id.String()+"?hard=true").Code)
	svc.AssertExpectations(t)
}

// -- audit / recalculate --

func TestHTTP_AuditAccount_InconsistentIsOK(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := new(mockAccountService)
	svc.On("AuditAccount", mock.Anything, id).Return(&service.AuditReport{
		AccountID:         id,
		AccountName:       "Checking",
		InitialBalance:    decimal.RequireFromString("1000"),
		CurrentBalance:    decimal.RequireFromString("1150"),
		CalculatedBalance: decimal.RequireFromString("1200"),
		TotalTransactions: 1,
		IsConsistent:      false,
		Difference:        decimal.RequireFromString("-50"),
	}, nil)

	resp := newTestAPI(t, svc).Get("/v1/account/" + id.String() + "/audit")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body AuditReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.IsConsistent)
	assert.Equal(t, "-50", body.Difference)
	assert.Equal(t, "1200", body.CalculatedBalance)
}

func TestHTTP_AuditAccount_InvalidID(t *testing.T) {
	svc := new(mockAccountService)

	resp := newTestAPI(t, svc).Get("/v1/account/not-a-uuid/audit")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "AuditAccount")
}

func TestHTTP_AuditAllAccounts(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV4())
	svc := new(mockAccountService)
	svc.On("AuditAllAccounts", mock.Anything, ownerID).Return([]service.AuditReport{
		{AccountID: uuid.Must(uuid.NewV4()), IsConsistent: true},
		{AccountID: uuid.Must(uuid.NewV4()), IsConsistent: false, Difference: decimal.NewFromInt(3)},
	}, nil)

	resp := newTestAPI(t, svc).Get("/v1/accounts/audit", ownerHeader(ownerID))

	assert.Equal(t, http.StatusOK, resp.Code)
	var body AuditAllAccountsBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Reports, 2)
	assert.Equal(t, 1, body.InconsistentCount)
}

func TestHTTP_RecalculateAccount(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := new(mockAccountService)
	svc.On("RecalculateAccount", mock.Anything, id).Return(&service.Recalculation{
		AccountID:     id,
		BalanceBefore: decimal.NewFromInt(5),
		BalanceAfter:  decimal.NewFromInt(700),
		Correction:    decimal.NewFromInt(695),
		Corrected:     true,
	}, nil)

	resp := newTestAPI(t, svc).Post("/v1/account/" + id.String() + "/recalculate")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Recalculation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Corrected)
	assert.Equal(t, "700", body.BalanceAfter)
	assert.Equal(t, "695", body.Correction)
}

func TestHTTP_RecalculateAccount_ServiceError(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := new(mockAccountService)
	svc.On("RecalculateAccount", mock.Anything, id).Return(nil, errors.New("database unavailable"))

	resp := newTestAPI(t, svc).Post("/v1/account/" + id.String() + "/recalculate")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
