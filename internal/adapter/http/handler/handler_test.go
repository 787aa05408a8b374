package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"remitflow/internal/adapter/http/dto"
	"remitflow/internal/adapter/http/middleware"
	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports"
	"remitflow/internal/core/ports/mocks"
	"remitflow/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func authedContext(t *testing.T, method, path string, body interface{}, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, w := testContext(t, method, path, body)
	c.Set(middleware.CtxUserID, userID)
	return c, w
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

// --- Auth handler ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
		FullName: "Alice Nguyen",
	}).Return(&ports.AuthResult{
		User:        &domain.User{ID: userID, Email: "alice@example.com", FullName: "Alice Nguyen"},
		AccessToken: "tok",
		ExpiresAt:   expiresAt,
	}, nil)

	c, w := testContext(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
		FullName: "Alice Nguyen",
	})
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Equal(t, userID.String(), data["user_id"])
	assert.Equal(t, "tok", data["access_token"])
	assert.Equal(t, float64(expiresAt.Unix()), data["expires_at"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))

	c, w := testContext(t, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "not-an-email"})
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", errorCode(t, w))
}

func TestRegister_EmailExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrEmailExists())

	c, w := testContext(t, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email:    "taken@example.com",
		Password: "password123",
		FullName: "Taken",
	})
	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AUTH_002", errorCode(t, w))
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	mockAuth.EXPECT().Login(gomock.Any(), "bob@example.com", "password123").Return(&ports.AuthResult{
		User:        &domain.User{ID: userID, Email: "bob@example.com", FullName: "Bob"},
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil)

	c, w := testContext(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    "bob@example.com",
		Password: "password123",
	})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), responseData(t, w)["user_id"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInvalidCredentials())

	c, w := testContext(t, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email:    "bob@example.com",
		Password: "wrong-password",
	})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_001", errorCode(t, w))
}

// --- Wizard handler ---

func testDraft(userID uuid.UUID) *domain.TransferDraft {
	account := &domain.Account{ID: uuid.New(), UserID: userID, Currency: "USD", Balance: decimal.RequireFromString("1000")}
	return domain.NewTransferDraft(userID, account)
}

func TestStartDraft_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWizard := mocks.NewMockWizardService(ctrl)
	h := NewWizardHandler(mockWizard)

	userID := uuid.New()
	draft := testDraft(userID)
	mockWizard.EXPECT().StartDraft(gomock.Any(), userID, draft.SourceAccountID).Return(draft, nil)

	c, w := authedContext(t, http.MethodPost, "/api/v1/transfers/drafts", dto.StartDraftRequest{
		AccountID: draft.SourceAccountID.String(),
	}, userID)
	h.Start(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Equal(t, draft.ID.String(), data["id"])
	assert.Equal(t, "destination", data["step"])
	assert.Equal(t, float64(1), data["version"])
}

func TestStartDraft_NoAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWizardHandler(mocks.NewMockWizardService(ctrl))

	c, w := testContext(t, http.MethodPost, "/api/v1/transfers/drafts", dto.StartDraftRequest{
		AccountID: uuid.NewString(),
	})
	h.Start(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_003", errorCode(t, w))
}

func TestSetDestination_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWizard := mocks.NewMockWizardService(ctrl)
	h := NewWizardHandler(mockWizard)

	userID := uuid.New()
	draft := testDraft(userID)
	draft.DestinationCountry = "DE"
	draft.DestinationCurrency = "EUR"
	draft.Version = 2

	mockWizard.EXPECT().SetDestination(gomock.Any(), userID, draft.ID, ports.SetDestinationInput{
		Country:  "DE",
		Currency: "EUR",
	}).Return(draft, nil)

	c, w := authedContext(t, http.MethodPut, "/", dto.SetDestinationRequest{Country: "DE", Currency: "EUR"}, userID)
	c.Params = gin.Params{{Key: "id", Value: draft.ID.String()}}
	h.SetDestination(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "EUR", data["destination_currency"])
	assert.Equal(t, float64(2), data["version"])
}

func TestSetAmount_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWizard := mocks.NewMockWizardService(ctrl)
	h := NewWizardHandler(mockWizard)

	userID := uuid.New()
	draft := testDraft(userID)
	draft.SendAmount = decimal.RequireFromString("500")
	draft.FeeAmount = decimal.RequireFromString("10")
	draft.ExchangeRate = decimal.RequireFromString("0.92")
	draft.ConvertedAmount = decimal.RequireFromString("460")
	draft.Quoted = true
	draft.Version = 3

	mockWizard.EXPECT().SetAmount(gomock.Any(), userID, draft.ID, ports.SetAmountInput{
		Amount:  decimal.RequireFromString("500"),
		Version: 2,
	}).Return(draft, nil)

	c, w := authedContext(t, http.MethodPut, "/", dto.SetAmountRequest{Amount: "500", Version: 2}, userID)
	c.Params = gin.Params{{Key: "id", Value: draft.ID.String()}}
	h.SetAmount(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "500", data["send_amount"])
	assert.Equal(t, "10", data["fee_amount"])
	assert.Equal(t, "510", data["total_debit"])
	assert.Equal(t, "0.92", data["exchange_rate"])
	assert.Equal(t, "460", data["converted_amount"])
}

func TestSetAmount_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWizard := mocks.NewMockWizardService(ctrl)
	h := NewWizardHandler(mockWizard)

	userID := uuid.New()
	mockWizard.EXPECT().SetAmount(gomock.Any(), userID, gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInsufficientBalance())

	c, w := authedContext(t, http.MethodPut, "/", dto.SetAmountRequest{Amount: "100000"}, userID)
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
	h.SetAmount(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "XFER_001", errorCode(t, w))
}

func TestSetAmount_MalformedAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWizardHandler(mocks.NewMockWizardService(ctrl))

	c, w := authedContext(t, http.MethodPut, "/", gin.H{"amount": "1.999"}, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
	h.SetAmount(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDraft_Expired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWizard := mocks.NewMockWizardService(ctrl)
	h := NewWizardHandler(mockWizard)

	userID := uuid.New()
	mockWizard.EXPECT().GetDraft(gomock.Any(), userID, gomock.Any()).
		Return(nil, apperror.ErrDraftExpired())

	c, w := authedContext(t, http.MethodGet, "/", nil, userID)
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
	h.Get(c)

	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "XFER_009", errorCode(t, w))
}

func TestAdvance_StepIncomplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWizard := mocks.NewMockWizardService(ctrl)
	h := NewWizardHandler(mockWizard)

	userID := uuid.New()
	mockWizard.EXPECT().Advance(gomock.Any(), userID, gomock.Any()).
		Return(nil, apperror.ErrStepIncomplete("amount"))

	c, w := authedContext(t, http.MethodPost, "/", nil, userID)
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
	h.Advance(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "XFER_005", errorCode(t, w))
}

// --- Transfer handler ---

func testTransfer(userID uuid.UUID) *domain.Transfer {
	now := time.Now().UTC()
	return &domain.Transfer{
		ID:                  uuid.New(),
		ReferenceID:         "rent-2026-09",
		UserID:              userID,
		AccountID:           uuid.New(),
		SourceCurrency:      "USD",
		DestinationCountry:  "DE",
		DestinationCurrency: "EUR",
		SendAmount:          decimal.RequireFromString("500"),
		FeeAmount:           decimal.RequireFromString("10"),
		ExchangeRate:        decimal.RequireFromString("0.92"),
		ConvertedAmount:     decimal.RequireFromString("460"),
		Method:              domain.MethodSEPA,
		Status:              domain.TransferStatusSuccess,
		CreatedAt:           now,
		ProcessedAt:         &now,
	}
}

func TestConfirm_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	h := NewTransferHandler(mockTransfer)

	userID := uuid.New()
	draftID := uuid.New()
	transfer := testTransfer(userID)

	mockTransfer.EXPECT().Confirm(gomock.Any(), userID, ports.ConfirmRequest{
		DraftID:     draftID,
		ReferenceID: "rent-2026-09",
	}).Return(transfer, nil)

	c, w := authedContext(t, http.MethodPost, "/", dto.ConfirmRequest{ReferenceID: "rent-2026-09"}, userID)
	c.Params = gin.Params{{Key: "id", Value: draftID.String()}}
	h.Confirm(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Equal(t, transfer.ID.String(), data["id"])
	assert.Equal(t, "SUCCESS", data["status"])
	assert.Equal(t, "510", data["total_debit"])
}

func TestConfirm_NotConfirmable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	h := NewTransferHandler(mockTransfer)

	userID := uuid.New()
	mockTransfer.EXPECT().Confirm(gomock.Any(), userID, gomock.Any()).
		Return(nil, apperror.ErrDraftNotConfirmable())

	c, w := authedContext(t, http.MethodPost, "/", dto.ConfirmRequest{ReferenceID: "ref-1"}, userID)
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
	h.Confirm(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "XFER_010", errorCode(t, w))
}

func TestGetTransfer_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	h := NewTransferHandler(mockTransfer)

	userID := uuid.New()
	transfer := testTransfer(userID)
	mockTransfer.EXPECT().GetByID(gomock.Any(), userID, transfer.ID).Return(transfer, nil)

	c, w := authedContext(t, http.MethodGet, "/", nil, userID)
	c.Params = gin.Params{{Key: "id", Value: transfer.ID.String()}}
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "rent-2026-09", data["reference_id"])
	assert.NotEmpty(t, data["processed_at"])
}

func TestListTransfers_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransfer := mocks.NewMockTransferService(ctrl)
	h := NewTransferHandler(mockTransfer)

	userID := uuid.New()
	status := domain.TransferStatusSuccess

	mockTransfer.EXPECT().List(gomock.Any(), gomock.Cond(func(p ports.TransferListParams) bool {
		return p.UserID == userID &&
			p.Status != nil && *p.Status == status &&
			p.FromDate != nil && p.FromDate.Format("2006-01-02") == "2026-01-01" &&
			p.Limit == 10 && p.Offset == 10
	})).Return([]*domain.Transfer{testTransfer(userID)}, int64(11), nil)

	c, w := authedContext(t, http.MethodGet, "/api/v1/transfers?status=SUCCESS&from_date=2026-01-01&page=2&page_size=10", nil, userID)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, float64(11), data["total"])
	assert.Equal(t, float64(2), data["page"])
	assert.Equal(t, float64(2), data["total_pages"])
}

func TestListTransfers_InvalidStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewTransferHandler(mocks.NewMockTransferService(ctrl))

	c, w := authedContext(t, http.MethodGet, "/api/v1/transfers?status=DONE", nil, uuid.New())
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Beneficiary handler ---

func TestCreateBeneficiary_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBen := mocks.NewMockBeneficiaryService(ctrl)
	h := NewBeneficiaryHandler(mockBen)

	userID := uuid.New()
	b := &domain.Beneficiary{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "Hans Maier",
		AccountNumber: "DE89370400440532013000",
		Country:       "DE",
		Currency:      "EUR",
		CreatedAt:     time.Now().UTC(),
	}
	mockBen.EXPECT().Create(gomock.Any(), userID, ports.CreateBeneficiaryRequest{
		Name:          "Hans Maier",
		AccountNumber: "DE89370400440532013000",
		Country:       "DE",
		Currency:      "EUR",
	}).Return(b, nil)

	c, w := authedContext(t, http.MethodPost, "/", dto.CreateBeneficiaryRequest{
		Name:          "Hans Maier",
		AccountNumber: "DE89370400440532013000",
		Country:       "DE",
		Currency:      "EUR",
	}, userID)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, b.ID.String(), responseData(t, w)["id"])
}

func TestDeleteBeneficiary_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBen := mocks.NewMockBeneficiaryService(ctrl)
	h := NewBeneficiaryHandler(mockBen)

	userID := uuid.New()
	mockBen.EXPECT().Delete(gomock.Any(), userID, gomock.Any()).
		Return(apperror.ErrNotFound("beneficiary"))

	c, w := authedContext(t, http.MethodDelete, "/", nil, userID)
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBeneficiary_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBen := mocks.NewMockBeneficiaryService(ctrl)
	h := NewBeneficiaryHandler(mockBen)

	userID := uuid.New()
	benID := uuid.New()
	mockBen.EXPECT().Delete(gomock.Any(), userID, benID).Return(nil)

	c, w := authedContext(t, http.MethodDelete, "/", nil, userID)
	c.Params = gin.Params{{Key: "id", Value: benID.String()}}
	h.Delete(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

// --- Directory handler ---

func TestCurrencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDir := mocks.NewMockDirectoryService(ctrl)
	h := NewDirectoryHandler(mockDir, mocks.NewMockQuoteService(ctrl))

	mockDir.EXPECT().Currencies().Return([]domain.Currency{
		{Code: "EUR", Name: "Euro", Country: "DE", Featured: true},
		{Code: "INR", Name: "Indian Rupee", Country: "IN"},
	})

	c, w := authedContext(t, http.MethodGet, "/api/v1/currencies", nil, uuid.New())
	h.Currencies(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "EUR", first["code"])
	assert.Equal(t, true, first["featured"])
}

func TestMethods_RequiresCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewDirectoryHandler(mocks.NewMockDirectoryService(ctrl), mocks.NewMockQuoteService(ctrl))

	c, w := authedContext(t, http.MethodGet, "/api/v1/transfers/methods", nil, uuid.New())
	h.Methods(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMethods_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDir := mocks.NewMockDirectoryService(ctrl)
	h := NewDirectoryHandler(mockDir, mocks.NewMockQuoteService(ctrl))

	schema := domain.SchemaFor(domain.MethodSEPA)
	require.NotNil(t, schema)
	mockDir.EXPECT().MethodsFor("EUR").Return([]domain.MethodSchema{*schema}, nil)

	c, w := authedContext(t, http.MethodGet, "/api/v1/transfers/methods?currency=eur", nil, uuid.New())
	h.Methods(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "sepa", first["method"])
	fields := first["fields"].([]interface{})
	assert.NotEmpty(t, fields)
}

func TestQuote_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuote := mocks.NewMockQuoteService(ctrl)
	h := NewDirectoryHandler(mocks.NewMockDirectoryService(ctrl), mockQuote)

	mockQuote.EXPECT().Quote(gomock.Any(), "USD", "EUR", decimal.RequireFromString("500")).
		Return(&ports.QuoteResult{
			SendAmount:      decimal.RequireFromString("500"),
			FeeAmount:       decimal.RequireFromString("10"),
			TotalDebit:      decimal.RequireFromString("510"),
			ExchangeRate:    decimal.RequireFromString("0.92"),
			ConvertedAmount: decimal.RequireFromString("460"),
			SourceCurrency:  "USD",
			TargetCurrency:  "EUR",
			QuotedAt:        time.Now().UTC(),
		}, nil)

	c, w := authedContext(t, http.MethodGet, "/api/v1/quotes?from=usd&to=eur&amount=500", nil, uuid.New())
	h.Quote(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "460", data["converted_amount"])
	assert.Equal(t, "510", data["total_debit"])
}

func TestQuote_RateUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuote := mocks.NewMockQuoteService(ctrl)
	h := NewDirectoryHandler(mocks.NewMockDirectoryService(ctrl), mockQuote)

	mockQuote.EXPECT().Quote(gomock.Any(), "USD", "EUR", gomock.Any()).
		Return(nil, apperror.ErrRateUnavailable(errors.New("provider timeout")))

	c, w := authedContext(t, http.MethodGet, "/api/v1/quotes?from=USD&to=EUR&amount=500", nil, uuid.New())
	h.Quote(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "FX_001", errorCode(t, w))
}

// --- Health handler ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                        { return s.name }
func (s stubChecker) CheckHealth(_ context.Context) error { return s.err }

func TestHealthCheck_AllHealthy(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/health", nil)
	HealthCheck(stubChecker{name: "postgres"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/health", nil)
	HealthCheck(stubChecker{name: "postgres"}, stubChecker{name: "redis", err: errors.New("connection refused")})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	redisDep := deps["redis"].(map[string]interface{})
	assert.Equal(t, "unhealthy", redisDep["status"])
}
