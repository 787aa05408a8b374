package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"remitflow/config"
	kafkaEvents "remitflow/internal/adapter/events/kafka"
	"remitflow/internal/adapter/fx"
	httpHandler "remitflow/internal/adapter/http/handler"
	redisStorage "remitflow/internal/adapter/storage/redis"
	"remitflow/internal/service"
	"remitflow/pkg/logger"
	"remitflow/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack against in-memory storage:
// miniredis behind the real Redis stores, map-backed postgres repos, and a
// stub upstream FX provider. The real HTTP layer, middleware, services, and
// the real FX client are exercised end-to-end.

type testApp struct {
	server   *httptest.Server
	fxServer *httptest.Server
	redis    *miniredis.Miniredis
	accounts *inMemoryAccountRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	// Start miniredis
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	// Redis stores
	draftStore := redisStorage.NewDraftStore(rdb)
	rateCache := redisStorage.NewRateCache(rdb)
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)

	// Stub FX provider: EUR at 0.92, INR at 83.10
	fxSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rate := "0.92"
		if r.URL.Query().Get("to") == "INR" {
			rate = "83.10"
		}
		fmt.Fprintf(w, `{"success":true,"info":{"rate":%s},"result":%s}`, rate, rate)
	}))

	log := logger.New("debug", false)
	fxClient := fx.NewClient(config.FXConfig{
		BaseURL:  fxSrv.URL,
		Timeout:  5 * time.Second,
		CacheTTL: time.Minute,
	}, log)

	// In-memory repos
	userRepo := newInMemoryUserRepo()
	accountRepo := newInMemoryAccountRepo()
	beneficiaryRepo := newInMemoryBeneficiaryRepo()
	transferRepo := newInMemoryTransferRepo()
	idempotencyRepo := newInMemoryIdempotencyRepo()
	transactor := newInMemoryTransactor()

	// Core services with real implementations
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", 24*time.Hour, "test-issuer")

	collector := metrics.NewCollector()

	// Business services
	authSvc := service.NewAuthService(userRepo, accountRepo, hashSvc, tokenSvc)
	quoteSvc := service.NewQuoteService(fxClient, rateCache, time.Minute, collector, log)
	wizardSvc := service.NewWizardService(draftStore, accountRepo, beneficiaryRepo, quoteSvc, 30*time.Minute, collector, log)
	transferSvc := service.NewTransferService(transactor, accountRepo, transferRepo, idempotencyRepo, idempotencyCache, draftStore, kafkaEvents.NopPublisher{}, collector, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		AccountSvc:     service.NewAccountService(accountRepo),
		BeneficiarySvc: service.NewBeneficiaryService(beneficiaryRepo),
		QuoteSvc:       quoteSvc,
		WizardSvc:      wizardSvc,
		TransferSvc:    transferSvc,
		DirectorySvc:   service.NewDirectoryService(),
		TokenSvc:       tokenSvc,
		Metrics:        collector,
		Logger:         log,
	})

	server := httptest.NewServer(router)

	return &testApp{
		server:   server,
		fxServer: fxSrv,
		redis:    mr,
		accounts: accountRepo,
	}
}

func (a *testApp) close() {
	a.server.Close()
	a.fxServer.Close()
	a.redis.Close()
}

// do sends an authenticated JSON request and decodes the envelope.
func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	}
	return resp.StatusCode, envelope
}

// registerUser signs up a user, seeds the funding account, and returns the
// token plus the account id.
func (a *testApp) registerUser(t *testing.T, email, balance string) (token, accountID string) {
	t.Helper()

	code, body := a.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":     email,
		"password":  "StrongPass123!",
		"full_name": "Integration User",
	})
	require.Equal(t, http.StatusCreated, code)
	data := body["data"].(map[string]interface{})
	token = data["access_token"].(string)

	code, body = a.do(t, "GET", "/api/v1/accounts", token, nil)
	require.Equal(t, http.StatusOK, code)
	accounts := body["data"].([]interface{})
	require.Len(t, accounts, 1)
	account := accounts[0].(map[string]interface{})
	accountID = account["id"].(string)
	require.Equal(t, "USD", account["currency"])
	require.Equal(t, "0", account["balance"])

	a.accounts.setBalance(uuid.MustParse(accountID), decimal.RequireFromString(balance))
	return token, accountID
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_RegisterAndLogin(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	code, body := app.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":     "Alice@Example.com",
		"password":  "StrongPass123!",
		"full_name": "Alice Nguyen",
	})
	require.Equal(t, http.StatusCreated, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", data["email"])
	assert.NotEmpty(t, data["access_token"])

	// Login with the lowercased form
	code, body = app.do(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "StrongPass123!",
	})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["data"].(map[string]interface{})["access_token"])
}

func TestIntegration_LoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.registerUser(t, "bob@example.com", "0")

	code, body := app.do(t, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "bob@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_001", body["error_code"])
}

func TestIntegration_Unauthorized(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	code, _ := app.do(t, "GET", "/api/v1/accounts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = app.do(t, "GET", "/api/v1/transfers", "bad.jwt.token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

// TestIntegration_WizardEndToEnd walks a full send: destination, amount with
// live FX pricing, method fields, review, and submission, then polls the
// resulting transfer and checks the debit.
func TestIntegration_WizardEndToEnd(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token, accountID := app.registerUser(t, "carol@example.com", "1000")

	// Start draft
	code, body := app.do(t, "POST", "/api/v1/transfers/drafts", token, map[string]string{"account_id": accountID})
	require.Equal(t, http.StatusCreated, code)
	draft := body["data"].(map[string]interface{})
	draftID := draft["id"].(string)
	require.Equal(t, "destination", draft["step"])

	base := "/api/v1/transfers/drafts/" + draftID

	// Step 0: destination
	code, body = app.do(t, "PUT", base+"/destination", token, map[string]string{
		"country":  "DE",
		"currency": "EUR",
	})
	require.Equal(t, http.StatusOK, code)
	draft = body["data"].(map[string]interface{})
	version := draft["version"].(float64)

	code, body = app.do(t, "POST", base+"/advance", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "amount", body["data"].(map[string]interface{})["step"])

	// Step 1: amount (500 USD, 2% fee = 10, rate 0.92 -> 460 EUR)
	code, body = app.do(t, "PUT", base+"/amount", token, map[string]interface{}{
		"amount":  "500",
		"version": version,
	})
	require.Equal(t, http.StatusOK, code)
	draft = body["data"].(map[string]interface{})
	assert.Equal(t, "500", draft["send_amount"])
	assert.Equal(t, "10", draft["fee_amount"])
	assert.Equal(t, "510", draft["total_debit"])
	assert.Equal(t, "0.92", draft["exchange_rate"])
	assert.Equal(t, "460", draft["converted_amount"])

	code, body = app.do(t, "POST", base+"/advance", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "method", body["data"].(map[string]interface{})["step"])

	// Step 2: method. EUR resolves to SEPA, which wants IBAN details.
	code, body = app.do(t, "PUT", base+"/method", token, map[string]interface{}{
		"method": "sepa",
		"fields": map[string]string{
			"recipient_name": "Hans Maier",
			"iban":           "DE89370400440532013000",
			"bic":            "COBADEFFXXX",
		},
	})
	require.Equal(t, http.StatusOK, code)

	code, body = app.do(t, "POST", base+"/advance", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "review", body["data"].(map[string]interface{})["step"])

	// Step 3: confirm
	code, body = app.do(t, "POST", base+"/confirm", token, map[string]string{"reference_id": "rent-2026-09"})
	require.Equal(t, http.StatusCreated, code)
	transfer := body["data"].(map[string]interface{})
	transferID := transfer["id"].(string)
	assert.Equal(t, "SUCCESS", transfer["status"])
	assert.Equal(t, "rent-2026-09", transfer["reference_id"])

	// Poll the transfer resource
	code, body = app.do(t, "GET", "/api/v1/transfers/"+transferID, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "SUCCESS", body["data"].(map[string]interface{})["status"])

	// Balance debited by amount plus fee
	code, body = app.do(t, "GET", "/api/v1/accounts/"+accountID, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "490", body["data"].(map[string]interface{})["balance"])

	// The draft is gone after submission
	code, _ = app.do(t, "GET", base, token, nil)
	assert.Equal(t, http.StatusGone, code)
}

func TestIntegration_ConfirmIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token, accountID := app.registerUser(t, "dave@example.com", "1000")
	draftID := buildReviewedDraft(t, app, token, accountID)

	code, body := app.do(t, "POST", "/api/v1/transfers/drafts/"+draftID+"/confirm", token, map[string]string{"reference_id": "dup-check"})
	require.Equal(t, http.StatusCreated, code)
	firstID := body["data"].(map[string]interface{})["id"].(string)

	// Same reference replays the original outcome even though the draft is gone.
	code, body = app.do(t, "POST", "/api/v1/transfers/drafts/"+draftID+"/confirm", token, map[string]string{"reference_id": "dup-check"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, firstID, body["data"].(map[string]interface{})["id"])

	// Debited exactly once
	code, body = app.do(t, "GET", "/api/v1/accounts/"+accountID, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "490", body["data"].(map[string]interface{})["balance"])
}

func TestIntegration_StaleVersionRejected(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token, accountID := app.registerUser(t, "erin@example.com", "1000")

	code, body := app.do(t, "POST", "/api/v1/transfers/drafts", token, map[string]string{"account_id": accountID})
	require.Equal(t, http.StatusCreated, code)
	draftID := body["data"].(map[string]interface{})["id"].(string)
	base := "/api/v1/transfers/drafts/" + draftID

	code, body = app.do(t, "PUT", base+"/destination", token, map[string]string{"country": "DE", "currency": "EUR"})
	require.Equal(t, http.StatusOK, code)
	staleVersion := body["data"].(map[string]interface{})["version"].(float64)

	code, _ = app.do(t, "POST", base+"/advance", token, nil)
	require.Equal(t, http.StatusOK, code)

	// Another client changes the destination, bumping the version.
	code, _ = app.do(t, "PUT", base+"/destination", token, map[string]string{"country": "IN", "currency": "INR"})
	require.Equal(t, http.StatusOK, code)

	code, body = app.do(t, "PUT", base+"/amount", token, map[string]interface{}{
		"amount":  "500",
		"version": staleVersion,
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "XFER_008", body["error_code"])
}

func TestIntegration_InsufficientBalance(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token, accountID := app.registerUser(t, "frank@example.com", "100")

	code, body := app.do(t, "POST", "/api/v1/transfers/drafts", token, map[string]string{"account_id": accountID})
	require.Equal(t, http.StatusCreated, code)
	draftID := body["data"].(map[string]interface{})["id"].(string)
	base := "/api/v1/transfers/drafts/" + draftID

	code, _ = app.do(t, "PUT", base+"/destination", token, map[string]string{"country": "DE", "currency": "EUR"})
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, "POST", base+"/advance", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, body = app.do(t, "PUT", base+"/amount", token, map[string]interface{}{"amount": "500"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "XFER_001", body["error_code"])

	// The rejected write cleared the amount, so advancing is blocked.
	code, body = app.do(t, "POST", base+"/advance", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "XFER_005", body["error_code"])
}

func TestIntegration_DirectoryEndpoints(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token, _ := app.registerUser(t, "grace@example.com", "0")

	code, body := app.do(t, "GET", "/api/v1/currencies", token, nil)
	require.Equal(t, http.StatusOK, code)
	currencies := body["data"].([]interface{})
	assert.NotEmpty(t, currencies)

	code, body = app.do(t, "GET", "/api/v1/transfers/methods?currency=EUR", token, nil)
	require.Equal(t, http.StatusOK, code)
	methods := body["data"].([]interface{})
	require.Len(t, methods, 1)
	assert.Equal(t, "sepa", methods[0].(map[string]interface{})["method"])

	code, body = app.do(t, "GET", "/api/v1/quotes?from=USD&to=EUR&amount=500", token, nil)
	require.Equal(t, http.StatusOK, code)
	quote := body["data"].(map[string]interface{})
	assert.Equal(t, "460", quote["converted_amount"])
}

func TestIntegration_Beneficiaries(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token, _ := app.registerUser(t, "heidi@example.com", "0")

	code, body := app.do(t, "POST", "/api/v1/beneficiaries", token, map[string]string{
		"name":           "Hans Maier",
		"account_number": "DE89370400440532013000",
		"country":        "DE",
		"currency":       "EUR",
	})
	require.Equal(t, http.StatusCreated, code)
	benID := body["data"].(map[string]interface{})["id"].(string)

	code, body = app.do(t, "GET", "/api/v1/beneficiaries", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"].([]interface{}), 1)

	code, _ = app.do(t, "DELETE", "/api/v1/beneficiaries/"+benID, token, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, body = app.do(t, "GET", "/api/v1/beneficiaries", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["data"])
}

// buildReviewedDraft drives a draft through every step up to review.
func buildReviewedDraft(t *testing.T, app *testApp, token, accountID string) string {
	t.Helper()

	code, body := app.do(t, "POST", "/api/v1/transfers/drafts", token, map[string]string{"account_id": accountID})
	require.Equal(t, http.StatusCreated, code)
	draftID := body["data"].(map[string]interface{})["id"].(string)
	base := "/api/v1/transfers/drafts/" + draftID

	code, _ = app.do(t, "PUT", base+"/destination", token, map[string]string{"country": "DE", "currency": "EUR"})
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, "POST", base+"/advance", token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, "PUT", base+"/amount", token, map[string]interface{}{"amount": "500"})
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, "POST", base+"/advance", token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, "PUT", base+"/method", token, map[string]interface{}{
		"method": "sepa",
		"fields": map[string]string{
			"recipient_name": "Hans Maier",
			"iban":           "DE89370400440532013000",
			"bic":            "COBADEFFXXX",
		},
	})
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, "POST", base+"/advance", token, nil)
	require.Equal(t, http.StatusOK, code)

	return draftID
}
