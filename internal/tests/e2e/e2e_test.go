package e2e

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/DanielPopoola/connector-gateway/api"
	"github.com/DanielPopoola/connector-gateway/internal/application/services"
	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector/executor"
	"github.com/DanielPopoola/connector-gateway/internal/connectors"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/connector-gateway/internal/observability"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres/testhelpers"
	"github.com/DanielPopoola/connector-gateway/internal/storage/tokencache"
	"github.com/DanielPopoola/connector-gateway/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	merchantID    = "merchant_e2e"
	webhookSecret = "bluesnap_e2e_secret"
)

type E2ETestSuite struct {
	suite.Suite
	testDB     *testhelpers.TestDatabase
	connector  *FakeConnector
	gateway    *httptest.Server
	client     *TestClient
	refundSync *worker.RefundSyncWorker
}

func TestE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}

	suite.Run(t, new(E2ETestSuite))
}

func (suite *E2ETestSuite) SetupSuite() {
	t := suite.T()
	suite.testDB = testhelpers.SetupTestDatabase(t)

	suite.connector = NewFakeConnector()
	connectorServer := httptest.NewServer(suite.connector)
	t.Cleanup(connectorServer.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := suite.testDB.DB

	registry, err := connectors.Default()
	require.NoError(t, err)

	retryClient, err := executor.NewRetryClient(
		executor.NewHTTPClient(config.HTTPClientConfig{Timeout: 5 * time.Second}, logger),
		config.RetryConfig{BaseDelay: time.Millisecond, MaxRetries: 1, Policy: "network_error"},
		logger,
	)
	require.NoError(t, err)

	conns := &config.Connectors{Bluesnap: config.ConnectorParams{BaseURL: connectorServer.URL + "/"}}
	exec := executor.New(retryClient, conns, observability.NewMetrics(prometheus.NewRegistry()), logger)
	tokens := executor.NewAccessTokenProvider(tokencache.NewMemoryStore(), exec, logger)

	refundRepo := postgres.NewRefundRepository(db)
	disputeRepo := postgres.NewDisputeRepository(db)
	accountRepo := postgres.NewMerchantConnectorAccountRepository(db)

	refundService := services.NewRefundService(registry, refundRepo, accountRepo, tokens, db, exec, logger)
	h := handlers.NewHandlers(
		registry,
		services.NewFlowService(registry, accountRepo, tokens, exec, logger),
		refundService,
		services.NewDisputeService(disputeRepo),
		services.NewWebhookService(registry, accountRepo, refundRepo, disputeRepo, db,
			observability.NewMetrics(prometheus.NewRegistry()), logger),
		services.NewAccountService(registry, accountRepo),
		logger,
	)

	router, err := handlers.NewRouter(h, handlers.RouterConfig{
		ServiceName:    "connector-gateway-e2e",
		RequestTimeout: 10 * time.Second,
		OpenAPI:        api.OpenAPI,
		Health:         db.Ping,
	}, logger)
	require.NoError(t, err)

	suite.gateway = httptest.NewServer(router)
	suite.client = NewTestClient(suite.gateway.URL, merchantID)
	suite.refundSync = worker.NewRefundSyncWorker(refundService, time.Minute, 10, logger)
}

func (suite *E2ETestSuite) TearDownSuite() {
	suite.gateway.Close()
	suite.testDB.Cleanup(suite.T())
}

func (suite *E2ETestSuite) SetupTest() {
	_, err := suite.client.CreateAccount(suite.T(), map[string]any{
		"connector": "bluesnap",
		"connector_account_details": map[string]any{
			"auth_type": "BodyKey",
			"api_key":   "api_pass",
			"key1":      "api_user",
		},
		"webhook_secret": webhookSecret,
		"test_mode":      true,
	})
	require.NoError(suite.T(), err)
}

func (suite *E2ETestSuite) TearDownTest() {
	suite.testDB.CleanTables(suite.T())
}

func refundRequest(amount int64) map[string]any {
	return map[string]any{
		"connector":                "bluesnap",
		"payment_id":               "pay_e2e",
		"connector_transaction_id": "38513458",
		"payment_amount":           10000,
		"refund_amount":            amount,
		"currency":                 "USD",
		"payment_method":           "card",
	}
}

func signedIPN(form url.Values) (http.Header, []byte) {
	body := []byte(form.Encode())
	timestamp := time.Now().UTC().Format(time.RFC3339)

	m := hmac.New(sha256.New, []byte(webhookSecret))
	m.Write([]byte(timestamp))
	m.Write(body)

	headers := http.Header{}
	headers.Set("Content-Type", "application/x-www-form-urlencoded")
	headers.Set("Bls-Ipn-Timestamp", timestamp)
	headers.Set("Bls-Signature", hex.EncodeToString(m.Sum(nil)))
	return headers, body
}

// ============================================================================
// HAPPY PATH: refund accepted, settled by webhook
// ============================================================================

func (suite *E2ETestSuite) TestRefundSettledByWebhook() {
	t := suite.T()
	suite.connector.Respond(http.StatusOK, `{"refundTransactionId":1019,"refundStatus":"PENDING"}`)

	refund, err := suite.client.CreateRefund(t, refundRequest(2500))
	require.NoError(t, err)
	assert.Equal(t, "pending", refund.Status)
	assert.Equal(t, "1019", refund.ConnectorRefundID)

	headers, body := signedIPN(url.Values{
		"transactionType": {"REFUND"},
		"referenceNumber": {"38513458"},
		"reversalRefNum":  {"1019"},
	})
	resp := suite.client.SendWebhook(t, "bluesnap", headers, body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	settled, err := suite.client.GetRefund(t, refund.RefundID)
	require.NoError(t, err)
	assert.Equal(t, "success", settled.Status)
}

func (suite *E2ETestSuite) TestTamperedWebhookRejected() {
	t := suite.T()
	suite.connector.Respond(http.StatusOK, `{"refundTransactionId":1019,"refundStatus":"PENDING"}`)

	refund, err := suite.client.CreateRefund(t, refundRequest(2500))
	require.NoError(t, err)

	headers, _ := signedIPN(url.Values{
		"transactionType": {"REFUND"},
		"referenceNumber": {"38513458"},
		"reversalRefNum":  {"1019"},
	})
	tampered := []byte(url.Values{
		"transactionType": {"REFUND"},
		"referenceNumber": {"38513458"},
		"reversalRefNum":  {"1019"},
		"amount":          {"9999"},
	}.Encode())

	resp := suite.client.SendWebhook(t, "bluesnap", headers, tampered)
	assert.GreaterOrEqual(t, resp.StatusCode, 400)

	unchanged, err := suite.client.GetRefund(t, refund.RefundID)
	require.NoError(t, err)
	assert.Equal(t, "pending", unchanged.Status)
}

// ============================================================================
// SYNC: explicit and background
// ============================================================================

func (suite *E2ETestSuite) TestRefundSettledBySync() {
	t := suite.T()
	suite.connector.Respond(http.StatusOK, `{"refundTransactionId":1019,"refundStatus":"PENDING"}`)

	refund, err := suite.client.CreateRefund(t, refundRequest(2500))
	require.NoError(t, err)

	suite.connector.Respond(http.StatusOK, `{"transactionId":"1019","processingInfo":{"processingStatus":"success"}}`)

	synced, err := suite.client.SyncRefund(t, refund.RefundID)
	require.NoError(t, err)
	assert.Equal(t, "success", synced.Status)
	assert.Contains(t, suite.connector.Paths(), "GET /services/2/transactions/1019")
}

func (suite *E2ETestSuite) TestRefundSettledByWorker() {
	t := suite.T()
	suite.connector.Respond(http.StatusOK, `{"refundTransactionId":1019,"refundStatus":"PENDING"}`)

	refund, err := suite.client.CreateRefund(t, refundRequest(2500))
	require.NoError(t, err)

	suite.connector.Respond(http.StatusOK, `{"transactionId":"1019","processingInfo":{"processingStatus":"success"}}`)
	suite.refundSync.RunOnce(context.Background())

	settled, err := suite.client.GetRefund(t, refund.RefundID)
	require.NoError(t, err)
	assert.Equal(t, "success", settled.Status)
}

// ============================================================================
// FAILURES
// ============================================================================

func (suite *E2ETestSuite) TestConnectorDeclineFailsRefund() {
	t := suite.T()
	suite.connector.Respond(http.StatusBadRequest,
		`{"message":[{"errorName":"REFUND_FAILED","code":"14022","description":"Refund declined"}]}`)

	refund, err := suite.client.CreateRefund(t, refundRequest(2500))
	require.NoError(t, err)

	assert.Equal(t, "failure", refund.Status)
	assert.Equal(t, "14022", refund.ErrorCode)
}

func (suite *E2ETestSuite) TestRefundAboveCapturedAmountRejected() {
	t := suite.T()

	_, err := suite.client.CreateRefund(t, refundRequest(20000))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "IR_13", apiErr.Code)
}

func (suite *E2ETestSuite) TestRefundsOfOnePaymentCannotExceedIt() {
	t := suite.T()
	suite.connector.Respond(http.StatusOK, `{"refundTransactionId":1019,"refundStatus":"SUCCESS"}`)

	first, err := suite.client.CreateRefund(t, refundRequest(7000))
	require.NoError(t, err)
	assert.Equal(t, "success", first.Status)
	sent := len(suite.connector.Paths())

	_, err = suite.client.CreateRefund(t, refundRequest(7000))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "IR_13", apiErr.Code)
	assert.Len(t, suite.connector.Paths(), sent)

	suite.connector.Respond(http.StatusOK, `{"refundTransactionId":1020,"refundStatus":"SUCCESS"}`)
	rest, err := suite.client.CreateRefund(t, refundRequest(3000))
	require.NoError(t, err)
	assert.Equal(t, "success", rest.Status)
}

func (suite *E2ETestSuite) TestOtherMerchantCannotSeeRefund() {
	t := suite.T()
	suite.connector.Respond(http.StatusOK, `{"refundTransactionId":1019,"refundStatus":"SUCCESS"}`)

	refund, err := suite.client.CreateRefund(t, refundRequest(2500))
	require.NoError(t, err)

	other := NewTestClient(suite.gateway.URL, "merchant_other")
	_, err = other.GetRefund(t, refund.RefundID)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
