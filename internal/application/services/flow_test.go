package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/application/services"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/connectors"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/mocks"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const authorizePayload = `{
	"payment_method_data": {"card": {
		"card_number": "4263982640269299",
		"card_exp_month": "4",
		"card_exp_year": "2030",
		"card_cvc": "837"
	}},
	"minor_amount": 1099,
	"currency": "USD",
	"capture_method": "automatic",
	"email": "shopper@example.com"
}`

type flowFixture struct {
	server   *connectorServer
	accounts *mocks.MockMerchantConnectorAccountRepository
	tokens   *mocks.MockAccessTokenProvider
	service  *services.FlowService
}

func newFlowFixture(t *testing.T, status int, body string) *flowFixture {
	t.Helper()
	server := newConnectorServer(t, status, body)
	accounts := mocks.NewMockMerchantConnectorAccountRepository(t)
	tokens := mocks.NewMockAccessTokenProvider(t)
	svc := services.NewFlowService(
		defaultRegistry(t),
		accounts,
		tokens,
		newExecutor(server.connectors()),
		discardLogger(),
	)
	return &flowFixture{server: server, accounts: accounts, tokens: tokens, service: svc}
}

func TestFlowService_AuthorizeCharged(t *testing.T) {
	f := newFlowFixture(t, http.StatusOK, `{
		"cardTransactionType": "AUTH_CAPTURE",
		"transactionId": "38513458",
		"processingInfo": {"processingStatus": "success"}
	}`)
	f.accounts.EXPECT().
		FindByMerchantAndConnector(mock.Anything, "merchant_1", "bluesnap").
		Return(bluesnapAccount("merchant_1"), nil)

	result, err := f.service.Run(context.Background(), services.FlowCommand{
		MerchantID: "merchant_1",
		Connector:  "bluesnap",
		Flow:       domain.FlowAuthorize,
		PaymentID:  "pay_1",
		AttemptID:  "pay_1_1",
		Request:    json.RawMessage(authorizePayload),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AttemptCharged, result.Status)
	assert.Nil(t, result.Error)
	resp, ok := result.Response.(domain.PaymentsResponseData)
	require.True(t, ok)
	require.NotNil(t, resp.Transaction)
	assert.Equal(t, "38513458", resp.Transaction.ResourceID.ConnectorTransactionID)

	received := f.server.received()
	require.Len(t, received, 1)
	assert.Equal(t, http.MethodPost, received[0].Method)
	assert.Equal(t, "/services/2/transactions", received[0].URL.Path)
}

func TestFlowService_ConnectorRejection(t *testing.T) {
	f := newFlowFixture(t, http.StatusBadRequest, `{"message":[{
		"errorName": "INVALID_CARD_NUMBER",
		"code": "10001",
		"description": "Card number is invalid"
	}]}`)
	f.accounts.EXPECT().
		FindByMerchantAndConnector(mock.Anything, "merchant_1", "bluesnap").
		Return(bluesnapAccount("merchant_1"), nil)

	result, err := f.service.Run(context.Background(), services.FlowCommand{
		MerchantID: "merchant_1",
		Connector:  "bluesnap",
		Flow:       domain.FlowAuthorize,
		AttemptID:  "pay_1_1",
		Request:    json.RawMessage(authorizePayload),
	})
	require.NoError(t, err)

	require.NotNil(t, result.Error)
	assert.Equal(t, "10001", result.Error.Code)
	assert.Equal(t, http.StatusBadRequest, result.ConnectorHTTPStatusCode)
	assert.Nil(t, result.Response)
}

func TestFlowService_RejectsUnsupportedCaptureMethod(t *testing.T) {
	f := newFlowFixture(t, http.StatusOK, `{}`)
	f.accounts.EXPECT().
		FindByMerchantAndConnector(mock.Anything, "merchant_1", "zsl").
		Return(&domain.MerchantConnectorAccount{
			MerchantID:    "merchant_1",
			ConnectorName: "zsl",
			Auth:          domain.BodyKey("zsl_merchant", "zsl_key"),
		}, nil)

	_, err := f.service.Run(context.Background(), services.FlowCommand{
		MerchantID: "merchant_1",
		Connector:  "zsl",
		Flow:       domain.FlowAuthorize,
		AttemptID:  "pay_1_1",
		Request:    json.RawMessage(`{"payment_method_data":{"bank_transfer":{"type":"local_bank_transfer"}},"minor_amount":1000,"currency":"CNY","capture_method":"manual"}`),
	})

	cErr, ok := connector.AsError(err)
	require.True(t, ok)
	assert.Equal(t, connector.KindNotSupported, cErr.Kind)
	assert.Empty(t, f.server.received())
}

func TestFlowService_LookupFailures(t *testing.T) {
	tests := []struct {
		name  string
		cmd   services.FlowCommand
		setup func(f *flowFixture)
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown connector",
			cmd:  services.FlowCommand{MerchantID: "merchant_1", Connector: "acme", Flow: domain.FlowAuthorize},
			check: func(t *testing.T, err error) {
				var unknown *connectors.UnknownConnectorError
				assert.ErrorAs(t, err, &unknown)
			},
		},
		{
			name: "flow the connector lacks",
			cmd:  services.FlowCommand{MerchantID: "merchant_1", Connector: "bluesnap", Flow: domain.FlowSession},
			check: func(t *testing.T, err error) {
				cErr, ok := connector.AsError(err)
				require.True(t, ok)
				assert.Equal(t, connector.KindFlowNotSupported, cErr.Kind)
			},
		},
		{
			name: "access token flow",
			cmd:  services.FlowCommand{MerchantID: "merchant_1", Connector: "deutschebank", Flow: domain.FlowAccessTokenAuth},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apierrors.ErrInvalidRequestData)
			},
		},
		{
			name: "missing account",
			cmd:  services.FlowCommand{MerchantID: "merchant_1", Connector: "bluesnap", Flow: domain.FlowAuthorize},
			setup: func(f *flowFixture) {
				f.accounts.EXPECT().
					FindByMerchantAndConnector(mock.Anything, "merchant_1", "bluesnap").
					Return(nil, postgres.ErrMerchantConnectorAccountNotFound)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apierrors.ErrNotFound)
			},
		},
		{
			name: "disabled account",
			cmd:  services.FlowCommand{MerchantID: "merchant_1", Connector: "bluesnap", Flow: domain.FlowAuthorize},
			setup: func(f *flowFixture) {
				account := bluesnapAccount("merchant_1")
				account.Disabled = true
				f.accounts.EXPECT().
					FindByMerchantAndConnector(mock.Anything, "merchant_1", "bluesnap").
					Return(account, nil)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apierrors.ErrNotFound)
			},
		},
		{
			name: "malformed payload",
			cmd: services.FlowCommand{
				MerchantID: "merchant_1",
				Connector:  "bluesnap",
				Flow:       domain.FlowAuthorize,
				Request:    json.RawMessage(`{"minor_amount":"ten"}`),
			},
			setup: func(f *flowFixture) {
				f.accounts.EXPECT().
					FindByMerchantAndConnector(mock.Anything, "merchant_1", "bluesnap").
					Return(bluesnapAccount("merchant_1"), nil)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apierrors.ErrInvalidRequestData)
				apiErr, ok := apierrors.IsAPIError(err)
				require.True(t, ok)
				assert.NotEmpty(t, apiErr.Reason)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFlowFixture(t, http.StatusOK, `{}`)
			if tt.setup != nil {
				tt.setup(f)
			}

			result, err := f.service.Run(context.Background(), tt.cmd)

			require.Error(t, err)
			assert.Nil(t, result)
			tt.check(t, err)
			assert.Empty(t, f.server.received())
		})
	}
}

func TestFlowService_DropsRejectedAccessToken(t *testing.T) {
	f := newFlowFixture(t, http.StatusUnauthorized, `{"error":"invalid_token","error_description":"token expired"}`)
	account := &domain.MerchantConnectorAccount{
		MerchantID:    "merchant_1",
		ConnectorName: "deutschebank",
		Auth:          domain.SignatureKey("client_id", "merchant_id", "client_secret"),
	}
	f.accounts.EXPECT().
		FindByMerchantAndConnector(mock.Anything, "merchant_1", "deutschebank").
		Return(account, nil)
	f.tokens.EXPECT().
		Token(mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.AccessToken{Token: "stale", ExpiresIn: 3600}, nil)
	f.tokens.EXPECT().
		Invalidate(mock.Anything, "merchant_1", "deutschebank").
		Return(nil)

	result, err := f.service.Run(context.Background(), services.FlowCommand{
		MerchantID: "merchant_1",
		Connector:  "deutschebank",
		Flow:       domain.FlowPSync,
		AttemptID:  "pay_1_1",
		Request:    json.RawMessage(`{"connector_transaction_id":{"connector_transaction_id":"tx_123"},"minor_amount":1000,"currency":"EUR"}`),
	})
	require.NoError(t, err)

	require.NotNil(t, result.Error)
	assert.Equal(t, "invalid_token", result.Error.Code)
	assert.Equal(t, http.StatusUnauthorized, result.ConnectorHTTPStatusCode)

	received := f.server.received()
	require.Len(t, received, 1)
	assert.Equal(t, "/services/v2.1/payment/tx/tx_123", received[0].URL.Path)
	assert.Equal(t, "Bearer stale", received[0].Header.Get("Authorization"))
}
