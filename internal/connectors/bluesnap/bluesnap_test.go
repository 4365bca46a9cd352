package bluesnap_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/bluesnap"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var conns = &config.Connectors{
	Bluesnap: config.ConnectorParams{BaseURL: "https://sandbox.bluesnap.com/"},
}

func authorizeData(capture domain.CaptureMethod) *domain.PaymentsAuthorizeRouterData {
	return &domain.PaymentsAuthorizeRouterData{
		Flow:                        domain.FlowAuthorize,
		ConnectorRequestReferenceID: "pay_1_1",
		Status:                      domain.AttemptStarted,
		ConnectorAuthType:           domain.BodyKey("password", "api_user"),
		Request: domain.PaymentsAuthorizeData{
			PaymentMethodData: domain.PaymentMethodData{Card: &domain.Card{
				Number:   "4263982640269299",
				ExpMonth: "4",
				ExpYear:  "2030",
				CVC:      "837",
			}},
			Amount:        1099,
			Currency:      "USD",
			CaptureMethod: &capture,
			Email:         "shopper@example.com",
		},
	}
}

func TestAuthorize_Request(t *testing.T) {
	req, err := bluesnap.New().Flows().Authorize.BuildRequest(authorizeData(domain.CaptureManual), conns)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://sandbox.bluesnap.com/services/2/transactions", req.URL)

	authz, ok := req.Header(connector.HeaderAuthorization)
	require.True(t, ok)
	assert.Equal(t, connector.BasicAuth("api_user", "password").Expose(), authz)

	raw, err := req.Body.Bytes()
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "AUTH_ONLY", body["cardTransactionType"])
	assert.Equal(t, "10.99", body["amount"])
	assert.Equal(t, "04", body["creditCard"].(map[string]any)["expirationMonth"])
	assert.Equal(t, "pay_1_1", body["merchantTransactionId"])
}

func TestAuthorize_RejectsOtherAuthTypes(t *testing.T) {
	data := authorizeData(domain.CaptureAutomatic)
	data.ConnectorAuthType = domain.SignatureKey("a", "b", "c")

	_, err := bluesnap.New().Flows().Authorize.BuildRequest(data, conns)
	assert.ErrorIs(t, err, connector.ErrFailedToObtainAuthType)
}

func TestAuthorize_RejectsMultipleCaptures(t *testing.T) {
	_, err := bluesnap.New().Flows().Authorize.BuildRequest(authorizeData(domain.CaptureManualMultiple), conns)
	assert.ErrorIs(t, err, connector.ErrCaptureMethodNotSupported)
}

func TestCaptureAndVoid_UsePut(t *testing.T) {
	flows := bluesnap.New().Flows()
	auth := domain.BodyKey("password", "api_user")

	capture, err := flows.Capture.BuildRequest(&domain.PaymentsCaptureRouterData{
		Flow:              domain.FlowCapture,
		ConnectorAuthType: auth,
		Request:           domain.PaymentsCaptureData{AmountToCapture: 500, Currency: "USD", ConnectorTransactionID: "1012"},
	}, conns)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, capture.Method)

	void, err := flows.Void.BuildRequest(&domain.PaymentsCancelRouterData{
		Flow:              domain.FlowVoid,
		ConnectorAuthType: auth,
		Request:           domain.PaymentsCancelData{ConnectorTransactionID: "1012"},
	}, conns)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, void.Method)
	raw, err := void.Body.Bytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"cardTransactionType":"AUTH_REVERSAL","transactionId":"1012"}`, string(raw))
}

func TestPSync_FallsBackToMerchantTransactionID(t *testing.T) {
	b := bluesnap.New()
	data := &domain.PaymentsSyncRouterData{
		Flow:                        domain.FlowPSync,
		ConnectorRequestReferenceID: "pay_1_1",
		ConnectorAuthType:           domain.BodyKey("password", "api_user"),
	}
	require.NoError(t, b.ValidatePsyncReferenceID(data.Request))

	req, err := b.Flows().PSync.BuildRequest(data, conns)
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.bluesnap.com/services/2/transactions?merchantTransactionId=pay_1_1", req.URL)

	data.Request.ConnectorTransactionID = domain.ResponseID{ConnectorTransactionID: "1012"}
	req, err = b.Flows().PSync.BuildRequest(data, conns)
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.bluesnap.com/services/2/transactions/1012", req.URL)
}

func TestHandleResponse_Statuses(t *testing.T) {
	tests := []struct {
		body string
		want domain.AttemptStatus
	}{
		{`{"cardTransactionType":"AUTH_CAPTURE","transactionId":"1","processingInfo":{"processingStatus":"success"}}`, domain.AttemptCharged},
		{`{"cardTransactionType":"AUTH_ONLY","transactionId":"1","processingInfo":{"processingStatus":"success"}}`, domain.AttemptAuthorized},
		{`{"cardTransactionType":"AUTH_ONLY","transactionId":"1","processingInfo":{"processingStatus":"pending"}}`, domain.AttemptPending},
		{`{"cardTransactionType":"AUTH_CAPTURE","transactionId":"1","processingInfo":{"processingStatus":"declined"}}`, domain.AttemptFailure},
	}
	for _, tt := range tests {
		out, err := bluesnap.New().Flows().Authorize.HandleResponse(authorizeData(domain.CaptureAutomatic), nil, &connector.Response{
			StatusCode: http.StatusOK,
			Body:       []byte(tt.body),
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.Status, tt.body)
	}
}

func TestBuildErrorResponse(t *testing.T) {
	res, err := bluesnap.New().BuildErrorResponse(&connector.Response{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"message":[{"errorName":"INVALID_CARD_NUMBER","code":"10001","description":"Card number is invalid."}]}`),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "10001", res.Code)
	assert.Equal(t, "INVALID_CARD_NUMBER", res.Message)
	assert.Equal(t, "Card number is invalid.", res.Reason)
}

func TestRefund_HandleResponse(t *testing.T) {
	out, err := bluesnap.New().Flows().Execute.HandleResponse(&domain.RefundsRouterData{Flow: domain.FlowExecute}, nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"refundTransactionId":1012345,"refundStatus":"SUCCESS"}`),
	})
	require.NoError(t, err)
	resp, ok := out.Response.Value()
	require.True(t, ok)
	assert.Equal(t, "1012345", resp.ConnectorRefundID)
	assert.Equal(t, domain.RefundSuccess, resp.RefundStatus)
}

func signedIPN(values url.Values, secret string) *connector.IncomingWebhookRequest {
	body := []byte(values.Encode())
	ts := "1700000000"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write(body)
	headers := http.Header{}
	headers.Set("bls-signature", hex.EncodeToString(mac.Sum(nil)))
	headers.Set("bls-ipn-timestamp", ts)
	return &connector.IncomingWebhookRequest{Method: http.MethodPost, Headers: headers, Body: body}
}

func TestWebhook_Verification(t *testing.T) {
	b := bluesnap.New()
	req := signedIPN(url.Values{"transactionType": {"CHARGE"}, "referenceNumber": {"1012"}}, "ipn_secret")

	ok, err := connector.VerifyWebhookSource(b, req, "merchant_1", connector.WebhookSecret{Secret: []byte("ipn_secret")})
	require.NoError(t, err)
	assert.True(t, ok)

	req.Body = []byte(url.Values{"transactionType": {"CHARGE"}, "referenceNumber": {"9999"}}.Encode())
	ok, err = connector.VerifyWebhookSource(b, req, "merchant_1", connector.WebhookSecret{Secret: []byte("ipn_secret")})
	require.NoError(t, err)
	assert.False(t, ok)

	req.Headers.Del("bls-signature")
	_, err = connector.VerifyWebhookSource(b, req, "merchant_1", connector.WebhookSecret{Secret: []byte("ipn_secret")})
	assert.ErrorIs(t, err, connector.WebhookSignatureNotFound())
}

func TestWebhook_Events(t *testing.T) {
	b := bluesnap.New()

	refund := signedIPN(url.Values{"transactionType": {"REFUND"}, "referenceNumber": {"1012"}, "reversalRefNum": {"2020"}}, "s")
	event, err := b.WebhookEventType(refund)
	require.NoError(t, err)
	assert.Equal(t, domain.EventRefundSuccess, event)
	ref, err := b.WebhookObjectReferenceID(refund)
	require.NoError(t, err)
	assert.Equal(t, domain.RefundReference(domain.RefConnectorRefundID, "2020"), ref)

	won := signedIPN(url.Values{"transactionType": {"CHARGEBACK_STATUS_CHANGED"}, "referenceNumber": {"1012"}, "cbStatus": {"COMPLETED_WON"}}, "s")
	event, err = b.WebhookEventType(won)
	require.NoError(t, err)
	assert.Equal(t, domain.EventDisputeWon, event)

	details, err := b.DisputeDetails(won)
	require.NoError(t, err)
	assert.Equal(t, "1012", details.ConnectorDisputeID)
	assert.Equal(t, "COMPLETED_WON", details.ConnectorStatus)
}
