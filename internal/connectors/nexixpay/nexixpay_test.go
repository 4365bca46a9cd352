package nexixpay_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/nexixpay"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://xpaysandbox.nexigroup.com/api/phoenix-0.0/psp/api/v1"

var conns = &config.Connectors{Nexixpay: config.ConnectorParams{BaseURL: base}}

var auth = domain.HeaderKey("xpay_key")

func authorizeData() *domain.PaymentsAuthorizeRouterData {
	capture := domain.CaptureManual
	return &domain.PaymentsAuthorizeRouterData{
		Flow:                        domain.FlowAuthorize,
		AttemptID:                   "att_1",
		ConnectorRequestReferenceID: "ord123",
		ConnectorAuthType:           auth,
		Request: domain.PaymentsAuthorizeData{
			PaymentMethodData: domain.PaymentMethodData{Card: &domain.Card{
				Number:     "4349940199004549",
				ExpMonth:   "5",
				ExpYear:    "2030",
				CVC:        "396",
				HolderName: "Mario Rossi",
			}},
			Amount:               3545,
			Currency:             "EUR",
			CaptureMethod:        &capture,
			Email:                "mario@example.com",
			CompleteAuthorizeURL: "https://gateway.example.com/complete",
		},
	}
}

func TestAuthorize_ThreeDSInit(t *testing.T) {
	req, err := nexixpay.New().Flows().Authorize.BuildRequest(authorizeData(), conns)
	require.NoError(t, err)

	assert.Equal(t, base+"/orders/3steps/init", req.URL)
	key, ok := req.Header(connector.HeaderXAPIKey)
	require.True(t, ok)
	assert.Equal(t, "xpay_key", key)
	_, ok = req.Header("Correlation-Id")
	assert.True(t, ok)

	raw, err := req.Body.Bytes()
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	order := body["order"].(map[string]any)
	assert.Equal(t, "3545", order["amount"])
	assert.Equal(t, "ord123", order["orderId"])
	assert.Equal(t, "0530", body["card"].(map[string]any)["expiryDate"])
	assert.NotContains(t, body, "recurrence")
}

func TestAuthorize_CorrelationIDIsStable(t *testing.T) {
	flows := nexixpay.New().Flows()
	first, err := flows.Authorize.BuildRequest(authorizeData(), conns)
	require.NoError(t, err)
	second, err := flows.Authorize.BuildRequest(authorizeData(), conns)
	require.NoError(t, err)

	a, _ := first.Header("Correlation-Id")
	b, _ := second.Header("Correlation-Id")
	assert.Equal(t, a, b)
}

func TestAuthorize_OrderIDTooLong(t *testing.T) {
	data := authorizeData()
	data.ConnectorRequestReferenceID = "pay_0123456789abcdefghij"

	_, err := nexixpay.New().Flows().Authorize.BuildRequest(data, conns)
	var cerr *connector.Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, connector.KindMaxFieldLengthViolated, cerr.Kind)
}

func TestAuthorize_MerchantInitiated(t *testing.T) {
	data := authorizeData()
	data.Request.MandateID = &domain.MandateIDs{ConnectorMandateID: "ctr_abc"}

	req, err := nexixpay.New().Flows().Authorize.BuildRequest(data, conns)
	require.NoError(t, err)
	assert.Equal(t, base+"/orders/mit", req.URL)

	raw, err := req.Body.Bytes()
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "ctr_abc", body["contractId"])
	assert.Equal(t, "EXPLICIT", body["captureType"])
}

func TestAuthorize_RedirectsToACS(t *testing.T) {
	out, err := nexixpay.New().Flows().Authorize.HandleResponse(authorizeData(), nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body: []byte(`{
			"operation":{"orderId":"ord123","operationId":"op_auth","operationResult":"PENDING"},
			"threeDSEnrollmentStatus":"ENROLLED",
			"threeDSAuthRequest":"creq-blob",
			"threeDSAuthUrl":"https://acs.example.com/challenge"
		}`),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptAuthenticationPending, out.Status)

	resp, ok := out.Response.Value()
	require.True(t, ok)
	txn := resp.Transaction
	assert.Equal(t, "op_auth", txn.ResourceID.ConnectorTransactionID)
	assert.Equal(t, "creq-blob", txn.RedirectionData.FormFields["ThreeDsRequest"])
	assert.JSONEq(t, `{"psync_flow":"Authorize","authorization_operation_id":"op_auth"}`, string(txn.ConnectorMetadata))
}

func TestPreProcessing_ValidatesThreeDS(t *testing.T) {
	flows := nexixpay.New().Flows()
	data := &domain.PaymentsPreProcessingRouterData{
		Flow:              domain.FlowPreProcessing,
		ConnectorAuthType: auth,
		Request: domain.PaymentsPreProcessingData{
			ConnectorTransactionID: "op_auth",
			RedirectResponse:       &domain.RedirectResponse{Params: "PaRes=pares-blob"},
		},
	}
	req, err := flows.PreProcessing.BuildRequest(data, conns)
	require.NoError(t, err)
	assert.Equal(t, base+"/orders/3steps/validation", req.URL)
	raw, err := req.Body.Bytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"operationId":"op_auth","threeDSAuthResponse":"pares-blob"}`, string(raw))

	out, err := flows.PreProcessing.HandleResponse(data, nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body: []byte(`{
			"operation":{"operationId":"op_auth","operationResult":"THREEDS_VALIDATED"},
			"threeDSAuthResult":{"authenticationValue":"AAAB","eci":"05","xid":"x1","status":"Y"}
		}`),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptAuthorizing, out.Status)
	resp, _ := out.Response.Value()
	var meta map[string]any
	require.NoError(t, json.Unmarshal(resp.Transaction.ConnectorMetadata, &meta))
	assert.Equal(t, "AAAB", meta["three_ds_auth_result"].(map[string]any)["authenticationValue"])
}

func TestCompleteAuthorize_UsesStoredAuthResult(t *testing.T) {
	capture := domain.CaptureAutomatic
	data := &domain.PaymentsCompleteAuthorizeRouterData{
		Flow:                        domain.FlowCompleteAuthorize,
		ConnectorRequestReferenceID: "ord123",
		ConnectorAuthType:           auth,
		Request: domain.CompleteAuthorizeData{
			Amount:        3545,
			Currency:      "EUR",
			CaptureMethod: &capture,
			ConnectorMeta: json.RawMessage(`{"psync_flow":"Authorize","authorization_operation_id":"op_auth","three_ds_auth_result":{"authenticationValue":"AAAB","eci":"05"}}`),
		},
	}
	flows := nexixpay.New().Flows()
	req, err := flows.CompleteAuthorize.BuildRequest(data, conns)
	require.NoError(t, err)
	assert.Equal(t, base+"/orders/3steps/payment", req.URL)

	raw, err := req.Body.Bytes()
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "op_auth", body["operationId"])
	assert.Equal(t, "IMPLICIT", body["captureType"])
	assert.Equal(t, "05", body["threeDSAuthData"].(map[string]any)["eci"])

	out, err := flows.CompleteAuthorize.HandleResponse(data, nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"operation":{"orderId":"ord123","operationId":"op_pay","operationResult":"EXECUTED"}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptCharged, out.Status)
}

func TestPSync_RequiresConnectorMeta(t *testing.T) {
	n := nexixpay.New()
	data := &domain.PaymentsSyncRouterData{
		Flow:              domain.FlowPSync,
		ConnectorAuthType: auth,
		Request:           domain.PaymentsSyncData{ConnectorTransactionID: domain.ResponseID{ConnectorTransactionID: "op_auth"}},
	}

	_, err := n.Flows().PSync.BuildRequest(data, conns)
	var cerr *connector.Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, connector.KindMissingRequiredField, cerr.Kind)
	assert.Equal(t, "connector_meta", cerr.FieldName)
	assert.Error(t, n.ValidatePsyncReferenceID(data.Request))
}

func TestPSync_QueriesLatestOperation(t *testing.T) {
	tests := []struct {
		meta string
		want string
	}{
		{`{"psync_flow":"Authorize","authorization_operation_id":"op_auth"}`, base + "/operations/op_auth"},
		{`{"psync_flow":"Capture","authorization_operation_id":"op_auth","capture_operation_id":"op_cap"}`, base + "/operations/op_cap"},
		{`{"psync_flow":"Cancel","authorization_operation_id":"op_auth","cancel_operation_id":"op_can"}`, base + "/operations/op_can"},
	}
	for _, tt := range tests {
		req, err := nexixpay.New().Flows().PSync.BuildRequest(&domain.PaymentsSyncRouterData{
			Flow:              domain.FlowPSync,
			ConnectorAuthType: auth,
			Request:           domain.PaymentsSyncData{ConnectorMeta: json.RawMessage(tt.meta)},
		}, conns)
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, tt.want, req.URL)
	}
}

func TestCapture_RecordsOperation(t *testing.T) {
	flows := nexixpay.New().Flows()
	data := &domain.PaymentsCaptureRouterData{
		Flow:              domain.FlowCapture,
		ConnectorAuthType: auth,
		Request: domain.PaymentsCaptureData{
			AmountToCapture:        3545,
			Currency:               "EUR",
			ConnectorTransactionID: "op_auth",
			ConnectorMeta:          json.RawMessage(`{"psync_flow":"Authorize","authorization_operation_id":"op_auth"}`),
		},
	}
	req, err := flows.Capture.BuildRequest(data, conns)
	require.NoError(t, err)
	assert.Equal(t, base+"/operations/op_auth/captures", req.URL)
	idem, ok := req.Header("Idempotency-Key")
	require.True(t, ok)
	corr, _ := req.Header("Correlation-Id")
	assert.Equal(t, corr, idem)

	out, err := flows.Capture.HandleResponse(data, nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"operationId":"op_cap","operationTime":"2024-05-01T10:00:00Z"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptPending, out.Status)
	resp, _ := out.Response.Value()
	assert.JSONEq(t, `{"psync_flow":"Capture","authorization_operation_id":"op_auth","capture_operation_id":"op_cap"}`,
		string(resp.Transaction.ConnectorMetadata))
}

func TestRefund_TargetsCapture(t *testing.T) {
	flows := nexixpay.New().Flows()
	data := &domain.RefundsRouterData{
		Flow:              domain.FlowExecute,
		RefundID:          "ref_1",
		ConnectorAuthType: auth,
		Request: domain.RefundsData{
			ConnectorTransactionID: "op_auth",
			Currency:               "EUR",
			RefundAmount:           1000,
			ConnectorMetadata:      json.RawMessage(`{"psync_flow":"Capture","authorization_operation_id":"op_auth","capture_operation_id":"op_cap"}`),
		},
	}
	req, err := flows.Execute.BuildRequest(data, conns)
	require.NoError(t, err)
	assert.Equal(t, base+"/operations/op_cap/refunds", req.URL)

	out, err := flows.Execute.HandleResponse(data, nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"operationId":"op_ref"}`),
	})
	require.NoError(t, err)
	resp, ok := out.Response.Value()
	require.True(t, ok)
	assert.Equal(t, "op_ref", resp.ConnectorRefundID)
	assert.Equal(t, domain.RefundPending, resp.RefundStatus)
}

func TestRSync_Statuses(t *testing.T) {
	tests := []struct {
		result string
		want   domain.RefundStatus
	}{
		{"EXECUTED", domain.RefundSuccess},
		{"PENDING", domain.RefundPending},
	}
	for _, tt := range tests {
		out, err := nexixpay.New().Flows().RSync.HandleResponse(&domain.RefundsRouterData{
			Flow:    domain.FlowRSync,
			Request: domain.RefundsData{ConnectorRefundID: "op_ref"},
		}, nil, &connector.Response{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"operationId":"op_ref","operationResult":"` + tt.result + `"}`),
		})
		require.NoError(t, err)
		resp, ok := out.Response.Value()
		require.True(t, ok)
		assert.Equal(t, tt.want, resp.RefundStatus)
	}

	out, err := nexixpay.New().Flows().RSync.HandleResponse(&domain.RefundsRouterData{Flow: domain.FlowRSync}, nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"operationId":"op_ref","operationResult":"DECLINED"}`),
	})
	require.NoError(t, err)
	_, failed := out.Response.ErrorResponse()
	assert.True(t, failed)
}

func TestBuildErrorResponse(t *testing.T) {
	res, err := nexixpay.New().BuildErrorResponse(&connector.Response{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"errors":[{"code":"GW0001","description":"Invalid amount"}]}`),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "GW0001", res.Code)
	assert.Equal(t, "Invalid amount", res.Message)
}

func TestAuthorize_RejectsOtherAuthTypes(t *testing.T) {
	data := authorizeData()
	data.ConnectorAuthType = domain.BodyKey("a", "b")

	_, err := nexixpay.New().Flows().Authorize.BuildRequest(data, conns)
	assert.ErrorIs(t, err, connector.ErrFailedToObtainAuthType)
}
