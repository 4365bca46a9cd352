package worldpayxml_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/connectors/worldpayxml"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endpoint = "https://secure-test.worldpay.com/jsp/merchant/xml/paymentService.jsp"

var conns = &config.Connectors{Worldpayxml: config.ConnectorParams{BaseURL: endpoint}}

var auth = domain.SignatureKey("xml_user", "xml_pass", "MERCHANT1")

func authorizeData(capture domain.CaptureMethod) *domain.PaymentsAuthorizeRouterData {
	return &domain.PaymentsAuthorizeRouterData{
		Flow:                        domain.FlowAuthorize,
		ConnectorRequestReferenceID: "order_1",
		PaymentMethod:               domain.PaymentMethodCard,
		ConnectorAuthType:           auth,
		Request: domain.PaymentsAuthorizeData{
			PaymentMethodData: domain.PaymentMethodData{Card: &domain.Card{
				Number:     "4444333322221111",
				ExpMonth:   "9",
				ExpYear:    "31",
				CVC:        "123",
				HolderName: "John Smith",
			}},
			Amount:        1999,
			Currency:      "GBP",
			CaptureMethod: &capture,
			Email:         "john@example.com",
		},
	}
}

func body(t *testing.T, req *connector.Request) string {
	t.Helper()
	raw, err := req.Body.Bytes()
	require.NoError(t, err)
	return string(raw)
}

func TestAuthorize_Request(t *testing.T) {
	req, err := worldpayxml.New().Flows().Authorize.BuildRequest(authorizeData(domain.CaptureManual), conns)
	require.NoError(t, err)

	assert.Equal(t, endpoint, req.URL)
	assert.Equal(t, http.MethodPost, req.Method)
	ct, _ := req.Header(connector.HeaderContentType)
	assert.Equal(t, connector.ContentTypeXML, ct)
	authz, _ := req.Header(connector.HeaderAuthorization)
	assert.Equal(t, connector.BasicAuth("xml_user", "xml_pass").Expose(), authz)

	xmlBody := body(t, req)
	assert.True(t, strings.HasPrefix(xmlBody, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, xmlBody, `<!DOCTYPE paymentService PUBLIC "-//WorldPay//DTD WorldPay PaymentService v1//EN"`)
	assert.Contains(t, xmlBody, `<paymentService version="1.4" merchantCode="MERCHANT1">`)
	assert.Contains(t, xmlBody, `<order orderCode="order_1" captureDelay="OFF">`)
	assert.Contains(t, xmlBody, `<amount value="1999" currencyCode="GBP" exponent="2"></amount>`)
	assert.Contains(t, xmlBody, `<date month="09" year="2031"></date>`)
	assert.Contains(t, xmlBody, `<cardHolderName>John Smith</cardHolderName>`)
	assert.Contains(t, xmlBody, `<shopperEmailAddress>john@example.com</shopperEmailAddress>`)
}

func TestAuthorize_AutomaticCaptureAndExponent(t *testing.T) {
	data := authorizeData(domain.CaptureAutomatic)
	data.Request.Currency = "JPY"
	data.Request.Amount = 500
	req, err := worldpayxml.New().Flows().Authorize.BuildRequest(data, conns)
	require.NoError(t, err)

	xmlBody := body(t, req)
	assert.Contains(t, xmlBody, `captureDelay="0"`)
	assert.Contains(t, xmlBody, `<amount value="500" currencyCode="JPY" exponent="0"></amount>`)
}

func TestAuthorize_Deterministic(t *testing.T) {
	w := worldpayxml.New()
	first, err := w.Flows().Authorize.BuildRequest(authorizeData(domain.CaptureManual), conns)
	require.NoError(t, err)
	second, err := w.Flows().Authorize.BuildRequest(authorizeData(domain.CaptureManual), conns)
	require.NoError(t, err)
	assert.Equal(t, body(t, first), body(t, second))
}

func TestAuthorize_Errors(t *testing.T) {
	w := worldpayxml.New()

	data := authorizeData(domain.CaptureManual)
	data.ConnectorAuthType = domain.BodyKey("a", "b")
	_, err := w.Flows().Authorize.BuildRequest(data, conns)
	assert.ErrorIs(t, err, connector.ErrFailedToObtainAuthType)

	data = authorizeData(domain.CaptureManual)
	data.Request.PaymentMethodData.Card.HolderName = ""
	_, err = w.Flows().Authorize.BuildRequest(data, conns)
	assert.ErrorIs(t, err, connector.ErrMissingRequiredField)

	data = authorizeData(domain.CaptureManual)
	data.Request.PaymentMethodData = domain.PaymentMethodData{Wallet: &domain.WalletData{Type: domain.PMTPaypal}}
	_, err = w.Flows().Authorize.BuildRequest(data, conns)
	assert.ErrorIs(t, err, connector.ErrNotSupported)

	_, err = w.Flows().Authorize.BuildRequest(authorizeData(domain.CaptureScheduled), conns)
	assert.ErrorIs(t, err, connector.ErrCaptureMethodNotSupported)
}

func orderStatus(lastEvent string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE paymentService PUBLIC "-//WorldPay//DTD WorldPay PaymentService v1//EN" "http://dtd.worldpay.com/paymentService_v1.dtd">
<paymentService version="1.4" merchantCode="MERCHANT1">
  <reply>
    <orderStatus orderCode="order_1">
      <payment>
        <paymentMethod>VISA-SSL</paymentMethod>
        <amount value="1999" currencyCode="GBP" exponent="2" debitCreditIndicator="credit"/>
        <lastEvent>` + lastEvent + `</lastEvent>
        <ISO8583ReturnCode code="5" description="REFUSED"/>
      </payment>
    </orderStatus>
  </reply>
</paymentService>`)
}

func TestAuthorize_Responses(t *testing.T) {
	tests := []struct {
		lastEvent string
		capture   domain.CaptureMethod
		want      domain.AttemptStatus
	}{
		{"AUTHORISED", domain.CaptureManual, domain.AttemptAuthorized},
		{"AUTHORISED", domain.CaptureAutomatic, domain.AttemptPending},
		{"CAPTURED", domain.CaptureAutomatic, domain.AttemptCharged},
		{"SENT_FOR_AUTHORISATION", domain.CaptureManual, domain.AttemptAuthorizing},
		{"CANCELLED", domain.CaptureManual, domain.AttemptVoided},
		{"REFUSED", domain.CaptureManual, domain.AttemptFailure},
	}
	for _, tt := range tests {
		t.Run(tt.lastEvent+"_"+string(tt.capture), func(t *testing.T) {
			out, err := worldpayxml.New().Flows().Authorize.HandleResponse(authorizeData(tt.capture), nil, &connector.Response{
				StatusCode: http.StatusOK,
				Body:       orderStatus(tt.lastEvent),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Status)
			if tt.want == domain.AttemptFailure {
				errResp, failed := out.Response.ErrorResponse()
				require.True(t, failed)
				assert.Equal(t, "5", errResp.Code)
				assert.Equal(t, "order_1", errResp.ConnectorTransactionID)
				return
			}
			resp, ok := out.Response.Value()
			require.True(t, ok)
			assert.Equal(t, "order_1", resp.Transaction.ResourceID.ConnectorTransactionID)
		})
	}
}

func TestAuthorize_ReplyError(t *testing.T) {
	out, err := worldpayxml.New().Flows().Authorize.HandleResponse(authorizeData(domain.CaptureManual), nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body: []byte(`<paymentService version="1.4" merchantCode="MERCHANT1"><reply>` +
			`<error code="5"><![CDATA[Order has already been paid]]></error></reply></paymentService>`),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptFailure, out.Status)
	errResp, failed := out.Response.ErrorResponse()
	require.True(t, failed)
	assert.Equal(t, "Order has already been paid", errResp.Message)
}

func TestCaptureAndVoid(t *testing.T) {
	w := worldpayxml.New()
	capture := &domain.PaymentsCaptureRouterData{
		Flow:              domain.FlowCapture,
		ConnectorAuthType: auth,
		Request: domain.PaymentsCaptureData{
			AmountToCapture:        1000,
			PaymentAmount:          1999,
			Currency:               "GBP",
			ConnectorTransactionID: "order_1",
		},
	}
	req, err := w.Flows().Capture.BuildRequest(capture, conns)
	require.NoError(t, err)
	assert.Contains(t, body(t, req), `<modify><orderModification orderCode="order_1"><capture><amount value="1000" currencyCode="GBP" exponent="2"></amount></capture></orderModification></modify>`)

	out, err := w.Flows().Capture.HandleResponse(capture, nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`<paymentService version="1.4" merchantCode="MERCHANT1"><reply><ok><captureReceived orderCode="order_1"/></ok></reply></paymentService>`),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptCaptureInitiated, out.Status)

	cancel := &domain.PaymentsCancelRouterData{
		Flow:              domain.FlowVoid,
		ConnectorAuthType: auth,
		Request:           domain.PaymentsCancelData{ConnectorTransactionID: "order_1"},
	}
	req, err = w.Flows().Void.BuildRequest(cancel, conns)
	require.NoError(t, err)
	assert.Contains(t, body(t, req), `<orderModification orderCode="order_1"><cancel></cancel></orderModification>`)

	voided, err := w.Flows().Void.HandleResponse(cancel, nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`<paymentService version="1.4" merchantCode="MERCHANT1"><reply><error code="5">Order not cancellable</error></reply></paymentService>`),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptVoidFailed, voided.Status)
}

func TestPSync(t *testing.T) {
	w := worldpayxml.New()
	data := &domain.PaymentsSyncRouterData{
		Flow:              domain.FlowPSync,
		ConnectorAuthType: auth,
		Request: domain.PaymentsSyncData{
			ConnectorTransactionID: domain.ResponseID{ConnectorTransactionID: "order_1"},
		},
	}
	req, err := w.Flows().PSync.BuildRequest(data, conns)
	require.NoError(t, err)
	assert.Contains(t, body(t, req), `<inquiry><orderInquiry orderCode="order_1"></orderInquiry></inquiry>`)

	out, err := w.Flows().PSync.HandleResponse(data, nil, &connector.Response{StatusCode: http.StatusOK, Body: orderStatus("SETTLED")})
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptCharged, out.Status)

	data.Request.ConnectorTransactionID = domain.ResponseID{}
	_, err = w.Flows().PSync.BuildRequest(data, conns)
	assert.ErrorIs(t, err, connector.ErrMissingConnectorTransactionID)
}

func refundData() *domain.RefundsRouterData {
	return &domain.RefundsRouterData{
		Flow:              domain.FlowExecute,
		ConnectorAuthType: auth,
		Request: domain.RefundsData{
			RefundID:               "ref_1",
			ConnectorTransactionID: "order_1",
			Currency:               "GBP",
			PaymentAmount:          1999,
			RefundAmount:           500,
		},
	}
}

func TestRefund(t *testing.T) {
	w := worldpayxml.New()
	req, err := w.Flows().Execute.BuildRequest(refundData(), conns)
	require.NoError(t, err)
	assert.Contains(t, body(t, req), `<refund><amount value="500" currencyCode="GBP" exponent="2"></amount></refund>`)

	out, err := w.Flows().Execute.HandleResponse(refundData(), nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`<paymentService version="1.4" merchantCode="MERCHANT1"><reply><ok><refundReceived orderCode="order_1"/></ok></reply></paymentService>`),
	})
	require.NoError(t, err)
	resp, ok := out.Response.Value()
	require.True(t, ok)
	assert.Equal(t, domain.RefundPending, resp.RefundStatus)
	assert.Equal(t, "order_1", resp.ConnectorRefundID)
}

func TestRSync_Statuses(t *testing.T) {
	tests := []struct {
		lastEvent string
		want      domain.RefundStatus
	}{
		{"SENT_FOR_REFUND", domain.RefundPending},
		{"REFUNDED", domain.RefundSuccess},
		{"REFUNDED_BY_MERCHANT", domain.RefundSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.lastEvent, func(t *testing.T) {
			out, err := worldpayxml.New().Flows().RSync.HandleResponse(refundData(), nil, &connector.Response{
				StatusCode: http.StatusOK,
				Body:       orderStatus(tt.lastEvent),
			})
			require.NoError(t, err)
			resp, ok := out.Response.Value()
			require.True(t, ok)
			assert.Equal(t, tt.want, resp.RefundStatus)
		})
	}

	out, err := worldpayxml.New().Flows().RSync.HandleResponse(refundData(), nil, &connector.Response{
		StatusCode: http.StatusOK,
		Body:       orderStatus("REFUND_FAILED"),
	})
	require.NoError(t, err)
	_, failed := out.Response.ErrorResponse()
	assert.True(t, failed)
}

func TestErrorResponse(t *testing.T) {
	w := worldpayxml.New()
	got, err := w.BuildErrorResponse(&connector.Response{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`<paymentService version="1.4" merchantCode="MERCHANT1"><reply><error code="4">Security violation</error></reply></paymentService>`),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, got.StatusCode)
	assert.Equal(t, "4", got.Code)
	assert.Equal(t, "Security violation", got.Message)

	got, err = w.BuildErrorResponse(&connector.Response{StatusCode: http.StatusUnauthorized, Body: []byte("<html><body>401</body></html>")}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, got.StatusCode)
	assert.Equal(t, domain.NoErrorCode, got.Code)
}

func TestWebhooks_NotImplemented(t *testing.T) {
	_, err := worldpayxml.New().WebhookEventType(&connector.IncomingWebhookRequest{})
	assert.ErrorIs(t, err, connector.ErrWebhooksNotImplemented)
}
