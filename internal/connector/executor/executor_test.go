package executor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/observability"
	"github.com/DanielPopoola/connector-gateway/internal/storage/tokencache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testCommon struct {
	baseURL string
}

func (testCommon) ID() string { return "testpay" }
func (testCommon) CurrencyUnit() connector.CurrencyUnit { return connector.CurrencyUnitMinor }
func (testCommon) CommonContentType() string { return connector.ContentTypeJSON }
func (c testCommon) BaseURL(*config.Connectors) string { return c.baseURL }
func (testCommon) AuthHeader(auth domain.ConnectorAuthType) ([]connector.Header, error) {
	return []connector.Header{connector.MaskedHeader(connector.HeaderXAPIKey, auth.APIKey)}, nil
}

func (testCommon) BuildErrorResponse(res *connector.Response, event *connector.EventBuilder) (domain.ErrorResponse, error) {
	type body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	}
	return connector.BuildJSONErrorResponse(res, event, func(b body) domain.ErrorResponse {
		out := domain.ErrorResponse{Code: b.Code, Message: b.Message, Reason: b.Message}
		if b.Status != "" {
			s := domain.AttemptStatus(b.Status)
			out.AttemptStatus = &s
		}
		return out
	}), nil
}

type txnBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func syncFlow(baseURL string) *connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData] {
	c := testCommon{baseURL: baseURL}
	return &connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
		Common: c,
		Method: http.MethodGet,
		URLFn: func(data *domain.PaymentsSyncRouterData, conns *config.Connectors) (string, error) {
			return c.BaseURL(conns) + "/payments/" + data.Request.ConnectorTransactionID.ConnectorTransactionID, nil
		},
		ResponseFn: func(data *domain.PaymentsSyncRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsSyncRouterData, error) {
			body, err := connector.ParseJSON[txnBody](res.Body)
			if err != nil {
				return nil, err
			}
			event.SetResponseBody(body)
			return connector.WithPaymentsResponse(data, domain.AttemptStatus(body.Status),
				domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
					ResourceID: domain.ResponseID{ConnectorTransactionID: body.ID},
				})), res.StatusCode), nil
		},
	}
}

func syncData() *domain.PaymentsSyncRouterData {
	return &domain.PaymentsSyncRouterData{
		Flow:              domain.FlowPSync,
		Connector:         "testpay",
		PaymentID:         "pay_1",
		Status:            domain.AttemptPending,
		ConnectorAuthType: domain.HeaderKey("secret_key"),
		Request: domain.PaymentsSyncData{
			ConnectorTransactionID: domain.ResponseID{ConnectorTransactionID: "txn_1"},
		},
	}
}

func newTestExecutor(t *testing.T) (*Executor, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	client := NewHTTPClient(config.HTTPClientConfig{Timeout: 5 * time.Second}, discardLogger())
	return New(client, &config.Connectors{}, metrics, discardLogger()), metrics
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// ============================================================================
// Execute
// ============================================================================

func TestExecute_SuccessGoesToHandleResponse(t *testing.T) {
	var gotKey, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotPath = r.URL.Path
		respond(http.StatusOK, `{"id":"txn_1","status":"charged"}`)(w, r)
	}))
	defer server.Close()

	exec, metrics := newTestExecutor(t)
	data := syncData()

	out, err := Execute(context.Background(), exec, "testpay", syncFlow(server.URL), data)
	require.NoError(t, err)

	assert.Equal(t, "secret_key", gotKey)
	assert.Equal(t, "/payments/txn_1", gotPath)
	assert.Equal(t, domain.AttemptCharged, out.Status)
	resp, ok := out.Response.Value()
	require.True(t, ok)
	assert.Equal(t, "txn_1", resp.Transaction.ResourceID.ConnectorTransactionID)
	assert.Equal(t, http.StatusOK, out.ConnectorHTTPStatusCode)

	assert.Equal(t, domain.AttemptPending, data.Status, "input must not be modified")
	assert.False(t, data.Response.IsSet())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ConnectorRequests().WithLabelValues("testpay", "psync", "success")))
}

func TestExecute_ClientErrorMarksPaymentFailed(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusBadRequest, `{"code":"E100","message":"card declined"}`))
	defer server.Close()

	exec, metrics := newTestExecutor(t)
	out, err := Execute(context.Background(), exec, "testpay", syncFlow(server.URL), syncData())
	require.NoError(t, err)

	assert.Equal(t, domain.AttemptFailure, out.Status)
	errResp, ok := out.Response.ErrorResponse()
	require.True(t, ok)
	assert.Equal(t, "E100", errResp.Code)
	assert.Equal(t, "card declined", errResp.Message)
	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ConnectorRequests().WithLabelValues("testpay", "psync", "client_error")))
}

func TestExecute_ClientErrorUsesReportedAttemptStatus(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusUnprocessableEntity,
		`{"code":"3DS","message":"authentication failed","status":"authentication_failed"}`))
	defer server.Close()

	exec, _ := newTestExecutor(t)
	out, err := Execute(context.Background(), exec, "testpay", syncFlow(server.URL), syncData())
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptAuthenticationFailed, out.Status)
}

func TestExecute_ServerErrorKeepsStatus(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusServiceUnavailable, `<html>maintenance</html>`))
	defer server.Close()

	exec, _ := newTestExecutor(t)
	out, err := Execute(context.Background(), exec, "testpay", syncFlow(server.URL), syncData())
	require.NoError(t, err)

	assert.Equal(t, domain.AttemptPending, out.Status)
	errResp, ok := out.Response.ErrorResponse()
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, errResp.StatusCode)
	assert.Equal(t, domain.NoErrorCode, errResp.Code)
	assert.Equal(t, "<html>maintenance</html>", errResp.Message)
}

func TestExecute_RefundClientErrorKeepsStatus(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusBadRequest, `{"code":"R1","message":"already refunded"}`))
	defer server.Close()

	c := testCommon{baseURL: server.URL}
	flow := &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
		Common: c,
		URLFn: func(*domain.RefundsRouterData, *config.Connectors) (string, error) {
			return server.URL + "/refunds", nil
		},
		BodyFn: func(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
			return connector.JSONContent(map[string]any{"amount": data.Request.RefundAmount}), nil
		},
		ResponseFn: func(data *domain.RefundsRouterData, _ *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
			return connector.WithRefundsResponse(data, domain.Ok(domain.RefundsResponseData{}), res.StatusCode), nil
		},
	}
	data := &domain.RefundsRouterData{
		Flow:              domain.FlowExecute,
		Status:            domain.AttemptCharged,
		ConnectorAuthType: domain.HeaderKey("k"),
		Request:           domain.RefundsData{RefundID: "ref_1", RefundAmount: 100},
	}

	exec, _ := newTestExecutor(t)
	out, err := Execute(context.Background(), exec, "testpay", flow, data)
	require.NoError(t, err)

	assert.Equal(t, domain.AttemptCharged, out.Status)
	errResp, ok := out.Response.ErrorResponse()
	require.True(t, ok)
	assert.Equal(t, "R1", errResp.Code)
}

type failingSender struct {
	t *testing.T
}

func (s failingSender) Send(context.Context, domain.Flow, *connector.Request) (*connector.Response, error) {
	s.t.Fatal("no request expected")
	return nil, nil
}

func TestExecute_NoRequestSkipsNetwork(t *testing.T) {
	exec := New(failingSender{t: t}, &config.Connectors{}, nil, discardLogger())
	data := syncData()

	out, err := Execute[domain.PaymentsSyncData, domain.PaymentsResponseData](
		context.Background(), exec, "testpay",
		connector.Blank[domain.PaymentsSyncData, domain.PaymentsResponseData]{}, data)
	require.NoError(t, err)

	assert.Equal(t, data.Status, out.Status)
	assert.False(t, out.Response.IsSet())
	assert.NotSame(t, data, out)
}

func TestExecute_BuildErrorIsReturned(t *testing.T) {
	exec := New(failingSender{t: t}, &config.Connectors{}, nil, discardLogger())
	flow := &connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
		Common: testCommon{},
		URLFn: func(*domain.PaymentsSyncRouterData, *config.Connectors) (string, error) {
			return "", connector.MissingRequiredField("connector_meta")
		},
	}

	_, err := Execute(context.Background(), exec, "testpay", flow, syncData())
	assert.ErrorIs(t, err, connector.MissingRequiredField("connector_meta"))
}

func TestExecute_TransportFailure(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusOK, `{}`))
	url := server.URL
	server.Close()

	exec, metrics := newTestExecutor(t)
	_, err := Execute(context.Background(), exec, "testpay", syncFlow(url), syncData())

	cErr, ok := connector.AsError(err)
	require.True(t, ok)
	assert.Equal(t, connector.KindProcessingStepFailed, cErr.Kind)
	assert.Equal(t, "testpay", cErr.Connector)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ConnectorRequests().WithLabelValues("testpay", "psync", "transport_error")))
}

func TestExecute_TimeoutIsRequestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(config.HTTPClientConfig{Timeout: 20 * time.Millisecond}, discardLogger())
	exec := New(client, &config.Connectors{}, nil, discardLogger())

	_, err := Execute(context.Background(), exec, "testpay", syncFlow(server.URL), syncData())
	cErr, ok := connector.AsError(err)
	require.True(t, ok)
	assert.Equal(t, connector.KindRequestTimeoutReceived, cErr.Kind)
}

// ============================================================================
// HTTPClient
// ============================================================================

func TestHTTPClient_DoesNotFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://acs.example.test/challenge", http.StatusFound)
	}))
	defer server.Close()

	client := NewHTTPClient(config.HTTPClientConfig{Timeout: time.Second}, discardLogger())
	res, err := client.Send(context.Background(), domain.FlowAuthorize, &connector.Request{
		Method: http.MethodPost,
		URL:    server.URL,
		Body:   connector.JSONContent(map[string]string{"a": "b"}),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "https://acs.example.test/challenge", res.Headers.Get("Location"))
}

func TestHTTPClient_SendsEncodedBody(t *testing.T) {
	var got map[string]string
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewHTTPClient(config.HTTPClientConfig{Timeout: time.Second}, discardLogger())
	res, err := client.Send(context.Background(), domain.FlowAuthorize, &connector.Request{
		Method:  http.MethodPost,
		URL:     server.URL,
		Headers: []connector.Header{connector.PlainHeader(connector.HeaderContentType, connector.ContentTypeJSON)},
		Body:    connector.JSONContent(map[string]string{"amount": "1000"}),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, connector.ContentTypeJSON, contentType)
	assert.Equal(t, "1000", got["amount"])
}

func TestHTTPClient_RejectsInvalidCertificate(t *testing.T) {
	client := NewHTTPClient(config.HTTPClientConfig{Timeout: time.Second}, discardLogger())
	_, err := client.Send(context.Background(), domain.FlowAuthorize, &connector.Request{
		Method:         http.MethodPost,
		URL:            "https://archipel.test",
		Certificate:    "not a pem",
		CertificateKey: "not a key",
	})

	cErr, ok := connector.AsError(err)
	require.True(t, ok)
	assert.Equal(t, connector.KindInvalidConnectorConfig, cErr.Kind)
	assert.Equal(t, "certificate", cErr.FieldName)
}

// ============================================================================
// AccessTokenProvider
// ============================================================================

type tokenConnector struct {
	connector.StaticSpecifications
	connector.ValidationRules
	connector.NoWebhooks
	testCommon
	flows connector.Flows
}

func (c tokenConnector) Flows() connector.Flows { return c.flows }
func (tokenConnector) NeedsAccessToken(domain.PaymentMethod) bool { return true }

func newTokenConnector(baseURL string) tokenConnector {
	c := testCommon{baseURL: baseURL}
	flow := &connector.Flow[domain.AccessTokenRequestData, domain.AccessToken]{
		Common:  c,
		Content: connector.ContentTypeFormURLEncoded,
		URLFn: func(*domain.RefreshTokenRouterData, *config.Connectors) (string, error) {
			return baseURL + "/oauth/token", nil
		},
		BodyFn: func(data *domain.RefreshTokenRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
			return connector.FormContent(map[string][]string{
				"client_id": {data.Request.AppID.Expose()},
				"nonce":     {data.Request.Nonce},
			}), nil
		},
		ResponseFn: func(data *domain.RefreshTokenRouterData, _ *connector.EventBuilder, res *connector.Response) (*domain.RefreshTokenRouterData, error) {
			body, err := connector.ParseJSON[struct {
				AccessToken string `json:"access_token"`
				ExpiresIn   int64  `json:"expires_in"`
			}](res.Body)
			if err != nil {
				return nil, err
			}
			out := data.Clone()
			out.Response = domain.Ok(domain.AccessToken{Token: domain.Secret(body.AccessToken), ExpiresIn: body.ExpiresIn})
			return out, nil
		},
	}
	return tokenConnector{
		testCommon: c,
		flows:      connector.Flows{AccessTokenAuth: flow}.WithDefaults(),
	}
}

func TestAccessTokenProvider_CachesToken(t *testing.T) {
	var hits atomic.Int32
	var nonce string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = r.ParseForm()
		nonce = r.PostForm.Get("nonce")
		respond(http.StatusOK, `{"access_token":"tok_1","expires_in":3600}`)(w, r)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t)
	store := tokencache.NewMemoryStore()
	provider := NewAccessTokenProvider(store, exec, discardLogger())
	provider.nonce = func() string { return "fixed-nonce" }

	c := newTokenConnector(server.URL)
	req := TokenRequest{MerchantID: "m_1", Auth: domain.SignatureKey("client", "id", "secret")}

	first, err := provider.Token(context.Background(), c, req)
	require.NoError(t, err)
	assert.Equal(t, "tok_1", first.Token.Expose())
	assert.Equal(t, "fixed-nonce", nonce)

	second, err := provider.Token(context.Background(), c, req)
	require.NoError(t, err)
	assert.Equal(t, "tok_1", second.Token.Expose())
	assert.Equal(t, int32(1), hits.Load())

	require.NoError(t, provider.Invalidate(context.Background(), "m_1", "testpay"))
	_, err = provider.Token(context.Background(), c, req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestAccessTokenProvider_ShortLivedTokenIsNotCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(http.StatusOK, `{"access_token":"tok_short","expires_in":3}`)(w, r)
	}))
	defer server.Close()

	exec, _ := newTestExecutor(t)
	provider := NewAccessTokenProvider(tokencache.NewMemoryStore(), exec, discardLogger())
	c := newTokenConnector(server.URL)
	req := TokenRequest{MerchantID: "m_1", Auth: domain.SignatureKey("client", "id", "secret")}

	_, err := provider.Token(context.Background(), c, req)
	require.NoError(t, err)
	_, err = provider.Token(context.Background(), c, req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestAccessTokenProvider_Rejected(t *testing.T) {
	server := httptest.NewServer(respond(http.StatusUnauthorized, `{"code":"invalid_client","message":"bad credentials"}`))
	defer server.Close()

	exec, _ := newTestExecutor(t)
	provider := NewAccessTokenProvider(tokencache.NewMemoryStore(), exec, discardLogger())

	_, err := provider.Token(context.Background(), newTokenConnector(server.URL),
		TokenRequest{MerchantID: "m_1", Auth: domain.SignatureKey("client", "id", "secret")})

	var tokenErr *AccessTokenError
	require.True(t, errors.As(err, &tokenErr))
	assert.Equal(t, "invalid_client", tokenErr.Response.Code)
	assert.Equal(t, http.StatusUnauthorized, tokenErr.Response.StatusCode)
}
