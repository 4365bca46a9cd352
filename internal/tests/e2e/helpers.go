package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestClient wraps HTTP calls to the gateway on behalf of one merchant.
type TestClient struct {
	baseURL    string
	merchantID string
	httpClient *http.Client
}

func NewTestClient(baseURL, merchantID string) *TestClient {
	return &TestClient{
		baseURL:    baseURL,
		merchantID: merchantID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is the gateway's error envelope as seen by a client.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s: %s", e.Status, e.Code, e.Message)
}

type Refund struct {
	RefundID          string `json:"refund_id"`
	ConnectorRefundID string `json:"connector_refund_id"`
	RefundAmount      int64  `json:"refund_amount"`
	Status            string `json:"status"`
	ErrorCode         string `json:"error_code"`
}

type Account struct {
	ID        string `json:"id"`
	Connector string `json:"connector"`
	AuthType  string `json:"auth_type"`
}

func (c *TestClient) CreateAccount(t *testing.T, req map[string]any) (*Account, error) {
	var account Account
	if err := c.do(t, http.MethodPost, "/v1/accounts", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *TestClient) CreateRefund(t *testing.T, req map[string]any) (*Refund, error) {
	var refund Refund
	if err := c.do(t, http.MethodPost, "/v1/refunds", req, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

func (c *TestClient) GetRefund(t *testing.T, refundID string) (*Refund, error) {
	var refund Refund
	if err := c.do(t, http.MethodGet, "/v1/refunds/"+refundID, nil, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

func (c *TestClient) SyncRefund(t *testing.T, refundID string) (*Refund, error) {
	var refund Refund
	if err := c.do(t, http.MethodPost, "/v1/refunds/"+refundID+"/sync", nil, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

// SendWebhook posts a raw notification the way a connector would.
func (c *TestClient) SendWebhook(t *testing.T, connectorName string, headers http.Header, body []byte) *http.Response {
	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/webhooks/"+c.merchantID+"/"+connectorName, bytes.NewReader(body))
	require.NoError(t, err)
	for k, vv := range headers {
		for _, v := range vv {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (c *TestClient) do(t *testing.T, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Merchant-Id", c.merchantID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error APIError `json:"error"`
		}
		require.NoError(t, json.Unmarshal(bodyBytes, &envelope))
		envelope.Error.Status = resp.StatusCode
		return &envelope.Error
	}

	require.NoError(t, json.Unmarshal(bodyBytes, out))
	return nil
}

// FakeConnector answers every connector call with a canned response and
// remembers the paths it was asked for.
type FakeConnector struct {
	mu     sync.Mutex
	status int
	body   string
	paths  []string
}

func NewFakeConnector() *FakeConnector {
	return &FakeConnector{status: http.StatusOK, body: `{}`}
}

func (f *FakeConnector) Respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.body = status, body
}

func (f *FakeConnector) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func (f *FakeConnector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
