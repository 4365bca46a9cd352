package services_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector/executor"
	"github.com/DanielPopoola/connector-gateway/internal/connectors"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// connectorServer stands in for every connector's API and records what it was sent.
type connectorServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
	status   int
	body     string
}

func newConnectorServer(t *testing.T, status int, body string) *connectorServer {
	t.Helper()
	s := &connectorServer{status: status, body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, r.Clone(context.Background()))
		s.bodies = append(s.bodies, raw)
		status, body := s.status, s.body
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *connectorServer) respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.body = status, body
}

func (s *connectorServer) received() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func (s *connectorServer) receivedBodies() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.bodies...)
}

func (s *connectorServer) connectors() *config.Connectors {
	return &config.Connectors{
		Bluesnap:     config.ConnectorParams{BaseURL: s.URL + "/"},
		Deutschebank: config.ConnectorParams{BaseURL: s.URL},
		Zsl:          config.ConnectorParams{BaseURL: s.URL + "/"},
	}
}

func newExecutor(conns *config.Connectors) *executor.Executor {
	logger := discardLogger()
	client := executor.NewHTTPClient(config.HTTPClientConfig{Timeout: 5 * time.Second}, logger)
	return executor.New(client, conns, observability.NewMetrics(prometheus.NewRegistry()), logger)
}

func defaultRegistry(t *testing.T) *connectors.Registry {
	t.Helper()
	r, err := connectors.Default()
	require.NoError(t, err)
	return r
}

// inlineTx runs the function without a database.
type inlineTx struct{}

func (inlineTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func bluesnapAccount(merchantID string) *domain.MerchantConnectorAccount {
	return &domain.MerchantConnectorAccount{
		ID:            "mca_bluesnap",
		MerchantID:    merchantID,
		ConnectorName: "bluesnap",
		Auth:          domain.BodyKey("api_user", "api_pass"),
		WebhookSecret: "bluesnap_webhook_secret",
		TestMode:      true,
	}
}
