package executor

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Sender performs one outbound connector call.
type Sender interface {
	Send(ctx context.Context, flow domain.Flow, req *connector.Request) (*connector.Response, error)
}

// TransportError means no HTTP answer came back at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("connector transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPClient sends connector requests with resty. Redirects are not followed so
// 3xx answers reach the connector's response handler. Requests carrying a client
// certificate get their own client, cached by certificate fingerprint.
type HTTPClient struct {
	timeout time.Duration
	base    *resty.Client
	logger  *slog.Logger

	mu          sync.Mutex
	certClients map[string]*resty.Client
}

func NewHTTPClient(cfg config.HTTPClientConfig, logger *slog.Logger) *HTTPClient {
	c := &HTTPClient{
		timeout:     cfg.Timeout,
		logger:      logger,
		certClients: make(map[string]*resty.Client),
	}
	c.base = c.newClient(http.DefaultTransport.(*http.Transport).Clone())
	return c
}

func (c *HTTPClient) newClient(transport *http.Transport) *resty.Client {
	return resty.New().
		SetTransport(otelhttp.NewTransport(transport)).
		SetTimeout(c.timeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
}

func (c *HTTPClient) Send(ctx context.Context, _ domain.Flow, req *connector.Request) (*connector.Response, error) {
	client, err := c.clientFor(req)
	if err != nil {
		return nil, err
	}

	r := client.R().SetContext(ctx)
	for _, h := range req.Headers {
		r.SetHeader(h.Name, h.Value)
	}
	if req.Body != nil {
		body, err := req.Body.Bytes()
		if err != nil {
			return nil, err
		}
		r.SetBody(body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return toResponse(resp), nil
}

func toResponse(resp *resty.Response) *connector.Response {
	return &connector.Response{
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header(),
		Body:       resp.Body(),
	}
}

func (c *HTTPClient) clientFor(req *connector.Request) (*resty.Client, error) {
	if req.Certificate.IsEmpty() {
		return c.base, nil
	}

	sum := sha256.Sum256([]byte(req.Certificate.Expose() + req.CertificateKey.Expose() + req.CACertificate.Expose()))
	key := hex.EncodeToString(sum[:])

	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.certClients[key]; ok {
		return client, nil
	}

	cert, err := tls.X509KeyPair([]byte(req.Certificate.Expose()), []byte(req.CertificateKey.Expose()))
	if err != nil {
		return nil, &connector.Error{Kind: connector.KindInvalidConnectorConfig, FieldName: "certificate", Err: err}
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	if !req.CACertificate.IsEmpty() {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM([]byte(req.CACertificate.Expose())) {
			return nil, connector.InvalidConnectorConfig("ca_certificate")
		}
		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig
	client := c.newClient(transport)
	c.certClients[key] = client
	c.logger.Debug("created mutual tls client", "clients", len(c.certClients))
	return client, nil
}
