package executor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/google/uuid"
)

// tokenExpiryMargin keeps a cached token from being used in its last seconds.
const tokenExpiryMargin = 5 * time.Second

// TokenStore caches access tokens per merchant and connector.
type TokenStore interface {
	Get(ctx context.Context, key domain.AccessTokenKey) (*domain.AccessToken, error)
	Set(ctx context.Context, key domain.AccessTokenKey, token domain.AccessToken, ttl time.Duration) error
	Delete(ctx context.Context, key domain.AccessTokenKey) error
}

// AccessTokenError is a connector refusing to hand out a token.
type AccessTokenError struct {
	Connector string
	Response  domain.ErrorResponse
}

func (e *AccessTokenError) Error() string {
	return "access token rejected by " + e.Connector + ": " + e.Response.Code + ": " + e.Response.Message
}

// AccessTokenProvider returns a cached token or runs the connector's
// AccessTokenAuth flow and caches the result.
type AccessTokenProvider struct {
	store  TokenStore
	exec   *Executor
	logger *slog.Logger
	now    func() time.Time
	nonce  func() string
}

func NewAccessTokenProvider(store TokenStore, exec *Executor, logger *slog.Logger) *AccessTokenProvider {
	return &AccessTokenProvider{
		store:  store,
		exec:   exec,
		logger: logger,
		now:    time.Now,
		nonce:  uuid.NewString,
	}
}

// TokenRequest is everything needed to ask a connector for a token.
type TokenRequest struct {
	MerchantID string
	Auth       domain.ConnectorAuthType
	Metadata   []byte
	TestMode   bool
}

func (p *AccessTokenProvider) Token(ctx context.Context, c connector.Connector, req TokenRequest) (*domain.AccessToken, error) {
	key := domain.AccessTokenKey{MerchantID: req.MerchantID, Connector: c.ID()}

	cached, err := p.store.Get(ctx, key)
	if err != nil {
		p.logger.WarnContext(ctx, "access token cache read failed", "connector", c.ID(), "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	data := &domain.RefreshTokenRouterData{
		Flow:              domain.FlowAccessTokenAuth,
		Connector:         c.ID(),
		MerchantID:        req.MerchantID,
		ConnectorAuthType: req.Auth,
		ConnectorMetaData: req.Metadata,
		TestMode:          req.TestMode,
		Status:            domain.AttemptStarted,
		Request: domain.AccessTokenRequestData{
			AppID: req.Auth.APIKey,
			ID:    req.Auth.Key1,
			Nonce: p.nonce(),
			Date:  p.now().UTC(),
		},
	}

	out, err := Execute(ctx, p.exec, c.ID(), c.Flows().AccessTokenAuth, data)
	if err != nil {
		return nil, err
	}
	if errResp, ok := out.Response.ErrorResponse(); ok {
		return nil, &AccessTokenError{Connector: c.ID(), Response: errResp}
	}
	token, ok := out.Response.Value()
	if !ok || token.Token.IsEmpty() {
		return nil, connector.ResponseHandlingFailed(errors.New("connector returned no access token"))
	}

	ttl := time.Duration(token.ExpiresIn)*time.Second - tokenExpiryMargin
	if ttl > 0 {
		if err := p.store.Set(ctx, key, token, ttl); err != nil {
			p.logger.WarnContext(ctx, "access token cache write failed", "connector", c.ID(), "error", err)
		}
	}
	return &token, nil
}

// Invalidate drops a cached token, typically after the connector answered 401.
func (p *AccessTokenProvider) Invalidate(ctx context.Context, merchantID, connectorID string) error {
	return p.store.Delete(ctx, domain.AccessTokenKey{MerchantID: merchantID, Connector: connectorID})
}
