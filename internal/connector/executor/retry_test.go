package executor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSender replays one outcome per call and repeats the last one.
type scriptedSender struct {
	outcomes []outcome
	calls    int
}

type outcome struct {
	status int
	err    error
}

func (s *scriptedSender) Send(context.Context, domain.Flow, *connector.Request) (*connector.Response, error) {
	o := s.outcomes[min(s.calls, len(s.outcomes)-1)]
	s.calls++
	if o.err != nil {
		return nil, o.err
	}
	return &connector.Response{StatusCode: o.status}, nil
}

func newRetryClient(t *testing.T, inner Sender, policy string, attempts int32) *RetryClient {
	t.Helper()
	client, err := NewRetryClient(inner, config.RetryConfig{
		BaseDelay:  time.Millisecond,
		MaxRetries: attempts,
		Policy:     policy,
	}, discardLogger())
	require.NoError(t, err)
	return client
}

const defaultPolicy = config.DefaultRetryPolicy

func TestRetryClient_RetriesServerErrors(t *testing.T) {
	inner := &scriptedSender{outcomes: []outcome{{status: 502}, {status: 503}, {status: 200}}}
	client := newRetryClient(t, inner, defaultPolicy, 3)

	res, err := client.Send(context.Background(), domain.FlowPSync, &connector.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryClient_DoesNotRetryClientErrors(t *testing.T) {
	inner := &scriptedSender{outcomes: []outcome{{status: 400}}}
	client := newRetryClient(t, inner, defaultPolicy, 3)

	res, err := client.Send(context.Background(), domain.FlowPSync, &connector.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryClient_ReturnsLastServerErrorWhenExhausted(t *testing.T) {
	inner := &scriptedSender{outcomes: []outcome{{status: 500}}}
	client := newRetryClient(t, inner, defaultPolicy, 3)

	res, err := client.Send(context.Background(), domain.FlowPSync, &connector.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryClient_WrapsTransportErrorWhenExhausted(t *testing.T) {
	boom := &TransportError{Err: errors.New("connection reset")}
	inner := &scriptedSender{outcomes: []outcome{{err: boom}}}
	client := newRetryClient(t, inner, defaultPolicy, 2)

	_, err := client.Send(context.Background(), domain.FlowPSync, &connector.Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "maximum retries exceeded")
	assert.Equal(t, 2, inner.calls)
}

func TestRetryClient_PolicyCanFilterFlows(t *testing.T) {
	policy := "status_code >= 500 && flow IN ('psync', 'rsync')"

	authorize := &scriptedSender{outcomes: []outcome{{status: 500}, {status: 200}}}
	res, err := newRetryClient(t, authorize, policy, 3).Send(context.Background(), domain.FlowAuthorize, &connector.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, 1, authorize.calls)

	sync := &scriptedSender{outcomes: []outcome{{status: 500}, {status: 200}}}
	res, err = newRetryClient(t, sync, policy, 3).Send(context.Background(), domain.FlowRSync, &connector.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 2, sync.calls)
}

func TestRetryClient_DefaultPolicySendsMoneyMovingFlowsOnce(t *testing.T) {
	flows := []domain.Flow{
		domain.FlowAuthorize,
		domain.FlowCapture,
		domain.FlowVoid,
		domain.FlowExecute,
		domain.FlowSetupMandate,
		domain.FlowCompleteAuthorize,
	}

	for _, flow := range flows {
		t.Run(string(flow), func(t *testing.T) {
			inner := &scriptedSender{outcomes: []outcome{{status: 502}, {status: 200}}}
			client := newRetryClient(t, inner, defaultPolicy, 3)

			res, err := client.Send(context.Background(), flow, &connector.Request{Method: http.MethodPost})
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadGateway, res.StatusCode)
			assert.Equal(t, 1, inner.calls)
		})
	}
}

func TestRetryClient_DefaultPolicyDoesNotRetryRefundAfterNetworkError(t *testing.T) {
	boom := &TransportError{Err: errors.New("read timeout")}
	inner := &scriptedSender{outcomes: []outcome{{err: boom}, {status: 200}}}
	client := newRetryClient(t, inner, defaultPolicy, 3)

	_, err := client.Send(context.Background(), domain.FlowExecute, &connector.Request{Method: http.MethodPost})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryClient_MoneyMovingFlowNeedsIdempotencyKey(t *testing.T) {
	permissive := "network_error || status_code >= 500"

	bare := &scriptedSender{outcomes: []outcome{{status: 503}, {status: 200}}}
	res, err := newRetryClient(t, bare, permissive, 3).
		Send(context.Background(), domain.FlowExecute, &connector.Request{Method: http.MethodPost})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, 1, bare.calls)

	keyed := &scriptedSender{outcomes: []outcome{{status: 503}, {status: 200}}}
	req := &connector.Request{
		Method:  http.MethodPost,
		Headers: []connector.Header{connector.PlainHeader("Idempotency-Key", "refund_1")},
	}
	res, err = newRetryClient(t, keyed, permissive, 3).Send(context.Background(), domain.FlowExecute, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 2, keyed.calls)
}

func TestRetryClient_PolicyCanLimitAttempts(t *testing.T) {
	inner := &scriptedSender{outcomes: []outcome{{status: 500}}}
	client := newRetryClient(t, inner, "status_code >= 500 && attempt < 1", 5)

	res, err := client.Send(context.Background(), domain.FlowPSync, &connector.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, 2, inner.calls)
}

func TestRetryClient_StopsWhenContextCancelled(t *testing.T) {
	inner := &scriptedSender{outcomes: []outcome{{status: 503}}}
	client, err := NewRetryClient(inner, config.RetryConfig{
		BaseDelay:  time.Hour,
		MaxRetries: 3,
		Policy:     defaultPolicy,
	}, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Send(ctx, domain.FlowPSync, &connector.Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, inner.calls)
}

func TestNewRetryPolicy_RejectsInvalidExpression(t *testing.T) {
	_, err := NewRetryPolicy("status_code >=")
	assert.Error(t, err)
}

func TestRetryPolicy_NonBooleanResult(t *testing.T) {
	policy, err := NewRetryPolicy("status_code + 1")
	require.NoError(t, err)

	_, err = policy.ShouldRetry(domain.FlowPSync, 0, &connector.Response{StatusCode: 500}, nil)
	assert.Error(t, err)
}
