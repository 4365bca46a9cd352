package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/Knetic/govaluate"
)

// RetryPolicy decides from the outcome of one attempt whether to try again.
// The expression sees status_code (0 when nothing came back), network_error,
// attempt (zero based) and flow.
type RetryPolicy struct {
	expr *govaluate.EvaluableExpression
}

func NewRetryPolicy(expression string) (*RetryPolicy, error) {
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("parse retry policy %q: %w", expression, err)
	}
	return &RetryPolicy{expr: expr}, nil
}

func (p *RetryPolicy) ShouldRetry(flow domain.Flow, attempt int, res *connector.Response, err error) (bool, error) {
	status := 0
	if res != nil {
		status = res.StatusCode
	}
	var transportErr *TransportError
	result, evalErr := p.expr.Evaluate(map[string]interface{}{
		"status_code":   float64(status),
		"network_error": errors.As(err, &transportErr),
		"attempt":       float64(attempt),
		"flow":          string(flow),
	})
	if evalErr != nil {
		return false, fmt.Errorf("evaluate retry policy: %w", evalErr)
	}
	retry, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("retry policy returned %T, want bool", result)
	}
	return retry, nil
}

// RetryClient decorates a Sender with exponential backoff. Once the attempts run
// out the last HTTP answer is returned as is; a transport failure is wrapped.
// Flows that move money are sent once unless the request carries an
// Idempotency-Key, whatever the policy says.
type RetryClient struct {
	inner       Sender
	policy      *RetryPolicy
	baseDelay   time.Duration
	maxAttempts int
	logger      *slog.Logger
}

func NewRetryClient(inner Sender, cfg config.RetryConfig, logger *slog.Logger) (*RetryClient, error) {
	policy, err := NewRetryPolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	maxAttempts := int(cfg.MaxRetries)
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryClient{
		inner:       inner,
		policy:      policy,
		baseDelay:   cfg.BaseDelay,
		maxAttempts: maxAttempts,
		logger:      logger,
	}, nil
}

func (r *RetryClient) Send(ctx context.Context, flow domain.Flow, req *connector.Request) (*connector.Response, error) {
	var (
		res     *connector.Response
		lastErr error
	)

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		res, lastErr = r.inner.Send(ctx, flow, req)
		if lastErr != nil && ctx.Err() != nil {
			return nil, lastErr
		}

		retry, err := r.policy.ShouldRetry(flow, attempt, res, lastErr)
		if err != nil {
			r.logger.WarnContext(ctx, "retry policy failed, not retrying", "error", err)
			break
		}
		if !retry {
			return res, lastErr
		}
		if !repeatable(flow, req) {
			r.logger.WarnContext(ctx, "not retrying connector call without idempotency key",
				"flow", flow,
				"attempt", attempt+1,
			)
			return res, lastErr
		}
		if attempt == r.maxAttempts-1 {
			break
		}

		delay := r.backoff(attempt)
		r.logger.InfoContext(ctx, "retrying connector call",
			"flow", flow,
			"attempt", attempt+1,
			"delay", delay,
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
	}
	return res, nil
}

const idempotencyKeyHeader = "Idempotency-Key"

func repeatable(flow domain.Flow, req *connector.Request) bool {
	if flow.IsRepeatable() {
		return true
	}
	if req == nil {
		return false
	}
	key, ok := req.Header(idempotencyKeyHeader)
	return ok && key != ""
}

// backoff doubles the base delay per attempt and adds up to half a base delay of jitter.
func (r *RetryClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)
	if r.baseDelay <= 0 {
		return 0
	}
	return base + rand.N(r.baseDelay/2+1)
}
