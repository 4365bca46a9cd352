// Package executor runs connector integrations: one HTTP round trip per flow call.
package executor

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/observability"
)

const (
	outcomeSuccess     = "success"
	outcomeClientError = "client_error"
	outcomeServerError = "server_error"
	outcomeTransport   = "transport_error"
	outcomeFailed      = "failed"
	outcomeSkipped     = "skipped"
)

// Executor holds what every flow call shares. It is safe for concurrent use.
type Executor struct {
	client  Sender
	conns   *config.Connectors
	metrics *observability.Metrics
	logger  *slog.Logger
}

func New(client Sender, conns *config.Connectors, metrics *observability.Metrics, logger *slog.Logger) *Executor {
	return &Executor{
		client:  client,
		conns:   conns,
		metrics: metrics,
		logger:  logger,
	}
}

func (e *Executor) Connectors() *config.Connectors {
	return e.conns
}

// Execute runs integration against data and returns the updated copy. The input is
// never modified. A flow whose BuildRequest yields no request returns an untouched
// clone without any network call.
//
// 2xx and 3xx answers go to HandleResponse. 5xx answers go to ServerErrorResponse
// and leave the status alone. Any other answer goes to ErrorResponse: payment flows
// take the attempt status it reports, or Failure; refund flows keep their status.
func Execute[Req, Resp any](
	ctx context.Context,
	e *Executor,
	connectorID string,
	integration connector.Integration[Req, Resp],
	data *domain.RouterData[Req, Resp],
) (*domain.RouterData[Req, Resp], error) {
	flow := string(data.Flow)
	logger := e.logger.With("connector", connectorID, "flow", flow)

	req, err := integration.BuildRequest(data, e.conns)
	if err != nil {
		e.metrics.ObserveConnectorCall(connectorID, flow, outcomeFailed, 0)
		return nil, err
	}
	if req == nil {
		e.metrics.ObserveConnectorCall(connectorID, flow, outcomeSkipped, 0)
		logger.DebugContext(ctx, "connector request skipped")
		return data.Clone(), nil
	}

	logger.InfoContext(ctx, "connector request",
		"method", req.Method,
		"url", req.URL,
		"headers", maskedHeaders(req.Headers),
	)

	start := time.Now()
	res, err := e.client.Send(ctx, data.Flow, req)
	elapsed := time.Since(start)
	if err != nil {
		e.metrics.ObserveConnectorCall(connectorID, flow, outcomeTransport, elapsed)
		logger.ErrorContext(ctx, "connector call failed",
			"latency_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return nil, transportFailure(connectorID, err)
	}

	logger.InfoContext(ctx, "connector response",
		"status_code", res.StatusCode,
		"latency_ms", elapsed.Milliseconds(),
	)

	event := &connector.EventBuilder{}
	switch {
	case res.StatusCode >= 200 && res.StatusCode < 400:
		out, err := integration.HandleResponse(data, event, res)
		if err != nil {
			e.metrics.ObserveConnectorCall(connectorID, flow, outcomeFailed, elapsed)
			logger.ErrorContext(ctx, "connector response handling failed", "error", err)
			return nil, err
		}
		e.metrics.ObserveConnectorCall(connectorID, flow, outcomeSuccess, elapsed)
		return out, nil

	case res.StatusCode >= 500:
		errResp, err := integration.ServerErrorResponse(res, event)
		if err != nil {
			e.metrics.ObserveConnectorCall(connectorID, flow, outcomeFailed, elapsed)
			return nil, err
		}
		e.metrics.ObserveConnectorCall(connectorID, flow, outcomeServerError, elapsed)
		out := data.Clone()
		out.Response = domain.Fail[Resp](errResp)
		out.ConnectorHTTPStatusCode = res.StatusCode
		return out, nil

	default:
		errResp, err := integration.ErrorResponse(res, event)
		if err != nil {
			e.metrics.ObserveConnectorCall(connectorID, flow, outcomeFailed, elapsed)
			return nil, err
		}
		e.metrics.ObserveConnectorCall(connectorID, flow, outcomeClientError, elapsed)
		out := data.Clone()
		out.Response = domain.Fail[Resp](errResp)
		out.ConnectorHTTPStatusCode = res.StatusCode
		if !data.Flow.IsRefund() {
			if errResp.AttemptStatus != nil {
				out.Status = *errResp.AttemptStatus
			} else {
				out.Status = domain.AttemptFailure
			}
		}
		logger.WarnContext(ctx, "connector rejected request",
			"status_code", res.StatusCode,
			"error_code", errResp.Code,
			"error_message", errResp.Message,
		)
		return out, nil
	}
}

func transportFailure(connectorID string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &connector.Error{Kind: connector.KindRequestTimeoutReceived, Connector: connectorID, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &connector.Error{Kind: connector.KindProcessingStepFailed, Message: "connection to connector failed", Connector: connectorID, Err: err}
}

func maskedHeaders(headers []connector.Header) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		out = append(out, h.LogValue().String())
	}
	return out
}
