package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	ServiceName    string
	RequestTimeout time.Duration
	// OpenAPI is the document requests are validated against and that is
	// served at /openapi.yaml.
	OpenAPI []byte
	Metrics http.Handler
	// Health reports whether the gateway's dependencies are reachable.
	Health func(ctx context.Context) error
}

func NewRouter(h *Handlers, cfg RouterConfig, logger *slog.Logger) (http.Handler, error) {
	validate, err := middleware.Validation(cfg.OpenAPI, logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rest.WriteError(w, r, apierrors.InvalidRequestURL(), logger)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rest.WriteError(w, r, apierrors.InvalidHTTPMethod(), logger)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "health check failed", "error", err)
				rest.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.ServeHTTP)
	}
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(cfg.OpenAPI)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Tracing(cfg.ServiceName))
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}
		r.Use(validate)

		r.Get("/v1/connectors", h.ListConnectors)
		r.Get("/v1/connectors/{connector}", h.GetConnector)

		r.Post("/internal/v1/connectors/{connector}/flows/{flow}", h.RunFlow)

		r.Get("/v1/accounts", h.ListAccounts)
		r.Post("/v1/accounts", h.CreateAccount)

		r.Post("/v1/refunds", h.CreateRefund)
		r.Get("/v1/refunds/{refund_id}", h.GetRefund)
		r.Post("/v1/refunds/{refund_id}/sync", h.SyncRefund)

		r.Get("/v1/disputes", h.ListDisputes)
		r.Get("/v1/disputes/{dispute_id}", h.GetDispute)

		r.Post("/webhooks/{merchant_id}/{connector}", h.ReceiveWebhook)
	})

	return r, nil
}
