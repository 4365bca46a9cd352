package handlers

import (
	"io"
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/application/services"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest"
	"github.com/go-chi/chi/v5"
)

const maxWebhookBodyBytes = 1 << 20

// ReceiveWebhook hands the raw notification to the connector and answers in
// whatever format the connector asked for.
func (h *Handlers) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		rest.WriteError(w, r, apierrors.WebhookBadRequest(), h.logger)
		return
	}

	resp, err := h.webhooks.Handle(r.Context(), services.WebhookCommand{
		MerchantID: chi.URLParam(r, "merchant_id"),
		Connector:  chi.URLParam(r, "connector"),
		Request: &connector.IncomingWebhookRequest{
			Method:  r.Method,
			Headers: r.Header,
			Query:   r.URL.Query(),
			Body:    body,
		},
	})
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
