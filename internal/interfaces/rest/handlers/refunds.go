package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/application/services"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest"
	"github.com/go-chi/chi/v5"
)

type CreateRefundRequest struct {
	Connector              string               `json:"connector"`
	PaymentID              string               `json:"payment_id"`
	AttemptID              string               `json:"attempt_id"`
	ConnectorTransactionID string               `json:"connector_transaction_id"`
	PaymentAmount          domain.MinorUnit     `json:"payment_amount"`
	RefundAmount           domain.MinorUnit     `json:"refund_amount"`
	Currency               domain.Currency      `json:"currency"`
	PaymentMethod          domain.PaymentMethod `json:"payment_method"`
	Reason                 string               `json:"reason"`
	WebhookURL             string               `json:"webhook_url"`
	ConnectorMetadata      json.RawMessage      `json:"connector_metadata"`
}

func (h *Handlers) CreateRefund(w http.ResponseWriter, r *http.Request) {
	merchantID, err := rest.MerchantID(r)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	var req CreateRefundRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	refund, err := h.refunds.Create(r.Context(), services.CreateRefundCommand{
		MerchantID:             merchantID,
		Connector:              req.Connector,
		PaymentID:              req.PaymentID,
		AttemptID:              req.AttemptID,
		ConnectorTransactionID: req.ConnectorTransactionID,
		PaymentAmount:          req.PaymentAmount,
		RefundAmount:           req.RefundAmount,
		Currency:               req.Currency,
		PaymentMethod:          req.PaymentMethod,
		Reason:                 req.Reason,
		WebhookURL:             req.WebhookURL,
		ConnectorMetadata:      req.ConnectorMetadata,
	})
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, toRefundResponse(refund))
}

func (h *Handlers) GetRefund(w http.ResponseWriter, r *http.Request) {
	merchantID, err := rest.MerchantID(r)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	refund, err := h.refunds.Get(r.Context(), merchantID, chi.URLParam(r, "refund_id"))
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, toRefundResponse(refund))
}

// SyncRefund asks the connector for the refund's current status.
func (h *Handlers) SyncRefund(w http.ResponseWriter, r *http.Request) {
	merchantID, err := rest.MerchantID(r)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	refund, err := h.refunds.Sync(r.Context(), merchantID, chi.URLParam(r, "refund_id"))
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, toRefundResponse(refund))
}
