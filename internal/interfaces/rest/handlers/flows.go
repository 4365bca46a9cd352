package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/application/services"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest"
	"github.com/go-chi/chi/v5"
)

type FlowRequest struct {
	PaymentID                   string               `json:"payment_id"`
	AttemptID                   string               `json:"attempt_id"`
	ConnectorRequestReferenceID string               `json:"connector_request_reference_id"`
	CustomerID                  string               `json:"customer_id"`
	Status                      domain.AttemptStatus `json:"status"`
	PaymentMethod               domain.PaymentMethod `json:"payment_method"`
	Description                 string               `json:"description"`
	Address                     domain.Address       `json:"address"`
	Request                     json.RawMessage      `json:"request"`
}

// RunFlow executes one flow. A connector that answers with an error still
// yields 200; the rejection is in the body.
func (h *Handlers) RunFlow(w http.ResponseWriter, r *http.Request) {
	merchantID, err := rest.MerchantID(r)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	flow, err := domain.ParseFlow(chi.URLParam(r, "flow"))
	if err != nil {
		rest.WriteError(w, r, apierrors.InvalidDataValue("flow"), h.logger)
		return
	}

	var req FlowRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.flows.Run(r.Context(), services.FlowCommand{
		MerchantID:                  merchantID,
		Connector:                   chi.URLParam(r, "connector"),
		Flow:                        flow,
		PaymentID:                   req.PaymentID,
		AttemptID:                   req.AttemptID,
		ConnectorRequestReferenceID: req.ConnectorRequestReferenceID,
		CustomerID:                  req.CustomerID,
		Status:                      req.Status,
		PaymentMethod:               req.PaymentMethod,
		Description:                 req.Description,
		Address:                     req.Address,
		Request:                     req.Request,
	})
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, result)
}
