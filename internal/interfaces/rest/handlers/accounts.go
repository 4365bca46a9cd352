package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/application/services"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest"
)

type CreateAccountRequest struct {
	Connector      string                   `json:"connector"`
	AccountDetails domain.ConnectorAuthType `json:"connector_account_details"`
	Metadata       json.RawMessage          `json:"metadata"`
	WebhookSecret  string                   `json:"webhook_secret"`
	TestMode       bool                     `json:"test_mode"`
	Disabled       bool                     `json:"disabled"`
}

func (h *Handlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	merchantID, err := rest.MerchantID(r)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	var req CreateAccountRequest
	if err := rest.DecodeJSON(r, &req); err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	account, err := h.accounts.Create(r.Context(), services.CreateAccountCommand{
		MerchantID:    merchantID,
		Connector:     req.Connector,
		Auth:          req.AccountDetails,
		Metadata:      req.Metadata,
		WebhookSecret: domain.Secret(req.WebhookSecret),
		TestMode:      req.TestMode,
		Disabled:      req.Disabled,
	})
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *Handlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	merchantID, err := rest.MerchantID(r)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	accounts, err := h.accounts.List(r.Context(), merchantID)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	rest.WriteJSON(w, http.StatusOK, map[string]any{"accounts": out})
}
