package services

import (
	"encoding/json"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// FlowCommand asks for one flow to run against a connector on behalf of a merchant.
// Request holds the flow's request payload as JSON.
type FlowCommand struct {
	MerchantID                  string
	Connector                   string
	Flow                        domain.Flow
	PaymentID                   string
	AttemptID                   string
	ConnectorRequestReferenceID string
	CustomerID                  string
	Status                      domain.AttemptStatus
	PaymentMethod               domain.PaymentMethod
	Description                 string
	Address                     domain.Address
	Request                     json.RawMessage
}

// FlowResult is the outcome of one flow. At most one of Response and Error is set.
type FlowResult struct {
	Flow                    domain.Flow           `json:"flow"`
	Connector               string                `json:"connector"`
	Status                  domain.AttemptStatus  `json:"status"`
	Response                any                   `json:"response,omitempty"`
	Error                   *domain.ErrorResponse `json:"error,omitempty"`
	ConnectorHTTPStatusCode int                   `json:"connector_http_status_code,omitempty"`
}

// CreateRefundCommand carries the captured payment being refunded. The gateway
// does not own payments, so the caller supplies their connector-side identity.
type CreateRefundCommand struct {
	MerchantID             string
	Connector              string
	PaymentID              string
	AttemptID              string
	ConnectorTransactionID string
	PaymentAmount          domain.MinorUnit
	RefundAmount           domain.MinorUnit
	Currency               domain.Currency
	PaymentMethod          domain.PaymentMethod
	Reason                 string
	WebhookURL             string
	ConnectorMetadata      json.RawMessage
}

type WebhookCommand struct {
	MerchantID string
	Connector  string
	Request    *connector.IncomingWebhookRequest
}
