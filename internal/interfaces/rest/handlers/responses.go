package handlers

import (
	"encoding/json"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

type ConnectorResponse struct {
	Name                    string                             `json:"name"`
	DisplayName             string                             `json:"display_name"`
	Description             string                             `json:"description"`
	ConnectorType           string                             `json:"connector_type"`
	IntegrationStatus       connector.IntegrationStatus        `json:"integration_status"`
	SupportedFlows          []domain.Flow                      `json:"supported_flows"`
	SupportedPaymentMethods []connector.SupportedPaymentMethod `json:"supported_payment_methods"`
	SupportedWebhookFlows   []domain.EventClass                `json:"supported_webhook_flows"`
}

type RefundResponse struct {
	RefundID               string              `json:"refund_id"`
	PaymentID              string              `json:"payment_id"`
	AttemptID              string              `json:"attempt_id,omitempty"`
	Connector              string              `json:"connector"`
	ConnectorTransactionID string              `json:"connector_transaction_id"`
	ConnectorRefundID      string              `json:"connector_refund_id,omitempty"`
	PaymentAmount          domain.MinorUnit    `json:"payment_amount"`
	RefundAmount           domain.MinorUnit    `json:"refund_amount"`
	Currency               domain.Currency     `json:"currency"`
	Status                 domain.RefundStatus `json:"status"`
	Reason                 string              `json:"reason,omitempty"`
	ErrorCode              string              `json:"error_code,omitempty"`
	ErrorMessage           string              `json:"error_message,omitempty"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
}

type DisputeResponse struct {
	DisputeID           string               `json:"dispute_id"`
	PaymentID           string               `json:"payment_id"`
	AttemptID           string               `json:"attempt_id,omitempty"`
	Connector           string               `json:"connector"`
	Amount              string               `json:"amount"`
	Currency            domain.Currency      `json:"currency"`
	Stage               domain.DisputeStage  `json:"dispute_stage"`
	Status              domain.DisputeStatus `json:"dispute_status"`
	ConnectorStatus     string               `json:"connector_status"`
	ConnectorDisputeID  string               `json:"connector_dispute_id"`
	ConnectorReason     string               `json:"connector_reason,omitempty"`
	ConnectorReasonCode string               `json:"connector_reason_code,omitempty"`
	ChallengeRequiredBy *time.Time           `json:"challenge_required_by,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	ModifiedAt          time.Time            `json:"modified_at"`
}

// AccountResponse never carries credentials or the webhook secret.
type AccountResponse struct {
	ID         string          `json:"id"`
	MerchantID string          `json:"merchant_id"`
	Connector  string          `json:"connector"`
	AuthType   domain.AuthType `json:"auth_type"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	TestMode   bool            `json:"test_mode"`
	Disabled   bool            `json:"disabled"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toConnectorResponse(c connector.Connector) ConnectorResponse {
	about := c.About()
	return ConnectorResponse{
		Name:                    c.ID(),
		DisplayName:             about.DisplayName,
		Description:             about.Description,
		ConnectorType:           about.ConnectorType,
		IntegrationStatus:       about.IntegrationStatus,
		SupportedFlows:          c.Flows().SupportedFlows(),
		SupportedPaymentMethods: c.SupportedPaymentMethods(),
		SupportedWebhookFlows:   c.SupportedWebhookFlows(),
	}
}

func toRefundResponse(r *domain.Refund) RefundResponse {
	return RefundResponse{
		RefundID:               r.ID,
		PaymentID:              r.PaymentID,
		AttemptID:              r.AttemptID,
		Connector:              r.Connector,
		ConnectorTransactionID: r.ConnectorTransactionID,
		ConnectorRefundID:      deref(r.ConnectorRefundID),
		PaymentAmount:          r.PaymentAmount,
		RefundAmount:           r.RefundAmount,
		Currency:               r.Currency,
		Status:                 r.Status,
		Reason:                 r.Reason,
		ErrorCode:              deref(r.ErrorCode),
		ErrorMessage:           deref(r.ErrorMessage),
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

func toDisputeResponse(d *domain.Dispute) DisputeResponse {
	return DisputeResponse{
		DisputeID:           d.ID,
		PaymentID:           d.PaymentID,
		AttemptID:           d.AttemptID,
		Connector:           d.Connector,
		Amount:              d.Amount,
		Currency:            d.Currency,
		Stage:               d.Stage,
		Status:              d.Status,
		ConnectorStatus:     d.ConnectorStatus,
		ConnectorDisputeID:  d.ConnectorDisputeID,
		ConnectorReason:     deref(d.ConnectorReason),
		ConnectorReasonCode: deref(d.ConnectorReasonCode),
		ChallengeRequiredBy: d.ChallengeRequiredBy,
		CreatedAt:           d.CreatedAt,
		ModifiedAt:          d.ModifiedAt,
	}
}

func toAccountResponse(a *domain.MerchantConnectorAccount) AccountResponse {
	return AccountResponse{
		ID:         a.ID,
		MerchantID: a.MerchantID,
		Connector:  a.ConnectorName,
		AuthType:   a.Auth.AuthType,
		Metadata:   a.Metadata,
		TestMode:   a.TestMode,
		Disabled:   a.Disabled,
		CreatedAt:  a.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
