package domain

import "time"

// IncomingWebhookEvent classifies an asynchronous notification from a connector.
type IncomingWebhookEvent string

const (
	EventPaymentIntentSuccess              IncomingWebhookEvent = "payment_intent_success"
	EventPaymentIntentFailure              IncomingWebhookEvent = "payment_intent_failure"
	EventPaymentIntentProcessing           IncomingWebhookEvent = "payment_intent_processing"
	EventPaymentIntentCancelled            IncomingWebhookEvent = "payment_intent_cancelled"
	EventPaymentIntentAuthorizationSuccess IncomingWebhookEvent = "payment_intent_authorization_success"
	EventPaymentIntentCaptureSuccess       IncomingWebhookEvent = "payment_intent_capture_success"
	EventRefundSuccess                     IncomingWebhookEvent = "refund_success"
	EventRefundFailure                     IncomingWebhookEvent = "refund_failure"
	EventDisputeOpened                     IncomingWebhookEvent = "dispute_opened"
	EventDisputeExpired                    IncomingWebhookEvent = "dispute_expired"
	EventDisputeAccepted                   IncomingWebhookEvent = "dispute_accepted"
	EventDisputeCancelled                  IncomingWebhookEvent = "dispute_cancelled"
	EventDisputeChallenged                 IncomingWebhookEvent = "dispute_challenged"
	EventDisputeWon                        IncomingWebhookEvent = "dispute_won"
	EventDisputeLost                       IncomingWebhookEvent = "dispute_lost"
	EventMandateActive                     IncomingWebhookEvent = "mandate_active"
	EventMandateRevoked                    IncomingWebhookEvent = "mandate_revoked"
	EventNotSupported                      IncomingWebhookEvent = "event_not_supported"
)

type EventClass string

const (
	EventClassPayments EventClass = "payments"
	EventClassRefunds  EventClass = "refunds"
	EventClassDisputes EventClass = "disputes"
	EventClassMandates EventClass = "mandates"
)

// Class groups the event by the resource it updates. Unsupported events have no class.
func (e IncomingWebhookEvent) Class() EventClass {
	switch e {
	case EventPaymentIntentSuccess, EventPaymentIntentFailure, EventPaymentIntentProcessing,
		EventPaymentIntentCancelled, EventPaymentIntentAuthorizationSuccess, EventPaymentIntentCaptureSuccess:
		return EventClassPayments
	case EventRefundSuccess, EventRefundFailure:
		return EventClassRefunds
	case EventDisputeOpened, EventDisputeExpired, EventDisputeAccepted, EventDisputeCancelled,
		EventDisputeChallenged, EventDisputeWon, EventDisputeLost:
		return EventClassDisputes
	case EventMandateActive, EventMandateRevoked:
		return EventClassMandates
	default:
		return ""
	}
}

// DisputeStatus maps a dispute event onto the stored dispute status.
func (e IncomingWebhookEvent) DisputeStatus() (DisputeStatus, bool) {
	switch e {
	case EventDisputeOpened:
		return DisputeOpened, true
	case EventDisputeExpired:
		return DisputeExpired, true
	case EventDisputeAccepted:
		return DisputeAccepted, true
	case EventDisputeCancelled:
		return DisputeCancelled, true
	case EventDisputeChallenged:
		return DisputeChallenged, true
	case EventDisputeWon:
		return DisputeWon, true
	case EventDisputeLost:
		return DisputeLost, true
	default:
		return "", false
	}
}

type ReferenceIDType string

const (
	RefConnectorTransactionID ReferenceIDType = "connector_transaction_id"
	RefPaymentAttemptID       ReferenceIDType = "payment_attempt_id"
	RefConnectorRefundID      ReferenceIDType = "connector_refund_id"
	RefRefundID               ReferenceIDType = "refund_id"
	RefConnectorMandateID     ReferenceIDType = "connector_mandate_id"
)

// ObjectReferenceID points a webhook at the payment, refund or mandate it is about.
type ObjectReferenceID struct {
	Class EventClass      `json:"class"`
	Type  ReferenceIDType `json:"type"`
	ID    string          `json:"id"`
}

func PaymentReference(t ReferenceIDType, id string) ObjectReferenceID {
	return ObjectReferenceID{Class: EventClassPayments, Type: t, ID: id}
}

func RefundReference(t ReferenceIDType, id string) ObjectReferenceID {
	return ObjectReferenceID{Class: EventClassRefunds, Type: t, ID: id}
}

// DisputePayload is what a connector reports about a dispute in a webhook.
type DisputePayload struct {
	Amount              string       `json:"amount"`
	Currency            Currency     `json:"currency"`
	Stage               DisputeStage `json:"dispute_stage"`
	ConnectorStatus     string       `json:"connector_status"`
	ConnectorDisputeID  string       `json:"connector_dispute_id"`
	ConnectorReason     string       `json:"connector_reason,omitempty"`
	ConnectorReasonCode string       `json:"connector_reason_code,omitempty"`
	ChallengeRequiredBy *time.Time   `json:"challenge_required_by,omitempty"`
	CreatedAt           *time.Time   `json:"created_at,omitempty"`
	UpdatedAt           *time.Time   `json:"updated_at,omitempty"`
}
