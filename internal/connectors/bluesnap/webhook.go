package bluesnap

import (
	"encoding/hex"
	"net/url"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const (
	headerSignature = "Bls-Signature"
	headerTimestamp = "Bls-Ipn-Timestamp"
)

// ipn is the form-encoded instant payment notification BlueSnap posts.
type ipn struct {
	TransactionType       string
	ReferenceNumber       string
	MerchantTransactionID string
	ReversalRefNum        string
	InvoiceAmount         string
	Currency              string
	ChargebackStatus      string
	ReversalReason        string
}

func parseIPN(req *connector.IncomingWebhookRequest) (ipn, error) {
	values, err := url.ParseQuery(string(req.Body))
	if err != nil {
		return ipn{}, connector.WebhookBodyDecodingFailed(err)
	}
	return ipn{
		TransactionType:       values.Get("transactionType"),
		ReferenceNumber:       values.Get("referenceNumber"),
		MerchantTransactionID: values.Get("merchantTransactionId"),
		ReversalRefNum:        values.Get("reversalRefNum"),
		InvoiceAmount:         values.Get("invoiceChargeAmount"),
		Currency:              values.Get("currency"),
		ChargebackStatus:      values.Get("cbStatus"),
		ReversalReason:        values.Get("reversalReason"),
	}, nil
}

func (b *Bluesnap) WebhookSourceVerificationAlgorithm(*connector.IncomingWebhookRequest) (connector.VerificationAlgorithm, error) {
	return connector.AlgorithmHmacSha256, nil
}

func (b *Bluesnap) WebhookSourceVerificationSignature(req *connector.IncomingWebhookRequest, _ connector.WebhookSecret) ([]byte, error) {
	sig := req.Headers.Get(headerSignature)
	if sig == "" {
		return nil, connector.WebhookSignatureNotFound()
	}
	decoded, err := hex.DecodeString(sig)
	if err != nil {
		return nil, connector.WebhookSignatureNotFound()
	}
	return decoded, nil
}

func (b *Bluesnap) WebhookSourceVerificationMessage(req *connector.IncomingWebhookRequest, _ string, _ connector.WebhookSecret) ([]byte, error) {
	ts := req.Headers.Get(headerTimestamp)
	if ts == "" {
		return nil, connector.WebhookSignatureNotFound()
	}
	return append([]byte(ts), req.Body...), nil
}

func (b *Bluesnap) WebhookObjectReferenceID(req *connector.IncomingWebhookRequest) (domain.ObjectReferenceID, error) {
	n, err := parseIPN(req)
	if err != nil {
		return domain.ObjectReferenceID{}, err
	}
	switch n.TransactionType {
	case "REFUND", "PARTIAL_REFUND":
		if n.ReversalRefNum == "" {
			return domain.ObjectReferenceID{}, connector.WebhookReferenceIDNotFound()
		}
		return domain.RefundReference(domain.RefConnectorRefundID, n.ReversalRefNum), nil
	}
	if n.ReferenceNumber != "" {
		return domain.PaymentReference(domain.RefConnectorTransactionID, n.ReferenceNumber), nil
	}
	if n.MerchantTransactionID != "" {
		return domain.PaymentReference(domain.RefPaymentAttemptID, n.MerchantTransactionID), nil
	}
	return domain.ObjectReferenceID{}, connector.WebhookReferenceIDNotFound()
}

func (b *Bluesnap) WebhookEventType(req *connector.IncomingWebhookRequest) (domain.IncomingWebhookEvent, error) {
	n, err := parseIPN(req)
	if err != nil {
		return "", err
	}
	switch n.TransactionType {
	case "CHARGE", "CAPTURE":
		return domain.EventPaymentIntentSuccess, nil
	case "AUTH_ONLY":
		return domain.EventPaymentIntentAuthorizationSuccess, nil
	case "DECLINE", "CC_CHARGE_FAILED":
		return domain.EventPaymentIntentFailure, nil
	case "AUTH_REVERSAL", "CANCELLATION":
		return domain.EventPaymentIntentCancelled, nil
	case "REFUND", "PARTIAL_REFUND":
		return domain.EventRefundSuccess, nil
	case "CHARGEBACK":
		return domain.EventDisputeOpened, nil
	case "CHARGEBACK_STATUS_CHANGED":
		return chargebackEvent(n.ChargebackStatus), nil
	case "":
		return "", connector.WebhookEventTypeNotFound()
	default:
		return domain.EventNotSupported, nil
	}
}

func chargebackEvent(status string) domain.IncomingWebhookEvent {
	switch status {
	case "NEW", "WORKING", "PENDING":
		return domain.EventDisputeOpened
	case "COMPLETED_WON":
		return domain.EventDisputeWon
	case "COMPLETED_LOST":
		return domain.EventDisputeLost
	case "ACCEPTED":
		return domain.EventDisputeAccepted
	case "CANCELLED", "CLOSED":
		return domain.EventDisputeCancelled
	case "EXPIRED":
		return domain.EventDisputeExpired
	default:
		return domain.EventDisputeChallenged
	}
}

func (b *Bluesnap) WebhookResourceObject(req *connector.IncomingWebhookRequest) (any, error) {
	return parseIPN(req)
}

func (b *Bluesnap) DisputeDetails(req *connector.IncomingWebhookRequest) (domain.DisputePayload, error) {
	n, err := parseIPN(req)
	if err != nil {
		return domain.DisputePayload{}, err
	}
	if n.ReferenceNumber == "" {
		return domain.DisputePayload{}, connector.WebhookReferenceIDNotFound()
	}
	return domain.DisputePayload{
		Amount:             n.InvoiceAmount,
		Currency:           domain.Currency(n.Currency),
		Stage:              domain.DisputeStageDispute,
		ConnectorStatus:    n.ChargebackStatus,
		ConnectorDisputeID: n.ReferenceNumber,
		ConnectorReason:    n.ReversalReason,
	}, nil
}
