package novalnet

import (
	"encoding/hex"
	"encoding/json"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

type webhookEvent struct {
	Checksum  string      `json:"checksum"`
	TID       json.Number `json:"tid"`
	ParentTID json.Number `json:"parent_tid,omitempty"`
	Type      string      `json:"type"`
}

type webhookTransaction struct {
	TID      json.Number     `json:"tid"`
	Status   string          `json:"status"`
	Amount   json.Number     `json:"amount"`
	Currency domain.Currency `json:"currency"`
	Reason   string          `json:"reason,omitempty"`
	Refund   *refundInfo     `json:"refund,omitempty"`
}

type webhookBody struct {
	Event       webhookEvent       `json:"event"`
	Result      result             `json:"result"`
	Transaction webhookTransaction `json:"transaction"`
}

const (
	eventPayment            = "PAYMENT"
	eventTransactionCapture = "TRANSACTION_CAPTURE"
	eventTransactionCancel  = "TRANSACTION_CANCEL"
	eventTransactionRefund  = "TRANSACTION_REFUND"
	eventChargeback         = "CHARGEBACK"
)

func parseWebhook(req *connector.IncomingWebhookRequest) (webhookBody, error) {
	var body webhookBody
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return body, connector.WebhookBodyDecodingFailed(err)
	}
	return body, nil
}

func (n *Novalnet) WebhookSourceVerificationAlgorithm(*connector.IncomingWebhookRequest) (connector.VerificationAlgorithm, error) {
	return connector.AlgorithmSha256, nil
}

func (n *Novalnet) WebhookSourceVerificationSignature(req *connector.IncomingWebhookRequest, _ connector.WebhookSecret) ([]byte, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return nil, err
	}
	if body.Event.Checksum == "" {
		return nil, connector.WebhookSignatureNotFound()
	}
	sig, err := hex.DecodeString(body.Event.Checksum)
	if err != nil {
		return nil, connector.WebhookSignatureNotFound()
	}
	return sig, nil
}

// WebhookSourceVerificationMessage is the checksum input: event tid, event type,
// result status, amount and currency followed by the reversed access key.
func (n *Novalnet) WebhookSourceVerificationMessage(req *connector.IncomingWebhookRequest, _ string, secret connector.WebhookSecret) ([]byte, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return nil, err
	}
	msg := body.Event.TID.String() +
		body.Event.Type +
		body.Result.Status +
		body.Transaction.Amount.String() +
		string(body.Transaction.Currency) +
		reverse(string(secret.Secret))
	return []byte(msg), nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func (n *Novalnet) WebhookObjectReferenceID(req *connector.IncomingWebhookRequest) (domain.ObjectReferenceID, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return domain.ObjectReferenceID{}, err
	}
	switch body.Event.Type {
	case eventTransactionRefund:
		if body.Transaction.Refund != nil && body.Transaction.Refund.TID != "" {
			return domain.RefundReference(domain.RefConnectorRefundID, body.Transaction.Refund.TID.String()), nil
		}
		return domain.RefundReference(domain.RefConnectorRefundID, body.Event.TID.String()), nil
	case eventChargeback:
		if body.Event.ParentTID == "" {
			return domain.ObjectReferenceID{}, connector.WebhookReferenceIDNotFound()
		}
		return domain.PaymentReference(domain.RefConnectorTransactionID, body.Event.ParentTID.String()), nil
	}
	if body.Event.TID == "" {
		return domain.ObjectReferenceID{}, connector.WebhookReferenceIDNotFound()
	}
	return domain.PaymentReference(domain.RefConnectorTransactionID, body.Event.TID.String()), nil
}

func (n *Novalnet) WebhookEventType(req *connector.IncomingWebhookRequest) (domain.IncomingWebhookEvent, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return "", err
	}
	failed := body.Result.Status != resultSuccess

	switch body.Event.Type {
	case eventPayment:
		if failed {
			return domain.EventPaymentIntentFailure, nil
		}
		switch attemptStatus(body.Transaction.Status) {
		case domain.AttemptCharged:
			return domain.EventPaymentIntentSuccess, nil
		case domain.AttemptAuthorized:
			return domain.EventPaymentIntentAuthorizationSuccess, nil
		case domain.AttemptFailure:
			return domain.EventPaymentIntentFailure, nil
		default:
			return domain.EventPaymentIntentProcessing, nil
		}
	case eventTransactionCapture:
		if failed {
			return domain.EventPaymentIntentFailure, nil
		}
		return domain.EventPaymentIntentCaptureSuccess, nil
	case eventTransactionCancel:
		if failed {
			return domain.EventPaymentIntentFailure, nil
		}
		return domain.EventPaymentIntentCancelled, nil
	case eventTransactionRefund:
		if failed {
			return domain.EventRefundFailure, nil
		}
		return domain.EventRefundSuccess, nil
	case eventChargeback:
		return domain.EventDisputeOpened, nil
	case "":
		return "", connector.WebhookEventTypeNotFound()
	default:
		return domain.EventNotSupported, nil
	}
}

func (n *Novalnet) WebhookResourceObject(req *connector.IncomingWebhookRequest) (any, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return nil, err
	}
	return body.Transaction, nil
}

func (n *Novalnet) DisputeDetails(req *connector.IncomingWebhookRequest) (domain.DisputePayload, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return domain.DisputePayload{}, err
	}
	if body.Event.Type != eventChargeback {
		return domain.DisputePayload{}, connector.WebhookEventTypeNotFound()
	}
	return domain.DisputePayload{
		Amount:             body.Transaction.Amount.String(),
		Currency:           body.Transaction.Currency,
		Stage:              domain.DisputeStageDispute,
		ConnectorStatus:    body.Event.Type,
		ConnectorDisputeID: body.Event.TID.String(),
		ConnectorReason:    body.Transaction.Reason,
	}, nil
}
