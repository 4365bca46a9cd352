package payme

import (
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// notification is the form-encoded callback PayMe posts on sale and refund changes.
type notification struct {
	NotifyType         string
	PaymeSaleID        string
	PaymeTransactionID string
	PaymeSignature     string
	SaleStatus         string
	Price              string
	Currency           string
	TransactionID      string
	ChargebackReason   string
}

func parseNotification(req *connector.IncomingWebhookRequest) (notification, error) {
	values, err := url.ParseQuery(string(req.Body))
	if err != nil {
		return notification{}, connector.WebhookBodyDecodingFailed(err)
	}
	return notification{
		NotifyType:         values.Get("notify_type"),
		PaymeSaleID:        values.Get("payme_sale_id"),
		PaymeTransactionID: values.Get("payme_transaction_id"),
		PaymeSignature:     values.Get("payme_signature"),
		SaleStatus:         values.Get("sale_status"),
		Price:              values.Get("price"),
		Currency:           values.Get("currency"),
		TransactionID:      values.Get("transaction_id"),
		ChargebackReason:   values.Get("sale_chargeback_reason"),
	}, nil
}

func (p *Payme) WebhookSourceVerificationAlgorithm(*connector.IncomingWebhookRequest) (connector.VerificationAlgorithm, error) {
	return connector.AlgorithmMd5, nil
}

func (p *Payme) WebhookSourceVerificationSignature(req *connector.IncomingWebhookRequest, _ connector.WebhookSecret) ([]byte, error) {
	n, err := parseNotification(req)
	if err != nil {
		return nil, err
	}
	if n.PaymeSignature == "" {
		return nil, connector.WebhookSignatureNotFound()
	}
	sig, err := hex.DecodeString(strings.ToLower(n.PaymeSignature))
	if err != nil {
		return nil, connector.WebhookSignatureNotFound()
	}
	return sig, nil
}

// WebhookSourceVerificationMessage is secret, transaction id and sale id
// concatenated; the MD5 of it is the payme_signature field.
func (p *Payme) WebhookSourceVerificationMessage(req *connector.IncomingWebhookRequest, _ string, secret connector.WebhookSecret) ([]byte, error) {
	n, err := parseNotification(req)
	if err != nil {
		return nil, err
	}
	return []byte(string(secret.Secret) + n.PaymeTransactionID + n.PaymeSaleID), nil
}

func (p *Payme) WebhookObjectReferenceID(req *connector.IncomingWebhookRequest) (domain.ObjectReferenceID, error) {
	n, err := parseNotification(req)
	if err != nil {
		return domain.ObjectReferenceID{}, err
	}
	if n.NotifyType == "refund" {
		if n.PaymeTransactionID == "" {
			return domain.ObjectReferenceID{}, connector.WebhookReferenceIDNotFound()
		}
		return domain.RefundReference(domain.RefConnectorRefundID, n.PaymeTransactionID), nil
	}
	if n.PaymeSaleID == "" {
		return domain.ObjectReferenceID{}, connector.WebhookReferenceIDNotFound()
	}
	return domain.PaymentReference(domain.RefConnectorTransactionID, n.PaymeSaleID), nil
}

func (p *Payme) WebhookEventType(req *connector.IncomingWebhookRequest) (domain.IncomingWebhookEvent, error) {
	n, err := parseNotification(req)
	if err != nil {
		return "", err
	}
	switch n.NotifyType {
	case "sale-complete":
		return domain.EventPaymentIntentSuccess, nil
	case "sale-authorized":
		return domain.EventPaymentIntentAuthorizationSuccess, nil
	case "sale-failure":
		return domain.EventPaymentIntentFailure, nil
	case "refund":
		if n.SaleStatus == "failed" {
			return domain.EventRefundFailure, nil
		}
		return domain.EventRefundSuccess, nil
	case "sale-chargeback":
		return domain.EventDisputeOpened, nil
	case "sale-chargeback-refund":
		return domain.EventDisputeWon, nil
	case "":
		return "", connector.WebhookEventTypeNotFound()
	default:
		return domain.EventNotSupported, nil
	}
}

func (p *Payme) WebhookResourceObject(req *connector.IncomingWebhookRequest) (any, error) {
	n, err := parseNotification(req)
	if err != nil {
		return nil, err
	}
	n.PaymeSignature = ""
	return n, nil
}

func (p *Payme) DisputeDetails(req *connector.IncomingWebhookRequest) (domain.DisputePayload, error) {
	n, err := parseNotification(req)
	if err != nil {
		return domain.DisputePayload{}, err
	}
	if n.PaymeSaleID == "" {
		return domain.DisputePayload{}, connector.WebhookReferenceIDNotFound()
	}
	return domain.DisputePayload{
		Amount:             n.Price,
		Currency:           domain.Currency(n.Currency),
		Stage:              domain.DisputeStageDispute,
		ConnectorStatus:    n.NotifyType,
		ConnectorDisputeID: n.PaymeSaleID,
		ConnectorReason:    n.ChargebackReason,
	}, nil
}
