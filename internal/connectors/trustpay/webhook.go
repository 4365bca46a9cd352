package trustpay

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

type webhookAmount struct {
	Amount   json.Number     `json:"Amount"`
	Currency domain.Currency `json:"Currency"`
}

type webhookPaymentInformation struct {
	Amount                  webhookAmount `json:"Amount"`
	CreditDebitIndicator    string        `json:"CreditDebitIndicator"`
	References              references    `json:"References"`
	Status                  string        `json:"Status"`
	StatusReasonInformation *statusReason `json:"StatusReasonInformation,omitempty"`
}

type webhookBody struct {
	PaymentInformation webhookPaymentInformation `json:"PaymentInformation"`
	Signature          string                    `json:"Signature"`
}

const (
	indicatorCredit = "CRDT"
	indicatorDebit  = "DBIT"
)

func parseWebhook(req *connector.IncomingWebhookRequest) (webhookBody, error) {
	var body webhookBody
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return body, connector.WebhookBodyDecodingFailed(err)
	}
	return body, nil
}

func (t *Trustpay) WebhookSourceVerificationAlgorithm(*connector.IncomingWebhookRequest) (connector.VerificationAlgorithm, error) {
	return connector.AlgorithmHmacSha256, nil
}

func (t *Trustpay) WebhookSourceVerificationSignature(req *connector.IncomingWebhookRequest, _ connector.WebhookSecret) ([]byte, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return nil, err
	}
	if body.Signature == "" {
		return nil, connector.WebhookSignatureNotFound()
	}
	sig, err := hex.DecodeString(strings.ToLower(body.Signature))
	if err != nil {
		return nil, connector.WebhookSignatureNotFound()
	}
	return sig, nil
}

// WebhookSourceVerificationMessage joins every scalar of the notification
// except the signature, sorted, with "/".
func (t *Trustpay) WebhookSourceVerificationMessage(req *connector.IncomingWebhookRequest, _ string, _ connector.WebhookSecret) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(req.Body))
	dec.UseNumber()
	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, connector.WebhookBodyDecodingFailed(err)
	}
	delete(root, "Signature")
	values := collectValues(root, nil)
	sort.Strings(values)
	return []byte(strings.Join(values, "/")), nil
}

func collectValues(v any, out []string) []string {
	switch x := v.(type) {
	case map[string]any:
		for _, child := range x {
			out = collectValues(child, out)
		}
	case []any:
		for _, child := range x {
			out = collectValues(child, out)
		}
	case string:
		out = append(out, x)
	case json.Number:
		out = append(out, x.String())
	case bool:
		if x {
			out = append(out, "true")
		} else {
			out = append(out, "false")
		}
	}
	return out
}

func (t *Trustpay) WebhookObjectReferenceID(req *connector.IncomingWebhookRequest) (domain.ObjectReferenceID, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return domain.ObjectReferenceID{}, err
	}
	info := body.PaymentInformation
	ref := info.References.MerchantReference
	if ref == "" {
		return domain.ObjectReferenceID{}, connector.WebhookReferenceIDNotFound()
	}
	if info.CreditDebitIndicator == indicatorDebit && info.Status != "Chargebacked" {
		return domain.RefundReference(domain.RefRefundID, ref), nil
	}
	return domain.PaymentReference(domain.RefPaymentAttemptID, ref), nil
}

func (t *Trustpay) WebhookEventType(req *connector.IncomingWebhookRequest) (domain.IncomingWebhookEvent, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return "", err
	}
	info := body.PaymentInformation
	if info.CreditDebitIndicator == "" || info.Status == "" {
		return "", connector.WebhookEventTypeNotFound()
	}
	switch info.CreditDebitIndicator + ":" + info.Status {
	case indicatorCredit + ":Paid":
		return domain.EventPaymentIntentSuccess, nil
	case indicatorCredit + ":Rejected":
		return domain.EventPaymentIntentFailure, nil
	case indicatorDebit + ":Paid", indicatorDebit + ":Refunded":
		return domain.EventRefundSuccess, nil
	case indicatorDebit + ":Rejected":
		return domain.EventRefundFailure, nil
	case indicatorDebit + ":Chargebacked":
		return domain.EventDisputeLost, nil
	default:
		return domain.EventNotSupported, nil
	}
}

func (t *Trustpay) WebhookResourceObject(req *connector.IncomingWebhookRequest) (any, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return nil, err
	}
	return body.PaymentInformation, nil
}

// DisputeDetails reports chargebacks. TrustPay only notifies once the funds are
// gone, so the dispute is already lost.
func (t *Trustpay) DisputeDetails(req *connector.IncomingWebhookRequest) (domain.DisputePayload, error) {
	body, err := parseWebhook(req)
	if err != nil {
		return domain.DisputePayload{}, err
	}
	info := body.PaymentInformation
	id := info.References.PaymentID
	if id == "" {
		id = info.References.MerchantReference
	}
	if id == "" {
		return domain.DisputePayload{}, connector.WebhookReferenceIDNotFound()
	}
	out := domain.DisputePayload{
		Amount:             info.Amount.Amount.String(),
		Currency:           info.Amount.Currency,
		Stage:              domain.DisputeStageDispute,
		ConnectorStatus:    info.Status,
		ConnectorDisputeID: id,
	}
	if r := info.StatusReasonInformation; r != nil {
		out.ConnectorReason = r.Reason.RejectReason
		out.ConnectorReasonCode = r.Reason.Code
	}
	return out, nil
}
