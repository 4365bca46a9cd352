package zsl

import (
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// notificationFields is the order in which callback fields enter the signature.
var notificationFields = []string{
	"status", "txn_id", "txn_date", "paid_ccy", "paid_amt", "mer_ref", "mer_id", "txn_amt", "ccy",
}

type notification struct {
	Status    string `json:"status"`
	TxnID     string `json:"txn_id"`
	TxnDate   string `json:"txn_date"`
	PaidCcy   string `json:"paid_ccy"`
	PaidAmt   string `json:"paid_amt"`
	MerRef    string `json:"mer_ref"`
	MerID     string `json:"mer_id"`
	TxnAmt    string `json:"txn_amt"`
	Ccy       string `json:"ccy"`
	ErrCode   string `json:"err_code,omitempty"`
	ErrMsg    string `json:"err_msg,omitempty"`
	Signature string `json:"-"`
}

func parseNotification(req *connector.IncomingWebhookRequest) (url.Values, notification, error) {
	values, err := url.ParseQuery(string(req.Body))
	if err != nil {
		return nil, notification{}, connector.WebhookBodyDecodingFailed(err)
	}
	return values, notification{
		Status:    values.Get("status"),
		TxnID:     values.Get("txn_id"),
		TxnDate:   values.Get("txn_date"),
		PaidCcy:   values.Get("paid_ccy"),
		PaidAmt:   values.Get("paid_amt"),
		MerRef:    values.Get("mer_ref"),
		MerID:     values.Get("mer_id"),
		TxnAmt:    values.Get("txn_amt"),
		Ccy:       values.Get("ccy"),
		ErrCode:   values.Get("err_code"),
		ErrMsg:    values.Get("err_msg"),
		Signature: values.Get("signature"),
	}, nil
}

func (z *Zsl) WebhookSourceVerificationAlgorithm(*connector.IncomingWebhookRequest) (connector.VerificationAlgorithm, error) {
	return connector.AlgorithmMd5, nil
}

func (z *Zsl) WebhookSourceVerificationSignature(req *connector.IncomingWebhookRequest, _ connector.WebhookSecret) ([]byte, error) {
	_, n, err := parseNotification(req)
	if err != nil {
		return nil, err
	}
	if n.Signature == "" {
		return nil, connector.WebhookSignatureNotFound()
	}
	sig, err := hex.DecodeString(strings.ToLower(n.Signature))
	if err != nil {
		return nil, connector.WebhookSignatureNotFound()
	}
	return sig, nil
}

// WebhookSourceVerificationMessage is the signed callback fields, in order,
// followed by the merchant key.
func (z *Zsl) WebhookSourceVerificationMessage(req *connector.IncomingWebhookRequest, _ string, secret connector.WebhookSecret) ([]byte, error) {
	values, _, err := parseNotification(req)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, f := range notificationFields {
		b.WriteString(values.Get(f))
	}
	b.Write(secret.Secret)
	return []byte(b.String()), nil
}

func (z *Zsl) WebhookObjectReferenceID(req *connector.IncomingWebhookRequest) (domain.ObjectReferenceID, error) {
	_, n, err := parseNotification(req)
	if err != nil {
		return domain.ObjectReferenceID{}, err
	}
	if n.MerRef == "" {
		return domain.ObjectReferenceID{}, connector.WebhookReferenceIDNotFound()
	}
	return domain.PaymentReference(domain.RefPaymentAttemptID, n.MerRef), nil
}

func (z *Zsl) WebhookEventType(req *connector.IncomingWebhookRequest) (domain.IncomingWebhookEvent, error) {
	_, n, err := parseNotification(req)
	if err != nil {
		return "", err
	}
	switch n.Status {
	case "":
		return "", connector.WebhookEventTypeNotFound()
	case statusSuccess:
		return domain.EventPaymentIntentSuccess, nil
	default:
		return domain.EventPaymentIntentFailure, nil
	}
}

func (z *Zsl) WebhookResourceObject(req *connector.IncomingWebhookRequest) (any, error) {
	_, n, err := parseNotification(req)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (z *Zsl) DisputeDetails(*connector.IncomingWebhookRequest) (domain.DisputePayload, error) {
	return domain.DisputePayload{}, connector.NotImplemented("dispute details")
}

// WebhookAPIResponse acknowledges the callback; ZSL retries until it reads CALLBACK-OK.
func (z *Zsl) WebhookAPIResponse(*connector.IncomingWebhookRequest) (connector.WebhookAPIResponse, error) {
	return connector.WebhookAPIResponse{
		StatusCode:  http.StatusOK,
		ContentType: "text/plain",
		Body:        []byte("CALLBACK-OK"),
	}, nil
}
