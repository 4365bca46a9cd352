package zsl

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// authType narrows BodyKey: api_key is the merchant id, key1 the signing key.
type authType struct {
	merchantID domain.Secret
	key        domain.Secret
}

func authFrom(a domain.ConnectorAuthType) (authType, error) {
	if a.AuthType != domain.AuthTypeBodyKey {
		return authType{}, connector.FailedToObtainAuthType()
	}
	return authType{merchantID: a.APIKey, key: a.Key1}, nil
}

const (
	processType    = "0200"
	processCode    = "290001"
	encTypeMD5     = "2"
	serviceCodeMPG = "MPG"
	payMethodBank  = "BANK"
	versionNo      = "1.0"
	statusSuccess  = "0"
	maxMerRefLen   = 32
)

// signedFields is the order in which request fields enter the signature.
var signedFields = []string{
	"process_type", "process_code", "txn_amt", "ccy", "mer_ref", "mer_id",
	"lang", "success_url", "failure_url", "success_s2s_url", "country", "bank_code",
}

// sign is the upper-case MD5 of the signed fields, in order, followed by key.
func sign(values url.Values, fields []string, key string) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(values.Get(f))
	}
	b.WriteString(key)
	sum := md5.Sum([]byte(b.String())) //nolint:gosec // connector-mandated digest
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func authorizeForm(data *domain.PaymentsAuthorizeRouterData, auth authType, amt amount.StringMinorUnit) (url.Values, error) {
	bt := data.Request.PaymentMethodData.BankTransfer
	if bt == nil || bt.Type != domain.PMTLocalBankTransfer {
		return nil, connector.NotSupported("payment method "+string(data.Request.PaymentMethodData.MethodType()), connectorName)
	}
	ref := data.ConnectorRequestReferenceID
	if len(ref) > maxMerRefLen {
		return nil, connector.MaxFieldLengthViolated("mer_ref", maxMerRefLen, len(ref))
	}
	if data.Request.ReturnURL == "" {
		return nil, connector.MissingRequiredField("return_url")
	}
	if data.Request.WebhookURL == "" {
		return nil, connector.MissingRequiredField("webhook_url")
	}
	billing := data.Address.Billing
	if billing == nil || billing.Country == "" {
		return nil, connector.MissingRequiredField("billing.address.country")
	}

	form := url.Values{}
	form.Set("process_type", processType)
	form.Set("process_code", processCode)
	form.Set("txn_amt", string(amt))
	form.Set("ccy", string(data.Request.Currency))
	form.Set("mer_ref", ref)
	form.Set("mer_id", auth.merchantID.Expose())
	form.Set("lang", "en")
	form.Set("success_url", data.Request.ReturnURL)
	form.Set("failure_url", data.Request.ReturnURL)
	form.Set("success_s2s_url", data.Request.WebhookURL)
	form.Set("country", billing.Country)
	form.Set("bank_code", bt.BankCode)
	form.Set("enctype", encTypeMD5)
	form.Set("service_code", serviceCodeMPG)
	form.Set("pay_method", payMethodBank)
	form.Set("verno", versionNo)
	if name := billing.FullName(); name != "" {
		form.Set("cust_tag", name)
	}
	form.Set("signature", sign(form, signedFields, auth.key.Expose()))
	return form, nil
}

// response is the form-encoded answer of the payment endpoint.
type response struct {
	Status  string
	TxnURL  string
	MerRef  string
	ErrCode string
	ErrMsg  string
}

func parseResponse(body []byte) (response, error) {
	values, err := url.ParseQuery(strings.TrimSpace(string(body)))
	if err != nil {
		return response{}, connector.ResponseDeserializationFailed(err)
	}
	if values.Get("status") == "" {
		return response{}, connector.ResponseDeserializationFailed(errMissingStatus)
	}
	return response{
		Status:  values.Get("status"),
		TxnURL:  values.Get("txn_url"),
		MerRef:  values.Get("mer_ref"),
		ErrCode: values.Get("err_code"),
		ErrMsg:  values.Get("err_msg"),
	}, nil
}

// errorMessages covers the ZSL status codes that come without err_msg.
var errorMessages = map[string]string{
	"1001": "Invalid signature",
	"1002": "Invalid merchant",
	"1003": "Duplicate merchant reference",
	"1004": "Invalid amount",
	"1005": "Currency not supported",
	"1006": "Bank not supported",
}

func handleAuthorizeResponse(data *domain.PaymentsAuthorizeRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsAuthorizeRouterData, error) {
	body, err := parseResponse(res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)

	if body.Status != statusSuccess || body.TxnURL == "" {
		msg := body.ErrMsg
		if msg == "" {
			msg = errorMessages[body.Status]
		}
		code := body.ErrCode
		if code == "" {
			code = body.Status
		}
		status := domain.AttemptFailure
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(res.StatusCode, code, msg, "", status), res.StatusCode), nil
	}

	// The payment has no connector id until the customer completes it; the
	// merchant reference stands in for it.
	ref := body.MerRef
	if ref == "" {
		ref = data.ConnectorRequestReferenceID
	}
	return connector.WithPaymentsResponse(data, domain.AttemptAuthenticationPending,
		domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
			ResourceID:                   domain.ResponseID{ConnectorTransactionID: ref},
			RedirectionData:              &domain.RedirectForm{Endpoint: body.TxnURL, Method: "GET"},
			ConnectorResponseReferenceID: ref,
		})), res.StatusCode), nil
}
