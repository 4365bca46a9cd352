package archipel

import (
	"encoding/json"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// metadata is the merchant connector account metadata Archipel needs.
type metadata struct {
	TenantID      string `json:"tenant_id"`
	PlatformURL   string `json:"platform_url,omitempty"`
	CACertificate string `json:"ca_certificate,omitempty"`
}

const metadataSchema = `{
	"type": "object",
	"properties": {
		"tenant_id": {"type": "string", "minLength": 1},
		"platform_url": {"type": "string"},
		"ca_certificate": {"type": "string"}
	},
	"required": ["tenant_id"]
}`

func metadataFrom(raw json.RawMessage) (metadata, error) {
	meta, err := connector.ParseMerchantMetadata[metadata](raw)
	if err != nil {
		return meta, err
	}
	if meta.TenantID == "" {
		return meta, connector.InvalidConnectorConfig("tenant_id")
	}
	return meta, nil
}

type certificateAuth struct {
	certificate domain.Secret
	privateKey  domain.Secret
}

func authFrom(a domain.ConnectorAuthType) (certificateAuth, error) {
	if a.AuthType != domain.AuthTypeCertificateAuth {
		return certificateAuth{}, connector.FailedToObtainAuthType()
	}
	return certificateAuth{certificate: a.Certificate, privateKey: a.PrivateKey}, nil
}

type order struct {
	Amount    domain.MinorUnit `json:"amount"`
	Currency  domain.Currency  `json:"currency"`
	Certainty string           `json:"certainty,omitempty"`
	Initiator string           `json:"initiator,omitempty"`
}

type cardholder struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type card struct {
	Number         string `json:"number"`
	Expiry         string `json:"expiry"`
	SecurityCode   string `json:"securityCode,omitempty"`
	CardHolderName string `json:"cardHolderName,omitempty"`
}

type storedCredential struct {
	Mode        string `json:"mode"`
	ReasonCode  string `json:"reasonCode,omitempty"`
	SchemeTxnID string `json:"schemeTransactionId,omitempty"`
}

type paymentRequest struct {
	Order            order             `json:"order"`
	Cardholder       *cardholder       `json:"cardholder,omitempty"`
	Card             *card             `json:"card,omitempty"`
	StoredCredential *storedCredential `json:"storedCredential,omitempty"`
	MerchantRef      string            `json:"merchantTransactionId,omitempty"`
}

func newCard(c *domain.Card) *card {
	return &card{
		Number:         c.Number.Expose(),
		Expiry:         c.ExpiryYear2() + c.ExpiryMonth2(),
		SecurityCode:   c.CVC.Expose(),
		CardHolderName: c.HolderName,
	}
}

func cardFrom(pm domain.PaymentMethodData) (*card, error) {
	if pm.Card == nil {
		return nil, connector.NotSupported("payment method "+string(pm.MethodType()), connectorName)
	}
	return newCard(pm.Card), nil
}

type captureRequest struct {
	Order order `json:"order"`
}

type refundRequest struct {
	Order       order  `json:"order"`
	MerchantRef string `json:"merchantTransactionId,omitempty"`
}

type incrementRequest struct {
	Order order `json:"order"`
}

const (
	resultSuccess = "SUCCESS"
	resultPending = "PENDING"
	resultFailure = "FAILURE"

	typeAuthorization = "AUTHORIZATION"
	typeSale          = "SALE"
	typeCapture       = "CAPTURE"
	typeCancel        = "CANCEL"
	typeRefund        = "REFUND"
	typeVerification  = "VERIFICATION"
)

type responseOrder struct {
	ID       string           `json:"id"`
	Amount   domain.MinorUnit `json:"amount"`
	Currency domain.Currency  `json:"currency"`
}

type transactionResponse struct {
	Order             responseOrder `json:"order"`
	TransactionID     string        `json:"transactionId"`
	TransactionType   string        `json:"transactionType"`
	TransactionResult string        `json:"transactionResult"`
	SchemeTxnID       string        `json:"schemeTransactionId,omitempty"`
	ErrorCode         string        `json:"errorCode,omitempty"`
	ErrorMessage      string        `json:"errorMessage,omitempty"`
}

type errorResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// attemptStatus maps the result of a transaction of the given type.
func attemptStatus(txnType, txnResult string) domain.AttemptStatus {
	switch txnResult {
	case resultPending:
		return domain.AttemptPending
	case resultFailure:
		switch txnType {
		case typeCapture:
			return domain.AttemptCaptureFailed
		case typeCancel:
			return domain.AttemptVoidFailed
		case typeAuthorization:
			return domain.AttemptAuthorizationFailed
		default:
			return domain.AttemptFailure
		}
	case resultSuccess:
		switch txnType {
		case typeAuthorization, typeVerification:
			return domain.AttemptAuthorized
		case typeSale, typeCapture:
			return domain.AttemptCharged
		case typeCancel:
			return domain.AttemptVoided
		}
	}
	return domain.AttemptPending
}

func refundStatus(txnResult string) domain.RefundStatus {
	switch txnResult {
	case resultSuccess:
		return domain.RefundSuccess
	case resultFailure:
		return domain.RefundFailure
	default:
		return domain.RefundPending
	}
}

// paymentsHandler maps a transaction response; txnType is used when the
// response does not say which kind of transaction it was.
func paymentsHandler[Req any](txnType string) connector.ResponseFunc[Req, domain.PaymentsResponseData] {
	return func(
		data *domain.RouterData[Req, domain.PaymentsResponseData],
		event *connector.EventBuilder,
		res *connector.Response,
	) (*domain.RouterData[Req, domain.PaymentsResponseData], error) {
		body, err := connector.ParseJSON[transactionResponse](res.Body)
		if err != nil {
			return nil, err
		}
		event.SetResponseBody(body)

		kind := body.TransactionType
		if kind == "" {
			kind = txnType
		}
		status := attemptStatus(kind, body.TransactionResult)
		if connector.IsPaymentFailure(status) {
			return connector.WithPaymentsResponse(data, status,
				connector.PaymentFailure(res.StatusCode, body.ErrorCode, body.ErrorMessage, body.TransactionID, status),
				res.StatusCode), nil
		}

		id := body.Order.ID
		if id == "" {
			id = body.TransactionID
		}
		tr := domain.TransactionResponse{
			ResourceID:                   domain.ResponseID{ConnectorTransactionID: id},
			NetworkTxnID:                 body.SchemeTxnID,
			ConnectorResponseReferenceID: body.TransactionID,
		}
		if kind == typeVerification && body.SchemeTxnID != "" {
			tr.MandateReference = &domain.MandateReference{ConnectorMandateID: body.SchemeTxnID}
		}
		if kind == typeAuthorization {
			allowed := true
			tr.IncrementalAuthorizationAllowed = &allowed
		}
		return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(tr)), res.StatusCode), nil
	}
}

func handleIncrementResponse(
	data *domain.PaymentsIncrementalAuthorizationRouterData,
	event *connector.EventBuilder,
	res *connector.Response,
) (*domain.PaymentsIncrementalAuthorizationRouterData, error) {
	body, err := connector.ParseJSON[transactionResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)

	resp := domain.IncrementalAuthorizationResponse{ConnectorID: body.TransactionID}
	switch body.TransactionResult {
	case resultSuccess:
		resp.Status = domain.AuthorizationSuccess
	case resultFailure:
		resp.Status = domain.AuthorizationFailure
		resp.ErrorCode = body.ErrorCode
		resp.ErrorMessage = body.ErrorMessage
	default:
		resp.Status = domain.AuthorizationProcessing
	}
	return connector.WithPaymentsResponse(data, data.Status,
		domain.Ok(domain.PaymentsResponseData{IncrementalAuthorization: &resp}), res.StatusCode), nil
}

func handleRefundResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	body, err := connector.ParseJSON[transactionResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)

	id := body.TransactionID
	if id == "" {
		id = body.Order.ID
	}
	return connector.WithRefundsResponse(data,
		connector.RefundResult(id, refundStatus(body.TransactionResult), res.StatusCode, body.ErrorCode, body.ErrorMessage),
		res.StatusCode), nil
}
