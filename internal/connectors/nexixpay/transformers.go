package nexixpay

import (
	"encoding/json"
	"net/url"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// maxOrderIDLength is the longest orderId XPay accepts.
const maxOrderIDLength = 18

type captureType string

const (
	captureImplicit captureType = "IMPLICIT"
	captureExplicit captureType = "EXPLICIT"
)

func captureTypeFor(cm *domain.CaptureMethod) (captureType, error) {
	automatic, err := connector.AutomaticCapture(cm)
	if err != nil {
		return "", err
	}
	if automatic {
		return captureImplicit, nil
	}
	return captureExplicit, nil
}

type billingAddress struct {
	Name     string `json:"name,omitempty"`
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	PostCode string `json:"postCode,omitempty"`
	Country  string `json:"country,omitempty"`
}

type customerInfo struct {
	CardHolderName  string          `json:"cardHolderName,omitempty"`
	CardHolderEmail string          `json:"cardHolderEmail,omitempty"`
	BillingAddress  *billingAddress `json:"billingAddress,omitempty"`
}

type order struct {
	OrderID      string                 `json:"orderId"`
	Amount       amount.StringMinorUnit `json:"amount"`
	Currency     domain.Currency        `json:"currency"`
	Description  string                 `json:"description,omitempty"`
	CustomerInfo customerInfo           `json:"customerInfo"`
}

type card struct {
	Pan        string `json:"pan"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type recurrence struct {
	Action       string `json:"action"`
	ContractID   string `json:"contractId,omitempty"`
	ContractType string `json:"contractType,omitempty"`
}

type threeDSInitRequest struct {
	Order      order       `json:"order"`
	Card       card        `json:"card"`
	Recurrence *recurrence `json:"recurrence,omitempty"`
}

type mitRequest struct {
	Order       order       `json:"order"`
	ContractID  string      `json:"contractId"`
	CaptureType captureType `json:"captureType"`
}

type validationRequest struct {
	OperationID         string `json:"operationId"`
	ThreeDSAuthResponse string `json:"threeDSAuthResponse"`
}

type threeDSAuthResult struct {
	AuthenticationValue string `json:"authenticationValue,omitempty"`
	ECI                 string `json:"eci,omitempty"`
	XID                 string `json:"xid,omitempty"`
	Status              string `json:"status,omitempty"`
	Version             string `json:"version,omitempty"`
}

type paymentRequest struct {
	Order           order             `json:"order"`
	OperationID     string            `json:"operationId"`
	ThreeDSAuthData threeDSAuthResult `json:"threeDSAuthData"`
	CaptureType     captureType       `json:"captureType"`
}

type operationRequest struct {
	Amount      amount.StringMinorUnit `json:"amount"`
	Currency    domain.Currency        `json:"currency"`
	Description string                 `json:"description,omitempty"`
}

type operation struct {
	OrderID           string `json:"orderId"`
	OperationID       string `json:"operationId"`
	OperationType     string `json:"operationType"`
	OperationResult   string `json:"operationResult"`
	OperationAmount   string `json:"operationAmount,omitempty"`
	OperationCurrency string `json:"operationCurrency,omitempty"`
}

type threeDSInitResponse struct {
	Operation               operation `json:"operation"`
	ThreeDSEnrollmentStatus string    `json:"threeDSEnrollmentStatus"`
	ThreeDSAuthRequest      string    `json:"threeDSAuthRequest"`
	ThreeDSAuthURL          string    `json:"threeDSAuthUrl"`
}

type validationResponse struct {
	Operation         operation         `json:"operation"`
	ThreeDSAuthResult threeDSAuthResult `json:"threeDSAuthResult"`
}

type paymentResponse struct {
	Operation operation `json:"operation"`
}

// operationAck answers captures, cancels and refunds.
type operationAck struct {
	OperationID   string `json:"operationId"`
	OperationTime string `json:"operationTime"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type errorResponse struct {
	Errors []apiError `json:"errors"`
}

type syncFlow string

const (
	syncAuthorize syncFlow = "Authorize"
	syncCapture   syncFlow = "Capture"
	syncCancel    syncFlow = "Cancel"
)

// connectorMeta follows the payment through its operations. PSync queries the
// operation named by PSyncFlow.
type connectorMeta struct {
	PSyncFlow                syncFlow           `json:"psync_flow"`
	AuthorizationOperationID string             `json:"authorization_operation_id,omitempty"`
	CaptureOperationID       string             `json:"capture_operation_id,omitempty"`
	CancelOperationID        string             `json:"cancel_operation_id,omitempty"`
	ThreeDSAuthResult        *threeDSAuthResult `json:"three_ds_auth_result,omitempty"`
}

// operationToSync picks the operation PSync asks about.
func operationToSync(raw json.RawMessage) (string, error) {
	meta, err := connector.ParseConnectorMeta[connectorMeta](raw)
	if err != nil {
		return "", err
	}
	var id string
	switch meta.PSyncFlow {
	case syncCapture:
		id = meta.CaptureOperationID
	case syncCancel:
		id = meta.CancelOperationID
	default:
		id = meta.AuthorizationOperationID
	}
	if id == "" {
		return "", connector.MissingRequiredField("connector_meta.operation_id")
	}
	return id, nil
}

// updateMeta applies fn to the stored metadata, starting from scratch when none exists.
func updateMeta(raw json.RawMessage, fn func(*connectorMeta)) (json.RawMessage, error) {
	var meta connectorMeta
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, connector.ResponseHandlingFailed(err)
		}
	}
	fn(&meta)
	return connector.EncodeConnectorMeta(meta)
}

func buildOrder(
	referenceID string,
	amt amount.StringMinorUnit,
	currency domain.Currency,
	email, description string,
	address domain.Address,
	holder string,
) (order, error) {
	if len(referenceID) > maxOrderIDLength {
		return order{}, connector.MaxFieldLengthViolated("order.orderId", maxOrderIDLength, len(referenceID))
	}
	o := order{
		OrderID:     referenceID,
		Amount:      amt,
		Currency:    currency,
		Description: description,
		CustomerInfo: customerInfo{
			CardHolderName:  holder,
			CardHolderEmail: email,
		},
	}
	if b := address.Billing; b != nil {
		o.CustomerInfo.BillingAddress = &billingAddress{
			Name:     b.FullName(),
			Street:   b.Line1,
			City:     b.City,
			PostCode: b.Zip,
			Country:  b.Country,
		}
		if o.CustomerInfo.CardHolderEmail == "" {
			o.CustomerInfo.CardHolderEmail = b.Email
		}
	}
	return o, nil
}

func attemptStatus(result string, cm *domain.CaptureMethod) domain.AttemptStatus {
	switch result {
	case "AUTHORIZED":
		if domain.IsAutomatic(cm) {
			return domain.AttemptCharged
		}
		return domain.AttemptAuthorized
	case "EXECUTED", "REFUNDED":
		return domain.AttemptCharged
	case "DECLINED", "DENIED_BY_RISK", "FAILED":
		return domain.AttemptFailure
	case "THREEDS_FAILED":
		return domain.AttemptAuthenticationFailed
	case "THREEDS_VALIDATED":
		return domain.AttemptAuthorizing
	case "CANCELED", "VOIDED":
		return domain.AttemptVoided
	default:
		return domain.AttemptPending
	}
}

func refundStatus(result string) domain.RefundStatus {
	switch result {
	case "EXECUTED", "VOIDED", "REFUNDED":
		return domain.RefundSuccess
	case "DECLINED", "DENIED_BY_RISK", "FAILED":
		return domain.RefundFailure
	default:
		return domain.RefundPending
	}
}

// operationResult maps a payment operation and records its id in the metadata
// under flow.
func operationResult[Req any](
	data *domain.RouterData[Req, domain.PaymentsResponseData],
	op operation,
	cm *domain.CaptureMethod,
	prevMeta json.RawMessage,
	flow syncFlow,
	httpCode int,
) (*domain.RouterData[Req, domain.PaymentsResponseData], error) {
	status := attemptStatus(op.OperationResult, cm)
	if connector.IsPaymentFailure(status) {
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(httpCode, op.OperationResult, op.OperationResult, op.OperationID, status), httpCode), nil
	}
	meta, err := updateMeta(prevMeta, func(m *connectorMeta) {
		m.PSyncFlow = flow
		if flow == syncAuthorize {
			m.AuthorizationOperationID = op.OperationID
		}
	})
	if err != nil {
		return nil, err
	}
	return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
		ResourceID:                   domain.ResponseID{ConnectorTransactionID: op.OperationID},
		ConnectorMetadata:            meta,
		ConnectorResponseReferenceID: op.OrderID,
	})), httpCode), nil
}

func handleThreeDSInitResponse(data *domain.PaymentsAuthorizeRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsAuthorizeRouterData, error) {
	body, err := connector.ParseJSON[threeDSInitResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)

	if body.ThreeDSAuthURL == "" {
		return operationResult(data, body.Operation, data.Request.CaptureMethod, nil, syncAuthorize, res.StatusCode)
	}
	meta, err := updateMeta(nil, func(m *connectorMeta) {
		m.PSyncFlow = syncAuthorize
		m.AuthorizationOperationID = body.Operation.OperationID
	})
	if err != nil {
		return nil, err
	}
	tr := domain.TransactionResponse{
		ResourceID: domain.ResponseID{ConnectorTransactionID: body.Operation.OperationID},
		RedirectionData: &domain.RedirectForm{
			Endpoint: body.ThreeDSAuthURL,
			Method:   "POST",
			FormFields: map[string]string{
				"ThreeDsRequest": body.ThreeDSAuthRequest,
				"ReturnUrl":      data.Request.CompleteAuthorizeURL,
			},
		},
		ConnectorMetadata:            meta,
		ConnectorResponseReferenceID: body.Operation.OrderID,
	}
	if data.Request.SetupFutureUsage != nil && *data.Request.SetupFutureUsage == domain.FutureUsageOffSession {
		tr.MandateReference = &domain.MandateReference{ConnectorMandateID: contractID(data.ConnectorRequestReferenceID)}
	}
	return connector.WithPaymentsResponse(data, domain.AttemptAuthenticationPending,
		domain.Ok(domain.NewTransactionResponse(tr)), res.StatusCode), nil
}

func handleMITResponse(data *domain.PaymentsAuthorizeRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsAuthorizeRouterData, error) {
	body, err := connector.ParseJSON[paymentResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	return operationResult(data, body.Operation, data.Request.CaptureMethod, nil, syncAuthorize, res.StatusCode)
}

// handleValidationResponse stores the 3DS authentication result for the
// payment step that follows.
func handleValidationResponse(data *domain.PaymentsPreProcessingRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsPreProcessingRouterData, error) {
	body, err := connector.ParseJSON[validationResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)

	status := attemptStatus(body.Operation.OperationResult, data.Request.CaptureMethod)
	if connector.IsPaymentFailure(status) {
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(res.StatusCode, body.Operation.OperationResult, "3DS validation failed", body.Operation.OperationID, status), res.StatusCode), nil
	}
	auth := body.ThreeDSAuthResult
	meta, err := updateMeta(nil, func(m *connectorMeta) {
		m.PSyncFlow = syncAuthorize
		m.AuthorizationOperationID = body.Operation.OperationID
		m.ThreeDSAuthResult = &auth
	})
	if err != nil {
		return nil, err
	}
	return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
		ResourceID:        domain.ResponseID{ConnectorTransactionID: body.Operation.OperationID},
		ConnectorMetadata: meta,
	})), res.StatusCode), nil
}

func handleCompleteAuthorizeResponse(data *domain.PaymentsCompleteAuthorizeRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsCompleteAuthorizeRouterData, error) {
	body, err := connector.ParseJSON[paymentResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	return operationResult(data, body.Operation, data.Request.CaptureMethod, data.Request.ConnectorMeta, syncAuthorize, res.StatusCode)
}

// ackHandler maps the acknowledgement of a follow-up operation. The operation
// is asynchronous, so the attempt moves to the given in-flight status.
func ackHandler[Req any](
	flow syncFlow,
	status domain.AttemptStatus,
	prevMeta func(Req) json.RawMessage,
) connector.ResponseFunc[Req, domain.PaymentsResponseData] {
	return func(
		data *domain.RouterData[Req, domain.PaymentsResponseData],
		event *connector.EventBuilder,
		res *connector.Response,
	) (*domain.RouterData[Req, domain.PaymentsResponseData], error) {
		body, err := connector.ParseJSON[operationAck](res.Body)
		if err != nil {
			return nil, err
		}
		event.SetResponseBody(body)
		meta, err := updateMeta(prevMeta(data.Request), func(m *connectorMeta) {
			m.PSyncFlow = flow
			switch flow {
			case syncCapture:
				m.CaptureOperationID = body.OperationID
			case syncCancel:
				m.CancelOperationID = body.OperationID
			}
		})
		if err != nil {
			return nil, err
		}
		return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
			ResourceID:        domain.ResponseID{ConnectorTransactionID: body.OperationID},
			ConnectorMetadata: meta,
		})), res.StatusCode), nil
	}
}

func handleSyncResponse(data *domain.PaymentsSyncRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsSyncRouterData, error) {
	body, err := connector.ParseJSON[operation](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	status := attemptStatus(body.OperationResult, data.Request.CaptureMethod)
	if connector.IsPaymentFailure(status) {
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(res.StatusCode, body.OperationResult, body.OperationResult, body.OperationID, status), res.StatusCode), nil
	}
	txnID, _ := data.Request.ConnectorTransactionID.TransactionID()
	return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
		ResourceID:                   domain.ResponseID{ConnectorTransactionID: txnID},
		ConnectorMetadata:            data.Request.ConnectorMeta,
		ConnectorResponseReferenceID: body.OrderID,
	})), res.StatusCode), nil
}

func handleRefundResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	body, err := connector.ParseJSON[operationAck](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	return connector.WithRefundsResponse(data,
		connector.RefundResult(body.OperationID, domain.RefundPending, res.StatusCode, "", ""),
		res.StatusCode), nil
}

func handleRefundSyncResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	body, err := connector.ParseJSON[operation](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	return connector.WithRefundsResponse(data,
		connector.RefundResult(data.Request.ConnectorRefundID, refundStatus(body.OperationResult), res.StatusCode, body.OperationResult, body.OperationResult),
		res.StatusCode), nil
}

// threeDSAuthResponse extracts the PaRes the ACS posted back to the gateway.
func threeDSAuthResponse(rr *domain.RedirectResponse) (string, error) {
	if rr == nil {
		return "", connector.MissingRequiredField("redirect_response")
	}
	if len(rr.Payload) > 0 {
		var payload struct {
			PaRes string `json:"PaRes"`
		}
		if err := json.Unmarshal(rr.Payload, &payload); err == nil && payload.PaRes != "" {
			return payload.PaRes, nil
		}
	}
	values, err := url.ParseQuery(rr.Params)
	if err != nil {
		return "", connector.InvalidDataFormat("redirect_response.params")
	}
	if pares := values.Get("PaRes"); pares != "" {
		return pares, nil
	}
	return "", connector.MissingRequiredField("redirect_response.PaRes")
}
