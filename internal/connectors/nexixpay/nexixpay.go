// Package nexixpay integrates Nexi XPay's server-to-server API. Card payments
// run the three-step 3DS sequence: init, validation, payment.
package nexixpay

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const (
	connectorName = "nexixpay"

	headerCorrelationID  = "Correlation-Id"
	headerIdempotencyKey = "Idempotency-Key"
)

// namespace scopes the name-based UUIDs sent as correlation and idempotency keys,
// so retries of one call reuse the same key.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://xpay.nexigroup.com"))

type Nexixpay struct {
	connector.StaticSpecifications
	connector.ValidationRules
	connector.NoWebhooks

	amount amount.StringMinorUnitForConnector
	flows  connector.Flows
}

var _ connector.Connector = (*Nexixpay)(nil)

func New() *Nexixpay {
	n := &Nexixpay{
		StaticSpecifications: specifications,
		ValidationRules: connector.ValidationRules{
			Connector:             connectorName,
			CaptureMethods:        []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatePaymentMethods: []domain.PaymentMethodType{domain.PMTCredit, domain.PMTDebit},
		},
	}

	n.flows = connector.Flows{
		Authorize: &connector.Flow[domain.PaymentsAuthorizeData, domain.PaymentsResponseData]{
			Common:    n,
			HeadersFn: headers[domain.PaymentsAuthorizeData, domain.PaymentsResponseData](n, false),
			URLFn: func(data *domain.PaymentsAuthorizeRouterData, conns *config.Connectors) (string, error) {
				if isMIT(data.Request) {
					return n.endpoint(conns, "/orders/mit"), nil
				}
				return n.endpoint(conns, "/orders/3steps/init"), nil
			},
			BodyFn: n.authorizeBody,
			ResponseFn: func(data *domain.PaymentsAuthorizeRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsAuthorizeRouterData, error) {
				if isMIT(data.Request) {
					return handleMITResponse(data, event, res)
				}
				return handleThreeDSInitResponse(data, event, res)
			},
		},
		PreProcessing: &connector.Flow[domain.PaymentsPreProcessingData, domain.PaymentsResponseData]{
			Common:    n,
			HeadersFn: headers[domain.PaymentsPreProcessingData, domain.PaymentsResponseData](n, false),
			URLFn: func(_ *domain.PaymentsPreProcessingRouterData, conns *config.Connectors) (string, error) {
				return n.endpoint(conns, "/orders/3steps/validation"), nil
			},
			BodyFn: func(data *domain.PaymentsPreProcessingRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				pares, err := threeDSAuthResponse(data.Request.RedirectResponse)
				if err != nil {
					return nil, err
				}
				return connector.JSONContent(&validationRequest{
					OperationID:         data.Request.ConnectorTransactionID,
					ThreeDSAuthResponse: pares,
				}), nil
			},
			ResponseFn: handleValidationResponse,
		},
		CompleteAuthorize: &connector.Flow[domain.CompleteAuthorizeData, domain.PaymentsResponseData]{
			Common:    n,
			HeadersFn: headers[domain.CompleteAuthorizeData, domain.PaymentsResponseData](n, false),
			URLFn: func(_ *domain.PaymentsCompleteAuthorizeRouterData, conns *config.Connectors) (string, error) {
				return n.endpoint(conns, "/orders/3steps/payment"), nil
			},
			BodyFn:     n.completeAuthorizeBody,
			ResponseFn: handleCompleteAuthorizeResponse,
		},
		Capture: &connector.Flow[domain.PaymentsCaptureData, domain.PaymentsResponseData]{
			Common:    n,
			HeadersFn: headers[domain.PaymentsCaptureData, domain.PaymentsResponseData](n, true),
			URLFn: func(data *domain.PaymentsCaptureRouterData, conns *config.Connectors) (string, error) {
				id, err := authorizationOperation(data.Request.ConnectorMeta, data.Request.ConnectorTransactionID)
				if err != nil {
					return "", err
				}
				return n.endpoint(conns, "/operations/"+url.PathEscape(id)+"/captures"), nil
			},
			BodyFn: func(data *domain.PaymentsCaptureRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				amt, err := connector.ConvertAmount[amount.StringMinorUnit](n.amount, data.Request.AmountToCapture, data.Request.Currency)
				if err != nil {
					return nil, err
				}
				return connector.JSONContent(&operationRequest{Amount: amt, Currency: data.Request.Currency}), nil
			},
			ResponseFn: ackHandler(syncCapture, domain.AttemptPending, func(r domain.PaymentsCaptureData) json.RawMessage { return r.ConnectorMeta }),
		},
		Void: &connector.Flow[domain.PaymentsCancelData, domain.PaymentsResponseData]{
			Common:    n,
			HeadersFn: headers[domain.PaymentsCancelData, domain.PaymentsResponseData](n, true),
			URLFn: func(data *domain.PaymentsCancelRouterData, conns *config.Connectors) (string, error) {
				id, err := authorizationOperation(data.Request.ConnectorMeta, data.Request.ConnectorTransactionID)
				if err != nil {
					return "", err
				}
				return n.endpoint(conns, "/operations/"+url.PathEscape(id)+"/cancels"), nil
			},
			BodyFn: func(data *domain.PaymentsCancelRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				if data.Request.Amount == nil || data.Request.Currency == nil {
					return nil, connector.MissingRequiredFields("amount", "currency")
				}
				amt, err := connector.ConvertAmount[amount.StringMinorUnit](n.amount, *data.Request.Amount, *data.Request.Currency)
				if err != nil {
					return nil, err
				}
				return connector.JSONContent(&operationRequest{
					Amount:      amt,
					Currency:    *data.Request.Currency,
					Description: data.Request.CancellationReason,
				}), nil
			},
			ResponseFn: ackHandler(syncCancel, domain.AttemptVoidInitiated, func(r domain.PaymentsCancelData) json.RawMessage { return r.ConnectorMeta }),
		},
		PSync: &connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
			Common:    n,
			Method:    http.MethodGet,
			HeadersFn: headers[domain.PaymentsSyncData, domain.PaymentsResponseData](n, false),
			URLFn: func(data *domain.PaymentsSyncRouterData, conns *config.Connectors) (string, error) {
				id, err := operationToSync(data.Request.ConnectorMeta)
				if err != nil {
					return "", err
				}
				return n.endpoint(conns, "/operations/"+url.PathEscape(id)), nil
			},
			ResponseFn: handleSyncResponse,
		},
		Execute: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common:    n,
			HeadersFn: headers[domain.RefundsData, domain.RefundsResponseData](n, true),
			URLFn: func(data *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				id, err := refundableOperation(data.Request)
				if err != nil {
					return "", err
				}
				return n.endpoint(conns, "/operations/"+url.PathEscape(id)+"/refunds"), nil
			},
			BodyFn: func(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				amt, err := connector.ConvertAmount[amount.StringMinorUnit](n.amount, data.Request.RefundAmount, data.Request.Currency)
				if err != nil {
					return nil, err
				}
				return connector.JSONContent(&operationRequest{
					Amount:      amt,
					Currency:    data.Request.Currency,
					Description: data.Request.Reason,
				}), nil
			},
			ResponseFn: handleRefundResponse,
		},
		RSync: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common:    n,
			Method:    http.MethodGet,
			HeadersFn: headers[domain.RefundsData, domain.RefundsResponseData](n, false),
			URLFn: func(data *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				if data.Request.ConnectorRefundID == "" {
					return "", connector.MissingConnectorRefundID()
				}
				return n.endpoint(conns, "/operations/"+url.PathEscape(data.Request.ConnectorRefundID)), nil
			},
			ResponseFn: handleRefundSyncResponse,
		},
	}.WithDefaults()

	return n
}

func (n *Nexixpay) ID() string {
	return connectorName
}

func (n *Nexixpay) CurrencyUnit() connector.CurrencyUnit {
	return connector.CurrencyUnitMinor
}

func (n *Nexixpay) CommonContentType() string {
	return connector.ContentTypeJSON
}

func (n *Nexixpay) BaseURL(conns *config.Connectors) string {
	return conns.Nexixpay.BaseURL
}

func (n *Nexixpay) AuthHeader(auth domain.ConnectorAuthType) ([]connector.Header, error) {
	if auth.AuthType != domain.AuthTypeHeaderKey {
		return nil, connector.FailedToObtainAuthType()
	}
	return []connector.Header{connector.MaskedHeader(connector.HeaderXAPIKey, auth.APIKey)}, nil
}

func (n *Nexixpay) BuildErrorResponse(res *connector.Response, event *connector.EventBuilder) (domain.ErrorResponse, error) {
	return connector.BuildJSONErrorResponse(res, event, func(body errorResponse) domain.ErrorResponse {
		if len(body.Errors) == 0 {
			return domain.ErrorResponse{}
		}
		codes := make([]string, 0, len(body.Errors))
		descriptions := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			codes = append(codes, e.Code)
			descriptions = append(descriptions, e.Description)
		}
		return domain.ErrorResponse{
			Code:    strings.Join(codes, ", "),
			Message: body.Errors[0].Description,
			Reason:  strings.Join(descriptions, ", "),
		}
	}), nil
}

func (n *Nexixpay) Flows() connector.Flows {
	return n.flows
}

func (n *Nexixpay) NeedsAccessToken(domain.PaymentMethod) bool {
	return false
}

// ValidatePsyncReferenceID checks the stored operation ids instead of the
// transaction id; PSync addresses operations.
func (n *Nexixpay) ValidatePsyncReferenceID(data domain.PaymentsSyncData) error {
	_, err := operationToSync(data.ConnectorMeta)
	return err
}

func (n *Nexixpay) endpoint(conns *config.Connectors, path string) string {
	return strings.TrimSuffix(n.BaseURL(conns), "/") + path
}

// headers adds a Correlation-Id derived from the call identity and, for
// operations that move money, the same value as Idempotency-Key.
func headers[Req, Resp any](n *Nexixpay, idempotent bool) connector.HeadersFunc[Req, Resp] {
	return func(data *domain.RouterData[Req, Resp], _ *config.Connectors) ([]connector.Header, error) {
		out, err := connector.BuildHeaders(n, connector.ContentTypeJSON, data.ConnectorAuthType)
		if err != nil {
			return nil, err
		}
		key := uuid.NewSHA1(namespace, []byte(strings.Join([]string{
			string(data.Flow), data.AttemptID, data.ConnectorRequestReferenceID, data.RefundID,
		}, ":"))).String()
		out = append(out, connector.PlainHeader(headerCorrelationID, key))
		if idempotent {
			out = append(out, connector.PlainHeader(headerIdempotencyKey, key))
		}
		return out, nil
	}
}

// contractID names the card-on-file contract created by a mandate setup payment.
func contractID(referenceID string) string {
	return "ctr_" + uuid.NewSHA1(namespace, []byte(referenceID)).String()[:14]
}

func isMIT(req domain.PaymentsAuthorizeData) bool {
	return req.MandateID != nil && req.MandateID.ConnectorMandateID != ""
}

func authorizationOperation(meta json.RawMessage, fallback string) (string, error) {
	if len(meta) > 0 {
		m, err := connector.ParseConnectorMeta[connectorMeta](meta)
		if err != nil {
			return "", err
		}
		if m.AuthorizationOperationID != "" {
			return m.AuthorizationOperationID, nil
		}
	}
	if fallback == "" {
		return "", connector.MissingConnectorTransactionID()
	}
	return fallback, nil
}

// refundableOperation refunds the capture when one was made separately,
// otherwise the authorization.
func refundableOperation(req domain.RefundsData) (string, error) {
	if len(req.ConnectorMetadata) > 0 {
		m, err := connector.ParseConnectorMeta[connectorMeta](req.ConnectorMetadata)
		if err != nil {
			return "", err
		}
		if m.CaptureOperationID != "" {
			return m.CaptureOperationID, nil
		}
		if m.AuthorizationOperationID != "" {
			return m.AuthorizationOperationID, nil
		}
	}
	if req.ConnectorTransactionID == "" {
		return "", connector.MissingConnectorTransactionID()
	}
	return req.ConnectorTransactionID, nil
}

func (n *Nexixpay) authorizeBody(data *domain.PaymentsAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	amt, err := connector.ConvertAmount[amount.StringMinorUnit](n.amount, data.Request.Amount, data.Request.Currency)
	if err != nil {
		return nil, err
	}
	holder := data.Request.CustomerName
	if c := data.Request.PaymentMethodData.Card; c != nil && c.HolderName != "" {
		holder = c.HolderName
	}
	o, err := buildOrder(data.ConnectorRequestReferenceID, amt, data.Request.Currency,
		data.Request.Email, data.Description, data.Address, holder)
	if err != nil {
		return nil, err
	}

	if isMIT(data.Request) {
		capture, err := captureTypeFor(data.Request.CaptureMethod)
		if err != nil {
			return nil, err
		}
		return connector.JSONContent(&mitRequest{
			Order:       o,
			ContractID:  data.Request.MandateID.ConnectorMandateID,
			CaptureType: capture,
		}), nil
	}

	c := data.Request.PaymentMethodData.Card
	if c == nil {
		return nil, connector.NotSupported("payment method "+string(data.Request.PaymentMethodData.MethodType()), connectorName)
	}
	req := &threeDSInitRequest{
		Order: o,
		Card: card{
			Pan:        c.Number.Expose(),
			ExpiryDate: c.ExpiryMMYY(""),
			CVV:        c.CVC.Expose(),
		},
	}
	if data.Request.SetupFutureUsage != nil && *data.Request.SetupFutureUsage == domain.FutureUsageOffSession {
		req.Recurrence = &recurrence{
			Action:       "CONTRACT_CREATION",
			ContractID:   contractID(data.ConnectorRequestReferenceID),
			ContractType: "MIT_UNSCHEDULED",
		}
	}
	return connector.JSONContent(req), nil
}

func (n *Nexixpay) completeAuthorizeBody(data *domain.PaymentsCompleteAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	meta, err := connector.ParseConnectorMeta[connectorMeta](data.Request.ConnectorMeta)
	if err != nil {
		return nil, err
	}
	if meta.ThreeDSAuthResult == nil {
		return nil, connector.MissingRequiredField("connector_meta.three_ds_auth_result")
	}
	opID := meta.AuthorizationOperationID
	if opID == "" {
		opID = data.Request.ConnectorTransactionID
	}
	if opID == "" {
		return nil, connector.MissingConnectorTransactionID()
	}
	amt, err := connector.ConvertAmount[amount.StringMinorUnit](n.amount, data.Request.Amount, data.Request.Currency)
	if err != nil {
		return nil, err
	}
	o, err := buildOrder(data.ConnectorRequestReferenceID, amt, data.Request.Currency,
		data.Request.Email, data.Description, data.Address, "")
	if err != nil {
		return nil, err
	}
	capture, err := captureTypeFor(data.Request.CaptureMethod)
	if err != nil {
		return nil, err
	}
	return connector.JSONContent(&paymentRequest{
		Order:           o,
		OperationID:     opID,
		ThreeDSAuthData: *meta.ThreeDSAuthResult,
		CaptureType:     capture,
	}), nil
}

var specifications = connector.StaticSpecifications{
	Info: connector.About{
		DisplayName:       "Nexixpay",
		Description:       "Nexixpay is an Italian bank that specialises in payment systems such as Nexi Payments (formerly known as CartaSi).",
		ConnectorType:     "payment_gateway",
		IntegrationStatus: connector.IntegrationSandbox,
	},
	Methods: []connector.SupportedPaymentMethod{
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTCredit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatesSupported: true,
			RefundsSupported:  true,
			ThreeDSSupported:  true,
			CardNetworks:      connector.CardNetworks,
		},
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTDebit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatesSupported: true,
			RefundsSupported:  true,
			ThreeDSSupported:  true,
			CardNetworks:      connector.CardNetworks,
		},
	},
}
