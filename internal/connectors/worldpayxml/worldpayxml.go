// Package worldpayxml integrates the Worldpay XML Direct API. Every flow posts a
// paymentService document to the same endpoint; the element inside it selects
// the operation.
package worldpayxml

import (
	"errors"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const connectorName = "worldpayxml"

var (
	errMissingPayment = errors.New("orderStatus without payment")
	errMissingAck     = errors.New("ok reply without acknowledgement")
)

type Worldpayxml struct {
	connector.StaticSpecifications
	connector.ValidationRules
	connector.NoWebhooks

	flows connector.Flows
}

var _ connector.Connector = (*Worldpayxml)(nil)

func New() *Worldpayxml {
	w := &Worldpayxml{
		StaticSpecifications: specifications,
		ValidationRules: connector.ValidationRules{
			Connector:      connectorName,
			CaptureMethods: []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
		},
	}

	w.flows = connector.Flows{
		Authorize: &connector.Flow[domain.PaymentsAuthorizeData, domain.PaymentsResponseData]{
			Common: w,
			URLFn:  endpoint[domain.PaymentsAuthorizeData, domain.PaymentsResponseData](w),
			BodyFn: func(data *domain.PaymentsAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				ps, err := authorizeRequest(data, auth)
				if err != nil {
					return nil, err
				}
				return connector.XMLContent(preamble, ps)
			},
			ResponseFn: paymentsHandler(
				func(r domain.PaymentsAuthorizeData) *domain.CaptureMethod { return r.CaptureMethod },
				func(d *domain.PaymentsAuthorizeRouterData) string { return d.ConnectorRequestReferenceID },
			),
		},
		Capture: &connector.Flow[domain.PaymentsCaptureData, domain.PaymentsResponseData]{
			Common: w,
			URLFn:  endpoint[domain.PaymentsCaptureData, domain.PaymentsResponseData](w),
			BodyFn: func(data *domain.PaymentsCaptureRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				amt, err := toXMLAmount(data.Request.AmountToCapture, data.Request.Currency)
				if err != nil {
					return nil, err
				}
				return connector.XMLContent(preamble, modifyRequest(auth, data.Request.ConnectorTransactionID,
					orderModification{Capture: &amountEnvelope{Amount: amt}}))
			},
			ResponseFn: modificationHandler[domain.PaymentsCaptureData](domain.AttemptCaptureInitiated, domain.AttemptCaptureFailed,
				func(ok *okReply) *received { return ok.CaptureReceived }),
		},
		Void: &connector.Flow[domain.PaymentsCancelData, domain.PaymentsResponseData]{
			Common: w,
			URLFn:  endpoint[domain.PaymentsCancelData, domain.PaymentsResponseData](w),
			BodyFn: func(data *domain.PaymentsCancelRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				return connector.XMLContent(preamble, modifyRequest(auth, data.Request.ConnectorTransactionID,
					orderModification{Cancel: &struct{}{}}))
			},
			ResponseFn: modificationHandler[domain.PaymentsCancelData](domain.AttemptVoidInitiated, domain.AttemptVoidFailed,
				func(ok *okReply) *received { return ok.CancelReceived }),
		},
		PSync: &connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
			Common: w,
			URLFn:  endpoint[domain.PaymentsSyncData, domain.PaymentsResponseData](w),
			BodyFn: func(data *domain.PaymentsSyncRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				id, err := data.Request.ConnectorTransactionID.TransactionID()
				if err != nil {
					return nil, connector.MissingConnectorTransactionID()
				}
				return connector.XMLContent(preamble, inquiryRequest(auth, id))
			},
			ResponseFn: paymentsHandler(
				func(r domain.PaymentsSyncData) *domain.CaptureMethod { return r.CaptureMethod },
				func(d *domain.PaymentsSyncRouterData) string { return d.Request.ConnectorTransactionID.ConnectorTransactionID },
			),
		},
		Execute: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: w,
			URLFn:  endpoint[domain.RefundsData, domain.RefundsResponseData](w),
			BodyFn: func(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				amt, err := toXMLAmount(data.Request.RefundAmount, data.Request.Currency)
				if err != nil {
					return nil, err
				}
				return connector.XMLContent(preamble, modifyRequest(auth, data.Request.ConnectorTransactionID,
					orderModification{Refund: &amountEnvelope{Amount: amt}}))
			},
			ResponseFn: handleRefundResponse,
		},
		RSync: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: w,
			URLFn:  endpoint[domain.RefundsData, domain.RefundsResponseData](w),
			BodyFn: func(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				return connector.XMLContent(preamble, inquiryRequest(auth, data.Request.ConnectorTransactionID))
			},
			ResponseFn: handleRefundSyncResponse,
		},
	}.WithDefaults()

	return w
}

func (w *Worldpayxml) ID() string {
	return connectorName
}

func (w *Worldpayxml) CurrencyUnit() connector.CurrencyUnit {
	return connector.CurrencyUnitMinor
}

func (w *Worldpayxml) CommonContentType() string {
	return connector.ContentTypeXML
}

func (w *Worldpayxml) BaseURL(conns *config.Connectors) string {
	return conns.Worldpayxml.BaseURL
}

func (w *Worldpayxml) AuthHeader(auth domain.ConnectorAuthType) ([]connector.Header, error) {
	a, err := authFrom(auth)
	if err != nil {
		return nil, err
	}
	return []connector.Header{
		connector.MaskedHeader(connector.HeaderAuthorization, connector.BasicAuth(a.username.Expose(), a.password.Expose())),
	}, nil
}

// BuildErrorResponse reads the XML error element; HTML error pages fall back
// to the raw body.
func (w *Worldpayxml) BuildErrorResponse(res *connector.Response, event *connector.EventBuilder) (domain.ErrorResponse, error) {
	body, err := connector.ParseXML[paymentService](res.Body)
	if err != nil {
		return connector.HandleDeserializationError(res, event), nil
	}
	event.SetErrorResponseBody(body)
	e := replyError(body.Reply)
	if e == nil {
		return connector.HandleDeserializationError(res, event), nil
	}
	out := domain.ErrorResponse{
		StatusCode: res.StatusCode,
		Code:       e.Code,
		Message:    e.Message,
		Reason:     e.Message,
	}
	if out.Code == "" {
		out.Code = domain.NoErrorCode
	}
	if out.Message == "" {
		out.Message = domain.NoErrorMessage
	}
	return out, nil
}

func (w *Worldpayxml) Flows() connector.Flows {
	return w.flows
}

func (w *Worldpayxml) NeedsAccessToken(domain.PaymentMethod) bool {
	return false
}

func endpoint[Req, Resp any](w *Worldpayxml) connector.URLFunc[Req, Resp] {
	return func(_ *domain.RouterData[Req, Resp], conns *config.Connectors) (string, error) {
		return w.BaseURL(conns), nil
	}
}

var specifications = connector.StaticSpecifications{
	Info: connector.About{
		DisplayName:       "Worldpay XML",
		Description:       "Worldpay is a payment gateway and PSP enabling secure online transactions.",
		ConnectorType:     "payment_gateway",
		IntegrationStatus: connector.IntegrationSandbox,
	},
	Methods: []connector.SupportedPaymentMethod{
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTCredit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			RefundsSupported:  true,
			CardNetworks:      connector.CardNetworks,
		},
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTDebit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			RefundsSupported:  true,
			CardNetworks:      connector.CardNetworks,
		},
	},
}
