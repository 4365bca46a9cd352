// Package novalnet integrates the Novalnet payment platform (JSON API v2).
package novalnet

import (
	"errors"
	"strconv"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const (
	connectorName   = "novalnet"
	headerAccessKey = "X-NN-Access-Key"
)

var (
	errMissingTransaction = errors.New("novalnet response carries no transaction")
	errMissingRefund      = errors.New("novalnet refund response carries no refund")
)

type Novalnet struct {
	connector.StaticSpecifications
	connector.ValidationRules
	connector.WebhookDefaults

	amount amount.StringMinorUnitForConnector
	flows  connector.Flows
}

var _ connector.Connector = (*Novalnet)(nil)

func New() *Novalnet {
	n := &Novalnet{
		StaticSpecifications: specifications,
		ValidationRules: connector.ValidationRules{
			Connector: connectorName,
			CaptureMethods: []domain.CaptureMethod{
				domain.CaptureAutomatic,
				domain.CaptureManual,
				domain.CaptureSequentialAutomatic,
			},
			MandatePaymentMethods: []domain.PaymentMethodType{
				domain.PMTCredit,
				domain.PMTGooglePay,
				domain.PMTApplePay,
				domain.PMTPaypal,
				domain.PMTSepa,
			},
		},
	}

	n.flows = connector.Flows{
		Authorize: &connector.Flow[domain.PaymentsAuthorizeData, domain.PaymentsResponseData]{
			Common:     n,
			URLFn:      n.authorizeURL,
			BodyFn:     n.authorizeBody,
			ResponseFn: handlePaymentsResponse[domain.PaymentsAuthorizeData],
		},
		Capture: &connector.Flow[domain.PaymentsCaptureData, domain.PaymentsResponseData]{
			Common: n,
			URLFn: func(_ *domain.PaymentsCaptureRouterData, conns *config.Connectors) (string, error) {
				return n.endpoint(conns, "/transaction/capture"), nil
			},
			BodyFn: func(data *domain.PaymentsCaptureRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				return connector.JSONContent(newTransactionRef(data.Request.ConnectorTransactionID)), nil
			},
			ResponseFn: handlePaymentsResponse[domain.PaymentsCaptureData],
		},
		Void: &connector.Flow[domain.PaymentsCancelData, domain.PaymentsResponseData]{
			Common: n,
			URLFn: func(_ *domain.PaymentsCancelRouterData, conns *config.Connectors) (string, error) {
				return n.endpoint(conns, "/transaction/cancel"), nil
			},
			BodyFn: func(data *domain.PaymentsCancelRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				return connector.JSONContent(newTransactionRef(data.Request.ConnectorTransactionID)), nil
			},
			ResponseFn: handlePaymentsResponse[domain.PaymentsCancelData],
		},
		PSync: &connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
			Common: n,
			URLFn: func(_ *domain.PaymentsSyncRouterData, conns *config.Connectors) (string, error) {
				return n.endpoint(conns, "/transaction/details"), nil
			},
			BodyFn: func(data *domain.PaymentsSyncRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				tid, err := data.Request.ConnectorTransactionID.TransactionID()
				if err != nil {
					return nil, connector.MissingConnectorTransactionID()
				}
				return connector.JSONContent(newTransactionRef(tid)), nil
			},
			ResponseFn: handlePaymentsResponse[domain.PaymentsSyncData],
		},
		Execute: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: n,
			URLFn: func(_ *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				return n.endpoint(conns, "/transaction/refund"), nil
			},
			BodyFn:     n.refundBody,
			ResponseFn: handleRefundResponse,
		},
		RSync: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: n,
			URLFn: func(_ *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				return n.endpoint(conns, "/transaction/details"), nil
			},
			BodyFn: func(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				if data.Request.ConnectorRefundID == "" {
					return nil, connector.MissingConnectorRefundID()
				}
				return connector.JSONContent(newTransactionRef(data.Request.ConnectorRefundID)), nil
			},
			ResponseFn: handleRefundResponse,
		},
		SetupMandate: &connector.Flow[domain.SetupMandateRequestData, domain.PaymentsResponseData]{
			Common: n,
			URLFn: func(_ *domain.SetupMandateRouterData, conns *config.Connectors) (string, error) {
				return n.endpoint(conns, "/payment"), nil
			},
			BodyFn:     n.setupMandateBody,
			ResponseFn: handlePaymentsResponse[domain.SetupMandateRequestData],
		},
	}.WithDefaults()

	return n
}

func (n *Novalnet) ID() string {
	return connectorName
}

func (n *Novalnet) CurrencyUnit() connector.CurrencyUnit {
	return connector.CurrencyUnitMinor
}

func (n *Novalnet) CommonContentType() string {
	return connector.ContentTypeJSON
}

func (n *Novalnet) BaseURL(conns *config.Connectors) string {
	return conns.Novalnet.BaseURL
}

func (n *Novalnet) AuthHeader(auth domain.ConnectorAuthType) ([]connector.Header, error) {
	a, err := authFrom(auth)
	if err != nil {
		return nil, err
	}
	return []connector.Header{connector.MaskedHeader(headerAccessKey, a.accessKeyHeader())}, nil
}

func (n *Novalnet) BuildErrorResponse(res *connector.Response, event *connector.EventBuilder) (domain.ErrorResponse, error) {
	return connector.BuildJSONErrorResponse(res, event, func(body errorResponse) domain.ErrorResponse {
		code := ""
		if body.Result.StatusCode != 0 {
			code = strconv.Itoa(body.Result.StatusCode)
		}
		return domain.ErrorResponse{
			Code:    code,
			Message: body.Result.StatusText,
			Reason:  body.Result.StatusText,
		}
	}), nil
}

func (n *Novalnet) Flows() connector.Flows {
	return n.flows
}

func (n *Novalnet) NeedsAccessToken(domain.PaymentMethod) bool {
	return false
}

func (n *Novalnet) endpoint(conns *config.Connectors, path string) string {
	return strings.TrimSuffix(n.BaseURL(conns), "/") + path
}

func (n *Novalnet) authorizeURL(data *domain.PaymentsAuthorizeRouterData, conns *config.Connectors) (string, error) {
	automatic, err := connector.AutomaticCapture(data.Request.CaptureMethod)
	if err != nil {
		return "", err
	}
	if automatic {
		return n.endpoint(conns, "/payment"), nil
	}
	return n.endpoint(conns, "/authorize"), nil
}

func (n *Novalnet) authorizeBody(data *domain.PaymentsAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	auth, err := authFrom(data.ConnectorAuthType)
	if err != nil {
		return nil, err
	}
	amt, err := connector.ConvertAmount[amount.StringMinorUnit](n.amount, data.Request.Amount, data.Request.Currency)
	if err != nil {
		return nil, err
	}
	req, err := buildPaymentsRequest(paymentInput{
		auth:        auth,
		method:      data.Request.PaymentMethodData,
		mandate:     data.Request.MandateID,
		amount:      amt,
		currency:    data.Request.Currency,
		orderNo:     data.ConnectorRequestReferenceID,
		email:       data.Request.Email,
		returnURL:   data.Request.ReturnURL,
		webhookURL:  data.Request.WebhookURL,
		address:     data.Address,
		testMode:    data.TestMode,
		createToken: data.Request.SetupFutureUsage != nil && *data.Request.SetupFutureUsage == domain.FutureUsageOffSession,
	})
	if err != nil {
		return nil, err
	}
	return connector.JSONContent(req), nil
}

func (n *Novalnet) setupMandateBody(data *domain.SetupMandateRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	auth, err := authFrom(data.ConnectorAuthType)
	if err != nil {
		return nil, err
	}
	var minor domain.MinorUnit
	if data.Request.Amount != nil {
		minor = *data.Request.Amount
	}
	amt, err := connector.ConvertAmount[amount.StringMinorUnit](n.amount, minor, data.Request.Currency)
	if err != nil {
		return nil, err
	}
	req, err := buildPaymentsRequest(paymentInput{
		auth:        auth,
		method:      data.Request.PaymentMethodData,
		amount:      amt,
		currency:    data.Request.Currency,
		orderNo:     data.ConnectorRequestReferenceID,
		email:       data.Request.Email,
		returnURL:   data.Request.ReturnURL,
		webhookURL:  data.Request.WebhookURL,
		address:     data.Address,
		testMode:    data.TestMode,
		createToken: true,
	})
	if err != nil {
		return nil, err
	}
	return connector.JSONContent(req), nil
}

func (n *Novalnet) refundBody(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	if data.Request.ConnectorTransactionID == "" {
		return nil, connector.MissingConnectorTransactionID()
	}
	amt, err := connector.ConvertAmount[amount.StringMinorUnit](n.amount, data.Request.RefundAmount, data.Request.Currency)
	if err != nil {
		return nil, err
	}
	return connector.JSONContent(&refundRequest{
		Transaction: refundTransaction{
			TID:    data.Request.ConnectorTransactionID,
			Amount: amt,
			Reason: data.Request.Reason,
		},
		Custom: custom{Lang: defaultLang},
	}), nil
}

var specifications = connector.StaticSpecifications{
	Info: connector.About{
		DisplayName:       "Novalnet",
		Description:       "Novalnet provides tailored, data-driven payment solutions that maximize acceptance, boost conversions, and deliver seamless customer experiences worldwide.",
		ConnectorType:     "payment_gateway",
		IntegrationStatus: connector.IntegrationBeta,
	},
	Methods: []connector.SupportedPaymentMethod{
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTCredit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual, domain.CaptureSequentialAutomatic},
			MandatesSupported: true,
			RefundsSupported:  true,
			ThreeDSSupported:  true,
			CardNetworks:      connector.CardNetworks,
		},
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTDebit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual, domain.CaptureSequentialAutomatic},
			MandatesSupported: true,
			RefundsSupported:  true,
			ThreeDSSupported:  true,
			CardNetworks:      connector.CardNetworks,
		},
		{
			PaymentMethod:     domain.PaymentMethodWallet,
			PaymentMethodType: domain.PMTGooglePay,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatesSupported: true,
			RefundsSupported:  true,
		},
		{
			PaymentMethod:     domain.PaymentMethodWallet,
			PaymentMethodType: domain.PMTApplePay,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatesSupported: true,
			RefundsSupported:  true,
		},
		{
			PaymentMethod:     domain.PaymentMethodWallet,
			PaymentMethodType: domain.PMTPaypal,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatesSupported: true,
			RefundsSupported:  true,
		},
		{
			PaymentMethod:     domain.PaymentMethodBankDebit,
			PaymentMethodType: domain.PMTSepa,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatesSupported: true,
			RefundsSupported:  true,
		},
	},
	WebhookFlows: []domain.EventClass{
		domain.EventClassPayments,
		domain.EventClassRefunds,
		domain.EventClassDisputes,
	},
}
