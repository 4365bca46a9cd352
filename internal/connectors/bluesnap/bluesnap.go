// Package bluesnap integrates the BlueSnap payment API (services/2).
package bluesnap

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const connectorName = "bluesnap"

type Bluesnap struct {
	connector.StaticSpecifications
	connector.ValidationRules
	connector.WebhookDefaults

	amount amount.StringMajorUnitForConnector
	flows  connector.Flows
}

var _ connector.Connector = (*Bluesnap)(nil)

func New() *Bluesnap {
	b := &Bluesnap{
		StaticSpecifications: specifications,
		ValidationRules: connector.ValidationRules{
			Connector:      connectorName,
			CaptureMethods: []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
		},
	}

	b.flows = connector.Flows{
		Authorize: &connector.Flow[domain.PaymentsAuthorizeData, domain.PaymentsResponseData]{
			Common: b,
			URLFn: func(_ *domain.PaymentsAuthorizeRouterData, conns *config.Connectors) (string, error) {
				return b.endpoint(conns, "services/2/transactions"), nil
			},
			BodyFn: func(data *domain.PaymentsAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				amt, err := connector.ConvertAmount[amount.StringMajorUnit](b.amount, data.Request.Amount, data.Request.Currency)
				if err != nil {
					return nil, err
				}
				req, err := buildPaymentsRequest(data, amt)
				if err != nil {
					return nil, err
				}
				return connector.JSONContent(req), nil
			},
			ResponseFn: handlePaymentsResponse[domain.PaymentsAuthorizeData],
		},
		Capture: &connector.Flow[domain.PaymentsCaptureData, domain.PaymentsResponseData]{
			Common: b,
			Method: http.MethodPut,
			URLFn: func(_ *domain.PaymentsCaptureRouterData, conns *config.Connectors) (string, error) {
				return b.endpoint(conns, "services/2/transactions"), nil
			},
			BodyFn: func(data *domain.PaymentsCaptureRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				amt, err := connector.ConvertAmount[amount.StringMajorUnit](b.amount, data.Request.AmountToCapture, data.Request.Currency)
				if err != nil {
					return nil, err
				}
				return connector.JSONContent(&captureRequest{
					CardTransactionType: txnCapture,
					TransactionID:       data.Request.ConnectorTransactionID,
					Amount:              &amt,
				}), nil
			},
			ResponseFn: handlePaymentsResponse[domain.PaymentsCaptureData],
		},
		Void: &connector.Flow[domain.PaymentsCancelData, domain.PaymentsResponseData]{
			Common: b,
			Method: http.MethodPut,
			URLFn: func(_ *domain.PaymentsCancelRouterData, conns *config.Connectors) (string, error) {
				return b.endpoint(conns, "services/2/transactions"), nil
			},
			BodyFn: func(data *domain.PaymentsCancelRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				return connector.JSONContent(&captureRequest{
					CardTransactionType: txnAuthReversal,
					TransactionID:       data.Request.ConnectorTransactionID,
				}), nil
			},
			ResponseFn: handlePaymentsResponse[domain.PaymentsCancelData],
		},
		PSync: &connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
			Common:     b,
			Method:     http.MethodGet,
			URLFn:      b.syncURL,
			ResponseFn: handlePaymentsResponse[domain.PaymentsSyncData],
		},
		Execute: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: b,
			URLFn: func(data *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				if data.Request.ConnectorTransactionID == "" {
					return "", connector.MissingConnectorTransactionID()
				}
				return b.endpoint(conns, "services/2/transactions/refund/"+url.PathEscape(data.Request.ConnectorTransactionID)), nil
			},
			BodyFn: func(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				amt, err := connector.ConvertAmount[amount.StringMajorUnit](b.amount, data.Request.RefundAmount, data.Request.Currency)
				if err != nil {
					return nil, err
				}
				return connector.JSONContent(&refundRequest{Amount: amt, Reason: data.Request.Reason}), nil
			},
			ResponseFn: handleRefundResponse,
		},
		RSync: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: b,
			Method: http.MethodGet,
			URLFn: func(data *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				if data.Request.ConnectorRefundID == "" {
					return "", connector.MissingConnectorRefundID()
				}
				return b.endpoint(conns, "services/2/transactions/"+url.PathEscape(data.Request.ConnectorRefundID)), nil
			},
			ResponseFn: handleRefundSyncResponse,
		},
	}.WithDefaults()

	return b
}

func (b *Bluesnap) ID() string {
	return connectorName
}

func (b *Bluesnap) CurrencyUnit() connector.CurrencyUnit {
	return connector.CurrencyUnitBase
}

func (b *Bluesnap) CommonContentType() string {
	return connector.ContentTypeJSON
}

func (b *Bluesnap) BaseURL(conns *config.Connectors) string {
	return conns.Bluesnap.BaseURL
}

func (b *Bluesnap) AuthHeader(auth domain.ConnectorAuthType) ([]connector.Header, error) {
	a, err := authFrom(auth)
	if err != nil {
		return nil, err
	}
	return []connector.Header{
		connector.MaskedHeader(connector.HeaderAuthorization, connector.BasicAuth(a.username.Expose(), a.password.Expose())),
	}, nil
}

func (b *Bluesnap) BuildErrorResponse(res *connector.Response, event *connector.EventBuilder) (domain.ErrorResponse, error) {
	return connector.BuildJSONErrorResponse(res, event, func(body errorResponse) domain.ErrorResponse {
		if len(body.Message) == 0 {
			return domain.ErrorResponse{}
		}
		codes := make([]string, 0, len(body.Message))
		descriptions := make([]string, 0, len(body.Message))
		for _, m := range body.Message {
			codes = append(codes, m.Code)
			descriptions = append(descriptions, m.Description)
		}
		return domain.ErrorResponse{
			Code:    strings.Join(codes, ", "),
			Message: body.Message[0].ErrorName,
			Reason:  strings.Join(descriptions, " "),
		}
	}), nil
}

func (b *Bluesnap) Flows() connector.Flows {
	return b.flows
}

func (b *Bluesnap) NeedsAccessToken(domain.PaymentMethod) bool {
	return false
}

// ValidatePsyncReferenceID accepts a missing transaction id: the payment is then
// looked up by merchant transaction id.
func (b *Bluesnap) ValidatePsyncReferenceID(domain.PaymentsSyncData) error {
	return nil
}

func (b *Bluesnap) endpoint(conns *config.Connectors, path string) string {
	base := b.BaseURL(conns)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + path
}

func (b *Bluesnap) syncURL(data *domain.PaymentsSyncRouterData, conns *config.Connectors) (string, error) {
	if id, err := data.Request.ConnectorTransactionID.TransactionID(); err == nil {
		return b.endpoint(conns, "services/2/transactions/"+url.PathEscape(id)), nil
	}
	if data.ConnectorRequestReferenceID == "" {
		return "", connector.MissingConnectorTransactionID()
	}
	q := url.Values{"merchantTransactionId": {data.ConnectorRequestReferenceID}}
	return b.endpoint(conns, "services/2/transactions?"+q.Encode()), nil
}

func handleRefundResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	body, err := connector.ParseJSON[refundResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	return connector.WithRefundsResponse(data,
		connector.RefundResult(strconv.FormatInt(body.RefundTransactionID, 10), refundStatus(body.RefundStatus), res.StatusCode, "", body.RefundStatus),
		res.StatusCode), nil
}

func handleRefundSyncResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	body, err := connector.ParseJSON[transactionResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	id := body.TransactionID
	if id == "" {
		id = data.Request.ConnectorRefundID
	}
	status := body.ProcessingInfo.ProcessingStatus
	return connector.WithRefundsResponse(data,
		connector.RefundResult(id, refundStatus(status), res.StatusCode, "", status),
		res.StatusCode), nil
}

var specifications = connector.StaticSpecifications{
	Info: connector.About{
		DisplayName:       "BlueSnap",
		Description:       "BlueSnap is a payment platform that helps businesses accept payments from customers in over 200 regions.",
		ConnectorType:     "payment_gateway",
		IntegrationStatus: connector.IntegrationLive,
	},
	Methods: []connector.SupportedPaymentMethod{
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTCredit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			RefundsSupported:  true,
			ThreeDSSupported:  true,
			CardNetworks:      connector.CardNetworks,
		},
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTDebit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			RefundsSupported:  true,
			ThreeDSSupported:  true,
			CardNetworks:      connector.CardNetworks,
		},
		{
			PaymentMethod:     domain.PaymentMethodWallet,
			PaymentMethodType: domain.PMTGooglePay,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			RefundsSupported:  true,
		},
		{
			PaymentMethod:     domain.PaymentMethodWallet,
			PaymentMethodType: domain.PMTApplePay,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			RefundsSupported:  true,
		},
	},
	WebhookFlows: []domain.EventClass{
		domain.EventClassPayments,
		domain.EventClassRefunds,
		domain.EventClassDisputes,
	},
}
