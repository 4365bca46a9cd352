// Package zsl integrates ZSL's hosted local bank transfer page. The payment
// request is signed with MD5; the outcome arrives only through the server to
// server callback.
package zsl

import (
	"errors"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const connectorName = "zsl"

var errMissingStatus = errors.New("response without status")

type Zsl struct {
	connector.StaticSpecifications
	connector.ValidationRules

	amounts amount.StringMinorUnitForConnector
	flows   connector.Flows
}

var _ connector.Connector = (*Zsl)(nil)

func New() *Zsl {
	z := &Zsl{
		StaticSpecifications: specifications,
		ValidationRules:      connector.ValidationRules{Connector: connectorName},
	}

	z.flows = connector.Flows{
		Authorize: &connector.Flow[domain.PaymentsAuthorizeData, domain.PaymentsResponseData]{
			Common: z,
			URLFn: func(_ *domain.PaymentsAuthorizeRouterData, conns *config.Connectors) (string, error) {
				return strings.TrimSuffix(z.BaseURL(conns), "/") + "/ecp", nil
			},
			BodyFn: func(data *domain.PaymentsAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				amt, err := connector.ConvertAmount[amount.StringMinorUnit](z.amounts, data.Request.Amount, data.Request.Currency)
				if err != nil {
					return nil, err
				}
				form, err := authorizeForm(data, auth, amt)
				if err != nil {
					return nil, err
				}
				return connector.FormContent(form), nil
			},
			ResponseFn: handleAuthorizeResponse,
		},
		// ZSL has no status inquiry or refund API; payments settle through the callback.
		PSync: &connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
			Common: z,
			BuildFn: func(*domain.PaymentsSyncRouterData, *config.Connectors) (*connector.Request, error) {
				return nil, connector.NotSupported("psync", connectorName)
			},
		},
		Execute: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: z,
			BuildFn: func(*domain.RefundsRouterData, *config.Connectors) (*connector.Request, error) {
				return nil, connector.NotSupported("refund", connectorName)
			},
		},
	}.WithDefaults()

	return z
}

func (z *Zsl) ID() string {
	return connectorName
}

func (z *Zsl) CurrencyUnit() connector.CurrencyUnit {
	return connector.CurrencyUnitMinor
}

func (z *Zsl) CommonContentType() string {
	return connector.ContentTypeFormURLEncoded
}

func (z *Zsl) BaseURL(conns *config.Connectors) string {
	return conns.Zsl.BaseURL
}

// AuthHeader only narrows the credentials; they travel signed in the body.
func (z *Zsl) AuthHeader(auth domain.ConnectorAuthType) ([]connector.Header, error) {
	if _, err := authFrom(auth); err != nil {
		return nil, err
	}
	return nil, nil
}

func (z *Zsl) BuildErrorResponse(res *connector.Response, event *connector.EventBuilder) (domain.ErrorResponse, error) {
	body, err := parseResponse(res.Body)
	if err != nil {
		return connector.HandleDeserializationError(res, event), nil
	}
	event.SetErrorResponseBody(body)
	code := body.ErrCode
	if code == "" {
		code = body.Status
	}
	msg := body.ErrMsg
	if msg == "" {
		msg = errorMessages[body.Status]
	}
	if msg == "" {
		msg = domain.NoErrorMessage
	}
	return domain.ErrorResponse{StatusCode: res.StatusCode, Code: code, Message: msg, Reason: msg}, nil
}

func (z *Zsl) Flows() connector.Flows {
	return z.flows
}

func (z *Zsl) NeedsAccessToken(domain.PaymentMethod) bool {
	return false
}

var specifications = connector.StaticSpecifications{
	Info: connector.About{
		DisplayName:       "ZSL",
		Description:       "ZSL is a payment gateway for local bank transfers in Southeast Asia.",
		ConnectorType:     "payment_gateway",
		IntegrationStatus: connector.IntegrationLive,
	},
	Methods: []connector.SupportedPaymentMethod{
		{
			PaymentMethod:     domain.PaymentMethodBankTransfer,
			PaymentMethodType: domain.PMTLocalBankTransfer,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic},
		},
	},
	WebhookFlows: []domain.EventClass{domain.EventClassPayments},
}
