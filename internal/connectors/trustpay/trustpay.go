// Package trustpay integrates TrustPay. Cards go through the form-encoded card
// gateway keyed by X-Api-Key; bank redirects go through the JSON payments API
// and need an OAuth access token.
package trustpay

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

const connectorName = "trustpay"

type Trustpay struct {
	connector.StaticSpecifications
	connector.ValidationRules
	connector.WebhookDefaults

	amounts amount.StringMajorUnitForConnector
	flows   connector.Flows
}

var _ connector.Connector = (*Trustpay)(nil)

func New() *Trustpay {
	t := &Trustpay{
		StaticSpecifications: specifications,
		ValidationRules:      connector.ValidationRules{Connector: connectorName},
	}

	t.flows = connector.Flows{
		AccessTokenAuth: &connector.Flow[domain.AccessTokenRequestData, domain.AccessToken]{
			Common:  t,
			Content: connector.ContentTypeFormURLEncoded,
			HeadersFn: func(data *domain.RefreshTokenRouterData, _ *config.Connectors) ([]connector.Header, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				return []connector.Header{
					connector.PlainHeader(connector.HeaderContentType, connector.ContentTypeFormURLEncoded),
					connector.MaskedHeader(connector.HeaderAuthorization, connector.BasicAuth(auth.projectID.Expose(), auth.secret.Expose())),
				}, nil
			},
			URLFn: func(_ *domain.RefreshTokenRouterData, conns *config.Connectors) (string, error) {
				return bankURL(conns, "api/oauth2/token"), nil
			},
			BodyFn: func(*domain.RefreshTokenRouterData, *config.Connectors) (*connector.RequestContent, error) {
				return connector.FormContent(url.Values{"grant_type": {"client_credentials"}}), nil
			},
			ResponseFn: handleTokenResponse,
		},
		Authorize: &connector.Flow[domain.PaymentsAuthorizeData, domain.PaymentsResponseData]{
			Common:    t,
			HeadersFn: headers[domain.PaymentsAuthorizeData, domain.PaymentsResponseData](t),
			URLFn: func(data *domain.PaymentsAuthorizeRouterData, conns *config.Connectors) (string, error) {
				if isBankRedirect(data.PaymentMethod) {
					return bankURL(conns, "api/Payments/Payment"), nil
				}
				return t.cardURL(conns, "api/v1/purchase"), nil
			},
			BodyFn:     t.authorizeBody,
			ResponseFn: handleAuthorizeResponse,
		},
		PSync: &connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
			Common:    t,
			Method:    http.MethodGet,
			HeadersFn: headers[domain.PaymentsSyncData, domain.PaymentsResponseData](t),
			URLFn: func(data *domain.PaymentsSyncRouterData, conns *config.Connectors) (string, error) {
				id, err := data.Request.ConnectorTransactionID.TransactionID()
				if err != nil {
					return "", connector.MissingConnectorTransactionID()
				}
				if isBankRedirect(data.PaymentMethod) {
					return bankURL(conns, "api/Payments/Payment/"+url.PathEscape(id)), nil
				}
				return t.cardURL(conns, "api/v1/instance/"+url.PathEscape(id)), nil
			},
			ResponseFn: handleSyncResponse,
		},
		Execute: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common:    t,
			HeadersFn: headers[domain.RefundsData, domain.RefundsResponseData](t),
			URLFn: func(data *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				id := data.Request.ConnectorTransactionID
				if id == "" {
					return "", connector.MissingConnectorTransactionID()
				}
				if isBankRedirect(data.PaymentMethod) {
					return bankURL(conns, "api/Payments/Payment/"+url.PathEscape(id)+"/Refund"), nil
				}
				return t.cardURL(conns, "api/v1/Refund/"+url.PathEscape(id)), nil
			},
			BodyFn: t.refundBody,
			ResponseFn: func(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
				return refundHandler(data, event, res, isBankRedirect(data.PaymentMethod))
			},
		},
		RSync: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common:    t,
			Method:    http.MethodGet,
			HeadersFn: headers[domain.RefundsData, domain.RefundsResponseData](t),
			URLFn: func(data *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				id := data.Request.ConnectorRefundID
				if id == "" {
					return "", connector.MissingConnectorRefundID()
				}
				if isBankRedirect(data.PaymentMethod) {
					return bankURL(conns, "api/Payments/Payment/"+url.PathEscape(id)), nil
				}
				return t.cardURL(conns, "api/v1/instance/"+url.PathEscape(id)), nil
			},
			ResponseFn: func(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
				return refundHandler(data, event, res, isBankRedirect(data.PaymentMethod))
			},
		},
	}.WithDefaults()

	return t
}

func (t *Trustpay) ID() string {
	return connectorName
}

func (t *Trustpay) CurrencyUnit() connector.CurrencyUnit {
	return connector.CurrencyUnitBase
}

func (t *Trustpay) CommonContentType() string {
	return connector.ContentTypeFormURLEncoded
}

func (t *Trustpay) BaseURL(conns *config.Connectors) string {
	return conns.Trustpay.BaseURL
}

// AuthHeader is the card gateway's API key. Bank redirect calls replace it with
// the bearer token.
func (t *Trustpay) AuthHeader(auth domain.ConnectorAuthType) ([]connector.Header, error) {
	a, err := authFrom(auth)
	if err != nil {
		return nil, err
	}
	return []connector.Header{connector.MaskedHeader(connector.HeaderXAPIKey, a.apiKey)}, nil
}

func (t *Trustpay) BuildErrorResponse(res *connector.Response, event *connector.EventBuilder) (domain.ErrorResponse, error) {
	return connector.BuildJSONErrorResponse(res, event, func(body errorResponse) domain.ErrorResponse {
		if ri := body.ResultInfo; ri != nil {
			return domain.ErrorResponse{
				Code:    strconv.Itoa(ri.ResultCode),
				Message: ri.AdditionalInfo,
				Reason:  ri.AdditionalInfo,
			}
		}
		out := domain.ErrorResponse{Code: strconv.Itoa(body.Status), Message: body.Description}
		if len(body.Errors) > 0 {
			reasons := make([]string, 0, len(body.Errors))
			for _, e := range body.Errors {
				reasons = append(reasons, e.Description)
			}
			out.Reason = strings.Join(reasons, ", ")
		}
		return out
	}), nil
}

func (t *Trustpay) Flows() connector.Flows {
	return t.flows
}

func (t *Trustpay) NeedsAccessToken(pm domain.PaymentMethod) bool {
	return isBankRedirect(pm)
}

func (t *Trustpay) cardURL(conns *config.Connectors, path string) string {
	return strings.TrimSuffix(t.BaseURL(conns), "/") + "/" + path
}

func bankURL(conns *config.Connectors, path string) string {
	return strings.TrimSuffix(conns.Trustpay.BaseURLBankRedirects, "/") + "/" + path
}

// headers picks the header set by payment method: bank redirects use the
// bearer token, cards the API key.
func headers[Req, Resp any](t *Trustpay) connector.HeadersFunc[Req, Resp] {
	return func(data *domain.RouterData[Req, Resp], _ *config.Connectors) ([]connector.Header, error) {
		if _, err := authFrom(data.ConnectorAuthType); err != nil {
			return nil, err
		}
		if isBankRedirect(data.PaymentMethod) {
			return connector.BearerHeaders(connector.ContentTypeJSON, data.AccessToken)
		}
		return connector.BuildHeaders(t, connector.ContentTypeFormURLEncoded, data.ConnectorAuthType)
	}
}

func (t *Trustpay) authorizeBody(data *domain.PaymentsAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	auth, err := authFrom(data.ConnectorAuthType)
	if err != nil {
		return nil, err
	}
	amt, err := connector.ConvertAmount[amount.StringMajorUnit](t.amounts, data.Request.Amount, data.Request.Currency)
	if err != nil {
		return nil, err
	}
	if isBankRedirect(data.PaymentMethod) {
		body, err := bankRedirectBody(data, auth, amt)
		if err != nil {
			return nil, err
		}
		return connector.JSONContent(body), nil
	}
	form, err := cardForm(data, amt)
	if err != nil {
		return nil, err
	}
	return connector.FormContent(form), nil
}

func (t *Trustpay) refundBody(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	amt, err := connector.ConvertAmount[amount.StringMajorUnit](t.amounts, data.Request.RefundAmount, data.Request.Currency)
	if err != nil {
		return nil, err
	}
	if isBankRedirect(data.PaymentMethod) {
		return connector.JSONContent(&bankRefundRequest{
			Amount:     bankAmount{Amount: amt, Currency: data.Request.Currency},
			References: references{MerchantReference: data.Request.RefundID},
		}), nil
	}
	return connector.FormContent(url.Values{
		"amount":    {string(amt)},
		"currency":  {string(data.Request.Currency)},
		"reference": {data.Request.RefundID},
	}), nil
}

var specifications = connector.StaticSpecifications{
	Info: connector.About{
		DisplayName:       "Trustpay",
		Description:       "TrustPay offers cross-border card payments and local bank redirects for European merchants.",
		ConnectorType:     "payment_gateway",
		IntegrationStatus: connector.IntegrationLive,
	},
	Methods: []connector.SupportedPaymentMethod{
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTCredit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic},
			RefundsSupported:  true,
			ThreeDSSupported:  true,
			CardNetworks:      []domain.CardBrand{domain.CardBrandVisa, domain.CardBrandMastercard, domain.CardBrandMaestro},
		},
		{
			PaymentMethod:     domain.PaymentMethodBankRedirect,
			PaymentMethodType: domain.PMTIdeal,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic},
			RefundsSupported:  true,
		},
		{
			PaymentMethod:     domain.PaymentMethodBankRedirect,
			PaymentMethodType: domain.PMTSofort,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic},
			RefundsSupported:  true,
		},
		{
			PaymentMethod:     domain.PaymentMethodBankRedirect,
			PaymentMethodType: domain.PMTEps,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic},
			RefundsSupported:  true,
		},
		{
			PaymentMethod:     domain.PaymentMethodBankRedirect,
			PaymentMethodType: domain.PMTGiropay,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic},
			RefundsSupported:  true,
		},
		{
			PaymentMethod:     domain.PaymentMethodBankRedirect,
			PaymentMethodType: domain.PMTBlik,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic},
			RefundsSupported:  true,
		},
	},
	WebhookFlows: []domain.EventClass{domain.EventClassPayments, domain.EventClassRefunds, domain.EventClassDisputes},
}
