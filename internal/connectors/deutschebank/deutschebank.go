// Package deutschebank integrates Deutsche Bank's merchant REST API. Payment
// calls carry a bearer token obtained through a signed client credentials grant.
package deutschebank

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const connectorName = "deutschebank"

type Deutschebank struct {
	connector.StaticSpecifications
	connector.ValidationRules
	connector.NoWebhooks

	flows connector.Flows
}

var _ connector.Connector = (*Deutschebank)(nil)

func New() *Deutschebank {
	d := &Deutschebank{
		StaticSpecifications: specifications,
		ValidationRules: connector.ValidationRules{
			Connector:             connectorName,
			CaptureMethods:        []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatePaymentMethods: []domain.PaymentMethodType{domain.PMTSepa},
		},
	}

	d.flows = connector.Flows{
		AccessTokenAuth: &connector.Flow[domain.AccessTokenRequestData, domain.AccessToken]{
			Common:  d,
			Content: connector.ContentTypeFormURLEncoded,
			HeadersFn: func(data *domain.RefreshTokenRouterData, _ *config.Connectors) ([]connector.Header, error) {
				if _, err := authFrom(data.ConnectorAuthType); err != nil {
					return nil, err
				}
				return []connector.Header{connector.PlainHeader(connector.HeaderContentType, connector.ContentTypeFormURLEncoded)}, nil
			},
			URLFn: func(_ *domain.RefreshTokenRouterData, conns *config.Connectors) (string, error) {
				return d.endpoint(conns, "/security/v1/token"), nil
			},
			BodyFn: func(data *domain.RefreshTokenRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				return connector.FormContent(tokenForm(auth, data.Request.Nonce, data.Request.Date)), nil
			},
			ResponseFn: handleTokenResponse,
		},
		Authorize: &connector.Flow[domain.PaymentsAuthorizeData, domain.PaymentsResponseData]{
			Common:    d,
			HeadersFn: bearer[domain.PaymentsAuthorizeData, domain.PaymentsResponseData],
			URLFn: func(data *domain.PaymentsAuthorizeRouterData, conns *config.Connectors) (string, error) {
				if data.Request.PaymentMethodData.BankDebit != nil {
					return d.endpoint(conns, "/services/v2.1/managedmandate"), nil
				}
				return d.endpoint(conns, "/services/v2.1/headless3DSecure"), nil
			},
			BodyFn: authorizeBody,
			ResponseFn: func(data *domain.PaymentsAuthorizeRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsAuthorizeRouterData, error) {
				if data.Request.PaymentMethodData.BankDebit != nil {
					return handleMandateResponse(data, event, res)
				}
				return paymentsHandler[domain.PaymentsAuthorizeData](captureAction(data.Request.CaptureMethod))(data, event, res)
			},
		},
		CompleteAuthorize: &connector.Flow[domain.CompleteAuthorizeData, domain.PaymentsResponseData]{
			Common:    d,
			HeadersFn: bearer[domain.CompleteAuthorizeData, domain.PaymentsResponseData],
			URLFn: func(data *domain.PaymentsCompleteAuthorizeRouterData, conns *config.Connectors) (string, error) {
				if data.PaymentMethod == domain.PaymentMethodBankDebit {
					return d.endpoint(conns, "/services/v2.1/payment/directdebit"), nil
				}
				if data.Request.ConnectorTransactionID == "" {
					return "", connector.MissingConnectorTransactionID()
				}
				return d.endpoint(conns, "/services/v2.1/headless3DSecure/"+url.PathEscape(data.Request.ConnectorTransactionID)+"/final"), nil
			},
			BodyFn: completeAuthorizeBody,
			ResponseFn: func(data *domain.PaymentsCompleteAuthorizeRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsCompleteAuthorizeRouterData, error) {
				return paymentsHandler[domain.CompleteAuthorizeData](captureAction(data.Request.CaptureMethod))(data, event, res)
			},
		},
		Capture: &connector.Flow[domain.PaymentsCaptureData, domain.PaymentsResponseData]{
			Common:    d,
			HeadersFn: bearer[domain.PaymentsCaptureData, domain.PaymentsResponseData],
			URLFn: func(data *domain.PaymentsCaptureRouterData, conns *config.Connectors) (string, error) {
				return d.txURL(conns, data.Request.ConnectorTransactionID, "/capture")
			},
			BodyFn: func(data *domain.PaymentsCaptureRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				amt := data.Request.AmountToCapture
				return connector.JSONContent(&changeRequest{ChangedAmount: &amt, Kind: "CAPTURE"}), nil
			},
			ResponseFn: paymentsHandler[domain.PaymentsCaptureData](actionCapture),
		},
		Void: &connector.Flow[domain.PaymentsCancelData, domain.PaymentsResponseData]{
			Common:    d,
			HeadersFn: bearer[domain.PaymentsCancelData, domain.PaymentsResponseData],
			URLFn: func(data *domain.PaymentsCancelRouterData, conns *config.Connectors) (string, error) {
				return d.txURL(conns, data.Request.ConnectorTransactionID, "/cancel")
			},
			BodyFn: func(*domain.PaymentsCancelRouterData, *config.Connectors) (*connector.RequestContent, error) {
				return connector.JSONContent(&changeRequest{Kind: "CANCELATION"}), nil
			},
			ResponseFn: paymentsHandler[domain.PaymentsCancelData](actionCancellation),
		},
		PSync: &connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
			Common:    d,
			Method:    http.MethodGet,
			HeadersFn: bearer[domain.PaymentsSyncData, domain.PaymentsResponseData],
			URLFn: func(data *domain.PaymentsSyncRouterData, conns *config.Connectors) (string, error) {
				id, err := data.Request.ConnectorTransactionID.TransactionID()
				if err != nil {
					return "", connector.MissingConnectorTransactionID()
				}
				return d.txURL(conns, id, "")
			},
			ResponseFn: func(data *domain.PaymentsSyncRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsSyncRouterData, error) {
				return paymentsHandler[domain.PaymentsSyncData](captureAction(data.Request.CaptureMethod))(data, event, res)
			},
		},
		Execute: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common:    d,
			HeadersFn: bearer[domain.RefundsData, domain.RefundsResponseData],
			URLFn: func(data *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				return d.txURL(conns, data.Request.ConnectorTransactionID, "/refund")
			},
			BodyFn: func(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				amt := data.Request.RefundAmount
				return connector.JSONContent(&changeRequest{ChangedAmount: &amt, Kind: "REFUND"}), nil
			},
			ResponseFn: handleRefundResponse,
		},
		RSync: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common:    d,
			Method:    http.MethodGet,
			HeadersFn: bearer[domain.RefundsData, domain.RefundsResponseData],
			URLFn: func(data *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				if data.Request.ConnectorRefundID == "" {
					return "", connector.MissingConnectorRefundID()
				}
				return d.txURL(conns, data.Request.ConnectorRefundID, "")
			},
			ResponseFn: handleRefundResponse,
		},
	}.WithDefaults()

	return d
}

func (d *Deutschebank) ID() string {
	return connectorName
}

func (d *Deutschebank) CurrencyUnit() connector.CurrencyUnit {
	return connector.CurrencyUnitMinor
}

func (d *Deutschebank) CommonContentType() string {
	return connector.ContentTypeJSON
}

func (d *Deutschebank) BaseURL(conns *config.Connectors) string {
	return conns.Deutschebank.BaseURL
}

// AuthHeader only narrows the credentials; the Authorization header is the
// bearer token added per flow.
func (d *Deutschebank) AuthHeader(auth domain.ConnectorAuthType) ([]connector.Header, error) {
	if _, err := authFrom(auth); err != nil {
		return nil, err
	}
	return nil, nil
}

func (d *Deutschebank) BuildErrorResponse(res *connector.Response, event *connector.EventBuilder) (domain.ErrorResponse, error) {
	return connector.BuildJSONErrorResponse(res, event, func(body errorResponse) domain.ErrorResponse {
		if body.Error != "" {
			return domain.ErrorResponse{Code: body.Error, Message: body.ErrorDescription, Reason: body.ErrorDescription}
		}
		return domain.ErrorResponse{Code: body.RC, Message: body.Message, Reason: body.Message}
	}), nil
}

func (d *Deutschebank) Flows() connector.Flows {
	return d.flows
}

func (d *Deutschebank) NeedsAccessToken(domain.PaymentMethod) bool {
	return true
}

func (d *Deutschebank) endpoint(conns *config.Connectors, path string) string {
	return strings.TrimSuffix(d.BaseURL(conns), "/") + path
}

func (d *Deutschebank) txURL(conns *config.Connectors, txID, action string) (string, error) {
	if txID == "" {
		return "", connector.MissingConnectorTransactionID()
	}
	return d.endpoint(conns, "/services/v2.1/payment/tx/"+url.PathEscape(txID)+action), nil
}

func bearer[Req, Resp any](data *domain.RouterData[Req, Resp], _ *config.Connectors) ([]connector.Header, error) {
	if _, err := authFrom(data.ConnectorAuthType); err != nil {
		return nil, err
	}
	return connector.BearerHeaders(connector.ContentTypeJSON, data.AccessToken)
}

func captureAction(cm *domain.CaptureMethod) string {
	if domain.IsAutomatic(cm) {
		return actionAuthorization
	}
	return actionPreauthorization
}

func authorizeBody(data *domain.PaymentsAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	pm := data.Request.PaymentMethodData
	switch {
	case pm.BankDebit != nil && pm.BankDebit.Type == domain.PMTSepa:
		billing := data.Address.Billing
		if billing == nil || billing.FirstName == "" {
			return nil, connector.MissingRequiredField("billing.first_name")
		}
		email := data.Request.Email
		if email == "" {
			email = billing.Email
		}
		return connector.JSONContent(&mandateRequest{
			IBAN:      pm.BankDebit.IBAN.Expose(),
			FirstName: billing.FirstName,
			LastName:  billing.LastName,
			Email:     email,
		}), nil

	case pm.Card != nil:
		if data.Request.CompleteAuthorizeURL == "" {
			return nil, connector.MissingRequiredField("complete_authorize_url")
		}
		automatic, err := connector.AutomaticCapture(data.Request.CaptureMethod)
		if err != nil {
			return nil, err
		}
		action := actionPreauthorization
		if automatic {
			action = actionAuthorization
		}
		return connector.JSONContent(&threeDSRequest{
			MeansOfPayment: meansOfPayment{CreditCard: &creditCard{
				Number:     pm.Card.Number.Expose(),
				ExpiryDate: expiryDate{Month: pm.Card.ExpiryMonth2(), Year: pm.Card.ExpiryYear4()},
				Code:       pm.Card.CVC.Expose(),
				Cardholder: pm.Card.HolderName,
			}},
			Tds20Data: tdsData{
				CommunicationData: communicationData{
					MethodNotificationURL: data.Request.CompleteAuthorizeURL,
					CresNotificationURL:   data.Request.CompleteAuthorizeURL,
				},
				CustomerData: customerData{CardholderEmail: data.Request.Email},
			},
			AmountTotal: amountTotal{Amount: data.Request.Amount, Currency: data.Request.Currency},
			Reference:   data.ConnectorRequestReferenceID,
			TxAction:    action,
		}), nil
	}
	return nil, connector.NotSupported("payment method "+string(pm.MethodType()), connectorName)
}

func completeAuthorizeBody(data *domain.PaymentsCompleteAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	if data.PaymentMethod != domain.PaymentMethodBankDebit {
		var cres string
		if rr := data.Request.RedirectResponse; rr != nil && rr.Params != "" {
			values, err := url.ParseQuery(rr.Params)
			if err != nil {
				return nil, connector.InvalidDataFormat("redirect_response.params")
			}
			cres = values.Get("cres")
		}
		return connector.JSONContent(&finalizeRequest{Cres: cres}), nil
	}

	pm := data.Request.PaymentMethodData
	if pm == nil || pm.BankDebit == nil {
		return nil, connector.MissingRequiredField("payment_method_data.bank_debit")
	}
	meta, err := connector.ParseConnectorMeta[sepaMeta](data.Request.ConnectorMeta)
	if err != nil {
		return nil, err
	}
	holder := pm.BankDebit.BankAccountHolderName
	if holder == "" {
		holder = data.Address.Billing.FullName()
	}
	return connector.JSONContent(&directDebitRequest{
		AmountTotal: amountTotal{Amount: data.Request.Amount, Currency: data.Request.Currency},
		MeansOfPayment: meansOfPayment{BankAccount: &bankAccount{
			AccountHolder: holder,
			IBAN:          pm.BankDebit.IBAN.Expose(),
		}},
		Mandate: mandateReference(meta),
	}), nil
}

var specifications = connector.StaticSpecifications{
	Info: connector.About{
		DisplayName:       "Deutsche Bank",
		Description:       "Deutsche Bank is a German multinational investment bank and financial services company.",
		ConnectorType:     "bank_acquirer",
		IntegrationStatus: connector.IntegrationSandbox,
	},
	Methods: []connector.SupportedPaymentMethod{
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTCredit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			RefundsSupported:  true,
			ThreeDSSupported:  true,
			CardNetworks:      []domain.CardBrand{domain.CardBrandVisa, domain.CardBrandMastercard},
		},
		{
			PaymentMethod:     domain.PaymentMethodBankDebit,
			PaymentMethodType: domain.PMTSepa,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatesSupported: true,
			RefundsSupported:  true,
		},
	},
}
