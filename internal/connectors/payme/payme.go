// Package payme integrates the PayMe sales API. Credentials travel in the JSON
// body; requests carry no auth header.
package payme

import (
	"errors"
	"strconv"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const connectorName = "payme"

var (
	errMissingBuyerKey = errors.New("payme: token response carries no buyer_key")
	errNoSale          = errors.New("payme: get-sales returned no items")
	errNoTransaction   = errors.New("payme: get-transactions returned no items")
)

type Payme struct {
	connector.StaticSpecifications
	connector.ValidationRules
	connector.WebhookDefaults

	amount amount.MinorUnitForConnector
	flows  connector.Flows
}

var _ connector.Connector = (*Payme)(nil)

func New() *Payme {
	p := &Payme{
		StaticSpecifications: specifications,
		ValidationRules: connector.ValidationRules{
			Connector:             connectorName,
			CaptureMethods:        []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatePaymentMethods: []domain.PaymentMethodType{domain.PMTCredit, domain.PMTDebit},
		},
	}

	setupMandate := func(r domain.PaymentsAuthorizeData) bool { return r.IsMandatePayment() }

	p.flows = connector.Flows{
		PaymentMethodToken: &connector.Flow[domain.PaymentMethodTokenizationData, domain.PaymentsResponseData]{
			Common: p,
			URLFn: func(_ *domain.TokenizationRouterData, conns *config.Connectors) (string, error) {
				return p.endpoint(conns, "api/capture-buyer-token"), nil
			},
			BodyFn: func(data *domain.TokenizationRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				c := data.Request.PaymentMethodData.Card
				if c == nil {
					return nil, connector.NotSupported("tokenization of "+string(data.Request.PaymentMethodData.MethodType()), connectorName)
				}
				billing := data.Address.Billing
				return connector.JSONContent(&tokenRequest{
					SellerPaymeID:  auth.sellerID.Expose(),
					PaymeClientKey: auth.clientKey.Expose(),
					BuyerName:      billing.FullName(),
					BuyerEmail:     emailOf(billing),
					cardDetails:    cardFrom(c),
					Language:       language,
				}), nil
			},
			ResponseFn: handleTokenResponse,
		},
		PreProcessing: &connector.Flow[domain.PaymentsPreProcessingData, domain.PaymentsResponseData]{
			Common: p,
			URLFn: func(_ *domain.PaymentsPreProcessingRouterData, conns *config.Connectors) (string, error) {
				return p.endpoint(conns, "api/generate-sale"), nil
			},
			BodyFn: func(data *domain.PaymentsPreProcessingRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				if data.Request.Amount == nil || data.Request.Currency == nil {
					return nil, connector.MissingRequiredFields("amount", "currency")
				}
				amt, err := connector.ConvertAmount[domain.MinorUnit](p.amount, *data.Request.Amount, *data.Request.Currency)
				if err != nil {
					return nil, err
				}
				product := data.Description
				if product == "" {
					product = data.ConnectorRequestReferenceID
				}
				sale, err := saleTypeFor(data.Request.CaptureMethod)
				if err != nil {
					return nil, err
				}
				return connector.JSONContent(&generateSaleRequest{
					SellerPaymeID:     auth.sellerID.Expose(),
					SalePrice:         amt,
					Currency:          *data.Request.Currency,
					ProductName:       product,
					TransactionID:     data.ConnectorRequestReferenceID,
					SaleType:          sale,
					SalePaymentMethod: "credit-card",
					SaleReturnURL:     data.Request.ReturnURL,
					SaleCallbackURL:   data.Request.CompleteAuthorizeURL,
					Language:          language,
				}), nil
			},
			ResponseFn: handleGenerateSaleResponse,
		},
		Authorize: &connector.Flow[domain.PaymentsAuthorizeData, domain.PaymentsResponseData]{
			Common: p,
			URLFn: func(_ *domain.PaymentsAuthorizeRouterData, conns *config.Connectors) (string, error) {
				return p.endpoint(conns, "api/pay-sale"), nil
			},
			BodyFn:     p.paySaleBody,
			ResponseFn: saleHandler(domain.AttemptFailure, setupMandate),
		},
		Capture: &connector.Flow[domain.PaymentsCaptureData, domain.PaymentsResponseData]{
			Common: p,
			URLFn: func(_ *domain.PaymentsCaptureRouterData, conns *config.Connectors) (string, error) {
				return p.endpoint(conns, "api/capture-sale"), nil
			},
			BodyFn: func(data *domain.PaymentsCaptureRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				amt, err := connector.ConvertAmount[domain.MinorUnit](p.amount, data.Request.AmountToCapture, data.Request.Currency)
				if err != nil {
					return nil, err
				}
				return connector.JSONContent(&captureRequest{
					SellerPaymeID: auth.sellerID.Expose(),
					PaymeSaleID:   data.Request.ConnectorTransactionID,
					SalePrice:     amt,
					Language:      language,
				}), nil
			},
			ResponseFn: saleHandler[domain.PaymentsCaptureData](domain.AttemptCaptureFailed, nil),
		},
		Void: &connector.Flow[domain.PaymentsCancelData, domain.PaymentsResponseData]{
			Common: p,
			URLFn: func(_ *domain.PaymentsCancelRouterData, conns *config.Connectors) (string, error) {
				return p.endpoint(conns, "api/void-sale"), nil
			},
			BodyFn: func(data *domain.PaymentsCancelRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				return saleRefBody(data.ConnectorAuthType, data.Request.ConnectorTransactionID)
			},
			ResponseFn: saleHandler[domain.PaymentsCancelData](domain.AttemptVoidFailed, nil),
		},
		PSync: &connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
			Common: p,
			URLFn: func(_ *domain.PaymentsSyncRouterData, conns *config.Connectors) (string, error) {
				return p.endpoint(conns, "api/get-sales"), nil
			},
			BodyFn: func(data *domain.PaymentsSyncRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				id, err := data.Request.ConnectorTransactionID.TransactionID()
				if err != nil {
					return nil, connector.MissingConnectorTransactionID()
				}
				return saleRefBody(data.ConnectorAuthType, id)
			},
			ResponseFn: handleSalesResponse,
		},
		Execute: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: p,
			URLFn: func(_ *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				return p.endpoint(conns, "api/refund-sale"), nil
			},
			BodyFn: func(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				if data.Request.ConnectorTransactionID == "" {
					return nil, connector.MissingConnectorTransactionID()
				}
				amt, err := connector.ConvertAmount[domain.MinorUnit](p.amount, data.Request.RefundAmount, data.Request.Currency)
				if err != nil {
					return nil, err
				}
				return connector.JSONContent(&refundRequest{
					SellerPaymeID:    auth.sellerID.Expose(),
					PaymeSaleID:      data.Request.ConnectorTransactionID,
					SaleRefundAmount: amt,
					Language:         language,
				}), nil
			},
			ResponseFn: handleRefundResponse,
		},
		RSync: &connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: p,
			URLFn: func(_ *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				return p.endpoint(conns, "api/get-transactions"), nil
			},
			BodyFn: func(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				auth, err := authFrom(data.ConnectorAuthType)
				if err != nil {
					return nil, err
				}
				if data.Request.ConnectorRefundID == "" {
					return nil, connector.MissingConnectorRefundID()
				}
				return connector.JSONContent(&transactionQuery{
					SellerPaymeID:      auth.sellerID.Expose(),
					PaymeTransactionID: data.Request.ConnectorRefundID,
				}), nil
			},
			ResponseFn: handleTransactionsResponse,
		},
	}.WithDefaults()

	return p
}

func (p *Payme) ID() string {
	return connectorName
}

func (p *Payme) CurrencyUnit() connector.CurrencyUnit {
	return connector.CurrencyUnitMinor
}

func (p *Payme) CommonContentType() string {
	return connector.ContentTypeJSON
}

func (p *Payme) BaseURL(conns *config.Connectors) string {
	return conns.Payme.BaseURL
}

// AuthHeader sends nothing: the seller id is part of every body.
func (p *Payme) AuthHeader(auth domain.ConnectorAuthType) ([]connector.Header, error) {
	if _, err := authFrom(auth); err != nil {
		return nil, err
	}
	return nil, nil
}

func (p *Payme) BuildErrorResponse(res *connector.Response, event *connector.EventBuilder) (domain.ErrorResponse, error) {
	return connector.BuildJSONErrorResponse(res, event, func(body errorResponse) domain.ErrorResponse {
		out := domain.ErrorResponse{Message: body.StatusErrorDetails, Reason: body.StatusErrorDetails}
		if body.StatusErrorCode != 0 {
			out.Code = strconv.Itoa(body.StatusErrorCode)
		}
		if body.StatusAdditionalInfo != "" {
			out.Reason = body.StatusErrorDetails + ": " + body.StatusAdditionalInfo
		}
		return out
	}), nil
}

func (p *Payme) Flows() connector.Flows {
	return p.flows
}

func (p *Payme) NeedsAccessToken(domain.PaymentMethod) bool {
	return false
}

func (p *Payme) endpoint(conns *config.Connectors, path string) string {
	base := p.BaseURL(conns)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + path
}

func (p *Payme) paySaleBody(data *domain.PaymentsAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	if _, err := authFrom(data.ConnectorAuthType); err != nil {
		return nil, err
	}
	if data.PreprocessingID == "" {
		return nil, connector.MissingRequiredField("preprocessing_id")
	}
	billing := data.Address.Billing
	email := data.Request.Email
	if email == "" {
		email = emailOf(billing)
	}
	req := &paySaleRequest{
		PaymeSaleID: data.PreprocessingID,
		BuyerEmail:  email,
		BuyerName:   billing.FullName(),
		Language:    language,
	}
	switch {
	case data.Request.MandateID != nil && data.Request.MandateID.ConnectorMandateID != "":
		req.BuyerKey = data.Request.MandateID.ConnectorMandateID
	case data.PaymentMethodToken != "":
		req.BuyerKey = data.PaymentMethodToken
	case data.Request.PaymentMethodData.Card != nil:
		c := cardFrom(data.Request.PaymentMethodData.Card)
		req.CreditCardNumber = c.CreditCardNumber
		req.CreditCardExp = c.CreditCardExp
		req.CreditCardCVV = c.CreditCardCVV
	default:
		return nil, connector.NotSupported("payment method "+string(data.Request.PaymentMethodData.MethodType()), connectorName)
	}
	return connector.JSONContent(req), nil
}

func saleRefBody(auth domain.ConnectorAuthType, saleID string) (*connector.RequestContent, error) {
	a, err := authFrom(auth)
	if err != nil {
		return nil, err
	}
	if saleID == "" {
		return nil, connector.MissingConnectorTransactionID()
	}
	return connector.JSONContent(&saleRef{
		SellerPaymeID: a.sellerID.Expose(),
		PaymeSaleID:   saleID,
		Language:      language,
	}), nil
}

func emailOf(a *domain.AddressDetails) string {
	if a == nil {
		return ""
	}
	return a.Email
}

var specifications = connector.StaticSpecifications{
	Info: connector.About{
		DisplayName:       "PayMe",
		Description:       "PayMe is a payment processor that lets merchants accept cards and wallets through a single sales API.",
		ConnectorType:     "payment_gateway",
		IntegrationStatus: connector.IntegrationLive,
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
	WebhookFlows: []domain.EventClass{
		domain.EventClassPayments,
		domain.EventClassRefunds,
		domain.EventClassDisputes,
	},
}
