// Package archipel integrates the Archipel acquiring platform. Every call is made
// over mutual TLS with the merchant's client certificate.
package archipel

import (
	"net/http"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const connectorName = "archipel"

type Archipel struct {
	connector.StaticSpecifications
	connector.ValidationRules
	connector.NoWebhooks

	flows connector.Flows
}

var _ connector.Connector = (*Archipel)(nil)

func New() *Archipel {
	a := &Archipel{
		StaticSpecifications: specifications,
		ValidationRules: connector.ValidationRules{
			Connector:             connectorName,
			CaptureMethods:        []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatePaymentMethods: []domain.PaymentMethodType{domain.PMTCredit, domain.PMTDebit},
			MetadataSchema:        connector.MustMetadataSchema(metadataSchema),
		},
	}

	a.flows = connector.Flows{
		Authorize: withMTLS(&connector.Flow[domain.PaymentsAuthorizeData, domain.PaymentsResponseData]{
			Common: a,
			URLFn: func(data *domain.PaymentsAuthorizeRouterData, conns *config.Connectors) (string, error) {
				automatic, err := connector.AutomaticCapture(data.Request.CaptureMethod)
				if err != nil {
					return "", err
				}
				if automatic {
					return a.endpoint(data.ConnectorMetaData, conns, "/payment")
				}
				return a.endpoint(data.ConnectorMetaData, conns, "/authorize")
			},
			BodyFn: authorizeBody,
			ResponseFn: func(data *domain.PaymentsAuthorizeRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsAuthorizeRouterData, error) {
				txnType := typeSale
				if !domain.IsAutomatic(data.Request.CaptureMethod) {
					txnType = typeAuthorization
				}
				return paymentsHandler[domain.PaymentsAuthorizeData](txnType)(data, event, res)
			},
		}),
		Capture: withMTLS(&connector.Flow[domain.PaymentsCaptureData, domain.PaymentsResponseData]{
			Common: a,
			URLFn: func(data *domain.PaymentsCaptureRouterData, conns *config.Connectors) (string, error) {
				if data.Request.ConnectorTransactionID == "" {
					return "", connector.MissingConnectorTransactionID()
				}
				return a.endpoint(data.ConnectorMetaData, conns, "/capture/"+data.Request.ConnectorTransactionID)
			},
			BodyFn: func(data *domain.PaymentsCaptureRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				return connector.JSONContent(&captureRequest{Order: order{
					Amount:   data.Request.AmountToCapture,
					Currency: data.Request.Currency,
				}}), nil
			},
			ResponseFn: paymentsHandler[domain.PaymentsCaptureData](typeCapture),
		}),
		Void: withMTLS(&connector.Flow[domain.PaymentsCancelData, domain.PaymentsResponseData]{
			Common: a,
			URLFn: func(data *domain.PaymentsCancelRouterData, conns *config.Connectors) (string, error) {
				if data.Request.ConnectorTransactionID == "" {
					return "", connector.MissingConnectorTransactionID()
				}
				return a.endpoint(data.ConnectorMetaData, conns, "/cancel/"+data.Request.ConnectorTransactionID)
			},
			ResponseFn: paymentsHandler[domain.PaymentsCancelData](typeCancel),
		}),
		PSync: withMTLS(&connector.Flow[domain.PaymentsSyncData, domain.PaymentsResponseData]{
			Common: a,
			Method: http.MethodGet,
			URLFn: func(data *domain.PaymentsSyncRouterData, conns *config.Connectors) (string, error) {
				id, err := data.Request.ConnectorTransactionID.TransactionID()
				if err != nil {
					return "", connector.MissingConnectorTransactionID()
				}
				return a.endpoint(data.ConnectorMetaData, conns, "/transactions/"+id)
			},
			ResponseFn: func(data *domain.PaymentsSyncRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsSyncRouterData, error) {
				txnType := typeSale
				if !domain.IsAutomatic(data.Request.CaptureMethod) {
					txnType = typeAuthorization
				}
				return paymentsHandler[domain.PaymentsSyncData](txnType)(data, event, res)
			},
		}),
		Execute: withMTLS(&connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: a,
			URLFn: func(data *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				if data.Request.ConnectorTransactionID == "" {
					return "", connector.MissingConnectorTransactionID()
				}
				return a.endpoint(data.ConnectorMetaData, conns, "/refund/"+data.Request.ConnectorTransactionID)
			},
			BodyFn: func(data *domain.RefundsRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				return connector.JSONContent(&refundRequest{
					Order:       order{Amount: data.Request.RefundAmount, Currency: data.Request.Currency},
					MerchantRef: data.Request.RefundID,
				}), nil
			},
			ResponseFn: handleRefundResponse,
		}),
		RSync: withMTLS(&connector.Flow[domain.RefundsData, domain.RefundsResponseData]{
			Common: a,
			Method: http.MethodGet,
			URLFn: func(data *domain.RefundsRouterData, conns *config.Connectors) (string, error) {
				if data.Request.ConnectorRefundID == "" {
					return "", connector.MissingConnectorRefundID()
				}
				return a.endpoint(data.ConnectorMetaData, conns, "/transactions/"+data.Request.ConnectorRefundID)
			},
			ResponseFn: handleRefundResponse,
		}),
		IncrementalAuthorization: withMTLS(&connector.Flow[domain.PaymentsIncrementalAuthorizationData, domain.PaymentsResponseData]{
			Common: a,
			URLFn: func(data *domain.PaymentsIncrementalAuthorizationRouterData, conns *config.Connectors) (string, error) {
				if data.Request.ConnectorTransactionID == "" {
					return "", connector.MissingConnectorTransactionID()
				}
				return a.endpoint(data.ConnectorMetaData, conns, "/incrementAuthorization/"+data.Request.ConnectorTransactionID)
			},
			BodyFn: func(data *domain.PaymentsIncrementalAuthorizationRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
				return connector.JSONContent(&incrementRequest{Order: order{
					Amount:   data.Request.TotalAmount,
					Currency: data.Request.Currency,
				}}), nil
			},
			ResponseFn: handleIncrementResponse,
		}),
		SetupMandate: withMTLS(&connector.Flow[domain.SetupMandateRequestData, domain.PaymentsResponseData]{
			Common: a,
			URLFn: func(data *domain.SetupMandateRouterData, conns *config.Connectors) (string, error) {
				return a.endpoint(data.ConnectorMetaData, conns, "/verify")
			},
			BodyFn:     setupMandateBody,
			ResponseFn: paymentsHandler[domain.SetupMandateRequestData](typeVerification),
		}),
	}.WithDefaults()

	return a
}

func (a *Archipel) ID() string {
	return connectorName
}

func (a *Archipel) CurrencyUnit() connector.CurrencyUnit {
	return connector.CurrencyUnitMinor
}

func (a *Archipel) CommonContentType() string {
	return connector.ContentTypeJSON
}

func (a *Archipel) BaseURL(conns *config.Connectors) string {
	return conns.Archipel.BaseURL
}

// AuthHeader adds nothing: Archipel authenticates the TLS client certificate.
func (a *Archipel) AuthHeader(auth domain.ConnectorAuthType) ([]connector.Header, error) {
	if _, err := authFrom(auth); err != nil {
		return nil, err
	}
	return nil, nil
}

func (a *Archipel) BuildErrorResponse(res *connector.Response, event *connector.EventBuilder) (domain.ErrorResponse, error) {
	return connector.BuildJSONErrorResponse(res, event, func(body errorResponse) domain.ErrorResponse {
		return domain.ErrorResponse{
			Code:    body.Code,
			Message: body.Description,
			Reason:  body.Description,
		}
	}), nil
}

func (a *Archipel) Flows() connector.Flows {
	return a.flows
}

func (a *Archipel) NeedsAccessToken(domain.PaymentMethod) bool {
	return false
}

// endpoint resolves path under the merchant's tenant. A platform_url in the
// metadata replaces the configured base URL.
func (a *Archipel) endpoint(raw []byte, conns *config.Connectors, path string) (string, error) {
	meta, err := metadataFrom(raw)
	if err != nil {
		return "", err
	}
	base := a.BaseURL(conns)
	if meta.PlatformURL != "" {
		base = meta.PlatformURL
	}
	return strings.TrimSuffix(base, "/") + "/" + meta.TenantID + path, nil
}

// withMTLS makes f attach the merchant's client certificate, and the CA from the
// metadata when present, to every request it builds.
func withMTLS[Req, Resp any](f *connector.Flow[Req, Resp]) *connector.Flow[Req, Resp] {
	f.BuildFn = func(data *domain.RouterData[Req, Resp], conns *config.Connectors) (*connector.Request, error) {
		auth, err := authFrom(data.ConnectorAuthType)
		if err != nil {
			return nil, err
		}
		req, err := connector.AssembleRequest[Req, Resp](f, data, conns)
		if err != nil {
			return nil, err
		}
		meta, err := metadataFrom(data.ConnectorMetaData)
		if err != nil {
			return nil, err
		}
		req.Certificate = auth.certificate
		req.CertificateKey = auth.privateKey
		req.CACertificate = domain.Secret(meta.CACertificate)
		return req, nil
	}
	return f
}

func authorizeBody(data *domain.PaymentsAuthorizeRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	c, err := cardFrom(data.Request.PaymentMethodData)
	if err != nil {
		return nil, err
	}
	req := &paymentRequest{
		Order: order{
			Amount:    data.Request.Amount,
			Currency:  data.Request.Currency,
			Certainty: "final",
			Initiator: "CIT",
		},
		Card:        c,
		MerchantRef: data.ConnectorRequestReferenceID,
	}
	automatic, err := connector.AutomaticCapture(data.Request.CaptureMethod)
	if err != nil {
		return nil, err
	}
	if !automatic {
		req.Order.Certainty = "estimated"
	}
	if name := data.Request.CustomerName; name != "" || data.Request.Email != "" {
		req.Cardholder = &cardholder{Name: name, Email: data.Request.Email}
	}

	switch {
	case data.Request.MandateID != nil && data.Request.MandateID.ConnectorMandateID != "":
		req.Order.Initiator = "MIT"
		req.StoredCredential = &storedCredential{
			Mode:        "SUBSEQUENT",
			ReasonCode:  "RECURRING",
			SchemeTxnID: data.Request.MandateID.ConnectorMandateID,
		}
	case data.Request.SetupFutureUsage != nil && *data.Request.SetupFutureUsage == domain.FutureUsageOffSession:
		req.StoredCredential = &storedCredential{Mode: "INITIAL", ReasonCode: "RECURRING"}
	}
	return connector.JSONContent(req), nil
}

func setupMandateBody(data *domain.SetupMandateRouterData, _ *config.Connectors) (*connector.RequestContent, error) {
	c, err := cardFrom(data.Request.PaymentMethodData)
	if err != nil {
		return nil, err
	}
	return connector.JSONContent(&paymentRequest{
		Order: order{
			Amount:    0,
			Currency:  data.Request.Currency,
			Initiator: "CIT",
		},
		Card:             c,
		StoredCredential: &storedCredential{Mode: "INITIAL", ReasonCode: "RECURRING"},
		MerchantRef:      data.ConnectorRequestReferenceID,
	}), nil
}

var specifications = connector.StaticSpecifications{
	Info: connector.About{
		DisplayName:       "Archipel",
		Description:       "Full-service processor offering secure payment solutions and innovative banking technologies for businesses of all sizes.",
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
			ThreeDSSupported:  false,
			CardNetworks:      []domain.CardBrand{domain.CardBrandVisa, domain.CardBrandMastercard, domain.CardBrandAmex},
		},
		{
			PaymentMethod:     domain.PaymentMethodCard,
			PaymentMethodType: domain.PMTDebit,
			CaptureMethods:    []domain.CaptureMethod{domain.CaptureAutomatic, domain.CaptureManual},
			MandatesSupported: true,
			RefundsSupported:  true,
			ThreeDSSupported:  false,
			CardNetworks:      []domain.CardBrand{domain.CardBrandVisa, domain.CardBrandMastercard, domain.CardBrandAmex},
		},
	},
}
