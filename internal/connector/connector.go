// Package connector defines the contract every payment connector implements and
// the shared building blocks connectors are assembled from.
//
// A flow call walks the Integration hooks in order: Headers, URL, RequestBody,
// BuildRequest, then HandleResponse for 2xx/3xx answers, ServerErrorResponse for
// 5xx and ErrorResponse for everything else.
package connector

import (
	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// CurrencyUnit tells the caller which amount representation a connector expects.
type CurrencyUnit string

const (
	CurrencyUnitMinor CurrencyUnit = "minor"
	CurrencyUnitBase  CurrencyUnit = "base"
)

// Common is the identity and defaults shared by all flows of a connector.
type Common interface {
	// ID is the stable lowercase connector name, unique in the process.
	ID() string
	CurrencyUnit() CurrencyUnit
	CommonContentType() string
	BaseURL(conns *config.Connectors) string
	// AuthHeader narrows auth to the variant the connector expects and fails
	// with FailedToObtainAuthType on any other variant.
	AuthHeader(auth domain.ConnectorAuthType) ([]Header, error)
	// BuildErrorResponse never loses the HTTP status of res, even when the body is garbage.
	BuildErrorResponse(res *Response, event *EventBuilder) (domain.ErrorResponse, error)
}

// Integration is one HTTP round trip of a flow.
type Integration[Req, Resp any] interface {
	Headers(data *domain.RouterData[Req, Resp], conns *config.Connectors) ([]Header, error)
	ContentType() string
	HTTPMethod() string
	URL(data *domain.RouterData[Req, Resp], conns *config.Connectors) (string, error)
	RequestBody(data *domain.RouterData[Req, Resp], conns *config.Connectors) (*RequestContent, error)
	// BuildRequest returns nil, nil when the flow is a deliberate no-op.
	BuildRequest(data *domain.RouterData[Req, Resp], conns *config.Connectors) (*Request, error)
	// HandleResponse returns a new RouterData with Status and Response filled in.
	HandleResponse(data *domain.RouterData[Req, Resp], event *EventBuilder, res *Response) (*domain.RouterData[Req, Resp], error)
	ErrorResponse(res *Response, event *EventBuilder) (domain.ErrorResponse, error)
	ServerErrorResponse(res *Response, event *EventBuilder) (domain.ErrorResponse, error)
}

// Flows groups the integrations of one connector. Use WithDefaults so unsupported
// flows are Blank rather than nil.
type Flows struct {
	Authorize                Integration[domain.PaymentsAuthorizeData, domain.PaymentsResponseData]
	Capture                  Integration[domain.PaymentsCaptureData, domain.PaymentsResponseData]
	Void                     Integration[domain.PaymentsCancelData, domain.PaymentsResponseData]
	PSync                    Integration[domain.PaymentsSyncData, domain.PaymentsResponseData]
	Execute                  Integration[domain.RefundsData, domain.RefundsResponseData]
	RSync                    Integration[domain.RefundsData, domain.RefundsResponseData]
	SetupMandate             Integration[domain.SetupMandateRequestData, domain.PaymentsResponseData]
	AccessTokenAuth          Integration[domain.AccessTokenRequestData, domain.AccessToken]
	IncrementalAuthorization Integration[domain.PaymentsIncrementalAuthorizationData, domain.PaymentsResponseData]
	PreProcessing            Integration[domain.PaymentsPreProcessingData, domain.PaymentsResponseData]
	CompleteAuthorize        Integration[domain.CompleteAuthorizeData, domain.PaymentsResponseData]
	PaymentMethodToken       Integration[domain.PaymentMethodTokenizationData, domain.PaymentsResponseData]
	Session                  Integration[domain.PaymentsSessionData, domain.PaymentsResponseData]
}

func orDefault[Req, Resp any](i Integration[Req, Resp]) Integration[Req, Resp] {
	if i == nil {
		return Blank[Req, Resp]{}
	}
	return i
}

func (f Flows) WithDefaults() Flows {
	return Flows{
		Authorize:                orDefault(f.Authorize),
		Capture:                  orDefault(f.Capture),
		Void:                     orDefault(f.Void),
		PSync:                    orDefault(f.PSync),
		Execute:                  orDefault(f.Execute),
		RSync:                    orDefault(f.RSync),
		SetupMandate:             orDefault(f.SetupMandate),
		AccessTokenAuth:          orDefault(f.AccessTokenAuth),
		IncrementalAuthorization: orDefault(f.IncrementalAuthorization),
		PreProcessing:            orDefault(f.PreProcessing),
		CompleteAuthorize:        orDefault(f.CompleteAuthorize),
		PaymentMethodToken:       orDefault(f.PaymentMethodToken),
		Session:                  orDefault(f.Session),
	}
}

func implemented(i any) bool {
	if i == nil {
		return false
	}
	_, blank := i.(interface{ notImplemented() })
	return !blank
}

// Supports reports whether the connector has a real integration for flow.
func (f Flows) Supports(flow domain.Flow) bool {
	switch flow {
	case domain.FlowAuthorize:
		return implemented(f.Authorize)
	case domain.FlowCapture:
		return implemented(f.Capture)
	case domain.FlowVoid:
		return implemented(f.Void)
	case domain.FlowPSync:
		return implemented(f.PSync)
	case domain.FlowExecute:
		return implemented(f.Execute)
	case domain.FlowRSync:
		return implemented(f.RSync)
	case domain.FlowSetupMandate:
		return implemented(f.SetupMandate)
	case domain.FlowAccessTokenAuth:
		return implemented(f.AccessTokenAuth)
	case domain.FlowIncrementalAuthorization:
		return implemented(f.IncrementalAuthorization)
	case domain.FlowPreProcessing:
		return implemented(f.PreProcessing)
	case domain.FlowCompleteAuthorize:
		return implemented(f.CompleteAuthorize)
	case domain.FlowPaymentMethodToken:
		return implemented(f.PaymentMethodToken)
	case domain.FlowSession:
		return implemented(f.Session)
	default:
		return false
	}
}

// SupportedFlows lists the flows with a real integration.
func (f Flows) SupportedFlows() []domain.Flow {
	var out []domain.Flow
	for _, flow := range domain.AllFlows() {
		if f.Supports(flow) {
			out = append(out, flow)
		}
	}
	return out
}

// Connector is everything the gateway needs from one payment connector.
type Connector interface {
	Common
	Validation
	Specifications
	IncomingWebhook
	Flows() Flows
	// NeedsAccessToken reports whether payment flows require a bearer token
	// obtained through AccessTokenAuth first.
	NeedsAccessToken(pm domain.PaymentMethod) bool
}
