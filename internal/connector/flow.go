package connector

import (
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

type (
	HeadersFunc[Req, Resp any]  func(data *domain.RouterData[Req, Resp], conns *config.Connectors) ([]Header, error)
	URLFunc[Req, Resp any]      func(data *domain.RouterData[Req, Resp], conns *config.Connectors) (string, error)
	BodyFunc[Req, Resp any]     func(data *domain.RouterData[Req, Resp], conns *config.Connectors) (*RequestContent, error)
	BuildFunc[Req, Resp any]    func(data *domain.RouterData[Req, Resp], conns *config.Connectors) (*Request, error)
	ResponseFunc[Req, Resp any] func(data *domain.RouterData[Req, Resp], event *EventBuilder, res *Response) (*domain.RouterData[Req, Resp], error)
	ErrorFunc                   func(res *Response, event *EventBuilder) (domain.ErrorResponse, error)
)

// Flow is an Integration assembled from per-connector functions. Only URLFn and
// ResponseFn are mandatory; the rest fall back to the connector's Common defaults.
type Flow[Req, Resp any] struct {
	Common Common
	// Method defaults to POST.
	Method string
	// Content defaults to Common.CommonContentType.
	Content string

	HeadersFn     HeadersFunc[Req, Resp]
	URLFn         URLFunc[Req, Resp]
	BodyFn        BodyFunc[Req, Resp]
	BuildFn       BuildFunc[Req, Resp]
	ResponseFn    ResponseFunc[Req, Resp]
	ErrorFn       ErrorFunc
	ServerErrorFn ErrorFunc
}

func (f *Flow[Req, Resp]) Headers(data *domain.RouterData[Req, Resp], conns *config.Connectors) ([]Header, error) {
	if f.HeadersFn != nil {
		return f.HeadersFn(data, conns)
	}
	return BuildHeaders(f.Common, f.ContentType(), data.ConnectorAuthType)
}

func (f *Flow[Req, Resp]) ContentType() string {
	if f.Content != "" {
		return f.Content
	}
	return f.Common.CommonContentType()
}

func (f *Flow[Req, Resp]) HTTPMethod() string {
	if f.Method != "" {
		return f.Method
	}
	return http.MethodPost
}

func (f *Flow[Req, Resp]) URL(data *domain.RouterData[Req, Resp], conns *config.Connectors) (string, error) {
	if f.URLFn == nil {
		return "", FailedToObtainIntegrationURL()
	}
	return f.URLFn(data, conns)
}

func (f *Flow[Req, Resp]) RequestBody(data *domain.RouterData[Req, Resp], conns *config.Connectors) (*RequestContent, error) {
	if f.BodyFn == nil {
		return nil, nil
	}
	return f.BodyFn(data, conns)
}

func (f *Flow[Req, Resp]) BuildRequest(data *domain.RouterData[Req, Resp], conns *config.Connectors) (*Request, error) {
	if f.BuildFn != nil {
		return f.BuildFn(data, conns)
	}
	return AssembleRequest[Req, Resp](f, data, conns)
}

func (f *Flow[Req, Resp]) HandleResponse(data *domain.RouterData[Req, Resp], event *EventBuilder, res *Response) (*domain.RouterData[Req, Resp], error) {
	if f.ResponseFn == nil {
		return nil, NotImplemented("response handling")
	}
	return f.ResponseFn(data, event, res)
}

func (f *Flow[Req, Resp]) ErrorResponse(res *Response, event *EventBuilder) (domain.ErrorResponse, error) {
	if f.ErrorFn != nil {
		return f.ErrorFn(res, event)
	}
	return f.Common.BuildErrorResponse(res, event)
}

func (f *Flow[Req, Resp]) ServerErrorResponse(res *Response, event *EventBuilder) (domain.ErrorResponse, error) {
	if f.ServerErrorFn != nil {
		return f.ServerErrorFn(res, event)
	}
	return f.ErrorResponse(res, event)
}

// BuildHeaders is the default header set: Content-Type plus the connector's auth header.
func BuildHeaders(c Common, contentType string, auth domain.ConnectorAuthType) ([]Header, error) {
	authHeaders, err := c.AuthHeader(auth)
	if err != nil {
		return nil, err
	}
	headers := make([]Header, 0, len(authHeaders)+1)
	headers = append(headers, PlainHeader(HeaderContentType, contentType))
	return append(headers, authHeaders...), nil
}

// BearerHeaders is the header set of connectors authenticating with an access token
// obtained through AccessTokenAuth.
func BearerHeaders(contentType string, token *domain.AccessToken) ([]Header, error) {
	if token == nil || token.Token.IsEmpty() {
		return nil, FailedToObtainAuthType()
	}
	return []Header{
		PlainHeader(HeaderContentType, contentType),
		MaskedHeader(HeaderAuthorization, domain.Secret("Bearer "+token.Token.Expose())),
	}, nil
}

// AssembleRequest runs the Headers, URL and RequestBody hooks of i and combines them.
func AssembleRequest[Req, Resp any](i Integration[Req, Resp], data *domain.RouterData[Req, Resp], conns *config.Connectors) (*Request, error) {
	headers, err := i.Headers(data, conns)
	if err != nil {
		return nil, err
	}
	url, err := i.URL(data, conns)
	if err != nil {
		return nil, err
	}
	body, err := i.RequestBody(data, conns)
	if err != nil {
		return nil, err
	}
	return &Request{
		Method:  i.HTTPMethod(),
		URL:     url,
		Headers: headers,
		Body:    body,
	}, nil
}
