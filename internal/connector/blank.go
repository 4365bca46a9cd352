package connector

import (
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/config"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// Blank is the integration of a flow a connector does not support. URL fails with
// NotImplemented and BuildRequest is a no-op, so nothing is sent and the RouterData
// comes back untouched.
type Blank[Req, Resp any] struct{}

func (Blank[Req, Resp]) notImplemented() {}

func (Blank[Req, Resp]) Headers(*domain.RouterData[Req, Resp], *config.Connectors) ([]Header, error) {
	return nil, nil
}

func (Blank[Req, Resp]) ContentType() string {
	return ContentTypeJSON
}

func (Blank[Req, Resp]) HTTPMethod() string {
	return http.MethodGet
}

func (Blank[Req, Resp]) URL(*domain.RouterData[Req, Resp], *config.Connectors) (string, error) {
	return "", NotImplemented("url")
}

func (Blank[Req, Resp]) RequestBody(*domain.RouterData[Req, Resp], *config.Connectors) (*RequestContent, error) {
	return nil, nil
}

func (Blank[Req, Resp]) BuildRequest(*domain.RouterData[Req, Resp], *config.Connectors) (*Request, error) {
	return nil, nil
}

func (Blank[Req, Resp]) HandleResponse(data *domain.RouterData[Req, Resp], _ *EventBuilder, _ *Response) (*domain.RouterData[Req, Resp], error) {
	return data.Clone(), nil
}

func (Blank[Req, Resp]) ErrorResponse(res *Response, event *EventBuilder) (domain.ErrorResponse, error) {
	return HandleDeserializationError(res, event), nil
}

func (Blank[Req, Resp]) ServerErrorResponse(res *Response, event *EventBuilder) (domain.ErrorResponse, error) {
	return HandleDeserializationError(res, event), nil
}
