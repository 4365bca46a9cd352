package connector

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"unicode/utf8"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// Response is the raw HTTP answer from a connector.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// EventBuilder collects the parsed connector payloads of one call for audit logging.
// All methods are nil-safe so hooks can be called without an event.
type EventBuilder struct {
	ResponseBody      any
	ErrorResponseBody any
}

func (e *EventBuilder) SetResponseBody(v any) {
	if e != nil {
		e.ResponseBody = v
	}
}

func (e *EventBuilder) SetErrorResponseBody(v any) {
	if e != nil {
		e.ErrorResponseBody = v
	}
}

// ParseJSON decodes a connector body, failing with ResponseDeserializationFailed.
func ParseJSON[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, ResponseDeserializationFailed(err)
	}
	return v, nil
}

func ParseXML[T any](body []byte) (T, error) {
	var v T
	if err := xml.Unmarshal(body, &v); err != nil {
		return v, ResponseDeserializationFailed(err)
	}
	return v, nil
}

// HandleDeserializationError builds the best-effort ErrorResponse used when a
// connector error body cannot be parsed. The HTTP status is always kept.
func HandleDeserializationError(res *Response, event *EventBuilder) domain.ErrorResponse {
	message := "Unsupported response type"
	if len(res.Body) > 0 && utf8.Valid(res.Body) {
		message = string(res.Body)
	}
	event.SetErrorResponseBody(map[string]string{"error": message})
	return domain.ErrorResponse{
		StatusCode: res.StatusCode,
		Code:       domain.NoErrorCode,
		Message:    message,
		Reason:     message,
	}
}

// BuildJSONErrorResponse parses body as T and maps it with build; malformed bodies
// fall back to HandleDeserializationError.
func BuildJSONErrorResponse[T any](res *Response, event *EventBuilder, build func(T) domain.ErrorResponse) domain.ErrorResponse {
	parsed, err := ParseJSON[T](res.Body)
	if err != nil {
		return HandleDeserializationError(res, event)
	}
	event.SetErrorResponseBody(parsed)
	out := build(parsed)
	out.StatusCode = res.StatusCode
	if out.Code == "" {
		out.Code = domain.NoErrorCode
	}
	if out.Message == "" {
		out.Message = domain.NoErrorMessage
	}
	return out
}
