package connector

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderAccept        = "Accept"
	HeaderXAPIKey       = "X-Api-Key"

	ContentTypeJSON           = "application/json"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeXML            = "text/xml"
)

// Header is one outbound header. Masked values never show up in logs.
type Header struct {
	Name   string
	Value  string
	Masked bool
}

func PlainHeader(name, value string) Header {
	return Header{Name: name, Value: value}
}

func MaskedHeader(name string, value domain.Secret) Header {
	return Header{Name: name, Value: value.Expose(), Masked: true}
}

func (h Header) LogValue() slog.Value {
	if h.Masked {
		return slog.StringValue(h.Name + ": *** masked ***")
	}
	return slog.StringValue(h.Name + ": " + h.Value)
}

type ContentKind int

const (
	ContentJSON ContentKind = iota + 1
	ContentFormURLEncoded
	ContentXML
	ContentRawBytes
)

// RequestContent is a request body together with how it must be encoded.
type RequestContent struct {
	kind  ContentKind
	value any
	form  url.Values
	raw   []byte
}

func JSONContent(v any) *RequestContent {
	return &RequestContent{kind: ContentJSON, value: v}
}

func FormContent(values url.Values) *RequestContent {
	return &RequestContent{kind: ContentFormURLEncoded, form: values}
}

// XMLContent encodes v with encoding/xml after the given preamble (XML declaration, DOCTYPE).
func XMLContent(preamble string, v any) (*RequestContent, error) {
	b, err := xml.Marshal(v)
	if err != nil {
		return nil, RequestEncodingFailed(err)
	}
	return &RequestContent{kind: ContentXML, raw: append([]byte(preamble), b...)}, nil
}

func RawBytesContent(b []byte) *RequestContent {
	return &RequestContent{kind: ContentRawBytes, raw: b}
}

func (c *RequestContent) Kind() ContentKind {
	return c.kind
}

// Bytes renders the body exactly as it goes on the wire.
func (c *RequestContent) Bytes() ([]byte, error) {
	switch c.kind {
	case ContentJSON:
		b, err := json.Marshal(c.value)
		if err != nil {
			return nil, RequestEncodingFailed(err)
		}
		return b, nil
	case ContentFormURLEncoded:
		return []byte(c.form.Encode()), nil
	case ContentXML, ContentRawBytes:
		return c.raw, nil
	default:
		return nil, RequestEncodingFailed(fmt.Errorf("unknown content kind %d", c.kind))
	}
}

// Value returns the typed body for JSON content, for assertions and masking.
func (c *RequestContent) Value() any {
	return c.value
}

// Request is one fully assembled outbound HTTP call.
type Request struct {
	Method  string
	URL     string
	Headers []Header
	Body    *RequestContent
	// PEM client certificate and key for mutual TLS, and an optional CA to trust.
	Certificate    domain.Secret
	CertificateKey domain.Secret
	CACertificate  domain.Secret
}

func (r *Request) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}
