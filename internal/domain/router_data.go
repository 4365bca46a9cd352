// Package domain holds the gateway's payment vocabulary: flows, statuses, router data
// passed to connectors, and the refunds and disputes the gateway stores.
package domain

import (
	"encoding/json"
)

// RouterData is the envelope handed to a connector for one flow call. Req is the
// flow-specific request payload and Resp is what the connector folds into Response.
type RouterData[Req, Resp any] struct {
	Flow                        Flow              `json:"flow"`
	Connector                   string            `json:"connector"`
	MerchantID                  string            `json:"merchant_id"`
	CustomerID                  string            `json:"customer_id,omitempty"`
	ConnectorCustomer           string            `json:"connector_customer,omitempty"`
	PaymentID                   string            `json:"payment_id"`
	AttemptID                   string            `json:"attempt_id"`
	ConnectorRequestReferenceID string            `json:"connector_request_reference_id"`
	RefundID                    string            `json:"refund_id,omitempty"`
	Status                      AttemptStatus     `json:"status"`
	PaymentMethod               PaymentMethod     `json:"payment_method,omitempty"`
	Description                 string            `json:"description,omitempty"`
	Address                     Address           `json:"address"`
	ConnectorAuthType           ConnectorAuthType `json:"-"`
	ConnectorMetaData           json.RawMessage   `json:"connector_meta_data,omitempty"`
	AccessToken                 *AccessToken      `json:"-"`
	PaymentMethodToken          string            `json:"payment_method_token,omitempty"`
	// PreprocessingID is the connector-side id a PreProcessing call produced.
	PreprocessingID             string            `json:"preprocessing_id,omitempty"`
	TestMode                    bool              `json:"test_mode"`
	ConnectorHTTPStatusCode     int               `json:"connector_http_status_code,omitempty"`

	Request  Req          `json:"request"`
	Response Result[Resp] `json:"response"`
}

// Clone returns a copy that can be mutated without affecting the receiver.
func (d *RouterData[Req, Resp]) Clone() *RouterData[Req, Resp] {
	out := *d
	if d.ConnectorMetaData != nil {
		out.ConnectorMetaData = append(json.RawMessage(nil), d.ConnectorMetaData...)
	}
	if d.AccessToken != nil {
		token := *d.AccessToken
		out.AccessToken = &token
	}
	return &out
}

// Result is the response slot of RouterData: unset, or exactly one of a value and an error.
type Result[T any] struct {
	value *T
	err   *ErrorResponse
}

func Ok[T any](v T) Result[T] {
	return Result[T]{value: &v}
}

func Fail[T any](e ErrorResponse) Result[T] {
	return Result[T]{err: &e}
}

func (r Result[T]) IsSet() bool {
	return r.value != nil || r.err != nil
}

func (r Result[T]) Value() (T, bool) {
	if r.value == nil {
		var zero T
		return zero, false
	}
	return *r.value, true
}

func (r Result[T]) ErrorResponse() (ErrorResponse, bool) {
	if r.err == nil {
		return ErrorResponse{}, false
	}
	return *r.err, true
}

type resultJSON[T any] struct {
	Ok    *T             `json:"ok,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON[T]{Ok: r.value, Error: r.err})
}

func (r *Result[T]) UnmarshalJSON(b []byte) error {
	var raw resultJSON[T]
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.value, r.err = raw.Ok, raw.Error
	if r.value != nil && r.err != nil {
		r.value = nil
	}
	return nil
}

const (
	NoErrorCode    = "No error code"
	NoErrorMessage = "No error message"
)

// ErrorResponse is a connector failure normalized into one shape.
type ErrorResponse struct {
	StatusCode             int            `json:"status_code"`
	Code                   string         `json:"code"`
	Message                string         `json:"message"`
	Reason                 string         `json:"reason,omitempty"`
	AttemptStatus          *AttemptStatus `json:"attempt_status,omitempty"`
	ConnectorTransactionID string         `json:"connector_transaction_id,omitempty"`
	NetworkDeclineCode     string         `json:"network_decline_code,omitempty"`
	NetworkAdviceCode      string         `json:"network_advice_code,omitempty"`
}

type AccessToken struct {
	Token     Secret `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// AccessTokenKey identifies the token of one merchant at one connector.
type AccessTokenKey struct {
	MerchantID string
	Connector  string
}

type (
	PaymentsAuthorizeRouterData                = RouterData[PaymentsAuthorizeData, PaymentsResponseData]
	PaymentsCaptureRouterData                  = RouterData[PaymentsCaptureData, PaymentsResponseData]
	PaymentsCancelRouterData                   = RouterData[PaymentsCancelData, PaymentsResponseData]
	PaymentsSyncRouterData                     = RouterData[PaymentsSyncData, PaymentsResponseData]
	RefundsRouterData                          = RouterData[RefundsData, RefundsResponseData]
	SetupMandateRouterData                     = RouterData[SetupMandateRequestData, PaymentsResponseData]
	RefreshTokenRouterData                     = RouterData[AccessTokenRequestData, AccessToken]
	PaymentsIncrementalAuthorizationRouterData = RouterData[PaymentsIncrementalAuthorizationData, PaymentsResponseData]
	PaymentsPreProcessingRouterData            = RouterData[PaymentsPreProcessingData, PaymentsResponseData]
	PaymentsCompleteAuthorizeRouterData        = RouterData[CompleteAuthorizeData, PaymentsResponseData]
	TokenizationRouterData                     = RouterData[PaymentMethodTokenizationData, PaymentsResponseData]
	PaymentsSessionRouterData                  = RouterData[PaymentsSessionData, PaymentsResponseData]
)
