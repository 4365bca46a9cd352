package connector

import (
	"encoding/base64"
	"encoding/json"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// ConvertAmount wraps amount conversion failures as AmountConversionFailed.
func ConvertAmount[T any](c amount.Convertor[T], a domain.MinorUnit, currency domain.Currency) (T, error) {
	v, err := c.Convert(a, currency)
	if err != nil {
		return v, AmountConversionFailed(err)
	}
	return v, nil
}

func ConvertAmountBack[T any](c amount.Convertor[T], a T, currency domain.Currency) (domain.MinorUnit, error) {
	v, err := c.ConvertBack(a, currency)
	if err != nil {
		return 0, AmountConversionFailed(err)
	}
	return v, nil
}

// ParseMerchantMetadata decodes merchant connector account metadata.
func ParseMerchantMetadata[T any](meta json.RawMessage) (T, error) {
	var v T
	if len(meta) == 0 || string(meta) == "null" {
		return v, InvalidConnectorConfig("metadata")
	}
	if err := json.Unmarshal(meta, &v); err != nil {
		return v, &Error{Kind: KindInvalidConnectorConfig, FieldName: "metadata", Err: err}
	}
	return v, nil
}

// ParseConnectorMeta decodes the connector_meta a previous flow stored on the attempt.
func ParseConnectorMeta[T any](meta json.RawMessage) (T, error) {
	var v T
	if len(meta) == 0 || string(meta) == "null" {
		return v, MissingRequiredField("connector_meta")
	}
	if err := json.Unmarshal(meta, &v); err != nil {
		return v, &Error{Kind: KindInvalidDataFormat, FieldName: "connector_meta", Err: err}
	}
	return v, nil
}

// EncodeConnectorMeta is the inverse of ParseConnectorMeta.
func EncodeConnectorMeta(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, ResponseHandlingFailed(err)
	}
	return b, nil
}

// BasicAuth renders an Authorization header value for user:password.
func BasicAuth(user, password string) domain.Secret {
	return domain.Secret("Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password)))
}

// WithPaymentsResponse returns a copy of data carrying status and the given result.
func WithPaymentsResponse[Req any](
	data *domain.RouterData[Req, domain.PaymentsResponseData],
	status domain.AttemptStatus,
	result domain.Result[domain.PaymentsResponseData],
	httpCode int,
) *domain.RouterData[Req, domain.PaymentsResponseData] {
	out := data.Clone()
	out.Status = status
	out.Response = result
	out.ConnectorHTTPStatusCode = httpCode
	return out
}

// WithRefundsResponse returns a copy of data carrying the refund result. The
// attempt status is left alone.
func WithRefundsResponse(
	data *domain.RefundsRouterData,
	result domain.Result[domain.RefundsResponseData],
	httpCode int,
) *domain.RefundsRouterData {
	out := data.Clone()
	out.Response = result
	out.ConnectorHTTPStatusCode = httpCode
	return out
}

// RefundResult is the common refund response shape: failed refunds carry an ErrorResponse.
func RefundResult(connectorRefundID string, status domain.RefundStatus, httpCode int, code, message string) domain.Result[domain.RefundsResponseData] {
	if status == domain.RefundFailure || status == domain.RefundTransactionFailure {
		if code == "" {
			code = domain.NoErrorCode
		}
		if message == "" {
			message = domain.NoErrorMessage
		}
		return domain.Fail[domain.RefundsResponseData](domain.ErrorResponse{
			StatusCode: httpCode,
			Code:       code,
			Message:    message,
			Reason:     message,
		})
	}
	return domain.Ok(domain.RefundsResponseData{ConnectorRefundID: connectorRefundID, RefundStatus: status})
}

// PaymentFailure builds the error result of a payment response whose status is a failure.
func PaymentFailure(httpCode int, code, message, txnID string, status domain.AttemptStatus) domain.Result[domain.PaymentsResponseData] {
	if code == "" {
		code = domain.NoErrorCode
	}
	if message == "" {
		message = domain.NoErrorMessage
	}
	return domain.Fail[domain.PaymentsResponseData](domain.ErrorResponse{
		StatusCode:             httpCode,
		Code:                   code,
		Message:                message,
		Reason:                 message,
		AttemptStatus:          &status,
		ConnectorTransactionID: txnID,
	})
}

// IsPaymentFailure reports statuses whose response slot should hold an error.
func IsPaymentFailure(s domain.AttemptStatus) bool {
	switch s {
	case domain.AttemptFailure, domain.AttemptAuthorizationFailed, domain.AttemptAuthenticationFailed,
		domain.AttemptCaptureFailed, domain.AttemptVoidFailed:
		return true
	default:
		return false
	}
}
