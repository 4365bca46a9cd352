// Package apierrors is the external error catalogue. Every failure surfaced to an
// API caller is one of these values, folded from internal errors by FromError.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	TypeInvalidRequest     ErrorType = "invalid_request"
	TypeObjectNotFound     ErrorType = "object_not_found"
	TypeDuplicateRequest   ErrorType = "duplicate_request"
	TypeValidationError    ErrorType = "validation_error"
	TypeProcessingError    ErrorType = "processing_error"
	TypeConnectorError     ErrorType = "connector_error"
	TypeServerNotAvailable ErrorType = "server_not_available"
	TypeAPI                ErrorType = "api"
	TypeWebhook            ErrorType = "webhook_error"
)

// APIError is one catalogue entry with its arguments filled in.
type APIError struct {
	Type       ErrorType
	Code       string
	Message    string
	Reason     string
	HTTPStatus int
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches on Code and HTTP status; several variants share a code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code && (t.HTTPStatus == 0 || t.HTTPStatus == e.HTTPStatus)
}

func (e *APIError) withErr(err error) *APIError {
	e.Err = err
	return e
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

func newError(t ErrorType, code string, status int, message string) *APIError {
	return &APIError{Type: t, Code: code, Message: message, HTTPStatus: status}
}

// Code sentinels for errors.Is.
var (
	ErrInternalServerError           = &APIError{Code: "HE_00"}
	ErrDuplicate                     = &APIError{Code: "HE_01"}
	ErrNotFound                      = &APIError{Code: "HE_02"}
	ErrRefundNotPossible             = &APIError{Code: "HE_03"}
	ErrGatewayTimeout                = &APIError{Code: "HE_04"}
	ErrNotImplemented                = &APIError{Code: "IR_00"}
	ErrMissingRequiredField          = &APIError{Code: "IR_04"}
	ErrInvalidRequestData            = &APIError{Code: "IR_06"}
	ErrRefundAmountExceeded          = &APIError{Code: "IR_13"}
	ErrPreconditionFailed            = &APIError{Code: "IR_16"}
	ErrNotSupported                  = &APIError{Code: "IR_19"}
	ErrFlowNotSupported              = &APIError{Code: "IR_20"}
	ErrInvalidConnectorConfiguration = &APIError{Code: "IR_23"}
	ErrExternalConnectorError        = &APIError{Code: "CE_00"}
	ErrPaymentAuthorizationFailed    = &APIError{Code: "CE_01"}
	ErrPaymentCaptureFailed          = &APIError{Code: "CE_03"}
	ErrRefundFailed                  = &APIError{Code: "CE_06"}
	ErrWebhookAuthenticationFailed   = &APIError{Code: "WE_01"}
	ErrWebhookBadRequest             = &APIError{Code: "WE_02"}
	ErrWebhookProcessingFailure      = &APIError{Code: "WE_03"}
	ErrWebhookResourceNotFound       = &APIError{Code: "WE_04"}
	ErrWebhookUnprocessableEntity    = &APIError{Code: "WE_05"}
	ErrWebhookInvalidMerchantSecret  = &APIError{Code: "WE_06"}
)

// ============================================================================
// HE: generic gateway errors
// ============================================================================

func InternalServerError() *APIError {
	return newError(TypeAPI, "HE_00", http.StatusInternalServerError, "Something went wrong")
}

func DuplicateRefundRequest() *APIError {
	return newError(TypeDuplicateRequest, "HE_01", http.StatusBadRequest,
		"Duplicate refund request. Refund already attempted with the refund ID")
}

func DuplicateMerchantConnectorAccount(connector string) *APIError {
	return newError(TypeDuplicateRequest, "HE_01", http.StatusBadRequest,
		fmt.Sprintf("The merchant connector account for %s already exists", connector))
}

func RefundNotFound() *APIError {
	return newError(TypeObjectNotFound, "HE_02", http.StatusNotFound, "Refund does not exist in our records.")
}

func DisputeNotFound(disputeID string) *APIError {
	return newError(TypeObjectNotFound, "HE_02", http.StatusNotFound,
		fmt.Sprintf("Dispute does not exist in our records: %s", disputeID))
}

func MerchantConnectorAccountNotFound(id string) *APIError {
	return newError(TypeObjectNotFound, "HE_02", http.StatusNotFound,
		fmt.Sprintf("Merchant connector account does not exist in our records: %s", id))
}

func ConnectorNotFound(connector string) *APIError {
	return newError(TypeObjectNotFound, "HE_02", http.StatusNotFound,
		fmt.Sprintf("Connector does not exist in our records: %s", connector))
}

func RefundNotPossible(connector string) *APIError {
	return newError(TypeInvalidRequest, "HE_03", http.StatusBadRequest,
		fmt.Sprintf("This refund is not possible through %s", connector))
}

func GatewayTimeout() *APIError {
	return newError(TypeServerNotAvailable, "HE_04", http.StatusGatewayTimeout,
		"Connector did not respond in specified time")
}

// ============================================================================
// IR: invalid request
// ============================================================================

func NotImplemented(message string) *APIError {
	if message == "" {
		message = "This API is under development and will be made available soon."
	}
	return newError(TypeInvalidRequest, "IR_00", http.StatusNotImplemented, message)
}

func Unauthorized() *APIError {
	return newError(TypeInvalidRequest, "IR_01", http.StatusUnauthorized,
		"API key not provided or invalid API key used")
}

func InvalidRequestURL() *APIError {
	return newError(TypeInvalidRequest, "IR_02", http.StatusNotFound, "Unrecognized request URL")
}

func InvalidHTTPMethod() *APIError {
	return newError(TypeInvalidRequest, "IR_03", http.StatusMethodNotAllowed,
		"The HTTP method is not applicable for this API")
}

func MissingRequiredField(field string) *APIError {
	return newError(TypeInvalidRequest, "IR_04", http.StatusBadRequest,
		fmt.Sprintf("Missing required param: %s", field))
}

func InvalidDataFormat(field, expected string) *APIError {
	return newError(TypeInvalidRequest, "IR_05", http.StatusUnprocessableEntity,
		fmt.Sprintf("%s contains invalid data. Expected format is %s", field, expected))
}

func InvalidRequestData(message string) *APIError {
	return newError(TypeInvalidRequest, "IR_06", http.StatusBadRequest, message)
}

func InvalidDataValue(field string) *APIError {
	return newError(TypeInvalidRequest, "IR_07", http.StatusBadRequest,
		fmt.Sprintf("Invalid value provided: %s", field))
}

func RefundAmountExceedsPaymentAmount() *APIError {
	return newError(TypeInvalidRequest, "IR_13", http.StatusBadRequest,
		"The refund amount exceeds the amount captured")
}

func PreconditionFailed(message string) *APIError {
	return newError(TypeInvalidRequest, "IR_16", http.StatusBadRequest, message)
}

func NotSupported(message string) *APIError {
	return newError(TypeInvalidRequest, "IR_19", http.StatusBadRequest,
		fmt.Sprintf("%s is not supported", message))
}

func FlowNotSupported(flow, connector string) *APIError {
	return newError(TypeInvalidRequest, "IR_20", http.StatusBadRequest,
		fmt.Sprintf("%s flow not supported by the %s connector", flow, connector))
}

func MissingRequiredFields(fields []string) *APIError {
	e := newError(TypeInvalidRequest, "IR_21", http.StatusBadRequest, "Missing required params")
	e.Reason = strings.Join(fields, ", ")
	return e
}

func InvalidConnectorConfiguration(config string) *APIError {
	return newError(TypeInvalidRequest, "IR_23", http.StatusBadRequest,
		fmt.Sprintf("The connector configuration is invalid: %s", config))
}

func InvalidWalletToken(wallet string) *APIError {
	return newError(TypeInvalidRequest, "IR_24", http.StatusBadRequest,
		fmt.Sprintf("Invalid %s wallet token", wallet))
}

func CurrencyNotSupported(message string) *APIError {
	return newError(TypeInvalidRequest, "IR_25", http.StatusBadRequest,
		fmt.Sprintf("Currency %s is not supported", message))
}

// ============================================================================
// CE: connector errors
// ============================================================================

// ExternalConnectorError carries a connector's own error code and message through.
func ExternalConnectorError(code, message, connector string, status int) *APIError {
	if status < 400 {
		status = http.StatusBadRequest
	}
	e := newError(TypeConnectorError, "CE_00", status, fmt.Sprintf("%s: %s", code, message))
	e.Reason = connector
	return e
}

func PaymentAuthorizationFailed() *APIError {
	return newError(TypeProcessingError, "CE_01", http.StatusBadRequest,
		"Payment failed during authorization with connector. Retry payment")
}

func PaymentAuthenticationFailed() *APIError {
	return newError(TypeProcessingError, "CE_02", http.StatusBadRequest,
		"Payment failed during authentication with connector. Retry payment")
}

func PaymentCaptureFailed() *APIError {
	return newError(TypeProcessingError, "CE_03", http.StatusBadRequest,
		"Capture attempt failed while processing with connector")
}

func InvalidCardData() *APIError {
	return newError(TypeProcessingError, "CE_04", http.StatusBadRequest, "The card data is invalid")
}

func CardExpired() *APIError {
	return newError(TypeProcessingError, "CE_05", http.StatusBadRequest, "The card has expired")
}

func RefundFailed() *APIError {
	return newError(TypeProcessingError, "CE_06", http.StatusBadRequest,
		"Refund failed while processing with connector. Retry refund")
}

func VerificationFailed() *APIError {
	return newError(TypeProcessingError, "CE_07", http.StatusBadRequest,
		"Verification failed while processing with connector. Retry operation")
}

func DisputeFailed() *APIError {
	return newError(TypeProcessingError, "CE_08", http.StatusBadRequest,
		"Dispute operation failed while processing with connector. Retry operation")
}

func VoidFailed() *APIError {
	return newError(TypeProcessingError, "CE_09", http.StatusBadRequest,
		"Void attempt failed while processing with connector")
}

// ============================================================================
// WE: webhooks
// ============================================================================

func WebhookAuthenticationFailed() *APIError {
	return newError(TypeWebhook, "WE_01", http.StatusUnauthorized, "Webhook authentication failed")
}

func WebhookBadRequest() *APIError {
	return newError(TypeWebhook, "WE_02", http.StatusBadRequest, "Bad request received in webhook")
}

func WebhookProcessingFailure() *APIError {
	return newError(TypeWebhook, "WE_03", http.StatusInternalServerError,
		"There was some issue processing the webhook")
}

func WebhookResourceNotFound() *APIError {
	return newError(TypeWebhook, "WE_04", http.StatusNotFound, "Webhook resource not found")
}

func WebhookUnprocessableEntity() *APIError {
	return newError(TypeWebhook, "WE_05", http.StatusUnprocessableEntity, "Unable to process the webhook body")
}

func WebhookInvalidMerchantSecret() *APIError {
	return newError(TypeWebhook, "WE_06", http.StatusBadRequest,
		"Merchant secret set for webhook source verification is invalid")
}
