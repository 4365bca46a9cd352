package connector

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the closed set of failures a connector call can produce.
type ErrorKind string

const (
	KindFailedToObtainIntegrationURL        ErrorKind = "failed_to_obtain_integration_url"
	KindFailedToObtainAuthType              ErrorKind = "failed_to_obtain_auth_type"
	KindInvalidConnectorConfig              ErrorKind = "invalid_connector_config"
	KindNoConnectorMetaData                 ErrorKind = "no_connector_meta_data"
	KindMissingRequiredField                ErrorKind = "missing_required_field"
	KindMissingRequiredFields               ErrorKind = "missing_required_fields"
	KindMissingConnectorTransactionID       ErrorKind = "missing_connector_transaction_id"
	KindMissingConnectorRefundID            ErrorKind = "missing_connector_refund_id"
	KindCaptureMethodNotSupported           ErrorKind = "capture_method_not_supported"
	KindNotImplemented                      ErrorKind = "not_implemented"
	KindNotSupported                        ErrorKind = "not_supported"
	KindFlowNotSupported                    ErrorKind = "flow_not_supported"
	KindRequestEncodingFailed               ErrorKind = "request_encoding_failed"
	KindResponseDeserializationFailed       ErrorKind = "response_deserialization_failed"
	KindResponseHandlingFailed              ErrorKind = "response_handling_failed"
	KindAmountConversionFailed              ErrorKind = "amount_conversion_failed"
	KindInvalidDataFormat                   ErrorKind = "invalid_data_format"
	KindInvalidWalletToken                  ErrorKind = "invalid_wallet_token"
	KindProcessingStepFailed                ErrorKind = "processing_step_failed"
	KindRequestTimeoutReceived              ErrorKind = "request_timeout_received"
	KindWebhooksNotImplemented              ErrorKind = "webhooks_not_implemented"
	KindWebhookSourceVerificationFailed     ErrorKind = "webhook_source_verification_failed"
	KindWebhookSignatureNotFound            ErrorKind = "webhook_signature_not_found"
	KindWebhookVerificationSecretNotFound   ErrorKind = "webhook_verification_secret_not_found"
	KindWebhookReferenceIDNotFound          ErrorKind = "webhook_reference_id_not_found"
	KindWebhookEventTypeNotFound            ErrorKind = "webhook_event_type_not_found"
	KindWebhookResourceObjectNotFound       ErrorKind = "webhook_resource_object_not_found"
	KindWebhookBodyDecodingFailed           ErrorKind = "webhook_body_decoding_failed"
	KindWebhookResponseEncodingFailed       ErrorKind = "webhook_response_encoding_failed"
	KindWebhookVerificationSecretInvalid    ErrorKind = "webhook_verification_secret_invalid"
	KindMismatchedPaymentData               ErrorKind = "mismatched_payment_data"
	KindInvalidConnectorName                ErrorKind = "invalid_connector_name"
	KindUnexpectedResponseError             ErrorKind = "unexpected_response_error"
	KindMandatePaymentDataMismatch          ErrorKind = "mandate_payment_data_mismatch"
	KindMaxFieldLengthViolated              ErrorKind = "max_field_length_violated"
	KindCurrencyNotSupported                ErrorKind = "currency_not_supported"
	KindPaymentMethodNotSupportedForMandate ErrorKind = "payment_method_not_supported_for_mandate"
)

// Error is the failure type of every connector hook.
type Error struct {
	Kind       ErrorKind
	FieldName  string
	FieldNames []string
	Message    string
	Connector  string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	switch {
	case e.FieldName != "":
		fmt.Fprintf(&b, " (%s)", e.FieldName)
	case len(e.FieldNames) > 0:
		fmt.Fprintf(&b, " (%s)", strings.Join(e.FieldNames, ", "))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Connector != "" {
		fmt.Fprintf(&b, " [%s]", e.Connector)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, and on FieldName when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.FieldName == "" || t.FieldName == e.FieldName)
}

func AsError(err error) (*Error, bool) {
	var cErr *Error
	ok := errors.As(err, &cErr)
	return cErr, ok
}

var (
	ErrFailedToObtainAuthType        = &Error{Kind: KindFailedToObtainAuthType}
	ErrNotImplemented                = &Error{Kind: KindNotImplemented}
	ErrNotSupported                  = &Error{Kind: KindNotSupported}
	ErrFlowNotSupported              = &Error{Kind: KindFlowNotSupported}
	ErrMissingRequiredField          = &Error{Kind: KindMissingRequiredField}
	ErrMissingConnectorTransactionID = &Error{Kind: KindMissingConnectorTransactionID}
	ErrCaptureMethodNotSupported     = &Error{Kind: KindCaptureMethodNotSupported}
	ErrResponseDeserializationFailed = &Error{Kind: KindResponseDeserializationFailed}
	ErrWebhooksNotImplemented        = &Error{Kind: KindWebhooksNotImplemented}
	ErrWebhookSourceVerification     = &Error{Kind: KindWebhookSourceVerificationFailed}
)

func FailedToObtainAuthType() *Error {
	return &Error{Kind: KindFailedToObtainAuthType}
}

func FailedToObtainIntegrationURL() *Error {
	return &Error{Kind: KindFailedToObtainIntegrationURL}
}

func InvalidConnectorConfig(config string) *Error {
	return &Error{Kind: KindInvalidConnectorConfig, FieldName: config}
}

func NoConnectorMetaData() *Error {
	return &Error{Kind: KindNoConnectorMetaData}
}

func MissingRequiredField(field string) *Error {
	return &Error{Kind: KindMissingRequiredField, FieldName: field}
}

func MissingRequiredFields(fields ...string) *Error {
	return &Error{Kind: KindMissingRequiredFields, FieldNames: fields}
}

func MissingConnectorTransactionID() *Error {
	return &Error{Kind: KindMissingConnectorTransactionID}
}

func MissingConnectorRefundID() *Error {
	return &Error{Kind: KindMissingConnectorRefundID}
}

func CaptureMethodNotSupported() *Error {
	return &Error{Kind: KindCaptureMethodNotSupported}
}

func NotImplemented(message string) *Error {
	return &Error{Kind: KindNotImplemented, Message: message}
}

func NotSupported(message, connector string) *Error {
	return &Error{Kind: KindNotSupported, Message: message, Connector: connector}
}

func FlowNotSupported(flow, connector string) *Error {
	return &Error{Kind: KindFlowNotSupported, Message: flow, Connector: connector}
}

func RequestEncodingFailed(err error) *Error {
	return &Error{Kind: KindRequestEncodingFailed, Err: err}
}

func ResponseDeserializationFailed(err error) *Error {
	return &Error{Kind: KindResponseDeserializationFailed, Err: err}
}

func ResponseHandlingFailed(err error) *Error {
	return &Error{Kind: KindResponseHandlingFailed, Err: err}
}

func AmountConversionFailed(err error) *Error {
	return &Error{Kind: KindAmountConversionFailed, Err: err}
}

func InvalidDataFormat(field string) *Error {
	return &Error{Kind: KindInvalidDataFormat, FieldName: field}
}

func InvalidWalletToken(wallet string) *Error {
	return &Error{Kind: KindInvalidWalletToken, FieldName: wallet}
}

func ProcessingStepFailed(body []byte) *Error {
	return &Error{Kind: KindProcessingStepFailed, Message: string(body)}
}

func RequestTimeoutReceived() *Error {
	return &Error{Kind: KindRequestTimeoutReceived}
}

func UnexpectedResponseError(body []byte) *Error {
	return &Error{Kind: KindUnexpectedResponseError, Message: string(body)}
}

func MismatchedPaymentData() *Error {
	return &Error{Kind: KindMismatchedPaymentData}
}

func CurrencyNotSupported(currency, connector string) *Error {
	return &Error{Kind: KindCurrencyNotSupported, Message: currency, Connector: connector}
}

func MaxFieldLengthViolated(field string, maxLength, received int) *Error {
	return &Error{
		Kind:      KindMaxFieldLengthViolated,
		FieldName: field,
		Message:   fmt.Sprintf("max length %d, received %d", maxLength, received),
	}
}

func WebhooksNotImplemented() *Error {
	return &Error{Kind: KindWebhooksNotImplemented}
}

func WebhookSourceVerificationFailed() *Error {
	return &Error{Kind: KindWebhookSourceVerificationFailed}
}

func WebhookSignatureNotFound() *Error {
	return &Error{Kind: KindWebhookSignatureNotFound}
}

func WebhookVerificationSecretNotFound() *Error {
	return &Error{Kind: KindWebhookVerificationSecretNotFound}
}

func WebhookReferenceIDNotFound() *Error {
	return &Error{Kind: KindWebhookReferenceIDNotFound}
}

func WebhookEventTypeNotFound() *Error {
	return &Error{Kind: KindWebhookEventTypeNotFound}
}

func WebhookResourceObjectNotFound() *Error {
	return &Error{Kind: KindWebhookResourceObjectNotFound}
}

func WebhookBodyDecodingFailed(err error) *Error {
	return &Error{Kind: KindWebhookBodyDecodingFailed, Err: err}
}

func WebhookResponseEncodingFailed(err error) *Error {
	return &Error{Kind: KindWebhookResponseEncodingFailed, Err: err}
}
