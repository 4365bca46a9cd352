package apierrors

import (
	"context"
	"errors"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/connector/executor"
	"github.com/DanielPopoola/connector-gateway/internal/connectors"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres"
)

// FromError folds any internal error into exactly one catalogue entry. Connector
// errors without flow context fold like FromConnectorError with an unknown flow.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	if apiErr, ok := IsAPIError(err); ok {
		return apiErr
	}

	if _, ok := connector.AsError(err); ok {
		return FromConnectorError(err, "")
	}

	var unknown *connectors.UnknownConnectorError
	if errors.As(err, &unknown) {
		return ConnectorNotFound(unknown.Name).withErr(err)
	}

	var tokenErr *executor.AccessTokenError
	if errors.As(err, &tokenErr) {
		r := tokenErr.Response
		return ExternalConnectorError(r.Code, r.Message, tokenErr.Connector, r.StatusCode).withErr(err)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return GatewayTimeout().withErr(err)

	case errors.Is(err, postgres.ErrRefundNotFound):
		return RefundNotFound().withErr(err)
	case errors.Is(err, postgres.ErrDisputeNotFound):
		return DisputeNotFound("").withErr(err)
	case errors.Is(err, postgres.ErrMerchantConnectorAccountNotFound):
		return MerchantConnectorAccountNotFound("").withErr(err)
	case errors.Is(err, postgres.ErrDuplicateRefund):
		return DuplicateRefundRequest().withErr(err)
	case errors.Is(err, postgres.ErrDuplicateMerchantConnectorAccount):
		return DuplicateMerchantConnectorAccount("").withErr(err)
	}

	if domErr, ok := domain.IsDomainError(err); ok {
		switch domErr.Code {
		case domain.ErrCodeMissingRequiredField:
			return InvalidRequestData(domErr.Message).withErr(err)
		case domain.ErrCodeAmountMismatch:
			e := RefundAmountExceedsPaymentAmount()
			e.Reason = domErr.Message
			return e.withErr(err)
		case domain.ErrCodeInvalidAmount:
			e := InvalidDataValue("amount")
			e.Reason = domErr.Message
			return e.withErr(err)
		case domain.ErrCodeInvalidTransition:
			return PreconditionFailed(domErr.Message).withErr(err)
		}
	}

	return InternalServerError().withErr(err)
}

// FromConnectorError folds a connector error raised while running flow. Errors
// with a dedicated catalogue entry keep it; the rest become the flow's failure.
func FromConnectorError(err error, flow domain.Flow) *APIError {
	cErr, ok := connector.AsError(err)
	if !ok {
		return FromError(err)
	}

	switch cErr.Kind {
	case connector.KindMissingRequiredField:
		return MissingRequiredField(cErr.FieldName).withErr(err)
	case connector.KindMissingRequiredFields:
		return MissingRequiredFields(cErr.FieldNames).withErr(err)
	case connector.KindMissingConnectorTransactionID:
		return MissingRequiredField("connector_transaction_id").withErr(err)
	case connector.KindMissingConnectorRefundID:
		return MissingRequiredField("connector_refund_id").withErr(err)
	case connector.KindNotImplemented:
		return NotImplemented(notImplementedMessage(cErr.Message)).withErr(err)
	case connector.KindWebhooksNotImplemented:
		return NotImplemented("Webhooks are not implemented for this connector").withErr(err)
	case connector.KindNotSupported, connector.KindCaptureMethodNotSupported:
		return NotSupported(supportedMessage(cErr)).withErr(err)
	case connector.KindPaymentMethodNotSupportedForMandate:
		return NotSupported(cErr.Message + " mandate payment").withErr(err)
	case connector.KindFlowNotSupported:
		return FlowNotSupported(cErr.Message, cErr.Connector).withErr(err)
	case connector.KindFailedToObtainAuthType:
		return InvalidConnectorConfiguration("auth_type").withErr(err)
	case connector.KindInvalidConnectorConfig, connector.KindNoConnectorMetaData:
		config := cErr.FieldName
		if config == "" {
			config = "metadata"
		}
		e := InvalidConnectorConfiguration(config)
		e.Reason = cErr.Message
		return e.withErr(err)
	case connector.KindInvalidDataFormat:
		return InvalidDataFormat(cErr.FieldName, "valid "+cErr.FieldName).withErr(err)
	case connector.KindInvalidWalletToken:
		return InvalidWalletToken(cErr.FieldName).withErr(err)
	case connector.KindCurrencyNotSupported:
		return CurrencyNotSupported(cErr.Message).withErr(err)
	case connector.KindMaxFieldLengthViolated, connector.KindMismatchedPaymentData,
		connector.KindMandatePaymentDataMismatch:
		return InvalidRequestData(cErr.Error()).withErr(err)
	case connector.KindProcessingStepFailed:
		e := ExternalConnectorError(domain.NoErrorCode, cErr.Message, cErr.Connector, 0)
		return e.withErr(err)
	case connector.KindRequestTimeoutReceived:
		return GatewayTimeout().withErr(err)

	case connector.KindWebhookSourceVerificationFailed, connector.KindWebhookSignatureNotFound,
		connector.KindWebhookVerificationSecretNotFound:
		return WebhookAuthenticationFailed().withErr(err)
	case connector.KindWebhookVerificationSecretInvalid:
		return WebhookInvalidMerchantSecret().withErr(err)
	case connector.KindWebhookBodyDecodingFailed:
		return WebhookBadRequest().withErr(err)
	case connector.KindWebhookReferenceIDNotFound, connector.KindWebhookResourceObjectNotFound:
		return WebhookResourceNotFound().withErr(err)
	case connector.KindWebhookEventTypeNotFound:
		return WebhookUnprocessableEntity().withErr(err)
	case connector.KindWebhookResponseEncodingFailed:
		return WebhookProcessingFailure().withErr(err)
	}

	return flowFailure(flow).withErr(err)
}

func flowFailure(flow domain.Flow) *APIError {
	switch flow {
	case domain.FlowAuthorize, domain.FlowPSync, domain.FlowCompleteAuthorize:
		return PaymentAuthorizationFailed()
	case domain.FlowPreProcessing:
		return PaymentAuthenticationFailed()
	case domain.FlowCapture:
		return PaymentCaptureFailed()
	case domain.FlowVoid:
		return VoidFailed()
	case domain.FlowExecute, domain.FlowRSync:
		return RefundFailed()
	case domain.FlowSetupMandate:
		return VerificationFailed()
	default:
		return InternalServerError()
	}
}

func notImplementedMessage(what string) string {
	if what == "" {
		return ""
	}
	return what + " is not implemented"
}

func supportedMessage(e *connector.Error) string {
	msg := e.Message
	if msg == "" {
		msg = "capture method"
	}
	if e.Connector != "" {
		msg += " for " + e.Connector
	}
	return msg
}
