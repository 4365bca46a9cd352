package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/connector/executor"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient    ErrorCategory = "TRANSIENT"
	CategoryPermanent    ErrorCategory = "PERMANENT"
	CategoryBusinessRule ErrorCategory = "BUSINESS_RULE"
)

// CategorizeError tells whether an operation that failed with err may have
// reached the connector and is worth repeating.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	if _, ok := domain.IsDomainError(err); ok {
		return CategoryBusinessRule
	}

	var tokenErr *executor.AccessTokenError
	if errors.As(err, &tokenErr) {
		if tokenErr.Response.StatusCode >= http.StatusInternalServerError {
			return CategoryTransient
		}
		return CategoryPermanent
	}

	if cErr, ok := connector.AsError(err); ok {
		switch cErr.Kind {
		case connector.KindRequestTimeoutReceived, connector.KindProcessingStepFailed:
			return CategoryTransient
		default:
			// Everything else is raised while building the request or reading
			// the answer and fails the same way on every attempt.
			return CategoryPermanent
		}
	}

	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	return CategorizeError(err) == CategoryTransient
}

// ReachedConnector reports whether the connector may have processed a request
// that failed with err: the call timed out, or it answered and the answer could
// not be read.
func ReachedConnector(err error) bool {
	cErr, ok := connector.AsError(err)
	if !ok {
		return errors.Is(err, context.DeadlineExceeded)
	}
	switch cErr.Kind {
	case connector.KindRequestTimeoutReceived,
		connector.KindResponseDeserializationFailed,
		connector.KindResponseHandlingFailed,
		connector.KindUnexpectedResponseError:
		return true
	default:
		return false
	}
}
