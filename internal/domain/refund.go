package domain

import (
	"errors"
	"time"
)

// Refund is one refund attempt of a captured payment at a connector.
type Refund struct {
	ID                     string
	MerchantID             string
	PaymentID              string
	AttemptID              string
	Connector              string
	ConnectorTransactionID string
	ConnectorRefundID      *string
	PaymentAmount          MinorUnit
	RefundAmount           MinorUnit
	Currency               Currency
	Status                 RefundStatus
	Reason                 string
	ErrorCode              *string
	ErrorMessage           *string
	SentToGateway          bool
	PaymentMethod          PaymentMethod
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func NewRefund(
	id string,
	merchantID string,
	paymentID string,
	attemptID string,
	connector string,
	connectorTransactionID string,
	paymentAmount Money,
	refundAmount MinorUnit,
	reason string,
) (*Refund, error) {
	if id == "" {
		return nil, errors.New("refund ID is required")
	}
	if merchantID == "" {
		return nil, errors.New("merchant ID is required")
	}
	if paymentID == "" {
		return nil, errors.New("payment ID is required")
	}
	if connectorTransactionID == "" {
		return nil, NewMissingRequiredFieldError("connector_transaction_id")
	}
	if refundAmount <= 0 {
		return nil, NewInvalidAmountError(int64(refundAmount))
	}
	if refundAmount > paymentAmount.Amount {
		return nil, NewAmountMismatchError(int64(paymentAmount.Amount), int64(refundAmount))
	}

	now := time.Now().UTC()
	return &Refund{
		ID:                     id,
		MerchantID:             merchantID,
		PaymentID:              paymentID,
		AttemptID:              attemptID,
		Connector:              connector,
		ConnectorTransactionID: connectorTransactionID,
		PaymentAmount:          paymentAmount.Amount,
		RefundAmount:           refundAmount,
		Currency:               paymentAmount.Currency,
		Status:                 RefundPending,
		Reason:                 reason,
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

// FitsWithin checks the refund against what earlier refunds of the same payment
// already hold, so the refunds never add up to more than the payment.
func (r *Refund) FitsWithin(alreadyRefunded MinorUnit) error {
	remaining := r.PaymentAmount - alreadyRefunded
	if r.RefundAmount > remaining {
		return NewAmountMismatchError(int64(max(remaining, 0)), int64(r.RefundAmount))
	}
	return nil
}

// ApplyConnectorResult records what the connector said about the refund.
func (r *Refund) ApplyConnectorResult(connectorRefundID string, status RefundStatus) error {
	if r.Status.IsTerminal() && r.Status != status {
		return NewInvalidRefundTransitionError(r.Status, status)
	}
	if connectorRefundID != "" {
		r.ConnectorRefundID = &connectorRefundID
	}
	r.Status = status
	r.SentToGateway = true
	r.ErrorCode = nil
	r.ErrorMessage = nil
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyConnectorError records a connector rejection. The refund stays retryable
// only when the connector did not see it at all.
func (r *Refund) ApplyConnectorError(code, message string, sentToGateway bool) {
	r.ErrorCode = &code
	r.ErrorMessage = &message
	r.SentToGateway = r.SentToGateway || sentToGateway
	if sentToGateway {
		r.Status = RefundFailure
	} else {
		r.Status = RefundTransactionFailure
	}
	r.UpdatedAt = time.Now().UTC()
}

// RecordSyncError keeps the status and notes why the last status inquiry failed.
func (r *Refund) RecordSyncError(code, message string) {
	r.ErrorCode = &code
	r.ErrorMessage = &message
	r.UpdatedAt = time.Now().UTC()
}

func (r *Refund) IsTerminal() bool {
	return r.Status.IsTerminal()
}
