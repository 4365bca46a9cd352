package domain

import "encoding/json"

// RedirectForm tells the caller where to send the customer's browser next.
type RedirectForm struct {
	Endpoint   string            `json:"endpoint"`
	Method     string            `json:"method"`
	FormFields map[string]string `json:"form_fields,omitempty"`
}

type MandateReference struct {
	ConnectorMandateID string `json:"connector_mandate_id,omitempty"`
	PaymentMethodID    string `json:"payment_method_id,omitempty"`
}

type TransactionResponse struct {
	ResourceID                      ResponseID        `json:"resource_id"`
	RedirectionData                 *RedirectForm     `json:"redirection_data,omitempty"`
	MandateReference                *MandateReference `json:"mandate_reference,omitempty"`
	ConnectorMetadata               json.RawMessage   `json:"connector_metadata,omitempty"`
	NetworkTxnID                    string            `json:"network_txn_id,omitempty"`
	ConnectorResponseReferenceID    string            `json:"connector_response_reference_id,omitempty"`
	IncrementalAuthorizationAllowed *bool             `json:"incremental_authorization_allowed,omitempty"`
}

type AuthorizationStatus string

const (
	AuthorizationSuccess    AuthorizationStatus = "success"
	AuthorizationFailure    AuthorizationStatus = "failure"
	AuthorizationProcessing AuthorizationStatus = "processing"
)

type IncrementalAuthorizationResponse struct {
	Status       AuthorizationStatus `json:"status"`
	ConnectorID  string              `json:"connector_authorization_id,omitempty"`
	ErrorCode    string              `json:"error_code,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
}

type TokenizationResponse struct {
	Token string `json:"token"`
}

type PreProcessingResponse struct {
	PreProcessingID   string          `json:"pre_processing_id"`
	ConnectorMetadata json.RawMessage `json:"connector_metadata,omitempty"`
	SessionToken      json.RawMessage `json:"session_token,omitempty"`
}

type SessionResponse struct {
	SessionToken json.RawMessage `json:"session_token"`
}

// PaymentsResponseData is what a payment flow produces. Exactly one field is set.
type PaymentsResponseData struct {
	Transaction              *TransactionResponse              `json:"transaction,omitempty"`
	IncrementalAuthorization *IncrementalAuthorizationResponse `json:"incremental_authorization,omitempty"`
	Tokenization             *TokenizationResponse             `json:"tokenization,omitempty"`
	PreProcessing            *PreProcessingResponse            `json:"pre_processing,omitempty"`
	Session                  *SessionResponse                  `json:"session,omitempty"`
}

func NewTransactionResponse(tr TransactionResponse) PaymentsResponseData {
	return PaymentsResponseData{Transaction: &tr}
}

type RefundsResponseData struct {
	ConnectorRefundID string       `json:"connector_refund_id"`
	RefundStatus      RefundStatus `json:"refund_status"`
}
