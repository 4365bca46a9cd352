package domain

import (
	"encoding/json"
	"errors"
	"time"
)

type BrowserInfo struct {
	AcceptHeader      string `json:"accept_header,omitempty"`
	UserAgent         string `json:"user_agent,omitempty"`
	Language          string `json:"language,omitempty"`
	IPAddress         string `json:"ip_address,omitempty"`
	ColorDepth        int    `json:"color_depth,omitempty"`
	ScreenHeight      int    `json:"screen_height,omitempty"`
	ScreenWidth       int    `json:"screen_width,omitempty"`
	TimeZone          int    `json:"time_zone,omitempty"`
	JavaEnabled       bool   `json:"java_enabled,omitempty"`
	JavaScriptEnabled bool   `json:"java_script_enabled,omitempty"`
}

type MandateIDs struct {
	MandateID          string `json:"mandate_id,omitempty"`
	ConnectorMandateID string `json:"connector_mandate_id,omitempty"`
	NetworkTxnID       string `json:"network_transaction_id,omitempty"`
}

// RedirectResponse carries what the customer's browser posted back after a redirect.
type RedirectResponse struct {
	Params  string          `json:"params,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type PaymentsAuthorizeData struct {
	PaymentMethodData               PaymentMethodData `json:"payment_method_data"`
	Amount                          MinorUnit         `json:"minor_amount"`
	Currency                        Currency          `json:"currency"`
	CaptureMethod                   *CaptureMethod    `json:"capture_method,omitempty"`
	Email                           string            `json:"email,omitempty"`
	CustomerName                    string            `json:"customer_name,omitempty"`
	BrowserInfo                     *BrowserInfo      `json:"browser_info,omitempty"`
	ReturnURL                       string            `json:"router_return_url,omitempty"`
	WebhookURL                      string            `json:"webhook_url,omitempty"`
	CompleteAuthorizeURL            string            `json:"complete_authorize_url,omitempty"`
	SetupFutureUsage                *FutureUsage      `json:"setup_future_usage,omitempty"`
	MandateID                       *MandateIDs       `json:"mandate_id,omitempty"`
	OffSession                      bool              `json:"off_session,omitempty"`
	StatementDescriptor             string            `json:"statement_descriptor,omitempty"`
	RequestIncrementalAuthorization bool              `json:"request_incremental_authorization,omitempty"`
	Metadata                        json.RawMessage   `json:"metadata,omitempty"`
}

// IsMandatePayment reports whether the authorization sets up or uses a stored credential.
func (d PaymentsAuthorizeData) IsMandatePayment() bool {
	return d.MandateID != nil || (d.SetupFutureUsage != nil && *d.SetupFutureUsage == FutureUsageOffSession)
}

type PaymentsCaptureData struct {
	AmountToCapture        MinorUnit       `json:"minor_amount_to_capture"`
	PaymentAmount          MinorUnit       `json:"minor_payment_amount"`
	Currency               Currency        `json:"currency"`
	ConnectorTransactionID string          `json:"connector_transaction_id"`
	ConnectorMeta          json.RawMessage `json:"connector_meta,omitempty"`
	CaptureMethod          *CaptureMethod  `json:"capture_method,omitempty"`
}

type PaymentsCancelData struct {
	Amount                 *MinorUnit      `json:"minor_amount,omitempty"`
	Currency               *Currency       `json:"currency,omitempty"`
	ConnectorTransactionID string          `json:"connector_transaction_id"`
	CancellationReason     string          `json:"cancellation_reason,omitempty"`
	ConnectorMeta          json.RawMessage `json:"connector_meta,omitempty"`
}

// ResponseID identifies a connector-side payment: by transaction id, by encoded
// data, or not at all.
type ResponseID struct {
	ConnectorTransactionID string `json:"connector_transaction_id,omitempty"`
	EncodedData            string `json:"encoded_data,omitempty"`
}

var ErrMissingConnectorTransactionID = errors.New("missing connector transaction id")

func (r ResponseID) TransactionID() (string, error) {
	if r.ConnectorTransactionID == "" {
		return "", ErrMissingConnectorTransactionID
	}
	return r.ConnectorTransactionID, nil
}

type PaymentsSyncData struct {
	ConnectorTransactionID ResponseID      `json:"connector_transaction_id"`
	ConnectorMeta          json.RawMessage `json:"connector_meta,omitempty"`
	CaptureMethod          *CaptureMethod  `json:"capture_method,omitempty"`
	Amount                 MinorUnit       `json:"minor_amount"`
	Currency               Currency        `json:"currency"`
}

type RefundsData struct {
	RefundID               string          `json:"refund_id"`
	ConnectorTransactionID string          `json:"connector_transaction_id"`
	ConnectorRefundID      string          `json:"connector_refund_id,omitempty"`
	Currency               Currency        `json:"currency"`
	PaymentAmount          MinorUnit       `json:"minor_payment_amount"`
	RefundAmount           MinorUnit       `json:"minor_refund_amount"`
	Reason                 string          `json:"reason,omitempty"`
	WebhookURL             string          `json:"webhook_url,omitempty"`
	ConnectorMetadata      json.RawMessage `json:"connector_metadata,omitempty"`
}

type SetupMandateRequestData struct {
	PaymentMethodData PaymentMethodData `json:"payment_method_data"`
	Amount            *MinorUnit        `json:"minor_amount,omitempty"`
	Currency          Currency          `json:"currency"`
	Email             string            `json:"email,omitempty"`
	CustomerName      string            `json:"customer_name,omitempty"`
	ReturnURL         string            `json:"router_return_url,omitempty"`
	WebhookURL        string            `json:"webhook_url,omitempty"`
	BrowserInfo       *BrowserInfo      `json:"browser_info,omitempty"`
	OffSession        bool              `json:"off_session,omitempty"`
}

// AccessTokenRequestData carries everything an OAuth-style token call needs.
// Nonce and Date are supplied by the caller so the signed request is reproducible.
type AccessTokenRequestData struct {
	AppID  Secret    `json:"-"`
	ID     Secret    `json:"-"`
	Nonce  string    `json:"nonce,omitempty"`
	Date   time.Time `json:"date"`
	Scopes []string  `json:"scopes,omitempty"`
}

type PaymentsIncrementalAuthorizationData struct {
	TotalAmount            MinorUnit `json:"total_amount"`
	AdditionalAmount       MinorUnit `json:"additional_amount"`
	Currency               Currency  `json:"currency"`
	Reason                 string    `json:"reason,omitempty"`
	ConnectorTransactionID string    `json:"connector_transaction_id"`
}

type PaymentsPreProcessingData struct {
	PaymentMethodData      *PaymentMethodData `json:"payment_method_data,omitempty"`
	Amount                 *MinorUnit         `json:"minor_amount,omitempty"`
	Currency               *Currency          `json:"currency,omitempty"`
	Email                  string             `json:"email,omitempty"`
	ReturnURL              string             `json:"router_return_url,omitempty"`
	CompleteAuthorizeURL   string             `json:"complete_authorize_url,omitempty"`
	BrowserInfo            *BrowserInfo       `json:"browser_info,omitempty"`
	RedirectResponse       *RedirectResponse  `json:"redirect_response,omitempty"`
	ConnectorTransactionID string             `json:"connector_transaction_id,omitempty"`
	CaptureMethod          *CaptureMethod     `json:"capture_method,omitempty"`
	Metadata               json.RawMessage    `json:"metadata,omitempty"`
}

type CompleteAuthorizeData struct {
	PaymentMethodData      *PaymentMethodData `json:"payment_method_data,omitempty"`
	Amount                 MinorUnit          `json:"minor_amount"`
	Currency               Currency           `json:"currency"`
	Email                  string             `json:"email,omitempty"`
	CaptureMethod          *CaptureMethod     `json:"capture_method,omitempty"`
	RedirectResponse       *RedirectResponse  `json:"redirect_response,omitempty"`
	ConnectorTransactionID string             `json:"connector_transaction_id,omitempty"`
	ConnectorMeta          json.RawMessage    `json:"connector_meta,omitempty"`
	BrowserInfo            *BrowserInfo       `json:"browser_info,omitempty"`
	ReturnURL              string             `json:"router_return_url,omitempty"`
}

type PaymentMethodTokenizationData struct {
	PaymentMethodData PaymentMethodData `json:"payment_method_data"`
	Amount            *MinorUnit        `json:"minor_amount,omitempty"`
	Currency          Currency          `json:"currency"`
	BrowserInfo       *BrowserInfo      `json:"browser_info,omitempty"`
}

type PaymentsSessionData struct {
	Amount   MinorUnit `json:"minor_amount"`
	Currency Currency  `json:"currency"`
	Country  string    `json:"country,omitempty"`
}
