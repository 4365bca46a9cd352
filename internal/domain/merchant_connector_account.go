package domain

import (
	"encoding/json"
	"time"
)

// MerchantConnectorAccount is a merchant's credentials and settings for one connector.
type MerchantConnectorAccount struct {
	ID            string
	MerchantID    string
	ConnectorName string
	Auth          ConnectorAuthType
	Metadata      json.RawMessage
	WebhookSecret Secret
	TestMode      bool
	Disabled      bool
	CreatedAt     time.Time
	ModifiedAt    time.Time
}
