package testhelpers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewPendingRefund returns a valid refund of 2500 out of a 10000 USD payment.
func NewPendingRefund(t *testing.T, merchantID string) *domain.Refund {
	t.Helper()
	payment, err := domain.NewMoney(10000, "USD")
	require.NoError(t, err)
	refund, err := domain.NewRefund(
		uuid.NewString(),
		merchantID,
		"pay_"+uuid.NewString(),
		"att_"+uuid.NewString(),
		"novalnet",
		"txn_"+uuid.NewString(),
		payment,
		2500,
		"customer request",
	)
	require.NoError(t, err)
	refund.PaymentMethod = domain.PaymentMethodCard
	return refund
}

func NewOpenedDispute(t *testing.T, merchantID, paymentID string) *domain.Dispute {
	t.Helper()
	challengeBy := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Microsecond)
	dispute, err := domain.NewDispute(
		uuid.NewString(),
		merchantID,
		paymentID,
		"att_"+uuid.NewString(),
		"novalnet",
		domain.DisputeOpened,
		domain.DisputePayload{
			Amount:              "2500",
			Currency:            "EUR",
			Stage:               domain.DisputeStageDispute,
			ConnectorStatus:     "CHARGEBACK",
			ConnectorDisputeID:  "cb_" + uuid.NewString(),
			ConnectorReason:     "fraudulent",
			ChallengeRequiredBy: &challengeBy,
		},
	)
	require.NoError(t, err)
	dispute.Evidence = json.RawMessage(`{"receipt":"r_1"}`)
	return dispute
}

func NewMerchantConnectorAccount(merchantID, connector string, auth domain.ConnectorAuthType) *domain.MerchantConnectorAccount {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.MerchantConnectorAccount{
		ID:            "mca_" + uuid.NewString(),
		MerchantID:    merchantID,
		ConnectorName: connector,
		Auth:          auth,
		Metadata:      json.RawMessage(`{"tenant_id":"t_1"}`),
		WebhookSecret: "whsec_test",
		TestMode:      true,
		CreatedAt:     now,
		ModifiedAt:    now,
	}
}
