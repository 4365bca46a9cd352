package domain_test

import (
	"testing"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func disputePayload(stage domain.DisputeStage) domain.DisputePayload {
	return domain.DisputePayload{
		Amount:             "10.00",
		Currency:           "USD",
		Stage:              stage,
		ConnectorStatus:    "NEW",
		ConnectorDisputeID: "cb-1",
		ConnectorReason:    "fraud",
	}
}

func TestNewDispute(t *testing.T) {
	d, err := domain.NewDispute("dp-1", "merchant-1", "pay-1", "pay-1_1", "bluesnap", domain.DisputeOpened, disputePayload(domain.DisputeStageDispute))

	require.NoError(t, err)
	assert.Equal(t, domain.DisputeOpened, d.Status)
	assert.Equal(t, domain.DisputeStageDispute, d.Stage)
	require.NotNil(t, d.ConnectorReason)
	assert.Equal(t, "fraud", *d.ConnectorReason)

	_, err = domain.NewDispute("dp-1", "merchant-1", "pay-1", "pay-1_1", "bluesnap", domain.DisputeOpened, domain.DisputePayload{})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

func TestDispute_Update(t *testing.T) {
	t.Run("opened to won", func(t *testing.T) {
		d, _ := domain.NewDispute("dp-1", "m", "p", "a", "bluesnap", domain.DisputeOpened, disputePayload(domain.DisputeStageDispute))

		require.NoError(t, d.Update(domain.DisputeWon, disputePayload(domain.DisputeStageDispute)))
		assert.Equal(t, domain.DisputeWon, d.Status)
	})

	t.Run("stage cannot go backwards", func(t *testing.T) {
		d, _ := domain.NewDispute("dp-1", "m", "p", "a", "bluesnap", domain.DisputeOpened, disputePayload(domain.DisputeStagePreArbitration))

		err := d.Update(domain.DisputeOpened, disputePayload(domain.DisputeStageDispute))
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("lost dispute reopens at a later stage", func(t *testing.T) {
		d, _ := domain.NewDispute("dp-1", "m", "p", "a", "bluesnap", domain.DisputeOpened, disputePayload(domain.DisputeStageDispute))
		require.NoError(t, d.Update(domain.DisputeLost, disputePayload(domain.DisputeStageDispute)))

		assert.ErrorIs(t, d.Update(domain.DisputeOpened, disputePayload(domain.DisputeStageDispute)), domain.ErrInvalidTransition)
		assert.NoError(t, d.Update(domain.DisputeOpened, disputePayload(domain.DisputeStagePreArbitration)))
	})
}

func TestIncomingWebhookEvent_Class(t *testing.T) {
	assert.Equal(t, domain.EventClassPayments, domain.EventPaymentIntentSuccess.Class())
	assert.Equal(t, domain.EventClassRefunds, domain.EventRefundFailure.Class())
	assert.Equal(t, domain.EventClassDisputes, domain.EventDisputeWon.Class())
	assert.Equal(t, domain.EventClass(""), domain.EventNotSupported.Class())

	status, ok := domain.EventDisputeChallenged.DisputeStatus()
	assert.True(t, ok)
	assert.Equal(t, domain.DisputeChallenged, status)
}
