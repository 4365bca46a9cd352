package domain

import (
	"encoding/json"
	"slices"
	"time"
)

type DisputeStage string

const (
	DisputeStagePreDispute      DisputeStage = "pre_dispute"
	DisputeStageDispute         DisputeStage = "dispute"
	DisputeStagePreArbitration  DisputeStage = "pre_arbitration"
	DisputeStageArbitration     DisputeStage = "arbitration"
	DisputeStageDisputeReversal DisputeStage = "dispute_reversal"
)

type DisputeStatus string

const (
	DisputeOpened     DisputeStatus = "dispute_opened"
	DisputeExpired    DisputeStatus = "dispute_expired"
	DisputeAccepted   DisputeStatus = "dispute_accepted"
	DisputeCancelled  DisputeStatus = "dispute_cancelled"
	DisputeChallenged DisputeStatus = "dispute_challenged"
	DisputeWon        DisputeStatus = "dispute_won"
	DisputeLost       DisputeStatus = "dispute_lost"
)

func (s DisputeStatus) IsTerminal() bool {
	switch s {
	case DisputeExpired, DisputeAccepted, DisputeCancelled, DisputeWon, DisputeLost:
		return true
	default:
		return false
	}
}

type Dispute struct {
	ID                  string
	MerchantID          string
	PaymentID           string
	AttemptID           string
	Connector           string
	Amount              string
	Currency            Currency
	Stage               DisputeStage
	Status              DisputeStatus
	ConnectorStatus     string
	ConnectorDisputeID  string
	ConnectorReason     *string
	ConnectorReasonCode *string
	ChallengeRequiredBy *time.Time
	ConnectorCreatedAt  *time.Time
	ConnectorUpdatedAt  *time.Time
	Evidence            json.RawMessage
	CreatedAt           time.Time
	ModifiedAt          time.Time
}

// NewDispute opens a dispute from the first webhook a connector sends about it.
func NewDispute(id, merchantID, paymentID, attemptID, connector string, status DisputeStatus, p DisputePayload) (*Dispute, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("dispute_id")
	}
	if p.ConnectorDisputeID == "" {
		return nil, NewMissingRequiredFieldError("connector_dispute_id")
	}
	now := time.Now().UTC()
	d := &Dispute{
		ID:                 id,
		MerchantID:         merchantID,
		PaymentID:          paymentID,
		AttemptID:          attemptID,
		Connector:          connector,
		Amount:             p.Amount,
		Currency:           p.Currency,
		Stage:              p.Stage,
		Status:             status,
		ConnectorDisputeID: p.ConnectorDisputeID,
		CreatedAt:          now,
		ModifiedAt:         now,
	}
	d.applyPayload(p)
	return d, nil
}

// Update moves the dispute forward. Stages only advance and a terminal status
// can only be replaced by a later stage reopening the dispute.
func (d *Dispute) Update(status DisputeStatus, p DisputePayload) error {
	if stageRank(p.Stage) < stageRank(d.Stage) {
		return NewInvalidDisputeTransitionError(d.Status, status)
	}
	if d.Status.IsTerminal() && p.Stage == d.Stage && d.Status != status {
		return NewInvalidDisputeTransitionError(d.Status, status)
	}
	d.Stage = p.Stage
	d.Status = status
	d.applyPayload(p)
	d.ModifiedAt = time.Now().UTC()
	return nil
}

func (d *Dispute) applyPayload(p DisputePayload) {
	d.ConnectorStatus = p.ConnectorStatus
	if p.ConnectorReason != "" {
		d.ConnectorReason = &p.ConnectorReason
	}
	if p.ConnectorReasonCode != "" {
		d.ConnectorReasonCode = &p.ConnectorReasonCode
	}
	if p.ChallengeRequiredBy != nil {
		d.ChallengeRequiredBy = p.ChallengeRequiredBy
	}
	if p.CreatedAt != nil {
		d.ConnectorCreatedAt = p.CreatedAt
	}
	if p.UpdatedAt != nil {
		d.ConnectorUpdatedAt = p.UpdatedAt
	}
}

var stageOrder = []DisputeStage{
	DisputeStagePreDispute,
	DisputeStageDispute,
	DisputeStagePreArbitration,
	DisputeStageArbitration,
	DisputeStageDisputeReversal,
}

func stageRank(s DisputeStage) int {
	return slices.Index(stageOrder, s)
}
