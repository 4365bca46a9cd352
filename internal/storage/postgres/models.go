package postgres

import (
	"encoding/json"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

type RefundModel struct {
	ID                     string
	MerchantID             string
	PaymentID              string
	AttemptID              string
	Connector              string
	ConnectorTransactionID string
	ConnectorRefundID      *string
	PaymentAmount          int64
	RefundAmount           int64
	Currency               string
	Status                 string
	Reason                 *string
	ErrorCode              *string
	ErrorMessage           *string
	SentToGateway          bool
	PaymentMethod          *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type DisputeModel struct {
	ID                  string
	MerchantID          string
	PaymentID           string
	AttemptID           string
	Connector           string
	Amount              string
	Currency            string
	Stage               string
	Status              string
	ConnectorStatus     string
	ConnectorDisputeID  string
	ConnectorReason     *string
	ConnectorReasonCode *string
	ChallengeRequiredBy *time.Time
	ConnectorCreatedAt  *time.Time
	ConnectorUpdatedAt  *time.Time
	Evidence            []byte
	CreatedAt           time.Time
	ModifiedAt          time.Time
}

// MerchantConnectorAccountModel stores auth unmasked; the column is the only place
// credentials live outside of memory.
type MerchantConnectorAccountModel struct {
	ID            string
	MerchantID    string
	ConnectorName string
	Auth          []byte
	Metadata      []byte
	WebhookSecret *string
	TestMode      bool
	Disabled      bool
	CreatedAt     time.Time
	ModifiedAt    time.Time
}

func toRefundModel(r *domain.Refund) RefundModel {
	return RefundModel{
		ID:                     r.ID,
		MerchantID:             r.MerchantID,
		PaymentID:              r.PaymentID,
		AttemptID:              r.AttemptID,
		Connector:              r.Connector,
		ConnectorTransactionID: r.ConnectorTransactionID,
		ConnectorRefundID:      r.ConnectorRefundID,
		PaymentAmount:          r.PaymentAmount.Int64(),
		RefundAmount:           r.RefundAmount.Int64(),
		Currency:               string(r.Currency),
		Status:                 string(r.Status),
		Reason:                 nullable(r.Reason),
		ErrorCode:              r.ErrorCode,
		ErrorMessage:           r.ErrorMessage,
		SentToGateway:          r.SentToGateway,
		PaymentMethod:          nullable(string(r.PaymentMethod)),
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

func toRefundDomain(m RefundModel) *domain.Refund {
	return &domain.Refund{
		ID:                     m.ID,
		MerchantID:             m.MerchantID,
		PaymentID:              m.PaymentID,
		AttemptID:              m.AttemptID,
		Connector:              m.Connector,
		ConnectorTransactionID: m.ConnectorTransactionID,
		ConnectorRefundID:      m.ConnectorRefundID,
		PaymentAmount:          domain.MinorUnit(m.PaymentAmount),
		RefundAmount:           domain.MinorUnit(m.RefundAmount),
		Currency:               domain.Currency(m.Currency),
		Status:                 domain.RefundStatus(m.Status),
		Reason:                 deref(m.Reason),
		ErrorCode:              m.ErrorCode,
		ErrorMessage:           m.ErrorMessage,
		SentToGateway:          m.SentToGateway,
		PaymentMethod:          domain.PaymentMethod(deref(m.PaymentMethod)),
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

func toDisputeModel(d *domain.Dispute) DisputeModel {
	var evidence []byte
	if len(d.Evidence) > 0 {
		evidence = d.Evidence
	}
	return DisputeModel{
		ID:                  d.ID,
		MerchantID:          d.MerchantID,
		PaymentID:           d.PaymentID,
		AttemptID:           d.AttemptID,
		Connector:           d.Connector,
		Amount:              d.Amount,
		Currency:            string(d.Currency),
		Stage:               string(d.Stage),
		Status:              string(d.Status),
		ConnectorStatus:     d.ConnectorStatus,
		ConnectorDisputeID:  d.ConnectorDisputeID,
		ConnectorReason:     d.ConnectorReason,
		ConnectorReasonCode: d.ConnectorReasonCode,
		ChallengeRequiredBy: d.ChallengeRequiredBy,
		ConnectorCreatedAt:  d.ConnectorCreatedAt,
		ConnectorUpdatedAt:  d.ConnectorUpdatedAt,
		Evidence:            evidence,
		CreatedAt:           d.CreatedAt,
		ModifiedAt:          d.ModifiedAt,
	}
}

func toDisputeDomain(m DisputeModel) *domain.Dispute {
	return &domain.Dispute{
		ID:                  m.ID,
		MerchantID:          m.MerchantID,
		PaymentID:           m.PaymentID,
		AttemptID:           m.AttemptID,
		Connector:           m.Connector,
		Amount:              m.Amount,
		Currency:            domain.Currency(m.Currency),
		Stage:               domain.DisputeStage(m.Stage),
		Status:              domain.DisputeStatus(m.Status),
		ConnectorStatus:     m.ConnectorStatus,
		ConnectorDisputeID:  m.ConnectorDisputeID,
		ConnectorReason:     m.ConnectorReason,
		ConnectorReasonCode: m.ConnectorReasonCode,
		ChallengeRequiredBy: m.ChallengeRequiredBy,
		ConnectorCreatedAt:  m.ConnectorCreatedAt,
		ConnectorUpdatedAt:  m.ConnectorUpdatedAt,
		Evidence:            json.RawMessage(m.Evidence),
		CreatedAt:           m.CreatedAt,
		ModifiedAt:          m.ModifiedAt,
	}
}

func toMerchantConnectorAccountModel(a *domain.MerchantConnectorAccount) (MerchantConnectorAccountModel, error) {
	auth, err := a.Auth.EncodeCredentials()
	if err != nil {
		return MerchantConnectorAccountModel{}, err
	}
	var metadata []byte
	if len(a.Metadata) > 0 {
		metadata = a.Metadata
	}
	return MerchantConnectorAccountModel{
		ID:            a.ID,
		MerchantID:    a.MerchantID,
		ConnectorName: a.ConnectorName,
		Auth:          auth,
		Metadata:      metadata,
		WebhookSecret: nullable(a.WebhookSecret.Expose()),
		TestMode:      a.TestMode,
		Disabled:      a.Disabled,
		CreatedAt:     a.CreatedAt,
		ModifiedAt:    a.ModifiedAt,
	}, nil
}

func toMerchantConnectorAccountDomain(m MerchantConnectorAccountModel) (*domain.MerchantConnectorAccount, error) {
	var auth domain.ConnectorAuthType
	if err := json.Unmarshal(m.Auth, &auth); err != nil {
		return nil, err
	}
	return &domain.MerchantConnectorAccount{
		ID:            m.ID,
		MerchantID:    m.MerchantID,
		ConnectorName: m.ConnectorName,
		Auth:          auth,
		Metadata:      json.RawMessage(m.Metadata),
		WebhookSecret: domain.Secret(deref(m.WebhookSecret)),
		TestMode:      m.TestMode,
		Disabled:      m.Disabled,
		CreatedAt:     m.CreatedAt,
		ModifiedAt:    m.ModifiedAt,
	}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
