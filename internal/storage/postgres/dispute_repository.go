package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/jackc/pgx/v5"
)

var (
	ErrDisputeNotFound  = errors.New("dispute not found")
	ErrDuplicateDispute = errors.New("duplicate dispute")
)

const disputeColumns = `
	id, merchant_id, payment_id, attempt_id, connector, amount, currency,
	dispute_stage, dispute_status, connector_status, connector_dispute_id,
	connector_reason, connector_reason_code, challenge_required_by,
	connector_created_at, connector_updated_at, evidence, created_at, modified_at`

type DisputeRepository struct {
	db *DB
}

func NewDisputeRepository(db *DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

func (r *DisputeRepository) Create(ctx context.Context, dispute *domain.Dispute) error {
	query := `INSERT INTO disputes (` + disputeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	m := toDisputeModel(dispute)
	_, err := r.db.executor(ctx).Exec(ctx, query,
		m.ID,
		m.MerchantID,
		m.PaymentID,
		m.AttemptID,
		m.Connector,
		m.Amount,
		m.Currency,
		m.Stage,
		m.Status,
		m.ConnectorStatus,
		m.ConnectorDisputeID,
		m.ConnectorReason,
		m.ConnectorReasonCode,
		m.ChallengeRequiredBy,
		m.ConnectorCreatedAt,
		m.ConnectorUpdatedAt,
		m.Evidence,
		m.CreatedAt,
		m.ModifiedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateDispute
		}
		return fmt.Errorf("failed to create dispute: %w", err)
	}
	return nil
}

func (r *DisputeRepository) FindByID(ctx context.Context, id string) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`
	return scanDispute(r.db.executor(ctx).QueryRow(ctx, query, id))
}

// FindByConnectorDisputeID locks the row when called inside a transaction.
func (r *DisputeRepository) FindByConnectorDisputeID(ctx context.Context, merchantID, connector, connectorDisputeID string) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes
		WHERE merchant_id = $1 AND connector = $2 AND connector_dispute_id = $3`
	if inTransaction(ctx) {
		query += ` FOR UPDATE`
	}
	return scanDispute(r.db.executor(ctx).QueryRow(ctx, query, merchantID, connector, connectorDisputeID))
}

func (r *DisputeRepository) FindByPaymentID(ctx context.Context, merchantID, paymentID string) ([]*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes
		WHERE merchant_id = $1 AND payment_id = $2
		ORDER BY created_at ASC`

	rows, err := r.db.executor(ctx).Query(ctx, query, merchantID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("query disputes by payment_id: %w", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Dispute, error) {
		return scanDispute(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan disputes by payment_id: %w", err)
	}
	return results, nil
}

func (r *DisputeRepository) Update(ctx context.Context, dispute *domain.Dispute) error {
	query := `
		UPDATE disputes
		SET dispute_stage = $1, dispute_status = $2, connector_status = $3,
			connector_reason = $4, connector_reason_code = $5, challenge_required_by = $6,
			connector_created_at = $7, connector_updated_at = $8, evidence = $9, modified_at = $10
		WHERE id = $11
	`

	m := toDisputeModel(dispute)
	tag, err := r.db.executor(ctx).Exec(ctx, query,
		m.Stage,
		m.Status,
		m.ConnectorStatus,
		m.ConnectorReason,
		m.ConnectorReasonCode,
		m.ChallengeRequiredBy,
		m.ConnectorCreatedAt,
		m.ConnectorUpdatedAt,
		m.Evidence,
		m.ModifiedAt,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dispute: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDisputeNotFound
	}
	return nil
}

func scanDispute(row pgx.Row) (*domain.Dispute, error) {
	var m DisputeModel
	err := row.Scan(
		&m.ID, &m.MerchantID, &m.PaymentID, &m.AttemptID, &m.Connector, &m.Amount, &m.Currency,
		&m.Stage, &m.Status, &m.ConnectorStatus, &m.ConnectorDisputeID,
		&m.ConnectorReason, &m.ConnectorReasonCode, &m.ChallengeRequiredBy,
		&m.ConnectorCreatedAt, &m.ConnectorUpdatedAt, &m.Evidence, &m.CreatedAt, &m.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDisputeNotFound
		}
		return nil, fmt.Errorf("failed to scan dispute: %w", err)
	}
	return toDisputeDomain(m), nil
}
