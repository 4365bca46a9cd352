package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/jackc/pgx/v5"
)

var (
	ErrRefundNotFound  = errors.New("refund not found")
	ErrDuplicateRefund = errors.New("duplicate refund")
)

const refundColumns = `
	id, merchant_id, payment_id, attempt_id, connector, connector_transaction_id,
	connector_refund_id, payment_amount, refund_amount, currency, status, reason,
	error_code, error_message, sent_to_gateway, payment_method, created_at, updated_at`

type RefundRepository struct {
	db *DB
}

func NewRefundRepository(db *DB) *RefundRepository {
	return &RefundRepository{db: db}
}

func (r *RefundRepository) Create(ctx context.Context, refund *domain.Refund) error {
	query := `INSERT INTO refunds (` + refundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	m := toRefundModel(refund)
	_, err := r.db.executor(ctx).Exec(ctx, query,
		m.ID,
		m.MerchantID,
		m.PaymentID,
		m.AttemptID,
		m.Connector,
		m.ConnectorTransactionID,
		m.ConnectorRefundID,
		m.PaymentAmount,
		m.RefundAmount,
		m.Currency,
		m.Status,
		m.Reason,
		m.ErrorCode,
		m.ErrorMessage,
		m.SentToGateway,
		m.PaymentMethod,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateRefund
		}
		return fmt.Errorf("failed to create refund: %w", err)
	}
	return nil
}

func (r *RefundRepository) FindByID(ctx context.Context, id string) (*domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE id = $1`
	return scanRefund(r.db.executor(ctx).QueryRow(ctx, query, id))
}

// FindByIDForUpdate locks the row for the surrounding transaction.
func (r *RefundRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Refund, error) {
	if !inTransaction(ctx) {
		return nil, errors.New("find refund for update outside a transaction")
	}
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE id = $1 FOR UPDATE`
	return scanRefund(r.db.executor(ctx).QueryRow(ctx, query, id))
}

func (r *RefundRepository) FindByConnectorRefundID(ctx context.Context, merchantID, connector, connectorRefundID string) (*domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds
		WHERE merchant_id = $1 AND connector = $2 AND connector_refund_id = $3`
	return scanRefund(r.db.executor(ctx).QueryRow(ctx, query, merchantID, connector, connectorRefundID))
}

func (r *RefundRepository) FindByPaymentID(ctx context.Context, merchantID, paymentID string) ([]*domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds
		WHERE merchant_id = $1 AND payment_id = $2
		ORDER BY created_at ASC`

	rows, err := r.db.executor(ctx).Query(ctx, query, merchantID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("query refunds by payment_id: %w", err)
	}
	results, err := pgx.CollectRows(rows, collectRefund)
	if err != nil {
		return nil, fmt.Errorf("scan refunds by payment_id: %w", err)
	}
	return results, nil
}

// FindPendingForSync returns refunds the connector has seen but not settled,
// least recently touched first.
func (r *RefundRepository) FindPendingForSync(ctx context.Context, limit int) ([]*domain.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds
		WHERE status IN ('pending', 'manual_review') AND sent_to_gateway
		ORDER BY updated_at ASC
		LIMIT $1`

	rows, err := r.db.executor(ctx).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending refunds: %w", err)
	}
	results, err := pgx.CollectRows(rows, collectRefund)
	if err != nil {
		return nil, fmt.Errorf("scan pending refunds: %w", err)
	}
	return results, nil
}

// SumActiveByPayment adds up refunds of the payment that are not failed. In a
// transaction it first takes an advisory lock on the payment, held until
// commit, so two refunds of one payment cannot both pass the check.
func (r *RefundRepository) SumActiveByPayment(ctx context.Context, merchantID, connector, paymentID string) (domain.MinorUnit, error) {
	exec := r.db.executor(ctx)
	if inTransaction(ctx) {
		lock := `SELECT pg_advisory_xact_lock(hashtextextended($1::text || '/' || $2::text || '/' || $3::text, 0))`
		if _, err := exec.Exec(ctx, lock, merchantID, connector, paymentID); err != nil {
			return 0, fmt.Errorf("lock payment refunds: %w", err)
		}
	}

	query := `SELECT COALESCE(SUM(refund_amount), 0) FROM refunds
		WHERE merchant_id = $1 AND connector = $2 AND payment_id = $3
			AND status NOT IN ('failure', 'transaction_failure')`

	var total int64
	if err := exec.QueryRow(ctx, query, merchantID, connector, paymentID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum refunds by payment_id: %w", err)
	}
	return domain.MinorUnit(total), nil
}

func (r *RefundRepository) Update(ctx context.Context, refund *domain.Refund) error {
	query := `
		UPDATE refunds
		SET connector_refund_id = $1, status = $2, error_code = $3, error_message = $4,
			sent_to_gateway = $5, updated_at = $6
		WHERE id = $7
	`

	m := toRefundModel(refund)
	tag, err := r.db.executor(ctx).Exec(ctx, query,
		m.ConnectorRefundID,
		m.Status,
		m.ErrorCode,
		m.ErrorMessage,
		m.SentToGateway,
		m.UpdatedAt,
		m.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateRefund
		}
		return fmt.Errorf("failed to update refund: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRefundNotFound
	}
	return nil
}

func scanRefund(row pgx.Row) (*domain.Refund, error) {
	var m RefundModel
	err := row.Scan(
		&m.ID, &m.MerchantID, &m.PaymentID, &m.AttemptID, &m.Connector, &m.ConnectorTransactionID,
		&m.ConnectorRefundID, &m.PaymentAmount, &m.RefundAmount, &m.Currency, &m.Status, &m.Reason,
		&m.ErrorCode, &m.ErrorMessage, &m.SentToGateway, &m.PaymentMethod, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRefundNotFound
		}
		return nil, fmt.Errorf("failed to scan refund: %w", err)
	}
	return toRefundDomain(m), nil
}

func collectRefund(row pgx.CollectableRow) (*domain.Refund, error) {
	return scanRefund(row)
}
