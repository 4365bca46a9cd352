package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/jackc/pgx/v5"
)

var (
	ErrMerchantConnectorAccountNotFound  = errors.New("merchant connector account not found")
	ErrDuplicateMerchantConnectorAccount = errors.New("duplicate merchant connector account")
)

const merchantConnectorAccountColumns = `
	id, merchant_id, connector_name, auth, metadata, webhook_secret,
	test_mode, disabled, created_at, modified_at`

type MerchantConnectorAccountRepository struct {
	db *DB
}

func NewMerchantConnectorAccountRepository(db *DB) *MerchantConnectorAccountRepository {
	return &MerchantConnectorAccountRepository{db: db}
}

func (r *MerchantConnectorAccountRepository) Create(ctx context.Context, account *domain.MerchantConnectorAccount) error {
	query := `INSERT INTO merchant_connector_accounts (` + merchantConnectorAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	m, err := toMerchantConnectorAccountModel(account)
	if err != nil {
		return fmt.Errorf("encode merchant connector account: %w", err)
	}
	_, err = r.db.executor(ctx).Exec(ctx, query,
		m.ID,
		m.MerchantID,
		m.ConnectorName,
		m.Auth,
		m.Metadata,
		m.WebhookSecret,
		m.TestMode,
		m.Disabled,
		m.CreatedAt,
		m.ModifiedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateMerchantConnectorAccount
		}
		return fmt.Errorf("failed to create merchant connector account: %w", err)
	}
	return nil
}

// FindByMerchantAndConnector returns the account even when disabled; callers decide.
func (r *MerchantConnectorAccountRepository) FindByMerchantAndConnector(ctx context.Context, merchantID, connector string) (*domain.MerchantConnectorAccount, error) {
	query := `SELECT ` + merchantConnectorAccountColumns + ` FROM merchant_connector_accounts
		WHERE merchant_id = $1 AND connector_name = $2`
	return scanMerchantConnectorAccount(r.db.executor(ctx).QueryRow(ctx, query, merchantID, connector))
}

func (r *MerchantConnectorAccountRepository) ListByMerchant(ctx context.Context, merchantID string) ([]*domain.MerchantConnectorAccount, error) {
	query := `SELECT ` + merchantConnectorAccountColumns + ` FROM merchant_connector_accounts
		WHERE merchant_id = $1
		ORDER BY connector_name ASC`

	rows, err := r.db.executor(ctx).Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("query merchant connector accounts: %w", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.MerchantConnectorAccount, error) {
		return scanMerchantConnectorAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan merchant connector accounts: %w", err)
	}
	return results, nil
}

func scanMerchantConnectorAccount(row pgx.Row) (*domain.MerchantConnectorAccount, error) {
	var m MerchantConnectorAccountModel
	err := row.Scan(
		&m.ID, &m.MerchantID, &m.ConnectorName, &m.Auth, &m.Metadata, &m.WebhookSecret,
		&m.TestMode, &m.Disabled, &m.CreatedAt, &m.ModifiedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMerchantConnectorAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan merchant connector account: %w", err)
	}
	account, err := toMerchantConnectorAccountDomain(m)
	if err != nil {
		return nil, fmt.Errorf("decode merchant connector account %s: %w", m.ID, err)
	}
	return account, nil
}
