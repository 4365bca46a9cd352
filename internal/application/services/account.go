package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/application"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/google/uuid"
)

// CreateAccountCommand links a merchant to a connector with its credentials.
type CreateAccountCommand struct {
	MerchantID    string
	Connector     string
	Auth          domain.ConnectorAuthType
	Metadata      json.RawMessage
	WebhookSecret domain.Secret
	TestMode      bool
	Disabled      bool
}

// AccountService manages merchant connector accounts.
type AccountService struct {
	registry application.ConnectorRegistry
	accounts application.MerchantConnectorAccountRepository
	newID    func() string
}

func NewAccountService(registry application.ConnectorRegistry, accounts application.MerchantConnectorAccountRepository) *AccountService {
	return &AccountService{
		registry: registry,
		accounts: accounts,
		newID:    func() string { return "mca_" + uuid.NewString() },
	}
}

// Create checks the connector exists and accepts the metadata before storing the account.
func (s *AccountService) Create(ctx context.Context, cmd CreateAccountCommand) (*domain.MerchantConnectorAccount, error) {
	c, err := s.registry.Get(cmd.Connector)
	if err != nil {
		return nil, err
	}
	if err := cmd.Auth.Validate(); err != nil {
		return nil, apierrors.InvalidRequestData(err.Error())
	}
	if err := c.ValidateConnectorMetadata(cmd.Metadata); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.MerchantConnectorAccount{
		ID:            s.newID(),
		MerchantID:    cmd.MerchantID,
		ConnectorName: c.ID(),
		Auth:          cmd.Auth,
		Metadata:      cmd.Metadata,
		WebhookSecret: cmd.WebhookSecret,
		TestMode:      cmd.TestMode,
		Disabled:      cmd.Disabled,
		CreatedAt:     now,
		ModifiedAt:    now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) List(ctx context.Context, merchantID string) ([]*domain.MerchantConnectorAccount, error) {
	return s.accounts.ListByMerchant(ctx, merchantID)
}
