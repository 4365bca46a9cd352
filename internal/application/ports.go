package application

import (
	"context"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/connector/executor"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// RefundRepository is the port for refund persistence.
type RefundRepository interface {
	Create(ctx context.Context, refund *domain.Refund) error
	FindByID(ctx context.Context, id string) (*domain.Refund, error)
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Refund, error)
	FindByConnectorRefundID(ctx context.Context, merchantID, connector, connectorRefundID string) (*domain.Refund, error)
	FindPendingForSync(ctx context.Context, limit int) ([]*domain.Refund, error)
	// SumActiveByPayment totals the refunds of a payment that have not failed.
	// Inside a transaction it also serialises callers on the same payment.
	SumActiveByPayment(ctx context.Context, merchantID, connector, paymentID string) (domain.MinorUnit, error)
	Update(ctx context.Context, refund *domain.Refund) error
}

// DisputeRepository is the port for dispute persistence.
type DisputeRepository interface {
	Create(ctx context.Context, dispute *domain.Dispute) error
	FindByID(ctx context.Context, id string) (*domain.Dispute, error)
	FindByConnectorDisputeID(ctx context.Context, merchantID, connector, connectorDisputeID string) (*domain.Dispute, error)
	FindByPaymentID(ctx context.Context, merchantID, paymentID string) ([]*domain.Dispute, error)
	Update(ctx context.Context, dispute *domain.Dispute) error
}

type MerchantConnectorAccountRepository interface {
	Create(ctx context.Context, account *domain.MerchantConnectorAccount) error
	FindByMerchantAndConnector(ctx context.Context, merchantID, connector string) (*domain.MerchantConnectorAccount, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*domain.MerchantConnectorAccount, error)
}

// Transactor runs fn in one database transaction. Repositories called with
// the ctx handed to fn join it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ConnectorRegistry resolves a connector by name.
type ConnectorRegistry interface {
	Get(name string) (connector.Connector, error)
}

// AccessTokenProvider hands out bearer tokens for connectors that need one.
type AccessTokenProvider interface {
	Token(ctx context.Context, c connector.Connector, req executor.TokenRequest) (*domain.AccessToken, error)
	Invalidate(ctx context.Context, merchantID, connectorID string) error
}
