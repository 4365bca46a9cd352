package handlers

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/connector-gateway/internal/application/services"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

type ConnectorCatalog interface {
	Get(name string) (connector.Connector, error)
	List() []connector.Connector
}

type FlowRunner interface {
	Run(ctx context.Context, cmd services.FlowCommand) (*services.FlowResult, error)
}

type RefundService interface {
	Create(ctx context.Context, cmd services.CreateRefundCommand) (*domain.Refund, error)
	Get(ctx context.Context, merchantID, refundID string) (*domain.Refund, error)
	Sync(ctx context.Context, merchantID, refundID string) (*domain.Refund, error)
}

type DisputeService interface {
	Get(ctx context.Context, merchantID, disputeID string) (*domain.Dispute, error)
	ListByPayment(ctx context.Context, merchantID, paymentID string) ([]*domain.Dispute, error)
}

type WebhookService interface {
	Handle(ctx context.Context, cmd services.WebhookCommand) (connector.WebhookAPIResponse, error)
}

type AccountService interface {
	Create(ctx context.Context, cmd services.CreateAccountCommand) (*domain.MerchantConnectorAccount, error)
	List(ctx context.Context, merchantID string) ([]*domain.MerchantConnectorAccount, error)
}

// Handlers serves the gateway's REST surface.
type Handlers struct {
	catalog  ConnectorCatalog
	flows    FlowRunner
	refunds  RefundService
	disputes DisputeService
	webhooks WebhookService
	accounts AccountService
	logger   *slog.Logger
}

func NewHandlers(
	catalog ConnectorCatalog,
	flows FlowRunner,
	refunds RefundService,
	disputes DisputeService,
	webhooks WebhookService,
	accounts AccountService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		catalog:  catalog,
		flows:    flows,
		refunds:  refunds,
		disputes: disputes,
		webhooks: webhooks,
		accounts: accounts,
		logger:   logger,
	}
}

var (
	_ FlowRunner     = (*services.FlowService)(nil)
	_ RefundService  = (*services.RefundService)(nil)
	_ DisputeService = (*services.DisputeService)(nil)
	_ WebhookService = (*services.WebhookService)(nil)
	_ AccountService = (*services.AccountService)(nil)
)
