package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/application"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/observability"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres"
	"github.com/google/uuid"
)

// WebhookService authenticates incoming connector notifications and applies
// them to the refunds and disputes the gateway stores.
type WebhookService struct {
	registry application.ConnectorRegistry
	accounts application.MerchantConnectorAccountRepository
	refunds  application.RefundRepository
	disputes application.DisputeRepository
	tx       application.Transactor
	metrics  *observability.Metrics
	logger   *slog.Logger
	newID    func() string
}

func NewWebhookService(
	registry application.ConnectorRegistry,
	accounts application.MerchantConnectorAccountRepository,
	refunds application.RefundRepository,
	disputes application.DisputeRepository,
	tx application.Transactor,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		registry: registry,
		accounts: accounts,
		refunds:  refunds,
		disputes: disputes,
		tx:       tx,
		metrics:  metrics,
		logger:   logger,
		newID:    func() string { return "dp_" + uuid.NewString() },
	}
}

// Handle processes one webhook and returns what the connector expects back.
func (s *WebhookService) Handle(ctx context.Context, cmd WebhookCommand) (connector.WebhookAPIResponse, error) {
	c, err := s.registry.Get(cmd.Connector)
	if err != nil {
		return connector.WebhookAPIResponse{}, err
	}
	account, err := loadAccount(ctx, s.accounts, cmd.MerchantID, c.ID())
	if err != nil {
		return connector.WebhookAPIResponse{}, err
	}

	event, err := c.WebhookEventType(cmd.Request)
	if err != nil {
		return connector.WebhookAPIResponse{}, err
	}
	s.metrics.WebhookReceived(c.ID(), string(event))

	logger := s.logger.With("connector", c.ID(), "merchant_id", cmd.MerchantID, "event", event)
	if event == domain.EventNotSupported {
		logger.InfoContext(ctx, "webhook event ignored")
		return c.WebhookAPIResponse(cmd.Request)
	}

	secret := connector.WebhookSecret{Secret: []byte(account.WebhookSecret.Expose())}
	verified, err := connector.VerifyWebhookSource(c, cmd.Request, cmd.MerchantID, secret)
	if err != nil {
		return connector.WebhookAPIResponse{}, err
	}
	if !verified {
		logger.WarnContext(ctx, "webhook source verification failed")
		return connector.WebhookAPIResponse{}, apierrors.WebhookAuthenticationFailed()
	}

	ref, err := c.WebhookObjectReferenceID(cmd.Request)
	if err != nil {
		return connector.WebhookAPIResponse{}, err
	}
	logger = logger.With("reference_type", ref.Type, "reference_id", ref.ID)

	switch event.Class() {
	case domain.EventClassRefunds:
		err = s.applyRefundEvent(ctx, logger, c, cmd.MerchantID, event, ref)
	case domain.EventClassDisputes:
		err = s.applyDisputeEvent(ctx, logger, c, cmd, event, ref)
	default:
		// Payments live outside the gateway; the event is acknowledged only.
		logger.InfoContext(ctx, "webhook event acknowledged")
	}
	if err != nil {
		return connector.WebhookAPIResponse{}, err
	}

	return c.WebhookAPIResponse(cmd.Request)
}

func (s *WebhookService) applyRefundEvent(
	ctx context.Context,
	logger *slog.Logger,
	c connector.Connector,
	merchantID string,
	event domain.IncomingWebhookEvent,
	ref domain.ObjectReferenceID,
) error {
	refund, err := s.findRefund(ctx, c.ID(), merchantID, ref)
	if err != nil {
		if errors.Is(err, postgres.ErrRefundNotFound) {
			return apierrors.WebhookResourceNotFound()
		}
		return err
	}

	status := domain.RefundSuccess
	if event == domain.EventRefundFailure {
		status = domain.RefundFailure
	}
	var connectorRefundID string
	if ref.Type == domain.RefConnectorRefundID {
		connectorRefundID = ref.ID
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.refunds.FindByIDForUpdate(ctx, refund.ID)
		if err != nil {
			return err
		}
		if err := locked.ApplyConnectorResult(connectorRefundID, status); err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				logger.WarnContext(ctx, "stale refund webhook ignored", "refund_id", locked.ID, "status", locked.Status)
				return nil
			}
			return err
		}
		if err := s.refunds.Update(ctx, locked); err != nil {
			return err
		}
		logger.InfoContext(ctx, "refund updated from webhook", "refund_id", locked.ID, "status", locked.Status)
		return nil
	})
}

func (s *WebhookService) findRefund(ctx context.Context, connectorName, merchantID string, ref domain.ObjectReferenceID) (*domain.Refund, error) {
	switch ref.Type {
	case domain.RefConnectorRefundID:
		return s.refunds.FindByConnectorRefundID(ctx, merchantID, connectorName, ref.ID)
	case domain.RefRefundID:
		refund, err := s.refunds.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if refund.MerchantID != merchantID || refund.Connector != connectorName {
			return nil, postgres.ErrRefundNotFound
		}
		return refund, nil
	default:
		return nil, postgres.ErrRefundNotFound
	}
}

// applyDisputeEvent creates the dispute on first sight and moves it forward after.
// Disputes are keyed by the connector's dispute id; the payment reference of the
// webhook becomes the dispute's payment id.
func (s *WebhookService) applyDisputeEvent(
	ctx context.Context,
	logger *slog.Logger,
	c connector.Connector,
	cmd WebhookCommand,
	event domain.IncomingWebhookEvent,
	ref domain.ObjectReferenceID,
) error {
	status, _ := event.DisputeStatus()
	payload, err := c.DisputeDetails(cmd.Request)
	if err != nil {
		return err
	}
	if payload.Stage == "" {
		payload.Stage = domain.DisputeStageDispute
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.disputes.FindByConnectorDisputeID(ctx, cmd.MerchantID, c.ID(), payload.ConnectorDisputeID)
		switch {
		case errors.Is(err, postgres.ErrDisputeNotFound):
			var attemptID string
			if ref.Type == domain.RefPaymentAttemptID {
				attemptID = ref.ID
			}
			dispute, err := domain.NewDispute(s.newID(), cmd.MerchantID, ref.ID, attemptID, c.ID(), status, payload)
			if err != nil {
				return err
			}
			if err := s.disputes.Create(ctx, dispute); err != nil {
				return err
			}
			logger.InfoContext(ctx, "dispute created from webhook", "dispute_id", dispute.ID, "status", dispute.Status)
			return nil
		case err != nil:
			return err
		}

		if err := existing.Update(status, payload); err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				logger.WarnContext(ctx, "stale dispute webhook ignored", "dispute_id", existing.ID, "status", existing.Status)
				return nil
			}
			return err
		}
		if err := s.disputes.Update(ctx, existing); err != nil {
			return err
		}
		logger.InfoContext(ctx, "dispute updated from webhook", "dispute_id", existing.ID, "status", existing.Status)
		return nil
	})
}
