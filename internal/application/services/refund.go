package services

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/application"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/connector/executor"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/google/uuid"
)

type RefundService struct {
	registry application.ConnectorRegistry
	refunds  application.RefundRepository
	accounts application.MerchantConnectorAccountRepository
	tokens   application.AccessTokenProvider
	tx       application.Transactor
	exec     *executor.Executor
	logger   *slog.Logger
	newID    func() string
}

func NewRefundService(
	registry application.ConnectorRegistry,
	refunds application.RefundRepository,
	accounts application.MerchantConnectorAccountRepository,
	tokens application.AccessTokenProvider,
	tx application.Transactor,
	exec *executor.Executor,
	logger *slog.Logger,
) *RefundService {
	return &RefundService{
		registry: registry,
		refunds:  refunds,
		accounts: accounts,
		tokens:   tokens,
		tx:       tx,
		exec:     exec,
		logger:   logger,
		newID:    func() string { return "ref_" + uuid.NewString() },
	}
}

// Create stores a pending refund and sends it to the connector. A connector
// rejection is not an error: the refund comes back failed. When the outcome is
// unknown the refund stays pending for the sync worker.
func (s *RefundService) Create(ctx context.Context, cmd CreateRefundCommand) (*domain.Refund, error) {
	c, err := s.registry.Get(cmd.Connector)
	if err != nil {
		return nil, err
	}
	if !c.Flows().Supports(domain.FlowExecute) {
		return nil, apierrors.RefundNotPossible(c.ID())
	}
	account, err := loadAccount(ctx, s.accounts, cmd.MerchantID, c.ID())
	if err != nil {
		return nil, err
	}

	payment, err := domain.NewMoney(cmd.PaymentAmount, cmd.Currency)
	if err != nil {
		return nil, apierrors.InvalidRequestData(err.Error())
	}
	refund, err := domain.NewRefund(
		s.newID(),
		cmd.MerchantID,
		cmd.PaymentID,
		cmd.AttemptID,
		c.ID(),
		cmd.ConnectorTransactionID,
		payment,
		cmd.RefundAmount,
		cmd.Reason,
	)
	if err != nil {
		return nil, err
	}
	refund.PaymentMethod = cmd.PaymentMethod

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		refunded, err := s.refunds.SumActiveByPayment(ctx, refund.MerchantID, refund.Connector, refund.PaymentID)
		if err != nil {
			return err
		}
		if err := refund.FitsWithin(refunded); err != nil {
			return err
		}
		return s.refunds.Create(ctx, refund)
	})
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("refund_id", refund.ID, "connector", c.ID())
	data := refundRouterData(domain.FlowExecute, refund, account)
	data.Request.WebhookURL = cmd.WebhookURL
	data.Request.ConnectorMetadata = cmd.ConnectorMetadata

	out, callErr := s.call(ctx, c, account, c.Flows().Execute, data)
	switch {
	case callErr != nil && application.ReachedConnector(callErr):
		refund.SentToGateway = true
		logger.WarnContext(ctx, "refund outcome unknown, left for sync", "error", callErr)
	case callErr != nil:
		refund.ApplyConnectorError(errorCode(callErr), callErr.Error(), false)
		logger.ErrorContext(ctx, "refund not sent", "error", callErr)
	case out.ConnectorHTTPStatusCode >= http.StatusInternalServerError:
		errResp, _ := out.Response.ErrorResponse()
		refund.SentToGateway = true
		refund.RecordSyncError(errResp.Code, errResp.Message)
		logger.WarnContext(ctx, "connector failed on refund, left for sync", "status_code", out.ConnectorHTTPStatusCode)
	default:
		if err := applyRefundOutcome(refund, out); err != nil {
			return nil, err
		}
	}

	if err := s.refunds.Update(ctx, refund); err != nil {
		return nil, err
	}
	if callErr != nil && !application.ReachedConnector(callErr) {
		return refund, callErr
	}
	logger.InfoContext(ctx, "refund created", "status", refund.Status)
	return refund, nil
}

// Get returns the refund when it belongs to merchantID.
func (s *RefundService) Get(ctx context.Context, merchantID, refundID string) (*domain.Refund, error) {
	refund, err := s.refunds.FindByID(ctx, refundID)
	if err != nil {
		return nil, err
	}
	if refund.MerchantID != merchantID {
		return nil, apierrors.RefundNotFound()
	}
	return refund, nil
}

// Sync asks the connector for the refund's current status and stores it.
func (s *RefundService) Sync(ctx context.Context, merchantID, refundID string) (*domain.Refund, error) {
	refund, err := s.Get(ctx, merchantID, refundID)
	if err != nil {
		return nil, err
	}
	return s.sync(ctx, refund)
}

// SyncPending syncs up to limit refunds the connector has seen but not settled.
// A failure on one refund is logged and does not stop the others.
func (s *RefundService) SyncPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.refunds.FindPendingForSync(ctx, limit)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, refund := range pending {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}
		if _, err := s.sync(ctx, refund); err != nil {
			s.logger.WarnContext(ctx, "refund sync failed",
				"refund_id", refund.ID,
				"connector", refund.Connector,
				"category", application.CategorizeError(err),
				"error", err,
			)
			continue
		}
		synced++
	}
	return synced, nil
}

func (s *RefundService) sync(ctx context.Context, refund *domain.Refund) (*domain.Refund, error) {
	if refund.IsTerminal() {
		return refund, nil
	}
	c, err := s.registry.Get(refund.Connector)
	if err != nil {
		return nil, err
	}
	if !c.Flows().Supports(domain.FlowRSync) {
		return nil, connector.FlowNotSupported(string(domain.FlowRSync), c.ID())
	}
	account, err := loadAccount(ctx, s.accounts, refund.MerchantID, c.ID())
	if err != nil {
		return nil, err
	}

	// The connector call stays outside the transaction; only the write is locked.
	out, err := s.call(ctx, c, account, c.Flows().RSync, refundRouterData(domain.FlowRSync, refund, account))
	if err != nil {
		return nil, err
	}

	var updated *domain.Refund
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.refunds.FindByIDForUpdate(ctx, refund.ID)
		if err != nil {
			return err
		}
		updated = locked
		if locked.IsTerminal() {
			return nil
		}
		if errResp, ok := out.Response.ErrorResponse(); ok {
			locked.RecordSyncError(errResp.Code, errResp.Message)
		} else if err := applyRefundOutcome(locked, out); err != nil {
			return err
		}
		return s.refunds.Update(ctx, locked)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RefundService) call(
	ctx context.Context,
	c connector.Connector,
	account *domain.MerchantConnectorAccount,
	integration connector.Integration[domain.RefundsData, domain.RefundsResponseData],
	data *domain.RefundsRouterData,
) (*domain.RefundsRouterData, error) {
	if c.NeedsAccessToken(data.PaymentMethod) {
		token, err := s.tokens.Token(ctx, c, tokenRequest(account))
		if err != nil {
			return nil, err
		}
		data.AccessToken = token
	}
	out, err := executor.Execute(ctx, s.exec, c.ID(), integration, data)
	if err != nil {
		return nil, err
	}
	if out.ConnectorHTTPStatusCode == http.StatusUnauthorized && data.AccessToken != nil {
		if err := s.tokens.Invalidate(ctx, data.MerchantID, c.ID()); err != nil {
			s.logger.WarnContext(ctx, "failed to drop rejected access token", "connector", c.ID(), "error", err)
		}
	}
	return out, nil
}

func applyRefundOutcome(refund *domain.Refund, out *domain.RefundsRouterData) error {
	if errResp, ok := out.Response.ErrorResponse(); ok {
		refund.ApplyConnectorError(errResp.Code, errResp.Message, true)
		return nil
	}
	resp, ok := out.Response.Value()
	if !ok {
		// Flow produced nothing; the connector never saw the refund.
		return nil
	}
	return refund.ApplyConnectorResult(resp.ConnectorRefundID, resp.RefundStatus)
}

func refundRouterData(flow domain.Flow, refund *domain.Refund, account *domain.MerchantConnectorAccount) *domain.RefundsRouterData {
	reference := refund.AttemptID
	if reference == "" {
		reference = refund.PaymentID
	}
	var connectorRefundID string
	if refund.ConnectorRefundID != nil {
		connectorRefundID = *refund.ConnectorRefundID
	}
	return &domain.RefundsRouterData{
		Flow:                        flow,
		Connector:                   refund.Connector,
		MerchantID:                  refund.MerchantID,
		PaymentID:                   refund.PaymentID,
		AttemptID:                   refund.AttemptID,
		ConnectorRequestReferenceID: reference,
		RefundID:                    refund.ID,
		Status:                      domain.AttemptCharged,
		PaymentMethod:               refund.PaymentMethod,
		ConnectorAuthType:           account.Auth,
		ConnectorMetaData:           account.Metadata,
		TestMode:                    account.TestMode,
		Request: domain.RefundsData{
			RefundID:               refund.ID,
			ConnectorTransactionID: refund.ConnectorTransactionID,
			ConnectorRefundID:      connectorRefundID,
			Currency:               refund.Currency,
			PaymentAmount:          refund.PaymentAmount,
			RefundAmount:           refund.RefundAmount,
			Reason:                 refund.Reason,
		},
	}
}

func errorCode(err error) string {
	if cErr, ok := connector.AsError(err); ok {
		return string(cErr.Kind)
	}
	return string(application.CategorizeError(err))
}
