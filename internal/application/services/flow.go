package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/application"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/connector/executor"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// FlowService runs single payment flows against connectors using the merchant's
// stored account.
type FlowService struct {
	registry application.ConnectorRegistry
	accounts application.MerchantConnectorAccountRepository
	tokens   application.AccessTokenProvider
	exec     *executor.Executor
	logger   *slog.Logger
}

func NewFlowService(
	registry application.ConnectorRegistry,
	accounts application.MerchantConnectorAccountRepository,
	tokens application.AccessTokenProvider,
	exec *executor.Executor,
	logger *slog.Logger,
) *FlowService {
	return &FlowService{
		registry: registry,
		accounts: accounts,
		tokens:   tokens,
		exec:     exec,
		logger:   logger,
	}
}

func (s *FlowService) Run(ctx context.Context, cmd FlowCommand) (*FlowResult, error) {
	c, err := s.registry.Get(cmd.Connector)
	if err != nil {
		return nil, err
	}
	if cmd.Flow == domain.FlowAccessTokenAuth {
		return nil, apierrors.InvalidRequestData("access tokens are obtained by the gateway")
	}
	if !c.Flows().Supports(cmd.Flow) {
		return nil, connector.FlowNotSupported(string(cmd.Flow), c.ID())
	}

	account, err := loadAccount(ctx, s.accounts, cmd.MerchantID, c.ID())
	if err != nil {
		return nil, err
	}
	if err := c.ValidateConnectorMetadata(account.Metadata); err != nil {
		return nil, err
	}

	f := c.Flows()
	switch cmd.Flow {
	case domain.FlowAuthorize:
		return runFlow(ctx, s, c, account, cmd, f.Authorize, func(data *domain.PaymentsAuthorizeRouterData) error {
			pm := data.Request.PaymentMethodData
			if data.PaymentMethod == "" {
				data.PaymentMethod = pm.Method()
			}
			if err := c.ValidateCaptureMethod(data.Request.CaptureMethod, pm.MethodType()); err != nil {
				return err
			}
			if data.Request.IsMandatePayment() {
				return c.ValidateMandatePayment(pm.MethodType(), pm)
			}
			return nil
		})
	case domain.FlowCapture:
		return runFlow(ctx, s, c, account, cmd, f.Capture, nil)
	case domain.FlowVoid:
		return runFlow(ctx, s, c, account, cmd, f.Void, nil)
	case domain.FlowPSync:
		return runFlow(ctx, s, c, account, cmd, f.PSync, func(data *domain.PaymentsSyncRouterData) error {
			return c.ValidatePsyncReferenceID(data.Request)
		})
	case domain.FlowExecute:
		return runFlow(ctx, s, c, account, cmd, f.Execute, nil)
	case domain.FlowRSync:
		return runFlow(ctx, s, c, account, cmd, f.RSync, nil)
	case domain.FlowSetupMandate:
		return runFlow(ctx, s, c, account, cmd, f.SetupMandate, func(data *domain.SetupMandateRouterData) error {
			pm := data.Request.PaymentMethodData
			if data.PaymentMethod == "" {
				data.PaymentMethod = pm.Method()
			}
			return c.ValidateMandatePayment(pm.MethodType(), pm)
		})
	case domain.FlowIncrementalAuthorization:
		return runFlow(ctx, s, c, account, cmd, f.IncrementalAuthorization, nil)
	case domain.FlowPreProcessing:
		return runFlow(ctx, s, c, account, cmd, f.PreProcessing, nil)
	case domain.FlowCompleteAuthorize:
		return runFlow(ctx, s, c, account, cmd, f.CompleteAuthorize, nil)
	case domain.FlowPaymentMethodToken:
		return runFlow(ctx, s, c, account, cmd, f.PaymentMethodToken, nil)
	case domain.FlowSession:
		return runFlow(ctx, s, c, account, cmd, f.Session, nil)
	default:
		return nil, connector.FlowNotSupported(string(cmd.Flow), c.ID())
	}
}

func runFlow[Req, Resp any](
	ctx context.Context,
	s *FlowService,
	c connector.Connector,
	account *domain.MerchantConnectorAccount,
	cmd FlowCommand,
	integration connector.Integration[Req, Resp],
	prepare func(*domain.RouterData[Req, Resp]) error,
) (*FlowResult, error) {
	var req Req
	if len(cmd.Request) > 0 {
		if err := json.Unmarshal(cmd.Request, &req); err != nil {
			e := apierrors.InvalidRequestData("request does not match the " + string(cmd.Flow) + " payload")
			e.Reason = err.Error()
			return nil, e
		}
	}
	status := cmd.Status
	if status == "" {
		status = domain.AttemptStarted
	}
	data := &domain.RouterData[Req, Resp]{
		Flow:                        cmd.Flow,
		Connector:                   c.ID(),
		MerchantID:                  cmd.MerchantID,
		CustomerID:                  cmd.CustomerID,
		PaymentID:                   cmd.PaymentID,
		AttemptID:                   cmd.AttemptID,
		ConnectorRequestReferenceID: cmd.ConnectorRequestReferenceID,
		Status:                      status,
		PaymentMethod:               cmd.PaymentMethod,
		Description:                 cmd.Description,
		Address:                     cmd.Address,
		ConnectorAuthType:           account.Auth,
		ConnectorMetaData:           account.Metadata,
		TestMode:                    account.TestMode,
		Request:                     req,
	}
	if data.ConnectorRequestReferenceID == "" {
		data.ConnectorRequestReferenceID = cmd.AttemptID
	}
	if prepare != nil {
		if err := prepare(data); err != nil {
			return nil, err
		}
	}

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
		if err := s.tokens.Invalidate(ctx, cmd.MerchantID, c.ID()); err != nil {
			s.logger.WarnContext(ctx, "failed to drop rejected access token", "connector", c.ID(), "error", err)
		}
	}

	result := &FlowResult{
		Flow:                    out.Flow,
		Connector:               out.Connector,
		Status:                  out.Status,
		ConnectorHTTPStatusCode: out.ConnectorHTTPStatusCode,
	}
	if v, ok := out.Response.Value(); ok {
		result.Response = v
	}
	if e, ok := out.Response.ErrorResponse(); ok {
		result.Error = &e
	}
	return result, nil
}
