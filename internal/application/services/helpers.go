package services

import (
	"context"
	"errors"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/application"
	"github.com/DanielPopoola/connector-gateway/internal/connector/executor"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres"
)

// loadAccount returns the merchant's enabled account for a connector. A
// disabled account is reported exactly like a missing one.
func loadAccount(ctx context.Context, repo application.MerchantConnectorAccountRepository, merchantID, connectorName string) (*domain.MerchantConnectorAccount, error) {
	account, err := repo.FindByMerchantAndConnector(ctx, merchantID, connectorName)
	if err != nil {
		if errors.Is(err, postgres.ErrMerchantConnectorAccountNotFound) {
			return nil, apierrors.MerchantConnectorAccountNotFound(merchantID + "_" + connectorName)
		}
		return nil, err
	}
	if account.Disabled {
		return nil, apierrors.MerchantConnectorAccountNotFound(merchantID + "_" + connectorName)
	}
	return account, nil
}

func tokenRequest(account *domain.MerchantConnectorAccount) executor.TokenRequest {
	return executor.TokenRequest{
		MerchantID: account.MerchantID,
		Auth:       account.Auth,
		Metadata:   account.Metadata,
		TestMode:   account.TestMode,
	}
}
