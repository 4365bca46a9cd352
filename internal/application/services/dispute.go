package services

import (
	"context"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/application"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

type DisputeService struct {
	disputes application.DisputeRepository
}

func NewDisputeService(disputes application.DisputeRepository) *DisputeService {
	return &DisputeService{disputes: disputes}
}

func (s *DisputeService) Get(ctx context.Context, merchantID, disputeID string) (*domain.Dispute, error) {
	dispute, err := s.disputes.FindByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.MerchantID != merchantID {
		return nil, apierrors.DisputeNotFound(disputeID)
	}
	return dispute, nil
}

func (s *DisputeService) ListByPayment(ctx context.Context, merchantID, paymentID string) ([]*domain.Dispute, error) {
	if paymentID == "" {
		return nil, apierrors.MissingRequiredField("payment_id")
	}
	return s.disputes.FindByPaymentID(ctx, merchantID, paymentID)
}
