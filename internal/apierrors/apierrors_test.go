package apierrors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConnectorError_SpecificVariants(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		flow       domain.Flow
		wantCode   string
		wantStatus int
	}{
		{"missing field", connector.MissingRequiredField("connector_meta"), domain.FlowPSync, "IR_04", http.StatusBadRequest},
		{"not implemented", connector.NotImplemented("url"), domain.FlowSession, "IR_00", http.StatusNotImplemented},
		{"not supported", connector.NotSupported("manual capture", "zsl"), domain.FlowAuthorize, "IR_19", http.StatusBadRequest},
		{"flow not supported", connector.FlowNotSupported("psync", "zsl"), domain.FlowPSync, "IR_20", http.StatusBadRequest},
		{"auth type", connector.FailedToObtainAuthType(), domain.FlowAuthorize, "IR_23", http.StatusBadRequest},
		{"connector config", connector.InvalidConnectorConfig("metadata"), domain.FlowAuthorize, "IR_23", http.StatusBadRequest},
		{"processing step", connector.ProcessingStepFailed([]byte("boom")), domain.FlowAuthorize, "CE_00", http.StatusBadRequest},
		{"webhook verification", connector.WebhookSourceVerificationFailed(), "", "WE_01", http.StatusUnauthorized},
		{"webhook body", connector.WebhookBodyDecodingFailed(errors.New("eof")), "", "WE_02", http.StatusBadRequest},
		{"webhook reference", connector.WebhookReferenceIDNotFound(), "", "WE_04", http.StatusNotFound},
		{"wrapped", fmt.Errorf("building request: %w", connector.MissingRequiredField("amount")), domain.FlowCapture, "IR_04", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apierrors.FromConnectorError(tt.err, tt.flow)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestFromConnectorError_FoldsByFlow(t *testing.T) {
	deser := connector.ResponseDeserializationFailed(errors.New("unexpected EOF"))

	tests := []struct {
		flow     domain.Flow
		wantCode string
	}{
		{domain.FlowAuthorize, "CE_01"},
		{domain.FlowPSync, "CE_01"},
		{domain.FlowCompleteAuthorize, "CE_01"},
		{domain.FlowCapture, "CE_03"},
		{domain.FlowExecute, "CE_06"},
		{domain.FlowRSync, "CE_06"},
		{domain.FlowAccessTokenAuth, "HE_00"},
	}

	for _, tt := range tests {
		t.Run(string(tt.flow), func(t *testing.T) {
			got := apierrors.FromConnectorError(deser, tt.flow)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"refund not found", fmt.Errorf("get: %w", postgres.ErrRefundNotFound), "HE_02", http.StatusNotFound},
		{"dispute not found", postgres.ErrDisputeNotFound, "HE_02", http.StatusNotFound},
		{"duplicate refund", postgres.ErrDuplicateRefund, "HE_01", http.StatusBadRequest},
		{"deadline", context.DeadlineExceeded, "HE_04", http.StatusGatewayTimeout},
		{"amount exceeded", domain.NewAmountMismatchError(100, 200), "IR_13", http.StatusBadRequest},
		{"invalid transition", domain.NewInvalidRefundTransitionError(domain.RefundSuccess, domain.RefundFailure), "IR_16", http.StatusBadRequest},
		{"catalogue passthrough", apierrors.RefundNotPossible("zsl"), "HE_03", http.StatusBadRequest},
		{"unknown", errors.New("disk on fire"), "HE_00", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apierrors.FromError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}

	assert.Nil(t, apierrors.FromError(nil))
}

func TestAPIError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", apierrors.RefundNotFound())

	assert.ErrorIs(t, err, apierrors.ErrNotFound)
	assert.NotErrorIs(t, err, apierrors.ErrDuplicate)

	got, ok := apierrors.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, apierrors.TypeObjectNotFound, got.Type)
}

func TestCatalogue_MessageTemplates(t *testing.T) {
	assert.Equal(t, "Missing required param: connector_meta", apierrors.MissingRequiredField("connector_meta").Message)
	assert.Equal(t, "psync flow not supported by the zsl connector", apierrors.FlowNotSupported("psync", "zsl").Message)
	assert.Equal(t, "manual capture is not supported", apierrors.NotSupported("manual capture").Message)

	ext := apierrors.ExternalConnectorError("05", "Do not honour", "trustpay", 402)
	assert.Equal(t, "CE_00", ext.Code)
	assert.Equal(t, 402, ext.HTTPStatus)
	assert.Equal(t, "05: Do not honour", ext.Message)
}
