package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres"
	"github.com/DanielPopoola/connector-gateway/internal/storage/postgres/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	testDB   *testhelpers.TestDatabase
	refunds  *postgres.RefundRepository
	disputes *postgres.DisputeRepository
	accounts *postgres.MerchantConnectorAccountRepository
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container tests in short mode")
	}
	suite.Run(t, new(RepositoryTestSuite))
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.refunds = postgres.NewRefundRepository(suite.testDB.DB)
	suite.disputes = postgres.NewDisputeRepository(suite.testDB.DB)
	suite.accounts = postgres.NewMerchantConnectorAccountRepository(suite.testDB.DB)
}

func (suite *RepositoryTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *RepositoryTestSuite) TearDownTest() {
	suite.testDB.CleanTables(suite.T())
}

// ============================================================================
// REFUNDS
// ============================================================================

func (suite *RepositoryTestSuite) Test_Refund_CreateAndFind() {
	ctx := context.Background()
	refund := testhelpers.NewPendingRefund(suite.T(), "merchant_1")

	require.NoError(suite.T(), suite.refunds.Create(ctx, refund))

	saved, err := suite.refunds.FindByID(ctx, refund.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), refund.PaymentID, saved.PaymentID)
	assert.Equal(suite.T(), domain.MinorUnit(2500), saved.RefundAmount)
	assert.Equal(suite.T(), domain.Currency("USD"), saved.Currency)
	assert.Equal(suite.T(), domain.RefundPending, saved.Status)
	assert.Equal(suite.T(), "customer request", saved.Reason)
	assert.Equal(suite.T(), domain.PaymentMethodCard, saved.PaymentMethod)
	assert.Nil(suite.T(), saved.ConnectorRefundID)
}

func (suite *RepositoryTestSuite) Test_Refund_DuplicateID() {
	ctx := context.Background()
	refund := testhelpers.NewPendingRefund(suite.T(), "merchant_1")

	require.NoError(suite.T(), suite.refunds.Create(ctx, refund))
	err := suite.refunds.Create(ctx, refund)
	assert.ErrorIs(suite.T(), err, postgres.ErrDuplicateRefund)
}

func (suite *RepositoryTestSuite) Test_Refund_NotFound() {
	_, err := suite.refunds.FindByID(context.Background(), "missing")
	assert.ErrorIs(suite.T(), err, postgres.ErrRefundNotFound)

	err = suite.refunds.Update(context.Background(), testhelpers.NewPendingRefund(suite.T(), "m"))
	assert.ErrorIs(suite.T(), err, postgres.ErrRefundNotFound)
}

func (suite *RepositoryTestSuite) Test_Refund_UpdateAndLookupByConnectorRefundID() {
	ctx := context.Background()
	refund := testhelpers.NewPendingRefund(suite.T(), "merchant_1")
	require.NoError(suite.T(), suite.refunds.Create(ctx, refund))

	require.NoError(suite.T(), refund.ApplyConnectorResult("cref_1", domain.RefundPending))
	require.NoError(suite.T(), suite.refunds.Update(ctx, refund))

	found, err := suite.refunds.FindByConnectorRefundID(ctx, "merchant_1", "novalnet", "cref_1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), refund.ID, found.ID)
	assert.True(suite.T(), found.SentToGateway)

	_, err = suite.refunds.FindByConnectorRefundID(ctx, "merchant_2", "novalnet", "cref_1")
	assert.ErrorIs(suite.T(), err, postgres.ErrRefundNotFound)
}

func (suite *RepositoryTestSuite) Test_Refund_FindPendingForSync() {
	ctx := context.Background()

	notSent := testhelpers.NewPendingRefund(suite.T(), "merchant_1")
	require.NoError(suite.T(), suite.refunds.Create(ctx, notSent))

	sent := testhelpers.NewPendingRefund(suite.T(), "merchant_1")
	require.NoError(suite.T(), sent.ApplyConnectorResult("cref_sent", domain.RefundPending))
	require.NoError(suite.T(), suite.refunds.Create(ctx, sent))

	done := testhelpers.NewPendingRefund(suite.T(), "merchant_1")
	require.NoError(suite.T(), done.ApplyConnectorResult("cref_done", domain.RefundSuccess))
	require.NoError(suite.T(), suite.refunds.Create(ctx, done))

	pending, err := suite.refunds.FindPendingForSync(ctx, 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), pending, 1)
	assert.Equal(suite.T(), sent.ID, pending[0].ID)
}

func (suite *RepositoryTestSuite) Test_Refund_SumActiveByPayment() {
	ctx := context.Background()

	refundOf := func(paymentID, connectorRefundID string, status domain.RefundStatus) {
		refund := testhelpers.NewPendingRefund(suite.T(), "merchant_1")
		refund.PaymentID = paymentID
		require.NoError(suite.T(), refund.ApplyConnectorResult(connectorRefundID, status))
		require.NoError(suite.T(), suite.refunds.Create(ctx, refund))
	}
	refundOf("pay_1", "cref_1", domain.RefundSuccess)
	refundOf("pay_1", "cref_2", domain.RefundPending)
	refundOf("pay_1", "cref_3", domain.RefundFailure)
	refundOf("pay_1", "cref_4", domain.RefundTransactionFailure)
	refundOf("pay_2", "cref_5", domain.RefundSuccess)

	total, err := suite.refunds.SumActiveByPayment(ctx, "merchant_1", "novalnet", "pay_1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.MinorUnit(5000), total)

	err = suite.testDB.DB.WithTransaction(ctx, func(ctx context.Context) error {
		total, err = suite.refunds.SumActiveByPayment(ctx, "merchant_1", "novalnet", "pay_1")
		return err
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.MinorUnit(5000), total)

	none, err := suite.refunds.SumActiveByPayment(ctx, "merchant_2", "novalnet", "pay_1")
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), none)
}

func (suite *RepositoryTestSuite) Test_Refund_TransactionRollback() {
	ctx := context.Background()
	refund := testhelpers.NewPendingRefund(suite.T(), "merchant_1")
	require.NoError(suite.T(), suite.refunds.Create(ctx, refund))

	boom := errors.New("boom")
	err := suite.testDB.DB.WithTransaction(ctx, func(ctx context.Context) error {
		locked, err := suite.refunds.FindByIDForUpdate(ctx, refund.ID)
		if err != nil {
			return err
		}
		if err := locked.ApplyConnectorResult("cref_tx", domain.RefundSuccess); err != nil {
			return err
		}
		if err := suite.refunds.Update(ctx, locked); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(suite.T(), err, boom)

	saved, err := suite.refunds.FindByID(ctx, refund.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.RefundPending, saved.Status)
}

func (suite *RepositoryTestSuite) Test_Refund_ForUpdateRequiresTransaction() {
	_, err := suite.refunds.FindByIDForUpdate(context.Background(), "any")
	assert.Error(suite.T(), err)
}

// ============================================================================
// DISPUTES
// ============================================================================

func (suite *RepositoryTestSuite) Test_Dispute_CreateFindUpdate() {
	ctx := context.Background()
	dispute := testhelpers.NewOpenedDispute(suite.T(), "merchant_1", "pay_1")
	require.NoError(suite.T(), suite.disputes.Create(ctx, dispute))

	found, err := suite.disputes.FindByConnectorDisputeID(ctx, "merchant_1", "novalnet", dispute.ConnectorDisputeID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), dispute.ID, found.ID)
	assert.Equal(suite.T(), domain.DisputeStageDispute, found.Stage)
	assert.Equal(suite.T(), domain.DisputeOpened, found.Status)
	require.NotNil(suite.T(), found.ConnectorReason)
	assert.Equal(suite.T(), "fraudulent", *found.ConnectorReason)
	assert.JSONEq(suite.T(), `{"receipt":"r_1"}`, string(found.Evidence))
	require.NotNil(suite.T(), found.ChallengeRequiredBy)
	assert.True(suite.T(), dispute.ChallengeRequiredBy.Equal(*found.ChallengeRequiredBy))

	require.NoError(suite.T(), found.Update(domain.DisputeWon, domain.DisputePayload{
		Stage:              domain.DisputeStageDispute,
		ConnectorStatus:    "WON",
		ConnectorDisputeID: dispute.ConnectorDisputeID,
	}))
	require.NoError(suite.T(), suite.disputes.Update(ctx, found))

	saved, err := suite.disputes.FindByID(ctx, dispute.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.DisputeWon, saved.Status)
	assert.Equal(suite.T(), "WON", saved.ConnectorStatus)
}

func (suite *RepositoryTestSuite) Test_Dispute_DuplicateConnectorDisputeID() {
	ctx := context.Background()
	first := testhelpers.NewOpenedDispute(suite.T(), "merchant_1", "pay_1")
	require.NoError(suite.T(), suite.disputes.Create(ctx, first))

	second := testhelpers.NewOpenedDispute(suite.T(), "merchant_1", "pay_1")
	second.ConnectorDisputeID = first.ConnectorDisputeID
	assert.ErrorIs(suite.T(), suite.disputes.Create(ctx, second), postgres.ErrDuplicateDispute)
}

func (suite *RepositoryTestSuite) Test_Dispute_FindByPaymentID() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.disputes.Create(ctx, testhelpers.NewOpenedDispute(suite.T(), "merchant_1", "pay_1")))
	require.NoError(suite.T(), suite.disputes.Create(ctx, testhelpers.NewOpenedDispute(suite.T(), "merchant_1", "pay_1")))
	require.NoError(suite.T(), suite.disputes.Create(ctx, testhelpers.NewOpenedDispute(suite.T(), "merchant_1", "pay_2")))

	list, err := suite.disputes.FindByPaymentID(ctx, "merchant_1", "pay_1")
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), list, 2)

	_, err = suite.disputes.FindByID(ctx, "missing")
	assert.ErrorIs(suite.T(), err, postgres.ErrDisputeNotFound)
}

// ============================================================================
// MERCHANT CONNECTOR ACCOUNTS
// ============================================================================

func (suite *RepositoryTestSuite) Test_MerchantConnectorAccount_StoresCredentialsUnmasked() {
	ctx := context.Background()
	account := testhelpers.NewMerchantConnectorAccount("merchant_1", "novalnet",
		domain.SignatureKey("api_key", "key_1", "api_secret"))
	require.NoError(suite.T(), suite.accounts.Create(ctx, account))

	found, err := suite.accounts.FindByMerchantAndConnector(ctx, "merchant_1", "novalnet")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.AuthTypeSignatureKey, found.Auth.AuthType)
	assert.Equal(suite.T(), "api_key", found.Auth.APIKey.Expose())
	assert.Equal(suite.T(), "api_secret", found.Auth.APISecret.Expose())
	assert.Equal(suite.T(), "whsec_test", found.WebhookSecret.Expose())
	assert.JSONEq(suite.T(), `{"tenant_id":"t_1"}`, string(found.Metadata))
	assert.True(suite.T(), found.TestMode)
}

func (suite *RepositoryTestSuite) Test_MerchantConnectorAccount_UniquePerConnector() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.accounts.Create(ctx,
		testhelpers.NewMerchantConnectorAccount("merchant_1", "zsl", domain.BodyKey("k", "m"))))

	err := suite.accounts.Create(ctx,
		testhelpers.NewMerchantConnectorAccount("merchant_1", "zsl", domain.BodyKey("k2", "m2")))
	assert.ErrorIs(suite.T(), err, postgres.ErrDuplicateMerchantConnectorAccount)

	list, err := suite.accounts.ListByMerchant(ctx, "merchant_1")
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), list, 1)

	_, err = suite.accounts.FindByMerchantAndConnector(ctx, "merchant_1", "payme")
	assert.ErrorIs(suite.T(), err, postgres.ErrMerchantConnectorAccountNotFound)
}
