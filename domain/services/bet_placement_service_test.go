package services

import (
	"context"
	"testing"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/config"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestBetPlacementService() (interfaces.BetPlacementService, *testhelpers.MockPredictionRepository, *testhelpers.MockBetRepository, *testhelpers.MockWalletRepository, *testhelpers.MockPointTransactionRepository, *testhelpers.MockEventPublisher) {
	config.SetTestConfig(config.NewTestConfig())

	mockPredictionRepo := new(testhelpers.MockPredictionRepository)
	mockBetRepo := new(testhelpers.MockBetRepository)
	mockWalletRepo := new(testhelpers.MockWalletRepository)
	mockLedgerRepo := new(testhelpers.MockPointTransactionRepository)
	mockEventPublisher := new(testhelpers.MockEventPublisher)

	service := NewBetPlacementService(mockPredictionRepo, mockBetRepo, mockWalletRepo, mockLedgerRepo, mockEventPublisher)
	return service, mockPredictionRepo, mockBetRepo, mockWalletRepo, mockLedgerRepo, mockEventPublisher
}

func TestBetPlacementService_PlaceBet_Success(t *testing.T) {
	ctx := context.Background()
	service, predictionRepo, betRepo, walletRepo, ledgerRepo, publisher := createTestBetPlacementService()
	defer config.ResetConfig()

	prediction := newTestPrediction(1, entities.PredictionStatusOpen, 300, 100)

	predictionRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(prediction, nil)
	betRepo.On("GetByUserAndPrediction", ctx, int64(1), TestUser1ID).Return(nil, nil)
	walletRepo.On("GetOrCreate", ctx, TestUser1ID, int64(1000)).Return(&entities.Wallet{UserID: TestUser1ID, Points: 1000}, false, nil)
	walletRepo.On("Debit", ctx, TestUser1ID, int64(100)).Return(int64(900), true, nil)
	betRepo.On("Create", ctx, mock.AnythingOfType("*entities.Bet")).Return(nil)
	predictionRepo.On("AddToPool", ctx, int64(1), entities.OutcomeOptionA, int64(100)).Return(nil)
	ledgerRepo.On("Record", ctx, mock.AnythingOfType("*entities.PointTransaction")).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	bet, err := service.PlaceBet(ctx, 1, TestUser1ID, 100, entities.OutcomeOptionA)

	require.NoError(t, err)
	assert.Equal(t, TestUser1ID, bet.UserID)
	assert.Equal(t, int64(100), bet.Amount)
	assert.Equal(t, entities.OutcomeOptionA, bet.PredictedOutcome)
	assert.Nil(t, bet.Payout)

	predictionRepo.AssertExpectations(t)
	betRepo.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

func TestBetPlacementService_PlaceBet_FirstContactRecordsInitialGrant(t *testing.T) {
	ctx := context.Background()
	service, predictionRepo, betRepo, walletRepo, ledgerRepo, publisher := createTestBetPlacementService()
	defer config.ResetConfig()

	prediction := newTestPrediction(1, entities.PredictionStatusOpen, 0, 0)

	predictionRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(prediction, nil)
	betRepo.On("GetByUserAndPrediction", ctx, int64(1), TestUser2ID).Return(nil, nil)
	// First contact: the wallet did not exist before this bet
	walletRepo.On("GetOrCreate", ctx, TestUser2ID, int64(1000)).Return(&entities.Wallet{UserID: TestUser2ID, Points: 1000}, true, nil)
	walletRepo.On("Debit", ctx, TestUser2ID, int64(100)).Return(int64(900), true, nil)
	betRepo.On("Create", ctx, mock.AnythingOfType("*entities.Bet")).Return(nil)
	predictionRepo.On("AddToPool", ctx, int64(1), entities.OutcomeOptionB, int64(100)).Return(nil)

	var recorded []entities.TransactionType
	ledgerRepo.On("Record", ctx, mock.AnythingOfType("*entities.PointTransaction")).Run(func(args mock.Arguments) {
		recorded = append(recorded, args.Get(1).(*entities.PointTransaction).TransactionType)
	}).Return(nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	_, err := service.PlaceBet(ctx, 1, TestUser2ID, 100, entities.OutcomeOptionB)

	require.NoError(t, err)
	// The starting grant and the stake each leave a ledger entry, so the
	// ledger sums to the balance even when the first contact is a bet
	require.Equal(t, []entities.TransactionType{
		entities.TransactionTypeInitial,
		entities.TransactionTypeBetPlaced,
	}, recorded)
	ledgerRepo.AssertNumberOfCalls(t, "Record", 2)
}

func TestBetPlacementService_PlaceBet_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		status    entities.PredictionStatus
		amount    int64
		checkErr  func(t *testing.T, err error)
	}{
		{
			name:   "locked prediction",
			status: entities.PredictionStatusLocked,
			amount: 100,
			checkErr: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
				assert.Contains(t, err.Error(), "locked")
			},
		},
		{
			name:   "resolved prediction",
			status: entities.PredictionStatusResolved,
			amount: 100,
			checkErr: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
				assert.Contains(t, err.Error(), "resolved")
			},
		},
		{
			name:   "amount below minimum",
			status: entities.PredictionStatusOpen,
			amount: 5,
			checkErr: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
		{
			name:   "amount above maximum",
			status: entities.PredictionStatusOpen,
			amount: 10001,
			checkErr: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, predictionRepo, _, _, _, _ := createTestBetPlacementService()
			defer config.ResetConfig()

			prediction := newTestPrediction(1, tt.status, 0, 0)
			predictionRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(prediction, nil)

			bet, err := service.PlaceBet(ctx, 1, TestUser1ID, tt.amount, entities.OutcomeOptionA)

			require.Error(t, err)
			assert.Nil(t, bet)
			tt.checkErr(t, err)
		})
	}
}

func TestBetPlacementService_PlaceBet_AmountOutOfRangeExample(t *testing.T) {
	// min 10, max 40, attempted 50
	ctx := context.Background()
	service, predictionRepo, _, _, _, _ := createTestBetPlacementService()
	defer config.ResetConfig()

	prediction := newTestPrediction(7, entities.PredictionStatusOpen, 0, 0)
	prediction.MinBet = 10
	prediction.MaxBet = 40
	predictionRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(prediction, nil)

	_, err := service.PlaceBet(ctx, 7, TestUser1ID, 50, entities.OutcomeOptionB)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestBetPlacementService_PlaceBet_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	service, predictionRepo, betRepo, walletRepo, _, _ := createTestBetPlacementService()
	defer config.ResetConfig()

	prediction := newTestPrediction(1, entities.PredictionStatusOpen, 0, 0)
	predictionRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(prediction, nil)
	betRepo.On("GetByUserAndPrediction", ctx, int64(1), TestUser1ID).Return(nil, nil)
	walletRepo.On("GetOrCreate", ctx, TestUser1ID, int64(1000)).Return(&entities.Wallet{UserID: TestUser1ID, Points: 150}, false, nil)
	// Conditional debit refuses: the balance does not cover the stake
	walletRepo.On("Debit", ctx, TestUser1ID, int64(500)).Return(int64(150), false, nil)

	bet, err := service.PlaceBet(ctx, 1, TestUser1ID, 500, entities.OutcomeOptionA)

	require.Error(t, err)
	assert.Nil(t, bet)
	assert.True(t, domain.IsInsufficientFunds(err))
	betRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBetPlacementService_PlaceBet_DuplicateBet(t *testing.T) {
	ctx := context.Background()
	service, predictionRepo, betRepo, _, _, _ := createTestBetPlacementService()
	defer config.ResetConfig()

	prediction := newTestPrediction(1, entities.PredictionStatusOpen, 100, 0)
	existing := newTestBet(5, 1, TestUser1ID, 100, entities.OutcomeOptionA)
	predictionRepo.On("GetByIDForUpdate", ctx, int64(1)).Return(prediction, nil)
	betRepo.On("GetByUserAndPrediction", ctx, int64(1), TestUser1ID).Return(existing, nil)

	_, err := service.PlaceBet(ctx, 1, TestUser1ID, 50, entities.OutcomeOptionB)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "already")
}

func TestBetPlacementService_PlaceBet_Unauthenticated(t *testing.T) {
	ctx := context.Background()
	service, _, _, _, _, _ := createTestBetPlacementService()
	defer config.ResetConfig()

	_, err := service.PlaceBet(ctx, 1, 0, 100, entities.OutcomeOptionA)

	require.Error(t, err)
	assert.True(t, domain.IsAuthorization(err))
}

func TestBetPlacementService_PlaceBet_PredictionNotFound(t *testing.T) {
	ctx := context.Background()
	service, predictionRepo, _, _, _, _ := createTestBetPlacementService()
	defer config.ResetConfig()

	predictionRepo.On("GetByIDForUpdate", ctx, int64(42)).Return(nil, nil)

	_, err := service.PlaceBet(ctx, 42, TestUser1ID, 100, entities.OutcomeOptionA)

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}
