package testhelpers

import (
	"context"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockPredictionRepository is a mock implementation of PredictionRepository
type MockPredictionRepository struct {
	mock.Mock
}

func (m *MockPredictionRepository) Create(ctx context.Context, prediction *entities.Prediction) error {
	args := m.Called(ctx, prediction)
	return args.Error(0)
}

func (m *MockPredictionRepository) GetByID(ctx context.Context, id int64) (*entities.Prediction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Prediction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Prediction), args.Error(1)
}

func (m *MockPredictionRepository) Update(ctx context.Context, prediction *entities.Prediction) error {
	args := m.Called(ctx, prediction)
	return args.Error(0)
}

func (m *MockPredictionRepository) AddToPool(ctx context.Context, id int64, outcome entities.Outcome, amount int64) error {
	args := m.Called(ctx, id, outcome, amount)
	return args.Error(0)
}

func (m *MockPredictionRepository) ListActive(ctx context.Context) ([]*entities.Prediction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Prediction), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *entities.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByPrediction(ctx context.Context, predictionID int64) ([]*entities.Bet, error) {
	args := m.Called(ctx, predictionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByUserAndPrediction(ctx context.Context, predictionID, userID int64) (*entities.Bet, error) {
	args := m.Called(ctx, predictionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) UpdatePayouts(ctx context.Context, bets []*entities.Bet) error {
	args := m.Called(ctx, bets)
	return args.Error(0)
}

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetOrCreate(ctx context.Context, userID int64, initialBalance int64) (*entities.Wallet, bool, error) {
	args := m.Called(ctx, userID, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entities.Wallet), args.Bool(1), args.Error(2)
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID int64, amount int64) (int64, bool, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

// MockPointTransactionRepository is a mock implementation of PointTransactionRepository
type MockPointTransactionRepository struct {
	mock.Mock
}

func (m *MockPointTransactionRepository) Record(ctx context.Context, txn *entities.PointTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockPointTransactionRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.PointTransaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PointTransaction), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
