package services

import (
	"context"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/config"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/utils"
)

type walletService struct {
	config         *config.Config
	walletRepo     interfaces.WalletRepository
	ledgerRepo     interfaces.PointTransactionRepository
	eventPublisher interfaces.EventPublisher
}

// NewWalletService creates a new wallet service
func NewWalletService(
	walletRepo interfaces.WalletRepository,
	ledgerRepo interfaces.PointTransactionRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.WalletService {
	return &walletService{
		config:         config.Get(),
		walletRepo:     walletRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
	}
}

// GetOrCreateWallet returns the user's wallet, provisioning it with the
// configured starting balance on first access. The created flag from the
// repository decides who records the initial grant, so two racing first
// requests produce exactly one ledger entry.
func (s *walletService) GetOrCreateWallet(ctx context.Context, userID int64) (*entities.Wallet, error) {
	wallet, created, err := s.walletRepo.GetOrCreate(ctx, userID, s.config.StartingBalance)
	if err != nil {
		return nil, err
	}
	if !created {
		return wallet, nil
	}

	txn := &entities.PointTransaction{
		UserID:          userID,
		BalanceBefore:   0,
		BalanceAfter:    wallet.Points,
		ChangeAmount:    wallet.Points,
		TransactionType: entities.TransactionTypeInitial,
	}
	if err := utils.RecordBalanceChange(ctx, s.ledgerRepo, s.eventPublisher, txn); err != nil {
		return nil, err
	}

	return wallet, nil
}

// GetTransactionHistory returns recent ledger entries for a user
func (s *walletService) GetTransactionHistory(ctx context.Context, userID int64, limit int) ([]*entities.PointTransaction, error) {
	return s.ledgerRepo.GetByUser(ctx, userID, limit)
}
