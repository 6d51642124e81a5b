package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/application"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/services"

	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 50

// WalletHandler handles HTTP requests for wallet balances and the ledger
type WalletHandler struct {
	uowFactory application.UnitOfWorkFactory
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(uowFactory application.UnitOfWorkFactory) *WalletHandler {
	return &WalletHandler{uowFactory: uowFactory}
}

// WalletResponse is the wire representation of a wallet
type WalletResponse struct {
	UserID    int64     `json:"user_id"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionResponse is the wire representation of a ledger entry
type TransactionResponse struct {
	ID              int64     `json:"id"`
	BalanceBefore   int64     `json:"balance_before"`
	BalanceAfter    int64     `json:"balance_after"`
	ChangeAmount    int64     `json:"change_amount"`
	TransactionType string    `json:"transaction_type"`
	PredictionID    *int64    `json:"prediction_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func toTransactionResponse(txn *entities.PointTransaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              txn.ID,
		BalanceBefore:   txn.BalanceBefore,
		BalanceAfter:    txn.BalanceAfter,
		ChangeAmount:    txn.ChangeAmount,
		TransactionType: string(txn.TransactionType),
		PredictionID:    txn.PredictionID,
		CreatedAt:       txn.CreatedAt,
	}
}

// GetWallet handles GET /api/wallet. Provisions the wallet with the starting
// balance on first access.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	walletService := services.NewWalletService(
		uow.WalletRepository(),
		uow.PointTransactionRepository(),
		uow.EventBus(),
	)

	wallet, err := walletService.GetOrCreateWallet(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, &WalletResponse{
		UserID:    wallet.UserID,
		Points:    wallet.Points,
		CreatedAt: wallet.CreatedAt,
		UpdatedAt: wallet.UpdatedAt,
	})
}

// GetTransactions handles GET /api/wallet/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = parsed
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	walletService := services.NewWalletService(
		uow.WalletRepository(),
		uow.PointTransactionRepository(),
		uow.EventBus(),
	)

	txns, err := walletService.GetTransactionHistory(ctx, userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]*TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = toTransactionResponse(txn)
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": responses,
		"total":        len(responses),
	})
}
