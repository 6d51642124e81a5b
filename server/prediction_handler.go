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

// PredictionHandler handles HTTP requests for the prediction lifecycle and
// bet placement. Each request runs inside its own unit of work so every
// mutation commits or rolls back as a whole.
type PredictionHandler struct {
	uowFactory application.UnitOfWorkFactory
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(uowFactory application.UnitOfWorkFactory) *PredictionHandler {
	return &PredictionHandler{uowFactory: uowFactory}
}

// CreatePredictionRequest is the payload for POST /api/predictions
type CreatePredictionRequest struct {
	Title        string `json:"title" binding:"required"`
	OptionALabel string `json:"option_a_label" binding:"required"`
	OptionBLabel string `json:"option_b_label" binding:"required"`
	MinBet       int64  `json:"min_bet" binding:"required"`
	MaxBet       int64  `json:"max_bet" binding:"required"`
}

// PlaceBetRequest is the payload for POST /api/predictions/:id/bets
type PlaceBetRequest struct {
	Amount  int64  `json:"amount" binding:"required"`
	Outcome string `json:"outcome" binding:"required"`
}

// ResolveRequest is the payload for POST /api/predictions/:id/resolve
type ResolveRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

// PredictionResponse is the wire representation of a prediction
type PredictionResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	OptionALabel string     `json:"option_a_label"`
	OptionBLabel string     `json:"option_b_label"`
	Status       string     `json:"status"`
	Outcome      *string    `json:"outcome,omitempty"`
	OptionAPool  int64      `json:"option_a_pool"`
	OptionBPool  int64      `json:"option_b_pool"`
	TotalPool    int64      `json:"total_pool"`
	OddsPctA     int        `json:"odds_pct_a"`
	OddsPctB     int        `json:"odds_pct_b"`
	MinBet       int64      `json:"min_bet"`
	MaxBet       int64      `json:"max_bet"`
	CreatedAt    time.Time  `json:"created_at"`
	LockedAt     *time.Time `json:"locked_at,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// BetResponse is the wire representation of a bet
type BetResponse struct {
	ID               int64     `json:"id"`
	PredictionID     int64     `json:"prediction_id"`
	UserID           int64     `json:"user_id"`
	Amount           int64     `json:"amount"`
	PredictedOutcome string    `json:"predicted_outcome"`
	Payout           *int64    `json:"payout,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toPredictionResponse(p *entities.Prediction) *PredictionResponse {
	odds := services.CalculateOdds(p.OptionAPool, p.OptionBPool)
	resp := &PredictionResponse{
		ID:           p.ID,
		Title:        p.Title,
		OptionALabel: p.OptionALabel,
		OptionBLabel: p.OptionBLabel,
		Status:       string(p.Status),
		OptionAPool:  p.OptionAPool,
		OptionBPool:  p.OptionBPool,
		TotalPool:    p.TotalPool(),
		OddsPctA:     odds.PctA,
		OddsPctB:     odds.PctB,
		MinBet:       p.MinBet,
		MaxBet:       p.MaxBet,
		CreatedAt:    p.CreatedAt,
		LockedAt:     p.LockedAt,
		ResolvedAt:   p.ResolvedAt,
	}
	if p.Outcome != nil {
		outcome := string(*p.Outcome)
		resp.Outcome = &outcome
	}
	return resp
}

func toBetResponse(b *entities.Bet) *BetResponse {
	return &BetResponse{
		ID:               b.ID,
		PredictionID:     b.PredictionID,
		UserID:           b.UserID,
		Amount:           b.Amount,
		PredictedOutcome: string(b.PredictedOutcome),
		Payout:           b.Payout,
		CreatedAt:        b.CreatedAt,
	}
}

func predictionIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prediction id"})
		return 0, false
	}
	return id, true
}

// ListPredictions handles GET /api/predictions
func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	ctx := c.Request.Context()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	predictionService := services.NewPredictionService(
		uow.PredictionRepository(),
		uow.BetRepository(),
		uow.EventBus(),
	)

	predictions, err := predictionService.ListActivePredictions(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]*PredictionResponse, len(predictions))
	for i, p := range predictions {
		responses[i] = toPredictionResponse(p)
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions": responses,
		"total":       len(responses),
	})
}

// GetPrediction handles GET /api/predictions/:id
func (h *PredictionHandler) GetPrediction(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := predictionIDParam(c)
	if !ok {
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	predictionService := services.NewPredictionService(
		uow.PredictionRepository(),
		uow.BetRepository(),
		uow.EventBus(),
	)

	prediction, err := predictionService.GetPrediction(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPredictionResponse(prediction))
}

// CreatePrediction handles POST /api/predictions
func (h *PredictionHandler) CreatePrediction(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req CreatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	predictionService := services.NewPredictionService(
		uow.PredictionRepository(),
		uow.BetRepository(),
		uow.EventBus(),
	)

	prediction, err := predictionService.CreatePrediction(ctx, &userID, req.Title, req.OptionALabel, req.OptionBLabel, req.MinBet, req.MaxBet)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPredictionResponse(prediction))
}

// LockPrediction handles POST /api/predictions/:id/lock
func (h *PredictionHandler) LockPrediction(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, ok := predictionIDParam(c)
	if !ok {
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	predictionService := services.NewPredictionService(
		uow.PredictionRepository(),
		uow.BetRepository(),
		uow.EventBus(),
	)

	prediction, err := predictionService.Lock(ctx, id, &userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPredictionResponse(prediction))
}

// ResolvePrediction handles POST /api/predictions/:id/resolve
func (h *PredictionHandler) ResolvePrediction(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, ok := predictionIDParam(c)
	if !ok {
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, ok := entities.ParseOutcome(req.Outcome)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcome must be option_a or option_b"})
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	settlementEngine := services.NewSettlementEngine(
		uow.PredictionRepository(),
		uow.BetRepository(),
		uow.WalletRepository(),
		uow.PointTransactionRepository(),
		uow.EventBus(),
	)

	result, err := settlementEngine.Resolve(ctx, id, &userID, outcome)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prediction": toPredictionResponse(result.Prediction),
		"total_pool": result.TotalPool,
		"winners":    len(result.Winners),
		"losers":     len(result.Losers),
		"payouts":    result.Payouts,
	})
}

// PlaceBet handles POST /api/predictions/:id/bets
func (h *PredictionHandler) PlaceBet(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, ok := predictionIDParam(c)
	if !ok {
		return
	}

	var req PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, ok := entities.ParseOutcome(req.Outcome)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcome must be option_a or option_b"})
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	betService := services.NewBetPlacementService(
		uow.PredictionRepository(),
		uow.BetRepository(),
		uow.WalletRepository(),
		uow.PointTransactionRepository(),
		uow.EventBus(),
	)

	bet, err := betService.PlaceBet(ctx, id, userID, req.Amount, outcome)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := uow.Commit(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBetResponse(bet))
}

// GetUserBet handles GET /api/predictions/:id/bet
func (h *PredictionHandler) GetUserBet(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, ok := predictionIDParam(c)
	if !ok {
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		respondError(c, err)
		return
	}
	defer uow.Rollback()

	predictionService := services.NewPredictionService(
		uow.PredictionRepository(),
		uow.BetRepository(),
		uow.EventBus(),
	)

	bet, err := predictionService.GetUserBet(ctx, id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if bet == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no bet on this prediction"})
		return
	}

	c.JSON(http.StatusOK, toBetResponse(bet))
}
