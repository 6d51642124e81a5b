package repository

import (
	"context"
	"testing"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/application"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/config"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/entities"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/events"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/interfaces"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/domain/services"
	"github.com/Meliisa9/streamer-s-sanctuary-sub002/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturePublisher buffers events like the real transactional publisher and
// records what a commit would have delivered
type capturePublisher struct {
	pending   []events.Event
	flushed   []events.Event
	discarded int
}

func (p *capturePublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

func (p *capturePublisher) Flush(ctx context.Context) {
	p.flushed = append(p.flushed, p.pending...)
	p.pending = p.pending[:0]
}

func (p *capturePublisher) Discard() {
	p.discarded += len(p.pending)
	p.pending = p.pending[:0]
}

func betServiceFor(uow application.UnitOfWork) interfaces.BetPlacementService {
	return services.NewBetPlacementService(
		uow.PredictionRepository(),
		uow.BetRepository(),
		uow.WalletRepository(),
		uow.PointTransactionRepository(),
		uow.EventBus(),
	)
}

func TestUnitOfWork_SettlementRoundTrip(t *testing.T) {
	t.Parallel()
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	operatorID := int64(999999)

	factory := NewUnitOfWorkFactory(testDB.DB)
	publisher := &capturePublisher{}

	// Open a prediction, provision wallets and place the stakes
	uow := factory.CreateWithPublisher(publisher)
	require.NoError(t, uow.Begin(ctx))

	prediction := testutil.NewOpenPrediction("Win the grand final?")
	require.NoError(t, uow.PredictionRepository().Create(ctx, prediction))

	for _, userID := range []int64{1, 2, 3} {
		_, _, err := uow.WalletRepository().GetOrCreate(ctx, userID, 1000)
		require.NoError(t, err)
	}

	betService := betServiceFor(uow)
	_, err := betService.PlaceBet(ctx, prediction.ID, 1, 100, entities.OutcomeOptionA)
	require.NoError(t, err)
	_, err = betService.PlaceBet(ctx, prediction.ID, 2, 200, entities.OutcomeOptionA)
	require.NoError(t, err)
	_, err = betService.PlaceBet(ctx, prediction.ID, 3, 100, entities.OutcomeOptionB)
	require.NoError(t, err)

	require.NoError(t, uow.Commit())
	assert.NotEmpty(t, publisher.flushed)

	// Resolve for option_a in a fresh unit of work
	uow = factory.CreateWithPublisher(&capturePublisher{})
	require.NoError(t, uow.Begin(ctx))

	engine := services.NewSettlementEngine(
		uow.PredictionRepository(),
		uow.BetRepository(),
		uow.WalletRepository(),
		uow.PointTransactionRepository(),
		uow.EventBus(),
	)

	result, err := engine.Resolve(ctx, prediction.ID, &operatorID, entities.OutcomeOptionA)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	assert.Equal(t, int64(400), result.TotalPool)
	assert.Equal(t, int64(133), result.Payouts[1])
	assert.Equal(t, int64(266), result.Payouts[2])
	assert.Equal(t, int64(0), result.Payouts[3])

	// Committed wallet balances: stake already debited, winners credited
	walletRepo := NewWalletRepository(testDB.DB)
	wallet1, err := walletRepo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1033), wallet1.Points)

	wallet2, err := walletRepo.GetByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1066), wallet2.Points)

	wallet3, err := walletRepo.GetByUserID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(900), wallet3.Points)

	// The house keeps only the rounding remainder
	total := wallet1.Points + wallet2.Points + wallet3.Points
	assert.Equal(t, int64(2999), total)

	// Bets carry their persisted payouts
	bets, err := NewBetRepository(testDB.DB).GetByPrediction(ctx, prediction.ID)
	require.NoError(t, err)
	for _, bet := range bets {
		require.NotNil(t, bet.Payout)
		assert.Equal(t, result.Payouts[bet.UserID], *bet.Payout)
	}

	// Every wallet mutation left a ledger entry
	ledger := NewPointTransactionRepository(testDB.DB)
	txns, err := ledger.GetByUser(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, txns, 2) // bet_placed and payout

	// A second resolve must fail without touching any wallet
	uow = factory.CreateWithPublisher(&capturePublisher{})
	require.NoError(t, uow.Begin(ctx))

	engine = services.NewSettlementEngine(
		uow.PredictionRepository(),
		uow.BetRepository(),
		uow.WalletRepository(),
		uow.PointTransactionRepository(),
		uow.EventBus(),
	)
	_, err = engine.Resolve(ctx, prediction.ID, &operatorID, entities.OutcomeOptionA)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	require.NoError(t, uow.Rollback())

	wallet1Again, err := walletRepo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1033), wallet1Again.Points)
}

func TestUnitOfWork_RollbackDiscardsEverything(t *testing.T) {
	t.Parallel()
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB)

	// Seed a prediction and wallet in a committed transaction
	setup := factory.CreateWithPublisher(&capturePublisher{})
	require.NoError(t, setup.Begin(ctx))
	prediction := testutil.NewOpenPrediction("Flawless run?")
	require.NoError(t, setup.PredictionRepository().Create(ctx, prediction))
	_, _, err := setup.WalletRepository().GetOrCreate(ctx, 7, 1000)
	require.NoError(t, err)
	require.NoError(t, setup.Commit())

	// Place a bet but roll back instead of committing
	publisher := &capturePublisher{}
	uow := factory.CreateWithPublisher(publisher)
	require.NoError(t, uow.Begin(ctx))

	_, err = betServiceFor(uow).PlaceBet(ctx, prediction.ID, 7, 250, entities.OutcomeOptionA)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	// No bet, no debit, no pool growth, no events
	bet, err := NewBetRepository(testDB.DB).GetByUserAndPrediction(ctx, prediction.ID, 7)
	require.NoError(t, err)
	assert.Nil(t, bet)

	wallet, err := NewWalletRepository(testDB.DB).GetByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), wallet.Points)

	fetched, err := NewPredictionRepository(testDB.DB).GetByID(ctx, prediction.ID)
	require.NoError(t, err)
	assert.Zero(t, fetched.OptionAPool)

	assert.Empty(t, publisher.flushed)
	assert.Positive(t, publisher.discarded)
}

func TestUnitOfWork_ConcurrentBetsGrowPoolsAtomically(t *testing.T) {
	t.Parallel()
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB)

	setup := factory.CreateWithPublisher(&capturePublisher{})
	require.NoError(t, setup.Begin(ctx))
	prediction := testutil.NewOpenPrediction("Ace the tiebreaker?")
	require.NoError(t, setup.PredictionRepository().Create(ctx, prediction))
	for userID := int64(10); userID < 20; userID++ {
		_, _, err := setup.WalletRepository().GetOrCreate(ctx, userID, 1000)
		require.NoError(t, err)
	}
	require.NoError(t, setup.Commit())

	errCh := make(chan error, 10)
	for userID := int64(10); userID < 20; userID++ {
		go func(userID int64) {
			uow := factory.CreateWithPublisher(&capturePublisher{})
			if err := uow.Begin(ctx); err != nil {
				errCh <- err
				return
			}
			defer uow.Rollback()

			outcome := entities.OutcomeOptionA
			if userID%2 == 0 {
				outcome = entities.OutcomeOptionB
			}
			if _, err := betServiceFor(uow).PlaceBet(ctx, prediction.ID, userID, 100, outcome); err != nil {
				errCh <- err
				return
			}
			errCh <- uow.Commit()
		}(userID)
	}

	for i := 0; i < 10; i++ {
		require.NoError(t, <-errCh)
	}

	fetched, err := NewPredictionRepository(testDB.DB).GetByID(ctx, prediction.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), fetched.OptionAPool)
	assert.Equal(t, int64(500), fetched.OptionBPool)
	assert.Equal(t, int64(1000), fetched.TotalPool())

	bets, err := NewBetRepository(testDB.DB).GetByPrediction(ctx, prediction.ID)
	require.NoError(t, err)
	assert.Len(t, bets, 10)
}
