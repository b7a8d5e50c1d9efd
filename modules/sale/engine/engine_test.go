package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/repository/memory"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0         = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	prizeToken = custody.Token("PRIZE")
	nftToken   = custody.Token("NFT#1")
)

const (
	owner   = "owner"
	admin   = "admin"
	creator = "creator"
	alice   = "alice"
	bob     = "bob"
	carol   = "carol"
	dave    = "dave"
)

var testConfig = ConfigParams{
	FeeBps:           250,
	CreationFee:      10,
	MinPeriod:        time.Hour,
	MaxPeriod:        30 * 24 * time.Hour,
	MinUnits:         1,
	MaxUnits:         1000,
	MaxWinners:       entity.MaxWinnerSlots,
	MaxWalletPct:     100,
	MinTimeExtension: time.Minute,
	MaxTimeExtension: time.Hour,
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []entity.Event
}

func (n *recordingNotifier) Notify(_ context.Context, events []entity.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, events...)
}

type testEnv struct {
	engine   *Engine
	repo     *memory.Repository
	notifier *recordingNotifier
	now      time.Time
}

func (env *testEnv) advance(d time.Duration) {
	env.now = env.now.Add(d)
}

func (env *testEnv) balance(t *testing.T, owner string, asset custody.Asset) uint64 {
	t.Helper()
	balance, err := env.repo.GetAccountBalance(context.Background(), owner, asset)
	require.NoError(t, err)
	return balance
}

// supply sums the asset over every known account and every holding.
func (env *testEnv) supply(t *testing.T, asset custody.Asset) uint64 {
	t.Helper()
	var total uint64
	for _, identity := range []string{owner, admin, creator, alice, bob, carol, dave} {
		total += env.balance(t, identity, asset)
	}
	holdings, err := env.repo.GetHoldings(context.Background(), "")
	require.NoError(t, err)
	for _, h := range holdings {
		if h.Asset == asset {
			total += h.Balance
		}
	}
	return total
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	deriver, err := custody.NewDeriver("0123456789abcdef-test")
	require.NoError(t, err)

	env := &testEnv{
		repo:     memory.NewRepository(),
		notifier: &recordingNotifier{},
		now:      t0,
	}
	env.engine = New(env.repo, deriver)
	env.engine.SetNowFunc(func() time.Time { return env.now })
	env.engine.SetNotifier(env.notifier)

	_, err = env.engine.InitConfig(ctx, owner, admin, testConfig)
	require.NoError(t, err)

	require.NoError(t, env.engine.Deposit(ctx, creator, custody.Native(), 1_000_000))
	require.NoError(t, env.engine.Deposit(ctx, creator, prizeToken, 10_000))
	require.NoError(t, env.engine.Deposit(ctx, creator, nftToken, 1))
	for _, identity := range []string{alice, bob, carol, dave} {
		require.NoError(t, env.engine.Deposit(ctx, identity, custody.Native(), 1000))
	}
	return env
}

func raffleParams() CreateParams {
	return CreateParams{
		Creator:       creator,
		StartTime:     t0.Add(time.Hour),
		EndTime:       t0.Add(25 * time.Hour),
		UnitPrice:     10,
		TotalUnits:    100,
		MaxWalletPct:  40,
		Prize:         entity.Prize{Kind: entity.PrizeFungibleAmount, Asset: prizeToken, Quantity: 1000},
		PaymentAsset:  custody.Native(),
		Mode:          entity.PayoutWeightedMulti,
		Shares:        []uint8{50, 30, 20},
		UniqueWinners: true,
	}
}

func TestInitConfig(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	config, err := env.engine.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, owner, config.Owner)
	assert.Equal(t, admin, config.Admin)
	assert.EqualValues(t, 250, config.FeeBps)

	_, err = env.engine.InitConfig(ctx, owner, admin, testConfig)
	assert.ErrorIs(t, err, entity.ErrConfigAlreadyInitialized)

	params := testConfig
	params.FeeBps = 10_001
	_, err = env.engine.UpdateConfig(ctx, owner, params)
	assert.ErrorIs(t, err, entity.ErrInvalidFeeRate)

	params.FeeBps = 100
	_, err = env.engine.UpdateConfig(ctx, admin, params)
	assert.ErrorIs(t, err, entity.ErrNotOwner)

	config, err = env.engine.UpdateConfig(ctx, owner, params)
	require.NoError(t, err)
	assert.EqualValues(t, 100, config.FeeBps)

	_, err = env.engine.SetAdmin(ctx, admin, alice)
	assert.ErrorIs(t, err, entity.ErrNotOwner)
	config, err = env.engine.SetAdmin(ctx, owner, alice)
	require.NoError(t, err)
	assert.Equal(t, alice, config.Admin)
}

func TestCreateLocksPrizeAndCollectsFee(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	sale, err := env.engine.Create(ctx, raffleParams())
	require.NoError(t, err)
	assert.EqualValues(t, 1, sale.ID)
	assert.Equal(t, entity.StatusInitialized, sale.Status)
	assert.EqualValues(t, 9_000, env.balance(t, creator, prizeToken))
	assert.EqualValues(t, 1_000_000-10, env.balance(t, creator, custody.Native()))

	holdings, err := env.engine.GetSaleHoldings(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, sale.PaymentHolding(), holdings[0].ID)
	assert.Equal(t, sale.PrizeHolding(), holdings[1].ID)
	assert.EqualValues(t, 1000, holdings[1].Balance)

	second, err := env.engine.Create(ctx, raffleParams())
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.ID)

	config, err := env.engine.GetConfig(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, config.SaleCount)
}

func TestCreateValidation(t *testing.T) {
	testcases := []struct {
		name     string
		mutate   func(p *CreateParams)
		expected error
	}{
		{"start in past", func(p *CreateParams) { p.StartTime = t0.Add(-time.Second) }, entity.ErrStartTimeInPast},
		{"end before start", func(p *CreateParams) { p.EndTime = p.StartTime }, entity.ErrStartTimeAfterEnd},
		{"period too short", func(p *CreateParams) { p.EndTime = p.StartTime.Add(time.Minute) }, entity.ErrInvalidSalePeriod},
		{"zero price", func(p *CreateParams) { p.UnitPrice = 0 }, entity.ErrInvalidZeroAmount},
		{"too many units", func(p *CreateParams) { p.TotalUnits = 1001 }, entity.ErrInvalidTotalUnits},
		{"increasing shares", func(p *CreateParams) { p.Shares = []uint8{30, 50, 20} }, entity.ErrInvalidWinShares},
		{"shares over 100", func(p *CreateParams) { p.Shares = []uint8{50, 30, 21} }, entity.ErrInvalidWinShares},
		{"too many winners", func(p *CreateParams) {
			p.Shares = []uint8{10, 10, 10, 10, 10, 10, 10, 10, 10, 5, 5}
		}, entity.ErrInvalidWinnersLength},
		{"winners exceed units", func(p *CreateParams) { p.TotalUnits = 2; p.MaxWalletPct = 50 }, entity.ErrInvalidWinnersLength},
		{"winners exceed prize", func(p *CreateParams) { p.Prize.Quantity = 2 }, entity.ErrInvalidWinnersLength},
		{"unique item with many winners", func(p *CreateParams) {
			p.Prize = entity.Prize{Kind: entity.PrizeUniqueItem, Asset: nftToken, Quantity: 1}
		}, entity.ErrInvalidWinnersLength},
		{"unique item quantity", func(p *CreateParams) {
			p.Prize = entity.Prize{Kind: entity.PrizeUniqueItem, Asset: nftToken, Quantity: 2}
		}, entity.ErrInvalidPrize},
		{"wallet pct below min", func(p *CreateParams) { p.TotalUnits = 3; p.MaxWalletPct = 33 }, entity.ErrInvalidWalletPct},
		{"auction sells one unit", func(p *CreateParams) {
			p.Mode = entity.PayoutSingleWinner
			p.Shares = nil
			p.Bidding = &BiddingParams{MinIncrement: 1, TimeExtension: time.Minute}
		}, entity.ErrInvalidTotalUnits},
		{"auction time extension", func(p *CreateParams) {
			p.Mode = entity.PayoutSingleWinner
			p.Shares = nil
			p.TotalUnits = 1
			p.MaxWalletPct = 100
			p.Bidding = &BiddingParams{MinIncrement: 1, TimeExtension: 2 * time.Hour}
		}, entity.ErrInvalidTimeExtension},
		{"unknown mode", func(p *CreateParams) { p.Mode = "lottery" }, entity.ErrInvalidPayout},
		{"missing creator", func(p *CreateParams) { p.Creator = "" }, entity.ErrMissingCaller},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			params := raffleParams()
			tc.mutate(&params)

			_, err := env.engine.Create(ctx, params)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expected)

			// rejected creation leaves no trace
			config, err := env.engine.GetConfig(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, 0, config.SaleCount)
			assert.EqualValues(t, 10_000, env.balance(t, creator, prizeToken))
		})
	}
}

func TestCreateInsufficientPrize(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	params := raffleParams()
	params.Prize.Quantity = 10_001

	_, err := env.engine.Create(ctx, params)
	assert.ErrorIs(t, err, entity.ErrInsufficientBalance)
	assert.EqualValues(t, 1_000_000, env.balance(t, creator, custody.Native()), "creation fee is rolled back")
}

func TestPausedOperations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.engine.SetPauseFlags(ctx, alice, 1)
	assert.ErrorIs(t, err, entity.ErrNotOperator)

	_, err = env.engine.SetPauseFlags(ctx, admin, 1<<entity.PauseCreate)
	require.NoError(t, err)
	_, err = env.engine.Create(ctx, raffleParams())
	assert.ErrorIs(t, err, entity.ErrFunctionPaused)

	_, err = env.engine.SetPauseFlags(ctx, owner, 0)
	require.NoError(t, err)
	_, err = env.engine.Create(ctx, raffleParams())
	require.NoError(t, err)
}

func TestNotifierReceivesCommittedEvents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	before := len(env.notifier.events)

	sale, err := env.engine.Create(ctx, raffleParams())
	require.NoError(t, err)
	require.Len(t, env.notifier.events, before+1)
	assert.Equal(t, entity.ActionCreate, env.notifier.events[before].Action)
	assert.Equal(t, sale.ID, env.notifier.events[before].SaleID)

	_, err = env.engine.Cancel(ctx, alice, sale.ID)
	require.Error(t, err)
	assert.Len(t, env.notifier.events, before+1)

	events, err := env.engine.GetEvents(ctx, datagateway.GetEventsParams{SaleID: sale.ID})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, creator, events[0].Actor)
}

func TestWithdrawFees(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.engine.Create(ctx, raffleParams())
	require.NoError(t, err)

	_, err = env.engine.WithdrawFees(ctx, admin, custody.Native(), admin, 0)
	assert.ErrorIs(t, err, entity.ErrNotOwner)
	_, err = env.engine.WithdrawFees(ctx, owner, prizeToken, owner, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidZeroAmount)
	_, err = env.engine.WithdrawFees(ctx, owner, custody.Native(), owner, 11)
	assert.ErrorIs(t, err, entity.ErrInsufficientBalance)

	withdrawn, err := env.engine.WithdrawFees(ctx, owner, custody.Native(), carol, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 4, withdrawn)
	assert.EqualValues(t, 1004, env.balance(t, carol, custody.Native()))
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	assert.ErrorIs(t, env.engine.Deposit(ctx, alice, prizeToken, 0), errs.ValidationError)
	assert.ErrorIs(t, env.engine.Deposit(ctx, "", prizeToken, 1), entity.ErrMissingCaller)
	require.NoError(t, env.engine.Deposit(ctx, alice, prizeToken, 30))
	assert.ErrorIs(t, env.engine.Withdraw(ctx, alice, prizeToken, 31), entity.ErrInsufficientBalance)
	require.NoError(t, env.engine.Withdraw(ctx, alice, prizeToken, 10))

	balances, err := env.engine.Balances(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []entity.AccountBalance{
		{Owner: alice, Asset: prizeToken, Balance: 20},
		{Owner: alice, Asset: custody.Native(), Balance: 1000},
	}, balances)
}
