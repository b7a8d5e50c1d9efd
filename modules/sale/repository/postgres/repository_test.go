package postgres

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/internal/postgres"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const migrationSource = "file://../../database/postgresql/migrations"

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("sale"),
		tcpostgres.WithUsername("sale"),
		tcpostgres.WithPassword("sale"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	databaseURL, err := url.Parse(dsn)
	require.NoError(t, err)
	query := databaseURL.Query()
	query.Set("x-migrations-table", "sale_schema_migrations")
	databaseURL.RawQuery = query.Encode()
	m, err := migrate.New(migrationSource, databaseURL.String())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	_, _ = m.Close()

	pool, err := postgres.NewPool(ctx, postgres.Config{URL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewRepository(pool)
}

func TestRepository(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("config", func(t *testing.T) {
		_, err := repo.GetConfig(ctx)
		require.ErrorIs(t, err, entity.ErrConfigNotFound)

		config := entity.Config{
			Owner:            "owner",
			Admin:            "admin",
			FeeBps:           250,
			CreationFee:      10,
			MinPeriod:        time.Hour,
			MaxPeriod:        24 * time.Hour,
			MinUnits:         1,
			MaxUnits:         1000,
			MaxWinners:       entity.MaxWinnerSlots,
			MaxWalletPct:     100,
			MinTimeExtension: time.Minute,
			MaxTimeExtension: time.Hour,
			UpdatedAt:        now,
		}
		require.NoError(t, repo.PutConfig(ctx, config))
		config.SaleCount = 3
		require.NoError(t, repo.PutConfig(ctx, config))

		result, err := repo.GetConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, config, *result)
	})

	t.Run("sale", func(t *testing.T) {
		sale := entity.Sale{
			ID:           1,
			Creator:      "creator",
			StartTime:    now,
			EndTime:      now.Add(time.Hour),
			UnitPrice:    100,
			TotalUnits:   10,
			MaxWalletPct: 50,
			Prize: entity.Prize{
				Kind:     entity.PrizeFungibleAmount,
				Asset:    custody.Token("PRIZE"),
				Quantity: 1000,
			},
			PaymentAsset: custody.Native(),
			Payout:       entity.WeightedMulti{},
			Status:       entity.StatusInitialized,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		sale.Shares, _ = entity.NewShareSchedule([]uint8{60, 40})
		require.NoError(t, repo.CreateSale(ctx, sale))

		sale.Status = entity.StatusActive
		sale.UnitsSold = 4
		require.NoError(t, repo.UpdateSale(ctx, sale))

		result, err := repo.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, sale, *result)

		active := entity.StatusActive
		sales, err := repo.GetSales(ctx, datagateway.GetSalesParams{Status: &active, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, sales, 1)

		// an ended raffle with sales waits for its winner list
		due, err := repo.GetDueSales(ctx, datagateway.GetDueSalesParams{Now: now.Add(time.Hour), Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, due)

		sale.UnitsSold = 0
		require.NoError(t, repo.UpdateSale(ctx, sale))
		due, err = repo.GetDueSales(ctx, datagateway.GetDueSalesParams{Now: now.Add(time.Hour), Limit: 10})
		require.NoError(t, err)
		assert.Len(t, due, 1)
		due, err = repo.GetDueSales(ctx, datagateway.GetDueSalesParams{Now: now.Add(time.Minute), Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, due)

		_, err = repo.GetSale(ctx, 99)
		assert.ErrorIs(t, err, entity.ErrSaleNotFound)
		assert.ErrorIs(t, repo.UpdateSale(ctx, entity.Sale{ID: 99, Payout: entity.WeightedMulti{}}), entity.ErrSaleNotFound)
	})

	t.Run("participants", func(t *testing.T) {
		_, err := repo.GetParticipant(ctx, 1, "alice")
		require.ErrorIs(t, err, entity.ErrParticipantNotFound)

		require.NoError(t, repo.PutParticipant(ctx, entity.Participant{SaleID: 1, Identity: "bob", Units: 1}))
		require.NoError(t, repo.PutParticipant(ctx, entity.Participant{SaleID: 1, Identity: "alice", Units: 2}))
		require.NoError(t, repo.PutParticipant(ctx, entity.Participant{SaleID: 1, Identity: "alice", Units: 3}))

		participants, err := repo.GetParticipants(ctx, datagateway.GetParticipantsParams{SaleID: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []entity.Participant{
			{SaleID: 1, Identity: "alice", Units: 3},
			{SaleID: 1, Identity: "bob", Units: 1},
		}, participants)
	})

	t.Run("custody", func(t *testing.T) {
		require.NoError(t, repo.SetAccountBalance(ctx, "alice", custody.Native(), 500))
		balance, err := repo.GetAccountBalance(ctx, "alice", custody.Native())
		require.NoError(t, err)
		assert.Equal(t, uint64(500), balance)

		require.NoError(t, repo.SetAccountBalance(ctx, "alice", custody.Native(), 0))
		balances, err := repo.GetAccountBalances(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, balances)

		_, err = repo.GetHolding(ctx, "sale/1/prize")
		require.ErrorIs(t, err, errs.NotFound)

		holding := custody.Holding{
			ID:              "sale/1/prize",
			Asset:           custody.Token("PRIZE"),
			Balance:         1000,
			TotalIn:         1000,
			AuthorityDigest: []byte{1, 2, 3},
		}
		require.NoError(t, repo.PutHolding(ctx, holding))
		holdings, err := repo.GetHoldings(ctx, "sale/1/")
		require.NoError(t, err)
		assert.Equal(t, []custody.Holding{holding}, holdings)

		require.NoError(t, repo.DeleteHolding(ctx, holding.ID))
		holdings, err = repo.GetHoldings(ctx, "sale/1/")
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})

	t.Run("rollback", func(t *testing.T) {
		tx, err := repo.BeginSaleTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SetAccountBalance(ctx, "carol", custody.Native(), 42))
		_, err = tx.BeginSaleTx(ctx)
		require.ErrorIs(t, err, ErrTxAlreadyExists)
		require.NoError(t, tx.Rollback(ctx))
		require.NoError(t, tx.Rollback(ctx))

		balance, err := repo.GetAccountBalance(ctx, "carol", custody.Native())
		require.NoError(t, err)
		assert.Zero(t, balance)
	})
}

func TestEngineOnPostgres(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	deriver, err := custody.NewDeriver("test-secret")
	require.NoError(t, err)
	e := engine.New(repo, deriver)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.SetNowFunc(func() time.Time { return now })

	_, err = e.InitConfig(ctx, "owner", "", engine.ConfigParams{
		FeeBps:           250,
		MinPeriod:        time.Hour,
		MaxPeriod:        24 * time.Hour,
		MinUnits:         1,
		MaxUnits:         100,
		MaxWinners:       entity.MaxWinnerSlots,
		MaxWalletPct:     100,
		MinTimeExtension: time.Minute,
		MaxTimeExtension: time.Hour,
	})
	require.NoError(t, err)

	require.NoError(t, e.Deposit(ctx, "creator", custody.Token("PRIZE"), 1000))
	for i := range 3 {
		require.NoError(t, e.Deposit(ctx, fmt.Sprintf("buyer%d", i), custody.Native(), 1000))
	}

	sale, err := e.Create(ctx, engine.CreateParams{
		Creator:          "creator",
		EndTime:          now.Add(2 * time.Hour),
		StartImmediately: true,
		UnitPrice:        100,
		TotalUnits:       10,
		MaxWalletPct:     100,
		Prize: entity.Prize{
			Kind:     entity.PrizeFungibleAmount,
			Asset:    custody.Token("PRIZE"),
			Quantity: 1000,
		},
		PaymentAsset: custody.Native(),
		Mode:         entity.PayoutWeightedMulti,
		Shares:       []uint8{70, 30},
	})
	require.NoError(t, err)

	for i := range 3 {
		_, err := e.PlaceBidOrBuy(ctx, engine.PurchaseParams{
			Caller:   fmt.Sprintf("buyer%d", i),
			SaleID:   sale.ID,
			Quantity: 1,
		})
		require.NoError(t, err)
	}

	now = now.Add(2 * time.Hour)
	result, err := e.Finalize(ctx, engine.FinalizeParams{
		Caller:  "creator",
		SaleID:  sale.ID,
		Winners: []string{"buyer0", "buyer2"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSuccessEnded, result.Sale.Status)
	assert.Equal(t, uint64(300), result.Revenue)

	_, err = e.WinnerClaim(ctx, engine.WinnerClaimParams{Caller: "buyer0", SaleID: sale.ID})
	require.NoError(t, err)

	balances, err := e.Balances(ctx, "buyer0")
	require.NoError(t, err)
	assert.Contains(t, balances, entity.AccountBalance{Owner: "buyer0", Asset: custody.Token("PRIZE"), Balance: 700})

	events, err := repo.GetEvents(ctx, datagateway.GetEventsParams{SaleID: sale.ID, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, entity.ActionCreate, events[0].Action)
}
