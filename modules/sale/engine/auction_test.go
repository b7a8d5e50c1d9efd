package engine

import (
	"context"
	"testing"
	"time"

	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auctionParams() CreateParams {
	return CreateParams{
		Creator:          creator,
		StartImmediately: true,
		EndTime:          t0.Add(2 * time.Hour),
		UnitPrice:        100,
		TotalUnits:       1,
		MaxWalletPct:     100,
		Prize:            entity.Prize{Kind: entity.PrizeUniqueItem, Asset: nftToken, Quantity: 1},
		PaymentAsset:     custody.Native(),
		Mode:             entity.PayoutSingleWinner,
		Bidding:          &BiddingParams{MinIncrement: 10, TimeExtension: 10 * time.Minute},
	}
}

func bid(t *testing.T, env *testEnv, caller string, saleID, amount uint64) (*PurchaseResult, error) {
	t.Helper()
	return env.engine.PlaceBidOrBuy(context.Background(), PurchaseParams{
		Caller:    caller,
		SaleID:    saleID,
		Quantity:  1,
		BidAmount: amount,
	})
}

func TestAuctionBidding(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	nativeSupply := env.supply(t, custody.Native())

	sale, err := env.engine.Create(ctx, auctionParams())
	require.NoError(t, err)
	require.True(t, sale.IsAuction())

	_, err = bid(t, env, alice, sale.ID, 100)
	assert.ErrorIs(t, err, entity.ErrBidTooLow, "first bid must beat the base bid by the increment")
	_, err = bid(t, env, alice, sale.ID, 109)
	assert.ErrorIs(t, err, entity.ErrBidTooLow)
	_, err = bid(t, env, alice, sale.ID, 110)
	require.NoError(t, err)
	assert.EqualValues(t, 890, env.balance(t, alice, custody.Native()))

	_, err = bid(t, env, alice, sale.ID, 200)
	assert.ErrorIs(t, err, entity.ErrAlreadyHighestBidder)
	_, err = bid(t, env, bob, sale.ID, 119)
	assert.ErrorIs(t, err, entity.ErrBidTooLow)

	result, err := bid(t, env, bob, sale.ID, 120)
	require.NoError(t, err)
	assert.EqualValues(t, 110, result.Refunded)
	assert.EqualValues(t, 1000, env.balance(t, alice, custody.Native()), "outbid bidder is refunded in full")
	assert.Equal(t, t0.Add(2*time.Hour), result.Sale.EndTime, "bid far from the end doesn't extend")

	holdings, err := env.engine.GetSaleHoldings(ctx, sale.ID)
	require.NoError(t, err)
	require.NotEmpty(t, holdings)
	assert.EqualValues(t, 120, holdings[0].Balance, "payment holding keeps only the highest bid")
	assert.Equal(t, nativeSupply, env.supply(t, custody.Native()))
}

func TestAuctionAntiSnipe(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sale, err := env.engine.Create(ctx, auctionParams())
	require.NoError(t, err)

	_, err = bid(t, env, alice, sale.ID, 110)
	require.NoError(t, err)

	env.advance(2*time.Hour - time.Second)
	result, err := bid(t, env, bob, sale.ID, 120)
	require.NoError(t, err)
	extendedEnd := t0.Add(2*time.Hour - time.Second + 10*time.Minute)
	assert.Equal(t, extendedEnd, result.Sale.EndTime)
	bidding, ok := result.Sale.Bidding()
	require.True(t, ok)
	assert.Equal(t, bob, bidding.HighestBidder)
	assert.EqualValues(t, 120, bidding.HighestBid)

	env.advance(time.Second)
	_, err = env.engine.Finalize(ctx, FinalizeParams{Caller: admin, SaleID: sale.ID})
	assert.ErrorIs(t, err, entity.ErrEndTimeNotReached)

	env.now = extendedEnd
	_, err = bid(t, env, carol, sale.ID, 200)
	assert.ErrorIs(t, err, entity.ErrSaleEnded)

	settled, err := env.engine.Finalize(ctx, FinalizeParams{Caller: admin, SaleID: sale.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 120, settled.Revenue)
	assert.EqualValues(t, 3, settled.Fee)
	assert.EqualValues(t, 117, settled.CreatorShare)
	require.EqualValues(t, 1, settled.Sale.Winners.Len)
	assert.Equal(t, bob, settled.Sale.Winners.Slots[0].Winner)

	claimed, err := env.engine.WinnerClaim(ctx, WinnerClaimParams{Caller: bob, SaleID: sale.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, claimed)
	assert.EqualValues(t, 1, env.balance(t, bob, nftToken))
	assert.EqualValues(t, 1000, env.balance(t, alice, custody.Native()))

	back, err := env.engine.CreatorClaimBack(ctx, creator, sale.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 117, back.Payment)
	assert.EqualValues(t, 0, back.Prize)
}

func TestAuctionZeroBaseBid(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	params := auctionParams()
	params.UnitPrice = 0
	sale, err := env.engine.Create(ctx, params)
	require.NoError(t, err)
	bidding, ok := sale.Bidding()
	require.True(t, ok)
	assert.Zero(t, bidding.BaseBid)

	_, err = bid(t, env, alice, sale.ID, 9)
	assert.ErrorIs(t, err, entity.ErrBidTooLow)
	_, err = bid(t, env, alice, sale.ID, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 990, env.balance(t, alice, custody.Native()))
}

func TestAuctionWithoutBidsFails(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sale, err := env.engine.Create(ctx, auctionParams())
	require.NoError(t, err)
	env.advance(2 * time.Hour)

	settled, err := env.engine.Finalize(ctx, FinalizeParams{Caller: creator, SaleID: sale.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailedEnded, settled.Sale.Status)

	back, err := env.engine.CreatorClaimBack(ctx, creator, sale.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, back.Prize)
	assert.EqualValues(t, 1, env.balance(t, creator, nftToken))
}

func TestAuctionUpdateBidding(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	params := auctionParams()
	params.StartImmediately = false
	params.StartTime = t0.Add(time.Hour)
	params.EndTime = t0.Add(3 * time.Hour)
	sale, err := env.engine.Create(ctx, params)
	require.NoError(t, err)

	base := uint64(500)
	extension := 30 * time.Minute
	updated, err := env.engine.Update(ctx, UpdateParams{
		Caller:        creator,
		SaleID:        sale.ID,
		UnitPrice:     &base,
		TimeExtension: &extension,
	})
	require.NoError(t, err)
	bidding, ok := updated.Bidding()
	require.True(t, ok)
	assert.EqualValues(t, 500, bidding.BaseBid)
	assert.Equal(t, extension, bidding.TimeExtension)

	extension = 2 * time.Hour
	_, err = env.engine.Update(ctx, UpdateParams{Caller: creator, SaleID: sale.ID, TimeExtension: &extension})
	assert.ErrorIs(t, err, entity.ErrInvalidTimeExtension)
}
