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

func instantParams() CreateParams {
	return CreateParams{
		Creator:      creator,
		StartTime:    t0.Add(time.Hour),
		EndTime:      t0.Add(3 * time.Hour),
		UnitPrice:    5,
		TotalUnits:   10,
		MaxWalletPct: 50,
		PaymentAsset: custody.Native(),
		Mode:         entity.PayoutInstantPerUnit,
	}
}

func draw(t *testing.T, env *testEnv, caller string, saleID uint64, slot uint32) (*PurchaseResult, error) {
	t.Helper()
	return env.engine.PlaceBidOrBuy(context.Background(), PurchaseParams{
		Caller:    caller,
		SaleID:    saleID,
		Quantity:  1,
		SlotIndex: slot,
	})
}

func TestInstantWinLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	prizeSupply := env.supply(t, prizeToken)

	sale, err := env.engine.Create(ctx, instantParams())
	require.NoError(t, err)
	assert.EqualValues(t, 10_000, env.balance(t, creator, prizeToken), "prizes are not locked on creation")

	env.advance(time.Hour)
	_, err = env.engine.Activate(ctx, admin, sale.ID)
	assert.ErrorIs(t, err, entity.ErrNoPrizeAvailable)

	_, err = env.engine.AddPrize(ctx, AddPrizeParams{Caller: alice, SaleID: sale.ID, Asset: prizeToken, AmountPerUnit: 20, Quantity: 2})
	assert.ErrorIs(t, err, entity.ErrInvalidCreator)
	_, err = env.engine.AddPrize(ctx, AddPrizeParams{Caller: creator, SaleID: sale.ID, Asset: prizeToken, AmountPerUnit: 20, Quantity: 11})
	assert.ErrorIs(t, err, entity.ErrInvalidQuantity)

	slot, err := env.engine.AddPrize(ctx, AddPrizeParams{Caller: creator, SaleID: sale.ID, Asset: prizeToken, AmountPerUnit: 20, Quantity: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 0, slot.Index)
	slot, err = env.engine.AddPrize(ctx, AddPrizeParams{Caller: creator, SaleID: sale.ID, Asset: custody.Native(), AmountPerUnit: 7, Quantity: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, slot.Index)
	assert.EqualValues(t, 10_000-40, env.balance(t, creator, prizeToken))

	sale, err = env.engine.Activate(ctx, admin, sale.ID)
	require.NoError(t, err)
	instant, ok := sale.Instant()
	require.True(t, ok)
	assert.EqualValues(t, 3, instant.PrizesAdded)

	_, err = env.engine.AddPrize(ctx, AddPrizeParams{Caller: creator, SaleID: sale.ID, Asset: prizeToken, AmountPerUnit: 1, Quantity: 1})
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	_, err = env.engine.PlaceBidOrBuy(ctx, PurchaseParams{Caller: alice, SaleID: sale.ID, Quantity: 2})
	assert.ErrorIs(t, err, entity.ErrInvalidQuantity)
	_, err = draw(t, env, alice, sale.ID, 7)
	assert.ErrorIs(t, err, entity.ErrInvalidPrizeSlot)

	result, err := draw(t, env, alice, sale.ID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 20, result.PrizeAmount)
	assert.EqualValues(t, 5, result.Paid)
	_, err = draw(t, env, alice, sale.ID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 40, env.balance(t, alice, prizeToken))

	_, err = draw(t, env, bob, sale.ID, 0)
	assert.ErrorIs(t, err, entity.ErrNoPrizeAvailable, "slot 0 is exhausted")
	_, err = draw(t, env, bob, sale.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1000-5+7, env.balance(t, bob, custody.Native()))
	_, err = draw(t, env, carol, sale.ID, 1)
	assert.ErrorIs(t, err, entity.ErrNoPrizeAvailable, "every added prize is sold")

	slots, err := env.engine.GetPrizeSlots(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Closed)
	assert.True(t, slots[1].Closed)

	_, err = env.engine.ClaimPrizeSlotBack(ctx, creator, sale.ID, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidState)

	env.advance(2 * time.Hour)
	settled, err := env.engine.Finalize(ctx, FinalizeParams{Caller: admin, SaleID: sale.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSuccessEnded, settled.Sale.Status)
	assert.EqualValues(t, 15, settled.Revenue)
	assert.EqualValues(t, 0, settled.Fee)
	assert.EqualValues(t, 0, settled.Sale.Winners.Len)

	back, err := env.engine.CreatorClaimBack(ctx, creator, sale.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 15, back.Payment)
	assert.EqualValues(t, 0, back.Prize)

	final, err := env.engine.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, final.Closed)
	assert.Equal(t, prizeSupply, env.supply(t, prizeToken))
}

func TestInstantWinUpdateAfterAddPrize(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sale, err := env.engine.Create(ctx, instantParams())
	require.NoError(t, err)
	_, err = env.engine.AddPrize(ctx, AddPrizeParams{Caller: creator, SaleID: sale.ID, Asset: prizeToken, AmountPerUnit: 20, Quantity: 2})
	require.NoError(t, err)

	price := uint64(9)
	updated, err := env.engine.Update(ctx, UpdateParams{Caller: creator, SaleID: sale.ID, UnitPrice: &price})
	require.NoError(t, err)
	assert.EqualValues(t, 9, updated.UnitPrice)
	instant, ok := updated.Instant()
	require.True(t, ok)
	assert.EqualValues(t, 2, instant.PrizesAdded, "update keeps the added prizes")

	units := uint64(1)
	_, err = env.engine.Update(ctx, UpdateParams{Caller: creator, SaleID: sale.ID, TotalUnits: &units})
	assert.ErrorIs(t, err, entity.ErrInvalidTotalUnits)
	assert.ErrorContains(t, err, "below 2 prizes added")

	units = 2
	updated, err = env.engine.Update(ctx, UpdateParams{Caller: creator, SaleID: sale.ID, TotalUnits: &units})
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated.TotalUnits)
}

func TestInstantWinStartedWithoutPrizes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	params := instantParams()
	params.MaxWalletPct = 10
	params.StartImmediately = true
	sale, err := env.engine.Create(ctx, params)
	require.NoError(t, err)
	// StartImmediately activates before any prize is added
	_, err = env.engine.AddPrize(ctx, AddPrizeParams{Caller: creator, SaleID: sale.ID, Asset: prizeToken, AmountPerUnit: 1, Quantity: 5})
	assert.ErrorIs(t, err, entity.ErrInvalidState)
	_, err = draw(t, env, alice, sale.ID, 0)
	assert.ErrorIs(t, err, entity.ErrNoPrizeAvailable)
}

func TestCancelledInstantWinSlotClaimBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	sale, err := env.engine.Create(ctx, instantParams())
	require.NoError(t, err)
	for range 2 {
		_, err = env.engine.AddPrize(ctx, AddPrizeParams{Caller: creator, SaleID: sale.ID, Asset: prizeToken, AmountPerUnit: 3, Quantity: 4})
		require.NoError(t, err)
	}
	assert.EqualValues(t, 10_000-24, env.balance(t, creator, prizeToken))

	cancelled, err := env.engine.Cancel(ctx, creator, sale.ID)
	require.NoError(t, err)
	assert.False(t, cancelled.Closed, "prize slots are still locked")

	_, err = env.engine.ClaimPrizeSlotBack(ctx, bob, sale.ID, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidCreator)
	amount, err := env.engine.ClaimPrizeSlotBack(ctx, creator, sale.ID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 12, amount)
	_, err = env.engine.ClaimPrizeSlotBack(ctx, creator, sale.ID, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidZeroAmount)
	_, err = env.engine.ClaimPrizeSlotBack(ctx, creator, sale.ID, 5)
	assert.ErrorIs(t, err, entity.ErrPrizeSlotNotFound)

	_, err = env.engine.ClaimPrizeSlotBack(ctx, creator, sale.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 10_000, env.balance(t, creator, prizeToken))

	final, err := env.engine.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, final.Closed)
}
