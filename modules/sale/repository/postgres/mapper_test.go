package postgres

import (
	"math"
	"testing"
	"time"

	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/repository/postgres/gen"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint64FromNumeric(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		numeric := pgtype.Numeric{}
		require.NoError(t, numeric.ScanInt64(pgtype.Int8{Int64: 1000, Valid: true}))

		result, err := uint64FromNumeric(numeric)
		assert.NoError(t, err)
		assert.Equal(t, uint64(1000), result)
	})
	t.Run("null", func(t *testing.T) {
		result, err := uint64FromNumeric(pgtype.Numeric{})
		assert.NoError(t, err)
		assert.Zero(t, result)
	})
	t.Run("max", func(t *testing.T) {
		result, err := uint64FromNumeric(numericFromUint64(math.MaxUint64))
		assert.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), result)
	})
	t.Run("overflow", func(t *testing.T) {
		numeric := pgtype.Numeric{}
		require.NoError(t, numeric.UnmarshalJSON([]byte("18446744073709551616")))

		_, err := uint64FromNumeric(numeric)
		assert.ErrorIs(t, err, entity.ErrOverflow)
	})
}

func TestNumericFromUint64(t *testing.T) {
	expected := pgtype.Numeric{}
	require.NoError(t, expected.ScanInt64(pgtype.Int8{Int64: 1, Valid: true}))

	assert.Equal(t, expected, numericFromUint64(1))
}

func TestMapSaleRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	base := entity.Sale{
		ID:           7,
		Creator:      "creator",
		StartTime:    now,
		EndTime:      now.Add(time.Hour),
		UnitPrice:    100,
		TotalUnits:   50,
		UnitsSold:    12,
		MaxWalletPct: 20,
		Prize: entity.Prize{
			Kind:     entity.PrizeFungibleAmount,
			Asset:    custody.Token("PRIZE"),
			Quantity: 1000,
		},
		PaymentAsset:  custody.Native(),
		Status:        entity.StatusSuccessEnded,
		PrizeResidual: 3,
		CreatedAt:     now,
		UpdatedAt:     now.Add(time.Minute),
	}

	weighted := base
	weighted.Payout = entity.WeightedMulti{UniqueWinners: true}
	weighted.Shares, _ = entity.NewShareSchedule([]uint8{50, 30, 20})
	require.NoError(t, weighted.Winners.Append(entity.WinnerSlot{Winner: "alice", Share: 50, Amount: 500}))
	require.NoError(t, weighted.Winners.Append(entity.WinnerSlot{Winner: "bob", Share: 30, Amount: 300, Claimed: true}))

	auction := base
	auction.TotalUnits = 1
	auction.UnitsSold = 1
	auction.Payout = entity.SingleWinner{Bidding: &entity.Bidding{
		BaseBid:       100,
		MinIncrement:  5,
		TimeExtension: 5 * time.Minute,
		HighestBidder: "carol",
		HighestBid:    130,
		HasBid:        true,
	}}
	auction.Shares, _ = entity.NewShareSchedule([]uint8{100})

	instant := base
	instant.Prize.Quantity = 0
	instant.Payout = entity.InstantPerUnit{PrizesAdded: 40}

	for name, sale := range map[string]entity.Sale{
		"weighted": weighted,
		"auction":  auction,
		"instant":  instant,
	} {
		t.Run(name, func(t *testing.T) {
			params, err := mapSaleTypeToCreateParams(sale)
			require.NoError(t, err)

			result, err := mapSaleModelToType(gen.Sale(params))
			require.NoError(t, err)
			assert.Equal(t, sale, result)
		})
	}
}

func TestMapSaleWithoutPayout(t *testing.T) {
	_, err := mapSaleTypeToCreateParams(entity.Sale{ID: 1})
	assert.ErrorIs(t, err, entity.ErrInvalidPayout)
}
