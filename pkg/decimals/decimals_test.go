package decimals

import (
	"math"
	"testing"

	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerOfTen(t *testing.T) {
	assert.Equal(t, "1000", PowerOfTen(3).String())
	assert.Equal(t, "0.01", PowerOfTen(-2).String())
	assert.Equal(t, "1", PowerOfTen(uint16(0)).String())
	assert.Panics(t, func() { PowerOfTen(int64(math.MaxInt32) + 1) })
}

func TestToDecimal(t *testing.T) {
	testcases := []struct {
		decimals uint16
		amount   uint64
		expected string
	}{
		{0, 1, "1"},
		{2, 1, "0.01"},
		{2, 150, "1.5"},
		{9, 1_000_000_000, "1"},
		{18, 1, "0.000000000000000001"},
		{MaxDecimals, 1, "0.000000000000000000000000000000000001"},
	}
	for _, tc := range testcases {
		assert.Equal(t, tc.expected, ToDecimal(tc.amount, tc.decimals).String())
		assert.Equal(t, tc.expected, ToDecimal(uint128.From64(tc.amount), tc.decimals).String())
		assert.Equal(t, tc.expected, ToDecimal(uint256.NewInt(tc.amount), tc.decimals).String())
	}

	assert.Equal(t, "18446744073709551616", ToDecimal(uint128.From64(math.MaxUint64).Add64(1), 0).String())

	var nilAmount *uint256.Int
	assert.Equal(t, "0", ToDecimal(nilAmount, 6).String())
}

func TestToBaseUnits(t *testing.T) {
	units, err := ToBaseUnits("1.25", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_250_000_000), units)

	units, err = ToBaseUnits("18446744073709551615", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), units)

	_, err = ToBaseUnits("18446744073709551616", 0)
	assert.ErrorIs(t, err, errs.OverflowUint64)

	for _, display := range []string{"-1", "0.001", "abc"} {
		_, err := ToBaseUnits(display, 2)
		assert.ErrorIs(t, err, errs.InvalidArgument, display)
	}

	_, err = ToBaseUnits("1", MaxDecimals+1)
	assert.ErrorIs(t, err, errs.InvalidArgument)
}
