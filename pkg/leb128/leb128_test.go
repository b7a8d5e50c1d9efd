package leb128

import (
	"math"
	"testing"

	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendUint64(t *testing.T) {
	testCases := []struct {
		value    uint64
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{math.MaxUint64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tc := range testCases {
		encoded := AppendUint64(nil, tc.value)
		assert.Equal(t, tc.expected, encoded, "value %d", tc.value)

		decoded, n, err := Uint64(encoded)
		require.NoError(t, err)
		assert.Equal(t, tc.value, decoded)
		assert.Equal(t, len(encoded), n)
	}
}

func TestAppendUint128(t *testing.T) {
	// values that fit 64 bits encode the same either way
	assert.Equal(t, AppendUint64(nil, 624485), AppendUint128(nil, uint128.From64(624485)))

	encoded := AppendUint128([]byte{0xaa}, uint128.New(0, 1))
	assert.Equal(t, []byte{0xaa, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x02}, encoded)
}

func TestUint64Errors(t *testing.T) {
	_, _, err := Uint64(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, _, err = Uint64([]byte{0x80, 0x80})
	assert.ErrorIs(t, err, ErrUnterminated)

	_, _, err = Uint64([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02})
	assert.ErrorIs(t, err, errs.OverflowUint64)

	// trailing bytes are left to the caller
	v, n, err := Uint64([]byte{0x05, 0xff})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)
	assert.Equal(t, 1, n)
}
