// Package decimals converts between integer base units and human readable decimal amounts.
package decimals

import (
	"math"
	"math/big"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"github.com/gaze-network/uint128"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// MaxDecimals is the largest number of decimals an asset can be displayed with.
const MaxDecimals = 36

func init() {
	decimal.DivisionPrecision = MaxDecimals
}

// Amount is an integer amount in base units.
type Amount interface {
	~uint64 | uint128.Uint128 | *uint256.Int
}

// PowerOfTen returns 10^n.
func PowerOfTen[T constraints.Integer](n T) decimal.Decimal {
	if int64(n) > math.MaxInt32 || int64(n) < math.MinInt32 {
		logger.Panic("PowerOfTen: exponent out of int32 range", slogx.Any("n", n))
	}
	return decimal.New(1, int32(n))
}

// ToDecimal shifts amount right by decimals digits.
func ToDecimal[A Amount](amount A, decimals uint16) decimal.Decimal {
	var value *big.Int
	switch v := any(amount).(type) {
	case uint128.Uint128:
		value = v.Big()
	case *uint256.Int:
		value = new(big.Int)
		if v != nil {
			value = v.ToBig()
		}
	default:
		value = new(big.Int).SetUint64(reflect.ValueOf(v).Uint())
	}
	return decimal.NewFromBigInt(value, -int32(decimals))
}

// ToBaseUnits parses a display amount such as "1.25" into base units of an asset with the
// given decimals. It fails for negative amounts, amounts with more fractional digits than
// decimals and amounts that do not fit in a uint64.
func ToBaseUnits(display string, decimals uint16) (uint64, error) {
	if decimals > MaxDecimals {
		return 0, errors.Wrapf(errs.InvalidArgument, "decimals must be at most %d", MaxDecimals)
	}
	d, err := decimal.NewFromString(display)
	if err != nil {
		return 0, errors.Wrapf(errs.InvalidArgument, "invalid amount %q", display)
	}
	if d.IsNegative() {
		return 0, errors.Wrapf(errs.InvalidArgument, "amount %q is negative", display)
	}
	scaled := d.Mul(PowerOfTen(decimals))
	if !scaled.IsInteger() {
		return 0, errors.Wrapf(errs.InvalidArgument, "amount %q has more than %d decimals", display, decimals)
	}
	units, overflow := uint256.FromBig(scaled.BigInt())
	if overflow || !units.IsUint64() {
		return 0, errors.Wrapf(errs.OverflowUint64, "amount %q", display)
	}
	return units.Uint64(), nil
}
