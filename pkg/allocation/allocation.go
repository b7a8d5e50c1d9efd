// Package allocation provides overflow-checked arithmetic used to split locked value
// between winners, the creator and the platform.
package allocation

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/uint128"
)

const (
	// TotalPercent is the sum every share schedule must reach.
	TotalPercent = 100

	// FeeMantissa is the basis-points denominator for fee rates.
	FeeMantissa = 10_000
)

// ErrOverflow is returned by every checked operation in this package.
var ErrOverflow = errors.Mark(errors.New("arithmetic overflow"), errs.ArithmeticError)

// PercentOf returns floor(amount * pct / base). The product is computed in 128 bits so the
// only failure is a result that doesn't fit into uint64, or a zero base.
func PercentOf(amount, pct, base uint64) (uint64, error) {
	if base == 0 {
		return 0, errors.Wrap(ErrOverflow, "division by zero base")
	}
	result := uint128.From64(amount).Mul64(pct).Div64(base)
	if result.Cmp64(math.MaxUint64) > 0 {
		return 0, errors.Wrapf(ErrOverflow, "percent of %d * %d / %d", amount, pct, base)
	}
	return result.Uint64(), nil
}

// MaxUnitsPerWallet returns ceil(totalUnits * maxPct / 100), never less than 1.
func MaxUnitsPerWallet(totalUnits, maxPct uint64) (uint64, error) {
	product, err := CheckedMul(totalUnits, maxPct)
	if err != nil {
		return 0, errors.Wrap(err, "max units per wallet")
	}
	numerator, err := CheckedAdd(product, TotalPercent-1)
	if err != nil {
		return 0, errors.Wrap(err, "max units per wallet")
	}
	return max(numerator/TotalPercent, 1), nil
}

// MinWalletPercent is the smallest wallet cap that still lets the whole supply be sold,
// ceil(100 / totalUnits).
func MinWalletPercent(totalUnits uint64) uint64 {
	if totalUnits == 0 {
		return TotalPercent
	}
	return (TotalPercent + totalUnits - 1) / totalUnits
}

// CheckedAdd returns a + b or ErrOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.WithStack(ErrOverflow)
	}
	return sum, nil
}

// CheckedSub returns a - b or ErrOverflow when b > a.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.WithStack(ErrOverflow)
	}
	return a - b, nil
}

// CheckedMul returns a * b or ErrOverflow.
func CheckedMul(a, b uint64) (uint64, error) {
	product := uint128.From64(a).Mul64(b)
	if product.Cmp64(math.MaxUint64) > 0 {
		return 0, errors.WithStack(ErrOverflow)
	}
	return product.Uint64(), nil
}
