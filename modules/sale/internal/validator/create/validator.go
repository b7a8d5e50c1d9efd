package createvalidator

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/internal/validator"
	"github.com/gaze-network/sale-engine/pkg/allocation"
)

// CreateValidator checks the structural invariants of a sale. It runs on creation and
// again on every update.
type CreateValidator struct {
	validator.Validator
}

func New() *CreateValidator {
	v := validator.New()
	return &CreateValidator{
		Validator: *v,
	}
}

// Validate runs every structural check of a new sale against config.
func (v *CreateValidator) Validate(config *entity.Config, sale *entity.Sale, now time.Time) bool {
	return v.ValidWindow(config, sale, now) &&
		v.ValidUnits(config, sale) &&
		v.ValidPrize(sale) &&
		v.ValidPayout(config, sale) &&
		v.NoPrizesAdded(sale) &&
		v.ValidWalletPct(config, sale)
}

// NoPrizesAdded checks that a new instant-win sale starts without prize units.
func (v *CreateValidator) NoPrizesAdded(sale *entity.Sale) bool {
	if !v.Valid {
		return false
	}
	if instant, ok := sale.Instant(); ok && instant.PrizesAdded != 0 {
		return v.Invalidate(errors.Wrap(entity.ErrInvalidPayout, "prizes are added after creation"))
	}
	return v.Valid
}

// CoversPrizesAdded checks that an instant-win sale keeps a unit for every prize already
// added to it.
func (v *CreateValidator) CoversPrizesAdded(sale *entity.Sale) bool {
	if !v.Valid {
		return false
	}
	if instant, ok := sale.Instant(); ok && sale.TotalUnits < instant.PrizesAdded {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidTotalUnits, "%d units below %d prizes added", sale.TotalUnits, instant.PrizesAdded))
	}
	return v.Valid
}

func (v *CreateValidator) ValidWindow(config *entity.Config, sale *entity.Sale, now time.Time) bool {
	if !v.Valid {
		return false
	}
	if sale.StartTime.Before(now) {
		return v.Invalidate(errors.Wrapf(entity.ErrStartTimeInPast, "start %s, now %s", sale.StartTime, now))
	}
	if !sale.StartTime.Before(sale.EndTime) {
		return v.Invalidate(errors.WithStack(entity.ErrStartTimeAfterEnd))
	}
	period := sale.EndTime.Sub(sale.StartTime)
	if period < config.MinPeriod || period > config.MaxPeriod {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidSalePeriod, "period %s not within [%s, %s]", period, config.MinPeriod, config.MaxPeriod))
	}
	return v.Valid
}

func (v *CreateValidator) ValidUnits(config *entity.Config, sale *entity.Sale) bool {
	if !v.Valid {
		return false
	}
	// an auction's unit price is its base bid, which may be zero
	if sale.UnitPrice == 0 && !sale.IsAuction() {
		return v.Invalidate(errors.Wrap(entity.ErrInvalidZeroAmount, "unit price"))
	}
	if sale.TotalUnits < config.MinUnits || sale.TotalUnits > config.MaxUnits {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidTotalUnits, "%d not within [%d, %d]", sale.TotalUnits, config.MinUnits, config.MaxUnits))
	}
	return v.Valid
}

func (v *CreateValidator) ValidPrize(sale *entity.Sale) bool {
	if !v.Valid {
		return false
	}
	if _, ok := sale.Instant(); ok {
		// instant-win prizes are added as prize slots
		if sale.Prize.Quantity != 0 {
			return v.Invalidate(errors.Wrap(entity.ErrInvalidPrize, "instant-win sales lock prizes with prize slots"))
		}
		return v.Valid
	}
	switch sale.Prize.Kind {
	case entity.PrizeUniqueItem:
		if sale.Prize.Asset.IsNative() {
			return v.Invalidate(errors.Wrap(entity.ErrInvalidPrize, "unique item must be a token"))
		}
		if sale.Prize.Quantity != 1 {
			return v.Invalidate(errors.Wrapf(entity.ErrInvalidPrize, "unique item quantity must be 1, got %d", sale.Prize.Quantity))
		}
	case entity.PrizeFungibleAmount:
		if sale.Prize.Quantity == 0 {
			return v.Invalidate(errors.Wrap(entity.ErrInvalidZeroAmount, "prize quantity"))
		}
	default:
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidPrize, "unknown prize kind %q", sale.Prize.Kind))
	}
	return v.Valid
}

func (v *CreateValidator) ValidPayout(config *entity.Config, sale *entity.Sale) bool {
	if !v.Valid {
		return false
	}
	shares := sale.Shares.List()
	switch payout := sale.Payout.(type) {
	case entity.SingleWinner:
		if len(shares) != 1 || shares[0] != allocation.TotalPercent {
			return v.Invalidate(errors.Wrapf(entity.ErrInvalidWinShares, "single winner takes 100%%, got %v", shares))
		}
		if payout.Bidding != nil {
			return v.validBidding(config, sale, payout.Bidding)
		}
	case entity.WeightedMulti:
		if len(shares) == 0 || len(shares) > int(config.MaxWinners) {
			return v.Invalidate(errors.Wrapf(entity.ErrInvalidWinnersLength, "%d winners, max %d", len(shares), config.MaxWinners))
		}
		if !allocation.ValidateShareSchedule(shares) {
			return v.Invalidate(errors.Wrapf(entity.ErrInvalidWinShares, "%v", shares))
		}
		if sale.Prize.Kind == entity.PrizeUniqueItem && len(shares) != 1 {
			return v.Invalidate(errors.Wrap(entity.ErrInvalidWinnersLength, "unique item has exactly one winner"))
		}
		if uint64(len(shares)) > sale.TotalUnits {
			return v.Invalidate(errors.Wrapf(entity.ErrInvalidWinnersLength, "%d winners exceed %d units", len(shares), sale.TotalUnits))
		}
		if uint64(len(shares)) > sale.Prize.Quantity {
			return v.Invalidate(errors.Wrapf(entity.ErrInvalidWinnersLength, "%d winners exceed prize quantity %d", len(shares), sale.Prize.Quantity))
		}
	case entity.InstantPerUnit:
		if len(shares) != 0 {
			return v.Invalidate(errors.Wrap(entity.ErrInvalidWinShares, "instant-win sales have no share schedule"))
		}
	default:
		return v.Invalidate(errors.WithStack(entity.ErrInvalidPayout))
	}
	return v.Valid
}

func (v *CreateValidator) validBidding(config *entity.Config, sale *entity.Sale, bidding *entity.Bidding) bool {
	if bidding.MinIncrement == 0 {
		return v.Invalidate(errors.Wrap(entity.ErrInvalidZeroAmount, "min bid increment"))
	}
	if bidding.TimeExtension < config.MinTimeExtension || bidding.TimeExtension > config.MaxTimeExtension {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidTimeExtension, "%s not within [%s, %s]", bidding.TimeExtension, config.MinTimeExtension, config.MaxTimeExtension))
	}
	if sale.TotalUnits != 1 {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidTotalUnits, "auction sells exactly one unit, got %d", sale.TotalUnits))
	}
	return v.Valid
}

func (v *CreateValidator) ValidWalletPct(config *entity.Config, sale *entity.Sale) bool {
	if !v.Valid {
		return false
	}
	lower := allocation.MinWalletPercent(sale.TotalUnits)
	upper := min(uint64(config.MaxWalletPct), allocation.TotalPercent)
	if pct := uint64(sale.MaxWalletPct); pct < lower || pct > upper {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidWalletPct, "%d not within [%d, %d]", pct, lower, upper))
	}
	return v.Valid
}
