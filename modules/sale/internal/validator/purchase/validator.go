package purchasevalidator

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/internal/validator"
	"github.com/gaze-network/sale-engine/pkg/allocation"
)

type PurchaseValidator struct {
	validator.Validator
}

func New() *PurchaseValidator {
	v := validator.New()
	return &PurchaseValidator{
		Validator: *v,
	}
}

func (v *PurchaseValidator) WithinWindow(sale *entity.Sale, now time.Time) bool {
	if !v.Valid {
		return false
	}
	if now.Before(sale.StartTime) {
		return v.Invalidate(errors.Wrapf(entity.ErrStartTimeNotReached, "sale %d starts at %s", sale.ID, sale.StartTime))
	}
	if !now.Before(sale.EndTime) {
		return v.Invalidate(errors.Wrapf(entity.ErrSaleEnded, "sale %d ended at %s", sale.ID, sale.EndTime))
	}
	return v.Valid
}

func (v *PurchaseValidator) ValidQuantity(sale *entity.Sale, quantity uint64) bool {
	if !v.Valid {
		return false
	}
	if quantity == 0 {
		return v.Invalidate(errors.Wrap(entity.ErrInvalidQuantity, "quantity must be greater than zero"))
	}
	if (sale.IsAuction() || sale.Mode() == entity.PayoutInstantPerUnit) && quantity != 1 {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidQuantity, "%s sale takes exactly one unit per call", sale.Mode()))
	}
	return v.Valid
}

func (v *PurchaseValidator) UnitsAvailable(sale *entity.Sale, quantity uint64) bool {
	if !v.Valid {
		return false
	}
	sold, err := allocation.CheckedAdd(sale.UnitsSold, quantity)
	if err != nil {
		return v.Invalidate(err)
	}
	if sold > sale.TotalUnits {
		return v.Invalidate(errors.Wrapf(entity.ErrUnitsSoldOut, "%d of %d units left", sale.TotalUnits-sale.UnitsSold, sale.TotalUnits))
	}
	return v.Valid
}

// WithinWalletCap checks that owned+quantity stays within the per-wallet cap.
func (v *PurchaseValidator) WithinWalletCap(sale *entity.Sale, owned, quantity uint64) bool {
	if !v.Valid {
		return false
	}
	limit, err := allocation.MaxUnitsPerWallet(sale.TotalUnits, uint64(sale.MaxWalletPct))
	if err != nil {
		return v.Invalidate(err)
	}
	total, err := allocation.CheckedAdd(owned, quantity)
	if err != nil {
		return v.Invalidate(err)
	}
	if total > limit {
		return v.Invalidate(errors.Wrapf(entity.ErrMaxUnitsPerWalletExceeded, "owns %d, buys %d, limit %d", owned, quantity, limit))
	}
	return v.Valid
}

// PrizeAvailable checks that an instant-win sale has an unsold prize unit.
func (v *PurchaseValidator) PrizeAvailable(sale *entity.Sale) bool {
	if !v.Valid {
		return false
	}
	instant, ok := sale.Instant()
	if !ok {
		return v.Invalidate(errors.WithStack(entity.ErrInvalidPayout))
	}
	if instant.PrizesAdded <= sale.UnitsSold {
		return v.Invalidate(errors.Wrapf(entity.ErrNoPrizeAvailable, "%d prizes added, %d sold", instant.PrizesAdded, sale.UnitsSold))
	}
	return v.Valid
}

func (v *PurchaseValidator) SlotAvailable(slot *entity.PrizeSlot) bool {
	if !v.Valid {
		return false
	}
	if slot.Closed || slot.Remaining == 0 {
		return v.Invalidate(errors.Wrapf(entity.ErrNoPrizeAvailable, "prize slot %d is empty", slot.Index))
	}
	return v.Valid
}

// ValidBid checks an auction bid. Every bid, the first included, must beat the standing
// price by the min increment, where the standing price starts at the base bid. The highest
// bidder can't outbid itself.
func (v *PurchaseValidator) ValidBid(bidding *entity.Bidding, bidder string, amount uint64) bool {
	if !v.Valid {
		return false
	}
	standing := bidding.BaseBid
	if bidding.HasBid {
		if bidding.HighestBidder == bidder {
			return v.Invalidate(errors.WithStack(entity.ErrAlreadyHighestBidder))
		}
		standing = bidding.HighestBid
	}
	required, err := allocation.CheckedAdd(standing, bidding.MinIncrement)
	if err != nil {
		return v.Invalidate(err)
	}
	if amount < required {
		return v.Invalidate(errors.Wrapf(entity.ErrBidTooLow, "bid %d below required %d", amount, required))
	}
	return v.Valid
}
