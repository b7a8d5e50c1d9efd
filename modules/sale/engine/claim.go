package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/internal/validator"
	"github.com/gaze-network/sale-engine/pkg/allocation"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

type WinnerClaimParams struct {
	Caller string
	SaleID uint64
	// Slot limits the claim to one winner slot, nil claims every unclaimed slot of the caller.
	Slot *uint8
}

// WinnerClaim pays the precomputed prize amounts of the caller's winner slots. Each slot
// pays at most once.
func (e *Engine) WinnerClaim(ctx context.Context, params WinnerClaimParams) (uint64, error) {
	var amount uint64
	err := e.inTx(ctx, "winner_claim", params.Caller, func(ctx context.Context, s *session) error {
		config, err := s.config(ctx)
		if err != nil {
			return err
		}
		sale, err := s.sale(ctx, params.SaleID)
		if err != nil {
			return err
		}
		v := validator.New()
		if !v.HasCaller(params.Caller) ||
			!v.NotPaused(config, entity.PauseClaim) ||
			!v.StatusIn(sale, entity.StatusSuccessEnded) {
			return v.Err()
		}

		var claimed []int
		isWinner, alreadyClaimed, zeroSlot := false, false, -1
		for i := range sale.Winners.List() {
			slot := &sale.Winners.Slots[i]
			if slot.Winner != params.Caller || (params.Slot != nil && int(*params.Slot) != i) {
				continue
			}
			isWinner = true
			if slot.Claimed {
				alreadyClaimed = true
				continue
			}
			// a batch claim skips slots that rounded down to nothing
			if slot.Amount == 0 {
				zeroSlot = i
				continue
			}
			if amount, err = allocation.CheckedAdd(amount, slot.Amount); err != nil {
				return errors.Wrap(err, "claim amount")
			}
			slot.Claimed = true
			claimed = append(claimed, i)
		}
		if !isWinner {
			return errors.Wrapf(entity.ErrInvalidWinner, "%s is not a winner of sale %d", params.Caller, sale.ID)
		}
		if len(claimed) == 0 {
			if zeroSlot >= 0 && !alreadyClaimed {
				return errors.Wrapf(entity.ErrZeroPrizeForWinner, "winner slot %d", zeroSlot)
			}
			return errors.Wrapf(entity.ErrPrizeAlreadyClaimed, "sale %d", sale.ID)
		}

		if err := s.custody.TransferOut(ctx, sale.PrizeHolding(), sale.Authority(e.deriver), params.Caller, amount); err != nil {
			return errors.Wrap(err, "failed to pay prize")
		}
		if err := e.releaseHoldings(ctx, s, sale); err != nil {
			return errors.Wrap(err, "failed to release holdings")
		}
		sale.UpdatedAt = s.now
		if err := s.qtx.UpdateSale(ctx, *sale); err != nil {
			return errors.Wrap(err, "failed to update sale")
		}
		return s.emit(ctx, sale.ID, entity.ActionWinnerClaim, map[string]any{
			"slots":  claimed,
			"amount": amount,
		})
	})
	if err != nil {
		return 0, err
	}
	logger.InfoContext(ctx, "prize claimed",
		slogx.Event("sale_winner_claim"),
		slogx.SaleID(params.SaleID),
		slogx.Uint64("amount", amount),
	)
	return amount, nil
}

type ClaimBackResult struct {
	Prize   uint64
	Payment uint64
}

// CreatorClaimBack pays the creator the prize residual and the creator share of the
// revenue. Dust left in a holding is swept along once nothing else can claim it.
func (e *Engine) CreatorClaimBack(ctx context.Context, caller string, saleID uint64) (*ClaimBackResult, error) {
	result := &ClaimBackResult{}
	err := e.inTx(ctx, "creator_claim", caller, func(ctx context.Context, s *session) error {
		config, err := s.config(ctx)
		if err != nil {
			return err
		}
		sale, err := s.sale(ctx, saleID)
		if err != nil {
			return err
		}
		v := validator.New()
		if !v.HasCaller(caller) ||
			!v.NotPaused(config, entity.PauseClaim) ||
			!v.IsCreator(sale, caller) ||
			!v.StatusIn(sale, entity.StatusSuccessEnded, entity.StatusFailedEnded) {
			return v.Err()
		}

		prizeBalance, err := s.custody.Balance(ctx, sale.PrizeHolding())
		if err != nil {
			return errors.WithStack(err)
		}
		result.Prize = sale.PrizeResidual
		if !sale.Winners.HasUnclaimed() {
			result.Prize = prizeBalance
		}
		paymentBalance, err := s.custody.Balance(ctx, sale.PaymentHolding())
		if err != nil {
			return errors.WithStack(err)
		}
		result.Payment = max(sale.PaymentResidual, paymentBalance)
		if result.Prize == 0 && result.Payment == 0 {
			return errors.Wrapf(entity.ErrInvalidZeroAmount, "nothing to claim back from sale %d", sale.ID)
		}

		authority := sale.Authority(e.deriver)
		if err := s.custody.TransferOut(ctx, sale.PrizeHolding(), authority, sale.Creator, result.Prize); err != nil {
			return errors.Wrap(err, "failed to return prize residual")
		}
		if err := s.custody.TransferOut(ctx, sale.PaymentHolding(), authority, sale.Creator, result.Payment); err != nil {
			return errors.Wrap(err, "failed to pay creator share")
		}
		sale.PrizeResidual = 0
		sale.PaymentResidual = 0
		if err := e.releaseHoldings(ctx, s, sale); err != nil {
			return errors.Wrap(err, "failed to release holdings")
		}

		sale.UpdatedAt = s.now
		if err := s.qtx.UpdateSale(ctx, *sale); err != nil {
			return errors.Wrap(err, "failed to update sale")
		}
		return s.emit(ctx, sale.ID, entity.ActionCreatorClaim, map[string]any{
			"prize":   result.Prize,
			"payment": result.Payment,
			"closed":  sale.Closed,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "sale claimed back",
		slogx.Event("sale_creator_claim"),
		slogx.SaleID(saleID),
		slogx.Uint64("prize", result.Prize),
		slogx.Uint64("payment", result.Payment),
	)
	return result, nil
}
