package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/internal/validator"
	"github.com/gaze-network/sale-engine/pkg/allocation"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

type AddPrizeParams struct {
	Caller        string
	SaleID        uint64
	Asset         custody.Asset
	AmountPerUnit uint64
	Quantity      uint64
}

// AddPrize locks a new batch of instant-win prizes into its own prize slot.
func (e *Engine) AddPrize(ctx context.Context, params AddPrizeParams) (*entity.PrizeSlot, error) {
	var slot *entity.PrizeSlot
	err := e.inTx(ctx, "add_prize", params.Caller, func(ctx context.Context, s *session) error {
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
			!v.NotPaused(config, entity.PauseAddPrize) ||
			!v.IsCreator(sale, params.Caller) ||
			!v.IsMode(sale, entity.PayoutInstantPerUnit) ||
			!v.StatusIn(sale, entity.StatusInitialized) {
			return v.Err()
		}
		if params.AmountPerUnit == 0 {
			return errors.Wrap(entity.ErrInvalidZeroAmount, "prize amount per unit")
		}
		if params.Quantity == 0 {
			return errors.Wrap(entity.ErrInvalidQuantity, "prize quantity must be greater than zero")
		}
		instant, _ := sale.Instant()
		added, err := allocation.CheckedAdd(instant.PrizesAdded, params.Quantity)
		if err != nil {
			return errors.Wrap(err, "prizes added")
		}
		if added > sale.TotalUnits {
			return errors.Wrapf(entity.ErrInvalidQuantity, "%d prizes exceed %d units", added, sale.TotalUnits)
		}
		total, err := allocation.CheckedMul(params.AmountPerUnit, params.Quantity)
		if err != nil {
			return errors.Wrap(err, "prize slot total")
		}

		slots, err := s.qtx.GetPrizeSlots(ctx, sale.ID)
		if err != nil {
			return errors.Wrap(err, "failed to get prize slots")
		}
		slot = &entity.PrizeSlot{
			SaleID:          sale.ID,
			Index:           uint32(len(slots)),
			Asset:           params.Asset,
			AmountPerUnit:   params.AmountPerUnit,
			InitialQuantity: params.Quantity,
			Remaining:       params.Quantity,
			CreatedAt:       s.now,
		}
		holding := sale.SlotHolding(slot.Index)
		if err := s.custody.OpenHolding(ctx, holding, slot.Asset, sale.Authority(e.deriver)); err != nil {
			return errors.Wrap(err, "failed to open prize slot holding")
		}
		if err := s.custody.TransferIn(ctx, sale.Creator, holding, total); err != nil {
			return errors.Wrap(err, "failed to lock prize slot")
		}
		if err := s.qtx.CreatePrizeSlot(ctx, *slot); err != nil {
			return errors.Wrap(err, "failed to create prize slot")
		}

		instant.PrizesAdded = added
		sale.Payout = instant
		sale.UpdatedAt = s.now
		if err := s.qtx.UpdateSale(ctx, *sale); err != nil {
			return errors.Wrap(err, "failed to update sale")
		}
		return s.emit(ctx, sale.ID, entity.ActionAddPrize, map[string]any{
			"slot":          slot.Index,
			"asset":         slot.Asset.String(),
			"amountPerUnit": slot.AmountPerUnit,
			"quantity":      slot.InitialQuantity,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "prize slot added",
		slogx.Event("sale_add_prize"),
		slogx.SaleID(slot.SaleID),
		slogx.Uint64("slot", uint64(slot.Index)),
		slogx.Uint64("quantity", slot.InitialQuantity),
	)
	return slot, nil
}

// ClaimPrizeSlotBack returns the remaining balance of an instant-win prize slot to the
// creator once the sale is over.
func (e *Engine) ClaimPrizeSlotBack(ctx context.Context, caller string, saleID uint64, index uint32) (uint64, error) {
	var amount uint64
	err := e.inTx(ctx, "slot_claim_back", caller, func(ctx context.Context, s *session) error {
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
			!v.IsMode(sale, entity.PayoutInstantPerUnit) ||
			!v.StatusIn(sale, entity.StatusCancelled, entity.StatusSuccessEnded, entity.StatusFailedEnded) {
			return v.Err()
		}
		slot, err := s.qtx.GetPrizeSlot(ctx, sale.ID, index)
		if err != nil {
			return errors.Wrap(err, "failed to get prize slot")
		}
		holding := sale.SlotHolding(index)
		if amount, err = s.custody.Balance(ctx, holding); err != nil {
			return errors.WithStack(err)
		}
		if slot.Closed || amount == 0 {
			return errors.Wrapf(entity.ErrInvalidZeroAmount, "prize slot %d is empty", index)
		}
		authority := sale.Authority(e.deriver)
		if err := s.custody.TransferOut(ctx, holding, authority, sale.Creator, amount); err != nil {
			return errors.Wrap(err, "failed to return prize slot")
		}
		if err := s.custody.CloseHolding(ctx, holding, authority, sale.Creator); err != nil {
			return errors.Wrap(err, "failed to close prize slot holding")
		}
		slot.Remaining = 0
		slot.Closed = true
		if err := s.qtx.UpdatePrizeSlot(ctx, *slot); err != nil {
			return errors.Wrap(err, "failed to update prize slot")
		}

		if err := e.releaseHoldings(ctx, s, sale); err != nil {
			return errors.Wrap(err, "failed to release holdings")
		}
		sale.UpdatedAt = s.now
		if err := s.qtx.UpdateSale(ctx, *sale); err != nil {
			return errors.Wrap(err, "failed to update sale")
		}
		return s.emit(ctx, sale.ID, entity.ActionSlotClaimBack, map[string]any{
			"slot":   index,
			"amount": amount,
		})
	})
	if err != nil {
		return 0, err
	}
	logger.InfoContext(ctx, "prize slot claimed back",
		slogx.Event("sale_slot_claim_back"),
		slogx.SaleID(saleID),
		slogx.Uint64("slot", uint64(index)),
		slogx.Uint64("amount", amount),
	)
	return amount, nil
}
