package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	purchasevalidator "github.com/gaze-network/sale-engine/modules/sale/internal/validator/purchase"
	"github.com/gaze-network/sale-engine/pkg/allocation"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

type PurchaseParams struct {
	Caller   string
	SaleID   uint64
	Quantity uint64
	// BidAmount is the offered price of an auction bid.
	BidAmount uint64
	// SlotIndex names the prize slot an instant-win purchase is paid from.
	SlotIndex uint32
}

type PurchaseResult struct {
	Sale        *entity.Sale
	Participant *entity.Participant
	Paid        uint64
	// Refunded is the bid returned to the displaced highest bidder.
	Refunded uint64
	// PrizeAmount is the instant-win prize paid to the buyer.
	PrizeAmount uint64
}

// PlaceBidOrBuy records a purchase of an active sale: an auction bid, raffle tickets or
// an instant-win draw, depending on the payout of the sale.
func (e *Engine) PlaceBidOrBuy(ctx context.Context, params PurchaseParams) (*PurchaseResult, error) {
	result := &PurchaseResult{}
	err := e.inTx(ctx, "bid_or_buy", params.Caller, func(ctx context.Context, s *session) error {
		config, err := s.config(ctx)
		if err != nil {
			return err
		}
		sale, err := s.sale(ctx, params.SaleID)
		if err != nil {
			return err
		}
		v := purchasevalidator.New()
		if !v.HasCaller(params.Caller) ||
			!v.NotPaused(config, entity.PauseBidOrBuy) ||
			!v.StatusIn(sale, entity.StatusActive) ||
			!v.WithinWindow(sale, s.now) ||
			!v.ValidQuantity(sale, params.Quantity) {
			return v.Err()
		}
		participant, err := s.participant(ctx, sale.ID, params.Caller)
		if err != nil {
			return err
		}
		result.Sale = sale
		result.Participant = participant

		action := entity.ActionBuy
		switch {
		case sale.IsAuction():
			action = entity.ActionBid
			err = e.placeBid(ctx, s, v, params, result)
		case sale.Mode() == entity.PayoutInstantPerUnit:
			err = e.buyInstant(ctx, s, v, params, result)
		default:
			err = e.buyUnits(ctx, s, v, params, result)
		}
		if err != nil {
			return err
		}

		if err := s.qtx.PutParticipant(ctx, *participant); err != nil {
			return errors.Wrap(err, "failed to put participant")
		}
		sale.UpdatedAt = s.now
		if err := s.qtx.UpdateSale(ctx, *sale); err != nil {
			return errors.Wrap(err, "failed to update sale")
		}
		return s.emit(ctx, sale.ID, action, map[string]any{
			"quantity":    params.Quantity,
			"paid":        result.Paid,
			"refunded":    result.Refunded,
			"prizeAmount": result.PrizeAmount,
			"unitsSold":   sale.UnitsSold,
			"endTime":     sale.EndTime.Unix(),
		})
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "sale purchase",
		slogx.Event("sale_bid_or_buy"),
		slogx.SaleID(result.Sale.ID),
		slogx.Uint64("quantity", params.Quantity),
		slogx.Uint64("paid", result.Paid),
		slogx.Uint64("units_sold", result.Sale.UnitsSold),
	)
	return result, nil
}

// placeBid replaces the highest bid, refunds the displaced bidder and pushes the end time
// out when the bid lands within the time extension of the end.
func (e *Engine) placeBid(ctx context.Context, s *session, v *purchasevalidator.PurchaseValidator, params PurchaseParams, result *PurchaseResult) error {
	sale := result.Sale
	bidding, _ := sale.Bidding()
	if !v.ValidBid(bidding, params.Caller, params.BidAmount) {
		return v.Err()
	}
	if err := s.custody.TransferIn(ctx, params.Caller, sale.PaymentHolding(), params.BidAmount); err != nil {
		return errors.Wrap(err, "failed to collect bid")
	}
	if bidding.HasBid {
		if err := s.custody.TransferOut(ctx, sale.PaymentHolding(), sale.Authority(e.deriver), bidding.HighestBidder, bidding.HighestBid); err != nil {
			return errors.Wrap(err, "failed to refund previous bid")
		}
		previous, err := s.participant(ctx, sale.ID, bidding.HighestBidder)
		if err != nil {
			return err
		}
		previous.Units = 0
		if err := s.qtx.PutParticipant(ctx, *previous); err != nil {
			return errors.Wrap(err, "failed to put participant")
		}
		result.Refunded = bidding.HighestBid
	}

	bidding.HighestBidder = params.Caller
	bidding.HighestBid = params.BidAmount
	bidding.HasBid = true
	if extended := s.now.Add(bidding.TimeExtension); extended.After(sale.EndTime) {
		sale.EndTime = extended
	}
	sale.UnitsSold = 1
	result.Participant.Units = 1
	result.Paid = params.BidAmount
	return nil
}

// buyInstant sells one unit and pays one prize unit from the chosen slot right away.
func (e *Engine) buyInstant(ctx context.Context, s *session, v *purchasevalidator.PurchaseValidator, params PurchaseParams, result *PurchaseResult) error {
	sale := result.Sale
	if !v.PrizeAvailable(sale) ||
		!v.UnitsAvailable(sale, 1) ||
		!v.WithinWalletCap(sale, result.Participant.Units, 1) {
		return v.Err()
	}
	slot, err := s.qtx.GetPrizeSlot(ctx, sale.ID, params.SlotIndex)
	if err != nil {
		if errors.Is(err, entity.ErrPrizeSlotNotFound) {
			return errors.Wrapf(entity.ErrInvalidPrizeSlot, "sale %d has no prize slot %d", sale.ID, params.SlotIndex)
		}
		return errors.Wrap(err, "failed to get prize slot")
	}
	if !v.SlotAvailable(slot) {
		return v.Err()
	}

	if err := s.custody.TransferIn(ctx, params.Caller, sale.PaymentHolding(), sale.UnitPrice); err != nil {
		return errors.Wrap(err, "failed to collect payment")
	}
	authority := sale.Authority(e.deriver)
	holding := sale.SlotHolding(slot.Index)
	if err := s.custody.TransferOut(ctx, holding, authority, params.Caller, slot.AmountPerUnit); err != nil {
		return errors.Wrap(err, "failed to pay instant prize")
	}
	slot.Remaining--
	if slot.Remaining == 0 {
		if err := s.custody.CloseHolding(ctx, holding, authority, sale.Creator); err != nil {
			return errors.Wrap(err, "failed to close prize slot holding")
		}
		slot.Closed = true
	}
	if err := s.qtx.UpdatePrizeSlot(ctx, *slot); err != nil {
		return errors.Wrap(err, "failed to update prize slot")
	}

	sale.UnitsSold++
	result.Participant.Units++
	result.Paid = sale.UnitPrice
	result.PrizeAmount = slot.AmountPerUnit
	return nil
}

func (e *Engine) buyUnits(ctx context.Context, s *session, v *purchasevalidator.PurchaseValidator, params PurchaseParams, result *PurchaseResult) error {
	sale := result.Sale
	if !v.UnitsAvailable(sale, params.Quantity) ||
		!v.WithinWalletCap(sale, result.Participant.Units, params.Quantity) {
		return v.Err()
	}
	cost, err := allocation.CheckedMul(sale.UnitPrice, params.Quantity)
	if err != nil {
		return errors.Wrap(err, "purchase cost")
	}
	if err := s.custody.TransferIn(ctx, params.Caller, sale.PaymentHolding(), cost); err != nil {
		return errors.Wrap(err, "failed to collect payment")
	}
	sale.UnitsSold += params.Quantity
	result.Participant.Units += params.Quantity
	result.Paid = cost
	return nil
}
