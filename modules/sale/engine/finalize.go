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

type FinalizeParams struct {
	Caller string
	SaleID uint64
	// Winners are the drawn winners of a raffle, in share schedule order. Auctions and
	// instant-win sales take none.
	Winners []string
}

type FinalizeResult struct {
	Sale         *entity.Sale
	Revenue      uint64
	Fee          uint64
	CreatorShare uint64
}

// Finalize settles an ended sale. Without sales it fails and the whole prize becomes
// claimable back by the creator, otherwise the platform fee is collected, the creator
// share is recorded and the prize is assigned to the winners.
func (e *Engine) Finalize(ctx context.Context, params FinalizeParams) (*FinalizeResult, error) {
	result := &FinalizeResult{}
	err := e.inTx(ctx, "finalize", params.Caller, func(ctx context.Context, s *session) error {
		config, err := s.config(ctx)
		if err != nil {
			return err
		}
		sale, err := s.sale(ctx, params.SaleID)
		if err != nil {
			return err
		}
		result.Sale = sale
		v := validator.New()
		if !v.HasCaller(params.Caller) ||
			!v.NotPaused(config, entity.PauseFinalize) ||
			!v.IsCreatorOrOperator(config, sale, params.Caller) ||
			!v.StatusIn(sale, entity.StatusActive) {
			return v.Err()
		}
		if s.now.Before(sale.EndTime) {
			return errors.Wrapf(entity.ErrEndTimeNotReached, "sale %d ends at %s", sale.ID, sale.EndTime)
		}

		if sale.UnitsSold == 0 {
			sale.Status = entity.StatusFailedEnded
			if _, instant := sale.Instant(); !instant {
				sale.PrizeResidual = sale.Prize.Quantity
			}
			sale.PaymentResidual = 0
		} else {
			if err := e.settle(ctx, s, config, result); err != nil {
				return err
			}
			if err := e.assignWinners(ctx, s, sale, params.Winners); err != nil {
				return err
			}
			sale.Status = entity.StatusSuccessEnded
		}

		sale.UpdatedAt = s.now
		if err := s.qtx.UpdateSale(ctx, *sale); err != nil {
			return errors.Wrap(err, "failed to update sale")
		}
		winners := make([]string, 0, sale.Winners.Len)
		for _, slot := range sale.Winners.List() {
			winners = append(winners, slot.Winner)
		}
		return s.emit(ctx, sale.ID, entity.ActionFinalize, map[string]any{
			"status":       sale.Status.String(),
			"revenue":      result.Revenue,
			"fee":          result.Fee,
			"creatorShare": result.CreatorShare,
			"winners":      winners,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "sale finalized",
		slogx.Event("sale_finalize"),
		slogx.SaleID(result.Sale.ID),
		slogx.Stringer("status", result.Sale.Status),
		slogx.Uint64("revenue", result.Revenue),
		slogx.Uint64("fee", result.Fee),
	)
	return result, nil
}

// settle splits the revenue into the platform fee, moved to the fee holding, and the
// creator share, recorded as the payment residual.
func (e *Engine) settle(ctx context.Context, s *session, config *entity.Config, result *FinalizeResult) error {
	sale := result.Sale
	var err error
	if bidding, ok := sale.Bidding(); ok {
		result.Revenue = bidding.HighestBid
	} else if result.Revenue, err = allocation.CheckedMul(sale.UnitPrice, sale.UnitsSold); err != nil {
		return errors.Wrap(err, "revenue")
	}
	if result.Fee, err = allocation.PercentOf(result.Revenue, uint64(config.FeeBps), allocation.FeeMantissa); err != nil {
		return errors.Wrap(err, "platform fee")
	}
	result.CreatorShare = result.Revenue - result.Fee
	if err := e.collectFee(ctx, s, sale, result.Fee); err != nil {
		return err
	}
	sale.PaymentResidual = result.CreatorShare
	return nil
}

func (e *Engine) assignWinners(ctx context.Context, s *session, sale *entity.Sale, winners []string) error {
	switch payout := sale.Payout.(type) {
	case entity.SingleWinner:
		winner := ""
		if payout.Bidding != nil {
			winner = payout.Bidding.HighestBidder
		} else {
			if len(winners) != 1 {
				return errors.Wrapf(entity.ErrInvalidWinnersLength, "raffle takes 1 winner, got %d", len(winners))
			}
			if err := e.requireParticipant(ctx, s, sale, winners[0]); err != nil {
				return err
			}
			winner = winners[0]
		}
		sale.Winners = entity.WinnerSet{}
		return sale.Winners.Append(entity.WinnerSlot{
			Winner: winner,
			Share:  allocation.TotalPercent,
			Amount: sale.Prize.Quantity,
		})

	case entity.WeightedMulti:
		effective := sale.EffectiveWinners()
		if uint64(len(winners)) != effective {
			return errors.Wrapf(entity.ErrInvalidWinnersLength, "expected %d winners, got %d", effective, len(winners))
		}
		if payout.UniqueWinners && allocation.HasDuplicates(winners) {
			return errors.WithStack(entity.ErrDuplicateWinners)
		}
		shares := sale.Shares.List()
		sale.Winners = entity.WinnerSet{}
		for i, winner := range winners {
			if err := e.requireParticipant(ctx, s, sale, winner); err != nil {
				return err
			}
			amount, err := allocation.PercentOf(sale.Prize.Quantity, uint64(shares[i]), allocation.TotalPercent)
			if err != nil {
				return errors.Wrapf(err, "prize of winner %d", i)
			}
			if err := sale.Winners.Append(entity.WinnerSlot{Winner: winner, Share: shares[i], Amount: amount}); err != nil {
				return err
			}
		}
		leftover := allocation.LeftoverPercent(shares, int(effective))
		residual, err := allocation.PercentOf(sale.Prize.Quantity, leftover, allocation.TotalPercent)
		if err != nil {
			return errors.Wrap(err, "prize residual")
		}
		sale.PrizeResidual = residual

	case entity.InstantPerUnit:
		// prizes were paid on purchase
	}
	return nil
}

func (e *Engine) requireParticipant(ctx context.Context, s *session, sale *entity.Sale, identity string) error {
	participant, err := s.participant(ctx, sale.ID, identity)
	if err != nil {
		return err
	}
	if participant.Units == 0 {
		return errors.Wrapf(entity.ErrWinnerNotParticipant, "%s holds no units of sale %d", identity, sale.ID)
	}
	return nil
}
