package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/internal/validator"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

// Cancel aborts a sale that hasn't sold anything and returns the locked prize to the
// creator. The creation fee is not refunded. Instant-win prize slots stay locked until
// the creator claims them back one by one.
func (e *Engine) Cancel(ctx context.Context, caller string, saleID uint64) (*entity.Sale, error) {
	var (
		sale     *entity.Sale
		refunded uint64
	)
	err := e.inTx(ctx, "cancel", caller, func(ctx context.Context, s *session) error {
		config, err := s.config(ctx)
		if err != nil {
			return err
		}
		if sale, err = s.sale(ctx, saleID); err != nil {
			return err
		}
		v := validator.New()
		if !v.HasCaller(caller) ||
			!v.NotPaused(config, entity.PauseCancel) ||
			!v.IsCreatorOrOperator(config, sale, caller) ||
			!v.StatusIn(sale, entity.StatusInitialized, entity.StatusActive) ||
			!v.NoUnitsSold(sale) {
			return v.Err()
		}

		authority := sale.Authority(e.deriver)
		if refunded, err = s.custody.Balance(ctx, sale.PrizeHolding()); err != nil {
			return errors.WithStack(err)
		}
		if err := s.custody.TransferOut(ctx, sale.PrizeHolding(), authority, sale.Creator, refunded); err != nil {
			return errors.Wrap(err, "failed to return prize")
		}
		sale.Status = entity.StatusCancelled
		sale.PrizeResidual = 0
		sale.PaymentResidual = 0
		if err := e.releaseHoldings(ctx, s, sale); err != nil {
			return errors.Wrap(err, "failed to release holdings")
		}

		sale.UpdatedAt = s.now
		if err := s.qtx.UpdateSale(ctx, *sale); err != nil {
			return errors.Wrap(err, "failed to update sale")
		}
		return s.emit(ctx, sale.ID, entity.ActionCancel, map[string]any{
			"refunded": refunded,
			"closed":   sale.Closed,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "sale cancelled",
		slogx.Event("sale_cancel"),
		slogx.SaleID(sale.ID),
		slogx.Uint64("refunded", refunded),
	)
	return sale, nil
}
