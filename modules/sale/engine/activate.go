package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/internal/validator"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

// Activate opens an initialized sale for purchases once its start time is reached.
func (e *Engine) Activate(ctx context.Context, caller string, saleID uint64) (*entity.Sale, error) {
	var sale *entity.Sale
	err := e.inTx(ctx, "activate", caller, func(ctx context.Context, s *session) error {
		config, err := s.config(ctx)
		if err != nil {
			return err
		}
		if sale, err = s.sale(ctx, saleID); err != nil {
			return err
		}
		v := validator.New()
		if !v.HasCaller(caller) ||
			!v.NotPaused(config, entity.PauseActivate) ||
			!v.IsCreatorOrOperator(config, sale, caller) ||
			!v.StatusIn(sale, entity.StatusInitialized) {
			return v.Err()
		}
		if s.now.Before(sale.StartTime) {
			return errors.Wrapf(entity.ErrStartTimeNotReached, "sale %d starts at %s", sale.ID, sale.StartTime)
		}
		if instant, ok := sale.Instant(); ok && instant.PrizesAdded == 0 {
			return errors.Wrapf(entity.ErrNoPrizeAvailable, "sale %d has no prizes", sale.ID)
		}

		sale.Status = entity.StatusActive
		sale.UpdatedAt = s.now
		if err := s.qtx.UpdateSale(ctx, *sale); err != nil {
			return errors.Wrap(err, "failed to update sale")
		}
		return s.emit(ctx, sale.ID, entity.ActionActivate, newSalePayload(sale))
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "sale activated", slogx.Event("sale_activate"), slogx.SaleID(sale.ID))
	return sale, nil
}
