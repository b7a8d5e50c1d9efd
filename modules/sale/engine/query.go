package engine

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
)

func (e *Engine) GetConfig(ctx context.Context) (*entity.Config, error) {
	config, err := e.dg.GetConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	return config, nil
}

func (e *Engine) GetSale(ctx context.Context, id uint64) (*entity.Sale, error) {
	sale, err := e.dg.GetSale(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get sale %d", id)
	}
	return sale, nil
}

func (e *Engine) GetSales(ctx context.Context, arg datagateway.GetSalesParams) ([]entity.Sale, error) {
	sales, err := e.dg.GetSales(ctx, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sales")
	}
	return sales, nil
}

// GetDueSales returns the sales the scheduler has to activate or finalize at now.
func (e *Engine) GetDueSales(ctx context.Context, limit int32) ([]entity.Sale, error) {
	sales, err := e.dg.GetDueSales(ctx, datagateway.GetDueSalesParams{Now: e.Now(), Limit: limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get due sales")
	}
	return sales, nil
}

func (e *Engine) GetParticipants(ctx context.Context, arg datagateway.GetParticipantsParams) ([]entity.Participant, error) {
	participants, err := e.dg.GetParticipants(ctx, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get participants")
	}
	return participants, nil
}

func (e *Engine) GetPrizeSlots(ctx context.Context, saleID uint64) ([]entity.PrizeSlot, error) {
	slots, err := e.dg.GetPrizeSlots(ctx, saleID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get prize slots")
	}
	return slots, nil
}

func (e *Engine) GetEvents(ctx context.Context, arg datagateway.GetEventsParams) ([]entity.Event, error) {
	events, err := e.dg.GetEvents(ctx, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get events")
	}
	return events, nil
}

// GetSaleHoldings returns the open custody holdings of a sale.
func (e *Engine) GetSaleHoldings(ctx context.Context, saleID uint64) ([]custody.Holding, error) {
	holdings, err := e.dg.GetHoldings(ctx, fmt.Sprintf("sale/%d/", saleID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get holdings")
	}
	return holdings, nil
}
