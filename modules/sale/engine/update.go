package engine

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	createvalidator "github.com/gaze-network/sale-engine/modules/sale/internal/validator/create"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

// UpdateParams revise an initialized sale, nil fields are left unchanged.
type UpdateParams struct {
	Caller        string
	SaleID        uint64
	StartTime     *time.Time
	EndTime       *time.Time
	UnitPrice     *uint64
	TotalUnits    *uint64
	MaxWalletPct  *uint8
	Shares        []uint8
	MinIncrement  *uint64
	TimeExtension *time.Duration
}

func (p UpdateParams) updatesWindow() bool {
	return p.StartTime != nil || p.EndTime != nil
}

// Update revises the structure of a sale that has not sold anything yet. The prize
// quantity is never updated.
func (e *Engine) Update(ctx context.Context, params UpdateParams) (*entity.Sale, error) {
	var sale *entity.Sale
	err := e.inTx(ctx, "update", params.Caller, func(ctx context.Context, s *session) error {
		config, err := s.config(ctx)
		if err != nil {
			return err
		}
		current, err := s.sale(ctx, params.SaleID)
		if err != nil {
			return err
		}
		v := createvalidator.New()
		if !v.HasCaller(params.Caller) ||
			!v.NotPaused(config, entity.PauseUpdate) ||
			!v.IsCreator(current, params.Caller) ||
			!v.StatusIn(current, entity.StatusInitialized) ||
			!v.NoUnitsSold(current) {
			return v.Err()
		}
		if params.updatesWindow() && !s.now.Before(current.StartTime) {
			return errors.Wrapf(entity.ErrWindowUpdateTooLate, "sale %d started at %s", current.ID, current.StartTime)
		}

		sale = current.Clone()
		if err := applyUpdate(sale, params); err != nil {
			return err
		}
		if params.updatesWindow() && !v.ValidWindow(config, sale, s.now) {
			return v.Err()
		}
		if !v.ValidUnits(config, sale) ||
			!v.ValidPrize(sale) ||
			!v.ValidPayout(config, sale) ||
			!v.CoversPrizesAdded(sale) ||
			!v.ValidWalletPct(config, sale) {
			return v.Err()
		}

		sale.UpdatedAt = s.now
		if err := s.qtx.UpdateSale(ctx, *sale); err != nil {
			return errors.Wrap(err, "failed to update sale")
		}
		return s.emit(ctx, sale.ID, entity.ActionUpdate, newSalePayload(sale))
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "sale updated", slogx.Event("sale_update"), slogx.SaleID(sale.ID))
	return sale, nil
}

func applyUpdate(sale *entity.Sale, params UpdateParams) error {
	if params.StartTime != nil {
		sale.StartTime = params.StartTime.UTC()
	}
	if params.EndTime != nil {
		sale.EndTime = params.EndTime.UTC()
	}
	if params.UnitPrice != nil {
		sale.UnitPrice = *params.UnitPrice
	}
	if params.TotalUnits != nil {
		sale.TotalUnits = *params.TotalUnits
	}
	if params.MaxWalletPct != nil {
		sale.MaxWalletPct = *params.MaxWalletPct
	}
	if params.Shares != nil {
		if sale.Prize.Kind == entity.PrizeUniqueItem {
			return errors.Wrap(entity.ErrUnsupportedUpdate, "unique item winners can't be updated")
		}
		if sale.Mode() != entity.PayoutWeightedMulti {
			return errors.Wrapf(entity.ErrUnsupportedUpdate, "%s sale has no share schedule", sale.Mode())
		}
		schedule, err := entity.NewShareSchedule(params.Shares)
		if err != nil {
			return err
		}
		sale.Shares = schedule
	}

	bidding, isAuction := sale.Bidding()
	if !isAuction {
		if params.MinIncrement != nil || params.TimeExtension != nil {
			return errors.Wrap(entity.ErrUnsupportedUpdate, "bidding parameters of a non-auction sale")
		}
		return nil
	}
	bidding.BaseBid = sale.UnitPrice
	if params.MinIncrement != nil {
		bidding.MinIncrement = *params.MinIncrement
	}
	if params.TimeExtension != nil {
		bidding.TimeExtension = *params.TimeExtension
	}
	return nil
}
