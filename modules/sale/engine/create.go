package engine

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	createvalidator "github.com/gaze-network/sale-engine/modules/sale/internal/validator/create"
	"github.com/gaze-network/sale-engine/pkg/allocation"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

type CreateParams struct {
	Creator   string
	StartTime time.Time
	EndTime   time.Time
	// StartImmediately pins the start time to now and activates the sale right away.
	StartImmediately bool
	// UnitPrice is the ticket price, or the base bid of an auction.
	UnitPrice     uint64
	TotalUnits    uint64
	MaxWalletPct  uint8
	Prize         entity.Prize
	PaymentAsset  custody.Asset
	Mode          entity.PayoutMode
	Shares        []uint8
	UniqueWinners bool
	// Bidding turns a single-winner sale into an ascending-price auction.
	Bidding *BiddingParams
}

type BiddingParams struct {
	MinIncrement  uint64
	TimeExtension time.Duration
}

func (p CreateParams) payout() (entity.Payout, error) {
	switch p.Mode {
	case entity.PayoutSingleWinner:
		if p.Bidding == nil {
			return entity.SingleWinner{}, nil
		}
		return entity.SingleWinner{Bidding: &entity.Bidding{
			BaseBid:       p.UnitPrice,
			MinIncrement:  p.Bidding.MinIncrement,
			TimeExtension: p.Bidding.TimeExtension,
		}}, nil
	case entity.PayoutWeightedMulti:
		return entity.WeightedMulti{UniqueWinners: p.UniqueWinners}, nil
	case entity.PayoutInstantPerUnit:
		return entity.InstantPerUnit{}, nil
	}
	return nil, errors.Wrapf(entity.ErrInvalidPayout, "unknown payout mode %q", p.Mode)
}

type salePayload struct {
	Status     string `json:"status"`
	Mode       string `json:"mode"`
	StartTime  int64  `json:"startTime"`
	EndTime    int64  `json:"endTime"`
	UnitPrice  uint64 `json:"unitPrice"`
	TotalUnits uint64 `json:"totalUnits"`
	UnitsSold  uint64 `json:"unitsSold"`
}

func newSalePayload(sale *entity.Sale) salePayload {
	return salePayload{
		Status:     sale.Status.String(),
		Mode:       string(sale.Mode()),
		StartTime:  sale.StartTime.Unix(),
		EndTime:    sale.EndTime.Unix(),
		UnitPrice:  sale.UnitPrice,
		TotalUnits: sale.TotalUnits,
		UnitsSold:  sale.UnitsSold,
	}
}

// Create opens a new sale, locks its prize into custody and collects the creation fee.
// Instant-win prizes are locked later with AddPrize.
func (e *Engine) Create(ctx context.Context, params CreateParams) (*entity.Sale, error) {
	var sale *entity.Sale
	err := e.inTx(ctx, "create", params.Creator, func(ctx context.Context, s *session) error {
		config, err := s.config(ctx)
		if err != nil {
			return err
		}
		v := createvalidator.New()
		if !v.HasCaller(params.Creator) || !v.NotPaused(config, entity.PauseCreate) {
			return v.Err()
		}

		id, err := allocation.CheckedAdd(config.SaleCount, 1)
		if err != nil {
			return errors.Wrap(err, "sale counter")
		}
		payout, err := params.payout()
		if err != nil {
			return err
		}
		shares := params.Shares
		if params.Mode == entity.PayoutSingleWinner && len(shares) == 0 {
			shares = []uint8{allocation.TotalPercent}
		}
		schedule, err := entity.NewShareSchedule(shares)
		if err != nil {
			return err
		}

		sale = &entity.Sale{
			ID:           id,
			Creator:      params.Creator,
			StartTime:    params.StartTime.UTC(),
			EndTime:      params.EndTime.UTC(),
			UnitPrice:    params.UnitPrice,
			TotalUnits:   params.TotalUnits,
			MaxWalletPct: params.MaxWalletPct,
			Prize:        params.Prize,
			PaymentAsset: params.PaymentAsset,
			Payout:       payout,
			Shares:       schedule,
			Status:       entity.StatusInitialized,
			CreatedAt:    s.now,
			UpdatedAt:    s.now,
		}
		if params.StartImmediately {
			sale.StartTime = s.now
			sale.Status = entity.StatusActive
		}
		if !v.Validate(config, sale, s.now) {
			return v.Err()
		}

		authority := sale.Authority(e.deriver)
		if err := s.custody.OpenHolding(ctx, sale.PaymentHolding(), sale.PaymentAsset, authority); err != nil {
			return errors.Wrap(err, "failed to open payment holding")
		}
		if _, instant := sale.Instant(); !instant {
			if err := s.custody.OpenHolding(ctx, sale.PrizeHolding(), sale.Prize.Asset, authority); err != nil {
				return errors.Wrap(err, "failed to open prize holding")
			}
			if err := s.custody.TransferIn(ctx, sale.Creator, sale.PrizeHolding(), sale.Prize.Quantity); err != nil {
				return errors.Wrap(err, "failed to lock prize")
			}
		}
		if config.CreationFee > 0 {
			feeHolding := entity.FeeHolding(custody.Native())
			if err := s.custody.OpenHolding(ctx, feeHolding, custody.Native(), e.configAuthority()); err != nil {
				return errors.Wrap(err, "failed to open fee holding")
			}
			if err := s.custody.TransferIn(ctx, sale.Creator, feeHolding, config.CreationFee); err != nil {
				return errors.Wrap(err, "failed to collect creation fee")
			}
		}

		config.SaleCount = id
		if err := s.qtx.PutConfig(ctx, *config); err != nil {
			return errors.Wrap(err, "failed to put config")
		}
		if err := s.qtx.CreateSale(ctx, *sale); err != nil {
			return errors.Wrap(err, "failed to create sale")
		}
		return s.emit(ctx, sale.ID, entity.ActionCreate, newSalePayload(sale))
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "sale created",
		slogx.Event("sale_create"),
		slogx.SaleID(sale.ID),
		slogx.String("mode", string(sale.Mode())),
		slogx.Uint64("prize_quantity", sale.Prize.Quantity),
	)
	return sale, nil
}
