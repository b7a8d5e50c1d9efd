package httphandler

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type saleResponse = HttpResponse[sale]

type getSalesRequest struct {
	paginationRequest
	Status  string `query:"status"`
	Creator string `query:"creator"`
}

type getSalesResult struct {
	List []sale `json:"list"`
}

type getSalesResponse = HttpResponse[getSalesResult]

func (h *HttpHandler) GetSales(ctx *fiber.Ctx) (err error) {
	var req getSalesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	req.ParseDefault()

	params := datagateway.GetSalesParams{
		Creator: req.Creator,
		Limit:   req.Limit,
		Offset:  req.Offset,
	}
	if req.Status != "" {
		status, err := entity.ParseStatus(req.Status)
		if err != nil {
			return errs.WithPublicMessage(err, "invalid 'status'")
		}
		params.Status = &status
	}

	sales, err := h.engine.GetSales(ctx.UserContext(), params)
	if err != nil {
		return errors.Wrap(err, "error during GetSales")
	}

	result := getSalesResult{
		List: lo.Map(sales, func(s entity.Sale, _ int) sale {
			return h.mapSale(&s)
		}),
	}
	return errors.WithStack(ctx.JSON(getSalesResponse{Result: &result}))
}

func (h *HttpHandler) GetSale(ctx *fiber.Ctx) (err error) {
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	s, err := h.engine.GetSale(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during GetSale")
	}

	result := h.mapSale(s)
	return errors.WithStack(ctx.JSON(saleResponse{Result: &result}))
}

type prizeRequest struct {
	Kind     entity.PrizeKind `json:"kind"`
	Asset    assetRequest     `json:"asset"`
	Quantity uint64           `json:"quantity"`
}

type biddingRequest struct {
	MinIncrement         uint64 `json:"minIncrement"`
	TimeExtensionSeconds int64  `json:"timeExtensionSeconds"`
}

type createSaleRequest struct {
	// StartTime and EndTime are unix seconds.
	StartTime        int64           `json:"startTime"`
	EndTime          int64           `json:"endTime"`
	StartImmediately bool            `json:"startImmediately"`
	UnitPrice        uint64          `json:"unitPrice"`
	TotalUnits       uint64          `json:"totalUnits"`
	MaxWalletPct     uint8           `json:"maxWalletPct"`
	Prize            *prizeRequest   `json:"prize"` // omitted for instant-win sales
	PaymentAsset     assetRequest    `json:"paymentAsset"`
	Mode             string          `json:"mode"`
	Shares           []uint8         `json:"shares"`
	UniqueWinners    bool            `json:"uniqueWinners"`
	Bidding          *biddingRequest `json:"bidding"`
}

func (r createSaleRequest) Validate() error {
	var errList []error
	if r.EndTime <= 0 {
		errList = append(errList, errors.New("'endTime' is required"))
	}
	if !r.StartImmediately && r.StartTime <= 0 {
		errList = append(errList, errors.New("'startTime' is required unless 'startImmediately' is set"))
	}
	if r.Bidding != nil && r.Bidding.TimeExtensionSeconds < 0 {
		errList = append(errList, errors.New("'bidding.timeExtensionSeconds' must be non-negative"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (r createSaleRequest) params(creator string) (engine.CreateParams, error) {
	mode, err := entity.ParsePayoutMode(r.Mode)
	if err != nil {
		return engine.CreateParams{}, errs.WithPublicMessage(err, "invalid 'mode'")
	}
	paymentAsset, err := r.PaymentAsset.asset()
	if err != nil {
		return engine.CreateParams{}, errors.WithStack(err)
	}
	params := engine.CreateParams{
		Creator:          creator,
		StartImmediately: r.StartImmediately,
		EndTime:          time.Unix(r.EndTime, 0).UTC(),
		UnitPrice:        r.UnitPrice,
		TotalUnits:       r.TotalUnits,
		MaxWalletPct:     r.MaxWalletPct,
		PaymentAsset:     paymentAsset,
		Mode:             mode,
		Shares:           r.Shares,
		UniqueWinners:    r.UniqueWinners,
	}
	if r.Prize != nil {
		asset, err := r.Prize.Asset.asset()
		if err != nil {
			return engine.CreateParams{}, errors.WithStack(err)
		}
		params.Prize = entity.Prize{
			Kind:     r.Prize.Kind,
			Asset:    asset,
			Quantity: r.Prize.Quantity,
		}
	}
	if r.StartTime > 0 {
		params.StartTime = time.Unix(r.StartTime, 0).UTC()
	}
	if r.Bidding != nil {
		params.Bidding = &engine.BiddingParams{
			MinIncrement:  r.Bidding.MinIncrement,
			TimeExtension: time.Duration(r.Bidding.TimeExtensionSeconds) * time.Second,
		}
	}
	return params, nil
}

func (h *HttpHandler) CreateSale(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req createSaleRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	params, err := req.params(identity)
	if err != nil {
		return errors.WithStack(err)
	}

	s, err := h.engine.Create(ctx.UserContext(), params)
	if err != nil {
		return errors.Wrap(err, "error during Create")
	}

	result := h.mapSale(s)
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(saleResponse{Result: &result}))
}

// updateSaleRequest only changes the fields that are present.
type updateSaleRequest struct {
	StartTime            *int64  `json:"startTime"`
	EndTime              *int64  `json:"endTime"`
	UnitPrice            *uint64 `json:"unitPrice"`
	TotalUnits           *uint64 `json:"totalUnits"`
	MaxWalletPct         *uint8  `json:"maxWalletPct"`
	Shares               []uint8 `json:"shares"`
	MinIncrement         *uint64 `json:"minIncrement"`
	TimeExtensionSeconds *int64  `json:"timeExtensionSeconds"`
}

func (r updateSaleRequest) params(caller string, saleID uint64) (engine.UpdateParams, error) {
	params := engine.UpdateParams{
		Caller:       caller,
		SaleID:       saleID,
		UnitPrice:    r.UnitPrice,
		TotalUnits:   r.TotalUnits,
		MaxWalletPct: r.MaxWalletPct,
		Shares:       r.Shares,
		MinIncrement: r.MinIncrement,
	}
	if r.StartTime != nil {
		params.StartTime = lo.ToPtr(time.Unix(*r.StartTime, 0).UTC())
	}
	if r.EndTime != nil {
		params.EndTime = lo.ToPtr(time.Unix(*r.EndTime, 0).UTC())
	}
	if r.TimeExtensionSeconds != nil {
		if *r.TimeExtensionSeconds < 0 {
			return engine.UpdateParams{}, errs.NewPublicError("'timeExtensionSeconds' must be non-negative")
		}
		params.TimeExtension = lo.ToPtr(time.Duration(*r.TimeExtensionSeconds) * time.Second)
	}
	return params, nil
}

func (h *HttpHandler) UpdateSale(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req updateSaleRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	params, err := req.params(identity, id)
	if err != nil {
		return errors.WithStack(err)
	}

	s, err := h.engine.Update(ctx.UserContext(), params)
	if err != nil {
		return errors.Wrap(err, "error during Update")
	}

	result := h.mapSale(s)
	return errors.WithStack(ctx.JSON(saleResponse{Result: &result}))
}

func (h *HttpHandler) ActivateSale(ctx *fiber.Ctx) (err error) {
	return h.transition(ctx, h.engine.Activate)
}

func (h *HttpHandler) CancelSale(ctx *fiber.Ctx) (err error) {
	return h.transition(ctx, h.engine.Cancel)
}

type transitionFunc func(ctx context.Context, caller string, saleID uint64) (*entity.Sale, error)

func (h *HttpHandler) transition(ctx *fiber.Ctx, fn transitionFunc) error {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	s, err := fn(ctx.UserContext(), identity, id)
	if err != nil {
		return errors.WithStack(err)
	}

	result := h.mapSale(s)
	return errors.WithStack(ctx.JSON(saleResponse{Result: &result}))
}
