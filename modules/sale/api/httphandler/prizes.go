package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type prizeSlotResponse = HttpResponse[prizeSlot]

type addPrizeRequest struct {
	Asset         assetRequest `json:"asset"`
	AmountPerUnit uint64       `json:"amountPerUnit"`
	Quantity      uint64       `json:"quantity"`
}

func (h *HttpHandler) AddPrize(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req addPrizeRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	asset, err := req.Asset.asset()
	if err != nil {
		return errors.WithStack(err)
	}

	slot, err := h.engine.AddPrize(ctx.UserContext(), engine.AddPrizeParams{
		Caller:        identity,
		SaleID:        id,
		Asset:         asset,
		AmountPerUnit: req.AmountPerUnit,
		Quantity:      req.Quantity,
	})
	if err != nil {
		return errors.Wrap(err, "error during AddPrize")
	}

	result := h.mapPrizeSlot(*slot)
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(prizeSlotResponse{Result: &result}))
}

type getPrizeSlotsResult struct {
	List []prizeSlot `json:"list"`
}

type getPrizeSlotsResponse = HttpResponse[getPrizeSlotsResult]

func (h *HttpHandler) GetPrizeSlots(ctx *fiber.Ctx) (err error) {
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	slots, err := h.engine.GetPrizeSlots(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during GetPrizeSlots")
	}

	result := getPrizeSlotsResult{
		List: lo.Map(slots, func(s entity.PrizeSlot, _ int) prizeSlot {
			return h.mapPrizeSlot(s)
		}),
	}
	return errors.WithStack(ctx.JSON(getPrizeSlotsResponse{Result: &result}))
}

type slotIndexRequest struct {
	Index uint32 `params:"index"`
}

type claimedResult struct {
	Amount uint64 `json:"amount"`
}

type claimedResponse = HttpResponse[claimedResult]

func (h *HttpHandler) ClaimPrizeSlotBack(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req slotIndexRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errs.WithPublicMessage(errors.WithStack(err), "'index' must be a prize slot index")
	}

	amount, err := h.engine.ClaimPrizeSlotBack(ctx.UserContext(), identity, id, req.Index)
	if err != nil {
		return errors.Wrap(err, "error during ClaimPrizeSlotBack")
	}

	result := claimedResult{Amount: amount}
	return errors.WithStack(ctx.JSON(claimedResponse{Result: &result}))
}
