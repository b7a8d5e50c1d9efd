package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gofiber/fiber/v2"
)

type purchaseRequest struct {
	Quantity uint64 `json:"quantity"`
	// BidAmount is the offered price of an auction bid.
	BidAmount uint64 `json:"bidAmount"`
	// SlotIndex picks the prize slot of an instant-win purchase.
	SlotIndex uint32 `json:"slotIndex"`
}

type purchaseResult struct {
	Sale        sale   `json:"sale"`
	Units       uint64 `json:"units"`
	Paid        uint64 `json:"paid"`
	Refunded    uint64 `json:"refunded"`
	PrizeAmount uint64 `json:"prizeAmount"`
}

type purchaseResponse = HttpResponse[purchaseResult]

// Purchase places an auction bid or buys raffle or instant-win units.
func (h *HttpHandler) Purchase(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req purchaseRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}

	res, err := h.engine.PlaceBidOrBuy(ctx.UserContext(), engine.PurchaseParams{
		Caller:    identity,
		SaleID:    id,
		Quantity:  req.Quantity,
		BidAmount: req.BidAmount,
		SlotIndex: req.SlotIndex,
	})
	if err != nil {
		return errors.Wrap(err, "error during PlaceBidOrBuy")
	}

	result := purchaseResult{
		Sale:        h.mapSale(res.Sale),
		Paid:        res.Paid,
		Refunded:    res.Refunded,
		PrizeAmount: res.PrizeAmount,
	}
	if res.Participant != nil {
		result.Units = res.Participant.Units
	}
	return errors.WithStack(ctx.JSON(purchaseResponse{Result: &result}))
}

type finalizeRequest struct {
	Winners []string `json:"winners"`
}

type finalizeResult struct {
	Sale         sale   `json:"sale"`
	Revenue      uint64 `json:"revenue"`
	Fee          uint64 `json:"fee"`
	CreatorShare uint64 `json:"creatorShare"`
}

type finalizeResponse = HttpResponse[finalizeResult]

func (h *HttpHandler) Finalize(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req finalizeRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return errors.WithStack(err)
		}
	}

	res, err := h.engine.Finalize(ctx.UserContext(), engine.FinalizeParams{
		Caller:  identity,
		SaleID:  id,
		Winners: req.Winners,
	})
	if err != nil {
		return errors.Wrap(err, "error during Finalize")
	}

	result := finalizeResult{
		Sale:         h.mapSale(res.Sale),
		Revenue:      res.Revenue,
		Fee:          res.Fee,
		CreatorShare: res.CreatorShare,
	}
	return errors.WithStack(ctx.JSON(finalizeResponse{Result: &result}))
}

type winnerClaimRequest struct {
	// Slot limits the claim to one winner slot.
	Slot *uint8 `json:"slot"`
}

func (h *HttpHandler) WinnerClaim(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req winnerClaimRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return errors.WithStack(err)
		}
	}

	amount, err := h.engine.WinnerClaim(ctx.UserContext(), engine.WinnerClaimParams{
		Caller: identity,
		SaleID: id,
		Slot:   req.Slot,
	})
	if err != nil {
		return errors.Wrap(err, "error during WinnerClaim")
	}

	result := claimedResult{Amount: amount}
	return errors.WithStack(ctx.JSON(claimedResponse{Result: &result}))
}

type claimBackResult struct {
	Prize   uint64 `json:"prize"`
	Payment uint64 `json:"payment"`
}

type claimBackResponse = HttpResponse[claimBackResult]

func (h *HttpHandler) CreatorClaimBack(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	res, err := h.engine.CreatorClaimBack(ctx.UserContext(), identity, id)
	if err != nil {
		return errors.Wrap(err, "error during CreatorClaimBack")
	}

	result := claimBackResult(*res)
	return errors.WithStack(ctx.JSON(claimBackResponse{Result: &result}))
}
