package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type participant struct {
	Identity string `json:"identity"`
	Units    uint64 `json:"units"`
}

type getParticipantsResult struct {
	List []participant `json:"list"`
}

type getParticipantsResponse = HttpResponse[getParticipantsResult]

func (h *HttpHandler) GetParticipants(ctx *fiber.Ctx) (err error) {
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req paginationRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	req.ParseDefault()

	participants, err := h.engine.GetParticipants(ctx.UserContext(), datagateway.GetParticipantsParams{
		SaleID: id,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return errors.Wrap(err, "error during GetParticipants")
	}

	result := getParticipantsResult{
		List: lo.Map(participants, func(p entity.Participant, _ int) participant {
			return participant{Identity: p.Identity, Units: p.Units}
		}),
	}
	return errors.WithStack(ctx.JSON(getParticipantsResponse{Result: &result}))
}

type holding struct {
	Id       string `json:"id"`
	Asset    string `json:"asset"`
	Balance  uint64 `json:"balance"`
	Display  string `json:"display"`
	TotalIn  uint64 `json:"totalIn"`
	TotalOut uint64 `json:"totalOut"`
}

type getHoldingsResult struct {
	List []holding `json:"list"`
}

type getHoldingsResponse = HttpResponse[getHoldingsResult]

// GetHoldings lists the custody holdings of a sale: payment, prize and prize slots.
func (h *HttpHandler) GetHoldings(ctx *fiber.Ctx) (err error) {
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	holdings, err := h.engine.GetSaleHoldings(ctx.UserContext(), id)
	if err != nil {
		return errors.Wrap(err, "error during GetSaleHoldings")
	}

	result := getHoldingsResult{
		List: lo.Map(holdings, func(c custody.Holding, _ int) holding {
			return holding{
				Id:       c.ID.String(),
				Asset:    c.Asset.String(),
				Balance:  c.Balance,
				Display:  h.display(c.Asset, c.Balance),
				TotalIn:  c.TotalIn,
				TotalOut: c.TotalOut,
			}
		}),
	}
	return errors.WithStack(ctx.JSON(getHoldingsResponse{Result: &result}))
}
