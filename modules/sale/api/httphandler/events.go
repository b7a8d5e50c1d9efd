package httphandler

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type event struct {
	Id        int64              `json:"id"`
	SaleId    uint64             `json:"saleId"`
	Action    entity.EventAction `json:"action"`
	Actor     string             `json:"actor"`
	Payload   json.RawMessage    `json:"payload"`
	CreatedAt int64              `json:"createdAt"`
}

type getEventsResult struct {
	List []event `json:"list"`
}

type getEventsResponse = HttpResponse[getEventsResult]

func (h *HttpHandler) GetSaleEvents(ctx *fiber.Ctx) (err error) {
	id, err := parseSaleId(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return h.getEvents(ctx, id)
}

// GetConfigEvents lists the config and account events, which belong to no sale.
func (h *HttpHandler) GetConfigEvents(ctx *fiber.Ctx) (err error) {
	return h.getEvents(ctx, 0)
}

func (h *HttpHandler) getEvents(ctx *fiber.Ctx, saleID uint64) error {
	var req paginationRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	req.ParseDefault()

	events, err := h.engine.GetEvents(ctx.UserContext(), datagateway.GetEventsParams{
		SaleID: saleID,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return errors.Wrap(err, "error during GetEvents")
	}

	result := getEventsResult{
		List: lo.Map(events, func(e entity.Event, _ int) event {
			return event{
				Id:        e.ID,
				SaleId:    e.SaleID,
				Action:    e.Action,
				Actor:     e.Actor,
				Payload:   e.Payload,
				CreatedAt: unixTime(e.CreatedAt),
			}
		}),
	}
	return errors.WithStack(ctx.JSON(getEventsResponse{Result: &result}))
}
