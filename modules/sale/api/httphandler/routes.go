package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/sale/v1")

	r.Get("/config", h.GetConfig)
	r.Post("/config", h.InitConfig)
	r.Patch("/config", h.UpdateConfig)
	r.Put("/config/admin", h.SetAdmin)
	r.Put("/config/pause", h.SetPauseFlags)
	r.Post("/config/withdraw-fees", h.WithdrawFees)
	r.Get("/config/events", h.GetConfigEvents)

	r.Get("/sales", h.GetSales)
	r.Post("/sales", h.CreateSale)
	r.Get("/sales/:id", h.GetSale)
	r.Patch("/sales/:id", h.UpdateSale)
	r.Post("/sales/:id/activate", h.ActivateSale)
	r.Post("/sales/:id/cancel", h.CancelSale)
	r.Post("/sales/:id/prizes", h.AddPrize)
	r.Get("/sales/:id/slots", h.GetPrizeSlots)
	r.Post("/sales/:id/slots/:index/claim-back", h.ClaimPrizeSlotBack)
	r.Post("/sales/:id/purchase", h.Purchase)
	r.Post("/sales/:id/finalize", h.Finalize)
	r.Post("/sales/:id/claim", h.WinnerClaim)
	r.Post("/sales/:id/claim-back", h.CreatorClaimBack)
	r.Get("/sales/:id/participants", h.GetParticipants)
	r.Get("/sales/:id/holdings", h.GetHoldings)
	r.Get("/sales/:id/events", h.GetSaleEvents)

	r.Get("/accounts/:owner", h.GetBalances)
	r.Post("/accounts/:owner/deposit", h.Deposit)
	r.Post("/accounts/:owner/withdraw", h.Withdraw)
	return nil
}
