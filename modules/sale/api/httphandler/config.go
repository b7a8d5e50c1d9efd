package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gofiber/fiber/v2"
)

type configResponse = HttpResponse[config]

func (h *HttpHandler) GetConfig(ctx *fiber.Ctx) (err error) {
	c, err := h.engine.GetConfig(ctx.UserContext())
	if err != nil {
		return errors.Wrap(err, "error during GetConfig")
	}
	result := mapConfig(c)
	return errors.WithStack(ctx.JSON(configResponse{Result: &result}))
}

type configParamsRequest struct {
	FeeBps                  uint16 `json:"feeBps"`
	CreationFee             uint64 `json:"creationFee"`
	MinPeriodSeconds        int64  `json:"minPeriodSeconds"`
	MaxPeriodSeconds        int64  `json:"maxPeriodSeconds"`
	MinUnits                uint64 `json:"minUnits"`
	MaxUnits                uint64 `json:"maxUnits"`
	MaxWinners              uint8  `json:"maxWinners"`
	MaxWalletPct            uint8  `json:"maxWalletPct"`
	MinTimeExtensionSeconds int64  `json:"minTimeExtensionSeconds"`
	MaxTimeExtensionSeconds int64  `json:"maxTimeExtensionSeconds"`
}

func (r configParamsRequest) Validate() error {
	var errList []error
	for name, v := range map[string]int64{
		"minPeriodSeconds":        r.MinPeriodSeconds,
		"maxPeriodSeconds":        r.MaxPeriodSeconds,
		"minTimeExtensionSeconds": r.MinTimeExtensionSeconds,
		"maxTimeExtensionSeconds": r.MaxTimeExtensionSeconds,
	} {
		if v < 0 {
			errList = append(errList, errors.Errorf("'%s' must be non-negative", name))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (r configParamsRequest) params() engine.ConfigParams {
	return engine.ConfigParams{
		FeeBps:           r.FeeBps,
		CreationFee:      r.CreationFee,
		MinPeriod:        time.Duration(r.MinPeriodSeconds) * time.Second,
		MaxPeriod:        time.Duration(r.MaxPeriodSeconds) * time.Second,
		MinUnits:         r.MinUnits,
		MaxUnits:         r.MaxUnits,
		MaxWinners:       r.MaxWinners,
		MaxWalletPct:     r.MaxWalletPct,
		MinTimeExtension: time.Duration(r.MinTimeExtensionSeconds) * time.Second,
		MaxTimeExtension: time.Duration(r.MaxTimeExtensionSeconds) * time.Second,
	}
}

type initConfigRequest struct {
	configParamsRequest
	Admin string `json:"admin"`
}

// InitConfig makes the caller the owner of the engine config.
func (h *HttpHandler) InitConfig(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req initConfigRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	c, err := h.engine.InitConfig(ctx.UserContext(), identity, req.Admin, req.params())
	if err != nil {
		return errors.Wrap(err, "error during InitConfig")
	}
	result := mapConfig(c)
	return errors.WithStack(ctx.JSON(configResponse{Result: &result}))
}

func (h *HttpHandler) UpdateConfig(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req configParamsRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	c, err := h.engine.UpdateConfig(ctx.UserContext(), identity, req.params())
	if err != nil {
		return errors.Wrap(err, "error during UpdateConfig")
	}
	result := mapConfig(c)
	return errors.WithStack(ctx.JSON(configResponse{Result: &result}))
}

type setAdminRequest struct {
	Admin string `json:"admin"`
}

func (h *HttpHandler) SetAdmin(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req setAdminRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	if req.Admin == "" {
		return errs.NewPublicError("'admin' is required")
	}

	c, err := h.engine.SetAdmin(ctx.UserContext(), identity, req.Admin)
	if err != nil {
		return errors.Wrap(err, "error during SetAdmin")
	}
	result := mapConfig(c)
	return errors.WithStack(ctx.JSON(configResponse{Result: &result}))
}

type setPauseFlagsRequest struct {
	Flags uint8 `json:"flags"`
}

func (h *HttpHandler) SetPauseFlags(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req setPauseFlagsRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}

	c, err := h.engine.SetPauseFlags(ctx.UserContext(), identity, req.Flags)
	if err != nil {
		return errors.Wrap(err, "error during SetPauseFlags")
	}
	result := mapConfig(c)
	return errors.WithStack(ctx.JSON(configResponse{Result: &result}))
}

type withdrawFeesRequest struct {
	Asset assetRequest `json:"asset"`
	// Recipient defaults to the caller.
	Recipient string `json:"recipient"`
	// Amount zero withdraws the whole fee holding.
	Amount uint64 `json:"amount"`
}

type withdrawFeesResult struct {
	Withdrawn        uint64 `json:"withdrawn"`
	WithdrawnDisplay string `json:"withdrawnDisplay"`
}

type withdrawFeesResponse = HttpResponse[withdrawFeesResult]

func (h *HttpHandler) WithdrawFees(ctx *fiber.Ctx) (err error) {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req withdrawFeesRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	asset, err := req.Asset.asset()
	if err != nil {
		return errors.WithStack(err)
	}
	withdrawn, err := h.engine.WithdrawFees(ctx.UserContext(), identity, asset, req.Recipient, req.Amount)
	if err != nil {
		return errors.Wrap(err, "error during WithdrawFees")
	}
	result := withdrawFeesResult{
		Withdrawn:        withdrawn,
		WithdrawnDisplay: h.display(asset, withdrawn),
	}
	return errors.WithStack(ctx.JSON(withdrawFeesResponse{Result: &result}))
}
