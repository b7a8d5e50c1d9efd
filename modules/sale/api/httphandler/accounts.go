package httphandler

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/sale-engine/pkg/decimals"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type ownerRequest struct {
	Owner string `params:"owner"`
}

func parseOwner(ctx *fiber.Ctx) (string, error) {
	var req ownerRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return "", errors.WithStack(err)
	}
	if req.Owner == "" {
		return "", errs.NewPublicError("'owner' is required")
	}
	return req.Owner, nil
}

type getBalancesResult struct {
	Owner string    `json:"owner"`
	List  []balance `json:"list"`
}

type getBalancesResponse = HttpResponse[getBalancesResult]

func (h *HttpHandler) GetBalances(ctx *fiber.Ctx) (err error) {
	owner, err := parseOwner(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	balances, err := h.engine.Balances(ctx.UserContext(), owner)
	if err != nil {
		return errors.Wrap(err, "error during Balances")
	}

	result := getBalancesResult{
		Owner: owner,
		List: lo.Map(balances, func(b entity.AccountBalance, _ int) balance {
			return h.mapBalance(b.Asset, b.Balance)
		}),
	}
	return errors.WithStack(ctx.JSON(getBalancesResponse{Result: &result}))
}

type accountTransferRequest struct {
	Asset  assetRequest `json:"asset"`
	Amount uint64       `json:"amount"`
	// AmountDisplay is the amount in display units of the asset, e.g. "1.5". Exclusive with Amount.
	AmountDisplay string `json:"amountDisplay"`
}

func (h *HttpHandler) baseUnits(asset custody.Asset, req accountTransferRequest) (uint64, error) {
	if req.AmountDisplay == "" {
		return req.Amount, nil
	}
	if req.Amount != 0 {
		return 0, errs.NewPublicError("only one of 'amount' and 'amountDisplay' can be set")
	}
	amount, err := decimals.ToBaseUnits(req.AmountDisplay, h.decimalsOf(asset))
	if err != nil {
		return 0, errs.WithPublicMessage(err, "invalid 'amountDisplay'")
	}
	return amount, nil
}

type accountTransferResponse = HttpResponse[balance]

// Deposit credits an external account. The caller must be the account owner; settling the
// funds outside of the engine is up to the host.
func (h *HttpHandler) Deposit(ctx *fiber.Ctx) (err error) {
	return h.accountTransfer(ctx, "Deposit", h.engine.Deposit)
}

// Withdraw debits an external account of the caller.
func (h *HttpHandler) Withdraw(ctx *fiber.Ctx) (err error) {
	return h.accountTransfer(ctx, "Withdraw", h.engine.Withdraw)
}

type accountTransferFunc func(ctx context.Context, owner string, asset custody.Asset, amount uint64) error

func (h *HttpHandler) accountTransfer(ctx *fiber.Ctx, op string, fn accountTransferFunc) error {
	identity, err := caller(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	owner, err := parseOwner(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if owner != identity {
		return errors.Wrapf(entity.ErrNotAccountOwner, "%s can't move funds of %s", identity, owner)
	}
	var req accountTransferRequest
	if err := parseBody(ctx, &req); err != nil {
		return errors.WithStack(err)
	}
	asset, err := req.Asset.asset()
	if err != nil {
		return errors.WithStack(err)
	}

	amount, err := h.baseUnits(asset, req)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := fn(ctx.UserContext(), owner, asset, amount); err != nil {
		return errors.Wrapf(err, "error during %s", op)
	}

	balances, err := h.engine.Balances(ctx.UserContext(), owner)
	if err != nil {
		return errors.Wrap(err, "error during Balances")
	}
	current, _ := lo.Find(balances, func(b entity.AccountBalance) bool { return b.Asset == asset })

	result := h.mapBalance(asset, current.Balance)
	return errors.WithStack(ctx.JSON(accountTransferResponse{Result: &result}))
}
