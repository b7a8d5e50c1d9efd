package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

// Deposit credits an external account, e.g. after the host received funds for it.
func (e *Engine) Deposit(ctx context.Context, owner string, asset custody.Asset, amount uint64) error {
	return e.moveAccount(ctx, "deposit", entity.ActionDeposit, owner, asset, amount, (*custody.Gateway).Deposit)
}

// Withdraw debits an external account, e.g. before the host pays the funds out.
func (e *Engine) Withdraw(ctx context.Context, owner string, asset custody.Asset, amount uint64) error {
	return e.moveAccount(ctx, "withdraw", entity.ActionWithdraw, owner, asset, amount, (*custody.Gateway).Withdraw)
}

func (e *Engine) moveAccount(
	ctx context.Context,
	op string,
	action entity.EventAction,
	owner string,
	asset custody.Asset,
	amount uint64,
	move func(g *custody.Gateway, ctx context.Context, owner string, asset custody.Asset, amount uint64) error,
) error {
	err := e.inTx(ctx, op, owner, func(ctx context.Context, s *session) error {
		if owner == "" {
			return errors.WithStack(entity.ErrMissingCaller)
		}
		if err := move(s.custody, ctx, owner, asset, amount); err != nil {
			return errors.WithStack(err)
		}
		return s.emit(ctx, 0, action, map[string]any{
			"owner":  owner,
			"asset":  asset.String(),
			"amount": amount,
		})
	})
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "account balance changed",
		slogx.Event("account_"+op),
		slogx.String("owner", owner),
		slogx.String("asset", asset.String()),
		slogx.Uint64("amount", amount),
	)
	return nil
}

func (e *Engine) Balances(ctx context.Context, owner string) ([]entity.AccountBalance, error) {
	balances, err := e.dg.GetAccountBalances(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account balances")
	}
	return balances, nil
}
