package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/repository/postgres/gen"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) GetAccountBalance(ctx context.Context, owner string, asset custody.Asset) (uint64, error) {
	balance, err := r.queries.GetAccountBalance(ctx, gen.GetAccountBalanceParams{
		Owner: owner,
		Asset: asset.String(),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "error during query")
	}
	v, err := uint64FromNumeric(balance)
	return v, errors.Wrapf(err, "invalid balance of %s", owner)
}

func (r *Repository) SetAccountBalance(ctx context.Context, owner string, asset custody.Asset, balance uint64) error {
	var err error
	if balance == 0 {
		err = r.queries.DeleteAccount(ctx, gen.DeleteAccountParams{Owner: owner, Asset: asset.String()})
	} else {
		err = r.queries.SetAccountBalance(ctx, gen.SetAccountBalanceParams{
			Owner:   owner,
			Asset:   asset.String(),
			Balance: numericFromUint64(balance),
		})
	}
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetAccountBalances(ctx context.Context, owner string) ([]entity.AccountBalance, error) {
	models, err := r.queries.GetAccountBalances(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	balances := make([]entity.AccountBalance, 0, len(models))
	for _, model := range models {
		balance, err := uint64FromNumeric(model.Balance)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s balance", model.Asset)
		}
		balances = append(balances, entity.AccountBalance{
			Owner:   model.Owner,
			Asset:   custody.ParseAsset(model.Asset),
			Balance: balance,
		})
	}
	return balances, nil
}

func (r *Repository) GetHolding(ctx context.Context, id custody.HoldingID) (*custody.Holding, error) {
	model, err := r.queries.GetHolding(ctx, id.String())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "holding %s", id)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	holding, err := mapHoldingModelToType(model)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map holding %s", id)
	}
	return &holding, nil
}

func (r *Repository) PutHolding(ctx context.Context, holding custody.Holding) error {
	if err := r.queries.PutHolding(ctx, mapHoldingTypeToParams(holding)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteHolding(ctx context.Context, id custody.HoldingID) error {
	if err := r.queries.DeleteHolding(ctx, id.String()); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetHoldings(ctx context.Context, prefix string) ([]custody.Holding, error) {
	models, err := r.queries.GetHoldingsByPrefix(ctx, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	holdings := make([]custody.Holding, 0, len(models))
	for _, model := range models {
		holding, err := mapHoldingModelToType(model)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to map holding %s", model.ID)
		}
		holdings = append(holdings, holding)
	}
	return holdings, nil
}
