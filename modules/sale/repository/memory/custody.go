package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
)

func (r *Repository) GetAccountBalance(_ context.Context, owner string, asset custody.Asset) (uint64, error) {
	var balance uint64
	err := r.read(func(s *state) error {
		balance = s.accounts[accountKey{owner, asset}]
		return nil
	})
	return balance, err
}

func (r *Repository) SetAccountBalance(_ context.Context, owner string, asset custody.Asset, balance uint64) error {
	return r.write(func(s *state) error {
		if balance == 0 {
			delete(s.accounts, accountKey{owner, asset})
			return nil
		}
		s.accounts[accountKey{owner, asset}] = balance
		return nil
	})
}

func (r *Repository) GetAccountBalances(_ context.Context, owner string) ([]entity.AccountBalance, error) {
	var result []entity.AccountBalance
	err := r.read(func(s *state) error {
		for key, balance := range s.accounts {
			if key.owner == owner && balance > 0 {
				result = append(result, entity.AccountBalance{Owner: owner, Asset: key.asset, Balance: balance})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Asset.String() < result[j].Asset.String()
	})
	return result, nil
}

func (r *Repository) GetHolding(_ context.Context, id custody.HoldingID) (*custody.Holding, error) {
	var holding *custody.Holding
	err := r.read(func(s *state) error {
		h, ok := s.holdings[id]
		if !ok {
			return errors.Wrapf(errs.NotFound, "holding %s", id)
		}
		h.AuthorityDigest = slices.Clone(h.AuthorityDigest)
		holding = &h
		return nil
	})
	return holding, err
}

func (r *Repository) PutHolding(_ context.Context, holding custody.Holding) error {
	return r.write(func(s *state) error {
		holding.AuthorityDigest = slices.Clone(holding.AuthorityDigest)
		s.holdings[holding.ID] = holding
		return nil
	})
}

func (r *Repository) DeleteHolding(_ context.Context, id custody.HoldingID) error {
	return r.write(func(s *state) error {
		delete(s.holdings, id)
		return nil
	})
}

func (r *Repository) GetHoldings(_ context.Context, prefix string) ([]custody.Holding, error) {
	var result []custody.Holding
	err := r.read(func(s *state) error {
		for id, h := range s.holdings {
			if strings.HasPrefix(id.String(), prefix) {
				result = append(result, h)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}
