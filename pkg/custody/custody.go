// Package custody moves value between external accounts and engine-owned holdings.
//
// External accounts are plain balances keyed by (owner, asset). Holdings are balances owned by
// an entity of the engine; value can only leave a holding with that entity's [Authority].
// The gateway is bound to a [Store], which is normally scoped to a single database transaction,
// so a failing operation never leaves a partial transfer behind.
package custody

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/pkg/allocation"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

var (
	ErrInsufficientBalance = errors.Mark(errors.New("insufficient balance"), errs.CustodyError)
	ErrTransferFailed      = errors.Mark(errors.New("transfer failed"), errs.CustodyError)
	ErrHoldingNotEmpty     = errors.Mark(errors.New("holding is not empty"), errs.CustodyError)
	ErrInvalidAuthority    = errors.Mark(errors.New("invalid holding authority"), errs.AuthorizationError)
)

// HoldingID addresses a holding, e.g. "sale/12/prize".
type HoldingID string

func (id HoldingID) String() string {
	return string(id)
}

// Holding is an engine-owned balance.
type Holding struct {
	ID              HoldingID
	Asset           Asset
	Balance         uint64
	TotalIn         uint64
	TotalOut        uint64
	AuthorityDigest []byte
}

// Store is the persistence the gateway works on.
type Store interface {
	// GetAccountBalance returns the balance of an external account, zero if it doesn't exist.
	GetAccountBalance(ctx context.Context, owner string, asset Asset) (uint64, error)
	SetAccountBalance(ctx context.Context, owner string, asset Asset, balance uint64) error
	// GetHolding returns errs.NotFound if the holding doesn't exist.
	GetHolding(ctx context.Context, id HoldingID) (*Holding, error)
	PutHolding(ctx context.Context, holding Holding) error
	DeleteHolding(ctx context.Context, id HoldingID) error
}

// Gateway is the only component that changes balances.
type Gateway struct {
	store Store
}

func New(store Store) *Gateway {
	return &Gateway{store: store}
}

// OpenHolding creates an empty holding owned by authority. Opening an existing holding
// with the same authority and asset is a no-op.
func (g *Gateway) OpenHolding(ctx context.Context, id HoldingID, asset Asset, authority Authority) error {
	if authority.IsZero() {
		return errors.Wrapf(ErrInvalidAuthority, "open holding %s", id)
	}
	existing, err := g.store.GetHolding(ctx, id)
	switch {
	case err == nil:
		if existing.Asset != asset || !authority.verify(id, existing.AuthorityDigest) {
			return errors.Wrapf(errs.Conflict, "holding %s already exists", id)
		}
		return nil
	case !errors.Is(err, errs.NotFound):
		return errors.Wrapf(err, "failed to get holding %s", id)
	}
	if err := g.store.PutHolding(ctx, Holding{
		ID:              id,
		Asset:           asset,
		AuthorityDigest: authority.digest(id),
	}); err != nil {
		return errors.Wrapf(err, "failed to open holding %s", id)
	}
	return nil
}

// TransferIn moves amount from the payer's account into the holding.
func (g *Gateway) TransferIn(ctx context.Context, payer string, id HoldingID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	holding, err := g.getHolding(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}
	balance, err := g.store.GetAccountBalance(ctx, payer, holding.Asset)
	if err != nil {
		return errors.Wrapf(err, "failed to get balance of %s", payer)
	}
	if balance < amount {
		return errors.Wrapf(ErrInsufficientBalance, "%s has %d %s, needs %d", payer, balance, holding.Asset, amount)
	}
	if holding.Balance, err = allocation.CheckedAdd(holding.Balance, amount); err != nil {
		return errors.Wrapf(ErrTransferFailed, "holding %s balance overflow", id)
	}
	if holding.TotalIn, err = allocation.CheckedAdd(holding.TotalIn, amount); err != nil {
		return errors.Wrapf(ErrTransferFailed, "holding %s inflow overflow", id)
	}
	if err := g.store.SetAccountBalance(ctx, payer, holding.Asset, balance-amount); err != nil {
		return errors.Wrapf(err, "failed to debit %s", payer)
	}
	if err := g.store.PutHolding(ctx, *holding); err != nil {
		return errors.Wrapf(err, "failed to credit holding %s", id)
	}
	logger.DebugContext(ctx, "custody transfer in",
		slogx.String("holding", id.String()),
		slogx.String("payer", payer),
		slogx.Uint64("amount", amount),
	)
	return nil
}

// TransferOut moves amount from the holding to the recipient's account.
func (g *Gateway) TransferOut(ctx context.Context, id HoldingID, authority Authority, recipient string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	holding, err := g.authorizedHolding(ctx, id, authority)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.Wrapf(ErrTransferFailed, "holding %s is closed", id)
		}
		return errors.WithStack(err)
	}
	if holding.Balance < amount {
		return errors.Wrapf(ErrInsufficientBalance, "holding %s has %d %s, needs %d", id, holding.Balance, holding.Asset, amount)
	}
	if err := g.credit(ctx, recipient, holding.Asset, amount); err != nil {
		return errors.WithStack(err)
	}
	holding.Balance -= amount
	if holding.TotalOut, err = allocation.CheckedAdd(holding.TotalOut, amount); err != nil {
		return errors.Wrapf(ErrTransferFailed, "holding %s outflow overflow", id)
	}
	if err := g.store.PutHolding(ctx, *holding); err != nil {
		return errors.Wrapf(err, "failed to debit holding %s", id)
	}
	logger.DebugContext(ctx, "custody transfer out",
		slogx.String("holding", id.String()),
		slogx.String("recipient", recipient),
		slogx.Uint64("amount", amount),
	)
	return nil
}

// Move transfers between two holdings owned by possibly different entities.
func (g *Gateway) Move(ctx context.Context, from HoldingID, authority Authority, to HoldingID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	source, err := g.authorizedHolding(ctx, from, authority)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.Wrapf(ErrTransferFailed, "holding %s is closed", from)
		}
		return errors.WithStack(err)
	}
	target, err := g.getHolding(ctx, to)
	if err != nil {
		return errors.WithStack(err)
	}
	if source.Asset != target.Asset {
		return errors.Wrapf(ErrTransferFailed, "asset mismatch %s -> %s", source.Asset, target.Asset)
	}
	if source.Balance < amount {
		return errors.Wrapf(ErrInsufficientBalance, "holding %s has %d %s, needs %d", from, source.Balance, source.Asset, amount)
	}
	source.Balance -= amount
	if source.TotalOut, err = allocation.CheckedAdd(source.TotalOut, amount); err != nil {
		return errors.Wrapf(ErrTransferFailed, "holding %s outflow overflow", from)
	}
	if target.Balance, err = allocation.CheckedAdd(target.Balance, amount); err != nil {
		return errors.Wrapf(ErrTransferFailed, "holding %s balance overflow", to)
	}
	if target.TotalIn, err = allocation.CheckedAdd(target.TotalIn, amount); err != nil {
		return errors.Wrapf(ErrTransferFailed, "holding %s inflow overflow", to)
	}
	if err := g.store.PutHolding(ctx, *source); err != nil {
		return errors.Wrapf(err, "failed to debit holding %s", from)
	}
	if err := g.store.PutHolding(ctx, *target); err != nil {
		return errors.Wrapf(err, "failed to credit holding %s", to)
	}
	return nil
}

// CloseHolding releases an empty holding. Closing a holding that doesn't exist is a no-op,
// a holding with a remaining balance can't be closed.
func (g *Gateway) CloseHolding(ctx context.Context, id HoldingID, authority Authority, rentRecipient string) error {
	holding, err := g.authorizedHolding(ctx, id, authority)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil
		}
		return errors.WithStack(err)
	}
	if holding.Balance != 0 {
		return errors.Wrapf(ErrHoldingNotEmpty, "holding %s still has %d %s", id, holding.Balance, holding.Asset)
	}
	if err := g.store.DeleteHolding(ctx, id); err != nil {
		return errors.Wrapf(err, "failed to close holding %s", id)
	}
	logger.DebugContext(ctx, "custody holding closed",
		slogx.String("holding", id.String()),
		slogx.String("rent_recipient", rentRecipient),
	)
	return nil
}

// Balance returns the current balance of a holding, zero if it is closed.
func (g *Gateway) Balance(ctx context.Context, id HoldingID) (uint64, error) {
	holding, err := g.store.GetHolding(ctx, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "failed to get holding %s", id)
	}
	return holding.Balance, nil
}

// Deposit credits an external account. It is the entry point of value into the ledger.
func (g *Gateway) Deposit(ctx context.Context, owner string, asset Asset, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errs.ValidationError, "deposit amount must be greater than zero")
	}
	return errors.WithStack(g.credit(ctx, owner, asset, amount))
}

// Withdraw debits an external account. It is the exit point of value from the ledger.
func (g *Gateway) Withdraw(ctx context.Context, owner string, asset Asset, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errs.ValidationError, "withdraw amount must be greater than zero")
	}
	balance, err := g.store.GetAccountBalance(ctx, owner, asset)
	if err != nil {
		return errors.Wrapf(err, "failed to get balance of %s", owner)
	}
	if balance < amount {
		return errors.Wrapf(ErrInsufficientBalance, "%s has %d %s, needs %d", owner, balance, asset, amount)
	}
	if err := g.store.SetAccountBalance(ctx, owner, asset, balance-amount); err != nil {
		return errors.Wrapf(err, "failed to debit %s", owner)
	}
	return nil
}

func (g *Gateway) credit(ctx context.Context, owner string, asset Asset, amount uint64) error {
	balance, err := g.store.GetAccountBalance(ctx, owner, asset)
	if err != nil {
		return errors.Wrapf(err, "failed to get balance of %s", owner)
	}
	balance, err = allocation.CheckedAdd(balance, amount)
	if err != nil {
		return errors.Wrapf(ErrTransferFailed, "account %s balance overflow", owner)
	}
	if err := g.store.SetAccountBalance(ctx, owner, asset, balance); err != nil {
		return errors.Wrapf(err, "failed to credit %s", owner)
	}
	return nil
}

func (g *Gateway) getHolding(ctx context.Context, id HoldingID) (*Holding, error) {
	holding, err := g.store.GetHolding(ctx, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.Wrapf(ErrTransferFailed, "holding %s is closed", id)
		}
		return nil, errors.Wrapf(err, "failed to get holding %s", id)
	}
	return holding, nil
}

func (g *Gateway) authorizedHolding(ctx context.Context, id HoldingID, authority Authority) (*Holding, error) {
	holding, err := g.store.GetHolding(ctx, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.Wrapf(err, "holding %s", id)
		}
		return nil, errors.Wrapf(err, "failed to get holding %s", id)
	}
	if !authority.verify(id, holding.AuthorityDigest) {
		return nil, errors.Wrapf(ErrInvalidAuthority, "authority %q can't move funds from %s", authority.Owner(), id)
	}
	return holding, nil
}
