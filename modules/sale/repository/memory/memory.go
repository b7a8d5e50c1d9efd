// Package memory is an in-process implementation of the sale datagateway. Transactions
// are serialized by a store-wide lock and work on a private copy of the state that
// replaces the shared state on commit.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
)

var ErrTxClosed = errors.New("transaction already closed")

type accountKey struct {
	owner string
	asset custody.Asset
}

type participantKey struct {
	saleID   uint64
	identity string
}

type slotKey struct {
	saleID uint64
	index  uint32
}

type state struct {
	config       *entity.Config
	sales        map[uint64]*entity.Sale
	participants map[participantKey]entity.Participant
	slots        map[slotKey]entity.PrizeSlot
	events       []entity.Event
	accounts     map[accountKey]uint64
	holdings     map[custody.HoldingID]custody.Holding
}

func newState() *state {
	return &state{
		sales:        make(map[uint64]*entity.Sale),
		participants: make(map[participantKey]entity.Participant),
		slots:        make(map[slotKey]entity.PrizeSlot),
		accounts:     make(map[accountKey]uint64),
		holdings:     make(map[custody.HoldingID]custody.Holding),
	}
}

func (s *state) clone() *state {
	c := &state{
		participants: maps.Clone(s.participants),
		slots:        maps.Clone(s.slots),
		events:       slices.Clone(s.events),
		accounts:     maps.Clone(s.accounts),
		holdings:     maps.Clone(s.holdings),
		sales:        make(map[uint64]*entity.Sale, len(s.sales)),
	}
	if s.config != nil {
		config := *s.config
		c.config = &config
	}
	for id, sale := range s.sales {
		c.sales[id] = sale.Clone()
	}
	return c
}

type store struct {
	// txMu serializes writers, mu guards the state pointer.
	txMu  sync.Mutex
	mu    sync.RWMutex
	state *state
}

type transaction struct {
	state  *state
	closed bool
}

var _ datagateway.SaleDataGatewayWithTx = (*Repository)(nil)

// Repository is a datagateway.SaleDataGatewayWithTx. Outside a transaction every write
// is committed immediately.
type Repository struct {
	store *store
	tx    *transaction
}

func NewRepository() *Repository {
	return &Repository{
		store: &store{state: newState()},
	}
}

func (r *Repository) BeginSaleTx(_ context.Context) (datagateway.SaleDataGatewayWithTx, error) {
	if r.tx != nil {
		return nil, errors.New("nested transactions are not supported")
	}
	r.store.txMu.Lock()
	r.store.mu.RLock()
	snapshot := r.store.state.clone()
	r.store.mu.RUnlock()
	return &Repository{
		store: r.store,
		tx:    &transaction{state: snapshot},
	}, nil
}

func (r *Repository) Commit(_ context.Context) error {
	if r.tx == nil || r.tx.closed {
		return nil
	}
	r.store.mu.Lock()
	r.store.state = r.tx.state
	r.store.mu.Unlock()
	r.tx.closed = true
	r.store.txMu.Unlock()
	return nil
}

func (r *Repository) Rollback(_ context.Context) error {
	if r.tx == nil || r.tx.closed {
		return nil
	}
	r.tx.closed = true
	r.store.txMu.Unlock()
	return nil
}

func (r *Repository) read(fn func(s *state) error) error {
	if r.tx != nil {
		if r.tx.closed {
			return errors.WithStack(ErrTxClosed)
		}
		return fn(r.tx.state)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return fn(r.store.state)
}

func (r *Repository) write(fn func(s *state) error) error {
	if r.tx != nil {
		if r.tx.closed {
			return errors.WithStack(ErrTxClosed)
		}
		return fn(r.tx.state)
	}
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.state)
}

func page[T any](items []T, limit, offset int32) []T {
	if offset > 0 {
		if int(offset) >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return items
}
