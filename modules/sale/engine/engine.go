// Package engine implements the sale lifecycle: creation, purchases, settlement and the
// claim and refund ledger. Every operation runs inside one datagateway transaction, so it
// either applies completely or not at all.
package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

// Notifier receives the events of every committed operation.
type Notifier interface {
	Notify(ctx context.Context, events []entity.Event)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, []entity.Event) {}

type Engine struct {
	dg       datagateway.SaleDataGateway
	deriver  *custody.Deriver
	notifier Notifier
	nowFunc  func() time.Time
}

func New(dg datagateway.SaleDataGateway, deriver *custody.Deriver) *Engine {
	return &Engine{
		dg:       dg,
		deriver:  deriver,
		notifier: noopNotifier{},
		nowFunc:  time.Now,
	}
}

// SetNowFunc replaces the clock of the engine.
func (e *Engine) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		fn = time.Now
	}
	e.nowFunc = fn
}

func (e *Engine) SetNotifier(n Notifier) {
	if n == nil {
		n = noopNotifier{}
	}
	e.notifier = n
}

// Now returns the engine time, UTC with second precision.
func (e *Engine) Now() time.Time {
	return e.nowFunc().UTC().Truncate(time.Second)
}

// session is the state of one operation: the transaction, the custody gateway bound to
// it and the events to publish after commit.
type session struct {
	qtx     datagateway.SaleDataGatewayWithTx
	custody *custody.Gateway
	now     time.Time
	caller  string
	events  []entity.Event
}

func (s *session) emit(ctx context.Context, saleID uint64, action entity.EventAction, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal event payload")
	}
	id, err := s.qtx.AddEvent(ctx, datagateway.AddEventParams{
		SaleID:    saleID,
		Action:    action,
		Actor:     s.caller,
		Payload:   data,
		CreatedAt: s.now,
	})
	if err != nil {
		return errors.Wrap(err, "failed to add event")
	}
	s.events = append(s.events, entity.Event{
		ID:        id,
		SaleID:    saleID,
		Action:    action,
		Actor:     s.caller,
		Payload:   data,
		CreatedAt: s.now,
	})
	return nil
}

func (s *session) config(ctx context.Context) (*entity.Config, error) {
	config, err := s.qtx.GetConfigForUpdate(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	return config, nil
}

func (s *session) sale(ctx context.Context, id uint64) (*entity.Sale, error) {
	sale, err := s.qtx.GetSaleForUpdate(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get sale %d", id)
	}
	return sale, nil
}

// participant returns the participant record, an empty one if identity never bought.
func (s *session) participant(ctx context.Context, saleID uint64, identity string) (*entity.Participant, error) {
	participant, err := s.qtx.GetParticipant(ctx, saleID, identity)
	if err != nil {
		if errors.Is(err, entity.ErrParticipantNotFound) {
			return &entity.Participant{SaleID: saleID, Identity: identity}, nil
		}
		return nil, errors.Wrap(err, "failed to get participant")
	}
	return participant, nil
}

// inTx runs fn inside a transaction and publishes its events after commit.
func (e *Engine) inTx(ctx context.Context, op string, caller string, fn func(ctx context.Context, s *session) error) error {
	ctx = logger.WithContext(ctx, slogx.String("op", op), slogx.String("caller", caller))
	qtx, err := e.dg.BeginSaleTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := qtx.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction", slogx.Error(err))
		}
	}()

	s := &session{
		qtx:     qtx,
		custody: custody.New(qtx),
		now:     e.Now(),
		caller:  caller,
	}
	if err := fn(ctx, s); err != nil {
		logger.DebugContext(ctx, "sale operation rejected", slogx.Error(err))
		return errors.WithStack(err)
	}
	if err := qtx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	if len(s.events) > 0 {
		e.notifier.Notify(ctx, s.events)
	}
	return nil
}

func (e *Engine) configAuthority() custody.Authority {
	return e.deriver.Derive(entity.ConfigAuthorityLabel, 0)
}

// collectFee moves amount from a sale holding to the platform holding of the same asset.
func (e *Engine) collectFee(ctx context.Context, s *session, sale *entity.Sale, amount uint64) error {
	if amount == 0 {
		return nil
	}
	feeHolding := entity.FeeHolding(sale.PaymentAsset)
	if err := s.custody.OpenHolding(ctx, feeHolding, sale.PaymentAsset, e.configAuthority()); err != nil {
		return errors.Wrap(err, "failed to open fee holding")
	}
	if err := s.custody.Move(ctx, sale.PaymentHolding(), sale.Authority(e.deriver), feeHolding, amount); err != nil {
		return errors.Wrap(err, "failed to collect platform fee")
	}
	return nil
}

// releaseHoldings closes every sale holding that has nothing left to pay out and marks
// the sale closed once all of them are released.
func (e *Engine) releaseHoldings(ctx context.Context, s *session, sale *entity.Sale) error {
	authority := sale.Authority(e.deriver)
	released := true

	prizeBalance, err := s.custody.Balance(ctx, sale.PrizeHolding())
	if err != nil {
		return errors.WithStack(err)
	}
	if prizeBalance == 0 && sale.PrizeResidual == 0 && !sale.Winners.HasUnclaimed() {
		if err := s.custody.CloseHolding(ctx, sale.PrizeHolding(), authority, sale.Creator); err != nil {
			return errors.WithStack(err)
		}
	} else {
		released = false
	}

	paymentBalance, err := s.custody.Balance(ctx, sale.PaymentHolding())
	if err != nil {
		return errors.WithStack(err)
	}
	if paymentBalance == 0 && sale.PaymentResidual == 0 {
		if err := s.custody.CloseHolding(ctx, sale.PaymentHolding(), authority, sale.Creator); err != nil {
			return errors.WithStack(err)
		}
	} else {
		released = false
	}

	if _, ok := sale.Instant(); ok {
		slots, err := s.qtx.GetPrizeSlots(ctx, sale.ID)
		if err != nil {
			return errors.Wrap(err, "failed to get prize slots")
		}
		for _, slot := range slots {
			if !slot.Closed {
				released = false
				break
			}
		}
	}

	sale.Closed = released
	return nil
}
