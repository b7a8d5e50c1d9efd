package engine

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/internal/validator"
	"github.com/gaze-network/sale-engine/pkg/allocation"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
)

// ConfigParams are the owner-tunable fields of the sale config.
type ConfigParams struct {
	FeeBps           uint16
	CreationFee      uint64
	MinPeriod        time.Duration
	MaxPeriod        time.Duration
	MinUnits         uint64
	MaxUnits         uint64
	MaxWinners       uint8
	MaxWalletPct     uint8
	MinTimeExtension time.Duration
	MaxTimeExtension time.Duration
}

func (p ConfigParams) validate() error {
	switch {
	case p.FeeBps > allocation.FeeMantissa:
		return errors.Wrapf(entity.ErrInvalidFeeRate, "%d bps exceeds %d", p.FeeBps, allocation.FeeMantissa)
	case p.MinPeriod <= 0 || p.MinPeriod > p.MaxPeriod:
		return errors.Wrapf(entity.ErrInvalidConfig, "sale period bounds [%s, %s]", p.MinPeriod, p.MaxPeriod)
	case p.MinUnits == 0 || p.MinUnits > p.MaxUnits:
		return errors.Wrapf(entity.ErrInvalidConfig, "unit bounds [%d, %d]", p.MinUnits, p.MaxUnits)
	case p.MaxWinners == 0 || p.MaxWinners > entity.MaxWinnerSlots:
		return errors.Wrapf(entity.ErrInvalidConfig, "max winners %d not within [1, %d]", p.MaxWinners, entity.MaxWinnerSlots)
	case p.MaxWalletPct == 0 || p.MaxWalletPct > allocation.TotalPercent:
		return errors.Wrapf(entity.ErrInvalidConfig, "max wallet percent %d not within [1, 100]", p.MaxWalletPct)
	case p.MinTimeExtension < 0 || p.MinTimeExtension > p.MaxTimeExtension:
		return errors.Wrapf(entity.ErrInvalidConfig, "time extension bounds [%s, %s]", p.MinTimeExtension, p.MaxTimeExtension)
	}
	return nil
}

func (p ConfigParams) apply(config *entity.Config) {
	config.FeeBps = p.FeeBps
	config.CreationFee = p.CreationFee
	config.MinPeriod = p.MinPeriod
	config.MaxPeriod = p.MaxPeriod
	config.MinUnits = p.MinUnits
	config.MaxUnits = p.MaxUnits
	config.MaxWinners = p.MaxWinners
	config.MaxWalletPct = p.MaxWalletPct
	config.MinTimeExtension = p.MinTimeExtension
	config.MaxTimeExtension = p.MaxTimeExtension
}

type configPayload struct {
	Owner       string `json:"owner"`
	Admin       string `json:"admin"`
	FeeBps      uint16 `json:"feeBps"`
	CreationFee uint64 `json:"creationFee"`
	PauseFlags  uint8  `json:"pauseFlags"`
}

func newConfigPayload(c *entity.Config) configPayload {
	return configPayload{
		Owner:       c.Owner,
		Admin:       c.Admin,
		FeeBps:      c.FeeBps,
		CreationFee: c.CreationFee,
		PauseFlags:  c.PauseFlags,
	}
}

// InitConfig creates the sale config, the caller becomes its owner. An empty admin
// defaults to the owner.
func (e *Engine) InitConfig(ctx context.Context, caller, admin string, params ConfigParams) (*entity.Config, error) {
	var config *entity.Config
	err := e.inTx(ctx, "init_config", caller, func(ctx context.Context, s *session) error {
		if caller == "" {
			return errors.WithStack(entity.ErrMissingCaller)
		}
		_, err := s.qtx.GetConfigForUpdate(ctx)
		switch {
		case err == nil:
			return errors.WithStack(entity.ErrConfigAlreadyInitialized)
		case !errors.Is(err, entity.ErrConfigNotFound):
			return errors.Wrap(err, "failed to get config")
		}
		if err := params.validate(); err != nil {
			return err
		}
		if admin == "" {
			admin = caller
		}
		config = &entity.Config{Owner: caller, Admin: admin, UpdatedAt: s.now}
		params.apply(config)

		if err := s.custody.OpenHolding(ctx, entity.FeeHolding(custody.Native()), custody.Native(), e.configAuthority()); err != nil {
			return errors.Wrap(err, "failed to open fee holding")
		}
		if err := s.qtx.PutConfig(ctx, *config); err != nil {
			return errors.Wrap(err, "failed to put config")
		}
		return s.emit(ctx, 0, entity.ActionConfigInit, newConfigPayload(config))
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "sale config initialized", slogx.String("owner", config.Owner), slogx.String("admin", config.Admin))
	return config, nil
}

// UpdateConfig replaces the owner-tunable fields of the config.
func (e *Engine) UpdateConfig(ctx context.Context, caller string, params ConfigParams) (*entity.Config, error) {
	return e.updateConfig(ctx, "update_config", caller, entity.ActionConfigUpdate,
		func(v *validator.Validator, config *entity.Config) error {
			if !v.IsOwner(config, caller) {
				return v.Err()
			}
			if err := params.validate(); err != nil {
				return err
			}
			params.apply(config)
			return nil
		})
}

func (e *Engine) SetAdmin(ctx context.Context, caller, admin string) (*entity.Config, error) {
	return e.updateConfig(ctx, "set_admin", caller, entity.ActionSetAdmin,
		func(v *validator.Validator, config *entity.Config) error {
			if !v.IsOwner(config, caller) {
				return v.Err()
			}
			if admin == "" {
				return errors.Wrap(entity.ErrInvalidConfig, "admin can't be empty")
			}
			config.Admin = admin
			return nil
		})
}

// SetPauseFlags replaces the feature-pause bitmask.
func (e *Engine) SetPauseFlags(ctx context.Context, caller string, flags uint8) (*entity.Config, error) {
	return e.updateConfig(ctx, "set_pause_flags", caller, entity.ActionSetPauseFlags,
		func(v *validator.Validator, config *entity.Config) error {
			if !v.IsOperator(config, caller) {
				return v.Err()
			}
			config.PauseFlags = flags
			return nil
		})
}

func (e *Engine) updateConfig(
	ctx context.Context,
	op string,
	caller string,
	action entity.EventAction,
	mutate func(v *validator.Validator, config *entity.Config) error,
) (*entity.Config, error) {
	var config *entity.Config
	err := e.inTx(ctx, op, caller, func(ctx context.Context, s *session) error {
		var err error
		config, err = s.config(ctx)
		if err != nil {
			return err
		}
		if err := mutate(validator.New(), config); err != nil {
			return err
		}
		config.UpdatedAt = s.now
		if err := s.qtx.PutConfig(ctx, *config); err != nil {
			return errors.Wrap(err, "failed to put config")
		}
		return s.emit(ctx, 0, action, newConfigPayload(config))
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "sale config updated", slogx.String("op", op), slogx.Uint64("pause_flags", uint64(config.PauseFlags)))
	return config, nil
}

// WithdrawFees moves collected platform fees to recipient. A zero amount withdraws the
// whole balance.
func (e *Engine) WithdrawFees(ctx context.Context, caller string, asset custody.Asset, recipient string, amount uint64) (uint64, error) {
	err := e.inTx(ctx, "withdraw_fees", caller, func(ctx context.Context, s *session) error {
		config, err := s.config(ctx)
		if err != nil {
			return err
		}
		if v := validator.New(); !v.IsOwner(config, caller) {
			return v.Err()
		}
		if recipient == "" {
			recipient = caller
		}
		holding := entity.FeeHolding(asset)
		balance, err := s.custody.Balance(ctx, holding)
		if err != nil {
			return errors.WithStack(err)
		}
		if amount == 0 {
			amount = balance
		}
		if amount == 0 {
			return errors.Wrapf(entity.ErrInvalidZeroAmount, "no %s fees to withdraw", asset)
		}
		if err := s.custody.TransferOut(ctx, holding, e.configAuthority(), recipient, amount); err != nil {
			return errors.Wrap(err, "failed to withdraw fees")
		}
		return s.emit(ctx, 0, entity.ActionWithdrawFees, map[string]any{
			"asset":     asset.String(),
			"recipient": recipient,
			"amount":    amount,
		})
	})
	if err != nil {
		return 0, err
	}
	logger.InfoContext(ctx, "platform fees withdrawn",
		slogx.String("asset", asset.String()),
		slogx.String("recipient", recipient),
		slogx.Uint64("amount", amount),
	)
	return amount, nil
}
