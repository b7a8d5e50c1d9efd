package validator

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
)

// Validator is a short-circuiting chain of checks: once a check fails every following
// check returns false and Reason keeps the first failure.
type Validator struct {
	Valid  bool
	Reason error
}

func New() *Validator {
	return &Validator{
		Valid: true,
	}
}

// Invalidate marks the chain as failed with reason.
func (v *Validator) Invalidate(reason error) bool {
	v.Valid = false
	v.Reason = reason
	return v.Valid
}

// Err returns the failure reason, nil if every check passed.
func (v *Validator) Err() error {
	if v.Valid {
		return nil
	}
	if v.Reason == nil {
		return errors.New("validation failed")
	}
	return v.Reason
}

func (v *Validator) NotPaused(config *entity.Config, action entity.PauseAction) bool {
	if !v.Valid {
		return false
	}
	if config.IsPaused(action) {
		return v.Invalidate(errors.Wrapf(entity.ErrFunctionPaused, "%s is paused", action))
	}
	return v.Valid
}

func (v *Validator) HasCaller(caller string) bool {
	if !v.Valid {
		return false
	}
	if caller == "" {
		return v.Invalidate(errors.WithStack(entity.ErrMissingCaller))
	}
	return v.Valid
}

func (v *Validator) IsCreator(sale *entity.Sale, caller string) bool {
	if !v.Valid {
		return false
	}
	if sale.Creator != caller {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidCreator, "sale %d", sale.ID))
	}
	return v.Valid
}

// IsCreatorOrOperator accepts the sale creator, the config admin and the config owner.
func (v *Validator) IsCreatorOrOperator(config *entity.Config, sale *entity.Sale, caller string) bool {
	if !v.Valid {
		return false
	}
	if sale.Creator != caller && !config.IsOperator(caller) {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidCreator, "sale %d", sale.ID))
	}
	return v.Valid
}

func (v *Validator) IsOperator(config *entity.Config, caller string) bool {
	if !v.Valid {
		return false
	}
	if !config.IsOperator(caller) {
		return v.Invalidate(errors.WithStack(entity.ErrNotOperator))
	}
	return v.Valid
}

func (v *Validator) IsOwner(config *entity.Config, caller string) bool {
	if !v.Valid {
		return false
	}
	if !config.IsOwner(caller) {
		return v.Invalidate(errors.WithStack(entity.ErrNotOwner))
	}
	return v.Valid
}

func (v *Validator) StatusIn(sale *entity.Sale, statuses ...entity.Status) bool {
	if !v.Valid {
		return false
	}
	if !slices.Contains(statuses, sale.Status) {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidState, "sale %d is %s", sale.ID, sale.Status))
	}
	return v.Valid
}

func (v *Validator) NoUnitsSold(sale *entity.Sale) bool {
	if !v.Valid {
		return false
	}
	if sale.UnitsSold != 0 {
		return v.Invalidate(errors.Wrapf(entity.ErrUnitsAlreadySold, "sale %d sold %d units", sale.ID, sale.UnitsSold))
	}
	return v.Valid
}

func (v *Validator) IsMode(sale *entity.Sale, mode entity.PayoutMode) bool {
	if !v.Valid {
		return false
	}
	if sale.Mode() != mode {
		return v.Invalidate(errors.Wrapf(entity.ErrInvalidPayout, "sale %d pays out %s, not %s", sale.ID, sale.Mode(), mode))
	}
	return v.Valid
}
