package entity

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/pkg/allocation"
	"github.com/gaze-network/sale-engine/pkg/custody"
)

func kindError(kind errs.ErrorKind, msg string) error {
	return errors.Mark(errors.New(msg), kind)
}

// lifecycle state
var (
	ErrInvalidState             = kindError(errs.StateError, "operation not allowed in current sale state")
	ErrUnitsAlreadySold         = kindError(errs.StateError, "units already sold")
	ErrUnitsSoldOut             = kindError(errs.StateError, "all units are sold")
	ErrNoPrizeAvailable         = kindError(errs.StateError, "no prize available")
	ErrPrizeAlreadyClaimed      = kindError(errs.StateError, "prize already claimed")
	ErrConfigAlreadyInitialized = kindError(errs.StateError, "config already initialized")
	ErrSaleClosed               = kindError(errs.StateError, "sale is closed")
)

// time window
var (
	ErrStartTimeInPast     = kindError(errs.WindowError, "start time is in the past")
	ErrStartTimeNotReached = kindError(errs.WindowError, "start time not reached")
	ErrEndTimeNotReached   = kindError(errs.WindowError, "end time not reached")
	ErrSaleEnded           = kindError(errs.WindowError, "sale window has ended")
	ErrInvalidSalePeriod   = kindError(errs.WindowError, "sale period out of bounds")
	ErrStartTimeAfterEnd   = kindError(errs.WindowError, "start time must be before end time")
	ErrWindowUpdateTooLate = kindError(errs.WindowError, "window can't be updated after start time")
)

// input validation
var (
	ErrInvalidZeroAmount         = kindError(errs.ValidationError, "amount must be greater than zero")
	ErrInvalidWinShares          = kindError(errs.ValidationError, "invalid win shares")
	ErrInvalidWinnersLength      = kindError(errs.ValidationError, "invalid number of winners")
	ErrDuplicateWinners          = kindError(errs.ValidationError, "duplicate winners")
	ErrInvalidTotalUnits         = kindError(errs.ValidationError, "total units out of bounds")
	ErrInvalidWalletPct          = kindError(errs.ValidationError, "max wallet percent out of bounds")
	ErrMaxUnitsPerWalletExceeded = kindError(errs.ValidationError, "max units per wallet exceeded")
	ErrInvalidPrize              = kindError(errs.ValidationError, "invalid prize")
	ErrInvalidPayout             = kindError(errs.ValidationError, "invalid payout")
	ErrInvalidTimeExtension      = kindError(errs.ValidationError, "time extension out of bounds")
	ErrBidTooLow                 = kindError(errs.ValidationError, "bid too low")
	ErrAlreadyHighestBidder      = kindError(errs.ValidationError, "caller is already the highest bidder")
	ErrInvalidQuantity           = kindError(errs.ValidationError, "invalid quantity")
	ErrInvalidPrizeSlot          = kindError(errs.ValidationError, "invalid prize slot")
	ErrZeroPrizeForWinner        = kindError(errs.ValidationError, "zero prize for winner")
	ErrWinnerNotParticipant      = kindError(errs.ValidationError, "winner is not a participant")
	ErrUnsupportedUpdate         = kindError(errs.ValidationError, "update not supported for this sale")
	ErrInvalidFeeRate            = kindError(errs.ValidationError, "fee rate out of bounds")
	ErrInvalidConfig             = kindError(errs.ValidationError, "invalid config")
)

// authorization
var (
	ErrInvalidCreator  = kindError(errs.AuthorizationError, "caller is not the sale creator")
	ErrInvalidWinner   = kindError(errs.AuthorizationError, "caller is not a winner")
	ErrNotOwner        = kindError(errs.AuthorizationError, "caller is not the config owner")
	ErrNotOperator     = kindError(errs.AuthorizationError, "caller is not the config admin")
	ErrMissingCaller   = kindError(errs.AuthorizationError, "caller identity is required")
	ErrNotAccountOwner = kindError(errs.AuthorizationError, "caller is not the account owner")
)

var ErrFunctionPaused = kindError(errs.Paused, "function is paused")

var (
	ErrSaleNotFound        = kindError(errs.NotFound, "sale not found")
	ErrConfigNotFound      = kindError(errs.NotFound, "config not initialized")
	ErrParticipantNotFound = kindError(errs.NotFound, "participant not found")
	ErrPrizeSlotNotFound   = kindError(errs.NotFound, "prize slot not found")
)

// Re-exported from the arithmetic and custody layers.
var (
	ErrOverflow            = allocation.ErrOverflow
	ErrInsufficientBalance = custody.ErrInsufficientBalance
	ErrTransferFailed      = custody.ErrTransferFailed
)
