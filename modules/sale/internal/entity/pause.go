package entity

// PauseAction is a bit position of the feature-pause bitmask.
type PauseAction uint8

const (
	PauseCreate PauseAction = iota
	PauseCancel
	PauseFinalize
	PauseBidOrBuy
	PauseActivate
	PauseUpdate
	PauseClaim
	PauseAddPrize
)

var pauseActionNames = [...]string{
	PauseCreate:   "create",
	PauseCancel:   "cancel",
	PauseFinalize: "finalize",
	PauseBidOrBuy: "bid_or_buy",
	PauseActivate: "activate",
	PauseUpdate:   "update",
	PauseClaim:    "claim",
	PauseAddPrize: "add_prize",
}

func (a PauseAction) String() string {
	if int(a) < len(pauseActionNames) {
		return pauseActionNames[a]
	}
	return "unknown"
}

// IsPaused reports whether the bit of action is set in flags.
func IsPaused(flags uint8, action PauseAction) bool {
	return flags&(1<<action) != 0
}
