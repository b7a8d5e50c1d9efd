package entity

import (
	"encoding/json"
	"time"
)

// EventAction names what happened in a [Event].
type EventAction string

const (
	ActionConfigInit    EventAction = "config_init"
	ActionConfigUpdate  EventAction = "config_update"
	ActionSetAdmin      EventAction = "set_admin"
	ActionSetPauseFlags EventAction = "set_pause_flags"
	ActionWithdrawFees  EventAction = "withdraw_fees"
	ActionCreate        EventAction = "create"
	ActionUpdate        EventAction = "update"
	ActionActivate      EventAction = "activate"
	ActionCancel        EventAction = "cancel"
	ActionAddPrize      EventAction = "add_prize"
	ActionBid           EventAction = "bid"
	ActionBuy           EventAction = "buy"
	ActionFinalize      EventAction = "finalize"
	ActionWinnerClaim   EventAction = "winner_claim"
	ActionCreatorClaim  EventAction = "creator_claim"
	ActionSlotClaimBack EventAction = "slot_claim_back"
	ActionDeposit       EventAction = "deposit"
	ActionWithdraw      EventAction = "withdraw"
)

// Event is an append-only record of a successful operation. SaleID is zero for
// config and account events.
type Event struct {
	ID        int64
	SaleID    uint64
	Action    EventAction
	Actor     string
	Payload   json.RawMessage
	CreatedAt time.Time
}
