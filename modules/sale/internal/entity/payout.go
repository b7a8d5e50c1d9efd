package entity

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
)

// PayoutMode names the variant of a [Payout].
type PayoutMode string

const (
	PayoutSingleWinner   PayoutMode = "single_winner"
	PayoutWeightedMulti  PayoutMode = "weighted_multi"
	PayoutInstantPerUnit PayoutMode = "instant_per_unit"
)

func ParsePayoutMode(s string) (PayoutMode, error) {
	switch mode := PayoutMode(s); mode {
	case PayoutSingleWinner, PayoutWeightedMulti, PayoutInstantPerUnit:
		return mode, nil
	}
	return "", errors.Wrapf(errs.InvalidArgument, "unknown payout mode %q", s)
}

// Payout decides how the prize of a sale is allocated. It is one of
// [SingleWinner], [WeightedMulti] or [InstantPerUnit].
type Payout interface {
	Mode() PayoutMode
	clone() Payout
}

// SingleWinner gives the whole prize to one participant. With Bidding the sale is an
// ascending-price auction, without it a single-winner raffle.
type SingleWinner struct {
	Bidding *Bidding
}

// Bidding is the auction state of a SingleWinner payout.
type Bidding struct {
	BaseBid       uint64
	MinIncrement  uint64
	TimeExtension time.Duration
	HighestBidder string
	HighestBid    uint64
	HasBid        bool
}

// WeightedMulti splits the prize across up to MaxWinnerSlots winners by the share schedule.
type WeightedMulti struct {
	UniqueWinners bool
}

// InstantPerUnit pays one prize unit from a prize slot on every purchase.
type InstantPerUnit struct {
	PrizesAdded uint64
}

func (SingleWinner) Mode() PayoutMode   { return PayoutSingleWinner }
func (WeightedMulti) Mode() PayoutMode  { return PayoutWeightedMulti }
func (InstantPerUnit) Mode() PayoutMode { return PayoutInstantPerUnit }

func (p SingleWinner) clone() Payout {
	if p.Bidding != nil {
		b := *p.Bidding
		p.Bidding = &b
	}
	return p
}

func (p WeightedMulti) clone() Payout  { return p }
func (p InstantPerUnit) clone() Payout { return p }
