package entity

import (
	"fmt"
	"time"

	"github.com/gaze-network/sale-engine/pkg/custody"
)

// SaleAuthorityLabel is the label sale authorities are derived from.
const SaleAuthorityLabel = "sale"

// PrizeKind describes what the creator locks as the prize.
type PrizeKind string

const (
	PrizeUniqueItem     PrizeKind = "unique_item"
	PrizeFungibleAmount PrizeKind = "fungible_amount"
)

// Prize describes the locked prize. A unique item is a token mint of quantity 1.
type Prize struct {
	Kind     PrizeKind
	Asset    custody.Asset
	Quantity uint64
}

type Sale struct {
	ID              uint64
	Creator         string
	StartTime       time.Time
	EndTime         time.Time
	UnitPrice       uint64
	TotalUnits      uint64
	UnitsSold       uint64
	MaxWalletPct    uint8
	Prize           Prize
	PaymentAsset    custody.Asset
	Payout          Payout
	Shares          ShareSchedule
	Winners         WinnerSet
	Status          Status
	PrizeResidual   uint64
	PaymentResidual uint64
	Closed          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clone returns a deep copy of the sale.
func (s *Sale) Clone() *Sale {
	c := *s
	if s.Payout != nil {
		c.Payout = s.Payout.clone()
	}
	return &c
}

func (s *Sale) Mode() PayoutMode {
	if s.Payout == nil {
		return ""
	}
	return s.Payout.Mode()
}

// Bidding returns the auction state if the sale is an auction.
func (s *Sale) Bidding() (*Bidding, bool) {
	p, ok := s.Payout.(SingleWinner)
	if !ok || p.Bidding == nil {
		return nil, false
	}
	return p.Bidding, true
}

func (s *Sale) IsAuction() bool {
	_, ok := s.Bidding()
	return ok
}

// Instant returns the instant-win state if the sale pays per unit.
func (s *Sale) Instant() (InstantPerUnit, bool) {
	p, ok := s.Payout.(InstantPerUnit)
	return p, ok
}

// WinnerCount is the number of winners the sale is configured for.
func (s *Sale) WinnerCount() uint64 {
	switch s.Payout.(type) {
	case SingleWinner:
		return 1
	case WeightedMulti:
		return uint64(s.Shares.Len)
	}
	return 0
}

// EffectiveWinners is min(units sold, configured winners).
func (s *Sale) EffectiveWinners() uint64 {
	return min(s.UnitsSold, s.WinnerCount())
}

// InWindow reports whether now is within [StartTime, EndTime).
func (s *Sale) InWindow(now time.Time) bool {
	return !now.Before(s.StartTime) && now.Before(s.EndTime)
}

// IsDue reports whether the scheduler can move the sale forward at now without outside
// input: an initialized sale whose start time is reached (instant draws need prizes), or an
// active sale whose end time is reached and that needs no winner list.
func (s *Sale) IsDue(now time.Time) bool {
	switch s.Status {
	case StatusInitialized:
		if p, ok := s.Instant(); ok && p.PrizesAdded == 0 {
			return false
		}
		return !now.Before(s.StartTime)
	case StatusActive:
		if now.Before(s.EndTime) {
			return false
		}
		_, instant := s.Instant()
		return s.IsAuction() || instant || s.UnitsSold == 0
	}
	return false
}

func (s *Sale) Authority(d *custody.Deriver) custody.Authority {
	return d.Derive(SaleAuthorityLabel, s.ID)
}

func (s *Sale) PrizeHolding() custody.HoldingID {
	return custody.HoldingID(fmt.Sprintf("sale/%d/prize", s.ID))
}

func (s *Sale) PaymentHolding() custody.HoldingID {
	return custody.HoldingID(fmt.Sprintf("sale/%d/payment", s.ID))
}

func (s *Sale) SlotHolding(index uint32) custody.HoldingID {
	return SlotHolding(s.ID, index)
}

func SlotHolding(saleID uint64, index uint32) custody.HoldingID {
	return custody.HoldingID(fmt.Sprintf("sale/%d/slot/%d", saleID, index))
}

// Participant is the per-identity purchase record of a sale.
type Participant struct {
	SaleID   uint64
	Identity string
	Units    uint64
}

// PrizeSlot is one batch of instant-win prizes of a sale.
type PrizeSlot struct {
	SaleID          uint64
	Index           uint32
	Asset           custody.Asset
	AmountPerUnit   uint64
	InitialQuantity uint64
	Remaining       uint64
	Closed          bool
	CreatedAt       time.Time
}

// AccountBalance is the balance of an external account in one asset.
type AccountBalance struct {
	Owner   string
	Asset   custody.Asset
	Balance uint64
}
