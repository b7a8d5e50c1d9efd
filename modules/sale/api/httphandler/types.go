package httphandler

import (
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/samber/lo"
)

type prize struct {
	Kind            entity.PrizeKind `json:"kind"`
	Asset           string           `json:"asset"`
	Quantity        uint64           `json:"quantity"`
	QuantityDisplay string           `json:"quantityDisplay"`
}

type bidding struct {
	BaseBid              uint64 `json:"baseBid"`
	MinIncrement         uint64 `json:"minIncrement"`
	TimeExtensionSeconds int64  `json:"timeExtensionSeconds"`
	HighestBidder        string `json:"highestBidder"`
	HighestBid           uint64 `json:"highestBid"`
	HighestBidDisplay    string `json:"highestBidDisplay"`
	HasBid               bool   `json:"hasBid"`
}

type winner struct {
	Winner  string `json:"winner"`
	Share   uint8  `json:"share"`
	Amount  uint64 `json:"amount"`
	Claimed bool   `json:"claimed"`
}

type sale struct {
	Id               uint64            `json:"id"`
	Creator          string            `json:"creator"`
	Status           string            `json:"status"`
	Mode             entity.PayoutMode `json:"mode"`
	StartTime        int64             `json:"startTime"`
	EndTime          int64             `json:"endTime"`
	UnitPrice        uint64            `json:"unitPrice"`
	UnitPriceDisplay string            `json:"unitPriceDisplay"`
	PaymentAsset     string            `json:"paymentAsset"`
	TotalUnits       uint64            `json:"totalUnits"`
	UnitsSold        uint64            `json:"unitsSold"`
	MaxWalletPct     uint8             `json:"maxWalletPct"`
	Prize            prize             `json:"prize"`
	Bidding          *bidding          `json:"bidding,omitempty"`
	UniqueWinners    bool              `json:"uniqueWinners"`
	PrizesAdded      uint64            `json:"prizesAdded"`
	Shares           []uint8           `json:"shares"`
	Winners          []winner          `json:"winners"`
	PrizeResidual    uint64            `json:"prizeResidual"`
	PaymentResidual  uint64            `json:"paymentResidual"`
	Closed           bool              `json:"closed"`
	CreatedAt        int64             `json:"createdAt"`
	UpdatedAt        int64             `json:"updatedAt"`
}

func (h *HttpHandler) mapSale(s *entity.Sale) sale {
	result := sale{
		Id:               s.ID,
		Creator:          s.Creator,
		Status:           s.Status.String(),
		Mode:             s.Mode(),
		StartTime:        unixTime(s.StartTime),
		EndTime:          unixTime(s.EndTime),
		UnitPrice:        s.UnitPrice,
		UnitPriceDisplay: h.display(s.PaymentAsset, s.UnitPrice),
		PaymentAsset:     s.PaymentAsset.String(),
		TotalUnits:       s.TotalUnits,
		UnitsSold:        s.UnitsSold,
		MaxWalletPct:     s.MaxWalletPct,
		Prize: prize{
			Kind:            s.Prize.Kind,
			Asset:           s.Prize.Asset.String(),
			Quantity:        s.Prize.Quantity,
			QuantityDisplay: h.display(s.Prize.Asset, s.Prize.Quantity),
		},
		Shares: append([]uint8{}, s.Shares.List()...),
		Winners: lo.Map(s.Winners.List(), func(w entity.WinnerSlot, _ int) winner {
			return winner(w)
		}),
		PrizeResidual:   s.PrizeResidual,
		PaymentResidual: s.PaymentResidual,
		Closed:          s.Closed,
		CreatedAt:       unixTime(s.CreatedAt),
		UpdatedAt:       unixTime(s.UpdatedAt),
	}
	switch p := s.Payout.(type) {
	case entity.SingleWinner:
		if p.Bidding != nil {
			result.Bidding = &bidding{
				BaseBid:              p.Bidding.BaseBid,
				MinIncrement:         p.Bidding.MinIncrement,
				TimeExtensionSeconds: seconds(p.Bidding.TimeExtension),
				HighestBidder:        p.Bidding.HighestBidder,
				HighestBid:           p.Bidding.HighestBid,
				HighestBidDisplay:    h.display(s.PaymentAsset, p.Bidding.HighestBid),
				HasBid:               p.Bidding.HasBid,
			}
		}
	case entity.WeightedMulti:
		result.UniqueWinners = p.UniqueWinners
	case entity.InstantPerUnit:
		result.PrizesAdded = p.PrizesAdded
	}
	return result
}

type config struct {
	Owner                   string `json:"owner"`
	Admin                   string `json:"admin"`
	FeeBps                  uint16 `json:"feeBps"`
	CreationFee             uint64 `json:"creationFee"`
	MinPeriodSeconds        int64  `json:"minPeriodSeconds"`
	MaxPeriodSeconds        int64  `json:"maxPeriodSeconds"`
	MinUnits                uint64 `json:"minUnits"`
	MaxUnits                uint64 `json:"maxUnits"`
	MaxWinners              uint8  `json:"maxWinners"`
	MaxWalletPct            uint8  `json:"maxWalletPct"`
	MinTimeExtensionSeconds int64  `json:"minTimeExtensionSeconds"`
	MaxTimeExtensionSeconds int64  `json:"maxTimeExtensionSeconds"`
	PauseFlags              uint8  `json:"pauseFlags"`
	SaleCount               uint64 `json:"saleCount"`
	UpdatedAt               int64  `json:"updatedAt"`
}

func mapConfig(c *entity.Config) config {
	return config{
		Owner:                   c.Owner,
		Admin:                   c.Admin,
		FeeBps:                  c.FeeBps,
		CreationFee:             c.CreationFee,
		MinPeriodSeconds:        seconds(c.MinPeriod),
		MaxPeriodSeconds:        seconds(c.MaxPeriod),
		MinUnits:                c.MinUnits,
		MaxUnits:                c.MaxUnits,
		MaxWinners:              c.MaxWinners,
		MaxWalletPct:            c.MaxWalletPct,
		MinTimeExtensionSeconds: seconds(c.MinTimeExtension),
		MaxTimeExtensionSeconds: seconds(c.MaxTimeExtension),
		PauseFlags:              c.PauseFlags,
		SaleCount:               c.SaleCount,
		UpdatedAt:               unixTime(c.UpdatedAt),
	}
}

type prizeSlot struct {
	Index                uint32 `json:"index"`
	Asset                string `json:"asset"`
	AmountPerUnit        uint64 `json:"amountPerUnit"`
	AmountPerUnitDisplay string `json:"amountPerUnitDisplay"`
	InitialQuantity      uint64 `json:"initialQuantity"`
	Remaining            uint64 `json:"remaining"`
	Closed               bool   `json:"closed"`
	CreatedAt            int64  `json:"createdAt"`
}

func (h *HttpHandler) mapPrizeSlot(s entity.PrizeSlot) prizeSlot {
	return prizeSlot{
		Index:                s.Index,
		Asset:                s.Asset.String(),
		AmountPerUnit:        s.AmountPerUnit,
		AmountPerUnitDisplay: h.display(s.Asset, s.AmountPerUnit),
		InitialQuantity:      s.InitialQuantity,
		Remaining:            s.Remaining,
		Closed:               s.Closed,
		CreatedAt:            unixTime(s.CreatedAt),
	}
}

type balance struct {
	Asset   string `json:"asset"`
	Balance uint64 `json:"balance"`
	Display string `json:"display"`
}

func (h *HttpHandler) mapBalance(asset custody.Asset, amount uint64) balance {
	return balance{
		Asset:   asset.String(),
		Balance: amount,
		Display: h.display(asset, amount),
	}
}
