package entity

import (
	"github.com/cockroachdb/errors"
)

// WinnerSlot is one entry of a [WinnerSet].
type WinnerSlot struct {
	Winner  string
	Share   uint8
	Amount  uint64
	Claimed bool
}

// WinnerSet is a fixed-capacity list of winners, only the first Len slots are meaningful.
type WinnerSet struct {
	Slots [MaxWinnerSlots]WinnerSlot
	Len   uint8
}

func (w *WinnerSet) List() []WinnerSlot {
	return w.Slots[:w.Len]
}

func (w *WinnerSet) Append(slot WinnerSlot) error {
	if int(w.Len) >= MaxWinnerSlots {
		return errors.Wrapf(ErrInvalidWinnersLength, "winner set is full (%d slots)", MaxWinnerSlots)
	}
	w.Slots[w.Len] = slot
	w.Len++
	return nil
}

// HasUnclaimed reports whether some winner still has a prize to claim.
func (w *WinnerSet) HasUnclaimed() bool {
	for _, slot := range w.List() {
		if !slot.Claimed && slot.Amount > 0 {
			return true
		}
	}
	return false
}

// ShareSchedule is a fixed-capacity list of winner percentages.
type ShareSchedule struct {
	Values [MaxWinnerSlots]uint8
	Len    uint8
}

func NewShareSchedule(shares []uint8) (ShareSchedule, error) {
	var s ShareSchedule
	if len(shares) > MaxWinnerSlots {
		return s, errors.Wrapf(ErrInvalidWinnersLength, "%d shares exceed the %d winner slots", len(shares), MaxWinnerSlots)
	}
	copy(s.Values[:], shares)
	s.Len = uint8(len(shares))
	return s, nil
}

func (s ShareSchedule) List() []uint8 {
	return s.Values[:s.Len]
}
