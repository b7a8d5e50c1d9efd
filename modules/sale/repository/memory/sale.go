package memory

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
)

func (r *Repository) CreateSale(_ context.Context, sale entity.Sale) error {
	return r.write(func(s *state) error {
		if _, exists := s.sales[sale.ID]; exists {
			return errors.Wrapf(errs.Conflict, "sale %d already exists", sale.ID)
		}
		s.sales[sale.ID] = sale.Clone()
		return nil
	})
}

func (r *Repository) UpdateSale(_ context.Context, sale entity.Sale) error {
	return r.write(func(s *state) error {
		if _, exists := s.sales[sale.ID]; !exists {
			return errors.Wrapf(entity.ErrSaleNotFound, "sale %d", sale.ID)
		}
		s.sales[sale.ID] = sale.Clone()
		return nil
	})
}

func (r *Repository) GetSale(_ context.Context, id uint64) (*entity.Sale, error) {
	var sale *entity.Sale
	err := r.read(func(s *state) error {
		stored, ok := s.sales[id]
		if !ok {
			return errors.Wrapf(entity.ErrSaleNotFound, "sale %d", id)
		}
		sale = stored.Clone()
		return nil
	})
	return sale, err
}

func (r *Repository) GetSaleForUpdate(ctx context.Context, id uint64) (*entity.Sale, error) {
	return r.GetSale(ctx, id)
}

func (r *Repository) GetSales(_ context.Context, arg datagateway.GetSalesParams) ([]entity.Sale, error) {
	var result []entity.Sale
	err := r.read(func(s *state) error {
		for _, sale := range s.sales {
			if arg.Status != nil && sale.Status != *arg.Status {
				continue
			}
			if arg.Creator != "" && sale.Creator != arg.Creator {
				continue
			}
			result = append(result, *sale.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return page(result, arg.Limit, arg.Offset), nil
}

func (r *Repository) GetDueSales(_ context.Context, arg datagateway.GetDueSalesParams) ([]entity.Sale, error) {
	var result []entity.Sale
	err := r.read(func(s *state) error {
		for _, sale := range s.sales {
			if sale.IsDue(arg.Now) {
				result = append(result, *sale.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return page(result, arg.Limit, 0), nil
}

func (r *Repository) GetParticipant(_ context.Context, saleID uint64, identity string) (*entity.Participant, error) {
	var participant *entity.Participant
	err := r.read(func(s *state) error {
		p, ok := s.participants[participantKey{saleID, identity}]
		if !ok {
			return errors.Wrapf(entity.ErrParticipantNotFound, "sale %d, identity %s", saleID, identity)
		}
		participant = &p
		return nil
	})
	return participant, err
}

func (r *Repository) PutParticipant(_ context.Context, participant entity.Participant) error {
	return r.write(func(s *state) error {
		s.participants[participantKey{participant.SaleID, participant.Identity}] = participant
		return nil
	})
}

func (r *Repository) GetParticipants(_ context.Context, arg datagateway.GetParticipantsParams) ([]entity.Participant, error) {
	var result []entity.Participant
	err := r.read(func(s *state) error {
		for key, p := range s.participants {
			if key.saleID == arg.SaleID {
				result = append(result, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Identity < result[j].Identity
	})
	return page(result, arg.Limit, arg.Offset), nil
}

func (r *Repository) CreatePrizeSlot(_ context.Context, slot entity.PrizeSlot) error {
	return r.write(func(s *state) error {
		key := slotKey{slot.SaleID, slot.Index}
		if _, exists := s.slots[key]; exists {
			return errors.Wrapf(errs.Conflict, "prize slot %d of sale %d already exists", slot.Index, slot.SaleID)
		}
		s.slots[key] = slot
		return nil
	})
}

func (r *Repository) UpdatePrizeSlot(_ context.Context, slot entity.PrizeSlot) error {
	return r.write(func(s *state) error {
		key := slotKey{slot.SaleID, slot.Index}
		if _, exists := s.slots[key]; !exists {
			return errors.Wrapf(entity.ErrPrizeSlotNotFound, "prize slot %d of sale %d", slot.Index, slot.SaleID)
		}
		s.slots[key] = slot
		return nil
	})
}

func (r *Repository) GetPrizeSlot(_ context.Context, saleID uint64, index uint32) (*entity.PrizeSlot, error) {
	var slot *entity.PrizeSlot
	err := r.read(func(s *state) error {
		stored, ok := s.slots[slotKey{saleID, index}]
		if !ok {
			return errors.Wrapf(entity.ErrPrizeSlotNotFound, "prize slot %d of sale %d", index, saleID)
		}
		slot = &stored
		return nil
	})
	return slot, err
}

func (r *Repository) GetPrizeSlots(_ context.Context, saleID uint64) ([]entity.PrizeSlot, error) {
	var result []entity.PrizeSlot
	err := r.read(func(s *state) error {
		for key, slot := range s.slots {
			if key.saleID == saleID {
				result = append(result, slot)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Index < result[j].Index
	})
	return result, nil
}
