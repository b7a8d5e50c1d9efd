package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) CreateSale(ctx context.Context, sale entity.Sale) error {
	params, err := mapSaleTypeToCreateParams(sale)
	if err != nil {
		return errors.Wrap(err, "failed to map sale")
	}
	if err := r.queries.CreateSale(ctx, params); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpdateSale(ctx context.Context, sale entity.Sale) error {
	params, err := mapSaleTypeToUpdateParams(sale)
	if err != nil {
		return errors.Wrap(err, "failed to map sale")
	}
	affected, err := r.queries.UpdateSale(ctx, params)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if affected == 0 {
		return errors.Wrapf(entity.ErrSaleNotFound, "sale %d", sale.ID)
	}
	return nil
}

func (r *Repository) GetSale(ctx context.Context, id uint64) (*entity.Sale, error) {
	model, err := r.queries.GetSale(ctx, int64(id))
	return mapSaleResult(id, model, err)
}

func (r *Repository) GetSaleForUpdate(ctx context.Context, id uint64) (*entity.Sale, error) {
	model, err := r.queries.GetSaleForUpdate(ctx, int64(id))
	return mapSaleResult(id, model, err)
}

func mapSaleResult(id uint64, model gen.Sale, err error) (*entity.Sale, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(entity.ErrSaleNotFound, "sale %d", id)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	sale, err := mapSaleModelToType(model)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map sale %d", id)
	}
	return &sale, nil
}

func (r *Repository) GetSales(ctx context.Context, arg datagateway.GetSalesParams) ([]entity.Sale, error) {
	params := gen.GetSalesParams{
		Creator: arg.Creator,
		Limit:   arg.Limit,
		Offset:  arg.Offset,
	}
	if arg.Status != nil {
		params.Status = pgtype.Int2{Int16: int16(*arg.Status), Valid: true}
	}
	models, err := r.queries.GetSales(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return mapSales(models)
}

func (r *Repository) GetDueSales(ctx context.Context, arg datagateway.GetDueSalesParams) ([]entity.Sale, error) {
	models, err := r.queries.GetDueSales(ctx, gen.GetDueSalesParams{
		Now:   timestamptz(arg.Now),
		Limit: arg.Limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return mapSales(models)
}

func mapSales(models []gen.Sale) ([]entity.Sale, error) {
	sales := make([]entity.Sale, 0, len(models))
	for _, model := range models {
		sale, err := mapSaleModelToType(model)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to map sale %d", model.ID)
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func (r *Repository) GetParticipant(ctx context.Context, saleID uint64, identity string) (*entity.Participant, error) {
	model, err := r.queries.GetParticipant(ctx, gen.GetParticipantParams{
		SaleID:   int64(saleID),
		Identity: identity,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(entity.ErrParticipantNotFound, "%s in sale %d", identity, saleID)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	participant, err := mapParticipantModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &participant, nil
}

func (r *Repository) PutParticipant(ctx context.Context, participant entity.Participant) error {
	if err := r.queries.PutParticipant(ctx, gen.PutParticipantParams{
		SaleID:   int64(participant.SaleID),
		Identity: participant.Identity,
		Units:    numericFromUint64(participant.Units),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetParticipants(ctx context.Context, arg datagateway.GetParticipantsParams) ([]entity.Participant, error) {
	models, err := r.queries.GetParticipants(ctx, gen.GetParticipantsParams{
		SaleID: int64(arg.SaleID),
		Limit:  arg.Limit,
		Offset: arg.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	participants := make([]entity.Participant, 0, len(models))
	for _, model := range models {
		participant, err := mapParticipantModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		participants = append(participants, participant)
	}
	return participants, nil
}

func (r *Repository) CreatePrizeSlot(ctx context.Context, slot entity.PrizeSlot) error {
	if err := r.queries.CreatePrizeSlot(ctx, gen.CreatePrizeSlotParams{
		SaleID:          int64(slot.SaleID),
		Index:           int32(slot.Index),
		Asset:           slot.Asset.String(),
		AmountPerUnit:   numericFromUint64(slot.AmountPerUnit),
		InitialQuantity: numericFromUint64(slot.InitialQuantity),
		Remaining:       numericFromUint64(slot.Remaining),
		Closed:          slot.Closed,
		CreatedAt:       timestamptz(slot.CreatedAt),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpdatePrizeSlot(ctx context.Context, slot entity.PrizeSlot) error {
	affected, err := r.queries.UpdatePrizeSlot(ctx, gen.UpdatePrizeSlotParams{
		SaleID:    int64(slot.SaleID),
		Index:     int32(slot.Index),
		Remaining: numericFromUint64(slot.Remaining),
		Closed:    slot.Closed,
	})
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if affected == 0 {
		return errors.Wrapf(entity.ErrPrizeSlotNotFound, "slot %d of sale %d", slot.Index, slot.SaleID)
	}
	return nil
}

func (r *Repository) GetPrizeSlot(ctx context.Context, saleID uint64, index uint32) (*entity.PrizeSlot, error) {
	model, err := r.queries.GetPrizeSlot(ctx, gen.GetPrizeSlotParams{
		SaleID: int64(saleID),
		Index:  int32(index),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(entity.ErrPrizeSlotNotFound, "slot %d of sale %d", index, saleID)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	slot, err := mapPrizeSlotModelToType(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &slot, nil
}

func (r *Repository) GetPrizeSlots(ctx context.Context, saleID uint64) ([]entity.PrizeSlot, error) {
	models, err := r.queries.GetPrizeSlots(ctx, int64(saleID))
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	slots := make([]entity.PrizeSlot, 0, len(models))
	for _, model := range models {
		slot, err := mapPrizeSlotModelToType(model)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
