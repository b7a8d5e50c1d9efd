package postgres

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/repository/postgres/gen"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
)

// numericFromUint64 stores amounts as NUMERIC so the column never truncates a value
// produced by a checked operation.
func numericFromUint64(src uint64) pgtype.Numeric {
	var result pgtype.Numeric
	// the decimal form of a uint64 is always a valid numeric literal
	_ = result.UnmarshalJSON([]byte(uint128.From64(src).String()))
	return result
}

func uint64FromNumeric(src pgtype.Numeric) (uint64, error) {
	if !src.Valid {
		return 0, nil
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	result, err := uint128.FromString(string(bytes))
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if !result.IsUint64() {
		return 0, errors.Wrapf(entity.ErrOverflow, "numeric %s exceeds uint64", result)
	}
	return result.Lo, nil
}

// numericReader collects the first conversion error so row mappers stay linear.
type numericReader struct {
	err error
}

func (r *numericReader) read(src pgtype.Numeric, field string) uint64 {
	if r.err != nil {
		return 0
	}
	v, err := uint64FromNumeric(src)
	if err != nil {
		r.err = errors.Wrapf(err, "invalid %s", field)
	}
	return v
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timeFromTimestamptz(src pgtype.Timestamptz) time.Time {
	if !src.Valid {
		return time.Time{}
	}
	return src.Time.UTC()
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func duration(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}

func mapConfigModelToType(src gen.SaleConfig) (entity.Config, error) {
	var n numericReader
	config := entity.Config{
		Owner:            src.Owner,
		Admin:            src.Admin,
		FeeBps:           uint16(src.FeeBps),
		CreationFee:      n.read(src.CreationFee, "creation fee"),
		MinPeriod:        duration(src.MinPeriod),
		MaxPeriod:        duration(src.MaxPeriod),
		MinUnits:         n.read(src.MinUnits, "min units"),
		MaxUnits:         n.read(src.MaxUnits, "max units"),
		MaxWinners:       uint8(src.MaxWinners),
		MaxWalletPct:     uint8(src.MaxWalletPct),
		MinTimeExtension: duration(src.MinTimeExtension),
		MaxTimeExtension: duration(src.MaxTimeExtension),
		PauseFlags:       uint8(src.PauseFlags),
		SaleCount:        n.read(src.SaleCount, "sale count"),
		UpdatedAt:        timeFromTimestamptz(src.UpdatedAt),
	}
	return config, errors.WithStack(n.err)
}

func mapConfigTypeToParams(src entity.Config) gen.PutConfigParams {
	return gen.PutConfigParams{
		Owner:            src.Owner,
		Admin:            src.Admin,
		FeeBps:           int32(src.FeeBps),
		CreationFee:      numericFromUint64(src.CreationFee),
		MinPeriod:        seconds(src.MinPeriod),
		MaxPeriod:        seconds(src.MaxPeriod),
		MinUnits:         numericFromUint64(src.MinUnits),
		MaxUnits:         numericFromUint64(src.MaxUnits),
		MaxWinners:       int16(src.MaxWinners),
		MaxWalletPct:     int16(src.MaxWalletPct),
		MinTimeExtension: seconds(src.MinTimeExtension),
		MaxTimeExtension: seconds(src.MaxTimeExtension),
		PauseFlags:       int16(src.PauseFlags),
		SaleCount:        numericFromUint64(src.SaleCount),
		UpdatedAt:        timestamptz(src.UpdatedAt),
	}
}

type winnerModel struct {
	Winner  string `json:"winner"`
	Share   uint8  `json:"share"`
	Amount  uint64 `json:"amount,string"`
	Claimed bool   `json:"claimed"`
}

func marshalWinners(src entity.WinnerSet) ([]byte, error) {
	models := make([]winnerModel, 0, src.Len)
	for _, slot := range src.List() {
		models = append(models, winnerModel(slot))
	}
	bytes, err := json.Marshal(models)
	return bytes, errors.Wrap(err, "failed to marshal winners")
}

func unmarshalWinners(src []byte) (entity.WinnerSet, error) {
	var (
		set    entity.WinnerSet
		models []winnerModel
	)
	if len(src) == 0 {
		return set, nil
	}
	if err := json.Unmarshal(src, &models); err != nil {
		return set, errors.Wrap(err, "failed to unmarshal winners")
	}
	for _, m := range models {
		if err := set.Append(entity.WinnerSlot(m)); err != nil {
			return set, errors.WithStack(err)
		}
	}
	return set, nil
}

func sharesToModel(src entity.ShareSchedule) []int16 {
	result := make([]int16, 0, src.Len)
	for _, v := range src.List() {
		result = append(result, int16(v))
	}
	return result
}

func sharesFromModel(src []int16) (entity.ShareSchedule, error) {
	shares := make([]uint8, 0, len(src))
	for _, v := range src {
		shares = append(shares, uint8(v))
	}
	schedule, err := entity.NewShareSchedule(shares)
	return schedule, errors.WithStack(err)
}

// saleColumns are the sale fields that change after creation.
type saleColumns struct {
	unitPrice       pgtype.Numeric
	totalUnits      pgtype.Numeric
	unitsSold       pgtype.Numeric
	prizesAdded     pgtype.Numeric
	uniqueWinners   bool
	bidding         bool
	baseBid         pgtype.Numeric
	minIncrement    pgtype.Numeric
	timeExtension   int64
	highestBidder   string
	highestBid      pgtype.Numeric
	hasBid          bool
	shares          []int16
	winners         []byte
	prizeResidual   pgtype.Numeric
	paymentResidual pgtype.Numeric
}

func mapSaleColumns(src entity.Sale) (saleColumns, error) {
	winners, err := marshalWinners(src.Winners)
	if err != nil {
		return saleColumns{}, errors.WithStack(err)
	}
	c := saleColumns{
		unitPrice:       numericFromUint64(src.UnitPrice),
		totalUnits:      numericFromUint64(src.TotalUnits),
		unitsSold:       numericFromUint64(src.UnitsSold),
		prizesAdded:     numericFromUint64(0),
		baseBid:         numericFromUint64(0),
		minIncrement:    numericFromUint64(0),
		highestBid:      numericFromUint64(0),
		shares:          sharesToModel(src.Shares),
		winners:         winners,
		prizeResidual:   numericFromUint64(src.PrizeResidual),
		paymentResidual: numericFromUint64(src.PaymentResidual),
	}
	switch p := src.Payout.(type) {
	case entity.SingleWinner:
		if b := p.Bidding; b != nil {
			c.bidding = true
			c.baseBid = numericFromUint64(b.BaseBid)
			c.minIncrement = numericFromUint64(b.MinIncrement)
			c.timeExtension = seconds(b.TimeExtension)
			c.highestBidder = b.HighestBidder
			c.highestBid = numericFromUint64(b.HighestBid)
			c.hasBid = b.HasBid
		}
	case entity.WeightedMulti:
		c.uniqueWinners = p.UniqueWinners
	case entity.InstantPerUnit:
		c.prizesAdded = numericFromUint64(p.PrizesAdded)
	default:
		return saleColumns{}, errors.Wrapf(entity.ErrInvalidPayout, "sale %d has no payout", src.ID)
	}
	return c, nil
}

func mapSaleTypeToCreateParams(src entity.Sale) (gen.CreateSaleParams, error) {
	c, err := mapSaleColumns(src)
	if err != nil {
		return gen.CreateSaleParams{}, errors.WithStack(err)
	}
	return gen.CreateSaleParams{
		ID:              int64(src.ID),
		Creator:         src.Creator,
		StartTime:       timestamptz(src.StartTime),
		EndTime:         timestamptz(src.EndTime),
		UnitPrice:       c.unitPrice,
		TotalUnits:      c.totalUnits,
		UnitsSold:       c.unitsSold,
		MaxWalletPct:    int16(src.MaxWalletPct),
		PrizeKind:       string(src.Prize.Kind),
		PrizeAsset:      src.Prize.Asset.String(),
		PrizeQuantity:   numericFromUint64(src.Prize.Quantity),
		PaymentAsset:    src.PaymentAsset.String(),
		PayoutMode:      string(src.Mode()),
		UniqueWinners:   c.uniqueWinners,
		PrizesAdded:     c.prizesAdded,
		Bidding:         c.bidding,
		BaseBid:         c.baseBid,
		MinIncrement:    c.minIncrement,
		TimeExtension:   c.timeExtension,
		HighestBidder:   c.highestBidder,
		HighestBid:      c.highestBid,
		HasBid:          c.hasBid,
		Shares:          c.shares,
		Winners:         c.winners,
		Status:          int16(src.Status),
		PrizeResidual:   c.prizeResidual,
		PaymentResidual: c.paymentResidual,
		Closed:          src.Closed,
		CreatedAt:       timestamptz(src.CreatedAt),
		UpdatedAt:       timestamptz(src.UpdatedAt),
	}, nil
}

func mapSaleTypeToUpdateParams(src entity.Sale) (gen.UpdateSaleParams, error) {
	c, err := mapSaleColumns(src)
	if err != nil {
		return gen.UpdateSaleParams{}, errors.WithStack(err)
	}
	return gen.UpdateSaleParams{
		ID:              int64(src.ID),
		StartTime:       timestamptz(src.StartTime),
		EndTime:         timestamptz(src.EndTime),
		UnitPrice:       c.unitPrice,
		TotalUnits:      c.totalUnits,
		UnitsSold:       c.unitsSold,
		MaxWalletPct:    int16(src.MaxWalletPct),
		PrizesAdded:     c.prizesAdded,
		BaseBid:         c.baseBid,
		MinIncrement:    c.minIncrement,
		TimeExtension:   c.timeExtension,
		HighestBidder:   c.highestBidder,
		HighestBid:      c.highestBid,
		HasBid:          c.hasBid,
		Shares:          c.shares,
		Winners:         c.winners,
		Status:          int16(src.Status),
		PrizeResidual:   c.prizeResidual,
		PaymentResidual: c.paymentResidual,
		Closed:          src.Closed,
		UpdatedAt:       timestamptz(src.UpdatedAt),
	}, nil
}

func mapSaleModelToType(src gen.Sale) (entity.Sale, error) {
	var n numericReader
	mode, err := entity.ParsePayoutMode(src.PayoutMode)
	if err != nil {
		return entity.Sale{}, errors.WithStack(err)
	}
	var payout entity.Payout
	switch mode {
	case entity.PayoutSingleWinner:
		p := entity.SingleWinner{}
		if src.Bidding {
			p.Bidding = &entity.Bidding{
				BaseBid:       n.read(src.BaseBid, "base bid"),
				MinIncrement:  n.read(src.MinIncrement, "min increment"),
				TimeExtension: duration(src.TimeExtension),
				HighestBidder: src.HighestBidder,
				HighestBid:    n.read(src.HighestBid, "highest bid"),
				HasBid:        src.HasBid,
			}
		}
		payout = p
	case entity.PayoutWeightedMulti:
		payout = entity.WeightedMulti{UniqueWinners: src.UniqueWinners}
	case entity.PayoutInstantPerUnit:
		payout = entity.InstantPerUnit{PrizesAdded: n.read(src.PrizesAdded, "prizes added")}
	}
	shares, err := sharesFromModel(src.Shares)
	if err != nil {
		return entity.Sale{}, errors.WithStack(err)
	}
	winners, err := unmarshalWinners(src.Winners)
	if err != nil {
		return entity.Sale{}, errors.WithStack(err)
	}
	sale := entity.Sale{
		ID:           uint64(src.ID),
		Creator:      src.Creator,
		StartTime:    timeFromTimestamptz(src.StartTime),
		EndTime:      timeFromTimestamptz(src.EndTime),
		UnitPrice:    n.read(src.UnitPrice, "unit price"),
		TotalUnits:   n.read(src.TotalUnits, "total units"),
		UnitsSold:    n.read(src.UnitsSold, "units sold"),
		MaxWalletPct: uint8(src.MaxWalletPct),
		Prize: entity.Prize{
			Kind:     entity.PrizeKind(src.PrizeKind),
			Asset:    custody.ParseAsset(src.PrizeAsset),
			Quantity: n.read(src.PrizeQuantity, "prize quantity"),
		},
		PaymentAsset:    custody.ParseAsset(src.PaymentAsset),
		Payout:          payout,
		Shares:          shares,
		Winners:         winners,
		Status:          entity.Status(src.Status),
		PrizeResidual:   n.read(src.PrizeResidual, "prize residual"),
		PaymentResidual: n.read(src.PaymentResidual, "payment residual"),
		Closed:          src.Closed,
		CreatedAt:       timeFromTimestamptz(src.CreatedAt),
		UpdatedAt:       timeFromTimestamptz(src.UpdatedAt),
	}
	return sale, errors.WithStack(n.err)
}

func mapParticipantModelToType(src gen.SaleParticipant) (entity.Participant, error) {
	units, err := uint64FromNumeric(src.Units)
	if err != nil {
		return entity.Participant{}, errors.Wrap(err, "invalid units")
	}
	return entity.Participant{
		SaleID:   uint64(src.SaleID),
		Identity: src.Identity,
		Units:    units,
	}, nil
}

func mapPrizeSlotModelToType(src gen.SalePrizeSlot) (entity.PrizeSlot, error) {
	var n numericReader
	slot := entity.PrizeSlot{
		SaleID:          uint64(src.SaleID),
		Index:           uint32(src.Index),
		Asset:           custody.ParseAsset(src.Asset),
		AmountPerUnit:   n.read(src.AmountPerUnit, "amount per unit"),
		InitialQuantity: n.read(src.InitialQuantity, "initial quantity"),
		Remaining:       n.read(src.Remaining, "remaining"),
		Closed:          src.Closed,
		CreatedAt:       timeFromTimestamptz(src.CreatedAt),
	}
	return slot, errors.WithStack(n.err)
}

func mapEventModelToType(src gen.SaleEvent) entity.Event {
	return entity.Event{
		ID:        src.ID,
		SaleID:    uint64(src.SaleID),
		Action:    entity.EventAction(src.Action),
		Actor:     src.Actor,
		Payload:   json.RawMessage(src.Payload),
		CreatedAt: timeFromTimestamptz(src.CreatedAt),
	}
}

func mapHoldingModelToType(src gen.CustodyHolding) (custody.Holding, error) {
	var n numericReader
	holding := custody.Holding{
		ID:              custody.HoldingID(src.ID),
		Asset:           custody.ParseAsset(src.Asset),
		Balance:         n.read(src.Balance, "balance"),
		TotalIn:         n.read(src.TotalIn, "total in"),
		TotalOut:        n.read(src.TotalOut, "total out"),
		AuthorityDigest: src.AuthorityDigest,
	}
	return holding, errors.WithStack(n.err)
}

func mapHoldingTypeToParams(src custody.Holding) gen.PutHoldingParams {
	return gen.PutHoldingParams{
		ID:              src.ID.String(),
		Asset:           src.Asset.String(),
		Balance:         numericFromUint64(src.Balance),
		TotalIn:         numericFromUint64(src.TotalIn),
		TotalOut:        numericFromUint64(src.TotalOut),
		AuthorityDigest: src.AuthorityDigest,
	}
}
