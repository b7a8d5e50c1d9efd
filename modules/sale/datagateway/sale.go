package datagateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/custody"
)

type SaleDataGateway interface {
	BeginSaleTx(ctx context.Context) (SaleDataGatewayWithTx, error)
	ConfigReaderWriter
	SaleReaderWriter
	EventReaderWriter
	custody.Store
	// GetAccountBalances returns every non-zero balance of owner.
	GetAccountBalances(ctx context.Context, owner string) ([]entity.AccountBalance, error)
	// GetHoldings returns the open holdings whose id starts with prefix.
	GetHoldings(ctx context.Context, prefix string) ([]custody.Holding, error)
}

type SaleDataGatewayWithTx interface {
	SaleDataGateway
	Tx
}

type ConfigReaderWriter interface {
	// GetConfig returns entity.ErrConfigNotFound if the config is not initialized.
	GetConfig(ctx context.Context) (*entity.Config, error)
	// GetConfigForUpdate is GetConfig that also locks the config until the transaction ends.
	GetConfigForUpdate(ctx context.Context) (*entity.Config, error)
	PutConfig(ctx context.Context, config entity.Config) error
}

type SaleReaderWriter interface {
	CreateSale(ctx context.Context, sale entity.Sale) error
	UpdateSale(ctx context.Context, sale entity.Sale) error
	// GetSale returns entity.ErrSaleNotFound if the sale doesn't exist.
	GetSale(ctx context.Context, id uint64) (*entity.Sale, error)
	// GetSaleForUpdate is GetSale that also locks the sale until the transaction ends.
	GetSaleForUpdate(ctx context.Context, id uint64) (*entity.Sale, error)
	GetSales(ctx context.Context, arg GetSalesParams) ([]entity.Sale, error)
	// GetDueSales returns the sales for which entity.Sale.IsDue holds.
	GetDueSales(ctx context.Context, arg GetDueSalesParams) ([]entity.Sale, error)

	// GetParticipant returns entity.ErrParticipantNotFound if identity never bought a unit.
	GetParticipant(ctx context.Context, saleID uint64, identity string) (*entity.Participant, error)
	PutParticipant(ctx context.Context, participant entity.Participant) error
	GetParticipants(ctx context.Context, arg GetParticipantsParams) ([]entity.Participant, error)

	CreatePrizeSlot(ctx context.Context, slot entity.PrizeSlot) error
	UpdatePrizeSlot(ctx context.Context, slot entity.PrizeSlot) error
	// GetPrizeSlot returns entity.ErrPrizeSlotNotFound if the slot doesn't exist.
	GetPrizeSlot(ctx context.Context, saleID uint64, index uint32) (*entity.PrizeSlot, error)
	GetPrizeSlots(ctx context.Context, saleID uint64) ([]entity.PrizeSlot, error)
}

type EventReaderWriter interface {
	AddEvent(ctx context.Context, arg AddEventParams) (int64, error)
	GetEvents(ctx context.Context, arg GetEventsParams) ([]entity.Event, error)
}

type GetSalesParams struct {
	Status  *entity.Status
	Creator string
	Limit   int32
	Offset  int32
}

type GetDueSalesParams struct {
	Now   time.Time
	Limit int32
}

type GetParticipantsParams struct {
	SaleID uint64
	Limit  int32
	Offset int32
}

type AddEventParams struct {
	SaleID    uint64
	Action    entity.EventAction
	Actor     string
	Payload   json.RawMessage
	CreatedAt time.Time
}

type GetEventsParams struct {
	// SaleID zero selects config and account events.
	SaleID uint64
	Limit  int32
	Offset int32
}
