package entity

import (
	"time"

	"github.com/gaze-network/sale-engine/pkg/custody"
)

// MaxWinnerSlots is the fixed capacity of the winner set and the share schedule.
const MaxWinnerSlots = 10

// ConfigAuthorityLabel is the label the platform authority is derived from.
const ConfigAuthorityLabel = "config"

// Config is the deployment-wide sale configuration.
type Config struct {
	Owner            string
	Admin            string
	FeeBps           uint16
	CreationFee      uint64
	MinPeriod        time.Duration
	MaxPeriod        time.Duration
	MinUnits         uint64
	MaxUnits         uint64
	MaxWinners       uint8
	MaxWalletPct     uint8
	MinTimeExtension time.Duration
	MaxTimeExtension time.Duration
	PauseFlags       uint8
	SaleCount        uint64
	UpdatedAt        time.Time
}

func (c *Config) IsPaused(action PauseAction) bool {
	return IsPaused(c.PauseFlags, action)
}

// IsOwner reports whether identity is the config owner.
func (c *Config) IsOwner(identity string) bool {
	return identity != "" && identity == c.Owner
}

// IsOperator reports whether identity is the admin or the owner.
func (c *Config) IsOperator(identity string) bool {
	return identity != "" && (identity == c.Admin || identity == c.Owner)
}

// FeeHolding is the platform holding collecting fees paid in asset.
func FeeHolding(asset custody.Asset) custody.HoldingID {
	return custody.HoldingID("config/fees/" + asset.String())
}
