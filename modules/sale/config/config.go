package config

import (
	"time"

	"github.com/gaze-network/sale-engine/internal/postgres"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gaze-network/sale-engine/pkg/webhook"
)

// ModuleName selects the sale module in `enable_modules` and names its config section.
const ModuleName = "sale"

type Config struct {
	Database    string          `mapstructure:"database"` // Database to store sale data. `postgres` | `memory`
	Postgres    postgres.Config `mapstructure:"postgres"`
	APIHandlers []string        `mapstructure:"api_handlers"` // List of API handlers to enable. (e.g. `http`)
	Scheduler   Scheduler       `mapstructure:"scheduler"`
	Custody     Custody         `mapstructure:"custody"`
	Engine      Engine          `mapstructure:"engine"`
	Webhook     webhook.Config  `mapstructure:"webhook"`
	API         API             `mapstructure:"api"`
}

type API struct {
	// AssetDecimals maps an asset (`native` or a token mint, lower case) to the decimals
	// used for display amounts. Unlisted assets are displayed in base units.
	AssetDecimals map[string]uint16 `mapstructure:"asset_decimals"`
}

type Scheduler struct {
	Disabled    bool          `mapstructure:"disabled"`
	Interval    time.Duration `mapstructure:"interval"`    // Default is 15s
	BatchSize   int32         `mapstructure:"batch_size"`  // Due sales fetched per round. Default is 100
	Concurrency int           `mapstructure:"concurrency"` // Sales processed in parallel. Default is 8
}

type Custody struct {
	// AuthoritySecret seeds the derivation of holding authorities. Changing it locks every
	// existing holding.
	AuthoritySecret string `mapstructure:"authority_secret"`
}

// Engine is the initial sale config written by `init-config`.
type Engine struct {
	Owner            string        `mapstructure:"owner"`
	Admin            string        `mapstructure:"admin"`
	FeeBps           uint16        `mapstructure:"fee_bps"`
	CreationFee      uint64        `mapstructure:"creation_fee"`
	MinPeriod        time.Duration `mapstructure:"min_period"`
	MaxPeriod        time.Duration `mapstructure:"max_period"`
	MinUnits         uint64        `mapstructure:"min_units"`
	MaxUnits         uint64        `mapstructure:"max_units"`
	MaxWinners       uint8         `mapstructure:"max_winners"`
	MaxWalletPct     uint8         `mapstructure:"max_wallet_pct"`
	MinTimeExtension time.Duration `mapstructure:"min_time_extension"`
	MaxTimeExtension time.Duration `mapstructure:"max_time_extension"`
}

func (e Engine) Params() engine.ConfigParams {
	return engine.ConfigParams{
		FeeBps:           e.FeeBps,
		CreationFee:      e.CreationFee,
		MinPeriod:        e.MinPeriod,
		MaxPeriod:        e.MaxPeriod,
		MinUnits:         e.MinUnits,
		MaxUnits:         e.MaxUnits,
		MaxWinners:       e.MaxWinners,
		MaxWalletPct:     e.MaxWalletPct,
		MinTimeExtension: e.MinTimeExtension,
		MaxTimeExtension: e.MaxTimeExtension,
	}
}
