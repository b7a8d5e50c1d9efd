package sale

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/internal/config"
	saleconfig "github.com/gaze-network/sale-engine/modules/sale/config"
	"github.com/gaze-network/sale-engine/pkg/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInjector(t *testing.T, conf saleconfig.Config) (do.Injector, *fiber.App) {
	t.Helper()
	var appConf config.Config
	appConf.Modules.Sale = conf

	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	injector := do.New()
	do.ProvideValue(injector, context.Background())
	do.ProvideValue(injector, appConf)
	do.ProvideValue(injector, app)
	return injector, app
}

func memoryConfig() saleconfig.Config {
	return saleconfig.Config{
		Database:    "memory",
		APIHandlers: []string{"http", "http"},
		Scheduler:   saleconfig.Scheduler{Interval: time.Hour},
		Custody:     saleconfig.Custody{AuthoritySecret: "0123456789abcdef-module"},
		Engine: saleconfig.Engine{
			Owner:        "owner",
			Admin:        "admin",
			FeeBps:       300,
			MinPeriod:    time.Hour,
			MaxPeriod:    24 * time.Hour,
			MinUnits:     1,
			MaxUnits:     100,
			MaxWinners:   3,
			MaxWalletPct: 100,
		},
	}
}

func TestNewBootstrapsConfigAndMountsAPI(t *testing.T) {
	injector, app := newTestInjector(t, memoryConfig())

	w, err := New(injector)
	require.NoError(t, err)
	require.NotNil(t, w)
	t.Cleanup(func() { _ = w.ShutdownWithTimeout(time.Second) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sale/v1/config", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Result struct {
			Owner  string `json:"owner"`
			Admin  string `json:"admin"`
			FeeBps uint16 `json:"feeBps"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "owner", body.Result.Owner)
	assert.Equal(t, "admin", body.Result.Admin)
	assert.Equal(t, uint16(300), body.Result.FeeBps)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*saleconfig.Config)
		kind   error
	}{
		{
			name:   "unsupported database",
			modify: func(c *saleconfig.Config) { c.Database = "mysql" },
			kind:   errs.Unsupported,
		},
		{
			name:   "unsupported api handler",
			modify: func(c *saleconfig.Config) { c.APIHandlers = []string{"grpc"} },
			kind:   errs.Unsupported,
		},
		{
			name:   "short custody secret",
			modify: func(c *saleconfig.Config) { c.Custody.AuthoritySecret = "short" },
			kind:   errs.InvalidArgument,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conf := memoryConfig()
			tc.modify(&conf)
			injector, _ := newTestInjector(t, conf)

			_, err := New(injector)
			assert.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestDisabledSchedulerIsIdle(t *testing.T) {
	scheduler := NewScheduler(nil, 0, 0, nil)
	assert.NoError(t, scheduler.Process(context.Background()))
}
