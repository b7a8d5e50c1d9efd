package httphandler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gaze-network/sale-engine/modules/sale/repository/memory"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/sale-engine/pkg/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	deriver, err := custody.NewDeriver("0123456789abcdef-http")
	require.NoError(t, err)
	e := engine.New(memory.NewRepository(), deriver)
	e.SetNowFunc(func() time.Time { return t0 })

	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	require.NoError(t, New(e, map[string]uint16{"native": 2}).Mount(app))
	return app
}

type testResponse[T any] struct {
	Status int
	Body   HttpResponse[T]
}

func call[T any](t *testing.T, app *fiber.App, method, path, identity string, body any) testResponse[T] {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if identity != "" {
		req.Header.Set(CallerHeader, identity)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	result := testResponse[T]{Status: resp.StatusCode}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result.Body))
	return result
}

func setupConfig(t *testing.T, app *fiber.App) {
	t.Helper()
	resp := call[config](t, app, http.MethodPost, "/sale/v1/config", "owner", map[string]any{
		"admin":                   "admin",
		"feeBps":                  500,
		"minPeriodSeconds":        3600,
		"maxPeriodSeconds":        7 * 24 * 3600,
		"minUnits":                1,
		"maxUnits":                1000,
		"maxWinners":              10,
		"maxWalletPct":            100,
		"minTimeExtensionSeconds": 60,
		"maxTimeExtensionSeconds": 3600,
	})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "owner", resp.Body.Result.Owner)
}

func deposit(t *testing.T, app *fiber.App, owner string, asset map[string]any, amount uint64) {
	t.Helper()
	resp := call[balance](t, app, http.MethodPost, "/sale/v1/accounts/"+owner+"/deposit", owner, map[string]any{
		"asset":  asset,
		"amount": amount,
	})
	require.Equal(t, http.StatusOK, resp.Status)
}

var (
	nativeAsset = map[string]any{"native": true}
	prizeAsset  = map[string]any{"mint": "PRIZE"}
)

func createRaffle(t *testing.T, app *fiber.App) sale {
	t.Helper()
	resp := call[sale](t, app, http.MethodPost, "/sale/v1/sales", "creator", map[string]any{
		"startImmediately": true,
		"endTime":          t0.Add(2 * time.Hour).Unix(),
		"unitPrice":        100,
		"totalUnits":       10,
		"maxWalletPct":     100,
		"prize":            map[string]any{"kind": "fungible_amount", "asset": prizeAsset, "quantity": 1000},
		"paymentAsset":     nativeAsset,
		"mode":             "weighted_multi",
		"shares":           []uint8{60, 40},
	})
	require.Equal(t, http.StatusCreated, resp.Status, "error: %v", resp.Body.Error)
	return *resp.Body.Result
}

func TestSaleFlow(t *testing.T) {
	app := newTestApp(t)
	setupConfig(t, app)
	deposit(t, app, "creator", prizeAsset, 1000)
	deposit(t, app, "alice", nativeAsset, 500)

	created := createRaffle(t, app)
	assert.Equal(t, uint64(1), created.Id)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, "1", created.UnitPriceDisplay)
	assert.Equal(t, []uint8{60, 40}, created.Shares)

	purchased := call[purchaseResult](t, app, http.MethodPost, "/sale/v1/sales/1/purchase", "alice", map[string]any{
		"quantity": 2,
	})
	require.Equal(t, http.StatusOK, purchased.Status)
	assert.Equal(t, uint64(200), purchased.Body.Result.Paid)
	assert.Equal(t, uint64(2), purchased.Body.Result.Units)
	assert.Equal(t, uint64(2), purchased.Body.Result.Sale.UnitsSold)

	balances := call[getBalancesResult](t, app, http.MethodGet, "/sale/v1/accounts/alice", "", nil)
	require.Equal(t, http.StatusOK, balances.Status)
	require.Len(t, balances.Body.Result.List, 1)
	assert.Equal(t, uint64(300), balances.Body.Result.List[0].Balance)
	assert.Equal(t, "3", balances.Body.Result.List[0].Display)

	participants := call[getParticipantsResult](t, app, http.MethodGet, "/sale/v1/sales/1/participants", "", nil)
	require.Equal(t, http.StatusOK, participants.Status)
	assert.Equal(t, []participant{{Identity: "alice", Units: 2}}, participants.Body.Result.List)

	active := call[getSalesResult](t, app, http.MethodGet, "/sale/v1/sales?status=active&creator=creator", "", nil)
	require.Equal(t, http.StatusOK, active.Status)
	assert.Len(t, active.Body.Result.List, 1)

	events := call[getEventsResult](t, app, http.MethodGet, "/sale/v1/sales/1/events", "", nil)
	require.Equal(t, http.StatusOK, events.Status)
	require.NotEmpty(t, events.Body.Result.List)
	assert.EqualValues(t, "create", events.Body.Result.List[0].Action)

	holdings := call[getHoldingsResult](t, app, http.MethodGet, "/sale/v1/sales/1/holdings", "", nil)
	require.Equal(t, http.StatusOK, holdings.Status)
	assert.NotEmpty(t, holdings.Body.Result.List)
}

func TestRejections(t *testing.T) {
	app := newTestApp(t)
	setupConfig(t, app)
	deposit(t, app, "creator", prizeAsset, 1000)
	createRaffle(t, app)

	testCases := []struct {
		name     string
		method   string
		path     string
		identity string
		body     any
		status   int
	}{
		{
			name:   "missing caller",
			method: http.MethodPost,
			path:   "/sale/v1/sales/1/purchase",
			body:   map[string]any{"quantity": 1},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown sale",
			method: http.MethodGet,
			path:   "/sale/v1/sales/99",
			status: http.StatusNotFound,
		},
		{
			name:   "invalid sale id",
			method: http.MethodGet,
			path:   "/sale/v1/sales/abc",
			status: http.StatusBadRequest,
		},
		{
			name:   "invalid status filter",
			method: http.MethodGet,
			path:   "/sale/v1/sales?status=open",
			status: http.StatusBadRequest,
		},
		{
			name:   "limit too large",
			method: http.MethodGet,
			path:   "/sale/v1/sales?limit=5000",
			status: http.StatusBadRequest,
		},
		{
			name:     "foreign account",
			method:   http.MethodPost,
			path:     "/sale/v1/accounts/alice/withdraw",
			identity: "bob",
			body:     map[string]any{"asset": nativeAsset, "amount": 1},
			status:   http.StatusForbidden,
		},
		{
			name:     "ambiguous asset",
			method:   http.MethodPost,
			path:     "/sale/v1/accounts/bob/deposit",
			identity: "bob",
			body:     map[string]any{"asset": map[string]any{"native": true, "mint": "PRIZE"}, "amount": 1},
			status:   http.StatusBadRequest,
		},
		{
			name:     "insufficient funds",
			method:   http.MethodPost,
			path:     "/sale/v1/sales/1/purchase",
			identity: "bob",
			body:     map[string]any{"quantity": 1},
			status:   http.StatusPaymentRequired,
		},
		{
			name:     "cancel by stranger",
			method:   http.MethodPost,
			path:     "/sale/v1/sales/1/cancel",
			identity: "bob",
			status:   http.StatusForbidden,
		},
		{
			name:     "finalize before end",
			method:   http.MethodPost,
			path:     "/sale/v1/sales/1/finalize",
			identity: "admin",
			status:   http.StatusBadRequest,
		},
		{
			name:     "update config by admin",
			method:   http.MethodPatch,
			path:     "/sale/v1/config",
			identity: "admin",
			body:     map[string]any{"feeBps": 100},
			status:   http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := call[any](t, app, tc.method, tc.path, tc.identity, tc.body)
			assert.Equal(t, tc.status, resp.Status)
			assert.NotNil(t, resp.Body.Error)
		})
	}
}

func TestPauseBlocksPurchases(t *testing.T) {
	app := newTestApp(t)
	setupConfig(t, app)
	deposit(t, app, "creator", prizeAsset, 1000)
	deposit(t, app, "alice", nativeAsset, 500)
	createRaffle(t, app)

	paused := call[config](t, app, http.MethodPut, "/sale/v1/config/pause", "admin", map[string]any{"flags": 1 << 3})
	require.Equal(t, http.StatusOK, paused.Status)
	assert.Equal(t, uint8(1<<3), paused.Body.Result.PauseFlags)

	resp := call[purchaseResult](t, app, http.MethodPost, "/sale/v1/sales/1/purchase", "alice", map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusConflict, resp.Status)
}

func TestDepositDisplayAmount(t *testing.T) {
	app := newTestApp(t)
	setupConfig(t, app)

	resp := call[balance](t, app, http.MethodPost, "/sale/v1/accounts/alice/deposit", "alice", map[string]any{
		"asset":         nativeAsset,
		"amountDisplay": "1.5",
	})
	require.Equal(t, http.StatusOK, resp.Status, "error: %v", resp.Body.Error)
	assert.Equal(t, uint64(150), resp.Body.Result.Balance)
	assert.Equal(t, "1.5", resp.Body.Result.Display)

	for name, body := range map[string]map[string]any{
		"too_precise": {"asset": nativeAsset, "amountDisplay": "0.001"},
		"both_set":    {"asset": nativeAsset, "amount": 1, "amountDisplay": "1"},
	} {
		t.Run(name, func(t *testing.T) {
			resp := call[balance](t, app, http.MethodPost, "/sale/v1/accounts/alice/deposit", "alice", body)
			assert.Equal(t, http.StatusBadRequest, resp.Status)
		})
	}
}
