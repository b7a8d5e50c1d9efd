package httphandler

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/sale-engine/pkg/decimals"
	"github.com/gofiber/fiber/v2"
)

// CallerHeader carries the identity the request acts as. Authenticating it is up to the
// gateway in front of the service.
const CallerHeader = "X-Caller"

type HttpHandler struct {
	engine        *engine.Engine
	assetDecimals map[string]uint16
}

func New(engine *engine.Engine, assetDecimals map[string]uint16) *HttpHandler {
	return &HttpHandler{
		engine:        engine,
		assetDecimals: assetDecimals,
	}
}

type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}

func caller(ctx *fiber.Ctx) (string, error) {
	identity := strings.TrimSpace(ctx.Get(CallerHeader))
	if identity == "" {
		return "", errs.NewPublicError("missing " + CallerHeader + " header")
	}
	return identity, nil
}

// display formats a base-unit amount with the configured decimals of the asset.
func (h *HttpHandler) display(asset custody.Asset, amount uint64) string {
	return decimals.ToDecimal(amount, h.decimalsOf(asset)).String()
}

func (h *HttpHandler) decimalsOf(asset custody.Asset) uint16 {
	return h.assetDecimals[strings.ToLower(asset.String())]
}

type assetRequest struct {
	Native bool   `json:"native"`
	Mint   string `json:"mint"`
}

func (r assetRequest) asset() (custody.Asset, error) {
	asset, err := custody.NewAsset(r.Native, r.Mint)
	if err != nil {
		return custody.Asset{}, errs.WithPublicMessage(err, "asset must set exactly one of 'native' or 'mint'")
	}
	return asset, nil
}

type saleIdRequest struct {
	Id uint64 `params:"id"`
}

func (r saleIdRequest) Validate() error {
	if r.Id == 0 {
		return errs.NewPublicError("'id' must be a positive sale id")
	}
	return nil
}

type paginationRequest struct {
	Offset int32 `query:"offset"`
	Limit  int32 `query:"limit"`
}

const (
	defaultLimit = 100
	maxLimit     = 1000
)

func (r *paginationRequest) Validate() error {
	var errList []error
	if r.Offset < 0 {
		errList = append(errList, errors.New("'offset' must be non-negative"))
	}
	if r.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if r.Limit > maxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", maxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (r *paginationRequest) ParseDefault() {
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
}

func parseSaleId(ctx *fiber.Ctx) (uint64, error) {
	var req saleIdRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return 0, errs.WithPublicMessage(errors.WithStack(err), "'id' must be a positive sale id")
	}
	if err := req.Validate(); err != nil {
		return 0, errors.WithStack(err)
	}
	return req.Id, nil
}

func parseBody(ctx *fiber.Ctx, req any) error {
	if err := ctx.BodyParser(req); err != nil {
		return errs.WithPublicMessage(errors.WithStack(err), "invalid request body")
	}
	return nil
}

func unixTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
