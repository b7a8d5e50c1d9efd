package api

import (
	"github.com/gaze-network/sale-engine/modules/sale/api/httphandler"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
)

func NewHTTPHandler(engine *engine.Engine, assetDecimals map[string]uint16) *httphandler.HttpHandler {
	return httphandler.New(engine, assetDecimals)
}
