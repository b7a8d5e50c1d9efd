package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

// kindStatuses maps error kinds to HTTP statuses. Order matters: the first kind the
// error is marked with wins.
var kindStatuses = []struct {
	kind   errs.ErrorKind
	status int
}{
	{errs.NotFound, http.StatusNotFound},
	{errs.AuthorizationError, http.StatusForbidden},
	{errs.Paused, http.StatusConflict},
	{errs.StateError, http.StatusConflict},
	{errs.Conflict, http.StatusConflict},
	{errs.CustodyError, http.StatusPaymentRequired},
	{errs.ArithmeticError, http.StatusUnprocessableEntity},
	{errs.ValidationError, http.StatusBadRequest},
	{errs.WindowError, http.StatusBadRequest},
	{errs.InvalidArgument, http.StatusBadRequest},
	{errs.Unsupported, http.StatusBadRequest},
}

// StatusOf returns the HTTP status for err and the error kind it was matched by.
func StatusOf(err error) (int, errs.ErrorKind, bool) {
	for _, ks := range kindStatuses {
		if errors.Is(err, ks.kind) {
			return ks.status, ks.kind, true
		}
	}
	return 0, "", false
}

func NewHTTPErrorHandler() func(ctx *fiber.Ctx, err error) error {
	return func(ctx *fiber.Ctx, err error) error {
		if e := new(errs.PublicError); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(http.StatusBadRequest).JSON(map[string]any{
				"error": e.Message(),
			}))
		}
		if e := new(fiber.Error); errors.As(err, &e) {
			return errors.WithStack(ctx.Status(e.Code).JSON(map[string]any{
				"error": e.Error(),
			}))
		}
		if status, kind, ok := StatusOf(err); ok {
			logger.DebugContext(ctx.UserContext(), "Rejected api request",
				slogx.Event("api_rejected"),
				slogx.String("kind", string(kind)),
				slogx.Error(err),
			)
			return errors.WithStack(ctx.Status(status).JSON(map[string]any{
				"error": err.Error(),
				"kind":  string(kind),
			}))
		}

		logger.ErrorContext(ctx.UserContext(), "Something went wrong, unhandled api error", err,
			slogx.Event("api_unhandled_error"),
		)

		return errors.WithStack(ctx.Status(http.StatusInternalServerError).JSON(map[string]any{
			"error": "Internal Server Error",
		}))
	}
}
