package serverutils

import (
	"errors"

	"maumjari-counsel-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// InternalErrorMessage is shown for any failure that is not a *fiber.Error.
const InternalErrorMessage = "서버 오류가 발생했습니다."

// ErrorHandlerMiddleware turns errors returned by handlers into
// {"error": message} with the matching status. Unknown errors become 500
// and are logged without leaking their text to the client.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorBody(fe.Message))
		}

		log.Error("HTTP", "Unhandled request error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorBody(InternalErrorMessage))
	}
}
