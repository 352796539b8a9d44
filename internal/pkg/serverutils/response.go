package serverutils

import "github.com/gofiber/fiber/v2"

// BaseResponse is the envelope used by the /api management routes.
type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

// ErrorBody is the bare error shape of the chat and report routes.
func ErrorBody(message string) fiber.Map {
	return fiber.Map{"error": message}
}
