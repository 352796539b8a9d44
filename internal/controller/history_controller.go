package controller

import (
	"maumjari-counsel-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IHistoryController interface {
	RegisterRoutes(r fiber.Router)
	ChatHistory(ctx *fiber.Ctx) error
}

type historyController struct {
	service service.IHistoryService
}

func NewHistoryController(service service.IHistoryService) IHistoryController {
	return &historyController{service: service}
}

func (c *historyController) RegisterRoutes(r fiber.Router) {
	r.Get("/chat-history", c.ChatHistory)
}

func (c *historyController) ChatHistory(ctx *fiber.Ctx) error {
	if date := ctx.Query("date"); date != "" {
		res, err := c.service.ByDate(ctx.Context(), date)
		if err != nil {
			return err
		}
		return ctx.JSON(res)
	}

	res, err := c.service.Grouped(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
