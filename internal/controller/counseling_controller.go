package controller

import (
	"errors"

	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/internal/pkg/serverutils"
	"maumjari-counsel-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	MessageInvalidBody     = "잘못된 요청 형식입니다."
	MessageSessionNotFound = "세션을 찾을 수 없습니다."
)

type ICounselingController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	Personas(ctx *fiber.Ctx) error
	SessionAnalysis(ctx *fiber.Ctx) error
}

type counselingController struct {
	service service.ICounselingService
}

func NewCounselingController(service service.ICounselingService) ICounselingController {
	return &counselingController{service: service}
}

func (c *counselingController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Get("/health", c.Health)
	r.Get("/personas", c.Personas)
	r.Get("/session/:id/analysis", c.SessionAnalysis)
}

func (c *counselingController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, MessageInvalidBody)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res.Response)
}

func (c *counselingController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Health(ctx.Context()))
}

func (c *counselingController) Personas(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Personas(ctx.Context()))
}

func (c *counselingController) SessionAnalysis(ctx *fiber.Ctx) error {
	res, err := c.service.SessionAnalysis(ctx.Context(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, MessageSessionNotFound)
		}
		return err
	}

	return ctx.JSON(res)
}
