package controller

import (
	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	Report(ctx *fiber.Ctx) error
	GenerateReport(ctx *fiber.Ctx) error
	Checklist(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	r.Post("/report", c.Report)
	r.Post("/generate-report", c.GenerateReport)
	r.Get("/checklist", c.Checklist)
	r.Get("/report/health", c.Health)
}

func (c *reportController) Report(ctx *fiber.Ctx) error {
	var req dto.ReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, MessageInvalidBody)
	}

	res, err := c.service.Report(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *reportController) GenerateReport(ctx *fiber.Ctx) error {
	var req dto.GenerateReportRequest
	// An empty body means "today, no previous session".
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, MessageInvalidBody)
		}
	}

	res, err := c.service.GenerateReport(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *reportController) Checklist(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Checklist(ctx.Context()))
}

func (c *reportController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Health(ctx.Context()))
}
