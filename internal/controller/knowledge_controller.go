package controller

import (
	"errors"

	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/internal/pkg/serverutils"
	"maumjari-counsel-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const MessageKnowledgeDisabled = "지식 검색이 비활성화되어 있습니다."

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Ingest(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	service service.IKnowledgeService
}

func NewKnowledgeController(service service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{service: service}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge")
	h.Post("/search", c.Search)
	h.Post("/documents", c.Ingest)
	h.Get("/stats", c.Stats)
}

func (c *knowledgeController) Search(ctx *fiber.Ctx) error {
	var req dto.KnowledgeSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, MessageInvalidBody)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return knowledgeError(err)
	}

	return ctx.JSON(res)
}

func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, MessageInvalidBody)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ingest(ctx.Context(), &req)
	if err != nil {
		return knowledgeError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest document", res))
}

func (c *knowledgeController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.Context(), ctx.Query("source"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get knowledge stats", res))
}

func knowledgeError(err error) error {
	if errors.Is(err, service.ErrKnowledgeDisabled) {
		return fiber.NewError(fiber.StatusServiceUnavailable, MessageKnowledgeDisabled)
	}
	return err
}
