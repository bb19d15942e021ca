package sync

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type SyncController struct {
	Service SyncService
}

func NewSyncController(service SyncService) *SyncController {
	return &SyncController{Service: service}
}

func (c *SyncController) CreateSetting(ctx *fiber.Ctx) error {
	var input SyncSetting
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.CreateSetting(ctx.Context(), &input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"item": input})
}

func (c *SyncController) ListSettings(ctx *fiber.Ctx) error {
	settings, err := c.Service.ListSettings(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"items": settings})
}

func (c *SyncController) GetSetting(ctx *fiber.Ctx) error {
	setting, err := c.Service.GetSetting(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if setting == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Sync setting not found"})
	}
	return ctx.JSON(fiber.Map{"item": setting})
}

func (c *SyncController) UpdateSetting(ctx *fiber.Ctx) error {
	var updates map[string]interface{}
	if err := ctx.BodyParser(&updates); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateSetting(ctx.Context(), ctx.Params("id"), updates); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Sync setting updated successfully"})
}

func (c *SyncController) DeleteSetting(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteSetting(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Sync setting deleted successfully"})
}

func (c *SyncController) RunSync(ctx *fiber.Ctx) error {
	log, err := c.Service.RunSync(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "log": log})
	}
	return ctx.JSON(fiber.Map{"log": log})
}

func (c *SyncController) ListLogs(ctx *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)
	logs, err := c.Service.ListLogs(ctx.Context(), ctx.Params("id"), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"items": logs})
}

func (c *SyncController) ListItems(ctx *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(ctx.Query("limit", "50"), 10, 64)
	items, err := c.Service.ListItems(ctx.Context(), ctx.Query("search"), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"items": items})
}
