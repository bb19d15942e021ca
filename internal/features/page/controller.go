package page

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PageController struct {
	Service PageService
}

func NewPageController(service PageService) *PageController {
	return &PageController{Service: service}
}

func (c *PageController) CreatePage(ctx *fiber.Ctx) error {
	var input Page
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.CreatePage(ctx.Context(), &input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(input)
}

func (c *PageController) GetPage(ctx *fiber.Ctx) error {
	page, err := c.Service.GetPage(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if page == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Page not found"})
	}
	return ctx.JSON(page)
}

func (c *PageController) ListPages(ctx *fiber.Ctx) error {
	pages, err := c.Service.ListPages(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"items": pages})
}

func (c *PageController) UpdatePage(ctx *fiber.Ctx) error {
	var input Page
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdatePage(ctx.Context(), ctx.Params("id"), &input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Page updated successfully"})
}

func (c *PageController) DeletePage(ctx *fiber.Ctx) error {
	if err := c.Service.DeletePage(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Page deleted successfully"})
}

func (c *PageController) UpsertGrant(ctx *fiber.Ctx) error {
	pageID, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid page ID"})
	}

	var input PermissionGrant
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	input.PageID = pageID

	if err := c.Service.UpsertGrant(ctx.Context(), &input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Grant saved successfully"})
}

func (c *PageController) ListGrantsForUser(ctx *fiber.Ctx) error {
	userNo, err := strconv.ParseInt(ctx.Params("userNo"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user number"})
	}

	grants, err := c.Service.ListGrantsForUser(ctx.Context(), userNo)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"items": grants})
}
