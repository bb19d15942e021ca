package document

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type DocumentController struct {
	Service DocumentService
}

func NewDocumentController(service DocumentService) *DocumentController {
	return &DocumentController{Service: service}
}

func (c *DocumentController) CreateDocument(ctx *fiber.Ctx) error {
	var input Document
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.CreateDocument(ctx.Context(), &input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"item": input})
}

func (c *DocumentController) ListDocuments(ctx *fiber.Ctx) error {
	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)

	filter := map[string]interface{}{
		"doc_type": ctx.Query("doc_type"),
		"status":   ctx.Query("status"),
	}

	docs, err := c.Service.ListDocuments(ctx.Context(), filter, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"items": docs})
}

func (c *DocumentController) GetDocument(ctx *fiber.Ctx) error {
	doc, err := c.Service.GetDocument(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if doc == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}
	return ctx.JSON(fiber.Map{"item": doc})
}

func (c *DocumentController) UpdateDocument(ctx *fiber.Ctx) error {
	var input Document
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateDocument(ctx.Context(), ctx.Params("id"), &input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Document updated successfully"})
}

func (c *DocumentController) DeleteDocument(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteDocument(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Document deleted successfully"})
}

func (c *DocumentController) Submit(ctx *fiber.Ctx) error {
	var req SubmitRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	status, err := c.Service.Submit(ctx.Context(), ctx.Params("id"), req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": status})
}

type actionRequest struct {
	Comment string `json:"comment"`
}

func (c *DocumentController) Approve(ctx *fiber.Ctx) error {
	return c.act(ctx, c.Service.Approve)
}

func (c *DocumentController) Reject(ctx *fiber.Ctx) error {
	return c.act(ctx, c.Service.Reject)
}

func (c *DocumentController) Return(ctx *fiber.Ctx) error {
	return c.act(ctx, c.Service.Return)
}

func (c *DocumentController) act(ctx *fiber.Ctx, fn func(context.Context, string, string) (string, error)) error {
	var req actionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	status, err := fn(ctx.Context(), ctx.Params("id"), req.Comment)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": status})
}

func (c *DocumentController) Cancel(ctx *fiber.Ctx) error {
	status, err := c.Service.Cancel(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": status})
}

func (c *DocumentController) Export(ctx *fiber.Ctx) error {
	filter := map[string]interface{}{
		"doc_type": ctx.Query("doc_type"),
		"status":   ctx.Query("status"),
	}

	data, filename, err := c.Service.ExportToExcel(ctx.Context(), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}
