package workflow

import (
	"github.com/gofiber/fiber/v2"
)

type WorkflowController struct {
	Service WorkflowService
}

func NewWorkflowController(service WorkflowService) *WorkflowController {
	return &WorkflowController{Service: service}
}

func (c *WorkflowController) CreateWorkflow(ctx *fiber.Ctx) error {
	var input Workflow
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := c.Service.CreateWorkflow(ctx.Context(), input)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"item": created})
}

func (c *WorkflowController) ListWorkflows(ctx *fiber.Ctx) error {
	workflows, err := c.Service.ListWorkflows(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"items": workflows})
}

func (c *WorkflowController) GetWorkflowByID(ctx *fiber.Ctx) error {
	workflow, err := c.Service.GetWorkflowByID(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if workflow == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Workflow not found"})
	}
	return ctx.JSON(fiber.Map{"item": workflow})
}

func (c *WorkflowController) UpdateWorkflow(ctx *fiber.Ctx) error {
	var input Workflow
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.UpdateWorkflow(ctx.Context(), ctx.Params("id"), input); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Workflow updated successfully"})
}

func (c *WorkflowController) DeleteWorkflow(ctx *fiber.Ctx) error {
	if err := c.Service.DeleteWorkflow(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"message": "Workflow deleted successfully"})
}

// ResolveForward answers "which workflow and first step would a forward of
// this document use" so list screens can enable the action and preselect
// the target approver.
func (c *WorkflowController) ResolveForward(ctx *fiber.Ctx) error {
	var input struct {
		Route        string                 `json:"route"`
		DocumentType string                 `json:"document_type"`
		Fields       map[string]interface{} `json:"fields"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	candidate, err := c.Service.Resolve(ctx.Context(), input.Route, input.DocumentType, input.Fields)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(candidate)
}
