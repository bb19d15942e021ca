package workflow

import (
	"omnisuite/internal/config"
	"omnisuite/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowApi struct {
	controller *WorkflowController
	config     *config.Config
}

func NewWorkflowApi(controller *WorkflowController, config *config.Config) *WorkflowApi {
	return &WorkflowApi{
		controller: controller,
		config:     config,
	}
}

func (h *WorkflowApi) Setup(app *fiber.App) {
	workflows := app.Group("/api/workflows", middleware.AuthMiddleware(h.config.SkipAuth))

	workflows.Post("/", h.controller.CreateWorkflow)
	workflows.Get("/", h.controller.ListWorkflows)
	workflows.Post("/resolve", h.controller.ResolveForward)
	workflows.Get("/:id", h.controller.GetWorkflowByID)
	workflows.Put("/:id", h.controller.UpdateWorkflow)
	workflows.Delete("/:id", h.controller.DeleteWorkflow)
}
