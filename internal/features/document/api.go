package document

import (
	"omnisuite/internal/config"
	"omnisuite/internal/features/access"
	"omnisuite/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DocumentApi struct {
	controller    *DocumentController
	accessService access.AccessService
	config        *config.Config
}

func NewDocumentApi(controller *DocumentController, accessService access.AccessService, config *config.Config) *DocumentApi {
	return &DocumentApi{
		controller:    controller,
		accessService: accessService,
		config:        config,
	}
}

func (h *DocumentApi) Setup(app *fiber.App) {
	documents := app.Group("/api/documents",
		middleware.AuthMiddleware(h.config.SkipAuth),
		access.RequireRouteAccess(h.accessService, "/documents"))

	documents.Post("/", h.controller.CreateDocument)
	documents.Get("/", h.controller.ListDocuments)
	documents.Get("/export", h.controller.Export)
	documents.Get("/:id", h.controller.GetDocument)
	documents.Put("/:id", h.controller.UpdateDocument)
	documents.Delete("/:id", h.controller.DeleteDocument)

	documents.Post("/:id/submit", h.controller.Submit)
	documents.Post("/:id/approve", h.controller.Approve)
	documents.Post("/:id/reject", h.controller.Reject)
	documents.Post("/:id/return", h.controller.Return)
	documents.Post("/:id/cancel", h.controller.Cancel)
}
