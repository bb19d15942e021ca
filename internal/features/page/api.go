package page

import (
	"omnisuite/internal/config"
	"omnisuite/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PageApi struct {
	controller *PageController
	config     *config.Config
}

func NewPageApi(controller *PageController, config *config.Config) *PageApi {
	return &PageApi{
		controller: controller,
		config:     config,
	}
}

func (h *PageApi) Setup(app *fiber.App) {
	pages := app.Group("/api/admin/pages", middleware.AuthMiddleware(h.config.SkipAuth))

	pages.Post("/", h.controller.CreatePage)
	pages.Get("/", h.controller.ListPages)
	pages.Get("/:id", h.controller.GetPage)
	pages.Put("/:id", h.controller.UpdatePage)
	pages.Delete("/:id", h.controller.DeletePage)
	pages.Put("/:id/grants", h.controller.UpsertGrant)

	grants := app.Group("/api/admin/grants", middleware.AuthMiddleware(h.config.SkipAuth))
	grants.Get("/user/:userNo", h.controller.ListGrantsForUser)
}
