package sync

import (
	"omnisuite/internal/config"
	"omnisuite/internal/features/access"
	"omnisuite/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	controller    *SyncController
	accessService access.AccessService
	config        *config.Config
}

func NewSyncApi(controller *SyncController, accessService access.AccessService, config *config.Config) *SyncApi {
	return &SyncApi{
		controller:    controller,
		accessService: accessService,
		config:        config,
	}
}

func (h *SyncApi) Setup(app *fiber.App) {
	group := app.Group("/api/sync",
		middleware.AuthMiddleware(h.config.SkipAuth),
		access.RequireRouteAccess(h.accessService, "/admin/sync"))

	group.Post("/settings", h.controller.CreateSetting)
	group.Get("/settings", h.controller.ListSettings)
	group.Get("/settings/:id", h.controller.GetSetting)
	group.Put("/settings/:id", h.controller.UpdateSetting)
	group.Delete("/settings/:id", h.controller.DeleteSetting)

	group.Post("/settings/:id/run", h.controller.RunSync)
	group.Get("/settings/:id/logs", h.controller.ListLogs)

	items := app.Group("/api/items", middleware.AuthMiddleware(h.config.SkipAuth))
	items.Get("/", h.controller.ListItems)
}
