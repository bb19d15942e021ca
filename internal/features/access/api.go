package access

import (
	"omnisuite/internal/config"
	"omnisuite/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AccessApi struct {
	controller *AccessController
	config     *config.Config
}

func NewAccessApi(controller *AccessController, config *config.Config) *AccessApi {
	return &AccessApi{
		controller: controller,
		config:     config,
	}
}

func (h *AccessApi) Setup(app *fiber.App) {
	users := app.Group("/api/admin/users", middleware.AuthMiddleware(h.config.SkipAuth))

	users.Get("/:id/permissions-context", h.controller.PermissionsContext)
	users.Get("/:id/access-table", h.controller.Table)
}
