package access

import (
	"omnisuite/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRouteAccess guards an endpoint with the caller's compiled access
// table, checking the given logical route for the action implied by the
// HTTP method. The table's fail-open/fail-closed default applies to users
// without permission data.
func RequireRouteAccess(accessService AccessService, route string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		table := accessService.TableForUser(c.Context(), claims.UserNo)
		if !table.HasAccess(route, actionForMethod(c.Method())) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: Insufficient permissions for this action",
			})
		}

		return c.Next()
	}
}

func actionForMethod(method string) string {
	switch method {
	case fiber.MethodPost:
		return ActionCreate
	case fiber.MethodPut, fiber.MethodPatch:
		return ActionEdit
	case fiber.MethodDelete:
		return ActionDelete
	default:
		return ActionView
	}
}
