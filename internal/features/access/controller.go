package access

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AccessController struct {
	Service AccessService
}

func NewAccessController(service AccessService) *AccessController {
	return &AccessController{Service: service}
}

// PermissionsContext returns the pages and grants the client compiles its
// access table from on login.
func (c *AccessController) PermissionsContext(ctx *fiber.Ctx) error {
	userNo, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || userNo <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user number"})
	}

	pctx, err := c.Service.PermissionsContext(ctx.Context(), userNo)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(pctx)
}

// Table returns the server-compiled access table, mostly for admin debugging
func (c *AccessController) Table(ctx *fiber.Ctx) error {
	userNo, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || userNo <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user number"})
	}

	table := c.Service.TableForUser(ctx.Context(), userNo)
	return ctx.JSON(table)
}
