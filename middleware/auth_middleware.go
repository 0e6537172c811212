package middleware

import (
	"github.com/gofiber/fiber/v2"

	"menu-analytics/utils"
)

// CheckRole is a middleware that verifies the user has one of the specified roles.
// Role names are compared case-insensitively.
func CheckRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals("userRole").(string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Role not found in token"})
		}

		normalized, valid := utils.ValidateAndNormalizeRole(userRole)
		if valid {
			for _, role := range roles {
				if normalized == role {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Insufficient permissions"})
	}
}

// AdminRequired lets admins through.
var AdminRequired = CheckRole(utils.RoleAdmin)

// AnalystRequired lets admins and managers through.
var AnalystRequired = CheckRole(utils.RoleAdmin, utils.RoleManager)
