package utils

import "github.com/gofiber/fiber/v2"

// Respond writes the standard {success, message, data} envelope.
func Respond(c *fiber.Ctx, status int, success bool, message string, data interface{}) error {
	body := fiber.Map{
		"success": success,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// BadRequest is Respond for a 400 without data.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, false, message, nil)
}
