package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"menu-analytics/utils"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandleHealth answers 200 when the store is reachable, 503 otherwise. A nil
// pinger means the service runs without a database.
func HandleHealth(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				return utils.Respond(c, fiber.StatusServiceUnavailable, false, "Database unreachable", nil)
			}
		}
		return utils.Respond(c, fiber.StatusOK, true, "ok", fiber.Map{"time": time.Now().UTC()})
	}
}
