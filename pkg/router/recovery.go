package router

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// RecoveryMiddleware turns a handler panic into a 500 envelope. It must be
// registered before application routes.
func RecoveryMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = respondError(c, http.StatusInternalServerError, "panic recovered", fmt.Sprintf("%v", rec))
			}
		}()
		return c.Next()
	}
}
