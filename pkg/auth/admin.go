package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/env"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/router"
)

const HeaderAdminSecret = "X-Admin-Secret"

// AdminSecretKey guards the /admin/* operator endpoints. An empty key
// disables them.
var AdminSecretKey string

func init() {
	AdminSecretKey, _ = env.GetEnvString("ADMIN_SECRET_KEY")
}

// AdminAuth validates the X-Admin-Secret header in constant time.
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if AdminSecretKey == "" {
			return router.ResponseServiceUnavailable(c, "Admin endpoints disabled: ADMIN_SECRET_KEY not configured")
		}

		secret := c.Get(HeaderAdminSecret)
		if secret == "" {
			return router.ResponseUnauthorized(c, "Missing "+HeaderAdminSecret+" header")
		}

		if subtle.ConstantTimeCompare([]byte(secret), []byte(AdminSecretKey)) != 1 {
			return router.ResponseUnauthorized(c, "Invalid admin secret")
		}

		return c.Next()
	}
}
