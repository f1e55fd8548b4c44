package internal

import (
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"github.com/gdbrns/go-whatsapp-pairing-bot/internal/session"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/auth"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/router"

	ctlAdmin "github.com/gdbrns/go-whatsapp-pairing-bot/internal/admin"
	ctlHealth "github.com/gdbrns/go-whatsapp-pairing-bot/internal/health"
	ctlIndex "github.com/gdbrns/go-whatsapp-pairing-bot/internal/index"
	ctlPairing "github.com/gdbrns/go-whatsapp-pairing-bot/internal/pairing"
	ctlQR "github.com/gdbrns/go-whatsapp-pairing-bot/internal/qr"
)

// LivePaths are never served from the response cache.
var LivePaths = []string{"/code", "/health", "/qr", "/admin"}

func Routes(app *fiber.App, sessions *session.Manager) {
	// Configure OpenAPI / Swagger
	specURL := router.BaseURL + "/docs/swagger.json"
	swaggerHandler := swagger.New(swagger.Config{
		URL: specURL,
	})

	// Route for Index
	// ---------------------------------------------
	if router.BaseURL == "" {
		app.Get("/", ctlIndex.Index)
	} else {
		app.Get(router.BaseURL, ctlIndex.Index)
		app.Get(router.BaseURL+"/", ctlIndex.Index)
	}

	// Route for OpenAPI / Swagger
	// ---------------------------------------------
	app.Get(router.BaseURL+"/docs/swagger.json", func(c *fiber.Ctx) error {
		return c.SendFile("docs/swagger.json")
	})
	app.Get(router.BaseURL+"/docs/*", swaggerHandler)

	// Route for Pairing
	// ---------------------------------------------
	pairingLimiter := router.HttpRateLimit(router.PairingRateInterval, router.PairingRateBurst)
	app.Get(router.BaseURL+"/code", pairingLimiter, ctlPairing.Code(sessions))
	app.Get(router.BaseURL+"/qr", ctlQR.QRCode(sessions))
	app.Get(router.BaseURL+"/health", ctlHealth.Health(sessions))

	// ============================================================
	// ADMIN ROUTES (X-Admin-Secret authentication)
	// ============================================================
	adminMiddleware := auth.AdminAuth()

	app.Get(router.BaseURL+"/admin/session", adminMiddleware, ctlAdmin.GetSession(sessions))
	app.Post(router.BaseURL+"/admin/session/reconnect", adminMiddleware, ctlAdmin.ReconnectSession(sessions))
	app.Delete(router.BaseURL+"/admin/session", adminMiddleware, ctlAdmin.LogoutSession(sessions))
	app.Get(router.BaseURL+"/admin/whatsapp/version", adminMiddleware, ctlAdmin.GetWhatsAppWebVersion)
	app.Post(router.BaseURL+"/admin/whatsapp/version/refresh", adminMiddleware, ctlAdmin.RefreshWhatsAppWebVersion)
}
