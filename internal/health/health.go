package health

import (
	"time"

	"github.com/gofiber/fiber/v2"

	typBot "github.com/gdbrns/go-whatsapp-pairing-bot/internal/types"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/router"
)

type Reporter interface {
	Connected() bool
}

// Health
// @Summary     Liveness Probe
// @Description Always 200 while the process serves HTTP; botConnected tells whether a WhatsApp session handle exists
// @Tags        Root
// @Produce     json
// @Success     200 {object} typBot.ResponseHealth
// @Router      /health [get]
func Health(r Reporter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return router.ResponseJSON(c, fiber.StatusOK, typBot.ResponseHealth{
			Status:       "ok",
			BotConnected: r.Connected(),
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
		})
	}
}
