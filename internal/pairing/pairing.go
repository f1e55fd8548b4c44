package pairing

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	typBot "github.com/gdbrns/go-whatsapp-pairing-bot/internal/types"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/router"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/validation"
)

const pairPhoneRequestTimeout = 90 * time.Second

// Pairer issues phone pairing codes for the bot account.
type Pairer interface {
	RequestPairingCode(ctx context.Context, number string) (string, error)
}

// Code
// @Summary     Generate Pairing Code
// @Description Link the bot to a WhatsApp account: returns the 8-character code to enter under Linked devices > Link with phone number
// @Tags        Pairing
// @Produce     json
// @Param       number query string true "Phone number in international format, 10-15 digits"
// @Success     200 {object} typBot.ResponsePairingCode
// @Failure     400 {object} router.Response
// @Failure     429 {object} router.Response
// @Failure     500 {object} router.Response
// @Router      /code [get]
func Code(p Pairer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req typBot.RequestPairingCode
		if err := c.QueryParser(&req); err != nil {
			return router.ResponseBadRequest(c, validation.ErrPhoneRequired.Error())
		}

		number, err := validation.ValidatePairingPhone(req.Number)
		if err != nil {
			return router.ResponseBadRequest(c, err.Error())
		}

		log.Print(c).Info("📱 Demande de code pour: " + number)

		ctx, cancel := context.WithTimeout(c.UserContext(), pairPhoneRequestTimeout)
		defer cancel()

		code, err := p.RequestPairingCode(ctx, number)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = errors.New("pairing request timed out")
			}
			return router.ResponseInternalErrorWithDetails(c, "Erreur lors de la génération du code", err.Error())
		}

		return router.ResponseJSON(c, fiber.StatusOK, typBot.ResponsePairingCode{
			Success: true,
			Code:    code,
			Number:  number,
		})
	}
}
