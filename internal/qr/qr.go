package qr

import (
	"github.com/gofiber/fiber/v2"

	typBot "github.com/gdbrns/go-whatsapp-pairing-bot/internal/types"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/router"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"
)

type Source interface {
	QRCode() string
}

// QRCode
// @Summary     Current Pairing QR Code
// @Description Returns the QR code WhatsApp offered for linking, as a PNG data URI. Only available while the bot is unpaired.
// @Tags        Pairing
// @Produce     json
// @Success     200 {object} router.Response{data=typBot.ResponseQRCode}
// @Failure     404 {object} router.Response
// @Router      /qr [get]
func QRCode(s Source) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := s.QRCode()
		if code == "" {
			return router.ResponseNotFound(c, "Aucun QR code en attente")
		}

		image, err := pkgWhatsApp.EncodeQRDataURI(code)
		if err != nil {
			return router.ResponseInternalError(c, err.Error())
		}

		return router.ResponseSuccessWithData(c, "QR code en attente de scan", typBot.ResponseQRCode{QRCode: image})
	}
}
