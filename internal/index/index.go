package index

import (
	_ "embed"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/router"
)

//go:embed index.html
var indexTemplate string

// Index
// @Summary     Pairing Web Page
// @Description Landing page with a form that requests a pairing code
// @Tags        Root
// @Produce     html
// @Success     200
// @Router      / [get]
func Index(c *fiber.Ctx) error {
	return router.ResponseSuccessWithHTML(c, strings.ReplaceAll(indexTemplate, "{{BASE_URL}}", router.BaseURL))
}
