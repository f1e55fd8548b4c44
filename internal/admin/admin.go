package admin

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-pairing-bot/internal/session"
	typBot "github.com/gdbrns/go-whatsapp-pairing-bot/internal/types"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/router"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"
)

const (
	reconnectTimeout = 30 * time.Second
	logoutTimeout    = 30 * time.Second
	versionTimeout   = 20 * time.Second
)

// Sessions is the operator view of the session manager.
type Sessions interface {
	Status() session.Status
	Reconnect(ctx context.Context) (*session.Session, error)
	Logout(ctx context.Context) error
}

func sessionResponse(s Sessions) typBot.ResponseSession {
	return typBot.ResponseSession{Status: s.Status(), CheckedAt: time.Now().UTC()}
}

// @Summary     Get Session Status
// @Description Connection state of the bot session (Admin only)
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-Secret header string true "Admin secret key"
// @Success     200 {object} router.Response{data=typBot.ResponseSession}
// @Failure     401 {object} router.Response
// @Router      /admin/session [get]
func GetSession(s Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return router.ResponseSuccessWithData(c, "", sessionResponse(s))
	}
}

// @Summary     Reconnect Session
// @Description Drop the current WhatsApp connection and open a new one with the stored credentials (Admin only)
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-Secret header string true "Admin secret key"
// @Success     200 {object} router.Response{data=typBot.ResponseSession}
// @Failure     401 {object} router.Response
// @Failure     500 {object} router.Response
// @Router      /admin/session/reconnect [post]
func ReconnectSession(s Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), reconnectTimeout)
		defer cancel()

		if _, err := s.Reconnect(ctx); err != nil {
			return router.ResponseInternalErrorWithDetails(c, "Reconnexion échouée", err.Error())
		}

		return router.ResponseSuccessWithData(c, "Session reconnectée", sessionResponse(s))
	}
}

// @Summary     Logout Session
// @Description Unlink the bot from its WhatsApp account; a new pairing code is needed afterwards (Admin only)
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-Secret header string true "Admin secret key"
// @Success     200 {object} router.Response
// @Failure     401 {object} router.Response
// @Failure     500 {object} router.Response
// @Router      /admin/session [delete]
func LogoutSession(s Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), logoutTimeout)
		defer cancel()

		if err := s.Logout(ctx); err != nil {
			return router.ResponseInternalErrorWithDetails(c, "Déconnexion échouée", err.Error())
		}

		return router.ResponseSuccess(c, "Session déconnectée")
	}
}

// @Summary     Get WhatsApp Web Version
// @Description Protocol version currently announced to WhatsApp and the last refresh result (Admin only)
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-Secret header string true "Admin secret key"
// @Success     200 {object} router.Response{data=pkgWhatsApp.WAVersionRefreshStatus}
// @Failure     401 {object} router.Response
// @Router      /admin/whatsapp/version [get]
func GetWhatsAppWebVersion(c *fiber.Ctx) error {
	return router.ResponseSuccessWithData(c, "", pkgWhatsApp.GetWAVersionRefreshStatus())
}

// @Summary     Refresh WhatsApp Web Version
// @Description Fetch the latest WhatsApp Web version; without force the call is throttled by WHATSAPP_WAVERSION_REFRESH_MIN_INTERVAL (Admin only)
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-Secret header string true "Admin secret key"
// @Param       force query bool false "Bypass the minimum refresh interval"
// @Success     200 {object} router.Response{data=typBot.ResponseVersionRefresh}
// @Failure     401 {object} router.Response
// @Failure     500 {object} router.Response
// @Router      /admin/whatsapp/version/refresh [post]
func RefreshWhatsAppWebVersion(c *fiber.Ctx) error {
	var req typBot.RequestVersionRefresh
	if err := c.QueryParser(&req); err != nil {
		return router.ResponseBadRequest(c, "force must be a boolean")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), versionTimeout)
	defer cancel()

	status, refreshed, err := pkgWhatsApp.RefreshWAVersion(ctx, req.Force)
	if err != nil {
		return router.ResponseInternalErrorWithDetails(c, "Failed to refresh WhatsApp Web version", err.Error())
	}

	return router.ResponseSuccessWithData(c, "", typBot.ResponseVersionRefresh{
		Refreshed: refreshed,
		Version:   status,
	})
}
