package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// WithTrustedProxies makes c.IP() read ProxyHeader, but only for requests
// whose socket peer is listed in TrustedProxies. With no trusted proxy the
// header is ignored and c.IP() is the socket peer.
func WithTrustedProxies(cfg fiber.Config) fiber.Config {
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = TrustedProxies
	cfg.EnableIPValidation = true
	if len(TrustedProxies) > 0 {
		cfg.ProxyHeader = ProxyHeader
	}
	return cfg
}

// HttpRealIP stores the proxy-aware client address as the "remote_ip"
// local for request logging.
func HttpRealIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("remote_ip", c.IP())
		return c.Next()
	}
}

// RemoteIP returns the address resolved by HttpRealIP, falling back to
// c.IP() when the middleware did not run.
func RemoteIP(c *fiber.Ctx) string {
	if ip, ok := c.Locals("remote_ip").(string); ok && ip != "" {
		return ip
	}
	return c.IP()
}

// HttpRequestID propagates an inbound X-Request-ID or assigns a new one.
func HttpRequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := strings.TrimSpace(c.Get(HeaderRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals("request_id", reqID)
		c.Set(HeaderRequestID, reqID)
		return c.Next()
	}
}
