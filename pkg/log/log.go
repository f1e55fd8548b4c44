package log

import (
	"strings"
	"time"

	"github.com/forPelevin/gomoji"
	"github.com/gofiber/fiber/v2"
	"github.com/rivo/uniseg"
	"github.com/sirupsen/logrus"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/env"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
		ForceColors:     env.GetEnvBoolOrDefault("LOG_FORCE_COLORS", true),
	}

	level, err := logrus.ParseLevel(env.GetEnvStringOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}

// Logger exposes the shared logger for components that need to adjust
// output, e.g. tests silencing it.
func Logger() *logrus.Logger {
	return logger
}

// Print returns an entry carrying request fields when c is an HTTP request
// context, or a bare entry for background work.
func Print(c *fiber.Ctx) *logrus.Entry {
	if c == nil {
		return logrus.NewEntry(logger)
	}

	remoteIP := c.IP()
	if ip, ok := c.Locals("remote_ip").(string); ok && ip != "" {
		remoteIP = ip
	}

	fields := logrus.Fields{
		"remote_ip": remoteIP,
		"method":    c.Method(),
		"uri":       c.OriginalURL(),
	}
	if reqID, ok := c.Locals("request_id").(string); ok && reqID != "" {
		fields["request_id"] = reqID
	}

	return logger.WithFields(fields)
}

// Session returns an entry scoped to the WhatsApp session lifecycle.
func Session() *logrus.Entry {
	return logger.WithField("component", "session")
}

// Command returns an entry scoped to inbound chat commands.
func Command(chat string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"component": "command",
		"chat":      chat,
	})
}

// Preview shortens message text for log lines: emojis are dropped, line
// breaks flattened and the result cut to at most max grapheme clusters.
func Preview(text string, max int) string {
	text = gomoji.RemoveEmojis(text)
	text = strings.Join(strings.Fields(text), " ")
	if max <= 0 || uniseg.GraphemeClusterCount(text) <= max {
		return text
	}

	var b strings.Builder
	gr := uniseg.NewGraphemes(text)
	for n := 0; n < max && gr.Next(); n++ {
		b.WriteString(gr.Str())
	}
	b.WriteString("…")

	return b.String()
}
