package internal

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gdbrns/go-whatsapp-pairing-bot/internal/session"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/env"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"
)

const (
	healthCheckSpec           = "0 */5 * * * *"
	defaultVersionRefreshSpec = "0 0 3 * * *"
	versionRefreshTimeout     = 30 * time.Second
)

// StatusReporter is what the periodic health log reads.
type StatusReporter interface {
	Status() session.Status
}

// Routines registers the periodic jobs on c and starts it.
func Routines(c *cron.Cron, sessions StatusReporter) {
	log.Print(nil).Info("Running Routine Tasks")

	registerRoutines(c, sessions)

	c.Start()
}

func registerRoutines(c *cron.Cron, sessions StatusReporter) {
	if env.GetEnvBoolOrDefault("WHATSAPP_ENABLE_HEALTH_CHECK_CRON", true) {
		if _, err := c.AddFunc(healthCheckSpec, func() { logSessionHealth(sessions) }); err != nil {
			log.Print(nil).WithError(err).Error("Failed to add health check cron job")
		}
	} else {
		log.Print(nil).Info("Health check cron disabled; relying on WhatsApp event handlers")
	}

	if env.GetEnvBoolOrDefault("WHATSAPP_ENABLE_WAVERSION_REFRESH_CRON", false) {
		spec := env.GetEnvStringOrDefault("WHATSAPP_WAVERSION_REFRESH_CRON_SPEC", defaultVersionRefreshSpec)
		force := env.GetEnvBoolOrDefault("WHATSAPP_WAVERSION_REFRESH_CRON_FORCE", false)

		_, err := c.AddFunc(spec, func() { refreshVersion(force) })
		if err != nil {
			log.Print(nil).WithError(err).WithField("spec", spec).Error("Failed to add WA Web version refresh cron job")
		} else {
			log.Print(nil).WithField("spec", spec).WithField("force", force).Info("WA Web version refresh cron enabled")
		}
	}
}

// logSessionHealth only reports. A session that failed to initialise is
// not retried from here; the next pairing request creates one.
func logSessionHealth(sessions StatusReporter) {
	status := sessions.Status()
	entry := log.Session().
		WithField("state", status.State).
		WithField("logged_in", status.LoggedIn)

	if status.JID != "" {
		entry = entry.WithField("jid", pkgWhatsApp.MaskJID(status.JID))
	}

	if status.Connected && status.LoggedIn {
		entry.Info("Client healthy")
		return
	}
	entry.Warn("Client unhealthy")
}

func refreshVersion(force bool) {
	ctx, cancel := context.WithTimeout(context.Background(), versionRefreshTimeout)
	defer cancel()

	status, refreshed, err := pkgWhatsApp.RefreshWAVersion(ctx, force)
	entry := log.Print(nil).WithField("version", status.CurrentVersion).WithField("force", force)
	if err != nil {
		entry.WithError(err).Error("WA Web version refresh failed")
		return
	}
	entry.WithField("refreshed", refreshed).Info("WA Web version refresh completed")
}
