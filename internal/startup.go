package internal

import (
	"context"
	"time"

	"github.com/gdbrns/go-whatsapp-pairing-bot/internal/session"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
)

const startupConnectTimeout = 60 * time.Second

// SessionStarter opens the WhatsApp session.
type SessionStarter interface {
	EnsureSession(ctx context.Context) (*session.Session, error)
}

// Startup opens the session with stored credentials, or the unpaired
// socket on first run. Failures are logged only: the next /code request
// initialises the session again.
func Startup(sessions SessionStarter) {
	log.Print(nil).Info("Running Startup Tasks")

	ctx, cancel := context.WithTimeout(context.Background(), startupConnectTimeout)
	defer cancel()

	if _, err := sessions.EnsureSession(ctx); err != nil {
		log.Print(nil).WithError(err).Error("❌ Erreur d'initialisation")
		return
	}

	log.Print(nil).Info("📡 Prêt à générer des codes de jumelage!")
}
