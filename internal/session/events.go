package session

import (
	"context"

	"go.mau.fi/whatsmeow/types/events"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"
)

// eventHandler binds engine events to sess. Events from a session that has
// since been replaced only reach the logs.
func (m *Manager) eventHandler(sess *Session) func(any) {
	return func(evt any) {
		if code, ok := closeStatus(evt); ok {
			m.handleClose(sess, code)
			return
		}

		switch v := evt.(type) {
		case *events.QR:
			m.handleQR(sess, v.Codes)
		case *events.PairSuccess:
			log.Session().WithField("jid", whatsapp.MaskJID(v.ID.String())).Info("Appareil jumelé avec succès")
			m.saveCredentials(sess)
		case *events.PairError:
			log.Session().WithError(v.Error).Error("Échec du jumelage")
		case *events.Connected:
			m.handleOpen(sess)
		case *events.KeepAliveTimeout:
			log.Session().WithField("errors", v.ErrorCount).Warn("WhatsApp keepalive timeout")
		case *events.TemporaryBan:
			log.Session().WithField("expire", v.Expire.String()).Error("Compte temporairement banni: " + v.Code.String())
		case *events.ClientOutdated:
			log.Session().Error("WhatsApp Web version rejected as outdated")
		case *events.Message:
			m.dispatchMessage(sess, v)
		}
	}
}

func (m *Manager) handleQR(sess *Session, codes []string) {
	m.mu.Lock()
	if m.session != sess {
		m.mu.Unlock()
		return
	}
	m.connecting = false
	m.state = StateOpen
	if len(codes) > 0 {
		m.qrCode = codes[0]
	}
	m.mu.Unlock()

	log.Session().Info("📱 En attente de jumelage (QR ou code)")
}

func (m *Manager) handleOpen(sess *Session) {
	m.mu.Lock()
	if m.session != sess {
		m.mu.Unlock()
		return
	}
	m.connecting = false
	m.state = StateOpen
	m.qrCode = ""
	m.mu.Unlock()

	log.Session().Info("✅ Bot WhatsApp connecté avec succès!")
	log.Session().Info("📩 En attente de messages...")

	m.saveCredentials(sess)

	ctx, cancel := context.WithTimeout(m.ctx, eventCallTimeout)
	defer cancel()
	if err := sess.Conn.MarkOnline(ctx); err != nil {
		log.Session().WithError(err).Warn("Could not mark bot as online")
	}
}

// handleClose drops sess and, unless the account was logged out, schedules
// a single reconnect after the configured delay.
func (m *Manager) handleClose(sess *Session, code int) {
	m.mu.Lock()
	if m.session != sess {
		m.mu.Unlock()
		return
	}
	m.session = nil
	m.connecting = false
	m.qrCode = ""
	m.lastClose = code

	if code == StatusLoggedOut {
		m.state = StateLoggedOut
		m.stopReconnectLocked()
		m.mu.Unlock()

		log.Session().WithField("status", code).Warn("❌ Connexion fermée: session déconnectée, nouveau jumelage requis")
		go sess.Conn.Disconnect()
		return
	}

	m.state = StateDisconnected
	scheduled := false
	if !m.shutdown {
		m.stopReconnectLocked()
		m.reconnect = m.clock.AfterFunc(m.reconnectDelay, m.runReconnect)
		scheduled = true
	}
	m.mu.Unlock()

	entry := log.Session().WithField("status", code)
	entry.Warn("❌ Connexion fermée")
	if scheduled {
		entry.Info("🔄 Reconnexion dans " + m.reconnectDelay.String() + "...")
	}
	go sess.Conn.Disconnect()
}

func (m *Manager) runReconnect() {
	m.mu.Lock()
	m.reconnect = nil
	m.mu.Unlock()

	if _, err := m.EnsureSession(m.ctx); err != nil {
		log.Session().WithError(err).Error("Reconnexion échouée")
	}
}

func (m *Manager) saveCredentials(sess *Session) {
	ctx, cancel := context.WithTimeout(m.ctx, eventCallTimeout)
	defer cancel()
	if err := m.auth.Save(ctx, sess.Device); err != nil {
		log.Session().WithError(err).Error("Could not persist WhatsApp credentials")
	}
}

func (m *Manager) dispatchMessage(sess *Session, evt *events.Message) {
	if m.onMessage == nil {
		return
	}

	m.mu.Lock()
	current := m.session == sess
	m.mu.Unlock()
	if !current {
		return
	}

	go m.onMessage(m.ctx, sess.Conn, evt)
}
