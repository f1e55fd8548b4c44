package types

import (
	"time"

	"github.com/gdbrns/go-whatsapp-pairing-bot/internal/session"
	pkgWhatsApp "github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"
)

// ResponsePairingCode is the /code success body consumed by the landing page.
type ResponsePairingCode struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Number  string `json:"number"`
}

type ResponseHealth struct {
	Status       string `json:"status"`
	BotConnected bool   `json:"botConnected"`
	Timestamp    string `json:"timestamp"`
}

type ResponseQRCode struct {
	QRCode string `json:"qr_code"`
}

type ResponseSession struct {
	session.Status
	CheckedAt time.Time `json:"checked_at"`
}

type ResponseVersionRefresh struct {
	Refreshed bool                               `json:"refreshed"`
	Version   pkgWhatsApp.WAVersionRefreshStatus `json:"version"`
}
