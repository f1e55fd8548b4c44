package session

import "time"

// Status is a point-in-time view of the manager for health and admin
// endpoints.
type Status struct {
	State         string     `json:"state"`
	Connected     bool       `json:"connected"`
	Connecting    bool       `json:"connecting"`
	LoggedIn      bool       `json:"logged_in"`
	JID           string     `json:"jid,omitempty"`
	PendingQR     bool       `json:"pending_qr"`
	LastCloseCode int        `json:"last_close_code,omitempty"`
	SessionSince  *time.Time `json:"session_since,omitempty"`
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	sess := m.session
	status := Status{
		State:         m.state.String(),
		Connected:     sess != nil,
		Connecting:    m.connecting,
		PendingQR:     m.qrCode != "",
		LastCloseCode: m.lastClose,
	}
	m.mu.Unlock()

	if sess != nil {
		created := sess.CreatedAt
		status.SessionSince = &created
		status.LoggedIn = sess.Conn.IsLoggedIn()
		if jid := sess.Conn.OwnJID(); !jid.IsEmpty() {
			status.JID = jid.String()
		}
	}

	return status
}
