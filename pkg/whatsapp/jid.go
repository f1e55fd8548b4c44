package whatsapp

import (
	"errors"
	"strings"

	"go.mau.fi/whatsmeow/types"
)

var ErrInvalidGroupID = errors.New("WhatsApp Group ID is Not Group Server")

// DecomposeJID returns the user part of id without a leading '+'.
func DecomposeJID(id string) string {
	if user, _, found := strings.Cut(id, "@"); found {
		id = user
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(id), "+"))
}

// UserJID addresses a phone number on the default user server.
func UserJID(number string) types.JID {
	return types.NewJID(DecomposeJID(number), types.DefaultUserServer)
}

func IsGroupJID(jid types.JID) bool {
	return jid.Server == types.GroupServer
}

// SameUser compares two JIDs ignoring agent and device parts.
func SameUser(a, b types.JID) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	a, b = a.ToNonAD(), b.ToNonAD()
	return a.User == b.User && a.Server == b.Server
}

// MaskJID hides the last digits of a JID for log output.
func MaskJID(jid string) string {
	user, server, found := strings.Cut(jid, "@")
	if len(user) < 4 {
		return jid
	}
	masked := user[:len(user)-4] + "xxxx"
	if found {
		masked += "@" + server
	}
	return masked
}
