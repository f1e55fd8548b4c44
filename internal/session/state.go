package session

import "go.mau.fi/whatsmeow/types/events"

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateLoggedOut
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateLoggedOut:
		return "logged_out"
	default:
		return "disconnected"
	}
}

// Close status codes attached to a dropped connection.
const (
	StatusLoggedOut          = 401
	StatusTimedOut           = 408
	StatusConnectionClosed   = 428
	StatusConnectionReplaced = 440
	StatusBadSession         = 500
)

// closeStatus maps engine close events onto a status code. ok is false
// for events that do not end the connection.
func closeStatus(evt any) (code int, ok bool) {
	switch v := evt.(type) {
	case *events.Disconnected:
		return StatusConnectionClosed, true
	case *events.StreamReplaced:
		return StatusConnectionReplaced, true
	case *events.LoggedOut:
		return StatusLoggedOut, true
	case *events.ConnectFailure:
		if v.Reason.IsLoggedOut() {
			return StatusLoggedOut, true
		}
		return int(v.Reason), true
	default:
		return 0, false
	}
}
