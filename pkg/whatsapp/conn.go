package whatsapp

import (
	"context"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types"
)

// Conn is the slice of the protocol client the bot depends on. *Client
// implements it on top of whatsmeow; tests substitute fakes.
type Conn interface {
	Connect() error
	Disconnect()
	Logout(ctx context.Context) error
	IsLoggedIn() bool

	PairPhone(ctx context.Context, phone string) (string, error)
	MarkOnline(ctx context.Context) error

	SendText(ctx context.Context, chat types.JID, text string) error
	GroupInfo(ctx context.Context, group types.JID) (*types.GroupInfo, error)
	UpdateParticipants(ctx context.Context, group types.JID, participants []types.JID, action whatsmeow.ParticipantChange) error
	LeaveGroup(ctx context.Context, group types.JID) error

	OwnJID() types.JID
	OwnLID() types.JID
}
