package whatsapp

import (
	"context"

	"google.golang.org/protobuf/proto"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waCompanionReg"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
)

const (
	BrowserOS      = "Mac OS"
	BrowserName    = "Chrome"
	browserDisplay = BrowserName + " (" + BrowserOS + ")"
)

// Client adapts *whatsmeow.Client to Conn.
type Client struct {
	cli *whatsmeow.Client
}

func init() {
	store.DeviceProps.Os = proto.String(BrowserOS)
	store.DeviceProps.PlatformType = waCompanionReg.DeviceProps_CHROME.Enum()
	store.DeviceProps.RequireFullSync = proto.Bool(false)
}

// NewClient builds a companion client for device with engine logging
// silenced. Reconnection is left to the caller: whatsmeow's auto-reconnect
// is disabled so a dropped socket always surfaces as an event.
func NewClient(device *store.Device, handler func(any), proxyURL string) *Client {
	cli := whatsmeow.NewClient(device, waLog.Noop)
	cli.EnableAutoReconnect = false
	cli.AutoTrustIdentity = true

	// Nothing is kept for retries; peers asking for a resend get an empty body.
	cli.GetMessageForRetry = func(requester, to types.JID, id types.MessageID) *waE2E.Message {
		return &waE2E.Message{Conversation: proto.String("")}
	}

	if proxyURL != "" {
		if err := cli.SetProxyAddress(proxyURL); err != nil {
			log.Session().WithError(err).Warn("Ignoring invalid WHATSAPP_CLIENT_PROXY_URL")
		}
	}

	if handler != nil {
		cli.AddEventHandler(handler)
	}

	return &Client{cli: cli}
}

func (c *Client) Connect() error {
	return c.cli.Connect()
}

func (c *Client) Disconnect() {
	c.cli.Disconnect()
}

func (c *Client) Logout(ctx context.Context) error {
	return c.cli.Logout(ctx)
}

func (c *Client) IsLoggedIn() bool {
	return c.cli.IsLoggedIn()
}

func (c *Client) PairPhone(ctx context.Context, phone string) (string, error) {
	return c.cli.PairPhone(ctx, phone, true, whatsmeow.PairClientChrome, browserDisplay)
}

func (c *Client) MarkOnline(ctx context.Context) error {
	return c.cli.SendPresence(ctx, types.PresenceAvailable)
}

func (c *Client) SendText(ctx context.Context, chat types.JID, text string) error {
	msg := &waE2E.Message{Conversation: proto.String(text)}
	_, err := c.cli.SendMessage(ctx, chat, msg, whatsmeow.SendRequestExtra{ID: c.cli.GenerateMessageID()})
	return err
}

func (c *Client) GroupInfo(ctx context.Context, group types.JID) (*types.GroupInfo, error) {
	if group.Server != types.GroupServer {
		return nil, ErrInvalidGroupID
	}
	return c.cli.GetGroupInfo(ctx, group)
}

// UpdateParticipants applies action. Only transport errors are returned;
// per-participant refusals (a privacy-blocked add answers 403) are logged
// and the caller carries on.
func (c *Client) UpdateParticipants(ctx context.Context, group types.JID, participants []types.JID, action whatsmeow.ParticipantChange) error {
	result, err := c.cli.UpdateGroupParticipants(ctx, group, participants, action)
	if err != nil {
		return err
	}

	logger := log.Command(MaskJID(group.String())).WithField("action", string(action))
	if len(result) == 0 {
		logger.Warn("Participant update returned no result")
	}
	for _, p := range failedParticipants(result) {
		logger.WithField("participant", MaskJID(p.JID.String())).
			WithField("status", p.Error).
			Warn("Participant update refused")
	}
	return nil
}

func failedParticipants(result []types.GroupParticipant) []types.GroupParticipant {
	var failed []types.GroupParticipant
	for _, p := range result {
		if p.Error != 0 {
			failed = append(failed, p)
		}
	}
	return failed
}

func (c *Client) LeaveGroup(ctx context.Context, group types.JID) error {
	return c.cli.LeaveGroup(ctx, group)
}

func (c *Client) OwnJID() types.JID {
	if c.cli.Store.ID == nil {
		return types.EmptyJID
	}
	return c.cli.Store.ID.ToNonAD()
}

func (c *Client) OwnLID() types.JID {
	return c.cli.Store.LID.ToNonAD()
}
