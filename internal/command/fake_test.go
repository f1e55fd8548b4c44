package command

import (
	"context"
	"fmt"
	"sync"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types"
)

var (
	botJID    = types.NewJID("33600000000", types.DefaultUserServer)
	botLID    = types.NewJID("98765432109876", types.HiddenUserServer)
	targetJID = types.NewJID(DefaultHandoverTarget, types.DefaultUserServer)
	groupJID  = types.NewJID("120363025246125486", types.GroupServer)
	directJID = types.NewJID("33611111111", types.DefaultUserServer)
)

// recordingClient logs every engine call in order as "<op>:<arg>".
type recordingClient struct {
	mu    sync.Mutex
	calls []string

	info    *types.GroupInfo
	infoErr error
	failOn  map[string]error
}

func (c *recordingClient) record(call string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	return c.failOn[call]
}

func (c *recordingClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *recordingClient) SendText(ctx context.Context, chat types.JID, text string) error {
	return c.record("send:" + text)
}

func (c *recordingClient) GroupInfo(ctx context.Context, group types.JID) (*types.GroupInfo, error) {
	if err := c.record("info:" + group.User); err != nil {
		return nil, err
	}
	return c.info, c.infoErr
}

func (c *recordingClient) UpdateParticipants(ctx context.Context, group types.JID, participants []types.JID, action whatsmeow.ParticipantChange) error {
	return c.record(fmt.Sprintf("%s:%s", action, participants[0].User))
}

func (c *recordingClient) LeaveGroup(ctx context.Context, group types.JID) error {
	return c.record("leave:" + group.User)
}

func (c *recordingClient) OwnJID() types.JID { return botJID }

func (c *recordingClient) OwnLID() types.JID { return botLID }

func groupWith(participants ...types.GroupParticipant) *types.GroupInfo {
	info := &types.GroupInfo{JID: groupJID, Participants: participants}
	info.Name = "Famille"
	return info
}
