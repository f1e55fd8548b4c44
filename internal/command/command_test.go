package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

func instantDispatcher() *Dispatcher {
	return NewDispatcher(Config{HandoverTarget: DefaultHandoverTarget}, clockwork.NewFakeClock())
}

func message(chat types.JID, text string) Message {
	return Message{Chat: chat, IsGroup: chat.Server == types.GroupServer, Text: text}
}

func TestFixedReplies(t *testing.T) {
	cases := map[string]string{
		"!ping":    ReplyPing,
		"!bonjour": ReplyBonjour,
		"!help":    ReplyHelp,
		"!info":    ReplyInfo,
	}

	for text, want := range cases {
		for _, chat := range []types.JID{groupJID, directJID} {
			client := &recordingClient{}
			instantDispatcher().Handle(context.Background(), client, message(chat, text))
			assert.Equal(t, []string{"send:" + want}, client.Calls(), "%s in %s", text, chat)
		}
	}
}

func TestCommandsAreCaseInsensitiveAndTrimmed(t *testing.T) {
	client := &recordingClient{}
	instantDispatcher().Handle(context.Background(), client, message(directJID, "  !PiNg \n"))
	assert.Equal(t, []string{"send:" + ReplyPing}, client.Calls())
}

func TestUnknownTextIsIgnored(t *testing.T) {
	for _, text := range []string{"", "ping", "!pingpong", "hello !ping"} {
		client := &recordingClient{}
		instantDispatcher().Handle(context.Background(), client, message(groupJID, text))
		assert.Empty(t, client.Calls(), text)
	}
}

func TestQuitInDirectChatIsSilent(t *testing.T) {
	client := &recordingClient{}
	instantDispatcher().Handle(context.Background(), client, message(directJID, "!quit"))
	assert.Empty(t, client.Calls())
}

func TestQuitAsMemberLeavesWithoutChanges(t *testing.T) {
	client := &recordingClient{info: groupWith(
		types.GroupParticipant{JID: botJID},
		types.GroupParticipant{JID: directJID, IsAdmin: true},
	)}

	instantDispatcher().Handle(context.Background(), client, message(groupJID, "!quit"))

	assert.Equal(t, []string{
		"info:" + groupJID.User,
		"send:" + NoticeNotAdmin,
		"leave:" + groupJID.User,
	}, client.Calls())
}

func TestQuitAsAdminAddsPromotesAndLeaves(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := NewDispatcher(Config{
		HandoverTarget: DefaultHandoverTarget,
		SettleDelay:    2 * time.Second,
		LeaveDelay:     2 * time.Second,
	}, clock)

	client := &recordingClient{info: groupWith(
		types.GroupParticipant{JID: botJID, IsAdmin: true},
		types.GroupParticipant{JID: directJID},
	)}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Handle(ctx, client, message(groupJID, "!quit"))
	}()

	// Waiting for the settle delay: the add has happened, the promote not yet.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, []string{
		"info:" + groupJID.User,
		"send:" + NoticeAdding,
		"add:" + DefaultHandoverTarget,
	}, client.Calls())
	clock.Advance(2 * time.Second)

	// Waiting for the leave delay after the farewell.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.NotContains(t, client.Calls(), "leave:"+groupJID.User)
	clock.Advance(2 * time.Second)

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("handover did not finish")
	}

	assert.Equal(t, []string{
		"info:" + groupJID.User,
		"send:" + NoticeAdding,
		"add:" + DefaultHandoverTarget,
		"send:" + NoticePromoting,
		"promote:" + DefaultHandoverTarget,
		"send:" + NoticeFarewell,
		"leave:" + groupJID.User,
	}, client.Calls())
}

func TestQuitAsSuperAdminWithTargetPresentSkipsAdd(t *testing.T) {
	client := &recordingClient{info: groupWith(
		// Bot listed by LID with its phone number attached.
		types.GroupParticipant{JID: botLID, PhoneNumber: botJID, IsAdmin: true, IsSuperAdmin: true},
		types.GroupParticipant{JID: targetJID},
	)}

	instantDispatcher().Handle(context.Background(), client, message(groupJID, "!quit"))

	assert.Equal(t, []string{
		"info:" + groupJID.User,
		"send:" + NoticePromoting,
		"promote:" + DefaultHandoverTarget,
		"send:" + NoticeFarewell,
		"leave:" + groupJID.User,
	}, client.Calls())
}

func TestQuitTargetMatchedByPhoneNumber(t *testing.T) {
	client := &recordingClient{info: groupWith(
		types.GroupParticipant{JID: botJID, IsAdmin: true},
		types.GroupParticipant{JID: types.NewJID("11122233344455", types.HiddenUserServer), PhoneNumber: targetJID},
	)}

	instantDispatcher().Handle(context.Background(), client, message(groupJID, "!quit"))
	assert.NotContains(t, client.Calls(), "add:"+DefaultHandoverTarget)
	assert.Contains(t, client.Calls(), "promote:"+DefaultHandoverTarget)
}

func TestQuitErrorIsReportedAndAbortsRemainingSteps(t *testing.T) {
	client := &recordingClient{
		info: groupWith(types.GroupParticipant{JID: botJID, IsAdmin: true}),
		failOn: map[string]error{
			"add:" + DefaultHandoverTarget: errors.New("not-authorized"),
		},
	}

	instantDispatcher().Handle(context.Background(), client, message(groupJID, "!quit"))

	assert.Equal(t, []string{
		"info:" + groupJID.User,
		"send:" + NoticeAdding,
		"add:" + DefaultHandoverTarget,
		"send:" + ErrorPrefix + "not-authorized",
	}, client.Calls())
}

func TestQuitGroupInfoFailure(t *testing.T) {
	client := &recordingClient{infoErr: errors.New("item-not-found")}

	instantDispatcher().Handle(context.Background(), client, message(groupJID, "!quit"))

	assert.Equal(t, []string{
		"info:" + groupJID.User,
		"send:" + ErrorPrefix + "item-not-found",
	}, client.Calls())
}

func TestQuitUsesConfiguredTarget(t *testing.T) {
	client := &recordingClient{info: groupWith(types.GroupParticipant{JID: botJID, IsAdmin: true})}
	d := NewDispatcher(Config{HandoverTarget: "33699999999"}, clockwork.NewFakeClock())

	d.Handle(context.Background(), client, message(groupJID, "!quit"))
	assert.Contains(t, client.Calls(), "add:33699999999")
	assert.Contains(t, client.Calls(), "promote:33699999999")
}

func TestParse(t *testing.T) {
	info := types.MessageInfo{
		MessageSource: types.MessageSource{Chat: groupJID, Sender: directJID, IsGroup: true},
		ID:            "3EB0ABC",
		PushName:      "Alice",
	}

	msg, ok := Parse(&events.Message{Info: info, Message: &waE2E.Message{Conversation: proto.String("!ping")}})
	require.True(t, ok)
	assert.Equal(t, "!ping", msg.Text)
	assert.True(t, msg.IsGroup)
	assert.Equal(t, directJID, msg.Sender)

	msg, ok = Parse(&events.Message{Info: info, Message: &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{Text: proto.String("!help")},
	}})
	require.True(t, ok)
	assert.Equal(t, "!help", msg.Text)

	msg, ok = Parse(&events.Message{Info: info, Message: &waE2E.Message{
		ImageMessage: &waE2E.ImageMessage{},
	}})
	require.True(t, ok)
	assert.Empty(t, msg.Text)

	_, ok = Parse(&events.Message{Info: info})
	assert.False(t, ok)
	_, ok = Parse(nil)
	assert.False(t, ok)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("HANDOVER_TARGET_NUMBER", "+33 6 99 99 99 99")
	t.Setenv("HANDOVER_SETTLE_DELAY", "3")
	t.Setenv("HANDOVER_LEAVE_DELAY", "")

	cfg := ConfigFromEnv()
	assert.Equal(t, "33699999999", cfg.HandoverTarget)
	assert.Equal(t, 3*time.Second, cfg.SettleDelay)
	assert.Equal(t, DefaultLeaveDelay, cfg.LeaveDelay)
}
