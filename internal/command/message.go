package command

import (
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"
)

// Message is the part of an inbound event the dispatcher looks at.
type Message struct {
	ID       string
	Chat     types.JID
	Sender   types.JID
	PushName string
	IsGroup  bool
	FromMe   bool
	Text     string
}

// Parse extracts the text body of evt: the plain conversation field first,
// then the extended text. Events without message content are rejected;
// content without text yields an empty Text.
func Parse(evt *events.Message) (Message, bool) {
	if evt == nil || evt.Message == nil {
		return Message{}, false
	}

	text := evt.Message.GetConversation()
	if text == "" {
		text = evt.Message.GetExtendedTextMessage().GetText()
	}

	return Message{
		ID:       evt.Info.ID,
		Chat:     evt.Info.Chat,
		Sender:   evt.Info.Sender,
		PushName: evt.Info.PushName,
		IsGroup:  whatsapp.IsGroupJID(evt.Info.Chat),
		FromMe:   evt.Info.IsFromMe,
		Text:     text,
	}, true
}
