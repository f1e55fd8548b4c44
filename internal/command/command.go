package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/env"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/validation"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"
)

const (
	DefaultHandoverTarget = "243858704832"
	DefaultSettleDelay    = 2 * time.Second
	DefaultLeaveDelay     = 2 * time.Second
)

// Client is what command handlers need from the protocol connection.
type Client interface {
	SendText(ctx context.Context, chat types.JID, text string) error
	GroupInfo(ctx context.Context, group types.JID) (*types.GroupInfo, error)
	UpdateParticipants(ctx context.Context, group types.JID, participants []types.JID, action whatsmeow.ParticipantChange) error
	LeaveGroup(ctx context.Context, group types.JID) error
	OwnJID() types.JID
	OwnLID() types.JID
}

type Config struct {
	// HandoverTarget is the phone number promoted by !quit.
	HandoverTarget string
	SettleDelay    time.Duration
	LeaveDelay     time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		HandoverTarget: validation.CleanPhone(env.GetEnvStringOrDefault("HANDOVER_TARGET_NUMBER", DefaultHandoverTarget)),
		SettleDelay:    env.GetEnvDurationOrDefault("HANDOVER_SETTLE_DELAY", DefaultSettleDelay),
		LeaveDelay:     env.GetEnvDurationOrDefault("HANDOVER_LEAVE_DELAY", DefaultLeaveDelay),
	}
}

type Command struct {
	Name      string
	GroupOnly bool
	Handle    func(ctx context.Context, c Client, msg Message) error
}

// Dispatcher routes chat messages to the fixed command set.
type Dispatcher struct {
	cfg      Config
	clock    clockwork.Clock
	commands map[string]Command
}

func NewDispatcher(cfg Config, clock clockwork.Clock) *Dispatcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.HandoverTarget == "" {
		cfg.HandoverTarget = DefaultHandoverTarget
	}

	d := &Dispatcher{cfg: cfg, clock: clock}
	d.commands = make(map[string]Command)
	for _, cmd := range []Command{
		{Name: "!ping", Handle: reply(ReplyPing)},
		{Name: "!bonjour", Handle: reply(ReplyBonjour)},
		{Name: "!help", Handle: reply(ReplyHelp)},
		{Name: "!info", Handle: reply(ReplyInfo)},
		{Name: "!quit", GroupOnly: true, Handle: d.handover},
	} {
		d.commands[cmd.Name] = cmd
	}

	return d
}

func reply(text string) func(ctx context.Context, c Client, msg Message) error {
	return func(ctx context.Context, c Client, msg Message) error {
		return c.SendText(ctx, msg.Chat, text)
	}
}

// HandleEvent adapts Handle to the session manager's message callback.
func (d *Dispatcher) HandleEvent(ctx context.Context, conn whatsapp.Conn, evt *events.Message) {
	msg, ok := Parse(evt)
	if !ok {
		return
	}
	d.Handle(ctx, conn, msg)
}

// Handle logs the message and runs the command its text names, if any.
func (d *Dispatcher) Handle(ctx context.Context, c Client, msg Message) {
	origin := "privé"
	if msg.IsGroup {
		origin = "groupe"
	}

	logger := log.Command(whatsapp.MaskJID(msg.Chat.String()))
	logger.Info(fmt.Sprintf("📩 Message %s: %q", origin, log.Preview(msg.Text, 80)))

	cmd, ok := d.commands[strings.ToLower(strings.TrimSpace(msg.Text))]
	if !ok || (cmd.GroupOnly && !msg.IsGroup) {
		return
	}

	if err := cmd.Handle(ctx, c, msg); err != nil {
		logger.WithError(err).Error("❌ Erreur " + cmd.Name)
		return
	}
	logger.Info("✅ Répondu: " + cmd.Name)
}

// sleep waits d on the dispatcher clock unless ctx ends first.
func (d *Dispatcher) sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-d.clock.After(dur):
		return nil
	}
}
