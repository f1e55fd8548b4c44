package command

import (
	"context"
	"fmt"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/types"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/whatsapp"
)

type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func roleOf(p *types.GroupParticipant) Role {
	switch {
	case p == nil:
		return RoleMember
	case p.IsSuperAdmin:
		return RoleSuperAdmin
	case p.IsAdmin:
		return RoleAdmin
	default:
		return RoleMember
	}
}

// findParticipant returns the participant addressed by any of ids. Groups
// may list members by phone JID or by LID, so every form is compared.
func findParticipant(participants []types.GroupParticipant, ids ...types.JID) *types.GroupParticipant {
	for i := range participants {
		p := &participants[i]
		for _, id := range ids {
			if whatsapp.SameUser(p.JID, id) || whatsapp.SameUser(p.PhoneNumber, id) || whatsapp.SameUser(p.LID, id) {
				return p
			}
		}
	}
	return nil
}

// handover hands group administration to the configured target and
// leaves. The first failing step aborts the rest and is reported in chat.
func (d *Dispatcher) handover(ctx context.Context, c Client, msg Message) error {
	err := d.runHandover(ctx, c, msg.Chat)
	if err == nil {
		return nil
	}

	if sendErr := c.SendText(ctx, msg.Chat, ErrorPrefix+err.Error()); sendErr != nil {
		log.Command(whatsapp.MaskJID(msg.Chat.String())).WithError(sendErr).Error("Could not report !quit failure")
	}
	return err
}

func (d *Dispatcher) runHandover(ctx context.Context, c Client, group types.JID) error {
	logger := log.Command(whatsapp.MaskJID(group.String()))

	info, err := c.GroupInfo(ctx, group)
	if err != nil {
		return err
	}

	self := findParticipant(info.Participants, c.OwnJID(), c.OwnLID())
	role := roleOf(self)
	logger.Info(fmt.Sprintf("🔍 Vérification groupe %s, mon rôle: %s", info.Name, role))

	if role == RoleMember {
		if err := c.SendText(ctx, group, NoticeNotAdmin); err != nil {
			return err
		}
		return d.leave(ctx, c, group)
	}

	target := whatsapp.UserJID(d.cfg.HandoverTarget)
	targets := []types.JID{target}

	if findParticipant(info.Participants, target) == nil {
		if err := c.SendText(ctx, group, NoticeAdding); err != nil {
			return err
		}
		if err := c.UpdateParticipants(ctx, group, targets, whatsmeow.ParticipantChangeAdd); err != nil {
			return err
		}
		logger.Info("✅ Numéro ajouté au groupe")

		if err := d.sleep(ctx, d.cfg.SettleDelay); err != nil {
			return err
		}
	} else {
		logger.Info("✅ Numéro déjà dans le groupe")
	}

	if err := c.SendText(ctx, group, NoticePromoting); err != nil {
		return err
	}
	if err := c.UpdateParticipants(ctx, group, targets, whatsmeow.ParticipantChangePromote); err != nil {
		return err
	}
	logger.Info("✅ Numéro promu en admin")

	if err := c.SendText(ctx, group, NoticeFarewell); err != nil {
		return err
	}
	return d.leave(ctx, c, group)
}

func (d *Dispatcher) leave(ctx context.Context, c Client, group types.JID) error {
	if err := d.sleep(ctx, d.cfg.LeaveDelay); err != nil {
		return err
	}
	if err := c.LeaveGroup(ctx, group); err != nil {
		return err
	}
	log.Command(whatsapp.MaskJID(group.String())).Info("✅ Groupe quitté avec succès")
	return nil
}
