package handlers

import (
	"time"

	"discord-modbot/bot"
	"discord-modbot/moderation"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
)

// flattenMessage converts a gateway message into what the moderation core reads. Guild and
// channel names and the author's permissions come from the state cache when present.
func flattenMessage(st *discordgo.State, m *discordgo.Message) *moderation.Message {
	msg := &moderation.Message{
		ID:           m.ID,
		GuildID:      m.GuildID,
		ChannelID:    m.ChannelID,
		Content:      m.Content,
		Timestamp:    m.Timestamp,
		UserMentions: len(m.Mentions),
		RoleMentions: len(m.MentionRoles),
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
		msg.AuthorIsBot = m.Author.Bot
	}
	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, a.Filename)
	}

	if st == nil {
		return msg
	}
	if g, err := st.Guild(m.GuildID); err == nil {
		msg.GuildName = g.Name
	}
	if c, err := st.Channel(m.ChannelID); err == nil {
		msg.ChannelName = c.Name
	}
	msg.AuthorIsAdmin = utils.IsAdministrator(authorPermissions(st, m))
	return msg
}

func authorPermissions(st *discordgo.State, m *discordgo.Message) int64 {
	if perms, err := st.MessagePermissions(m); err == nil {
		return perms
	}
	if m.Author == nil {
		return 0
	}
	perms, err := st.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		return 0
	}
	return perms
}

func flattenMember(guildID string, m *discordgo.Member) *moderation.Member {
	out := &moderation.Member{
		GuildID:  guildID,
		JoinedAt: m.JoinedAt,
	}
	if m.User == nil {
		return out
	}
	out.UserID = m.User.ID
	out.Username = m.User.Username
	out.DisplayName = m.DisplayName()
	out.HasAvatar = m.User.Avatar != ""
	out.IsBot = m.User.Bot
	if created, err := discordgo.SnowflakeTimestamp(m.User.ID); err == nil {
		out.CreatedAt = created
	}
	return out
}

func onMessageCreate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		svc := b.Moderation()
		if svc == nil || m.GuildID == "" || m.Author == nil {
			return
		}
		svc.HandleMessage(flattenMessage(s.State, m.Message))
	}
}

func onMessageUpdate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageUpdate) {
	return func(s *discordgo.Session, m *discordgo.MessageUpdate) {
		svc := b.Moderation()
		if svc == nil || m.GuildID == "" || m.Author == nil {
			return
		}
		before := ""
		if m.BeforeUpdate != nil {
			before = m.BeforeUpdate.Content
		} else if m.EditedTimestamp == nil {
			// embed unfurl, not a user edit
			return
		}
		svc.HandleMessageEdit(before, flattenMessage(s.State, m.Message))
		sendEventLog(s, b, m.GuildID, messageEditEmbed(m.BeforeUpdate, m.Message, time.Now()))
	}
}

func onMessageDelete(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageDelete) {
	return func(s *discordgo.Session, m *discordgo.MessageDelete) {
		if m.GuildID == "" {
			return
		}
		sendEventLog(s, b, m.GuildID, messageDeleteEmbed(m.BeforeDelete, time.Now()))
	}
}

func onMemberAdd(b *bot.Bot) func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	return func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m.Member == nil {
			return
		}
		if svc := b.Moderation(); svc != nil {
			svc.HandleMemberJoin(flattenMember(m.GuildID, m.Member))
		}
		sendEventLog(s, b, m.GuildID, memberJoinEmbed(m.Member, time.Now()))
	}
}

func onMemberRemove(b *bot.Bot) func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	return func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		if m.Member != nil {
			sendEventLog(s, b, m.GuildID, memberLeaveEmbed(m.Member, time.Now()))
		}
	}
}

func onMemberUpdate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	return func(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
		svc := b.Moderation()
		if svc == nil || m.Member == nil || m.User == nil {
			return
		}
		before := ""
		if m.BeforeUpdate != nil && m.BeforeUpdate.User != nil {
			before = m.BeforeUpdate.DisplayName()
		}
		svc.HandleMemberUpdate(before, flattenMember(m.GuildID, m.Member))
		for _, embed := range memberChangeEmbeds(m.BeforeUpdate, m.Member, time.Now()) {
			sendEventLog(s, b, m.GuildID, embed)
		}
	}
}

func onRoleDelete(b *bot.Bot) func(s *discordgo.Session, r *discordgo.GuildRoleDelete) {
	return func(s *discordgo.Session, r *discordgo.GuildRoleDelete) {
		if svc := b.Moderation(); svc != nil {
			svc.InvalidateRoles(r.GuildID)
		}
		sendEventLog(s, b, r.GuildID, roleDeleteEmbed(r.RoleID, time.Now()))
	}
}

func onRoleCreate(b *bot.Bot) func(s *discordgo.Session, r *discordgo.GuildRoleCreate) {
	return func(s *discordgo.Session, r *discordgo.GuildRoleCreate) {
		if r.GuildRole != nil {
			sendEventLog(s, b, r.GuildID, roleCreateEmbed(r.Role, time.Now()))
		}
	}
}

func onChannelCreate(b *bot.Bot) func(s *discordgo.Session, c *discordgo.ChannelCreate) {
	return func(s *discordgo.Session, c *discordgo.ChannelCreate) {
		if c.Channel != nil {
			sendEventLog(s, b, c.GuildID, channelEventEmbed(c.Channel, true, time.Now()))
		}
	}
}

func onChannelDelete(b *bot.Bot) func(s *discordgo.Session, c *discordgo.ChannelDelete) {
	return func(s *discordgo.Session, c *discordgo.ChannelDelete) {
		if c.Channel != nil {
			sendEventLog(s, b, c.GuildID, channelEventEmbed(c.Channel, false, time.Now()))
		}
	}
}
