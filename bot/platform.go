package bot

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"discord-modbot/moderation"
	"discord-modbot/utils"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
)

// Platform implements moderation.Platform on a discordgo session.
type Platform struct {
	session *discordgo.Session
}

var _ moderation.Platform = (*Platform)(nil)

func NewPlatform(s *discordgo.Session) *Platform {
	return &Platform{session: s}
}

var notFoundCodes = map[int]bool{
	discordgo.ErrCodeUnknownChannel: true,
	discordgo.ErrCodeUnknownInvite:  true,
	discordgo.ErrCodeUnknownMember:  true,
	discordgo.ErrCodeUnknownMessage: true,
	discordgo.ErrCodeUnknownUser:    true,
	discordgo.ErrCodeUnknownBan:     true,
}

// mapError translates discord REST refusals into the moderation sentinels.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}

	var rest *discordgo.RESTError
	if errors.As(err, &rest) {
		code, status := 0, 0
		if rest.Message != nil {
			code = rest.Message.Code
		}
		if rest.Response != nil {
			status = rest.Response.StatusCode
		}
		switch {
		case code == discordgo.ErrCodeMissingPermissions || status == http.StatusForbidden:
			return errors.WithMessage(moderation.ErrPermissionDenied, op+": "+err.Error())
		case notFoundCodes[code] || status == http.StatusNotFound:
			return errors.WithMessage(moderation.ErrNotFound, op+": "+err.Error())
		}
	}
	return errors.WithMessage(err, op)
}

func (p *Platform) DeleteMessage(channelID, messageID string) error {
	return mapError(p.session.ChannelMessageDelete(channelID, messageID), "delete message")
}

func (p *Platform) SendDirectMessage(userID string, notice moderation.WarningNotice) error {
	return mapError(utils.SendPrivateEmbedMessage(p.session, userID, warningEmbed(notice)), "send direct message")
}

func (p *Platform) Timeout(guildID, userID string, until time.Time, reason string) error {
	err := p.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithAuditLogReason(reason))
	return mapError(err, "timeout member")
}

func (p *Platform) AddRole(guildID, userID, roleID, reason string) error {
	err := p.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
	return mapError(err, "add role")
}

func (p *Platform) RemoveRole(guildID, userID, roleID, reason string) error {
	err := p.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
	return mapError(err, "remove role")
}

func (p *Platform) CreateRole(guildID, name string, color int, permissions int64, reason string) (moderation.Role, error) {
	mentionable := false
	role, err := p.session.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Color:       &color,
		Permissions: &permissions,
		Mentionable: &mentionable,
	}, discordgo.WithAuditLogReason(reason))
	if err != nil {
		return moderation.Role{}, mapError(err, "create role")
	}
	return toRole(role), nil
}

func (p *Platform) GuildRoles(guildID string) ([]moderation.Role, error) {
	roles, err := p.session.GuildRoles(guildID)
	if err != nil {
		return nil, mapError(err, "list roles")
	}
	out := make([]moderation.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRole(r))
	}
	return out, nil
}

func toRole(r *discordgo.Role) moderation.Role {
	return moderation.Role{ID: r.ID, Name: r.Name, Permissions: r.Permissions}
}

func (p *Platform) GuildChannels(guildID string) ([]moderation.Channel, error) {
	channels, err := p.session.GuildChannels(guildID)
	if err != nil {
		return nil, mapError(err, "list channels")
	}
	out := make([]moderation.Channel, 0, len(channels))
	for _, c := range channels {
		out = append(out, moderation.Channel{ID: c.ID, Name: c.Name, Kind: channelKind(c.Type)})
	}
	return out, nil
}

func channelKind(t discordgo.ChannelType) moderation.ChannelKind {
	switch t {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return moderation.ChannelText
	case discordgo.ChannelTypeGuildVoice:
		return moderation.ChannelVoice
	case discordgo.ChannelTypeGuildStageVoice:
		return moderation.ChannelStage
	default:
		return moderation.ChannelOther
	}
}

func (p *Platform) DenyChannelPermissions(channelID, roleID string, deny int64, reason string) error {
	err := p.session.ChannelPermissionSet(channelID, roleID, discordgo.PermissionOverwriteTypeRole, 0, deny,
		discordgo.WithAuditLogReason(reason))
	return mapError(err, "set channel permissions")
}

func (p *Platform) EditRolePermissions(guildID, roleID string, permissions int64, reason string) error {
	_, err := p.session.GuildRoleEdit(guildID, roleID, &discordgo.RoleParams{Permissions: &permissions},
		discordgo.WithAuditLogReason(reason))
	return mapError(err, "edit role permissions")
}

func (p *Platform) Ban(guildID, userID, reason string, deleteDays int) error {
	return mapError(p.session.GuildBanCreateWithReason(guildID, userID, reason, deleteDays), "ban member")
}

func (p *Platform) Kick(guildID, userID, reason string) error {
	return mapError(p.session.GuildMemberDeleteWithReason(guildID, userID, reason), "kick member")
}

func (p *Platform) Unban(guildID, userID, reason string) error {
	return mapError(p.session.GuildBanDelete(guildID, userID, discordgo.WithAuditLogReason(reason)), "unban member")
}

func (p *Platform) ResolveInvite(code string) (string, error) {
	invite, err := p.session.Invite(code)
	if err != nil {
		return "", mapError(err, "resolve invite")
	}
	if invite.Guild == nil {
		return "", errors.WithMessage(moderation.ErrNotFound, "invite has no guild")
	}
	return invite.Guild.ID, nil
}

func (p *Platform) SetNickname(guildID, userID, nickname, reason string) error {
	err := p.session.GuildMemberNickname(guildID, userID, nickname, discordgo.WithAuditLogReason(reason))
	return mapError(err, "set nickname")
}

func (p *Platform) SendLogEntry(channelID string, entry moderation.LogEntry) error {
	_, err := p.session.ChannelMessageSendEmbed(channelID, logEntryEmbed(entry))
	return mapError(err, "send log entry")
}

func (p *Platform) SendSecurityAlert(channelID string, alert moderation.SecurityAlert) error {
	_, err := p.session.ChannelMessageSendEmbed(channelID, securityAlertEmbed(alert))
	return mapError(err, "send security alert")
}

func (p *Platform) SendActionLog(channelID string, entry moderation.ActionLog) error {
	_, err := p.session.ChannelMessageSendEmbed(channelID, actionLogEmbed(entry))
	return mapError(err, "send action log")
}

func warningEmbed(n moderation.WarningNotice) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "⚠️ " + n.Title(),
		Description: fmt.Sprintf("You received a warning in **%s**.", n.GuildName),
		Color:       utils.ColorOrange,
		Fields:      []*discordgo.MessageEmbedField{{Name: "Reason", Value: n.Reason}},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if n.ChannelName != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Channel", Value: "#" + n.ChannelName, Inline: true})
	}
	if n.NextMayMute {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Notice",
			Value: "Further violations may result in temporary mute or other penalties.",
		})
	}
	return embed
}

func logEntryEmbed(e moderation.LogEntry) *discordgo.MessageEmbed {
	content := e.Content
	if strings.TrimSpace(content) == "" {
		content = "*no text content*"
	}
	return &discordgo.MessageEmbed{
		Title: "🛡️ AutoMod Action",
		Color: utils.ColorRed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s> (%s)", e.UserID, e.UserName), Inline: true},
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", e.ChannelID), Inline: true},
			{Name: "Violation #", Value: fmt.Sprint(e.Count), Inline: true},
			{Name: "Reason", Value: e.Reason},
			{Name: "Action", Value: e.ActionTaken},
			{Name: "Content", Value: "```" + content + "```"},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "User ID: " + e.UserID},
		Timestamp: e.Timestamp.Format(time.RFC3339),
	}
}

func securityAlertEmbed(a moderation.SecurityAlert) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🚨 Security Alert",
		Color: utils.SeverityColor(string(a.Severity)),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s> (%s)", a.UserID, a.UserName), Inline: true},
			{Name: "Severity", Value: strings.ToUpper(string(a.Severity)), Inline: true},
			{Name: "Reason", Value: a.Reason},
			{Name: "Reputation", Value: fmt.Sprintf("%d/100", a.Score), Inline: true},
			{Name: "Trust Level", Value: string(a.TrustLevel), Inline: true},
			{Name: "Violations", Value: fmt.Sprint(a.ViolationCount), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "User ID: " + a.UserID},
		Timestamp: a.Timestamp.Format(time.RFC3339),
	}
}

var actionTitles = map[string]string{
	"lockdown_initiated": "🔒 Server Lockdown Initiated",
	"lockdown_lifted":    "🔓 Server Lockdown Lifted",
	"quarantine":         "🚧 Member Quarantined",
	"unquarantine":       "✅ Member Released From Quarantine",
	"trust_level":        "🔧 Trust Level Changed",
	"warn":               "⚠️ Member Warned",
	"kick":               "👢 Member Kicked",
}

func actionLogEmbed(e moderation.ActionLog) *discordgo.MessageEmbed {
	title, ok := actionTitles[e.Action]
	if !ok {
		title = "Security Action: " + e.Action
	}
	embed := &discordgo.MessageEmbed{
		Title:     title,
		Color:     utils.ColorBlue,
		Fields:    []*discordgo.MessageEmbedField{{Name: "Reason", Value: e.Reason}},
		Timestamp: e.Timestamp.Format(time.RFC3339),
	}
	if e.TargetID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Member", Value: "<@" + e.TargetID + ">", Inline: true})
	}
	if e.IncidentID != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Incident " + e.IncidentID}
	}
	return embed
}
