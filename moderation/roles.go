package moderation

import (
	"discord-modbot/model"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
)

const (
	muteRoleName       = "Muted"
	muteRoleColor      = 0x607D8B
	quarantineRoleName = "Quarantined"
	quarantineColor    = 0x992D22

	muteDeny       = discordgo.PermissionSendMessages | discordgo.PermissionVoiceSpeak | discordgo.PermissionAddReactions
	quarantineDeny = discordgo.PermissionSendMessages | discordgo.PermissionAddReactions | discordgo.PermissionVoiceSpeak
)

// ensureMuteRole returns the guild's mute role, creating and configuring it on first use.
// The result is memoized until InvalidateRoles.
func (s *Service) ensureMuteRole(g *guildState) (string, error) {
	g.roleMu.Lock()
	defer g.roleMu.Unlock()

	if id, err := s.knownMuteRole(g); err != nil || id != "" {
		return id, err
	}

	role, err := s.platform.CreateRole(g.id, muteRoleName, muteRoleColor, 0, "Auto-created mute role for AutoMod")
	if err != nil {
		return "", errors.WithMessage(err, "create mute role")
	}
	s.denyOnChannels(g.id, role.ID, muteDeny, "Mute role setup", ChannelText, ChannelVoice, ChannelStage)

	if err := s.settings.SetMuteRole(g.id, role.ID); err != nil {
		logger.WithError(err).WithField("guild", g.id).Error("failed saving mute role")
	}
	g.muteRoleID = role.ID
	return role.ID, nil
}

// muteRole returns the guild's existing mute role without creating one.
func (s *Service) muteRole(g *guildState) (string, error) {
	g.roleMu.Lock()
	defer g.roleMu.Unlock()

	id, err := s.knownMuteRole(g)
	if err == nil && id == "" {
		err = errors.WithMessage(ErrNotFound, "mute role")
	}
	return id, err
}

// knownMuteRole returns the memoized or configured mute role, "" if there is none.
// Called with g.roleMu held.
func (s *Service) knownMuteRole(g *guildState) (string, error) {
	if g.muteRoleID != "" {
		return g.muteRoleID, nil
	}
	id := s.routing(g.id).MuteRoleID
	if id == "" {
		return "", nil
	}
	exists, err := s.roleExists(g.id, id)
	if err != nil || !exists {
		return "", err
	}
	g.muteRoleID = id
	return id, nil
}

// ensureQuarantineRole finds or creates the "Quarantined" role.
func (s *Service) ensureQuarantineRole(g *guildState) (string, error) {
	g.roleMu.Lock()
	defer g.roleMu.Unlock()

	if g.quarantineRoleID != "" {
		return g.quarantineRoleID, nil
	}

	roles, err := s.platform.GuildRoles(g.id)
	if err != nil {
		return "", errors.WithMessage(err, "list roles")
	}
	for _, r := range roles {
		if r.Name == quarantineRoleName {
			g.quarantineRoleID = r.ID
			return r.ID, nil
		}
	}

	role, err := s.platform.CreateRole(g.id, quarantineRoleName, quarantineColor, discordgo.PermissionViewChannel, "Security quarantine role")
	if err != nil {
		return "", errors.WithMessage(err, "create quarantine role")
	}
	s.denyOnChannels(g.id, role.ID, quarantineDeny, "Quarantine role setup", ChannelText)

	g.quarantineRoleID = role.ID
	return role.ID, nil
}

// denyOnChannels applies deny to every channel of the given kinds. Failures on individual
// channels are logged and skipped.
func (s *Service) denyOnChannels(guildID, roleID string, deny int64, reason string, kinds ...ChannelKind) {
	channels, err := s.platform.GuildChannels(guildID)
	if err != nil {
		logger.WithError(err).WithField("guild", guildID).Warn("failed listing channels for role setup")
		return
	}
	for _, c := range channels {
		if !kindIn(c.Kind, kinds) {
			continue
		}
		if err := s.platform.DenyChannelPermissions(c.ID, roleID, deny, reason); err != nil {
			logger.WithError(err).WithField("guild", guildID).WithField("channel", c.ID).Warn("failed setting channel overwrite")
		}
	}
}

func kindIn(k ChannelKind, kinds []ChannelKind) bool {
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func (s *Service) roleExists(guildID, roleID string) (bool, error) {
	roles, err := s.platform.GuildRoles(guildID)
	if err != nil {
		return false, errors.WithMessage(err, "list roles")
	}
	for _, r := range roles {
		if r.ID == roleID {
			return true, nil
		}
	}
	return false, nil
}

// InvalidateRoles forgets the memoized mute and quarantine roles of a guild, e.g. after
// one of them was deleted.
func (s *Service) InvalidateRoles(guildID string) {
	g := s.guild(guildID)
	g.roleMu.Lock()
	g.muteRoleID = ""
	g.quarantineRoleID = ""
	g.roleMu.Unlock()
}

func (s *Service) routing(guildID string) model.GuildRouting {
	routing, err := s.settings.GuildRouting(guildID)
	if err != nil {
		logger.WithError(err).WithField("guild", guildID).Warn("failed loading guild routing")
	}
	return routing
}
