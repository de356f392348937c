package utils

import (
	"github.com/bwmarrin/discordgo"
)

// SendPrivateEmbedMessage sends a direct message with an embed to a user.
func SendPrivateEmbedMessage(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) error {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendEmbed(channel.ID, embed)
	return err
}
